// Copyright (C) 2021-2025 Chronicle Labs, Inc.
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

// fetch retrieves a resource identified by a URL or a file path and writes
// its contents to stdout or to a file.
//
//	fetch https://example.com/data.json
//	fetch -o index.html ftp://ftp.example.com/pub/index.html
//	fetch -c fetch.hcl /etc/hosts
package main

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog"
	"github.com/spf13/pflag"

	"github.com/chronicleprotocol/go-fetch/config"
	"github.com/chronicleprotocol/go-fetch/errutil"
	"github.com/chronicleprotocol/go-fetch/fetchutil"
)

const (
	exitFetchFailed = 1
	exitUsage       = 2
)

type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }
func (e *exitError) ExitCode() int { return e.code }

func usageErrorf(format string, args ...any) error {
	return &exitError{code: exitUsage, err: fmt.Errorf(format, args...)}
}

// fetchExitCode reports identifiers that can never be fetched as usage
// errors.
func fetchExitCode(err error) int {
	fErr, ok := errutil.As[*fetchutil.Error](err)
	if !ok {
		return exitFetchFailed
	}
	switch fErr.Kind {
	case fetchutil.ErrInvalidURL, fetchutil.ErrUnsupportedScheme:
		return exitUsage
	default:
		return exitFetchFailed
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		if exitErr, ok := errutil.As[*exitError](err); ok {
			os.Exit(exitErr.ExitCode())
		}
		os.Exit(exitFetchFailed)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	var (
		configPath  string
		outputPath  string
		logLevel    string
		noFTP       bool
		ftpInsecure bool
		httpTimeout time.Duration
		ftpTimeout  time.Duration
		timeout     time.Duration
	)

	flagSet := pflag.NewFlagSet("fetch", pflag.ContinueOnError)
	flagSet.SetOutput(stderr)
	flagSet.StringVarP(&configPath, "config", "c", "", "path to an HCL or YAML configuration file")
	flagSet.StringVarP(&outputPath, "output", "o", "", "write the contents to this file instead of stdout")
	flagSet.StringVar(&logLevel, "log-level", "warn", "log level (trace, debug, info, warn, error)")
	flagSet.BoolVar(&noFTP, "no-ftp", false, "treat ftp and ftps URLs as unsupported")
	flagSet.BoolVar(&ftpInsecure, "ftp-insecure", false, "skip TLS certificate verification for FTP")
	flagSet.DurationVar(&httpTimeout, "http-timeout", 0, "HTTP request timeout")
	flagSet.DurationVar(&ftpTimeout, "ftp-timeout", 0, "FTP dial timeout")
	flagSet.DurationVar(&timeout, "timeout", 0, "overall timeout for the fetch")
	flagSet.Usage = func() {
		fmt.Fprintf(stderr, "Usage: fetch [flags] <url-or-path>\n\nFlags:\n")
		flagSet.PrintDefaults()
	}

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return &exitError{code: exitUsage, err: err}
	}
	if flagSet.NArg() != 1 {
		flagSet.Usage()
		return usageErrorf("expected exactly one URL or path, got %d", flagSet.NArg())
	}
	identifier := flagSet.Arg(0)

	level, err := zerolog.ParseLevel(logLevel)
	if err != nil {
		return usageErrorf("invalid log level %q: %w", logLevel, err)
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: stderr, TimeFormat: time.RFC3339}).
		Level(level).
		With().
		Timestamp().
		Logger()

	opts := []fetchutil.Option{fetchutil.WithLogger(logger)}
	if configPath != "" {
		cfg, err := config.Load(configPath)
		if err != nil {
			return usageErrorf("%w", err)
		}
		cfgOpts, err := cfg.Options()
		if err != nil {
			return usageErrorf("%w", err)
		}
		opts = append(opts, cfgOpts...)
	}

	// Flags override the configuration file.
	if noFTP {
		opts = append(opts, fetchutil.WithFTP(false))
	}
	if ftpInsecure {
		opts = append(opts, fetchutil.WithFTPTLSConfig(&tls.Config{
			MinVersion:         tls.VersionTLS12,
			InsecureSkipVerify: true, //nolint:gosec
		}))
	}
	if httpTimeout > 0 {
		opts = append(opts, fetchutil.WithHTTPTimeout(httpTimeout))
	}
	if ftpTimeout > 0 {
		opts = append(opts, fetchutil.WithFTPTimeout(ftpTimeout))
	}

	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	start := time.Now()
	data, err := fetchutil.New(opts...).Fetch(ctx, identifier)
	if err != nil {
		return &exitError{code: fetchExitCode(err), err: err}
	}
	logger.Info().
		Str("size", humanize.Bytes(uint64(len(data)))).
		Dur("elapsed", time.Since(start)).
		Msg("Fetched resource")

	if outputPath == "" {
		_, err = stdout.Write(data)
		return err
	}
	if err := os.WriteFile(outputPath, data, 0o644); err != nil { //nolint:gosec
		return fmt.Errorf("unable to write %s: %w", outputPath, err)
	}
	return nil
}
