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

// Package config loads fetch client settings from a file.
//
// HCL files may reference environment variables through the "env" object:
//
//	ftp {
//	  timeout        = "10s"
//	  anonymous_user = env.FTP_USER
//	}
//
// Files with the ".yaml" or ".yml" extension are decoded as YAML, using the
// same attribute names.
package config

import (
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"gopkg.in/yaml.v3"

	"github.com/chronicleprotocol/go-fetch/fetchutil"
)

// envObjectName is the name of the object holding environment variables.
const envObjectName = "env"

type Config struct {
	HTTP *HTTPConfig `hcl:"http,block" yaml:"http"`
	FTP  *FTPConfig  `hcl:"ftp,block" yaml:"ftp"`
	File *FileConfig `hcl:"file,block" yaml:"file"`
}

type HTTPConfig struct {
	// Timeout limits the duration of a request, e.g. "30s".
	Timeout string `hcl:"timeout,optional" yaml:"timeout"`
}

type FTPConfig struct {
	Enabled            *bool  `hcl:"enabled,optional" yaml:"enabled"`
	Timeout            string `hcl:"timeout,optional" yaml:"timeout"`
	AnonymousUser      string `hcl:"anonymous_user,optional" yaml:"anonymous_user"`
	InsecureSkipVerify bool   `hcl:"insecure_skip_verify,optional" yaml:"insecure_skip_verify"`
}

type FileConfig struct {
	WorkingDir string `hcl:"working_dir,optional" yaml:"working_dir"`
}

// Load reads the configuration file at path.
func Load(path string) (*Config, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return loadYAML(path)
	default:
		return loadHCL(path)
	}
}

func loadHCL(path string) (*Config, error) {
	file, diags := hclparse.NewParser().ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, errConfigFn(path, diags)
	}
	var cfg Config
	if diags := gohcl.DecodeBody(file.Body, evalContext(), &cfg); diags.HasErrors() {
		return nil, errConfigFn(path, diags)
	}
	return &cfg, nil
}

func loadYAML(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errConfigFn(path, err)
	}
	defer f.Close()
	var cfg Config
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, errConfigFn(path, err)
	}
	return &cfg, nil
}

// evalContext exposes the environment variables to HCL expressions.
func evalContext() *hcl.EvalContext {
	env := make(map[string]cty.Value)
	for _, kv := range os.Environ() {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || k == "" {
			continue
		}
		env[k] = cty.StringVal(v)
	}
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			envObjectName: cty.ObjectVal(env),
		},
	}
}

// Options converts the configuration into client options. Settings that
// are not present in the configuration are left at their defaults.
func (c *Config) Options() ([]fetchutil.Option, error) {
	var opts []fetchutil.Option
	if c.HTTP != nil {
		timeout, err := parseDuration("http.timeout", c.HTTP.Timeout)
		if err != nil {
			return nil, err
		}
		if timeout > 0 {
			opts = append(opts, fetchutil.WithHTTPTimeout(timeout))
		}
	}
	if c.FTP != nil {
		if c.FTP.Enabled != nil {
			opts = append(opts, fetchutil.WithFTP(*c.FTP.Enabled))
		}
		timeout, err := parseDuration("ftp.timeout", c.FTP.Timeout)
		if err != nil {
			return nil, err
		}
		if timeout > 0 {
			opts = append(opts, fetchutil.WithFTPTimeout(timeout))
		}
		if c.FTP.AnonymousUser != "" {
			opts = append(opts, fetchutil.WithFTPAnonymousUser(c.FTP.AnonymousUser))
		}
		if c.FTP.InsecureSkipVerify {
			opts = append(opts, fetchutil.WithFTPTLSConfig(&tls.Config{
				MinVersion:         tls.VersionTLS12,
				InsecureSkipVerify: true, //nolint:gosec
			}))
		}
	}
	if c.File != nil && c.File.WorkingDir != "" {
		opts = append(opts, fetchutil.WithFileWorkingDir(c.File.WorkingDir))
	}
	return opts, nil
}

func parseDuration(name, s string) (time.Duration, error) {
	if s == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("config: invalid %s: %w", name, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("config: invalid %s: negative duration", name)
	}
	return d, nil
}

func errConfigFn(path string, err error) error {
	return fmt.Errorf("config: %s: %w", path, err)
}
