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

package fetchutil

import (
	"bytes"
	"context"
	"crypto/tls"
	"errors"
	"io"
	"net"
	netURL "net/url"
	"time"

	"github.com/jlaffaye/ftp"

	"github.com/chronicleprotocol/go-fetch/errutil"
)

const (
	defaultFTPPort          = "21"
	defaultFTPAnonymousUser = "anonymous"
)

// WithFTP enables or disables FTP support. If disabled, "ftp" and "ftps"
// identifiers fail with ErrUnsupportedScheme. Enabled by default.
func WithFTP(enabled bool) Option {
	return func(c *Client) {
		c.ftpEnabled = enabled
	}
}

// WithFTPTimeout sets the timeout for establishing FTP control and data
// connections.
func WithFTPTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.ftpTimeout = timeout
	}
}

// WithFTPTLSConfig sets the TLS configuration used to secure FTP
// connections. If ServerName is empty, the host from the URL is used.
func WithFTPTLSConfig(cfg *tls.Config) Option {
	return func(c *Client) {
		c.ftpTLSConfig = cfg
	}
}

// WithFTPAnonymousUser sets the user name sent when the URL has none.
// The default is "anonymous".
func WithFTPAnonymousUser(user string) Option {
	return func(c *Client) {
		c.ftpAnonymousUser = user
	}
}

// ftpSession is an established FTP control connection.
type ftpSession interface {
	Login(user, password string) error
	Retrieve(path string) ([]byte, error)
	Quit() error
}

// ftpDialer opens FTP sessions. If tlsConfig is not nil, the control
// connection must be upgraded with AUTH TLS before the session is returned.
// Every call opens a new connection.
type ftpDialer interface {
	Dial(ctx context.Context, addr string, tlsConfig *tls.Config) (ftpSession, error)
}

// FetchFTP downloads a file from an FTP server.
//
// The connection is secured with TLS if the server supports it, otherwise
// the file is downloaded over a new unencrypted connection. Credentials are
// taken from the URL. A failed login is logged, but does not stop the
// download. The data is returned only if the session is closed cleanly.
func (c *Client) FetchFTP(ctx context.Context, url string) ([]byte, error) {
	uri, err := netURL.Parse(url)
	if err != nil {
		return nil, errInvalidURLFn("", err)
	}
	subject := uri.Redacted()
	host := uri.Hostname()
	if host == "" {
		return nil, errInvalidURLFn(subject, errFTPMissingHost)
	}
	port := uri.Port()
	if port == "" {
		port = defaultFTPPort
	}
	addr := net.JoinHostPort(host, port)

	session, err := c.ftpConnect(ctx, addr, host)
	if err != nil {
		return nil, err
	}

	user, password := c.ftpCredentials(uri)
	if err := session.Login(user, password); err != nil {
		c.log.Warn().
			Err(err).
			Str("addr", addr).
			Str("user", user).
			Msg("FTP login failed, continuing")
	}

	data, err := session.Retrieve(ftpPath(uri))
	if err != nil {
		// Release the connection, the retrieve error is the one reported.
		_ = session.Quit()
		return nil, errRetrieveFailedFn(subject, err)
	}
	if err := session.Quit(); err != nil {
		return nil, errCloseFailedFn(addr, err)
	}
	return data, nil
}

// ftpConnect opens a TLS session and falls back to a new plaintext session
// if the upgrade fails. If the server cannot be reached or rejects the
// connection before the upgrade, there is no fallback.
func (c *Client) ftpConnect(ctx context.Context, addr, host string) (ftpSession, error) {
	session, err := c.ftpDialer.Dial(ctx, addr, c.ftpTLS(host))
	if err == nil {
		return session, nil
	}
	if isConnectError(err) {
		return nil, errConnectFailedFn(addr, err)
	}
	c.log.Warn().
		Err(err).
		Str("addr", addr).
		Msg("Failed to secure FTP connection, attempting unsecured connection")
	session, plainErr := c.ftpDialer.Dial(ctx, addr, nil)
	if plainErr != nil {
		return nil, errConnectFailedFn(addr, errutil.Append(err, plainErr))
	}
	return session, nil
}

func (c *Client) ftpTLS(host string) *tls.Config {
	var cfg *tls.Config
	if c.ftpTLSConfig != nil {
		cfg = c.ftpTLSConfig.Clone()
	} else {
		cfg = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	if cfg.ServerName == "" {
		cfg.ServerName = host
	}
	return cfg
}

func (c *Client) ftpCredentials(uri *netURL.URL) (user, password string) {
	if uri.User != nil {
		user = uri.User.Username()
		password, _ = uri.User.Password()
	}
	if user == "" {
		user = c.ftpAnonymousUser
	}
	return user, password
}

func ftpPath(uri *netURL.URL) string {
	if uri.Path == "" {
		return "/"
	}
	return uri.Path
}

// ftpGreetingError is returned by ftpDialer if the connection failed before
// the server greeting was accepted.
type ftpGreetingError struct {
	err error
}

func (e *ftpGreetingError) Error() string {
	return e.err.Error()
}

func (e *ftpGreetingError) Unwrap() error {
	return e.err
}

// isConnectError reports whether err comes from establishing the
// connection, as opposed to the TLS upgrade that follows it.
func isConnectError(err error) bool {
	if _, ok := errutil.As[*ftpGreetingError](err); ok {
		return true
	}
	var opErr *net.OpError
	return errors.As(err, &opErr) && opErr.Op == "dial"
}

// upgradeWatch receives a copy of the control connection traffic and
// records whether the greeting was accepted and AUTH TLS sent.
type upgradeWatch struct {
	requested bool
}

func (w *upgradeWatch) Write(p []byte) (int, error) {
	if bytes.HasPrefix(p, []byte("AUTH ")) {
		w.requested = true
	}
	return len(p), nil
}

// serverDialer connects to real FTP servers.
type serverDialer struct {
	timeout time.Duration
}

// Dial implements the ftpDialer interface.
func (d *serverDialer) Dial(ctx context.Context, addr string, tlsConfig *tls.Config) (ftpSession, error) {
	opts := []ftp.DialOption{ftp.DialWithContext(ctx)}
	if d.timeout > 0 {
		opts = append(opts, ftp.DialWithTimeout(d.timeout))
	}
	watch := &upgradeWatch{}
	if tlsConfig != nil {
		opts = append(opts,
			ftp.DialWithExplicitTLS(tlsConfig),
			ftp.DialWithDebugOutput(watch),
		)
	}
	conn, err := ftp.Dial(addr, opts...)
	if err != nil {
		if !watch.requested {
			return nil, &ftpGreetingError{err: err}
		}
		return nil, err
	}
	if tlsConfig != nil {
		// The TLS handshake runs on the first command after AUTH TLS.
		if err := conn.NoOp(); err != nil {
			_ = conn.Quit()
			return nil, err
		}
	}
	return &serverSession{conn: conn}, nil
}

type serverSession struct {
	conn *ftp.ServerConn
}

func (s *serverSession) Login(user, password string) error {
	return s.conn.Login(user, password)
}

func (s *serverSession) Retrieve(path string) ([]byte, error) {
	res, err := s.conn.Retr(path)
	if err != nil {
		return nil, err
	}
	b, err := io.ReadAll(res)
	if cErr := res.Close(); err == nil {
		err = cErr
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (s *serverSession) Quit() error {
	return s.conn.Quit()
}
