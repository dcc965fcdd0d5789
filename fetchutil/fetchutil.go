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
	"context"
	"crypto/tls"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

type Option func(*Client)

// WithLogger sets the logger used by the client. Nothing is logged by
// default.
func WithLogger(log zerolog.Logger) Option {
	return func(c *Client) {
		c.log = log
	}
}

// Client fetches resources by their identifier.
//
// A Client holds only configuration, every call opens its own connections
// and files, and releases them before returning. It is safe for concurrent
// use.
type Client struct {
	log zerolog.Logger

	httpClient  *http.Client
	httpTimeout time.Duration

	ftpEnabled       bool
	ftpTimeout       time.Duration
	ftpTLSConfig     *tls.Config
	ftpAnonymousUser string
	ftpDialer        ftpDialer

	workingDir string
}

// New creates a new client. Without options the client uses
// http.DefaultClient, has FTP support enabled and resolves file paths
// relative to the process working directory.
func New(opts ...Option) *Client {
	c := &Client{
		log:        zerolog.Nop(),
		ftpEnabled: true,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.httpClient == nil {
		c.httpClient = http.DefaultClient
	}
	if c.httpTimeout > 0 {
		hc := *c.httpClient
		hc.Timeout = c.httpTimeout
		c.httpClient = &hc
	}
	if c.ftpAnonymousUser == "" {
		c.ftpAnonymousUser = defaultFTPAnonymousUser
	}
	if c.ftpDialer == nil {
		c.ftpDialer = &serverDialer{timeout: c.ftpTimeout}
	}
	return c
}

// Fetch returns the full contents of the resource named by identifier.
//
// On success the returned slice is non-nil and the error is nil. On failure
// the slice is nil and the error is an *Error.
func (c *Client) Fetch(ctx context.Context, identifier string) ([]byte, error) {
	r := c.Route(identifier)
	c.log.Debug().
		Str("identifier", r.redacted()).
		Stringer("route", r.Kind).
		Msg("Fetching resource")
	switch r.Kind {
	case RouteHTTP:
		return c.FetchHTTP(ctx, r.Target)
	case RouteFTP:
		return c.FetchFTP(ctx, r.Target)
	case RouteFile:
		return c.FetchFile(ctx, r.Target)
	default:
		return nil, errUnsupportedSchemeFn(r.Scheme)
	}
}

var defaultClient = New()

// Fetch returns the full contents of the resource named by identifier using
// a client with default settings.
func Fetch(ctx context.Context, identifier string) ([]byte, error) {
	return defaultClient.Fetch(ctx, identifier)
}
