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
	"io"
	"net/http"
	"time"
)

// WithHTTPClient sets the HTTP client used to perform HTTP requests.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.httpClient = client
	}
}

// WithHTTPTimeout sets a time limit for HTTP requests, including reading
// the response body. The HTTP client is copied, the client passed to
// WithHTTPClient is not modified.
func WithHTTPTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpTimeout = timeout
	}
}

// FetchHTTP performs a GET request and returns the response body.
//
// The response status is not checked, the body of an error response is
// returned like any other.
func (c *Client) FetchHTTP(ctx context.Context, url string) ([]byte, error) {
	subject := redactURL(url)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errRequestFailedFn(subject, err)
	}
	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errRequestFailedFn(subject, err)
	}
	defer res.Body.Close()
	c.log.Debug().
		Str("url", subject).
		Int("status", res.StatusCode).
		Msg("Received HTTP response")
	b, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, errReadFailedFn(subject, err)
	}
	return b, nil
}
