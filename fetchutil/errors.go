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
	"errors"
	netURL "net/url"
	"strings"
)

// Kinds of fetch failures. Every error returned by this package wraps exactly
// one of them, use errors.Is to tell them apart.
var (
	ErrInvalidURL        = errors.New("invalid URL")
	ErrUnsupportedScheme = errors.New("unsupported scheme")
	ErrConnectFailed     = errors.New("failed to connect")
	ErrRequestFailed     = errors.New("request failed")
	ErrReadFailed        = errors.New("failed to read")
	ErrRetrieveFailed    = errors.New("failed to retrieve")
	ErrCloseFailed       = errors.New("failed to close connection")
	ErrNotFound          = errors.New("file does not exist")
	ErrOpenFailed        = errors.New("failed to open file")
)

// Error describes a failed fetch.
type Error struct {
	// Kind is one of the Err* values declared in this package.
	Kind error

	// Subject is the URL, address, path or scheme the failure refers to.
	// URLs are redacted.
	Subject string

	// Err is the underlying cause, if any.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString("fetchutil: ")
	b.WriteString(e.Kind.Error())
	if e.Subject != "" {
		b.WriteString(": ")
		b.WriteString(e.Subject)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

// Unwrap returns the kind and the cause of the error.
func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// redactURL hides the password of a URL for use in logs and errors.
func redactURL(rawURL string) string {
	uri, err := netURL.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	return uri.Redacted()
}

var errFTPMissingHost = errors.New("missing host")

func errInvalidURLFn(subject string, err error) error {
	return &Error{Kind: ErrInvalidURL, Subject: subject, Err: err}
}

func errUnsupportedSchemeFn(scheme string) error {
	return &Error{Kind: ErrUnsupportedScheme, Subject: scheme}
}

func errConnectFailedFn(addr string, err error) error {
	return &Error{Kind: ErrConnectFailed, Subject: addr, Err: err}
}

func errRequestFailedFn(subject string, err error) error {
	return &Error{Kind: ErrRequestFailed, Subject: subject, Err: err}
}

func errReadFailedFn(subject string, err error) error {
	return &Error{Kind: ErrReadFailed, Subject: subject, Err: err}
}

func errRetrieveFailedFn(subject string, err error) error {
	return &Error{Kind: ErrRetrieveFailed, Subject: subject, Err: err}
}

func errCloseFailedFn(addr string, err error) error {
	return &Error{Kind: ErrCloseFailed, Subject: addr, Err: err}
}

func errNotFoundFn(path string, err error) error {
	return &Error{Kind: ErrNotFound, Subject: path, Err: err}
}

func errOpenFailedFn(path string, err error) error {
	return &Error{Kind: ErrOpenFailed, Subject: path, Err: err}
}
