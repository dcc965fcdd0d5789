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

package errutil

import (
	"errors"
	"strings"
)

// Append appends errs to err and returns the result.
//
// Nil errors are skipped and MultiErrors are flattened. If nothing is left,
// nil is returned. If a single error is left, it is returned as is.
func Append(err error, errs ...error) error {
	var m MultiError
	for _, e := range append([]error{err}, errs...) {
		switch e := e.(type) { //nolint:errorlint
		case nil:
		case MultiError:
			m = append(m, e...)
		default:
			m = append(m, e)
		}
	}
	switch len(m) {
	case 0:
		return nil
	case 1:
		return m[0]
	}
	return m
}

// MultiError is a list of errors that occurred together, for example when
// an operation and its fallback both fail.
type MultiError []error

// Error implements the error interface.
func (m MultiError) Error() string {
	s := make([]string, len(m))
	for i, err := range m {
		s[i] = err.Error()
	}
	return strings.Join(s, "; ")
}

// Unwrap allows errors.Is and errors.As to inspect every error in the list.
func (m MultiError) Unwrap() []error {
	return m
}

// As finds the first error in err's tree that matches type T.
func As[T error](err error) (target T, ok bool) {
	ok = errors.As(err, &target)
	return
}
