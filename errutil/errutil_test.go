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
	"fmt"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppend(t *testing.T) {
	errA := errors.New("a")
	errB := errors.New("b")
	errC := errors.New("c")
	tc := []struct {
		name    string
		err     error
		errs    []error
		wantNil bool
		wantMsg string
		wantLen int
	}{
		{
			name:    "all nil",
			wantNil: true,
		},
		{
			name:    "nil base and nil appended",
			errs:    []error{nil, nil},
			wantNil: true,
		},
		{
			name:    "single base",
			err:     errA,
			wantMsg: "a",
		},
		{
			name:    "single appended",
			errs:    []error{nil, errB},
			wantMsg: "b",
		},
		{
			name:    "two errors",
			err:     errA,
			errs:    []error{errB},
			wantMsg: "a; b",
			wantLen: 2,
		},
		{
			name:    "flatten",
			err:     MultiError{errA, errB},
			errs:    []error{MultiError{errC}},
			wantMsg: "a; b; c",
			wantLen: 3,
		},
	}
	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			err := Append(tt.err, tt.errs...)
			if tt.wantNil {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tt.wantMsg, err.Error())
			if tt.wantLen > 0 {
				m, ok := err.(MultiError) //nolint:errorlint
				require.True(t, ok)
				assert.Len(t, m, tt.wantLen)
			}
		})
	}
}

func TestMultiErrorIs(t *testing.T) {
	errA := errors.New("a")
	err := Append(errA, fmt.Errorf("wrapped: %w", fs.ErrNotExist))
	assert.ErrorIs(t, err, errA)
	assert.ErrorIs(t, err, fs.ErrNotExist)
	assert.NotErrorIs(t, err, fs.ErrPermission)
}

type codeError struct{ code int }

func (e *codeError) Error() string { return fmt.Sprintf("code %d", e.code) }

func TestAs(t *testing.T) {
	err := Append(errors.New("a"), fmt.Errorf("b: %w", &codeError{code: 2}))

	ce, ok := As[*codeError](err)
	require.True(t, ok)
	assert.Equal(t, 2, ce.code)

	_, ok = As[*codeError](errors.New("plain"))
	assert.False(t, ok)
}
