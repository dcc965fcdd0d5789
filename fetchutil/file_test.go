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
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chronicleprotocol/go-fetch/errutil"
)

func TestFetchFile(t *testing.T) {
	ctx := context.Background()
	tc := []struct {
		name        string
		opts        []Option
		path        string
		wantData    []byte
		wantErr     error
		wantSubject string
	}{
		{
			name:     "relative path",
			path:     "testdata/test.txt",
			wantData: []byte("test content"),
		},
		{
			name:     "dot relative path",
			path:     "./testdata/test.txt",
			wantData: []byte("test content"),
		},
		{
			name:     "leading separator stripped",
			path:     "/testdata/test.txt",
			wantData: []byte("test content"),
		},
		{
			name:        "only one separator stripped",
			path:        "//testdata/test.txt",
			wantErr:     ErrNotFound,
			wantSubject: "/testdata/test.txt",
		},
		{
			name:     "empty file",
			path:     "testdata/empty.txt",
			wantData: []byte{},
		},
		{
			name:        "missing file",
			path:        "/nonexistent/path",
			wantErr:     ErrNotFound,
			wantSubject: "nonexistent/path",
		},
		{
			name:        "empty path",
			path:        "",
			wantErr:     ErrNotFound,
			wantSubject: "",
		},
		{
			name:        "directory",
			path:        "testdata/dir",
			wantErr:     ErrReadFailed,
			wantSubject: "testdata/dir",
		},
		{
			name:     "working dir",
			opts:     []Option{WithFileWorkingDir("testdata")},
			path:     "/dir/nested.txt",
			wantData: []byte("nested content\n"),
		},
		{
			name:        "working dir missing file",
			opts:        []Option{WithFileWorkingDir("testdata")},
			path:        "/test2.txt",
			wantErr:     ErrNotFound,
			wantSubject: filepath.Join("testdata", "test2.txt"),
		},
	}
	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			data, err := New(tt.opts...).FetchFile(ctx, tt.path)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, data)
				fErr, ok := errutil.As[*Error](err)
				require.True(t, ok)
				assert.Equal(t, tt.wantSubject, fErr.Subject)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, data)
			assert.Equal(t, tt.wantData, data)
		})
	}
}

func TestFetchFileNotExistIsFSError(t *testing.T) {
	_, err := New().FetchFile(context.Background(), "testdata/missing.txt")
	require.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, err, fs.ErrNotExist)
	assert.Contains(t, err.Error(), "testdata/missing.txt")
}

func TestFetchFileOpenFailed(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("permissions are not enforced for root")
	}
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "secret.txt"), []byte("secret"), 0o000))

	_, err := New(WithFileWorkingDir(dir)).FetchFile(context.Background(), "secret.txt")
	require.ErrorIs(t, err, ErrOpenFailed)
	assert.ErrorIs(t, err, fs.ErrPermission)
}
