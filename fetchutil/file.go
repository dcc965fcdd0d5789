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
	"os"
	"path/filepath"
	"strings"
)

// WithFileWorkingDir sets the directory file paths are resolved against.
// By default, paths are resolved against the process working directory.
func WithFileWorkingDir(wd string) Option {
	return func(c *Client) {
		c.workingDir = wd
	}
}

// FetchFile reads the whole file at the given path.
//
// One leading "/" is removed from the path before it is resolved, so
// absolute-looking paths, like those taken from "file" URLs, are relative to
// the working directory.
func (c *Client) FetchFile(_ context.Context, path string) ([]byte, error) {
	path = c.filePath(path)
	c.log.Debug().Str("path", path).Msg("Reading file")
	if _, err := os.Stat(path); err != nil {
		return nil, errNotFoundFn(path, err)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, errOpenFailedFn(path, err)
	}
	defer f.Close()
	b, err := io.ReadAll(f)
	if err != nil {
		return nil, errReadFailedFn(path, err)
	}
	return b, nil
}

func (c *Client) filePath(path string) string {
	path = strings.TrimPrefix(path, "/")
	if c.workingDir == "" {
		return path
	}
	return filepath.Join(c.workingDir, path)
}
