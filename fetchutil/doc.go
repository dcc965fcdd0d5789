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

// Package fetchutil retrieves the full contents of a resource named by a
// string, regardless of whether it lives on an HTTP server, an FTP server or
// the local filesystem.
//
// The identifier is routed by its URL scheme:
//
//   - "http" and "https" URLs are fetched with a single GET request,
//   - "ftp" and "ftps" URLs are fetched over FTP, upgraded to TLS when the
//     server supports it,
//   - "file" URLs and strings that are not absolute URLs are read from the
//     local filesystem,
//   - any other scheme is rejected with ErrUnsupportedScheme.
//
// File paths are resolved relative to the working directory. A single
// leading "/" is removed first, so "file:///data/x.txt" and "/data/x.txt"
// both read "data/x.txt".
//
// Example:
//
//	b, err := fetchutil.Fetch(ctx, "https://example.com/file.json")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	fmt.Println(string(b))
//
// Clients with non-default settings are created with New:
//
//	c := fetchutil.New(
//		fetchutil.WithHTTPTimeout(10*time.Second),
//		fetchutil.WithFTP(false),
//	)
//
//	b, err := c.Fetch(ctx, "ftp://ftp.example.com/pub/file.txt")
//	if errors.Is(err, fetchutil.ErrUnsupportedScheme) {
//		// FTP is disabled for this client.
//	}
package fetchutil
