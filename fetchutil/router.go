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
	netURL "net/url"
)

// RouteKind identifies the fetcher selected for an identifier.
type RouteKind int

const (
	RouteUnsupported RouteKind = iota
	RouteHTTP
	RouteFTP
	RouteFile
)

func (k RouteKind) String() string {
	switch k {
	case RouteHTTP:
		return "http"
	case RouteFTP:
		return "ftp"
	case RouteFile:
		return "file"
	default:
		return "unsupported"
	}
}

// Route is the outcome of routing a resource identifier.
type Route struct {
	Kind RouteKind

	// Target is the argument passed to the selected fetcher. It is the
	// original identifier for HTTP and FTP, and a filesystem path for files.
	Target string

	// Scheme is the scheme of the identifier. Empty if the identifier is not
	// an absolute URL.
	Scheme string

	// URL is the parsed identifier. Nil if the identifier is not an absolute
	// URL.
	URL *netURL.URL
}

func (r Route) redacted() string {
	if r.URL != nil {
		return r.URL.Redacted()
	}
	return r.Target
}

// Route decides which fetcher handles the identifier.
//
// Identifiers that are not absolute URLs are treated as filesystem paths and
// passed on unchanged. For "file" URLs only the path is used, the host is
// ignored. The "ftp" and "ftps" schemes are unsupported if FTP is disabled
// on the client.
func (c *Client) Route(identifier string) Route {
	uri, ok := parseAbsoluteURL(identifier)
	if !ok {
		return Route{Kind: RouteFile, Target: identifier}
	}
	r := Route{Scheme: uri.Scheme, URL: uri}
	switch uri.Scheme {
	case "http", "https":
		r.Kind = RouteHTTP
		r.Target = identifier
	case "ftp", "ftps":
		if c.ftpEnabled {
			r.Kind = RouteFTP
			r.Target = identifier
		}
	case "file":
		r.Kind = RouteFile
		r.Target = fileURLPath(uri)
	}
	return r
}

// fileURLPath returns the decoded path of a file URL. The path of an opaque
// URL, like "file:data/x.txt", is rooted the same way as "file:///data/x.txt".
func fileURLPath(uri *netURL.URL) string {
	if uri.Path != "" || uri.Opaque == "" {
		return uri.Path
	}
	p, err := netURL.PathUnescape(uri.Opaque)
	if err != nil {
		p = uri.Opaque
	}
	return "/" + p
}

// parseAbsoluteURL parses s as a URL. Strings without a scheme, such as
// relative paths, are not absolute URLs.
func parseAbsoluteURL(s string) (*netURL.URL, bool) {
	uri, err := netURL.Parse(s)
	if err != nil || uri.Scheme == "" {
		return nil, false
	}
	return uri, true
}
