/*
Copyright © 2025 Benny Powers <web@bennypowers.com>

This program is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

This program is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with this program. If not, see <http://www.gnu.org/licenses/>.
*/

package loader

import (
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/gregjones/httpcache"
)

// HTTP resolves non-relative specifiers as URLs and fetches them over HTTP,
// caching responses in-process so a re-export chain spanning several remote
// modules does not refetch a shared dependency on every DFS visit.
type HTTP struct {
	client *http.Client
}

// NewHTTP constructs an HTTP loader with an in-memory response cache.
func NewHTTP() *HTTP {
	return &HTTP{
		client: httpcache.NewMemoryCacheTransport().Client(),
	}
}

func (h *HTTP) Exists(uri string) bool {
	resp, err := h.client.Head(uri)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode < 400
}

func (h *HTTP) Absolutize(base, specifier string) (string, error) {
	if !IsRelative(specifier) {
		if _, err := url.Parse(specifier); err != nil {
			return "", fmt.Errorf("invalid module URL %q: %w", specifier, err)
		}
		return specifier, nil
	}
	baseURL, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("invalid base URL %q: %w", base, err)
	}
	resolved, err := baseURL.Parse(specifier)
	if err != nil {
		return "", fmt.Errorf("resolving %q against %q: %w", specifier, base, err)
	}
	return resolved.String(), nil
}

func (h *HTTP) Read(uri string) ([]byte, error) {
	resp, err := h.client.Get(uri)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", uri, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("fetching %s: HTTP %d", uri, resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}
