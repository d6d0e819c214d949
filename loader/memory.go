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
	"strings"

	"github.com/netanelgilad/funee/internal/platform"
)

// Memory is the in-memory mock loader the spec calls out by name, backed by
// platform.MapFS. It exists so graph and emit tests can build a whole
// multi-module fixture without touching the real filesystem.
//
// URIs are treated as absolute, slash-rooted paths ("/a.ts"); fstest.MapFS
// keys are always slash-relative, so the leading slash is trimmed at the
// boundary.
type Memory struct {
	fs *platform.MapFS
}

// NewMemory constructs a Memory loader from a map of absolute URI to source text.
func NewMemory(files map[string]string) *Memory {
	trimmed := make(map[string]string, len(files))
	for uri, content := range files {
		trimmed[mapKey(uri)] = content
	}
	return &Memory{fs: platform.NewMapFS(trimmed)}
}

func mapKey(uri string) string {
	return strings.TrimPrefix(uri, "/")
}

func (m *Memory) Exists(uri string) bool {
	return m.fs.Exists(mapKey(uri))
}

func (m *Memory) Absolutize(base, specifier string) (string, error) {
	if !IsRelative(specifier) {
		return specifier, nil
	}
	return JoinRelative(base, specifier), nil
}

func (m *Memory) Read(uri string) ([]byte, error) {
	data, err := m.fs.ReadFile(mapKey(uri))
	if err != nil {
		return nil, fmt.Errorf("memory loader: %w", err)
	}
	return data, nil
}
