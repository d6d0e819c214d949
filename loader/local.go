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
	"path/filepath"

	"github.com/netanelgilad/funee/internal/platform"
)

// Local resolves module URIs against the local filesystem, via the
// platform.FileSystem abstraction (so it can be swapped for a TempDirFileSystem
// in tests without touching any other package).
type Local struct {
	fs platform.FileSystem
}

// NewLocal constructs a Local loader backed by the real OS filesystem.
func NewLocal() *Local {
	return &Local{fs: platform.NewOSFileSystem()}
}

// NewLocalWithFS constructs a Local loader backed by an arbitrary
// platform.FileSystem, e.g. platform.NewTempDirFileSystem in tests.
func NewLocalWithFS(fs platform.FileSystem) *Local {
	return &Local{fs: fs}
}

func (l *Local) Exists(uri string) bool {
	return l.fs.Exists(uri)
}

func (l *Local) Absolutize(base, specifier string) (string, error) {
	if !IsRelative(specifier) {
		if filepath.IsAbs(specifier) {
			return specifier, nil
		}
		return "", fmt.Errorf("non-relative specifier %q cannot be resolved by the local loader", specifier)
	}
	return JoinRelative(base, specifier), nil
}

func (l *Local) Read(uri string) ([]byte, error) {
	return l.fs.ReadFile(uri)
}
