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
	"path"
	"strings"
)

// IsRelative reports whether a specifier must be resolved against a
// directory rather than handed to the loader verbatim.
func IsRelative(specifier string) bool {
	return strings.HasPrefix(specifier, "./") || strings.HasPrefix(specifier, "../")
}

// JoinRelative resolves a relative specifier against the directory
// containing baseURI, the same rule C5 needs when adjusting a re-export's
// target URI to be relative to the module that declared it rather than the
// module that originally imported it.
func JoinRelative(baseURI, specifier string) string {
	dir := path.Dir(baseURI)
	joined := path.Join(dir, specifier)
	if !hasKnownExtension(joined) {
		joined += ".ts"
	}
	return joined
}

func hasKnownExtension(p string) bool {
	for _, ext := range []string{".ts", ".tsx", ".js", ".mjs", ".json"} {
		if strings.HasSuffix(p, ext) {
			return true
		}
	}
	return false
}
