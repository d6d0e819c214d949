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

// Package jsmodule implements the parser/loader adapter (C2), the module
// declaration extractor (C3), and the free-variable resolver (C4). Parsing
// is split in two stages: esbuild erases TypeScript-only syntax down to
// plain JS text, then tree-sitter parses that text into a concrete syntax
// tree which C3 and C4 walk directly — there is no separate mutable AST
// layer; renaming and emission operate by byte-range text splicing against
// the erased source buffer.
package jsmodule

import (
	"fmt"

	"github.com/netanelgilad/funee/decl"
)

// ModuleDeclaration pairs a Declaration with whether it is exported from its
// module, keyed by local export name inside that module (§3, "Module
// Declaration").
type ModuleDeclaration struct {
	Exported    bool
	Declaration decl.Declaration
}

// Module is a parsed source file: its URI, its erased-JS source buffer, and
// the extracted declaration table. The parse tree is not held here; Parse
// returns it separately.
type Module struct {
	URI          string
	Source       []byte
	Declarations map[string]ModuleDeclaration
}

// Lookup returns the ModuleDeclaration bound to name, or an error
// satisfying the NoSuchExport taxonomy entry from §7.
func (m *Module) Lookup(name string) (ModuleDeclaration, error) {
	d, ok := m.Declarations[name]
	if !ok {
		return ModuleDeclaration{}, &NoSuchExportError{URI: m.URI, Name: name}
	}
	return d, nil
}

// NoSuchExportError is returned when a module has no declaration under the
// requested name.
type NoSuchExportError struct {
	URI  string
	Name string
}

func (e *NoSuchExportError) Error() string {
	return fmt.Sprintf("module %s has no export named %q", e.URI, e.Name)
}
