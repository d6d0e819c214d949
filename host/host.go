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

// Package host describes the host-function set the source graph builder and
// emitter consume (§6, "Host-function set (consumed)"): a table of
// canonical identifiers under the synthetic stdlib URI, each naming a
// native operation the bundled script may call via a trampoline.
package host

import (
	"fmt"

	"github.com/netanelgilad/funee/ident"
)

// Function is a single entry in a host-function manifest.
type Function struct {
	// Name is the exported name under ident.StdlibURI, e.g. "log".
	Name string `json:"name" yaml:"name"`
	// OpName is the name C10's trampoline forwards arguments to. Defaults
	// to "op_<Name>" when empty.
	OpName string `json:"opName,omitempty" yaml:"opName,omitempty"`
	// Arity documents the expected argument count; it is informational
	// only — the core forwards whatever arguments the call site supplies.
	Arity int `json:"arity" yaml:"arity"`
}

// Set is the host-function table: every canonical identifier in it (a) is
// never looked up via the file loader, and (b) is always lowered by C10 to
// a host-call trampoline (never its user-code definition), per invariant I3.
type Set map[ident.Canonical]Function

// NewSet builds a Set from a manifest's function list, deriving each
// entry's canonical identifier under ident.StdlibURI.
func NewSet(functions []Function) Set {
	set := make(Set, len(functions))
	for _, fn := range functions {
		f := fn
		if f.OpName == "" {
			f.OpName = "op_" + f.Name
		}
		set[ident.New(ident.StdlibURI, f.Name)] = f
	}
	return set
}

// Default returns the built-in host set every funee build starts from: a
// single `log` op, matching the original implementation's NoopHost/Host
// trait default and scenario S3 of the bundler's testable properties.
func Default() Set {
	return NewSet([]Function{{Name: "log", OpName: "op_log", Arity: 1}})
}

// Lookup reports whether id names a host function, returning its entry.
func (s Set) Lookup(id ident.Canonical) (Function, bool) {
	fn, ok := s[id]
	return fn, ok
}

func (s Set) String() string {
	return fmt.Sprintf("host.Set(%d functions)", len(s))
}
