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

// Package closure implements closure capture (C6): pairing an expression's
// source text with the canonical identifiers its free variables resolve to
// in the scope where it was captured. This is the argument shape the macro
// runtime (C7) consumes.
package closure

import "github.com/netanelgilad/funee/ident"

// Closure is a captured expression together with the canonical identifiers
// of its free variables, as resolved in the scope that captured it.
type Closure struct {
	// Expression is the source text of the captured expression.
	Expression string
	// References maps the local name each free variable was spelled with to
	// the canonical identifier it resolved to in the ambient scope.
	References map[string]ident.Canonical
}

// Capture builds a Closure from an expression's source text, its set of
// free local names (as computed by the free-variable resolver, C4), and the
// ambient scope's local-name -> canonical-id map (the enclosing module's
// declarations plus any outer bindings). Only names present in both sets
// survive into References; a free name with no ambient binding is left out
// here and must be reported as UnresolvedReference by the caller before the
// closure is handed to the macro runtime.
func Capture(expression string, freeNames map[string]struct{}, ambient map[string]ident.Canonical) Closure {
	refs := make(map[string]ident.Canonical, len(freeNames))
	for name := range freeNames {
		if id, ok := ambient[name]; ok {
			refs[name] = id
		}
	}
	return Closure{Expression: expression, References: refs}
}
