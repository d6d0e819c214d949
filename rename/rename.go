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

// Package rename implements the renamer (C9): rewriting free identifier
// occurrences in a declaration's syntax to the flat declaration_<i> names
// the emitter assigns, without touching any bound occurrence (a parameter,
// a local, a catch binding), even when its spelling collides with a
// rename-map key.
package rename

import (
	"sort"

	ts "github.com/tree-sitter/go-tree-sitter"

	"github.com/netanelgilad/funee/jsmodule"
)

// Edit is a single byte-range replacement. Edits are applied left to right
// against a node's span, so ranges must not overlap.
type Edit struct {
	Start, End uint
	Text       string
}

// FreeEdits computes the Edit set renaming every free occurrence of a name
// in names (local-name -> new-name) found within node's syntax. It reuses
// C4's scope-stack walk so a bound occurrence — a function parameter, a
// destructured binding, a catch clause's exception name — is never renamed
// even when its spelling is a key of names, matching C4's own binder rules
// exactly (the two analyses must agree, since a renamer that disagreed with
// the free-variable resolver about what is "free" would silently shadow the
// wrong identifier).
func FreeEdits(source []byte, node *ts.Node, names map[string]string) []Edit {
	if len(names) == 0 {
		return nil
	}
	var edits []Edit
	for _, occ := range jsmodule.FreeIdentifierOccurrences(source, node) {
		if newName, ok := names[occ.Name]; ok {
			edits = append(edits, Edit{Start: occ.Start, End: occ.End, Text: newName})
		}
	}
	return edits
}

// Apply rewrites every free occurrence of a name in names (local-name ->
// new-name) found within node's syntax, against source, and returns the
// resulting byte-range-rewritten text of node.
//
// Apply is pure with respect to names: calling it twice with the same map
// is idempotent once the map no longer matches any remaining free name, and
// two renamers with disjoint key sets commute, since each only ever touches
// the byte ranges its own keys identify.
func Apply(source []byte, node *ts.Node, names map[string]string) string {
	return ApplyEdits(source, node, FreeEdits(source, node, names))
}

// ApplyEdits splices edits into node's span of source and returns the
// result. The emitter uses this directly (via FreeEdits plus its own extra
// edit for a FunctionDeclaration's bound name) when a lowering needs to
// combine a free-occurrence rename with a rename of the declaration's own
// binding site.
func ApplyEdits(source []byte, node *ts.Node, edits []Edit) string {
	if len(edits) == 0 {
		return string(source[node.StartByte():node.EndByte()])
	}

	sorted := make([]Edit, len(edits))
	copy(sorted, edits)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Start < sorted[j].Start })

	cursor := node.StartByte()
	var out []byte
	for _, e := range sorted {
		out = append(out, source[cursor:e.Start]...)
		out = append(out, e.Text...)
		cursor = e.End
	}
	out = append(out, source[cursor:node.EndByte()]...)
	return string(out)
}
