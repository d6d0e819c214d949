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

package jsmodule

import ts "github.com/tree-sitter/go-tree-sitter"

// namedChildren returns every named child of node, in source order.
func namedChildren(node *ts.Node) []ts.Node {
	cursor := node.Walk()
	defer cursor.Close()
	return node.NamedChildren(cursor)
}

// childOfGrammar returns the first named child of node whose grammar name
// matches kind, or nil.
func childOfGrammar(node *ts.Node, kind string) *ts.Node {
	for _, child := range namedChildren(node) {
		if child.GrammarName() == kind {
			c := child
			return &c
		}
	}
	return nil
}

// hasLiteralChild reports whether any (named or anonymous) child of node has
// the given literal kind, e.g. the "default" keyword in an export statement.
func hasLiteralChild(node *ts.Node, kind string) bool {
	count := node.ChildCount()
	for i := uint(0); i < count; i++ {
		c := node.Child(i)
		if c != nil && c.Kind() == kind {
			return true
		}
	}
	return false
}

func text(source []byte, node *ts.Node) string {
	if node == nil {
		return ""
	}
	return node.Utf8Text(source)
}
