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

// Package emit implements the emitter (C10): a post-order walk of the final
// source graph that lowers each node to a flat top-level statement, renames
// its free references to the other statements' synthetic names, and
// assembles the result into a single script with an inline source map.
package emit

import (
	"encoding/base64"
	"fmt"
	"sort"
	"strings"

	ts "github.com/tree-sitter/go-tree-sitter"

	"github.com/netanelgilad/funee/decl"
	"github.com/netanelgilad/funee/graph"
	"github.com/netanelgilad/funee/rename"
)

// InvariantViolationError is returned when the final graph still contains a
// node emission must never see: an Indirection (I2) or a dangling Macro or
// ClosureValue reached by something other than a plain skip.
type InvariantViolationError struct {
	NodeIndex int
	Kind      decl.Kind
}

func (e *InvariantViolationError) Error() string {
	return fmt.Sprintf("node %d has kind %s, which must not reach emission", e.NodeIndex, e.Kind)
}

func declarationName(idx int) string {
	return fmt.Sprintf("declaration_%d", idx)
}

// Emit runs C10 end to end: post-order DFS from g.Root, skipping Macro and
// ClosureValue nodes, lowering every other node by its declaration kind,
// and appending an inline source map covering the emitted lines.
func Emit(g *graph.Graph) (string, error) {
	order, err := postOrder(g)
	if err != nil {
		return "", err
	}

	var body strings.Builder
	smap := newSourceMapBuilder()

	for _, idx := range order {
		n := g.Nodes[idx]
		if n.Declaration.Kind == decl.Macro || n.Declaration.Kind == decl.ClosureValue {
			continue
		}
		statement, err := lower(g, idx)
		if err != nil {
			// lower only fails with *InvariantViolationError, which already
			// names the node index; it is returned unwrapped.
			return "", err
		}
		for _, line := range strings.Split(statement, "\n") {
			smap.AddLine(n.URI)
			body.WriteString(line)
			body.WriteByte('\n')
		}
	}

	mapJSON, err := smap.Build()
	if err != nil {
		return "", fmt.Errorf("building source map: %w", err)
	}
	encoded := base64.StdEncoding.EncodeToString([]byte(mapJSON))
	body.WriteString(fmt.Sprintf("\n//# sourceMappingURL=data:application/json;base64,%s", encoded))
	return body.String(), nil
}

// postOrder visits every reachable node depth-first, emitting dependencies
// before dependents, so each flat `var declaration_i = ...` or function
// declaration can reference declaration_<j> names that are already defined
// by the time execution reaches it. Edge visitation order is the sorted
// label order, for reproducible output across runs of the same graph.
func postOrder(g *graph.Graph) ([]int, error) {
	visited := make(map[int]bool)
	var order []int

	var visit func(idx int) error
	visit = func(idx int) error {
		if visited[idx] {
			return nil
		}
		visited[idx] = true
		n := g.Nodes[idx]

		labels := make([]string, 0, len(n.Edges))
		for label := range n.Edges {
			labels = append(labels, label)
		}
		sort.Strings(labels)
		for _, label := range labels {
			if err := visit(n.Edges[label]); err != nil {
				return err
			}
		}
		order = append(order, idx)
		return nil
	}

	if err := visit(g.Root); err != nil {
		return nil, err
	}
	return order, nil
}

func lower(g *graph.Graph, idx int) (string, error) {
	n := g.Nodes[idx]
	name := declarationName(idx)

	renameMap := make(map[string]string, len(n.Edges))
	for label, target := range n.Edges {
		renameMap[label] = declarationName(target)
	}

	switch n.Declaration.Kind {
	case decl.FunctionDeclaration, decl.FunctionExpression:
		return lowerFunction(n.Declaration.Source, n.Declaration.SyntaxNode, name, renameMap), nil

	case decl.VariableInitializer:
		expr := rename.Apply(n.Declaration.Source, n.Declaration.SyntaxNode, renameMap)
		return fmt.Sprintf("var %s = %s;", name, expr), nil

	case decl.Expression:
		expr := rename.Apply(n.Declaration.Source, n.Declaration.SyntaxNode, renameMap)
		return fmt.Sprintf("%s;", expr), nil

	case decl.HostFunction:
		return fmt.Sprintf("function %s(...args) { return ops.%s(...args); }", name, n.Declaration.HostName), nil

	case decl.Indirection:
		return "", &InvariantViolationError{NodeIndex: idx, Kind: decl.Indirection}

	default:
		return "", &InvariantViolationError{NodeIndex: idx, Kind: n.Declaration.Kind}
	}
}

// lowerFunction renames a function_declaration node's free references and
// its own bound name (to declName), producing either a named function
// declaration (FunctionDeclaration, always named) or a function expression
// wrapped as one (FunctionExpression, whose underlying node may be
// anonymous — `export default function() {}` is legal JS).
func lowerFunction(source []byte, node *ts.Node, declName string, renameMap map[string]string) string {
	edits := rename.FreeEdits(source, node, renameMap)

	if nameNode := node.ChildByFieldName("name"); nameNode != nil {
		edits = append(edits, rename.Edit{Start: nameNode.StartByte(), End: nameNode.EndByte(), Text: declName})
		return rename.ApplyEdits(source, node, edits)
	}

	params := node.ChildByFieldName("parameters")
	edits = append(edits, rename.Edit{Start: params.StartByte(), End: params.StartByte(), Text: " " + declName})
	return rename.ApplyEdits(source, node, edits)
}
