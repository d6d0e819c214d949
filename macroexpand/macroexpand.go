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

// Package macroexpand implements C8, the fixed-point macro expander that
// runs between graph construction (C5) and emission (C10): it finds every
// macro-application node, invokes the macro through an embedded JS runtime
// (C7), and splices the result back into the graph until none remain.
package macroexpand

import (
	"fmt"
	"strings"

	ts "github.com/tree-sitter/go-tree-sitter"

	"github.com/netanelgilad/funee/closure"
	"github.com/netanelgilad/funee/decl"
	"github.com/netanelgilad/funee/graph"
	"github.com/netanelgilad/funee/ident"
	"github.com/netanelgilad/funee/jsengine"
	"github.com/netanelgilad/funee/jsmodule"
)

// Options configures the two independent runaway-recursion guards described
// in §5: the outer per-graph-pass cap (here) and the inner per-macro-call
// cap (MaxCallsPerRuntime, forwarded to each jsengine.Runtime).
type Options struct {
	MaxIterations      int
	MaxCallsPerRuntime int
}

// BudgetExceededError is returned when the outer fixed-point loop still
// finds a macro application after MaxIterations passes.
type BudgetExceededError struct {
	MaxIterations int
}

func (e *BudgetExceededError) Error() string {
	return fmt.Sprintf("macro expansion did not reach a fixed point within %d iterations", e.MaxIterations)
}

// Expand repeatedly rewrites macro-application nodes in g until no macro
// application remains (a fixed point) or the iteration budget is spent. A
// failing macro invocation aborts the whole expansion; per §4.C8 "Failure
// semantics", no partial expansion is emitted by the caller in that case.
func Expand(g *graph.Graph, opts Options) error {
	for iteration := 0; iteration < opts.MaxIterations; iteration++ {
		site, found := findMacroApplication(g)
		if !found {
			return nil
		}
		if err := expandOne(g, site, opts); err != nil {
			return fmt.Errorf("expanding macro application at %s: %w", g.Nodes[site.nodeIndex].URI, err)
		}
	}
	return &BudgetExceededError{MaxIterations: opts.MaxIterations}
}

type macroSite struct {
	nodeIndex  int
	callNode   *ts.Node
	calleeName string
	macroIndex int
}

// findMacroApplication implements §4.C8 "Detection": a VariableInitializer
// whose expression is a call expression `f(args...)`, where the outgoing
// edge labelled `f` targets a Macro node.
func findMacroApplication(g *graph.Graph) (*macroSite, bool) {
	for i, n := range g.Nodes {
		if n.Declaration.Kind != decl.VariableInitializer {
			continue
		}
		call := n.Declaration.SyntaxNode
		if call == nil || call.GrammarName() != "call_expression" {
			continue
		}
		callee := call.ChildByFieldName("function")
		if callee == nil || callee.GrammarName() != "identifier" {
			continue
		}
		calleeName := callee.Utf8Text(n.Declaration.Source)
		targetIdx, ok := n.Edges[calleeName]
		if !ok {
			continue
		}
		if g.Nodes[targetIdx].Declaration.Kind != decl.Macro {
			continue
		}
		return &macroSite{nodeIndex: i, callNode: call, calleeName: calleeName, macroIndex: targetIdx}, true
	}
	return nil, false
}

// expandOne runs one detection->invocation->splicing cycle for site.
func expandOne(g *graph.Graph, site *macroSite, opts Options) error {
	n := g.Nodes[site.nodeIndex]
	macroNode := g.Nodes[site.macroIndex]

	args := lowerArguments(g, n, site.callNode)
	macroFnCode := wrapWithSiblings(g, macroNode)

	runtime := jsengine.NewMacroRuntime(opts.MaxCallsPerRuntime)
	result, err := runtime.ExecuteMacro(macroFnCode, args)
	if err != nil {
		return err
	}

	erased, tree, exprNode, err := jsmodule.ParseExpression(n.URI, []byte(result.Closure.Expression))
	if err != nil {
		return fmt.Errorf("reparsing macro result: %w", err)
	}
	g.AdoptTree(tree)

	n.Declaration = decl.Declaration{
		Kind:       decl.VariableInitializer,
		Source:     erased,
		ByteStart:  exprNode.StartByte(),
		ByteEnd:    exprNode.EndByte(),
		Name:       n.Declaration.Name,
		SyntaxNode: exprNode,
	}

	for id, code := range result.Definitions {
		if _, _, err := g.EnsureDefinition(id, code); err != nil {
			return fmt.Errorf("hoisting macro-introduced definition %s: %w", id, err)
		}
	}

	// Rebuild n's edges from its free variables. A name the macro's own
	// closure.References names is resolved to exactly the canonical id the
	// macro specified — the only way a hoisted definition's name, which need
	// not exist as a declaration in n's own module, ever becomes reachable.
	// Every other free name (typically the macro's own callee, re-triggering
	// a chained application of the same macro) resolves the ordinary way,
	// against n's declaring module.
	n.Edges = make(map[string]int)
	for name := range jsmodule.FreeVariables(erased, exprNode) {
		target, ok := result.Closure.References[name]
		if !ok {
			target = ident.New(n.URI, name)
		}
		idx, rerr := g.ResolveReference(target)
		if rerr != nil {
			return fmt.Errorf("resolving %s after splicing macro result: %w", name, rerr)
		}
		n.Edges[name] = idx
	}
	return nil
}

// lowerArguments implements §4.C8 "Argument lowering": a bare identifier
// argument that is itself an outgoing edge of n is materialized as its
// target's definition-site code; every other argument is emitted verbatim.
func lowerArguments(g *graph.Graph, n *graph.Node, call *ts.Node) []closure.Closure {
	argsNode := call.ChildByFieldName("arguments")
	if argsNode == nil {
		return nil
	}
	source := n.Declaration.Source
	ambient := ambientScope(g, n)

	var closures []closure.Closure
	cursor := argsNode.Walk()
	defer cursor.Close()
	for _, arg := range argsNode.NamedChildren(cursor) {
		arg := arg
		var code string
		if arg.GrammarName() == "identifier" {
			name := arg.Utf8Text(source)
			if edgeIdx, ok := n.Edges[name]; ok {
				code = definitionCode(g.Nodes[edgeIdx].Declaration)
			} else {
				code = name
			}
		} else {
			code = arg.Utf8Text(source)
		}
		free := jsmodule.FreeVariables(source, &arg)
		closures = append(closures, closure.Capture(code, free, ambient))
	}
	return closures
}

// ambientScope builds the local-name -> canonical-id map C6 intersects
// against, derived from n's already-resolved outgoing edges.
func ambientScope(g *graph.Graph, n *graph.Node) map[string]ident.Canonical {
	scope := make(map[string]ident.Canonical, len(n.Edges))
	for name, idx := range n.Edges {
		target := g.Nodes[idx]
		scope[name] = ident.New(target.URI, target.Declaration.Name)
	}
	return scope
}

// definitionCode emits the code form of a declaration the way a macro
// argument is expected to see it: the initializer expression for a
// VariableInitializer, the whole function text for a function declaration
// or expression, the raw expression text for Expression, and the bound
// identifier itself for a HostFunction (a macro cannot meaningfully inline a
// host trampoline's body since it does not exist as source).
func definitionCode(d decl.Declaration) string {
	if d.Kind == decl.HostFunction {
		return d.Name
	}
	return d.Text()
}

// wrapWithSiblings builds the macro-function code C7 evaluates: an IIFE
// that first binds any sibling macros reachable from macroNode's own
// outgoing edges (so macros may call each other), then evaluates to the
// macro function itself.
func wrapWithSiblings(g *graph.Graph, macroNode *graph.Node) string {
	var siblings strings.Builder
	for label, idx := range macroNode.Edges {
		target := g.Nodes[idx]
		if target.Declaration.Kind != decl.Macro {
			continue
		}
		fmt.Fprintf(&siblings, "const %s = (%s);\n", label, target.Declaration.Text())
	}
	if siblings.Len() == 0 {
		return macroNode.Declaration.Text()
	}
	return fmt.Sprintf("(function(){\n%sreturn (%s);\n})()", siblings.String(), macroNode.Declaration.Text())
}
