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

// Package graph implements the source graph builder (C5): a demand-driven
// DFS from a seed expression that resolves every free identifier to its
// canonical definition, deduplicates shared definitions into a single node,
// and classifies each node as user code, a host-function shim, or a
// compile-time macro.
package graph

import (
	"sort"

	ts "github.com/tree-sitter/go-tree-sitter"

	"github.com/netanelgilad/funee/decl"
	"github.com/netanelgilad/funee/host"
	"github.com/netanelgilad/funee/ident"
	"github.com/netanelgilad/funee/jsmodule"
	"github.com/netanelgilad/funee/loader"
)

// Node is a single source-graph vertex: the URI of the module containing
// its concrete declaration (the "resolved URI" of §3) and labelled
// outgoing edges to the nodes it references.
type Node struct {
	URI         string
	Declaration decl.Declaration
	Edges       map[string]int
}

// Graph is the C5 output: a directed graph of Nodes with a root and a
// definitions index guaranteeing invariant I1 (dedup).
type Graph struct {
	Nodes []*Node
	Root  int

	definitionsIndex map[ident.Canonical]int
	moduleCache      map[string]*jsmodule.Module
	trees            []*ts.Tree
	hosts            host.Set
	loader           loader.FileLoader
}

// Close releases every tree-sitter parse tree the graph holds. The graph
// owns this arena from C5 through C10 (§5); callers should close it only
// once emission is complete.
func (g *Graph) Close() {
	for _, t := range g.trees {
		t.Close()
	}
}

// Build runs C5 to completion: it resolves seedExpression (evaluated in the
// scope of scopeURI) against hosts and fl, returning a graph satisfying
// invariants I1-I6, or one of the failure-taxonomy errors in errors.go.
func Build(seedExpression, scopeURI string, hosts host.Set, fl loader.FileLoader) (*Graph, error) {
	g := &Graph{
		definitionsIndex: make(map[ident.Canonical]int),
		moduleCache:      make(map[string]*jsmodule.Module),
		hosts:            hosts,
		loader:           fl,
	}

	erased, tree, exprNode, err := jsmodule.ParseExpression(scopeURI, []byte(seedExpression))
	if err != nil {
		return nil, err
	}
	g.trees = append(g.trees, tree)

	root := &Node{
		URI: scopeURI,
		Declaration: decl.Declaration{
			Kind:       decl.Expression,
			Source:     erased,
			ByteStart:  exprNode.StartByte(),
			ByteEnd:    exprNode.EndByte(),
			SyntaxNode: exprNode,
		},
		Edges: make(map[string]int),
	}
	g.Nodes = append(g.Nodes, root)
	g.Root = 0

	stack := []int{0}
	for len(stack) > 0 {
		idx := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if err := g.processNode(idx, &stack); err != nil {
			return nil, err
		}
	}

	return g, nil
}

// AdoptTree registers an externally-parsed tree-sitter tree with the graph's
// arena, so Close releases it alongside every tree C5 itself produced. The
// macro expander (C8) uses this for the trees it parses while splicing a
// macro's returned expression back into the graph.
func (g *Graph) AdoptTree(tree *ts.Tree) {
	g.trees = append(g.trees, tree)
}

// ProcessNode (re-)computes node idx's outgoing edges against its current
// declaration and returns the indices of any newly discovered nodes that
// still need processing. It resets the node's edge set first, so stale
// edges left over from a declaration that C8 has since overwritten are
// dropped, per §4.C8 "Splicing": new references become new edges;
// references no longer present are removed.
func (g *Graph) ProcessNode(idx int) ([]int, error) {
	g.Nodes[idx].Edges = make(map[string]int)
	var newlyAdded []int
	if err := g.processNode(idx, &newlyAdded); err != nil {
		return nil, err
	}
	return newlyAdded, nil
}

// EnsureDefinition inserts a hoisted top-level definition (the
// WithDefinitions supplemented macro-result feature) under canonical id,
// parsing code as a standalone expression. It is a no-op returning the
// existing index when id is already present, preserving invariant I1.
func (g *Graph) EnsureDefinition(id ident.Canonical, code string) (idx int, isNew bool, err error) {
	if existing, ok := g.definitionsIndex[id]; ok {
		return existing, false, nil
	}
	erased, tree, exprNode, perr := jsmodule.ParseExpression(id.URI, []byte("("+code+")"))
	if perr != nil {
		return 0, false, perr
	}
	g.trees = append(g.trees, tree)
	n := &Node{
		URI: id.URI,
		Declaration: decl.Declaration{
			Kind:       decl.VariableInitializer,
			Source:     erased,
			ByteStart:  exprNode.StartByte(),
			ByteEnd:    exprNode.EndByte(),
			Name:       id.Name,
			SyntaxNode: exprNode,
		},
		Edges: make(map[string]int),
	}
	g.Nodes = append(g.Nodes, n)
	idx = len(g.Nodes) - 1
	g.definitionsIndex[id] = idx
	return idx, true, nil
}

// processNode implements the "per-node processing" step of §4.C5.
func (g *Graph) processNode(idx int, stack *[]int) error {
	n := g.Nodes[idx]

	refs := g.outgoingReferences(n)
	names := make([]string, 0, len(refs))
	for name := range refs {
		names = append(names, name)
	}
	sort.Strings(names) // deterministic visitation order for reproducible builds

	for _, localName := range names {
		tentative := refs[localName]

		resolvedURI, concrete, isHost, hostFn, err := g.resolve(tentative)
		if err != nil {
			return err
		}

		var finalID ident.Canonical
		var target decl.Declaration
		if isHost {
			finalID = ident.New(ident.StdlibURI, hostFn.Name)
			target = decl.Declaration{Kind: decl.HostFunction, Name: hostFn.Name, HostName: hostFn.OpName}
			resolvedURI = ident.StdlibURI
		} else {
			finalID = ident.New(resolvedURI, concrete.Name)
			target = concrete
		}

		if existing, ok := g.definitionsIndex[finalID]; ok {
			n.Edges[localName] = existing
			continue
		}

		newNode := &Node{URI: resolvedURI, Declaration: target, Edges: make(map[string]int)}
		g.Nodes = append(g.Nodes, newNode)
		newIdx := len(g.Nodes) - 1
		g.definitionsIndex[finalID] = newIdx
		n.Edges[localName] = newIdx
		*stack = append(*stack, newIdx)
	}

	return nil
}

// ResolveReference resolves an already-canonical identifier — as produced by
// a macro's returned closure references (§4.C8) rather than discovered via a
// module's own free-variable walk — to a node index, running the same
// host-or-module resolution chase processNode uses and deduplicating against
// definitionsIndex exactly as a module-declared reference would. Unlike
// processNode's edges, the returned node's own outgoing edges are not queued
// for further expansion: macro-introduced definitions are required to be
// self-contained text, consistent with EnsureDefinition.
func (g *Graph) ResolveReference(id ident.Canonical) (int, error) {
	// A definition EnsureDefinition hoisted directly (e.g. a macro's
	// synthetic helper) exists only in definitionsIndex, under a URI no
	// loader can read — it must be recognized here before falling through
	// to a module lookup that would otherwise report it as missing.
	if existing, ok := g.definitionsIndex[id]; ok {
		return existing, nil
	}

	resolvedURI, concrete, isHost, hostFn, err := g.resolve(id)
	if err != nil {
		return 0, err
	}

	var finalID ident.Canonical
	var target decl.Declaration
	if isHost {
		finalID = ident.New(ident.StdlibURI, hostFn.Name)
		target = decl.Declaration{Kind: decl.HostFunction, Name: hostFn.Name, HostName: hostFn.OpName}
		resolvedURI = ident.StdlibURI
	} else {
		finalID = ident.New(resolvedURI, concrete.Name)
		target = concrete
	}

	if existing, ok := g.definitionsIndex[finalID]; ok {
		return existing, nil
	}

	newNode := &Node{URI: resolvedURI, Declaration: target, Edges: make(map[string]int)}
	g.Nodes = append(g.Nodes, newNode)
	newIdx := len(g.Nodes) - 1
	g.definitionsIndex[finalID] = newIdx
	return newIdx, nil
}

// outgoingReferences computes the tentative reference set for a node: its
// free variables (C4), turned into tentative canonical ids in the node's
// own module. Leaves (HostFunction) have none.
func (g *Graph) outgoingReferences(n *Node) map[string]ident.Canonical {
	refs := make(map[string]ident.Canonical)
	if n.Declaration.Kind == decl.HostFunction || n.Declaration.SyntaxNode == nil {
		return refs
	}
	free := jsmodule.FreeVariables(n.Declaration.Source, n.Declaration.SyntaxNode)
	for name := range free {
		refs[name] = ident.New(n.URI, name)
	}
	return refs
}

// resolve implements the "resolution loop" of §4.C5.b: host check first,
// then repeated lookup chasing Indirection declarations (whose target URIs
// were already adjusted relative to their declaring module's directory at
// extraction time — see jsmodule.addImport/addExport) until a concrete
// declaration or a host entry is found.
func (g *Graph) resolve(start ident.Canonical) (resolvedURI string, concrete decl.Declaration, isHost bool, hostFn host.Function, err error) {
	current := start
	visited := make(map[ident.Canonical]bool)

	for {
		if fn, ok := g.hosts.Lookup(current); ok {
			return ident.StdlibURI, decl.Declaration{}, true, fn, nil
		}
		if visited[current] {
			return "", decl.Declaration{}, false, host.Function{}, &CircularIndirectionError{ID: current}
		}
		visited[current] = true

		mod, merr := g.resolveModule(current.URI)
		if merr != nil {
			return "", decl.Declaration{}, false, host.Function{}, merr
		}
		md, lerr := mod.Lookup(current.Name)
		if lerr != nil {
			return "", decl.Declaration{}, false, host.Function{}, &UnresolvedReferenceError{ID: start}
		}
		if md.Declaration.Kind == decl.Indirection {
			current = md.Declaration.Target
			continue
		}
		return current.URI, md.Declaration, false, host.Function{}, nil
	}
}

func (g *Graph) resolveModule(uri string) (*jsmodule.Module, error) {
	if m, ok := g.moduleCache[uri]; ok {
		return m, nil
	}
	if !g.loader.Exists(uri) {
		return nil, &IOError{URI: uri, Cause: errNotFound}
	}
	src, err := g.loader.Read(uri)
	if err != nil {
		return nil, &IOError{URI: uri, Cause: err}
	}
	mod, tree, err := jsmodule.Parse(uri, src)
	if err != nil {
		return nil, err
	}
	g.trees = append(g.trees, tree)
	g.moduleCache[uri] = mod
	return mod, nil
}

var errNotFound = notFoundError{}

type notFoundError struct{}

func (notFoundError) Error() string { return "not found" }
