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

// Package bundler is the top-level orchestrator, mirroring the original
// implementation's execution_request::execute: it wires a file loader and a
// host-function set through graph construction (C5), macro expansion (C8),
// and emission (C10) into a single entry point a caller can either print or
// hand to a JS engine alongside the host bindings.
package bundler

import (
	"fmt"

	"github.com/netanelgilad/funee/emit"
	"github.com/netanelgilad/funee/graph"
	"github.com/netanelgilad/funee/host"
	"github.com/netanelgilad/funee/ident"
	"github.com/netanelgilad/funee/jsengine"
	"github.com/netanelgilad/funee/loader"
	"github.com/netanelgilad/funee/macroexpand"
)

// Request is everything a build needs: the seed expression and the scope it
// is evaluated in, the host-function table, the file loader, and the two
// runaway-recursion guards macro expansion enforces.
type Request struct {
	SeedExpression string
	ScopeURI       string
	Hosts          host.Set
	Loader         loader.FileLoader

	MaxMacroIterations      int
	MaxMacroCallsPerRuntime int
}

// DefaultMaxMacroIterations and DefaultMaxMacroCallsPerRuntime are the
// ceilings Bundle falls back to when the corresponding Request field is
// zero. `funee bundle`/`funee run` always pass cmd/config's own defaults
// instead, so these apply only to callers that leave the fields unset.
const (
	DefaultMaxMacroIterations      = 1000
	DefaultMaxMacroCallsPerRuntime = 10000
)

// Result is a completed build: the emitted script (with its inline source
// map) plus the graph it was built from. The graph's parse-tree arena stays
// open until Close, since the emitted script's positions are only
// meaningful while it is alive.
type Result struct {
	Script string

	graph *graph.Graph
}

// Close releases the build's parse-tree arena.
func (r *Result) Close() {
	r.graph.Close()
}

// SourceURIs returns the distinct module URIs visited while building the
// result, in no particular order. Watch mode uses this to decide which
// directories to re-arm a file watcher on after every rebuild.
func (r *Result) SourceURIs() []string {
	seen := make(map[string]bool)
	var uris []string
	for _, n := range r.graph.Nodes {
		if n.URI == "" || n.URI == ident.StdlibURI || seen[n.URI] {
			continue
		}
		seen[n.URI] = true
		uris = append(uris, n.URI)
	}
	return uris
}

// Bundle runs the whole core pipeline for req: C5 builds the source graph,
// C8 expands macros to a fixed point, and C10 emits the final script. A
// failure at any stage aborts the build; nothing partial is returned.
func Bundle(req Request) (*Result, error) {
	maxIterations := req.MaxMacroIterations
	if maxIterations == 0 {
		maxIterations = DefaultMaxMacroIterations
	}
	maxCalls := req.MaxMacroCallsPerRuntime
	if maxCalls == 0 {
		maxCalls = DefaultMaxMacroCallsPerRuntime
	}

	g, err := graph.Build(req.SeedExpression, req.ScopeURI, req.Hosts, req.Loader)
	if err != nil {
		return nil, fmt.Errorf("building source graph: %w", err)
	}

	if err := macroexpand.Expand(g, macroexpand.Options{
		MaxIterations:      maxIterations,
		MaxCallsPerRuntime: maxCalls,
	}); err != nil {
		g.Close()
		return nil, fmt.Errorf("expanding macros: %w", err)
	}

	script, err := emit.Emit(g)
	if err != nil {
		g.Close()
		return nil, fmt.Errorf("emitting bundle: %w", err)
	}

	return &Result{Script: script, graph: g}, nil
}

// Run executes a completed build the way `funee run` does: a fresh
// BundleRuntime with one op per entry in hosts, forwarding to impls.
func Run(result *Result, hosts host.Set, impls map[string]jsengine.HostImplementation) error {
	runtime, err := jsengine.NewBundleRuntime(hosts, impls)
	if err != nil {
		return fmt.Errorf("preparing bundle runtime: %w", err)
	}
	if _, err := runtime.Run(result.Script); err != nil {
		return fmt.Errorf("running bundle: %w", err)
	}
	return nil
}
