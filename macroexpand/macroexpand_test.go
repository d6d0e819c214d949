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

package macroexpand

import (
	"testing"

	"github.com/netanelgilad/funee/decl"
	"github.com/netanelgilad/funee/graph"
	"github.com/netanelgilad/funee/host"
	"github.com/netanelgilad/funee/loader"
)

func buildGraph(t *testing.T, seed, scope string, files map[string]string) *graph.Graph {
	t.Helper()
	fl := loader.NewMemory(files)
	g, err := graph.Build(seed, scope, host.Default(), fl)
	if err != nil {
		t.Fatalf("graph.Build: %v", err)
	}
	t.Cleanup(g.Close)
	return g
}

func TestExpandRewritesSimpleMacroApplication(t *testing.T) {
	files := map[string]string{
		"/macros.ts": `export const double = createMacro(function(x) {
			return { expression: "(" + x.expression + ") * 2", references: x.references };
		});`,
		"/entry.ts": `import { double } from "./macros.ts";`,
	}
	g := buildGraph(t, "double(21)", "/entry.ts", files)

	if err := Expand(g, Options{MaxIterations: 10, MaxCallsPerRuntime: 10}); err != nil {
		t.Fatalf("Expand: %v", err)
	}

	root := g.Nodes[g.Root]
	if root.Declaration.Kind != decl.VariableInitializer {
		t.Fatalf("expected the root's macro application to have been spliced into a VariableInitializer, got %v", root.Declaration.Kind)
	}
	if got, want := root.Declaration.Text(), "(21) * 2"; got != want {
		t.Errorf("root expression = %q, want %q", got, want)
	}
}

func TestExpandNoMacroApplicationIsNoop(t *testing.T) {
	g := buildGraph(t, "1 + 1", "/entry.ts", nil)
	before := g.Nodes[g.Root].Declaration.Text()

	if err := Expand(g, Options{MaxIterations: 10, MaxCallsPerRuntime: 10}); err != nil {
		t.Fatalf("Expand: %v", err)
	}
	after := g.Nodes[g.Root].Declaration.Text()
	if before != after {
		t.Errorf("expression changed from %q to %q with no macro present", before, after)
	}
}

func TestExpandBudgetExceeded(t *testing.T) {
	files := map[string]string{
		"/macros.ts": `export const loop = createMacro(function(x) {
			return { expression: "loop(" + x.expression + ")", references: x.references };
		});`,
		"/entry.ts": `import { loop } from "./macros.ts";`,
	}
	g := buildGraph(t, "loop(1)", "/entry.ts", files)

	err := Expand(g, Options{MaxIterations: 3, MaxCallsPerRuntime: 100})
	if err == nil {
		t.Fatal("expected a BudgetExceededError for a macro that never reaches a fixed point")
	}
	if _, ok := err.(*BudgetExceededError); !ok {
		t.Errorf("expected *BudgetExceededError, got %T", err)
	}
}

func TestExpandHoistsDefinitions(t *testing.T) {
	files := map[string]string{
		"/macros.ts": `export const withHelper = createMacro(function() {
			return {
				expression: "helper()",
				references: new Map([["helper", { uri: "/gen.ts", name: "helper" }]]),
				definitions: [{ uri: "/gen.ts", name: "helper", code: "function helper() { return 7; }" }],
			};
		});`,
		"/entry.ts": `import { withHelper } from "./macros.ts";`,
	}
	g := buildGraph(t, "withHelper()", "/entry.ts", files)

	if err := Expand(g, Options{MaxIterations: 10, MaxCallsPerRuntime: 10}); err != nil {
		t.Fatalf("Expand: %v", err)
	}

	root := g.Nodes[g.Root]
	idx, ok := root.Edges["helper"]
	if !ok {
		t.Fatal("expected the spliced expression to have an edge to the hoisted helper")
	}
	if g.Nodes[idx].URI != "/gen.ts" {
		t.Errorf("hoisted helper URI = %q, want /gen.ts", g.Nodes[idx].URI)
	}
}
