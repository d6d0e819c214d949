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

package jsengine

import (
	"testing"

	"github.com/netanelgilad/funee/closure"
	"github.com/netanelgilad/funee/ident"
)

func TestExecuteMacroSimpleResult(t *testing.T) {
	rt := NewMacroRuntime(10)
	macroCode := `function(x) { return { expression: x.expression + " + 1", references: x.references }; }`
	args := []closure.Closure{
		{Expression: "40", References: map[string]ident.Canonical{}},
	}

	result, err := rt.ExecuteMacro(macroCode, args)
	if err != nil {
		t.Fatalf("ExecuteMacro: %v", err)
	}
	if result.Closure.Expression != "40 + 1" {
		t.Errorf("Expression = %q, want %q", result.Closure.Expression, "40 + 1")
	}
	if result.Definitions != nil {
		t.Errorf("Definitions = %v, want nil for a Simple result", result.Definitions)
	}
}

func TestExecuteMacroWithDefinitions(t *testing.T) {
	rt := NewMacroRuntime(10)
	macroCode := `function() {
		return {
			expression: "helper()",
			references: new Map([["helper", { uri: "/lib.ts", name: "helper" }]]),
			definitions: [{ uri: "/lib.ts", name: "helper", code: "function helper() { return 1; }" }],
		};
	}`

	result, err := rt.ExecuteMacro(macroCode, nil)
	if err != nil {
		t.Fatalf("ExecuteMacro: %v", err)
	}
	if result.Closure.Expression != "helper()" {
		t.Errorf("Expression = %q", result.Closure.Expression)
	}
	code, ok := result.Definitions[ident.New("/lib.ts", "helper")]
	if !ok {
		t.Fatal("expected a hoisted definition for /lib.ts#helper")
	}
	if code != "function helper() { return 1; }" {
		t.Errorf("definition code = %q", code)
	}
}

func TestExecuteMacroPassesReferencesThrough(t *testing.T) {
	rt := NewMacroRuntime(10)
	macroCode := `function(x) { return { expression: x.expression, references: x.references }; }`
	args := []closure.Closure{
		{Expression: "shared", References: map[string]ident.Canonical{"shared": ident.New("/lib.ts", "shared")}},
	}

	result, err := rt.ExecuteMacro(macroCode, args)
	if err != nil {
		t.Fatalf("ExecuteMacro: %v", err)
	}
	if got, ok := result.Closure.References["shared"]; !ok || got != ident.New("/lib.ts", "shared") {
		t.Errorf("References[shared] = %v, want /lib.ts#shared", got)
	}
}

func TestExecuteMacroEnforcesCallBudget(t *testing.T) {
	rt := NewMacroRuntime(1)
	macroCode := `function() { return { expression: "1", references: new Map() }; }`

	if _, err := rt.ExecuteMacro(macroCode, nil); err != nil {
		t.Fatalf("first call: %v", err)
	}
	_, err := rt.ExecuteMacro(macroCode, nil)
	if err == nil {
		t.Fatal("expected the second call to exceed the budget")
	}
	if _, ok := err.(*MaxCallsExceededError); !ok {
		t.Errorf("expected *MaxCallsExceededError, got %T", err)
	}
}

func TestExecuteMacroRuntimeErrorPropagates(t *testing.T) {
	rt := NewMacroRuntime(10)
	_, err := rt.ExecuteMacro(`function() { throw new Error("boom"); }`, nil)
	if err == nil {
		t.Fatal("expected the thrown error to surface")
	}
}
