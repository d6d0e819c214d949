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

// Package jsengine embeds the JavaScript engine funee runs macros and
// bundled scripts in. It plays two roles: the C7 macro runtime adapter
// (Runtime) and the bundle-execution engine invoked by `funee run`
// (BundleRuntime).
package jsengine

import (
	"encoding/json"
	"fmt"

	"github.com/dop251/goja"

	"github.com/netanelgilad/funee/closure"
	"github.com/netanelgilad/funee/ident"
)

type wireReference struct {
	URI  string `json:"uri"`
	Name string `json:"name"`
}

type wireClosure struct {
	Expression string                   `json:"expression"`
	References map[string]wireReference `json:"references"`
}

type wireDefinition struct {
	URI  string `json:"uri"`
	Name string `json:"name"`
	Code string `json:"code"`
}

type wireResult struct {
	Type        string           `json:"type"`
	Closure     wireClosure      `json:"closure"`
	Definitions []wireDefinition `json:"definitions,omitempty"`
}

// MacroResult is C8's view of a macro invocation's outcome: the rewritten
// closure, plus any hoisted top-level definitions a WithDefinitions-style
// macro introduced alongside it.
type MacroResult struct {
	Closure     closure.Closure
	Definitions map[ident.Canonical]string
}

// MaxCallsExceededError is returned when ExecuteMacro is called on a runtime
// more times than its configured ceiling (`--max-macro-calls`). Only
// ExecuteMacro calls are counted; calls a macro makes inside the JS runtime,
// to itself or to a sibling macro, are not.
type MaxCallsExceededError struct {
	MaxCalls int
}

func (e *MaxCallsExceededError) Error() string {
	return fmt.Sprintf("macro runtime exceeded its call budget of %d invocations", e.MaxCalls)
}

// Runtime wraps a goja.Runtime for a single macro-expansion pass (C7). It is
// not shareable across threads or builds: a fresh Runtime is constructed for
// each pass C8 drives.
type Runtime struct {
	vm       *goja.Runtime
	calls    int
	maxCalls int
}

// NewMacroRuntime constructs a fresh runtime with its invocation counter
// enforcing maxCalls.
func NewMacroRuntime(maxCalls int) *Runtime {
	return &Runtime{vm: goja.New(), maxCalls: maxCalls}
}

// ExecuteMacro runs macroCode (the macro function's own source text,
// captured at definition time as a decl.Macro) against args. The arguments
// are embedded in the generated script as a JSON literal; the macro's result
// comes back JSON-encoded through a single registered global op. Macro bodies are
// assumed synchronous: this runtime has no event loop, so a macro returning
// a Promise will not resolve.
func (r *Runtime) ExecuteMacro(macroCode string, args []closure.Closure) (MacroResult, error) {
	r.calls++
	if r.calls > r.maxCalls {
		return MacroResult{}, &MaxCallsExceededError{MaxCalls: r.maxCalls}
	}

	wireArgs := make([]wireClosure, len(args))
	for i, a := range args {
		wireArgs[i] = toWireClosure(a)
	}
	argsJSON, err := json.Marshal(wireArgs)
	if err != nil {
		return MacroResult{}, fmt.Errorf("encoding macro arguments: %w", err)
	}

	var resultJSON string
	if err := r.vm.Set("__funee_emit_result", func(s string) { resultJSON = s }); err != nil {
		return MacroResult{}, fmt.Errorf("installing macro result op: %w", err)
	}

	script := fmt.Sprintf(`(function() {
  const macroFn = (%s);
  const args = (%s).map(function(a) {
    return { expression: a.expression, references: new Map(Object.entries(a.references)) };
  });
  const result = macroFn(...args);
  const closure = {
    expression: result.expression,
    references: Object.fromEntries(result.references || new Map()),
  };
  const tagged = result && result.definitions
    ? { type: "WithDefinitions", closure: closure, definitions: result.definitions }
    : { type: "Simple", closure: closure };
  __funee_emit_result(JSON.stringify(tagged));
})();`, macroCode, string(argsJSON))

	if _, err := r.vm.RunString(script); err != nil {
		return MacroResult{}, fmt.Errorf("executing macro: %w", err)
	}
	if resultJSON == "" {
		return MacroResult{}, fmt.Errorf("macro did not produce a result")
	}

	var wire wireResult
	if err := json.Unmarshal([]byte(resultJSON), &wire); err != nil {
		return MacroResult{}, fmt.Errorf("decoding macro result: %w", err)
	}
	return fromWireResult(wire), nil
}

func toWireClosure(c closure.Closure) wireClosure {
	refs := make(map[string]wireReference, len(c.References))
	for name, id := range c.References {
		refs[name] = wireReference{URI: id.URI, Name: id.Name}
	}
	return wireClosure{Expression: c.Expression, References: refs}
}

func fromWireResult(w wireResult) MacroResult {
	refs := make(map[string]ident.Canonical, len(w.Closure.References))
	for name, r := range w.Closure.References {
		refs[name] = ident.New(r.URI, r.Name)
	}
	result := MacroResult{
		Closure: closure.Closure{Expression: w.Closure.Expression, References: refs},
	}
	if len(w.Definitions) > 0 {
		result.Definitions = make(map[ident.Canonical]string, len(w.Definitions))
		for _, d := range w.Definitions {
			result.Definitions[ident.New(d.URI, d.Name)] = d.Code
		}
	}
	return result
}
