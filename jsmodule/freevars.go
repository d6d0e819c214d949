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

// jsGlobals is the enumerated set of identifiers §4.C4 requires be excluded
// from free-variable resolution because the runtime, not a user module,
// provides them. This list is indicative rather than exhaustive by
// construction (see DESIGN.md's Open Question decision); it matches what a
// goja runtime plus the global scope of a typical JS engine exposes.
var jsGlobals = buildGlobalSet([]string{
	"globalThis", "undefined", "NaN", "Infinity",
	"Object", "Function", "Array", "String", "Number", "Boolean", "Symbol", "BigInt",
	"Math", "JSON", "Date", "RegExp", "Map", "Set", "WeakMap", "WeakSet",
	"Promise", "Proxy", "Reflect",
	"Error", "TypeError", "RangeError", "SyntaxError", "ReferenceError", "EvalError", "URIError",
	"console", "fetch",
	"setTimeout", "clearTimeout", "setInterval", "clearInterval", "queueMicrotask",
	"ArrayBuffer", "SharedArrayBuffer", "DataView",
	"Int8Array", "Uint8Array", "Uint8ClampedArray", "Int16Array", "Uint16Array",
	"Int32Array", "Uint32Array", "Float32Array", "Float64Array", "BigInt64Array", "BigUint64Array",
	"isNaN", "isFinite", "parseInt", "parseFloat", "encodeURIComponent", "decodeURIComponent",
	"encodeURI", "decodeURI", "structuredClone",
	"self", "this", "arguments", "super",
})

func buildGlobalSet(names []string) map[string]struct{} {
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		set[n] = struct{}{}
	}
	return set
}

// IsJSGlobal reports whether name is one of the runtime-provided globals
// excluded from reference resolution by §4.C4.
func IsJSGlobal(name string) bool {
	_, ok := jsGlobals[name]
	return ok
}

// scopeStack tracks nested lexical scopes during the free-variable walk,
// mirroring FreeVariableCollector's enter_scope/exit_scope/bind/is_bound.
type scopeStack struct {
	scopes []map[string]struct{}
}

func newScopeStack() *scopeStack {
	return &scopeStack{scopes: []map[string]struct{}{{}}}
}

func (s *scopeStack) enter() {
	s.scopes = append(s.scopes, map[string]struct{}{})
}

func (s *scopeStack) exit() {
	s.scopes = s.scopes[:len(s.scopes)-1]
}

func (s *scopeStack) bind(name string) {
	if name == "" {
		return
	}
	s.scopes[len(s.scopes)-1][name] = struct{}{}
}

func (s *scopeStack) isBound(name string) bool {
	for i := len(s.scopes) - 1; i >= 0; i-- {
		if _, ok := s.scopes[i][name]; ok {
			return true
		}
	}
	return false
}

// Occurrence is a single free-identifier use found by
// FreeIdentifierOccurrences: the name as spelled, and the byte range of the
// identifier token itself (not any enclosing expression).
type Occurrence struct {
	Name       string
	Start, End uint
}

// FreeVariables computes the set of identifiers free in the subtree rooted
// at node — C4's entire contract. function-parameter binding (including
// destructuring and rest patterns), variable-declarator binding,
// catch-clause binding and arrow-function parameters are honoured; known JS
// globals are excluded.
func FreeVariables(source []byte, node *ts.Node) map[string]struct{} {
	free := make(map[string]struct{})
	walkFree(source, node, func(o Occurrence) {
		free[o.Name] = struct{}{}
	})
	return free
}

// FreeIdentifierOccurrences walks the same scope-tracked traversal as
// FreeVariables but records every free occurrence's byte range rather than
// deduplicating into a name set, for C9's rename-by-byte-splice use. Sharing
// walkFree guarantees the renamer and the free-variable resolver can never
// disagree about what counts as free.
func FreeIdentifierOccurrences(source []byte, node *ts.Node) []Occurrence {
	var occurrences []Occurrence
	walkFree(source, node, func(o Occurrence) {
		occurrences = append(occurrences, o)
	})
	return occurrences
}

func walkFree(source []byte, node *ts.Node, emit func(Occurrence)) {
	scopes := newScopeStack()

	var visit func(n *ts.Node)
	visit = func(n *ts.Node) {
		if n == nil {
			return
		}
		switch n.GrammarName() {
		case "identifier":
			name := text(source, n)
			if name != "" && !scopes.isBound(name) && !IsJSGlobal(name) {
				emit(Occurrence{Name: name, Start: n.StartByte(), End: n.EndByte()})
			}
			return

		case "shorthand_property_identifier":
			name := text(source, n)
			if name != "" && !scopes.isBound(name) && !IsJSGlobal(name) {
				emit(Occurrence{Name: name, Start: n.StartByte(), End: n.EndByte()})
			}
			return

		case "property_identifier", "statement_identifier":
			// member-expression properties and statement labels are never
			// references to the enclosing scope.
			return

		case "function_declaration", "function_expression", "generator_function", "generator_function_declaration":
			nameNode := n.ChildByFieldName("name")
			if nameNode != nil {
				scopes.bind(text(source, nameNode))
			}
			scopes.enter()
			bindParameterList(source, n.ChildByFieldName("parameters"), scopes)
			visit(n.ChildByFieldName("body"))
			scopes.exit()
			return

		case "arrow_function":
			scopes.enter()
			if params := n.ChildByFieldName("parameters"); params != nil {
				bindParameterList(source, params, scopes)
			} else if p := n.ChildByFieldName("parameter"); p != nil {
				bindPattern(source, p, scopes)
			}
			visit(n.ChildByFieldName("body"))
			scopes.exit()
			return

		case "variable_declarator":
			nameNode := n.ChildByFieldName("name")
			valueNode := n.ChildByFieldName("value")
			bindPattern(source, nameNode, scopes)
			visit(valueNode)
			return

		case "catch_clause":
			scopes.enter()
			if p := n.ChildByFieldName("parameter"); p != nil {
				bindPattern(source, p, scopes)
			}
			visit(n.ChildByFieldName("body"))
			scopes.exit()
			return

		case "member_expression":
			visit(n.ChildByFieldName("object"))
			// property is a property_identifier or computed expression;
			// only computed access reads an identifier from scope.
			if n.ChildByFieldName("property") != nil {
				return
			}
			return

		case "statement_block", "class_body":
			scopes.enter()
			for _, child := range namedChildren(n) {
				child := child
				visit(&child)
			}
			scopes.exit()
			return
		}

		for _, child := range namedChildren(n) {
			child := child
			visit(&child)
		}
	}

	visit(node)
}

func bindParameterList(source []byte, params *ts.Node, scopes *scopeStack) {
	if params == nil {
		return
	}
	for _, p := range namedChildren(params) {
		p := p
		bindPattern(source, &p, scopes)
	}
}

// bindPattern binds every identifier introduced by a binding pattern
// (plain identifiers, object/array destructuring, rest and default
// patterns) into the current scope.
func bindPattern(source []byte, pattern *ts.Node, scopes *scopeStack) {
	if pattern == nil {
		return
	}
	switch pattern.GrammarName() {
	case "identifier":
		scopes.bind(text(source, pattern))

	case "required_parameter", "optional_parameter":
		bindPattern(source, pattern.ChildByFieldName("pattern"), scopes)

	case "assignment_pattern":
		bindPattern(source, pattern.ChildByFieldName("left"), scopes)

	case "rest_pattern":
		if len(namedChildren(pattern)) > 0 {
			c := namedChildren(pattern)[0]
			bindPattern(source, &c, scopes)
		}

	case "object_pattern":
		for _, prop := range namedChildren(pattern) {
			prop := prop
			switch prop.GrammarName() {
			case "shorthand_property_identifier_pattern":
				scopes.bind(text(source, &prop))
			case "pair_pattern":
				if v := prop.ChildByFieldName("value"); v != nil {
					bindPattern(source, v, scopes)
				}
			case "rest_pattern":
				bindPattern(source, &prop, scopes)
			}
		}

	case "array_pattern":
		for _, el := range namedChildren(pattern) {
			el := el
			bindPattern(source, &el, scopes)
		}

	default:
		scopes.bind(text(source, pattern))
	}
}
