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

// Package decl defines Declaration, the tagged variant every graph node
// carries as its payload. The set of kinds is closed and small, so a tagged
// struct with an exhaustive switch on Kind is preferred here over a virtual
// method per kind.
package decl

import (
	ts "github.com/tree-sitter/go-tree-sitter"

	"github.com/netanelgilad/funee/closure"
	"github.com/netanelgilad/funee/ident"
)

// Kind discriminates the variants of Declaration.
type Kind int

const (
	// Expression is the seed expression; only ever appears at the graph root.
	Expression Kind = iota
	// FunctionDeclaration is a hoistable named function.
	FunctionDeclaration
	// FunctionExpression is an anonymous or default-exported function.
	FunctionExpression
	// VariableInitializer is a named binding `name = expression`.
	VariableInitializer
	// Indirection is an unresolved re-export/import forwarding. It must
	// never survive into the final graph (invariant I2).
	Indirection
	// HostFunction is a leaf lowered by the emitter to a trampoline that
	// calls the named host op.
	HostFunction
	// Macro is a macro function body, captured at definition time. Never
	// emitted (invariant I4).
	Macro
	// ClosureValue is used only during macro expansion. Never emitted
	// (invariant I4).
	ClosureValue
)

func (k Kind) String() string {
	switch k {
	case Expression:
		return "Expression"
	case FunctionDeclaration:
		return "FunctionDeclaration"
	case FunctionExpression:
		return "FunctionExpression"
	case VariableInitializer:
		return "VariableInitializer"
	case Indirection:
		return "Indirection"
	case HostFunction:
		return "HostFunction"
	case Macro:
		return "Macro"
	case ClosureValue:
		return "ClosureValue"
	default:
		return "Unknown"
	}
}

// Declaration is the payload of every source-graph node. Exactly the fields
// relevant to Kind are populated; callers are expected to switch on Kind
// before reading any of the variant-specific fields.
type Declaration struct {
	Kind Kind

	// Source and ByteStart/ByteEnd locate this declaration's syntax within
	// its original source buffer, for Expression, FunctionDeclaration,
	// FunctionExpression, VariableInitializer and Macro. Name is the bound
	// identifier for FunctionDeclaration / VariableInitializer (the local
	// export name), empty for an anonymous FunctionExpression or the root
	// Expression.
	Source    []byte
	ByteStart uint
	ByteEnd   uint
	Name      string
	// SyntaxNode is the tree-sitter node spanning [ByteStart, ByteEnd) in
	// Source, kept alongside the byte range so free-variable analysis (C4)
	// and renaming (C9) can walk it directly instead of re-parsing.
	SyntaxNode *ts.Node

	// Target is populated for Indirection: the canonical id the reference
	// forwards to, before chasing.
	Target ident.Canonical

	// HostName is populated for HostFunction: the op name C10 forwards all
	// arguments to.
	HostName string

	// Closure is populated for ClosureValue.
	Closure closure.Closure
}

// Text returns the declaration's source text, for the variants that carry a
// byte range into Source.
func (d Declaration) Text() string {
	if d.Source == nil || d.ByteEnd > uint(len(d.Source)) || d.ByteStart > d.ByteEnd {
		return ""
	}
	return string(d.Source[d.ByteStart:d.ByteEnd])
}
