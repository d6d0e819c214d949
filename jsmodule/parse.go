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

import (
	"fmt"

	"github.com/evanw/esbuild/pkg/api"
	ts "github.com/tree-sitter/go-tree-sitter"

	"github.com/netanelgilad/funee/queries"
)

// ParseError is returned when a module's source cannot be parsed, carrying
// the URI and an esbuild/tree-sitter diagnostic, matching the ParseError
// entry of the error taxonomy (§7).
type ParseError struct {
	URI        string
	Diagnostic string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error in %s: %s", e.URI, e.Diagnostic)
}

// EraseTypes strips TypeScript-only syntax from source, leaving plain JS
// text. esbuild reprints the code: statement order, identifier names and
// value imports (used or not) survive, but the original formatting
// (whitespace, quoting, redundant parentheses) does not. This is the first half of
// C2's "parse as permissive TypeScript, then lower by erasing type-only
// syntax" contract.
func EraseTypes(uri string, source []byte) ([]byte, error) {
	result := api.Transform(string(source), api.TransformOptions{
		Loader:      api.LoaderTS,
		Format:      api.FormatESModule,
		Sourcemap:   api.SourceMapNone,
		Sourcefile:  uri,
		TsconfigRaw: `{"compilerOptions":{"importHelpers":false,"verbatimModuleSyntax":true}}`,
	})
	if len(result.Errors) > 0 {
		msg := result.Errors[0].Text
		for _, e := range result.Errors[1:] {
			msg += "; " + e.Text
		}
		return nil, &ParseError{URI: uri, Diagnostic: msg}
	}
	return result.Code, nil
}

// Parse runs C2 end to end: erase types, then parse the erased text with a
// pooled tree-sitter parser, then extract the module's declaration table
// (C3). The returned *ts.Tree must be closed by the caller once the module
// (and anything holding byte ranges into it) is no longer needed.
func Parse(uri string, source []byte) (*Module, *ts.Tree, error) {
	erased, err := EraseTypes(uri, source)
	if err != nil {
		return nil, nil, err
	}

	parser := queries.RetrieveTypeScriptParser()
	defer queries.PutTypeScriptParser(parser)

	tree := parser.Parse(erased, nil)
	if tree == nil {
		return nil, nil, &ParseError{URI: uri, Diagnostic: "tree-sitter returned no parse tree"}
	}
	root := tree.RootNode()
	if root.HasError() {
		tree.Close()
		return nil, nil, &ParseError{URI: uri, Diagnostic: "syntax error in erased source"}
	}

	declarations, err := extractDeclarations(uri, erased, root)
	if err != nil {
		tree.Close()
		return nil, nil, err
	}

	return &Module{URI: uri, Source: erased, Declarations: declarations}, tree, nil
}

// ParseExpression parses a single standalone expression (the seed the host
// supplies, or the result of re-parsing a macro's returned expression
// string) and returns its erased source buffer alongside the syntax node of
// the expression itself (unwrapped from its containing expression
// statement).
func ParseExpression(uri string, code []byte) ([]byte, *ts.Tree, *ts.Node, error) {
	erased, err := EraseTypes(uri, code)
	if err != nil {
		return nil, nil, nil, err
	}

	parser := queries.RetrieveTypeScriptParser()
	defer queries.PutTypeScriptParser(parser)

	tree := parser.Parse(erased, nil)
	if tree == nil {
		return nil, nil, nil, &ParseError{URI: uri, Diagnostic: "tree-sitter returned no parse tree"}
	}
	root := tree.RootNode()
	if root.HasError() || root.NamedChildCount() == 0 {
		tree.Close()
		return nil, nil, nil, &ParseError{URI: uri, Diagnostic: "expression did not parse to a single statement"}
	}
	stmt := root.NamedChild(0)
	if stmt == nil || stmt.GrammarName() != "expression_statement" || stmt.NamedChildCount() == 0 {
		tree.Close()
		return nil, nil, nil, &ParseError{URI: uri, Diagnostic: "expected a single expression"}
	}
	expr := stmt.NamedChild(0)
	return erased, tree, expr, nil
}
