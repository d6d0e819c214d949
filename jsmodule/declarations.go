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
	ts "github.com/tree-sitter/go-tree-sitter"

	"github.com/netanelgilad/funee/decl"
	"github.com/netanelgilad/funee/ident"
	"github.com/netanelgilad/funee/loader"
)

// createMacroCallee is the stdlib constructor name §4.C3 recognizes
// syntactically. Semantic verification is the graph builder's job (it only
// becomes a real Macro if the name actually resolves to the stdlib entry).
const createMacroCallee = "createMacro"

// extractDeclarations implements C3: walk a module's top-level statements
// and build a name -> ModuleDeclaration map, following the recognition
// table of SPEC_FULL.md §4.C3 exactly (it is unchanged from the distilled
// spec). This mirrors the dispatch shape of
// get_module_declarations_from_module_item in the original implementation,
// one case per syntactic form.
func extractDeclarations(uri string, source []byte, root *ts.Node) (map[string]ModuleDeclaration, error) {
	decls := make(map[string]ModuleDeclaration)

	for _, stmt := range namedChildren(root) {
		stmt := stmt
		switch stmt.GrammarName() {
		case "function_declaration":
			name := text(source, stmt.ChildByFieldName("name"))
			if name == "" {
				continue
			}
			decls[name] = ModuleDeclaration{
				Exported:    false,
				Declaration: wholeNodeDecl(decl.FunctionDeclaration, source, &stmt, name),
			}

		case "lexical_declaration", "variable_declaration":
			addVariableDeclarators(decls, source, &stmt, false)

		case "import_statement":
			addImport(decls, uri, source, &stmt)

		case "export_statement":
			addExport(decls, uri, source, &stmt)
		}
	}

	return decls, nil
}

func addVariableDeclarators(decls map[string]ModuleDeclaration, source []byte, container *ts.Node, exported bool) {
	for _, child := range namedChildren(container) {
		child := child
		var declarator *ts.Node
		if child.GrammarName() == "variable_declarator" {
			declarator = &child
		} else {
			continue
		}
		name := text(source, declarator.ChildByFieldName("name"))
		value := declarator.ChildByFieldName("value")
		if name == "" || value == nil {
			continue
		}
		decls[name] = ModuleDeclaration{
			Exported:    exported,
			Declaration: variableOrMacro(source, value, name),
		}
	}
}

// variableOrMacro implements the "Macro-creation recognition" rule: a
// VariableInitializer whose value is `createMacro(<fn>)` is upgraded to a
// Macro over the first argument expression.
func variableOrMacro(source []byte, value *ts.Node, name string) decl.Declaration {
	if value.GrammarName() == "call_expression" {
		callee := value.ChildByFieldName("function")
		args := value.ChildByFieldName("arguments")
		if callee != nil && callee.GrammarName() == "identifier" && text(source, callee) == createMacroCallee && args != nil {
			argChildren := namedChildren(args)
			if len(argChildren) > 0 {
				first := argChildren[0]
				return decl.Declaration{
					Kind:       decl.Macro,
					Source:     source,
					ByteStart:  first.StartByte(),
					ByteEnd:    first.EndByte(),
					Name:       name,
					SyntaxNode: &first,
				}
			}
		}
	}
	return decl.Declaration{
		Kind:       decl.VariableInitializer,
		Source:     source,
		ByteStart:  value.StartByte(),
		ByteEnd:    value.EndByte(),
		Name:       name,
		SyntaxNode: value,
	}
}

func wholeNodeDecl(kind decl.Kind, source []byte, node *ts.Node, name string) decl.Declaration {
	return decl.Declaration{
		Kind:       kind,
		Source:     source,
		ByteStart:  node.StartByte(),
		ByteEnd:    node.EndByte(),
		Name:       name,
		SyntaxNode: node,
	}
}

func stringLiteralOf(source []byte, node *ts.Node) string {
	if node == nil {
		return ""
	}
	if s := childOfGrammar(node, "string_fragment"); s != nil {
		return text(source, s)
	}
	return text(source, node)
}

func resolveSpecifier(currentURI, specifier string) ident.Canonical {
	if loader.IsRelative(specifier) {
		return ident.Canonical{URI: loader.JoinRelative(currentURI, specifier)}
	}
	return ident.Canonical{URI: specifier}
}

func addImport(decls map[string]ModuleDeclaration, uri string, source []byte, stmt *ts.Node) {
	sourceNode := stmt.ChildByFieldName("source")
	specifier := stringLiteralOf(source, sourceNode)
	if specifier == "" {
		return
	}
	clause := childOfGrammar(stmt, "import_clause")
	if clause == nil {
		return
	}
	for _, part := range namedChildren(clause) {
		part := part
		switch part.GrammarName() {
		case "identifier":
			// import x from "./m"
			localName := text(source, &part)
			target := resolveSpecifier(uri, specifier)
			target.Name = ident.Default
			decls[localName] = ModuleDeclaration{
				Exported:    false,
				Declaration: indirectionDecl(target),
			}
		case "named_imports":
			for _, spec := range namedChildren(&part) {
				if spec.GrammarName() != "import_specifier" {
					continue
				}
				spec := spec
				importedName := text(source, spec.ChildByFieldName("name"))
				alias := spec.ChildByFieldName("alias")
				localName := importedName
				if alias != nil {
					localName = text(source, alias)
				}
				target := resolveSpecifier(uri, specifier)
				target.Name = importedName
				decls[localName] = ModuleDeclaration{
					Exported:    false,
					Declaration: indirectionDecl(target),
				}
			}
		case "namespace_import":
			// ignored per the recognition table
		}
	}
}

func addExport(decls map[string]ModuleDeclaration, uri string, source []byte, stmt *ts.Node) {
	isDefault := hasLiteralChild(stmt, "default")
	declaration := stmt.ChildByFieldName("declaration")
	value := stmt.ChildByFieldName("value")
	sourceNode := stmt.ChildByFieldName("source")

	if isDefault {
		if declaration != nil && declaration.GrammarName() == "function_declaration" {
			decls[ident.Default] = ModuleDeclaration{
				Exported:    true,
				Declaration: wholeNodeDecl(decl.FunctionExpression, source, declaration, ident.Default),
			}
			return
		}
		if value != nil {
			decls[ident.Default] = ModuleDeclaration{
				Exported:    true,
				Declaration: variableOrMacro(source, value, ident.Default),
			}
		}
		return
	}

	if declaration != nil {
		switch declaration.GrammarName() {
		case "function_declaration":
			name := text(source, declaration.ChildByFieldName("name"))
			if name == "" {
				return
			}
			decls[name] = ModuleDeclaration{
				Exported:    true,
				Declaration: wholeNodeDecl(decl.FunctionDeclaration, source, declaration, name),
			}
		case "lexical_declaration", "variable_declaration":
			addVariableDeclarators(decls, source, declaration, true)
		}
		return
	}

	clause := childOfGrammar(stmt, "export_clause")
	if clause == nil {
		return
	}
	specifier := ""
	if sourceNode != nil {
		specifier = stringLiteralOf(source, sourceNode)
	}
	for _, spec := range namedChildren(clause) {
		if spec.GrammarName() != "export_specifier" {
			continue
		}
		spec := spec
		localName := text(source, spec.ChildByFieldName("name"))
		alias := spec.ChildByFieldName("alias")
		key := localName
		if alias != nil {
			key = text(source, alias)
		}
		var target ident.Canonical
		if specifier != "" {
			target = resolveSpecifier(uri, specifier)
			target.Name = localName
		} else {
			target = ident.Canonical{URI: uri, Name: localName}
		}
		decls[key] = ModuleDeclaration{
			Exported:    true,
			Declaration: indirectionDecl(target),
		}
	}
}

func indirectionDecl(target ident.Canonical) decl.Declaration {
	return decl.Declaration{Kind: decl.Indirection, Target: target}
}
