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
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/netanelgilad/funee/decl"
	"github.com/netanelgilad/funee/ident"
)

func parseDecls(t *testing.T, src string) map[string]ModuleDeclaration {
	t.Helper()
	mod, tree, err := Parse("/mod.ts", []byte(src))
	if err != nil {
		t.Fatalf("Parse(%q): %v", src, err)
	}
	t.Cleanup(tree.Close)
	return mod.Declarations
}

func TestExtractFunctionDeclaration(t *testing.T) {
	decls := parseDecls(t, "function greet() { return 1; }")
	d, ok := decls["greet"]
	if !ok {
		t.Fatal("expected a declaration named greet")
	}
	if d.Declaration.Kind != decl.FunctionDeclaration {
		t.Errorf("Kind = %v, want FunctionDeclaration", d.Declaration.Kind)
	}
	if d.Exported {
		t.Error("unexported function_declaration must not be marked Exported")
	}
}

func TestExtractVariableInitializer(t *testing.T) {
	decls := parseDecls(t, "const answer = 42;")
	d, ok := decls["answer"]
	if !ok {
		t.Fatal("expected a declaration named answer")
	}
	if d.Declaration.Kind != decl.VariableInitializer {
		t.Errorf("Kind = %v, want VariableInitializer", d.Declaration.Kind)
	}
	if got, want := d.Declaration.Text(), "42"; got != want {
		t.Errorf("Text() = %q, want %q", got, want)
	}
}

func TestExtractMacroCreation(t *testing.T) {
	decls := parseDecls(t, "const myMacro = createMacro(function(args) { return args; });")
	d, ok := decls["myMacro"]
	if !ok {
		t.Fatal("expected a declaration named myMacro")
	}
	if d.Declaration.Kind != decl.Macro {
		t.Errorf("Kind = %v, want Macro", d.Declaration.Kind)
	}
}

func TestExtractDefaultExportFunction(t *testing.T) {
	decls := parseDecls(t, "export default function() { return 1; }")
	d, ok := decls[ident.Default]
	if !ok {
		t.Fatal("expected a default declaration")
	}
	if !d.Exported {
		t.Error("default export must be marked Exported")
	}
	if d.Declaration.Kind != decl.FunctionExpression {
		t.Errorf("Kind = %v, want FunctionExpression", d.Declaration.Kind)
	}
}

func TestExtractDefaultExportValue(t *testing.T) {
	decls := parseDecls(t, "export default 7;")
	d, ok := decls[ident.Default]
	if !ok {
		t.Fatal("expected a default declaration")
	}
	if d.Declaration.Kind != decl.VariableInitializer {
		t.Errorf("Kind = %v, want VariableInitializer", d.Declaration.Kind)
	}
}

func TestExtractNamedExportDeclaration(t *testing.T) {
	decls := parseDecls(t, "export const shared = 1;")
	d, ok := decls["shared"]
	if !ok {
		t.Fatal("expected a declaration named shared")
	}
	if !d.Exported {
		t.Error("named export must be marked Exported")
	}
}

func TestExtractDefaultImport(t *testing.T) {
	decls := parseDecls(t, "import thing from \"./other.ts\";")
	d, ok := decls["thing"]
	if !ok {
		t.Fatal("expected a declaration named thing")
	}
	if d.Declaration.Kind != decl.Indirection {
		t.Errorf("Kind = %v, want Indirection", d.Declaration.Kind)
	}
	if d.Declaration.Target.Name != ident.Default {
		t.Errorf("Target.Name = %q, want %q", d.Declaration.Target.Name, ident.Default)
	}
}

func TestExtractNamedImportWithAlias(t *testing.T) {
	decls := parseDecls(t, "import { foo as bar } from \"./other.ts\";")
	d, ok := decls["bar"]
	if !ok {
		t.Fatal("expected a declaration named bar")
	}
	if d.Declaration.Kind != decl.Indirection {
		t.Errorf("Kind = %v, want Indirection", d.Declaration.Kind)
	}
	if d.Declaration.Target.Name != "foo" {
		t.Errorf("Target.Name = %q, want %q", d.Declaration.Target.Name, "foo")
	}
}

func TestExtractMultipleDeclarationsAllPresent(t *testing.T) {
	decls := parseDecls(t, `
		const a = 1;
		function b() { return 2; }
		export const c = 3;
		import d from "./other.ts";
	`)

	var got []string
	for name := range decls {
		got = append(got, name)
	}
	sort.Strings(got)
	want := []string{"a", "b", "c", "d"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("declared names mismatch (-want +got):\n%s", diff)
	}
}

func TestExtractReexportFromAnotherModule(t *testing.T) {
	decls := parseDecls(t, "export { foo } from \"./other.ts\";")
	d, ok := decls["foo"]
	if !ok {
		t.Fatal("expected a declaration named foo")
	}
	if d.Declaration.Kind != decl.Indirection {
		t.Errorf("Kind = %v, want Indirection", d.Declaration.Kind)
	}
	if !d.Exported {
		t.Error("re-export must be marked Exported")
	}
}
