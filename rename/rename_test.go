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

package rename

import (
	"testing"

	"github.com/netanelgilad/funee/jsmodule"
)

func TestApplyRenamesFreeOccurrences(t *testing.T) {
	src, tree, node, err := jsmodule.ParseExpression("/a.ts", []byte("a + b + a"))
	if err != nil {
		t.Fatalf("ParseExpression: %v", err)
	}
	defer tree.Close()

	got := Apply(src, node, map[string]string{"a": "declaration_0", "b": "declaration_1"})
	want := "declaration_0 + declaration_1 + declaration_0"
	if got != want {
		t.Errorf("Apply = %q, want %q", got, want)
	}
}

func TestApplyDoesNotRenameBoundOccurrences(t *testing.T) {
	src, tree, node, err := jsmodule.ParseExpression("/a.ts", []byte("(function(a) { return a + b; })"))
	if err != nil {
		t.Fatalf("ParseExpression: %v", err)
	}
	defer tree.Close()

	got := Apply(src, node, map[string]string{"a": "declaration_0", "b": "declaration_1"})
	if got != "(function(a) {\n  return a + declaration_1;\n})" {
		t.Errorf("Apply = %q, want the parameter a left untouched", got)
	}
}

func TestApplyNoMatchingNamesReturnsOriginalText(t *testing.T) {
	src, tree, node, err := jsmodule.ParseExpression("/a.ts", []byte("c + d"))
	if err != nil {
		t.Fatalf("ParseExpression: %v", err)
	}
	defer tree.Close()

	got := Apply(src, node, map[string]string{"a": "declaration_0"})
	if got != "c + d" {
		t.Errorf("Apply = %q, want unchanged source", got)
	}
}

func TestFreeEditsEmptyNamesReturnsNil(t *testing.T) {
	src, tree, node, err := jsmodule.ParseExpression("/a.ts", []byte("a + b"))
	if err != nil {
		t.Fatalf("ParseExpression: %v", err)
	}
	defer tree.Close()

	if edits := FreeEdits(src, node, nil); edits != nil {
		t.Errorf("FreeEdits with no names = %v, want nil", edits)
	}
}

func TestApplyEditsOutOfOrderInput(t *testing.T) {
	src, tree, node, err := jsmodule.ParseExpression("/a.ts", []byte("a + b"))
	if err != nil {
		t.Fatalf("ParseExpression: %v", err)
	}
	defer tree.Close()

	edits := FreeEdits(src, node, map[string]string{"a": "X", "b": "Y"})
	// Deliberately reverse them before calling ApplyEdits to exercise its
	// own internal sort rather than relying on FreeEdits' emission order.
	reversed := []Edit{edits[1], edits[0]}
	got := ApplyEdits(src, node, reversed)
	if got != "X + Y" {
		t.Errorf("ApplyEdits = %q, want %q", got, "X + Y")
	}
}
