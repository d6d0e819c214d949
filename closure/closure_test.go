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

package closure

import (
	"testing"

	"github.com/netanelgilad/funee/ident"
)

func TestCaptureOnlyKeepsAmbientNames(t *testing.T) {
	free := map[string]struct{}{"x": {}, "y": {}, "z": {}}
	ambient := map[string]ident.Canonical{
		"x": ident.New("/a.ts", "x"),
		"y": ident.New("/b.ts", "y"),
	}

	c := Capture("x + y + z", free, ambient)

	if c.Expression != "x + y + z" {
		t.Errorf("Expression = %q", c.Expression)
	}
	if len(c.References) != 2 {
		t.Fatalf("References = %v, want 2 entries", c.References)
	}
	if c.References["x"] != ambient["x"] {
		t.Errorf("References[x] = %v, want %v", c.References["x"], ambient["x"])
	}
	if c.References["y"] != ambient["y"] {
		t.Errorf("References[y] = %v, want %v", c.References["y"], ambient["y"])
	}
	if _, ok := c.References["z"]; ok {
		t.Error("z has no ambient binding and must not appear in References")
	}
}

func TestCaptureEmptyFree(t *testing.T) {
	c := Capture("42", nil, map[string]ident.Canonical{"x": ident.New("/a.ts", "x")})
	if len(c.References) != 0 {
		t.Errorf("References = %v, want empty", c.References)
	}
}
