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

package ident

import "testing"

func TestNewEquality(t *testing.T) {
	a := New("/a.ts", "foo")
	b := New("/a.ts", "foo")
	c := New("/a.ts", "bar")
	d := New("/b.ts", "foo")

	if a != b {
		t.Errorf("expected %v == %v", a, b)
	}
	if a == c {
		t.Errorf("expected %v != %v", a, c)
	}
	if a == d {
		t.Errorf("expected %v != %v", a, d)
	}
}

func TestIsHostCandidate(t *testing.T) {
	if !New(StdlibURI, "log").IsHostCandidate() {
		t.Error("expected stdlib identifier to be a host candidate")
	}
	if New("/a.ts", "log").IsHostCandidate() {
		t.Error("expected user-module identifier to not be a host candidate")
	}
}

func TestString(t *testing.T) {
	got := New("/a.ts", "foo").String()
	want := "/a.ts#foo"
	if got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestDefaultConstant(t *testing.T) {
	if Default != "default" {
		t.Errorf("Default = %q, want \"default\"", Default)
	}
}
