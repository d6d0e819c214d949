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

// Package ident defines the canonical identifier that uniquely names every
// definition a build can reach: a module URI paired with an exported name.
package ident

import "fmt"

// Default is the sentinel export name used for `export default ...`.
const Default = "default"

// StdlibURI is the synthetic module URI whose entries are host functions
// rather than user code. It is never passed to the file loader.
const StdlibURI = "funee"

// Canonical is a value-equal (uri, name) pair identifying a single
// definition across the whole program. Two Canonical values with equal
// fields are, by definition, the same definition.
type Canonical struct {
	URI  string
	Name string
}

// New constructs a Canonical identifier.
func New(uri, name string) Canonical {
	return Canonical{URI: uri, Name: name}
}

// IsHostCandidate reports whether c's URI is the stdlib synthetic module,
// i.e. whether it could possibly name a host function.
func (c Canonical) IsHostCandidate() bool {
	return c.URI == StdlibURI
}

func (c Canonical) String() string {
	return fmt.Sprintf("%s#%s", c.URI, c.Name)
}
