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

package graph

import (
	"fmt"

	"github.com/netanelgilad/funee/ident"
)

// UnresolvedReferenceError: a free identifier that is not a JS global and
// is not defined by any reachable module.
type UnresolvedReferenceError struct {
	ID ident.Canonical
}

func (e *UnresolvedReferenceError) Error() string {
	return fmt.Sprintf("unresolved reference: %s", e.ID)
}

// CircularIndirectionError: an export-chain loop.
type CircularIndirectionError struct {
	ID ident.Canonical
}

func (e *CircularIndirectionError) Error() string {
	return fmt.Sprintf("circular indirection while resolving: %s", e.ID)
}

// IOError wraps a loader failure reading a module.
type IOError struct {
	URI   string
	Cause error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("io error reading %s: %v", e.URI, e.Cause)
}

func (e *IOError) Unwrap() error { return e.Cause }
