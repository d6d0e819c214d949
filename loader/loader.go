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

// Package loader implements the file loader contract the source graph
// builder requires: exists, absolutize, read. Three concrete loaders are
// provided — local filesystem, in-memory (for tests and mocks), and
// HTTP-with-cache — all behind the same FileLoader interface so the core
// never depends on a concrete backend.
package loader

// FileLoader is the external collaborator the core requires for reading
// module source. Implementations must be safe for concurrent use from one
// goroutine at a time; the core itself never calls it concurrently, but a
// watch-mode caller may hold one loader across rebuilds.
type FileLoader interface {
	// Exists reports whether a module exists at the given absolute URI.
	Exists(uri string) bool

	// Absolutize resolves a possibly-relative specifier against a base
	// directory URI into an absolute URI this loader understands.
	Absolutize(base, specifier string) (string, error)

	// Read returns the raw contents of the module at the given absolute URI.
	Read(uri string) ([]byte, error)
}
