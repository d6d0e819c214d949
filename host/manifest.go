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

package host

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

const manifestSchema = `{
	"$schema": "https://json-schema.org/draft/2020-12/schema",
	"type": "array",
	"items": {
		"type": "object",
		"required": ["name", "arity"],
		"properties": {
			"name":   {"type": "string", "minLength": 1},
			"opName": {"type": "string"},
			"arity":  {"type": "integer", "minimum": 0}
		},
		"additionalProperties": false
	}
}`

// LoadManifest reads a host-function manifest from path, validates it
// against the embedded JSON Schema, and returns the resulting Set. A
// manifest that fails schema validation is a configuration error reported
// before any build work starts, not a core build failure.
func LoadManifest(path string) (Set, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading host manifest %s: %w", path, err)
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("host-manifest.json", bytes.NewReader([]byte(manifestSchema))); err != nil {
		return nil, fmt.Errorf("compiling host manifest schema: %w", err)
	}
	schema, err := compiler.Compile("host-manifest.json")
	if err != nil {
		return nil, fmt.Errorf("compiling host manifest schema: %w", err)
	}

	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing host manifest %s: %w", path, err)
	}
	if err := schema.Validate(raw); err != nil {
		return nil, fmt.Errorf("host manifest %s failed validation: %w", path, err)
	}

	var functions []Function
	if err := json.Unmarshal(data, &functions); err != nil {
		return nil, fmt.Errorf("decoding host manifest %s: %w", path, err)
	}
	return NewSet(functions), nil
}
