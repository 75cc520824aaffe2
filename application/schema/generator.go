// Package schema provides JSON schema generation utilities.
package schema

import (
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/invopop/jsonschema"

	"github.com/reglet-dev/reglet-natives/domain/entities"
)

// HashPattern matches the text form accepted for native hashes.
const HashPattern = `^(0[xX][0-9a-fA-F]{1,16}|[0-9]{1,20})$`

var nativeHashType = reflect.TypeOf(entities.NativeHash(0))

// GenerateSchema creates a JSON schema from a Go struct.
// It uses the `invopop/jsonschema` library to reflect on the struct
// and generate a standard JSON Schema (Draft 2020-12). Native hashes are
// described as strings, matching their text encoding.
func GenerateSchema(v interface{}) ([]byte, error) {
	reflector := jsonschema.Reflector{
		ExpandedStruct: true, // Expand struct definitions inline
		Anonymous:      true,
		Mapper:         mapType,
	}
	schema := reflector.Reflect(v)

	jsonBytes, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal schema: %w", err)
	}

	return jsonBytes, nil
}

func mapType(t reflect.Type) *jsonschema.Schema {
	if t == nativeHashType {
		return &jsonschema.Schema{
			Type:        "string",
			Pattern:     HashPattern,
			Description: "native hash, 0x-prefixed hex or decimal",
		}
	}
	return nil
}
