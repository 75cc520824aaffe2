// Package validation validates raw documents against JSON schemas.
package validation

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"

	domainerrors "github.com/reglet-dev/reglet-natives/domain/errors"
)

// DocumentValidator validates JSON documents against one compiled schema.
type DocumentValidator struct {
	schema *jsonschema.Schema
}

// NewDocumentValidator compiles schemaJSON. name identifies the schema
// resource in error messages.
func NewDocumentValidator(name string, schemaJSON []byte) (*DocumentValidator, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(name, bytes.NewReader(schemaJSON)); err != nil {
		return nil, fmt.Errorf("failed to add schema resource for %s: %w", name, err)
	}

	sch, err := compiler.Compile(name)
	if err != nil {
		return nil, fmt.Errorf("invalid schema for %s: %w", name, err)
	}
	return &DocumentValidator{schema: sch}, nil
}

// Validate checks doc against the schema. Failures are reported as
// *errors.ConfigError with the failing instance location as the field.
func (v *DocumentValidator) Validate(doc []byte) error {
	var obj interface{}
	if err := json.Unmarshal(doc, &obj); err != nil {
		return &domainerrors.ConfigError{Err: fmt.Errorf("malformed JSON: %w", err)}
	}

	if err := v.schema.Validate(obj); err != nil {
		var ve *jsonschema.ValidationError
		if errors.As(err, &ve) {
			leaf := deepestCause(ve)
			return &domainerrors.ConfigError{Field: leaf.InstanceLocation, Err: errors.New(leaf.Message)}
		}
		return &domainerrors.ConfigError{Err: err}
	}
	return nil
}

// deepestCause follows the first cause chain down to the most specific
// failure, which carries the most useful location and message.
func deepestCause(ve *jsonschema.ValidationError) *jsonschema.ValidationError {
	for len(ve.Causes) > 0 {
		ve = ve.Causes[0]
	}
	return ve
}
