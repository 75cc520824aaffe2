// Package remap loads and validates identifier remap tables.
//
// A remap document lists, for one runtime version, the runtime hash each
// stable hash resolves to:
//
//	{
//	  "version": "3095",
//	  "entries": [
//	    {"stable": "0xAAAA", "runtime": "0xBBBB"}
//	  ]
//	}
//
// The same structure is accepted as YAML.
package remap

import (
	"sync"

	"github.com/reglet-dev/reglet-natives/application/schema"
	"github.com/reglet-dev/reglet-natives/application/validation"
	"github.com/reglet-dev/reglet-natives/domain/entities"
)

// Document is the on-disk form of a remap table.
type Document struct {
	Version string                `json:"version,omitempty" yaml:"version,omitempty"`
	Entries []entities.RemapEntry `json:"entries" yaml:"entries" validate:"dive"`
}

var (
	schemaOnce      sync.Once
	schemaJSON      []byte
	schemaValidator *validation.DocumentValidator
	schemaErr       error
)

func loadSchema() {
	schemaJSON, schemaErr = schema.GenerateSchema(Document{})
	if schemaErr != nil {
		return
	}
	schemaValidator, schemaErr = validation.NewDocumentValidator("remap.schema.json", schemaJSON)
}

// Schema returns the JSON Schema describing a remap document.
func Schema() ([]byte, error) {
	schemaOnce.Do(loadSchema)
	if schemaErr != nil {
		return nil, schemaErr
	}
	out := make([]byte, len(schemaJSON))
	copy(out, schemaJSON)
	return out, nil
}

// ValidateJSON checks a raw JSON remap document against Schema.
func ValidateJSON(doc []byte) error {
	schemaOnce.Do(loadSchema)
	if schemaErr != nil {
		return schemaErr
	}
	return schemaValidator.Validate(doc)
}
