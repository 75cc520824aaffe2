package validation_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reglet-dev/reglet-natives/application/validation"
	"github.com/reglet-dev/reglet-natives/domain/errors"
)

const entrySchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["stable"],
  "properties": {
    "stable": {"type": "string", "pattern": "^0x[0-9A-F]+$"}
  },
  "additionalProperties": false
}`

func TestDocumentValidator_Validate(t *testing.T) {
	v, err := validation.NewDocumentValidator("entry.json", []byte(entrySchema))
	require.NoError(t, err)

	t.Run("valid document", func(t *testing.T) {
		assert.NoError(t, v.Validate([]byte(`{"stable":"0xAAAA"}`)))
	})

	t.Run("pattern mismatch", func(t *testing.T) {
		err := v.Validate([]byte(`{"stable":"zzz"}`))
		require.Error(t, err)
		var cfgErr *errors.ConfigError
		require.ErrorAs(t, err, &cfgErr)
		assert.Equal(t, "/stable", cfgErr.Field)
	})

	t.Run("missing property", func(t *testing.T) {
		err := v.Validate([]byte(`{}`))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "stable")
	})

	t.Run("unknown property", func(t *testing.T) {
		assert.Error(t, v.Validate([]byte(`{"stable":"0x1","extra":1}`)))
	})

	t.Run("malformed JSON", func(t *testing.T) {
		err := v.Validate([]byte(`{`))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "malformed JSON")
	})
}

func TestNewDocumentValidator_InvalidSchema(t *testing.T) {
	_, err := validation.NewDocumentValidator("bad.json", []byte(`{"type": 12}`))
	require.Error(t, err)
}
