// Package testutil provides fixtures and assertions shared by the dispatcher's tests.
package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reglet-dev/reglet-natives/natives"
)

// RequireRegistered asserts that every hash has a handler in reg.
func RequireRegistered(t *testing.T, reg *natives.HandlerRegistry, hashes ...natives.NativeHash) {
	t.Helper()
	for _, h := range hashes {
		require.True(t, reg.Has(h), "expected handler for native %s", h)
	}
}

// AssertNotRegistered asserts that none of the hashes has a handler in reg.
func AssertNotRegistered(t *testing.T, reg *natives.HandlerRegistry, hashes ...natives.NativeHash) {
	t.Helper()
	for _, h := range hashes {
		assert.False(t, reg.Has(h), "unexpected handler for native %s", h)
	}
}

// AssertArgs asserts the pushed arguments of c, slot by slot.
func AssertArgs(t *testing.T, c *natives.CallContext, want ...natives.NativeValue) {
	t.Helper()
	require.Equal(t, len(want), c.ArgCount(), "argument count")
	assert.Equal(t, want, c.Arguments())
}
