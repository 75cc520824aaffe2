package entities

import (
	"fmt"
	"strconv"
	"strings"
)

// NativeHash identifies one native routine. The same type is used for both
// identifier spaces: stable hashes (what callers use) and runtime hashes
// (what the external runtime's registration table knows about).
type NativeHash uint64

// NativeValue is one stack slot of a call context. It is wide enough to hold
// a pointer, a 64-bit integer or a float64. No type tag is stored.
type NativeValue = uint64

// String renders the hash as upper-case hex with a 0x prefix.
func (h NativeHash) String() string {
	return fmt.Sprintf("0x%X", uint64(h))
}

// MarshalText implements encoding.TextMarshaler.
func (h NativeHash) MarshalText() ([]byte, error) {
	return []byte(h.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (h *NativeHash) UnmarshalText(text []byte) error {
	parsed, err := ParseNativeHash(string(text))
	if err != nil {
		return err
	}
	*h = parsed
	return nil
}

// ParseNativeHash parses "0x"-prefixed hex or plain decimal.
func ParseNativeHash(s string) (NativeHash, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty native hash")
	}

	base := 10
	digits := s
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		base = 16
		digits = s[2:]
	}

	v, err := strconv.ParseUint(digits, base, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid native hash %q: %w", s, err)
	}
	return NativeHash(v), nil
}
