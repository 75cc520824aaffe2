package entities

// RemapEntry maps a stable native hash to the hash the current runtime
// version registers the same native under.
type RemapEntry struct {
	Stable  NativeHash `json:"stable" yaml:"stable" validate:"required"`
	Runtime NativeHash `json:"runtime" yaml:"runtime" validate:"required"`
}

// RemapTable is the ordered stable -> runtime identifier list consulted once
// while the handler registry is built. It is treated as read-only after load.
type RemapTable []RemapEntry

// Runtime returns the runtime hash recorded for a stable hash.
func (t RemapTable) Runtime(stable NativeHash) (NativeHash, bool) {
	for _, e := range t {
		if e.Stable == stable {
			return e.Runtime, true
		}
	}
	return 0, false
}

// Duplicates returns every stable hash that appears more than once, in
// order of first repetition.
func (t RemapTable) Duplicates() []NativeHash {
	seen := make(map[NativeHash]int, len(t))
	var dups []NativeHash
	for _, e := range t {
		seen[e.Stable]++
		if seen[e.Stable] == 2 {
			dups = append(dups, e.Stable)
		}
	}
	return dups
}
