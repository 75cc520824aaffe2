package natives

import (
	"unsafe"

	"github.com/reglet-dev/reglet-natives/domain/entities"
)

// NativeHash and NativeValue are re-exported for callers that only import
// this package.
type (
	NativeHash  = entities.NativeHash
	NativeValue = entities.NativeValue
)

// Value is the set of types that fit in one stack slot.
// Wider types cannot be pushed or read; the constraint rejects them at
// compile time.
type Value interface {
	~bool |
		~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr |
		~float32 | ~float64
}

// Encode stores v in a zeroed slot. Values narrower than a slot occupy the
// low bits and are zero-extended, so int32(-1) encodes as 0xFFFFFFFF.
func Encode[T Value](v T) NativeValue {
	p := unsafe.Pointer(&v)
	switch unsafe.Sizeof(v) {
	case 1:
		return NativeValue(*(*uint8)(p))
	case 2:
		return NativeValue(*(*uint16)(p))
	case 4:
		return NativeValue(*(*uint32)(p))
	case 8:
		return *(*uint64)(p)
	}
	panic("natives: value wider than a stack slot")
}

// Decode reinterprets the low bits of a slot as T.
func Decode[T Value](slot NativeValue) T {
	var v T
	p := unsafe.Pointer(&v)
	switch unsafe.Sizeof(v) {
	case 1:
		*(*uint8)(p) = uint8(slot)
	case 2:
		*(*uint16)(p) = uint16(slot)
	case 4:
		*(*uint32)(p) = uint32(slot)
	case 8:
		*(*uint64)(p) = slot
	default:
		panic("natives: value wider than a stack slot")
	}
	return v
}
