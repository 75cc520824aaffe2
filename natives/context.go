package natives

import (
	"math"

	"github.com/reglet-dev/reglet-natives/domain/entities"
	"github.com/reglet-dev/reglet-natives/domain/errors"
)

const (
	// StackSize is the number of slots in a call context.
	StackSize = 64

	// DataCapacity is the number of pending vector fix-ups a handler may
	// record during one call.
	DataCapacity = 4
)

// fixup is a vector a handler produced in packed form that must be written
// back into three consecutive result slots once the handler returns.
type fixup struct {
	value entities.Vector3
	slot  int
}

// CallContext holds one in-flight native call: the argument/result stack and
// its bookkeeping. Arguments and results alias the same backing stack, so
// results overwrite arguments from slot 0.
//
// A CallContext must be created with NewCallContext and must not be copied.
type CallContext struct {
	arguments []NativeValue
	results   []NativeValue
	argCount  int
	dataCount int
	data      [DataCapacity]fixup
	stack     [StackSize]NativeValue
	hash      NativeHash
	inFlight  bool
	missing   errors.MissingHandlerError
}

// NewCallContext returns a context whose argument and result views alias its
// own backing stack.
func NewCallContext() *CallContext {
	c := &CallContext{}
	c.initBase()
	return c
}

func (c *CallContext) initBase() {
	c.arguments = c.stack[:]
	c.results = c.stack[:]
}

// Reset prepares the context for a new call. Stack contents are left in
// place; they are overwritten by subsequent pushes.
func (c *CallContext) Reset() {
	c.argCount = 0
	c.dataCount = 0
}

// ArgCount returns the number of arguments pushed since the last Reset.
func (c *CallContext) ArgCount() int { return c.argCount }

// DataCount returns the number of pending vector fix-ups.
func (c *CallContext) DataCount() int { return c.dataCount }

// Hash returns the native currently being dispatched, or the last one
// dispatched once the call has completed.
func (c *CallContext) Hash() NativeHash { return c.hash }

// Arguments returns the pushed arguments. The slice aliases the stack.
func (c *CallContext) Arguments() []NativeValue { return c.arguments[:c.argCount] }

// Results returns the result view of the stack. It is the same memory as
// Arguments.
func (c *CallContext) Results() []NativeValue { return c.results }

// Stack returns the whole backing stack.
func (c *CallContext) Stack() []NativeValue { return c.stack[:] }

// PushValue appends a raw slot. It fails without writing when the stack is
// full.
func (c *CallContext) PushValue(v NativeValue) error {
	if c.argCount >= StackSize {
		return &errors.StackOverflowError{Capacity: StackSize}
	}
	c.arguments[c.argCount] = v
	c.argCount++
	return nil
}

// ArgValue returns argument slot i.
func (c *CallContext) ArgValue(i int) NativeValue { return c.arguments[i] }

// SetResultValue stores a raw value in result slot i.
func (c *CallContext) SetResultValue(i int, v NativeValue) { c.results[i] = v }

// PushData records a vector to be written into result slots slot, slot+1
// and slot+2 when the call completes.
func (c *CallContext) PushData(slot int, v entities.Vector3) error {
	if slot < 0 || slot+3 > StackSize {
		return &errors.SlotRangeError{Index: slot, Limit: StackSize - 2}
	}
	if c.dataCount >= DataCapacity {
		return &errors.DataOverflowError{Capacity: DataCapacity}
	}
	c.data[c.dataCount] = fixup{slot: slot, value: v}
	c.dataCount++
	return nil
}

// SetDataResults applies every pending fix-up and clears the data count.
// The dispatcher calls it after every dispatch, whether or not a handler ran.
func (c *CallContext) SetDataResults() {
	for i := 0; i < c.dataCount; i++ {
		f := c.data[i]
		writeVector3(c.results[f.slot:], f.value)
	}
	c.dataCount = 0
}

// Push appends v as the next argument, zero-padding the slot.
// The 65th push returns an *errors.StackOverflowError and leaves the stack
// untouched.
func Push[T Value](c *CallContext, v T) error {
	return c.PushValue(Encode(v))
}

// MustPush is Push for callers that treat overflow as a programming error.
func MustPush[T Value](c *CallContext, v T) {
	if err := Push(c, v); err != nil {
		panic(err)
	}
}

// PushVector3 pushes v as three float slots. Either all three are pushed or
// none.
func PushVector3(c *CallContext, v entities.Vector3) error {
	if c.argCount+3 > StackSize {
		return &errors.StackOverflowError{Capacity: StackSize}
	}
	writeVector3(c.arguments[c.argCount:], v)
	c.argCount += 3
	return nil
}

// Arg reads argument slot i as T. Handlers must keep i below ArgCount.
func Arg[T Value](c *CallContext, i int) T {
	return Decode[T](c.arguments[i])
}

// SetResult writes v into result slot i.
func SetResult[T Value](c *CallContext, i int, v T) {
	c.results[i] = Encode(v)
}

// ReadResult reinterprets result slot 0 as T. It is meaningful only
// immediately after a dispatch.
func ReadResult[T Value](c *CallContext) T {
	return Decode[T](c.results[0])
}

// ResultVector3 reads a vector returned in result slots 0 to 2.
func ResultVector3(c *CallContext) entities.Vector3 {
	return entities.Vector3{
		X: math.Float32frombits(uint32(c.results[0])),
		Y: math.Float32frombits(uint32(c.results[1])),
		Z: math.Float32frombits(uint32(c.results[2])),
	}
}

func writeVector3(dst []NativeValue, v entities.Vector3) {
	dst[0] = NativeValue(math.Float32bits(v.X))
	dst[1] = NativeValue(math.Float32bits(v.Y))
	dst[2] = NativeValue(math.Float32bits(v.Z))
}
