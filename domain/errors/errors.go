// Package errors provides the dispatcher's error types.
// All error types support errors.Is against their sentinel and errors.As
// against the concrete pointer type.
package errors

import (
	stdErrors "errors"
	"fmt"

	"github.com/reglet-dev/reglet-natives/domain/entities"
)

// Sentinels for errors.Is.
var (
	ErrHandlerNotFound = stdErrors.New("native handler not found")
	ErrStackOverflow   = stdErrors.New("argument stack overflow")
	ErrDataOverflow    = stdErrors.New("auxiliary data overflow")
	ErrSlotRange       = stdErrors.New("stack slot out of range")
	ErrReentrantCall   = stdErrors.New("reentrant native call")
	ErrDuplicateRemap  = stdErrors.New("duplicate stable hash in remap table")
)

// MissingHandlerError is returned when no handler is registered for a hash.
// The call degrades to a no-op; the context stays usable.
type MissingHandlerError struct {
	Hash entities.NativeHash
}

func (e *MissingHandlerError) Error() string {
	return fmt.Sprintf("no handler registered for native %s", e.Hash)
}

func (e *MissingHandlerError) Is(target error) bool {
	return target == ErrHandlerNotFound
}

// StackOverflowError is returned when a push would exceed the stack capacity.
type StackOverflowError struct {
	Capacity int
}

func (e *StackOverflowError) Error() string {
	return fmt.Sprintf("argument stack overflow: capacity is %d slots", e.Capacity)
}

func (e *StackOverflowError) Is(target error) bool {
	return target == ErrStackOverflow
}

// DataOverflowError is returned when the auxiliary data region is full.
type DataOverflowError struct {
	Capacity int
}

func (e *DataOverflowError) Error() string {
	return fmt.Sprintf("auxiliary data overflow: capacity is %d entries", e.Capacity)
}

func (e *DataOverflowError) Is(target error) bool {
	return target == ErrDataOverflow
}

// SlotRangeError reports an access outside the usable stack slots.
type SlotRangeError struct {
	Index int
	Limit int
}

func (e *SlotRangeError) Error() string {
	return fmt.Sprintf("stack slot %d out of range [0, %d)", e.Index, e.Limit)
}

func (e *SlotRangeError) Is(target error) bool {
	return target == ErrSlotRange
}

// ReentrantCallError is returned when a handler dispatches against the
// context that is currently executing it.
type ReentrantCallError struct {
	Hash entities.NativeHash
}

func (e *ReentrantCallError) Error() string {
	return fmt.Sprintf("native %s dispatched while the call context is in use", e.Hash)
}

func (e *ReentrantCallError) Is(target error) bool {
	return target == ErrReentrantCall
}

// DuplicateRemapError reports a stable hash listed twice in a remap table.
type DuplicateRemapError struct {
	Stable entities.NativeHash
}

func (e *DuplicateRemapError) Error() string {
	return fmt.Sprintf("stable hash %s is mapped more than once", e.Stable)
}

func (e *DuplicateRemapError) Is(target error) bool {
	return target == ErrDuplicateRemap
}

// ConfigError represents a remap document that failed to load or validate.
type ConfigError struct {
	Err   error
	Field string
}

func (e *ConfigError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("remap validation failed for field '%s': %v", e.Field, e.Err)
	}
	return fmt.Sprintf("remap validation failed: %v", e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}
