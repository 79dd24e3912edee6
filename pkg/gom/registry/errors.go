package registry

import (
	"errors"
	"fmt"
	"reflect"
)

// Sentinel errors for registry operations.
var (
	// ErrNotFound indicates no value is registered under the key.
	ErrNotFound = errors.New("registry: key not found")

	// ErrTypeMismatch indicates the key holds a value of another type.
	ErrTypeMismatch = errors.New("registry: type mismatch")

	// ErrSealed indicates a registration attempt on a sealed store.
	ErrSealed = errors.New("registry: sealed store")

	// ErrEmptyKey indicates a registration under an empty key.
	ErrEmptyKey = errors.New("registry: empty key")

	// ErrPoisoned indicates a slot whose last mutation panicked.
	ErrPoisoned = errors.New("registry: poisoned slot")
)

// TypeMismatchError describes a typed access that disagreed with the
// type stored under a key.
type TypeMismatchError struct {
	// Key is the (normalized) key that was accessed.
	Key string
	// Want is the type the caller asked for.
	Want reflect.Type
	// Got is the type stored in the slot.
	Got reflect.Type
}

// Error implements the error interface.
func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("registry: key %q holds %s, not %s", e.Key, typeName(e.Got), typeName(e.Want))
}

// Unwrap returns ErrTypeMismatch for errors.Is support.
func (e *TypeMismatchError) Unwrap() error {
	return ErrTypeMismatch
}

// PoisonError is the panic value raised by typed operations on a slot
// whose value was left half-mutated by a panicking Apply closure.
//
// Delete or re-Register the key to recover.
type PoisonError struct {
	// Key is the (normalized) key of the poisoned slot.
	Key string
	// SlotID identifies the poisoned slot.
	SlotID string
}

// Error implements the error interface.
func (e *PoisonError) Error() string {
	return fmt.Sprintf("registry: slot %s for key %q is poisoned", e.SlotID, e.Key)
}

// Unwrap returns ErrPoisoned for errors.Is support.
func (e *PoisonError) Unwrap() error {
	return ErrPoisoned
}

func typeName(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}
	return t.String()
}
