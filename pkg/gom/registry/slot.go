package registry

import (
	"reflect"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// slot is the storage cell for one key.
//
// box always holds a *T whose dynamic type is the type tag; box, typ, id
// and created never change after the slot is published. The value behind
// box is guarded by mu. dead is set, under the store lock, when the slot
// leaves the map.
type slot struct {
	mu       sync.RWMutex
	box      any
	typ      reflect.Type
	id       string
	created  time.Time
	dead     atomic.Bool
	poisoned atomic.Bool
}

func newSlot[T any](value T) *slot {
	return &slot{
		box:     &value,
		typ:     reflect.TypeFor[T](),
		id:      uuid.NewString(),
		created: time.Now().UTC(),
	}
}

// SlotInfo describes a registered slot without touching its value.
type SlotInfo struct {
	// Key is the normalized key.
	Key string
	// Type is the type the value was registered as.
	Type reflect.Type
	// ID is unique per slot. Apply and Replace keep it; Register
	// always creates a new one.
	ID string
	// Created is when the slot was registered (UTC).
	Created time.Time
	// Poisoned reports whether a mutation of this slot panicked.
	Poisoned bool
}

func (sl *slot) info(key string) SlotInfo {
	return SlotInfo{
		Key:      key,
		Type:     sl.typ,
		ID:       sl.id,
		Created:  sl.created,
		Poisoned: sl.poisoned.Load(),
	}
}

// checkPoison panics if the slot was poisoned. Must be called with mu held;
// unlock releases it before panicking.
func (sl *slot) checkPoison(key string, unlock func()) {
	if sl.poisoned.Load() {
		unlock()
		panic(&PoisonError{Key: key, SlotID: sl.id})
	}
}
