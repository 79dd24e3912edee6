package registry

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/randalmurphal/gom/pkg/gom/observability"
)

// Store is a thread-safe mapping from string keys to values of any type.
//
// Each key holds exactly one slot, tagged with the type its value was
// registered as. Typed access is performed by the package-level generic
// functions (Register, Apply, With, Get, Remove, Replace, Ensure, Check);
// the methods on Store are the type-independent operations.
//
// The key map and every slot have their own lock, so operations on
// different keys do not wait for each other's closures.
type Store struct {
	mu      sync.RWMutex
	entries map[string]*slot
	opt     options
	sealed  atomic.Bool
}

// New creates an empty store with the provided options.
func New(opts ...Option) *Store {
	o := defaultOptions()
	for _, fn := range opts {
		fn(&o)
	}
	if o.name != "" {
		o.logger = observability.EnrichLogger(o.logger, o.name)
	}
	return &Store{
		entries: make(map[string]*slot),
		opt:     o,
	}
}

func (s *Store) normalize(key string) string {
	if s.opt.normalizer != nil {
		return s.opt.normalizer(key)
	}
	return key
}

func (s *Store) record(op, outcome string) {
	s.opt.metrics.RecordOperation(context.Background(), op, outcome)
}

func (s *Store) lookup(key string) *slot {
	s.mu.RLock()
	sl := s.entries[key]
	s.mu.RUnlock()
	return sl
}

// lockLive returns the slot currently registered under key with its lock
// held (write lock if exclusive), or nil if the key is absent.
//
// A slot found in the map may be replaced or removed before its lock is
// acquired; in that case the lookup is retried.
func (s *Store) lockLive(key string, exclusive bool) *slot {
	for {
		sl := s.lookup(key)
		if sl == nil {
			return nil
		}
		if exclusive {
			sl.mu.Lock()
		} else {
			sl.mu.RLock()
		}
		if !sl.dead.Load() {
			return sl
		}
		if exclusive {
			sl.mu.Unlock()
		} else {
			sl.mu.RUnlock()
		}
	}
}

// swap installs sl under key and retires the slot it replaces, if any.
// Must be called with s.mu held.
func (s *Store) swap(key string, sl *slot) (replaced bool) {
	old, ok := s.entries[key]
	if ok {
		old.dead.Store(true)
	}
	s.entries[key] = sl
	return ok
}

// Exists reports whether any value is registered under key, regardless of
// its type.
func (s *Store) Exists(key string) bool {
	return s.lookup(s.normalize(key)) != nil
}

// Describe returns metadata about the slot under key.
func (s *Store) Describe(key string) (SlotInfo, bool) {
	key = s.normalize(key)
	sl := s.lookup(key)
	if sl == nil {
		return SlotInfo{}, false
	}
	return sl.info(key), true
}

// Delete removes the slot under key whatever its type, and reports whether
// a slot was present. Unlike Remove it works on poisoned slots.
func (s *Store) Delete(key string) bool {
	key = s.normalize(key)

	s.mu.Lock()
	sl, ok := s.entries[key]
	if ok {
		sl.dead.Store(true)
		delete(s.entries, key)
	}
	s.mu.Unlock()

	if !ok {
		s.record(observability.OpDelete, observability.OutcomeNotFound)
		return false
	}
	s.record(observability.OpDelete, observability.OutcomeOK)
	s.opt.metrics.RecordSlots(context.Background(), -1)
	observability.LogRemove(s.opt.logger, key, typeName(sl.typ))
	return true
}

// Clear removes every slot.
func (s *Store) Clear() {
	s.mu.Lock()
	n := len(s.entries)
	for _, sl := range s.entries {
		sl.dead.Store(true)
	}
	s.entries = make(map[string]*slot)
	s.mu.Unlock()

	s.opt.metrics.RecordSlots(context.Background(), -int64(n))
	observability.LogCleared(s.opt.logger, n)
}

// Keys returns all registered keys in lexicographic order.
func (s *Store) Keys() []string {
	s.mu.RLock()
	keys := make([]string, 0, len(s.entries))
	for k := range s.entries {
		keys = append(keys, k)
	}
	s.mu.RUnlock()

	sort.Strings(keys)
	return keys
}

// Len returns the number of registered keys.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Sealed reports whether the store rejects further registrations.
func (s *Store) Sealed() bool { return s.sealed.Load() }

// Seal makes every later Register and Ensure insert fail with ErrSealed.
// Existing slots stay readable, mutable and removable. It is idempotent;
// it returns true if this call sealed the store.
func (s *Store) Seal() bool {
	s.mu.Lock()
	changed := !s.sealed.Swap(true)
	n := len(s.entries)
	s.mu.Unlock()

	if changed {
		observability.LogSealed(s.opt.logger, n)
	}
	return changed
}
