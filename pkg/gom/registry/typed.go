package registry

import (
	"context"
	"reflect"

	"github.com/randalmurphal/gom/pkg/gom/observability"
)

// Register stores value under key as a T.
//
// If key is already registered, whatever its type, the old slot is
// discarded and replaced: the previous value is never observable again.
// Register fails only with ErrEmptyKey or, on a sealed store, ErrSealed.
func Register[T any](s *Store, key string, value T) error {
	key = s.normalize(key)
	if key == "" {
		return s.reject(observability.OpRegister, key, ErrEmptyKey)
	}

	sl := newSlot(value)

	s.mu.Lock()
	if s.sealed.Load() {
		s.mu.Unlock()
		return s.reject(observability.OpRegister, key, ErrSealed)
	}
	replaced := s.swap(key, sl)
	s.mu.Unlock()

	s.record(observability.OpRegister, observability.OutcomeOK)
	if !replaced {
		s.opt.metrics.RecordSlots(context.Background(), 1)
	}
	observability.LogRegister(s.opt.logger, key, typeName(sl.typ), replaced)
	return nil
}

// Apply runs fn with exclusive access to the T stored under key and returns
// its result.
//
// It returns the zero R and false if key is absent or holds a value of
// another type; the slot is left untouched in both cases.
//
// fn runs while the slot's write lock is held: other operations on the same
// key wait until it returns, so keep it short. fn may use any other key,
// but calling Apply, With, Get, Remove or Replace on the same key from
// inside fn deadlocks. If fn panics the slot is poisoned and every later
// typed operation on it with the slot's own type panics with *PoisonError;
// other types still see a plain mismatch.
func Apply[T, R any](s *Store, key string, fn func(*T) R) (R, bool) {
	var zero R
	key = s.normalize(key)

	sl := s.lockLive(key, true)
	if sl == nil {
		s.record(observability.OpApply, observability.OutcomeNotFound)
		return zero, false
	}
	ptr, ok := sl.box.(*T)
	if !ok {
		sl.mu.Unlock()
		s.mismatch(observability.OpApply, key, sl, reflect.TypeFor[T]())
		return zero, false
	}
	sl.checkPoison(key, sl.mu.Unlock)
	defer sl.mu.Unlock()

	held := observability.TimedOperation()
	completed := false
	defer func() {
		s.opt.metrics.RecordLockHold(context.Background(), observability.OpApply, held())
		if !completed {
			sl.poisoned.Store(true)
			observability.LogPoisoned(s.opt.logger, key, sl.id)
		}
	}()

	r := fn(ptr)
	completed = true
	s.record(observability.OpApply, observability.OutcomeOK)
	return r, true
}

// With runs fn with a copy of the T stored under key while holding the
// slot's read lock, and returns its result. Concurrent With calls on the
// same key run in parallel; Apply, Remove and Replace wait for them.
//
// Absence and type mismatch behave as in Apply. Mutations fn makes through
// reference types inside the value (maps, slices, pointers) are not
// synchronized; use Apply for those.
func With[T, R any](s *Store, key string, fn func(T) R) (R, bool) {
	var zero R
	key = s.normalize(key)

	sl := s.lockLive(key, false)
	if sl == nil {
		s.record(observability.OpWith, observability.OutcomeNotFound)
		return zero, false
	}
	ptr, ok := sl.box.(*T)
	if !ok {
		sl.mu.RUnlock()
		s.mismatch(observability.OpWith, key, sl, reflect.TypeFor[T]())
		return zero, false
	}
	sl.checkPoison(key, sl.mu.RUnlock)
	defer sl.mu.RUnlock()

	held := observability.TimedOperation()
	defer func() {
		s.opt.metrics.RecordLockHold(context.Background(), observability.OpWith, held())
	}()

	r := fn(*ptr)
	s.record(observability.OpWith, observability.OutcomeOK)
	return r, true
}

// Get returns a copy of the T stored under key.
func Get[T any](s *Store, key string) (T, bool) {
	return With(s, key, func(v T) T { return v })
}

// Remove deletes key and returns its value if it holds a T.
//
// If key is absent, or holds a value of another type, Remove returns the
// zero T and false and the slot stays registered.
func Remove[T any](s *Store, key string) (T, bool) {
	var zero T
	key = s.normalize(key)

	for {
		sl := s.lockLive(key, true)
		if sl == nil {
			s.record(observability.OpRemove, observability.OutcomeNotFound)
			return zero, false
		}
		ptr, ok := sl.box.(*T)
		if !ok {
			sl.mu.Unlock()
			s.mismatch(observability.OpRemove, key, sl, reflect.TypeFor[T]())
			return zero, false
		}
		sl.checkPoison(key, sl.mu.Unlock)

		s.mu.Lock()
		if s.entries[key] != sl {
			// Re-registered while we waited for the slot lock.
			s.mu.Unlock()
			sl.mu.Unlock()
			continue
		}
		sl.dead.Store(true)
		delete(s.entries, key)
		s.mu.Unlock()

		value := *ptr
		sl.mu.Unlock()

		s.record(observability.OpRemove, observability.OutcomeOK)
		s.opt.metrics.RecordSlots(context.Background(), -1)
		observability.LogRemove(s.opt.logger, key, typeName(sl.typ))
		return value, true
	}
}

// Replace swaps the T stored under key for value and returns the old one.
// The slot itself is kept, so its SlotInfo.ID does not change.
//
// If key is absent nothing is registered; if it holds another type the
// slot is left untouched. Both cases return the zero T and false.
func Replace[T any](s *Store, key string, value T) (T, bool) {
	var zero T
	key = s.normalize(key)

	sl := s.lockLive(key, true)
	if sl == nil {
		s.record(observability.OpReplace, observability.OutcomeNotFound)
		return zero, false
	}
	ptr, ok := sl.box.(*T)
	if !ok {
		sl.mu.Unlock()
		s.mismatch(observability.OpReplace, key, sl, reflect.TypeFor[T]())
		return zero, false
	}
	sl.checkPoison(key, sl.mu.Unlock)
	defer sl.mu.Unlock()

	old := *ptr
	*ptr = value
	s.record(observability.OpReplace, observability.OutcomeOK)
	return old, true
}

// Ensure registers factory() under key unless key is already registered.
//
// It returns nil when key holds a T afterwards, a *TypeMismatchError when
// key already holds another type, a *PoisonError when the existing T is
// poisoned, and ErrSealed or ErrEmptyKey when an
// insert was needed but refused. The check and the insert are atomic, so
// concurrent Ensure calls run factory at most once per key.
//
// factory runs while the store's key map is locked and must not call back
// into the store.
func Ensure[T any](s *Store, key string, factory func() T) error {
	key = s.normalize(key)

	sl, created, err := s.ensureSlot(key, func() *slot { return newSlot(factory()) })
	if err != nil {
		return s.reject(observability.OpEnsure, key, err)
	}

	if !created {
		if _, ok := sl.box.(*T); !ok {
			want := reflect.TypeFor[T]()
			s.mismatch(observability.OpEnsure, key, sl, want)
			return &TypeMismatchError{Key: key, Want: want, Got: sl.typ}
		}
		if sl.poisoned.Load() {
			return &PoisonError{Key: key, SlotID: sl.id}
		}
		s.record(observability.OpEnsure, observability.OutcomeOK)
		return nil
	}

	s.record(observability.OpEnsure, observability.OutcomeOK)
	s.opt.metrics.RecordSlots(context.Background(), 1)
	observability.LogRegister(s.opt.logger, key, typeName(sl.typ), false)
	return nil
}

func (s *Store) ensureSlot(key string, build func() *slot) (*slot, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sl, ok := s.entries[key]; ok {
		return sl, false, nil
	}
	if key == "" {
		return nil, false, ErrEmptyKey
	}
	if s.sealed.Load() {
		return nil, false, ErrSealed
	}
	sl := build()
	s.entries[key] = sl
	return sl, true, nil
}

// Check reports whether key holds a usable T: nil, ErrNotFound, a
// *TypeMismatchError or a *PoisonError. It never panics and never blocks
// on a slot lock.
func Check[T any](s *Store, key string) error {
	key = s.normalize(key)

	sl := s.lookup(key)
	if sl == nil {
		return ErrNotFound
	}
	if _, ok := sl.box.(*T); !ok {
		return &TypeMismatchError{Key: key, Want: reflect.TypeFor[T](), Got: sl.typ}
	}
	if sl.poisoned.Load() {
		return &PoisonError{Key: key, SlotID: sl.id}
	}
	return nil
}

func (s *Store) mismatch(op, key string, sl *slot, want reflect.Type) {
	s.record(op, observability.OutcomeTypeMismatch)
	observability.LogTypeMismatch(s.opt.logger, op, key, typeName(want), typeName(sl.typ))
}

func (s *Store) reject(op, key string, err error) error {
	s.record(op, observability.OutcomeRejected)
	observability.LogRejected(s.opt.logger, key, err)
	return err
}
