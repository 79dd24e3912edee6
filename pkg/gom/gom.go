package gom

import "github.com/randalmurphal/gom/pkg/gom/registry"

// Register stores value under key in the process-wide store, replacing any
// previous value. See registry.Register.
func Register[T any](key string, value T) error {
	return registry.Register(Default(), key, value)
}

// Apply runs fn with exclusive access to the T under key and returns its
// result; false if key is absent or holds another type. fn must not touch
// the same key. See registry.Apply.
func Apply[T, R any](key string, fn func(*T) R) (R, bool) {
	return registry.Apply(Default(), key, fn)
}

// With runs fn with the T under key under a shared lock. See registry.With.
func With[T, R any](key string, fn func(T) R) (R, bool) {
	return registry.With(Default(), key, fn)
}

// Get returns a copy of the T under key.
func Get[T any](key string) (T, bool) {
	return registry.Get[T](Default(), key)
}

// Remove deletes key and returns its value if it holds a T; otherwise the
// key is left in place. See registry.Remove.
func Remove[T any](key string) (T, bool) {
	return registry.Remove[T](Default(), key)
}

// Replace swaps the T under key for value and returns the old one.
func Replace[T any](key string, value T) (T, bool) {
	return registry.Replace(Default(), key, value)
}

// Ensure registers factory() under key if key is absent.
// See registry.Ensure.
func Ensure[T any](key string, factory func() T) error {
	return registry.Ensure(Default(), key, factory)
}

// Check reports why key is not usable as a T, or nil.
func Check[T any](key string) error {
	return registry.Check[T](Default(), key)
}

// Exists reports whether key is registered, whatever its type.
func Exists(key string) bool {
	return Default().Exists(key)
}

// Delete removes key whatever its type.
func Delete(key string) bool {
	return Default().Delete(key)
}
