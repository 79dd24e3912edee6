package gom

import "github.com/randalmurphal/gom/pkg/gom/registry"

// Key is a key name bound to the type stored under it, so call sites do
// not repeat the type parameter:
//
//	var Hits = gom.NewKey[int64](id.MustBuild("http", "hits"))
//
//	Hits.Register(0)
//	Hits.Update(func(n *int64) { *n++ })
//
// A Key targets the process-wide store unless rebound with In. Keys are
// plain values; two keys with the same name and type address the same slot.
type Key[T any] struct {
	name  string
	store *registry.Store
}

// NewKey returns a typed key for name.
func NewKey[T any](name string) Key[T] {
	return Key[T]{name: name}
}

// Name returns the key string.
func (k Key[T]) Name() string { return k.name }

// In returns a copy of k bound to s instead of the process-wide store.
func (k Key[T]) In(s *registry.Store) Key[T] {
	k.store = s
	return k
}

func (k Key[T]) target() *registry.Store {
	if k.store != nil {
		return k.store
	}
	return Default()
}

// Register stores value under k, replacing any previous value.
func (k Key[T]) Register(value T) error {
	return registry.Register(k.target(), k.name, value)
}

// Update mutates the value in place and reports whether k held a T.
func (k Key[T]) Update(fn func(*T)) bool {
	_, ok := registry.Apply(k.target(), k.name, func(v *T) struct{} {
		fn(v)
		return struct{}{}
	})
	return ok
}

// Get returns a copy of the value.
func (k Key[T]) Get() (T, bool) {
	return registry.Get[T](k.target(), k.name)
}

// Remove deletes k and returns its value if it held a T.
func (k Key[T]) Remove() (T, bool) {
	return registry.Remove[T](k.target(), k.name)
}

// Exists reports whether k is registered, whatever its type.
func (k Key[T]) Exists() bool {
	return k.target().Exists(k.name)
}
