// Package registry provides a thread-safe store of values of any type
// indexed by string key, with typed access checked at run time.
//
// Each key holds one slot. A slot remembers the type its value was
// registered as, and every typed operation compares that type with the
// caller's type parameter before touching the value. A mismatch is
// reported like an absent key, never as a panic.
//
// # Basic Usage
//
// Create a store and register values:
//
//	s := registry.New()
//	registry.Register(s, "requests", int64(0))
//
//	n, ok := registry.Apply(s, "requests", func(v *int64) int64 {
//	    *v++
//	    return *v
//	})
//	// n == 1, ok == true
//
//	_, ok = registry.Get[string](s, "requests")
//	// ok == false: "requests" holds an int64
//
// Register overwrites: registering an existing key replaces its slot,
// whatever type it held.
//
// # Operations
//
//   - Register: insert or overwrite
//   - Apply: exclusive in-place mutation through *T, returns fn's result
//   - With, Get: shared read access
//   - Remove: take the value out and delete the key
//   - Replace: swap the value, keep the slot
//   - Ensure: register once, atomically
//   - Check: diagnose why a key is not usable as T
//   - Store.Exists, Store.Delete, Store.Describe, Store.Keys: type-independent
//
// # Thread Safety
//
// All operations are safe for concurrent use. Each slot has its own
// RWMutex, so a closure passed to Apply or With only blocks other
// operations on the same key. Concurrent Register calls on one key are
// last-writer-wins; a Remove racing an Apply either runs after the Apply
// completed or makes the Apply see an absent key.
//
// Closures run with the slot locked. Calling a typed operation on the same
// key from inside an Apply closure deadlocks; operations on other keys are
// fine:
//
//	registry.With(s, "config", func(c Config) bool {
//	    return registry.Register(s, "derived", c.Name) == nil // ok: other key
//	})
//
// # Poisoned Slots
//
// If an Apply closure panics, the value may be half-updated. The slot is
// marked poisoned and later typed operations on it panic with
// *PoisonError. Store.Delete or a new Register clears the condition.
package registry
