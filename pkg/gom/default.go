package gom

import (
	"sync"

	"github.com/randalmurphal/gom/pkg/gom/registry"
)

// Process-wide store and initialization guard.
var (
	defaultStore *registry.Store
	defaultOnce  sync.Once
)

// Default returns the process-wide store, creating a plain one on first
// call if Init was not called before. It is never torn down.
func Default() *registry.Store {
	defaultOnce.Do(func() {
		defaultStore = registry.New()
	})
	return defaultStore
}

// Init creates the process-wide store with opts. It must run before the
// first use of Default (or any package-level operation) to take effect,
// and reports whether it did.
func Init(opts ...registry.Option) bool {
	initialized := false
	defaultOnce.Do(func() {
		defaultStore = registry.New(opts...)
		initialized = true
	})
	return initialized
}

// resetDefault drops the process-wide store. Tests only; not safe for
// concurrent use.
func resetDefault() {
	defaultOnce = sync.Once{}
	defaultStore = nil
}
