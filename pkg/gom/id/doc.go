/*
Package id builds namespaced registry keys.

Keys are dotted paths with a leading separator. Build starts a path and
Extend continues one, so related keys share a prefix:

	var (
	    App    = id.MustBuild("app")
	    Logger = id.MustExtend(App, "logger") // ".app.logger"
	    Cache  = id.MustExtend(App, "cache")  // ".app.cache"
	)

Every function is pure and has no dependency on a store. When the
segments are literals the same keys can be written as Go constants, which
the compiler folds:

	const Logger = id.Separator + "app" + id.Separator + "logger"

Build and Extend accept any strings; MustBuild and MustExtend additionally
require identifier segments (letters, digits, underscores, not starting
with a digit), and Validate checks an existing key against the same rule.
*/
package id
