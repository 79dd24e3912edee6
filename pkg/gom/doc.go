/*
Package gom provides a process-wide registry of values of any type.

# Overview

gom lets unrelated parts of a program share singletons (loggers, caches,
counters, connections) by name, without passing references through the
call graph or declaring a package variable for each one. Values are stored
under string keys and recovered with their original type; asking for the
wrong type is reported like a missing key.

The package-level functions operate on one process-wide store, created on
first use. Libraries that want isolation create their own store with
registry.New; the operations are identical.

# Basic Usage

	gom.Register("Number1", int64(12))

	n, ok := gom.Apply("Number1", func(x *int64) int64 { return *x })
	// n == 12, ok == true

	_, ok = gom.Get[string]("Number1")
	// ok == false: Number1 holds an int64

	v, ok := gom.Remove[int64]("Number1")
	// v == 12, ok == true; gom.Exists("Number1") == false

# Keys

Package id builds namespaced keys so independent packages do not collide:

	var (
	    Root = id.MustBuild("myapp")     // ".myapp"
	    Note = id.MustExtend(Root, "note") // ".myapp.note"
	)

Key binds a name to its type:

	var Note = gom.NewKey[[]string](id.MustBuild("myapp", "note"))

	Note.Register(nil)
	Note.Update(func(n *[]string) { *n = append(*n, "hello") })

# Configuration

Init configures the process-wide store before first use; the options can
come from a settings file:

	settings, err := config.FromFile("gom.yaml")
	if err != nil {
	    log.Fatal(err)
	}
	opts, err := settings.Options(os.Stderr)
	if err != nil {
	    log.Fatal(err)
	}
	gom.Init(opts...)

# Concurrency

Every operation is safe for concurrent use and locks only the key it
touches. Closures passed to Apply and With run with that key locked: keep
them short, and do not operate on the same key from inside them.

# Packages

  - registry: the store and its typed operations
  - id: key construction
  - config: settings files
  - observability: slog logging and OpenTelemetry metrics
*/
package gom
