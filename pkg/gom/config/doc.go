/*
Package config loads store settings from YAML or JSON files.

# Overview

A settings file turns on the optional behaviour of a registry.Store
without code changes:

	# gom.yaml
	name: app         # log records carry store=app
	case_fold: true   # keys are case-insensitive
	sealed: true      # Settings.Seal closes the store to new keys
	metrics: true     # OpenTelemetry metrics via the global meter provider
	log_level: debug  # slog text logs at this level; omit to disable

# Usage

	settings, err := config.FromFile("gom.yaml")
	if err != nil {
	    log.Fatal(err)
	}
	opts, err := settings.Options(os.Stderr)
	if err != nil {
	    log.Fatal(err)
	}
	store := registry.New(opts...)
	// register startup values
	settings.Seal(store)

FromFile picks the parser by extension (.yaml, .yml, .json). Unknown
fields and invalid log levels are errors; an empty YAML document yields the
zero Settings.
*/
package config
