/*
Package config loads the dispatcher component configuration.

# Overview

Config is a typed structure with defaults for every field. Files are
decoded over Default(), so a file only lists what it changes. Unknown
keys are rejected to catch typos early.

# Basic Usage

	cfg, err := config.FromFile("dispatcher.yaml")
	if err != nil {
	    log.Fatal(err)
	}

# File Format

	default_action: index
	priorities:
	  on_dispatch: 10000
	  do_dispatch: 1000
	bus:
	  max_depth: 10
	journal:
	  driver: sqlite        # "", memory or sqlite
	  path: ./dispatch.db
	observability:
	  metrics: true
	  tracing: true
	  log_level: debug

The same keys are accepted in JSON files.
*/
package config
