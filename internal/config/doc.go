// Package config loads and validates the daemon's YAML configuration.
//
// Configuration lives in a per-user directory (~/.config/tmplsync by
// default) holding an optional config.yaml and the projects/ directory with
// the project documents themselves. A missing config.yaml means defaults;
// a malformed one is an error.
package config
