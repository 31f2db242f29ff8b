// Package config loads, normalizes, and validates sortd configuration.
//
// Configuration lives in a TOML file, by default at
// ~/.config/sortd/config.toml with a project-local sortd.toml fallback.
// Loading always starts from Default() so missing fields keep documented
// defaults, then expands and absolutizes every path field.
package config
