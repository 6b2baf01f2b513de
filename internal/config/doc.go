// Package config loads, normalizes, and validates oggfix configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), and reads TOML files. Always obtain settings through this
// package so downstream code receives sanitized paths, canonical pipeline
// names, and clear validation errors.
package config
