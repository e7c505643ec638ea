// Package config loads, normalizes, and validates optipress configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment overrides such as
// IMAGES_BASE_URL, REMOVE_SOURCE_AFTER_OPTIMIZE, and REACT_MANIFEST_OUTPUT.
// The Config type centralizes every knob the pipeline and CLI need: source
// and output directories, manifest and cache locations, delivery base URL,
// and encoder settings.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical extensions, and clear validation errors.
package config
