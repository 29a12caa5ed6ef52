// Package config loads the sortdir TOML configuration and applies
// environment overrides on top of it.
package config
