// Package config provides environment-based configuration for the backend.
//
// Configuration is loaded from environment variables via envconfig with
// sensible defaults for a local single-user tool. Path fields that depend
// on the user's home directory are resolved at load time.
package config
