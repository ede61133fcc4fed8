// Package config loads and validates the YAML configuration for the
// pcmkadmin tool: status cache location, telemetry settings, and defaults
// applied before validation.
package config
