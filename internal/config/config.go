// SPDX-License-Identifier: Apache-2.0

package config

import (
	"time"
)

// StructuredConfig is the top-level configuration container for the fieldvault
// offline store. It aggregates all sub-configurations and is populated by
// merging values from environment variables, command-line flags, an optional
// JSON file, and built-in defaults.
//
// Struct tags:
//   - envPrefix — prefix applied to all nested env tag lookups (caarlos0/env).
//   - env       — direct environment variable name for scalar fields.
type StructuredConfig struct {
	// App holds application-level settings such as the version string.
	App App `envPrefix:"APP_"`

	// Storage holds configuration for the local capture database.
	Storage Storage `envPrefix:"STORAGE_"`

	// Workers holds settings for background work such as the sync sweep.
	Workers Workers `envPrefix:"WORKERS_"`

	// JSONFilePath is the optional path to a JSON configuration file.
	// When non-empty, the file is parsed and merged below the values
	// already loaded from environment variables and flags.
	// Populated via the CONFIG environment variable or the -c / -config flag.
	JSONFilePath string `env:"CONFIG"`
}

// App holds application-level configuration values.
type App struct {
	// Version is the semantic version string of the running application
	// (e.g. "1.2.3"), reported in log output and status snapshots.
	// Env: APP_VERSION
	Version string `env:"VERSION"`
}

// Storage groups settings of the local persistence layer.
type Storage struct {
	// DB holds the local SQLite database settings.
	DB DB `envPrefix:"DB_"`

	// QuotaBytes optionally caps the storage quota reported to the UI.
	// When zero, the quota is estimated from the filesystem hosting the
	// database file.
	// Env: STORAGE_QUOTA_BYTES
	QuotaBytes int64 `env:"QUOTA_BYTES"`
}

// DB holds connection settings for the local capture database.
type DB struct {
	// DSN is the SQLite path or connection string of the capture database
	// (e.g. "fieldvault.db" or ":memory:").
	// Env: STORAGE_DB_DSN
	DSN string `env:"DSN"`
}

// Workers holds configuration for background work.
type Workers struct {
	// SweepTimeout bounds a single sync sweep triggered by a connectivity
	// change (e.g. "30s", "2m").
	// Env: WORKERS_SWEEP_TIMEOUT
	SweepTimeout time.Duration `env:"SWEEP_TIMEOUT"`
}

// GetConfig loads, merges, and validates the application configuration from
// all available sources in the following priority order (first non-zero value
// wins):
//  1. Environment variables
//  2. Command-line flags
//  3. JSON file (path resolved from sources 1 and 2)
//  4. Defaults
//
// Returns a fully populated *StructuredConfig or an error if any source fails
// to load or the final config fails validation.
func GetConfig() (*StructuredConfig, error) {
	return newConfigBuilder().
		withEnv().
		withFlags().
		withJSON().
		withDefaults().
		build()
}
