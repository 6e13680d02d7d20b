package config

import (
	"flag"
)

// ParseFlags parses all configuration flags.
//
// Flags:
//
//	-d database path or DSN for the local capture store
//	-quota storage quota override in bytes (0 = estimate from filesystem)
//	-sweep-timeout sync sweep timeout (e.g., "30s", "2m")
//	-c/-config json file path with configs
func ParseFlags() *StructuredConfig {
	var databaseDSN string
	var quotaBytes int64
	var sweepTimeout flagDuration
	var jsonConfigPath string

	flag.StringVar(&databaseDSN, "d", "", "Local database path or DSN")
	flag.Int64Var(&quotaBytes, "quota", 0, "Storage quota override in bytes")
	flag.Var(&sweepTimeout, "sweep-timeout", "Sync sweep timeout (e.g., 30s, 2m)")
	flag.StringVar(&jsonConfigPath, "c", "", "JSON config file path")
	flag.StringVar(&jsonConfigPath, "config", "", "JSON config file path (alias)")

	flag.Parse()

	return &StructuredConfig{
		Storage: Storage{
			DB:         DB{DSN: databaseDSN},
			QuotaBytes: quotaBytes,
		},
		Workers:      Workers{SweepTimeout: sweepTimeout.value()},
		JSONFilePath: jsonConfigPath,
	}
}
