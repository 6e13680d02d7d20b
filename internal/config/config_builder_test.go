package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestNewConfigBuilder_InitialState verifies that a freshly created builder
// has no error and an empty configs slice.
func TestNewConfigBuilder_InitialState(t *testing.T) {
	b := newConfigBuilder()
	require.NotNil(t, b)
	assert.NoError(t, b.err)
	assert.Empty(t, b.configs)
}

// TestBuild_PropagatesBuilderError verifies that a pre-set b.err is wrapped
// and returned, with nil config.
func TestBuild_PropagatesBuilderError(t *testing.T) {
	b := newConfigBuilder()
	b.err = assert.AnError

	cfg, err := b.build()
	assert.Nil(t, cfg)
	require.Error(t, err)
	assert.ErrorIs(t, err, assert.AnError)
}

// TestBuild_MergesMultipleConfigs verifies that fields from multiple configs
// are merged into a single result, with the earlier config winning for
// non-zero fields.
func TestBuild_MergesMultipleConfigs(t *testing.T) {
	b := newConfigBuilder()
	b.configs = append(b.configs,
		&StructuredConfig{Storage: Storage{DB: DB{DSN: "first.db"}}},
		&StructuredConfig{
			Storage: Storage{DB: DB{DSN: "second.db"}, QuotaBytes: 4096},
			Workers: Workers{SweepTimeout: time.Minute},
		},
	)

	cfg, err := b.build()
	require.NoError(t, err)
	assert.Equal(t, "first.db", cfg.Storage.DB.DSN)
	assert.Equal(t, int64(4096), cfg.Storage.QuotaBytes)
	assert.Equal(t, time.Minute, cfg.Workers.SweepTimeout)
}

// TestBuild_DefaultsFillGaps verifies that the defaults layer only fills
// fields left zero by higher-priority sources.
func TestBuild_DefaultsFillGaps(t *testing.T) {
	b := newConfigBuilder()
	b.configs = append(b.configs,
		&StructuredConfig{Storage: Storage{DB: DB{DSN: "explicit.db"}}},
	)

	cfg, err := b.withDefaults().build()
	require.NoError(t, err)
	assert.Equal(t, "explicit.db", cfg.Storage.DB.DSN)
	assert.Equal(t, 30*time.Second, cfg.Workers.SweepTimeout)
	assert.Equal(t, "0.0.0", cfg.App.Version)
}

// TestBuild_EmptyBuilderFailsValidation verifies that building with no
// sources at all is rejected (no DSN, no sweep timeout).
func TestBuild_EmptyBuilderFailsValidation(t *testing.T) {
	_, err := newConfigBuilder().build()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidStorageConfigs)
}

// TestWithJSON_UsesPathFromEarlierLayers verifies that the JSON layer picks
// up the file path discovered by the env layer.
func TestWithJSON_UsesPathFromEarlierLayers(t *testing.T) {
	path := writeTempJSON(t, `{"storage": {"db": {"dsn": "from-json.db"}}}`)

	b := newConfigBuilder()
	b.configs = append(b.configs, &StructuredConfig{JSONFilePath: path})

	cfg, err := b.withJSON().withDefaults().build()
	require.NoError(t, err)
	assert.Equal(t, "from-json.db", cfg.Storage.DB.DSN)
}

// TestWithJSON_BadFileSetsError verifies that a bad JSON path surfaces at
// build time.
func TestWithJSON_BadFileSetsError(t *testing.T) {
	b := newConfigBuilder()
	b.configs = append(b.configs, &StructuredConfig{JSONFilePath: "/nonexistent/cfg.json"})

	_, err := b.withJSON().build()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error occured during building config")
}

// ── validation ────────────────────────────────────────────────────────────────

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     StructuredConfig
		wantErr error
	}{
		{
			name: "valid",
			cfg: StructuredConfig{
				Storage: Storage{DB: DB{DSN: "x.db"}},
				Workers: Workers{SweepTimeout: time.Second},
			},
			wantErr: nil,
		},
		{
			name: "empty dsn",
			cfg: StructuredConfig{
				Workers: Workers{SweepTimeout: time.Second},
			},
			wantErr: ErrInvalidStorageConfigs,
		},
		{
			name: "negative quota",
			cfg: StructuredConfig{
				Storage: Storage{DB: DB{DSN: "x.db"}, QuotaBytes: -1},
				Workers: Workers{SweepTimeout: time.Second},
			},
			wantErr: ErrInvalidStorageConfigs,
		},
		{
			name: "zero sweep timeout",
			cfg: StructuredConfig{
				Storage: Storage{DB: DB{DSN: "x.db"}},
			},
			wantErr: ErrInvalidWorkerConfigs,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
