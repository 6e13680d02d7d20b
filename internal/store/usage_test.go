package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reefscan/fieldvault/internal/config"
	"github.com/reefscan/fieldvault/internal/logger"
)

func newFileStore(t *testing.T, quota int64) *RecordStore {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "capture.db")
	s := New(config.Storage{DB: config.DB{DSN: dsn}, QuotaBytes: quota}, logger.Nop())
	require.NoError(t, s.Open(context.Background()))
	t.Cleanup(func() { _ = s.Close() })

	return s
}

func TestUsage_FileBacked(t *testing.T) {
	s := newFileStore(t, 0)
	ctx := context.Background()

	_, err := s.StoreImage(ctx, make([]byte, 4096), "")
	require.NoError(t, err)

	usage := s.Usage(ctx)
	assert.Positive(t, usage.UsedBytes, "a populated database occupies pages")
	assert.GreaterOrEqual(t, usage.QuotaBytes, usage.UsedBytes,
		"quota includes the current size plus free space")
}

func TestUsage_ConfiguredQuotaOverride(t *testing.T) {
	const quota = int64(64 << 20)
	s := newFileStore(t, quota)
	ctx := context.Background()

	_, err := s.StoreImage(ctx, []byte("x"), "")
	require.NoError(t, err)

	usage := s.Usage(ctx)
	assert.Positive(t, usage.UsedBytes)
	assert.Equal(t, quota, usage.QuotaBytes)
}

func TestUsage_GrowsWithStoredData(t *testing.T) {
	s := newFileStore(t, 0)
	ctx := context.Background()

	before := s.Usage(ctx)
	for i := 0; i < 16; i++ {
		_, err := s.StoreImage(ctx, make([]byte, 32<<10), "")
		require.NoError(t, err)
	}
	after := s.Usage(ctx)

	assert.Greater(t, after.UsedBytes, before.UsedBytes)
}
