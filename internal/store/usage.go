package store

import (
	"context"
	"path/filepath"

	"github.com/reefscan/fieldvault/models"
)

// Usage reports the bytes the capture database currently occupies and the
// quota it may grow into, for user-facing capacity warnings. The used size
// comes from the engine's page accounting; the quota is either the configured
// override or the hosting filesystem's free space plus the current size.
// Usage never fails: whenever the host cannot estimate storage (in-memory
// databases, unsupported platforms, engine errors) it reports {0, 0}.
func (s *RecordStore) Usage(ctx context.Context) models.StorageUsage {
	db, err := s.handle()
	if err != nil {
		return models.StorageUsage{}
	}

	if isInMemoryDSN(s.cfg.DB.DSN) {
		return models.StorageUsage{}
	}

	var pageCount, pageSize int64
	if err = db.QueryRowContext(ctx, `PRAGMA page_count;`).Scan(&pageCount); err != nil {
		return models.StorageUsage{}
	}
	if err = db.QueryRowContext(ctx, `PRAGMA page_size;`).Scan(&pageSize); err != nil {
		return models.StorageUsage{}
	}

	used := pageCount * pageSize

	quota := s.cfg.QuotaBytes
	if quota == 0 {
		free, ok := freeBytes(filepath.Dir(s.cfg.DB.DSN))
		if !ok {
			return models.StorageUsage{}
		}
		quota = used + free
	}

	return models.StorageUsage{
		UsedBytes:  used,
		QuotaBytes: quota,
	}
}
