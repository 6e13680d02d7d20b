package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/reefscan/fieldvault/models"
)

// StoreImage persists one captured photograph and returns its assigned id.
// The payload is stored byte-for-byte; an empty mediaType defaults to JPEG.
// The record starts out pending upload.
func (s *RecordStore) StoreImage(ctx context.Context, payload []byte, mediaType string) (string, error) {
	db, err := s.handle()
	if err != nil {
		return "", err
	}

	if mediaType == "" {
		mediaType = "image/jpeg"
	}

	id := newRecordID()
	query, args, err := qb.Insert("images").
		Columns("id", "payload", "media_type", "created_at", "synced").
		Values(id, payload, mediaType, formatTime(time.Now()), int(models.SyncPending)).
		ToSql()
	if err != nil {
		return "", fmt.Errorf("store image: %w: %w", ErrBuildingSQLQuery, err)
	}

	if _, err = db.ExecContext(ctx, query, args...); err != nil {
		s.log.Err(err).
			Str("func", "RecordStore.StoreImage").
			Str("id", id).
			Msg("failed to insert captured image")
		return "", fmt.Errorf("store image: %w: %w", ErrWriteRejected, err)
	}

	s.notifyChange()
	return id, nil
}

// GetImage looks a captured photograph up by id. A missing record is a valid
// outcome, reported via the boolean, not an error.
func (s *RecordStore) GetImage(ctx context.Context, id string) (models.StoredImage, bool, error) {
	db, err := s.handle()
	if err != nil {
		return models.StoredImage{}, false, err
	}

	query, args, err := qb.Select("id", "payload", "media_type", "created_at", "synced").
		From("images").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return models.StoredImage{}, false, fmt.Errorf("get image: %w: %w", ErrBuildingSQLQuery, err)
	}

	var (
		img       models.StoredImage
		createdAt string
		synced    int
	)
	row := db.QueryRowContext(ctx, query, args...)
	if err = row.Scan(&img.ID, &img.Payload, &img.MediaType, &createdAt, &synced); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.StoredImage{}, false, nil
		}
		s.log.Err(err).
			Str("func", "RecordStore.GetImage").
			Str("id", id).
			Msg("failed to scan captured image row")
		return models.StoredImage{}, false, fmt.Errorf("get image: %w: %w", ErrScanningRow, err)
	}

	img.CreatedAt = parseTime(createdAt)
	img.Synced = models.SyncState(synced)
	return img, true, nil
}
