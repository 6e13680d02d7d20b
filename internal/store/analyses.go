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

// StoreAnalysis persists one AI identification result set for the given image
// id and returns the analysis record's own id. The image id is not checked
// against the image collection — an analysis may reference an image that was
// never stored or has since been cleared. Storing twice for the same image id
// keeps both records; see [RecordStore.AnalysisByImage] for the lookup rule.
func (s *RecordStore) StoreAnalysis(ctx context.Context, imageID string, results []byte) (string, error) {
	db, err := s.handle()
	if err != nil {
		return "", err
	}

	if len(results) == 0 {
		results = []byte("[]")
	}

	id := newRecordID()
	query, args, err := qb.Insert("analyses").
		Columns("id", "image_id", "results", "created_at", "synced").
		Values(id, imageID, string(results), formatTime(time.Now()), int(models.SyncPending)).
		ToSql()
	if err != nil {
		return "", fmt.Errorf("store analysis: %w: %w", ErrBuildingSQLQuery, err)
	}

	if _, err = db.ExecContext(ctx, query, args...); err != nil {
		s.log.Err(err).
			Str("func", "RecordStore.StoreAnalysis").
			Str("id", id).
			Str("image_id", imageID).
			Msg("failed to insert analysis")
		return "", fmt.Errorf("store analysis: %w: %w", ErrWriteRejected, err)
	}

	s.notifyChange()
	return id, nil
}

// AnalysisByImage returns the analysis stored for the given image id, using
// the image_id index. A missing analysis is a valid outcome, reported via the
// boolean. When several analyses exist for one image id, the most recently
// stored record wins (descending timestamp, then descending id).
func (s *RecordStore) AnalysisByImage(ctx context.Context, imageID string) (models.StoredAnalysis, bool, error) {
	db, err := s.handle()
	if err != nil {
		return models.StoredAnalysis{}, false, err
	}

	query, args, err := qb.Select("id", "image_id", "results", "created_at", "synced").
		From("analyses").
		Where(sq.Eq{"image_id": imageID}).
		OrderBy("created_at DESC", "id DESC").
		Limit(1).
		ToSql()
	if err != nil {
		return models.StoredAnalysis{}, false, fmt.Errorf("get analysis: %w: %w", ErrBuildingSQLQuery, err)
	}

	var (
		analysis  models.StoredAnalysis
		results   string
		createdAt string
		synced    int
	)
	row := db.QueryRowContext(ctx, query, args...)
	if err = row.Scan(&analysis.ID, &analysis.ImageID, &results, &createdAt, &synced); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.StoredAnalysis{}, false, nil
		}
		s.log.Err(err).
			Str("func", "RecordStore.AnalysisByImage").
			Str("image_id", imageID).
			Msg("failed to scan analysis row")
		return models.StoredAnalysis{}, false, fmt.Errorf("get analysis: %w: %w", ErrScanningRow, err)
	}

	analysis.Results = []byte(results)
	analysis.CreatedAt = parseTime(createdAt)
	analysis.Synced = models.SyncState(synced)
	return analysis, true, nil
}
