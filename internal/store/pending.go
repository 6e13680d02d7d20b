package store

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"golang.org/x/sync/errgroup"

	"github.com/reefscan/fieldvault/models"
)

// PendingCounts returns the per-collection number of records still awaiting
// upload. Each count is an index query on the synced flag, so the cost is
// proportional to the pending records, not the collection size. The three
// counts run concurrently and are joined before the result is returned.
func (s *RecordStore) PendingCounts(ctx context.Context) (models.PendingCounts, error) {
	if _, err := s.handle(); err != nil {
		return models.PendingCounts{}, err
	}

	var counts models.PendingCounts
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		n, err := s.countPending(gctx, "images")
		counts.Images = n
		return err
	})
	g.Go(func() error {
		n, err := s.countPending(gctx, "field_notes")
		counts.FieldNotes = n
		return err
	})
	g.Go(func() error {
		n, err := s.countPending(gctx, "analyses")
		counts.Analyses = n
		return err
	})

	if err := g.Wait(); err != nil {
		return models.PendingCounts{}, err
	}

	return counts, nil
}

func (s *RecordStore) countPending(ctx context.Context, table string) (int64, error) {
	db, err := s.handle()
	if err != nil {
		return 0, err
	}

	query, args, err := qb.Select("COUNT(*)").
		From(table).
		Where(sq.Eq{"synced": int(models.SyncPending)}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("count pending %s: %w: %w", table, ErrBuildingSQLQuery, err)
	}

	var count int64
	if err = db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		s.log.Err(err).
			Str("func", "RecordStore.countPending").
			Str("collection", table).
			Msg("failed to count pending records")
		return 0, fmt.Errorf("count pending %s: %w: %w", table, ErrExecutingQuery, err)
	}

	return count, nil
}

// MarkSynced flips every pending record of one syncable collection to
// SyncDone, leaving all other fields untouched, and returns how many records
// were flipped. The sweep is the only writer allowed to set the flag; the
// transition is monotonic and never reverts. Calling with nothing pending is
// a no-op.
func (s *RecordStore) MarkSynced(ctx context.Context, collection models.Collection) (int64, error) {
	db, err := s.handle()
	if err != nil {
		return 0, err
	}

	switch collection {
	case models.CollectionImages, models.CollectionFieldNotes, models.CollectionAnalyses:
	default:
		return 0, fmt.Errorf("mark synced: %w: %s", ErrUnknownCollection, collection)
	}

	query, args, err := qb.Update(string(collection)).
		Set("synced", int(models.SyncDone)).
		Where(sq.Eq{"synced": int(models.SyncPending)}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("mark synced %s: %w: %w", collection, ErrBuildingSQLQuery, err)
	}

	result, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		s.log.Err(err).
			Str("func", "RecordStore.MarkSynced").
			Str("collection", string(collection)).
			Msg("failed to flip sync flags")
		return 0, fmt.Errorf("mark synced %s: %w: %w", collection, ErrWriteRejected, err)
	}

	flipped, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("mark synced %s: rows affected: %w", collection, err)
	}

	if flipped > 0 {
		s.log.Debug().
			Str("collection", string(collection)).
			Int64("flipped", flipped).
			Msg("marked pending records as synced")
		s.notifyChange()
	}

	return flipped, nil
}
