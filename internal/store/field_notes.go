package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/reefscan/fieldvault/models"
)

// StoreFieldNote persists one field note and returns its assigned id. The
// store does not validate the draft: supplying a non-empty title, a non-empty
// description and a real GPS fix is the capture UI's contract, not enforced
// here. A zero CreatedAt is stamped with the current time.
func (s *RecordStore) StoreFieldNote(ctx context.Context, draft models.FieldNoteDraft) (string, error) {
	db, err := s.handle()
	if err != nil {
		return "", err
	}

	createdAt := draft.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	tags := draft.Tags
	if tags == nil {
		tags = []string{}
	}
	tagsJSON, err := json.Marshal(tags)
	if err != nil {
		return "", fmt.Errorf("store field note: encode tags: %w", err)
	}

	id := newRecordID()
	query, args, err := qb.Insert("field_notes").
		Columns("id", "title", "description", "latitude", "longitude", "accuracy_m",
			"weather", "depth", "substrate", "tags", "created_at", "synced").
		Values(id, draft.Title, draft.Description,
			draft.Location.Latitude, draft.Location.Longitude, draft.Location.AccuracyM,
			draft.Weather, draft.Depth, draft.Substrate,
			string(tagsJSON), formatTime(createdAt), int(models.SyncPending)).
		ToSql()
	if err != nil {
		return "", fmt.Errorf("store field note: %w: %w", ErrBuildingSQLQuery, err)
	}

	if _, err = db.ExecContext(ctx, query, args...); err != nil {
		s.log.Err(err).
			Str("func", "RecordStore.StoreFieldNote").
			Str("id", id).
			Msg("failed to insert field note")
		return "", fmt.Errorf("store field note: %w: %w", ErrWriteRejected, err)
	}

	s.notifyChange()
	return id, nil
}

// FieldNotes returns every stored field note, newest capture first. The
// strictly descending timestamp order is part of the contract; ties are
// broken by descending id, which itself increases with creation time.
func (s *RecordStore) FieldNotes(ctx context.Context) ([]models.StoredFieldNote, error) {
	db, err := s.handle()
	if err != nil {
		return nil, err
	}

	query, args, err := qb.Select("id", "title", "description", "latitude", "longitude", "accuracy_m",
		"weather", "depth", "substrate", "tags", "created_at", "synced").
		From("field_notes").
		OrderBy("created_at DESC", "id DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("get field notes: %w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		s.log.Err(err).
			Str("func", "RecordStore.FieldNotes").
			Msg("failed to query field notes")
		return nil, fmt.Errorf("get field notes: %w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	var notes []models.StoredFieldNote
	for rows.Next() {
		var (
			note      models.StoredFieldNote
			tagsJSON  string
			createdAt string
			synced    int
		)
		if err = rows.Scan(&note.ID, &note.Title, &note.Description,
			&note.Location.Latitude, &note.Location.Longitude, &note.Location.AccuracyM,
			&note.Weather, &note.Depth, &note.Substrate,
			&tagsJSON, &createdAt, &synced); err != nil {
			s.log.Err(err).
				Str("func", "RecordStore.FieldNotes").
				Msg("failed to scan field note row")
			return nil, fmt.Errorf("get field notes: %w: %w", ErrScanningRow, err)
		}

		if err = json.Unmarshal([]byte(tagsJSON), &note.Tags); err != nil {
			return nil, fmt.Errorf("get field notes: decode tags: %w", err)
		}
		note.CreatedAt = parseTime(createdAt)
		note.Synced = models.SyncState(synced)
		notes = append(notes, note)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, fmt.Errorf("get field notes: %w: %w", ErrExecutingQuery, rowsErr)
	}

	return notes, nil
}
