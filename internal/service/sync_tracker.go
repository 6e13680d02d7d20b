package service

import (
	"context"
	"fmt"

	"github.com/reefscan/fieldvault/internal/logger"
	"github.com/reefscan/fieldvault/internal/store"
	"github.com/reefscan/fieldvault/models"
)

// SyncTracker derives pending-upload counts and drives the mark-as-synced
// sweep across the three syncable collections.
type SyncTracker struct {
	store    SyncStore
	uploader Uploader
	log      *logger.Logger
}

// NewSyncTracker wires a tracker to the record store. A nil uploader gets the
// no-op default, making the sweep a pure local flag flip.
func NewSyncTracker(syncStore SyncStore, uploader Uploader, log *logger.Logger) *SyncTracker {
	if uploader == nil {
		uploader = NopUploader{}
	}

	return &SyncTracker{
		store:    syncStore,
		uploader: uploader,
		log:      log,
	}
}

// PendingUploads returns the total number of records, across images, field
// notes and analyses, that still await upload.
func (t *SyncTracker) PendingUploads(ctx context.Context) (int64, error) {
	counts, err := t.store.PendingCounts(ctx)
	if err != nil {
		return 0, fmt.Errorf("pending uploads: %w", err)
	}

	return counts.Total(), nil
}

// SyncPending sweeps the syncable collections in order (images, field notes,
// analyses): each collection's pending records are handed to the uploader and
// then flipped to synced in place. The sweep is idempotent when nothing is
// pending. On failure the collections already processed stay flipped; the
// returned report carries their counts and the error wraps [ErrSyncFailed]
// naming the collection that failed.
func (t *SyncTracker) SyncPending(ctx context.Context) (models.SyncReport, error) {
	var report models.SyncReport

	if !t.store.Ready() {
		return report, fmt.Errorf("%w: %w", ErrSyncFailed, store.ErrNotReady)
	}

	for _, collection := range models.SyncableCollections() {
		if err := t.uploader.Upload(ctx, collection); err != nil {
			t.log.Err(err).
				Str("collection", string(collection)).
				Msg("upload failed, sweep aborted")
			return report, fmt.Errorf("%w: upload %s: %w", ErrSyncFailed, collection, err)
		}

		flipped, err := t.store.MarkSynced(ctx, collection)
		report = report.With(collection, flipped)
		if err != nil {
			t.log.Err(err).
				Str("collection", string(collection)).
				Msg("sweep failed part-way, already-flipped records stay flipped")
			return report, fmt.Errorf("%w: sweep %s: %w", ErrSyncFailed, collection, err)
		}
	}

	if report.Total() > 0 {
		t.log.Info().
			Int64("flipped", report.Total()).
			Msg("sync sweep completed")
	}

	return report, nil
}

// NopUploader is the stand-in for a real upload transport: it accepts every
// collection without transmitting anything, so the sweep reduces to marking
// records synced locally.
type NopUploader struct{}

// Upload implements [Uploader] as a no-op.
func (NopUploader) Upload(ctx context.Context, collection models.Collection) error {
	return nil
}
