package models

import (
	"encoding/json"
	"time"
)

// SyncState marks whether a record has been uploaded to the remote service.
// The flag transitions SyncPending -> SyncDone exactly once and never reverts.
type SyncState int

const (
	// SyncPending means the record has not been uploaded yet.
	SyncPending SyncState = 0
	// SyncDone means the record was marked uploaded by the sync sweep.
	SyncDone SyncState = 1
)

// String returns a human-readable label for the sync state.
func (s SyncState) String() string {
	if s == SyncDone {
		return "done"
	}
	return "pending"
}

// Location holds the GPS fix attached to a field note. A note cannot be
// persisted without one; validating that the fix is present and plausible is
// the capture UI's responsibility, not the store's.
type Location struct {
	Latitude  float64
	Longitude float64
	// AccuracyM is the reported horizontal accuracy in meters.
	AccuracyM float64
}

// StoredImage is one captured photograph as persisted locally.
type StoredImage struct {
	// ID is assigned by the store at write time. IDs are unique within the
	// collection and sort lexicographically in creation order.
	ID string
	// Payload is the encoded image bytes exactly as handed in by the camera
	// collaborator.
	Payload []byte
	// MediaType is the payload encoding, e.g. "image/jpeg".
	MediaType string
	CreatedAt time.Time
	Synced    SyncState
}

// FieldNoteDraft is the caller-supplied part of a field note. The store adds
// the id and the sync flag.
type FieldNoteDraft struct {
	Title       string
	Description string
	Location    Location
	// Weather, Depth and Substrate are optional free-text annotations.
	Weather   string
	Depth     string
	Substrate string
	Tags      []string
	// CreatedAt is the capture timestamp. When zero the store stamps the
	// current time instead.
	CreatedAt time.Time
}

// StoredFieldNote is a persisted field note.
type StoredFieldNote struct {
	ID          string
	Title       string
	Description string
	Location    Location
	Weather     string
	Depth       string
	Substrate   string
	Tags        []string
	CreatedAt   time.Time
	Synced      SyncState
}

// StoredAnalysis is a persisted AI identification result set for one image.
// Results are opaque to the store: an ordered JSON array produced by the
// analysis collaborator. ImageID is not referentially enforced; an analysis
// may outlive or predate the image row it points at.
type StoredAnalysis struct {
	ID        string
	ImageID   string
	Results   json.RawMessage
	CreatedAt time.Time
	Synced    SyncState
}

// SymbolDraft is one reference symbol handed in on a cache refresh.
type SymbolDraft struct {
	ID       string
	Category string
	// Attrs carries the remaining reference fields as raw JSON.
	Attrs json.RawMessage
}

// CachedSymbol is one entry of the locally cached reference-symbol list.
type CachedSymbol struct {
	ID          string
	Category    string
	Attrs       json.RawMessage
	LastUpdated time.Time
}

// Collection names one of the four record collections.
type Collection string

const (
	CollectionImages     Collection = "images"
	CollectionFieldNotes Collection = "field_notes"
	CollectionAnalyses   Collection = "analyses"
	CollectionSymbols    Collection = "symbol_cache"
)

// SyncableCollections lists the collections swept by the sync tracker, in
// sweep order.
func SyncableCollections() []Collection {
	return []Collection{CollectionImages, CollectionFieldNotes, CollectionAnalyses}
}

// PendingCounts holds the per-collection number of records still awaiting
// upload.
type PendingCounts struct {
	Images     int64
	FieldNotes int64
	Analyses   int64
}

// Total sums the pending counts across all syncable collections.
func (p PendingCounts) Total() int64 {
	return p.Images + p.FieldNotes + p.Analyses
}

// SyncReport describes the outcome of one sync sweep: how many records each
// collection flipped to SyncDone. On a partial sweep the collections processed
// before the failure keep their counts; nothing is rolled back.
type SyncReport struct {
	Images     int64
	FieldNotes int64
	Analyses   int64
}

// Total sums the flipped-record counts of the report.
func (r SyncReport) Total() int64 {
	return r.Images + r.FieldNotes + r.Analyses
}

// With returns a copy of the report with flipped added to the given
// collection's count. Unknown collections leave the report unchanged.
func (r SyncReport) With(c Collection, flipped int64) SyncReport {
	switch c {
	case CollectionImages:
		r.Images += flipped
	case CollectionFieldNotes:
		r.FieldNotes += flipped
	case CollectionAnalyses:
		r.Analyses += flipped
	}
	return r
}

// StorageUsage reports local database size against the space available to it.
// Both values are zero when the host cannot estimate storage.
type StorageUsage struct {
	// UsedBytes is the current size of the local database.
	UsedBytes int64
	// QuotaBytes is the total space the database may grow into.
	QuotaBytes int64
}
