package service

import "errors"

// ErrSyncFailed is returned when a sync sweep could not complete. A partial
// sweep is possible: collections processed before the failure keep their
// flipped flags (no rollback), so the next sweep simply finds fewer pending
// records. Sync is at-least-once and resumable, not atomic.
var ErrSyncFailed = errors.New("sync sweep failed")
