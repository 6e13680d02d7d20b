// SPDX-License-Identifier: Apache-2.0

package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/reefscan/fieldvault/internal/config"
	"github.com/reefscan/fieldvault/internal/logger"
	"github.com/reefscan/fieldvault/internal/store"
	"github.com/reefscan/fieldvault/models"
)

// SyncStatus is the offline context's view of sync progress.
type SyncStatus string

const (
	// SyncStatusIdle means no sweep is running and the last one succeeded.
	SyncStatusIdle SyncStatus = "idle"
	// SyncStatusSyncing means a sweep is in flight.
	SyncStatusSyncing SyncStatus = "syncing"
	// SyncStatusError means initialization or the last sweep failed.
	SyncStatusError SyncStatus = "error"
)

// Snapshot is the status tuple published to subscribers.
type Snapshot struct {
	// Ready is true once the store has opened successfully.
	Ready bool
	// Online is the last observed network state.
	Online bool
	// Sync is the current sync progress state.
	Sync SyncStatus
	// PendingUploads counts records across the syncable collections still
	// awaiting upload.
	PendingUploads int64
}

// OfflineContext bundles the record store handle, the connectivity state, the
// sync status and the pending-upload count into one explicitly constructed,
// dependency-injected service with a documented Start/Stop lifecycle. UI
// collaborators hold a reference to it instead of reaching into globals.
//
// The pending count is maintained reactively: the context subscribes to the
// store's change events, so every store or sweep mutation republishes a fresh
// snapshot without the write paths having to remember a manual refresh.
type OfflineContext struct {
	store   *store.RecordStore
	tracker *SyncTracker
	monitor *ConnectivityMonitor
	log     *logger.Logger

	opTimeout time.Duration

	mu   sync.RWMutex
	snap Snapshot
	subs []chan Snapshot
}

// NewOfflineContext wires the context from its collaborators. Nothing runs
// until Start.
func NewOfflineContext(recordStore *store.RecordStore, tracker *SyncTracker, signal NetworkSignal, workers config.Workers, log *logger.Logger) *OfflineContext {
	opTimeout := workers.SweepTimeout
	if opTimeout <= 0 {
		opTimeout = 30 * time.Second
	}

	o := &OfflineContext{
		store:     recordStore,
		tracker:   tracker,
		log:       log,
		opTimeout: opTimeout,
		snap:      Snapshot{Sync: SyncStatusIdle},
	}

	monitor := NewConnectivityMonitor(signal, tracker, workers.SweepTimeout, log)
	monitor.OnStatus(o.publishOnline)
	monitor.OnSweepStart(o.publishSweepStart)
	monitor.OnSweepDone(o.publishSweepDone)
	o.monitor = monitor

	return o
}

// Start opens the store, computes the initial pending count, subscribes to
// store change events and starts the connectivity monitor. Until Start
// returns successfully, all store-backed operations fail with
// [store.ErrNotReady]; status reads work at any time.
func (o *OfflineContext) Start(ctx context.Context) error {
	if err := o.store.Open(ctx); err != nil {
		o.publish(func(s *Snapshot) { s.Sync = SyncStatusError })
		return fmt.Errorf("start offline context: %w", err)
	}

	o.store.OnChange(o.refreshPending)

	o.publish(func(s *Snapshot) { s.Ready = true })
	o.refreshPending()

	o.monitor.Start(ctx)
	return nil
}

// Stop halts the monitor, waits for any in-flight sweep, and closes the
// store.
func (o *OfflineContext) Stop() error {
	o.monitor.Stop()
	err := o.store.Close()
	o.publish(func(s *Snapshot) { s.Ready = false })
	return err
}

// Store returns the shared record store handle for UI collaborators.
func (o *OfflineContext) Store() *store.RecordStore {
	return o.store
}

// Snapshot returns the current status tuple.
func (o *OfflineContext) Snapshot() Snapshot {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.snap
}

// Subscribe returns a channel that receives a snapshot after every status
// change. The channel holds only the latest snapshot: slow consumers lose
// intermediate states, never the most recent one.
func (o *OfflineContext) Subscribe() <-chan Snapshot {
	ch := make(chan Snapshot, 1)

	o.mu.Lock()
	o.subs = append(o.subs, ch)
	o.mu.Unlock()

	return ch
}

// Usage re-queries the host storage estimate on every call; no caching, no
// background refresh.
func (o *OfflineContext) Usage(ctx context.Context) models.StorageUsage {
	return o.store.Usage(ctx)
}

func (o *OfflineContext) publishOnline(online bool) {
	o.publish(func(s *Snapshot) { s.Online = online })
}

func (o *OfflineContext) publishSweepStart() {
	o.publish(func(s *Snapshot) { s.Sync = SyncStatusSyncing })
}

func (o *OfflineContext) publishSweepDone(report models.SyncReport, err error) {
	o.publish(func(s *Snapshot) {
		if err != nil {
			s.Sync = SyncStatusError
			return
		}
		s.Sync = SyncStatusIdle
	})
}

// refreshPending recomputes the pending count from the store indexes and
// republishes. Invoked by the store's change events and once at startup.
func (o *OfflineContext) refreshPending() {
	ctx, cancel := context.WithTimeout(context.Background(), o.opTimeout)
	defer cancel()

	pending, err := o.tracker.PendingUploads(ctx)
	if err != nil {
		o.log.Err(err).Msg("failed to refresh pending uploads count")
		return
	}

	o.publish(func(s *Snapshot) { s.PendingUploads = pending })
}

func (o *OfflineContext) publish(mutate func(*Snapshot)) {
	o.mu.Lock()
	mutate(&o.snap)
	snap := o.snap
	subs := o.subs
	o.mu.Unlock()

	for _, ch := range subs {
		select {
		case ch <- snap:
		default:
			// replace the stale snapshot so subscribers always see the
			// latest state
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- snap:
			default:
			}
		}
	}
}
