package service

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/reefscan/fieldvault/internal/logger"
	"github.com/reefscan/fieldvault/models"
)

// ConnectivityMonitor is a two-state machine, Online and Offline, driven
// entirely by the host's network-change signal. The initial state is read
// synchronously at startup; an Offline-to-Online transition triggers exactly
// one sync sweep. While a sweep is in flight further Online transitions are
// dropped by a busy flag — at most one sweep runs at a time, and the guard is
// admission control only, never cancellation of the running sweep.
type ConnectivityMonitor struct {
	signal       NetworkSignal
	sweeper      Sweeper
	sweepTimeout time.Duration
	log          *logger.Logger

	busy atomic.Bool

	onStatus     func(online bool)
	onSweepStart func()
	onSweepDone  func(models.SyncReport, error)

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewConnectivityMonitor creates a monitor that watches signal and invokes
// sweeper on Offline-to-Online transitions. The monitor is idle until Start.
func NewConnectivityMonitor(signal NetworkSignal, sweeper Sweeper, sweepTimeout time.Duration, log *logger.Logger) *ConnectivityMonitor {
	if sweepTimeout <= 0 {
		sweepTimeout = 30 * time.Second
	}

	return &ConnectivityMonitor{
		signal:       signal,
		sweeper:      sweeper,
		sweepTimeout: sweepTimeout,
		log:          log,
		onStatus:     func(bool) {},
		onSweepStart: func() {},
		onSweepDone:  func(models.SyncReport, error) {},
	}
}

// OnStatus registers the publisher for online/offline state, called once with
// the initial state and then on every transition. Must be set before Start.
func (m *ConnectivityMonitor) OnStatus(fn func(online bool)) {
	if fn != nil {
		m.onStatus = fn
	}
}

// OnSweepStart registers the publisher called when a triggered sweep begins.
// Must be set before Start.
func (m *ConnectivityMonitor) OnSweepStart(fn func()) {
	if fn != nil {
		m.onSweepStart = fn
	}
}

// OnSweepDone registers the publisher called with the outcome of a triggered
// sweep. Must be set before Start.
func (m *ConnectivityMonitor) OnSweepDone(fn func(models.SyncReport, error)) {
	if fn != nil {
		m.onSweepDone = fn
	}
}

// Start stops any previously running monitor, publishes the current network
// state, then launches the watch goroutine. The goroutine exits when ctx is
// cancelled or Stop is called.
func (m *ConnectivityMonitor) Start(ctx context.Context) {
	m.Stop()

	m.mu.Lock()
	watchCtx, cancel := context.WithCancel(ctx)
	m.cancel = cancel
	m.wg.Add(1)
	m.mu.Unlock()

	online := m.signal.Online()
	m.onStatus(online)
	m.log.Debug().Bool("online", online).Msg("connectivity monitor started")

	go func() {
		defer m.wg.Done()

		for {
			select {
			case <-watchCtx.Done():
				return
			case now, ok := <-m.signal.Changes():
				if !ok {
					return
				}
				if now == online {
					continue
				}

				wasOnline := online
				online = now
				m.onStatus(now)
				m.log.Debug().Bool("online", now).Msg("network state changed")

				if now && !wasOnline {
					m.triggerSweep(watchCtx)
				}
			}
		}
	}()
}

// Stop cancels the watch goroutine and blocks until it and any in-flight
// sweep have fully exited. Safe to call when the monitor is not running.
func (m *ConnectivityMonitor) Stop() {
	m.mu.Lock()
	cancel := m.cancel
	m.cancel = nil
	m.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	m.wg.Wait()
}

// triggerSweep launches one sweep unless another is already in flight. The
// busy flag suppresses the redundant trigger; it does not queue it.
func (m *ConnectivityMonitor) triggerSweep(ctx context.Context) {
	if !m.busy.CompareAndSwap(false, true) {
		m.log.Debug().Msg("sweep already in flight, trigger dropped")
		return
	}

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		defer m.busy.Store(false)

		m.onSweepStart()

		sweepCtx, cancel := context.WithTimeout(ctx, m.sweepTimeout)
		defer cancel()

		report, err := m.sweeper.SyncPending(sweepCtx)
		if err != nil {
			m.log.Err(err).Msg("triggered sweep failed")
		}
		m.onSweepDone(report, err)
	}()
}
