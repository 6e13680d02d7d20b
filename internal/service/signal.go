package service

import "sync"

// ManualSignal is a NetworkSignal driven by explicit Set calls. The
// application wires it to whatever connectivity probe the host offers; tests
// flip it directly.
type ManualSignal struct {
	mu     sync.Mutex
	online bool
	ch     chan bool
}

// NewManualSignal creates a signal with the given initial state.
func NewManualSignal(online bool) *ManualSignal {
	return &ManualSignal{
		online: online,
		ch:     make(chan bool, 16),
	}
}

// Online returns the current state.
func (s *ManualSignal) Online() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.online
}

// Set records the new state and notifies watchers. Notifications are
// best-effort: when the buffer is full the oldest value is dropped, keeping
// Set non-blocking.
func (s *ManualSignal) Set(online bool) {
	s.mu.Lock()
	s.online = online
	select {
	case s.ch <- online:
	default:
		select {
		case <-s.ch:
		default:
		}
		s.ch <- online
	}
	s.mu.Unlock()
}

// Changes returns the notification channel watched by the monitor.
func (s *ManualSignal) Changes() <-chan bool {
	return s.ch
}
