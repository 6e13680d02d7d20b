package service

import (
	"context"

	"github.com/reefscan/fieldvault/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/service_mocks.go -package=mock

// SyncStore is the slice of the record store the sync services depend on.
type SyncStore interface {
	Ready() bool
	PendingCounts(ctx context.Context) (models.PendingCounts, error)
	MarkSynced(ctx context.Context, collection models.Collection) (int64, error)
}

// Uploader ships one collection's pending records to the remote service
// before the sweep flips their flags. No remote endpoint is modeled yet; the
// interface is the integration point where a real upload protocol (with its
// retry and backoff policy) would plug in. The default is [NopUploader].
type Uploader interface {
	Upload(ctx context.Context, collection models.Collection) error
}

// NetworkSignal is the host capability exposing the device's network state:
// the current boolean status plus change notifications. No polling happens;
// the monitor reacts only to values arriving on Changes.
type NetworkSignal interface {
	Online() bool
	Changes() <-chan bool
}

// Sweeper is the part of the sync tracker the connectivity monitor invokes
// when the device comes back online.
type Sweeper interface {
	SyncPending(ctx context.Context) (models.SyncReport, error)
}
