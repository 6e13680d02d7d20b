// Package service builds the offline workflow on top of the record store: the
// sync tracker computes pending-upload counts and performs the mark-as-synced
// sweep, the connectivity monitor turns the host's network signal into sweep
// triggers, and the offline context bundles store handle, connectivity state
// and sync progress into one lifecycle-managed unit the capture UI observes.
package service
