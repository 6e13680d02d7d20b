package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/reefscan/fieldvault/internal/config"
	"github.com/reefscan/fieldvault/internal/logger"
	"github.com/reefscan/fieldvault/internal/service"
	"github.com/reefscan/fieldvault/internal/store"
	"github.com/reefscan/fieldvault/models"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	printBuildInfo()

	log := logger.NewLogger("fieldvault")
	cfg, err := config.GetConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}

	recordStore := store.New(cfg.Storage, log)
	tracker := service.NewSyncTracker(recordStore, nil, log)

	// Stand-in for the host's network-change notifications: SIGUSR1 marks
	// the device online, SIGUSR2 offline.
	netSignal := service.NewManualSignal(true)

	offline := service.NewOfflineContext(recordStore, tracker, netSignal, cfg.Workers, log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err = offline.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("start offline context")
	}
	defer offline.Stop()

	go watchConnectivitySignals(ctx, netSignal)

	usage := offline.Usage(ctx)
	log.Info().
		Str("version", cfg.App.Version).
		Int64("used_bytes", usage.UsedBytes).
		Int64("quota_bytes", usage.QuotaBytes).
		Msg("offline store ready")

	updates := offline.Subscribe()
	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("shutting down")
			return
		case snap := <-updates:
			log.Info().
				Bool("online", snap.Online).
				Str("sync", string(snap.Sync)).
				Int64("pending_uploads", snap.PendingUploads).
				Msg("status changed")
		}
	}
}

func watchConnectivitySignals(ctx context.Context, netSignal *service.ManualSignal) {
	toggles := make(chan os.Signal, 1)
	signal.Notify(toggles, syscall.SIGUSR1, syscall.SIGUSR2)
	defer signal.Stop(toggles)

	for {
		select {
		case <-ctx.Done():
			return
		case sig := <-toggles:
			netSignal.Set(sig == syscall.SIGUSR1)
		}
	}
}

func printBuildInfo() {
	fmt.Println(models.NewBuildInfo(buildVersion, buildDate, buildCommit))
}
