package worker

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/affinet/awin-gateway/internal/service"
	"github.com/affinet/awin-gateway/internal/utils"
)

// FeedSyncWorker periodically refreshes the feed list and product catalog
// from the network's datafeed exports.
type FeedSyncWorker struct {
	syncService *service.FeedSyncService
	interval    time.Duration
}

// NewFeedSyncWorker constructs a FeedSyncWorker.
func NewFeedSyncWorker(syncService *service.FeedSyncService, interval time.Duration) *FeedSyncWorker {
	return &FeedSyncWorker{
		syncService: syncService,
		interval:    interval,
	}
}

// Start begins the periodic sync loop and listens for context cancellation.
func (w *FeedSyncWorker) Start(ctx context.Context) {
	log.Info().Dur("interval", w.interval).Msg("Starting feed sync worker")

	// Run immediately on start
	w.run(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.run(ctx)
		case <-ctx.Done():
			log.Info().Msg("Feed sync worker stopped")
			return
		}
	}
}

func (w *FeedSyncWorker) run(ctx context.Context) {
	log.Info().Msg("Syncing product feeds from Awin...")

	start := time.Now()
	if err := w.syncService.SyncAll(ctx); err != nil {
		if errors.Is(err, utils.ErrSyncInProgress) {
			log.Warn().Msg("Feed sync already running; skipping this tick")
			return
		}
		log.Error().Err(err).Msg("Failed to sync product feeds")
		return
	}

	log.Info().Dur("duration", time.Since(start)).Msg("Feed sync completed")
}
