package handler

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/affinet/awin-gateway/internal/service"
	"github.com/affinet/awin-gateway/internal/utils"
)

// SyncHandler exposes manual feed synchronization for admins.
type SyncHandler struct {
	syncService *service.FeedSyncService
}

// NewSyncHandler constructs a SyncHandler.
func NewSyncHandler(syncService *service.FeedSyncService) *SyncHandler {
	return &SyncHandler{syncService: syncService}
}

// TriggerSync starts a feed sync in the background. Returns 409 when a sync
// is already running.
func (h *SyncHandler) TriggerSync(c *gin.Context) {
	if h.syncService.Running() {
		utils.Error(c, 409, "SYNC_IN_PROGRESS", "A feed sync is already running")
		return
	}

	go func() {
		err := h.syncService.SyncAll(context.Background())
		if err != nil && !errors.Is(err, utils.ErrSyncInProgress) {
			log.Error().Err(err).Msg("manual feed sync failed")
		}
	}()

	utils.Success(c, 202, "Feed sync started", nil)
}
