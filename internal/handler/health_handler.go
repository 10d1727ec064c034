package handler

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"

	"github.com/affinet/awin-gateway/internal/cache"
	"github.com/affinet/awin-gateway/internal/utils"
)

// HealthHandler reports service health.
type HealthHandler struct {
	db    *sqlx.DB
	redis *cache.RedisClient
}

// NewHealthHandler constructs a HealthHandler.
func NewHealthHandler(db *sqlx.DB, redis *cache.RedisClient) *HealthHandler {
	return &HealthHandler{db: db, redis: redis}
}

// GetHealth pings the backing stores and reports their status.
func (h *HealthHandler) GetHealth(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	status := gin.H{"database": "up", "redis": "up"}
	healthy := true

	if err := h.db.PingContext(ctx); err != nil {
		status["database"] = "down"
		healthy = false
	}
	if err := h.redis.Ping(ctx); err != nil {
		status["redis"] = "down"
		healthy = false
	}

	if !healthy {
		utils.Error(c, 503, "UNHEALTHY", "One or more dependencies are down")
		return
	}
	utils.Success(c, 200, "OK", status)
}
