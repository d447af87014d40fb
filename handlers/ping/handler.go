package ping

import (
	"context"
	"net/http"
	"time"

	"flixcrd-backend/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type Handler struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Handler {
	return &Handler{db: db}
}

// HandlePing répond pong tant que le processus tourne
// @Summary Ping test
// @Description Sonde de vivacité, ne touche pas la base
// @Tags health
// @Produce json
// @Success 200 {object} utils.Response
// @Router /ping [get]
func (h *Handler) HandlePing(c *gin.Context) {
	utils.SendSuccess(c, http.StatusOK, "Ping successful", gin.H{
		"message": "pong",
	})
}

// HandleHealth vérifie que la base du ledger répond
// @Summary Readiness check
// @Description Sonde de disponibilité: ping de la base avec un timeout de 2s
// @Tags health
// @Produce json
// @Success 200 {object} utils.Response
// @Failure 503 {object} utils.Response "Database unavailable"
// @Router /health [get]
func (h *Handler) HandleHealth(c *gin.Context) {
	if h.db == nil {
		utils.SendError(c, http.StatusServiceUnavailable, "Database not initialized")
		return
	}
	sqlDB, err := h.db.DB()
	if err != nil {
		utils.SendError(c, http.StatusServiceUnavailable, "Database unavailable")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		utils.LogError(err, "Health check failed")
		utils.SendError(c, http.StatusServiceUnavailable, "Database unavailable")
		return
	}

	utils.SendSuccess(c, http.StatusOK, "Healthy", gin.H{"database": "up"})
}
