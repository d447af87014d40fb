package routes

import (
	"flixcrd-backend/handlers/ping"

	"github.com/gin-gonic/gin"
)

func HealthRoutes(r *gin.Engine, deps Dependencies) {
	h := ping.New(deps.DB)
	r.GET("/ping", h.HandlePing)
	r.GET("/health", h.HandleHealth)
}
