package routes

import (
	"flixcrd-backend/handlers/admin"
	"flixcrd-backend/middleware"

	"github.com/gin-gonic/gin"
)

func AdminRoutes(r *gin.Engine, deps Dependencies) {
	h := admin.New(deps.Store, deps.Engine, deps.Asaas, deps.Config.GatewayTimeout)

	adminRoutes := r.Group("/admin")
	adminRoutes.Use(middleware.AdminAuth())
	{
		adminRoutes.GET("/subscriptions/:id", h.GetSubscription)
		adminRoutes.POST("/subscriptions/:id/reactivate", h.Reactivate)
		adminRoutes.GET("/payments/:externalRef", h.GetPayment)
		adminRoutes.GET("/payments/:externalRef/pix-qrcode", h.GetPixQrCode)
		adminRoutes.GET("/pix/:txid", h.GetPix)
	}
}
