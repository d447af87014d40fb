package routes

import (
	"flixcrd-backend/billing"
	"flixcrd-backend/handlers/webhooks"
	"flixcrd-backend/middleware"

	"github.com/gin-gonic/gin"
)

func WebhookRoutes(r *gin.Engine, deps Dependencies) {
	h := webhooks.New(deps.Engine)
	production := deps.Config.IsProduction()

	hooks := r.Group("/webhooks")
	{
		hooks.POST("/asaas",
			middleware.WebhookToken(billing.ProviderAsaas, deps.Config.AsaasWebhookToken, production, "asaas-access-token"),
			h.Asaas)

		interAuth := middleware.WebhookToken("inter", deps.Config.InterWebhookToken, production, "x-webhook-token", "x-inter-webhook-token")
		hooks.POST("/inter/pix", interAuth, h.InterPix)
		hooks.POST("/inter/cobranca", interAuth, h.InterCobranca)
	}
}
