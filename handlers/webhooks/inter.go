package webhooks

import (
	"net/http"

	"flixcrd-backend/billing"
	"flixcrd-backend/utils"

	"github.com/gin-gonic/gin"
)

// InterPix traite un lot de Pix reçus; chaque txid est réconcilié séparément
// @Summary Banco Inter Pix webhook
// @Description Accepte un tableau nu, {"pix": [...]} ou {"pixRecebidos": [...]}. Chaque txid est revérifié auprès d'Inter avant tout changement d'état.
// @Tags webhooks
// @Accept json
// @Produce json
// @Param x-webhook-token header string false "Token partagé (ou x-inter-webhook-token)"
// @Param payload body object true "Notification Pix Inter"
// @Success 200 {object} webhookResponse
// @Failure 400 {object} map[string]string "error: Invalid JSON payload"
// @Failure 401 {object} map[string]string "error: Unauthorized"
// @Failure 413 {object} map[string]string "error: Payload too large"
// @Failure 500 {object} webhookResponse
// @Failure 502 {object} webhookResponse "Revérification en échec, le provider doit renvoyer"
// @Router /webhooks/inter/pix [post]
func (h *Handler) InterPix(c *gin.Context) {
	body, ok := readBody(c)
	if !ok {
		return
	}

	items, err := parsePixBatch(body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON payload"})
		return
	}
	if len(items) == 0 {
		utils.WithProvider(billing.ProviderInterPix, "").Info("Pix webhook without txid")
	}

	b := newBatch(billing.ProviderInterPix)
	for _, n := range items {
		b.add(h.engine.ReconcileInterPix(c.Request.Context(), n))
	}
	b.respond(c)
}

// InterCobranca traite les notifications de boleto Inter
// @Summary Banco Inter cobrança webhook
// @Description Extrait chaque codigoSolicitacao du payload, quelle que soit sa forme, et réconcilie les cobranças correspondantes.
// @Tags webhooks
// @Accept json
// @Produce json
// @Param x-webhook-token header string false "Token partagé (ou x-inter-webhook-token)"
// @Param payload body object true "Notification cobrança Inter"
// @Success 200 {object} webhookResponse
// @Failure 400 {object} map[string]string "error: Invalid JSON payload"
// @Failure 401 {object} map[string]string "error: Unauthorized"
// @Failure 413 {object} map[string]string "error: Payload too large"
// @Failure 500 {object} webhookResponse
// @Failure 502 {object} webhookResponse "Revérification en échec, le provider doit renvoyer"
// @Router /webhooks/inter/cobranca [post]
func (h *Handler) InterCobranca(c *gin.Context) {
	body, ok := readBody(c)
	if !ok {
		return
	}

	items, err := parseCobrancas(body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON payload"})
		return
	}
	if len(items) == 0 {
		utils.WithProvider(billing.ProviderInterCobranca, "").Info("Cobranca webhook without codigoSolicitacao")
	}

	b := newBatch(billing.ProviderInterCobranca)
	for _, n := range items {
		b.add(h.engine.ReconcileInterCobranca(c.Request.Context(), n))
	}
	b.respond(c)
}
