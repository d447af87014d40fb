package webhooks

import (
	"encoding/json"
	"net/http"
	"strings"

	"flixcrd-backend/billing"
	"flixcrd-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type asaasPayment struct {
	ID                string          `json:"id"`
	Status            string          `json:"status"`
	BillingType       string          `json:"billingType"`
	Value             json.RawMessage `json:"value"`
	DueDate           string          `json:"dueDate"`
	PaymentDate       string          `json:"paymentDate"`
	ExternalReference string          `json:"externalReference"`
	InvoiceURL        string          `json:"invoiceUrl"`
	BankSlipURL       string          `json:"bankSlipUrl"`
}

type asaasEvent struct {
	Event   string        `json:"event"`
	Payment *asaasPayment `json:"payment"`
}

// Asaas traite un événement de paiement Asaas
// @Summary Asaas payment webhook
// @Description Le statut envoyé n'est qu'un indice: le paiement est relu via l'API Asaas avant tout changement d'état.
// @Tags webhooks
// @Accept json
// @Produce json
// @Param asaas-access-token header string false "Token configuré dans le webhook Asaas"
// @Param payload body asaasEvent true "Événement Asaas"
// @Success 200 {object} webhookResponse
// @Failure 400 {object} map[string]string "error: Invalid JSON payload"
// @Failure 401 {object} map[string]string "error: Unauthorized"
// @Failure 413 {object} map[string]string "error: Payload too large"
// @Failure 500 {object} webhookResponse
// @Failure 502 {object} webhookResponse "Revérification en échec, le provider doit renvoyer"
// @Router /webhooks/asaas [post]
func (h *Handler) Asaas(c *gin.Context) {
	body, ok := readBody(c)
	if !ok {
		return
	}

	var event asaasEvent
	if err := json.Unmarshal(body, &event); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON payload"})
		return
	}

	b := newBatch(billing.ProviderAsaas)
	if event.Payment == nil || strings.TrimSpace(event.Payment.ID) == "" {
		// subscription and account events carry no payment
		utils.Logger.WithFields(logrus.Fields{
			"source":   "webhooks",
			"provider": billing.ProviderAsaas,
			"event":    event.Event,
		}).Info("Asaas event without payment ignored")
		b.respond(c)
		return
	}

	p := event.Payment
	b.add(h.engine.ReconcileAsaas(c.Request.Context(), billing.AsaasNotification{
		Event:             event.Event,
		PaymentID:         strings.TrimSpace(p.ID),
		Status:            p.Status,
		BillingType:       p.BillingType,
		Value:             advisedValue(p.Value),
		DueDate:           p.DueDate,
		ExternalReference: p.ExternalReference,
		InvoiceURL:        p.InvoiceURL,
		Raw:               body,
	}))
	b.respond(c)
}
