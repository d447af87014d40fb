// Package admin exposes read-only ledger inspection and the manual
// reactivation exit for the back-office.
package admin

import (
	"context"
	"errors"
	"net/http"
	"time"

	"flixcrd-backend/gateway"
	"flixcrd-backend/ledger"
	"flixcrd-backend/models"
	"flixcrd-backend/utils"

	"github.com/gin-gonic/gin"
)

type Reactivator interface {
	Reactivate(ctx context.Context, subscriptionID string) (*models.Subscription, error)
}

type Handler struct {
	store   *ledger.Store
	engine  Reactivator
	asaas   gateway.AsaasClient
	timeout time.Duration
}

func New(store *ledger.Store, engine Reactivator, asaas gateway.AsaasClient, timeout time.Duration) *Handler {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Handler{store: store, engine: engine, asaas: asaas, timeout: timeout}
}

func (h *Handler) lookupFailed(c *gin.Context, err error, what string) {
	if errors.Is(err, ledger.ErrNotFound) {
		utils.SendError(c, http.StatusNotFound, what+" not found")
		return
	}
	utils.LogError(err, "Admin lookup failed")
	utils.SendError(c, http.StatusInternalServerError, "Internal error")
}

// GetSubscription accepte l'id de l'abonnement ou celui de l'utilisateur
// @Summary Get a subscription (Admin only)
// @Description Recherche par id d'abonnement ou par id utilisateur
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "Subscription ID ou User ID"
// @Success 200 {object} utils.Response{data=models.Subscription}
// @Failure 401 {object} utils.Response "Unauthorized"
// @Failure 403 {object} utils.Response "Forbidden"
// @Failure 404 {object} utils.Response "Subscription not found"
// @Router /admin/subscriptions/{id} [get]
func (h *Handler) GetSubscription(c *gin.Context) {
	sub, err := h.store.FindSubscriptionByReference(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.lookupFailed(c, err, "Subscription")
		return
	}
	utils.SendSuccess(c, http.StatusOK, "Subscription retrieved", sub)
}

// @Summary Get a payment by gateway reference (Admin only)
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param externalRef path string true "Id Asaas ou codigoSolicitacao Inter"
// @Success 200 {object} utils.Response{data=models.Payment}
// @Failure 401 {object} utils.Response "Unauthorized"
// @Failure 403 {object} utils.Response "Forbidden"
// @Failure 404 {object} utils.Response "Payment not found"
// @Router /admin/payments/{externalRef} [get]
func (h *Handler) GetPayment(c *gin.Context) {
	payment, err := h.store.FindPaymentByRef(c.Request.Context(), c.Param("externalRef"))
	if err != nil {
		h.lookupFailed(c, err, "Payment")
		return
	}
	utils.SendSuccess(c, http.StatusOK, "Payment retrieved", payment)
}

// @Summary Get a Pix charge by txid (Admin only)
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param txid path string true "Txid"
// @Success 200 {object} utils.Response{data=models.PixPayment}
// @Failure 401 {object} utils.Response "Unauthorized"
// @Failure 403 {object} utils.Response "Forbidden"
// @Failure 404 {object} utils.Response "Pix payment not found"
// @Router /admin/pix/{txid} [get]
func (h *Handler) GetPix(c *gin.Context) {
	pix, err := h.store.FindPixByTxid(c.Request.Context(), c.Param("txid"))
	if err != nil {
		h.lookupFailed(c, err, "Pix payment")
		return
	}
	utils.SendSuccess(c, http.StatusOK, "Pix payment retrieved", pix)
}

// Reactivate repasse un abonnement CANCELED ou EXPIRED en ACTIVE avec une
// nouvelle période. Tout autre état répond 409.
// @Summary Reactivate a subscription (Admin only)
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "Subscription ID"
// @Success 200 {object} utils.Response{data=models.Subscription}
// @Failure 401 {object} utils.Response "Unauthorized"
// @Failure 403 {object} utils.Response "Forbidden"
// @Failure 404 {object} utils.Response "Subscription not found"
// @Failure 409 {object} utils.Response "Subscription is not canceled or expired"
// @Failure 500 {object} utils.Response "Internal error"
// @Router /admin/subscriptions/{id}/reactivate [post]
func (h *Handler) Reactivate(c *gin.Context) {
	id := c.Param("id")
	if _, err := h.store.FindSubscription(c.Request.Context(), id); err != nil {
		h.lookupFailed(c, err, "Subscription")
		return
	}

	sub, err := h.engine.Reactivate(c.Request.Context(), id)
	if errors.Is(err, ledger.ErrNotReactivatable) {
		utils.SendError(c, http.StatusConflict, "Subscription is not canceled or expired")
		return
	}
	if err != nil {
		utils.LogErrorWithUser(c.GetString("user_id"), err, "Reactivation failed for subscription "+id)
		utils.SendError(c, http.StatusInternalServerError, "Internal error")
		return
	}

	utils.LogSuccessWithUser(c.GetString("user_id"), "Subscription manually reactivated: "+sub.ID)
	utils.SendSuccess(c, http.StatusOK, "Subscription reactivated", sub)
}

// GetPixQrCode récupère le Pix copia e cola d'une charge Asaas
// @Summary Get the Pix QR code of an Asaas charge (Admin only)
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param externalRef path string true "Id du paiement Asaas"
// @Success 200 {object} utils.Response{data=gateway.PixQrCode}
// @Failure 401 {object} utils.Response "Unauthorized"
// @Failure 403 {object} utils.Response "Forbidden"
// @Failure 404 {object} utils.Response "Asaas payment not found"
// @Failure 502 {object} utils.Response "Unable to fetch Pix QR code"
// @Router /admin/payments/{externalRef}/pix-qrcode [get]
func (h *Handler) GetPixQrCode(c *gin.Context) {
	payment, err := h.store.FindPayment(c.Request.Context(), models.ProviderAsaas, c.Param("externalRef"))
	if err != nil {
		h.lookupFailed(c, err, "Asaas payment")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()
	qr, err := h.asaas.GetPixQrCode(ctx, payment.ExternalRef)
	if err != nil {
		utils.WithProvider("asaas", payment.ExternalRef).WithError(err).Error("Pix QR code fetch failed")
		utils.SendError(c, http.StatusBadGateway, "Unable to fetch Pix QR code")
		return
	}
	utils.SendSuccess(c, http.StatusOK, "Pix QR code retrieved", qr)
}
