// Package webhooks receives payment gateway notifications, normalizes each
// provider's payload into one event per reference and hands them to the
// reconciliation engine.
package webhooks

import (
	"context"
	"errors"
	"io"
	"net/http"

	"flixcrd-backend/billing"
	"flixcrd-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const maxBodyBytes = 1 << 20

// Reconciler is the subset of the billing engine the ingestors drive.
type Reconciler interface {
	ReconcileAsaas(ctx context.Context, n billing.AsaasNotification) (billing.Result, error)
	ReconcileInterPix(ctx context.Context, n billing.PixNotification) (billing.Result, error)
	ReconcileInterCobranca(ctx context.Context, n billing.CobrancaNotification) (billing.Result, error)
}

type Handler struct {
	engine Reconciler
}

func New(engine Reconciler) *Handler {
	return &Handler{engine: engine}
}

type webhookResponse struct {
	Received bool             `json:"received"`
	Results  []billing.Result `json:"results"`
	Error    string           `json:"error,omitempty"`
}

// readBody enforces the size cap. It writes the error response itself and
// returns false when the body cannot be used.
func readBody(c *gin.Context) ([]byte, bool) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes)
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "Payload too large"})
			return nil, false
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unable to read request body"})
		return nil, false
	}
	return body, true
}

// batch collects per-reference results. A failing reference never stops
// its siblings from being processed.
type batch struct {
	provider string
	results  []billing.Result
	upstream error
	internal error
}

func newBatch(provider string) *batch {
	return &batch{provider: provider, results: []billing.Result{}}
}

func (b *batch) add(res billing.Result, err error) {
	if err != nil {
		res.Error = err.Error()
		if billing.IsUpstream(err) {
			if b.upstream == nil {
				b.upstream = err
			}
		} else {
			if b.internal == nil {
				b.internal = err
			}
			utils.WithProvider(b.provider, res.Ref).WithError(err).Error("Reconciliation failed")
		}
	}
	b.results = append(b.results, res)
}

// respond answers 200 unless something must be retried by the provider:
// 502 when re-verification failed, 500 when storage failed.
func (b *batch) respond(c *gin.Context) {
	switch {
	case b.upstream != nil:
		utils.Logger.WithFields(logrus.Fields{
			"source":   "webhooks",
			"provider": b.provider,
			"refs":     len(b.results),
		}).Warn("Answering 502 so the provider re-delivers")
		c.JSON(http.StatusBadGateway, webhookResponse{Received: true, Results: b.results, Error: "upstream verification failed"})
	case b.internal != nil:
		c.JSON(http.StatusInternalServerError, webhookResponse{Received: true, Results: b.results, Error: "internal error"})
	default:
		c.JSON(http.StatusOK, webhookResponse{Received: true, Results: b.results})
	}
}
