// Package billing is the reconciliation engine: the only code allowed to
// move Payment, PixPayment and Subscription state in response to gateway
// notifications.
//
// Every operation follows the same sequence: look the reference up, stop if
// the paid marker is already set, re-verify with the gateway (the webhook
// body is only a hint), compare values, classify the authoritative status and
// commit through a conditional update. Notifications run after the commit
// and cannot undo it.
package billing

import (
	"context"
	"errors"
	"time"

	"flixcrd-backend/gateway"
	"flixcrd-backend/ledger"
	"flixcrd-backend/metrics"
	"flixcrd-backend/models"
	"flixcrd-backend/notifier"
	"flixcrd-backend/utils"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

type Options struct {
	// Timeout bounds each re-verification call.
	Timeout time.Duration
	// Tolerance is the accepted absolute difference between expected and
	// reported values. Unset means 0.01; a valid zero demands an exact match.
	Tolerance decimal.NullDecimal
	Now       func() time.Time
	PeriodEnd func(time.Time) time.Time
}

type Engine struct {
	store     *ledger.Store
	asaas     gateway.AsaasClient
	inter     gateway.InterClient
	mailer    notifier.Mailer
	timeout   time.Duration
	tolerance decimal.Decimal
	now       func() time.Time
	periodEnd func(time.Time) time.Time
}

func NewEngine(store *ledger.Store, asaas gateway.AsaasClient, inter gateway.InterClient, mailer notifier.Mailer, opts Options) *Engine {
	e := &Engine{
		store:     store,
		asaas:     asaas,
		inter:     inter,
		mailer:    mailer,
		timeout:   opts.Timeout,
		tolerance: decimal.NewFromFloat(0.01),
		now:       opts.Now,
		periodEnd: opts.PeriodEnd,
	}
	if e.timeout <= 0 {
		e.timeout = 10 * time.Second
	}
	if opts.Tolerance.Valid {
		e.tolerance = opts.Tolerance.Decimal
	}
	if e.now == nil {
		e.now = time.Now
	}
	if e.periodEnd == nil {
		e.periodEnd = CalculatePeriodEnd
	}
	if e.mailer == nil {
		e.mailer = notifier.LogMailer{}
	}
	return e
}

// verify runs one bounded gateway call. Failures become an UpstreamError,
// except a gateway 404 which becomes errGatewayMissing.
func (e *Engine) verify(ctx context.Context, provider, ref string, call func(ctx context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	started := time.Now()
	err := call(ctx)
	outcome := "ok"
	if err != nil {
		outcome = "error"
		switch {
		case errors.Is(err, gateway.ErrNotFound):
			outcome = "not_found"
		case errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded):
			outcome = "timeout"
		}
	}
	metrics.GatewayVerificationDuration.WithLabelValues(provider, outcome).Observe(time.Since(started).Seconds())

	// a 404 is definitive: reported as not_found, never retried
	if errors.Is(err, gateway.ErrNotFound) {
		metrics.GatewayMissingCharges.WithLabelValues(provider).Inc()
		utils.WithProvider(provider, ref).WithError(err).Error("Charge known locally but unknown to the gateway, check credentials and environment")
		return errGatewayMissing
	}
	if err != nil {
		utils.WithProvider(provider, ref).WithError(err).Error("Upstream re-verification failed")
		return &UpstreamError{Provider: provider, Ref: ref, Err: err}
	}
	return nil
}

// valueMatches compares the locally expected value with the gateway value,
// falling back to the webhook-advised one. With no value at all the
// payment cannot be trusted.
func (e *Engine) valueMatches(expected decimal.Decimal, reported, advised decimal.NullDecimal) (decimal.Decimal, bool) {
	var got decimal.Decimal
	switch {
	case reported.Valid:
		got = reported.Decimal
	case advised.Valid:
		got = advised.Decimal
	default:
		return decimal.Zero, false
	}
	return got, expected.Sub(got).Abs().LessThanOrEqual(e.tolerance)
}

func (e *Engine) record(provider string, res Result) Result {
	metrics.ReconciliationResults.WithLabelValues(provider, string(res.Action)).Inc()
	entry := utils.WithProvider(provider, res.Ref).WithField("action", res.Action)
	if res.Situacao != "" {
		entry = entry.WithField("situacao", res.Situacao)
	}
	if res.Status != "" {
		entry = entry.WithField("gateway_status", res.Status)
	}
	switch res.Action {
	case ActionValueMismatch:
		entry.Warn("Reconciliation rejected: value mismatch")
	case ActionNotFound:
		entry.Info("Reconciliation reference unknown")
	default:
		entry.Info("Reconciliation processed")
	}
	return res
}

func (e *Engine) warnMismatch(provider, ref string, expected, got decimal.Decimal) {
	utils.WithProvider(provider, ref).WithFields(logrus.Fields{
		"expected": expected.StringFixed(2),
		"reported": got.StringFixed(2),
	}).Warn("Gateway value differs from expected value")
}

func (e *Engine) afterSettle(ctx context.Context, provider, ref string, value decimal.Decimal, s *ledger.Settlement) {
	if s.Subscription == nil {
		return
	}
	if !s.Activated {
		utils.WithProvider(provider, ref).WithFields(logrus.Fields{
			"subscription_id": s.Subscription.ID,
			"status":          s.Subscription.Status,
		}).Warn("Payment settled for a subscription in a terminal state, manual reactivation required")
		return
	}
	periodEnd := ""
	if s.Subscription.CurrentPeriodEnd != nil {
		periodEnd = s.Subscription.CurrentPeriodEnd.Format("02/01/2006")
	}
	e.notify(ctx, s.Subscription, notifier.Mail{
		Subject:  "Pagamento confirmado",
		Template: notifier.TemplatePaymentConfirmed,
		Context: map[string]interface{}{
			"Value":     value.StringFixed(2),
			"PeriodEnd": periodEnd,
			"Reference": ref,
		},
	})
}

// notify never fails the caller: the payment state is already committed.
func (e *Engine) notify(ctx context.Context, sub *models.Subscription, mail notifier.Mail) {
	if sub == nil || sub.CustomerEmail == "" {
		return
	}
	mail.To = sub.CustomerEmail
	if err := e.mailer.SendMail(ctx, mail); err != nil {
		metrics.NotificationFailures.WithLabelValues(mail.Template).Inc()
		utils.Logger.WithFields(logrus.Fields{
			"source":          "billing",
			"subscription_id": sub.ID,
			"template":        mail.Template,
			"error":           err.Error(),
		}).Error("Notification failed")
	}
}

func (e *Engine) notifySubscription(ctx context.Context, subscriptionID string, mail notifier.Mail) {
	sub, err := e.store.FindSubscription(ctx, subscriptionID)
	if err != nil {
		if !errors.Is(err, ledger.ErrNotFound) {
			utils.LogError(err, "Unable to load subscription for notification")
		}
		return
	}
	e.notify(ctx, sub, mail)
}

// ExpireLapsed runs the periodic expiry sweep.
func (e *Engine) ExpireLapsed(ctx context.Context) (int64, error) {
	n, err := e.store.ExpireLapsed(ctx, e.now().UTC())
	if err != nil {
		return 0, err
	}
	if n > 0 {
		metrics.ExpiredSubscriptions.Add(float64(n))
		utils.Logger.WithFields(logrus.Fields{"source": "billing", "expired": n}).Info("Expired lapsed subscriptions")
	}
	return n, nil
}

// Reactivate is the manual back-office exit from CANCELED or EXPIRED.
func (e *Engine) Reactivate(ctx context.Context, subscriptionID string) (*models.Subscription, error) {
	start := e.now().UTC()
	return e.store.Reactivate(ctx, subscriptionID, start, e.periodEnd(start))
}
