package billing

import (
	"context"
	"errors"
	"strings"
	"time"

	"flixcrd-backend/gateway"
	"flixcrd-backend/ledger"
	"flixcrd-backend/models"
	"flixcrd-backend/notifier"
	"flixcrd-backend/utils"

	"github.com/shopspring/decimal"
)

// AsaasNotification is the normalized body of an Asaas payment webhook.
type AsaasNotification struct {
	Event             string
	PaymentID         string
	Status            string
	BillingType       string
	Value             decimal.NullDecimal
	DueDate           string
	ExternalReference string
	InvoiceURL        string
	Raw               []byte
}

func (e *Engine) fetchAsaas(ctx context.Context, id string) (*gateway.PaymentDetail, error) {
	var detail *gateway.PaymentDetail
	err := e.verify(ctx, ProviderAsaas, id, func(ctx context.Context) error {
		var err error
		detail, err = e.asaas.GetPayment(ctx, id)
		return err
	})
	return detail, err
}

// ReconcileAsaas applies one Asaas payment event.
func (e *Engine) ReconcileAsaas(ctx context.Context, n AsaasNotification) (Result, error) {
	res := Result{Ref: n.PaymentID}
	log := utils.WithProvider(ProviderAsaas, n.PaymentID).WithField("event", n.Event)

	var detail *gateway.PaymentDetail
	payment, err := e.store.FindPayment(ctx, models.ProviderAsaas, n.PaymentID)
	if errors.Is(err, ledger.ErrNotFound) {
		payment, detail, err = e.adoptAsaasPayment(ctx, n)
		if err != nil && !errors.Is(err, errGatewayMissing) {
			return res, err
		}
		if payment == nil {
			res.Action = ActionNotFound
			return e.record(ProviderAsaas, res), nil
		}
	} else if err != nil {
		return res, err
	}

	removal := asaasRemovalEvents[strings.ToUpper(n.Event)]
	if payment.IsPaid() && !removal {
		if err := e.store.SavePaymentPayload(ctx, payment.ID, n.Raw); err != nil {
			log.WithError(err).Error("Unable to store webhook payload")
		}
		res.Action = ActionAlreadyPaid
		return e.record(ProviderAsaas, res), nil
	}

	if detail == nil {
		detail, err = e.fetchAsaas(ctx, n.PaymentID)
		if errors.Is(err, errGatewayMissing) {
			res.Action = ActionNotFound
			return e.record(ProviderAsaas, res), nil
		}
		if err != nil {
			return res, err
		}
	}
	res.Status = detail.Status

	reported := decimal.NullDecimal{Decimal: detail.Value, Valid: !detail.Value.IsZero()}
	if got, ok := e.valueMatches(payment.Value, reported, n.Value); !ok {
		e.warnMismatch(ProviderAsaas, n.PaymentID, payment.Value, got)
		if err := e.store.SavePaymentPayload(ctx, payment.ID, n.Raw); err != nil {
			log.WithError(err).Error("Unable to store webhook payload")
		}
		res.Action = ActionValueMismatch
		return e.record(ProviderAsaas, res), nil
	}

	switch ClassifyAsaas(detail) {
	case ClassPaid:
		if payment.IsPaid() {
			res.Action = ActionAlreadyPaid
			return e.record(ProviderAsaas, res), nil
		}
		now := e.now().UTC()
		settlement, err := e.store.SettlePayment(ctx, payment, detail.Status, now, e.periodEnd(now), n.Raw)
		if err != nil {
			return res, err
		}
		if !settlement.Settled {
			res.Action = ActionAlreadyPaid
			return e.record(ProviderAsaas, res), nil
		}
		res.Action = ActionPaid
		e.record(ProviderAsaas, res)
		e.afterSettle(ctx, ProviderAsaas, n.PaymentID, payment.Value, settlement)
		return res, nil

	case ClassOverdue:
		if err := e.store.RecordPaymentStatus(ctx, payment.ID, detail.Status, n.Raw); err != nil {
			return res, err
		}
		changed, err := e.store.MarkOverdue(ctx, payment.SubscriptionID)
		if err != nil {
			return res, err
		}
		res.Action = ActionOverdue
		e.record(ProviderAsaas, res)
		if changed {
			e.notifySubscription(ctx, payment.SubscriptionID, notifier.Mail{
				Subject:  "Pagamento em atraso",
				Template: notifier.TemplateSubscriptionOverdue,
				Context:  map[string]interface{}{"InvoiceURL": payment.InvoiceURL},
			})
		}
		return res, nil

	case ClassRemoved:
		status := detail.Status
		if detail.Deleted {
			status = "DELETED"
		}
		if err := e.store.OverwritePaymentStatus(ctx, payment.ID, status, n.Raw); err != nil {
			return res, err
		}
		changed, err := e.store.Cancel(ctx, payment.SubscriptionID)
		if err != nil {
			return res, err
		}
		res.Action = ActionCanceled
		e.record(ProviderAsaas, res)
		if changed {
			e.notifySubscription(ctx, payment.SubscriptionID, notifier.Mail{
				Subject:  "Assinatura cancelada",
				Template: notifier.TemplateSubscriptionCanceled,
			})
		}
		return res, nil

	default:
		if err := e.store.SavePaymentPayload(ctx, payment.ID, n.Raw); err != nil {
			log.WithError(err).Error("Unable to store webhook payload")
		}
		res.Action = ActionIgnored
		return e.record(ProviderAsaas, res), nil
	}
}

// adoptAsaasPayment creates the local Payment for a charge issued outside
// this service when its externalReference points at a known subscription.
// The gateway copy is fetched first so forged webhooks cannot create rows.
// A nil payment with a nil error means the reference is unknown.
func (e *Engine) adoptAsaasPayment(ctx context.Context, n AsaasNotification) (*models.Payment, *gateway.PaymentDetail, error) {
	if strings.TrimSpace(n.ExternalReference) == "" {
		return nil, nil, nil
	}
	sub, err := e.store.FindSubscriptionByReference(ctx, n.ExternalReference)
	if errors.Is(err, ledger.ErrNotFound) {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, err
	}

	detail, err := e.fetchAsaas(ctx, n.PaymentID)
	if err != nil {
		return nil, nil, err
	}
	if detail.ExternalReference != n.ExternalReference {
		utils.WithProvider(ProviderAsaas, n.PaymentID).Warn("Webhook externalReference does not match gateway, not adopting payment")
		return nil, nil, nil
	}

	// expected value comes from the plan price when known, never from the webhook
	value := detail.Value
	if !sub.Price.IsZero() {
		value = sub.Price
	}
	payment := &models.Payment{
		SubscriptionID: sub.ID,
		Provider:       models.ProviderAsaas,
		ExternalRef:    n.PaymentID,
		BillingType:    models.BillingType(strings.ToUpper(detail.BillingType)),
		Status:         detail.Status,
		Value:          value,
		DueDate:        parseDate(detail.DueDate),
		InvoiceURL:     detail.InvoiceURL,
	}
	stored, err := e.store.CreatePayment(ctx, payment)
	if err != nil {
		return nil, nil, err
	}
	utils.WithProvider(ProviderAsaas, n.PaymentID).WithField("subscription_id", sub.ID).Info("Adopted Asaas payment from externalReference")
	return stored, detail, nil
}

func parseDate(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil
	}
	return &t
}
