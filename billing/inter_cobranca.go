package billing

import (
	"context"
	"errors"

	"flixcrd-backend/gateway"
	"flixcrd-backend/ledger"
	"flixcrd-backend/models"
	"flixcrd-backend/notifier"
	"flixcrd-backend/utils"

	"github.com/shopspring/decimal"
)

// CobrancaNotification is one codigoSolicitacao found in an Inter boleto
// webhook, with whatever hints the payload carried next to it.
type CobrancaNotification struct {
	CodigoSolicitacao string
	Situacao          string
	Valor             decimal.NullDecimal
	Raw               []byte
}

func (e *Engine) ReconcileInterCobranca(ctx context.Context, n CobrancaNotification) (Result, error) {
	res := Result{Ref: n.CodigoSolicitacao, CodigoSolicitacao: n.CodigoSolicitacao}
	log := utils.WithProvider(ProviderInterCobranca, n.CodigoSolicitacao)

	payment, err := e.store.FindPayment(ctx, models.ProviderInter, n.CodigoSolicitacao)
	if errors.Is(err, ledger.ErrNotFound) {
		res.Action = ActionNotFound
		return e.record(ProviderInterCobranca, res), nil
	}
	if err != nil {
		return res, err
	}

	if payment.IsPaid() {
		if err := e.store.SavePaymentPayload(ctx, payment.ID, n.Raw); err != nil {
			log.WithError(err).Error("Unable to store webhook payload")
		}
		res.Action = ActionAlreadyPaid
		return e.record(ProviderInterCobranca, res), nil
	}

	var det *gateway.CobrancaDetalhe
	err = e.verify(ctx, ProviderInterCobranca, n.CodigoSolicitacao, func(ctx context.Context) error {
		var err error
		det, err = e.inter.GetCobrancaDetalhe(ctx, n.CodigoSolicitacao)
		return err
	})
	if errors.Is(err, errGatewayMissing) {
		res.Action = ActionNotFound
		return e.record(ProviderInterCobranca, res), nil
	}
	if err != nil {
		return res, err
	}
	res.Situacao = det.Situacao

	// valorNominal is the charged amount; valorTotalRecebido may include late fees
	if got, ok := e.valueMatches(payment.Value, det.ValorNominal, n.Valor); !ok {
		e.warnMismatch(ProviderInterCobranca, n.CodigoSolicitacao, payment.Value, got)
		if err := e.store.SavePaymentPayload(ctx, payment.ID, n.Raw); err != nil {
			log.WithError(err).Error("Unable to store webhook payload")
		}
		res.Action = ActionValueMismatch
		return e.record(ProviderInterCobranca, res), nil
	}

	switch ClassifyCobranca(det.Situacao) {
	case ClassPaid:
		now := e.now().UTC()
		settlement, err := e.store.SettlePayment(ctx, payment, det.Situacao, now, e.periodEnd(now), n.Raw)
		if err != nil {
			return res, err
		}
		if !settlement.Settled {
			res.Action = ActionAlreadyPaid
			return e.record(ProviderInterCobranca, res), nil
		}
		res.Action = ActionPaid
		e.record(ProviderInterCobranca, res)
		e.afterSettle(ctx, ProviderInterCobranca, n.CodigoSolicitacao, payment.Value, settlement)
		return res, nil

	case ClassOverdue:
		if err := e.store.RecordPaymentStatus(ctx, payment.ID, det.Situacao, n.Raw); err != nil {
			return res, err
		}
		changed, err := e.store.MarkOverdue(ctx, payment.SubscriptionID)
		if err != nil {
			return res, err
		}
		res.Action = ActionOverdue
		e.record(ProviderInterCobranca, res)
		if changed {
			e.notifySubscription(ctx, payment.SubscriptionID, notifier.Mail{
				Subject:  "Pagamento em atraso",
				Template: notifier.TemplateSubscriptionOverdue,
				Context:  map[string]interface{}{"InvoiceURL": payment.InvoiceURL},
			})
		}
		return res, nil

	case ClassRemoved:
		// a lapsed boleto only closes the charge, the subscription keeps its state
		if err := e.store.RecordPaymentStatus(ctx, payment.ID, det.Situacao, n.Raw); err != nil {
			return res, err
		}
		res.Action = ActionExpired
		return e.record(ProviderInterCobranca, res), nil

	default:
		if err := e.store.SavePaymentPayload(ctx, payment.ID, n.Raw); err != nil {
			log.WithError(err).Error("Unable to store webhook payload")
		}
		res.Action = ActionIgnored
		return e.record(ProviderInterCobranca, res), nil
	}
}
