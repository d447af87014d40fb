package billing

import (
	"context"
	"errors"

	"flixcrd-backend/gateway"
	"flixcrd-backend/ledger"
	"flixcrd-backend/models"
	"flixcrd-backend/utils"

	"github.com/shopspring/decimal"
)

// PixNotification is one entry of an Inter Pix webhook batch.
type PixNotification struct {
	Txid  string
	Valor decimal.NullDecimal
	Raw   []byte
}

// ReconcileInterPix settles, expires or ignores one Pix charge. The returned
// error is non-nil only for upstream or storage failures.
func (e *Engine) ReconcileInterPix(ctx context.Context, n PixNotification) (Result, error) {
	res := Result{Ref: n.Txid, Txid: n.Txid}
	log := utils.WithProvider(ProviderInterPix, n.Txid)

	pix, err := e.store.FindPixByTxid(ctx, n.Txid)
	if errors.Is(err, ledger.ErrNotFound) {
		res.Action = ActionNotFound
		return e.record(ProviderInterPix, res), nil
	}
	if err != nil {
		return res, err
	}

	if pix.IsPaid() || pix.Status == models.PixExpired {
		if err := e.store.SavePixPayload(ctx, pix.ID, n.Raw); err != nil {
			log.WithError(err).Error("Unable to store webhook payload")
		}
		res.Action = ActionAlreadyPaid
		if !pix.IsPaid() {
			res.Action = ActionExpired
		}
		return e.record(ProviderInterPix, res), nil
	}

	var cob *gateway.PixCob
	err = e.verify(ctx, ProviderInterPix, n.Txid, func(ctx context.Context) error {
		var err error
		cob, err = e.inter.GetPixCob(ctx, n.Txid)
		return err
	})
	if errors.Is(err, errGatewayMissing) {
		res.Action = ActionNotFound
		return e.record(ProviderInterPix, res), nil
	}
	if err != nil {
		return res, err
	}
	res.Status = cob.Status

	if got, ok := e.valueMatches(pix.Valor, cob.Valor.Original, n.Valor); !ok {
		e.warnMismatch(ProviderInterPix, n.Txid, pix.Valor, got)
		if err := e.store.SavePixPayload(ctx, pix.ID, n.Raw); err != nil {
			log.WithError(err).Error("Unable to store webhook payload")
		}
		res.Action = ActionValueMismatch
		return e.record(ProviderInterPix, res), nil
	}

	switch ClassifyPixCob(cob.Status) {
	case ClassPaid:
		now := e.now().UTC()
		settlement, err := e.store.SettlePix(ctx, pix, now, e.periodEnd(now), n.Raw)
		if err != nil {
			return res, err
		}
		if !settlement.Settled {
			res.Action = ActionAlreadyPaid
			if settlement.Expired {
				res.Action = ActionExpired
			}
			return e.record(ProviderInterPix, res), nil
		}
		res.Action = ActionPaid
		e.record(ProviderInterPix, res)
		e.afterSettle(ctx, ProviderInterPix, n.Txid, pix.Valor, settlement)
		return res, nil

	case ClassRemoved:
		expired, err := e.store.ExpirePix(ctx, pix.ID, n.Raw)
		if err != nil {
			return res, err
		}
		res.Action = ActionIgnored
		if expired {
			res.Action = ActionExpired
		}
		return e.record(ProviderInterPix, res), nil

	default:
		if err := e.store.SavePixPayload(ctx, pix.ID, n.Raw); err != nil {
			log.WithError(err).Error("Unable to store webhook payload")
		}
		res.Action = ActionIgnored
		return e.record(ProviderInterPix, res), nil
	}
}
