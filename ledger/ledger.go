package ledger

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"flixcrd-backend/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrNotFound = errors.New("ledger: record not found")

// subscriptionRefPrefix is accepted in front of correlation references
// stored on gateway charges ("sub:<subscription id>").
const subscriptionRefPrefix = "sub:"

// Store persists subscriptions and payments. All paid/expired transitions go
// through conditional updates whose WHERE clause carries the expected prior
// state, so a losing concurrent writer observes zero affected rows.
type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Settlement is the result of a paid-marker transition.
type Settlement struct {
	// Settled is false when another writer already set the paid marker.
	Settled bool
	// Activated is false when the subscription was absent or in a terminal state.
	Activated bool
	// Expired is set when a Pix charge lost the race to a removal instead.
	Expired      bool
	Subscription *models.Subscription
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

func (s *Store) FindPixByTxid(ctx context.Context, txid string) (*models.PixPayment, error) {
	var pix models.PixPayment
	if err := s.db.WithContext(ctx).Where("txid = ?", txid).First(&pix).Error; err != nil {
		return nil, notFound(err)
	}
	return &pix, nil
}

func (s *Store) FindPayment(ctx context.Context, provider models.Provider, externalRef string) (*models.Payment, error) {
	var payment models.Payment
	err := s.db.WithContext(ctx).
		Where("provider = ? AND external_ref = ?", provider, externalRef).
		First(&payment).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &payment, nil
}

func (s *Store) FindPaymentByRef(ctx context.Context, externalRef string) (*models.Payment, error) {
	var payment models.Payment
	if err := s.db.WithContext(ctx).Where("external_ref = ?", externalRef).First(&payment).Error; err != nil {
		return nil, notFound(err)
	}
	return &payment, nil
}

func (s *Store) FindSubscription(ctx context.Context, id string) (*models.Subscription, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrNotFound
	}
	var sub models.Subscription
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&sub).Error; err != nil {
		return nil, notFound(err)
	}
	return &sub, nil
}

func (s *Store) FindSubscriptionByUser(ctx context.Context, userID string) (*models.Subscription, error) {
	var sub models.Subscription
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&sub).Error; err != nil {
		return nil, notFound(err)
	}
	return &sub, nil
}

// FindSubscriptionByReference resolves a gateway correlation field. The
// reference may be a subscription id, a "sub:"-prefixed subscription id or
// the owning user id.
func (s *Store) FindSubscriptionByReference(ctx context.Context, reference string) (*models.Subscription, error) {
	ref := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(reference), subscriptionRefPrefix))
	if _, err := uuid.Parse(ref); err != nil {
		return nil, ErrNotFound
	}
	var sub models.Subscription
	err := s.db.WithContext(ctx).Where("id = ? OR user_id = ?", ref, ref).First(&sub).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &sub, nil
}

// EnsureSubscription returns the user's subscription, creating a PENDING one
// on the first payment attempt. Concurrent callers converge on one row.
func (s *Store) EnsureSubscription(ctx context.Context, userID, email, plan string, price decimal.Decimal) (*models.Subscription, error) {
	sub := models.Subscription{
		UserID:        userID,
		CustomerEmail: email,
		Status:        models.SubscriptionPending,
		Plan:          plan,
		Price:         price,
	}
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "user_id"}}, DoNothing: true}).
		Create(&sub).Error
	if err != nil {
		return nil, fmt.Errorf("create subscription: %w", err)
	}
	return s.FindSubscriptionByUser(ctx, userID)
}

// CreatePayment inserts the payment unless (provider, externalRef) exists,
// and returns the stored row either way.
func (s *Store) CreatePayment(ctx context.Context, payment *models.Payment) (*models.Payment, error) {
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "provider"}, {Name: "external_ref"}},
			DoNothing: true,
		}).
		Create(payment).Error
	if err != nil {
		return nil, fmt.Errorf("create payment: %w", err)
	}
	return s.FindPayment(ctx, payment.Provider, payment.ExternalRef)
}

func (s *Store) CreatePixPayment(ctx context.Context, pix *models.PixPayment) error {
	if err := s.db.WithContext(ctx).Create(pix).Error; err != nil {
		return fmt.Errorf("create pix payment: %w", err)
	}
	return nil
}

// SavePixPayload refreshes the audit copy of the last webhook body only.
func (s *Store) SavePixPayload(ctx context.Context, id string, raw []byte) error {
	return s.db.WithContext(ctx).Model(&models.PixPayment{}).
		Where("id = ?", id).
		Update("raw_webhook_payload", datatypes.JSON(raw)).Error
}

func (s *Store) SavePaymentPayload(ctx context.Context, id string, raw []byte) error {
	return s.db.WithContext(ctx).Model(&models.Payment{}).
		Where("id = ?", id).
		Update("raw_webhook_payload", datatypes.JSON(raw)).Error
}

// RecordPaymentStatus stores the gateway status of an unpaid payment. Once
// the paid marker is set only the payload is refreshed.
func (s *Store) RecordPaymentStatus(ctx context.Context, id, status string, raw []byte) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Payment{}).
			Where("id = ? AND payment_date IS NULL", id).
			Updates(map[string]interface{}{
				"status":              status,
				"raw_webhook_payload": datatypes.JSON(raw),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			return nil
		}
		return tx.Model(&models.Payment{}).
			Where("id = ?", id).
			Update("raw_webhook_payload", datatypes.JSON(raw)).Error
	})
}

// OverwritePaymentStatus records a status that supersedes settlement, such
// as a refund. The paid marker is left untouched.
func (s *Store) OverwritePaymentStatus(ctx context.Context, id, status string, raw []byte) error {
	return s.db.WithContext(ctx).Model(&models.Payment{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":              status,
			"raw_webhook_payload": datatypes.JSON(raw),
		}).Error
}

// SettlePix sets the Pix paid marker and, in the same transaction, activates
// the owning subscription for [start, end). Only a PENDING charge can be
// settled: PAID and EXPIRED are terminal.
func (s *Store) SettlePix(ctx context.Context, pix *models.PixPayment, start, end time.Time, raw []byte) (*Settlement, error) {
	out := &Settlement{}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.PixPayment{}).
			Where("id = ? AND status = ? AND paid_at IS NULL", pix.ID, models.PixPending).
			Updates(map[string]interface{}{
				"status":              models.PixPaid,
				"paid_at":             start,
				"raw_webhook_payload": datatypes.JSON(raw),
			})
		if res.Error != nil {
			return fmt.Errorf("settle pix %s: %w", pix.Txid, res.Error)
		}
		if res.RowsAffected == 0 {
			var current models.PixPayment
			if err := tx.Select("status", "paid_at").Where("id = ?", pix.ID).First(&current).Error; err != nil {
				return notFound(err)
			}
			out.Expired = current.Status == models.PixExpired && current.PaidAt == nil
			return nil
		}
		out.Settled = true

		if pix.SubscriptionID == nil || *pix.SubscriptionID == "" {
			return nil
		}
		sub, activated, err := activate(tx, *pix.SubscriptionID, pix.Txid, start, end)
		if err != nil {
			return err
		}
		out.Subscription = sub
		out.Activated = activated
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// SettlePayment is the Payment counterpart of SettlePix. gatewayStatus is the
// authoritative status string reported by the provider.
func (s *Store) SettlePayment(ctx context.Context, payment *models.Payment, gatewayStatus string, start, end time.Time, raw []byte) (*Settlement, error) {
	out := &Settlement{}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Payment{}).
			Where("id = ? AND payment_date IS NULL", payment.ID).
			Updates(map[string]interface{}{
				"status":              gatewayStatus,
				"payment_date":        start,
				"raw_webhook_payload": datatypes.JSON(raw),
			})
		if res.Error != nil {
			return fmt.Errorf("settle payment %s: %w", payment.ExternalRef, res.Error)
		}
		if res.RowsAffected == 0 {
			return nil
		}
		out.Settled = true

		sub, activated, err := activate(tx, payment.SubscriptionID, payment.ExternalRef, start, end)
		if err != nil {
			return err
		}
		out.Subscription = sub
		out.Activated = activated
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// activate moves a non-terminal subscription to ACTIVE and re-stamps its period.
func activate(tx *gorm.DB, subscriptionID, ref string, start, end time.Time) (*models.Subscription, bool, error) {
	res := tx.Model(&models.Subscription{}).
		Where("id = ? AND status NOT IN ?", subscriptionID,
			[]models.SubscriptionStatus{models.SubscriptionCanceled, models.SubscriptionExpired}).
		Updates(map[string]interface{}{
			"status":                   models.SubscriptionActive,
			"current_period_start":     start,
			"current_period_end":       end,
			"last_gateway_payment_ref": ref,
		})
	if res.Error != nil {
		return nil, false, fmt.Errorf("activate subscription %s: %w", subscriptionID, res.Error)
	}

	var sub models.Subscription
	if err := tx.Where("id = ?", subscriptionID).First(&sub).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return &sub, res.RowsAffected > 0, nil
}

// ExpirePix marks a pending, unpaid Pix charge as EXPIRED.
func (s *Store) ExpirePix(ctx context.Context, id string, raw []byte) (bool, error) {
	res := s.db.WithContext(ctx).Model(&models.PixPayment{}).
		Where("id = ? AND status = ? AND paid_at IS NULL", id, models.PixPending).
		Updates(map[string]interface{}{
			"status":              models.PixExpired,
			"raw_webhook_payload": datatypes.JSON(raw),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// MarkOverdue moves a PENDING or ACTIVE subscription to OVERDUE without
// touching its period.
func (s *Store) MarkOverdue(ctx context.Context, subscriptionID string) (bool, error) {
	res := s.db.WithContext(ctx).Model(&models.Subscription{}).
		Where("id = ? AND status IN ?", subscriptionID,
			[]models.SubscriptionStatus{models.SubscriptionPending, models.SubscriptionActive}).
		Update("status", models.SubscriptionOverdue)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// Cancel moves a non-terminal subscription to CANCELED.
func (s *Store) Cancel(ctx context.Context, subscriptionID string) (bool, error) {
	res := s.db.WithContext(ctx).Model(&models.Subscription{}).
		Where("id = ? AND status IN ?", subscriptionID, []models.SubscriptionStatus{
			models.SubscriptionPending, models.SubscriptionActive, models.SubscriptionOverdue,
		}).
		Update("status", models.SubscriptionCanceled)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// ExpireLapsed flips every ACTIVE subscription whose period ended before now.
func (s *Store) ExpireLapsed(ctx context.Context, now time.Time) (int64, error) {
	res := s.db.WithContext(ctx).Model(&models.Subscription{}).
		Where("status = ? AND current_period_end < ?", models.SubscriptionActive, now.UTC()).
		Update("status", models.SubscriptionExpired)
	return res.RowsAffected, res.Error
}

// Reactivate is the manual back-office exit from CANCELED or EXPIRED.
func (s *Store) Reactivate(ctx context.Context, subscriptionID string, start, end time.Time) (*models.Subscription, error) {
	var out *models.Subscription
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Subscription{}).
			Where("id = ? AND status IN ?", subscriptionID,
				[]models.SubscriptionStatus{models.SubscriptionCanceled, models.SubscriptionExpired}).
			Updates(map[string]interface{}{
				"status":               models.SubscriptionActive,
				"current_period_start": start,
				"current_period_end":   end,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotReactivatable
		}
		var sub models.Subscription
		if err := tx.Where("id = ?", subscriptionID).First(&sub).Error; err != nil {
			return err
		}
		out = &sub
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

var ErrNotReactivatable = errors.New("ledger: subscription is not canceled or expired")
