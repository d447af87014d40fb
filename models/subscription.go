package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type SubscriptionStatus string

const (
	SubscriptionPending  SubscriptionStatus = "PENDING"
	SubscriptionActive   SubscriptionStatus = "ACTIVE"
	SubscriptionOverdue  SubscriptionStatus = "OVERDUE"
	SubscriptionCanceled SubscriptionStatus = "CANCELED"
	SubscriptionExpired  SubscriptionStatus = "EXPIRED"
)

// IsTerminal reports whether the webhook path may no longer move the subscription.
func (s SubscriptionStatus) IsTerminal() bool {
	return s == SubscriptionCanceled || s == SubscriptionExpired
}

// Subscription is the single per-user entitlement row.
type Subscription struct {
	ID                    string             `json:"id" gorm:"primaryKey;type:uuid"`
	UserID                string             `json:"userId" gorm:"type:uuid;not null;uniqueIndex"`
	CustomerEmail         string             `json:"customerEmail"`
	Status                SubscriptionStatus `json:"status" gorm:"type:varchar(20);not null;default:'PENDING';index"`
	Plan                  string             `json:"plan" gorm:"type:varchar(50)"`
	Price                 decimal.Decimal    `json:"price" gorm:"type:decimal(12,2)"`
	CurrentPeriodStart    *time.Time         `json:"currentPeriodStart"`
	CurrentPeriodEnd      *time.Time         `json:"currentPeriodEnd" gorm:"index"`
	LastGatewayPaymentRef string             `json:"lastGatewayPaymentRef"`
	CreatedAt             time.Time          `json:"createdAt"`
	UpdatedAt             time.Time          `json:"updatedAt"`
}

func (s *Subscription) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	if s.Status == "" {
		s.Status = SubscriptionPending
	}
	return nil
}
