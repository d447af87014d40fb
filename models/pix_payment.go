package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type PixStatus string

const (
	PixPending PixStatus = "PENDING"
	PixPaid    PixStatus = "PAID"
	PixExpired PixStatus = "EXPIRED"
)

// PixPayment is a Banco Inter immediate Pix charge (cob) identified by its txid.
type PixPayment struct {
	ID                string          `json:"id" gorm:"primaryKey;type:uuid"`
	SubscriptionID    *string         `json:"subscriptionId" gorm:"type:uuid;index"`
	Txid              string          `json:"txid" gorm:"not null;uniqueIndex"`
	Valor             decimal.Decimal `json:"valor" gorm:"type:decimal(12,2);not null"`
	Status            PixStatus       `json:"status" gorm:"type:varchar(20);not null;default:'PENDING'"`
	PaidAt            *time.Time      `json:"paidAt"`
	RawWebhookPayload datatypes.JSON  `json:"rawWebhookPayload,omitempty"`
	CreatedAt         time.Time       `json:"createdAt"`
	UpdatedAt         time.Time       `json:"updatedAt"`
}

func (p *PixPayment) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.Status == "" {
		p.Status = PixPending
	}
	return nil
}

func (p *PixPayment) IsPaid() bool {
	return p.PaidAt != nil
}

// IsTerminal is true once the charge is PAID or EXPIRED.
func (p *PixPayment) IsTerminal() bool {
	return p.Status == PixPaid || p.Status == PixExpired
}
