package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type BillingType string

const (
	BillingPix        BillingType = "PIX"
	BillingBoleto     BillingType = "BOLETO"
	BillingCreditCard BillingType = "CREDIT_CARD"
)

type Provider string

const (
	ProviderAsaas Provider = "ASAAS"
	ProviderInter Provider = "INTER"
)

// Payment covers Asaas charges and Banco Inter boleto cobranças.
// PaymentDate is the paid marker: it goes from nil to a timestamp exactly once.
type Payment struct {
	ID                string          `json:"id" gorm:"primaryKey;type:uuid"`
	SubscriptionID    string          `json:"subscriptionId" gorm:"type:uuid;not null;index"`
	Provider          Provider        `json:"provider" gorm:"type:varchar(20);not null;uniqueIndex:idx_payment_provider_ref"`
	ExternalRef       string          `json:"externalRef" gorm:"not null;uniqueIndex:idx_payment_provider_ref"`
	BillingType       BillingType     `json:"billingType" gorm:"type:varchar(20)"`
	Status            string          `json:"status" gorm:"type:varchar(40)"`
	Value             decimal.Decimal `json:"value" gorm:"type:decimal(12,2);not null"`
	DueDate           *time.Time      `json:"dueDate"`
	PaymentDate       *time.Time      `json:"paymentDate"`
	InvoiceURL        string          `json:"invoiceUrl"`
	RawWebhookPayload datatypes.JSON  `json:"rawWebhookPayload,omitempty"`
	CreatedAt         time.Time       `json:"createdAt"`
	UpdatedAt         time.Time       `json:"updatedAt"`
}

func (p *Payment) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// IsPaid reports whether the paid marker is set.
func (p *Payment) IsPaid() bool {
	return p.PaymentDate != nil
}
