package billing

import (
	"testing"
	"time"

	"flixcrd-backend/gateway"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestClassifyCobranca(t *testing.T) {
	tests := []struct {
		situacao string
		want     Class
	}{
		{"RECEBIDO", ClassPaid},
		{"recebido", ClassPaid},
		{"PAGO", ClassPaid},
		{"LIQUIDADO", ClassPaid},
		{"BAIXADO", ClassPaid},
		{"A_RECEBER", ClassOther},
		{"EM_PROCESSAMENTO", ClassOther},
		{"", ClassOther},
		{"ATRASADO", ClassOverdue},
		{"VENCIDO", ClassOverdue},
		{"CANCELADO", ClassRemoved},
		{"EXPIRADO", ClassRemoved},
	}
	for _, tt := range tests {
		t.Run(tt.situacao, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyCobranca(tt.situacao))
		})
	}
}

func TestClassifyPixCob(t *testing.T) {
	assert.Equal(t, ClassPaid, ClassifyPixCob("CONCLUIDA"))
	assert.Equal(t, ClassOther, ClassifyPixCob("ATIVA"))
	assert.Equal(t, ClassRemoved, ClassifyPixCob("REMOVIDA_PELO_PSP"))
	assert.Equal(t, ClassRemoved, ClassifyPixCob("removida_pelo_usuario_recebedor"))
}

func TestClassifyAsaas(t *testing.T) {
	assert.Equal(t, ClassPaid, ClassifyAsaas(&gateway.PaymentDetail{Status: "RECEIVED"}))
	assert.Equal(t, ClassPaid, ClassifyAsaas(&gateway.PaymentDetail{Status: "CONFIRMED"}))
	assert.Equal(t, ClassPaid, ClassifyAsaas(&gateway.PaymentDetail{Status: "RECEIVED_IN_CASH"}))
	assert.Equal(t, ClassOverdue, ClassifyAsaas(&gateway.PaymentDetail{Status: "OVERDUE"}))
	assert.Equal(t, ClassRemoved, ClassifyAsaas(&gateway.PaymentDetail{Status: "REFUNDED"}))
	assert.Equal(t, ClassRemoved, ClassifyAsaas(&gateway.PaymentDetail{Status: "RECEIVED", Deleted: true}))
	assert.Equal(t, ClassOther, ClassifyAsaas(&gateway.PaymentDetail{Status: "PENDING"}))
	assert.Equal(t, ClassOther, ClassifyAsaas(nil))
}

func TestCalculatePeriodEnd(t *testing.T) {
	start := time.Date(2026, 1, 31, 10, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC), CalculatePeriodEnd(start))

	sp := time.FixedZone("BRT", -3*60*60)
	local := time.Date(2026, 10, 19, 22, 0, 0, 0, sp)
	end := CalculatePeriodEnd(local)
	assert.Equal(t, time.UTC, end.Location())
	assert.Equal(t, 30*24*time.Hour, end.Sub(local))
}

func TestValueMatches(t *testing.T) {
	e := NewEngine(nil, nil, nil, nil, Options{})
	expected := decimal.RequireFromString("14.99")

	got, ok := e.valueMatches(expected, decimal.NewNullDecimal(decimal.RequireFromString("15.00")), decimal.NullDecimal{})
	assert.True(t, ok)
	assert.True(t, got.Equal(decimal.RequireFromString("15.00")))

	_, ok = e.valueMatches(expected, decimal.NewNullDecimal(decimal.RequireFromString("15.01")), decimal.NullDecimal{})
	assert.False(t, ok)

	_, ok = e.valueMatches(expected, decimal.NullDecimal{}, decimal.NewNullDecimal(expected))
	assert.True(t, ok)

	_, ok = e.valueMatches(expected, decimal.NullDecimal{}, decimal.NullDecimal{})
	assert.False(t, ok)
}
