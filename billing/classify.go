package billing

import (
	"strings"

	"flixcrd-backend/gateway"
)

type Class int

const (
	ClassOther Class = iota
	ClassPaid
	ClassOverdue
	ClassRemoved
)

func (c Class) String() string {
	switch c {
	case ClassPaid:
		return "PAID"
	case ClassOverdue:
		return "OVERDUE"
	case ClassRemoved:
		return "REMOVED"
	default:
		return "OTHER"
	}
}

// ClassifyAsaas maps the authoritative Asaas payment to a class.
func ClassifyAsaas(p *gateway.PaymentDetail) Class {
	if p == nil {
		return ClassOther
	}
	if p.Deleted {
		return ClassRemoved
	}
	switch strings.ToUpper(strings.TrimSpace(p.Status)) {
	case "RECEIVED", "CONFIRMED", "RECEIVED_IN_CASH", "DUNNING_RECEIVED":
		return ClassPaid
	case "OVERDUE":
		return ClassOverdue
	case "REFUNDED", "DELETED":
		return ClassRemoved
	default:
		return ClassOther
	}
}

// asaasRemovalEvents are processed even when the payment is already paid.
var asaasRemovalEvents = map[string]bool{
	"PAYMENT_DELETED":  true,
	"PAYMENT_REFUNDED": true,
}

// ClassifyPixCob maps a Pix cob status (ATIVA, CONCLUIDA, REMOVIDA_*).
func ClassifyPixCob(status string) Class {
	s := strings.ToUpper(strings.TrimSpace(status))
	switch {
	case s == "CONCLUIDA":
		return ClassPaid
	case strings.HasPrefix(s, "REMOVIDA"):
		return ClassRemoved
	default:
		return ClassOther
	}
}

var (
	cobrancaRemoved = []string{"CANCELAD", "EXPIRAD"}
	cobrancaOverdue = []string{"ATRASAD", "VENCID"}
	cobrancaPaid    = []string{"RECEB", "LIQUID", "PAG", "BAIXA"}
)

// ClassifyCobranca matches Inter's free-text situacao against known
// fragments. Values starting with "A_" (A_RECEBER) are still open.
func ClassifyCobranca(situacao string) Class {
	s := strings.ToUpper(strings.TrimSpace(situacao))
	if s == "" || strings.HasPrefix(s, "A_") {
		return ClassOther
	}
	if containsAny(s, cobrancaRemoved) {
		return ClassRemoved
	}
	if containsAny(s, cobrancaOverdue) {
		return ClassOverdue
	}
	if containsAny(s, cobrancaPaid) {
		return ClassPaid
	}
	return ClassOther
}

func containsAny(s string, fragments []string) bool {
	for _, f := range fragments {
		if strings.Contains(s, f) {
			return true
		}
	}
	return false
}
