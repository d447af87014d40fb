package billing

import (
	"errors"
	"fmt"
)

// Action is the per-reference outcome reported back to the provider.
type Action string

const (
	ActionPaid          Action = "paid"
	ActionAlreadyPaid   Action = "already_paid"
	ActionValueMismatch Action = "value_mismatch"
	ActionExpired       Action = "expired"
	ActionIgnored       Action = "ignored"
	ActionNotFound      Action = "not_found"
	ActionOverdue       Action = "overdue"
	ActionCanceled      Action = "canceled"
)

const (
	ProviderAsaas         = "asaas"
	ProviderInterPix      = "inter_pix"
	ProviderInterCobranca = "inter_cobranca"
)

type Result struct {
	Ref               string `json:"ref"`
	Txid              string `json:"txid,omitempty"`
	CodigoSolicitacao string `json:"codigoSolicitacao,omitempty"`
	Action            Action `json:"action,omitempty"`
	Situacao          string `json:"situacao,omitempty"`
	Status            string `json:"status,omitempty"`
	Error             string `json:"error,omitempty"`
}

// UpstreamError wraps a failed re-verification call. Nothing was written
// locally; the provider should retry the delivery.
type UpstreamError struct {
	Provider string
	Ref      string
	Err      error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream verification failed (%s %s): %v", e.Provider, e.Ref, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// errGatewayMissing marks a re-verification answered with a definitive 404.
var errGatewayMissing = errors.New("charge unknown to gateway")

func IsUpstream(err error) bool {
	var up *UpstreamError
	return errors.As(err, &up)
}
