// Package gateway holds thin, provider-specific adapters for the payment
// gateways. It performs I/O only; deciding what a status means is left to
// the billing package.
package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/shopspring/decimal"
)

var ErrNotFound = errors.New("gateway: resource not found")

// APIError is returned for any non-2xx gateway answer other than 404.
type APIError struct {
	Provider   string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: status=%d body=%s", e.Provider, e.StatusCode, e.Body)
}

// PaymentDetail is an Asaas payment as returned by GET /v3/payments/{id}.
type PaymentDetail struct {
	ID                string          `json:"id"`
	Status            string          `json:"status"`
	BillingType       string          `json:"billingType"`
	Value             decimal.Decimal `json:"value"`
	DueDate           string          `json:"dueDate"`
	PaymentDate       string          `json:"paymentDate"`
	ExternalReference string          `json:"externalReference"`
	InvoiceURL        string          `json:"invoiceUrl"`
	BankSlipURL       string          `json:"bankSlipUrl"`
	Deleted           bool            `json:"deleted"`
}

type PixQrCode struct {
	EncodedImage   string `json:"encodedImage"`
	Payload        string `json:"payload"`
	ExpirationDate string `json:"expirationDate"`
}

// PixCob is a Banco Inter immediate Pix charge (GET /pix/v2/cob/{txid}).
type PixCob struct {
	Txid   string `json:"txid"`
	Status string `json:"status"`
	Valor  struct {
		Original decimal.NullDecimal `json:"original"`
	} `json:"valor"`
}

// CobrancaDetalhe is the subset of a Banco Inter cobrança the reconciler needs.
type CobrancaDetalhe struct {
	CodigoSolicitacao  string              `json:"codigoSolicitacao"`
	Situacao           string              `json:"situacao"`
	ValorNominal       decimal.NullDecimal `json:"valorNominal"`
	ValorTotalRecebido decimal.NullDecimal `json:"valorTotalRecebido"`
	DataSituacao       string              `json:"dataSituacao"`
}

// AsaasClient is what the reconciler consumes from Asaas.
type AsaasClient interface {
	GetPayment(ctx context.Context, id string) (*PaymentDetail, error)
	GetPixQrCode(ctx context.Context, id string) (*PixQrCode, error)
}

// InterClient is what the reconciler consumes from Banco Inter.
type InterClient interface {
	GetPixCob(ctx context.Context, txid string) (*PixCob, error)
	GetCobrancaDetalhe(ctx context.Context, codigoSolicitacao string) (*CobrancaDetalhe, error)
}

func doJSON(client *http.Client, req *http.Request, provider string, out interface{}) error {
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", provider, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("%s: read body: %w", provider, err)
	}

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{Provider: provider, StatusCode: resp.StatusCode, Body: truncate(string(body), 512)}
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%s: decode response: %w", provider, err)
	}
	return nil
}

func joinURL(base string, parts ...string) string {
	return strings.TrimRight(base, "/") + "/" + strings.Join(parts, "/")
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
