package webhooks

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"flixcrd-backend/billing"
	"flixcrd-backend/testutils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	testutils.InitTestMain()
	m.Run()
}

type fakeEngine struct {
	mu       sync.Mutex
	asaas    []billing.AsaasNotification
	pix      []billing.PixNotification
	cobranca []billing.CobrancaNotification
	errs     map[string]error
}

func (f *fakeEngine) ReconcileAsaas(ctx context.Context, n billing.AsaasNotification) (billing.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.asaas = append(f.asaas, n)
	res := billing.Result{Ref: n.PaymentID}
	if err := f.errs[n.PaymentID]; err != nil {
		return res, err
	}
	res.Action = billing.ActionPaid
	return res, nil
}

func (f *fakeEngine) ReconcileInterPix(ctx context.Context, n billing.PixNotification) (billing.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pix = append(f.pix, n)
	res := billing.Result{Ref: n.Txid, Txid: n.Txid}
	if err := f.errs[n.Txid]; err != nil {
		return res, err
	}
	res.Action = billing.ActionPaid
	return res, nil
}

func (f *fakeEngine) ReconcileInterCobranca(ctx context.Context, n billing.CobrancaNotification) (billing.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cobranca = append(f.cobranca, n)
	res := billing.Result{Ref: n.CodigoSolicitacao, CodigoSolicitacao: n.CodigoSolicitacao}
	if err := f.errs[n.CodigoSolicitacao]; err != nil {
		return res, err
	}
	res.Action = billing.ActionIgnored
	res.Situacao = n.Situacao
	return res, nil
}

func setupRouter(engine Reconciler) *gin.Engine {
	r := testutils.SetupTestRouter()
	h := New(engine)
	r.POST("/webhooks/asaas", h.Asaas)
	r.POST("/webhooks/inter/pix", h.InterPix)
	r.POST("/webhooks/inter/cobranca", h.InterCobranca)
	return r
}

func post(r http.Handler, path, body string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) webhookResponse {
	t.Helper()
	var resp webhookResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestInterPix_ReconcilesEachTxidOnce(t *testing.T) {
	engine := &fakeEngine{}
	r := setupRouter(engine)

	w := post(r, "/webhooks/inter/pix", `{"pix":[{"txid":"a","valor":"1.00"},{"txid":"b"},{"txid":"a"}]}`)

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decode(t, w)
	assert.True(t, resp.Received)
	require.Len(t, resp.Results, 2)
	assert.Equal(t, "a", resp.Results[0].Txid)
	assert.Equal(t, billing.ActionPaid, resp.Results[0].Action)
	assert.Len(t, engine.pix, 2)
}

func TestInterPix_UpstreamFailureAnswers502(t *testing.T) {
	engine := &fakeEngine{errs: map[string]error{
		"slow": &billing.UpstreamError{Provider: billing.ProviderInterPix, Ref: "slow", Err: context.DeadlineExceeded},
	}}
	r := setupRouter(engine)

	w := post(r, "/webhooks/inter/pix", `[{"txid":"slow"},{"txid":"ok"}]`)

	assert.Equal(t, http.StatusBadGateway, w.Code)
	resp := decode(t, w)
	require.Len(t, resp.Results, 2)
	assert.NotEmpty(t, resp.Results[0].Error)
	assert.Equal(t, billing.ActionPaid, resp.Results[1].Action, "siblings are still processed")
	assert.Len(t, engine.pix, 2)
}

func TestInterPix_StorageFailureAnswers500(t *testing.T) {
	engine := &fakeEngine{errs: map[string]error{"x": errors.New("connection refused")}}
	r := setupRouter(engine)

	w := post(r, "/webhooks/inter/pix", `[{"txid":"x"}]`)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestInterPix_MalformedJSON(t *testing.T) {
	engine := &fakeEngine{}
	r := setupRouter(engine)

	w := post(r, "/webhooks/inter/pix", `{"pix":[{"txid":`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, engine.pix)
}

func TestInterPix_EmptyBatch(t *testing.T) {
	r := setupRouter(&fakeEngine{})

	w := post(r, "/webhooks/inter/pix", `{"pix":[]}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"received":true,"results":[]}`, w.Body.String())
}

func TestWebhook_BodyTooLarge(t *testing.T) {
	engine := &fakeEngine{}
	r := setupRouter(engine)

	body := `{"pix":[{"txid":"a","pad":"` + strings.Repeat("x", maxBodyBytes) + `"}]}`
	w := post(r, "/webhooks/inter/pix", body)
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.Empty(t, engine.pix)
}

func TestInterCobranca_ForwardsHints(t *testing.T) {
	engine := &fakeEngine{}
	r := setupRouter(engine)

	w := post(r, "/webhooks/inter/cobranca", `[{"codigoSolicitacao":"`+codigoA+`","situacao":"EM_PROCESSAMENTO","valorNominal":"29.90"}]`)

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decode(t, w)
	require.Len(t, resp.Results, 1)
	assert.Equal(t, codigoA, resp.Results[0].CodigoSolicitacao)
	assert.Equal(t, billing.ActionIgnored, resp.Results[0].Action)
	assert.Equal(t, "EM_PROCESSAMENTO", resp.Results[0].Situacao)

	require.Len(t, engine.cobranca, 1)
	assert.True(t, engine.cobranca[0].Valor.Valid)
}

func TestAsaas_ForwardsPayment(t *testing.T) {
	engine := &fakeEngine{}
	r := setupRouter(engine)

	body := `{"event":"PAYMENT_RECEIVED","payment":{"id":"pay_1","value":14.99,"status":"RECEIVED","billingType":"PIX","dueDate":"2026-10-20","externalReference":"sub:1","invoiceUrl":"https://pay.example.com/i/1"}}`
	w := post(r, "/webhooks/asaas", body)

	assert.Equal(t, http.StatusOK, w.Code)
	require.Len(t, engine.asaas, 1)
	n := engine.asaas[0]
	assert.Equal(t, "PAYMENT_RECEIVED", n.Event)
	assert.Equal(t, "pay_1", n.PaymentID)
	assert.Equal(t, "sub:1", n.ExternalReference)
	assert.Equal(t, "14.99", n.Value.Decimal.StringFixed(2))
	assert.Equal(t, body, string(n.Raw))

	resp := decode(t, w)
	require.Len(t, resp.Results, 1)
	assert.Equal(t, "pay_1", resp.Results[0].Ref)
}

func TestAsaas_EventWithoutPayment(t *testing.T) {
	engine := &fakeEngine{}
	r := setupRouter(engine)

	w := post(r, "/webhooks/asaas", `{"event":"SUBSCRIPTION_CREATED","subscription":{"id":"sub_1"}}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, engine.asaas)
}

func TestAsaas_MalformedJSON(t *testing.T) {
	r := setupRouter(&fakeEngine{})

	w := post(r, "/webhooks/asaas", `not json`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
