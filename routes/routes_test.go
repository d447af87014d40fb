package routes

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"flixcrd-backend/billing"
	"flixcrd-backend/config"
	_ "flixcrd-backend/docs"
	"flixcrd-backend/ledger"
	"flixcrd-backend/testutils"

	"github.com/stretchr/testify/assert"
)

func testRouter(t *testing.T) http.Handler {
	testutils.InitTestMain()
	gormDB := testutils.SetupSQLiteDB(t)
	store := ledger.New(gormDB)
	cfg := &config.Config{
		Env:               "production",
		InterWebhookToken: "s3cret",
		GatewayTimeout:    time.Second,
	}
	engine := billing.NewEngine(store, nil, nil, nil, billing.Options{Timeout: time.Second})
	return SetupRouter(Dependencies{Config: cfg, DB: gormDB, Store: store, Engine: engine})
}

func request(r http.Handler, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestSetupRouter_Health(t *testing.T) {
	r := testRouter(t)

	assert.Equal(t, http.StatusOK, request(r, http.MethodGet, "/ping", "", nil).Code)
	assert.Equal(t, http.StatusOK, request(r, http.MethodGet, "/health", "", nil).Code)

	w := request(r, http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "http_requests_total")
}

func TestSetupRouter_Swagger(t *testing.T) {
	r := testRouter(t)

	w := request(r, http.MethodGet, "/swagger/index.html", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = request(r, http.MethodGet, "/swagger/doc.json", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "/webhooks/inter/pix")
	assert.Contains(t, w.Body.String(), "BearerAuth")
}

func TestSetupRouter_InterWebhookRequiresToken(t *testing.T) {
	r := testRouter(t)
	body := `{"pix":[{"txid":"ghost","valor":"1.00"}]}`

	w := request(r, http.MethodPost, "/webhooks/inter/pix", body, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = request(r, http.MethodPost, "/webhooks/inter/pix", body, map[string]string{"x-webhook-token": "s3cret"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"received":true,"results":[{"ref":"ghost","txid":"ghost","action":"not_found"}]}`, w.Body.String())

	w = request(r, http.MethodPost, "/webhooks/inter/cobranca", `{}`, map[string]string{"x-inter-webhook-token": "s3cret"})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestSetupRouter_AsaasFailsClosedInProduction(t *testing.T) {
	r := testRouter(t)

	w := request(r, http.MethodPost, "/webhooks/asaas", `{"event":"PAYMENT_RECEIVED","payment":{"id":"pay_1"}}`, map[string]string{"asaas-access-token": "whatever"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSetupRouter_AdminRequiresJWT(t *testing.T) {
	r := testRouter(t)

	w := request(r, http.MethodGet, "/admin/pix/ghost", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
