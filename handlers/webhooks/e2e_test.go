package webhooks

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"flixcrd-backend/billing"
	"flixcrd-backend/gateway"
	"flixcrd-backend/ledger"
	"flixcrd-backend/models"
	"flixcrd-backend/notifier"
	"flixcrd-backend/testutils"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newInterAPI fakes the Banco Inter API: OAuth plus the Pix cob lookup.
func newInterAPI(t *testing.T, cobs map[string]string) *httptest.Server {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/oauth/v2/token" {
			w.Write([]byte(`{"access_token":"tok","expires_in":3600}`))
			return
		}
		for txid, body := range cobs {
			if r.URL.Path == "/pix/v2/cob/"+txid {
				w.Write([]byte(body))
				return
			}
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newEngine(t *testing.T, store *ledger.Store, interURL string) *billing.Engine {
	t.Helper()
	inter, err := gateway.NewInter(gateway.InterConfig{BaseURL: interURL})
	require.NoError(t, err)
	asaas, err := gateway.NewAsaas(gateway.AsaasConfig{BaseURL: interURL, APIKey: "unused"})
	require.NoError(t, err)
	return billing.NewEngine(store, asaas, inter, notifier.LogMailer{}, billing.Options{Timeout: 2 * time.Second})
}

func seedPix(t *testing.T, store *ledger.Store, txid, valor string) *models.Subscription {
	t.Helper()
	ctx := context.Background()
	sub, err := store.EnsureSubscription(ctx, uuid.NewString(), "viewer@example.com", "monthly", decimal.RequireFromString(valor))
	require.NoError(t, err)
	require.NoError(t, store.CreatePixPayment(ctx, &models.PixPayment{
		SubscriptionID: &sub.ID,
		Txid:           txid,
		Valor:          decimal.RequireFromString(valor),
	}))
	return sub
}

func TestInterPixEndToEnd_BatchIsolation(t *testing.T) {
	gormDB := testutils.SetupSQLiteDB(t)
	store := ledger.New(gormDB)
	sub := seedPix(t, store, "abc123", "14.99")
	api := newInterAPI(t, map[string]string{
		"abc123": `{"txid":"abc123","status":"CONCLUIDA","valor":{"original":"14.99"}}`,
	})
	r := setupRouter(newEngine(t, store, api.URL))

	before := time.Now().UTC()
	w := post(r, "/webhooks/inter/pix", `{"pix":[{"txid":"abc123","valor":"14.99"},{"txid":"ghost","valor":"1.00"}]}`)

	require.Equal(t, http.StatusOK, w.Code)
	resp := decode(t, w)
	require.Len(t, resp.Results, 2)
	assert.Equal(t, "abc123", resp.Results[0].Txid)
	assert.Equal(t, billing.ActionPaid, resp.Results[0].Action)
	assert.Equal(t, "ghost", resp.Results[1].Txid)
	assert.Equal(t, billing.ActionNotFound, resp.Results[1].Action)

	pix, err := store.FindPixByTxid(context.Background(), "abc123")
	require.NoError(t, err)
	assert.Equal(t, models.PixPaid, pix.Status)
	require.NotNil(t, pix.PaidAt)

	stored, err := store.FindSubscription(context.Background(), sub.ID)
	require.NoError(t, err)
	assert.Equal(t, models.SubscriptionActive, stored.Status)
	require.NotNil(t, stored.CurrentPeriodEnd)
	assert.WithinDuration(t, before.AddDate(0, 0, 30), *stored.CurrentPeriodEnd, time.Minute)

	_, err = store.FindPixByTxid(context.Background(), "ghost")
	assert.ErrorIs(t, err, ledger.ErrNotFound)
}

func TestInterPixEndToEnd_ParallelDeliveries(t *testing.T) {
	gormDB := testutils.SetupSQLiteDB(t)
	store := ledger.New(gormDB)
	sub := seedPix(t, store, "abc123", "14.99")
	api := newInterAPI(t, map[string]string{
		"abc123": `{"txid":"abc123","status":"CONCLUIDA","valor":{"original":"14.99"}}`,
	})
	r := setupRouter(newEngine(t, store, api.URL))

	var wg sync.WaitGroup
	actions := make([]billing.Action, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			w := post(r, "/webhooks/inter/pix", `{"pix":[{"txid":"abc123","valor":"14.99"}]}`)
			var resp webhookResponse
			if assert.Equal(t, http.StatusOK, w.Code) && assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp)) && assert.Len(t, resp.Results, 1) {
				actions[i] = resp.Results[0].Action
			}
		}(i)
	}
	wg.Wait()

	assert.ElementsMatch(t, []billing.Action{billing.ActionPaid, billing.ActionAlreadyPaid}, actions)

	stored, err := store.FindSubscription(context.Background(), sub.ID)
	require.NoError(t, err)
	assert.Equal(t, models.SubscriptionActive, stored.Status)
}

func TestInterPixEndToEnd_GatewayDown(t *testing.T) {
	gormDB := testutils.SetupSQLiteDB(t)
	store := ledger.New(gormDB)
	seedPix(t, store, "abc123", "14.99")
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer api.Close()
	r := setupRouter(newEngine(t, store, api.URL))

	w := post(r, "/webhooks/inter/pix", `{"pix":[{"txid":"abc123","valor":"14.99"}]}`)
	assert.Equal(t, http.StatusBadGateway, w.Code)

	pix, err := store.FindPixByTxid(context.Background(), "abc123")
	require.NoError(t, err)
	assert.Nil(t, pix.PaidAt)
}
