package http_test

import (
	"bytes"
	"encoding/json"
	nethttp "net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/warung/internal/backup"
	"github.com/MrJamesThe3rd/warung/internal/cart"
	"github.com/MrJamesThe3rd/warung/internal/catalog"
	"github.com/MrJamesThe3rd/warung/internal/checkout"
	"github.com/MrJamesThe3rd/warung/internal/http"
	backuphandler "github.com/MrJamesThe3rd/warung/internal/http/backup"
	cataloghandler "github.com/MrJamesThe3rd/warung/internal/http/catalog"
	"github.com/MrJamesThe3rd/warung/internal/http/history"
	"github.com/MrJamesThe3rd/warung/internal/http/register"
	"github.com/MrJamesThe3rd/warung/internal/ledger"
	"github.com/MrJamesThe3rd/warung/internal/receipt"
)

type memoryRecorder struct {
	records map[string][]byte
}

func (m *memoryRecorder) Read(key string, dst any) {
	raw, ok := m.records[key]
	if !ok {
		return
	}

	_ = json.Unmarshal(raw, dst)
}

func (m *memoryRecorder) Write(key string, v any) {
	raw, _ := json.Marshal(v)
	m.records[key] = raw
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	store := &memoryRecorder{records: map[string][]byte{}}

	cat := catalog.Load(store)
	cat.SeedDefaults()

	led := ledger.Load(store)
	crt := cart.Load(store, cat)
	engine := checkout.New(crt, led, nil, nil)
	renderer := receipt.NewRenderer("Warung Kita")

	router := http.New(
		cataloghandler.NewHandler(cat),
		register.NewHandler(crt, engine, renderer),
		history.NewHandler(led),
		backuphandler.NewHandler(backup.NewService(cat, led)),
	)

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	return srv
}

func TestRouterCheckoutFlow(t *testing.T) {
	srv := newTestServer(t)

	resp, err := srv.Client().Get(srv.URL + "/api/v1/products")
	require.NoError(t, err)
	defer resp.Body.Close()

	var products []struct {
		ID    string `json:"id"`
		Price int64  `json:"price"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&products))
	require.Len(t, products, 3)

	body, _ := json.Marshal(map[string]any{"product_id": products[0].ID, "qty": 2})
	resp, err = srv.Client().Post(srv.URL+"/api/v1/cart/items", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, nethttp.StatusOK, resp.StatusCode)

	resp, err = srv.Client().Post(srv.URL+"/api/v1/checkout", "application/json", nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, nethttp.StatusCreated, resp.StatusCode)

	var out struct {
		ID      string `json:"id"`
		Total   int64  `json:"total"`
		Receipt string `json:"receipt"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, products[0].Price*2, out.Total)
	assert.Contains(t, out.Receipt, out.ID)

	// the sale is now visible in history and the cart is empty again
	resp, err = srv.Client().Get(srv.URL + "/api/v1/transactions")
	require.NoError(t, err)
	defer resp.Body.Close()

	var txns []struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&txns))
	require.Len(t, txns, 1)
	assert.Equal(t, out.ID, txns[0].ID)

	resp, err = srv.Client().Post(srv.URL+"/api/v1/checkout", "application/json", nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, nethttp.StatusConflict, resp.StatusCode)
}

func TestRouterHistoryRejectsBadDates(t *testing.T) {
	srv := newTestServer(t)

	resp, err := srv.Client().Get(srv.URL + "/api/v1/transactions?start_date=15-01-2024")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, nethttp.StatusBadRequest, resp.StatusCode)
}
