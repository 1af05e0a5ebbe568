package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopbill/pos/internal/domain/entity"
	"github.com/shopbill/pos/pkg/apperror"
)

func newTestClient(handler http.HandlerFunc) (*Client, *httptest.Server) {
	srv := httptest.NewServer(handler)
	return NewClient(Config{BaseURL: srv.URL}), srv
}

func writeEnvelope(w http.ResponseWriter, code int, success bool, message string, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"success": success,
		"message": message,
		"data":    data,
	})
}

func TestSearchItems(t *testing.T) {
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/items/search", r.URL.Path)
		assert.Equal(t, "basmati rice", r.URL.Query().Get("q"))
		writeEnvelope(w, http.StatusOK, true, "ok", []entity.CatalogItem{
			{ID: "1", ItemName: "Basmati Rice 1kg", SellPrice: decimal.RequireFromString("98.50")},
		})
	})
	defer srv.Close()

	items, err := client.SearchItems(context.Background(), "basmati rice")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Basmati Rice 1kg", items[0].ItemName)
	assert.Equal(t, "98.50", items[0].SellPrice.StringFixed(2))
}

func TestGetItemByBarcodeNotFound(t *testing.T) {
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusNotFound, false, "Item not found", nil)
	})
	defer srv.Close()

	_, err := client.GetItemByBarcode(context.Background(), "890123")
	require.Error(t, err)
	appErr := apperror.GetAppError(err)
	assert.Equal(t, http.StatusNotFound, appErr.Code)
	assert.Equal(t, "Item not found", appErr.Message)
}

func TestCreateBillPostsPayload(t *testing.T) {
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/bills", r.URL.Path)

		var payload entity.BillPayload
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "INV-abc12345", payload.BillNumber)
		assert.Equal(t, entity.BillTypeCredit, payload.Type)

		writeEnvelope(w, http.StatusCreated, true, "Bill created", entity.Bill{
			ID:          "b1",
			BillPayload: payload,
			Outstanding: payload.GrandTotal,
		})
	})
	defer srv.Close()

	payload := &entity.BillPayload{
		BillNumber: "INV-abc12345",
		Type:       entity.BillTypeCredit,
		GrandTotal: decimal.RequireFromString("320.00"),
	}
	bill, err := client.CreateBill(context.Background(), payload)
	require.NoError(t, err)
	assert.Equal(t, "b1", bill.ID)
	assert.Equal(t, "320.00", bill.Outstanding.StringFixed(2))
}

func TestPayCredit(t *testing.T) {
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/bills/b1/payments", r.URL.Path)
		var body map[string]decimal.Decimal
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "100", body["amount"].String())
		writeEnvelope(w, http.StatusOK, true, "Payment recorded", entity.Bill{ID: "b1", Settled: false})
	})
	defer srv.Close()

	bill, err := client.PayCredit(context.Background(), "b1", decimal.NewFromInt(100))
	require.NoError(t, err)
	assert.Equal(t, "b1", bill.ID)
}

func TestDoReturnsTransportError(t *testing.T) {
	client := NewClient(Config{BaseURL: "http://127.0.0.1:1"})
	_, err := client.ListItems(context.Background())
	require.Error(t, err)
	assert.False(t, apperror.IsAppError(err))
}
