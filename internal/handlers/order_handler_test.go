package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tailor-backend/internal/handlers"
	"tailor-backend/internal/health"
	apihttp "tailor-backend/internal/http"
	"tailor-backend/internal/models"
	"tailor-backend/internal/repositories"
	"tailor-backend/internal/services"
	"tailor-backend/internal/store/memstore"
)

// newTestRouter wires the full handler stack onto an in-memory store, the
// same way cmd/server does against Postgres.
func newTestRouter(t *testing.T) (http.Handler, *memstore.Store) {
	t.Helper()
	db := memstore.New()

	customerRepo := repositories.NewCustomerRepository(db)
	orderRepo := repositories.NewOrderRepository(db)
	statsRepo := repositories.NewStatsRepository(db)

	customerHandler := handlers.NewCustomerHandler(services.NewCustomerService(customerRepo))
	orderHandler := handlers.NewOrderHandler(
		services.NewOrderService(orderRepo),
		services.NewReceiptService(orderRepo, customerRepo),
	)
	statsHandler := handlers.NewStatsHandler(services.NewStatsService(statsRepo))
	healthHandler := handlers.NewHealthHandler(health.NewChecker(nil))

	return apihttp.NewRouter(customerHandler, orderHandler, statsHandler, healthHandler), db
}

func doJSON(t *testing.T, router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var rd *bytes.Reader
	if body == "" {
		rd = bytes.NewReader(nil)
	} else {
		rd = bytes.NewReader([]byte(body))
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func createTestCustomer(t *testing.T, router http.Handler) int {
	t.Helper()
	rec := doJSON(t, router, "POST", "/api/customers",
		`{"name": "Ramesh Kumar", "phone": "9876543210"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var c models.Customer
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &c))
	return c.ID
}

func TestCreateOrderEndToEnd(t *testing.T) {
	router, _ := newTestRouter(t)
	customerID := createTestCustomer(t, router)
	require.Equal(t, 1, customerID)

	rec := doJSON(t, router, "POST", "/api/orders", `{
		"order_date": "2024-01-01",
		"customer_id": 1,
		"items": [
			{"category": "shirt", "quantity": 2, "measurements": {"chest": 40, "waist": 34}}
		]
	}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var created models.Order
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, "2024-01-01", created.OrderDate)
	assert.Zero(t, created.TotalPrice, "omitted money fields default to 0")
	assert.Zero(t, created.AdvancePay)
	assert.Zero(t, created.DueAmount)

	rec = doJSON(t, router, "GET", "/api/orders/1", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var got models.OrderWithItems
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got.Items, 1)
	item := got.Items[0]
	assert.Equal(t, "shirt", item.Category)
	assert.Equal(t, 2, item.Quantity)
	require.NotNil(t, item.Chest)
	assert.Equal(t, 40.0, *item.Chest)
	require.NotNil(t, item.Waist)
	assert.Equal(t, 34.0, *item.Waist)
	assert.Nil(t, item.Length)
	assert.Nil(t, item.CollarStyle)

	// Unset measurement fields serialize as null, not zero.
	assert.Contains(t, rec.Body.String(), `"length":null`)
}

func TestCreateOrderRejectsMalformedBody(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doJSON(t, router, "POST", "/api/orders", `{"order_date": `)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid request body")
}

func TestGetOrderNotFound(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doJSON(t, router, "GET", "/api/orders/99", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Order not found")
}

func TestUpdateOrderReplacesItems(t *testing.T) {
	router, _ := newTestRouter(t)
	createTestCustomer(t, router)

	rec := doJSON(t, router, "POST", "/api/orders", `{
		"order_date": "2024-01-01",
		"customer_id": 1,
		"total_price": 1200,
		"items": [{"category": "shirt"}, {"category": "pant"}]
	}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, router, "PUT", "/api/orders/1", `{
		"order_date": "2024-02-02",
		"total_price": 1800,
		"items": [{"category": "kurta", "styleOptions": {"collarStyle": "band"}}]
	}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var got models.OrderWithItems
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "2024-02-02", got.OrderDate)
	assert.Equal(t, 1800.0, got.TotalPrice)
	require.Len(t, got.Items, 1)
	assert.Equal(t, "kurta", got.Items[0].Category)
	require.NotNil(t, got.Items[0].CollarStyle)
	assert.Equal(t, "band", *got.Items[0].CollarStyle)
}

func TestUpdateOrderNotFound(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doJSON(t, router, "PUT", "/api/orders/42", `{"order_date": "2024-01-01"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteOrderReturnsNoContent(t *testing.T) {
	router, _ := newTestRouter(t)
	createTestCustomer(t, router)

	rec := doJSON(t, router, "POST", "/api/orders",
		`{"order_date": "2024-01-01", "customer_id": 1}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, router, "DELETE", "/api/orders/1", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, router, "GET", "/api/orders/1", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListOrdersEmptyIsJSONArray(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doJSON(t, router, "GET", "/api/orders", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "[]", strings.TrimSpace(rec.Body.String()))
}

func TestListOrdersIncludesCustomerFields(t *testing.T) {
	router, _ := newTestRouter(t)
	createTestCustomer(t, router)

	rec := doJSON(t, router, "POST", "/api/orders",
		`{"order_date": "2024-01-01", "customer_id": 1, "items": [{"category": "shirt"}]}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, router, "GET", "/api/orders", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var orders []models.OrderWithItems
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &orders))
	require.Len(t, orders, 1)
	assert.Equal(t, "Ramesh Kumar", orders[0].CustomerName)
	assert.Equal(t, "9876543210", orders[0].CustomerPhone)
}

func TestOrderReceiptReturnsPDF(t *testing.T) {
	router, _ := newTestRouter(t)
	createTestCustomer(t, router)

	rec := doJSON(t, router, "POST", "/api/orders", `{
		"order_date": "2024-01-01",
		"customer_id": 1,
		"total_price": 1500,
		"items": [{"category": "shirt", "measurements": {"chest": 40}}]
	}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, router, "GET", "/api/orders/1/receipt", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF")), "response should be a PDF document")
}

func TestOrderReceiptNotFound(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doJSON(t, router, "GET", "/api/orders/9/receipt", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRevenueStatsEndpoint(t *testing.T) {
	router, _ := newTestRouter(t)
	createTestCustomer(t, router)

	rec := doJSON(t, router, "POST", "/api/orders",
		`{"order_date": "2024-01-01", "customer_id": 1, "total_price": 2000, "advance_pay": 800, "due_amount": 1200}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, router, "GET", "/api/stats/revenue", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var stats models.RevenueStats
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.Equal(t, int64(1), stats.TotalOrders)
	assert.Equal(t, 2000.0, stats.TotalRevenue)
	assert.Equal(t, 800.0, stats.TotalAdvance)
	assert.Equal(t, 1200.0, stats.TotalDue)
}
