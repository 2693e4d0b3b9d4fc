package orderservice

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/abekenza/order-service/internal/domain/orders"
	"github.com/abekenza/order-service/internal/ports"
	"github.com/abekenza/order-service/internal/shared/auth"
	"github.com/abekenza/order-service/internal/shared/httpx"
)

// stubOrderService returns canned views and records the last command.
type stubOrderService struct {
	view    ports.OrderView
	err     error
	lastCmd ports.CreateOrderCommand
}

func (s *stubOrderService) Create(_ context.Context, cmd ports.CreateOrderCommand) (ports.OrderView, error) {
	s.lastCmd = cmd
	return s.view, s.err
}

func (s *stubOrderService) Get(context.Context, int64, int64, string) (ports.OrderView, error) {
	return s.view, s.err
}

func (s *stubOrderService) GetByIDs(context.Context, []int64, int64, string) ([]ports.OrderView, error) {
	if s.err != nil {
		return nil, s.err
	}
	return []ports.OrderView{s.view}, nil
}

func (s *stubOrderService) GetByStatus(_ context.Context, status string, _ int64, _ string) ([]ports.OrderView, error) {
	if _, err := orders.ParseStatus(status); err != nil {
		return nil, err
	}
	if s.err != nil {
		return nil, s.err
	}
	return []ports.OrderView{s.view}, nil
}

func (s *stubOrderService) Update(context.Context, ports.UpdateOrderCommand) (ports.OrderView, error) {
	return s.view, s.err
}

func (s *stubOrderService) Delete(context.Context, int64, int64) error { return s.err }

func (s *stubOrderService) ApplyPaymentOutcome(context.Context, int64, string) error { return s.err }

func newTestRouter(svc ports.OrderService) http.Handler {
	r := chi.NewRouter()
	r.Use(auth.Middleware("test-secret"))
	NewHTTPHandler(svc, zap.NewNop()).Register(r)
	return r
}

func sampleView() ports.OrderView {
	return ports.OrderView{
		Order: &orders.Order{
			ID:           1,
			UserID:       7,
			Status:       orders.StatusNew,
			CreationDate: time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
			Lines: []orders.OrderLine{
				{ID: 10, OrderID: 1, ItemID: 5, ItemName: "Laptop", ItemPrice: decimal.RequireFromString("999.99"), Quantity: 2},
			},
		},
		User: ports.UserLookup{Profile: ports.UserProfile{ID: 7, Name: "Alice", Surname: "Smith"}},
	}
}

func doRequest(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("X-User-Id", "7")
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestCreateOrderEndpoint(t *testing.T) {
	svc := &stubOrderService{view: sampleView()}
	router := newTestRouter(svc)

	rec := doRequest(t, router, http.MethodPost, "/api/order/",
		`{"status":"NEW","orderItems":[{"itemId":5,"quantity":2}]}`)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, int64(7), svc.lastCmd.UserID)
	assert.Equal(t, orders.StatusNew, svc.lastCmd.Status)
	require.Len(t, svc.lastCmd.Lines, 1)
	assert.Equal(t, int64(5), svc.lastCmd.Lines[0].ItemID)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "NEW", resp["status"])
	user, ok := resp["user"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Alice", user["name"])
}

func TestCreateOrderValidation(t *testing.T) {
	svc := &stubOrderService{view: sampleView()}
	router := newTestRouter(svc)

	t.Run("missing status and items", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodPost, "/api/order/", `{}`)

		require.Equal(t, http.StatusBadRequest, rec.Code)
		var body httpx.ErrorBody
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "Validation Error", body.Message)
		assert.Contains(t, body.ValidationErrors, "Order status cannot be null")
		assert.Contains(t, body.ValidationErrors, "Order items can't be empty")
	})

	t.Run("non-positive quantity", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodPost, "/api/order/",
			`{"status":"NEW","orderItems":[{"itemId":5,"quantity":0}]}`)

		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "quantity must be a positive integer")
	})

	t.Run("unknown field rejected", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodPost, "/api/order/",
			`{"status":"NEW","orderItems":[],"bogus":1}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestOrderEndpointsRequireIdentity(t *testing.T) {
	router := newTestRouter(&stubOrderService{view: sampleView()})

	req := httptest.NewRequest(http.MethodGet, "/api/order/1", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Authentication required")
}

func TestGetOrderEndpoint(t *testing.T) {
	router := newTestRouter(&stubOrderService{view: sampleView()})

	rec := doRequest(t, router, http.MethodGet, "/api/order/1", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.EqualValues(t, 1, resp["id"])
	assert.EqualValues(t, 7, resp["userId"])
}

func TestGetOrderBadID(t *testing.T) {
	router := newTestRouter(&stubOrderService{view: sampleView()})

	rec := doRequest(t, router, http.MethodGet, "/api/order/abc", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetByIDsEndpoint(t *testing.T) {
	router := newTestRouter(&stubOrderService{view: sampleView()})

	t.Run("valid ids", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodGet, "/api/order/?ids=1,2", "")
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("missing ids", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodGet, "/api/order/", "")
		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "ids query parameter is required")
	})

	t.Run("garbage ids", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodGet, "/api/order/?ids=1,x", "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestGetByStatusEndpointRejectsUnknownStatus(t *testing.T) {
	router := newTestRouter(&stubOrderService{view: sampleView()})

	rec := doRequest(t, router, http.MethodGet, "/api/order/status/SHIPPED", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDeleteOrderEndpoint(t *testing.T) {
	router := newTestRouter(&stubOrderService{view: sampleView()})

	rec := doRequest(t, router, http.MethodDelete, "/api/order/1", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestDegradedUserRendering(t *testing.T) {
	view := sampleView()
	view.User = ports.UserLookup{Profile: ports.UserProfile{ID: 7}, Degraded: true}
	router := newTestRouter(&stubOrderService{view: view})

	rec := doRequest(t, router, http.MethodGet, "/api/order/1", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	user, ok := resp["user"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, ports.DegradedUserName, user["name"])
	assert.NotContains(t, user, "surname")
}
