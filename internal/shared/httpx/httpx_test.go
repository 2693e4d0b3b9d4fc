package httpx

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abekenza/order-service/internal/domain/errs"
)

func TestWriteErrorEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/order/7", nil)

	WriteError(rec, req, http.StatusNotFound, "Order with id 7 was not found")

	assert.Equal(t, http.StatusNotFound, rec.Code)

	var body ErrorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, http.StatusNotFound, body.Status)
	assert.Equal(t, "404 Not Found", body.Error)
	assert.Equal(t, "Order with id 7 was not found", body.Message)
	assert.Equal(t, "/api/order/7", body.Path)
	assert.Equal(t, http.MethodGet, body.RequestType)
	assert.False(t, body.Timestamp.IsZero())
	assert.Empty(t, body.ValidationErrors)
}

func TestWriteValidationError(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/item", nil)

	WriteValidationError(rec, req, []string{"Item name can not be empty", "Price must be positive value"})

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var body ErrorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Validation Error", body.Message)
	assert.Len(t, body.ValidationErrors, 2)
}

func TestWriteDomainError(t *testing.T) {
	t.Run("domain error surfaces status and message", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/item/3", nil)

		WriteDomainError(rec, req, errs.Duplicate("Item %s already exists", "Laptop"))

		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.Contains(t, rec.Body.String(), "Item Laptop already exists")
	})

	t.Run("unknown error is masked as 500", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/item/3", nil)

		WriteDomainError(rec, req, assert.AnError)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.NotContains(t, rec.Body.String(), assert.AnError.Error())
	})
}

func TestRespond(t *testing.T) {
	rec := httptest.NewRecorder()
	Respond(rec, http.StatusCreated, map[string]int{"id": 1})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"id":1}`, rec.Body.String())
}

func TestDecodeStrict(t *testing.T) {
	type payload struct {
		Name string `json:"name"`
	}

	t.Run("decodes valid body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"Laptop"}`))
		req.Header.Set("Content-Type", "application/json")

		var dst payload
		require.NoError(t, DecodeStrict(httptest.NewRecorder(), req, &dst))
		assert.Equal(t, "Laptop", dst.Name)
	})

	t.Run("rejects unknown fields", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"Laptop","extra":1}`))
		req.Header.Set("Content-Type", "application/json")

		var dst payload
		assert.Error(t, DecodeStrict(httptest.NewRecorder(), req, &dst))
	})

	t.Run("rejects non-json content type", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"Laptop"}`))
		req.Header.Set("Content-Type", "text/plain")

		var dst payload
		assert.Error(t, DecodeStrict(httptest.NewRecorder(), req, &dst))
	})
}
