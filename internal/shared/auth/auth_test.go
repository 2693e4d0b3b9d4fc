package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func signToken(t *testing.T, claims jwt.MapClaims, secret string) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

// capture runs a request through Middleware and returns the identity the inner
// handler observed.
func capture(t *testing.T, secret string, decorate func(*http.Request)) (Identity, bool) {
	t.Helper()

	var (
		got Identity
		ok  bool
	)
	handler := Middleware(secret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, ok = FromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/order/1", nil)
	decorate(req)
	handler.ServeHTTP(httptest.NewRecorder(), req)
	return got, ok
}

func TestMiddlewareBearerToken(t *testing.T) {
	token := signToken(t, jwt.MapClaims{"user_id": float64(7)}, testSecret)

	id, ok := capture(t, testSecret, func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer "+token)
	})
	require.True(t, ok)
	assert.Equal(t, int64(7), id.UserID)
	assert.Equal(t, "Bearer "+token, id.Token)
}

func TestMiddlewareStringUserIDClaim(t *testing.T) {
	token := signToken(t, jwt.MapClaims{"user_id": "42"}, testSecret)

	id, ok := capture(t, testSecret, func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer "+token)
	})
	require.True(t, ok)
	assert.Equal(t, int64(42), id.UserID)
}

func TestMiddlewareHeaderIdentity(t *testing.T) {
	id, ok := capture(t, testSecret, func(r *http.Request) {
		r.Header.Set("X-User-Id", "9")
	})
	require.True(t, ok)
	assert.Equal(t, int64(9), id.UserID)
	assert.Empty(t, id.Token)
}

func TestMiddlewareBadTokenFallsBackToHeader(t *testing.T) {
	wrongKey := signToken(t, jwt.MapClaims{"user_id": float64(7)}, "other-secret")

	id, ok := capture(t, testSecret, func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer "+wrongKey)
		r.Header.Set("X-User-Id", "9")
	})
	require.True(t, ok)
	assert.Equal(t, int64(9), id.UserID)
}

func TestMiddlewareNoIdentity(t *testing.T) {
	_, ok := capture(t, testSecret, func(*http.Request) {})
	assert.False(t, ok)

	_, ok = capture(t, testSecret, func(r *http.Request) {
		r.Header.Set("X-User-Id", "not-a-number")
	})
	assert.False(t, ok)

	_, ok = capture(t, testSecret, func(r *http.Request) {
		r.Header.Set("X-User-Id", "-3")
	})
	assert.False(t, ok)
}

func TestRequireUser(t *testing.T) {
	handler := Middleware(testSecret)(RequireUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})))

	t.Run("rejects anonymous requests", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/order/1", nil))

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), "Authentication required")
	})

	t.Run("passes identified requests", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/order/1", nil)
		req.Header.Set("X-User-Id", "5")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})
}
