package errs

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConstructorsCarryStatus(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{NotFound("Item with id %d not found", 7), http.StatusNotFound},
		{Duplicate("Item %s already exists", "Laptop"), http.StatusConflict},
		{AccessDenied("User %d does not have access to order %d", 1, 2), http.StatusForbidden},
		{IllegalStatus("Unknown order status %q", "x"), http.StatusBadRequest},
		{Unauthenticated("Authentication required"), http.StatusUnauthorized},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.status, StatusOf(tc.err), "error %v", tc.err)
		assert.True(t, Is(tc.err, tc.status))
	}
}

func TestStatusOfUnknownErrorDefaultsTo500(t *testing.T) {
	assert.Equal(t, http.StatusInternalServerError, StatusOf(errors.New("boom")))
	assert.False(t, Is(errors.New("boom"), http.StatusNotFound))
}

func TestStatusOfWrappedError(t *testing.T) {
	wrapped := fmt.Errorf("loading order: %w", NotFound("Order with id %d was not found", 4))
	assert.Equal(t, http.StatusNotFound, StatusOf(wrapped))
	assert.True(t, Is(wrapped, http.StatusNotFound))
}
