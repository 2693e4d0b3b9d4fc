package orders

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abekenza/order-service/internal/domain/errs"
)

func TestParseStatus(t *testing.T) {
	cases := []struct {
		in   string
		want OrderStatus
	}{
		{"NEW", StatusNew},
		{"new", StatusNew},
		{"  Payment_Waiting  ", StatusPaymentWaiting},
		{"payment_received", StatusPaymentReceived},
		{"DELIVERED", StatusDelivered},
		{"cancelled", StatusCancelled},
		{"payment_failed", StatusPaymentFailed},
	}
	for _, tc := range cases {
		got, err := ParseStatus(tc.in)
		require.NoError(t, err, "input %q", tc.in)
		assert.Equal(t, tc.want, got)
	}
}

func TestParseStatusUnknown(t *testing.T) {
	_, err := ParseStatus("SHIPPED")
	require.Error(t, err)
	assert.True(t, errs.Is(err, http.StatusBadRequest))
	assert.Contains(t, err.Error(), "SHIPPED")
	assert.Contains(t, err.Error(), "PAYMENT_WAITING")
}
