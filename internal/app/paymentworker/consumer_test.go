package paymentworker

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/abekenza/order-service/internal/domain/errs"
	"github.com/abekenza/order-service/internal/ports"
)

// stubOrderService records ApplyPaymentOutcome calls; the read/write operations
// are never reached by the consumer.
type stubOrderService struct {
	ports.OrderService

	err     error
	orderID int64
	status  string
	calls   int
}

func (s *stubOrderService) ApplyPaymentOutcome(_ context.Context, orderID int64, paymentStatus string) error {
	s.calls++
	s.orderID = orderID
	s.status = paymentStatus
	return s.err
}

func newTestConsumer(svc *stubOrderService) *Consumer {
	return NewConsumer(nil, svc, zap.NewNop())
}

func TestHandleMessageDispatchesOutcome(t *testing.T) {
	svc := &stubOrderService{}
	c := newTestConsumer(svc)

	c.handleMessage(context.Background(), []byte(`{
		"eventType": "PAYMENT_RESULT",
		"orderId": 42,
		"userId": 7,
		"status": "COMPLETED",
		"paymentAmount": "59.98",
		"timestamp": "2025-01-02T03:04:05Z"
	}`))

	require.Equal(t, 1, svc.calls)
	assert.Equal(t, int64(42), svc.orderID)
	assert.Equal(t, "COMPLETED", svc.status)
}

func TestHandleMessageDropsMalformedPayload(t *testing.T) {
	svc := &stubOrderService{}
	c := newTestConsumer(svc)

	c.handleMessage(context.Background(), []byte(`{not json`))

	assert.Zero(t, svc.calls)
}

func TestHandleMessageDropsUnknownOrder(t *testing.T) {
	svc := &stubOrderService{err: errs.NotFound("Order with id %d was not found", 42)}
	c := newTestConsumer(svc)

	// must not panic or loop; the event is logged and discarded
	c.handleMessage(context.Background(), []byte(`{"orderId":42,"status":"COMPLETED"}`))

	assert.Equal(t, 1, svc.calls)
}

func TestNextBackoff(t *testing.T) {
	assert.Equal(t, 2*time.Second, nextBackoff(time.Second, retryMaxDelay))
	assert.Equal(t, retryMaxDelay, nextBackoff(20*time.Second, retryMaxDelay))
	assert.Equal(t, retryMaxDelay, nextBackoff(retryMaxDelay, retryMaxDelay))
}

func TestSleepWithContext(t *testing.T) {
	assert.True(t, sleepWithContext(context.Background(), time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.False(t, sleepWithContext(ctx, time.Minute))
}
