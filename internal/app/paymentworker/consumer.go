package paymentworker

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/abekenza/order-service/internal/domain/errs"
	"github.com/abekenza/order-service/internal/ports"
	"github.com/abekenza/order-service/internal/shared/contracts"
)

const (
	retryBaseDelay = time.Second      // backoff base
	retryMaxDelay  = 30 * time.Second // backoff cap
)

// Consumer reads payment outcome events from the payments topic and applies
// them to orders. Events are processed one at a time per invocation; per-order
// ordering relies on the topic's keying.
type Consumer struct {
	reader *kafkago.Reader
	svc    ports.OrderService
	log    *zap.Logger
}

// NewConsumer wires a Consumer around an already configured group reader.
func NewConsumer(reader *kafkago.Reader, svc ports.OrderService, log *zap.Logger) *Consumer {
	return &Consumer{reader: reader, svc: svc, log: log}
}

// ConsumeForever fetches and handles messages until ctx is cancelled, backing
// off with a cap when the broker is unreachable.
func (c *Consumer) ConsumeForever(ctx context.Context) {
	backoff := retryBaseDelay

	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			c.log.Error("failed to fetch payment event", zap.Error(err))
			if !sleepWithContext(ctx, backoff) {
				return
			}
			backoff = nextBackoff(backoff, retryMaxDelay)
			continue
		}
		backoff = retryBaseDelay

		// handle one message; failures are logged and the offset is committed
		// either way - redelivery cannot fix a malformed or unknown event
		c.handleMessage(ctx, msg.Value)

		if err := c.reader.CommitMessages(ctx, msg); err != nil {
			c.log.Error("failed to commit payment event offset", zap.Error(err))
		}
	}
}

// handleMessage decodes a payment outcome and dispatches the status change.
func (c *Consumer) handleMessage(ctx context.Context, value []byte) {
	var outcome contracts.PaymentOutcomeMessage
	if err := json.Unmarshal(value, &outcome); err != nil {
		c.log.Error("failed to decode payment event", zap.Error(err))
		return
	}

	c.log.Info("payment event received",
		zap.String("event_type", outcome.EventType),
		zap.Int64("order_id", outcome.OrderID),
		zap.String("status", outcome.Status),
	)

	if err := c.svc.ApplyPaymentOutcome(ctx, outcome.OrderID, outcome.Status); err != nil {
		if errs.Is(err, http.StatusNotFound) {
			// outcome for an order we do not know; drop it
			c.log.Warn("payment event for unknown order", zap.Int64("order_id", outcome.OrderID))
			return
		}
		c.log.Error("failed to apply payment outcome", zap.Int64("order_id", outcome.OrderID), zap.Error(err))
	}
}

// sleepWithContext waits for d, returning false if ctx is cancelled first.
func sleepWithContext(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

// nextBackoff doubles the delay up to the cap.
func nextBackoff(cur, max time.Duration) time.Duration {
	next := cur * 2
	if next > max {
		return max
	}
	return next
}
