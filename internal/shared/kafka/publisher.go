package kafka

import (
	"context"
	"strconv"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"

	"github.com/abekenza/order-service/internal/ports"
	"github.com/abekenza/order-service/internal/shared/contracts"
)

// PaymentPublisher emits create-payment events to the orders topic, keyed by
// order id so all events for one order land on the same partition.
type PaymentPublisher struct {
	writer *kafkago.Writer
}

var _ ports.PaymentPublisher = (*PaymentPublisher)(nil)

// NewPaymentPublisher wraps an already configured topic writer.
func NewPaymentPublisher(writer *kafkago.Writer) *PaymentPublisher {
	return &PaymentPublisher{writer: writer}
}

// PublishCreatePayment sends the CREATE_ORDER payment request for a new order.
func (p *PaymentPublisher) PublishCreatePayment(ctx context.Context, orderID, userID int64, amount decimal.Decimal) error {
	msg := contracts.PaymentRequestMessage{
		EventID:       uuid.NewString(),
		EventType:     contracts.EventTypeCreateOrder,
		OrderID:       orderID,
		UserID:        userID,
		PaymentAmount: amount,
	}
	return PublishJSON(ctx, p.writer, strconv.FormatInt(orderID, 10), msg)
}
