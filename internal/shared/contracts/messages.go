package contracts

import (
	"time"

	"github.com/shopspring/decimal"
)

// EventTypeCreateOrder tags the outbound payment request for a new order.
const EventTypeCreateOrder = "CREATE_ORDER"

// PaymentStatusCompleted is the inbound payment outcome that marks success;
// every other value is treated as a failure.
const PaymentStatusCompleted = "COMPLETED"

// PaymentRequestMessage is published to the orders topic after an order is
// committed, asking the payment service to create a payment.
type PaymentRequestMessage struct {
	EventID       string          `json:"eventId"`
	EventType     string          `json:"eventType"`
	OrderID       int64           `json:"orderId"`
	UserID        int64           `json:"userId"`
	PaymentAmount decimal.Decimal `json:"paymentAmount"`
}

// PaymentOutcomeMessage arrives on the payments topic and reports whether the
// payment for an order succeeded. Consumed once and discarded.
type PaymentOutcomeMessage struct {
	EventType     string          `json:"eventType"`
	OrderID       int64           `json:"orderId"`
	UserID        int64           `json:"userId"`
	Status        string          `json:"status"`
	PaymentAmount decimal.Decimal `json:"paymentAmount"`
	Timestamp     time.Time       `json:"timestamp"`
}
