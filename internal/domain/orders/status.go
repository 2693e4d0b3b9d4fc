package orders

import (
	"strings"

	"github.com/abekenza/order-service/internal/domain/errs"
)

// OrderStatus is a custom type that represents the current status of an order in its lifecycle.
type OrderStatus string

const (
	StatusNew             OrderStatus = "NEW"
	StatusPaymentWaiting  OrderStatus = "PAYMENT_WAITING"
	StatusPaymentReceived OrderStatus = "PAYMENT_RECEIVED"
	StatusProcessing      OrderStatus = "PROCESSING"
	StatusDelivered       OrderStatus = "DELIVERED"
	StatusCancelled       OrderStatus = "CANCELLED"
	StatusPaymentFailed   OrderStatus = "PAYMENT_FAILED"
)

// AllStatuses lists every valid status value. Transitions between them are
// deliberately not restricted: the set is a flat tag set, not a guarded graph.
var AllStatuses = []OrderStatus{
	StatusNew,
	StatusPaymentWaiting,
	StatusPaymentReceived,
	StatusProcessing,
	StatusDelivered,
	StatusCancelled,
	StatusPaymentFailed,
}

// ParseStatus resolves a status string case-insensitively into an OrderStatus.
func ParseStatus(s string) (OrderStatus, error) {
	candidate := OrderStatus(strings.ToUpper(strings.TrimSpace(s)))
	for _, status := range AllStatuses {
		if candidate == status {
			return status, nil
		}
	}
	return "", errs.IllegalStatus("Unknown order status %q, valid values are: %s", s, statusList())
}

func statusList() string {
	names := make([]string, len(AllStatuses))
	for i, status := range AllStatuses {
		names[i] = string(status)
	}
	return strings.Join(names, ", ")
}
