package ports

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/abekenza/order-service/internal/domain/items"
	"github.com/abekenza/order-service/internal/domain/orders"
)

// ItemInput carries the caller-provided fields of an item.
type ItemInput struct {
	Name  string
	Price decimal.Decimal
}

// ItemService is the item lifecycle manager.
type ItemService interface {
	Create(ctx context.Context, in ItemInput) (*items.Item, error)
	Get(ctx context.Context, id int64) (*items.Item, error)
	Update(ctx context.Context, id int64, in ItemInput) (*items.Item, error)
	Delete(ctx context.Context, id int64) error
}

// OrderLineInput is a requested line before aggregation and resolution.
type OrderLineInput struct {
	ItemID   int64
	Quantity int
}

// CreateOrderCommand carries everything needed to assemble a new order.
// The requester identity travels explicitly, never via ambient state.
type CreateOrderCommand struct {
	Status orders.OrderStatus
	Lines  []OrderLineInput
	UserID int64
	Token  string
}

// UpdateOrderCommand updates an order's status and, when Lines is non-nil,
// replaces its lines wholesale.
type UpdateOrderCommand struct {
	OrderID int64
	Status  orders.OrderStatus
	Lines   []OrderLineInput
	UserID  int64
	Token   string
}

// OrderView is an order enriched with its owner's profile lookup.
type OrderView struct {
	Order *orders.Order
	User  UserLookup
}

// OrderService is the order lifecycle manager.
type OrderService interface {
	Create(ctx context.Context, cmd CreateOrderCommand) (OrderView, error)
	Get(ctx context.Context, orderID, userID int64, token string) (OrderView, error)
	GetByIDs(ctx context.Context, ids []int64, userID int64, token string) ([]OrderView, error)
	GetByStatus(ctx context.Context, status string, userID int64, token string) ([]OrderView, error)
	Update(ctx context.Context, cmd UpdateOrderCommand) (OrderView, error)
	Delete(ctx context.Context, orderID, userID int64) error
	ApplyPaymentOutcome(ctx context.Context, orderID int64, paymentStatus string) error
}
