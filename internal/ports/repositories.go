package ports

import (
	"context"

	"github.com/abekenza/order-service/internal/domain/items"
	"github.com/abekenza/order-service/internal/domain/orders"
)

// UnitOfWork wraps a function in a DB transaction. Repositories called inside
// fn pick the transaction up from the context.
type UnitOfWork interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// ItemRepository persists catalog entries. Lookups for absent ids fail with a
// domain NotFound error.
type ItemRepository interface {
	Create(ctx context.Context, item *items.Item) error
	GetByID(ctx context.Context, id int64) (*items.Item, error)
	GetByIDs(ctx context.Context, ids []int64) ([]items.Item, error)
	ExistsByName(ctx context.Context, name string) (bool, error)
	Update(ctx context.Context, item *items.Item) error
	Delete(ctx context.Context, id int64) error
}

// OrderRepository persists orders and their lines. Creating an order inserts
// its lines; deleting one cascades to them.
type OrderRepository interface {
	Create(ctx context.Context, order *orders.Order) error
	GetByID(ctx context.Context, id int64) (*orders.Order, error)
	GetByIDs(ctx context.Context, ids []int64) ([]orders.Order, error)
	GetByStatusAndUser(ctx context.Context, status orders.OrderStatus, userID int64) ([]orders.Order, error)
	UpdateStatus(ctx context.Context, id int64, status orders.OrderStatus) error
	ReplaceLines(ctx context.Context, orderID int64, lines []orders.OrderLine) error
	Delete(ctx context.Context, id int64) error
}
