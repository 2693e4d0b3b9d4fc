package orders

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderLine is a single (item, quantity) pairing within an order. The item's
// name and unit price are resolved from the catalog when the line is built.
type OrderLine struct {
	ID        int64 // DB PK
	OrderID   int64
	ItemID    int64
	ItemName  string
	ItemPrice decimal.Decimal // per-unit, NUMERIC(10,2) in DB
	Quantity  int
}

// Order is a user-owned purchase record. UserID never changes after creation;
// lines share the order's lifecycle (cascade delete).
type Order struct {
	ID           int64
	UserID       int64
	Status       OrderStatus
	CreationDate time.Time
	Lines        []OrderLine
}

// TotalAmount sums quantity x unit price over all lines.
func (order *Order) TotalAmount() decimal.Decimal {
	total := decimal.Zero
	for _, line := range order.Lines {
		total = total.Add(line.ItemPrice.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	return total
}

// LineRequest is a requested (item id, quantity) pair before aggregation.
type LineRequest struct {
	ItemID   int64
	Quantity int
}

// AggregateLines groups requests by item id, summing quantities for duplicate
// ids. The first-appearance order of item ids is preserved, so repeated
// requests produce a deterministic line layout.
func AggregateLines(requests []LineRequest) []LineRequest {
	quantities := make(map[int64]int, len(requests))
	ordering := make([]int64, 0, len(requests))

	for _, req := range requests {
		if _, seen := quantities[req.ItemID]; !seen {
			ordering = append(ordering, req.ItemID)
		}
		quantities[req.ItemID] += req.Quantity
	}

	aggregated := make([]LineRequest, len(ordering))
	for i, itemID := range ordering {
		aggregated[i] = LineRequest{ItemID: itemID, Quantity: quantities[itemID]}
	}
	return aggregated
}
