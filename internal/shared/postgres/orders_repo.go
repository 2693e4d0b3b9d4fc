package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/abekenza/order-service/internal/domain/errs"
	"github.com/abekenza/order-service/internal/domain/orders"
	"github.com/abekenza/order-service/internal/ports"
)

// OrdersRepo implements persistence for orders and their lines using pgx and SQL.
type OrdersRepo struct {
	pool *pgxpool.Pool
}

var _ ports.OrderRepository = (*OrdersRepo)(nil)

// NewOrdersRepo constructs a new OrdersRepo.
func NewOrdersRepo(pool *pgxpool.Pool) *OrdersRepo {
	return &OrdersRepo{pool: pool}
}

// Create inserts the order header and its lines.
func (r *OrdersRepo) Create(ctx context.Context, order *orders.Order) error {
	q := querierFrom(ctx, r.pool)

	err := q.QueryRow(ctx, `
		INSERT INTO orders (user_id, status, creation_date)
		VALUES ($1, $2, $3)
		RETURNING id
	`, order.UserID, order.Status, order.CreationDate).Scan(&order.ID)
	if err != nil {
		return err
	}

	for i := range order.Lines {
		line := &order.Lines[i]
		err = q.QueryRow(ctx, `
			INSERT INTO order_items (order_id, item_id, quantity)
			VALUES ($1, $2, $3)
			RETURNING id
		`, order.ID, line.ItemID, line.Quantity).Scan(&line.ID)
		if err != nil {
			return err
		}
		line.OrderID = order.ID
	}
	return nil
}

// GetByID retrieves an order with its lines.
func (r *OrdersRepo) GetByID(ctx context.Context, id int64) (*orders.Order, error) {
	q := querierFrom(ctx, r.pool)

	var order orders.Order
	err := q.QueryRow(ctx, `
		SELECT id, user_id, status, creation_date
		FROM orders
		WHERE id = $1
	`, id).Scan(&order.ID, &order.UserID, &order.Status, &order.CreationDate)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, errs.NotFound("Order with id %d was not found", id)
	}
	if err != nil {
		return nil, err
	}

	lines, err := r.loadLines(ctx, []int64{order.ID})
	if err != nil {
		return nil, err
	}
	order.Lines = lines[order.ID]
	return &order, nil
}

// GetByIDs batch-loads matching orders with their lines. Ids with no matching
// order are simply absent from the result.
func (r *OrdersRepo) GetByIDs(ctx context.Context, ids []int64) ([]orders.Order, error) {
	return r.list(ctx, `
		SELECT id, user_id, status, creation_date
		FROM orders
		WHERE id = ANY($1)
		ORDER BY id
	`, ids)
}

// GetByStatusAndUser loads orders filtered by (status, owning user) at the
// query level.
func (r *OrdersRepo) GetByStatusAndUser(ctx context.Context, status orders.OrderStatus, userID int64) ([]orders.Order, error) {
	return r.list(ctx, `
		SELECT id, user_id, status, creation_date
		FROM orders
		WHERE status = $1 AND user_id = $2
		ORDER BY id
	`, status, userID)
}

// UpdateStatus sets the order's status unconditionally.
func (r *OrdersRepo) UpdateStatus(ctx context.Context, id int64, status orders.OrderStatus) error {
	q := querierFrom(ctx, r.pool)

	tag, err := q.Exec(ctx, `
		UPDATE orders
		SET status = $1
		WHERE id = $2
	`, status, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errs.NotFound("Order with id %d was not found", id)
	}
	return nil
}

// ReplaceLines swaps the order's lines wholesale.
func (r *OrdersRepo) ReplaceLines(ctx context.Context, orderID int64, lines []orders.OrderLine) error {
	q := querierFrom(ctx, r.pool)

	if _, err := q.Exec(ctx, `DELETE FROM order_items WHERE order_id = $1`, orderID); err != nil {
		return err
	}

	for i := range lines {
		line := &lines[i]
		err := q.QueryRow(ctx, `
			INSERT INTO order_items (order_id, item_id, quantity)
			VALUES ($1, $2, $3)
			RETURNING id
		`, orderID, line.ItemID, line.Quantity).Scan(&line.ID)
		if err != nil {
			return err
		}
		line.OrderID = orderID
	}
	return nil
}

// Delete removes the order permanently; order_items cascade at the DB level.
func (r *OrdersRepo) Delete(ctx context.Context, id int64) error {
	q := querierFrom(ctx, r.pool)

	tag, err := q.Exec(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errs.NotFound("Order with id %d was not found", id)
	}
	return nil
}

// list runs a header query and attaches lines to every returned order.
func (r *OrdersRepo) list(ctx context.Context, sql string, args ...any) ([]orders.Order, error) {
	q := querierFrom(ctx, r.pool)

	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []orders.Order
	var orderIDs []int64
	for rows.Next() {
		var order orders.Order
		if err := rows.Scan(&order.ID, &order.UserID, &order.Status, &order.CreationDate); err != nil {
			return nil, err
		}
		out = append(out, order)
		orderIDs = append(orderIDs, order.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}

	lines, err := r.loadLines(ctx, orderIDs)
	if err != nil {
		return nil, err
	}
	for i := range out {
		out[i].Lines = lines[out[i].ID]
	}
	return out, nil
}

// loadLines fetches lines for the given order ids, joining the catalog for the
// item snapshot (name, unit price) used in responses and amount computation.
func (r *OrdersRepo) loadLines(ctx context.Context, orderIDs []int64) (map[int64][]orders.OrderLine, error) {
	q := querierFrom(ctx, r.pool)

	rows, err := q.Query(ctx, `
		SELECT oi.id, oi.order_id, oi.item_id, oi.quantity, i.name, i.price::text
		FROM order_items oi
		JOIN items i ON i.id = oi.item_id
		WHERE oi.order_id = ANY($1)
		ORDER BY oi.id
	`, orderIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	lines := make(map[int64][]orders.OrderLine, len(orderIDs))
	for rows.Next() {
		var line orders.OrderLine
		var price string
		if err := rows.Scan(&line.ID, &line.OrderID, &line.ItemID, &line.Quantity, &line.ItemName, &price); err != nil {
			return nil, err
		}
		line.ItemPrice, err = decimal.NewFromString(price)
		if err != nil {
			return nil, err
		}
		lines[line.OrderID] = append(lines[line.OrderID], line)
	}
	return lines, rows.Err()
}
