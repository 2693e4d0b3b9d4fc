package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/abekenza/order-service/internal/domain/errs"
	"github.com/abekenza/order-service/internal/domain/items"
	"github.com/abekenza/order-service/internal/ports"
)

// uniqueViolation is the Postgres error code for unique constraint violations.
const uniqueViolation = "23505"

// ItemsRepo implements persistence for catalog items using pgx and SQL.
type ItemsRepo struct {
	pool *pgxpool.Pool
}

var _ ports.ItemRepository = (*ItemsRepo)(nil)

// NewItemsRepo constructs a new ItemsRepo.
func NewItemsRepo(pool *pgxpool.Pool) *ItemsRepo {
	return &ItemsRepo{pool: pool}
}

// Create inserts the item and assigns its id.
// Prices travel as fixed-point text to avoid float drift on NUMERIC(10,2).
func (r *ItemsRepo) Create(ctx context.Context, item *items.Item) error {
	q := querierFrom(ctx, r.pool)

	err := q.QueryRow(ctx, `
		INSERT INTO items (name, price)
		VALUES ($1, $2::numeric)
		RETURNING id
	`, item.Name, item.Price.StringFixed(2)).Scan(&item.ID)
	if isUniqueViolation(err) {
		// the check in the service is advisory; this constraint is the backstop
		return errs.Duplicate("Item %s already exists", item.Name)
	}
	return err
}

// GetByID retrieves a single item.
func (r *ItemsRepo) GetByID(ctx context.Context, id int64) (*items.Item, error) {
	q := querierFrom(ctx, r.pool)

	var item items.Item
	var price string
	err := q.QueryRow(ctx, `
		SELECT id, name, price::text
		FROM items
		WHERE id = $1
	`, id).Scan(&item.ID, &item.Name, &price)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, errs.NotFound("Item with id %d not found", id)
	}
	if err != nil {
		return nil, err
	}

	item.Price, err = decimal.NewFromString(price)
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// GetByIDs batch-loads items for the given ids. Missing ids are simply absent
// from the result; the caller compares counts.
func (r *ItemsRepo) GetByIDs(ctx context.Context, ids []int64) ([]items.Item, error) {
	q := querierFrom(ctx, r.pool)

	rows, err := q.Query(ctx, `
		SELECT id, name, price::text
		FROM items
		WHERE id = ANY($1)
		ORDER BY id
	`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []items.Item
	for rows.Next() {
		var item items.Item
		var price string
		if err := rows.Scan(&item.ID, &item.Name, &price); err != nil {
			return nil, err
		}
		item.Price, err = decimal.NewFromString(price)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, rows.Err()
}

// ExistsByName reports whether an item with the exact name exists.
func (r *ItemsRepo) ExistsByName(ctx context.Context, name string) (bool, error) {
	q := querierFrom(ctx, r.pool)

	var exists bool
	err := q.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM items WHERE name = $1)
	`, name).Scan(&exists)
	return exists, err
}

// Update persists a changed name/price.
func (r *ItemsRepo) Update(ctx context.Context, item *items.Item) error {
	q := querierFrom(ctx, r.pool)

	tag, err := q.Exec(ctx, `
		UPDATE items
		SET name = $1, price = $2::numeric
		WHERE id = $3
	`, item.Name, item.Price.StringFixed(2), item.ID)
	if isUniqueViolation(err) {
		return errs.Duplicate("Item %s already exists", item.Name)
	}
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errs.NotFound("Item with id %d not found", item.ID)
	}
	return nil
}

// Delete removes the item permanently.
func (r *ItemsRepo) Delete(ctx context.Context, id int64) error {
	q := querierFrom(ctx, r.pool)

	tag, err := q.Exec(ctx, `DELETE FROM items WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errs.NotFound("Item with id %d not found", id)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
