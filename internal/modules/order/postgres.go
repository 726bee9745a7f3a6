package order

import (
	"context"
	"database/sql"
	"strings"

	"github.com/pkg/errors"
)

type postgresRepo struct{ db *sql.DB }

// NewPostgresRepository reads orders from the inventory database. Read-only.
func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

func (r *postgresRepo) List(ctx context.Context) ([]Order, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, customer_name, customer_email, status, total_price, created_at
		FROM orders ORDER BY created_at DESC`)
	if err != nil {
		return nil, errors.Wrap(err, "query orders")
	}
	defer rows.Close()

	var orders []Order
	index := make(map[int64]int)
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, errors.Wrap(err, "scan order")
		}
		index[o.ID] = len(orders)
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	lines, err := r.listLines(ctx)
	if err != nil {
		return nil, err
	}
	for orderID, ls := range lines {
		if i, ok := index[orderID]; ok {
			orders[i].Items = ls
		}
	}
	return orders, nil
}

// ── helpers ──────────────────────────────────────────────────────────────────

type rowScanner interface{ Scan(dest ...interface{}) error }

func scanOrder(row rowScanner) (Order, error) {
	var (
		o               Order
		customer, email sql.NullString
		status          string
		createdAt       sql.NullTime
	)
	if err := row.Scan(&o.ID, &customer, &email, &status, &o.TotalPrice, &createdAt); err != nil {
		return o, err
	}
	o.Customer = customer.String
	o.CustomerEmail = email.String
	o.Status = OrderStatus(strings.ToLower(status))
	o.CreatedAt = createdAt.Time
	return o, nil
}

func (r *postgresRepo) listLines(ctx context.Context) (map[int64][]Line, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT oi.order_id, oi.product_id, oi.product_name, p.name, oi.quantity, oi.price
		FROM order_items oi
		LEFT JOIN products p ON p.id = oi.product_id
		ORDER BY oi.order_id, oi.id`)
	if err != nil {
		return nil, errors.Wrap(err, "query order items")
	}
	defer rows.Close()

	lines := make(map[int64][]Line)
	for rows.Next() {
		var (
			orderID       int64
			l             Line
			stored, named sql.NullString
		)
		if err := rows.Scan(&orderID, &l.ProductID, &stored, &named, &l.Quantity, &l.UnitPrice); err != nil {
			return nil, errors.Wrap(err, "scan order item")
		}
		l.ProductName = lineName(stored, named)
		lines[orderID] = append(lines[orderID], l)
	}
	return lines, rows.Err()
}

// lineName prefers the name captured on the order line. The current product
// name only fills in for rows written before lines carried one.
func lineName(stored, current sql.NullString) string {
	if stored.Valid && strings.TrimSpace(stored.String) != "" {
		return stored.String
	}
	return current.String
}
