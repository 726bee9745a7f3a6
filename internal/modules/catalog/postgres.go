package catalog

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"
)

type postgresRepo struct{ db *sql.DB }

// NewPostgresRepository reads products straight from the inventory database.
// Used against a read replica; it never writes.
func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

func (r *postgresRepo) List(ctx context.Context) ([]Product, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, sku, category, quantity, price, description, created_at, updated_at
		FROM products ORDER BY created_at DESC`)
	if err != nil {
		return nil, errors.Wrap(err, "query products")
	}
	defer rows.Close()

	var products []Product
	for rows.Next() {
		p, err := scanProduct(rows.Scan)
		if err != nil {
			return nil, errors.Wrap(err, "scan product")
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func scanProduct(scan func(...interface{}) error) (Product, error) {
	var (
		p                     Product
		category, description sql.NullString
		createdAt, updatedAt  sql.NullTime
	)
	err := scan(&p.ID, &p.Name, &p.SKU, &category, &p.Quantity, &p.Price,
		&description, &createdAt, &updatedAt)
	if err != nil {
		return p, err
	}
	p.Category = category.String
	p.Description = description.String
	p.CreatedAt = createdAt.Time
	p.UpdatedAt = updatedAt.Time
	if p.Quantity < 0 {
		p.Quantity = 0
	}
	return p, nil
}
