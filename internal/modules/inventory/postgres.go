package inventory

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"

	"github.com/georgemunganga/printa-dashboard/internal/modules/catalog"
	"github.com/georgemunganga/printa-dashboard/internal/modules/order"
)

type replicaFetcher struct {
	products catalog.Repository
	orders   order.Repository
}

// NewPostgresFetcher reads the snapshot from a read-only database replica instead
// of the HTTP API. Mutations still go through the API.
func NewPostgresFetcher(db *sql.DB) Fetcher {
	return &replicaFetcher{
		products: catalog.NewPostgresRepository(db),
		orders:   order.NewPostgresRepository(db),
	}
}

func (r *replicaFetcher) ListProducts(ctx context.Context) ([]catalog.Product, error) {
	products, err := r.products.List(ctx)
	return products, errors.Wrap(err, "replica products")
}

func (r *replicaFetcher) ListOrders(ctx context.Context) ([]order.Order, error) {
	orders, err := r.orders.List(ctx)
	return orders, errors.Wrap(err, "replica orders")
}
