package inventory

import (
	"context"

	"github.com/georgemunganga/printa-dashboard/internal/modules/catalog"
	"github.com/georgemunganga/printa-dashboard/internal/modules/order"
)

// Fetcher loads both entity collections. The remote API client and the read
// replica both satisfy it.
type Fetcher interface {
	ListProducts(ctx context.Context) ([]catalog.Product, error)
	ListOrders(ctx context.Context) ([]order.Order, error)
}
