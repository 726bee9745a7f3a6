package cart

import (
	"context"

	"github.com/georgemunganga/printa-dashboard/internal/modules/catalog"
	"github.com/georgemunganga/printa-dashboard/internal/modules/order"
	"github.com/georgemunganga/printa-dashboard/internal/modules/remote"
)

// Store is the snapshot the composer validates against and refreshes after a
// mutation. *inventory.Store satisfies it.
type Store interface {
	Product(id int64) (catalog.Product, bool)
	Order(id int64) (order.Order, bool)
	Refresh(ctx context.Context) error
}

// Remote issues the mutating entity API calls. *remote.Client satisfies it.
type Remote interface {
	CreateOrder(ctx context.Context, req remote.CreateOrderRequest) error
	UpdateOrderStatus(ctx context.Context, id int64, status order.OrderStatus) error
	DeleteOrder(ctx context.Context, id int64) error
}
