package inventory

import (
	"time"

	"github.com/georgemunganga/printa-dashboard/internal/modules/catalog"
	"github.com/georgemunganga/printa-dashboard/internal/modules/order"
)

// Snapshot is the latest fetched products and orders. It is replaced wholesale on
// every refresh and never mutated in place.
type Snapshot struct {
	Version   uint64            `json:"version"`
	Products  []catalog.Product `json:"products"`
	Orders    []order.Order     `json:"orders"`
	FetchedAt time.Time         `json:"fetched_at"`
}
