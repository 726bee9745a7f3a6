// Package stats computes the dashboard summary tiles.
package stats

import (
	"github.com/shopspring/decimal"

	"github.com/georgemunganga/printa-dashboard/internal/modules/catalog"
	"github.com/georgemunganga/printa-dashboard/internal/modules/order"
)

// Stats is the summary shown at the top of the dashboard.
type Stats struct {
	TotalProducts int             `json:"total_products"`
	TotalOrders   int             `json:"total_orders"`
	TotalRevenue  decimal.Decimal `json:"total_revenue"`

	// LowStockCount includes sold-out products.
	LowStockCount   int             `json:"low_stock_count"`
	InStockCount    int             `json:"in_stock_count"`
	CompletedOrders int             `json:"completed_orders"`
	PendingOrders   int             `json:"pending_orders"`
	AverageOrder    decimal.Decimal `json:"average_order_value"`
}

// Compute derives the summary from a snapshot. Revenue sums every order's total
// regardless of status.
func Compute(products []catalog.Product, orders []order.Order) Stats {
	s := Stats{
		TotalProducts: len(products),
		TotalOrders:   len(orders),
		TotalRevenue:  decimal.Zero,
		AverageOrder:  decimal.Zero,
	}
	for _, p := range products {
		if p.LowStock() {
			s.LowStockCount++
		}
	}
	s.InStockCount = s.TotalProducts - s.LowStockCount

	for _, o := range orders {
		s.TotalRevenue = s.TotalRevenue.Add(o.TotalPrice)
		switch o.Status {
		case order.StatusCompleted:
			s.CompletedOrders++
		case order.StatusPending:
			s.PendingOrders++
		}
	}
	if s.TotalOrders > 0 {
		s.AverageOrder = s.TotalRevenue.Div(decimal.NewFromInt(int64(s.TotalOrders))).Round(2)
	}
	return s
}
