// Package report assembles a consistent snapshot for export. Formatting the export
// (CSV, PDF, JSON files) is left to the caller.
package report

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/georgemunganga/printa-dashboard/internal/modules/catalog"
	"github.com/georgemunganga/printa-dashboard/internal/modules/order"
	"github.com/georgemunganga/printa-dashboard/internal/modules/stats"
)

const (
	topProducts  = 5
	recentOrders = 5
)

// Report is everything an export needs, taken from a single snapshot version.
type Report struct {
	Version      uint64            `json:"version"`
	GeneratedAt  time.Time         `json:"generated_at"`
	Summary      stats.Stats       `json:"summary"`
	ByStatus     []StatusCount     `json:"orders_by_status"`
	TopProducts  []ProductSales    `json:"top_products"`
	RecentOrders []OrderDigest     `json:"recent_orders"`
	LowStock     []catalog.Product `json:"low_stock"`
}

// StatusCount is the number of orders in one status.
type StatusCount struct {
	Status order.OrderStatus `json:"status"`
	Count  int               `json:"count"`
}

// ProductSales aggregates order lines for one product.
type ProductSales struct {
	ProductID int64           `json:"product_id"`
	Name      string          `json:"name"`
	Sold      int             `json:"sold"`
	Revenue   decimal.Decimal `json:"revenue"`
}

// OrderDigest is a short form of an order for the recent orders table.
type OrderDigest struct {
	ID        int64             `json:"id"`
	Customer  string            `json:"customer"`
	Status    order.OrderStatus `json:"status"`
	Items     int               `json:"items"`
	Total     decimal.Decimal   `json:"total"`
	CreatedAt time.Time         `json:"created_at"`
}

// Build derives the report. Cancelled orders still count in the status breakdown
// but not in product sales.
func Build(version uint64, products []catalog.Product, orders []order.Order, now time.Time) Report {
	r := Report{
		Version:     version,
		GeneratedAt: now,
		Summary:     stats.Compute(products, orders),
		LowStock:    []catalog.Product{},
	}

	counts := make(map[order.OrderStatus]int, len(order.Statuses))
	for _, o := range orders {
		counts[o.Status]++
	}
	for _, st := range order.Statuses {
		r.ByStatus = append(r.ByStatus, StatusCount{Status: st, Count: counts[st]})
	}

	r.TopProducts = bestSellers(products, orders)

	for _, o := range order.MostRecent(orders, recentOrders) {
		r.RecentOrders = append(r.RecentOrders, OrderDigest{
			ID:        o.ID,
			Customer:  o.Customer,
			Status:    o.Status,
			Items:     o.ItemCount(),
			Total:     o.TotalPrice,
			CreatedAt: o.CreatedAt,
		})
	}

	for _, p := range products {
		if p.LowStock() {
			r.LowStock = append(r.LowStock, p)
		}
	}
	return r
}

func bestSellers(products []catalog.Product, orders []order.Order) []ProductSales {
	names := make(map[int64]string, len(products))
	for _, p := range products {
		names[p.ID] = p.Name
	}

	index := map[int64]int{}
	var sales []ProductSales
	for _, o := range orders {
		if o.Status == order.StatusCancelled {
			continue
		}
		for _, l := range o.Items {
			i, ok := index[l.ProductID]
			if !ok {
				name := l.ProductName
				if name == "" {
					name = names[l.ProductID]
				}
				i = len(sales)
				index[l.ProductID] = i
				sales = append(sales, ProductSales{ProductID: l.ProductID, Name: name, Revenue: decimal.Zero})
			}
			sales[i].Sold += l.Quantity
			sales[i].Revenue = sales[i].Revenue.Add(l.Subtotal())
		}
	}

	sort.SliceStable(sales, func(i, j int) bool { return sales[i].Sold > sales[j].Sold })
	if len(sales) > topProducts {
		sales = sales[:topProducts]
	}
	return sales
}
