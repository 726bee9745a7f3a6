// Package search implements the dashboard's live search over the current snapshot.
package search

import (
	"strings"

	"github.com/georgemunganga/printa-dashboard/internal/modules/catalog"
	"github.com/georgemunganga/printa-dashboard/internal/modules/order"
)

// MaxMatches caps each result list.
const MaxMatches = 5

// Result holds the matches for one query. Visible is false for an empty query,
// which is different from a visible result that matched nothing.
type Result struct {
	Query    string            `json:"query"`
	Visible  bool              `json:"visible"`
	Products []catalog.Product `json:"products"`
	Orders   []order.Order     `json:"orders"`
}

// Run matches products on name, SKU and category, and orders on id, customer and
// status. Matching is case-insensitive substring.
func Run(products []catalog.Product, orders []order.Order, query string) Result {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return Result{}
	}

	res := Result{
		Query:    q,
		Visible:  true,
		Products: []catalog.Product{},
		Orders:   []order.Order{},
	}
	for _, p := range products {
		if len(res.Products) == MaxMatches {
			break
		}
		if contains(q, p.Name, p.SKU, p.Category) {
			res.Products = append(res.Products, p)
		}
	}
	for _, o := range orders {
		if len(res.Orders) == MaxMatches {
			break
		}
		if contains(q, o.IDText(), o.Customer, string(o.Status)) {
			res.Orders = append(res.Orders, o)
		}
	}
	return res
}

// Empty reports whether a visible result found nothing.
func (r Result) Empty() bool {
	return r.Visible && len(r.Products) == 0 && len(r.Orders) == 0
}

func contains(q string, fields ...string) bool {
	for _, f := range fields {
		if f != "" && strings.Contains(strings.ToLower(f), q) {
			return true
		}
	}
	return false
}
