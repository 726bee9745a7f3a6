package catalog

import (
	"strings"

	"github.com/georgemunganga/printa-dashboard/internal/apperr"
)

// Source is the snapshot products are read from.
type Source interface {
	Products() []Product
	Product(id int64) (Product, bool)
}

// ListFilter narrows a product listing.
type ListFilter struct {
	Category string
	// LowStockOnly keeps products under the restock threshold, sold-out ones included.
	LowStockOnly bool
	// InStockOnly keeps products that can still be ordered, as the order composer needs.
	InStockOnly bool
}

// Service defines catalog read operations.
type Service interface {
	ListProducts(filter ListFilter) []Product
	GetProduct(id int64) (*Product, error)
}

type service struct{ source Source }

func NewService(source Source) Service { return &service{source: source} }

func (s *service) ListProducts(filter ListFilter) []Product {
	products := s.source.Products()
	out := make([]Product, 0, len(products))
	for _, p := range products {
		if filter.Category != "" && !strings.EqualFold(p.Category, filter.Category) {
			continue
		}
		if filter.LowStockOnly && !p.LowStock() {
			continue
		}
		if filter.InStockOnly && p.Quantity == 0 {
			continue
		}
		out = append(out, p)
	}
	return out
}

func (s *service) GetProduct(id int64) (*Product, error) {
	p, ok := s.source.Product(id)
	if !ok {
		return nil, apperr.NotFound("product", id)
	}
	return &p, nil
}
