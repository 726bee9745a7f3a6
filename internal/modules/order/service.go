package order

import (
	"context"

	"github.com/georgemunganga/printa-dashboard/internal/apperr"
)

// Source is the snapshot orders are read from.
type Source interface {
	Orders() []Order
	Order(id int64) (Order, bool)
}

// Mutator changes orders through the entity API and refreshes the snapshot.
type Mutator interface {
	UpdateStatus(ctx context.Context, id int64, status string) error
	DeleteOrder(ctx context.Context, id int64) error
}

// Service defines the order management operations exposed to clients.
type Service interface {
	// ListOrders returns the snapshot's orders, newest first, optionally filtered by status.
	ListOrders(status string) ([]Order, error)

	// GetOrder retrieves a single order with its lines.
	GetOrder(id int64) (*Order, error)

	// UpdateStatus moves an order to any enumerated status.
	UpdateStatus(ctx context.Context, id int64, status string) error

	// DeleteOrder removes an order; its stock is restored server-side.
	DeleteOrder(ctx context.Context, id int64) error
}

type service struct {
	source  Source
	mutator Mutator
}

// NewService creates a new order service.
func NewService(source Source, mutator Mutator) Service {
	return &service{source: source, mutator: mutator}
}

func (s *service) ListOrders(status string) ([]Order, error) {
	orders := s.source.Orders()
	sorted := MostRecent(orders, len(orders))
	if status == "" {
		return sorted, nil
	}

	st, ok := ParseStatus(status)
	if !ok {
		return nil, apperr.Validation("status", "invalid status %q", status)
	}
	filtered := make([]Order, 0, len(sorted))
	for _, o := range sorted {
		if o.Status == st {
			filtered = append(filtered, o)
		}
	}
	return filtered, nil
}

func (s *service) GetOrder(id int64) (*Order, error) {
	o, ok := s.source.Order(id)
	if !ok {
		return nil, apperr.NotFound("order", id)
	}
	return &o, nil
}

func (s *service) UpdateStatus(ctx context.Context, id int64, status string) error {
	return s.mutator.UpdateStatus(ctx, id, status)
}

func (s *service) DeleteOrder(ctx context.Context, id int64) error {
	return s.mutator.DeleteOrder(ctx, id)
}
