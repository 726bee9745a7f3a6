package order

import "context"

// Repository is the read side of order storage.
type Repository interface {
	// List returns every order with its lines, newest first.
	List(ctx context.Context) ([]Order, error)
}
