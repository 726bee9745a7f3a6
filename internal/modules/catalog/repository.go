package catalog

import "context"

// Repository is the read side of product storage.
type Repository interface {
	// List returns every product, most recently created first.
	List(ctx context.Context) ([]Product, error)
}
