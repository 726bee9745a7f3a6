package cart

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Line is one product in the cart. Name and price are captured when the line is
// added and do not follow later catalog changes.
type Line struct {
	ProductID   int64           `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

// Subtotal is UnitPrice × Quantity.
func (l Line) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// View is the cart as returned to clients.
type View struct {
	ID        uuid.UUID       `json:"id"`
	Lines     []Line          `json:"lines"`
	Total     decimal.Decimal `json:"total"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// AddLineRequest is the body of PUT /carts/{id}/lines/{product_id}.
type AddLineRequest struct {
	Quantity int `json:"quantity"`
}
