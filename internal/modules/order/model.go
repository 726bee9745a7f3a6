package order

import (
	"encoding/json"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/georgemunganga/printa-dashboard/internal/modules/catalog"
)

// OrderStatus represents the lifecycle state of an order.
type OrderStatus string

const (
	StatusPending    OrderStatus = "pending"
	StatusProcessing OrderStatus = "processing"
	StatusCompleted  OrderStatus = "completed"
	StatusCancelled  OrderStatus = "cancelled"
)

// Statuses lists every status in display order.
var Statuses = []OrderStatus{StatusPending, StatusProcessing, StatusCompleted, StatusCancelled}

// ParseStatus reports whether s names one of the enumerated statuses.
func ParseStatus(s string) (OrderStatus, bool) {
	st := OrderStatus(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Statuses {
		if st == known {
			return st, true
		}
	}
	return "", false
}

// Order is a customer order as served by the order API.
type Order struct {
	ID            int64           `json:"id"`
	Customer      string          `json:"customer,omitempty"`
	CustomerEmail string          `json:"customer_email,omitempty"`
	Status        OrderStatus     `json:"status"`
	Items         []Line          `json:"items"`
	TotalPrice    decimal.Decimal `json:"total_price"`
	CreatedAt     time.Time       `json:"created_at"`
}

// Line is a single product line within an order. Name and price are captured
// when the order is placed.
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

// IDText is the order id as shown to and searched by users.
func (o Order) IDText() string { return strconv.FormatInt(o.ID, 10) }

// ItemCount sums line quantities.
func (o Order) ItemCount() int {
	n := 0
	for _, l := range o.Items {
		n += l.Quantity
	}
	return n
}

// ── ingestion ─────────────────────────────────────────────────────────────────

type wireOrder struct {
	ID            int64           `json:"id"`
	Customer      *string         `json:"customer"`
	CustomerName  *string         `json:"customer_name"`
	CustomerEmail *string         `json:"customer_email"`
	Status        string          `json:"status"`
	Items         []wireLine      `json:"items"`
	TotalPrice    json.RawMessage `json:"total_price"`
	CreatedAt     string          `json:"created_at"`
	OrderDate     string          `json:"order_date"`
}

type wireLine struct {
	ProductID   int64           `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    json.RawMessage `json:"quantity"`
	UnitPrice   json.RawMessage `json:"unit_price"`
	Price       json.RawMessage `json:"price"`
}

// UnmarshalJSON normalises an order once at ingestion. The older order_date field
// is folded into CreatedAt; amounts and quantities are accepted as numbers or as
// strings, total_price with thousands separators.
func (o *Order) UnmarshalJSON(data []byte) error {
	var w wireOrder
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*o = Order{
		ID:         w.ID,
		Status:     OrderStatus(strings.ToLower(w.Status)),
		TotalPrice: catalog.ParseAmount(w.TotalPrice),
		CreatedAt:  catalog.ParseTimestamp(w.CreatedAt),
	}
	if o.CreatedAt.IsZero() {
		o.CreatedAt = catalog.ParseTimestamp(w.OrderDate)
	}
	switch {
	case w.Customer != nil:
		o.Customer = *w.Customer
	case w.CustomerName != nil:
		o.Customer = *w.CustomerName
	}
	if w.CustomerEmail != nil {
		o.CustomerEmail = *w.CustomerEmail
	}
	for _, wl := range w.Items {
		l := Line{ProductID: wl.ProductID, ProductName: wl.ProductName, Quantity: catalog.ParseCount(wl.Quantity)}
		price := wl.UnitPrice
		if len(price) == 0 || string(price) == "null" {
			price = wl.Price
		}
		if l.UnitPrice = catalog.ParseAmount(price); l.UnitPrice.IsNegative() {
			l.UnitPrice = decimal.Zero
		}
		o.Items = append(o.Items, l)
	}
	return nil
}

// MostRecent returns up to n orders, newest first. Orders without a timestamp
// sort last. The input slice is not modified.
func MostRecent(orders []Order, n int) []Order {
	sorted := append([]Order(nil), orders...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return newer(sorted[i].CreatedAt, sorted[j].CreatedAt)
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

func newer(a, b time.Time) bool {
	if a.IsZero() || b.IsZero() {
		return !a.IsZero() && b.IsZero()
	}
	return a.After(b)
}
