package catalog

import (
	"encoding/json"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// RestockThreshold is the quantity below which a product counts as low on stock.
const RestockThreshold = 10

// Product is an inventory item as served by the product API. Read-only to the dashboard.
type Product struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	SKU         string          `json:"sku"`
	Category    string          `json:"category,omitempty"`
	Quantity    int             `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// Touched is the last update time, falling back to creation time.
func (p Product) Touched() time.Time {
	if !p.UpdatedAt.IsZero() {
		return p.UpdatedAt
	}
	return p.CreatedAt
}

// LowStock counts for the summary tile: anything under the threshold, zero included.
func (p Product) LowStock() bool {
	return p.Quantity < RestockThreshold
}

// NeedsRestockAlert drives alerts and the activity feed. Sold-out items are
// excluded here, unlike LowStock.
func (p Product) NeedsRestockAlert() bool {
	return p.Quantity > 0 && p.Quantity < RestockThreshold
}

// RecentlyTouched returns up to n products, most recently updated first. The
// input slice is not modified.
func RecentlyTouched(products []Product, n int) []Product {
	sorted := append([]Product(nil), products...)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i].Touched(), sorted[j].Touched()
		if a.IsZero() || b.IsZero() {
			return !a.IsZero() && b.IsZero()
		}
		return a.After(b)
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

// wireProduct mirrors the API payload before normalisation.
type wireProduct struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	SKU         string          `json:"sku"`
	Category    *string         `json:"category"`
	Quantity    json.RawMessage `json:"quantity"`
	Price       json.RawMessage `json:"price"`
	Description *string         `json:"description"`
	CreatedAt   string          `json:"created_at"`
	UpdatedAt   string          `json:"updated_at"`
}

// UnmarshalJSON normalises the payload once at ingestion: null optionals become
// empty, negative quantities clamp to zero and timestamps accept the API's layouts.
func (p *Product) UnmarshalJSON(data []byte) error {
	var w wireProduct
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*p = Product{
		ID:        w.ID,
		Name:      w.Name,
		SKU:       w.SKU,
		Quantity:  ParseCount(w.Quantity),
		Price:     ParseAmount(w.Price),
		CreatedAt: ParseTimestamp(w.CreatedAt),
		UpdatedAt: ParseTimestamp(w.UpdatedAt),
	}
	if w.Category != nil {
		p.Category = *w.Category
	}
	if w.Description != nil {
		p.Description = *w.Description
	}
	if p.Price.IsNegative() {
		p.Price = decimal.Zero
	}
	return nil
}

// ── lenient numbers ───────────────────────────────────────────────────────────

// jsonScalar unwraps a JSON number or string. ok is false for null, empty or
// non-scalar input.
func jsonScalar(raw json.RawMessage) (string, bool) {
	s := strings.TrimSpace(string(raw))
	if s == "" || s == "null" {
		return "", false
	}
	if strings.HasPrefix(s, `"`) {
		var str string
		if err := json.Unmarshal(raw, &str); err != nil {
			return "", false
		}
		s = strings.TrimSpace(str)
	}
	return s, true
}

// ParseAmount reads a monetary JSON value. Numbers and strings such as
// "1,234.50" are accepted; missing or malformed values count as zero.
func ParseAmount(raw json.RawMessage) decimal.Decimal {
	s, ok := jsonScalar(raw)
	if !ok {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(strings.ReplaceAll(s, ",", ""))
	if err != nil {
		return decimal.Zero
	}
	return d
}

// ParseCount reads a stock or line quantity. Numbers and numeric strings such
// as "5" are accepted, fractions truncate; negative, missing or malformed
// values count as zero.
func ParseCount(raw json.RawMessage) int {
	s, ok := jsonScalar(raw)
	if !ok {
		return 0
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		d, derr := decimal.NewFromString(s)
		if derr != nil {
			return 0
		}
		n = int(d.IntPart())
	}
	if n < 0 {
		return 0
	}
	return n
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseTimestamp accepts the layouts the entity API emits. Unparseable or empty
// input yields the zero time, which renders as "Recently".
func ParseTimestamp(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
