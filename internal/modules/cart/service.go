package cart

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/georgemunganga/printa-dashboard/internal/apperr"
	"github.com/georgemunganga/printa-dashboard/internal/modules/order"
	"github.com/georgemunganga/printa-dashboard/internal/modules/remote"
)

// Orders issues order mutations against the entity API. Each successful call is
// followed by a store refresh; the store is never patched locally.
type Orders struct {
	store  Store
	remote Remote
	log    logrus.FieldLogger
}

// NewOrders creates the order mutation service.
func NewOrders(store Store, rmt Remote, log logrus.FieldLogger) *Orders {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Orders{store: store, remote: rmt, log: log.WithField("component", "cart")}
}

// UpdateStatus sets the status of an order present in the current snapshot.
func (o *Orders) UpdateStatus(ctx context.Context, orderID int64, status string) error {
	st, ok := order.ParseStatus(status)
	if !ok {
		return apperr.Validation("status", "invalid status %q", status)
	}
	if _, ok := o.store.Order(orderID); !ok {
		return apperr.NotFound("order", orderID)
	}
	if err := o.remote.UpdateOrderStatus(ctx, orderID, st); err != nil {
		return err
	}
	o.log.WithFields(logrus.Fields{"order_id": orderID, "status": st}).Info("order status updated")
	return o.refresh(ctx, "update order status")
}

// DeleteOrder removes an order present in the current snapshot. Stock is restored
// by the API and picked up by the refresh.
func (o *Orders) DeleteOrder(ctx context.Context, orderID int64) error {
	if _, ok := o.store.Order(orderID); !ok {
		return apperr.NotFound("order", orderID)
	}
	if err := o.remote.DeleteOrder(ctx, orderID); err != nil {
		return err
	}
	o.log.WithField("order_id", orderID).Info("order deleted")
	return o.refresh(ctx, "delete order")
}

func (o *Orders) refresh(ctx context.Context, op string) error {
	if err := o.store.Refresh(ctx); err != nil {
		o.log.WithError(err).WithField("op", op).Warn("refresh after mutation failed")
		return &apperr.RaceWarning{Op: op, Err: err}
	}
	return nil
}

// ── composer ──────────────────────────────────────────────────────────────────

// Composer is one cart plus the order operations that go with it. The cart keeps
// at most one line per product, in first-insertion order.
type Composer struct {
	*Orders

	id  uuid.UUID
	now func() time.Time

	mu      sync.Mutex
	lines   []Line
	updated time.Time

	// changed mirrors updated as unix nanos for lock-free reads by the registry.
	changed atomic.Int64
}

// NewComposer creates an empty cart backed by orders.
func NewComposer(orders *Orders) *Composer {
	c := &Composer{Orders: orders, id: uuid.New(), now: time.Now}
	c.touch(c.now())
	return c
}

// ID identifies the cart in a Registry.
func (c *Composer) ID() uuid.UUID { return c.id }

// AddLine puts quantity units of a product in the cart, replacing any existing
// line for it. The product's current name and price are captured.
func (c *Composer) AddLine(productID int64, quantity int) error {
	if quantity < 1 {
		return apperr.Validation("quantity", "quantity must be at least 1")
	}
	p, ok := c.store.Product(productID)
	if !ok {
		return apperr.Validation("product_id", "product %d is not in the catalog", productID)
	}
	if quantity > p.Quantity {
		return apperr.Validation("quantity", "Only %d items available", p.Quantity)
	}

	line := Line{ProductID: p.ID, ProductName: p.Name, Quantity: quantity, UnitPrice: p.Price}

	c.mu.Lock()
	defer c.mu.Unlock()
	if i := c.indexOf(productID); i >= 0 {
		c.lines[i] = line
	} else {
		c.lines = append(c.lines, line)
	}
	c.touch(c.now())
	return nil
}

// RemoveLine drops the product's line. Removing an absent product is a no-op.
func (c *Composer) RemoveLine(productID int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if i := c.indexOf(productID); i >= 0 {
		c.lines = append(c.lines[:i], c.lines[i+1:]...)
		c.touch(c.now())
	}
}

// Lines returns a copy of the cart lines in insertion order.
func (c *Composer) Lines() []Line {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Line{}, c.lines...)
}

// Total sums line subtotals at the captured prices.
func (c *Composer) Total() decimal.Decimal {
	c.mu.Lock()
	defer c.mu.Unlock()
	return total(c.lines)
}

// Clear empties the cart.
func (c *Composer) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lines = nil
	c.touch(c.now())
}

// View returns the cart for display.
func (c *Composer) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	return View{ID: c.id, Lines: append([]Line{}, c.lines...), Total: total(c.lines), UpdatedAt: c.updated}
}

// Submit places the cart as one order. The cart is locked until the order is
// created so it cannot change under an in-flight submission; the follow-up
// refresh runs unlocked. On failure the cart is untouched and the server's
// message is returned as is.
func (c *Composer) Submit(ctx context.Context) error {
	if err := c.place(ctx); err != nil {
		return err
	}
	return c.refresh(ctx, "create order")
}

func (c *Composer) place(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.lines) == 0 {
		return apperr.Validation("items", "at least one item required")
	}

	req := remote.CreateOrderRequest{Items: make([]remote.LineRequest, 0, len(c.lines))}
	for _, l := range c.lines {
		req.Items = append(req.Items, remote.LineRequest{ProductID: l.ProductID, Quantity: l.Quantity})
	}
	if err := c.remote.CreateOrder(ctx, req); err != nil {
		return err
	}

	c.log.WithFields(logrus.Fields{"cart_id": c.id, "lines": len(c.lines)}).Info("order created")
	c.lines = nil
	c.touch(c.now())
	return nil
}

// touch records a change. Callers hold c.mu, except during construction.
func (c *Composer) touch(t time.Time) {
	c.updated = t
	c.changed.Store(t.UnixNano())
}

func (c *Composer) changedAt() time.Time {
	return time.Unix(0, c.changed.Load())
}

func (c *Composer) indexOf(productID int64) int {
	for i, l := range c.lines {
		if l.ProductID == productID {
			return i
		}
	}
	return -1
}

func total(lines []Line) decimal.Decimal {
	sum := decimal.Zero
	for _, l := range lines {
		sum = sum.Add(l.Subtotal())
	}
	return sum
}

// ── registry ──────────────────────────────────────────────────────────────────

// Registry limits.
const (
	DefaultCartTTL   = 30 * time.Minute
	DefaultCartLimit = 10000
	sweepInterval    = time.Minute
)

type slot struct {
	cart *Composer
	seen time.Time
}

// Registry hosts one cart per browser session, keyed by a random id. Carts idle
// for longer than the TTL are evicted; at the limit the longest-idle cart makes
// room for a new one.
type Registry struct {
	orders *Orders
	ttl    time.Duration
	limit  int
	now    func() time.Time

	mu        sync.Mutex
	carts     map[uuid.UUID]*slot
	lastSweep time.Time
}

// NewRegistry creates an empty registry whose carts share orders. Non-positive
// ttl or limit fall back to the defaults.
func NewRegistry(orders *Orders, ttl time.Duration, limit int) *Registry {
	if ttl <= 0 {
		ttl = DefaultCartTTL
	}
	if limit <= 0 {
		limit = DefaultCartLimit
	}
	return &Registry{
		orders: orders,
		ttl:    ttl,
		limit:  limit,
		now:    time.Now,
		carts:  make(map[uuid.UUID]*slot),
	}
}

// Create opens a new empty cart.
func (r *Registry) Create() *Composer {
	c := NewComposer(r.orders)
	now := r.now()
	c.now = r.now
	c.touch(now)

	r.mu.Lock()
	defer r.mu.Unlock()
	if now.Sub(r.lastSweep) >= sweepInterval {
		r.sweepLocked(now)
	}
	if len(r.carts) >= r.limit {
		r.evictIdlestLocked()
	}
	r.carts[c.id] = &slot{cart: c, seen: now}
	return c
}

// Get returns the cart with the given id. An expired cart is dropped and
// reported as missing.
func (r *Registry) Get(id string) (*Composer, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, apperr.NotFound("cart", id)
	}
	now := r.now()

	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.carts[uid]
	if !ok {
		return nil, apperr.NotFound("cart", id)
	}
	if r.expired(s, now) {
		delete(r.carts, uid)
		return nil, apperr.NotFound("cart", id)
	}
	s.seen = now
	return s.cart, nil
}

// Delete discards a cart.
func (r *Registry) Delete(id string) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return
	}
	r.mu.Lock()
	delete(r.carts, uid)
	r.mu.Unlock()
}

// Len reports how many carts are held.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.carts)
}

// Sweep evicts every expired cart and returns how many were dropped.
func (r *Registry) Sweep() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sweepLocked(r.now())
}

// Run sweeps expired carts every interval until ctx is done.
func (r *Registry) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = sweepInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := r.Sweep(); n > 0 {
				r.orders.log.WithField("evicted", n).Debug("idle carts evicted")
			}
		}
	}
}

// Orders returns the order mutation service shared by every cart.
func (r *Registry) Orders() *Orders { return r.orders }

func (r *Registry) sweepLocked(now time.Time) int {
	r.lastSweep = now
	n := 0
	for id, s := range r.carts {
		if r.expired(s, now) {
			delete(r.carts, id)
			n++
		}
	}
	return n
}

func (r *Registry) evictIdlestLocked() {
	var (
		oldest   uuid.UUID
		lastUsed time.Time
		found    bool
	)
	for id, s := range r.carts {
		if used := s.lastUsed(); !found || used.Before(lastUsed) {
			oldest, lastUsed, found = id, used, true
		}
	}
	if found {
		delete(r.carts, oldest)
	}
}

func (r *Registry) expired(s *slot, now time.Time) bool {
	return now.Sub(s.lastUsed()) > r.ttl
}

// lastUsed is the later of the last lookup and the last change to the cart.
func (s *slot) lastUsed() time.Time {
	if changed := s.cart.changedAt(); changed.After(s.seen) {
		return changed
	}
	return s.seen
}
