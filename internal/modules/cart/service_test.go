package cart

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/georgemunganga/printa-dashboard/internal/apperr"
	"github.com/georgemunganga/printa-dashboard/internal/modules/catalog"
	"github.com/georgemunganga/printa-dashboard/internal/modules/order"
	"github.com/georgemunganga/printa-dashboard/internal/modules/remote"
)

type fakeStore struct {
	products   map[int64]catalog.Product
	orders     map[int64]order.Order
	refreshes  int
	refreshErr error
	onRefresh  func()
}

func (s *fakeStore) Product(id int64) (catalog.Product, bool) {
	p, ok := s.products[id]
	return p, ok
}

func (s *fakeStore) Order(id int64) (order.Order, bool) {
	o, ok := s.orders[id]
	return o, ok
}

func (s *fakeStore) Refresh(context.Context) error {
	s.refreshes++
	if s.onRefresh != nil {
		s.onRefresh()
	}
	return s.refreshErr
}

type fakeRemote struct {
	created  []remote.CreateOrderRequest
	updated  map[int64]order.OrderStatus
	deleted  []int64
	calls    int
	failWith error
}

func (r *fakeRemote) CreateOrder(_ context.Context, req remote.CreateOrderRequest) error {
	r.calls++
	if r.failWith != nil {
		return r.failWith
	}
	r.created = append(r.created, req)
	return nil
}

func (r *fakeRemote) UpdateOrderStatus(_ context.Context, id int64, status order.OrderStatus) error {
	r.calls++
	if r.failWith != nil {
		return r.failWith
	}
	if r.updated == nil {
		r.updated = map[int64]order.OrderStatus{}
	}
	r.updated[id] = status
	return nil
}

func (r *fakeRemote) DeleteOrder(_ context.Context, id int64) error {
	r.calls++
	if r.failWith != nil {
		return r.failWith
	}
	r.deleted = append(r.deleted, id)
	return nil
}

func setup(t *testing.T) (*Composer, *fakeStore, *fakeRemote) {
	t.Helper()
	logger, _ := test.NewNullLogger()
	store := &fakeStore{
		products: map[int64]catalog.Product{
			1: {ID: 1, Name: "Widget", Quantity: 5, Price: decimal.NewFromInt(10)},
			2: {ID: 2, Name: "Gadget", Quantity: 20, Price: decimal.RequireFromString("2.50")},
			3: {ID: 3, Name: "Sold out", Quantity: 0, Price: decimal.NewFromInt(1)},
		},
		orders: map[int64]order.Order{
			7: {ID: 7, Status: order.StatusPending},
		},
	}
	rmt := &fakeRemote{}
	return NewComposer(NewOrders(store, rmt, logger)), store, rmt
}

func TestAddLine(t *testing.T) {
	t.Run("replaces instead of accumulating", func(t *testing.T) {
		c, _, _ := setup(t)
		require.NoError(t, c.AddLine(1, 2))
		require.NoError(t, c.AddLine(1, 4))

		lines := c.Lines()
		require.Len(t, lines, 1)
		assert.Equal(t, 4, lines[0].Quantity)
	})

	t.Run("keeps insertion order", func(t *testing.T) {
		c, _, _ := setup(t)
		require.NoError(t, c.AddLine(2, 1))
		require.NoError(t, c.AddLine(1, 1))
		require.NoError(t, c.AddLine(2, 3))

		lines := c.Lines()
		require.Len(t, lines, 2)
		assert.Equal(t, int64(2), lines[0].ProductID)
		assert.Equal(t, 3, lines[0].Quantity)
		assert.Equal(t, int64(1), lines[1].ProductID)
	})

	t.Run("captures name and price", func(t *testing.T) {
		c, store, _ := setup(t)
		require.NoError(t, c.AddLine(2, 4))

		store.products[2] = catalog.Product{ID: 2, Name: "Renamed", Quantity: 20, Price: decimal.NewFromInt(99)}
		lines := c.Lines()
		assert.Equal(t, "Gadget", lines[0].ProductName)
		assert.True(t, decimal.NewFromInt(10).Equal(c.Total()))
	})

	t.Run("rejects bad input", func(t *testing.T) {
		cases := []struct {
			name      string
			productID int64
			quantity  int
			message   string
		}{
			{"zero quantity", 1, 0, "quantity must be at least 1"},
			{"negative quantity", 1, -3, "quantity must be at least 1"},
			{"unknown product", 42, 1, "product 42 is not in the catalog"},
			{"over stock", 1, 6, "Only 5 items available"},
			{"sold out", 3, 1, "Only 0 items available"},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				c, _, _ := setup(t)
				err := c.AddLine(tc.productID, tc.quantity)
				assert.ErrorIs(t, err, apperr.ErrValidation)
				assert.EqualError(t, err, tc.message)
				assert.Empty(t, c.Lines())
			})
		}
	})

	t.Run("over stock leaves the existing line alone", func(t *testing.T) {
		c, _, _ := setup(t)
		require.NoError(t, c.AddLine(1, 3))
		require.Error(t, c.AddLine(1, 9))

		lines := c.Lines()
		require.Len(t, lines, 1)
		assert.Equal(t, 3, lines[0].Quantity)
	})
}

func TestRemoveLineAndTotal(t *testing.T) {
	c, _, _ := setup(t)
	require.NoError(t, c.AddLine(1, 2))
	require.NoError(t, c.AddLine(2, 3))
	assert.True(t, decimal.RequireFromString("27.50").Equal(c.Total()))

	c.RemoveLine(1)
	c.RemoveLine(99)
	assert.Len(t, c.Lines(), 1)
	assert.True(t, decimal.RequireFromString("7.50").Equal(c.Total()))

	c.Clear()
	assert.True(t, c.Total().IsZero())
}

func TestSubmit(t *testing.T) {
	t.Run("empty cart makes no network call", func(t *testing.T) {
		c, store, rmt := setup(t)
		err := c.Submit(context.Background())
		assert.ErrorIs(t, err, apperr.ErrValidation)
		assert.EqualError(t, err, "at least one item required")
		assert.Zero(t, rmt.calls)
		assert.Zero(t, store.refreshes)
	})

	t.Run("success clears the cart and refreshes", func(t *testing.T) {
		c, store, rmt := setup(t)
		require.NoError(t, c.AddLine(2, 1))
		require.NoError(t, c.AddLine(1, 2))

		require.NoError(t, c.Submit(context.Background()))
		require.Len(t, rmt.created, 1)
		assert.Equal(t, []remote.LineRequest{{ProductID: 2, Quantity: 1}, {ProductID: 1, Quantity: 2}}, rmt.created[0].Items)
		assert.Empty(t, c.Lines())
		assert.Equal(t, 1, store.refreshes)
	})

	t.Run("cart is readable while the refresh runs", func(t *testing.T) {
		c, store, _ := setup(t)
		require.NoError(t, c.AddLine(1, 1))

		var unlocked bool
		store.onRefresh = func() {
			if unlocked = c.mu.TryLock(); unlocked {
				c.mu.Unlock()
			}
		}

		require.NoError(t, c.Submit(context.Background()))
		assert.True(t, unlocked, "cart mutex held during refresh")
	})

	t.Run("failure keeps the cart and the server message", func(t *testing.T) {
		c, store, rmt := setup(t)
		rmt.failWith = &apperr.RemoteError{Status: 422, Message: "Insufficient stock for Widget"}
		require.NoError(t, c.AddLine(1, 5))

		err := c.Submit(context.Background())
		assert.EqualError(t, err, "Insufficient stock for Widget")
		assert.Len(t, c.Lines(), 1)
		assert.Zero(t, store.refreshes)
	})

	t.Run("refresh failure is only a warning", func(t *testing.T) {
		c, store, _ := setup(t)
		store.refreshErr = errors.New("Failed to fetch products")
		require.NoError(t, c.AddLine(1, 1))

		err := c.Submit(context.Background())
		assert.True(t, apperr.IsWarning(err))
		assert.ErrorIs(t, err, apperr.ErrStale)
		assert.Empty(t, c.Lines())
	})
}

func TestUpdateStatus(t *testing.T) {
	c, store, rmt := setup(t)
	ctx := context.Background()

	err := c.UpdateStatus(ctx, 7, "shipped")
	assert.ErrorIs(t, err, apperr.ErrValidation)

	err = c.UpdateStatus(ctx, 8, "completed")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	assert.EqualError(t, err, "order 8 not found")
	assert.Zero(t, rmt.calls)

	require.NoError(t, c.UpdateStatus(ctx, 7, "Completed"))
	assert.Equal(t, order.StatusCompleted, rmt.updated[7])
	assert.Equal(t, 1, store.refreshes)
}

func TestDeleteOrder(t *testing.T) {
	c, store, rmt := setup(t)
	ctx := context.Background()

	assert.ErrorIs(t, c.DeleteOrder(ctx, 8), apperr.ErrNotFound)
	assert.Zero(t, rmt.calls)

	require.NoError(t, c.DeleteOrder(ctx, 7))
	assert.Equal(t, []int64{7}, rmt.deleted)
	assert.Equal(t, 1, store.refreshes)

	rmt.failWith = &apperr.RemoteError{Status: 500, Message: "Failed to delete order"}
	assert.ErrorIs(t, c.DeleteOrder(ctx, 7), apperr.ErrRemote)
	assert.Equal(t, 1, store.refreshes)
}

func TestRegistry(t *testing.T) {
	c, _, _ := setup(t)
	reg := NewRegistry(c.Orders, 0, 0)

	cart := reg.Create()
	got, err := reg.Get(cart.ID().String())
	require.NoError(t, err)
	assert.Same(t, cart, got)

	_, err = reg.Get("not-a-uuid")
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	reg.Delete(cart.ID().String())
	_, err = reg.Get(cart.ID().String())
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

type clock struct{ t time.Time }

func newClock() *clock { return &clock{t: time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)} }

func (c *clock) now() time.Time { return c.t }

func (c *clock) advance(d time.Duration) { c.t = c.t.Add(d) }

func TestRegistryExpiresIdleCarts(t *testing.T) {
	c, _, _ := setup(t)
	clk := newClock()
	reg := NewRegistry(c.Orders, 10*time.Minute, 0)
	reg.now = clk.now

	idle := reg.Create()
	active := reg.Create()

	clk.advance(6 * time.Minute)
	require.NoError(t, active.AddLine(1, 1))

	clk.advance(6 * time.Minute)
	_, err := reg.Get(idle.ID().String())
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	got, err := reg.Get(active.ID().String())
	require.NoError(t, err)
	assert.Same(t, active, got)

	clk.advance(11 * time.Minute)
	assert.Equal(t, 1, reg.Sweep())
	assert.Zero(t, reg.Len())
}

func TestRegistryCreateSweepsAndCaps(t *testing.T) {
	c, _, _ := setup(t)
	clk := newClock()
	reg := NewRegistry(c.Orders, time.Hour, 2)
	reg.now = clk.now

	for i := 0; i < 100; i++ {
		reg.Create()
		clk.advance(time.Second)
	}
	assert.Equal(t, 2, reg.Len())

	first := reg.Create()
	clk.advance(time.Second)
	second := reg.Create()
	clk.advance(time.Second)
	_, err := reg.Get(first.ID().String())
	require.NoError(t, err)
	clk.advance(time.Second)
	reg.Create()

	_, err = reg.Get(first.ID().String())
	assert.NoError(t, err, "recently used cart survives")
	_, err = reg.Get(second.ID().String())
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	clk.advance(2 * time.Hour)
	reg.Create()
	assert.Equal(t, 1, reg.Len())
}

func TestRegistryRun(t *testing.T) {
	c, _, _ := setup(t)
	reg := NewRegistry(c.Orders, time.Millisecond, 0)
	reg.Create()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		reg.Run(ctx, 5*time.Millisecond)
		close(done)
	}()

	assert.Eventually(t, func() bool { return reg.Len() == 0 }, time.Second, 5*time.Millisecond)
	cancel()
	<-done
}
