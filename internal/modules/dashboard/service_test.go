package dashboard

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/georgemunganga/printa-dashboard/internal/apperr"
	"github.com/georgemunganga/printa-dashboard/internal/modules/catalog"
	"github.com/georgemunganga/printa-dashboard/internal/modules/inventory"
	"github.com/georgemunganga/printa-dashboard/internal/modules/order"
)

type fakeFetcher struct {
	products []catalog.Product
	orders   []order.Order
	err      error
}

func (f *fakeFetcher) ListProducts(context.Context) ([]catalog.Product, error) {
	return f.products, f.err
}

func (f *fakeFetcher) ListOrders(context.Context) ([]order.Order, error) {
	return f.orders, f.err
}

func setup(t *testing.T) (Service, *inventory.Store, *fakeFetcher) {
	t.Helper()
	logger, _ := test.NewNullLogger()
	now := time.Now()
	f := &fakeFetcher{
		products: []catalog.Product{
			{ID: 1, Name: "Widget", SKU: "W1", Quantity: 5, Price: decimal.NewFromInt(10), UpdatedAt: now.Add(-time.Hour)},
			{ID: 2, Name: "Gadget", SKU: "G1", Quantity: 50, Price: decimal.NewFromInt(3), UpdatedAt: now.Add(-2 * time.Hour)},
		},
		orders: []order.Order{
			{ID: 10, Status: order.StatusCompleted, TotalPrice: decimal.NewFromInt(30), CreatedAt: now.Add(-2 * time.Minute)},
			{ID: 11, Status: order.StatusPending, TotalPrice: decimal.NewFromInt(6), CreatedAt: now.Add(-90 * time.Minute)},
		},
	}
	store := inventory.NewStore(f, logger)
	require.NoError(t, store.Refresh(context.Background()))
	return NewService(store), store, f
}

func TestView(t *testing.T) {
	svc, _, _ := setup(t)
	v := svc.View()

	assert.Equal(t, uint64(1), v.Version)
	assert.Equal(t, 2, v.Stats.TotalProducts)
	assert.Equal(t, 1, v.Stats.LowStockCount)
	assert.True(t, decimal.NewFromInt(36).Equal(v.Stats.TotalRevenue))

	require.Len(t, v.Notifications, 3)
	assert.Equal(t, "Widget is running low (5 left)", v.Notifications[0].Message)
	assert.Equal(t, 3, v.Unread)

	require.NotEmpty(t, v.Activity)
	assert.Equal(t, "Order #10 - $30.00", v.Activity[0].Item)
}

func TestReadFlagsResetOnNewSnapshot(t *testing.T) {
	svc, store, _ := setup(t)

	require.NoError(t, svc.MarkRead("low-stock-1"))
	assert.Equal(t, 2, svc.View().Unread)
	assert.True(t, svc.Notifications()[0].Read)

	assert.ErrorIs(t, svc.MarkRead("nope"), apperr.ErrNotFound)

	require.NoError(t, store.Refresh(context.Background()))
	assert.Equal(t, 3, svc.View().Unread)
}

func TestClearNotifications(t *testing.T) {
	svc, _, _ := setup(t)
	svc.ClearNotifications()
	assert.Empty(t, svc.Notifications())
	assert.Zero(t, svc.View().Unread)

	require.NoError(t, svc.Refresh(context.Background()))
	assert.Len(t, svc.Notifications(), 3)
}

func TestViewIsCachedPerVersion(t *testing.T) {
	svc, _, _ := setup(t)
	first := svc.View()
	second := svc.View()
	assert.Equal(t, first.ComputedAt, second.ComputedAt)

	second.Notifications[0].Read = true
	assert.False(t, svc.Notifications()[0].Read, "callers get copies")
}

func TestFailedRefreshKeepsView(t *testing.T) {
	svc, _, f := setup(t)
	f.err = &apperr.RemoteError{Status: 503, Message: "Failed to fetch products"}

	err := svc.Refresh(context.Background())
	assert.ErrorIs(t, err, apperr.ErrRemote)
	assert.Equal(t, uint64(1), svc.View().Version)
	assert.Equal(t, 2, svc.Stats().TotalProducts)
}

func TestSearchAndReport(t *testing.T) {
	svc, _, _ := setup(t)

	res := svc.Search("wid")
	assert.True(t, res.Visible)
	require.Len(t, res.Products, 1)
	assert.Equal(t, "Widget", res.Products[0].Name)

	assert.False(t, svc.Search("").Visible)

	r := svc.Report()
	assert.Equal(t, uint64(1), r.Version)
	assert.Len(t, r.RecentOrders, 2)
}

func TestUpdates(t *testing.T) {
	svc, store, _ := setup(t)
	updates, cancel := svc.Updates()
	defer cancel()

	store.Replace(nil, nil)
	select {
	case v := <-updates:
		assert.Equal(t, uint64(2), v)
	case <-time.After(time.Second):
		t.Fatal("no update delivered")
	}
}
