package inventory

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/georgemunganga/printa-dashboard/internal/modules/catalog"
	"github.com/georgemunganga/printa-dashboard/internal/modules/order"
)

// Store holds the current snapshot of products and orders. Every derived view is
// computed from it. Concurrent refreshes resolve last-write-wins by completion.
type Store struct {
	fetcher Fetcher
	log     logrus.FieldLogger
	now     func() time.Time

	mu   sync.RWMutex
	snap Snapshot

	subMu sync.Mutex
	subs  map[chan uint64]struct{}
}

// NewStore creates an empty store. Call Refresh to populate it.
func NewStore(fetcher Fetcher, log logrus.FieldLogger) *Store {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Store{
		fetcher: fetcher,
		log:     log.WithField("component", "inventory"),
		now:     time.Now,
		subs:    make(map[chan uint64]struct{}),
	}
}

// Refresh fetches both collections concurrently and replaces the snapshot. On
// failure the previous snapshot stays in place and the error is returned as is.
func (s *Store) Refresh(ctx context.Context) error {
	var (
		products []catalog.Product
		orders   []order.Order
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		products, err = s.fetcher.ListProducts(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		orders, err = s.fetcher.ListOrders(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		s.log.WithError(err).Warn("refresh failed, keeping previous snapshot")
		return err
	}

	v := s.Replace(products, orders)
	s.log.WithFields(logrus.Fields{
		"version":  v,
		"products": len(products),
		"orders":   len(orders),
	}).Debug("snapshot replaced")
	return nil
}

// Replace installs a new snapshot and returns its version.
func (s *Store) Replace(products []catalog.Product, orders []order.Order) uint64 {
	s.mu.Lock()
	s.snap = Snapshot{
		Version:   s.snap.Version + 1,
		Products:  products,
		Orders:    orders,
		FetchedAt: s.now(),
	}
	v := s.snap.Version
	s.mu.Unlock()

	s.publish(v)
	return v
}

// Snapshot returns the current snapshot. The slices are copies.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap := s.snap
	snap.Products = append([]catalog.Product(nil), s.snap.Products...)
	snap.Orders = append([]order.Order(nil), s.snap.Orders...)
	return snap
}

// Products returns a copy of the current product list.
func (s *Store) Products() []catalog.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]catalog.Product(nil), s.snap.Products...)
}

// Orders returns a copy of the current order list.
func (s *Store) Orders() []order.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]order.Order(nil), s.snap.Orders...)
}

// Version is zero until the first successful load.
func (s *Store) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap.Version
}

// Product looks a product up by id in the current snapshot.
func (s *Store) Product(id int64) (catalog.Product, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.snap.Products {
		if p.ID == id {
			return p, true
		}
	}
	return catalog.Product{}, false
}

// Order looks an order up by id in the current snapshot.
func (s *Store) Order(id int64) (order.Order, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, o := range s.snap.Orders {
		if o.ID == id {
			return o, true
		}
	}
	return order.Order{}, false
}

// Subscribe delivers the version of every new snapshot. A slow reader only ever
// sees the latest version. Call cancel to stop receiving.
func (s *Store) Subscribe() (<-chan uint64, func()) {
	ch := make(chan uint64, 1)
	s.subMu.Lock()
	s.subs[ch] = struct{}{}
	s.subMu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			s.subMu.Lock()
			delete(s.subs, ch)
			s.subMu.Unlock()
			close(ch)
		})
	}
	return ch, cancel
}

func (s *Store) publish(v uint64) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	for ch := range s.subs {
		select {
		case ch <- v:
		default:
			// drop the stale version
			select {
			case <-ch:
			default:
			}
			ch <- v
		}
	}
}
