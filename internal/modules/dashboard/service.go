// Package dashboard serves the derived views of the current snapshot. Views are
// recomputed only when the snapshot version changes.
package dashboard

import (
	"context"
	"sync"
	"time"

	"github.com/georgemunganga/printa-dashboard/internal/apperr"
	"github.com/georgemunganga/printa-dashboard/internal/modules/activity"
	"github.com/georgemunganga/printa-dashboard/internal/modules/inventory"
	"github.com/georgemunganga/printa-dashboard/internal/modules/notification"
	"github.com/georgemunganga/printa-dashboard/internal/modules/report"
	"github.com/georgemunganga/printa-dashboard/internal/modules/search"
	"github.com/georgemunganga/printa-dashboard/internal/modules/stats"
)

// Source is the entity store the dashboard reads. *inventory.Store satisfies it.
type Source interface {
	Snapshot() inventory.Snapshot
	Version() uint64
	Refresh(ctx context.Context) error
	Subscribe() (<-chan uint64, func())
}

// View is everything the dashboard page renders at once.
type View struct {
	Version       uint64                      `json:"version"`
	ComputedAt    time.Time                   `json:"computed_at"`
	Stats         stats.Stats                 `json:"stats"`
	Notifications []notification.Notification `json:"notifications"`
	Unread        int                         `json:"unread"`
	Activity      []activity.Entry            `json:"activity"`
}

// Service defines the dashboard read model.
type Service interface {
	View() View
	Stats() stats.Stats
	Notifications() []notification.Notification
	Activity() []activity.Entry
	Search(query string) search.Result
	Report() report.Report

	// MarkRead flags one notification as read until the next snapshot.
	MarkRead(id string) error
	// ClearNotifications empties the list until the next snapshot.
	ClearNotifications()

	Refresh(ctx context.Context) error
	// Updates delivers the version of every new snapshot until cancel is called.
	Updates() (<-chan uint64, func())
}

type service struct {
	source Source
	now    func() time.Time

	mu   sync.Mutex
	view *View
}

// NewService creates a dashboard over source.
func NewService(source Source) Service {
	return &service{source: source, now: time.Now}
}

func (s *service) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current().clone()
}

func (s *service) Stats() stats.Stats { return s.View().Stats }

func (s *service) Notifications() []notification.Notification { return s.View().Notifications }

func (s *service) Activity() []activity.Entry { return s.View().Activity }

func (s *service) Search(query string) search.Result {
	snap := s.source.Snapshot()
	return search.Run(snap.Products, snap.Orders, query)
}

func (s *service) Report() report.Report {
	snap := s.source.Snapshot()
	return report.Build(snap.Version, snap.Products, snap.Orders, s.now())
}

func (s *service) MarkRead(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	v := s.current()
	if !notification.MarkRead(v.Notifications, id) {
		return apperr.NotFound("notification", id)
	}
	v.Unread = notification.Unread(v.Notifications)
	return nil
}

func (s *service) ClearNotifications() {
	s.mu.Lock()
	defer s.mu.Unlock()
	v := s.current()
	v.Notifications = []notification.Notification{}
	v.Unread = 0
}

func (s *service) Refresh(ctx context.Context) error {
	return s.source.Refresh(ctx)
}

func (s *service) Updates() (<-chan uint64, func()) {
	return s.source.Subscribe()
}

// current returns the cached view, rebuilding it when the snapshot has moved on.
// Read flags live in the cached view and so reset on every rebuild. Callers hold mu.
func (s *service) current() *View {
	if s.view != nil && s.view.Version == s.source.Version() {
		return s.view
	}
	snap := s.source.Snapshot()
	now := s.now()
	notifs := notification.Generate(snap.Products, snap.Orders, now)
	s.view = &View{
		Version:       snap.Version,
		ComputedAt:    now,
		Stats:         stats.Compute(snap.Products, snap.Orders),
		Notifications: notifs,
		Unread:        notification.Unread(notifs),
		Activity:      activity.Build(snap.Products, snap.Orders, now),
	}
	return s.view
}

func (v *View) clone() View {
	out := *v
	out.Notifications = append([]notification.Notification{}, v.Notifications...)
	out.Activity = append([]activity.Entry{}, v.Activity...)
	return out
}
