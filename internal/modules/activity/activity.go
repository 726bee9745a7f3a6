// Package activity builds the "recent activity" feed from a snapshot.
package activity

import (
	"fmt"
	"sort"
	"time"

	"github.com/georgemunganga/printa-dashboard/internal/modules/catalog"
	"github.com/georgemunganga/printa-dashboard/internal/modules/order"
	"github.com/georgemunganga/printa-dashboard/internal/modules/timeago"
)

// Kind tags an entry for display.
type Kind string

const (
	KindSuccess Kind = "success"
	KindWarning Kind = "warning"
	KindInfo    Kind = "info"
)

const (
	MaxEntries      = 6
	recentOrders    = 3
	stockAlerts     = 2
	updatedProducts = 2
)

// Entry is one line of the feed.
type Entry struct {
	Action       string `json:"action"`
	Item         string `json:"item"`
	RelativeTime string `json:"time"`
	Kind         Kind   `json:"type"`
}

// Build collects the newest orders, the first products needing a restock and the
// most recently updated products, then orders them freshest first by their
// relative-time phrase. Ties keep collection order.
func Build(products []catalog.Product, orders []order.Order, now time.Time) []Entry {
	var entries []Entry

	for _, o := range order.MostRecent(orders, recentOrders) {
		kind := KindInfo
		switch o.Status {
		case order.StatusCompleted:
			kind = KindSuccess
		case order.StatusPending:
			kind = KindWarning
		}
		entries = append(entries, Entry{
			Action:       "New order placed",
			Item:         fmt.Sprintf("Order #%d - $%s", o.ID, o.TotalPrice.StringFixed(2)),
			RelativeTime: timeago.Format(o.CreatedAt, now),
			Kind:         kind,
		})
	}

	alerts := 0
	for _, p := range products {
		if alerts == stockAlerts {
			break
		}
		if !p.NeedsRestockAlert() {
			continue
		}
		alerts++
		entries = append(entries, Entry{
			Action:       "Low stock alert",
			Item:         fmt.Sprintf("%s (%d left)", p.Name, p.Quantity),
			RelativeTime: timeago.Format(p.Touched(), now),
			Kind:         KindWarning,
		})
	}

	for _, p := range catalog.RecentlyTouched(products, updatedProducts) {
		entries = append(entries, Entry{
			Action:       "Product updated",
			Item:         fmt.Sprintf("%s - $%s", p.Name, p.Price.StringFixed(2)),
			RelativeTime: timeago.Format(p.Touched(), now),
			Kind:         KindInfo,
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return timeago.ParseApprox(entries[i].RelativeTime) < timeago.ParseApprox(entries[j].RelativeTime)
	})
	if len(entries) > MaxEntries {
		entries = entries[:MaxEntries]
	}
	return entries
}
