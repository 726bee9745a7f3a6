// Package notification derives the dashboard's notification list from a snapshot.
package notification

import (
	"fmt"
	"time"

	"github.com/georgemunganga/printa-dashboard/internal/modules/catalog"
	"github.com/georgemunganga/printa-dashboard/internal/modules/order"
	"github.com/georgemunganga/printa-dashboard/internal/modules/timeago"
)

// Kind tags a notification for display.
type Kind string

const (
	KindWarning Kind = "warning"
	KindInfo    Kind = "info"
	KindSuccess Kind = "success"
)

const (
	// MaxItems caps the list. Stock alerts take priority over orders.
	MaxItems = 10
	// RecentOrders is how many of the newest orders are announced.
	RecentOrders = 3
)

// Notification is one entry of the bell menu.
type Notification struct {
	ID           string `json:"id"`
	Kind         Kind   `json:"type"`
	Title        string `json:"title"`
	Message      string `json:"message"`
	RelativeTime string `json:"time"`
	Read         bool   `json:"read"`
}

// Generate builds the list: one alert per product that needs restocking, in
// snapshot order, then the newest orders. Everything starts unread.
func Generate(products []catalog.Product, orders []order.Order, now time.Time) []Notification {
	list := make([]Notification, 0, MaxItems)

	for _, p := range products {
		if !p.NeedsRestockAlert() {
			continue
		}
		list = append(list, Notification{
			ID:           fmt.Sprintf("low-stock-%d", p.ID),
			Kind:         KindWarning,
			Title:        "Low Stock Alert",
			Message:      fmt.Sprintf("%s is running low (%d left)", p.Name, p.Quantity),
			RelativeTime: timeago.Format(p.Touched(), now),
		})
	}

	for _, o := range order.MostRecent(orders, RecentOrders) {
		n := Notification{
			ID:           fmt.Sprintf("order-%d", o.ID),
			Kind:         KindInfo,
			Title:        "New Order",
			Message:      fmt.Sprintf("Order #%d - $%s", o.ID, o.TotalPrice.StringFixed(2)),
			RelativeTime: timeago.Format(o.CreatedAt, now),
		}
		if o.Status == order.StatusCompleted {
			n.Kind = KindSuccess
			n.Title = "Order Completed"
		}
		list = append(list, n)
	}

	if len(list) > MaxItems {
		list = list[:MaxItems]
	}
	return list
}

// Unread counts notifications not yet marked read.
func Unread(list []Notification) int {
	n := 0
	for _, item := range list {
		if !item.Read {
			n++
		}
	}
	return n
}

// MarkRead flags the notification with the given id. It reports whether one matched.
func MarkRead(list []Notification, id string) bool {
	for i := range list {
		if list[i].ID == id {
			list[i].Read = true
			return true
		}
	}
	return false
}
