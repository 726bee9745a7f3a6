// Package timeago converts timestamps to phrases such as "5 minutes ago" and back
// into an approximate freshness key. The round trip is lossy on purpose: two
// timestamps in the same bucket, or anything older than a week, compare equal.
package timeago

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

const (
	JustNow  = "Just now"
	Recently = "Recently"

	// Oldest is the key for anything ParseApprox does not recognise, dates included.
	Oldest = 999999

	minutesPerHour = 60
	minutesPerDay  = 1440

	dateLayout = "1/2/2006"
)

var phrase = regexp.MustCompile(`(\d+)\s+(minute|hour|day)`)

// Format renders ts relative to now. A zero ts has no known age and reads "Recently".
func Format(ts, now time.Time) string {
	if ts.IsZero() {
		return Recently
	}
	elapsed := now.Sub(ts)
	mins := int(elapsed / time.Minute)
	hours := int(elapsed / time.Hour)
	days := int(elapsed / (24 * time.Hour))

	switch {
	case elapsed < time.Minute:
		return JustNow
	case mins < 60:
		return ago(mins, "minute")
	case hours < 24:
		return ago(hours, "hour")
	case days < 7:
		return ago(days, "day")
	default:
		return ts.In(now.Location()).Format(dateLayout)
	}
}

// ParseApprox maps a Format phrase to an ordering key in minutes, smaller is fresher.
func ParseApprox(text string) int {
	if text == JustNow {
		return 0
	}
	m := phrase.FindStringSubmatch(text)
	if m == nil {
		return Oldest
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return Oldest
	}
	switch m[2] {
	case "minute":
		return n
	case "hour":
		return n * minutesPerHour
	case "day":
		return n * minutesPerDay
	}
	return Oldest
}

func ago(n int, unit string) string {
	if n > 1 {
		unit += "s"
	}
	return fmt.Sprintf("%d %s ago", n, unit)
}
