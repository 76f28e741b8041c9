package feed

import (
	"slices"
	"strings"
	"time"

	"github.com/yigit/alumnet/internal/app/models"
)

// timestampLayouts are tried in order when normalizing a raw content date.
// Zone-less layouts are read as UTC.
var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Entry is a kind-tagged feed item with its normalized timestamp.
// Resolved is false when the raw date could not be parsed; such entries
// sort after every resolved entry.
type Entry struct {
	Item      Item
	Timestamp time.Time
	Resolved  bool
}

// Kind returns the kind of the wrapped item, or "" for a zero Entry
func (e Entry) Kind() Kind {
	if e.Item == nil {
		return ""
	}
	return e.Item.Kind()
}

// ParseTimestamp normalizes a raw content date
func ParseTimestamp(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

func newEntry(it Item) Entry {
	ts, ok := ParseTimestamp(it.rawTimestamp())
	return Entry{Item: it, Timestamp: ts, Resolved: ok}
}

// Build tags every record with its kind, concatenates jobs, events and posts
// in that order and sorts the result newest first. The sort is stable, so
// entries with equal timestamps keep their concatenation order, and
// unresolved timestamps go last in concatenation order.
func Build(jobs []models.Job, events []models.Event, posts []models.Post) []Entry {
	entries := make([]Entry, 0, len(jobs)+len(events)+len(posts))
	for _, j := range jobs {
		entries = append(entries, newEntry(JobItem{j}))
	}
	for _, e := range events {
		entries = append(entries, newEntry(EventItem{e}))
	}
	for _, p := range posts {
		entries = append(entries, newEntry(PostItem{p}))
	}

	slices.SortStableFunc(entries, compareEntries)
	return entries
}

// compareEntries orders resolved entries newest first and unresolved ones after them
func compareEntries(a, b Entry) int {
	switch {
	case a.Resolved && b.Resolved:
		return b.Timestamp.Compare(a.Timestamp)
	case a.Resolved:
		return -1
	case b.Resolved:
		return 1
	default:
		return 0
	}
}
