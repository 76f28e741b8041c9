package feed

import (
	"fmt"
	"strings"

	"github.com/samber/lo"
	"github.com/yigit/alumnet/internal/pkg/apperrors"
)

// Category is a dashboard filter tab
type Category string

const (
	CategoryAll    Category = "All"
	CategoryJobs   Category = "Jobs"
	CategoryEvents Category = "Events"
	CategoryPosts  Category = "Posts"
)

// categoryKinds maps each narrowing category to the kind it keeps.
// CategoryAll is deliberately absent.
var categoryKinds = map[Category]Kind{
	CategoryJobs:   KindJob,
	CategoryEvents: KindEvent,
	CategoryPosts:  KindPost,
}

// Categories lists the filter tabs in display order
func Categories() []Category {
	return []Category{CategoryAll, CategoryJobs, CategoryEvents, CategoryPosts}
}

// ParseCategory resolves a category token case-insensitively. An empty token
// means All.
func ParseCategory(raw string) (Category, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return CategoryAll, nil
	}
	for _, c := range Categories() {
		if strings.EqualFold(raw, string(c)) {
			return c, nil
		}
	}
	return "", apperrors.NewValidationError(fmt.Sprintf("unknown feed category %q", raw))
}

// Filter keeps the entries of the category's kind without reordering them.
// CategoryAll returns entries itself; a category that did not come from
// ParseCategory matches nothing.
func Filter(entries []Entry, category Category) []Entry {
	if category == CategoryAll {
		return entries
	}
	kind, ok := categoryKinds[category]
	if !ok {
		return []Entry{}
	}
	return lo.Filter(entries, func(e Entry, _ int) bool {
		return e.Kind() == kind
	})
}

// FilterByAuthor keeps the entries written by authorID. An empty authorID
// returns entries itself.
func FilterByAuthor(entries []Entry, authorID string) []Entry {
	if authorID == "" {
		return entries
	}
	return lo.Filter(entries, func(e Entry, _ int) bool {
		return e.Item != nil && e.Item.AuthorID() == authorID
	})
}
