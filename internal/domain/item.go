package domain

import (
	"fmt"
	"strings"
	"time"
)

type ItemID string
type UserID string

// TrackedItem is one owner's reading progress on a serialized work.
type TrackedItem struct {
	ID       ItemID
	Title    string
	Owner    UserID
	Progress int
	// Link is optional; empty means no link.
	Link    string
	SavedAt time.Time
}

func (i TrackedItem) HasLink() bool {
	return strings.TrimSpace(i.Link) != ""
}

func (i TrackedItem) Validate() error {
	if strings.TrimSpace(i.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrMalformedInput)
	}
	if strings.TrimSpace(string(i.Owner)) == "" {
		return fmt.Errorf("%w: owner is required", ErrMalformedInput)
	}
	if i.Progress < 0 {
		return fmt.Errorf("%w: progress must be non-negative", ErrMalformedInput)
	}

	return nil
}

// TitleMatches reports whether the title equals want, ignoring case.
func (i TrackedItem) TitleMatches(want string) bool {
	return strings.EqualFold(strings.TrimSpace(i.Title), strings.TrimSpace(want))
}

// TitleContains reports whether the title contains fragment, ignoring case.
func (i TrackedItem) TitleContains(fragment string) bool {
	return strings.Contains(strings.ToLower(i.Title), strings.ToLower(strings.TrimSpace(fragment)))
}

// MostRecent picks the most recently saved item. Ties go to the later
// element so that insertion order breaks them deterministically.
func MostRecent(items []TrackedItem) (TrackedItem, bool) {
	if len(items) == 0 {
		return TrackedItem{}, false
	}

	best := items[0]
	for _, item := range items[1:] {
		if !item.SavedAt.Before(best.SavedAt) {
			best = item
		}
	}

	return best, true
}

type PermissionGrant struct {
	User      UserID
	GrantedBy UserID
	GrantedAt time.Time
}
