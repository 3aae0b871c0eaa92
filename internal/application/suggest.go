package application

import (
	"fmt"
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
	"github.com/bnema/shelf/internal/domain"
)

const maxSuggestions = 3

// NotFoundError is domain.ErrItemNotFound with close title matches attached.
type NotFoundError struct {
	Owner       domain.UserID
	Query       string
	Suggestions []string
}

func (e *NotFoundError) Error() string {
	if e.Query == "" {
		return fmt.Sprintf("%s: no items for %s", domain.ErrItemNotFound, e.Owner)
	}
	return fmt.Sprintf("%s: no title matching %q for %s", domain.ErrItemNotFound, e.Query, e.Owner)
}

func (e *NotFoundError) Unwrap() error {
	return domain.ErrItemNotFound
}

func suggestTitles(query string, items []domain.TrackedItem, limit int) []string {
	needle := strings.ToLower(strings.TrimSpace(query))
	if needle == "" || limit <= 0 {
		return nil
	}

	type candidate struct {
		title    string
		distance int
	}

	seen := map[string]struct{}{}
	candidates := make([]candidate, 0, len(items))
	for _, item := range items {
		key := strings.ToLower(item.Title)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}

		distance := levenshtein.ComputeDistance(needle, key)
		if distance > suggestionThreshold(needle) {
			continue
		}
		candidates = append(candidates, candidate{title: item.Title, distance: distance})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].distance < candidates[j].distance
	})

	if len(candidates) > limit {
		candidates = candidates[:limit]
	}

	titles := make([]string, 0, len(candidates))
	for _, c := range candidates {
		titles = append(titles, c.title)
	}

	return titles
}

func suggestionThreshold(needle string) int {
	threshold := len([]rune(needle)) / 3
	if threshold < 2 {
		threshold = 2
	}
	return threshold
}
