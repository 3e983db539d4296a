package ui

import (
	"sort"
	"strings"

	"github.com/five82/galley/internal/recipe"
)

// SortMode orders the recipe list.
type SortMode int

const (
	SortFeed SortMode = iota // order received from the source
	SortName
	SortCuisine
)

func (s SortMode) String() string {
	switch s {
	case SortName:
		return "name"
	case SortCuisine:
		return "cuisine"
	default:
		return "feed"
	}
}

// ParseSortMode maps a prefs value to a SortMode, defaulting to feed order.
func ParseSortMode(value string) SortMode {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "name":
		return SortName
	case "cuisine":
		return SortCuisine
	default:
		return SortFeed
	}
}

// Next cycles feed → name → cuisine → feed.
func (s SortMode) Next() SortMode {
	return (s + 1) % 3
}

// listing holds the user's view over the feed.
type listing struct {
	query   string
	cuisine string // empty means all
	sort    SortMode
}

// apply filters and orders feed without modifying it.
func (l listing) apply(feed recipe.Feed) recipe.Feed {
	query := strings.ToLower(strings.TrimSpace(l.query))
	out := make(recipe.Feed, 0, len(feed))
	for _, r := range feed {
		if l.cuisine != "" && !strings.EqualFold(strings.TrimSpace(r.Cuisine), l.cuisine) {
			continue
		}
		if query != "" && !strings.Contains(strings.ToLower(r.Name), query) {
			continue
		}
		out = append(out, r)
	}

	switch l.sort {
	case SortName:
		sort.SliceStable(out, func(i, j int) bool {
			return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
		})
	case SortCuisine:
		sort.SliceStable(out, func(i, j int) bool {
			ci, cj := strings.ToLower(out[i].Cuisine), strings.ToLower(out[j].Cuisine)
			if ci != cj {
				return ci < cj
			}
			return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
		})
	}
	return out
}

// nextCuisine steps through cuisines with "" (all) before the first and after
// the last. An unknown current value restarts at all.
func nextCuisine(current string, cuisines []string) string {
	if len(cuisines) == 0 {
		return ""
	}
	if current == "" {
		return cuisines[0]
	}
	for i, c := range cuisines {
		if strings.EqualFold(c, current) {
			if i == len(cuisines)-1 {
				return ""
			}
			return cuisines[i+1]
		}
	}
	return ""
}

// sortedCuisines returns the feed's cuisines alphabetically.
func sortedCuisines(feed recipe.Feed) []string {
	cuisines := feed.Cuisines()
	sort.Strings(cuisines)
	return cuisines
}

// clampSelection keeps row inside [0, n).
func clampSelection(row, n int) int {
	if n <= 0 || row < 0 {
		return 0
	}
	if row >= n {
		return n - 1
	}
	return row
}

// scrollOffset returns the first visible row so selected stays within a
// window of height rows.
func scrollOffset(offset, selected, height int) int {
	if height <= 0 {
		return 0
	}
	if selected < offset {
		return selected
	}
	if selected >= offset+height {
		return selected - height + 1
	}
	return offset
}
