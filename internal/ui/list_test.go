package ui

import (
	"reflect"
	"testing"

	"github.com/five82/galley/internal/recipe"
)

func sampleFeed() recipe.Feed {
	return recipe.Feed{
		{ID: "1", Name: "Bakewell Tart", Cuisine: "British"},
		{ID: "2", Name: "Apam Balik", Cuisine: "Malaysian"},
		{ID: "3", Name: "apple Frangipan Tart", Cuisine: "British"},
		{ID: "4", Name: "Budino Di Ricotta", Cuisine: "Italian"},
	}
}

func ids(feed recipe.Feed) []string {
	var out []string
	for _, r := range feed {
		out = append(out, r.ID)
	}
	return out
}

func TestListingApply(t *testing.T) {
	tests := []struct {
		name string
		l    listing
		want []string
	}{
		{"feed order", listing{}, []string{"1", "2", "3", "4"}},
		{"by name case-insensitive", listing{sort: SortName}, []string{"2", "3", "1", "4"}},
		{"by cuisine then name", listing{sort: SortCuisine}, []string{"3", "1", "4", "2"}},
		{"cuisine filter", listing{cuisine: "british"}, []string{"1", "3"}},
		{"query", listing{query: " TART "}, []string{"1", "3"}},
		{"query and cuisine", listing{query: "b", cuisine: "Malaysian"}, []string{"2"}},
		{"no match", listing{query: "pizza"}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ids(tt.l.apply(sampleFeed()))
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("apply() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestListingApplyLeavesFeedUntouched(t *testing.T) {
	feed := sampleFeed()
	_ = listing{sort: SortName}.apply(feed)
	if got := ids(feed); !reflect.DeepEqual(got, []string{"1", "2", "3", "4"}) {
		t.Fatalf("feed reordered to %v", got)
	}
}

func TestNextCuisine(t *testing.T) {
	cuisines := []string{"British", "Italian"}
	steps := []string{"British", "Italian", "", "British"}
	current := ""
	for i, want := range steps {
		current = nextCuisine(current, cuisines)
		if current != want {
			t.Fatalf("step %d: nextCuisine = %q, want %q", i, current, want)
		}
	}
	if got := nextCuisine("French", cuisines); got != "" {
		t.Fatalf("nextCuisine(unknown) = %q, want all", got)
	}
	if got := nextCuisine("British", nil); got != "" {
		t.Fatalf("nextCuisine(no cuisines) = %q, want all", got)
	}
}

func TestSortModeCycle(t *testing.T) {
	if got := SortFeed.Next(); got != SortName {
		t.Fatalf("SortFeed.Next() = %v, want name", got)
	}
	if got := SortCuisine.Next(); got != SortFeed {
		t.Fatalf("SortCuisine.Next() = %v, want feed", got)
	}
	for _, mode := range []SortMode{SortFeed, SortName, SortCuisine} {
		if got := ParseSortMode(mode.String()); got != mode {
			t.Fatalf("ParseSortMode(%q) = %v, want %v", mode.String(), got, mode)
		}
	}
	if got := ParseSortMode("bogus"); got != SortFeed {
		t.Fatalf("ParseSortMode(bogus) = %v, want feed", got)
	}
}

func TestScrollOffset(t *testing.T) {
	cases := []struct {
		offset, selected, height, want int
	}{
		{0, 0, 5, 0},
		{0, 4, 5, 0},
		{0, 5, 5, 1},
		{3, 1, 5, 1},
		{2, 0, 0, 0},
	}
	for _, tc := range cases {
		if got := scrollOffset(tc.offset, tc.selected, tc.height); got != tc.want {
			t.Fatalf("scrollOffset(%d, %d, %d) = %d, want %d", tc.offset, tc.selected, tc.height, got, tc.want)
		}
	}
}

func TestClampSelection(t *testing.T) {
	if got := clampSelection(5, 3); got != 2 {
		t.Fatalf("clampSelection(5, 3) = %d, want 2", got)
	}
	if got := clampSelection(-1, 3); got != 0 {
		t.Fatalf("clampSelection(-1, 3) = %d, want 0", got)
	}
	if got := clampSelection(2, 0); got != 0 {
		t.Fatalf("clampSelection(2, 0) = %d, want 0", got)
	}
}
