package recipe

import "strings"

// Recipe is a single entry of the recipe feed.
type Recipe struct {
	ID            string  `json:"uuid"`
	Cuisine       string  `json:"cuisine"`
	Name          string  `json:"name"`
	PhotoURLLarge string  `json:"photo_url_large"`
	PhotoURLSmall string  `json:"photo_url_small"`
	SourceURL     *string `json:"source_url,omitempty"`
	YouTubeURL    *string `json:"youtube_url,omitempty"`
}

// Source returns the source URL or an empty string.
func (r Recipe) Source() string {
	if r.SourceURL == nil {
		return ""
	}
	return *r.SourceURL
}

// YouTube returns the video URL or an empty string.
func (r Recipe) YouTube() string {
	if r.YouTubeURL == nil {
		return ""
	}
	return *r.YouTubeURL
}

// ThumbnailURL prefers the small photo and falls back to the large one.
func (r Recipe) ThumbnailURL() string {
	if small := strings.TrimSpace(r.PhotoURLSmall); small != "" {
		return small
	}
	return strings.TrimSpace(r.PhotoURLLarge)
}

// Feed is the ordered list of recipes as received from the source.
type Feed []Recipe

// Clone returns an independent copy of the feed. Optional fields are copied
// so callers can not mutate the original through them.
func (f Feed) Clone() Feed {
	if len(f) == 0 {
		return nil
	}
	dup := make(Feed, len(f))
	copy(dup, f)
	for i := range dup {
		dup[i].SourceURL = cloneString(dup[i].SourceURL)
		dup[i].YouTubeURL = cloneString(dup[i].YouTubeURL)
	}
	return dup
}

// Find returns the recipe with the given id.
func (f Feed) Find(id string) (Recipe, bool) {
	for _, r := range f {
		if r.ID == id {
			return r, true
		}
	}
	return Recipe{}, false
}

// Cuisines returns the distinct cuisines in first-seen order.
func (f Feed) Cuisines() []string {
	seen := make(map[string]struct{}, len(f))
	var out []string
	for _, r := range f {
		c := strings.TrimSpace(r.Cuisine)
		if c == "" {
			continue
		}
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	return out
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
