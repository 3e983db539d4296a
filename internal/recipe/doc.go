// Package recipe defines the recipe feed schema and its JSON codec.
//
// The feed is an envelope object holding a "recipes" array:
//
//	{"recipes": [{"uuid": "...", "cuisine": "...", "name": "...",
//	  "photo_url_large": "...", "photo_url_small": "...",
//	  "source_url": "...", "youtube_url": "..."}]}
//
// Decode is strict by default: one element missing a required field fails the
// whole feed. WithPolicy(SkipInvalid) drops such elements instead. Optional
// fields that are absent, null, or of the wrong type decode as nil.
package recipe
