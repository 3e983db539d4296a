// Package remote provides the HTTP client Galley uses to reach the recipe feed
// and its images.
//
// # Overview
//
// The feed is a single JSON document served from a fixed, configurable URL.
// Thumbnails are plain image URLs referenced from the feed. Both are plain GET
// requests, so the client is deliberately small: it validates the URL, sets
// headers, enforces a size limit and returns the body bytes. Decoding is left
// to package recipe so the fetch service can apply its own error policy.
//
// # Client Usage
//
//	client := remote.NewClient(10 * time.Second)
//
//	body, err := client.Get(ctx, remote.DefaultEndpoint)
//	if err != nil {
//		log.Printf("feed fetch failed: %v", err)
//	}
//
//	img, err := client.FetchImage(ctx, recipe.PhotoURLSmall)
//
// # Request Handling
//
// All requests:
//   - Use context for cancellation and timeout control
//   - Set Accept (application/json for the feed, image/* for images)
//   - Include User-Agent: galley/0.1 unless overridden with WithUserAgent
//   - Have a 10-second timeout unless NewClient is given another value
//
// # Error Handling
//
//   - Invalid URLs: ErrInvalidURL (relative, missing host, non-http scheme)
//   - Network errors: wrapped as "execute request: ..."
//   - HTTP errors: status >= 400 becomes "<url> returned status N"
//   - Empty responses: ErrEmptyBody
//   - Oversized responses: rejected past 32 MiB (feed) or 8 MiB (images)
package remote
