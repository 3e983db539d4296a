// Package thumbs loads recipe photos for the detail preview. Images come from
// a Cache (memory LRU, disk, Redis, or a Tiered mix) and fall back to the
// network through a Loader that collapses concurrent requests per URL.
// Render turns the bytes into half-block terminal art.
package thumbs
