// Package config loads Galley's TOML configuration.
//
// # Configuration Discovery
//
// Load follows this resolution order:
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/galley/config.toml
//  3. If the file doesn't exist, use Default()
//  4. If the file exists but fields are blank, use the defaults for those fields
//
// # TOML Format
//
//	endpoint = "https://d3jbb8n5wk0qxi.cloudfront.net/recipes.json"
//	request_timeout = "10s"
//	refresh_interval = "0s"      # 0 disables periodic refresh
//	decode_errors = "surface"    # or "swallow"
//	decode_policy = "strict"     # or "skip"
//	log_file = "~/.local/state/galley/galley.log"
//	log_level = "normal"         # off, normal, verbose
//	listen = "127.0.0.1:7480"    # galley serve
//
//	[thumbnails]
//	backend = "memory"           # memory, disk, redis, off
//	max_entries = 256
//	dir = "~/.cache/galley/thumbs"
//	redis_url = "redis://localhost:6379/0"
//	ttl = "24h"
//
// Durations use time.ParseDuration syntax. Tilde expansion is performed for
// log_file and thumbnails.dir. The endpoint is not validated here; an
// invalid endpoint surfaces as the "Invalid URL" state on the first fetch.
//
// # Error Handling
//
// Missing files are not an error. Unknown enum values, malformed durations
// and TOML syntax errors are reported with a "parse config" prefix.
package config
