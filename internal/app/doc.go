// Package app wires configuration, the fetch service, thumbnail caches and
// the front ends together.
//
// Build is the composition root shared by every command:
//
//	config.Load ─> logger ─> remote.Client ─> fetch.Service
//	                                      └─> thumbs.Loader (memory, disk or redis tiers)
//
// Run starts the TUI and Serve starts the HTTP API. Both start a poller when
// refresh_interval is set; it refetches on that fixed cadence whether or not
// the last fetch failed.
//
// A redis or disk tier that cannot be opened is logged and previews continue
// from memory. Configuration errors are fatal.
package app
