// Package logtail reads the tail of Galley's own log file for the in-app log
// view.
//
// Read keeps a ring buffer of the last maxLines lines, so memory stays
// O(maxLines) regardless of file size. A missing file returns nil, nil.
//
// Parse and Filter understand the "[LVL] date time message" lines written by
// the logger package and leave anything else (panics, stray output) as plain
// messages at info rank.
package logtail
