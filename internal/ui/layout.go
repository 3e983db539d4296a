package ui

import "time"

// Terminal width thresholds for responsive layouts.
const (
	// LayoutCompactWidth is the threshold below which the detail pane is
	// stacked under the list instead of beside it.
	LayoutCompactWidth = 90

	// LayoutListMinWidth is the narrowest the recipe list gets.
	LayoutListMinWidth = 32
)

// Thumbnail preview bounds in terminal cells.
const (
	ThumbMaxCols = 48
	ThumbMaxRows = 18
)

// Log display limits.
const (
	// LogBufferLimit is the maximum number of log lines read for the log view.
	LogBufferLimit = 2000
)

// Timing constants.
const (
	// ThumbFetchTimeout bounds a single preview download.
	ThumbFetchTimeout = 15 * time.Second

	// DefaultUIInterval is how often the header clock and log view refresh.
	DefaultUIInterval = time.Second
)
