// Package ui is Galley's terminal recipe browser, built on Bubble Tea.
//
// # Layout
//
// The screen is a header with the fetch phase badge, a command bar, the
// active view and a status line. The recipe view shows the filtered list on
// the left and the selected recipe on the right; below LayoutCompactWidth
// columns the detail pane stacks under the list. The log view tails the
// logger's file.
//
// # Data Flow
//
// The model subscribes to the fetch service in New and receives every
// published state.State as a stateMsg. Keys never mutate fetch state
// directly: r asks the service for a fetch and the result arrives through
// the subscription like any other update. While a reload runs or after it
// fails, the last loaded list stays on screen.
//
// Photos are loaded once per URL per session through a ThumbnailLoader and
// drawn as half-block art sized to the detail pane.
//
// # Key Bindings
//
//   - r: Reload recipes
//   - /: Search by name, esc clears
//   - c: Cycle cuisine filter
//   - s: Cycle sort order (feed, name, cuisine)
//   - j/k, g/G, pgup/pgdown: Move the selection
//   - L: Toggle the log view, f cycles its minimum level
//   - T: Cycle theme
//   - ?: Help
//   - q or ctrl+c: Quit
//
// Theme and sort order are saved to the prefs file when changed.
package ui
