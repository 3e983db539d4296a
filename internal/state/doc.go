// Package state holds the observable fetch state for Galley.
//
// # Overview
//
// The Store is the single place where the recipe fetch state lives. The fetch
// service is its only writer; the TUI, the list command and the HTTP mirror
// read it. Readers either take a Snapshot or Subscribe to every transition.
//
//	Writer (fetch.Service):        Readers:
//	┌────────────────────┐        ┌──────────────────────┐
//	│ Apply(Loading)     │        │ store.Snapshot()     │
//	│ GET + decode       │───────→│ sub := Subscribe()   │
//	│ Apply(Loaded|...)  │ (mutex)│ for st := range C()  │
//	└────────────────────┘        └──────────────────────┘
//
// # Phases
//
//	Idle ──Fetch──→ Loading ──→ Loaded
//	                   │
//	                   └──────→ Failed
//
// Loaded and Failed are terminal for one fetch; the next fetch re-enters
// Loading. The last good Feed is carried through Loading and Failed so a
// renderer can keep the list on screen while it shows the error.
//
// # Concurrency Model
//
//   - Apply/Publish take the write lock, so no reader sees a torn state.
//   - Snapshot takes the read lock and returns a deep copy of the feed.
//   - Each Subscription owns an unbounded queue filled under the write lock,
//     so delivery order equals publication order and a slow reader never
//     blocks the writer. A goroutine per subscription drains the queue into
//     C(); Close stops it.
//
// # Bookkeeping
//
// The store, not the caller, maintains Version (one per publication),
// UpdatedAt, and ConsecutiveFailures (reset by Loaded). Err and Kind are
// cleared for any phase other than Failed.
package state
