// Package fetch drives a single recipe load at a time and publishes every
// transition to a state.Store.
package fetch
