// Package store persists sessions, lessons, and room events in SQLite and
// provides the claim/release/commit transitions the slicing worker relies on.
package store
