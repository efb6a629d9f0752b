// Package events models the room enter/exit stream recorded during a
// session and pairs it into per-room visit spans.
//
// Pairing is deliberately forgiving: stray exits and trailing enters are
// counted and dropped, never raised as errors, because the recording
// pipeline upstream produces noisy interleavings. Validation of span
// geometry belongs to the timeline package.
package events
