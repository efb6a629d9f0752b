// Package worker runs the slicing pipeline: it claims uploaded sessions,
// pairs room events into spans, cuts clips with ffmpeg stream copy, uploads
// them, and commits the manifest atomically.
package worker
