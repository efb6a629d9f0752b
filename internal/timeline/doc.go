// Package timeline converts absolute room-visit spans into video-relative
// clip offsets and owns the baseline (t0) resolution policy.
package timeline
