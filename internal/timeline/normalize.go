package timeline

import (
	"fmt"
	"strings"

	"roomclip/internal/events"
)

// Offsets is a validated clip range in seconds relative to the session
// baseline: Start >= 0 and End > Start.
type Offsets struct {
	Start float64
	End   float64
}

// Duration returns the clip length in seconds.
func (o Offsets) Duration() float64 {
	return o.End - o.Start
}

// Normalize converts a span's absolute timestamps into video-relative
// offsets against t0. The boolean is false when the span must be dropped:
// a start before the recording began or an end at or before the start.
// Clock skew, out-of-order events, and zero-length visits all land here and
// are skipped rather than failed.
func Normalize(span events.Span, t0 float64) (Offsets, bool) {
	start := span.Enter - t0
	end := span.Exit - t0
	if start < 0 || end <= start {
		return Offsets{}, false
	}
	return Offsets{Start: start, End: end}, true
}

// RoomOffsets carries the surviving offsets for one room in span order.
type RoomOffsets struct {
	RoomID  string
	Offsets []Offsets
}

// NormalizeAll walks rooms in the provided order and normalizes every span,
// returning surviving per-room offset lists plus the count of rejected
// spans. Rooms whose spans are all rejected are omitted.
func NormalizeAll(spans map[string][]events.Span, order []string, t0 float64) ([]RoomOffsets, int) {
	rejected := 0
	result := make([]RoomOffsets, 0, len(spans))
	for _, roomID := range order {
		roomSpans, ok := spans[roomID]
		if !ok {
			continue
		}
		offsets := make([]Offsets, 0, len(roomSpans))
		for _, span := range roomSpans {
			normalized, ok := Normalize(span, t0)
			if !ok {
				rejected++
				continue
			}
			offsets = append(offsets, normalized)
		}
		if len(offsets) > 0 {
			result = append(result, RoomOffsets{RoomID: roomID, Offsets: offsets})
		}
	}
	return result, rejected
}

// BaselinePolicy selects how the session baseline t0 is resolved.
type BaselinePolicy string

const (
	// PolicyBaseline uses the session's recorded baseline as-is.
	PolicyBaseline BaselinePolicy = "baseline"
	// PolicyEarliestEvent uses min(baseline, earliest event timestamp),
	// absorbing clock drift between the recorder and the event source.
	PolicyEarliestEvent BaselinePolicy = "earliest-event"
)

// ParseBaselinePolicy validates a configured policy name.
func ParseBaselinePolicy(value string) (BaselinePolicy, error) {
	switch BaselinePolicy(strings.ToLower(strings.TrimSpace(value))) {
	case PolicyBaseline, "":
		return PolicyBaseline, nil
	case PolicyEarliestEvent:
		return PolicyEarliestEvent, nil
	}
	return "", fmt.Errorf("unknown t0 policy %q (expected %q or %q)", value, PolicyBaseline, PolicyEarliestEvent)
}

// ResolveBaseline applies the policy to the recorded baseline and the event
// stream. With no events the recorded baseline is returned unchanged.
func ResolveBaseline(policy BaselinePolicy, baseline float64, stream []events.RoomEvent) float64 {
	if policy != PolicyEarliestEvent {
		return baseline
	}
	t0 := baseline
	for _, ev := range stream {
		if ev.Timestamp == 0 {
			continue
		}
		// A zero baseline means the recorder never reported one.
		if t0 == 0 || ev.Timestamp < t0 {
			t0 = ev.Timestamp
		}
	}
	return t0
}
