package store

import (
	"sort"
	"testing"
	"time"
)

func TestFormatTimeOrdersLexicographically(t *testing.T) {
	base := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	// RFC3339Nano renders 100ms as ".1Z", which sorts after ".1000001Z" as
	// a string; the fixed-width layout must keep string order chronological.
	times := []time.Time{
		base,
		base.Add(100 * time.Millisecond),
		base.Add(100*time.Millisecond + time.Nanosecond),
		base.Add(time.Second),
	}

	formatted := make([]string, len(times))
	for i, v := range times {
		formatted[i] = formatTime(v)
	}
	if !sort.StringsAreSorted(formatted) {
		t.Fatalf("formatted timestamps out of order: %q", formatted)
	}
	for _, v := range formatted {
		if len(v) != len(formatted[0]) {
			t.Fatalf("expected fixed-width timestamps, got %q", formatted)
		}
	}
}

func TestFormatTimeRoundTrips(t *testing.T) {
	want := time.Date(2026, 9, 1, 12, 0, 0, 100000001, time.UTC)
	got, err := parseTimeString(formatTime(want))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if !got.Equal(want) {
		t.Fatalf("round trip = %v, want %v", got, want)
	}
}
