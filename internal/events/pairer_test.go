package events_test

import (
	"reflect"
	"testing"

	"roomclip/internal/events"
)

func ev(room string, typ events.Type, ts float64) events.RoomEvent {
	return events.RoomEvent{SessionID: "sess", RoomID: room, Type: typ, Timestamp: ts}
}

func TestPairSequentialVisits(t *testing.T) {
	stream := []events.RoomEvent{
		ev("R1", events.TypeEnter, 10),
		ev("R1", events.TypeExit, 40),
		ev("R2", events.TypeEnter, 50),
		ev("R2", events.TypeExit, 70),
	}

	spans, stats := events.Pair(stream)
	if stats != (events.PairStats{}) {
		t.Fatalf("expected no skips, got %+v", stats)
	}
	want := map[string][]events.Span{
		"R1": {{RoomID: "R1", Enter: 10, Exit: 40}},
		"R2": {{RoomID: "R2", Enter: 50, Exit: 70}},
	}
	if !reflect.DeepEqual(spans, want) {
		t.Fatalf("spans = %+v, want %+v", spans, want)
	}
}

func TestPairUsesOldestPendingEnter(t *testing.T) {
	// Back-to-back enters pair FIFO: first exit closes the first enter.
	stream := []events.RoomEvent{
		ev("R1", events.TypeEnter, 10),
		ev("R1", events.TypeEnter, 20),
		ev("R1", events.TypeExit, 30),
		ev("R1", events.TypeExit, 45),
	}

	spans, stats := events.Pair(stream)
	want := []events.Span{
		{RoomID: "R1", Enter: 10, Exit: 30},
		{RoomID: "R1", Enter: 20, Exit: 45},
	}
	if !reflect.DeepEqual(spans["R1"], want) {
		t.Fatalf("spans = %+v, want %+v", spans["R1"], want)
	}
	if stats != (events.PairStats{}) {
		t.Fatalf("expected no skips, got %+v", stats)
	}
}

func TestPairDiscardsStrayExit(t *testing.T) {
	stream := []events.RoomEvent{
		ev("R1", events.TypeExit, 5),
		ev("R1", events.TypeEnter, 10),
		ev("R1", events.TypeExit, 40),
	}

	spans, stats := events.Pair(stream)
	if stats.StrayExits != 1 {
		t.Fatalf("expected 1 stray exit, got %+v", stats)
	}
	want := []events.Span{{RoomID: "R1", Enter: 10, Exit: 40}}
	if !reflect.DeepEqual(spans["R1"], want) {
		t.Fatalf("spans = %+v, want %+v", spans["R1"], want)
	}
}

func TestPairDropsTrailingEnter(t *testing.T) {
	stream := []events.RoomEvent{
		ev("R1", events.TypeEnter, 10),
		ev("R1", events.TypeExit, 20),
		ev("R1", events.TypeEnter, 30),
	}

	spans, stats := events.Pair(stream)
	if stats.UnpairedEnters != 1 {
		t.Fatalf("expected 1 unpaired enter, got %+v", stats)
	}
	if len(spans["R1"]) != 1 {
		t.Fatalf("expected a single span, got %+v", spans["R1"])
	}
}

func TestPairIgnoresUnknownTypesAndZeroTimestamps(t *testing.T) {
	stream := []events.RoomEvent{
		{SessionID: "sess", RoomID: "R1", Type: "teleport", Timestamp: 5},
		{SessionID: "sess", RoomID: "R1", Type: events.TypeEnter, Timestamp: 0},
		ev("R1", events.TypeEnter, 10),
		ev("R1", events.TypeExit, 20),
	}

	spans, stats := events.Pair(stream)
	if stats.Ignored != 2 {
		t.Fatalf("expected 2 ignored events, got %+v", stats)
	}
	if len(spans["R1"]) != 1 {
		t.Fatalf("expected a single span, got %+v", spans["R1"])
	}
}

func TestPairOmitsRoomsWithNoCompleteSpan(t *testing.T) {
	stream := []events.RoomEvent{
		ev("R1", events.TypeEnter, 10),
		ev("R2", events.TypeExit, 15),
	}

	spans, stats := events.Pair(stream)
	if len(spans) != 0 {
		t.Fatalf("expected no spans, got %+v", spans)
	}
	if stats.StrayExits != 1 || stats.UnpairedEnters != 1 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}

func TestRoomOrderFirstSeen(t *testing.T) {
	stream := []events.RoomEvent{
		ev("R2", events.TypeEnter, 1),
		ev("R1", events.TypeEnter, 2),
		ev("R2", events.TypeExit, 3),
		ev("R1", events.TypeExit, 4),
	}
	got := events.RoomOrder(stream)
	want := []string{"R2", "R1"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("RoomOrder = %v, want %v", got, want)
	}
}

func TestParseType(t *testing.T) {
	if typ, ok := events.ParseType(" Enter "); !ok || typ != events.TypeEnter {
		t.Fatalf("ParseType enter = %v %v", typ, ok)
	}
	if _, ok := events.ParseType("teleport"); ok {
		t.Fatal("expected unknown type to be rejected")
	}
}
