package events

// PairStats aggregates the events dropped while pairing. The worker logs
// these so silent skips remain observable without failing a session.
type PairStats struct {
	// StrayExits counts exit events with no pending enter in their room.
	StrayExits int
	// UnpairedEnters counts enters still pending when the stream ended.
	UnpairedEnters int
	// Ignored counts events with an unknown type or a missing timestamp.
	Ignored int
}

// Pair folds an ordered event stream into per-room visit spans.
//
// Each room keeps a FIFO queue of pending enter timestamps: an exit pops the
// oldest pending enter and emits a span, an exit with no pending enter is
// discarded as noise, and enters left pending at the end of the stream are
// dropped. Pure function; rooms retain their first-seen order and spans
// within a room follow event arrival order.
func Pair(stream []RoomEvent) (map[string][]Span, PairStats) {
	type roomState struct {
		pending []float64
		spans   []Span
	}

	var stats PairStats
	states := make(map[string]*roomState)
	order := make([]string, 0)

	for _, ev := range stream {
		if ev.Timestamp == 0 {
			stats.Ignored++
			continue
		}
		state := states[ev.RoomID]
		if state == nil {
			state = &roomState{}
			states[ev.RoomID] = state
			order = append(order, ev.RoomID)
		}
		switch ev.Type {
		case TypeEnter:
			state.pending = append(state.pending, ev.Timestamp)
		case TypeExit:
			if len(state.pending) == 0 {
				stats.StrayExits++
				continue
			}
			enter := state.pending[0]
			state.pending = state.pending[1:]
			state.spans = append(state.spans, Span{RoomID: ev.RoomID, Enter: enter, Exit: ev.Timestamp})
		default:
			stats.Ignored++
		}
	}

	result := make(map[string][]Span, len(states))
	for _, roomID := range order {
		state := states[roomID]
		stats.UnpairedEnters += len(state.pending)
		if len(state.spans) > 0 {
			result[roomID] = state.spans
		}
	}
	return result, stats
}

// RoomOrder returns room identifiers in first-seen order for deterministic
// iteration over a Pair result.
func RoomOrder(stream []RoomEvent) []string {
	seen := make(map[string]struct{})
	order := make([]string, 0)
	for _, ev := range stream {
		if ev.Timestamp == 0 {
			continue
		}
		if _, ok := ParseType(string(ev.Type)); !ok {
			continue
		}
		if _, ok := seen[ev.RoomID]; ok {
			continue
		}
		seen[ev.RoomID] = struct{}{}
		order = append(order, ev.RoomID)
	}
	return order
}
