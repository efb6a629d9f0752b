package events

import "strings"

// Type identifies the kind of room event.
type Type string

const (
	TypeEnter Type = "enter"
	TypeExit  Type = "exit"
)

// ParseType converts a raw event type string into a known Type.
func ParseType(value string) (Type, bool) {
	normalized := Type(strings.ToLower(strings.TrimSpace(value)))
	switch normalized {
	case TypeEnter, TypeExit:
		return normalized, true
	}
	return "", false
}

// RoomEvent is a single externally produced enter/exit observation.
// Timestamp is seconds since epoch, fractional. Events for a session are
// presented to the pairer in non-decreasing timestamp order; ordering is the
// caller's responsibility.
type RoomEvent struct {
	SessionID string
	RoomID    string
	Type      Type
	Timestamp float64
}

// Span is one visit to a room: the paired enter and exit timestamps.
// Validity (exit after enter, enter after the session baseline) is not
// guaranteed here; the offset normalizer drops malformed spans downstream.
type Span struct {
	RoomID string
	Enter  float64
	Exit   float64
}
