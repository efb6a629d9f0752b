package store

import (
	"context"
	"fmt"
	"time"

	"roomclip/internal/events"
	"roomclip/internal/services"
)

// AddRoomEvent appends an enter/exit event to a session's stream. Insertion
// order is preserved for events sharing a timestamp.
func (s *Store) AddRoomEvent(ctx context.Context, sessionID, roomID string, eventType events.Type, timestamp float64) (int64, error) {
	if sessionID == "" || roomID == "" {
		return 0, services.Wrap(services.ErrValidation, "store", "add_room_event", "session id and room id are required", nil)
	}
	if _, ok := events.ParseType(string(eventType)); !ok {
		return 0, services.Wrap(services.ErrValidation, "store", "add_room_event", fmt.Sprintf("unknown event type %q", eventType), nil)
	}

	res, err := s.db.ExecContext(
		ctx,
		`INSERT INTO room_events (session_id, room_id, event_type, timestamp, created_at)
        VALUES (?, ?, ?, ?, ?)`,
		sessionID,
		roomID,
		string(eventType),
		timestamp,
		formatTime(time.Now()),
	)
	if err != nil {
		return 0, fmt.Errorf("insert room event: %w", err)
	}
	return res.LastInsertId()
}

// EventsForSession returns a session's event stream ordered by timestamp,
// then by insertion order for ties.
func (s *Store) EventsForSession(ctx context.Context, sessionID string) ([]events.RoomEvent, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT session_id, room_id, event_type, timestamp
        FROM room_events WHERE session_id = ?
        ORDER BY timestamp ASC, id ASC`,
		sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("list room events: %w", err)
	}
	defer rows.Close()

	var stream []events.RoomEvent
	for rows.Next() {
		var ev events.RoomEvent
		var typeStr string
		if err := rows.Scan(&ev.SessionID, &ev.RoomID, &typeStr, &ev.Timestamp); err != nil {
			return nil, err
		}
		ev.Type = events.Type(typeStr)
		stream = append(stream, ev)
	}
	return stream, rows.Err()
}

// DeleteEvents removes all events for a session. Used by reset flows.
func (s *Store) DeleteEvents(ctx context.Context, sessionID string) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM room_events WHERE session_id = ?`, sessionID)
	if err != nil {
		return 0, fmt.Errorf("delete room events: %w", err)
	}
	return res.RowsAffected()
}
