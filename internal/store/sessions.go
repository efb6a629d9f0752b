package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"roomclip/internal/services"
)

const sessionColumns = "id, title, master_video_path, obs_t0, status, clips_json, error_message, progress_note, last_heartbeat, created_at, updated_at"

// UpsertSession inserts a session or replaces its descriptive fields. The
// existing status, manifest, and timestamps survive an upsert of a known id.
func (s *Store) UpsertSession(ctx context.Context, session *Session) (*Session, error) {
	if session == nil || session.ID == "" {
		return nil, services.Wrap(services.ErrValidation, "store", "upsert_session", "session id is required", nil)
	}

	now := formatTime(time.Now())
	status := session.Status
	if status == "" {
		status = StatusUploading
	}
	if _, ok := statusSet[status]; !ok {
		return nil, services.Wrap(services.ErrValidation, "store", "upsert_session", fmt.Sprintf("unknown status %q", status), nil)
	}

	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO sessions (
            id, title, master_video_path, obs_t0, status,
            clips_json, error_message, progress_note, last_heartbeat,
            created_at, updated_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
        ON CONFLICT(id) DO UPDATE SET
            title = excluded.title,
            master_video_path = excluded.master_video_path,
            obs_t0 = excluded.obs_t0,
            updated_at = excluded.updated_at`,
		session.ID,
		nullableString(session.Title),
		nullableString(session.MasterVideoPath),
		session.OBST0,
		status,
		nullableString(session.ClipsJSON),
		nullableString(session.ErrorMessage),
		nullableString(session.ProgressNote),
		nullableTime(session.LastHeartbeat),
		now,
		now,
	)
	if err != nil {
		return nil, fmt.Errorf("upsert session: %w", err)
	}
	return s.GetSession(ctx, session.ID)
}

// GetSession fetches a session by id.
func (s *Store) GetSession(ctx context.Context, id string) (*Session, error) {
	row := s.db.QueryRowContext(
		ctx,
		`SELECT `+sessionColumns+` FROM sessions WHERE id = ?`,
		id,
	)
	session, err := scanSession(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, services.Wrap(services.ErrNotFound, "store", "get_session", fmt.Sprintf("session %q", id), nil)
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	return session, nil
}

// ListByStatus returns sessions in the given status ordered oldest first.
func (s *Store) ListByStatus(ctx context.Context, status Status) ([]*Session, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT `+sessionColumns+` FROM sessions WHERE status = ? ORDER BY created_at ASC`,
		status,
	)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var sessions []*Session
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, session)
	}
	return sessions, rows.Err()
}

// ListAll returns every session ordered oldest first.
func (s *Store) ListAll(ctx context.Context) ([]*Session, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT `+sessionColumns+` FROM sessions ORDER BY created_at ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var sessions []*Session
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, session)
	}
	return sessions, rows.Err()
}

// Claim atomically moves a session from uploading to processing. It reports
// false when another worker already holds the session or the status changed.
func (s *Store) Claim(ctx context.Context, id string) (bool, error) {
	now := formatTime(time.Now())
	res, err := s.db.ExecContext(
		ctx,
		`UPDATE sessions
        SET status = ?, last_heartbeat = ?, error_message = NULL, updated_at = ?
        WHERE id = ? AND status = ?`,
		StatusProcessing,
		now,
		now,
		id,
		StatusUploading,
	)
	if err != nil {
		return false, fmt.Errorf("claim session: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("claim session rows: %w", err)
	}
	return affected == 1, nil
}

// Release returns a claimed session to uploading without marking an error.
// Used when an attempt produced no valid spans and the session should wait
// for more events.
func (s *Store) Release(ctx context.Context, id string, note string) error {
	now := formatTime(time.Now())
	res, err := s.db.ExecContext(
		ctx,
		`UPDATE sessions
        SET status = ?, progress_note = ?, last_heartbeat = NULL, updated_at = ?
        WHERE id = ? AND status = ?`,
		StatusUploading,
		nullableString(note),
		now,
		id,
		StatusProcessing,
	)
	if err != nil {
		return fmt.Errorf("release session: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("release session rows: %w", err)
	}
	if affected == 0 {
		return services.Wrap(services.ErrNotFound, "store", "release_session", fmt.Sprintf("session %q not in processing", id), nil)
	}
	return nil
}

// MarkError moves a session to the error state and records the message.
func (s *Store) MarkError(ctx context.Context, id string, message string) error {
	now := formatTime(time.Now())
	_, err := s.db.ExecContext(
		ctx,
		`UPDATE sessions
        SET status = ?, error_message = ?, last_heartbeat = NULL, updated_at = ?
        WHERE id = ?`,
		StatusError,
		nullableString(message),
		now,
		id,
	)
	if err != nil {
		return fmt.Errorf("mark session error: %w", err)
	}
	return nil
}

// Touch refreshes the heartbeat of an in-flight session.
func (s *Store) Touch(ctx context.Context, id string) error {
	now := formatTime(time.Now())
	_, err := s.db.ExecContext(
		ctx,
		`UPDATE sessions SET last_heartbeat = ?, updated_at = ? WHERE id = ?`,
		now,
		now,
		id,
	)
	if err != nil {
		return fmt.Errorf("touch session: %w", err)
	}
	return nil
}

// SetProgress records a human-readable note about the current attempt.
func (s *Store) SetProgress(ctx context.Context, id string, note string) error {
	now := formatTime(time.Now())
	_, err := s.db.ExecContext(
		ctx,
		`UPDATE sessions SET progress_note = ?, updated_at = ? WHERE id = ?`,
		nullableString(note),
		now,
		id,
	)
	if err != nil {
		return fmt.Errorf("set session progress: %w", err)
	}
	return nil
}

// ReclaimStale returns processing sessions with expired heartbeats back to
// uploading so another worker can pick them up.
func (s *Store) ReclaimStale(ctx context.Context, cutoff time.Time) (int64, error) {
	now := formatTime(time.Now())
	res, err := s.db.ExecContext(
		ctx,
		`UPDATE sessions
        SET status = ?, progress_note = 'Reclaimed after stale heartbeat',
            last_heartbeat = NULL, updated_at = ?
        WHERE status = ? AND last_heartbeat IS NOT NULL AND last_heartbeat < ?`,
		StatusUploading,
		now,
		StatusProcessing,
		formatTime(cutoff),
	)
	if err != nil {
		return 0, fmt.Errorf("reclaim stale sessions: %w", err)
	}
	return res.RowsAffected()
}

// Retry moves an errored session back to uploading for reprocessing.
func (s *Store) Retry(ctx context.Context, id string) error {
	now := formatTime(time.Now())
	res, err := s.db.ExecContext(
		ctx,
		`UPDATE sessions
        SET status = ?, error_message = NULL, progress_note = 'Retry requested', updated_at = ?
        WHERE id = ? AND status = ?`,
		StatusUploading,
		now,
		id,
		StatusError,
	)
	if err != nil {
		return fmt.Errorf("retry session: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("retry session rows: %w", err)
	}
	if affected == 0 {
		return services.Wrap(services.ErrNotFound, "store", "retry_session", fmt.Sprintf("session %q not in error", id), nil)
	}
	return nil
}

// Reset forces a session back to uploading regardless of its current state
// and clears any committed manifest.
func (s *Store) Reset(ctx context.Context, id string) error {
	now := formatTime(time.Now())
	res, err := s.db.ExecContext(
		ctx,
		`UPDATE sessions
        SET status = ?, clips_json = NULL, error_message = NULL,
            progress_note = NULL, last_heartbeat = NULL, updated_at = ?
        WHERE id = ?`,
		StatusUploading,
		now,
		id,
	)
	if err != nil {
		return fmt.Errorf("reset session: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("reset session rows: %w", err)
	}
	if affected == 0 {
		return services.Wrap(services.ErrNotFound, "store", "reset_session", fmt.Sprintf("session %q", id), nil)
	}
	return nil
}

// Stats returns a count of sessions grouped by status.
func (s *Store) Stats(ctx context.Context) (map[Status]int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT status, COUNT(1) FROM sessions GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("session stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[Status]int)
	for rows.Next() {
		var status Status
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		stats[status] = count
	}
	return stats, rows.Err()
}
