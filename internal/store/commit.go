package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"roomclip/internal/manifest"
	"roomclip/internal/services"
)

// CommitManifest atomically records a completed slicing attempt: the session
// gains its clip manifest and becomes ready, and the lesson document is
// upserted with the derived chapter list in the same transaction. Either both
// documents update or neither does.
func (s *Store) CommitManifest(ctx context.Context, sessionID, lessonID, lessonTitle string, entries []manifest.Entry) error {
	clipsJSON, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("marshal clip manifest: %w", err)
	}
	chaptersJSON, err := json.Marshal(manifest.Chapters(entries))
	if err != nil {
		return fmt.Errorf("marshal chapters: %w", err)
	}

	now := formatTime(time.Now())

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin commit tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(
		ctx,
		`UPDATE sessions
        SET status = ?, clips_json = ?, error_message = NULL,
            progress_note = NULL, last_heartbeat = NULL, updated_at = ?
        WHERE id = ? AND status = ?`,
		StatusReady,
		string(clipsJSON),
		now,
		sessionID,
		StatusProcessing,
	)
	if err != nil {
		return fmt.Errorf("commit session manifest: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("commit session rows: %w", err)
	}
	if affected == 0 {
		return services.Wrap(services.ErrNotFound, "store", "commit_manifest", fmt.Sprintf("session %q not in processing", sessionID), nil)
	}

	_, err = tx.ExecContext(
		ctx,
		`INSERT INTO lessons (id, title, status, chapters_json, updated_at)
        VALUES (?, ?, ?, ?, ?)
        ON CONFLICT(id) DO UPDATE SET
            title = excluded.title,
            status = excluded.status,
            chapters_json = excluded.chapters_json,
            updated_at = excluded.updated_at`,
		lessonID,
		nullableString(lessonTitle),
		"ready",
		string(chaptersJSON),
		now,
	)
	if err != nil {
		return fmt.Errorf("upsert lesson: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit manifest tx: %w", err)
	}
	return nil
}

// GetLesson fetches a lesson document by id.
func (s *Store) GetLesson(ctx context.Context, id string) (*Lesson, error) {
	row := s.db.QueryRowContext(
		ctx,
		`SELECT id, title, status, chapters_json, updated_at FROM lessons WHERE id = ?`,
		id,
	)

	var (
		lesson     Lesson
		title      sql.NullString
		status     sql.NullString
		chapters   sql.NullString
		updatedRaw sql.NullString
	)
	err := row.Scan(&lesson.ID, &title, &status, &chapters, &updatedRaw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, services.Wrap(services.ErrNotFound, "store", "get_lesson", fmt.Sprintf("lesson %q", id), nil)
	}
	if err != nil {
		return nil, fmt.Errorf("get lesson: %w", err)
	}

	lesson.Title = title.String
	lesson.Status = status.String
	lesson.ChaptersJSON = chapters.String
	if updated, err := parseTimeString(updatedRaw.String); err == nil {
		lesson.UpdatedAt = updated
	}
	return &lesson, nil
}
