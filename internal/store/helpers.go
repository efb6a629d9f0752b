package store

import (
	"database/sql"
	"errors"
	"time"
)

func scanSession(scanner interface{ Scan(dest ...any) error }) (*Session, error) {
	var (
		id               string
		title            sql.NullString
		masterVideoPath  sql.NullString
		obsT0            sql.NullFloat64
		statusStr        string
		clipsJSON        sql.NullString
		errorMessage     sql.NullString
		progressNote     sql.NullString
		lastHeartbeatRaw sql.NullString
		createdRaw       sql.NullString
		updatedRaw       sql.NullString
	)

	if err := scanner.Scan(
		&id,
		&title,
		&masterVideoPath,
		&obsT0,
		&statusStr,
		&clipsJSON,
		&errorMessage,
		&progressNote,
		&lastHeartbeatRaw,
		&createdRaw,
		&updatedRaw,
	); err != nil {
		return nil, err
	}

	session := &Session{
		ID:              id,
		Title:           title.String,
		MasterVideoPath: masterVideoPath.String,
		OBST0:           obsT0.Float64,
		Status:          Status(statusStr),
		ClipsJSON:       clipsJSON.String,
		ErrorMessage:    errorMessage.String,
		ProgressNote:    progressNote.String,
	}

	if created, err := parseTimeString(createdRaw.String); err == nil {
		session.CreatedAt = created
	}
	if updated, err := parseTimeString(updatedRaw.String); err == nil {
		session.UpdatedAt = updated
	}
	if lastHeartbeatRaw.Valid {
		if heartbeat, err := parseTimeString(lastHeartbeatRaw.String); err == nil {
			session.LastHeartbeat = &heartbeat
		}
	}
	return session, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

// timeLayout is fixed width so lexicographic ordering of stored timestamps
// matches chronological ordering in SQL comparisons. RFC3339Nano trims
// trailing fractional zeros and breaks that within a sub-second window.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(value time.Time) string {
	return value.UTC().Format(timeLayout)
}

func nullableTime(value *time.Time) any {
	if value == nil {
		return nil
	}
	return formatTime(*value)
}

func parseTimeString(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New("empty")
	}
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02 15:04:05", value)
}
