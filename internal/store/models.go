package store

import (
	"encoding/json"
	"strings"
	"time"

	"roomclip/internal/manifest"
)

// Status represents the lifecycle of a recorded session.
type Status string

const (
	StatusUploading  Status = "uploading"
	StatusProcessing Status = "processing"
	StatusReady      Status = "ready"
	StatusError      Status = "error"
)

var allStatuses = []Status{
	StatusUploading,
	StatusProcessing,
	StatusReady,
	StatusError,
}

var statusSet = func() map[Status]struct{} {
	set := make(map[Status]struct{}, len(allStatuses))
	for _, status := range allStatuses {
		set[status] = struct{}{}
	}
	return set
}()

// ParseStatus validates a user-supplied status string.
func ParseStatus(value string) (Status, bool) {
	status := Status(strings.ToLower(strings.TrimSpace(value)))
	_, ok := statusSet[status]
	return status, ok
}

// Session is a recorded class session awaiting or finished slicing.
type Session struct {
	ID              string
	Title           string
	MasterVideoPath string
	OBST0           float64
	Status          Status
	ClipsJSON       string
	ErrorMessage    string
	ProgressNote    string
	LastHeartbeat   *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Clips decodes the committed clip manifest, or nil when none exists.
func (s *Session) Clips() ([]manifest.Entry, error) {
	if strings.TrimSpace(s.ClipsJSON) == "" {
		return nil, nil
	}
	var entries []manifest.Entry
	if err := json.Unmarshal([]byte(s.ClipsJSON), &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// Lesson is the LMS-facing document updated when a session completes.
type Lesson struct {
	ID           string
	Title        string
	Status       string
	ChaptersJSON string
	UpdatedAt    time.Time
}

// Chapters decodes the lesson chapter list, or nil when none exists.
func (l *Lesson) Chapters() ([]manifest.Chapter, error) {
	if strings.TrimSpace(l.ChaptersJSON) == "" {
		return nil, nil
	}
	var chapters []manifest.Chapter
	if err := json.Unmarshal([]byte(l.ChaptersJSON), &chapters); err != nil {
		return nil, err
	}
	return chapters, nil
}

// RoomEventRecord is a persisted enter/exit event for a session.
type RoomEventRecord struct {
	ID        int64
	SessionID string
	RoomID    string
	EventType string
	Timestamp float64
	CreatedAt time.Time
}
