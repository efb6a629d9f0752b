package manifest

import (
	"fmt"
	"path/filepath"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Entry is one published clip record. StartOffset and EndOffset are seconds
// relative to the session baseline; Idx is the 1-based ordinal of the clip
// within its room, which keeps filenames and identity stable across re-runs.
type Entry struct {
	RoomID      string  `json:"roomID"`
	ClipURL     string  `json:"clipUrl"`
	StartOffset float64 `json:"startOffset"`
	EndOffset   float64 `json:"endOffset"`
	Idx         int     `json:"idx"`
}

// Chapter references a manifest entry from the derived lesson document.
// Order is the 0-based position in the manifest's emission sequence.
type Chapter struct {
	RoomID  string `json:"roomId"`
	ClipURL string `json:"clipUrl"`
	Order   int    `json:"order"`
}

// Clip is a cut artifact awaiting manifest assembly. URL starts as a local
// path and is rewritten to the durable reference after upload.
type Clip struct {
	URL   string
	Start float64
	End   float64
}

// RoomClips groups one room's cut clips in span order.
type RoomClips struct {
	RoomID string
	Clips  []Clip
}

// ClipFileName derives the deterministic artifact name for a room span.
// Re-running the pipeline for the same event history produces the same
// names, so uploads overwrite rather than duplicate.
func ClipFileName(sessionID, roomID string, idx int) string {
	return fmt.Sprintf("%s_%s_%d.mp4", sanitizeComponent(sessionID), sanitizeComponent(roomID), idx)
}

// Build assembles the ordered manifest from per-room clips. Rooms are
// emitted in the order given; Idx within a room is its 1-based position.
// Pure data transformation, no I/O.
func Build(rooms []RoomClips) []Entry {
	var entries []Entry
	for _, room := range rooms {
		for i, clip := range room.Clips {
			entries = append(entries, Entry{
				RoomID:      room.RoomID,
				ClipURL:     clip.URL,
				StartOffset: clip.Start,
				EndOffset:   clip.End,
				Idx:         i + 1,
			})
		}
	}
	return entries
}

// Chapters derives the lesson chapter list from a manifest.
func Chapters(entries []Entry) []Chapter {
	chapters := make([]Chapter, 0, len(entries))
	for i, entry := range entries {
		chapters = append(chapters, Chapter{RoomID: entry.RoomID, ClipURL: entry.ClipURL, Order: i})
	}
	return chapters
}

// LessonTitle derives a human-readable lesson title from the session title,
// falling back to the master video filename when no title was recorded.
// Titles are normalized to title case so recorded and derived titles read
// the same in the lesson document.
func LessonTitle(sessionTitle, masterVideoPath string) string {
	title := strings.TrimSpace(sessionTitle)
	if title != "" {
		return cases.Title(language.Und).String(title)
	}
	base := filepath.Base(strings.TrimSpace(masterVideoPath))
	base = strings.TrimSuffix(base, filepath.Ext(base))
	cleaned := strings.Builder{}
	prevSpace := false
	for _, r := range base {
		switch {
		case unicode.IsLetter(r) || unicode.IsNumber(r):
			cleaned.WriteRune(r)
			prevSpace = false
		case unicode.IsSpace(r) || r == '-' || r == '_' || r == '.':
			if !prevSpace {
				cleaned.WriteRune(' ')
				prevSpace = true
			}
		}
	}
	title = strings.TrimSpace(cleaned.String())
	if title == "" {
		return "Untitled Lesson"
	}
	return cases.Title(language.Und).String(title)
}

func sanitizeComponent(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return "unknown"
	}
	replacer := strings.NewReplacer("/", "-", "\\", "-", ":", "-", " ", "-", "*", "-", "?", "", "\"", "", "<", "", ">", "", "|", "")
	sanitized := strings.Trim(replacer.Replace(value), "-")
	if sanitized == "" {
		return "unknown"
	}
	return sanitized
}
