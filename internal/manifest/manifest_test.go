package manifest_test

import (
	"reflect"
	"testing"

	"roomclip/internal/manifest"
)

func TestBuildAssignsPerRoomIdx(t *testing.T) {
	rooms := []manifest.RoomClips{
		{RoomID: "R1", Clips: []manifest.Clip{
			{URL: "/tmp/a.mp4", Start: 10, End: 40},
			{URL: "/tmp/b.mp4", Start: 50, End: 60},
		}},
		{RoomID: "R2", Clips: []manifest.Clip{
			{URL: "/tmp/c.mp4", Start: 70, End: 90},
		}},
	}

	entries := manifest.Build(rooms)
	want := []manifest.Entry{
		{RoomID: "R1", ClipURL: "/tmp/a.mp4", StartOffset: 10, EndOffset: 40, Idx: 1},
		{RoomID: "R1", ClipURL: "/tmp/b.mp4", StartOffset: 50, EndOffset: 60, Idx: 2},
		{RoomID: "R2", ClipURL: "/tmp/c.mp4", StartOffset: 70, EndOffset: 90, Idx: 1},
	}
	if !reflect.DeepEqual(entries, want) {
		t.Fatalf("entries = %+v, want %+v", entries, want)
	}
}

func TestBuildIsDeterministic(t *testing.T) {
	rooms := []manifest.RoomClips{
		{RoomID: "R1", Clips: []manifest.Clip{{URL: "u", Start: 1, End: 2}}},
		{RoomID: "R2", Clips: []manifest.Clip{{URL: "v", Start: 3, End: 4}}},
	}
	first := manifest.Build(rooms)
	second := manifest.Build(rooms)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("expected identical manifests across runs: %+v vs %+v", first, second)
	}
}

func TestChaptersFollowEmissionOrder(t *testing.T) {
	entries := []manifest.Entry{
		{RoomID: "R1", ClipURL: "u1", Idx: 1},
		{RoomID: "R1", ClipURL: "u2", Idx: 2},
		{RoomID: "R2", ClipURL: "u3", Idx: 1},
	}
	chapters := manifest.Chapters(entries)
	want := []manifest.Chapter{
		{RoomID: "R1", ClipURL: "u1", Order: 0},
		{RoomID: "R1", ClipURL: "u2", Order: 1},
		{RoomID: "R2", ClipURL: "u3", Order: 2},
	}
	if !reflect.DeepEqual(chapters, want) {
		t.Fatalf("chapters = %+v, want %+v", chapters, want)
	}
}

func TestClipFileName(t *testing.T) {
	if got := manifest.ClipFileName("sess-1", "R1", 2); got != "sess-1_R1_2.mp4" {
		t.Fatalf("ClipFileName = %q", got)
	}
	if got := manifest.ClipFileName("a/b", "House 1", 1); got != "a-b_House-1_1.mp4" {
		t.Fatalf("sanitized ClipFileName = %q", got)
	}
}

func TestLessonTitle(t *testing.T) {
	if got := manifest.LessonTitle("Geometry Basics", "/tmp/x.mp4"); got != "Geometry Basics" {
		t.Fatalf("recorded title should win, got %q", got)
	}
	if got := manifest.LessonTitle("algebra review", "/tmp/x.mp4"); got != "Algebra Review" {
		t.Fatalf("recorded title should be title-cased, got %q", got)
	}
	if got := manifest.LessonTitle("", "/master/intro_to-roblox.builds.mp4"); got != "Intro To Roblox Builds" {
		t.Fatalf("derived title = %q", got)
	}
	if got := manifest.LessonTitle("", ""); got != "Untitled Lesson" {
		t.Fatalf("fallback title = %q", got)
	}
}
