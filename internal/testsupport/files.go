package testsupport

import (
	"os"
	"path/filepath"
	"testing"
)

// WriteMasterVideo drops a placeholder master recording at path, creating
// parent directories as needed. The content is deterministic filler, not a
// playable file; tests stub the cutter so it is never decoded.
func WriteMasterVideo(t testing.TB, path string) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte("master video placeholder\n"), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
