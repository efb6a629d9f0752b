package logging_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"roomclip/internal/logging"
	"roomclip/internal/services"
)

func TestNewConsoleWritesToFile(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "roomclip.log")

	logger, err := logging.New(logging.Options{
		Format:      "console",
		Level:       "info",
		OutputPaths: []string{logPath},
	})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logger.Info("session claimed", logging.String("session_id", "sess-1"))
	logger.Debug("should be filtered")

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	out := string(content)
	if !strings.Contains(out, "session claimed") {
		t.Fatalf("expected info record, got %q", out)
	}
	if !strings.Contains(out, "session_id=sess-1") {
		t.Fatalf("expected key=value attr, got %q", out)
	}
	if strings.Contains(out, "should be filtered") {
		t.Fatalf("debug record should be filtered at info level: %q", out)
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := logging.New(logging.Options{Format: "yaml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestConsoleHandlerPromotesComponent(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "component.log")
	logger, err := logging.New(logging.Options{Format: "console", OutputPaths: []string{logPath}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logging.NewComponentLogger(logger, "worker").Info("poll cycle complete")

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(content), "worker: poll cycle complete") {
		t.Fatalf("expected component prefix, got %q", content)
	}
}

func TestWithContextAddsSessionFields(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "ctx.log")
	logger, err := logging.New(logging.Options{Format: "console", OutputPaths: []string{logPath}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	ctx := services.WithSessionID(context.Background(), "sess-9")
	ctx = services.WithStage(ctx, "cutting")
	logging.WithContext(ctx, logger).Info("cut complete")

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	out := string(content)
	if !strings.Contains(out, "session_id=sess-9") || !strings.Contains(out, "stage=cutting") {
		t.Fatalf("expected context fields in output, got %q", out)
	}
}
