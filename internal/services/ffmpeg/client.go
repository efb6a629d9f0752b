package ffmpeg

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"roomclip/internal/services"
)

// DurationFloor is the minimum clip length handed to ffmpeg, guarding the
// external tool against zero or negative durations that survive
// normalization rounding.
const DurationFloor = 0.1

// Cutter is the behaviour the worker needs from the cutting service.
type Cutter interface {
	Cut(ctx context.Context, sourcePath string, startSeconds, endSeconds float64, destPath string) error
}

// Executor abstracts command execution for testability.
type Executor interface {
	Run(ctx context.Context, binary string, args []string, onOutput func(string)) error
}

// Option configures the client.
type Option func(*Client)

// WithExecutor injects a custom executor (primarily for tests).
func WithExecutor(exec Executor) Option {
	return func(c *Client) {
		if exec != nil {
			c.exec = exec
		}
	}
}

// Client wraps ffmpeg copy-codec cuts.
type Client struct {
	binary     string
	cutTimeout time.Duration
	exec       Executor
}

// New constructs an ffmpeg client.
func New(binary string, cutTimeoutSeconds int, opts ...Option) (*Client, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		return nil, errors.New("ffmpeg binary required")
	}
	client := &Client{
		binary:     binary,
		cutTimeout: time.Duration(cutTimeoutSeconds) * time.Second,
		exec:       commandExecutor{},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// Cut extracts [startSeconds, endSeconds) from sourcePath into destPath as a
// direct stream copy. No re-encode happens, so the cut completes in
// near-constant time regardless of clip length. Tool failures are wrapped as
// ErrExternalTool; retry policy belongs to the caller.
func (c *Client) Cut(ctx context.Context, sourcePath string, startSeconds, endSeconds float64, destPath string) error {
	if strings.TrimSpace(sourcePath) == "" {
		return services.Wrap(services.ErrValidation, "cutting", "validate inputs", "source video path required", nil)
	}
	if strings.TrimSpace(destPath) == "" {
		return services.Wrap(services.ErrValidation, "cutting", "validate inputs", "destination path required", nil)
	}
	if err := os.MkdirAll(filepath.Dir(destPath), 0o755); err != nil {
		return services.Wrap(services.ErrTransient, "cutting", "prepare destination", "create clip directory", err)
	}

	duration := endSeconds - startSeconds
	if duration < DurationFloor {
		duration = DurationFloor
	}

	cutCtx := ctx
	if c.cutTimeout > 0 {
		var cancel context.CancelFunc
		cutCtx, cancel = context.WithTimeout(ctx, c.cutTimeout)
		defer cancel()
	}

	args := []string{
		"-nostdin", "-loglevel", "error", "-y",
		"-ss", fmt.Sprintf("%.3f", startSeconds),
		"-t", fmt.Sprintf("%.3f", duration),
		"-i", sourcePath,
		"-c", "copy",
		destPath,
	}

	var toolOutput []string
	if err := c.exec.Run(cutCtx, c.binary, args, func(line string) {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			toolOutput = append(toolOutput, trimmed)
		}
	}); err != nil {
		detail := strings.Join(toolOutput, "; ")
		if detail == "" {
			detail = "ffmpeg copy-codec cut failed"
		}
		return services.Wrap(services.ErrExternalTool, "cutting", "run ffmpeg", detail, err)
	}

	if _, err := os.Stat(destPath); errors.Is(err, os.ErrNotExist) {
		return services.Wrap(services.ErrExternalTool, "cutting", "verify output", "ffmpeg produced no output file", nil)
	}
	return nil
}

type commandExecutor struct{}

func (commandExecutor) Run(ctx context.Context, binary string, args []string, onOutput func(string)) error {
	cmd := exec.CommandContext(ctx, binary, args...) //nolint:gosec
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("stdout pipe: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return fmt.Errorf("stderr pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start command: %w", err)
	}

	var wg sync.WaitGroup
	forward := func(r io.Reader) {
		defer wg.Done()
		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			if onOutput != nil {
				onOutput(scanner.Text())
			}
		}
	}

	wg.Add(2)
	go forward(stdout)
	go forward(stderr)
	wg.Wait()

	if err := cmd.Wait(); err != nil {
		return fmt.Errorf("wait command: %w", err)
	}
	return nil
}
