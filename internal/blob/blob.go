package blob

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"roomclip/internal/services"
)

// Store moves session masters and finished clips between the worker's
// scratch workspace and durable storage.
type Store interface {
	// Download copies the object at sourcePath into destPath.
	Download(ctx context.Context, sourcePath, destPath string) error
	// Upload stores localPath under clips/<sessionID>/<fileName> and
	// returns the public URL of the stored clip.
	Upload(ctx context.Context, sessionID, fileName, localPath string) (string, error)
}

// Local serves clips from a directory tree fronted by a static file server.
type Local struct {
	Root    string
	BaseURL string
}

// NewLocal returns a Local store rooted at root with URLs under baseURL.
func NewLocal(root, baseURL string) (*Local, error) {
	if strings.TrimSpace(root) == "" {
		return nil, services.Wrap(services.ErrConfiguration, "blob", "new", "storage root is required", nil)
	}
	if strings.TrimSpace(baseURL) == "" {
		return nil, services.Wrap(services.ErrConfiguration, "blob", "new", "base URL is required", nil)
	}
	return &Local{Root: root, BaseURL: strings.TrimRight(baseURL, "/")}, nil
}

func (l *Local) Download(ctx context.Context, sourcePath, destPath string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	src, err := os.Open(sourcePath)
	if err != nil {
		return services.Wrap(services.ErrNotFound, "blob", "download", fmt.Sprintf("open %q", sourcePath), err)
	}
	defer src.Close()

	if err := os.MkdirAll(filepath.Dir(destPath), 0o755); err != nil {
		return fmt.Errorf("create download dir: %w", err)
	}
	dst, err := os.Create(destPath)
	if err != nil {
		return fmt.Errorf("create %q: %w", destPath, err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return fmt.Errorf("copy %q: %w", sourcePath, err)
	}
	return dst.Close()
}

func (l *Local) Upload(ctx context.Context, sessionID, fileName, localPath string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if sessionID == "" || fileName == "" {
		return "", services.Wrap(services.ErrValidation, "blob", "upload", "session id and file name are required", nil)
	}

	destDir := filepath.Join(l.Root, "clips", sessionID)
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return "", fmt.Errorf("create clip dir: %w", err)
	}

	src, err := os.Open(localPath)
	if err != nil {
		return "", fmt.Errorf("open clip %q: %w", localPath, err)
	}
	defer src.Close()

	// Write to a temp name and rename so readers never see partial clips.
	destPath := filepath.Join(destDir, fileName)
	tmp, err := os.CreateTemp(destDir, fileName+".tmp-*")
	if err != nil {
		return "", fmt.Errorf("create temp clip: %w", err)
	}
	tmpPath := tmp.Name()
	if _, err := io.Copy(tmp, src); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return "", fmt.Errorf("copy clip %q: %w", fileName, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("close temp clip: %w", err)
	}
	if err := os.Rename(tmpPath, destPath); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("finalize clip %q: %w", fileName, err)
	}

	return fmt.Sprintf("%s/clips/%s/%s", l.BaseURL, sessionID, fileName), nil
}
