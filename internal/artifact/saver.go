// Package artifact persists downloaded documents onto the local filesystem.
package artifact

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Saver writes artifacts under a base directory with generated filenames.
type Saver struct {
	baseDir string
}

// NewSaver initializes a Saver rooted at baseDir, creating it if needed.
func NewSaver(baseDir string) (*Saver, error) {
	baseDir = strings.TrimSpace(baseDir)
	if baseDir == "" {
		return nil, errors.New("artifact: base directory is required")
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("artifact: ensure base directory: %w", err)
	}
	return &Saver{baseDir: baseDir}, nil
}

// BaseDir returns the configured root directory.
func (s *Saver) BaseDir() string {
	if s == nil {
		return ""
	}
	return s.baseDir
}

// Save writes the blob under a generated filename derived from the job id and
// the artifact MIME type, and returns the full path. Saving the same job
// again produces an independent file.
func (s *Saver) Save(ctx context.Context, jobID string, data []byte, mimeType string) (string, error) {
	if s == nil {
		return "", errors.New("artifact: no saver configured")
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	name := fmt.Sprintf("document-%s-%d.%s", sanitizeID(jobID), time.Now().UnixNano(), extensionFor(mimeType))
	path := filepath.Join(s.baseDir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("artifact: write file: %w", err)
	}
	return path, nil
}

// sanitizeID keeps the job id filesystem-safe.
func sanitizeID(id string) string {
	id = strings.TrimSpace(id)
	if id == "" {
		return "unknown"
	}
	var b strings.Builder
	for _, r := range id {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return b.String()
}

func extensionFor(mimeType string) string {
	switch strings.ToLower(strings.TrimSpace(strings.Split(mimeType, ";")[0])) {
	case "application/pdf":
		return "pdf"
	case "image/png":
		return "png"
	case "image/jpeg":
		return "jpg"
	case "image/svg+xml":
		return "svg"
	case "text/html":
		return "html"
	default:
		return "bin"
	}
}
