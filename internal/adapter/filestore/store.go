// Package filestore keeps uploaded audio files on local disk.
package filestore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/heartmarshall/scrumbot-backend/internal/config"
	"github.com/heartmarshall/scrumbot-backend/internal/domain"
)

// Store writes uploads under a single directory.
type Store struct {
	dir      string
	maxBytes int64
	now      func() time.Time
	log      *slog.Logger
}

// New creates a Store rooted at cfg.UploadDir, creating the directory if needed.
func New(cfg config.StorageConfig, logger *slog.Logger) (*Store, error) {
	if err := os.MkdirAll(cfg.UploadDir, 0o755); err != nil {
		return nil, fmt.Errorf("filestore: create upload dir: %w", err)
	}
	return &Store{
		dir:      cfg.UploadDir,
		maxBytes: cfg.MaxUploadBytes,
		now:      time.Now,
		log:      logger.With("adapter", "filestore"),
	}, nil
}

// Saved describes a stored upload.
type Saved struct {
	Path       string
	StoredName string
	Bytes      int64
}

// Save writes r to <unixnano>_<base name>. Directory components of name are
// dropped. A body larger than the configured limit is rejected with a
// validation error and nothing is left on disk.
func (s *Store) Save(ctx context.Context, name string, r io.Reader) (Saved, error) {
	base := SafeName(name)
	if base == "" {
		return Saved{}, domain.NewValidationError("file", "file name is required")
	}

	stored := fmt.Sprintf("%d_%s", s.now().UnixNano(), base)
	path := filepath.Join(s.dir, stored)

	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return Saved{}, fmt.Errorf("filestore: create %s: %w", stored, err)
	}

	n, err := io.Copy(f, io.LimitReader(r, s.maxBytes+1))
	closeErr := f.Close()
	if err == nil {
		err = closeErr
	}
	if err == nil && n > s.maxBytes {
		err = domain.NewValidationError("file", fmt.Sprintf("exceeds %d bytes", s.maxBytes))
	}
	if err != nil {
		_ = os.Remove(path)
		var ve *domain.ValidationError
		if errors.As(err, &ve) {
			return Saved{}, err
		}
		return Saved{}, fmt.Errorf("filestore: write %s: %w", stored, err)
	}

	s.log.DebugContext(ctx, "upload stored", slog.String("name", stored), slog.Int64("bytes", n))
	return Saved{Path: path, StoredName: stored, Bytes: n}, nil
}

// Remove deletes a stored file. A missing file is not an error.
func (s *Store) Remove(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("filestore: remove: %w", err)
	}
	return nil
}

// SafeName reduces an uploaded file name to its last path element.
// Returns "" when nothing usable remains.
func SafeName(name string) string {
	name = strings.ReplaceAll(name, `\`, "/")
	base := strings.TrimSpace(filepath.Base(filepath.Clean("/" + name)))
	if base == "/" || base == "." || base == ".." {
		return ""
	}
	return base
}

// Ping reports whether the upload directory is still present.
func (s *Store) Ping(_ context.Context) error {
	fi, err := os.Stat(s.dir)
	if err != nil {
		return fmt.Errorf("filestore: %w", err)
	}
	if !fi.IsDir() {
		return fmt.Errorf("filestore: %s is not a directory", s.dir)
	}
	return nil
}
