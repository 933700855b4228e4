package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
)

// Local stores files below a directory on disk.
type Local struct {
	root string
}

// NewLocal creates the root directory if needed and returns a Local backend.
func NewLocal(root string) (*Local, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve storage root: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage root: %w", err)
	}

	log.Info().Str("root", abs).Msg("Using local file storage")
	return &Local{root: abs}, nil
}

// Root returns the absolute storage directory.
func (l *Local) Root() string {
	return l.root
}

// Resolve maps key to an absolute path confined to the root.
func (l *Local) Resolve(key string) (string, error) {
	cleaned, err := CleanKey(key)
	if err != nil {
		return "", err
	}

	full := filepath.Join(l.root, filepath.FromSlash(cleaned))
	rel, err := filepath.Rel(l.root, full)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", ErrOutsideRoot
	}
	return full, nil
}

// Save writes r to key, creating the folder when needed.
func (l *Local) Save(_ context.Context, key string, r io.Reader, _ int64, _ string) error {
	full, err := l.Resolve(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return fmt.Errorf("failed to create folder: %w", err)
	}

	f, err := os.OpenFile(full, os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(full)
		return fmt.Errorf("failed to write file: %w", err)
	}
	return f.Close()
}

// Open opens key for reading. Symlinks that point outside the root are refused.
func (l *Local) Open(_ context.Context, key string) (*Object, error) {
	full, err := l.Resolve(key)
	if err != nil {
		return nil, err
	}

	resolved, err := filepath.EvalSymlinks(full)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if resolved != full {
		rootReal, err := filepath.EvalSymlinks(l.root)
		if err != nil {
			return nil, err
		}
		if rel, err := filepath.Rel(rootReal, resolved); err != nil || strings.HasPrefix(rel, "..") {
			return nil, ErrOutsideRoot
		}
	}

	f, err := os.Open(full)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	if info.IsDir() {
		f.Close()
		return nil, ErrNotFound
	}

	return &Object{ReadCloser: f, Size: info.Size(), ModTime: info.ModTime()}, nil
}

// Delete removes key.
func (l *Local) Delete(_ context.Context, key string) error {
	full, err := l.Resolve(key)
	if err != nil {
		return err
	}
	if err := os.Remove(full); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

// DeletePrefix removes the folder prefix and everything in it.
func (l *Local) DeletePrefix(_ context.Context, prefix string) error {
	full, err := l.Resolve(prefix)
	if err != nil {
		return err
	}
	if full == l.root {
		return ErrOutsideRoot
	}
	if err := os.RemoveAll(full); err != nil {
		return fmt.Errorf("failed to delete folder: %w", err)
	}
	return nil
}
