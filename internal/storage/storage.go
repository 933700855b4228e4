// Package storage keeps album image files. Keys are slash separated paths
// relative to the storage root, "<folder>/<file>", and never leave it.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/yasinhessnawi1/PhotoAlbum_Backend/internal/config"
	"github.com/yasinhessnawi1/PhotoAlbum_Backend/internal/constants"
)

var (
	// ErrNotFound is returned when no object exists under a key.
	ErrNotFound = errors.New("storage object not found")

	// ErrOutsideRoot is returned for keys that would resolve outside the storage root.
	ErrOutsideRoot = errors.New("storage key escapes the storage root")
)

// Object is an open stored file. For the local backend the embedded reader
// also implements io.Seeker.
type Object struct {
	io.ReadCloser
	Size        int64
	ModTime     time.Time
	ContentType string
}

// Storage stores and retrieves album files.
type Storage interface {
	Save(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	Open(ctx context.Context, key string) (*Object, error)
	// Delete removes one object. A missing object is not an error.
	Delete(ctx context.Context, key string) error
	// DeletePrefix removes every object below a folder.
	DeletePrefix(ctx context.Context, prefix string) error
}

// New builds the backend selected in the storage settings.
func New(ctx context.Context, cfg config.StorageSettings) (Storage, error) {
	switch strings.ToLower(cfg.Backend) {
	case constants.StorageLocal, "":
		return NewLocal(cfg.Root)
	case constants.StorageS3:
		return NewS3(ctx, cfg)
	default:
		return nil, fmt.Errorf("unsupported storage backend: %s", cfg.Backend)
	}
}

// CleanKey normalises a key and rejects anything that is absolute, empty or
// climbs out of the root through "..".
func CleanKey(key string) (string, error) {
	key = strings.ReplaceAll(key, "\\", "/")
	if key == "" || strings.HasPrefix(key, "/") || strings.ContainsRune(key, 0) {
		return "", ErrOutsideRoot
	}

	cleaned := path.Clean(key)
	if cleaned == "." || cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return "", ErrOutsideRoot
	}
	return cleaned, nil
}

// JoinKey builds the key of file inside folder.
func JoinKey(folder, file string) string {
	return folder + "/" + file
}
