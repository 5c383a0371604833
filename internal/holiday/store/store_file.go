package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"feriadobot/internal/holiday/models"
)

const (
	// DefaultCacheFile is the cache file name used when no path is configured.
	DefaultCacheFile = "feriados.json"

	filePermissions = 0o644
	tmpSuffix       = ".tmp"
)

// FileCache persists the holiday list as a JSON document on local disk.
// The file doubles as a debugging artifact, so it is written indented with
// sorted keys and literal UTF-8.
type FileCache struct {
	path string
}

// NewFileCache creates a file-backed cache at path. An empty path selects
// DefaultCacheFile in the working directory.
func NewFileCache(path string) *FileCache {
	if path == "" {
		path = DefaultCacheFile
	}
	return &FileCache{path: path}
}

// Path returns the cache file location.
func (c *FileCache) Path() string { return c.path }

// Backend names the storage kind for logs and metrics.
func (c *FileCache) Backend() string { return "file" }

// IsValid reports whether the file holds a non-empty list whose first record
// falls in year. Every failure reads as false.
func (c *FileCache) IsValid(ctx context.Context, year int) bool {
	ok, _ := checkValid(ctx, c.read, year)
	return ok
}

// Load reads and decodes the cached list without checking its year.
//
// Errors: ErrInvalidCache (wrapped) when the file is missing, unreadable or malformed.
func (c *FileCache) Load(ctx context.Context) ([]models.Record, error) {
	return load(ctx, c.read)
}

// Save replaces the cache file. The document is written to a sibling temp file
// first and renamed over the target.
func (c *FileCache) Save(_ context.Context, records []models.Record) error {
	data, err := encodeDocument(records)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(c.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create cache directory: %w", err)
		}
	}

	tmpFile := c.path + tmpSuffix
	if err := os.WriteFile(tmpFile, data, filePermissions); err != nil {
		return fmt.Errorf("write holiday cache: %w", err)
	}
	if err := os.Rename(tmpFile, c.path); err != nil {
		_ = os.Remove(tmpFile)
		return fmt.Errorf("replace holiday cache: %w", err)
	}
	return nil
}

func (c *FileCache) read(_ context.Context) ([]byte, error) {
	data, err := os.ReadFile(c.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s does not exist", ErrInvalidCache, c.path)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", ErrInvalidCache, c.path, err)
	}
	return data, nil
}
