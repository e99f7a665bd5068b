package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

// Store persists one JSON document in a single file, by default
//
//	$TMPDIR/.<uid>.system-graph
//
// Writes are atomic: the document is written to a temp file next to the
// target and renamed over it.
type Store struct {
	path   string
	logger *slog.Logger
}

// NewStore creates a store for the file at path. The parent directory is
// created with 0700 permissions if it does not exist.
func NewStore(path string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("cache: create directory for %s: %w", path, err)
	}
	return &Store{path: path, logger: logger}, nil
}

// Path returns the file the store reads and writes.
func (s *Store) Path() string { return s.path }

// Load reads the stored document. If the file does not exist, it returns
// nil, nil. Files that do not hold valid JSON are removed and treated as
// missing.
func (s *Store) Load() (json.RawMessage, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("cache: read %s: %w", s.path, err)
	}

	if !json.Valid(data) {
		s.logger.Warn("cache: removing corrupted file", slog.String("path", s.path))
		_ = os.Remove(s.path)
		return nil, nil
	}
	return json.RawMessage(data), nil
}

// Save writes v to the store with an atomic write (write to temp file,
// then rename), so a reader never sees a partial document.
func (s *Store) Save(v interface{}) error {
	encoded, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("cache: marshal %s: %w", s.path, err)
	}

	dir, base := filepath.Split(s.path)
	if dir == "" {
		dir = "."
	}
	tmp, err := os.CreateTemp(dir, ".tmp-"+base+"-*")
	if err != nil {
		return fmt.Errorf("cache: create temp for %s: %w", s.path, err)
	}
	tmpName := tmp.Name()

	// Clean up the temp file on any failure path.
	success := false
	defer func() {
		if !success {
			_ = os.Remove(tmpName)
		}
	}()

	if err := os.Chmod(tmpName, 0600); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("cache: chmod temp for %s: %w", s.path, err)
	}

	if _, err := tmp.Write(encoded); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("cache: write temp for %s: %w", s.path, err)
	}

	if err := tmp.Close(); err != nil {
		return fmt.Errorf("cache: close temp for %s: %w", s.path, err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("cache: rename temp for %s: %w", s.path, err)
	}

	success = true
	return nil
}

// LoadTyped reads and unmarshals the stored document into T. It returns
// nil if there is no usable document; a document that does not fit T is
// removed.
func LoadTyped[T any](s *Store) (*T, error) {
	raw, err := s.Load()
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, nil
	}

	var result T
	if err := json.Unmarshal(raw, &result); err != nil {
		s.logger.Warn("cache: removing file with unmarshal error",
			slog.String("path", s.path),
			slog.String("error", err.Error()),
		)
		_ = os.Remove(s.path)
		return nil, nil
	}
	return &result, nil
}

// SaveTyped marshals and stores a value of type T.
func SaveTyped[T any](s *Store, data *T) error {
	return s.Save(data)
}

// Age returns how long ago the document was last written, based on the
// file modification time. It returns 0 if there is no document.
func (s *Store) Age() time.Duration {
	info, err := os.Stat(s.path)
	if err != nil {
		return 0
	}
	return time.Since(info.ModTime())
}

// Clear removes the stored document. A missing file is not an error.
func (s *Store) Clear() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("cache: remove %s: %w", s.path, err)
	}
	return nil
}
