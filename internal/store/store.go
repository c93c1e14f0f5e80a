// Package store persists lists of records as pretty-printed JSON arrays.
//
// Writes go to a temporary file in the target's directory and are renamed
// over the target under an exclusive lock, so the target always holds the
// last committed list. Reads take a shared lock. A file that fails to parse
// is copied aside as <name>.corrupted.<YYYYMMDD_HHMMSS> and read as empty.
package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	apperrors "contacts-manager/internal/errors"
	"contacts-manager/internal/utils"
)

const quarantineLayout = "20060102_150405"

// Observer receives store events. The metrics collector implements it.
type Observer interface {
	ObserveLoad(path string, count int, err error)
	ObserveSave(path string, elapsed time.Duration, err error)
	ObserveQuarantine(path string)
}

type noopObserver struct{}

func (noopObserver) ObserveLoad(string, int, error)           {}
func (noopObserver) ObserveSave(string, time.Duration, error) {}
func (noopObserver) ObserveQuarantine(string)                 {}

type Options struct {
	// LockTimeout bounds the wait for the file lock. Zero means DefaultLockWait.
	LockTimeout time.Duration
	Observer    Observer
	// Now stamps quarantine copies. Defaults to time.Now.
	Now func() time.Time
}

// Store is a load/save gateway for one JSON list file. It keeps no state
// between calls and is safe for concurrent use.
type Store[T any] struct {
	path        string
	lockTimeout time.Duration
	observer    Observer
	now         func() time.Time
}

func New[T any](path string, opts Options) *Store[T] {
	s := &Store[T]{
		path:        path,
		lockTimeout: opts.LockTimeout,
		observer:    opts.Observer,
		now:         opts.Now,
	}
	if s.observer == nil {
		s.observer = noopObserver{}
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

func (s *Store[T]) Path() string {
	return s.path
}

// Exists reports whether the backing file is present.
func (s *Store[T]) Exists() bool {
	_, err := os.Stat(s.path)
	return err == nil
}

// Load returns the stored list. A missing file is an empty list. Every
// error Load returns is recoverable and comes with an empty, usable list:
// ErrStorageCorrupt after the file was quarantined, ErrNotAList for valid
// JSON of another shape, ErrStorageRead for I/O and lock failures.
func (s *Store[T]) Load() ([]T, error) {
	items, err := s.load()
	s.observer.ObserveLoad(s.path, len(items), err)
	return items, err
}

func (s *Store[T]) load() ([]T, error) {
	data, err := s.read()
	if errors.Is(err, fs.ErrNotExist) {
		return []T{}, nil
	}
	if err != nil {
		utils.LogError("Error loading %s: %v", s.path, err)
		return []T{}, apperrors.NewReadError(s.path, err)
	}

	items, err := decodeList[T](data)
	if err == nil {
		return items, nil
	}
	if errors.Is(err, apperrors.ErrNotAList) {
		utils.LogWarning("Data file %s does not hold a list, treating as empty", s.path)
		return []T{}, apperrors.NewNotAListError(s.path)
	}

	utils.LogError("JSON decode error in %s: %v", s.path, err)
	s.quarantine(data)
	return []T{}, apperrors.NewCorruptError(s.path, err)
}

func (s *Store[T]) read() ([]byte, error) {
	if _, err := os.Stat(s.path); err != nil {
		return nil, err
	}
	release, err := acquire(s.path, false, s.lockTimeout)
	if err != nil {
		return nil, err
	}
	defer release()
	return os.ReadFile(s.path)
}

func decodeList[T any](data []byte) ([]T, error) {
	if !json.Valid(data) {
		var probe interface{}
		return nil, json.Unmarshal(data, &probe)
	}
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, apperrors.ErrNotAList
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		return nil, err
	}
	items := make([]T, 0, len(raw))
	for i, r := range raw {
		var item T
		if err := json.Unmarshal(r, &item); err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		items = append(items, item)
	}
	return items, nil
}

// quarantine writes a verbatim copy of the unreadable content next to the
// original. The original is left in place. Failures are only logged.
func (s *Store[T]) quarantine(data []byte) {
	backup := fmt.Sprintf("%s.corrupted.%s", s.path, s.now().Format(quarantineLayout))
	mode := fs.FileMode(0o644)
	if info, err := os.Stat(s.path); err == nil {
		mode = info.Mode().Perm()
	}
	if err := os.WriteFile(backup, data, mode); err != nil {
		utils.LogError("Failed to backup corrupted file %s: %v", s.path, err)
		return
	}
	s.observer.ObserveQuarantine(s.path)
	utils.LogWarning("Corrupted file backed up as: %s", backup)
}

// Save replaces the stored list with items. On error the file keeps its
// previous content and no temporary file is left behind.
func (s *Store[T]) Save(items []T) (err error) {
	start := time.Now()
	defer func() {
		s.observer.ObserveSave(s.path, time.Since(start), err)
	}()

	if items == nil {
		items = []T{}
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), "."+filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return apperrors.NewStorageWriteError(s.path, err)
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			if rmErr := os.Remove(tmpName); rmErr != nil && !errors.Is(rmErr, fs.ErrNotExist) {
				utils.LogWarning("Error removing temp file %s: %v", tmpName, rmErr)
			}
		}
	}()

	if err = writeJSON(tmp, items); err != nil {
		tmp.Close()
		return apperrors.NewStorageWriteError(s.path, err)
	}
	if err = tmp.Close(); err != nil {
		return apperrors.NewStorageWriteError(s.path, err)
	}
	if err = os.Chmod(tmpName, s.fileMode()); err != nil {
		return apperrors.NewStorageWriteError(s.path, err)
	}

	release, err := acquire(s.path, true, s.lockTimeout)
	if err != nil {
		if !errors.Is(err, apperrors.ErrLockTimeout) {
			err = apperrors.NewStorageWriteError(s.path, err)
		}
		return err
	}
	defer release()

	if err = os.Rename(tmpName, s.path); err != nil {
		return apperrors.NewStorageWriteError(s.path, err)
	}
	return nil
}

func (s *Store[T]) fileMode() fs.FileMode {
	if info, err := os.Stat(s.path); err == nil {
		return info.Mode().Perm()
	}
	return 0o644
}

func writeJSON(f *os.File, v interface{}) error {
	enc := json.NewEncoder(f)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return err
	}
	return f.Sync()
}
