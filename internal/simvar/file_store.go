package simvar

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/sirupsen/logrus"
)

// FileStore is a MemoryStore persisted to a TOML file with a single [vars]
// table of integers. Every write saves the whole file.
type FileStore struct {
	*MemoryStore
	path   string
	logger *logrus.Logger
}

type fileContents struct {
	Vars map[string]int64 `toml:"vars"`
}

// OpenFileStore loads path if it exists; a missing file is an empty store.
func OpenFileStore(path string, logger *logrus.Logger) (*FileStore, error) {
	s := &FileStore{
		MemoryStore: NewMemoryStore(),
		path:        path,
		logger:      logger,
	}

	if err := s.Reload(); err != nil {
		return nil, err
	}

	return s, nil
}

// Path returns the backing file path
func (s *FileStore) Path() string {
	return s.path
}

// Reload replaces the in-memory variables with the file contents.
func (s *FileStore) Reload() error {
	var contents fileContents
	if _, err := toml.DecodeFile(s.path, &contents); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			s.logger.WithField("file", s.path).Debug("Store file doesn't exist, starting empty")
			s.replace(make(map[string]float64))
			return nil
		}
		return Error.Wrap(fmt.Errorf("load store %s: %w", s.path, err))
	}

	vars := make(map[string]float64, len(contents.Vars))
	for name, v := range contents.Vars {
		vars[name] = float64(v)
	}
	s.replace(vars)

	s.logger.WithFields(logrus.Fields{
		"file":      s.path,
		"variables": len(vars),
	}).Debug("Loaded store file")

	return nil
}

// WriteRaw stores the value and saves the file.
func (s *FileStore) WriteRaw(name string, text string) error {
	if err := s.MemoryStore.WriteRaw(name, text); err != nil {
		return err
	}
	return s.Save()
}

// Save writes all variables to the backing file, replacing it atomically.
func (s *FileStore) Save() error {
	contents := fileContents{Vars: make(map[string]int64)}
	for name, v := range s.snapshot() {
		contents.Vars[name] = int64(v)
	}

	if dir := filepath.Dir(s.path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return Error.Wrap(fmt.Errorf("failed to create store directory: %w", err))
		}
	}

	tmp := s.path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return Error.Wrap(fmt.Errorf("failed to create %s: %w", tmp, err))
	}

	if err := toml.NewEncoder(f).Encode(contents); err != nil {
		f.Close()
		os.Remove(tmp)
		return Error.Wrap(fmt.Errorf("failed to encode store: %w", err))
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return Error.Wrap(err)
	}

	if err := os.Rename(tmp, s.path); err != nil {
		return Error.Wrap(fmt.Errorf("failed to replace %s: %w", s.path, err))
	}

	s.logger.WithFields(logrus.Fields{
		"file":      s.path,
		"variables": len(contents.Vars),
	}).Debug("Saved store file")

	return nil
}
