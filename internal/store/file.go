package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// fileDoc is the on-disk layout: date -> user -> record.
type fileDoc map[string]map[string]Record

// FileStore keeps all completions in one JSON document.
type FileStore struct {
	path   string
	logger *slog.Logger
	mu     sync.Mutex
}

// NewFileStore returns a store backed by the JSON file at path. The file
// and its directory are created on first save.
func NewFileStore(path string, logger *slog.Logger) *FileStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileStore{path: path, logger: logger}
}

// Path returns the backing file location.
func (s *FileStore) Path() string {
	return s.path
}

// load reads the document. A missing file is empty; an unreadable one is
// logged and treated as empty.
func (s *FileStore) load() fileDoc {
	b, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			s.logger.Warn("Completion file unreadable, starting empty", "path", s.path, "error", err)
		}
		return fileDoc{}
	}
	doc := fileDoc{}
	if err := json.Unmarshal(b, &doc); err != nil {
		s.logger.Warn("Completion file corrupt, starting empty", "path", s.path, "error", err)
		return fileDoc{}
	}
	return doc
}

// write replaces the document atomically via a temp file and rename.
func (s *FileStore) write(doc fileDoc) error {
	b, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode completions: %w", err)
	}
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, ".completions-*.json")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replace %s: %w", s.path, err)
	}
	return nil
}

func (s *FileStore) Save(_ context.Context, rec Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc := s.load()
	if doc[rec.Date] == nil {
		doc[rec.Date] = map[string]Record{}
	}
	doc[rec.Date][rec.UserID] = rec
	return s.write(doc)
}

func (s *FileStore) Create(_ context.Context, rec Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc := s.load()
	if _, ok := doc[rec.Date][rec.UserID]; ok {
		return ErrAlreadyCompleted
	}
	if doc[rec.Date] == nil {
		doc[rec.Date] = map[string]Record{}
	}
	doc[rec.Date][rec.UserID] = rec
	return s.write(doc)
}

func (s *FileStore) Get(_ context.Context, date, userID string) (Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.load()[date][userID]
	if !ok {
		return Record{}, ErrNotFound
	}
	rec.Date, rec.UserID = date, userID
	return rec, nil
}

func (s *FileStore) HasCompleted(ctx context.Context, date, userID string) (bool, error) {
	_, err := s.Get(ctx, date, userID)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	return err == nil, err
}

func (s *FileStore) Prune(_ context.Context, r Retention, now time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc := s.load()
	removed := 0
	for date, users := range doc {
		if r.Keep(date, now) {
			continue
		}
		removed += len(users)
		delete(doc, date)
	}
	if removed == 0 {
		return 0, nil
	}
	if err := s.write(doc); err != nil {
		return 0, err
	}
	return removed, nil
}

// HealthCheck verifies the store directory exists or can be created.
func (s *FileStore) HealthCheck(_ context.Context) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("store directory %s: %w", dir, err)
	}
	return nil
}
