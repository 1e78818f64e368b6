package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"
)

// FileStore keeps each collection in one JSON file: a map from record id to
// record body. Writes go to a temp file followed by an atomic rename, so a
// crash mid-write leaves the previous file intact. A file that fails to
// decode on load is quarantined (renamed aside with a timestamp) and the
// collection restarts empty; the last-known-good state stays on disk for
// manual recovery instead of crashing the store.
type FileStore struct {
	dir  string
	mu   sync.Mutex
	data map[string]map[string]json.RawMessage // loaded collections
	log  *slog.Logger
}

// NewFileStore creates a FileStore rooted at dir, creating it if needed.
func NewFileStore(dir string, log *slog.Logger) (*FileStore, error) {
	if log == nil {
		log = slog.Default()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}
	return &FileStore{
		dir:  dir,
		data: make(map[string]map[string]json.RawMessage),
		log:  log,
	}, nil
}

func (s *FileStore) Put(_ context.Context, collection, id string, record any) error {
	raw, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	coll, err := s.loadLocked(collection)
	if err != nil {
		return err
	}
	coll[id] = raw
	return s.persistLocked(collection, coll)
}

func (s *FileStore) Get(_ context.Context, collection, id string, dest any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	coll, err := s.loadLocked(collection)
	if err != nil {
		return err
	}
	raw, ok := coll[id]
	if !ok {
		return ErrNotFound
	}
	return json.Unmarshal(raw, dest)
}

func (s *FileStore) List(_ context.Context, collection string) ([]json.RawMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	coll, err := s.loadLocked(collection)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(coll))
	for id := range coll {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	out := make([]json.RawMessage, 0, len(ids))
	for _, id := range ids {
		out = append(out, coll[id])
	}
	return out, nil
}

func (s *FileStore) Delete(_ context.Context, collection, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	coll, err := s.loadLocked(collection)
	if err != nil {
		return err
	}
	if _, ok := coll[id]; !ok {
		return ErrNotFound
	}
	delete(coll, id)
	return s.persistLocked(collection, coll)
}

// loadLocked returns the collection map, reading it from disk on first use.
// Corrupt files are quarantined and replaced with an empty collection.
func (s *FileStore) loadLocked(collection string) (map[string]json.RawMessage, error) {
	if coll, ok := s.data[collection]; ok {
		return coll, nil
	}

	path := s.path(collection)
	coll := make(map[string]json.RawMessage)

	raw, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// New collection.
	case err != nil:
		return nil, fmt.Errorf("read collection %q: %w", collection, err)
	default:
		if err := json.Unmarshal(raw, &coll); err != nil {
			quarantine := filepath.Join(s.dir,
				fmt.Sprintf("%s.corrupt.%d.json", collection, time.Now().Unix()))
			if renameErr := os.Rename(path, quarantine); renameErr != nil {
				return nil, fmt.Errorf("quarantine corrupt collection %q: %w", collection, renameErr)
			}
			s.log.Warn("corrupt collection file quarantined",
				"collection", collection,
				"quarantined_to", quarantine,
				"error", err,
			)
			coll = make(map[string]json.RawMessage)
		}
	}

	s.data[collection] = coll
	return coll, nil
}

// persistLocked writes the collection to a temp file and renames it over the
// real one.
func (s *FileStore) persistLocked(collection string, coll map[string]json.RawMessage) error {
	raw, err := json.MarshalIndent(coll, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal collection %q: %w", collection, err)
	}

	path := s.path(collection)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return fmt.Errorf("write collection %q: %w", collection, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replace collection %q: %w", collection, err)
	}
	return nil
}

func (s *FileStore) path(collection string) string {
	return filepath.Join(s.dir, collection+".json")
}
