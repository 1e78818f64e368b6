// Package store persists syllabus and paper records as JSON documents keyed
// by collection and id. Implementations guarantee atomic writes: a reader
// never observes a partially written record.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"
)

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("record not found")

// RecordStore is the persistence contract used by the API layer.
type RecordStore interface {
	// Put stores record (any JSON-marshalable value) under collection/id,
	// replacing an existing record atomically.
	Put(ctx context.Context, collection, id string, record any) error
	// Get unmarshals the record at collection/id into dest.
	Get(ctx context.Context, collection, id string, dest any) error
	// List returns all records in a collection, ordered by id.
	List(ctx context.Context, collection string) ([]json.RawMessage, error)
	// Delete removes the record at collection/id. Deleting a missing record
	// returns ErrNotFound.
	Delete(ctx context.Context, collection, id string) error
}

// MemoryStore is an in-memory RecordStore for tests and development.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string]map[string]json.RawMessage
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		data: make(map[string]map[string]json.RawMessage),
	}
}

func (s *MemoryStore) Put(_ context.Context, collection, id string, record any) error {
	raw, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.data[collection] == nil {
		s.data[collection] = make(map[string]json.RawMessage)
	}
	s.data[collection][id] = raw
	return nil
}

func (s *MemoryStore) Get(_ context.Context, collection, id string, dest any) error {
	s.mu.RLock()
	raw, ok := s.data[collection][id]
	s.mu.RUnlock()
	if !ok {
		return ErrNotFound
	}
	return json.Unmarshal(raw, dest)
}

func (s *MemoryStore) List(_ context.Context, collection string) ([]json.RawMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records := s.data[collection]
	ids := make([]string, 0, len(records))
	for id := range records {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	out := make([]json.RawMessage, 0, len(ids))
	for _, id := range ids {
		out = append(out, records[id])
	}
	return out, nil
}

func (s *MemoryStore) Delete(_ context.Context, collection, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.data[collection][id]; !ok {
		return ErrNotFound
	}
	delete(s.data[collection], id)
	return nil
}
