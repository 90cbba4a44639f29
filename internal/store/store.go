// Package store holds the portal's authoritative in-process state: a set of
// named keys mapping to raw JSON values, persisted to a single state file.
// Every domain operation reads and writes this store synchronously; the
// syncer mirrors writes to the remote backend after the fact.
package store

import (
	"encoding/json"
	"errors"
	"log"
	"os"
	"path/filepath"
	"sync"
)

// SchemaVersionKey holds the migration marker. It is deliberately not part of
// the synced collection set.
const SchemaVersionKey = "acportal_schema_version"

type Store struct {
	mu      sync.RWMutex
	data    map[string]json.RawMessage
	path    string // empty means in-memory only
	onWrite func(key string, value []byte)
}

// Open loads the state file at path, or starts empty if it does not exist.
// An empty path keeps the store purely in memory (tests use this).
func Open(path string) (*Store, error) {
	s := &Store{data: map[string]json.RawMessage{}, path: path}
	if path == "" {
		return s, nil
	}
	raw, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(raw, &s.data); err != nil {
		return nil, err
	}
	return s, nil
}

// SetOnWrite installs the hook invoked after every Set. The syncer installs
// it once live sync is enabled; before that, writes are local-only.
func (s *Store) SetOnWrite(fn func(key string, value []byte)) {
	s.mu.Lock()
	s.onWrite = fn
	s.mu.Unlock()
}

// Get returns the raw JSON stored under key.
func (s *Store) Get(key string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.data[key]
	if !ok {
		return nil, false
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, true
}

// Set stores value under key, persists the state file and fires the write
// hook. The local write is complete before the hook runs; hook failures can
// never affect it.
func (s *Store) Set(key string, value []byte) {
	s.mu.Lock()
	s.data[key] = append(json.RawMessage(nil), value...)
	s.persistLocked()
	hook := s.onWrite
	s.mu.Unlock()
	if hook != nil {
		hook(key, value)
	}
}

// Restore stores value without firing the write hook. Hydration uses it so
// that pulling remote state does not immediately push it back.
func (s *Store) Restore(key string, value []byte) {
	s.mu.Lock()
	s.data[key] = append(json.RawMessage(nil), value...)
	s.persistLocked()
	s.mu.Unlock()
}

// Delete removes a key entirely.
func (s *Store) Delete(key string) {
	s.mu.Lock()
	delete(s.data, key)
	s.persistLocked()
	s.mu.Unlock()
}

// Snapshot returns the current value of every requested key that is present.
func (s *Store) Snapshot(keys []string) map[string]json.RawMessage {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]json.RawMessage, len(keys))
	for _, key := range keys {
		if v, ok := s.data[key]; ok {
			out[key] = append(json.RawMessage(nil), v...)
		}
	}
	return out
}

// persistLocked writes the full state file. Failures are logged, never
// propagated: the in-memory store stays authoritative.
func (s *Store) persistLocked() {
	if s.path == "" {
		return
	}
	raw, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		log.Printf("store: marshal state: %v", err)
		return
	}
	tmp := s.path + ".tmp"
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil && filepath.Dir(s.path) != "." {
		log.Printf("store: create state dir: %v", err)
		return
	}
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		log.Printf("store: write state: %v", err)
		return
	}
	if err := os.Rename(tmp, s.path); err != nil {
		log.Printf("store: replace state: %v", err)
	}
}

// Load unmarshals the collection stored under key. A missing key or
// unparsable value yields an empty slice, mirroring the lenient reads the
// domain layer expects.
func Load[T any](s *Store, key string) []T {
	raw, ok := s.Get(key)
	if !ok {
		return []T{}
	}
	var out []T
	if err := json.Unmarshal(raw, &out); err != nil || out == nil {
		return []T{}
	}
	return out
}

// Save marshals records and stores them under key.
func Save[T any](s *Store, key string, records []T) {
	if records == nil {
		records = []T{}
	}
	raw, err := json.Marshal(records)
	if err != nil {
		log.Printf("store: marshal %s: %v", key, err)
		return
	}
	s.Set(key, raw)
}
