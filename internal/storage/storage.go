// Package storage persists relay state (channel sessions, blacklist, hunted
// users, command history) through the datastore JSON key/value store. Whole
// collections live under fixed keys and are rewritten on change; the
// datastore handles atomic writes, autosave and backups.
package storage

import (
	"encoding/json"
	"fmt"

	"github.com/keshon/datastore"
)

type Storage struct {
	ds *datastore.DataStore
}

func New(filePath string) (*Storage, error) {
	ds, err := datastore.New(filePath)
	if err != nil {
		return nil, err
	}
	return &Storage{ds: ds}, nil
}

func (s *Storage) Close() error {
	return s.ds.Close()
}

// load decodes the value under key into out. Returns false when the key has
// never been written.
func (s *Storage) load(key string, out any) (bool, error) {
	data, exists := s.ds.Get(key)
	if !exists {
		return false, nil
	}

	jsonData, err := json.Marshal(data)
	if err != nil {
		return false, fmt.Errorf("error marshalling data: %w", err)
	}
	if err := json.Unmarshal(jsonData, out); err != nil {
		return false, fmt.Errorf("error unmarshalling %q: %w", key, err)
	}
	return true, nil
}
