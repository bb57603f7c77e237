package config

import (
	"fmt"
	"sort"
	"time"

	"gitconf/internal/config/configfile"
	"gitconf/internal/config/filestore"

	"github.com/mitchellh/copystructure"
)

// Snapshot is a frozen copy of a store's merged state. It never reads the
// backends again, so later writes are not visible through it.
type Snapshot struct {
	created time.Time
	layers  []layer
	index   map[string][]Entry
}

// Snapshot copies the cached content of every backend, each under its
// backend mutex, and returns a view over the copies.
func (s *Store) Snapshot() (*Snapshot, error) {
	layers, err := s.layers(copyBackend)
	if err != nil {
		return nil, err
	}
	return &Snapshot{
		created: time.Now(),
		layers:  layers,
		index:   group(flatten(layers)),
	}, nil
}

// copyBackend deep-copies the backend's cached entries. The cache is shared
// with the backend and replaced by later writes, so the snapshot keeps only
// the copy.
func copyBackend(b *filestore.Backend) ([]configfile.Entry, error) {
	var entries []configfile.Entry
	err := b.View(func(cached []configfile.Entry) error {
		if len(cached) == 0 {
			return nil
		}
		copied, err := copystructure.Config{Lock: true}.Copy(cached)
		if err != nil {
			return fmt.Errorf("copying %s: %w", b, err)
		}
		var ok bool
		if entries, ok = copied.([]configfile.Entry); !ok {
			return fmt.Errorf("copying %s: got %T", b, copied)
		}
		return nil
	})
	return entries, err
}

// Created returns when the snapshot was taken.
func (sn *Snapshot) Created() time.Time { return sn.created }

// Get returns the value a Store.Get of key would have returned when the
// snapshot was taken.
func (sn *Snapshot) Get(key string) (string, bool) {
	k, err := configfile.NormalizeKey(key)
	if err != nil {
		return "", false
	}
	return resolve(sn.index[k])
}

// GetAll returns every value of key across all backends.
func (sn *Snapshot) GetAll(key string) []string {
	k, err := configfile.NormalizeKey(key)
	if err != nil {
		return []string{}
	}
	return valuesOf(sn.index[k])
}

// GetBool returns key interpreted as a boolean, or def when it is not set.
func (sn *Snapshot) GetBool(key string, def bool) (bool, error) {
	v, ok := sn.Get(key)
	if !ok {
		return def, nil
	}
	b, err := configfile.ParseBool(v)
	if err != nil {
		return def, fmt.Errorf("%s: %w", key, err)
	}
	return b, nil
}

// GetInt64 returns key interpreted as an integer, or def when it is not set.
func (sn *Snapshot) GetInt64(key string, def int64) (int64, error) {
	v, ok := sn.Get(key)
	if !ok {
		return def, nil
	}
	n, err := configfile.ParseInt(v)
	if err != nil {
		return def, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

// Keys returns the distinct keys in sorted order.
func (sn *Snapshot) Keys() []string {
	keys := make([]string, 0, len(sn.index))
	for k := range sn.index {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Entries returns every entry with its origin, highest priority backend
// first.
func (sn *Snapshot) Entries() []Entry {
	return flatten(sn.layers)
}

// Map returns the value Get reports for every key.
func (sn *Snapshot) Map() map[string]string {
	out := make(map[string]string, len(sn.index))
	for k, values := range sn.index {
		out[k], _ = resolve(values)
	}
	return out
}
