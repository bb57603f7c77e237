// Package config implements a layered, file-backed git-style configuration
// store.
//
// A Store is an ordered stack of backends, highest priority first. Reads
// consult every backend: Get reports the last value of the first backend
// that defines a key, GetAll reports the values of every backend in stack
// order. Writes go to the first writable backend and are persisted before
// they return, unless a Transaction is open on the store.
//
// Snapshots freeze the merged state for isolated reads; Transactions batch
// edits under the backend's file lock and commit them atomically.
package config

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"gitconf/internal/config/configfile"
	"gitconf/internal/config/filestore"

	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-multierror"
)

// Store is a stack of config backends. It is safe for concurrent use.
type Store struct {
	backends []*filestore.Backend
	logger   hclog.Logger

	mu sync.Mutex
	tx *Transaction
}

// New builds a Store over backends, highest priority first, followed by a
// defaults backend when WithDefaults is given. Every backend is read once so
// that malformed files are reported here.
func New(backends []*filestore.Backend, opts ...Option) (*Store, error) {
	o := buildOptions(opts)
	if slices.Contains(backends, nil) {
		return nil, errors.New("config store given a nil backend")
	}

	stack := slices.Clone(backends)
	if len(o.defaults) > 0 {
		b, err := defaultsBackend(o)
		if err != nil {
			return nil, err
		}
		stack = append(stack, b)
	}
	if len(stack) == 0 {
		return nil, errors.New("config store needs at least one backend")
	}

	s := &Store{backends: stack, logger: o.logger}
	if _, err := s.entries(); err != nil {
		return nil, err
	}
	return s, nil
}

// Open returns a Store over the single file at path.
func Open(path string, opts ...Option) (*Store, error) {
	o := buildOptions(opts)
	return New([]*filestore.Backend{filestore.New(path, LevelLocal, o.backendOptions()...)}, opts...)
}

// Backends returns the backend stack, highest priority first.
func (s *Store) Backends() []*filestore.Backend {
	return slices.Clone(s.backends)
}

// Level returns a Store restricted to the backends at level l. It shares
// backends with s but not transactions: writes through it contend for the
// file lock like any other handle.
func (s *Store) Level(l Level) (*Store, error) {
	var picked []*filestore.Backend
	for _, b := range s.backends {
		if b.Level() == l {
			picked = append(picked, b)
		}
	}
	if len(picked) == 0 {
		return nil, fmt.Errorf("no %s config in store: %w", l, ErrNotFound)
	}
	return &Store{backends: picked, logger: s.logger.With("level", l.String())}, nil
}

// Get returns the value of key from the highest-priority backend defining
// it. Within that backend the last value wins.
func (s *Store) Get(key string) (string, bool, error) {
	k, err := configfile.NormalizeKey(key)
	if err != nil {
		return "", false, err
	}
	all, err := s.entries()
	if err != nil {
		return "", false, err
	}
	v, ok := resolve(filter(all, k))
	return v, ok, nil
}

// GetAll returns every value of key across all backends, in stack order and
// file order within each backend. A missing key yields an empty slice.
func (s *Store) GetAll(key string) ([]string, error) {
	k, err := configfile.NormalizeKey(key)
	if err != nil {
		return nil, err
	}
	all, err := s.entries()
	if err != nil {
		return nil, err
	}
	return valuesOf(filter(all, k)), nil
}

// GetBool returns key interpreted as a boolean, or def when it is not set.
func (s *Store) GetBool(key string, def bool) (bool, error) {
	v, ok, err := s.Get(key)
	if err != nil || !ok {
		return def, err
	}
	b, err := configfile.ParseBool(v)
	if err != nil {
		return def, fmt.Errorf("%s: %w", key, err)
	}
	return b, nil
}

// GetInt64 returns key interpreted as an integer, or def when it is not set.
func (s *Store) GetInt64(key string, def int64) (int64, error) {
	v, ok, err := s.Get(key)
	if err != nil || !ok {
		return def, err
	}
	n, err := configfile.ParseInt(v)
	if err != nil {
		return def, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

// Entries returns every entry of every backend with its origin.
func (s *Store) Entries() ([]Entry, error) {
	return s.entries()
}

// Set replaces the value of key in the writable backend, adding it when
// absent. It fails with ErrMultivarAmbiguous when key has several values
// there.
func (s *Store) Set(key, value string) error {
	return s.apply(OpSet, key, value)
}

// SetBool is Set with the canonical text of b.
func (s *Store) SetBool(key string, b bool) error {
	return s.Set(key, configfile.FormatBool(b))
}

// SetInt64 is Set with the decimal text of n.
func (s *Store) SetInt64(key string, n int64) error {
	return s.Set(key, configfile.FormatInt(n))
}

// Add appends a value for key in the writable backend, keeping existing
// values.
func (s *Store) Add(key, value string) error {
	return s.apply(OpAdd, key, value)
}

// AddBool is Add with the canonical text of b.
func (s *Store) AddBool(key string, b bool) error {
	return s.Add(key, configfile.FormatBool(b))
}

// AddInt64 is Add with the decimal text of n.
func (s *Store) AddInt64(key string, n int64) error {
	return s.Add(key, configfile.FormatInt(n))
}

// Delete removes the single value of key from the writable backend. It fails
// with ErrNotFound when key has no value or several values there; in the
// latter case the error also matches ErrMultivarAmbiguous.
func (s *Store) Delete(key string) error {
	return s.apply(OpDelete, key, "")
}

// DeleteAll removes every value of key from the writable backend.
func (s *Store) DeleteAll(key string) error {
	return s.apply(OpDeleteAll, key, "")
}

func (s *Store) apply(op EditOp, key, value string) error {
	e, err := newEdit(op, key, value)
	if err != nil {
		return err
	}

	if tx := s.currentTx(); tx != nil {
		return tx.record(e)
	}

	b, err := s.writable()
	if err != nil {
		return err
	}
	if err := b.Update(op.String()+" "+e.Key, e.apply); err != nil {
		return err
	}
	s.logger.Debug("config updated", "op", op.String(), "key", e.Key, "backend", b.String())
	return nil
}

// writable returns the highest-priority backend accepting writes.
func (s *Store) writable() (*filestore.Backend, error) {
	for _, b := range s.backends {
		if !b.ReadOnly() {
			return b, nil
		}
	}
	return nil, ErrNoWritableBackend
}

func (s *Store) currentTx() *Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tx
}

// entries reads every backend. The backend of an open transaction is read
// from the transaction's working copy.
func (s *Store) entries() ([]Entry, error) {
	layers, err := s.layers(func(b *filestore.Backend) ([]configfile.Entry, error) {
		return b.Load()
	})
	if err != nil {
		return nil, err
	}
	return flatten(layers), nil
}

// layers reads every backend with read, except the backend of an open
// transaction, which is read from the transaction's working copy. Failures
// of all backends are reported together.
func (s *Store) layers(read func(*filestore.Backend) ([]configfile.Entry, error)) ([]layer, error) {
	tx := s.currentTx()

	layers := make([]layer, 0, len(s.backends))
	var errs *multierror.Error
	for _, b := range s.backends {
		var (
			entries []configfile.Entry
			err     error
		)
		if tx != nil && tx.backend == b {
			entries = tx.working()
		} else {
			entries, err = read(b)
		}
		if err != nil {
			errs = multierror.Append(errs, err)
			continue
		}
		layers = append(layers, layer{level: b.Level(), path: b.Path(), entries: entries})
	}
	if err := errs.ErrorOrNil(); err != nil {
		return nil, err
	}
	return layers, nil
}
