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

// TxState is the lifecycle state of a Transaction.
type TxState int

const (
	TxOpen TxState = iota
	TxCommitted
	TxAborted
)

func (s TxState) String() string {
	switch s {
	case TxOpen:
		return "open"
	case TxCommitted:
		return "committed"
	case TxAborted:
		return "aborted"
	}
	return fmt.Sprintf("TxState(%d)", int(s))
}

// Transaction batches edits to a store's writable backend. It holds the
// backend's exclusive lock from Begin until Commit or Rollback, so other
// writers wait and other handles keep reading the committed file.
//
// While a transaction is open, reads and writes through its Store go through
// the transaction.
type Transaction struct {
	store   *Store
	backend *filestore.Backend
	lock    *filestore.Lock
	logger  hclog.Logger

	mu      sync.Mutex
	state   TxState
	entries []configfile.Entry // committed content with edits applied
	edits   []Edit
}

// Begin opens a transaction on the store's writable backend, waiting for the
// backend lock up to the lock timeout. A second Begin, on this store or any
// other handle of the same file, waits for the open transaction to finish
// and fails with a *LockError (matching ErrLocked) when the timeout passes
// first. Calling Begin again from the goroutine that holds the open
// transaction therefore always ends in that error.
func (s *Store) Begin() (*Transaction, error) {
	b, err := s.writable()
	if err != nil {
		return nil, err
	}
	lock, err := b.Lock("transaction")
	if err != nil {
		return nil, err
	}
	entries, err := lock.Load()
	if err != nil {
		lock.Release()
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.tx != nil {
		// Only reachable when the stack changed writable backend under us.
		lock.Release()
		return nil, ErrTransactionInProgress
	}

	tx := &Transaction{
		store:   s,
		backend: b,
		lock:    lock,
		logger:  s.logger.With("tx", lock.ID()),
		entries: entries,
	}
	s.tx = tx
	tx.logger.Debug("transaction started", "backend", b.String())
	return tx, nil
}

// WithTransaction runs fn inside a transaction. The transaction is committed
// when fn returns nil and rolled back when fn returns an error or panics.
// A panic is re-raised after the rollback.
func (s *Store) WithTransaction(fn func(tx *Transaction) error) error {
	tx, err := s.Begin()
	if err != nil {
		return err
	}

	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	if err := fn(tx); err != nil {
		if rerr := tx.Rollback(); rerr != nil && !errors.Is(rerr, ErrTransactionDone) {
			return multierror.Append(err, rerr)
		}
		return err
	}

	if err := tx.Commit(); err != nil && !errors.Is(err, ErrTransactionDone) {
		return err
	}
	return nil
}

// ID returns the identifier of the lock held by the transaction.
func (tx *Transaction) ID() string { return tx.lock.ID() }

// State returns the lifecycle state.
func (tx *Transaction) State() TxState {
	tx.mu.Lock()
	defer tx.mu.Unlock()
	return tx.state
}

// Edits returns the pending edits in the order they were made.
func (tx *Transaction) Edits() []Edit {
	tx.mu.Lock()
	defer tx.mu.Unlock()
	return slices.Clone(tx.edits)
}

// Get reads key through the owning store, seeing pending edits.
func (tx *Transaction) Get(key string) (string, bool, error) {
	if err := tx.checkOpen(); err != nil {
		return "", false, err
	}
	return tx.store.Get(key)
}

// GetAll reads every value of key through the owning store, seeing pending
// edits.
func (tx *Transaction) GetAll(key string) ([]string, error) {
	if err := tx.checkOpen(); err != nil {
		return nil, err
	}
	return tx.store.GetAll(key)
}

func (tx *Transaction) Set(key, value string) error { return tx.do(OpSet, key, value) }

func (tx *Transaction) Add(key, value string) error { return tx.do(OpAdd, key, value) }

func (tx *Transaction) Delete(key string) error { return tx.do(OpDelete, key, "") }

func (tx *Transaction) DeleteAll(key string) error { return tx.do(OpDeleteAll, key, "") }

func (tx *Transaction) do(op EditOp, key, value string) error {
	e, err := newEdit(op, key, value)
	if err != nil {
		return err
	}
	return tx.record(e)
}

// record applies e to the working copy. An edit that fails leaves the
// working copy and the edit list unchanged.
func (tx *Transaction) record(e Edit) error {
	tx.mu.Lock()
	defer tx.mu.Unlock()
	if tx.state != TxOpen {
		return ErrTransactionDone
	}

	next, err := e.apply(tx.entries)
	if err != nil {
		return err
	}
	tx.entries = next
	tx.edits = append(tx.edits, e)
	tx.logger.Trace("edit recorded", "op", e.Op.String(), "key", e.Key)
	return nil
}

// working returns a copy of the committed content with pending edits
// applied.
func (tx *Transaction) working() []configfile.Entry {
	tx.mu.Lock()
	defer tx.mu.Unlock()
	return slices.Clone(tx.entries)
}

// Commit persists the pending edits in one write and releases the lock. A
// transaction without edits does not touch the file. If the write fails the
// file is unchanged and the transaction ends aborted.
func (tx *Transaction) Commit() error {
	tx.mu.Lock()
	defer tx.mu.Unlock()
	if tx.state != TxOpen {
		return ErrTransactionDone
	}

	if len(tx.edits) > 0 {
		if err := tx.lock.Write(tx.entries); err != nil {
			tx.finish(TxAborted)
			return fmt.Errorf("committing transaction: %w", err)
		}
	}
	return tx.finish(TxCommitted)
}

// Rollback discards the pending edits and releases the lock.
func (tx *Transaction) Rollback() error {
	tx.mu.Lock()
	defer tx.mu.Unlock()
	if tx.state != TxOpen {
		return ErrTransactionDone
	}
	return tx.finish(TxAborted)
}

// finish must be called with tx.mu held.
func (tx *Transaction) finish(state TxState) error {
	tx.state = state
	err := tx.lock.Release()

	s := tx.store
	s.mu.Lock()
	if s.tx == tx {
		s.tx = nil
	}
	s.mu.Unlock()

	tx.logger.Debug("transaction finished", "state", state.String(), "edits", len(tx.edits))
	return err
}

func (tx *Transaction) checkOpen() error {
	if tx.State() != TxOpen {
		return ErrTransactionDone
	}
	return nil
}
