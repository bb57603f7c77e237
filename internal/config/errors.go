package config

import (
	"errors"

	"gitconf/internal/config/configfile"
	"gitconf/internal/config/filestore"
)

var (
	// ErrNotFound is returned when a key has no value where one is required,
	// or when a single-value operation meets the wrong number of values.
	ErrNotFound = errors.New("config value not found")

	// ErrMultivarAmbiguous is returned when a single-value operation targets
	// a key holding several values. Use Add, DeleteAll or GetAll instead.
	ErrMultivarAmbiguous = errors.New("config key has multiple values")

	// ErrNoWritableBackend is returned when every backend is read-only.
	ErrNoWritableBackend = errors.New("config has no writable backend")

	// ErrTransactionDone is returned when using a committed or rolled back
	// transaction.
	ErrTransactionDone = errors.New("transaction already finished")

	// ErrTransactionInProgress is returned by Begin when it gets the lock
	// but finds the store already bound to another transaction.
	ErrTransactionInProgress = errors.New("transaction already open")

	ErrInvalidKey   = configfile.ErrInvalidKey
	ErrInvalidValue = configfile.ErrInvalidValue
	ErrLocked       = filestore.ErrLocked
	ErrReadOnly     = filestore.ErrReadOnly
)

type (
	ParseError = configfile.ParseError
	LockError  = filestore.LockError
)
