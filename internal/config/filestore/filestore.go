// Package filestore binds one config file to a precedence level.
//
// Reads re-read the file on every Load so that writes made through other
// handles or processes are observed. Writes take an exclusive advisory lock
// on "<path>.flock", re-read the file under the lock, and replace it
// atomically via a temporary file and rename, so readers never see a
// partially written file. The lock file is left in place after release:
// removing it would let a writer still waiting on the old file and a new
// writer on a fresh one both believe they hold the lock.
//
// A Backend created with NewMemory has no file; its entries live in memory
// and are lost with the process. It is used for environment overrides,
// defaults and tests.
package filestore

import (
	"bytes"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"gitconf/internal/config/configfile"

	"github.com/hashicorp/go-hclog"
)

// DefaultLockTimeout bounds how long Lock waits for a contended lock.
const DefaultLockTimeout = 5 * time.Second

const lockRetryInterval = 10 * time.Millisecond

var errWouldBlock = errors.New("lock would block")

// Backend is one config file (or in-memory entry list) at a given level.
// It is safe for concurrent use.
type Backend struct {
	path        string
	level       Level
	readOnly    bool
	lockTimeout time.Duration
	logger      hclog.Logger

	mu      sync.Mutex
	raw     []byte // file content behind cached
	cached  []configfile.Entry
	memLock chan struct{}
	holder  *LockInfo // current holder of memLock
}

// Option configures a Backend.
type Option func(*Backend)

// WithLogger sets the logger used for lock and persistence tracing.
func WithLogger(logger hclog.Logger) Option {
	return func(b *Backend) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// WithLockTimeout sets how long a writer waits for the lock before failing
// with a LockError.
func WithLockTimeout(d time.Duration) Option {
	return func(b *Backend) {
		if d > 0 {
			b.lockTimeout = d
		}
	}
}

// WithReadOnly marks the backend as read-only. Stores skip read-only
// backends when choosing where to write.
func WithReadOnly() Option {
	return func(b *Backend) {
		b.readOnly = true
	}
}

// New returns a Backend for the file at path. The file does not need to
// exist; a missing file reads as empty and is created on the first write.
func New(path string, level Level, opts ...Option) *Backend {
	b := &Backend{
		path:        path,
		level:       level,
		lockTimeout: DefaultLockTimeout,
		logger:      hclog.NewNullLogger(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// NewMemory returns a Backend without a file, seeded with entries.
func NewMemory(level Level, entries []configfile.Entry, opts ...Option) *Backend {
	b := New("", level, opts...)
	b.cached = slices.Clone(entries)
	b.memLock = make(chan struct{}, 1)
	return b
}

// Path returns the file path, or "" for an in-memory backend.
func (b *Backend) Path() string { return b.path }

// Level returns the precedence level of the backend.
func (b *Backend) Level() Level { return b.level }

// ReadOnly reports whether writes to the backend are refused.
func (b *Backend) ReadOnly() bool { return b.readOnly }

func (b *Backend) inMemory() bool { return b.path == "" }

func (b *Backend) String() string {
	if b.inMemory() {
		return b.level.String() + " (memory)"
	}
	return b.level.String() + " " + b.path
}

// Load returns the current entries. A missing file yields no entries and no
// error. The returned slice belongs to the caller.
func (b *Backend) Load() ([]configfile.Entry, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	entries, err := b.refresh()
	if err != nil {
		return nil, err
	}
	return slices.Clone(entries), nil
}

// View refreshes the backend like Load and calls fn with the cached entries
// while holding the backend mutex, so no write lands during fn. fn must not
// modify the slice or keep it after returning.
func (b *Backend) View(fn func([]configfile.Entry) error) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	entries, err := b.refresh()
	if err != nil {
		return err
	}
	return fn(entries)
}

// refresh re-reads the file when its content changed and returns the cached
// entries. b.mu must be held.
func (b *Backend) refresh() ([]configfile.Entry, error) {
	if b.inMemory() {
		return b.cached, nil
	}

	raw, err := os.ReadFile(b.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			b.raw, b.cached = nil, nil
			return nil, nil
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if b.cached != nil && bytes.Equal(raw, b.raw) {
		return b.cached, nil
	}

	entries, err := configfile.Parse(raw)
	if err != nil {
		var perr *configfile.ParseError
		if errors.As(err, &perr) {
			perr.Path = b.path
		}
		return nil, err
	}
	b.logger.Trace("config file loaded", "path", b.path, "entries", len(entries))

	b.raw, b.cached = raw, entries
	return entries, nil
}

// Persist replaces the backend content with entries under the exclusive lock.
func (b *Backend) Persist(entries []configfile.Entry) error {
	return b.Update("persist", func([]configfile.Entry) ([]configfile.Entry, error) {
		return entries, nil
	})
}

// Update acquires the lock, re-reads the file (picking up writes from other
// processes), calls fn with the current entries and writes back whatever fn
// returns. When fn fails nothing is written.
func (b *Backend) Update(operation string, fn func([]configfile.Entry) ([]configfile.Entry, error)) error {
	l, err := b.Lock(operation)
	if err != nil {
		return err
	}
	defer l.Release()

	current, err := l.Load()
	if err != nil {
		return err
	}
	next, err := fn(current)
	if err != nil {
		return err
	}
	return l.Write(next)
}

// Lock acquires the exclusive lock on the backend, waiting at most the lock
// timeout. The caller must Release the returned lock.
func (b *Backend) Lock(operation string) (*Lock, error) {
	if b.readOnly {
		return nil, fmt.Errorf("%s: %w", b, ErrReadOnly)
	}

	info := &LockInfo{
		ID:        newLockID(),
		Operation: operation,
		Who:       lockOwner(),
		Created:   time.Now().UTC(),
	}

	if b.inMemory() {
		return b.lockMemory(info)
	}
	return b.lockFile(info)
}

func (b *Backend) lockMemory(info *LockInfo) (*Lock, error) {
	timer := time.NewTimer(b.lockTimeout)
	defer timer.Stop()

	select {
	case b.memLock <- struct{}{}:
	case <-timer.C:
		b.mu.Lock()
		holder := b.holder
		b.mu.Unlock()
		return nil, &LockError{Path: b.String(), Waited: b.lockTimeout, Holder: holder}
	}

	b.mu.Lock()
	b.holder = info
	b.mu.Unlock()
	return &Lock{backend: b, info: info}, nil
}

func (b *Backend) lockFile(info *LockInfo) (*Lock, error) {
	if err := os.MkdirAll(filepath.Dir(b.path), 0755); err != nil {
		return nil, fmt.Errorf("creating config directory: %w", err)
	}

	lockPath := b.lockPath()
	f, err := os.OpenFile(lockPath, os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return nil, fmt.Errorf("opening config lock: %w", err)
	}

	start := time.Now()
	deadline := start.Add(b.lockTimeout)
	for {
		err := tryLock(f)
		if err == nil {
			break
		}
		if !errors.Is(err, errWouldBlock) {
			f.Close()
			return nil, fmt.Errorf("acquiring config lock: %w", err)
		}
		if time.Now().After(deadline) {
			holder := readLockInfo(lockPath)
			f.Close()
			b.logger.Debug("config lock timed out", "path", b.path, "waited", time.Since(start))
			return nil, &LockError{Path: b.path, Waited: b.lockTimeout, Holder: holder}
		}
		time.Sleep(lockRetryInterval)
	}

	writeLockInfo(f, info)
	b.logger.Trace("config lock acquired", "path", b.path, "lock", info.ID,
		"operation", info.Operation, "waited", time.Since(start))
	return &Lock{backend: b, info: info, file: f}, nil
}

// lockPath returns the path to the lock file used for flock-based coordination.
// Git treats an existing "<path>.lock" as a held lock, so the name differs.
func (b *Backend) lockPath() string {
	return b.path + ".flock"
}

// Lock is an exclusive hold on a Backend.
type Lock struct {
	backend *Backend
	info    *LockInfo
	file    *os.File

	mu       sync.Mutex
	released bool
}

// ID returns the lock identifier recorded in the lock file.
func (l *Lock) ID() string { return l.info.ID }

// Load reads the backend while holding the lock. Since every writer takes
// the same lock, the result stays current until Release.
func (l *Lock) Load() ([]configfile.Entry, error) {
	if l.isReleased() {
		return nil, ErrLockReleased
	}
	return l.backend.Load()
}

// Write replaces the backend content with entries.
func (l *Lock) Write(entries []configfile.Entry) error {
	if l.isReleased() {
		return ErrLockReleased
	}

	b := l.backend
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.inMemory() {
		b.cached = slices.Clone(entries)
		return nil
	}

	raw := configfile.Serialize(entries)
	if err := atomicWrite(b.path, raw); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	b.raw, b.cached = raw, slices.Clone(entries)
	b.logger.Trace("config file written", "path", b.path, "lock", l.info.ID, "entries", len(entries))
	return nil
}

// Release gives up the lock. It is safe to call more than once.
func (l *Lock) Release() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.released {
		return nil
	}
	l.released = true

	b := l.backend
	if b.inMemory() {
		b.mu.Lock()
		b.holder = nil
		b.mu.Unlock()
		<-b.memLock
		return nil
	}

	l.file.Truncate(0)
	err := unlock(l.file)
	if cerr := l.file.Close(); err == nil {
		err = cerr
	}
	b.logger.Trace("config lock released", "path", b.path, "lock", l.info.ID)
	if err != nil {
		return fmt.Errorf("releasing config lock: %w", err)
	}
	return nil
}

func (l *Lock) isReleased() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.released
}

// atomicWrite writes data to a file atomically via a temporary file and
// rename. An existing file keeps its permission bits; a new one gets 0644.
func atomicWrite(path string, data []byte) error {
	mode := fs.FileMode(0644)
	if fi, err := os.Stat(path); err == nil {
		mode = fi.Mode().Perm()
	} else if !errors.Is(err, fs.ErrNotExist) {
		return err
	}

	randBytes := make([]byte, 8)
	if _, err := rand.Read(randBytes); err != nil {
		return fmt.Errorf("generating random suffix: %w", err)
	}
	tmp := path + ".tmp." + hex.EncodeToString(randBytes)

	if err := os.WriteFile(tmp, data, mode); err != nil {
		return err
	}
	// The umask applied at creation may have cleared bits the original had.
	if err := os.Chmod(tmp, mode); err != nil {
		os.Remove(tmp)
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp) // best effort cleanup
		return err
	}
	return nil
}
