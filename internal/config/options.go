package config

import (
	"os"
	"time"

	"gitconf/internal/config/filestore"

	"github.com/hashicorp/go-hclog"
)

type options struct {
	logger      hclog.Logger
	lockTimeout time.Duration
	defaults    map[string]string
	getenv      func(string) string
}

// Option configures a Store.
type Option func(*options)

// WithLogger sets the logger for the store and the backends it creates.
func WithLogger(logger hclog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithLockTimeout bounds how long writes and Begin wait for a file lock on
// backends the store creates.
func WithLockTimeout(d time.Duration) Option {
	return func(o *options) {
		o.lockTimeout = d
	}
}

// WithDefaults adds a read-only, lowest-priority in-memory backend holding
// values.
func WithDefaults(values map[string]string) Option {
	return func(o *options) {
		o.defaults = values
	}
}

// WithEnv sets the function used to read environment variables. It defaults
// to os.Getenv.
func WithEnv(getenv func(string) string) Option {
	return func(o *options) {
		if getenv != nil {
			o.getenv = getenv
		}
	}
}

func buildOptions(opts []Option) options {
	o := options{
		logger:      hclog.NewNullLogger(),
		lockTimeout: filestore.DefaultLockTimeout,
		getenv:      os.Getenv,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func (o options) backendOptions(extra ...filestore.Option) []filestore.Option {
	return append([]filestore.Option{
		filestore.WithLogger(o.logger),
		filestore.WithLockTimeout(o.lockTimeout),
	}, extra...)
}
