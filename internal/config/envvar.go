package config

import (
	"fmt"
	"strconv"

	"gitconf/internal/config/configfile"
	"gitconf/internal/config/filestore"

	"github.com/hashicorp/go-multierror"
)

// Environment variables that inject config values. GITCONF_CONFIG_COUNT
// gives the number of pairs; GITCONF_CONFIG_KEY_<n> and
// GITCONF_CONFIG_VALUE_<n> give each pair, numbered from zero.
const (
	EnvConfigCount       = "GITCONF_CONFIG_COUNT"
	EnvConfigKeyPrefix   = "GITCONF_CONFIG_KEY_"
	EnvConfigValuePrefix = "GITCONF_CONFIG_VALUE_"

	// EnvLog sets the CLI log level.
	EnvLog = "GITCONF_LOG"
)

// EnvEntries reads the injected pairs. Values are not persisted anywhere.
func EnvEntries(getenv func(string) string) ([]configfile.Entry, error) {
	raw := getenv(EnvConfigCount)
	if raw == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return nil, fmt.Errorf("%s: bad count %q: %w", EnvConfigCount, raw, ErrInvalidValue)
	}

	var errs *multierror.Error
	entries := make([]configfile.Entry, 0, n)
	for i := 0; i < n; i++ {
		name := EnvConfigKeyPrefix + strconv.Itoa(i)
		key := getenv(name)
		if key == "" {
			errs = multierror.Append(errs, fmt.Errorf("%s: missing config key", name))
			continue
		}
		k, err := configfile.ParseKey(key)
		if err != nil {
			errs = multierror.Append(errs, fmt.Errorf("%s: %w", name, err))
			continue
		}
		entries = append(entries, configfile.Entry{
			Key:   k,
			Value: getenv(EnvConfigValuePrefix + strconv.Itoa(i)),
		})
	}
	if err := errs.ErrorOrNil(); err != nil {
		return nil, err
	}
	return entries, nil
}

func envBackend(o options) (*filestore.Backend, error) {
	entries, err := EnvEntries(o.getenv)
	if err != nil || len(entries) == 0 {
		return nil, err
	}
	return filestore.NewMemory(LevelEnv, entries,
		filestore.WithReadOnly(), filestore.WithLogger(o.logger)), nil
}
