package config

import (
	"fmt"
	"sort"

	"gitconf/internal/config/configfile"
	"gitconf/internal/config/filestore"

	"github.com/hashicorp/go-multierror"
)

// DefaultValues returns the built-in values the CLI falls back to.
func DefaultValues() map[string]string {
	return map[string]string{
		"core.bare":                    "false",
		"core.filemode":                "true",
		"core.logallrefupdates":        "true",
		"core.repositoryformatversion": "0",
	}
}

// defaultsBackend holds o.defaults in key order.
func defaultsBackend(o options) (*filestore.Backend, error) {
	keys := make([]string, 0, len(o.defaults))
	for k := range o.defaults {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var errs *multierror.Error
	entries := make([]configfile.Entry, 0, len(keys))
	for _, key := range keys {
		k, err := configfile.ParseKey(key)
		if err != nil {
			errs = multierror.Append(errs, fmt.Errorf("default %q: %w", key, err))
			continue
		}
		entries = append(entries, configfile.Entry{Key: k, Value: o.defaults[key]})
	}
	if err := errs.ErrorOrNil(); err != nil {
		return nil, err
	}
	return filestore.NewMemory(LevelDefault, entries,
		filestore.WithReadOnly(), filestore.WithLogger(o.logger)), nil
}
