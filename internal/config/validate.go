package config

import (
	"fmt"
	"slices"
	"strings"

	"gitconf/internal/config/configfile"

	"github.com/hashicorp/go-multierror"
)

// rule describes the values a known key accepts. A key takes a boolean, an
// integer within [min, max], or one of extra; kinds may be combined.
type rule struct {
	boolean  bool
	integer  bool
	min, max int64
	extra    []string
}

// knownKeys maps keys to their allowed values. Unknown keys accept anything.
var knownKeys = map[string]rule{
	"core.bare":                    {boolean: true},
	"core.filemode":                {boolean: true},
	"core.ignorecase":              {boolean: true},
	"core.symlinks":                {boolean: true},
	"core.logallrefupdates":        {boolean: true, extra: []string{"always"}},
	"core.autocrlf":                {boolean: true, extra: []string{"input"}},
	"core.repositoryformatversion": {integer: true, min: 0, max: 1},
	"core.compression":             {integer: true, min: -1, max: 9},
	"pull.rebase":                  {boolean: true, extra: []string{"merges", "interactive"}},
	"push.default":                 {extra: []string{"nothing", "current", "upstream", "simple", "matching"}},
}

// Validate checks every value of every known key in sn. It reports all
// invalid values at once; each error matches ErrInvalidValue.
func Validate(sn *Snapshot) error {
	var errs *multierror.Error
	for _, e := range sn.Entries() {
		r, ok := knownKeys[e.Key]
		if !ok {
			continue
		}
		if err := r.check(e.Value); err != nil {
			errs = multierror.Append(errs, fmt.Errorf("%s = %q (%s): %w", e.Key, e.Value, origin(e), err))
		}
	}
	return errs.ErrorOrNil()
}

func (r rule) check(v string) error {
	if slices.Contains(r.extra, strings.ToLower(v)) {
		return nil
	}
	if r.boolean {
		if _, err := configfile.ParseBool(v); err == nil {
			return nil
		}
	}
	if r.integer {
		n, err := configfile.ParseInt(v)
		if err == nil && n >= r.min && n <= r.max {
			return nil
		}
	}
	return fmt.Errorf("%w: expected %s", ErrInvalidValue, r.describe())
}

func (r rule) describe() string {
	var kinds []string
	if r.boolean {
		kinds = append(kinds, "a boolean")
	}
	if r.integer {
		kinds = append(kinds, fmt.Sprintf("an integer in [%d, %d]", r.min, r.max))
	}
	if len(r.extra) > 0 {
		kinds = append(kinds, "one of "+strings.Join(r.extra, ", "))
	}
	return strings.Join(kinds, " or ")
}

// origin names where an entry came from, for messages.
func origin(e Entry) string {
	if e.Path == "" {
		return e.Level.String()
	}
	return e.Level.String() + " " + e.Path
}
