package configfile

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidKey is returned when a key does not follow the
	// section[.subsection].name syntax.
	ErrInvalidKey = errors.New("invalid config key")

	// ErrInvalidValue is returned when a value cannot be interpreted as the
	// requested type.
	ErrInvalidValue = errors.New("invalid config value")
)

// ParseError describes malformed config file content.
type ParseError struct {
	Path   string // empty when parsing raw text
	Line   int    // 1-based
	Reason string
}

func (e *ParseError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("bad config line %d: %s", e.Line, e.Reason)
	}
	return fmt.Sprintf("bad config line %d in file %s: %s", e.Line, e.Path, e.Reason)
}
