package configfile

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ParseBool interprets v the way git does: true/yes/on/1 and false/no/off/0,
// case-insensitively. An empty value is false.
func ParseBool(v string) (bool, error) {
	switch strings.ToLower(v) {
	case "true", "yes", "on", "1":
		return true, nil
	case "false", "no", "off", "0", "":
		return false, nil
	}
	if n, err := ParseInt(v); err == nil {
		return n != 0, nil
	}
	return false, fmt.Errorf("%q is not a boolean: %w", v, ErrInvalidValue)
}

// ParseInt interprets v as a decimal integer with an optional k, m or g
// unit suffix.
func ParseInt(v string) (int64, error) {
	s := strings.TrimSpace(v)
	var factor int64 = 1
	if s != "" {
		switch s[len(s)-1] {
		case 'k', 'K':
			factor = 1 << 10
		case 'm', 'M':
			factor = 1 << 20
		case 'g', 'G':
			factor = 1 << 30
		}
		if factor != 1 {
			s = s[:len(s)-1]
		}
	}

	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%q is not an integer: %w", v, ErrInvalidValue)
	}
	if n > math.MaxInt64/factor || n < math.MinInt64/factor {
		return 0, fmt.Errorf("%q is out of range: %w", v, ErrInvalidValue)
	}
	return n * factor, nil
}

// FormatBool returns the canonical text of b.
func FormatBool(b bool) string {
	return strconv.FormatBool(b)
}

// FormatInt returns the canonical decimal text of n.
func FormatInt(n int64) string {
	return strconv.FormatInt(n, 10)
}
