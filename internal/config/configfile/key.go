package configfile

import (
	"fmt"
	"strings"
)

// Key identifies a variable by section, optional subsection and name.
// Section and Name are stored lowercased; Subsection is case-sensitive.
// An empty Subsection means none, so a file header [a ""] reads as [a].
type Key struct {
	Section    string
	Subsection string
	Name       string
}

// ParseKey splits a dotted key into its parts. The section is everything
// before the first dot and the name everything after the last one; whatever
// lies in between is the subsection, dots included. An empty subsection
// ("a..b") is rejected, since Key cannot tell it apart from none.
func ParseKey(s string) (Key, error) {
	first := strings.IndexByte(s, '.')
	last := strings.LastIndexByte(s, '.')
	if first <= 0 || last == len(s)-1 {
		return Key{}, fmt.Errorf("key %q does not contain a section and a name: %w", s, ErrInvalidKey)
	}
	if last == first+1 {
		return Key{}, fmt.Errorf("key %q has an empty subsection: %w", s, ErrInvalidKey)
	}

	k := Key{
		Section: strings.ToLower(s[:first]),
		Name:    strings.ToLower(s[last+1:]),
	}
	if last > first {
		k.Subsection = s[first+1 : last]
	}

	if !validSection(k.Section) {
		return Key{}, fmt.Errorf("key %q has invalid section %q: %w", s, k.Section, ErrInvalidKey)
	}
	if strings.ContainsAny(k.Subsection, "\n\x00") {
		return Key{}, fmt.Errorf("key %q has invalid subsection: %w", s, ErrInvalidKey)
	}
	if !validName(k.Name) {
		return Key{}, fmt.Errorf("key %q has invalid variable name %q: %w", s, k.Name, ErrInvalidKey)
	}
	return k, nil
}

// NormalizeKey returns the canonical form of s.
func NormalizeKey(s string) (string, error) {
	k, err := ParseKey(s)
	if err != nil {
		return "", err
	}
	return k.String(), nil
}

func (k Key) String() string {
	if k.Subsection == "" {
		return k.Section + "." + k.Name
	}
	return k.Section + "." + k.Subsection + "." + k.Name
}

// sameSection reports whether k and o live under the same header.
func (k Key) sameSection(o Key) bool {
	return k.Section == o.Section && k.Subsection == o.Subsection
}

func validSection(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !isAlnum(c) && c != '-' && c != '.' {
			return false
		}
	}
	return true
}

func validName(s string) bool {
	if s == "" || !isAlpha(s[0]) {
		return false
	}
	for i := 1; i < len(s); i++ {
		if !isAlnum(s[i]) && s[i] != '-' {
			return false
		}
	}
	return true
}

func isAlpha(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isAlnum(c byte) bool {
	return isAlpha(c) || (c >= '0' && c <= '9')
}
