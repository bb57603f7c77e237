// Package configfile reads and writes the git-style config text format.
//
// A file is a sequence of section headers and variable lines:
//
//	[core]
//		bare = false
//	[remote "origin"]
//		fetch = +refs/heads/*:refs/remotes/origin/*
//		fetch = +refs/tags/*:refs/tags/*
//
// Parse turns the text into an ordered list of entries and Serialize turns an
// ordered list back into text. Comments and blank lines are not retained.
package configfile

import (
	"strings"
)

// Entry is one variable assignment. Entries sharing a key form a multivar and
// keep the order they had in the file.
type Entry struct {
	Key   Key
	Value string
}

// Parse parses raw config text. Missing content is not an error; an empty
// input yields no entries.
func Parse(data []byte) ([]Entry, error) {
	text := strings.TrimPrefix(string(data), "\ufeff")
	p := &parser{lines: strings.Split(text, "\n")}
	return p.parse()
}

type parser struct {
	lines   []string
	lineNo  int // 1-based number of the line currently being read
	section Key // Name is unused
	inside  bool
	entries []Entry
}

func (p *parser) errorf(reason string) error {
	return &ParseError{Line: p.lineNo, Reason: reason}
}

// next returns the next raw line, without its trailing carriage return.
func (p *parser) next() (string, bool) {
	if p.lineNo >= len(p.lines) {
		return "", false
	}
	line := strings.TrimSuffix(p.lines[p.lineNo], "\r")
	p.lineNo++
	return line, true
}

func (p *parser) parse() ([]Entry, error) {
	for {
		line, ok := p.next()
		if !ok {
			return p.entries, nil
		}
		rest := strings.TrimLeft(line, " \t")
		if rest == "" || rest[0] == '#' || rest[0] == ';' {
			continue
		}

		if rest[0] == '[' {
			var err error
			rest, err = p.header(rest[1:])
			if err != nil {
				return nil, err
			}
			rest = strings.TrimLeft(rest, " \t")
			if rest == "" || rest[0] == '#' || rest[0] == ';' {
				continue
			}
		}

		if err := p.variable(rest); err != nil {
			return nil, err
		}
	}
}

// header parses the text following '[' and returns what is left of the line
// after the closing ']'.
func (p *parser) header(s string) (string, error) {
	i := 0
	for i < len(s) && s[i] != ']' && s[i] != ' ' && s[i] != '\t' {
		i++
	}
	name := s[:i]
	if !validSection(name) {
		return "", p.errorf("malformed section header")
	}

	for i < len(s) && (s[i] == ' ' || s[i] == '\t') {
		i++
	}
	if i >= len(s) {
		return "", p.errorf("missing ']' in section header")
	}

	if s[i] == ']' {
		p.inside = true
		if dot := strings.IndexByte(name, '.'); dot >= 0 {
			// [section.subsection] is the deprecated spelling of a
			// subsection; both halves are case-insensitive.
			lower := strings.ToLower(name)
			if dot == 0 || dot == len(name)-1 {
				return "", p.errorf("malformed section header")
			}
			p.section = Key{Section: lower[:dot], Subsection: lower[dot+1:]}
		} else {
			p.section = Key{Section: strings.ToLower(name)}
		}
		return s[i+1:], nil
	}

	if s[i] != '"' || strings.ContainsRune(name, '.') {
		return "", p.errorf("malformed section header")
	}
	i++

	var sub strings.Builder
	for {
		if i >= len(s) {
			return "", p.errorf("unterminated subsection name")
		}
		c := s[i]
		if c == '"' {
			i++
			break
		}
		if c == '\\' {
			i++
			if i >= len(s) {
				return "", p.errorf("unterminated subsection name")
			}
			c = s[i]
		}
		sub.WriteByte(c)
		i++
	}
	if i >= len(s) || s[i] != ']' {
		return "", p.errorf("missing ']' in section header")
	}

	p.inside = true
	p.section = Key{Section: strings.ToLower(name), Subsection: sub.String()}
	return s[i+1:], nil
}

// variable parses "name", "name = value" or "name = value \" continued.
func (p *parser) variable(s string) error {
	if !p.inside {
		return p.errorf("variable outside of a section")
	}

	i := 0
	for i < len(s) && (isAlnum(s[i]) || s[i] == '-') {
		i++
	}
	name := s[:i]
	if !validName(name) {
		return p.errorf("invalid variable name")
	}

	key := p.section
	key.Name = strings.ToLower(name)

	rest := strings.TrimLeft(s[i:], " \t")
	if rest == "" || rest[0] == '#' || rest[0] == ';' {
		// A bare name is an implicit boolean true.
		p.entries = append(p.entries, Entry{Key: key, Value: "true"})
		return nil
	}
	if rest[0] != '=' {
		return p.errorf("expected '=' after variable name")
	}

	value, err := p.value(strings.TrimLeft(rest[1:], " \t"))
	if err != nil {
		return err
	}
	p.entries = append(p.entries, Entry{Key: key, Value: value})
	return nil
}

// value decodes a value, pulling further lines while the current one ends
// with a continuation backslash.
func (p *parser) value(s string) (string, error) {
	var (
		b      strings.Builder
		quoted bool
		keep   int // length of b that survives trailing-whitespace trimming
	)

	for {
		i := 0
		continued := false
	line:
		for i < len(s) {
			c := s[i]
			switch {
			case c == '\\':
				if i+1 == len(s) {
					continued = true
					break line
				}
				i++
				switch s[i] {
				case 'n':
					b.WriteByte('\n')
				case 't':
					b.WriteByte('\t')
				case 'b':
					b.WriteByte('\b')
				case '"', '\\':
					b.WriteByte(s[i])
				default:
					return "", p.errorf("invalid escape sequence in value")
				}
				keep = b.Len()
			case c == '"':
				quoted = !quoted
				keep = b.Len()
			case !quoted && (c == ';' || c == '#'):
				break line
			case !quoted && (c == ' ' || c == '\t'):
				if b.Len() > 0 {
					b.WriteByte(c)
				}
			default:
				b.WriteByte(c)
				keep = b.Len()
			}
			i++
		}

		if !continued {
			if quoted {
				return "", p.errorf("unterminated quoted value")
			}
			return b.String()[:keep], nil
		}

		next, ok := p.next()
		if !ok {
			if quoted {
				return "", p.errorf("unterminated quoted value")
			}
			return b.String()[:keep], nil
		}
		s = next
	}
}
