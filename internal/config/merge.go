package config

import (
	"gitconf/internal/config/configfile"
)

// Entry is one value together with the backend it came from.
type Entry struct {
	Key   string
	Value string
	Level Level
	Path  string // empty for in-memory backends
	Rank  int    // index of the backend in the store, 0 is highest priority
}

// layer is the content of one backend at read time.
type layer struct {
	level   Level
	path    string
	entries []configfile.Entry
}

// flatten lists the entries of every layer, highest priority layer first and
// file order within each layer. This is the single precedence rule of the
// package; everything else is derived from its output.
func flatten(layers []layer) []Entry {
	n := 0
	for _, l := range layers {
		n += len(l.entries)
	}
	out := make([]Entry, 0, n)
	for rank, l := range layers {
		for _, e := range l.entries {
			out = append(out, Entry{
				Key:   e.Key.String(),
				Value: e.Value,
				Level: l.level,
				Path:  l.path,
				Rank:  rank,
			})
		}
	}
	return out
}

// group indexes entries by key, keeping their relative order.
func group(entries []Entry) map[string][]Entry {
	out := make(map[string][]Entry)
	for _, e := range entries {
		out[e.Key] = append(out[e.Key], e)
	}
	return out
}

// filter returns the entries for key, in order.
func filter(entries []Entry, key string) []Entry {
	var out []Entry
	for _, e := range entries {
		if e.Key == key {
			out = append(out, e)
		}
	}
	return out
}

// resolve returns what a single-value read reports for the ordered entries
// of one key: the last value set in the highest-priority backend defining it.
func resolve(values []Entry) (string, bool) {
	if len(values) == 0 {
		return "", false
	}
	top := values[0].Rank
	v := values[0].Value
	for _, e := range values[1:] {
		if e.Rank != top {
			break
		}
		v = e.Value
	}
	return v, true
}

func valuesOf(entries []Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Value
	}
	return out
}
