package testutil

import (
	"testing"

	"gitconf/internal/config/configfile"
)

func TestEntryGenerator_Deterministic(t *testing.T) {
	a := NewEntryGenerator(42, 3).Entries(50)
	b := NewEntryGenerator(42, 3).Entries(50)

	if len(a) != 50 || len(b) != 50 {
		t.Fatalf("got %d and %d entries, want 50", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("entry %d differs for the same seed: %+v vs %+v", i, a[i], b[i])
		}
	}
}

func TestEntryGenerator_KeysAreValid(t *testing.T) {
	gen := NewEntryGenerator(7, 4)
	for _, e := range gen.Entries(200) {
		k, err := configfile.ParseKey(e.Key.String())
		if err != nil {
			t.Fatalf("generated invalid key %q: %v", e.Key.String(), err)
		}
		if k != e.Key {
			t.Errorf("key %q parses to %+v, want %+v", e.Key.String(), k, e.Key)
		}
	}
}

func TestEntryGenerator_ProducesMultivars(t *testing.T) {
	gen := NewEntryGenerator(1, 2)
	seen := make(map[configfile.Key]int)
	for _, e := range gen.Entries(100) {
		seen[e.Key]++
	}
	multi := 0
	for _, n := range seen {
		if n > 1 {
			multi++
		}
	}
	if multi == 0 {
		t.Error("100 entries produced no multivar")
	}
}

func TestEntryGenerator_Multivar(t *testing.T) {
	gen := NewEntryGenerator(3, 1)
	key := gen.Key()
	entries := gen.Multivar(key, 5)
	if len(entries) != 5 {
		t.Fatalf("got %d entries, want 5", len(entries))
	}
	values := make(map[string]bool)
	for _, e := range entries {
		if e.Key != key {
			t.Errorf("entry key = %+v, want %+v", e.Key, key)
		}
		values[e.Value] = true
	}
	if len(values) != 5 {
		t.Errorf("multivar values are not distinct: %v", entries)
	}
}
