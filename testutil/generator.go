// Package testutil provides generators of config content for tests.
package testutil

import (
	"fmt"
	"math/rand"
	"strings"

	"gitconf/internal/config/configfile"
)

const (
	lower       = "abcdefghijklmnopqrstuvwxyz"
	nameChars   = lower + "0123456789-"
	subChars    = lower + "ABCXYZ0123456789./ _\"\\"
	plainChars  = lower + "ABC0123456789 +-*/:=@"
	specialRune = ";#\"\\\t\n\b\r "
)

// EntryGenerator creates random config entries. Everything it produces
// survives a Serialize/Parse round trip unchanged.
type EntryGenerator struct {
	rng      *rand.Rand
	sections []configfile.Key // Name unused
}

// NewEntryGenerator returns a generator seeded with seed, drawing keys from
// sections distinct sections.
func NewEntryGenerator(seed int64, sections int) *EntryGenerator {
	g := &EntryGenerator{rng: rand.New(rand.NewSource(seed))}
	for i := 0; i < sections; i++ {
		k := configfile.Key{Section: fmt.Sprintf("%s%d", g.word(lower, 1, 6), i)}
		if g.rng.Intn(2) == 0 {
			k.Subsection = g.word(subChars, 1, 12)
		}
		g.sections = append(g.sections, k)
	}
	return g
}

// Key returns a key in one of the generator's sections.
func (g *EntryGenerator) Key() configfile.Key {
	k := g.sections[g.rng.Intn(len(g.sections))]
	k.Name = g.word(lower, 1, 1) + g.word(nameChars, 0, 10)
	return k
}

// Value returns a value that may need quoting or escaping on disk.
func (g *EntryGenerator) Value() string {
	switch g.rng.Intn(5) {
	case 0:
		return ""
	case 1:
		return g.word(plainChars+specialRune, 1, 30)
	case 2:
		return g.word(plainChars, 1, 10) + "\r"
	default:
		return strings.TrimSpace(g.word(plainChars, 1, 30))
	}
}

// Entries returns n entries. Roughly one in four reuses an earlier key, so
// multivars appear in the output.
func (g *EntryGenerator) Entries(n int) []configfile.Entry {
	entries := make([]configfile.Entry, 0, n)
	for i := 0; i < n; i++ {
		var k configfile.Key
		if len(entries) > 0 && g.rng.Intn(4) == 0 {
			k = entries[g.rng.Intn(len(entries))].Key
		} else {
			k = g.Key()
		}
		entries = append(entries, configfile.Entry{Key: k, Value: g.Value()})
	}
	return entries
}

// Multivar returns n entries for key, each with a distinct value.
func (g *EntryGenerator) Multivar(key configfile.Key, n int) []configfile.Entry {
	entries := make([]configfile.Entry, n)
	for i := range entries {
		entries[i] = configfile.Entry{Key: key, Value: fmt.Sprintf("%d:%s", i, g.Value())}
	}
	return entries
}

func (g *EntryGenerator) word(alphabet string, min, max int) string {
	n := min
	if max > min {
		n += g.rng.Intn(max - min + 1)
	}
	var b strings.Builder
	for i := 0; i < n; i++ {
		b.WriteByte(alphabet[g.rng.Intn(len(alphabet))])
	}
	return b.String()
}
