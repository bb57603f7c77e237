package configfile

import (
	"bytes"
	"strings"
)

// Serialize renders entries in order. Consecutive entries of the same
// section share one header; a section that reappears after another one gets
// a header of its own, which readers merge back together.
func Serialize(entries []Entry) []byte {
	var buf bytes.Buffer
	for i, e := range entries {
		if i == 0 || !e.Key.sameSection(entries[i-1].Key) {
			writeHeader(&buf, e.Key)
		}
		buf.WriteByte('\t')
		buf.WriteString(e.Key.Name)
		buf.WriteString(" = ")
		buf.WriteString(EncodeValue(e.Value))
		buf.WriteByte('\n')
	}
	return buf.Bytes()
}

func writeHeader(buf *bytes.Buffer, k Key) {
	buf.WriteByte('[')
	buf.WriteString(k.Section)
	if k.Subsection != "" {
		buf.WriteString(` "`)
		for i := 0; i < len(k.Subsection); i++ {
			c := k.Subsection[i]
			if c == '"' || c == '\\' {
				buf.WriteByte('\\')
			}
			buf.WriteByte(c)
		}
		buf.WriteByte('"')
	}
	buf.WriteString("]\n")
}

// EncodeValue returns the on-disk spelling of v, quoting and escaping it
// when a plain spelling would not read back unchanged. A carriage return has
// no escape; quoting keeps it from being read as part of a CRLF line ending.
func EncodeValue(v string) string {
	needQuote := v != "" && (v[0] == ' ' || v[0] == '\t' ||
		v[len(v)-1] == ' ' || v[len(v)-1] == '\t' ||
		strings.ContainsAny(v, ";#\r"))

	var b strings.Builder
	if needQuote {
		b.WriteByte('"')
	}
	for i := 0; i < len(v); i++ {
		switch c := v[i]; c {
		case '"', '\\':
			b.WriteByte('\\')
			b.WriteByte(c)
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		case '\b':
			b.WriteString(`\b`)
		default:
			b.WriteByte(c)
		}
	}
	if needQuote {
		b.WriteByte('"')
	}
	return b.String()
}
