package pylit

import (
	"fmt"
	"strconv"
	"strings"
)

// Format renders the value as Python literal source. The output is pure
// ASCII: non-ASCII runes in strings are written as \xHH, \uXXXX or
// \UXXXXXXXX escapes, so the result is always safe for .npy format
// versions that require an ASCII header.
func Format(v Value) (string, error) {
	var sb strings.Builder
	v.format(&sb)
	return sb.String(), nil
}

func (v Value) format(sb *strings.Builder) {
	switch v.kind {
	case KindString:
		formatString(sb, v.str)
	case KindBool:
		if v.boolean {
			sb.WriteString("True")
		} else {
			sb.WriteString("False")
		}
	case KindInt:
		sb.WriteString(strconv.FormatInt(v.integer, 10))
	case KindTuple:
		sb.WriteByte('(')
		for i, item := range v.items {
			if i > 0 {
				sb.WriteString(", ")
			}
			item.format(sb)
		}
		// A one-tuple needs the trailing comma to stay a tuple.
		if len(v.items) == 1 {
			sb.WriteByte(',')
		}
		sb.WriteByte(')')
	case KindDict:
		sb.WriteByte('{')
		for i, entry := range v.entries {
			if i > 0 {
				sb.WriteString(", ")
			}
			entry.Key.format(sb)
			sb.WriteString(": ")
			entry.Value.format(sb)
		}
		sb.WriteByte('}')
	}
}

func formatString(sb *strings.Builder, s string) {
	sb.WriteByte('\'')
	for _, r := range s {
		switch {
		case r == '\'':
			sb.WriteString(`\'`)
		case r == '\\':
			sb.WriteString(`\\`)
		case r == '\n':
			sb.WriteString(`\n`)
		case r == '\t':
			sb.WriteString(`\t`)
		case r == '\r':
			sb.WriteString(`\r`)
		case r >= 0x20 && r < 0x7f:
			sb.WriteRune(r)
		case r < 0x100:
			fmt.Fprintf(sb, `\x%02x`, r)
		case r <= 0xffff:
			fmt.Fprintf(sb, `\u%04x`, r)
		default:
			fmt.Fprintf(sb, `\U%08x`, r)
		}
	}
	sb.WriteByte('\'')
}
