package rjson

import (
	"fmt"
	"strconv"
	"strings"
)

// Marshal renders a value tree in the relaxed dialect, quoting strings only
// where the grammar requires it. Parsing the result yields a tree equal to
// the input.
func Marshal(v Value) ([]byte, error) {
	var b strings.Builder
	if err := encodeValue(&b, v); err != nil {
		return nil, err
	}
	return []byte(b.String()), nil
}

func encodeValue(b *strings.Builder, v Value) error {
	switch t := v.(type) {
	case nil:
		b.WriteString("null")
	case bool:
		b.WriteString(strconv.FormatBool(t))
	case int:
		b.WriteString(strconv.FormatInt(int64(t), 10))
	case int64:
		b.WriteString(strconv.FormatInt(t, 10))
	case float64:
		out := strconv.FormatFloat(t, 'g', -1, 64)
		// An integral float needs an explicit decimal point or it would
		// re-parse as an integer.
		if !strings.ContainsAny(out, ".eE") {
			out += ".0"
		}
		b.WriteString(out)
	case string:
		encodeString(b, t)
	case *Object:
		b.WriteByte('{')
		for i, k := range t.keys {
			if i > 0 {
				b.WriteString(", ")
			}
			encodeString(b, k)
			b.WriteString(": ")
			if err := encodeValue(b, t.vals[k]); err != nil {
				return err
			}
		}
		b.WriteByte('}')
	case []Value:
		b.WriteByte('[')
		for i, item := range t {
			if i > 0 {
				b.WriteString(", ")
			}
			if err := encodeValue(b, item); err != nil {
				return err
			}
		}
		b.WriteByte(']')
	default:
		return fmt.Errorf("rjson: cannot encode value of type %T", v)
	}
	return nil
}

func encodeString(b *strings.Builder, s string) {
	if bareSafe(s) {
		b.WriteString(s)
		return
	}
	writeQuoted(b, s)
}

// bareSafe reports whether s survives a round trip as an unquoted token: no
// structural characters or line breaks, no surrounding spaces, and it must
// not spell a strict scalar (which would parse back as a different type).
func bareSafe(s string) bool {
	if s == "" {
		return false
	}
	if strings.Trim(s, " \t") != s {
		return false
	}
	if strings.ContainsAny(s, "'\"{}[],:\n\r") {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < 0x20 {
			return false
		}
	}
	switch s {
	case "true", "false", "null":
		return false
	}
	return !numberRe.MatchString(s)
}

func writeQuoted(b *strings.Builder, s string) {
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '"':
			b.WriteString(`\"`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			if r < 0x20 {
				fmt.Fprintf(b, `\u%04x`, r)
			} else {
				b.WriteRune(r)
			}
		}
	}
	b.WriteByte('"')
}
