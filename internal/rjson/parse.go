package rjson

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf16"
)

// SyntaxError reports malformed relaxed notation at a byte offset in the
// source document.
type SyntaxError struct {
	Offset int
	Msg    string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error at offset %d: %s", e.Offset, e.Msg)
}

// numberRe matches the strict JSON number grammar.
var numberRe = regexp.MustCompile(`^-?(?:0|[1-9][0-9]*)(?:\.[0-9]+)?(?:[eE][+-]?[0-9]+)?$`)

// Parse reads a single relaxed-notation document and returns its value tree.
func Parse(src []byte) (Value, error) {
	s := &scanner{src: string(src)}
	s.skipSpace()
	v, err := s.parseValue(false, 0)
	if err != nil {
		return nil, err
	}
	s.skipSpace()
	if s.pos < len(s.src) {
		return nil, s.errf("trailing characters after root value")
	}
	return v, nil
}

type scanner struct {
	src string
	pos int
}

func (s *scanner) errf(format string, a ...any) *SyntaxError {
	return s.errAt(s.pos, format, a...)
}

func (s *scanner) errAt(off int, format string, a ...any) *SyntaxError {
	return &SyntaxError{Offset: off, Msg: fmt.Sprintf(format, a...)}
}

// skipSpace advances past whitespace and returns how many characters were
// consumed. The count lets callers enforce the structural space required
// after ',' and ':' in front of unquoted tokens.
func (s *scanner) skipSpace() int {
	n := 0
	for s.pos < len(s.src) {
		switch s.src[s.pos] {
		case ' ', '\t', '\n', '\r':
			s.pos++
			n++
		default:
			return n
		}
	}
	return n
}

// parseValue dispatches on the next significant character. needSpace is true
// when the value follows a ',' or ':' separator; ws is the whitespace count
// consumed since that separator.
func (s *scanner) parseValue(needSpace bool, ws int) (Value, error) {
	if s.pos >= len(s.src) {
		return nil, s.errf("unexpected end of input")
	}
	switch c := s.src[s.pos]; c {
	case '{':
		return s.parseObject()
	case '[':
		return s.parseArray()
	case '"':
		return s.parseString()
	case '}', ']', ',', ':', '\'':
		return nil, s.errf("unexpected character %q", c)
	default:
		if needSpace && ws == 0 {
			return nil, s.errf("missing space after separator before unquoted token")
		}
		tok, err := s.parseBareRun()
		if err != nil {
			return nil, err
		}
		return classifyToken(tok), nil
	}
}

// parseBareRun accumulates an unquoted run until a structural character or
// line break and returns it trimmed of surrounding spaces.
func (s *scanner) parseBareRun() (string, error) {
	start := s.pos
	for s.pos < len(s.src) {
		switch s.src[s.pos] {
		case '\'', '"', '{', '}', '[', ']', ',', ':', '\n', '\r':
			goto done
		}
		s.pos++
	}
done:
	tok := strings.Trim(s.src[start:s.pos], " \t")
	if tok == "" {
		return "", s.errAt(start, "empty unquoted token")
	}
	return tok, nil
}

// classifyToken maps an unquoted run onto its strict-notation value when it
// spells one exactly; every other run is a string literal.
func classifyToken(tok string) Value {
	switch tok {
	case "true":
		return true
	case "false":
		return false
	case "null":
		return nil
	}
	if numberRe.MatchString(tok) {
		if !strings.ContainsAny(tok, ".eE") {
			if n, err := strconv.ParseInt(tok, 10, 64); err == nil {
				return n
			}
		}
		if f, err := strconv.ParseFloat(tok, 64); err == nil {
			return f
		}
	}
	return tok
}

func (s *scanner) parseObject() (Value, error) {
	s.pos++ // '{'
	obj := NewObject()
	s.skipSpace()
	if s.pos < len(s.src) && s.src[s.pos] == '}' {
		s.pos++
		return obj, nil
	}
	needSpace := false
	ws := 0
	for {
		if s.pos >= len(s.src) {
			return nil, s.errf("unexpected end of input in object")
		}
		var key string
		switch c := s.src[s.pos]; c {
		case '"':
			k, err := s.parseString()
			if err != nil {
				return nil, err
			}
			key = k
		case '{', '[', '\'', '}', ']', ',', ':':
			return nil, s.errf("unexpected character %q, expected object key", c)
		default:
			if needSpace && ws == 0 {
				return nil, s.errf("missing space after separator before unquoted key")
			}
			k, err := s.parseBareRun()
			if err != nil {
				return nil, err
			}
			key = k
		}

		s.skipSpace()
		if s.pos >= len(s.src) || s.src[s.pos] != ':' {
			return nil, s.errf("expected ':' after object key %q", key)
		}
		s.pos++
		wsAfterColon := s.skipSpace()
		v, err := s.parseValue(true, wsAfterColon)
		if err != nil {
			return nil, err
		}
		obj.Set(key, v)

		s.skipSpace()
		if s.pos >= len(s.src) {
			return nil, s.errf("unexpected end of input in object")
		}
		switch s.src[s.pos] {
		case '}':
			s.pos++
			return obj, nil
		case ',':
			s.pos++
			ws = s.skipSpace()
			needSpace = true
		default:
			return nil, s.errf("missing ',' separator in object")
		}
	}
}

func (s *scanner) parseArray() (Value, error) {
	s.pos++ // '['
	items := []Value{}
	s.skipSpace()
	if s.pos < len(s.src) && s.src[s.pos] == ']' {
		s.pos++
		return items, nil
	}
	needSpace := false
	ws := 0
	for {
		v, err := s.parseValue(needSpace, ws)
		if err != nil {
			return nil, err
		}
		items = append(items, v)

		s.skipSpace()
		if s.pos >= len(s.src) {
			return nil, s.errf("unexpected end of input in array")
		}
		switch s.src[s.pos] {
		case ']':
			s.pos++
			return items, nil
		case ',':
			s.pos++
			ws = s.skipSpace()
			needSpace = true
		default:
			return nil, s.errf("missing ',' separator in array")
		}
	}
}

// parseString reads a strict JSON string starting at the opening quote.
func (s *scanner) parseString() (string, error) {
	start := s.pos
	s.pos++ // '"'
	var b strings.Builder
	for {
		if s.pos >= len(s.src) {
			return "", s.errAt(start, "unterminated string")
		}
		c := s.src[s.pos]
		switch {
		case c == '"':
			s.pos++
			return b.String(), nil
		case c == '\\':
			if err := s.parseEscape(&b, start); err != nil {
				return "", err
			}
		case c < 0x20:
			return "", s.errf("invalid control character in string")
		default:
			b.WriteByte(c)
			s.pos++
		}
	}
}

func (s *scanner) parseEscape(b *strings.Builder, strStart int) error {
	s.pos++ // '\'
	if s.pos >= len(s.src) {
		return s.errAt(strStart, "unterminated string")
	}
	switch c := s.src[s.pos]; c {
	case '"', '\\', '/':
		b.WriteByte(c)
		s.pos++
	case 'b':
		b.WriteByte('\b')
		s.pos++
	case 'f':
		b.WriteByte('\f')
		s.pos++
	case 'n':
		b.WriteByte('\n')
		s.pos++
	case 'r':
		b.WriteByte('\r')
		s.pos++
	case 't':
		b.WriteByte('\t')
		s.pos++
	case 'u':
		s.pos++
		r, err := s.parseHexRune()
		if err != nil {
			return err
		}
		if utf16.IsSurrogate(r) && s.pos+1 < len(s.src) && s.src[s.pos] == '\\' && s.src[s.pos+1] == 'u' {
			s.pos += 2
			r2, err := s.parseHexRune()
			if err != nil {
				return err
			}
			r = utf16.DecodeRune(r, r2)
		}
		b.WriteRune(r)
	default:
		return s.errf("invalid escape character %q", c)
	}
	return nil
}

func (s *scanner) parseHexRune() (rune, error) {
	if s.pos+4 > len(s.src) {
		return 0, s.errf("invalid unicode escape")
	}
	n, err := strconv.ParseUint(s.src[s.pos:s.pos+4], 16, 32)
	if err != nil {
		return 0, s.errf("invalid unicode escape %q", s.src[s.pos:s.pos+4])
	}
	s.pos += 4
	return rune(n), nil
}
