// Package blockscript flattens the packed block notation for scripts into
// linear, indented script text.
//
// The packed form embeds multi-line script bodies inside a config document: a
// string is one source line, an array is a run of sibling lines, and a
// mapping introduces nested blocks: each key becomes a header line and its
// value is emitted one level deeper. A mapping with several keys represents
// sibling control-flow clauses in key order (an if clause followed by an else
// clause, say). The transpiler is purely structural; it never inspects or
// escapes the script text itself.
package blockscript

import (
	"fmt"
	"strings"

	"github.com/vk/sheetshift/internal/rjson"
)

// Transpile converts a packed block structure into script text, one line per
// statement, indented with tabs and joined with newlines.
func Transpile(v rjson.Value) (string, error) {
	var lines []string
	if err := emit(&lines, v, 0); err != nil {
		return "", err
	}
	return strings.Join(lines, "\n"), nil
}

func emit(lines *[]string, v rjson.Value, depth int) error {
	switch t := v.(type) {
	case string:
		*lines = append(*lines, strings.Repeat("\t", depth)+t)
	case []rjson.Value:
		for _, item := range t {
			if err := emit(lines, item, depth); err != nil {
				return err
			}
		}
	case *rjson.Object:
		for _, key := range t.Keys() {
			*lines = append(*lines, strings.Repeat("\t", depth)+key)
			body, _ := t.Get(key)
			switch body.(type) {
			case string, []rjson.Value:
				if err := emit(lines, body, depth+1); err != nil {
					return err
				}
			default:
				return fmt.Errorf("control header %q: block body must be a string or an array, got %T", key, body)
			}
		}
	default:
		return fmt.Errorf("packed script node must be a string, array, or mapping, got %T", v)
	}
	return nil
}
