package config

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/vk/sheetshift/internal/blockscript"
	"github.com/vk/sheetshift/internal/rjson"
)

// addRefRe matches an additional-input sheet reference, e.g. "_Add2.Orders".
var addRefRe = regexp.MustCompile(`^_Add([0-9]+)\.(.+)$`)

// Compile parses relaxed-JSON config text and builds the typed config from
// it. Parse failures surface as *rjson.SyntaxError, schema violations as
// *SchemaError.
func Compile(src []byte) (*Tree, error) {
	root, err := rjson.Parse(src)
	if err != nil {
		return nil, err
	}
	return Build(root)
}

// Build validates a parsed rjson value tree against the recognized schema and
// returns the typed config. Any violation is reported as a *SchemaError
// naming the offending path.
func Build(root rjson.Value) (*Tree, error) {
	obj, ok := root.(*rjson.Object)
	if !ok {
		return nil, errAt("$", "config root must be a mapping, got %T", root)
	}

	tree := &Tree{}
	for _, key := range obj.Keys() {
		v, _ := obj.Get(key)
		switch key {
		case "additional_input":
			n, ok := v.(int64)
			if !ok || n < 0 {
				return nil, errAt("additional_input", "must be a non-negative integer")
			}
			tree.AdditionalInputs = int(n)
		case "args":
			args, err := buildArgs(v)
			if err != nil {
				return nil, err
			}
			tree.Args = args
		case "process":
			if err := buildProcess(v, tree); err != nil {
				return nil, err
			}
		case "sheets":
			sheets, err := buildSheets(v)
			if err != nil {
				return nil, err
			}
			tree.Sheets = sheets
		default:
			return nil, errAt(key, "unknown key")
		}
	}

	if tree.Sheets == nil {
		return nil, errAt("$", "missing required key %q", "sheets")
	}
	if err := checkExtraRefs(tree); err != nil {
		return nil, err
	}
	return tree, nil
}

func errAt(path, format string, a ...any) *SchemaError {
	return &SchemaError{Path: path, Msg: fmt.Sprintf(format, a...)}
}

func buildArgs(v rjson.Value) ([]ArgSpec, error) {
	list, ok := v.([]rjson.Value)
	if !ok {
		return nil, errAt("args", "must be an array")
	}
	args := make([]ArgSpec, 0, len(list))
	for i, item := range list {
		path := fmt.Sprintf("args[%d]", i)
		obj, ok := item.(*rjson.Object)
		if !ok {
			return nil, errAt(path, "must be a mapping")
		}
		var spec ArgSpec
		for _, key := range obj.Keys() {
			av, _ := obj.Get(key)
			switch key {
			case "description":
				s, ok := av.(string)
				if !ok {
					return nil, errAt(path+".description", "must be a string")
				}
				spec.Description = s
			case "type":
				switch av {
				case "choice":
					spec.Type = ArgChoice
				case "text":
					spec.Type = ArgText
				default:
					return nil, errAt(path+".type", "must be %q or %q", "choice", "text")
				}
			case "options":
				opts, ok := av.([]rjson.Value)
				if !ok {
					return nil, errAt(path+".options", "must be an array of strings")
				}
				for _, o := range opts {
					s, ok := o.(string)
					if !ok {
						return nil, errAt(path+".options", "must be an array of strings")
					}
					spec.Options = append(spec.Options, s)
				}
			default:
				return nil, errAt(path+"."+key, "unknown key")
			}
		}
		if spec.Type == ArgChoice && len(spec.Options) == 0 {
			return nil, errAt(path, "choice argument requires a non-empty options list")
		}
		if spec.Type == ArgText && spec.Options != nil {
			return nil, errAt(path, "options are only allowed on choice arguments")
		}
		args = append(args, spec)
	}
	return args, nil
}

func buildProcess(v rjson.Value, tree *Tree) error {
	obj, ok := v.(*rjson.Object)
	if !ok {
		return errAt("process", "must be a mapping")
	}
	for _, key := range obj.Keys() {
		pv, _ := obj.Get(key)
		switch key {
		case "pre", "post":
			script, err := blockscript.Transpile(pv)
			if err != nil {
				return errAt("process."+key, "%v", err)
			}
			if key == "pre" {
				tree.PreProcess = script
			} else {
				tree.PostProcess = script
			}
		default:
			return errAt("process."+key, "unknown key")
		}
	}
	return nil
}

func buildSheets(v rjson.Value) ([]SheetSpec, error) {
	list, ok := v.([]rjson.Value)
	if !ok {
		return nil, errAt("sheets", "must be an array")
	}
	sheets := make([]SheetSpec, 0, len(list))
	seen := make(map[string]int)
	for i, item := range list {
		path := fmt.Sprintf("sheets[%d]", i)
		obj, ok := item.(*rjson.Object)
		if !ok {
			return nil, errAt(path, "must be a mapping")
		}
		var spec SheetSpec
		var columns []rjson.Value
		for _, key := range obj.Keys() {
			sv, _ := obj.Get(key)
			switch key {
			case "name":
				s, ok := sv.(string)
				if !ok {
					return nil, errAt(path+".name", "must be a string")
				}
				spec.Name = s
			case "columns":
				cols, ok := sv.([]rjson.Value)
				if !ok {
					return nil, errAt(path+".columns", "must be an array")
				}
				columns = cols
			default:
				return nil, errAt(path+"."+key, "unknown key")
			}
		}
		if spec.Name == "" {
			return nil, errAt(path, "missing required key %q", "name")
		}
		if prev, dup := seen[spec.Name]; dup {
			return nil, errAt(path+".name", "duplicate sheet name %q (already used by sheets[%d])", spec.Name, prev)
		}
		seen[spec.Name] = i

		seenTitles := make(map[string]int, len(columns))
		for j, cv := range columns {
			col, err := buildColumn(cv, fmt.Sprintf("%s.columns[%d]", path, j))
			if err != nil {
				return nil, err
			}
			if prev, dup := seenTitles[col.Title]; dup {
				return nil, errAt(
					fmt.Sprintf("%s.columns[%d]", path, j),
					"duplicate column title %q (already used by %s.columns[%d])", col.Title, path, prev,
				)
			}
			seenTitles[col.Title] = j
			spec.Columns = append(spec.Columns, col)
		}
		sheets = append(sheets, spec)
	}
	return sheets, nil
}

// variantKeys are the mutually exclusive keys that select a column variant.
var variantKeys = []string{"fill_with", "index_start", "copy_from", "dependence"}

func buildColumn(v rjson.Value, path string) (ColumnSpec, error) {
	var col ColumnSpec
	obj, ok := v.(*rjson.Object)
	if !ok {
		return col, errAt(path, "must be a mapping")
	}

	var present []string
	for _, key := range variantKeys {
		if obj.Has(key) {
			present = append(present, key)
		}
	}
	if len(present) > 1 {
		return col, errAt(path, "ambiguous column variant: keys %s are mutually exclusive", strings.Join(present, ", "))
	}

	for _, key := range obj.Keys() {
		cv, _ := obj.Get(key)
		switch key {
		case "title":
			s, ok := cv.(string)
			if !ok {
				return col, errAt(path+".title", "must be a string")
			}
			col.Title = s
		case "comment":
			s, ok := cv.(string)
			if !ok {
				return col, errAt(path+".comment", "must be a string")
			}
			col.Comment = s
		case "fill_with":
			if !isScalar(cv) {
				return col, errAt(path+".fill_with", "must be a scalar value")
			}
			col.Kind = KindFilled
			col.FillWith = cv
		case "index_start":
			switch cv.(type) {
			case int64, string:
			default:
				return col, errAt(path+".index_start", "must be an integer or an _argN placeholder")
			}
			col.Kind = KindIndex
			col.IndexStart = cv
		case "copy_from":
			ref, err := buildColumnRef(cv, path+".copy_from")
			if err != nil {
				return col, err
			}
			col.Kind = KindPasted
			col.CopyFrom = ref
		case "mapping":
			m, err := buildMapping(cv, path+".mapping")
			if err != nil {
				return col, err
			}
			col.Mapping = m
		case "dependence":
			list, ok := cv.([]rjson.Value)
			if !ok || len(list) == 0 {
				return col, errAt(path+".dependence", "must be a non-empty array of references")
			}
			for i, rv := range list {
				ref, err := buildColumnRef(rv, fmt.Sprintf("%s.dependence[%d]", path, i))
				if err != nil {
					return col, err
				}
				col.Dependence = append(col.Dependence, ref)
			}
			col.Kind = KindScripted
		case "script":
			script, err := blockscript.Transpile(cv)
			if err != nil {
				return col, errAt(path+".script", "%v", err)
			}
			col.Script = script
		default:
			return col, errAt(path+"."+key, "unknown key")
		}
	}

	if col.Title == "" {
		return col, errAt(path, "missing required key %q", "title")
	}
	if col.Mapping != nil && col.Kind != KindPasted {
		return col, errAt(path, "mapping requires copy_from")
	}
	if col.Script != "" && col.Kind != KindScripted {
		return col, errAt(path, "script requires dependence")
	}
	if col.Kind == KindScripted && col.Script == "" {
		return col, errAt(path, "dependence requires a script")
	}
	return col, nil
}

// buildColumnRef decodes a [sheet reference, column title] pair.
func buildColumnRef(v rjson.Value, path string) (ColumnRef, error) {
	pair, ok := v.([]rjson.Value)
	if !ok || len(pair) != 2 {
		return ColumnRef{}, errAt(path, "must be a [sheet, column] pair")
	}
	sheet, ok0 := pair[0].(string)
	column, ok1 := pair[1].(string)
	if !ok0 || !ok1 {
		return ColumnRef{}, errAt(path, "sheet and column must be strings")
	}
	return ColumnRef{Source: ParseSourceRef(sheet), Column: column}, nil
}

// ParseSourceRef resolves the syntactic scope of a sheet reference: the
// "_This." prefix targets the output dataset, "_Add<N>." the N-th additional
// input, anything else the primary source dataset.
func ParseSourceRef(s string) SourceRef {
	if rest, ok := strings.CutPrefix(s, "_This."); ok {
		return SourceRef{Scope: ScopeOutput, Sheet: rest}
	}
	if m := addRefRe.FindStringSubmatch(s); m != nil {
		n, _ := strconv.Atoi(m[1])
		return SourceRef{Scope: ScopeExtra, Input: n, Sheet: m[2]}
	}
	return SourceRef{Scope: ScopeSource, Sheet: s}
}

func buildMapping(v rjson.Value, path string) (*Mapping, error) {
	switch t := v.(type) {
	case string:
		return &Mapping{Expr: t}, nil
	case *rjson.Object:
		pairs := make(map[string]string, t.Len())
		for _, key := range t.Keys() {
			mv, _ := t.Get(key)
			s, ok := mv.(string)
			if !ok {
				return nil, errAt(path+"."+key, "mapping values must be strings")
			}
			pairs[key] = s
		}
		return &Mapping{Pairs: pairs}, nil
	default:
		return nil, errAt(path, "must be a mapping table or a lambda expression string")
	}
}

func isScalar(v rjson.Value) bool {
	switch v.(type) {
	case nil, string, int64, float64, bool:
		return true
	default:
		return false
	}
}

// checkExtraRefs verifies every _Add<N> reference stays within the declared
// additional input count.
func checkExtraRefs(tree *Tree) error {
	for i, sheet := range tree.Sheets {
		for j := range sheet.Columns {
			col := &sheet.Columns[j]
			for _, ref := range col.References() {
				if ref.Source.Scope == ScopeExtra && ref.Source.Input >= tree.AdditionalInputs {
					return errAt(
						fmt.Sprintf("sheets[%d].columns[%d]", i, j),
						"reference %q exceeds additional_input count %d", ref, tree.AdditionalInputs,
					)
				}
			}
		}
	}
	return nil
}
