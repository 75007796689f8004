// Package config validates a parsed rjson value tree against the migration
// schema and produces the typed recipes the scheduler and executor run on.
package config

import "fmt"

// Tree is the root of a validated migration config. It is built once per run
// and read-only afterwards.
type Tree struct {
	AdditionalInputs int
	Args             []ArgSpec
	PreProcess       string
	PostProcess      string
	Sheets           []SheetSpec
}

// ArgType distinguishes free-text run arguments from restricted choices.
type ArgType int

const (
	ArgText ArgType = iota
	ArgChoice
)

// ArgSpec describes one run argument. A choice argument carries the closed
// list of values it accepts.
type ArgSpec struct {
	Description string
	Type        ArgType
	Options     []string
}

// Scope identifies which dataset a SourceRef points into.
type Scope int

const (
	// ScopeSource is a sheet in the primary source dataset.
	ScopeSource Scope = iota
	// ScopeOutput ("_This") is a sheet in the output dataset under construction.
	ScopeOutput
	// ScopeExtra ("_Add<N>") is a sheet in the N-th additional input dataset.
	ScopeExtra
)

// SourceRef locates a sheet in one of the datasets visible to a run.
type SourceRef struct {
	Scope Scope
	Input int // extra-input ordinal, meaningful only for ScopeExtra
	Sheet string
}

func (r SourceRef) String() string {
	switch r.Scope {
	case ScopeOutput:
		return "_This." + r.Sheet
	case ScopeExtra:
		return fmt.Sprintf("_Add%d.%s", r.Input, r.Sheet)
	default:
		return r.Sheet
	}
}

// ColumnRef locates a single column: a sheet reference plus a column title.
type ColumnRef struct {
	Source SourceRef
	Column string
}

func (r ColumnRef) String() string {
	return r.Source.String() + "." + r.Column
}

// ColumnKind discriminates the five column computation strategies.
type ColumnKind int

const (
	// KindEmpty writes a column of nulls.
	KindEmpty ColumnKind = iota
	// KindFilled repeats a constant value.
	KindFilled
	// KindIndex writes a sequential row index.
	KindIndex
	// KindPasted copies a source column, optionally through a mapping.
	KindPasted
	// KindScripted computes the column with a user script over dependencies.
	KindScripted
)

func (k ColumnKind) String() string {
	switch k {
	case KindEmpty:
		return "empty"
	case KindFilled:
		return "filled"
	case KindIndex:
		return "index"
	case KindPasted:
		return "pasted"
	case KindScripted:
		return "scripted"
	default:
		return fmt.Sprintf("ColumnKind(%d)", int(k))
	}
}

// Mapping adjusts pasted values. Exactly one of Pairs and Expr is set: Pairs
// is an exact-match table with the reserved key "_Other" (fallback) and the
// reserved value "_Origin" (pass the original through); Expr is a
// single-argument lambda expression evaluated per value.
type Mapping struct {
	Pairs map[string]string
	Expr  string
}

// ColumnSpec is one column recipe, a tagged union over the five variants.
// Kind selects the variant; only the fields belonging to it are set.
type ColumnSpec struct {
	Title   string
	Comment string
	Kind    ColumnKind

	FillWith   any         // KindFilled; raw config value, _argN resolved at run time
	IndexStart any         // KindIndex; raw config value, _argN resolved at run time
	CopyFrom   ColumnRef   // KindPasted
	Mapping    *Mapping    // KindPasted, optional
	Dependence []ColumnRef // KindScripted
	Script     string      // KindScripted
}

// References returns the column references this recipe reads from.
func (c *ColumnSpec) References() []ColumnRef {
	switch c.Kind {
	case KindPasted:
		return []ColumnRef{c.CopyFrom}
	case KindScripted:
		return c.Dependence
	default:
		return nil
	}
}

// SheetSpec is one output sheet: its name and its columns in declared order.
// Declared order is the output order, regardless of computation order.
type SheetSpec struct {
	Name    string
	Columns []ColumnSpec
}

// SchemaError reports a structurally valid config whose semantics are
// invalid, identified by the path of the offending element.
type SchemaError struct {
	Path string
	Msg  string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("config: %s: %s", e.Path, e.Msg)
}
