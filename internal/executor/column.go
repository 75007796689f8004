package executor

import (
	"context"
	"fmt"
	"regexp"
	"strconv"

	"github.com/vk/sheetshift/internal/config"
	"github.com/vk/sheetshift/internal/ctxlog"
	"github.com/vk/sheetshift/internal/dag"
	"github.com/vk/sheetshift/internal/dataset"
)

// argRefRe matches a run-argument placeholder ("_arg0", "_arg1", ...).
var argRefRe = regexp.MustCompile(`^_arg([0-9]+)$`)

// computeColumn fills one output column according to its recipe kind.
// Virtual columns (empty, filled, index) that nothing depends on are
// deferred so they can adopt the sheet's final row count.
func (r *runState) computeColumn(ctx context.Context, id dag.NodeID) error {
	spec := &r.tree.Sheets[id.Sheet].Columns[id.Col]
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Computing column.", "column", r.graph.Name(id), "kind", spec.Kind.String())

	switch spec.Kind {
	case config.KindPasted:
		return r.computePasted(ctx, id, spec)
	case config.KindScripted:
		return r.computeScripted(ctx, id, spec)
	default:
		if !r.graph.HasDependents(id) {
			r.deferred = append(r.deferred, id)
			return nil
		}
		return r.materializeVirtual(id, spec)
	}
}

// computePasted copies the referenced column into the output, running each
// cell through the recipe's mapping when one is configured.
func (r *runState) computePasted(ctx context.Context, id dag.NodeID, spec *config.ColumnSpec) error {
	src, err := r.resolveColumn(spec.CopyFrom)
	if err != nil {
		return &config.SchemaError{
			Path: fmt.Sprintf("sheets[%d].columns[%d]", id.Sheet, id.Col),
			Msg:  err.Error(),
		}
	}

	col := r.outputColumn(id)
	col.Data = make([]any, len(src.Data))
	copy(col.Data, src.Data)

	if spec.Mapping == nil {
		return nil
	}
	if spec.Mapping.Expr != "" {
		for i, cell := range col.Data {
			mapped, err := r.exec.mapper.Map(ctx, spec.Mapping.Expr, cellString(cell))
			if err != nil {
				return &MappingError{Column: r.graph.Name(id), Err: err}
			}
			col.Data[i] = mapped
		}
		return nil
	}
	for i, cell := range col.Data {
		col.Data[i] = mapPair(spec.Mapping.Pairs, cell)
	}
	return nil
}

// mapPair applies an exact-match mapping table to one cell. Nil cells pass
// through. An unmatched cell falls back to the "_Other" entry when present
// and otherwise passes through; the replacement "_Origin" keeps the
// original cell.
func mapPair(pairs map[string]string, cell any) any {
	if cell == nil {
		return nil
	}
	repl, ok := pairs[cellString(cell)]
	if !ok {
		repl, ok = pairs["_Other"]
		if !ok {
			return cell
		}
	}
	if repl == "_Origin" {
		return cell
	}
	return repl
}

// computeScripted gathers the dependency columns, hands them to the script
// engine with an output buffer, and adopts whatever the script wrote.
func (r *runState) computeScripted(ctx context.Context, id dag.NodeID, spec *config.ColumnSpec) error {
	dpd := make([][]any, len(spec.Dependence))
	rows := 0
	for i, ref := range spec.Dependence {
		dep, err := r.resolveColumn(ref)
		if err != nil {
			return &config.SchemaError{
				Path: fmt.Sprintf("sheets[%d].columns[%d]", id.Sheet, id.Col),
				Msg:  err.Error(),
			}
		}
		dpd[i] = dep.Data
		if len(dep.Data) > rows {
			rows = len(dep.Data)
		}
	}

	tgt := make([]any, rows)
	bindings := map[string]any{
		"dpd":  dpd,
		"rows": rows,
		"tgt":  tgt,
		"args": r.args,
	}
	if err := r.exec.engine.Execute(ctx, spec.Script, bindings); err != nil {
		return &ScriptError{Stage: r.graph.Name(id), Err: err}
	}
	r.outputColumn(id).Data = tgt
	return nil
}

// materializeVirtual writes an empty, filled, or index column at its sheet's
// current row count.
func (r *runState) materializeVirtual(id dag.NodeID, spec *config.ColumnSpec) error {
	sheet := r.out.Sheets()[id.Sheet]
	rows := sheet.Rows()
	col := r.outputColumn(id)

	switch spec.Kind {
	case config.KindEmpty:
		col.Data = make([]any, rows)
	case config.KindFilled:
		value, err := r.resolveArgValue(spec.FillWith)
		if err != nil {
			return fmt.Errorf("column %s: %w", r.graph.Name(id), err)
		}
		col.Data = make([]any, rows)
		for i := range col.Data {
			col.Data[i] = value
		}
	case config.KindIndex:
		start, err := r.resolveIndexStart(spec.IndexStart)
		if err != nil {
			return fmt.Errorf("column %s: %w", r.graph.Name(id), err)
		}
		col.Data = make([]any, rows)
		for i := range col.Data {
			col.Data[i] = start + int64(i)
		}
	}
	return nil
}

// materializeDeferred fills the virtual columns postponed during the main
// pass, now that every data-bearing column has settled the row counts.
func (r *runState) materializeDeferred() error {
	for _, id := range r.deferred {
		spec := &r.tree.Sheets[id.Sheet].Columns[id.Col]
		if err := r.materializeVirtual(id, spec); err != nil {
			return err
		}
	}
	return nil
}

// resolveColumn follows a column reference into the dataset its scope names.
func (r *runState) resolveColumn(ref config.ColumnRef) (*dataset.Column, error) {
	var ds *dataset.Dataset
	switch ref.Source.Scope {
	case config.ScopeOutput:
		ds = r.out
	case config.ScopeExtra:
		ds = r.extras[ref.Source.Input]
	default:
		ds = r.src
	}
	sheet, ok := ds.Sheet(ref.Source.Sheet)
	if !ok {
		return nil, fmt.Errorf("reference %q: no such sheet", ref)
	}
	col, ok := sheet.Column(ref.Column)
	if !ok {
		return nil, fmt.Errorf("reference %q: no such column in sheet %q", ref, ref.Source.Sheet)
	}
	return col, nil
}

// cellString renders a cell for mapping lookup and lambda input. Nil cells
// map as the empty string.
func cellString(cell any) string {
	switch v := cell.(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprintf("%v", v)
	}
}

// outputColumn returns the output cell buffer for a recipe.
func (r *runState) outputColumn(id dag.NodeID) *dataset.Column {
	return r.out.Sheets()[id.Sheet].Columns()[id.Col]
}

// resolveArgValue substitutes an "_argN" placeholder with the N-th run
// argument; any other value passes through unchanged.
func (r *runState) resolveArgValue(v any) (any, error) {
	s, ok := v.(string)
	if !ok {
		return v, nil
	}
	m := argRefRe.FindStringSubmatch(s)
	if m == nil {
		return v, nil
	}
	n, err := strconv.Atoi(m[1])
	if err != nil || n >= len(r.args) {
		return nil, fmt.Errorf("%q: no such run argument", s)
	}
	return r.args[n], nil
}

// resolveIndexStart coerces the configured start value, after argument
// substitution, to an integer.
func (r *runState) resolveIndexStart(v any) (int64, error) {
	resolved, err := r.resolveArgValue(v)
	if err != nil {
		return 0, err
	}
	switch val := resolved.(type) {
	case int64:
		return val, nil
	case string:
		n, err := strconv.ParseInt(val, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("index start %q is not an integer", val)
		}
		return n, nil
	default:
		return 0, fmt.Errorf("index start %v is not an integer", resolved)
	}
}
