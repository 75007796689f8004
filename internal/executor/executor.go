// Package executor runs a compiled migration: it schedules column recipes,
// assembles the binding context for each one, and populates the output
// dataset. Fill, index, and copy columns are computed directly; scripted
// columns and mapping lambdas go through the pluggable script capabilities.
package executor

import (
	"context"
	"fmt"

	"github.com/vk/sheetshift/internal/config"
	"github.com/vk/sheetshift/internal/ctxlog"
	"github.com/vk/sheetshift/internal/dag"
	"github.com/vk/sheetshift/internal/dataset"
)

// ScriptEngine executes script text against a named binding set. Column
// scripts receive at least "dpd" (dependency data arrays), "rows" (the row
// count), "tgt" (the output buffer to mutate in place), and "args" (the run
// arguments). The engine must report any script failure through its error
// return; the executor assumes nothing else about its semantics.
type ScriptEngine interface {
	Execute(ctx context.Context, script string, bindings map[string]any) error
}

// LambdaMapper evaluates a single-argument mapping expression against one
// value and returns the replacement.
type LambdaMapper interface {
	Map(ctx context.Context, expr string, value string) (string, error)
}

// Executor coordinates one migration run. It is single-threaded by design:
// columns are computed strictly in scheduler order, and nothing mutates the
// output dataset but the executor itself.
type Executor struct {
	engine ScriptEngine
	mapper LambdaMapper
}

// New creates an Executor backed by the given script capabilities.
func New(engine ScriptEngine, mapper LambdaMapper) *Executor {
	return &Executor{engine: engine, mapper: mapper}
}

// Run migrates data from the source dataset (plus any additional inputs)
// into a new output dataset, following the compiled config. Columns are
// written in declared order regardless of the order they were computed in.
// Any failure aborts the run; a partially populated dataset is never
// returned.
func (e *Executor) Run(
	ctx context.Context,
	tree *config.Tree,
	src *dataset.Dataset,
	extras []*dataset.Dataset,
	args []string,
) (*dataset.Dataset, error) {
	logger := ctxlog.FromContext(ctx)

	if err := validateArgs(tree.Args, args); err != nil {
		return nil, err
	}
	if len(extras) != tree.AdditionalInputs {
		return nil, fmt.Errorf("config declares %d additional input(s), got %d", tree.AdditionalInputs, len(extras))
	}

	// The output skeleton fixes the declared column order up front; the
	// scheduler only decides when each column's data is filled in.
	out := dataset.New()
	for _, sheetSpec := range tree.Sheets {
		sheet, err := out.AddSheet(sheetSpec.Name)
		if err != nil {
			return nil, err
		}
		for _, colSpec := range sheetSpec.Columns {
			if err := sheet.AppendColumn(&dataset.Column{Title: colSpec.Title, Comment: colSpec.Comment}); err != nil {
				return nil, err
			}
		}
	}

	graph, err := dag.Build(tree.Sheets)
	if err != nil {
		return nil, err
	}
	order, err := graph.Schedule()
	if err != nil {
		return nil, err
	}
	logger.Debug("Column recipes scheduled.", "count", len(order))

	run := &runState{
		exec:   e,
		tree:   tree,
		graph:  graph,
		src:    src,
		extras: extras,
		out:    out,
		args:   args,
	}

	if tree.PreProcess != "" {
		logger.Debug("Running pre-process script.")
		if err := e.engine.Execute(ctx, tree.PreProcess, run.processBindings(false)); err != nil {
			return nil, &ScriptError{Stage: "pre-process", Err: err}
		}
	}

	for _, id := range order {
		if err := run.computeColumn(ctx, id); err != nil {
			return nil, err
		}
	}
	if err := run.materializeDeferred(); err != nil {
		return nil, err
	}

	if tree.PostProcess != "" {
		logger.Debug("Running post-process script.")
		if err := e.engine.Execute(ctx, tree.PostProcess, run.processBindings(true)); err != nil {
			return nil, &ScriptError{Stage: "post-process", Err: err}
		}
	}

	return out, nil
}

// validateArgs checks the run arguments against the declared specs; choice
// arguments only accept one of their options.
func validateArgs(specs []config.ArgSpec, args []string) error {
	if len(args) != len(specs) {
		return fmt.Errorf("config declares %d argument(s), got %d", len(specs), len(args))
	}
	for i, spec := range specs {
		if spec.Type != config.ArgChoice {
			continue
		}
		ok := false
		for _, opt := range spec.Options {
			if args[i] == opt {
				ok = true
				break
			}
		}
		if !ok {
			return fmt.Errorf("argument %d: %q is not one of the declared options %v", i, args[i], spec.Options)
		}
	}
	return nil
}

// runState carries the per-run context shared by the column computations.
type runState struct {
	exec   *Executor
	tree   *config.Tree
	graph  *dag.Graph
	src    *dataset.Dataset
	extras []*dataset.Dataset
	out    *dataset.Dataset
	args   []string

	// deferred collects virtual columns (empty/filled/index) that nothing
	// depends on; they materialize at their sheet's final row count.
	deferred []dag.NodeID
}

// processBindings builds the binding set for the pre- and post-process
// scripts. The post-process stage additionally sees the finished output.
func (r *runState) processBindings(withOutput bool) map[string]any {
	b := map[string]any{
		"config": r.tree,
		"src":    r.src,
		"extras": r.extras,
		"args":   r.args,
	}
	if withOutput {
		b["tgt"] = r.out
	}
	return b
}
