// Package dag builds the dependency graph over an output's column recipes
// and derives the order they are computed in.
//
// One node exists per (sheet, column) pair across all output sheets; the
// graph is stored over indices, not references, so topological traversal
// never chases ownership cycles. Only "_This"-scoped references create
// edges; external source and additional-input references are always ready.
// Computation order is decoupled from declared column order, which the
// executor preserves when writing output.
package dag

import (
	"fmt"

	"github.com/vk/sheetshift/internal/config"
)

// NodeID addresses one column recipe by sheet index and column index in the
// config's output sheets.
type NodeID struct {
	Sheet int
	Col   int
}

type node struct {
	id   NodeID
	name string // "Sheet.Column", for error reporting
	deps []int  // ordinals of nodes that must be computed first
}

// Graph is the dependency structure over all column recipes of a run.
// Node ordinals follow declaration order: sheet by sheet, column by column.
type Graph struct {
	nodes      []*node
	dependents [][]int // inverse edges, by ordinal
}

// Len returns the number of column recipes in the graph.
func (g *Graph) Len() int {
	return len(g.nodes)
}

// Name returns the "Sheet.Column" display name of a recipe.
func (g *Graph) Name(id NodeID) string {
	for _, n := range g.nodes {
		if n.id == id {
			return n.name
		}
	}
	return fmt.Sprintf("(%d,%d)", id.Sheet, id.Col)
}

// HasDependents reports whether any other recipe reads this column through a
// "_This" reference.
func (g *Graph) HasDependents(id NodeID) bool {
	for i, n := range g.nodes {
		if n.id == id {
			return len(g.dependents[i]) > 0
		}
	}
	return false
}

// Build constructs a validated dependency graph from the output sheet specs.
// The graph spans all sheets jointly, so cross-sheet "_This" references are
// ordinary edges. A reference to a sheet or column that does not exist in
// the output is a *config.SchemaError.
func Build(sheets []config.SheetSpec) (*Graph, error) {
	g := &Graph{}

	// First pass: one node per column, plus a title index for resolution.
	byName := make(map[string]map[string]int) // sheet name -> column title -> ordinal
	for si := range sheets {
		titles := make(map[string]int, len(sheets[si].Columns))
		byName[sheets[si].Name] = titles
		for ci := range sheets[si].Columns {
			titles[sheets[si].Columns[ci].Title] = len(g.nodes)
			g.nodes = append(g.nodes, &node{
				id:   NodeID{Sheet: si, Col: ci},
				name: sheets[si].Name + "." + sheets[si].Columns[ci].Title,
			})
		}
	}
	g.dependents = make([][]int, len(g.nodes))

	// Second pass: an edge per "_This" reference.
	ord := 0
	for si := range sheets {
		for ci := range sheets[si].Columns {
			col := &sheets[si].Columns[ci]
			for _, ref := range col.References() {
				if ref.Source.Scope != config.ScopeOutput {
					continue
				}
				titles, ok := byName[ref.Source.Sheet]
				if !ok {
					return nil, &config.SchemaError{
						Path: fmt.Sprintf("sheets[%d].columns[%d]", si, ci),
						Msg:  fmt.Sprintf("reference %q: no such output sheet", ref),
					}
				}
				dep, ok := titles[ref.Column]
				if !ok {
					return nil, &config.SchemaError{
						Path: fmt.Sprintf("sheets[%d].columns[%d]", si, ci),
						Msg:  fmt.Sprintf("reference %q: no such column in output sheet %q", ref, ref.Source.Sheet),
					}
				}
				g.nodes[ord].deps = append(g.nodes[ord].deps, dep)
				g.dependents[dep] = append(g.dependents[dep], ord)
			}
			ord++
		}
	}
	return g, nil
}
