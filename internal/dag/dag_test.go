package dag

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/sheetshift/internal/config"
)

func ref(sheet, col string) config.ColumnRef {
	return config.ColumnRef{Source: config.ParseSourceRef(sheet), Column: col}
}

func pasted(title string, from config.ColumnRef) config.ColumnSpec {
	return config.ColumnSpec{Title: title, Kind: config.KindPasted, CopyFrom: from}
}

func scripted(title string, deps ...config.ColumnRef) config.ColumnSpec {
	return config.ColumnSpec{Title: title, Kind: config.KindScripted, Dependence: deps, Script: "noop"}
}

func names(g *Graph, order []NodeID) []string {
	out := make([]string, len(order))
	for i, id := range order {
		out[i] = g.Name(id)
	}
	return out
}

func TestScheduleFollowsDependenciesNotDeclaredOrder(t *testing.T) {
	// Declared C, B, A, but C needs B and B needs A.
	sheets := []config.SheetSpec{{Name: "Sheet", Columns: []config.ColumnSpec{
		pasted("C", ref("_This.Sheet", "B")),
		scripted("B", ref("_This.Sheet", "A")),
		pasted("A", ref("Src", "Raw")),
	}}}

	g, err := Build(sheets)
	require.NoError(t, err)
	order, err := g.Schedule()
	require.NoError(t, err)
	assert.Equal(t, []string{"Sheet.A", "Sheet.B", "Sheet.C"}, names(g, order))
	assert.Equal(t, []NodeID{{0, 2}, {0, 1}, {0, 0}}, order)
}

func TestSchedulePreservesDeclarationOrderForIndependentColumns(t *testing.T) {
	sheets := []config.SheetSpec{{Name: "S", Columns: []config.ColumnSpec{
		pasted("P", ref("Src", "A")),
		{Title: "F", Kind: config.KindFilled, FillWith: "x"},
		{Title: "I", Kind: config.KindIndex, IndexStart: int64(1)},
		pasted("Q", ref("Src", "B")),
	}}}

	g, err := Build(sheets)
	require.NoError(t, err)
	order, err := g.Schedule()
	require.NoError(t, err)
	assert.Equal(t, []string{"S.P", "S.F", "S.I", "S.Q"}, names(g, order))
}

func TestScheduleTieBreaksByDeclarationIndex(t *testing.T) {
	// D and B both become ready once A is done; B is declared earlier.
	sheets := []config.SheetSpec{{Name: "S", Columns: []config.ColumnSpec{
		scripted("B", ref("_This.S", "A")),
		pasted("A", ref("Src", "Raw")),
		scripted("D", ref("_This.S", "A")),
	}}}

	g, err := Build(sheets)
	require.NoError(t, err)
	order, err := g.Schedule()
	require.NoError(t, err)
	assert.Equal(t, []string{"S.A", "S.B", "S.D"}, names(g, order))
}

func TestScheduleSpansSheetsJointly(t *testing.T) {
	// A column in the first sheet depends on a column of the second.
	sheets := []config.SheetSpec{
		{Name: "First", Columns: []config.ColumnSpec{
			scripted("Total", ref("_This.Second", "Count")),
		}},
		{Name: "Second", Columns: []config.ColumnSpec{
			pasted("Count", ref("Src", "N")),
		}},
	}

	g, err := Build(sheets)
	require.NoError(t, err)
	order, err := g.Schedule()
	require.NoError(t, err)
	assert.Equal(t, []string{"Second.Count", "First.Total"}, names(g, order))
}

func TestScheduleDetectsCycle(t *testing.T) {
	for _, declared := range [][]config.ColumnSpec{
		{
			scripted("A", ref("_This.Sheet", "B")),
			scripted("B", ref("_This.Sheet", "A")),
		},
		{
			scripted("B", ref("_This.Sheet", "A")),
			scripted("A", ref("_This.Sheet", "B")),
		},
	} {
		g, err := Build([]config.SheetSpec{{Name: "Sheet", Columns: declared}})
		require.NoError(t, err)
		_, err = g.Schedule()
		require.Error(t, err)
		var cycleErr *CycleError
		require.True(t, errors.As(err, &cycleErr))
		assert.Contains(t, cycleErr.Columns, "Sheet.A")
		assert.Contains(t, cycleErr.Columns, "Sheet.B")
	}
}

func TestScheduleSelfReferenceIsACycle(t *testing.T) {
	g, err := Build([]config.SheetSpec{{Name: "S", Columns: []config.ColumnSpec{
		scripted("Loop", ref("_This.S", "Loop")),
	}}})
	require.NoError(t, err)
	_, err = g.Schedule()
	var cycleErr *CycleError
	require.True(t, errors.As(err, &cycleErr))
	assert.Equal(t, []string{"S.Loop"}, cycleErr.Columns)
}

func TestBuildRejectsUnknownReference(t *testing.T) {
	_, err := Build([]config.SheetSpec{{Name: "S", Columns: []config.ColumnSpec{
		pasted("C", ref("_This.S", "Nope")),
	}}})
	require.Error(t, err)
	var schemaErr *config.SchemaError
	require.True(t, errors.As(err, &schemaErr))
	assert.Equal(t, "sheets[0].columns[0]", schemaErr.Path)
}

func TestHasDependents(t *testing.T) {
	sheets := []config.SheetSpec{{Name: "S", Columns: []config.ColumnSpec{
		{Title: "I", Kind: config.KindIndex, IndexStart: int64(1)},
		scripted("B", ref("_This.S", "I")),
	}}}
	g, err := Build(sheets)
	require.NoError(t, err)
	assert.True(t, g.HasDependents(NodeID{0, 0}))
	assert.False(t, g.HasDependents(NodeID{0, 1}))
}
