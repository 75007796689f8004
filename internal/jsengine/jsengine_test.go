package jsengine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecuteMutatesTargetInPlace(t *testing.T) {
	tgt := make([]any, 3)
	bindings := map[string]any{
		"dpd":  [][]any{{"a", "b", "c"}},
		"rows": 3,
		"tgt":  tgt,
		"args": []string{},
	}
	script := `
for (let i = 0; i < rows; i++) {
	tgt[i] = dpd[0][i].toUpperCase();
}
`
	require.NoError(t, New().Execute(context.Background(), script, bindings))
	assert.Equal(t, []any{"A", "B", "C"}, tgt)
}

func TestExecuteSeesRunArguments(t *testing.T) {
	tgt := make([]any, 2)
	bindings := map[string]any{
		"rows": 2,
		"tgt":  tgt,
		"args": []string{"2026"},
	}
	require.NoError(t, New().Execute(context.Background(), `for (let i = 0; i < rows; i++) tgt[i] = args[0];`, bindings))
	assert.Equal(t, []any{"2026", "2026"}, tgt)
}

func TestExecuteReportsExceptions(t *testing.T) {
	err := New().Execute(context.Background(), `throw new Error("bad cell");`, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad cell")
}

func TestExecuteReportsSyntaxErrors(t *testing.T) {
	err := New().Execute(context.Background(), `for (;;`, nil)
	require.Error(t, err)
}

func TestExecuteIsolatesGlobals(t *testing.T) {
	e := New()
	require.NoError(t, e.Execute(context.Background(), `globalThis.leak = 1;`, nil))
	// A later run must not see state from the previous one.
	err := e.Execute(context.Background(), `if (typeof leak !== "undefined") throw new Error("leaked");`, nil)
	require.NoError(t, err)
}

func TestExecuteHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := New().Execute(ctx, `for (;;) {}`, nil)
	require.Error(t, err)
}
