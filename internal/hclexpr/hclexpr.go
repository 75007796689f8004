// Package hclexpr evaluates mapping lambda expressions. Expressions use the
// HCL expression syntax with the cell exposed as the "value" variable, e.g.
// `upper(value)` or `value == "" ? "n/a" : value`.
package hclexpr

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/function"
	"github.com/zclconf/go-cty/cty/function/stdlib"
)

// Mapper evaluates single-argument mapping expressions. Parsed expressions
// are cached, since a mapping is applied once per cell of its column.
type Mapper struct {
	funcs map[string]function.Function
	cache map[string]hclsyntax.Expression
}

// New creates a Mapper with the standard string-manipulation functions
// installed.
func New() *Mapper {
	return &Mapper{
		funcs: map[string]function.Function{
			"upper":     stdlib.UpperFunc,
			"lower":     stdlib.LowerFunc,
			"trim":      stdlib.TrimFunc,
			"trimspace": stdlib.TrimSpaceFunc,
			"replace":   stdlib.ReplaceFunc,
			"substr":    stdlib.SubstrFunc,
			"strlen":    stdlib.StrlenFunc,
			"format":    stdlib.FormatFunc,
			"coalesce":  stdlib.CoalesceFunc,
			"parseint":  stdlib.ParseIntFunc,
		},
		cache: make(map[string]hclsyntax.Expression),
	}
}

// Map evaluates the expression against one cell value and returns the
// result, converted to a string.
func (m *Mapper) Map(_ context.Context, expr string, value string) (string, error) {
	parsed, err := m.parse(expr)
	if err != nil {
		return "", err
	}

	evalCtx := &hcl.EvalContext{
		Variables: map[string]cty.Value{"value": cty.StringVal(value)},
		Functions: m.funcs,
	}
	out, diags := parsed.Value(evalCtx)
	if diags.HasErrors() {
		return "", fmt.Errorf("evaluate %q: %w", expr, diags)
	}

	converted, err := convert.Convert(out, cty.String)
	if err != nil {
		return "", fmt.Errorf("expression %q result: %w", expr, err)
	}
	if converted.IsNull() {
		return "", nil
	}
	return converted.AsString(), nil
}

func (m *Mapper) parse(expr string) (hclsyntax.Expression, error) {
	if parsed, ok := m.cache[expr]; ok {
		return parsed, nil
	}
	parsed, diags := hclsyntax.ParseExpression([]byte(expr), "mapping", hcl.InitialPos)
	if diags.HasErrors() {
		return nil, fmt.Errorf("parse %q: %w", expr, diags)
	}
	m.cache[expr] = parsed
	return parsed, nil
}
