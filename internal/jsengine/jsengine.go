// Package jsengine runs user migration scripts on an embedded JavaScript
// interpreter. Scripts mutate the bound slices in place; the engine itself
// keeps no state between executions.
package jsengine

import (
	"context"
	"errors"
	"fmt"

	"github.com/dop251/goja"
)

// Engine evaluates JavaScript with the dop251/goja interpreter. Every
// execution gets a fresh VM, so scripts cannot leak globals into each other.
type Engine struct{}

// New creates a JavaScript engine.
func New() *Engine {
	return &Engine{}
}

// Execute runs the script with the bindings installed as globals. Go slices
// are bound by reference, so a script writing into "tgt" mutates the
// caller's buffer. Cancelling the context interrupts a running script.
func (e *Engine) Execute(ctx context.Context, script string, bindings map[string]any) error {
	vm := goja.New()
	for name, value := range bindings {
		if err := vm.Set(name, value); err != nil {
			return fmt.Errorf("bind %q: %w", name, err)
		}
	}

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			vm.Interrupt(ctx.Err())
		case <-done:
		}
	}()

	if _, err := vm.RunString(script); err != nil {
		var exc *goja.Exception
		if errors.As(err, &exc) {
			return fmt.Errorf("uncaught exception: %s", exc.Value())
		}
		return err
	}
	return nil
}
