package executor

import "fmt"

// ScriptError wraps a failure inside user script code, naming the stage it
// ran in ("pre-process", "post-process", or a "Sheet.Column" display name).
type ScriptError struct {
	Stage string
	Err   error
}

func (e *ScriptError) Error() string {
	return fmt.Sprintf("script %s: %v", e.Stage, e.Err)
}

func (e *ScriptError) Unwrap() error {
	return e.Err
}

// MappingError wraps a failure while applying a column mapping.
type MappingError struct {
	Column string
	Err    error
}

func (e *MappingError) Error() string {
	return fmt.Sprintf("mapping for column %s: %v", e.Column, e.Err)
}

func (e *MappingError) Unwrap() error {
	return e.Err
}
