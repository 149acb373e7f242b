package talent

import (
	"errors"
	"fmt"
)

// MissingInputError reports that a required source table or column is absent.
// It is fatal: the pipeline refuses to run against a partial schema, so no
// partial output ever exists. All other conditions (unresolved join keys,
// degenerate arithmetic) are absorbed via defaults and never raised.
type MissingInputError struct {
	Table   string // source table identifier, e.g. "pitch_events"
	Missing string // the missing column or other identifier; empty when the whole table is absent
	Err     error  // underlying cause, if any
}

// Error implements the error interface.
func (e *MissingInputError) Error() string {
	switch {
	case e.Missing != "" && e.Err != nil:
		return fmt.Sprintf("missing required input: %s: %s: %v", e.Table, e.Missing, e.Err)
	case e.Missing != "":
		return fmt.Sprintf("missing required input: %s: %s", e.Table, e.Missing)
	case e.Err != nil:
		return fmt.Sprintf("missing required input: %s: %v", e.Table, e.Err)
	default:
		return fmt.Sprintf("missing required input: %s", e.Table)
	}
}

// Unwrap exposes the underlying cause for errors.Is/As chains.
func (e *MissingInputError) Unwrap() error {
	return e.Err
}

// NewMissingTable reports an entirely absent source table.
func NewMissingTable(table string, err error) *MissingInputError {
	return &MissingInputError{Table: table, Err: err}
}

// NewMissingColumn reports a required column absent from a source table.
func NewMissingColumn(table, column string) *MissingInputError {
	return &MissingInputError{Table: table, Missing: column}
}

// IsMissingInput reports whether err is (or wraps) a MissingInputError.
func IsMissingInput(err error) bool {
	var miss *MissingInputError
	return errors.As(err, &miss)
}
