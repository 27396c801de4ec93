package graph

import (
	"errors"
	"fmt"
)

// Common sentinel errors
var (
	ErrInvalidCSR    = errors.New("invalid CSR structure")
	ErrInvalidWeight = errors.New("invalid edge weight")
	ErrDuplicateNode = errors.New("duplicate node label")
	ErrUnknownNode   = errors.New("unknown node")
)

// GraphError provides structured error information for graph construction.
type GraphError struct {
	Op      string // Operation that failed (e.g., "FromCSR", "AddEdge")
	Node    string // External node label, if applicable
	Index   int    // Dense index, -1 when not applicable
	Cause   error
	Context string
}

// Error implements the error interface.
func (e *GraphError) Error() string {
	switch {
	case e.Node != "":
		return fmt.Sprintf("%s node %q: %v", e.Op, e.Node, e.Cause)
	case e.Index >= 0 && e.Context != "":
		return fmt.Sprintf("%s index %d (%s): %v", e.Op, e.Index, e.Context, e.Cause)
	case e.Index >= 0:
		return fmt.Sprintf("%s index %d: %v", e.Op, e.Index, e.Cause)
	case e.Context != "":
		return fmt.Sprintf("%s (%s): %v", e.Op, e.Context, e.Cause)
	default:
		return fmt.Sprintf("%s: %v", e.Op, e.Cause)
	}
}

// Unwrap returns the underlying cause for error chain support.
func (e *GraphError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target error matches this error's cause.
func (e *GraphError) Is(target error) bool {
	if target == nil {
		return false
	}
	return errors.Is(e.Cause, target)
}

func csrError(index int, context string) error {
	return &GraphError{Op: "FromCSR", Index: index, Cause: ErrInvalidCSR, Context: context}
}
