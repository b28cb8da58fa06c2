package board

import (
	"errors"
	"fmt"
)

var (
	ErrAlreadyPending  = errors.New("entry already has a pending action")
	ErrNothingSelected = errors.New("nothing selected")
	// ErrParentPending is returned when commenting on an idea whose own
	// action has not been confirmed yet.
	ErrParentPending = errors.New("idea is waiting for the backend")
)

// NotFoundError means no entry is tagged with the action id. It signals a
// broken invariant, never a transient failure.
type NotFoundError struct {
	Kind     string
	ActionID ActionID
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("pending %s not found: action %d", e.Kind, e.ActionID)
}

type IndexError struct {
	Index int
	Len   int
}

func (e IndexError) Error() string {
	return fmt.Sprintf("index %d out of range (len %d)", e.Index, e.Len)
}

// OperationError is a backend failure for one queued action. The entry it
// tagged stays pending.
type OperationError struct {
	ActionID ActionID
	Kind     string
	Err      error
}

func (e *OperationError) Error() string {
	return fmt.Sprintf("%s (action %d): %v", e.Kind, e.ActionID, e.Err)
}

func (e *OperationError) Unwrap() error { return e.Err }

// UnknownIdeaError is returned for a durable id the board does not hold.
type UnknownIdeaError struct {
	ID int64
}

func (e UnknownIdeaError) Error() string {
	return fmt.Sprintf("idea not found: %d", e.ID)
}
