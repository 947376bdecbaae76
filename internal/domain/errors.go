package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation indicates required input was missing or unparsable.
	ErrValidation = errors.New("validation failed")

	// ErrIllegalTransition indicates the operation is not permitted from
	// the task's current stage.
	ErrIllegalTransition = errors.New("illegal transition")

	// ErrTaskNotFound indicates no bucket holds a task with the given id.
	ErrTaskNotFound = errors.New("task not found")
)

// ValidationError reports a rejected input field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// IllegalTransitionError reports an operation attempted from a stage whose
// permission set does not include it.
type IllegalTransitionError struct {
	TaskID string
	From   Stage
	Op     Operation
}

func (e *IllegalTransitionError) Error() string {
	if e.From.IsTerminal() {
		return fmt.Sprintf("cannot %s task %s: %s is terminal", e.Op, e.TaskID, e.From)
	}
	return fmt.Sprintf("cannot %s task %s from %s", e.Op, e.TaskID, e.From)
}

func (e *IllegalTransitionError) Unwrap() error { return ErrIllegalTransition }

func illegal(t *Task, op Operation) error {
	return &IllegalTransitionError{TaskID: t.ID, From: t.Status, Op: op}
}
