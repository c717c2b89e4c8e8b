package task

import "errors"

var (
	// ErrTaskNotFound indicates the task doesn't exist in the expected collection.
	ErrTaskNotFound = errors.New("task not found")
	// ErrInvalidInput indicates invalid input for task operations.
	ErrInvalidInput = errors.New("invalid task input")
	// ErrInvalidCategory indicates an unknown category value.
	ErrInvalidCategory = errors.New("invalid category")
	// ErrInvalidKind indicates an unknown collection kind.
	ErrInvalidKind = errors.New("invalid task kind")
	// ErrNotAssignment indicates a transfer was attempted on a non-assignment.
	ErrNotAssignment = errors.New("transfer source must be an assignment")
)
