package scheduler

import "errors"

var (
	// ErrInvalidTask is returned when a task fails validation at Add.
	ErrInvalidTask = errors.New("scheduler: invalid task")

	// ErrTaskNotFound is returned when a task ID does not exist.
	ErrTaskNotFound = errors.New("scheduler: task not found")
)
