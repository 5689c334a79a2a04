package domain

import (
	"errors"
	"fmt"
)

// Error categories. Specific errors wrap one of these so callers can branch
// with errors.Is on the category.
var (
	ErrValidation  = errors.New("validation failed")
	ErrNotFound    = errors.New("not found")
	ErrPersistence = errors.New("persistence failed")
)

// Common domain errors.
var (
	ErrEmptyTaskTitle     = fmt.Errorf("%w: task title cannot be empty", ErrValidation)
	ErrInvalidDueDate     = fmt.Errorf("%w: invalid due date", ErrValidation)
	ErrInvalidPriority    = fmt.Errorf("%w: invalid priority", ErrValidation)
	ErrInvalidTimerConfig = fmt.Errorf("%w: invalid timer config", ErrValidation)
	ErrAudioFileNotFound  = fmt.Errorf("%w: audio file does not exist or is not a regular file", ErrValidation)
	ErrTaskNotFound       = fmt.Errorf("%w: task", ErrNotFound)
	ErrEngineStopped      = errors.New("timer engine is not running")
)

// PersistenceError describes a failed read or write of a data file.
type PersistenceError struct {
	Op   string
	Path string
	Err  error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// Is makes every PersistenceError match ErrPersistence.
func (e *PersistenceError) Is(target error) bool {
	return target == ErrPersistence
}
