package errs

import (
	"errors"
	"fmt"
)

var ErrInvalidStateTransition = errors.New("invalid state transition")

// InvalidStateTransitionError reports an edge that is not part of an entity's state graph.
type InvalidStateTransitionError struct {
	Entity string
	From   string
	To     string
}

func NewInvalidStateTransitionError(entity, from, to string) *InvalidStateTransitionError {
	return &InvalidStateTransitionError{
		Entity: entity,
		From:   from,
		To:     to,
	}
}

func (e *InvalidStateTransitionError) Error() string {
	return fmt.Sprintf("%s: %s cannot move from %s to %s", ErrInvalidStateTransition, e.Entity, e.From, e.To)
}

func (e *InvalidStateTransitionError) Unwrap() error {
	return ErrInvalidStateTransition
}
