package transaction

import (
	"fmt"
	"strings"

	"marketplace/internal/pkg/errs"
)

// Status represents the lifecycle state of a transaction.
//
// State transitions:
//
//	Pending ──┬──> Accepted ──┬──> Completed
//	          │               │
//	          └──> Cancelled <┘
//
// Completed and Cancelled are terminal. Statuses are persisted as integers
// and exposed over the API by name.
type Status int

const (
	// Unknown represents an invalid or undefined status.
	// This value (0) helps catch uninitialized Status values.
	Unknown Status = iota

	// Pending is the initial status: the buyer asked, the seller has not answered.
	Pending

	// Accepted means the seller agreed; a logistics record exists from this point on.
	Accepted

	// Completed means the goods changed hands. Terminal.
	Completed

	// Cancelled means either party withdrew. Terminal.
	Cancelled
)

var statusNames = map[Status]string{
	Pending:   "PENDING",
	Accepted:  "ACCEPTED",
	Completed: "COMPLETED",
	Cancelled: "CANCELLED",
}

// transitions is the complete edge set of the lifecycle graph.
var transitions = map[Status][]Status{
	Pending:  {Accepted, Cancelled},
	Accepted: {Completed, Cancelled},
}

// ParseStatus maps an API name such as "ACCEPTED" to a Status.
func ParseStatus(s string) (Status, error) {
	name := strings.ToUpper(strings.TrimSpace(s))
	for status, n := range statusNames {
		if n == name {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%q is not a valid transaction status", s))
}

// Validate checks that the status is one of the four lifecycle states.
func (s Status) Validate() error {
	if _, ok := statusNames[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the API name of the status, or "UNKNOWN".
func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return "UNKNOWN"
}

// IsTerminal reports whether no transition leaves this status.
func (s Status) IsTerminal() bool {
	return s == Completed || s == Cancelled
}

// CanTransitionTo reports whether next is a legal successor of s.
func (s Status) CanTransitionTo(next Status) bool {
	for _, candidate := range transitions[s] {
		if candidate == next {
			return true
		}
	}
	return false
}

// TransitionTo returns next when the edge s -> next exists.
//
// Returns:
//   - (next, nil) on a legal edge
//   - (s, InvalidStateTransitionError) otherwise, including every edge out of a terminal status
func (s Status) TransitionTo(next Status) (Status, error) {
	if !s.CanTransitionTo(next) {
		return s, errs.NewInvalidStateTransitionError("transaction", s.String(), next.String())
	}
	return next, nil
}
