package logistics

import (
	"fmt"
	"strings"

	"marketplace/internal/pkg/errs"
)

// Status is the delivery sub-state of an accepted transaction.
//
//	Pending ──> InTransit ──> Delivered
//	   │           │  ↺ (checkpoint)
//	   └───────────┴──> Exception
//
// Delivered and Exception are terminal. A status never regresses.
type Status int

const (
	Unknown Status = iota
	Pending
	InTransit
	Delivered
	Exception
)

var statusNames = map[Status]string{
	Pending:   "PENDING",
	InTransit: "IN_TRANSIT",
	Delivered: "DELIVERED",
	Exception: "EXCEPTION",
}

var transitions = map[Status][]Status{
	Pending:   {InTransit, Exception},
	InTransit: {InTransit, Delivered, Exception},
}

func ParseStatus(s string) (Status, error) {
	name := strings.ToUpper(strings.TrimSpace(s))
	for status, n := range statusNames {
		if n == name {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%q is not a valid logistics status", s))
}

func (s Status) Validate() error {
	if _, ok := statusNames[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return "UNKNOWN"
}

func (s Status) IsTerminal() bool {
	return s == Delivered || s == Exception
}

// CanTransitionTo reports whether a tracking update may move s to next.
// InTransit -> InTransit is a checkpoint and is allowed.
func (s Status) CanTransitionTo(next Status) bool {
	for _, candidate := range transitions[s] {
		if candidate == next {
			return true
		}
	}
	return false
}
