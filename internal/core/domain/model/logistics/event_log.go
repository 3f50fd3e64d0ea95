package logistics

import (
	"cmp"
	"slices"
)

// EventLog is the append-only, ordered history of one delivery.
// Events are ordered by timestamp and then by insertion order, so events that
// arrive late with an earlier timestamp still sort into place.
type EventLog struct {
	events []TrackingEvent
}

// NewEventLog loads persisted events in any order.
func NewEventLog(events ...TrackingEvent) EventLog {
	log := EventLog{events: slices.Clone(events)}
	log.sort()
	return log
}

// Append assigns the next sequence number to e and adds it to the log.
func (l *EventLog) Append(e TrackingEvent) TrackingEvent {
	e.sequence = l.maxSequence() + 1
	l.events = append(l.events, e)
	l.sort()
	return e
}

// Events returns a copy in log order.
func (l EventLog) Events() []TrackingEvent {
	return slices.Clone(l.events)
}

func (l EventLog) Len() int {
	return len(l.events)
}

// Last returns the latest event in log order.
func (l EventLog) Last() (TrackingEvent, bool) {
	if len(l.events) == 0 {
		return TrackingEvent{}, false
	}
	return l.events[len(l.events)-1], true
}

func (l EventLog) maxSequence() int {
	highest := 0
	for _, e := range l.events {
		highest = max(highest, e.sequence)
	}
	return highest
}

func (l *EventLog) sort() {
	slices.SortStableFunc(l.events, func(a, b TrackingEvent) int {
		if c := a.occurredAt.Compare(b.occurredAt); c != 0 {
			return c
		}
		return cmp.Compare(a.sequence, b.sequence)
	})
}
