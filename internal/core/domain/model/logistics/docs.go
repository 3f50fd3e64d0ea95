// Package logistics implements the delivery sub-state of an accepted transaction:
// the Logistics aggregate, its status graph and the append-only tracking event log.
//
// Overdue is never stored; IsOverdue derives it from the estimated and actual
// delivery timestamps at query time.
package logistics
