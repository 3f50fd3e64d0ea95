// Package dispatcher delivers user notifications.
//
// Every notification is stored first; the call fails only if that write fails.
// The stored notification is then handed to a pool of delivery workers over a
// bounded channel. A worker pushes it to the user's realtime channel with a short
// timeout and, for HIGH priority, also sends it by email. A full queue drops the
// delivery, never the stored notification. Channel failures are logged and
// counted, never returned.
//
// Broadcasts run on their own goroutine and are paced by a rate limiter so that a
// large announcement does not flood the channels.
package dispatcher
