package dispatcher

import "time"

// Config tunes the delivery workers. Zero values fall back to defaults.
type Config struct {
	Workers           int
	QueueSize         int
	BroadcastQueue    int
	BroadcastInterval time.Duration
	PushTimeout       time.Duration
	EmailTimeout      time.Duration
}

func (c Config) withDefaults() Config {
	if c.Workers <= 0 {
		c.Workers = 2
	}
	if c.QueueSize <= 0 {
		c.QueueSize = 256
	}
	if c.BroadcastQueue <= 0 {
		c.BroadcastQueue = 16
	}
	if c.BroadcastInterval <= 0 {
		c.BroadcastInterval = 100 * time.Millisecond
	}
	if c.PushTimeout <= 0 {
		c.PushTimeout = 2 * time.Second
	}
	if c.EmailTimeout <= 0 {
		c.EmailTimeout = 10 * time.Second
	}
	return c
}
