// Package redis pushes notifications to per-user Pub/Sub channels. Delivery is best
// effort: a user without a live subscriber simply misses the push.
package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"marketplace/internal/core/domain/model/notification"

	goredis "github.com/redis/go-redis/v9"
)

// UserChannel is the Pub/Sub channel of one user: notifications:user:{user_id}.
const UserChannel = "notifications:user:%s"

// NewClient builds a client with short timeouts; the push path never waits long.
func NewClient(addr string) *goredis.Client {
	return goredis.NewClient(&goredis.Options{
		Addr:         addr,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
	})
}

type publisher interface {
	Publish(ctx context.Context, channel string, message interface{}) *goredis.IntCmd
}

// Publisher implements ports.RealtimePublisher.
type Publisher struct {
	client publisher
}

func NewPublisher(client publisher) *Publisher {
	return &Publisher{client: client}
}

// Message is the JSON document published on the user channel.
type Message struct {
	ID        string         `json:"id"`
	Type      string         `json:"type"`
	Title     string         `json:"title"`
	Message   string         `json:"message"`
	Data      map[string]any `json:"data,omitempty"`
	Priority  string         `json:"priority"`
	CreatedAt time.Time      `json:"createdAt"`
}

func (p *Publisher) Publish(ctx context.Context, n *notification.Notification) error {
	payload, err := json.Marshal(Message{
		ID:        n.ID().String(),
		Type:      string(n.Type()),
		Title:     n.Title(),
		Message:   n.Message(),
		Data:      n.Data(),
		Priority:  n.Priority().String(),
		CreatedAt: n.CreatedAt(),
	})
	if err != nil {
		return fmt.Errorf("encode push: %w", err)
	}

	channel := fmt.Sprintf(UserChannel, n.UserID())
	if err = p.client.Publish(ctx, channel, payload).Err(); err != nil {
		return fmt.Errorf("publish to %s: %w", channel, err)
	}
	return nil
}
