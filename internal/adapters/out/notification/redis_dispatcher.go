// Package notification publishes driver notifications to Redis, where the
// mobile push gateway subscribes to them.
package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"fleetwise/internal/core/domain/model/kernel"
	"fleetwise/internal/core/ports"

	"github.com/redis/go-redis/v9"
)

const (
	DefaultChannel = "fleetwise:notifications"

	// inboxSize caps the per-driver backlog kept for drivers that were
	// offline when a message was published.
	inboxSize = 50
	inboxTTL  = 24 * time.Hour
)

// Message is the published JSON document.
type Message struct {
	DriverID kernel.UUID       `json:"driver_id"`
	JobID    kernel.UUID       `json:"job_id"`
	Kind     string            `json:"kind"`
	Title    string            `json:"title"`
	Body     string            `json:"body"`
	Data     map[string]string `json:"data,omitempty"`
	SentAt   time.Time         `json:"sent_at"`
}

// RedisDispatcher implements ports.Notifier over Redis pub/sub.
type RedisDispatcher struct {
	client  redis.UniversalClient
	channel string
	now     func() time.Time
}

func NewRedisDispatcher(client redis.UniversalClient, channel string) *RedisDispatcher {
	if channel == "" {
		channel = DefaultChannel
	}
	return &RedisDispatcher{
		client:  client,
		channel: channel,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Notify publishes n and appends it to the driver's inbox in one pipeline.
func (d *RedisDispatcher) Notify(ctx context.Context, n ports.Notification) error {
	payload, err := json.Marshal(Message{
		DriverID: n.DriverID,
		JobID:    n.JobID,
		Kind:     string(n.Kind),
		Title:    n.Title,
		Body:     n.Body,
		Data:     n.Data,
		SentAt:   d.now(),
	})
	if err != nil {
		return fmt.Errorf("encode notification: %w", err)
	}

	inbox := InboxKey(d.channel, n.DriverID)
	_, err = d.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Publish(ctx, d.channel, payload)
		pipe.LPush(ctx, inbox, payload)
		pipe.LTrim(ctx, inbox, 0, inboxSize-1)
		pipe.Expire(ctx, inbox, inboxTTL)
		return nil
	})
	if err != nil {
		return fmt.Errorf("publish notification to %s: %w", d.channel, err)
	}
	return nil
}

// InboxKey names the list holding a driver's recent notifications.
func InboxKey(channel string, driverID kernel.UUID) string {
	return fmt.Sprintf("%s:inbox:%s", channel, driverID)
}
