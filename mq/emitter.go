// Package mq publishes careers domain events.
package mq

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// Channel is the Redis pub/sub channel every event is published on.
const Channel = "careers-events"

const (
	JobCreated         = "job-created"
	JobUpdated         = "job-updated"
	JobDeleted         = "job-deleted"
	ApplicationCreated = "application-created"
	ApplicationDeleted = "application-deleted"
)

// Event represents a confirmed mutation of the careers collections.
type Event struct {
	Type     string    `json:"type"`
	EntityID string    `json:"entity_id"`
	JobID    string    `json:"job_id,omitempty"`
	At       time.Time `json:"at"`
}

// Emitter delivers events. Emit never fails the mutation that caused it.
type Emitter interface {
	Emit(ctx context.Context, event Event)
}

// RedisEmitter publishes events to Channel.
type RedisEmitter struct {
	client *redis.Client
}

func NewRedisEmitter(client *redis.Client) *RedisEmitter {
	return &RedisEmitter{client: client}
}

func (e *RedisEmitter) Emit(ctx context.Context, event Event) {
	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("[Emit] Failed to marshal event content: %v", err)
		return
	}
	if err := e.client.Publish(ctx, Channel, data).Err(); err != nil {
		log.Printf("[Emit] Failed to publish %s for %s: %v", event.Type, event.EntityID, err)
		return
	}
	log.Printf("[Emit] %s %s published to channel '%s'", event.Type, event.EntityID, Channel)
}

// Noop drops every event. It is used when Redis is not configured.
type Noop struct{}

func (Noop) Emit(context.Context, Event) {}
