package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const ModerationEventsChannel = "moderation_events"

// ModerationEvent is published after a moderation transition commits.
type ModerationEvent struct {
	ContentID    string    `json:"content_id"`
	ContentTitle string    `json:"content_title"`
	CreatorID    string    `json:"creator_id"`
	Language     string    `json:"original_language"`
	Status       string    `json:"status"`
	Action       string    `json:"action"`
	Reason       string    `json:"reason,omitempty"`
	Warning      string    `json:"warning,omitempty"`
	AdminID      string    `json:"admin_id"`
	AdminName    string    `json:"admin_name"`
	Timestamp    time.Time `json:"timestamp"`
}

// Bus carries moderation events to subscribers. The returned cancel func
// releases the subscription and closes the channel.
type Bus interface {
	Publish(ctx context.Context, ev ModerationEvent) error
	Subscribe(ctx context.Context) (<-chan ModerationEvent, func(), error)
}

// RedisBus fans events out over redis pub/sub so every API instance sees them.
type RedisBus struct {
	client *redis.Client
	log    *zap.Logger
}

func NewRedisBus(client *redis.Client, log *zap.Logger) *RedisBus {
	if log == nil {
		log = zap.NewNop()
	}
	return &RedisBus{client: client, log: log}
}

func (b *RedisBus) Publish(ctx context.Context, ev ModerationEvent) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	if err := b.client.Publish(ctx, ModerationEventsChannel, payload).Err(); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}
	return nil
}

func (b *RedisBus) Subscribe(ctx context.Context) (<-chan ModerationEvent, func(), error) {
	pubsub := b.client.Subscribe(ctx, ModerationEventsChannel)
	// Wait for the subscription confirmation so no event published after
	// Subscribe returns is missed.
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, nil, fmt.Errorf("failed to subscribe to %s: %w", ModerationEventsChannel, err)
	}

	out := make(chan ModerationEvent, 16)
	go func() {
		defer close(out)
		for msg := range pubsub.Channel() {
			var ev ModerationEvent
			if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
				b.log.Warn("dropping undecodable moderation event", zap.Error(err))
				continue
			}
			select {
			case out <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()

	var once sync.Once
	cancel := func() { once.Do(func() { _ = pubsub.Close() }) }
	return out, cancel, nil
}

// MemoryBus is the single-process Bus. Slow subscribers drop events rather
// than block the publisher.
type MemoryBus struct {
	mu   sync.Mutex
	subs map[int]chan ModerationEvent
	next int
	log  *zap.Logger
}

func NewMemoryBus(log *zap.Logger) *MemoryBus {
	if log == nil {
		log = zap.NewNop()
	}
	return &MemoryBus{subs: make(map[int]chan ModerationEvent), log: log}
}

func (b *MemoryBus) Publish(_ context.Context, ev ModerationEvent) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, ch := range b.subs {
		select {
		case ch <- ev:
		default:
			b.log.Warn("dropping moderation event for slow subscriber", zap.String("content_id", ev.ContentID))
		}
	}
	return nil
}

func (b *MemoryBus) Subscribe(_ context.Context) (<-chan ModerationEvent, func(), error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	id := b.next
	b.next++
	ch := make(chan ModerationEvent, 64)
	b.subs[id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs, id)
			b.mu.Unlock()
			close(ch)
		})
	}
	return ch, cancel, nil
}
