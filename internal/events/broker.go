// Package events delivers entity-change notifications to subscribers.
//
// Mutations publish an Event after their transaction commits; feed
// connections subscribe to entity keys and receive the pushes. With Redis
// configured, events also cross instance boundaries over a pub/sub channel.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/createconomy/createconomy/internal/cache"
	"github.com/createconomy/createconomy/pkg/logging"
)

// Channel is the Redis pub/sub channel bridging brokers across instances
const Channel = "ccy:events"

// Event describes a committed change to an entity
type Event struct {
	Entity string `json:"entity"`
	ID     int64  `json:"id"`
	Action string `json:"action"`
	Origin string `json:"origin,omitempty"`
}

// Key returns the subscription key this event is delivered under
func (e Event) Key() string {
	return fmt.Sprintf("%s:%d", e.Entity, e.ID)
}

// Event action constants
const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
)

// Subscription receives events for the keys it is registered under
type Subscription struct {
	C    chan Event
	keys map[string]struct{}
}

// Broker fans events out to subscriptions by key
type Broker struct {
	mu   sync.RWMutex
	subs map[string]map[*Subscription]struct{}

	origin string
	cache  *cache.Cache
	logger *zap.Logger
}

// NewBroker creates a broker. The cache may be nil for single-instance use.
func NewBroker(c *cache.Cache) *Broker {
	return &Broker{
		subs:   make(map[string]map[*Subscription]struct{}),
		origin: uuid.NewString(),
		cache:  c,
		logger: logging.GetLogger().With(zap.String("component", "events")),
	}
}

// Run bridges remote events from Redis until ctx is canceled. No-op when
// Redis is not configured.
func (b *Broker) Run(ctx context.Context) {
	if b.cache == nil {
		return
	}

	pubsub, err := b.cache.Subscribe(ctx, Channel)
	if err != nil {
		b.logger.Warn("Event bridge unavailable", zap.Error(err))
		return
	}
	defer pubsub.Close()

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var ev Event
			if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
				b.logger.Warn("Malformed event payload", zap.Error(err))
				continue
			}
			// Skip events this broker published itself
			if ev.Origin == b.origin {
				continue
			}
			b.deliver(ev)
		}
	}
}

// Subscribe registers interest in the given keys
func (b *Broker) Subscribe(keys ...string) *Subscription {
	sub := &Subscription{
		C:    make(chan Event, 16),
		keys: make(map[string]struct{}, len(keys)),
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	for _, key := range keys {
		sub.keys[key] = struct{}{}
		if b.subs[key] == nil {
			b.subs[key] = make(map[*Subscription]struct{})
		}
		b.subs[key][sub] = struct{}{}
	}
	return sub
}

// Add registers additional keys on an existing subscription
func (b *Broker) Add(sub *Subscription, keys ...string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, key := range keys {
		if _, ok := sub.keys[key]; ok {
			continue
		}
		sub.keys[key] = struct{}{}
		if b.subs[key] == nil {
			b.subs[key] = make(map[*Subscription]struct{})
		}
		b.subs[key][sub] = struct{}{}
	}
}

// Remove drops keys from an existing subscription
func (b *Broker) Remove(sub *Subscription, keys ...string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, key := range keys {
		delete(sub.keys, key)
		if set, ok := b.subs[key]; ok {
			delete(set, sub)
			if len(set) == 0 {
				delete(b.subs, key)
			}
		}
	}
}

// Unsubscribe removes the subscription and closes its channel
func (b *Broker) Unsubscribe(sub *Subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for key := range sub.keys {
		if set, ok := b.subs[key]; ok {
			delete(set, sub)
			if len(set) == 0 {
				delete(b.subs, key)
			}
		}
	}
	sub.keys = nil
	close(sub.C)
}

// Publish fans an event out locally and, when bridged, to other instances
func (b *Broker) Publish(ctx context.Context, ev Event) {
	b.deliver(ev)

	if b.cache == nil {
		return
	}
	ev.Origin = b.origin
	payload, err := json.Marshal(ev)
	if err != nil {
		return
	}
	if err := b.cache.Publish(ctx, Channel, payload); err != nil && err != cache.ErrCacheDisabled {
		b.logger.Warn("Failed to bridge event", zap.Error(err))
	}
}

func (b *Broker) deliver(ev Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for sub := range b.subs[ev.Key()] {
		select {
		case sub.C <- ev:
		default:
			// Slow consumer; drop rather than block mutations
		}
	}
}
