package bridge

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/lib/pq"

	logger_lib "github.com/s21platform/logger-lib"

	"github.com/s21platform/messenger-service/internal/config"
	"github.com/s21platform/messenger-service/internal/model"
)

// notifyChannel is raised by the notify_change() trigger installed on every
// chat table; the payload is a model.ChangeEvent routing envelope.
const notifyChannel = "messenger_changes"

const (
	minReconnectInterval = 10 * time.Second
	maxReconnectInterval = time.Minute
)

// Callback re-runs whatever builder or pipeline owns the affected
// aggregate. It receives no payload: the signal means "re-fetch", nothing
// more.
type Callback func()

// Filter routes events to a subscriber. Empty fields match everything, so
// Filter{} subscribes to all events of a table.
type Filter struct {
	ConversationID string
	UserID         string
}

func (f Filter) matches(event model.ChangeEvent) bool {
	if f.ConversationID != "" && f.ConversationID != event.ConversationID {
		return false
	}
	if f.UserID != "" && f.UserID != event.UserID {
		return false
	}
	return true
}

type subscription struct {
	table    string
	filter   Filter
	callback Callback
}

// Bridge consumes the row store's change feed and fans each event out to
// in-process subscribers and to the realtime publisher. Event payloads are
// used for routing only; subscribers re-fetch full aggregates.
type Bridge struct {
	listener  *pq.Listener
	publisher Publisher

	mu            sync.Mutex
	nextID        int64
	subscriptions map[int64]subscription
}

func New(cfg *config.Config, publisher Publisher) (*Bridge, error) {
	conStr := fmt.Sprintf("user=%s password=%s dbname=%s host=%s port=%s sslmode=disable",
		cfg.Postgres.User, cfg.Postgres.Password, cfg.Postgres.Database, cfg.Postgres.Host, cfg.Postgres.Port)

	listener := pq.NewListener(conStr, minReconnectInterval, maxReconnectInterval, nil)
	if err := listener.Listen(notifyChannel); err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %v", notifyChannel, err)
	}

	return &Bridge{
		listener:      listener,
		publisher:     publisher,
		subscriptions: make(map[int64]subscription),
	}, nil
}

func (b *Bridge) Close() {
	_ = b.listener.Close()
}

// Subscribe registers a callback for change events of one table matching the
// filter. The returned teardown is idempotent and must be called when the
// owning context (open conversation, signed-in user) goes away.
func (b *Bridge) Subscribe(table string, filter Filter, callback Callback) func() {
	b.mu.Lock()
	b.nextID++
	id := b.nextID
	b.subscriptions[id] = subscription{table: table, filter: filter, callback: callback}
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subscriptions, id)
			b.mu.Unlock()
		})
	}
}

// Run blocks consuming notifications until the context is cancelled. A nil
// notification signals a reconnect; missed events are unrecoverable by
// design, so every subscriber is fired once as a full resync.
func (b *Bridge) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case notification := <-b.listener.Notify:
			if notification == nil {
				b.resync()
				continue
			}

			var event model.ChangeEvent
			if err := json.Unmarshal([]byte(notification.Extra), &event); err != nil {
				// malformed payload still means something changed
				b.resync()
				continue
			}

			b.dispatch(ctx, event)
		}
	}
}

func (b *Bridge) dispatch(ctx context.Context, event model.ChangeEvent) {
	b.mu.Lock()
	callbacks := make([]Callback, 0, len(b.subscriptions))
	for _, sub := range b.subscriptions {
		if sub.table == event.Table && sub.filter.matches(event) {
			callbacks = append(callbacks, sub.callback)
		}
	}
	b.mu.Unlock()

	for _, callback := range callbacks {
		callback()
	}

	if b.publisher == nil {
		return
	}
	if event.ConversationID != "" {
		b.publish(ctx, event.ConversationID, event)
	}
	if event.UserID != "" {
		b.publish(ctx, event.UserID, event)
	}
}

func (b *Bridge) publish(ctx context.Context, channel string, event model.ChangeEvent) {
	if err := b.publisher.Publish(ctx, channel, event); err != nil {
		if logger, ok := ctx.Value(config.KeyLogger).(logger_lib.LoggerInterface); ok {
			logger.Error(fmt.Sprintf("failed to publish change event: %v", err))
		}
	}
}

func (b *Bridge) resync() {
	b.mu.Lock()
	callbacks := make([]Callback, 0, len(b.subscriptions))
	for _, sub := range b.subscriptions {
		callbacks = append(callbacks, sub.callback)
	}
	b.mu.Unlock()

	for _, callback := range callbacks {
		callback()
	}
}
