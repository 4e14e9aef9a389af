// Package events provides an in-memory event bus for account lifecycle
// events. Handlers run asynchronously; the publishing request path never
// waits on them.
package events

import (
	"context"
	"log"
	"sync"
	"time"
)

// EventType represents the type of account event.
type EventType string

const (
	// EventTypeAccountCreated indicates a user completed signup.
	EventTypeAccountCreated EventType = "account.created"
	// EventTypeAccountDeleted indicates a user deleted their account.
	EventTypeAccountDeleted EventType = "account.deleted"
)

// AccountEvent carries the data a post-commit hook needs about the account.
type AccountEvent struct {
	Type      EventType `json:"type"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Timestamp time.Time `json:"timestamp"`
}

// Handler is a function that handles account events.
type Handler func(event AccountEvent)

// Bus provides publish-subscribe functionality for account events.
type Bus struct {
	handlers map[EventType][]Handler
	mu       sync.RWMutex
}

// New creates a new Bus.
func New() *Bus {
	return &Bus{
		handlers: make(map[EventType][]Handler),
	}
}

// Subscribe registers a handler for a specific event type.
func (b *Bus) Subscribe(eventType EventType, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)
	log.Printf("[events] Subscribed to %s", eventType)
}

// Publish publishes an event to all registered handlers.
// Handlers run in their own goroutines; a panicking handler is recovered
// and logged so it cannot fail the mutation that triggered it.
func (b *Bus) Publish(_ context.Context, event AccountEvent) {
	b.mu.RLock()
	handlers := b.handlers[event.Type]
	b.mu.RUnlock()

	for _, handler := range handlers {
		go func(h Handler) {
			defer func() {
				if r := recover(); r != nil {
					log.Printf("[events] Handler panic for %s: %v", event.Type, r)
				}
			}()
			h(event)
		}(handler)
	}
}

// PublishAccountCreated publishes an account created event.
func (b *Bus) PublishAccountCreated(ctx context.Context, name, email string) {
	b.Publish(ctx, AccountEvent{
		Type:      EventTypeAccountCreated,
		Name:      name,
		Email:     email,
		Timestamp: time.Now(),
	})
}

// PublishAccountDeleted publishes an account deleted event.
func (b *Bus) PublishAccountDeleted(ctx context.Context, name, email string) {
	b.Publish(ctx, AccountEvent{
		Type:      EventTypeAccountDeleted,
		Name:      name,
		Email:     email,
		Timestamp: time.Now(),
	})
}

// HandlerCount returns the number of handlers for a specific event type.
func (b *Bus) HandlerCount(eventType EventType) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.handlers[eventType])
}
