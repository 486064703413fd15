package eventbus

import (
	"context"
	"log/slog"
	"sync"

	"github.com/amirasaad/payflow/pkg/domain/events"
	"github.com/amirasaad/payflow/pkg/eventbus"
)

// MemoryEventBus is a simple in-memory implementation of the eventbus.Bus
// interface. Handlers run synchronously on the emitter's goroutine; handler
// errors are logged, never propagated, since subscribers are observational.
type MemoryEventBus struct {
	handlers  map[string][]eventbus.HandlerFunc
	mu        sync.RWMutex
	logger    *slog.Logger
	published []events.Event
}

// NewWithMemory creates a new in-memory event bus.
func NewWithMemory(logger *slog.Logger) *MemoryEventBus {
	return &MemoryEventBus{
		handlers: make(map[string][]eventbus.HandlerFunc),
		logger:   logger.With("bus", "memory"),
	}
}

// Register registers a handler for a specific event type.
func (b *MemoryEventBus) Register(eventType string, handler eventbus.HandlerFunc) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[eventType] = append(b.handlers[eventType], handler)
}

// Emit dispatches the event to all registered handlers for its type.
func (b *MemoryEventBus) Emit(ctx context.Context, event events.Event) error {
	b.mu.Lock()
	b.published = append(b.published, event)
	handlers := append([]eventbus.HandlerFunc(nil), b.handlers[event.Type()]...)
	b.mu.Unlock()

	for _, handler := range handlers {
		if err := handler(ctx, event); err != nil {
			b.logger.Error("event handler failed", "type", event.Type(), "error", err)
		}
	}
	return nil
}

// Published returns the events emitted so far. Useful in tests.
func (b *MemoryEventBus) Published() []events.Event {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([]events.Event(nil), b.published...)
}

var _ eventbus.Bus = (*MemoryEventBus)(nil)
