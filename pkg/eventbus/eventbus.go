// Package eventbus defines the contract for publishing and subscribing to
// domain events.
package eventbus

import (
	"context"

	"github.com/amirasaad/payflow/pkg/domain/events"
)

// HandlerFunc consumes a single event.
type HandlerFunc func(ctx context.Context, event events.Event) error

// Bus dispatches domain events to registered handlers.
type Bus interface {
	Register(eventType string, handler HandlerFunc)
	Emit(ctx context.Context, event events.Event) error
}
