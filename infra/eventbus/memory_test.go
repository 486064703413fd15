package eventbus_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/amirasaad/payflow/infra/eventbus"
	"github.com/amirasaad/payflow/pkg/domain/events"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBus() *eventbus.MemoryEventBus {
	return eventbus.NewWithMemory(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestEmit_DispatchesByType(t *testing.T) {
	bus := newBus()
	var settled, failed int
	bus.Register(events.PaymentSettled{}.Type(), func(ctx context.Context, e events.Event) error {
		settled++
		return nil
	})
	bus.Register(events.PaymentFailed{}.Type(), func(ctx context.Context, e events.Event) error {
		failed++
		return nil
	})

	require.NoError(t, bus.Emit(context.Background(), events.PaymentSettled{PaymentID: uuid.New()}))
	require.NoError(t, bus.Emit(context.Background(), events.PaymentSettled{PaymentID: uuid.New()}))

	assert.Equal(t, 2, settled)
	assert.Equal(t, 0, failed, "handlers only see their own type")
	assert.Len(t, bus.Published(), 2)
}

func TestEmit_HandlerErrorsDoNotPropagate(t *testing.T) {
	bus := newBus()
	var second bool
	eventType := events.PaymentFailed{}.Type()
	bus.Register(eventType, func(ctx context.Context, e events.Event) error {
		return errors.New("subscriber broke")
	})
	bus.Register(eventType, func(ctx context.Context, e events.Event) error {
		second = true
		return nil
	})

	require.NoError(t, bus.Emit(context.Background(), events.PaymentFailed{PaymentID: uuid.New()}))
	assert.True(t, second, "later handlers still run")
}
