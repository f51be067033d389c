package bus_test

import (
	"context"
	"testing"
	"time"

	"aggrepo/internal/domain/event"
	"aggrepo/internal/infrastructure/bus"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryEventBus_Publish(t *testing.T) {
	ctx := context.Background()
	b := bus.NewInMemoryEventBus(nil)

	var calls []string
	require.NoError(t, b.Subscribe(event.UserRenamedType, bus.EventHandlerFunc(
		func(_ context.Context, e event.DomainEvent) error {
			calls = append(calls, "first:"+e.AggregateID())
			return assert.AnError
		},
	)))
	require.NoError(t, b.Subscribe(event.UserRenamedType, bus.EventHandlerFunc(
		func(_ context.Context, e event.DomainEvent) error {
			calls = append(calls, "second:"+e.AggregateID())
			return nil
		},
	)))

	err := b.Publish(ctx, &event.UserRenamed{UserID: "u1", Name: "Shaun", Timestamp: time.Now()})

	assert.ErrorIs(t, err, assert.AnError)
	assert.Equal(t, []string{"first:u1", "second:u1"}, calls)
}

func TestInMemoryEventBus_NoSubscribers(t *testing.T) {
	b := bus.NewInMemoryEventBus(nil)

	assert.NoError(t, b.Publish(context.Background(), &event.UsersCleared{Timestamp: time.Now()}))
}

func TestInMemoryEventBus_SubscribeNil(t *testing.T) {
	b := bus.NewInMemoryEventBus(nil)

	assert.Error(t, b.Subscribe(event.UsersClearedType, nil))
}
