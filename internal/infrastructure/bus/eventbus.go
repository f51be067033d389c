package bus

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"aggrepo/internal/domain/event"
	"aggrepo/pkg/logger"
)

// EventBus defines the contract for event publishing/subscribing
type EventBus interface {
	Publish(ctx context.Context, event event.DomainEvent) error
	Subscribe(eventType string, handler EventHandler) error
}

// EventHandler handles domain events
type EventHandler interface {
	Handle(ctx context.Context, event event.DomainEvent) error
}

// EventHandlerFunc allows functions to implement EventHandler
type EventHandlerFunc func(ctx context.Context, event event.DomainEvent) error

func (f EventHandlerFunc) Handle(ctx context.Context, event event.DomainEvent) error {
	return f(ctx, event)
}

// InMemoryEventBus delivers events synchronously to every subscriber of the
// event type. Handler failures are logged and joined into the returned error;
// one failing handler does not stop the others.
type InMemoryEventBus struct {
	handlers map[string][]EventHandler
	mutex    sync.RWMutex
	log      *logger.Logger
}

func NewInMemoryEventBus(log *logger.Logger) *InMemoryEventBus {
	if log == nil {
		log = logger.NewNop()
	}
	return &InMemoryEventBus{
		handlers: make(map[string][]EventHandler),
		log:      log,
	}
}

func (b *InMemoryEventBus) Publish(ctx context.Context, event event.DomainEvent) error {
	b.mutex.RLock()
	handlers := b.handlers[event.EventType()]
	b.mutex.RUnlock()

	var errs []error

	for _, handler := range handlers {
		if err := handler.Handle(ctx, event); err != nil {
			b.log.Error("event handler failed", "event", event.EventType(), "aggregate_id", event.AggregateID(), "error", err)
			errs = append(errs, fmt.Errorf("handler error for %s: %w", event.EventType(), err))
		}
	}

	return errors.Join(errs...)
}

func (b *InMemoryEventBus) Subscribe(eventType string, handler EventHandler) error {
	if handler == nil {
		return fmt.Errorf("nil handler for %s", eventType)
	}

	b.mutex.Lock()
	defer b.mutex.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)
	return nil
}

// LogEvents subscribes a handler that writes every user event to log.
func LogEvents(b EventBus, log *logger.Logger) error {
	handler := EventHandlerFunc(func(_ context.Context, e event.DomainEvent) error {
		log.Info("domain event", "event", e.EventType(), "aggregate_id", e.AggregateID(), "occurred_at", e.OccurredAt())
		return nil
	})
	for _, eventType := range []string{event.UserRegisteredType, event.UserRenamedType, event.UsersClearedType} {
		if err := b.Subscribe(eventType, handler); err != nil {
			return err
		}
	}
	return nil
}
