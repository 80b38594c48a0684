// Package messaging provides the in-process message bus domain events are
// published on.
package messaging

import (
	"context"
	"sync"

	"github.com/mealmatch/planner/internal/ports/outbound"
	"go.uber.org/zap"
)

// EventBus delivers messages synchronously to every handler subscribed to
// the topic. A failing handler is logged and does not stop the others.
type EventBus struct {
	mu       sync.RWMutex
	handlers map[string][]outbound.MessageHandler
	logger   *zap.Logger
}

// NewEventBus creates an empty bus
func NewEventBus(logger *zap.Logger) *EventBus {
	return &EventBus{
		handlers: make(map[string][]outbound.MessageHandler),
		logger:   logger.Named("event-bus"),
	}
}

var _ outbound.MessageBus = (*EventBus)(nil)

// Publish dispatches msg to the handlers of topic
func (b *EventBus) Publish(ctx context.Context, topic string, msg outbound.Message) error {
	b.mu.RLock()
	handlers := b.handlers[topic]
	b.mu.RUnlock()

	if len(handlers) == 0 {
		b.logger.Debug("No handlers registered for event", zap.String("topic", topic))
		return nil
	}

	for _, handler := range handlers {
		if err := handler(ctx, msg); err != nil {
			b.logger.Error("Failed to handle event",
				zap.String("topic", topic),
				zap.String("message_id", msg.ID),
				zap.Error(err),
			)
		}
	}
	return nil
}

// Subscribe registers handler for topic
func (b *EventBus) Subscribe(topic string, handler outbound.MessageHandler) {
	b.mu.Lock()
	b.handlers[topic] = append(b.handlers[topic], handler)
	b.mu.Unlock()

	b.logger.Debug("Registered event handler", zap.String("topic", topic))
}

// LogEvents subscribes a debug logger to each topic
func LogEvents(bus outbound.MessageBus, logger *zap.Logger, topics ...string) {
	for _, topic := range topics {
		bus.Subscribe(topic, func(ctx context.Context, msg outbound.Message) error {
			logger.Debug("Event received",
				zap.String("topic", msg.Type),
				zap.String("message_id", msg.ID),
				zap.ByteString("payload", msg.Payload),
			)
			return nil
		})
	}
}
