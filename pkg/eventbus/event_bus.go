// Package eventbus carries run-lifecycle events between the engine and
// interested consumers. The bus is optional: the engine runs fine without
// one, and publishing failures never fail a run.
package eventbus

import (
	"context"

	"github.com/nodeweave/weave/pkg/events"
)

type Event interface {
	GetType() events.EventType
}

type EventPublisher interface {
	Publish(ctx context.Context, key string, event Event) error
}

type EventSubscriber interface {
	Handle(eventType events.EventType, handler EventHandler) error
	Subscribe(ctx context.Context) error
}

type EventHandler func(ctx context.Context, event interface{}) error

type EventBus interface {
	EventPublisher
	EventSubscriber
	Close() error
	GenerateID() string
}
