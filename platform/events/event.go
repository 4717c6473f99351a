// Package events defines the in-process event bus the modules use to talk
// to each other without direct imports. Lead lifecycle changes are published
// here and picked up by the notification side.
package events

import (
	"context"
	"time"
)

// Event is implemented by every domain event that crosses module boundaries.
type Event interface {
	// EventName identifies the event type, e.g. "leads.lead.stage_changed".
	EventName() string
	// OccurredAt reports when the event happened.
	OccurredAt() time.Time
}

// BaseEvent carries the timestamp shared by all concrete events. Embed it
// and implement EventName on the concrete type.
type BaseEvent struct {
	Timestamp time.Time `json:"timestamp"`
}

// OccurredAt reports when the event happened.
func (e BaseEvent) OccurredAt() time.Time {
	return e.Timestamp
}

// NewBaseEvent stamps a BaseEvent with the current time.
func NewBaseEvent() BaseEvent {
	return BaseEvent{Timestamp: time.Now()}
}

// Handler reacts to a published event.
type Handler interface {
	Handle(ctx context.Context, event Event) error
}

// HandlerFunc adapts a plain function into a Handler.
type HandlerFunc func(ctx context.Context, event Event) error

// Handle calls the underlying function.
func (f HandlerFunc) Handle(ctx context.Context, event Event) error {
	return f(ctx, event)
}

// Bus publishes domain events to subscribed handlers.
type Bus interface {
	// Publish fans the event out to its handlers asynchronously. Publishing
	// never blocks the caller on handler work.
	Publish(ctx context.Context, event Event)

	// PublishSync runs all handlers inline and returns the first error.
	PublishSync(ctx context.Context, event Event) error

	// Subscribe registers a handler for the named event type. The name must
	// match what the event's EventName returns.
	Subscribe(eventName string, handler Handler)
}
