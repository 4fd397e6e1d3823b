package policies

import (
	"context"

	"aptcatalog/internal/domain/shared/events"
)

// EventPublisher forwards domain events to interested consumers.
type EventPublisher interface {
	Publish(ctx context.Context, evs []events.DomainEvent) error
}

// NoopPublisher drops events; used when no broker is configured.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, []events.DomainEvent) error { return nil }
