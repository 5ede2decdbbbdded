// Package events publishes booking lifecycle events to a message broker.
package events

import (
	"context"

	"github.com/metinatakli/showtime-booking/internal/domain"
)

// NoopPublisher drops every event. It is used when no broker is configured.
type NoopPublisher struct{}

func NewNoopPublisher() *NoopPublisher {
	return &NoopPublisher{}
}

func (NoopPublisher) Publish(ctx context.Context, event domain.BookingEvent) error {
	return nil
}

func (NoopPublisher) Close() error {
	return nil
}
