package service

import (
	"context"

	"geoloc193/internal/model"
)

// EventPublisher hands lifecycle events to the push-notification collaborator.
// Publishing is best effort and never fails the operation that produced the event.
type EventPublisher interface {
	Publish(ctx context.Context, event model.Event) error
}

type nopPublisher struct{}

func NewNopPublisher() EventPublisher {
	return nopPublisher{}
}

func (nopPublisher) Publish(context.Context, model.Event) error {
	return nil
}
