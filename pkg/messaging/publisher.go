package messaging

import (
	"context"
)

const (
	FlowersCreatedSubject = "flowers.created"
	FlowersUpdatedSubject = "flowers.updated"
	FlowersDeletedSubject = "flowers.deleted"
	// FlowersAllSubject matches every catalog subject.
	FlowersAllSubject = "flowers.>"
)

// FlowerSubjects lists every subject the catalog publishes to.
var FlowerSubjects = []string{FlowersCreatedSubject, FlowersUpdatedSubject, FlowersDeletedSubject}

type Event interface {
	Subject() string
	Payload() ([]byte, error)
}

type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// NoopPublisher drops every event. Used when no broker is configured.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, Event) error {
	return nil
}
