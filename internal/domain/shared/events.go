package shared

import "time"

// DomainEvent represents an event that has occurred in the domain
type DomainEvent interface {
	EventName() string
	OccurredAt() time.Time
}

// EventRecorder collects domain events raised while handling one command
type EventRecorder struct {
	events []DomainEvent
}

// Record adds a domain event to be dispatched
func (a *EventRecorder) Record(event DomainEvent) {
	a.events = append(a.events, event)
}

// Events returns and clears pending domain events
func (a *EventRecorder) Events() []DomainEvent {
	events := a.events
	a.events = nil
	return events
}
