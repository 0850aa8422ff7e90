package events

import "github.com/rs/zerolog/log"

// Publisher pushes room lifecycle events to the outside world. Publish must
// not block the caller: rooms fire events from inside their command handling.
type Publisher interface {
	Publish(eventType EventType, roomCode string, payload any)
	Close()
}

// NoopPublisher drops every event. It stands in when no NATS URL is
// configured.
type NoopPublisher struct{}

// NewNoopPublisher returns a publisher that discards all events.
func NewNoopPublisher() *NoopPublisher {
	return &NoopPublisher{}
}

// Publish logs the dropped event at debug level.
func (p *NoopPublisher) Publish(eventType EventType, roomCode string, payload any) {
	log.Debug().
		Str("event_type", string(eventType)).
		Str("room_code", roomCode).
		Msg("event publishing disabled, dropping event")
}

// Close is a no-op.
func (p *NoopPublisher) Close() {}

var _ Publisher = (*NoopPublisher)(nil)
