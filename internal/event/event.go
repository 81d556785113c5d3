package event

import "time"

type Type string

const (
	TypeSessionAuthenticated Type = "session.authenticated"
	TypeSessionRefreshing    Type = "session.refreshing"
	TypeSessionCleared       Type = "session.cleared"
	TypeNavigated            Type = "navigation.changed"
)

type Event struct {
	ID         string    `json:"id"`
	Type       Type      `json:"type"`
	Payload    any       `json:"payload,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

type Bus interface {
	Publish(e Event)
	Subscribe() (<-chan Event, func()) // Returns channel and unsubscribe function
}

// Discard drops every event. Used where nobody listens.
type Discard struct{}

func (Discard) Publish(Event) {}

func (Discard) Subscribe() (<-chan Event, func()) {
	ch := make(chan Event)
	close(ch)
	return ch, func() {}
}
