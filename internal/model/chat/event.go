package chat

// EventType names a view update pushed to live clients.
type EventType string

const (
	EventSnapshot   EventType = "snapshot"
	EventMessage    EventType = "message"
	EventTyping     EventType = "typing"
	EventClearInput EventType = "clear_input"
)

// Event is the wire form of a view update.
type Event struct {
	Type      EventType `json:"type"`
	Message   *Message  `json:"message,omitempty"`
	Messages  []Message `json:"messages,omitempty"`
	Pending   bool      `json:"pending"`
	Timestamp int64     `json:"timestamp"`
}
