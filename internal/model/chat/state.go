package chat

// State is a point-in-time snapshot of the widget conversation.
type State struct {
	Pending  bool      `json:"pending"`
	Messages []Message `json:"messages"`
}
