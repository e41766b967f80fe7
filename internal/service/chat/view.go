package chat

import (
	"time"

	"github.com/zhouzirui/chatbot-widget/backend/internal/model/chat"
)

// View is a projection of the conversation. The controller calls it while
// holding its lock, so implementations must not call back into the
// Controller and should not block for long.
type View interface {
	// Append renders a new message at the end of the list.
	Append(msg chat.Message)
	// SetTyping shows or hides the typing placeholder and toggles the send
	// control.
	SetTyping(typing bool)
	// ClearInput empties the text field.
	ClearInput()
}

type multiView []View

// Views fans out every call to each non-nil view in order. It returns nil
// when no views are given.
func Views(views ...View) View {
	out := make(multiView, 0, len(views))
	for _, v := range views {
		if v != nil {
			out = append(out, v)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func (m multiView) Append(msg chat.Message) {
	for _, v := range m {
		v.Append(msg)
	}
}

func (m multiView) SetTyping(typing bool) {
	for _, v := range m {
		v.SetTyping(typing)
	}
}

func (m multiView) ClearInput() {
	for _, v := range m {
		v.ClearInput()
	}
}

// EventView turns view calls into wire events handed to publish.
type EventView struct {
	publish func(chat.Event)
	now     func() time.Time
}

// NewEventView returns a View that reports every update to publish.
func NewEventView(publish func(chat.Event)) *EventView {
	return &EventView{publish: publish, now: time.Now}
}

// SnapshotEvent wraps a state snapshot for a newly attached client.
func SnapshotEvent(state chat.State) chat.Event {
	return chat.Event{
		Type:      chat.EventSnapshot,
		Messages:  state.Messages,
		Pending:   state.Pending,
		Timestamp: time.Now().UnixMilli(),
	}
}

func (v *EventView) Append(msg chat.Message) {
	v.publish(chat.Event{Type: chat.EventMessage, Message: &msg, Timestamp: v.now().UnixMilli()})
}

func (v *EventView) SetTyping(typing bool) {
	v.publish(chat.Event{Type: chat.EventTyping, Pending: typing, Timestamp: v.now().UnixMilli()})
}

func (v *EventView) ClearInput() {
	v.publish(chat.Event{Type: chat.EventClearInput, Timestamp: v.now().UnixMilli()})
}
