package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/zhouzirui/chatbot-widget/backend/internal/model/chat"
	"github.com/zhouzirui/chatbot-widget/backend/internal/service/reply"
)

// ApologyText is rendered when the reply source fails.
const ApologyText = "Sorry, I'm having trouble responding right now. Please try again."

var (
	ErrViewRequired   = errors.New("view is required")
	ErrSourceRequired = errors.New("reply source is required")
)

// Controller owns the conversation: an append-only message log and the
// pending flag. At most one reply is in flight at a time.
type Controller struct {
	view    View
	source  reply.Source
	welcome string
	now     func() time.Time

	mu       sync.RWMutex
	pending  bool
	messages []chat.Message
	settled  chan struct{}
}

// Option configures a Controller.
type Option func(*Controller)

// WithWelcome sets the bot message appended by Start.
func WithWelcome(text string) Option {
	return func(c *Controller) { c.welcome = strings.TrimSpace(text) }
}

// WithClock overrides the time source used to stamp messages.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

// NewController wires a controller to its view and reply source.
func NewController(view View, source reply.Source, opts ...Option) (*Controller, error) {
	if view == nil {
		return nil, ErrViewRequired
	}
	if source == nil {
		return nil, ErrSourceRequired
	}

	c := &Controller{
		view:     view,
		source:   source,
		now:      time.Now,
		messages: make([]chat.Message, 0, 16),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Start resets the view's placeholder state and posts the welcome message,
// if one is configured.
func (c *Controller) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.view.SetTyping(false)
	if c.welcome != "" {
		c.appendLocked(chat.SenderBot, c.welcome)
	}
}

// Submit offers raw input to the conversation. It reports whether the input
// was accepted; blank input and input arriving while a reply is pending are
// ignored. The reply is produced asynchronously and is not cancelled when
// ctx is.
func (c *Controller) Submit(ctx context.Context, raw string) bool {
	text := strings.TrimSpace(raw)
	if text == "" {
		return false
	}

	c.mu.Lock()
	if c.pending {
		c.mu.Unlock()
		log.Debug().Msg("[chat] submit ignored, reply pending")
		return false
	}
	c.pending = true
	c.appendLocked(chat.SenderUser, text)
	c.view.ClearInput()
	c.view.SetTyping(true)
	settled := make(chan struct{})
	c.settled = settled
	c.mu.Unlock()

	go c.respond(context.WithoutCancel(ctx), text, settled)
	return true
}

func (c *Controller) respond(ctx context.Context, text string, settled chan struct{}) {
	defer close(settled)

	answer, err := c.fetchReply(ctx, text)
	if err != nil {
		log.Error().Err(err).Str("input", text).Msg("[chat] reply source failed")
		answer = ApologyText
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.appendLocked(chat.SenderBot, answer)
	c.view.SetTyping(false)
	c.pending = false
}

func (c *Controller) fetchReply(ctx context.Context, text string) (answer string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("reply source panic: %v", r)
		}
	}()

	answer, err = c.source.Reply(ctx, text)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(answer) == "" {
		return "", reply.ErrEmptyReply
	}
	return answer, nil
}

func (c *Controller) appendLocked(sender chat.Sender, text string) chat.Message {
	msg := chat.NewMessage(sender, text, c.now())
	c.messages = append(c.messages, msg)
	c.view.Append(msg)
	return msg
}

// Pending reports whether a reply is in flight.
func (c *Controller) Pending() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.pending
}

// Transcript returns a copy of the message log.
func (c *Controller) Transcript() []chat.Message {
	c.mu.RLock()
	defer c.mu.RUnlock()

	copied := make([]chat.Message, len(c.messages))
	copy(copied, c.messages)
	return copied
}

// State returns the pending flag and transcript captured atomically.
func (c *Controller) State() chat.State {
	c.mu.RLock()
	defer c.mu.RUnlock()

	copied := make([]chat.Message, len(c.messages))
	copy(copied, c.messages)
	return chat.State{Pending: c.pending, Messages: copied}
}

// Sync calls fn with the current state while holding the read lock, so no
// view update can interleave. Projections use it to attach a new client
// without gaps or duplicates; fn must not call back into the Controller.
func (c *Controller) Sync(fn func(chat.State)) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	copied := make([]chat.Message, len(c.messages))
	copy(copied, c.messages)
	fn(chat.State{Pending: c.pending, Messages: copied})
}

// Wait blocks until the in-flight reply, if any, has been appended or ctx
// is done.
func (c *Controller) Wait(ctx context.Context) error {
	c.mu.RLock()
	settled := c.settled
	c.mu.RUnlock()

	if settled == nil {
		return nil
	}
	select {
	case <-settled:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
