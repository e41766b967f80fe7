package stream

import (
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/zhouzirui/chatbot-widget/backend/internal/model/chat"
	chatService "github.com/zhouzirui/chatbot-widget/backend/internal/service/chat"
	"github.com/zhouzirui/chatbot-widget/backend/pkg/utils"
)

const (
	subscriberBuffer  = 64
	keepaliveInterval = 15 * time.Second
)

// Syncer attaches a subscriber atomically with a state snapshot.
type Syncer interface {
	Sync(fn func(chat.State))
}

// Handler streams conversation events to browsers via Server-Sent Events.
// It is also a chat view: Publish fans events out to every subscriber.
type Handler struct {
	conv Syncer

	mu          sync.Mutex
	subscribers map[chan chat.Event]struct{}
}

// New creates a stream handler. Call Attach once the controller exists.
func New() *Handler {
	return &Handler{subscribers: make(map[chan chat.Event]struct{})}
}

// Attach binds the handler to the controller it projects.
func (h *Handler) Attach(conv Syncer) {
	h.conv = conv
}

// View returns the chat.View feeding this handler.
func (h *Handler) View() chatService.View {
	return chatService.NewEventView(h.Publish)
}

// RegisterRoutes mounts the SSE endpoint on r.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/stream", h.handleStream)
}

// Publish delivers ev to every subscriber. A subscriber whose buffer is full
// is dropped; its client reconnects and receives a fresh snapshot.
func (h *Handler) Publish(ev chat.Event) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for ch := range h.subscribers {
		select {
		case ch <- ev:
		default:
			delete(h.subscribers, ch)
			close(ch)
			log.Warn().Msg("[sse] dropping slow subscriber")
		}
	}
}

func (h *Handler) subscribe() chan chat.Event {
	ch := make(chan chat.Event, subscriberBuffer)
	h.mu.Lock()
	h.subscribers[ch] = struct{}{}
	h.mu.Unlock()
	return ch
}

func (h *Handler) unsubscribe(ch chan chat.Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.subscribers[ch]; ok {
		delete(h.subscribers, ch)
		close(ch)
	}
}

// Subscribers reports the number of connected clients.
func (h *Handler) Subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subscribers)
}

func (h *Handler) handleStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		utils.RespondError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}
	if h.conv == nil {
		utils.RespondError(w, http.StatusServiceUnavailable, "conversation unavailable")
		return
	}

	utils.SetupSSEHeaders(w)

	var (
		events   chan chat.Event
		snapshot chat.Event
	)
	h.conv.Sync(func(state chat.State) {
		events = h.subscribe()
		snapshot = chatService.SnapshotEvent(state)
	})
	defer h.unsubscribe(events)

	ctx := r.Context()
	log.Debug().Str("remote", r.RemoteAddr).Msg("[sse] client attached")

	if err := utils.SendSSEEvent(w, flusher, string(snapshot.Type), snapshot); err != nil {
		return
	}

	ticker := time.NewTicker(keepaliveInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Debug().Str("remote", r.RemoteAddr).Msg("[sse] client detached")
			return
		case <-ticker.C:
			if err := utils.SendSSEComment(w, flusher, "keepalive"); err != nil {
				return
			}
		case ev, ok := <-events:
			if !ok {
				return
			}
			if err := utils.SendSSEEvent(w, flusher, string(ev.Type), ev); err != nil {
				return
			}
		}
	}
}
