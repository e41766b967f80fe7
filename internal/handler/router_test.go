package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/zhouzirui/chatbot-widget/backend/internal/handler/stream"
	"github.com/zhouzirui/chatbot-widget/backend/internal/handler/ws"
	"github.com/zhouzirui/chatbot-widget/backend/internal/model/persona"
	chatservice "github.com/zhouzirui/chatbot-widget/backend/internal/service/chat"
	"github.com/zhouzirui/chatbot-widget/backend/internal/service/reply"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	hub := ws.NewHub()
	sse := stream.New()
	ctrl, err := chatservice.NewController(chatservice.Views(hub.View(), sse.View()), reply.NewKeyword(nil))
	if err != nil {
		t.Fatalf("NewController err: %v", err)
	}
	hub.Attach(ctrl)
	sse.Attach(ctrl)

	return NewRouter(Deps{
		Conversation: ctrl,
		Personas:     persona.NewMemoryStore(persona.Seed()),
		PersonaID:    persona.DefaultID,
		Hub:          hub,
		Stream:       sse,
		Title:        "Chatbot",
	})
}

func TestRoutesMounted(t *testing.T) {
	r := newTestRouter(t)

	for _, path := range []string{"/", "/healthz", "/api/persona", "/api/personas", "/api/messages", "/api/state"} {
		resp := httptest.NewRecorder()
		r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, path, nil))
		if resp.Code != http.StatusOK {
			t.Fatalf("GET %s: expected 200, got %d", path, resp.Code)
		}
	}
}

func TestUnknownRoute(t *testing.T) {
	resp := httptest.NewRecorder()
	newTestRouter(t).ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/nope", nil))
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
}
