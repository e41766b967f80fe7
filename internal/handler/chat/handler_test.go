package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	model "github.com/zhouzirui/chatbot-widget/backend/internal/model/chat"
	chatservice "github.com/zhouzirui/chatbot-widget/backend/internal/service/chat"
	"github.com/zhouzirui/chatbot-widget/backend/internal/service/reply"
)

type nopView struct{}

func (nopView) Append(model.Message) {}
func (nopView) SetTyping(bool)       {}
func (nopView) ClearInput()          {}

func setupRouter(t *testing.T, src reply.Source) (*chi.Mux, *chatservice.Controller) {
	t.Helper()
	ctrl, err := chatservice.NewController(nopView{}, src)
	if err != nil {
		t.Fatalf("NewController err: %v", err)
	}

	r := chi.NewRouter()
	New(ctrl).RegisterRoutes(r)
	return r, ctrl
}

func postMessage(r http.Handler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/messages", bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func waitIdle(t *testing.T, ctrl *chatservice.Controller) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := ctrl.Wait(ctx); err != nil {
		t.Fatalf("Wait err: %v", err)
	}
}

func TestSubmitAccepted(t *testing.T) {
	r, ctrl := setupRouter(t, reply.NewKeyword(nil))

	resp := postMessage(r, `{"text":"Hello there"}`)
	if resp.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d", resp.Code)
	}
	waitIdle(t, ctrl)

	req := httptest.NewRequest(http.MethodGet, "/messages", nil)
	list := httptest.NewRecorder()
	r.ServeHTTP(list, req)

	var messages []model.Message
	if err := json.NewDecoder(list.Body).Decode(&messages); err != nil {
		t.Fatalf("decode err: %v", err)
	}
	if len(messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(messages))
	}
	if messages[0].Sender != model.SenderUser || messages[1].Sender != model.SenderBot {
		t.Fatalf("unexpected sender order: %s, %s", messages[0].Sender, messages[1].Sender)
	}
}

func TestSubmitBlankIgnored(t *testing.T) {
	r, ctrl := setupRouter(t, reply.NewKeyword(nil))

	resp := postMessage(r, `{"text":"   "}`)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	var body submitResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode err: %v", err)
	}
	if body.Accepted {
		t.Fatal("expected blank input to be ignored")
	}
	if len(ctrl.Transcript()) != 0 {
		t.Fatal("expected empty transcript")
	}
}

func TestSubmitWhilePendingIgnored(t *testing.T) {
	gate := make(chan struct{})
	src := reply.Func(func(context.Context, string) (string, error) {
		<-gate
		return "ok", nil
	})
	r, ctrl := setupRouter(t, src)

	if resp := postMessage(r, `{"text":"first"}`); resp.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d", resp.Code)
	}
	if resp := postMessage(r, `{"text":"second"}`); resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/state", nil)
	stateResp := httptest.NewRecorder()
	r.ServeHTTP(stateResp, req)

	var state model.State
	if err := json.NewDecoder(stateResp.Body).Decode(&state); err != nil {
		t.Fatalf("decode err: %v", err)
	}
	if !state.Pending || len(state.Messages) != 1 {
		t.Fatalf("unexpected state: pending=%v messages=%d", state.Pending, len(state.Messages))
	}

	close(gate)
	waitIdle(t, ctrl)
}

func TestSubmitMalformedBody(t *testing.T) {
	r, _ := setupRouter(t, reply.NewKeyword(nil))

	if resp := postMessage(r, `{"text":`); resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
	if resp := postMessage(r, ``); resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}
