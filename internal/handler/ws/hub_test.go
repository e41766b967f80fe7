package ws

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zhouzirui/chatbot-widget/backend/internal/model/chat"
	chatservice "github.com/zhouzirui/chatbot-widget/backend/internal/service/chat"
	"github.com/zhouzirui/chatbot-widget/backend/internal/service/reply"
)

type frame struct {
	Type     string         `json:"type"`
	Accepted bool           `json:"accepted"`
	Pending  bool           `json:"pending"`
	Message  *chat.Message  `json:"message"`
	Messages []chat.Message `json:"messages"`
	Error    string         `json:"error"`
}

type fixedChooser int

func (f fixedChooser) Intn(n int) int { return int(f) % n }

func setup(t *testing.T) (*Hub, *chatservice.Controller, string) {
	t.Helper()
	hub := NewHub()
	src := reply.NewKeyword(nil, reply.WithRand(fixedChooser(0)))
	ctrl, err := chatservice.NewController(hub.View(), src, chatservice.WithWelcome("Welcome!"))
	require.NoError(t, err)
	hub.Attach(ctrl)
	ctrl.Start()

	r := chi.NewRouter()
	hub.RegisterRoutes(r)
	srv := httptest.NewServer(r)
	t.Cleanup(func() {
		hub.Close()
		srv.Close()
	})

	return hub, ctrl, "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
}

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func read(t *testing.T, conn *websocket.Conn) frame {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var f frame
	require.NoError(t, conn.ReadJSON(&f))
	return f
}

func TestConnectReceivesSnapshot(t *testing.T) {
	_, _, url := setup(t)
	conn := dial(t, url)

	f := read(t, conn)
	assert.Equal(t, "snapshot", f.Type)
	require.Len(t, f.Messages, 1)
	assert.Equal(t, "Welcome!", f.Messages[0].Text)
	assert.False(t, f.Pending)
}

func TestSubmitBroadcastsToAllClients(t *testing.T) {
	hub, ctrl, url := setup(t)
	a := dial(t, url)
	b := dial(t, url)
	read(t, a)
	read(t, b)
	require.Eventually(t, func() bool { return hub.Clients() == 2 }, time.Second, 10*time.Millisecond)

	require.NoError(t, a.WriteJSON(inboundMessage{Type: "submit", Text: "Hello there"}))

	want := []string{"message", "clear_input", "typing", "message", "typing"}
	for i, typ := range want {
		f := read(t, b)
		assert.Equal(t, typ, f.Type, "frame %d", i)
		if i == 3 {
			require.NotNil(t, f.Message)
			assert.Equal(t, chat.SenderBot, f.Message.Sender)
			assert.Equal(t, "Hello! How can I help you today?", f.Message.Text)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, ctrl.Wait(ctx))
	assert.Len(t, ctrl.Transcript(), 3)
}

func TestSubmitAckAndBlankInput(t *testing.T) {
	_, ctrl, url := setup(t)
	conn := dial(t, url)
	read(t, conn)

	require.NoError(t, conn.WriteJSON(inboundMessage{Type: "submit", Text: "   "}))
	f := read(t, conn)
	assert.Equal(t, "ack", f.Type)
	assert.False(t, f.Accepted)
	assert.Len(t, ctrl.Transcript(), 1)
}

func TestUnknownFrameType(t *testing.T) {
	_, _, url := setup(t)
	conn := dial(t, url)
	read(t, conn)

	require.NoError(t, conn.WriteJSON(inboundMessage{Type: "dance"}))
	f := read(t, conn)
	assert.Equal(t, "error", f.Type)
	assert.Contains(t, f.Error, "dance")
}

func TestHubWithoutConversation(t *testing.T) {
	hub := NewHub()
	resp := httptest.NewRecorder()
	hub.handleWebSocket(resp, httptest.NewRequest(http.MethodGet, "/ws", nil))
	assert.Equal(t, http.StatusServiceUnavailable, resp.Code)
}
