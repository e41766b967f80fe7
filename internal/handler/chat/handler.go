package chat

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/zhouzirui/chatbot-widget/backend/internal/model/chat"
	"github.com/zhouzirui/chatbot-widget/backend/pkg/utils"
)

// Conversation is the part of the widget controller the REST API needs.
type Conversation interface {
	Submit(ctx context.Context, raw string) bool
	Transcript() []chat.Message
	State() chat.State
}

// Handler exposes the conversation over plain HTTP.
type Handler struct {
	conv Conversation
}

// New creates the REST handler.
func New(conv Conversation) *Handler {
	return &Handler{conv: conv}
}

// RegisterRoutes mounts the chat routes on r.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/messages", h.handleListMessages)
	r.Post("/messages", h.handleSubmit)
	r.Get("/state", h.handleState)
}

type submitRequest struct {
	Text string `json:"text"`
}

type submitResponse struct {
	Accepted bool `json:"accepted"`
}

// handleSubmit offers text to the controller. Ignored input is not an error:
// the response simply reports accepted=false.
func (h *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	var payload submitRequest
	if err := utils.DecodeJSON(w, r, &payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if !h.conv.Submit(r.Context(), payload.Text) {
		utils.RespondJSON(w, http.StatusOK, submitResponse{Accepted: false})
		return
	}
	utils.RespondJSON(w, http.StatusAccepted, submitResponse{Accepted: true})
}

func (h *Handler) handleListMessages(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, h.conv.Transcript())
}

func (h *Handler) handleState(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, h.conv.State())
}
