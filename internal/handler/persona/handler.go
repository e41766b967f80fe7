package persona

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/zhouzirui/chatbot-widget/backend/internal/model/persona"
	"github.com/zhouzirui/chatbot-widget/backend/pkg/utils"
)

// Handler serves the persona the widget is speaking as.
type Handler struct {
	personas persona.Store
	activeID string
}

// New creates a persona handler.
func New(personas persona.Store, activeID string) *Handler {
	return &Handler{personas: personas, activeID: activeID}
}

// RegisterRoutes mounts persona routes on r.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/persona", h.handleActivePersona)
	r.Get("/personas", h.handleListPersonas)
}

func (h *Handler) handleActivePersona(w http.ResponseWriter, r *http.Request) {
	p, ok := h.personas.FindByID(h.activeID)
	if !ok {
		utils.RespondError(w, http.StatusNotFound, "persona not found")
		return
	}
	utils.RespondJSON(w, http.StatusOK, p)
}

func (h *Handler) handleListPersonas(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, h.personas.List())
}
