package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/zhouzirui/chatbot-widget/backend/internal/handler/chat"
	"github.com/zhouzirui/chatbot-widget/backend/internal/handler/persona"
	"github.com/zhouzirui/chatbot-widget/backend/internal/handler/stream"
	"github.com/zhouzirui/chatbot-widget/backend/internal/handler/widget"
	"github.com/zhouzirui/chatbot-widget/backend/internal/handler/ws"
	middlewarePkg "github.com/zhouzirui/chatbot-widget/backend/internal/middleware"
	personaModel "github.com/zhouzirui/chatbot-widget/backend/internal/model/persona"
	"github.com/zhouzirui/chatbot-widget/backend/pkg/utils"
)

// Deps bundles what the router needs.
type Deps struct {
	Conversation chat.Conversation
	Personas     personaModel.Store
	PersonaID    string
	Hub          *ws.Hub
	Stream       *stream.Handler
	Title        string
}

// NewRouter wires HTTP routes to the widget controller and its projections.
func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS)

	widget.New(widget.Page{Title: d.Title, APIBase: "/api"}).RegisterRoutes(r)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(api chi.Router) {
		persona.New(d.Personas, d.PersonaID).RegisterRoutes(api)
		chat.New(d.Conversation).RegisterRoutes(api)

		if d.Hub != nil {
			d.Hub.RegisterRoutes(api)
		}
		if d.Stream != nil {
			d.Stream.RegisterRoutes(api)
		}
	})

	return r
}
