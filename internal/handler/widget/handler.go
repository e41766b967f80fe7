package widget

import (
	"embed"
	"html/template"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

//go:embed static/index.html
var assets embed.FS

var indexTmpl = template.Must(template.ParseFS(assets, "static/index.html"))

// Page configures the rendered widget page.
type Page struct {
	Title   string
	APIBase string
}

// Handler serves the browser widget.
type Handler struct {
	page Page
}

// New creates a widget handler. An empty APIBase defaults to "/api".
func New(page Page) *Handler {
	if page.APIBase == "" {
		page.APIBase = "/api"
	}
	if page.Title == "" {
		page.Title = "Chatbot"
	}
	return &Handler{page: page}
}

// RegisterRoutes mounts the page on r.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.handleIndex)
}

func (h *Handler) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := indexTmpl.Execute(w, h.page); err != nil {
		log.Error().Err(err).Msg("[widget] render index")
	}
}
