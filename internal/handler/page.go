package handler

import (
	"embed"
	"html/template"
	"log/slog"
	"net/http"
)

// The chat page ships inside the binary — there is no template directory to
// deploy alongside it.
//
//go:embed templates/chat.html
var templateFS embed.FS

// PageHandler serves the single-page chat client.
type PageHandler struct {
	templates *template.Template
	logger    *slog.Logger
}

// NewPageHandler parses the embedded templates once at startup.
func NewPageHandler(logger *slog.Logger) (*PageHandler, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/chat.html")
	if err != nil {
		return nil, err
	}
	return &PageHandler{templates: tmpl, logger: logger}, nil
}

// HandleHome renders the chat page.
//
// HTTP: GET /
func (h *PageHandler) HandleHome(w http.ResponseWriter, r *http.Request) {
	data := map[string]any{
		"Title": "IMS Chat",
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.templates.ExecuteTemplate(w, "chat.html", data); err != nil {
		h.logger.Error("failed to render chat page", slog.String("error", err.Error()))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}
