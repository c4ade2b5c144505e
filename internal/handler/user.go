// Package handler contains the HTTP handlers. Handlers parse requests,
// delegate to the service layer and write responses — no business logic
// lives here.
package handler

import (
	"context"
	"log/slog"
	"net/http"
)

// Registrar is the slice of the registry service this handler needs.
// Taking an interface (not *service.RegistryService) keeps the handler
// testable with a mock.
type Registrar interface {
	Register(ctx context.Context, username string) error
}

// UserHandler serves username registration.
type UserHandler struct {
	registry Registrar
	logger   *slog.Logger
}

// NewUserHandler creates a UserHandler.
func NewUserHandler(registry Registrar, logger *slog.Logger) *UserHandler {
	return &UserHandler{registry: registry, logger: logger}
}

// HandleRegister registers a username.
//
// HTTP: POST /register, form field "username".
// Registering an existing name succeeds — the endpoint is idempotent.
func (h *UserHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	if err := h.registry.Register(r.Context(), r.FormValue("username")); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, statusOK)
}
