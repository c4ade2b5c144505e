// Package service contains the business logic layer.
//
// Handlers parse HTTP and delegate here; this layer validates input,
// enforces the message invariants and orchestrates the repositories. It
// knows nothing about HTTP — every method takes primitives plus a context
// and returns domain errors from the apperror package.
package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/sakif/ims-chat/internal/apperror"
	"github.com/sakif/ims-chat/internal/repository"
)

// RegistryService handles username registration.
type RegistryService struct {
	users  repository.UserRepository
	logger *slog.Logger
}

// NewRegistryService creates a RegistryService.
func NewRegistryService(users repository.UserRepository, logger *slog.Logger) *RegistryService {
	return &RegistryService{users: users, logger: logger}
}

// Register records the username. Registration is idempotent: re-registering
// an existing name succeeds exactly like the first call. The repository
// reports which variant happened and we log it, but callers see one outcome.
func (s *RegistryService) Register(ctx context.Context, username string) error {
	username = strings.TrimSpace(username)
	if username == "" {
		return apperror.ValidationFailed("username", "username is required")
	}

	created, err := s.users.Register(ctx, username)
	if err != nil {
		s.logger.Error("failed to register user",
			slog.String("username", username),
			slog.String("error", err.Error()),
		)
		return err
	}

	if created {
		s.logger.Info("user registered", slog.String("username", username))
	} else {
		s.logger.Debug("user already registered", slog.String("username", username))
	}

	return nil
}
