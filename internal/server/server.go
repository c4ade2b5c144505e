// Package server wires the application together: it owns the database and
// blob store, builds the service and handler layers, defines the routes and
// runs the HTTP server with graceful shutdown.
//
// This is the composition root — every dependency is constructed and
// connected here, and each layer receives only what it needs (the service
// gets repository interfaces, the handlers get services).
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/sakif/ims-chat/internal/blob"
	"github.com/sakif/ims-chat/internal/config"
	"github.com/sakif/ims-chat/internal/handler"
	"github.com/sakif/ims-chat/internal/imaging"
	"github.com/sakif/ims-chat/internal/middleware"
	sqliteRepo "github.com/sakif/ims-chat/internal/repository/sqlite"
	"github.com/sakif/ims-chat/internal/service"
)

// Server is the HTTP server and the resources it owns.
type Server struct {
	router *chi.Mux
	config config.Config
	logger *slog.Logger
	db     *sqliteRepo.DB // closed on shutdown
}

// New opens the database, runs the schema bootstrap, creates the blob store
// and wires all routes. Migration happens here, explicitly, before any
// request can be served — opening the database elsewhere never touches the
// schema.
func New(cfg config.Config, logger *slog.Logger) (*Server, error) {
	db, err := sqliteRepo.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := db.Migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrating database: %w", err)
	}

	blobs, err := blob.NewStore(cfg.UploadDir)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating blob store: %w", err)
	}

	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
		db:     db,
	}

	if err := s.setupRoutes(blobs); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting up routes: %w", err)
	}

	return s, nil
}

// Handler exposes the router, mainly so tests can drive the full stack
// through httptest without binding a port.
func (s *Server) Handler() http.Handler {
	return s.router
}

// setupRoutes builds the middleware chain and the route table:
//
//	GET  /               → chat page
//	POST /register       → register a username
//	POST /send           → send a message (text and/or base64 image)
//	GET  /inbox          → latest messages for ?username=
//	GET  /uploads/{name} → fetch a stored image blob
func (s *Server) setupRoutes(blobs *blob.Store) error {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger))

	// Dependency chain: DB implements the repository interfaces; services
	// get repositories (plus the normalizer); handlers get services.
	normalizer := imaging.NewNormalizer(blobs)
	registrySvc := service.NewRegistryService(s.db, s.logger)
	messageSvc := service.NewMessageService(s.db, normalizer, s.logger)

	pageHandler, err := handler.NewPageHandler(s.logger)
	if err != nil {
		return fmt.Errorf("creating page handler: %w", err)
	}
	userHandler := handler.NewUserHandler(registrySvc, s.logger)
	messageHandler := handler.NewMessageHandler(messageSvc, s.config.MaxUploadBytes, s.logger)
	uploadHandler := handler.NewUploadHandler(blobs, s.logger)

	s.router.Get("/", pageHandler.HandleHome)
	s.router.Post("/register", userHandler.HandleRegister)
	s.router.Post("/send", messageHandler.HandleSend)
	s.router.Get("/inbox", messageHandler.HandleInbox)
	s.router.Get("/uploads/{name}", uploadHandler.HandleFetch)

	return nil
}

// Start runs the server until SIGINT/SIGTERM, then shuts down gracefully:
// stop accepting connections, give in-flight requests 30s to drain, close
// the database (flushing the WAL and releasing the file lock).
func (s *Server) Start() error {
	defer s.db.Close()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.Port),
			slog.String("database", s.config.DBPath),
			slog.String("uploads", s.config.UploadDir),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-quit:
		s.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}
