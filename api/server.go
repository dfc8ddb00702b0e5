package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/devfolio/projects-api/config"
	"github.com/devfolio/projects-api/database"
)

type Server struct {
	*http.Server
	startupTime time.Time
}

func NewServer(db database.Database, authorizer AdminAuthorizer, settings config.ServerSettings) (Server, error) {
	if authorizer == nil {
		return Server{}, fmt.Errorf("an admin authorizer is required")
	}

	address := fmt.Sprintf("0.0.0.0:%s", settings.Port) // Bind to 0.0.0.0 for external access
	startupTime := time.Now()

	router := newRouter(db, authorizer, withSettings(settings), withStartupTime(startupTime))

	server := &http.Server{
		Addr:         address,
		Handler:      router,
		ReadTimeout:  settings.ReadTimeout,  // Timeout for reading the entire request
		WriteTimeout: settings.WriteTimeout, // Timeout for writing the response
		IdleTimeout:  settings.IdleTimeout,  // Timeout for idle connections
	}

	return Server{server, startupTime}, nil
}

type router struct {
	settings    config.ServerSettings
	startupTime time.Time
}

func withSettings(settings config.ServerSettings) func(*router) {
	return func(r *router) {
		r.settings = settings
	}
}

func withStartupTime(startupTime time.Time) func(*router) {
	return func(r *router) {
		r.startupTime = startupTime
	}
}

func newRouter(db database.Database, authorizer AdminAuthorizer, opts ...func(*router)) *chi.Mux {
	router := router{startupTime: time.Now()}
	for _, opt := range opts {
		opt(&router)
	}

	chiRouter := chi.NewRouter()
	chiRouter.Use(RequestID)
	chiRouter.Use(LogInternalServerErrors)
	chiRouter.Use(HTTPLoggingMiddleware)
	chiRouter.Use(corsMiddleware(router.settings.CORSOrigins))
	chiRouter.Use(maxBodySize(router.settings.MaxBodyBytes))

	handlers := initializeHandlers(db, router.startupTime)
	setupProjectRoutes(chiRouter, handlers, newAdminMiddleware(authorizer))

	return chiRouter
}

func (s Server) Start(errChannel chan<- error) {
	log.Info().Msgf("Server started on: %s", s.Addr)
	errChannel <- s.ListenAndServe()
}

func (s Server) ShutdownGracefully(timeout time.Duration) {
	log.Info().Msg("Gracefully shutting down...")

	gracefullCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := s.Shutdown(gracefullCtx); err != nil {
		log.Error().Msgf("Error shutting down the server: %v", err)
	} else {
		log.Info().Msg("HttpServer gracefully shut down")
	}
}
