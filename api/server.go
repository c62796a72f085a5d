package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/ProNexus-Startup/ProjectHub/backend/auth"
	"github.com/ProNexus-Startup/ProjectHub/backend/config"
	"github.com/ProNexus-Startup/ProjectHub/backend/database"
	"github.com/ProNexus-Startup/ProjectHub/backend/notify"
	"github.com/ProNexus-Startup/ProjectHub/backend/querycache"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// Dependencies are the long-lived components the handlers share.
type Dependencies struct {
	Database      database.Database
	Cache         *querycache.Cache
	Verifier      *auth.Verifier
	Notifications *notify.Recorder
}

type Server struct {
	*http.Server
	startupTime time.Time
}

func NewServer(c map[string]string, deps Dependencies) (Server, error) {
	if deps.Cache == nil || deps.Verifier == nil || deps.Notifications == nil {
		return Server{}, fmt.Errorf("server dependencies incomplete")
	}

	port := config.GetString(c, "PORT", "8080")
	address := fmt.Sprintf("0.0.0.0:%s", port) // Bind to 0.0.0.0 for external access

	startupTime := time.Now()
	router := newRouter(deps, withConfig(c), withStartupTime(startupTime))

	server := &http.Server{
		Addr:         address,
		Handler:      router,
		ReadTimeout:  config.GetSeconds(c, "READ_TIMEOUT_SECONDS", 180*time.Second),
		WriteTimeout: config.GetSeconds(c, "WRITE_TIMEOUT_SECONDS", 180*time.Second),
		IdleTimeout:  config.GetSeconds(c, "IDLE_TIMEOUT_SECONDS", 180*time.Second),
	}

	return Server{server, startupTime}, nil
}

type router struct {
	config      map[string]string
	startupTime time.Time
}

func withConfig(c map[string]string) func(*router) {
	return func(r *router) {
		r.config = c
	}
}

func withStartupTime(startupTime time.Time) func(*router) {
	return func(r *router) {
		r.startupTime = startupTime
	}
}

func newRouter(deps Dependencies, opts ...func(*router)) *chi.Mux {
	var router router
	for _, opt := range opts {
		opt(&router)
	}

	chiRouter := chi.NewRouter()
	chiRouter.Use(LogInternalServerErrors)

	acceptedOrigins := config.GetStrings(router.config, "ACCEPTED_ORIGINS")
	if len(acceptedOrigins) == 0 {
		acceptedOrigins = []string{"*"}
	}
	chiRouter.Use(corsMiddleware(acceptedOrigins))

	handlers := initializeHandlers(deps, router.startupTime)
	authMiddleware := newAuthMiddleware(deps.Verifier, deps.Database.UserRoleRepo())

	setupRoutes(chiRouter, handlers, authMiddleware)

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
