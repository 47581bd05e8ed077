// Package server exposes the JSON API over chi.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/essensfindung/essensfindung/internal/auth"
	"github.com/essensfindung/essensfindung/internal/config"
	"github.com/essensfindung/essensfindung/internal/service/recipe"
	"github.com/essensfindung/essensfindung/internal/service/restaurant"
)

// Server wires the HTTP surface to the services.
type Server struct {
	cfg         config.ServerConfig
	log         zerolog.Logger
	auth        *auth.Service
	tokens      *auth.TokenIssuer
	restaurants *restaurant.Service
	recipes     *recipe.Service
	httpServer  *http.Server
}

// New creates the server and its route table.
func New(
	cfg config.ServerConfig,
	log zerolog.Logger,
	authService *auth.Service,
	tokens *auth.TokenIssuer,
	restaurants *restaurant.Service,
	recipes *recipe.Service,
) *Server {
	s := &Server{
		cfg:         cfg,
		log:         log,
		auth:        authService,
		tokens:      tokens,
		restaurants: restaurants,
		recipes:     recipes,
	}

	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(s.requestLogger)

	router.Route("/api", func(api chi.Router) {
		api.Post("/users", s.handleRegister)
		api.Post("/signin", s.handleSignin)
		api.Post("/signout", s.handleSignout)

		api.Group(func(private chi.Router) {
			private.Use(s.requireUser)

			private.Put("/users", s.handleUpdateUser)
			private.Delete("/users", s.handleDeleteUser)

			private.Post("/restaurant/search", s.handleRestaurantSearch)
			private.Get("/restaurant", s.handleListRestaurants)
			private.Get("/ratings/restaurant", s.handleListRestaurantRatings)
			private.Post("/ratings/restaurant", s.handleCreateRestaurantRating)
			private.Put("/ratings/restaurant", s.handleUpdateRestaurantRating)
			private.Delete("/ratings/restaurant/{placeID}", s.handleDeleteRestaurantRating)

			private.Post("/recipe/search", s.handleRecipeSearch)
			private.Get("/ratings/recipe", s.handleListRecipeRatings)
			private.Post("/ratings/recipe", s.handleCreateRecipeRating)
			private.Put("/ratings/recipe", s.handleUpdateRecipeRating)
			private.Delete("/ratings/recipe/{recipeID}", s.handleDeleteRecipeRating)

			private.Get("/filter", s.handleGetFilter)
			private.Put("/filter", s.handleSaveFilter)
		})
	})

	s.httpServer = &http.Server{
		Addr:         cfg.Addr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	return s
}

// Run serves until the context is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", s.cfg.Addr).Msg("http server listening")
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownTimeout := s.cfg.ShutdownTimeout
	if shutdownTimeout <= 0 {
		shutdownTimeout = 10 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return s.httpServer.Shutdown(shutdownCtx)
}
