// Package api serves recommendations and records reader interactions over
// HTTP.
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/julienpequegnot/phynews/internal/article"
	"github.com/julienpequegnot/phynews/internal/config"
	"github.com/julienpequegnot/phynews/internal/database"
	"github.com/julienpequegnot/phynews/internal/interaction"
	"github.com/julienpequegnot/phynews/internal/logging"
	"github.com/julienpequegnot/phynews/internal/pipeline"
	"github.com/julienpequegnot/phynews/internal/profile"
	"github.com/julienpequegnot/phynews/internal/score"
)

type Server struct {
	cfg          *config.Config
	pipeline     *pipeline.Pipeline
	articles     *article.Repository
	interactions *interaction.Repository
	profiles     *profile.Repository
	scores       *score.Repository
	router       chi.Router
}

func NewServer(db *database.DB, cfg *config.Config, p *pipeline.Pipeline) *Server {
	s := &Server{
		cfg:          cfg,
		pipeline:     p,
		articles:     article.NewRepository(db),
		interactions: interaction.NewRepository(db),
		profiles:     profile.NewRepository(db),
		scores:       score.NewRepository(db),
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(chimiddleware.RealIP)
	r.Use(requestLogger)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.cfg.Server.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/healthz", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Get("/articles", s.handleListArticles)

		r.Route("/users/{user}", func(r chi.Router) {
			r.Get("/recommendations", s.handleStoredRecommendations)
			r.Post("/recommendations", s.handleRecommend)
			r.Get("/preferences", s.handlePreferences)
			r.Post("/views", s.handleView)
			r.Post("/likes", s.handleLike)
			r.Delete("/likes/{articleID}", s.handleUnlike)
			r.Post("/adapt", s.handleAdapt)
		})
	})

	return r
}

func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves until ctx is canceled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Server.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		logging.Info().Str("addr", srv.Addr).Msg("http server listening")
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
