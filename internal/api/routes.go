// internal/api/routes.go
package api

import (
	"context"
	"net/http"

	"carematch/internal/common/logger"
	"carematch/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	defaultPageSize = 100
	maxBodyBytes    = 1 << 20
)

// ReadinessCheck is one dependency probed by /ready.
type ReadinessCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

type Server struct {
	matcher     *service.MatchService
	registry    *service.RegistrationService
	checks      []ReadinessCheck
	maxPageSize int
	logger      logger.Logger
}

func NewServer(matcher *service.MatchService, registry *service.RegistrationService, maxPageSize int, log logger.Logger, checks ...ReadinessCheck) *Server {
	if maxPageSize <= 0 {
		maxPageSize = 500
	}
	return &Server{
		matcher:     matcher,
		registry:    registry,
		checks:      checks,
		maxPageSize: maxPageSize,
		logger:      log.WithFields(map[string]interface{}{"component": "http"}),
	}
}

func (s *Server) Routes() http.Handler {
	mux := chi.NewRouter()

	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	mux.Use(middleware.Recoverer)
	mux.Use(s.logRequests)

	mux.Get("/health", s.health)
	mux.Get("/ready", s.ready)
	mux.Handle("/metrics", promhttp.Handler())

	mux.Route("/api", func(r chi.Router) {
		r.Post("/evaluate/elder", s.evaluateElder)
		r.Post("/evaluate/home_questionnaire", s.evaluateHome)
		r.Get("/homes", s.listHomes)
		r.Post("/homes", s.createHome)
		r.Get("/homes/{id}", s.getHome)
	})

	return mux
}
