package api

import (
	"context"
	"fmt"
	"net/http"
	"slices"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rpupo63/portfolio-backend/config"
	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/rs/zerolog/log"
)

const maxBodyBytes = 1 << 20

type Server struct {
	*http.Server
	startupTime time.Time
}

func NewServer(cfg config.Config, deps Dependencies) (Server, error) {
	if deps.Auth == nil || deps.Verifier == nil {
		return Server{}, fmt.Errorf("api: auth service and credential verifier are required")
	}
	if deps.Projects == nil || deps.BlogPosts == nil || deps.Messages == nil {
		return Server{}, fmt.Errorf("api: project, blog post and message stores are required")
	}

	address := fmt.Sprintf("0.0.0.0:%s", cfg.Port)
	startupTime := time.Now()

	router := newRouter(cfg, deps, NewMetrics())

	server := &http.Server{
		Addr:         address,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return Server{server, startupTime}, nil
}

func newRouter(cfg config.Config, deps Dependencies, metrics *Metrics) *chi.Mux {
	chiRouter := chi.NewRouter()

	chiRouter.Use(middleware.RequestID)
	if cfg.TrustProxy {
		chiRouter.Use(middleware.RealIP)
	}
	chiRouter.Use(middleware.CleanPath)
	chiRouter.Use(LogInternalServerErrors)
	chiRouter.Use(HTTPLoggingMiddleware)
	chiRouter.Use(metrics.Middleware)
	chiRouter.Use(securityHeaders)
	chiRouter.Use(middleware.RequestSize(maxBodyBytes))
	chiRouter.Use(corsHandler(cfg.AcceptedOrigins))

	responder := NewResponder(log.With().Str("handlerName", "router").Logger())
	chiRouter.NotFound(func(w http.ResponseWriter, r *http.Request) {
		responder.WriteError(w, errs.NewNotFoundError("Not found"))
	})
	chiRouter.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		responder.WriteError(w, errs.NewMethodNotAllowedError())
	})

	handlers := initializeHandlers(deps, metrics)
	authMiddleware := newAuthMiddleware(deps.Verifier)
	limits := limiters{
		contact: rateLimit("contact",
			newSlidingWindow(ContactRateLimit, ContactRateWindow),
			contactKeyFunc(cfg.ContactRateLimitScope), responder, metrics),
		login: rateLimit("login",
			newTokenBuckets(LoginRatePerMinute, LoginBurst),
			ipKey, responder, metrics),
	}

	setupOperationalRoutes(chiRouter, handlers, metrics)
	chiRouter.Route("/api", func(r chi.Router) {
		setupPublicRoutes(r, handlers, limits)
		r.Route("/auth", func(r chi.Router) {
			setupAuthRoutes(r, handlers, authMiddleware, limits)
		})
		setupAdminRoutes(r, handlers, authMiddleware)
	})

	return chiRouter
}

// corsHandler allows the configured origins. A "*" entry allows any origin
// but then credentials are not allowed.
func corsHandler(origins []string) func(http.Handler) http.Handler {
	wildcard := len(origins) == 0 || slices.Contains(origins, "*")
	if wildcard {
		origins = []string{"*"}
	}
	return cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"Retry-After", "X-Request-Id"},
		AllowCredentials: !wildcard,
		MaxAge:           300,
	})
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
		log.Info().Dur("uptime", time.Since(s.startupTime)).Msg("HttpServer gracefully shut down")
	}
}
