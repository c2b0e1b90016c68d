package api

import (
	"context"
	"net/http"
	"time"

	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/rs/zerolog/log"
)

const (
	serviceName  = "portfolio-backend"
	readyTimeout = 3 * time.Second
)

type healthHandler struct {
	responder Responder
	health    HealthChecker
	started   time.Time
}

func newHealthHandler(health HealthChecker) healthHandler {
	logger := log.With().Str("handlerName", "healthHandler").Logger()

	return healthHandler{
		responder: NewResponder(logger),
		health:    health,
		started:   time.Now(),
	}
}

// live answers as long as the process is serving requests.
func (h healthHandler) live() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.responder.WriteJSON(w, envelope{
			"service": serviceName,
			"uptime":  time.Since(h.started).Round(time.Second).String(),
		})
	}
}

// ready checks the store with a trivial query.
func (h healthHandler) ready() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if h.health == nil {
			h.responder.WriteError(w, errs.NewServiceUnavailableError("no database configured", nil))
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
		defer cancel()

		if err := h.health.Ping(ctx); err != nil {
			h.responder.WriteError(w, errs.NewServiceUnavailableError("database unreachable", err))
			return
		}
		h.responder.WriteJSON(w, envelope{"service": serviceName})
	}
}
