package http

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	log "github.com/sirupsen/logrus"
)

// Checker verifies that an infrastructure dependency is reachable.
type Checker interface {
	Ping(ctx context.Context) error
}

// CheckerFunc adapts a function to Checker.
type CheckerFunc func(ctx context.Context) error

func (f CheckerFunc) Ping(ctx context.Context) error { return f(ctx) }

type HealthHandler struct {
	checks map[string]Checker
}

func NewHealthHandler(checks map[string]Checker) *HealthHandler {
	return &HealthHandler{checks: checks}
}

func (h *HealthHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.check)
	return r
}

type checkResult struct {
	Status string `json:"status"`
}

func (h *HealthHandler) check(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	results := map[string]checkResult{"app": {Status: "ok"}}
	status := http.StatusOK

	for name, c := range h.checks {
		if err := c.Ping(ctx); err != nil {
			log.WithError(err).WithField("name", name).Error("health check failed")
			results[name] = checkResult{Status: "error"}
			status = http.StatusServiceUnavailable
			continue
		}
		results[name] = checkResult{Status: "ok"}
	}

	writeJSON(w, status, results)
}
