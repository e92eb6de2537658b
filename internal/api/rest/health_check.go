package rest

import (
	"context"
	"net/http"
	"time"
)

// HealthChecker reports the liveness of one dependency.
type HealthChecker interface {
	Name() string
	Check(ctx context.Context) error
}

// HealthHandler serves /healthz, probing each registered dependency.
type HealthHandler struct {
	checkers []HealthChecker
	timeout  time.Duration
}

func NewHealthHandler(checkers ...HealthChecker) *HealthHandler {
	return &HealthHandler{
		checkers: checkers,
		timeout:  2 * time.Second,
	}
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	resp := healthResponse{Status: "healthy", Checks: make(map[string]string, len(h.checkers))}
	status := http.StatusOK

	for _, c := range h.checkers {
		if err := c.Check(ctx); err != nil {
			resp.Status = "unhealthy"
			resp.Checks[c.Name()] = err.Error()
			status = http.StatusServiceUnavailable
		} else {
			resp.Checks[c.Name()] = "ok"
		}
	}

	writeJSON(w, status, resp)
}

// CheckFunc adapts a function into a HealthChecker.
type CheckFunc struct {
	CheckName string
	Fn        func(ctx context.Context) error
}

func (c CheckFunc) Name() string                    { return c.CheckName }
func (c CheckFunc) Check(ctx context.Context) error { return c.Fn(ctx) }
