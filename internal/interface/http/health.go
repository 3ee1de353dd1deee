package http

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/go-chi/render"
)

// HealthCheckFunc is a function that performs a single health check.
// It returns an error if the check fails.
type HealthCheckFunc func(ctx context.Context) error

// HealthStatus represents the overall health status of the service.
type HealthStatus struct {
	Healthy   bool              `json:"healthy"`
	Checks    map[string]string `json:"checks,omitempty"`
	Uptime    string            `json:"uptime,omitempty"`
	Version   string            `json:"version,omitempty"`
	Timestamp time.Time         `json:"timestamp"`
}

const healthCheckTimeout = 3 * time.Second

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
	defer cancel()

	status := HealthStatus{
		Healthy:   true,
		Version:   s.deps.Version,
		Uptime:    s.Uptime().Round(time.Second).String(),
		Timestamp: time.Now().UTC(),
	}

	names := make([]string, 0, len(s.deps.HealthChecks))
	for name := range s.deps.HealthChecks {
		names = append(names, name)
	}
	sort.Strings(names)

	if len(names) > 0 {
		status.Checks = make(map[string]string, len(names))
	}
	for _, name := range names {
		if err := s.deps.HealthChecks[name](ctx); err != nil {
			status.Healthy = false
			status.Checks[name] = err.Error()
			continue
		}
		status.Checks[name] = "ok"
	}

	if !status.Healthy {
		render.Status(r, http.StatusServiceUnavailable)
		render.JSON(w, r, Response{Status: StatusError, Error: "unhealthy", Data: status})
		return
	}
	writeData(w, r, http.StatusOK, status)
}
