// Package http provides meta endpoints
package http

import (
	"context"
	"net/http"
	"time"

	"livetakip/internal/core/version"
	"livetakip/internal/modkit/httpkit"
)

// Pinger is satisfied by every store client the API holds
type Pinger interface {
	Ping(context.Context) error
}

// Check names one readiness dependency; a nil Pinger is reported as skipped
type Check struct {
	Name   string
	Pinger Pinger
}

// Deps are the handler dependencies
type Deps struct {
	ServiceName string
	StartedAt   time.Time
	Checks      []Check
	Now         func() time.Time
}

type handlers struct{ deps Deps }

// Register mounts the meta routes
func Register(r httpkit.Router, d Deps) {
	if d.Now == nil {
		d.Now = time.Now
	}
	h := &handlers{deps: d}

	r.Get("/health", httpkit.Handle(h.health))
	r.Get("/ready", httpkit.Handle(h.ready))
	r.Get("/version", httpkit.Handle(h.version))
}

// HealthResponse is the liveness payload
type HealthResponse struct {
	OK      bool   `json:"ok"      example:"true"`
	Service string `json:"service" example:"livetakip-api"`
	Started string `json:"started" example:"2024-01-01T10:00:00Z"`
	Now     string `json:"now"     example:"2024-01-01T10:05:00Z"`
}

// ReadyCheck is one dependency result; status is ok, fail or skipped
type ReadyCheck struct {
	Name   string `json:"name"   example:"pg"`
	Status string `json:"status" example:"ok"`
	Error  string `json:"error,omitempty"`
}

// ReadyResponse summarizes readiness; status is ok, degraded or fail
type ReadyResponse struct {
	Status string       `json:"status" example:"ok"`
	Checks []ReadyCheck `json:"checks"`
	Now    string       `json:"now"`
}

// @Summary Liveness
// @Tags Meta
// @Produce json
// @Success 200 {object} httpkit.Envelope{data=HealthResponse}
// @Router /meta/health [get]
func (h *handlers) health(_ *http.Request) httpkit.Response {
	return httpkit.OK(HealthResponse{
		OK:      true,
		Service: h.deps.ServiceName,
		Started: h.deps.StartedAt.UTC().Format(time.RFC3339),
		Now:     h.deps.Now().UTC().Format(time.RFC3339),
	})
}

// @Summary Readiness with dependency checks
// @Tags Meta
// @Produce json
// @Success 200 {object} httpkit.Envelope{data=ReadyResponse}
// @Failure 503 {object} httpkit.Envelope{data=ReadyResponse}
// @Router /meta/ready [get]
func (h *handlers) ready(r *http.Request) httpkit.Response {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	out := ReadyResponse{Status: "ok", Now: h.deps.Now().UTC().Format(time.RFC3339)}
	for _, c := range h.deps.Checks {
		rc := ReadyCheck{Name: c.Name, Status: "ok"}
		if c.Pinger == nil {
			rc.Status = "skipped"
		} else if err := c.Pinger.Ping(ctx); err != nil {
			rc.Status, rc.Error = "fail", err.Error()
		}
		// pg is the only dependency the API cannot serve without
		switch {
		case rc.Status == "fail":
			out.Status = "fail"
		case rc.Status == "skipped" && c.Name == "pg" && out.Status == "ok":
			out.Status = "degraded"
		}
		out.Checks = append(out.Checks, rc)
	}

	status := http.StatusOK
	if out.Status == "fail" {
		status = http.StatusServiceUnavailable
	}
	resp := httpkit.OK(out)
	resp.Status = status
	return resp
}

// @Summary Build information
// @Tags Meta
// @Produce json
// @Success 200 {object} httpkit.Envelope{data=version.BuildInfo}
// @Router /meta/version [get]
func (h *handlers) version(_ *http.Request) httpkit.Response {
	return httpkit.OK(version.Info(h.deps.ServiceName))
}
