// Package http exposes stored analyses
package http

import (
	"context"
	stdhttp "net/http"

	"livetakip/internal/modkit/httpkit"
	dom "livetakip/internal/services/analysis/domain"
)

// Reader loads one analysis
type Reader interface {
	Get(ctx context.Context, threadID string) (dom.Analysis, error)
}

// Register mounts the analysis endpoints on r
func Register(r httpkit.Router, svc Reader) {
	// @Summary Get the analysis of a thread
	// @Tags Analysis
	// @Produce json
	// @Param id path string true "Thread id"
	// @Success 200 {object} httpkit.Envelope{data=domain.Analysis}
	// @Failure 404 {object} httpkit.Envelope
	// @Router /analysis/{id} [get]
	r.Get("/{id}", httpkit.Handle(func(req *stdhttp.Request) httpkit.Response {
		a, err := svc.Get(req.Context(), httpkit.Param(req, "id"))
		if err != nil {
			return httpkit.Error(err)
		}
		return httpkit.OK(a)
	}))
}
