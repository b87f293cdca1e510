// Package http exposes the sync trigger and job polling endpoints
package http

import (
	stdhttp "net/http"
	"time"

	"livetakip/internal/modkit/httpkit"
	perr "livetakip/internal/platform/errors"
	"livetakip/internal/platform/logger"
	"livetakip/internal/platform/net/middleware"
	ptime "livetakip/internal/platform/time"
	dom "livetakip/internal/services/chatsync/domain"
)

// Register mounts the sync endpoints on r
func Register(r httpkit.Router, svc dom.SyncPort) {
	h := &handlers{svc: svc}

	r.Get("/sync", httpkit.Query(h.sync))
	r.Group(func(g httpkit.Router) {
		g.Use(middleware.Timeout(pollTimeout))
		g.Get("/sync/jobs", httpkit.Query(h.listJobs))
		g.Get("/sync/jobs/{id}", httpkit.Handle(h.getJob))
	})
}

// bounds the job lookups; /sync is left unbounded
const pollTimeout = 10 * time.Second

type handlers struct{ svc dom.SyncPort }

// SyncQuery are the trigger parameters
type SyncQuery struct {
	Background bool   `query:"background"`
	JobID      string `query:"job_id" validate:"omitempty,max=64"`
	Days       *int   `query:"days" validate:"omitempty,min=1,max=90"`
	StartDate  string `query:"start_date"`
	EndDate    string `query:"end_date"`
}

// JobsQuery pages the job list
type JobsQuery struct {
	Limit int `query:"limit" validate:"omitempty,min=1,max=100"`
}

// Failure is the error body of the trigger endpoint
type Failure struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// @Summary Run or queue a chat sync
// @Tags Sync
// @Produce json
// @Param background query bool false "Queue the sync and return a job id"
// @Param job_id query string false "Run a queued job"
// @Param days query int false "Sync the last N days (1..90)"
// @Param start_date query string false "Window start (RFC3339 or YYYY-MM-DD)"
// @Param end_date query string false "Window end"
// @Success 200 {object} domain.Result "sync result; domain.Created when background"
// @Failure 400 {object} Failure
// @Failure 500 {object} Failure
// @Router /sync [get]
func (h *handlers) sync(r *stdhttp.Request, q SyncQuery) httpkit.Response {
	ctx := r.Context()

	if q.JobID != "" {
		res, err := h.svc.RunJob(ctx, q.JobID)
		if err != nil {
			return failure(r, err)
		}
		return httpkit.Raw(stdhttp.StatusOK, res)
	}

	req, err := q.request()
	if err != nil {
		return rejected(r, err)
	}
	w, err := h.svc.ResolveWindow(req)
	if err != nil {
		return rejected(r, err)
	}

	if q.Background {
		j, err := h.svc.CreateJob(ctx, req)
		if err != nil {
			return failure(r, err)
		}
		return httpkit.Raw(stdhttp.StatusOK, dom.Created{Success: true, JobID: j.ID, Status: j.Status})
	}

	res, err := h.svc.Sync(ctx, w)
	if err != nil {
		return failure(r, err)
	}
	return httpkit.Raw(stdhttp.StatusOK, res)
}

func (q SyncQuery) request() (dom.JobRequest, error) {
	req := dom.JobRequest{Trigger: dom.TriggerHTTP, Days: q.Days}
	var err error
	if req.StartDate, err = stamp(q.StartDate, "start_date"); err != nil {
		return req, err
	}
	if req.EndDate, err = stamp(q.EndDate, "end_date"); err != nil {
		return req, err
	}
	return req, nil
}

func stamp(s, field string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, ok := ptime.ParseStamp(s)
	if !ok {
		return nil, perr.WithField(perr.InvalidArgf("%s: unrecognised date %q", field, s), field)
	}
	return &t, nil
}

// rejected answers malformed dates and windows before any work starts
func rejected(r *stdhttp.Request, err error) httpkit.Response {
	status := perr.HTTPStatus(err)
	if status < 400 || status >= 500 {
		return failure(r, err)
	}
	return httpkit.Raw(status, Failure{Success: false, Error: err.Error()})
}

// failure reports a sync or job error as 500 whatever its code
func failure(r *stdhttp.Request, err error) httpkit.Response {
	logger.C(r.Context()).Error().Err(err).Stringer("code", perr.CodeOf(err)).Msg("sync request failed")
	return httpkit.Raw(stdhttp.StatusInternalServerError, Failure{Success: false, Error: err.Error()})
}

// @Summary Get a sync job
// @Tags Sync
// @Produce json
// @Param id path string true "Job id"
// @Success 200 {object} httpkit.Envelope{data=domain.Job}
// @Failure 404 {object} httpkit.Envelope
// @Router /sync/jobs/{id} [get]
func (h *handlers) getJob(r *stdhttp.Request) httpkit.Response {
	j, err := h.svc.GetJob(r.Context(), httpkit.Param(r, "id"))
	if err != nil {
		return httpkit.Error(err)
	}
	return httpkit.OK(j)
}

// @Summary List recent sync jobs
// @Tags Sync
// @Produce json
// @Param limit query int false "Max jobs (1..100, default 20)"
// @Success 200 {object} httpkit.Envelope{data=[]domain.Job}
// @Router /sync/jobs [get]
func (h *handlers) listJobs(r *stdhttp.Request, q JobsQuery) httpkit.Response {
	jobs, err := h.svc.ListJobs(r.Context(), q.Limit)
	if err != nil {
		return httpkit.Error(err)
	}
	return httpkit.OK(jobs)
}
