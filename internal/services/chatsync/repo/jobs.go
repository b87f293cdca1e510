package repo

import (
	"context"
	"time"

	"livetakip/internal/modkit/repokit"
	perr "livetakip/internal/platform/errors"
	"livetakip/internal/platform/store"
	dom "livetakip/internal/services/chatsync/domain"
)

const jobCols = `id::text, status, trigger, start_date, end_date, days, created_at, started_at, completed_at, result, error`

func scanJob(row repokit.Row) (dom.Job, error) {
	var j dom.Job
	var status string
	var result []byte
	err := row.Scan(&j.ID, &status, &j.Trigger, &j.StartDate, &j.EndDate, &j.Days, &j.CreatedAt,
		&j.StartedAt, &j.CompletedAt, &result, &j.Error)
	j.Status = dom.JobStatus(status)
	if len(result) > 0 {
		j.Result = result
	}
	return j, err
}

// InsertJob stores a new pending job
func (r *queries) InsertJob(ctx context.Context, j dom.Job) error {
	const sql = `
		INSERT INTO sync_jobs (id, status, trigger, start_date, end_date, days, created_at)
		VALUES ($1, 'pending', $2, $3, $4, $5, $6)
	`
	_, err := r.q.Exec(ctx, sql, j.ID, j.Trigger, j.StartDate, j.EndDate, j.Days, j.CreatedAt)
	return perr.FromPostgresf(err, "insert job %s", j.ID)
}

// StartJob moves a pending job to processing; any other state is a conflict
func (r *queries) StartJob(ctx context.Context, id string, at time.Time) error {
	return r.transition(ctx, id, dom.JobPending,
		`UPDATE sync_jobs SET status = 'processing', started_at = $2 WHERE id = $1 AND status = 'pending'`,
		id, at)
}

// CompleteJob stores the result of a processing job
func (r *queries) CompleteJob(ctx context.Context, id string, result []byte, at time.Time) error {
	return r.transition(ctx, id, dom.JobProcessing,
		`UPDATE sync_jobs SET status = 'completed', result = $2, completed_at = $3 WHERE id = $1 AND status = 'processing'`,
		id, result, at)
}

// FailJob stores the error of a processing job
func (r *queries) FailJob(ctx context.Context, id string, msg string, at time.Time) error {
	return r.transition(ctx, id, dom.JobProcessing,
		`UPDATE sync_jobs SET status = 'failed', error = $2, completed_at = $3 WHERE id = $1 AND status = 'processing'`,
		id, msg, at)
}

// transition runs a status guarded update and explains a miss
func (r *queries) transition(ctx context.Context, id string, from dom.JobStatus, sql string, args ...any) error {
	tag, err := r.q.Exec(ctx, sql, args...)
	if err != nil {
		return perr.FromPostgresf(err, "job %s transition", id)
	}
	if tag.RowsAffected() == 1 {
		return nil
	}
	cur, err := r.GetJob(ctx, id)
	if err != nil {
		return err
	}
	return perr.Conflictf("job %s is %s, not %s", id, cur.Status, from)
}

// GetJob loads one job
func (r *queries) GetJob(ctx context.Context, id string) (dom.Job, error) {
	j, err := store.One(ctx, r.q, scanJob, `SELECT `+jobCols+` FROM sync_jobs WHERE id::text = $1`, id)
	if perr.IsCode(err, perr.ErrorCodeNotFound) {
		return dom.Job{}, perr.NotFoundf("job %s not found", id)
	}
	return j, perr.FromPostgresf(err, "get job %s", id)
}

// ListJobs returns the newest jobs first
func (r *queries) ListJobs(ctx context.Context, limit int) ([]dom.Job, error) {
	out, err := store.Many(ctx, r.q, scanJob,
		`SELECT `+jobCols+` FROM sync_jobs ORDER BY created_at DESC LIMIT $1`, limit)
	return out, perr.FromPostgresf(err, "list jobs")
}

// ActiveJobs counts pending and processing jobs
func (r *queries) ActiveJobs(ctx context.Context) (int, error) {
	n, err := store.Scalar[int](ctx, r.q, `SELECT count(*) FROM sync_jobs WHERE status IN ('pending', 'processing')`)
	return n, perr.FromPostgresf(err, "active jobs")
}

// FailInterrupted fails every job left processing by a previous process
func (r *queries) FailInterrupted(ctx context.Context, msg string, at time.Time) (int64, error) {
	tag, err := r.q.Exec(ctx,
		`UPDATE sync_jobs SET status = 'failed', error = $1, completed_at = $2 WHERE status = 'processing'`,
		msg, at)
	if err != nil {
		return 0, perr.FromPostgresf(err, "fail interrupted jobs")
	}
	return tag.RowsAffected(), nil
}

// PendingJobIDs lists pending jobs oldest first
func (r *queries) PendingJobIDs(ctx context.Context) ([]string, error) {
	out, err := store.Many(ctx, r.q, func(row repokit.Row) (string, error) {
		var id string
		err := row.Scan(&id)
		return id, err
	}, `SELECT id::text FROM sync_jobs WHERE status = 'pending' ORDER BY created_at`)
	return out, perr.FromPostgresf(err, "pending jobs")
}
