// Package repo is the Postgres persistence of chat sync
package repo

import (
	"context"
	"time"

	"livetakip/internal/core/thread"
	"livetakip/internal/modkit/repokit"
	dom "livetakip/internal/services/chatsync/domain"
)

// Repo is the persistence surface the sync service uses
type Repo interface {
	// threads
	ThreadState(ctx context.Context, id thread.ThreadID) (exists, analyzed bool, err error)
	UpsertThread(ctx context.Context, t thread.Thread) error
	InsertMessages(ctx context.Context, msgs []thread.Message) (int64, error)
	TouchPersonnel(ctx context.Context, name string, at time.Time) error
	Totals(ctx context.Context) (dom.Totals, error)

	// alerts
	FindAlert(ctx context.Context, chatID thread.ThreadID, alertType string) (dom.Alert, bool, error)
	InsertAlert(ctx context.Context, a dom.Alert) (id int64, created bool, err error)
	MarkAlertSent(ctx context.Context, id int64, telegramMessageID int64, at time.Time) error
	MarkAlertSendError(ctx context.Context, id int64, msg string) error
	UndeliveredAlerts(ctx context.Context, limit int) ([]dom.Alert, error)

	// jobs
	InsertJob(ctx context.Context, j dom.Job) error
	StartJob(ctx context.Context, id string, at time.Time) error
	CompleteJob(ctx context.Context, id string, result []byte, at time.Time) error
	FailJob(ctx context.Context, id string, msg string, at time.Time) error
	GetJob(ctx context.Context, id string) (dom.Job, error)
	ListJobs(ctx context.Context, limit int) ([]dom.Job, error)
	ActiveJobs(ctx context.Context) (int, error)
	FailInterrupted(ctx context.Context, msg string, at time.Time) (int64, error)
	PendingJobIDs(ctx context.Context) ([]string, error)
}

type (
	// PG is the Postgres implementation
	PG      struct{}
	queries struct{ q repokit.Queryer }
)

// NewPG returns a binder for the Postgres implementation
func NewPG() repokit.Binder[Repo] { return PG{} }

// Bind attaches a Queryer, the pool or an open transaction
func (PG) Bind(q repokit.Queryer) Repo { return &queries{q: q} }
