package domain

import (
	"context"

	"livetakip/internal/core/thread"
)

// ChatSource lists raw containers from the chat platform
type ChatSource interface {
	ListChats(ctx context.Context, w Window) ([]thread.RawContainer, error)
}

// Notifier relays an alert text and returns the external message id
type Notifier interface {
	Send(ctx context.Context, text string) (int64, error)
}

// Analyzer grades threads that have not been analyzed yet and returns how many it graded
type Analyzer interface {
	AnalyzePending(ctx context.Context, limit int) (int, error)
}

// MetricsSink receives every written thread
type MetricsSink interface {
	Record(ctx context.Context, threads []thread.Thread) error
}

// SyncPort is what the HTTP layer and the CLI drive
type SyncPort interface {
	Sync(ctx context.Context, w Window) (Result, error)
	CreateJob(ctx context.Context, req JobRequest) (Job, error)
	RunJob(ctx context.Context, id string) (Result, error)
	GetJob(ctx context.Context, id string) (Job, error)
	ListJobs(ctx context.Context, limit int) ([]Job, error)
	ResolveWindow(req JobRequest) (Window, error)
}

// WorkerPort runs the background job consumer
type WorkerPort interface {
	Run(ctx context.Context) error
}

// Deps are ports owned by other modules, handed in through modkit.WithPorts
type Deps struct {
	Analyzer Analyzer
}
