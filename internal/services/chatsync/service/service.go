// Package service runs the chat sync pipeline, its jobs and the alert relay
package service

import (
	"context"
	"time"

	"livetakip/internal/modkit/repokit"
	"livetakip/internal/platform/logger"
	"livetakip/internal/platform/queue"
	dom "livetakip/internal/services/chatsync/domain"
	srepo "livetakip/internal/services/chatsync/repo"

	"github.com/google/uuid"
)

// Config carries the collaborators of the service; optional ones may be nil
type Config struct {
	DB       repokit.TxRunner
	Binder   repokit.Binder[srepo.Repo]
	Source   dom.ChatSource
	Queue    queue.Queue
	Settings dom.Settings

	Notifier dom.Notifier
	Analyzer dom.Analyzer
	Sink     dom.MetricsSink

	Now   func() time.Time
	NewID func() string
	// Sleep waits between dequeue retries; defaults to a context aware timer
	Sleep func(context.Context, time.Duration) error
}

// Svc implements SyncPort and WorkerPort
type Svc struct {
	db     repokit.TxRunner
	binder repokit.Binder[srepo.Repo]
	repo   srepo.Repo

	source   dom.ChatSource
	queue    queue.Queue
	set      dom.Settings
	notifier dom.Notifier
	analyzer dom.Analyzer
	sink     dom.MetricsSink

	log   logger.Logger
	now   func() time.Time
	newID func() string
	sleep func(context.Context, time.Duration) error
}

var (
	_ dom.SyncPort   = (*Svc)(nil)
	_ dom.WorkerPort = (*Svc)(nil)
)

// New constructs the service
func New(c Config) *Svc {
	if c.Binder == nil {
		c.Binder = srepo.NewPG()
	}
	if c.Now == nil {
		c.Now = time.Now
	}
	if c.NewID == nil {
		c.NewID = uuid.NewString
	}
	if c.Sleep == nil {
		c.Sleep = sleepCtx
	}
	return &Svc{
		db:       c.DB,
		binder:   c.Binder,
		repo:     c.Binder.Bind(c.DB),
		source:   c.Source,
		queue:    c.Queue,
		set:      c.Settings.Defaults(),
		notifier: c.Notifier,
		analyzer: c.Analyzer,
		sink:     c.Sink,
		log:      *logger.Named("chatsync"),
		now:      c.Now,
		newID:    c.NewID,
		sleep:    c.Sleep,
	}
}

// Settings returns the effective settings
func (s *Svc) Settings() dom.Settings { return s.set }
