// Package module wires chat sync: upstream client, notifier, queue, worker and scheduler
package module

import (
	"context"
	"time"

	"livetakip/internal/adapters/livechat"
	"livetakip/internal/adapters/telegram"
	modkit "livetakip/internal/modkit"
	"livetakip/internal/modkit/httpkit"
	perr "livetakip/internal/platform/errors"
	"livetakip/internal/platform/logger"
	"livetakip/internal/platform/queue"
	str "livetakip/internal/platform/strings"
	dom "livetakip/internal/services/chatsync/domain"
	shttp "livetakip/internal/services/chatsync/http"
	srepo "livetakip/internal/services/chatsync/repo"
	"livetakip/internal/services/chatsync/service"
)

// Ports is the sync port set
type Ports struct {
	Sync      dom.SyncPort
	Worker    dom.WorkerPort
	Scheduler *service.Scheduler
	Queue     queue.Queue
}

// Module is the chat sync module
type Module struct {
	b     modkit.Built
	svc   *service.Svc
	ports Ports
}

// New builds every collaborator from deps.Cfg; Telegram, ClickHouse and the analyzer are optional
func New(deps modkit.Deps, opts ...modkit.Option) (*Module, error) {
	b := modkit.Build([]modkit.Option{modkit.WithName("chatsync")}, opts...)
	log := logger.Named("chatsync")
	set := FromConfig(deps.Cfg)

	cfg := service.Config{
		DB:       deps.PG,
		Source:   livechat.NewClient(LivechatOptions(deps.Cfg, set)),
		Settings: set,
	}
	if d, ok := b.Ports.(dom.Deps); ok && d.Analyzer != nil {
		cfg.Analyzer = d.Analyzer
	}

	if to := TelegramOptions(deps.Cfg); to.Enabled() {
		n, err := telegram.New(to)
		if err != nil {
			log.Warn().Err(err).Msg("telegram notifier unavailable, alerts are stored for redelivery")
		} else {
			cfg.Notifier = n
		}
	} else {
		log.Info().Msg("telegram not configured, alerts are stored only")
	}

	if deps.CH != nil {
		sink := srepo.NewMetricsSink(deps.CH)
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		err := sink.EnsureSchema(ctx)
		cancel()
		if err != nil {
			log.Warn().Err(err).Msg("thread_metrics schema failed, metrics sink disabled")
		} else {
			cfg.Sink = sink
		}
	}

	q, err := newQueue(deps, set)
	if err != nil {
		return nil, err
	}
	cfg.Queue = q

	svc := service.New(cfg)
	sched, err := service.NewScheduler(svc)
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeConfig, "sync: bad cron spec")
	}

	return &Module{
		b:   b,
		svc: svc,
		ports: Ports{
			Sync:      svc,
			Worker:    svc,
			Scheduler: sched,
			Queue:     q,
		},
	}, nil
}

func newQueue(deps modkit.Deps, set dom.Settings) (queue.Queue, error) {
	if set.QueueBackend != "redis" {
		return queue.NewMemory(set.QueueSize), nil
	}
	if deps.RDS == nil {
		return nil, perr.Configf("sync: SYNC_QUEUE=redis needs CORE_REDIS_ENABLED")
	}
	return queue.NewRedis(deps.RDS, deps.Cfg.Prefix("SYNC_").MayString("QUEUE_PREFIX", "")), nil
}

// MountRoutes implements modkit.Module
func (m *Module) MountRoutes(r httpkit.Router) {
	httpkit.MountUnder(r, m.b.Prefix, m.b.Mw, func(sub httpkit.Router) { shttp.Register(sub, m.svc) })
}

// Ports implements modkit.Module
func (m *Module) Ports() any { return m.ports }

// Name implements modkit.Module
func (m *Module) Name() string { return str.MustString(m.b.Name, "module name") }

// Close releases the queue
func (m *Module) Close() error { return m.ports.Queue.Close() }
