package pg

import (
	"context"
	"strings"

	"livetakip/internal/platform/logger"
)

// QueryEvent describes one statement
type QueryEvent struct {
	SQL       string
	Args      []any
	ElapsedUS int64
	Err       error
	Slow      bool
}

// QueryTracer receives statement events
type QueryTracer interface {
	OnQuery(ctx context.Context, ev QueryEvent)
}

// Tracer logs every statement at debug and slow ones at warn
func Tracer(l logger.Logger) QueryTracer {
	return &logTracer{log: l.With().Str("component", "pg").Logger()}
}

type logTracer struct{ log logger.Logger }

func (t *logTracer) OnQuery(ctx context.Context, ev QueryEvent) {
	evt := t.log.Debug()
	if ev.Slow {
		evt = t.log.Warn()
	}
	if ev.Err != nil {
		evt = t.log.Error().Err(ev.Err)
	}
	if id := logger.JobID(ctx); id != "" {
		evt = evt.Str("job_id", id)
	}
	evt.Float64("elapsed_ms", float64(ev.ElapsedUS)/1000).
		Str("sql", strings.Join(strings.Fields(ev.SQL), " ")).
		Int("args", len(ev.Args)).
		Msg("pg query")
}
