// Package module wires meta endpoints into the API
package module

import (
	"context"
	"time"

	modkit "livetakip/internal/modkit"
	"livetakip/internal/modkit/httpkit"
	str "livetakip/internal/platform/strings"
	metahttp "livetakip/internal/services/api/meta/http"

	"github.com/go-redis/redis/v8"
)

// Module implements modkit.Module
type Module struct {
	b    modkit.Built
	deps metahttp.Deps
}

// New constructs the meta module; service names the binary in health and version output
func New(deps modkit.Deps, service string, opts ...modkit.Option) modkit.Module {
	b := modkit.Build([]modkit.Option{modkit.WithName("meta"), modkit.WithPrefix("/meta")}, opts...)
	return &Module{b: b, deps: metahttp.Deps{
		ServiceName: service,
		StartedAt:   time.Now(),
		Checks: []metahttp.Check{
			{Name: "pg", Pinger: pinger(deps.PG)},
			{Name: "ch", Pinger: pinger(deps.CH)},
			{Name: "redis", Pinger: redisPinger(deps.RDS)},
		},
	}}
}

func pinger(v any) metahttp.Pinger {
	if p, ok := v.(metahttp.Pinger); ok {
		return p
	}
	return nil
}

type redisPing struct{ c *redis.Client }

func (r redisPing) Ping(ctx context.Context) error { return r.c.Ping(ctx).Err() }

func redisPinger(c *redis.Client) metahttp.Pinger {
	if c == nil {
		return nil
	}
	return redisPing{c: c}
}

// MountRoutes implements modkit.Module
func (m *Module) MountRoutes(r httpkit.Router) {
	httpkit.MountUnder(r, str.MustPrefix(m.b.Prefix), m.b.Mw, func(sub httpkit.Router) { metahttp.Register(sub, m.deps) })
}

// Ports implements modkit.Module; meta owns none
func (m *Module) Ports() any { return nil }

// Name implements modkit.Module
func (m *Module) Name() string { return str.MustString(m.b.Name, "module name") }
