// Package module wires chat analysis into the API
package module

import (
	"time"

	"livetakip/internal/adapters/scoring"
	modkit "livetakip/internal/modkit"
	"livetakip/internal/modkit/httpkit"
	"livetakip/internal/platform/config"
	"livetakip/internal/platform/net/middleware"
	str "livetakip/internal/platform/strings"
	dom "livetakip/internal/services/analysis/domain"
	ahttp "livetakip/internal/services/analysis/http"
	asvc "livetakip/internal/services/analysis/service"
)

const readTimeout = 10 * time.Second

// Ports is what other modules consume; Analyzer is nil when scoring is not configured
type Ports struct {
	Analyzer dom.AnalyzerPort
}

// Module is the analysis module
type Module struct {
	b     modkit.Built
	svc   *asvc.Service
	ports Ports
}

// ScoringOptions reads OPENAI_* settings
func ScoringOptions(cfg config.Conf) scoring.Options {
	c := cfg.Prefix("OPENAI_")
	return scoring.Options{
		APIKey:    c.MayString("API_KEY", ""),
		BaseURL:   c.MayString("BASE_URL", ""),
		Model:     c.MayString("MODEL", ""),
		MaxTokens: c.MayInt("MAX_TOKENS", 600),
	}
}

// New builds the module; without an api key it mounts read routes only
func New(deps modkit.Deps, opts ...modkit.Option) (*Module, error) {
	b := modkit.Build([]modkit.Option{
		modkit.WithName("analysis"),
		modkit.WithPrefix("/analysis"),
		modkit.WithMiddlewares(middleware.Timeout(readTimeout)),
	}, opts...)
	m := &Module{b: b}

	var scorer dom.Scorer
	if o := ScoringOptions(deps.Cfg); o.APIKey != "" {
		g, err := scoring.NewOpenAI(o)
		if err != nil {
			return nil, err
		}
		scorer = g
	}
	m.svc = asvc.New(deps.PG, nil, scorer)
	if scorer != nil {
		m.ports.Analyzer = m.svc
	}
	return m, nil
}

// MountRoutes implements modkit.Module
func (m *Module) MountRoutes(r httpkit.Router) {
	httpkit.MountUnder(r, str.MustPrefix(m.b.Prefix), m.b.Mw, func(sub httpkit.Router) { ahttp.Register(sub, m.svc) })
}

// Ports implements modkit.Module
func (m *Module) Ports() any { return m.ports }

// Name implements modkit.Module
func (m *Module) Name() string { return str.MustString(m.b.Name, "module name") }
