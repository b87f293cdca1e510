// Package api composes the HTTP modules of the service
package api

import (
	"livetakip/internal/modkit"
	"livetakip/internal/modkit/httpkit"
	"livetakip/internal/modkit/module"
	"livetakip/internal/modkit/swaggerkit"
	"livetakip/internal/platform/config"
	phttp "livetakip/internal/platform/net/http"
	"livetakip/internal/platform/store"

	analysismod "livetakip/internal/services/analysis/module"
	metamod "livetakip/internal/services/api/meta/module"
	dom "livetakip/internal/services/chatsync/domain"
	syncmod "livetakip/internal/services/chatsync/module"
)

// Options are the API options
type Options struct {
	Service        string
	Config         config.Conf
	Store          *store.Store
	CORSOrigins    []string
	EnableSwagger  bool
	EnableProfiler bool
}

// Mounted exposes what the composition root needs after mounting
type Mounted struct {
	Sync *syncmod.Module
}

// Mount builds every module and mounts it on r
func Mount(r phttp.Router, opt Options) (Mounted, error) {
	deps := modkit.DepsFrom(opt.Config, opt.Store)

	analysis, err := analysismod.New(deps)
	if err != nil {
		return Mounted{}, err
	}
	analyzer, _ := module.PortsOf[dom.Analyzer](analysis)

	chatsync, err := syncmod.New(deps, modkit.WithPorts(dom.Deps{Analyzer: analyzer}))
	if err != nil {
		return Mounted{}, err
	}

	mods := []module.Module{
		metamod.New(deps, opt.Service),
		analysis,
		chatsync,
	}

	r.Use(httpkit.CommonStack(opt.CORSOrigins)...)
	swaggerkit.Mount(r, opt.EnableSwagger)
	if opt.EnableProfiler {
		phttp.MountProfiler(r, "/debug")
	}
	for _, m := range mods {
		module.Register(m.Name(), m.Ports())
		m.MountRoutes(r)
	}
	deps.Log.Info().Strs("modules", module.Names()).Msg("modules mounted")
	return Mounted{Sync: chatsync}, nil
}
