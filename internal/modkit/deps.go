// Package modkit provides module wiring and core deps
package modkit

import (
	"livetakip/internal/modkit/repokit"
	"livetakip/internal/platform/config"
	"livetakip/internal/platform/logger"
	"livetakip/internal/platform/store"

	"github.com/go-redis/redis/v8"
)

// Deps holds the shared dependencies handed to modules
type Deps struct {
	Log *logger.Logger
	Cfg config.Conf
	PG  repokit.TxRunner
	CH  store.Clickhouse
	RDS *redis.Client
}

// DepsFrom lifts an opened store into Deps
func DepsFrom(cfg config.Conf, st *store.Store) Deps {
	d := Deps{Cfg: cfg, Log: logger.Get()}
	if st == nil {
		return d
	}
	d.PG, d.CH, d.RDS = st.PG, st.CH, st.RDS
	return d
}
