// @title       livetakip API
// @version     1.0
// @description Chat sync, job polling and analysis endpoints

package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"livetakip/internal/core/version"
	"livetakip/internal/platform/config"
	"livetakip/internal/platform/logger"
	phttp "livetakip/internal/platform/net/http"
	"livetakip/internal/platform/store"
	"livetakip/internal/platform/store/migrate"
	"livetakip/internal/services/api"
	syncmod "livetakip/internal/services/chatsync/module"
)

const service = "livetakip-api"

func main() {
	migrateFlag := flag.Bool("migrate", false, "apply the embedded schema before serving")
	flag.Parse()

	if err := config.LoadDotenv(); err != nil {
		logger.Get().Fatal().Err(err).Msg("load .env")
	}
	root := config.New()
	l := logger.Named("main")
	bi := version.Info(service)
	l.Info().Str("version", bi.Version).Str("commit", bi.Commit).Msg("starting")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := store.Open(ctx, store.ConfigFrom(root, service), store.WithLogger(*logger.Get()))
	if err != nil {
		l.Fatal().Err(err).Msg("store.Open failed")
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			l.Error().Err(err).Msg("close store")
		}
	}()

	if *migrateFlag || root.Prefix("CORE_PG_").MayBool("MIGRATE", false) {
		pool, ok := store.PoolOf(st.PG)
		if !ok {
			l.Fatal().Msg("migrations need postgres")
		}
		if err := migrate.Up(ctx, pool); err != nil {
			l.Fatal().Err(err).Msg("migrate")
		}
	}

	apiCfg := root.Prefix("API_")
	srv := phttp.NewServer(root)
	mounted, err := api.Mount(srv.Router(), api.Options{
		Service:        service,
		Config:         root,
		Store:          st,
		CORSOrigins:    apiCfg.MayCSV("CORS_ORIGINS", []string{"*"}),
		EnableSwagger:  apiCfg.MayBool("SWAGGER", true),
		EnableProfiler: apiCfg.MayBool("PROFILER", false),
	})
	if err != nil {
		l.Fatal().Err(err).Msg("mount api")
	}

	ports := mounted.Sync.Ports().(syncmod.Ports)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := ports.Worker.Run(ctx); err != nil {
			l.Error().Err(err).Msg("sync worker stopped")
		}
	}()
	if root.Prefix("SYNC_").MayBool("SCHEDULE", true) {
		ports.Scheduler.Start(ctx)
		defer ports.Scheduler.Stop()
	}

	if err := srv.Run(ctx, apiCfg.MayDuration("SHUTDOWN_GRACE", 15*time.Second)); err != nil {
		l.Error().Err(err).Msg("http server stopped")
	}
	stop()
	_ = mounted.Sync.Close()
	wg.Wait()
	l.Info().Msg("bye")
}
