// Command livetakip-sync runs one synchronous chat sync and prints the result
package main

import (
	"context"
	"encoding/json"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"livetakip/internal/modkit"
	"livetakip/internal/modkit/module"
	"livetakip/internal/platform/config"
	"livetakip/internal/platform/logger"
	"livetakip/internal/platform/store"
	ptime "livetakip/internal/platform/time"
	analysismod "livetakip/internal/services/analysis/module"
	dom "livetakip/internal/services/chatsync/domain"
	syncmod "livetakip/internal/services/chatsync/module"
)

const service = "livetakip-sync"

func main() {
	start := flag.String("start", "", "window start (RFC3339 or YYYY-MM-DD)")
	end := flag.String("end", "", "window end, defaults to now")
	days := flag.Int("days", 0, "sync the last N days")
	flag.Parse()

	if err := config.LoadDotenv(); err != nil {
		logger.Get().Fatal().Err(err).Msg("load .env")
	}
	root := config.New()
	l := logger.Named("main")

	req := dom.JobRequest{Trigger: dom.TriggerCLI}
	if *days > 0 {
		req.Days = days
	}
	req.StartDate = mustStamp(l, "start", *start)
	req.EndDate = mustStamp(l, "end", *end)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := store.Open(ctx, store.ConfigFrom(root, service), store.WithLogger(*logger.Get()))
	if err != nil {
		l.Fatal().Err(err).Msg("store.Open failed")
	}
	defer func() { _ = st.Close(context.Background()) }()
	if err := st.Guard(ctx); err != nil {
		l.Fatal().Err(err).Msg("store not ready")
	}

	deps := modkit.DepsFrom(root, st)
	analysis, err := analysismod.New(deps)
	if err != nil {
		l.Fatal().Err(err).Msg("analysis module")
	}
	analyzer, _ := module.PortsOf[dom.Analyzer](analysis)
	chatsync, err := syncmod.New(deps, modkit.WithPorts(dom.Deps{Analyzer: analyzer}))
	if err != nil {
		l.Fatal().Err(err).Msg("sync module")
	}
	defer func() { _ = chatsync.Close() }()

	svc := module.MustPortsOf[dom.SyncPort](chatsync)
	w, err := svc.ResolveWindow(req)
	if err != nil {
		l.Fatal().Err(err).Msg("window")
	}

	began := time.Now()
	res, err := svc.Sync(ctx, w)
	if err != nil {
		l.Fatal().Err(err).Dur("took", time.Since(began)).Msg("sync failed")
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(res)
}

func mustStamp(l *logger.Logger, name, s string) *time.Time {
	if s == "" {
		return nil
	}
	t, ok := ptime.ParseStamp(s)
	if !ok {
		l.Fatal().Str("flag", name).Str("value", s).Msg("unrecognised date")
	}
	return &t
}
