package service

import (
	"context"
	"errors"
	"testing"

	"livetakip/internal/adapters/scoring"
	"livetakip/internal/modkit/repokit"
	"livetakip/internal/platform/store"
	dom "livetakip/internal/services/analysis/domain"
	arepo "livetakip/internal/services/analysis/repo"
)

type fakeDB struct{ txs int }

func (d *fakeDB) Exec(context.Context, string, ...any) (store.CommandTag, error) { return nil, nil }
func (d *fakeDB) Query(context.Context, string, ...any) (store.Rows, error)      { return nil, nil }
func (d *fakeDB) QueryRow(context.Context, string, ...any) store.Row             { return nil }

func (d *fakeDB) Tx(_ context.Context, fn func(store.RowQuerier) error) error {
	d.txs++
	return fn(d)
}

type fakeRepo struct {
	pending  []dom.Pending
	stored   []dom.Analysis
	analyzed []string
	limit    int
}

func (r *fakeRepo) Pending(_ context.Context, limit int) ([]dom.Pending, error) {
	r.limit = limit
	return r.pending, nil
}

func (r *fakeRepo) InsertAnalysis(_ context.Context, a dom.Analysis) (int64, error) {
	r.stored = append(r.stored, a)
	return int64(len(r.stored)), nil
}

func (r *fakeRepo) Get(_ context.Context, id string) (dom.Analysis, error) {
	for _, a := range r.stored {
		if a.ChatID == id {
			return a, nil
		}
	}
	return dom.Analysis{}, errors.New("missing")
}

func (r *fakeRepo) MarkAnalyzed(_ context.Context, id string) error {
	r.analyzed = append(r.analyzed, id)
	return nil
}

type fakeScorer struct{ fail map[string]bool }

func (f fakeScorer) Score(_ context.Context, t scoring.Transcript) (scoring.Verdict, error) {
	if f.fail[t.ThreadID] {
		return scoring.Verdict{}, errors.New("rate limited")
	}
	return scoring.Verdict{OverallScore: 80, Sentiment: "positive", Issues: []string{}, Model: "m"}, nil
}

func TestAnalyzePendingSkipsFailures(t *testing.T) {
	repo := &fakeRepo{pending: []dom.Pending{{ThreadID: "T1"}, {ThreadID: "T2"}, {ThreadID: "T3"}}}
	db := &fakeDB{}
	binder := repokit.BindFunc[arepo.Repo](func(repokit.Queryer) arepo.Repo { return repo })
	svc := New(db, binder, fakeScorer{fail: map[string]bool{"T2": true}})

	n, err := svc.AnalyzePending(context.Background(), 10)
	if err != nil {
		t.Fatalf("AnalyzePending: %v", err)
	}
	if n != 2 || repo.limit != 10 {
		t.Fatalf("n = %d limit = %d", n, repo.limit)
	}
	if db.txs != 2 || len(repo.stored) != 2 {
		t.Fatalf("txs = %d stored = %d", db.txs, len(repo.stored))
	}
	if repo.analyzed[0] != "T1" || repo.analyzed[1] != "T3" {
		t.Fatalf("analyzed = %v", repo.analyzed)
	}
	if repo.stored[0].OverallScore != 80 || repo.stored[0].ChatID != "T1" {
		t.Fatalf("stored = %+v", repo.stored[0])
	}
}

func TestAnalyzePendingStopsOnCancel(t *testing.T) {
	repo := &fakeRepo{pending: []dom.Pending{{ThreadID: "T1"}}}
	binder := repokit.BindFunc[arepo.Repo](func(repokit.Queryer) arepo.Repo { return repo })
	svc := New(&fakeDB{}, binder, fakeScorer{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if n, err := svc.AnalyzePending(ctx, 5); n != 0 || !errors.Is(err, context.Canceled) {
		t.Fatalf("got %d, %v", n, err)
	}
}
