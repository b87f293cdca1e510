package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"livetakip/internal/core/thread"
	"livetakip/internal/modkit/repokit"
	perr "livetakip/internal/platform/errors"
	"livetakip/internal/platform/queue"
	"livetakip/internal/platform/store"
	kit "livetakip/internal/platform/testkit"
	dom "livetakip/internal/services/chatsync/domain"
	srepo "livetakip/internal/services/chatsync/repo"
)

var fixedNow = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

// fakeDB satisfies TxRunner; Tx hands itself to fn and counts calls
type fakeDB struct {
	txs   int
	txErr error
}

func (d *fakeDB) Exec(context.Context, string, ...any) (store.CommandTag, error) { return nil, nil }
func (d *fakeDB) Query(context.Context, string, ...any) (store.Rows, error)      { return nil, nil }
func (d *fakeDB) QueryRow(context.Context, string, ...any) store.Row             { return nil }

func (d *fakeDB) Tx(_ context.Context, fn func(q store.RowQuerier) error) error {
	d.txs++
	if d.txErr != nil {
		return d.txErr
	}
	return fn(d)
}

// fakeRepo keeps rows in maps
type fakeRepo struct {
	mu sync.Mutex

	threads   map[thread.ThreadID]thread.Thread
	messages  map[thread.MessageID]thread.Message
	personnel map[string]time.Time
	alerts    []dom.Alert
	jobs      map[string]dom.Job

	upsertErr error
	sentIDs   map[int64]int64
	sendErrs  map[int64]string
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		threads:   map[thread.ThreadID]thread.Thread{},
		messages:  map[thread.MessageID]thread.Message{},
		personnel: map[string]time.Time{},
		jobs:      map[string]dom.Job{},
		sentIDs:   map[int64]int64{},
		sendErrs:  map[int64]string{},
	}
}

func (r *fakeRepo) ThreadState(_ context.Context, id thread.ThreadID) (bool, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	st, ok := r.threads[id]
	return ok, ok && st.Analyzed, nil
}

func (r *fakeRepo) UpsertThread(_ context.Context, t thread.Thread) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.upsertErr != nil {
		return r.upsertErr
	}
	if prev, ok := r.threads[t.ID]; ok {
		t.Analyzed = prev.Analyzed
	}
	r.threads[t.ID] = t
	return nil
}

func (r *fakeRepo) InsertMessages(_ context.Context, msgs []thread.Message) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, m := range msgs {
		if _, ok := r.messages[m.ID]; ok {
			continue
		}
		r.messages[m.ID] = m
		n++
	}
	return n, nil
}

func (r *fakeRepo) TouchPersonnel(_ context.Context, name string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if name == "" {
		return nil
	}
	if _, ok := r.personnel[name]; !ok {
		r.personnel[name] = at
	}
	return nil
}

func (r *fakeRepo) Totals(context.Context) (dom.Totals, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t := dom.Totals{Chats: len(r.threads)}
	for _, st := range r.threads {
		if st.Analyzed {
			t.Analyzed++
		}
	}
	return t, nil
}

func (r *fakeRepo) FindAlert(_ context.Context, chatID thread.ThreadID, alertType string) (dom.Alert, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.alerts {
		if a.ChatID == string(chatID) && a.AlertType == alertType {
			return a, true, nil
		}
	}
	return dom.Alert{}, false, nil
}

func (r *fakeRepo) InsertAlert(_ context.Context, a dom.Alert) (int64, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, x := range r.alerts {
		if x.ChatID == a.ChatID && x.AlertType == a.AlertType {
			return 0, false, nil
		}
	}
	a.ID = int64(len(r.alerts) + 1)
	r.alerts = append(r.alerts, a)
	return a.ID, true, nil
}

func (r *fakeRepo) MarkAlertSent(_ context.Context, id, msgID int64, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sentIDs[id] = msgID
	for i := range r.alerts {
		if r.alerts[i].ID == id {
			r.alerts[i].SentToTelegram = true
			r.alerts[i].TelegramMessageID = &msgID
			r.alerts[i].SentAt = &at
		}
	}
	return nil
}

func (r *fakeRepo) MarkAlertSendError(_ context.Context, id int64, msg string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sendErrs[id] = msg
	return nil
}

func (r *fakeRepo) UndeliveredAlerts(_ context.Context, limit int) ([]dom.Alert, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []dom.Alert
	for _, a := range r.alerts {
		if !a.SentToTelegram && len(out) < limit {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *fakeRepo) InsertJob(_ context.Context, j dom.Job) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	j.Status = dom.JobPending
	r.jobs[j.ID] = j
	return nil
}

func (r *fakeRepo) move(id string, from, to dom.JobStatus, mut func(*dom.Job)) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	j, ok := r.jobs[id]
	if !ok {
		return perr.NotFoundf("job %s not found", id)
	}
	if j.Status != from {
		return perr.Conflictf("job %s is %s, not %s", id, j.Status, from)
	}
	j.Status = to
	mut(&j)
	r.jobs[id] = j
	return nil
}

func (r *fakeRepo) StartJob(_ context.Context, id string, at time.Time) error {
	return r.move(id, dom.JobPending, dom.JobProcessing, func(j *dom.Job) { j.StartedAt = &at })
}

func (r *fakeRepo) CompleteJob(_ context.Context, id string, result []byte, at time.Time) error {
	return r.move(id, dom.JobProcessing, dom.JobCompleted, func(j *dom.Job) {
		j.Result = json.RawMessage(result)
		j.CompletedAt = &at
	})
}

func (r *fakeRepo) FailJob(_ context.Context, id string, msg string, at time.Time) error {
	return r.move(id, dom.JobProcessing, dom.JobFailed, func(j *dom.Job) {
		j.Error = &msg
		j.CompletedAt = &at
	})
}

func (r *fakeRepo) GetJob(_ context.Context, id string) (dom.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	j, ok := r.jobs[id]
	if !ok {
		return dom.Job{}, perr.NotFoundf("job %s not found", id)
	}
	return j, nil
}

func (r *fakeRepo) ListJobs(_ context.Context, limit int) ([]dom.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]dom.Job, 0, len(r.jobs))
	for _, j := range r.jobs {
		out = append(out, j)
	}
	sort.Slice(out, func(i, k int) bool { return out[i].CreatedAt.After(out[k].CreatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeRepo) ActiveJobs(context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, j := range r.jobs {
		if !j.Status.Terminal() {
			n++
		}
	}
	return n, nil
}

func (r *fakeRepo) FailInterrupted(_ context.Context, msg string, at time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for id, j := range r.jobs {
		if j.Status == dom.JobProcessing {
			j.Status = dom.JobFailed
			j.Error = &msg
			j.CompletedAt = &at
			r.jobs[id] = j
			n++
		}
	}
	return n, nil
}

func (r *fakeRepo) PendingJobIDs(context.Context) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var ids []string
	for id, j := range r.jobs {
		if j.Status == dom.JobPending {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

type fakeSource struct {
	containers []thread.RawContainer
	err        error
	calls      int
	windows    []dom.Window
}

func (f *fakeSource) ListChats(_ context.Context, w dom.Window) ([]thread.RawContainer, error) {
	f.calls++
	f.windows = append(f.windows, w)
	return f.containers, f.err
}

type fakeNotifier struct {
	mu    sync.Mutex
	texts []string
	err   error
	next  int64
}

func (f *fakeNotifier) Send(_ context.Context, text string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return 0, f.err
	}
	f.texts = append(f.texts, text)
	f.next++
	return 1000 + f.next, nil
}

type fakeAnalyzer struct {
	n     int
	err   error
	limit int
}

func (f *fakeAnalyzer) AnalyzePending(_ context.Context, limit int) (int, error) {
	f.limit = limit
	return f.n, f.err
}

type fakeSink struct {
	rows int
	err  error
}

func (f *fakeSink) Record(_ context.Context, ts []thread.Thread) error {
	f.rows += len(ts)
	return f.err
}

type harness struct {
	svc      *Svc
	repo     *fakeRepo
	db       *fakeDB
	source   *fakeSource
	notifier *fakeNotifier
	queue    *queue.Memory
}

type option func(*Config)

func newHarness(t *testing.T, opts ...option) *harness {
	t.Helper()
	h := &harness{
		repo:     newFakeRepo(),
		db:       &fakeDB{},
		source:   &fakeSource{},
		notifier: &fakeNotifier{},
		queue:    queue.NewMemory(8),
	}
	ids := 0
	cfg := Config{
		DB:       h.db,
		Binder:   repokit.BindFunc[srepo.Repo](func(repokit.Queryer) srepo.Repo { return h.repo }),
		Source:   h.source,
		Queue:    h.queue,
		Notifier: h.notifier,
		Settings: dom.Settings{APIBaseURL: "http://chat.test", APIKey: "k", BatchSize: 2},
		Now:      func() time.Time { return fixedNow },
		NewID: func() string {
			ids++
			return fmt.Sprintf("job-%d", ids)
		},
	}
	for _, o := range opts {
		o(&cfg)
	}
	h.svc = New(cfg)
	t.Cleanup(func() { _ = h.queue.Close() })
	return h
}

// container builds a raw container; archived and reply control the missed flag
func container(t *testing.T, id string, archived, reply bool) thread.RawContainer {
	t.Helper()
	msgs := []map[string]any{
		{"id": id + "-m1", "type": "message", "text": "Siparişim nerede?", "author_id": "musteri-1", "created_at": "2024-01-01T10:00:00Z"},
	}
	if reply {
		msgs = append(msgs, map[string]any{
			"id": id + "-m2", "type": "message", "text": "Kontrol ediyorum", "author_id": "ayse@firma.com", "created_at": "2024-01-01T10:01:00Z",
		})
	}
	raw := map[string]any{
		"id":            id,
		"agent_name":    "Ayşe",
		"customer_name": "Mehmet",
		"created_at":    "2024-01-01T10:00:00Z",
		"properties": map[string]any{
			"full_chat_data": map[string]any{
				"all_messages":        msgs,
				"last_thread_summary": map[string]any{"id": "T-" + id, "active": !archived},
			},
		},
	}
	var c thread.RawContainer
	if err := json.Unmarshal(kit.MustJSON(t, raw), &c); err != nil {
		t.Fatal(err)
	}
	return c
}

var errBoom = errors.New("boom")
