package httpkit

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	phttp "livetakip/internal/platform/net/http"

	"github.com/go-chi/chi/v5"
)

func tagHeader(v string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Add("X-Mw", v)
			next.ServeHTTP(w, r)
		})
	}
}

func serve(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestMountUnder(t *testing.T) {
	mux := chi.NewRouter()
	r := phttp.AdaptChi(mux)

	MountUnder(r, "/analysis", []func(http.Handler) http.Handler{tagHeader("a")}, func(sub Router) {
		sub.Get("/{id}", Handle(func(r *http.Request) Response { return OK(Param(r, "id")) }))
	})
	MountUnder(r, "", []func(http.Handler) http.Handler{tagHeader("root")}, func(sub Router) {
		sub.Get("/sync", Handle(func(*http.Request) Response { return Raw(http.StatusAccepted, map[string]bool{"success": true}) }))
	})

	rec := serve(t, mux, "/analysis/chat-1")
	if rec.Code != http.StatusOK || rec.Header().Get("X-Mw") != "a" {
		t.Fatalf("prefixed: code=%d mw=%q", rec.Code, rec.Header().Get("X-Mw"))
	}
	var env Envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatal(err)
	}
	if env.Data != "chat-1" {
		t.Fatalf("Data = %#v", env.Data)
	}

	rec = serve(t, mux, "/sync")
	if rec.Code != http.StatusAccepted || rec.Header().Get("X-Mw") != "root" {
		t.Fatalf("root group: code=%d mw=%q", rec.Code, rec.Header().Get("X-Mw"))
	}
	var raw map[string]bool
	if err := json.Unmarshal(rec.Body.Bytes(), &raw); err != nil || !raw["success"] {
		t.Fatalf("raw body = %s", rec.Body.String())
	}
}

type limitQuery struct {
	Limit int `query:"limit" validate:"omitempty,min=1,max=100"`
}

func TestQueryBindsAndRejects(t *testing.T) {
	h := Query(func(_ *http.Request, q limitQuery) Response { return OK(q.Limit) })

	tests := []struct {
		target string
		code   int
	}{
		{"/?limit=5", http.StatusOK},
		{"/", http.StatusOK},
		{"/?limit=500", http.StatusBadRequest},
		{"/?limit=abc", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			if rec := serve(t, h, tt.target); rec.Code != tt.code {
				t.Fatalf("code = %d, want %d (%s)", rec.Code, tt.code, rec.Body.String())
			}
		})
	}
}
