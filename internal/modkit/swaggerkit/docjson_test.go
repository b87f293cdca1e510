package swaggerkit

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"livetakip/internal/platform/testkit"
)

func serveDoc(t *testing.T) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	rec := httptest.NewRecorder()
	serveDocJSON("/")(rec, httptest.NewRequest(http.MethodGet, "/docs/doc.json", nil))
	var spec map[string]any
	_ = json.Unmarshal(rec.Body.Bytes(), &spec)
	return rec, spec
}

func TestServeDocJSONFillsDefaults(t *testing.T) {
	testkit.Swap(t, &docReader, func() string {
		return `{"openapi":"3.1.0","info":{"title":"x"},"paths":{"/sync":{"get":{"responses":{"200":{"description":"ok"}}}}}}`
	})
	t.Setenv("API_DOCS_TITLE_SUFFIX", "(staging)")

	rec, spec := serveDoc(t)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if spec["openapi"] != "3.0.3" {
		t.Fatalf("openapi = %v", spec["openapi"])
	}
	if spec["info"].(map[string]any)["title"] != "x (staging)" {
		t.Fatalf("title = %v", spec["info"])
	}
	resps := spec["paths"].(map[string]any)["/sync"].(map[string]any)["get"].(map[string]any)["responses"].(map[string]any)
	for _, code := range []string{"200", "400", "500"} {
		if _, ok := resps[code]; !ok {
			t.Fatalf("missing %s response", code)
		}
	}
	schemas := spec["components"].(map[string]any)["schemas"].(map[string]any)
	if _, ok := schemas["ErrorResponse"]; !ok {
		t.Fatalf("ErrorResponse schema missing")
	}
}

func TestServeDocJSONBadDocument(t *testing.T) {
	testkit.Swap(t, &docReader, func() string { return "{" })
	rec, _ := serveDoc(t)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestRegisteredDocumentParses(t *testing.T) {
	var spec map[string]any
	if err := json.Unmarshal([]byte(docReader()), &spec); err != nil {
		t.Fatalf("document is not JSON: %v", err)
	}
	if _, ok := spec["paths"].(map[string]any)["/sync"]; !ok {
		t.Fatalf("/sync not documented")
	}
}
