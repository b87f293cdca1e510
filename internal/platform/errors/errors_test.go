package errors

import (
	stderrs "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestHTTPStatusCode(t *testing.T) {
	cases := []struct {
		code ErrorCode
		want int
	}{
		{ErrorCodeNotFound, http.StatusNotFound},
		{ErrorCodeValidation, http.StatusBadRequest},
		{ErrorCodeConflict, http.StatusConflict},
		{ErrorCodeUpstream, http.StatusBadGateway},
		{ErrorCodeUnavailable, http.StatusServiceUnavailable},
		{ErrorCodeConfig, http.StatusInternalServerError},
		{ErrorCodeDB, http.StatusInternalServerError},
	}
	for _, c := range cases {
		if got := HTTPStatusCode(c.code); got != c.want {
			t.Fatalf("HTTPStatusCode(%s) = %d, want %d", c.code, got, c.want)
		}
	}
}

func TestWrapKeepsCauseAndCode(t *testing.T) {
	cause := stderrs.New("dial tcp: refused")
	err := fmt.Errorf("page 3: %w", Wrap(cause, ErrorCodeUnavailable, "chat api"))

	if !IsCode(err, ErrorCodeUnavailable) {
		t.Fatalf("code = %s", CodeOf(err))
	}
	if !stderrs.Is(err, cause) {
		t.Fatalf("cause lost")
	}
	w := WireFrom(err)
	if w.Code != "unavailable" || w.Message != "chat api: dial tcp: refused" {
		t.Fatalf("wire = %#v", w)
	}
}

func TestWireFromForeign(t *testing.T) {
	w := WireFrom(stderrs.New("boom"))
	if w.Code != "unknown" || w.Message != "boom" {
		t.Fatalf("wire = %#v", w)
	}
	if (WireFrom(nil) != Wire{}) {
		t.Fatalf("nil should map to zero wire")
	}
}

func TestWithField(t *testing.T) {
	err := WithField(InvalidArgf("bad date"), "start_date")
	e, ok := As(err)
	if !ok || e.Field() != "start_date" {
		t.Fatalf("field not attached: %#v", err)
	}
}

func TestFromPostgres(t *testing.T) {
	if FromPostgres(nil, "x") != nil {
		t.Fatalf("nil should stay nil")
	}
	dup := &pgconn.PgError{Code: "23505"}
	err := FromPostgres(dup, "insert alert")
	if !IsCode(err, ErrorCodeDuplicateKey) {
		t.Fatalf("duplicate not mapped: %v", err)
	}
	if !IsCode(FromPostgres(stderrs.New("conn reset"), "q"), ErrorCodeDB) {
		t.Fatalf("plain error should map to db")
	}
	if !stderrs.Is(FromPostgres(ErrNotFound, "q"), ErrNotFound) {
		t.Fatalf("not found should pass through")
	}
}
