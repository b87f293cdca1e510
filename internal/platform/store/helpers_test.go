package store

import (
	"context"
	"errors"
	"testing"

	perr "livetakip/internal/platform/errors"

	"github.com/jackc/pgx/v5"
)

type fakeTag struct{ n int64 }

func (f fakeTag) String() string      { return "UPDATE" }
func (f fakeTag) RowsAffected() int64 { return f.n }

type fakeRow struct {
	vals []any
	err  error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	for i, d := range dest {
		switch p := d.(type) {
		case *int:
			*p = r.vals[i].(int)
		case *string:
			*p = r.vals[i].(string)
		}
	}
	return nil
}

type fakeRows struct {
	data [][]any
	i    int
}

func (r *fakeRows) Next() bool             { r.i++; return r.i <= len(r.data) }
func (r *fakeRows) Scan(dest ...any) error { return fakeRow{vals: r.data[r.i-1]}.Scan(dest...) }
func (r *fakeRows) Err() error             { return nil }
func (r *fakeRows) Close()                 {}
func (r *fakeRows) Columns() []string      { return nil }

type fakeQ struct {
	tag  fakeTag
	row  fakeRow
	rows *fakeRows
}

func (f fakeQ) Exec(context.Context, string, ...any) (CommandTag, error) { return f.tag, nil }
func (f fakeQ) Query(context.Context, string, ...any) (Rows, error)      { return f.rows, nil }
func (f fakeQ) QueryRow(context.Context, string, ...any) Row             { return f.row }

func TestExecOne(t *testing.T) {
	ctx := context.Background()
	if err := ExecOne(ctx, fakeQ{tag: fakeTag{1}}, "UPDATE"); err != nil {
		t.Fatalf("ExecOne: %v", err)
	}
	if err := ExecOne(ctx, fakeQ{tag: fakeTag{0}}, "UPDATE"); err == nil {
		t.Fatalf("expected error for 0 rows")
	}
}

func TestScalarNoRows(t *testing.T) {
	_, err := Scalar[int](context.Background(), fakeQ{row: fakeRow{err: pgx.ErrNoRows}}, "SELECT")
	if !errors.Is(err, perr.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	n, err := Scalar[int](context.Background(), fakeQ{row: fakeRow{vals: []any{42}}}, "SELECT")
	if err != nil || n != 42 {
		t.Fatalf("Scalar = %d, %v", n, err)
	}
}

func TestMany(t *testing.T) {
	q := fakeQ{rows: &fakeRows{data: [][]any{{"a"}, {"b"}}}}
	got, err := Many(context.Background(), q, func(r Row) (string, error) {
		var s string
		return s, r.Scan(&s)
	}, "SELECT")
	if err != nil || len(got) != 2 || got[1] != "b" {
		t.Fatalf("Many = %v, %v", got, err)
	}
}
