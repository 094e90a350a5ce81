package store

import (
	"context"
	"errors"
	"testing"

	perr "classboard/internal/platform/errors"
)

// fakeTag implements CommandTag
type fakeTag string

func (t fakeTag) String() string { return string(t) }
func (t fakeTag) RowsAffected() int64 {
	if t == "INSERT 0 1" || t == "UPDATE 1" {
		return 1
	}
	return 0
}

// fakeRows serves canned single-column string rows
type fakeRows struct {
	vals []string
	idx  int
	err  error
}

func (r *fakeRows) Next() bool { return r.idx < len(r.vals) }
func (r *fakeRows) Scan(dest ...any) error {
	if len(dest) != 1 {
		return errors.New("fakeRows wants exactly one dest")
	}
	p, ok := dest[0].(*string)
	if !ok {
		return errors.New("fakeRows scans strings only")
	}
	*p = r.vals[r.idx]
	r.idx++
	return nil
}
func (r *fakeRows) Err() error        { return r.err }
func (r *fakeRows) Close()            {}
func (r *fakeRows) Columns() []string { return []string{"v"} }

// fakeQuerier returns the configured rows/tag for any statement
type fakeQuerier struct {
	rows *fakeRows
	tag  fakeTag
	err  error
}

func (q *fakeQuerier) Exec(context.Context, string, ...any) (CommandTag, error) {
	return q.tag, q.err
}

func (q *fakeQuerier) Query(context.Context, string, ...any) (Rows, error) {
	if q.err != nil {
		return nil, q.err
	}
	return q.rows, nil
}

func (q *fakeQuerier) QueryRow(context.Context, string, ...any) Row {
	return &rowFromRows{rows: q.rows}
}

func scanString(r Row) (string, error) {
	var s string
	err := r.Scan(&s)
	return s, err
}

func TestExecOne(t *testing.T) {
	q := &fakeQuerier{tag: "INSERT 0 1"}
	if err := ExecOne(context.Background(), q, "INSERT"); err != nil {
		t.Fatalf("ExecOne: %v", err)
	}

	q.tag = "UPDATE 0"
	if err := ExecOne(context.Background(), q, "UPDATE"); err == nil {
		t.Fatalf("ExecOne should fail on zero rows")
	}

	q.err = errors.New("boom")
	if err := ExecOne(context.Background(), q, "X"); err == nil {
		t.Fatalf("ExecOne should surface exec error")
	}
}

func TestOne(t *testing.T) {
	q := &fakeQuerier{rows: &fakeRows{vals: []string{"a"}}}
	got, err := One(context.Background(), q, scanString, "SELECT")
	if err != nil || got != "a" {
		t.Fatalf("One = %q, %v", got, err)
	}

	// empty result maps to not found
	q.rows = &fakeRows{}
	if _, err := One(context.Background(), q, scanString, "SELECT"); !perr.IsCode(err, perr.ErrorCodeNotFound) {
		t.Fatalf("One empty err = %v, want not found", err)
	}

	// more than one row is a programming error
	q.rows = &fakeRows{vals: []string{"a", "b"}}
	if _, err := One(context.Background(), q, scanString, "SELECT"); err == nil {
		t.Fatalf("One should fail on multiple rows")
	}
}

func TestMany(t *testing.T) {
	q := &fakeQuerier{rows: &fakeRows{vals: []string{"a", "b", "c"}}}
	got, err := Many(context.Background(), q, scanString, "SELECT")
	if err != nil {
		t.Fatalf("Many: %v", err)
	}
	if len(got) != 3 || got[0] != "a" || got[2] != "c" {
		t.Fatalf("Many = %v", got)
	}

	q.rows = &fakeRows{}
	got, err = Many(context.Background(), q, scanString, "SELECT")
	if err != nil || got != nil {
		t.Fatalf("Many empty = %v, %v", got, err)
	}
}

func TestScalar(t *testing.T) {
	q := &fakeQuerier{rows: &fakeRows{vals: []string{"42"}}}
	got, err := Scalar[string](context.Background(), q, "SELECT")
	if err != nil || got != "42" {
		t.Fatalf("Scalar = %q, %v", got, err)
	}
}
