package errors

import (
	stderrs "errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func pg(code string) *pgconn.PgError {
	return &pgconn.PgError{Code: code}
}

func TestDBErrorCodeMappings(t *testing.T) {
	cases := []struct {
		code string
		want ErrorCode
	}{
		{"23505", ErrorCodeDuplicateKey},    // unique violation
		{"23503", ErrorCodeInvalidArgument}, // fk violation -> invalid input
		{"23502", ErrorCodeValidation},      // not null
		{"23514", ErrorCodeValidation},      // check
		{"22001", ErrorCodeInvalidArgument}, // string truncation
		{"22P02", ErrorCodeInvalidArgument}, // invalid text representation
		{"40001", ErrorCodeDB},              // serialization failure (retryable) mapped to DB
		{"40P01", ErrorCodeDB},              // deadlock
		{"55P03", ErrorCodeDB},              // lock not available
		{"25006", ErrorCodeUnavailable},     // read-only
		{"57P03", ErrorCodeUnavailable},     // cannot connect now
		{"XXXXX", ErrorCodeDB},              // default branch
	}
	for _, c := range cases {
		got, ok := DBErrorCode(pg(c.code))
		if !ok {
			t.Fatalf("expected ok for PgError code %s", c.code)
		}
		if got != c.want {
			t.Fatalf("DBErrorCode(%s) = %v, want %v", c.code, got, c.want)
		}
	}

	// Non-pg error path
	if _, ok := DBErrorCode(stderrs.New("nope")); ok {
		t.Fatalf("DBErrorCode should return ok=false for non-pg error")
	}
}

func TestFromPostgresVariants(t *testing.T) {
	// nil passthrough
	if FromPostgres(nil, "x") != nil {
		t.Fatalf("FromPostgres(nil) should be nil")
	}
	if FromPostgresf(nil, "x %d", 1) != nil {
		t.Fatalf("FromPostgresf(nil) should be nil")
	}

	// pg error gets the mapped code and keeps the message
	err := FromPostgres(pg("23505"), "upsert post")
	if !IsCode(err, ErrorCodeDuplicateKey) {
		t.Fatalf("FromPostgres code = %v", CodeOf(err))
	}
	if e, ok := As(err); !ok || e.Error() == "" {
		t.Fatalf("FromPostgres lost message: %v", err)
	}

	// foreign error still wraps as DB
	err = FromPostgres(stderrs.New("boom"), "list posts")
	if !IsCode(err, ErrorCodeDB) {
		t.Fatalf("FromPostgres foreign code = %v", CodeOf(err))
	}
}

func TestSQLStateHelpers(t *testing.T) {
	if !IsDuplicateKey(pg("23505")) || IsDuplicateKey(pg("23503")) {
		t.Fatalf("IsDuplicateKey wrong")
	}
	if !IsForeignKeyViolation(pg("23503")) {
		t.Fatalf("IsForeignKeyViolation wrong")
	}
	if !IsSerializationFailure(pg("40001")) || !IsDeadlock(pg("40P01")) {
		t.Fatalf("serialization/deadlock helpers wrong")
	}
}

func TestIsRetryable(t *testing.T) {
	if !IsRetryable(pg("40001")) || !IsRetryable(pg("40P01")) {
		t.Fatalf("contention states should be retryable")
	}
	if IsRetryable(pg("23505")) {
		t.Fatalf("duplicate key is not retryable")
	}
	if IsRetryable(nil) {
		t.Fatalf("nil is not retryable")
	}
	// wrapped errors unwrap to the root pg error
	if !IsRetryable(FromPostgres(pg("40P01"), "tx")) {
		t.Fatalf("wrapped deadlock should be retryable")
	}
}
