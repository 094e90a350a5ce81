//go:build integration_pg
// +build integration_pg

package repo

import (
	"context"
	"fmt"
	"testing"
	"time"

	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	perr "classboard/internal/platform/errors"
	"classboard/internal/platform/store"
	"classboard/internal/services/posts/domain"
)

func startPostgres(t *testing.T) (dsn string, stop func()) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)

	req := tc.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "postgres",
			"POSTGRES_PASSWORD": "postgres",
			"POSTGRES_DB":       "postgres",
		},
		WaitingFor: wait.ForAll(
			wait.ForListeningPort("5432/tcp"),
			wait.ForLog("database system is ready to accept connections"),
		).WithDeadline(2 * time.Minute),
	}
	c, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		cancel()
		t.Fatalf("failed to start postgres container: %v", err)
	}

	host, err := c.Host(ctx)
	if err != nil {
		_ = c.Terminate(context.Background())
		cancel()
		t.Fatalf("failed to get container host: %v", err)
	}
	mapped, err := c.MappedPort(ctx, "5432/tcp")
	if err != nil {
		_ = c.Terminate(context.Background())
		cancel()
		t.Fatalf("failed to get mapped port: %v", err)
	}

	dsn = fmt.Sprintf("postgres://postgres:postgres@%s:%s/postgres?sslmode=disable", host, mapped.Port())
	stop = func() {
		_ = c.Terminate(context.Background())
		cancel()
	}
	return dsn, stop
}

const postsDDL = `
CREATE TABLE IF NOT EXISTS posts (
	id            TEXT PRIMARY KEY,
	author        TEXT NOT NULL,
	title         TEXT NOT NULL DEFAULT '',
	body          TEXT NOT NULL DEFAULT '',
	category      TEXT NOT NULL DEFAULT '',
	url           TEXT NOT NULL DEFAULT '',
	participation TEXT NOT NULL DEFAULT 'Unknown',
	homework      INT,
	agent         TEXT NOT NULL DEFAULT 'Unknown',
	comment_count INT NOT NULL DEFAULT 0,
	created_at    TIMESTAMPTZ NOT NULL,
	updated_at    TIMESTAMPTZ NOT NULL
)`

func TestPGStore_Integration(t *testing.T) {
	dsn, stop := startPostgres(t)
	defer stop()

	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	st, err := store.Open(ctx, store.Config{
		AppName: "classboard-pg-integration",
		PG:      store.PGConfig{Enabled: true, URL: dsn},
	})
	if err != nil {
		t.Fatalf("store open: %v", err)
	}
	defer st.Close()

	if _, err := st.PG.Exec(ctx, postsDDL); err != nil {
		t.Fatalf("create posts table: %v", err)
	}

	r := NewPG().Bind(st.PG)
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	one := 1

	p := domain.Post{
		ID: "t1", Author: "ada", Title: "Participation A hw 1",
		Participation: "A", Homework: &one, Agent: "Claude",
		CreatedAt: now, UpdatedAt: now,
	}
	if err := r.Upsert(ctx, p); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	got, err := r.Get(ctx, "t1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Author != "ada" || got.Homework == nil || *got.Homework != 1 {
		t.Fatalf("unexpected post: %+v", got)
	}

	// full replace on conflict
	p.Participation = "B"
	p.Homework = nil
	p.UpdatedAt = now.Add(time.Hour)
	if err := r.Upsert(ctx, p); err != nil {
		t.Fatalf("reupsert: %v", err)
	}
	got, err = r.Get(ctx, "t1")
	if err != nil {
		t.Fatalf("get after reupsert: %v", err)
	}
	if got.Participation != "B" || got.Homework != nil {
		t.Fatalf("stale fields survived upsert: %+v", got)
	}

	two := 2
	if err := r.Upsert(ctx, domain.Post{
		ID: "t2", Author: "bob", Participation: "A", Homework: &two, Agent: "Gemini",
		CreatedAt: now, UpdatedAt: now.Add(2 * time.Hour),
	}); err != nil {
		t.Fatalf("upsert t2: %v", err)
	}

	all, err := r.List(ctx, domain.Filter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 2 || all[0].ID != "t2" {
		t.Fatalf("list order/len wrong: %+v", all)
	}

	byHW, err := r.List(ctx, domain.Filter{Homeworks: []string{"2"}})
	if err != nil {
		t.Fatalf("list by homework: %v", err)
	}
	if len(byHW) != 1 || byHW[0].ID != "t2" {
		t.Fatalf("homework filter wrong: %+v", byHW)
	}

	if _, err := r.Get(ctx, "missing"); !perr.IsCode(err, perr.ErrorCodeNotFound) {
		t.Fatalf("missing id err = %v, want not found", err)
	}
}
