package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"classboard/internal/core/classify"
	"classboard/internal/core/rules"
	perr "classboard/internal/platform/errors"
	auditdom "classboard/internal/services/audit/domain"
	"classboard/internal/services/ingest/domain"
	posts "classboard/internal/services/posts/domain"
	"classboard/internal/services/posts/repo"
)

type captureRecorder struct {
	mu      sync.Mutex
	entries []auditdom.Entry
}

func (c *captureRecorder) Record(_ context.Context, e auditdom.Entry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = append(c.entries, e)
}

func (c *captureRecorder) last(t *testing.T) auditdom.Entry {
	t.Helper()
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.entries) == 0 {
		t.Fatalf("no audit entries recorded")
	}
	return c.entries[len(c.entries)-1]
}

func newPipeline(t *testing.T) (*Pipeline, *repo.Memory, *captureRecorder) {
	t.Helper()
	pack, err := rules.Load()
	if err != nil {
		t.Fatalf("load rules: %v", err)
	}
	mem := repo.NewMemory()
	rec := &captureRecorder{}
	p := New(mem, classify.New(pack), rec, zerolog.Nop())
	return p, mem, rec
}

func TestIngestThreadCreated(t *testing.T) {
	p, mem, rec := newPipeline(t)
	ctx := context.Background()

	ts := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)
	got, err := p.Ingest(ctx, domain.RawEvent{
		Kind: domain.ThreadCreated, ID: "t1", Author: "ada",
		Title: "Participation A submission", Body: "used claude for hw 3",
		URL:  "https://edstem.org/courses/1/discussion/1",
		Timestamp: ts,
	})
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}
	if got.Participation != "A" || got.Agent != "Claude" {
		t.Fatalf("classification wrong: %+v", got)
	}
	if got.URL != "https://edstem.org/courses/1/discussion/1" {
		t.Fatalf("url not carried: %q", got.URL)
	}
	if got.Homework == nil || *got.Homework != 3 {
		t.Fatalf("homework wrong: %+v", got.Homework)
	}
	if !got.CreatedAt.Equal(ts) || !got.UpdatedAt.Equal(ts) {
		t.Fatalf("timestamps wrong: %+v", got)
	}

	stored, err := mem.Get(ctx, "t1")
	if err != nil {
		t.Fatalf("get stored: %v", err)
	}
	if stored.Participation != "A" {
		t.Fatalf("stored post not classified: %+v", stored)
	}
	if e := rec.last(t); e.Outcome != auditdom.OutcomeCreated || e.Agent != "Claude" || e.Homework != 3 {
		t.Fatalf("audit entry wrong: %+v", e)
	}
}

func TestIngestThreadUpdatedReclassifies(t *testing.T) {
	p, _, rec := newPipeline(t)
	ctx := context.Background()

	t0 := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)
	if _, err := p.Ingest(ctx, domain.RawEvent{
		Kind: domain.ThreadCreated, ID: "t1", Author: "ada",
		Title: "part a hw 1", URL: "https://edstem.org/courses/1/discussion/1",
		Timestamp: t0,
	}); err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := p.Ingest(ctx, domain.RawEvent{
		Kind: domain.ThreadUpdated, ID: "t1", Author: "ada",
		Title: "part b hw 2 with chatgpt", Timestamp: t0.Add(time.Hour),
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if got.Participation != "B" || got.Agent != "ChatGPT" || got.Homework == nil || *got.Homework != 2 {
		t.Fatalf("reclassification wrong: %+v", got)
	}
	if !got.CreatedAt.Equal(t0) {
		t.Fatalf("creation time lost on update: %v", got.CreatedAt)
	}
	if got.URL != "https://edstem.org/courses/1/discussion/1" {
		t.Fatalf("url lost on update without one: %q", got.URL)
	}
	if !got.UpdatedAt.Equal(t0.Add(time.Hour)) {
		t.Fatalf("update time wrong: %v", got.UpdatedAt)
	}
	if e := rec.last(t); e.Outcome != auditdom.OutcomeUpdated {
		t.Fatalf("audit outcome = %s, want updated", e.Outcome)
	}
}

func TestIngestUpdateForUnseenPromotedToCreate(t *testing.T) {
	p, _, rec := newPipeline(t)

	got, err := p.Ingest(context.Background(), domain.RawEvent{
		Kind: domain.ThreadUpdated, ID: "t9", Author: "bob", Title: "pa hw 4",
	})
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}
	if got == nil || got.Participation != "A" {
		t.Fatalf("promoted create wrong: %+v", got)
	}
	if e := rec.last(t); e.Outcome != auditdom.OutcomeCreated {
		t.Fatalf("audit outcome = %s, want created", e.Outcome)
	}
}

func TestIngestCommentBumpsCountOnly(t *testing.T) {
	p, _, rec := newPipeline(t)
	ctx := context.Background()

	t0 := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)
	if _, err := p.Ingest(ctx, domain.RawEvent{
		Kind: domain.ThreadCreated, ID: "t1", Author: "ada",
		Title: "part a hw 1 with claude", Timestamp: t0,
	}); err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := p.Ingest(ctx, domain.RawEvent{
		Kind: domain.CommentAdded, ID: "c1", ParentID: "t1",
		Body: "switch to gpt-4 for hw 9", Timestamp: t0.Add(time.Hour),
	})
	if err != nil {
		t.Fatalf("comment: %v", err)
	}
	if got.CommentCount != 1 {
		t.Fatalf("comment count = %d, want 1", got.CommentCount)
	}
	// comment text never reclassifies the thread
	if got.Participation != "A" || got.Agent != "Claude" || *got.Homework != 1 {
		t.Fatalf("comment changed classification: %+v", got)
	}
	if !got.UpdatedAt.Equal(t0.Add(time.Hour)) {
		t.Fatalf("update time not refreshed: %v", got.UpdatedAt)
	}
	if e := rec.last(t); e.Outcome != auditdom.OutcomeComment || e.PostID != "t1" {
		t.Fatalf("audit entry wrong: %+v", e)
	}
}

func TestIngestOrphanCommentDropped(t *testing.T) {
	p, mem, rec := newPipeline(t)

	got, err := p.Ingest(context.Background(), domain.RawEvent{
		Kind: domain.CommentAdded, ID: "c1", ParentID: "ghost",
	})
	if err != nil {
		t.Fatalf("orphan comment should not error, got %v", err)
	}
	if got != nil {
		t.Fatalf("orphan comment returned a post: %+v", got)
	}
	if all, _ := mem.List(context.Background(), posts.Filter{}); len(all) != 0 {
		t.Fatalf("orphan comment touched the store: %+v", all)
	}
	if e := rec.last(t); e.Outcome != auditdom.OutcomeOrphan {
		t.Fatalf("audit outcome = %s, want orphan_dropped", e.Outcome)
	}
}

func TestIngestMalformedEvents(t *testing.T) {
	p, _, _ := newPipeline(t)

	cases := []struct {
		name string
		ev   domain.RawEvent
	}{
		{"no id", domain.RawEvent{Kind: domain.ThreadCreated, Author: "ada"}},
		{"thread without author", domain.RawEvent{Kind: domain.ThreadCreated, ID: "t1"}},
		{"comment without parent", domain.RawEvent{Kind: domain.CommentAdded, ID: "c1"}},
		{"unknown kind", domain.RawEvent{Kind: "thread_deleted", ID: "t1"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := p.Ingest(context.Background(), tc.ev)
			if !perr.IsCode(err, perr.ErrorCodeMalformedEvent) {
				t.Fatalf("err = %v, want malformed event", err)
			}
		})
	}
}

func TestIngestIdenticalEventIdempotent(t *testing.T) {
	p, _, _ := newPipeline(t)
	ctx := context.Background()

	ev := domain.RawEvent{
		Kind: domain.ThreadCreated, ID: "t1", Author: "ada",
		Title: "part c hw 5 with gemini",
		Timestamp: time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC),
	}
	first, err := p.Ingest(ctx, ev)
	if err != nil {
		t.Fatalf("first ingest: %v", err)
	}
	second, err := p.Ingest(ctx, ev)
	if err != nil {
		t.Fatalf("second ingest: %v", err)
	}
	if first.Participation != second.Participation ||
		first.Agent != second.Agent ||
		*first.Homework != *second.Homework ||
		first.CommentCount != second.CommentCount {
		t.Fatalf("repeat ingest diverged: %+v vs %+v", first, second)
	}
}

func TestIngestConcurrentCommentsOnOneThread(t *testing.T) {
	p, _, _ := newPipeline(t)
	ctx := context.Background()

	if _, err := p.Ingest(ctx, domain.RawEvent{
		Kind: domain.ThreadCreated, ID: "t1", Author: "ada", Title: "pa hw 1",
	}); err != nil {
		t.Fatalf("create: %v", err)
	}

	const n = 16
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			_, _ = p.Ingest(ctx, domain.RawEvent{
				Kind: domain.CommentAdded, ID: "c", ParentID: "t1",
			})
		}()
	}
	wg.Wait()

	got, err := p.store.Get(ctx, "t1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.CommentCount != n {
		t.Fatalf("comment count = %d, want %d", got.CommentCount, n)
	}
}
