package repo

import (
	"context"
	"testing"
	"time"

	perr "classboard/internal/platform/errors"
	"classboard/internal/services/posts/domain"
)

func hw(n int) *int { return &n }

func seedMemory(t *testing.T) *Memory {
	t.Helper()
	m := NewMemory()
	ctx := context.Background()
	base := time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)

	posts := []domain.Post{
		{ID: "t1", Author: "ada", Participation: "A", Homework: hw(1), Agent: "Claude", UpdatedAt: base},
		{ID: "t2", Author: "ada", Participation: "B", Homework: hw(2), Agent: "ChatGPT", UpdatedAt: base.Add(time.Hour)},
		{ID: "t3", Author: "bob", Participation: "A", Homework: hw(1), Agent: "Gemini", UpdatedAt: base.Add(2 * time.Hour)},
		{ID: "t4", Author: "cyd", Participation: "Unknown", Agent: "Unknown", UpdatedAt: base.Add(3 * time.Hour)},
	}
	for _, p := range posts {
		if err := m.Upsert(ctx, p); err != nil {
			t.Fatalf("Upsert(%s): %v", p.ID, err)
		}
	}
	return m
}

func TestMemoryGet(t *testing.T) {
	m := seedMemory(t)
	ctx := context.Background()

	p, err := m.Get(ctx, "t1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if p.Author != "ada" || p.Participation != "A" {
		t.Fatalf("unexpected post: %+v", p)
	}

	_, err = m.Get(ctx, "nope")
	if !perr.IsCode(err, perr.ErrorCodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestMemoryUpsertReplaces(t *testing.T) {
	m := seedMemory(t)
	ctx := context.Background()

	p, _ := m.Get(ctx, "t1")
	p.Participation = "C"
	p.Homework = nil
	if err := m.Upsert(ctx, *p); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	got, _ := m.Get(ctx, "t1")
	if got.Participation != "C" || got.Homework != nil {
		t.Fatalf("stale fields survived upsert: %+v", got)
	}
}

func TestMemoryListFilters(t *testing.T) {
	m := seedMemory(t)
	ctx := context.Background()

	cases := []struct {
		name string
		f    domain.Filter
		want []string
	}{
		{"all newest first", domain.Filter{}, []string{"t4", "t3", "t2", "t1"}},
		{"by student", domain.Filter{Students: []string{"ada"}}, []string{"t2", "t1"}},
		{"by type", domain.Filter{Types: []string{"A"}}, []string{"t3", "t1"}},
		{"by agent multi", domain.Filter{Agents: []string{"Claude", "Gemini"}}, []string{"t3", "t1"}},
		{"by homework", domain.Filter{Homeworks: []string{"1"}}, []string{"t3", "t1"}},
		{"anded", domain.Filter{Students: []string{"ada"}, Homeworks: []string{"1"}}, []string{"t1"}},
		{"no hit", domain.Filter{Students: []string{"zed"}}, nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := m.List(ctx, tc.f)
			if err != nil {
				t.Fatalf("List: %v", err)
			}
			if len(got) != len(tc.want) {
				t.Fatalf("got %d posts, want %d", len(got), len(tc.want))
			}
			for i := range got {
				if got[i].ID != tc.want[i] {
					t.Fatalf("position %d: got %s want %s", i, got[i].ID, tc.want[i])
				}
			}
		})
	}
}

func TestMemoryHomeworkFilterSkipsNil(t *testing.T) {
	m := seedMemory(t)
	got, err := m.List(context.Background(), domain.Filter{Homeworks: []string{"99"}})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected no posts, got %d", len(got))
	}
}
