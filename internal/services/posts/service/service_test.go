package service

import (
	"context"
	"reflect"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	perr "classboard/internal/platform/errors"
	"classboard/internal/services/posts/domain"
	"classboard/internal/services/posts/repo"
)

func hw(n int) *int { return &n }

func seeded(t *testing.T) *Service {
	t.Helper()

	mem := repo.NewMemory()
	base := time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)
	posts := []domain.Post{
		{ID: "t1", Author: "ada", Title: "Participation A hw 1", Participation: "A", Homework: hw(1), Agent: "Claude", CreatedAt: base, UpdatedAt: base},
		{ID: "t2", Author: "ada", Title: "part b hw 2", Participation: "B", Homework: hw(2), Agent: "ChatGPT", CreatedAt: base.Add(time.Hour), UpdatedAt: base.Add(time.Hour)},
		{ID: "t3", Author: "bob", Title: "pa hw1 redo", Participation: "A", Homework: hw(1), Agent: "Gemini", CreatedAt: base.Add(2 * time.Hour), UpdatedAt: base.Add(2 * time.Hour)},
		{ID: "t4", Author: "cyd", Title: "general question", Participation: domain.Unknown, Agent: domain.Unknown, CreatedAt: base.Add(3 * time.Hour), UpdatedAt: base.Add(3 * time.Hour)},
		{ID: "t5", Author: "ada", Title: "pa hw 1 resubmission", Participation: "A", Homework: hw(1), Agent: "Claude", CreatedAt: base.Add(4 * time.Hour), UpdatedAt: base.Add(4 * time.Hour)},
	}
	for _, p := range posts {
		if err := mem.Upsert(context.Background(), p); err != nil {
			t.Fatalf("seed upsert %s: %v", p.ID, err)
		}
	}
	return New(mem)
}

func TestStudentsDistinctSorted(t *testing.T) {
	svc := seeded(t)

	got, err := svc.Students(context.Background())
	if err != nil {
		t.Fatalf("students: %v", err)
	}
	want := []string{"ada", "bob", "cyd"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("students = %v, want %v", got, want)
	}
}

func TestHomeworksRollup(t *testing.T) {
	svc := seeded(t)

	got, err := svc.Homeworks(context.Background())
	if err != nil {
		t.Fatalf("homeworks: %v", err)
	}
	want := []domain.HomeworkRollup{
		{Number: 1, Posts: 3, Students: []string{"ada", "bob"}, Agents: []string{"Claude", "Gemini"}},
		{Number: 2, Posts: 1, Students: []string{"ada"}, Agents: []string{"ChatGPT"}},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("homeworks = %+v, want %+v", got, want)
	}
}

func TestAgentsRollupSkipsUnknown(t *testing.T) {
	svc := seeded(t)

	got, err := svc.Agents(context.Background())
	if err != nil {
		t.Fatalf("agents: %v", err)
	}
	want := []domain.AgentRollup{
		{Name: "ChatGPT", Posts: 1, Students: []string{"ada"}, Homeworks: []int{2}},
		{Name: "Claude", Posts: 2, Students: []string{"ada"}, Homeworks: []int{1}},
		{Name: "Gemini", Posts: 1, Students: []string{"bob"}, Homeworks: []int{1}},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("agents = %+v, want %+v", got, want)
	}
}

func TestPostByID(t *testing.T) {
	svc := seeded(t)

	p, err := svc.PostByID(context.Background(), "t2")
	if err != nil {
		t.Fatalf("post by id: %v", err)
	}
	if p.Author != "ada" || p.Participation != "B" {
		t.Fatalf("unexpected post: %+v", p)
	}

	if _, err := svc.PostByID(context.Background(), ""); !perr.IsCode(err, perr.ErrorCodeInvalidArgument) {
		t.Fatalf("empty id err = %v, want invalid argument", err)
	}
	if _, err := svc.PostByID(context.Background(), "nope"); !perr.IsCode(err, perr.ErrorCodeNotFound) {
		t.Fatalf("missing id err = %v, want not found", err)
	}
}

func TestSubmissionLatestWins(t *testing.T) {
	svc := seeded(t)

	sub, err := svc.Submission(context.Background(), "ada", 1, "Claude")
	if err != nil {
		t.Fatalf("submission: %v", err)
	}
	// t1 and t5 both match; t5 was updated later
	if sub.Post.ID != "t5" {
		t.Fatalf("submission post = %s, want t5", sub.Post.ID)
	}
	if sub.Student != "ada" || sub.Homework != 1 || sub.Agent != "Claude" {
		t.Fatalf("submission triple = %+v", sub)
	}
	if sub.Summary == "" {
		t.Fatalf("submission summary is empty")
	}
}

func TestSubmissionErrors(t *testing.T) {
	svc := seeded(t)

	cases := []struct {
		name     string
		student  string
		homework int
		agent    string
		code     perr.ErrorCode
	}{
		{"missing student", "", 1, "Claude", perr.ErrorCodeInvalidArgument},
		{"zero homework", "ada", 0, "Claude", perr.ErrorCodeInvalidArgument},
		{"missing agent", "ada", 1, "", perr.ErrorCodeInvalidArgument},
		{"no match", "bob", 2, "Claude", perr.ErrorCodeNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Submission(context.Background(), tc.student, tc.homework, tc.agent)
			if !perr.IsCode(err, tc.code) {
				t.Fatalf("err = %v, want code %d", err, tc.code)
			}
		})
	}
}

func TestSummarizeTruncatesOnRunes(t *testing.T) {
	long := strings.Repeat("課", 130)
	got := summarize(domain.Post{Title: long})
	if !utf8.ValidString(got) {
		t.Fatalf("summary is not valid utf-8: %q", got)
	}
	if want := strings.Repeat("課", 117) + "..."; got != want {
		t.Fatalf("summary = %d runes, want 120", utf8.RuneCountInString(got))
	}
	if got := summarize(domain.Post{Title: "short title"}); got != "short title" {
		t.Fatalf("short title changed: %q", got)
	}
	if got := summarize(domain.Post{}); got != "(untitled)" {
		t.Fatalf("empty title summary = %q", got)
	}
}
