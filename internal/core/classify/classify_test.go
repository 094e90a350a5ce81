package classify

import (
	"testing"

	"classboard/internal/core/rules"
)

func mustClassifier(t *testing.T) *Classifier {
	t.Helper()
	p, err := rules.Load()
	if err != nil {
		t.Fatalf("rules.Load(): %v", err)
	}
	return New(p)
}

func TestClassifyBasic(t *testing.T) {
	c := mustClassifier(t)

	cases := []struct {
		name     string
		title    string
		body     string
		category string

		wantPart  string
		wantAgent string
		wantHW    int // 0 means none
	}{
		{
			name:      "full triple in title",
			title:     "Participation A HW 3 with Claude",
			wantPart:  "A",
			wantAgent: "Claude",
			wantHW:    3,
		},
		{
			name:      "short forms",
			title:     "pb hw2",
			wantPart:  "B",
			wantAgent: Unknown,
			wantHW:    2,
		},
		{
			name:      "homework longhand in body",
			title:     "my writeup",
			body:      "this covers homework 12 using chatgpt",
			wantPart:  Unknown,
			wantAgent: "ChatGPT",
			wantHW:    12,
		},
		{
			name:      "gpt-4 maps to chatgpt",
			body:      "I asked gpt-4 for hints",
			wantPart:  Unknown,
			wantAgent: "ChatGPT",
		},
		{
			name:      "gpt-3.5 is its own label",
			body:      "gpt 3.5 was enough",
			wantPart:  Unknown,
			wantAgent: "GPT-3.5",
		},
		{
			name:      "nothing matches",
			title:     "question about lecture 4 path finding",
			body:      "why does dijkstra expand that node",
			wantPart:  Unknown,
			wantAgent: Unknown,
		},
		{
			name:      "unicode fullwidth folds",
			title:     "ＰＡＲＴ Ａ ｈｗ ７",
			wantPart:  "A",
			wantAgent: Unknown,
			wantHW:    7,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := c.Classify(tc.title, tc.body, tc.category)
			if got.Participation.Value != tc.wantPart {
				t.Fatalf("participation: got %q want %q", got.Participation.Value, tc.wantPart)
			}
			if got.Agent.Value != tc.wantAgent {
				t.Fatalf("agent: got %q want %q", got.Agent.Value, tc.wantAgent)
			}
			if tc.wantHW == 0 {
				if got.Homework != nil {
					t.Fatalf("homework: got %d want none", *got.Homework)
				}
				if got.HomeworkConfidence != MatchNone {
					t.Fatalf("homework confidence: got %q want %q", got.HomeworkConfidence, MatchNone)
				}
			} else {
				if got.Homework == nil {
					t.Fatalf("homework: got none want %d", tc.wantHW)
				}
				if *got.Homework != tc.wantHW {
					t.Fatalf("homework: got %d want %d", *got.Homework, tc.wantHW)
				}
				if got.HomeworkConfidence != MatchExact {
					t.Fatalf("homework confidence: got %q want %q", got.HomeworkConfidence, MatchExact)
				}
			}
		})
	}
}

func TestClassifyCategorySearchedFirst(t *testing.T) {
	c := mustClassifier(t)

	// The category names participation B; the body mentions participation A.
	// Category text comes first in the search buffer, and within the
	// participation axis tiers the earlier tier (A, priority 0) is checked
	// first, so A only wins if it appears at all. Here both appear; A is the
	// lower priority number so the A rule wins regardless of position
	got := c.Classify("", "actually about participation a", "Participation B")
	if got.Participation.Value != "A" {
		t.Fatalf("participation: got %q want A", got.Participation.Value)
	}

	// With only the category carrying a signal, it is used
	got = c.Classify("question", "no tags here", "Participation C")
	if got.Participation.Value != "C" {
		t.Fatalf("participation: got %q want C", got.Participation.Value)
	}
}

func TestClassifyConfidence(t *testing.T) {
	c := mustClassifier(t)

	got := c.Classify("participation d", "", "")
	if got.Participation.Confidence != MatchExact {
		t.Fatalf("participation confidence: got %q want %q", got.Participation.Confidence, MatchExact)
	}
	if got.Agent.Confidence != MatchNone {
		t.Fatalf("agent confidence: got %q want %q", got.Agent.Confidence, MatchNone)
	}
	if got.Agent.Value != Unknown {
		t.Fatalf("agent value: got %q want %q", got.Agent.Value, Unknown)
	}
}

func TestClassifyFirstHomeworkWins(t *testing.T) {
	c := mustClassifier(t)

	got := c.Classify("hw 2 and later hw 9", "", "")
	if got.Homework == nil || *got.Homework != 2 {
		t.Fatalf("homework: got %v want 2", got.Homework)
	}
}

func TestClassifyDeterministic(t *testing.T) {
	c := mustClassifier(t)

	title := "Part A hw 5 via claude and copilot"
	first := c.Classify(title, "", "")
	for i := 0; i < 10; i++ {
		next := c.Classify(title, "", "")
		if next.Participation != first.Participation || next.Agent != first.Agent {
			t.Fatalf("classification not deterministic: %+v vs %+v", next, first)
		}
		if (next.Homework == nil) != (first.Homework == nil) ||
			(next.Homework != nil && *next.Homework != *first.Homework) {
			t.Fatalf("homework not deterministic")
		}
	}
	if first.Agent.Value != "Claude" {
		t.Fatalf("agent: got %q want Claude", first.Agent.Value)
	}
}
