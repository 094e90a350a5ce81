package normalize

import "testing"

func TestNormalize(t *testing.T) {
	n := New()

	cases := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"lowercases", "Participation A", "participation a"},
		{"collapses spaces", "part   a\t\thw  3", "part a hw 3"},
		{"preserves single newline", "title\n\nbody", "title\nbody"},
		{"fullwidth folds", "ｈｗ ３", "hw 3"},
		{"strips zero width", "pa‍rt a", "part a"},
		{"strips combining marks", "café", "cafe"},
		{"trims edges", "  hello  ", "hello"},
		{"repairs invalid utf8", "ok\xffgo", "okgo"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := n.Normalize(tc.in); got != tc.want {
				t.Fatalf("Normalize(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	n := New()
	in := "Ｐａｒｔ Ｂ  ＨＷ  ４ with Ｃｌａｕｄｅ​!"
	once := n.Normalize(in)
	twice := n.Normalize(once)
	if once != twice {
		t.Fatalf("not idempotent: %q vs %q", once, twice)
	}
}

func TestNormalizeConcurrent(t *testing.T) {
	n := New()
	done := make(chan struct{})
	for i := 0; i < 8; i++ {
		go func() {
			defer func() { done <- struct{}{} }()
			for j := 0; j < 200; j++ {
				if got := n.Normalize("Part A HW 1"); got != "part a hw 1" {
					t.Errorf("got %q", got)
					return
				}
			}
		}()
	}
	for i := 0; i < 8; i++ {
		<-done
	}
}
