package strings

import (
	"reflect"
	"testing"

	"classboard/internal/platform/testkit"
)

func TestIfEmpty(t *testing.T) {
	def := []string{"a"}
	if got := IfEmpty(nil, def); !reflect.DeepEqual(got, def) {
		t.Fatalf("IfEmpty(nil) = %v", got)
	}
	in := []string{"x", "y"}
	if got := IfEmpty(in, def); !reflect.DeepEqual(got, in) {
		t.Fatalf("IfEmpty(in) = %v", got)
	}
}

func TestMustStringAndPrefix(t *testing.T) {
	if got := MustString("ok", "name"); got != "ok" {
		t.Fatalf("MustString = %q", got)
	}
	testkit.MustPanic(t, func() { MustString("   ", "name") })

	cases := []struct{ in, want string }{
		{"portal", "/portal"},
		{"/portal/", "/portal"},
		{"  /meta ", "/meta"},
	}
	for _, c := range cases {
		if got := MustPrefix(c.in); got != c.want {
			t.Fatalf("MustPrefix(%q) = %q, want %q", c.in, got, c.want)
		}
	}
	testkit.MustPanic(t, func() { MustPrefix(" / ") })
}

func TestPtrDerefSQLNull(t *testing.T) {
	if Ptr("") != nil {
		t.Fatalf("Ptr(empty) should be nil")
	}
	p := Ptr("v")
	if p == nil || *p != "v" {
		t.Fatalf("Ptr = %v", p)
	}
	if Deref(nil) != "" || Deref(p) != "v" {
		t.Fatalf("Deref wrong")
	}
	if SQLNull("  ") != nil {
		t.Fatalf("SQLNull(blank) should be nil")
	}
	if SQLNull("x") != "x" {
		t.Fatalf("SQLNull(x) wrong")
	}
}

func TestSplitCSV(t *testing.T) {
	cases := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{"  ", nil},
		{"a", []string{"a"}},
		{"a,b", []string{"a", "b"}},
		{" a , b ,, c ", []string{"a", "b", "c"}},
	}
	for _, c := range cases {
		if got := SplitCSV(c.in); !reflect.DeepEqual(got, c.want) {
			t.Fatalf("SplitCSV(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}
