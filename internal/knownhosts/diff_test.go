package knownhosts

import "testing"

func TestDiff(t *testing.T) {
	got := Diff("a t k\nb t k\n", "b t k\nc t k\n")
	want := "- a t k\n  b t k\n+ c t k\n"
	if got != want {
		t.Fatalf("unexpected diff:\n got %q\nwant %q", got, want)
	}
}

func TestDiff_NoChange(t *testing.T) {
	if got := Diff("a t k\n", "a t k\n"); got != "  a t k\n" {
		t.Fatalf("unexpected diff: %q", got)
	}
}
