package render

import (
	"strings"
	"testing"

	"github.com/mattn/go-runewidth"
	"pgregory.net/rapid"
)

func TestFitToWidth(t *testing.T) {
	cases := []struct {
		s    string
		w    int
		want string
	}{
		{"short", 10, "short"},
		{"exactly-10", 10, "exactly-10"},
		{"this is far too long", 10, "this is..."},
		{"abcdef", 3, "abc"},
		{"anything", 0, ""},
		{"", 10, ""},
	}
	for _, c := range cases {
		if got := FitToWidth(c.s, c.w); got != c.want {
			t.Errorf("FitToWidth(%q, %d) = %q, want %q", c.s, c.w, got, c.want)
		}
	}
}

func TestFitToWidthWideRunes(t *testing.T) {
	// each CJK rune is two columns wide
	got := FitToWidth("日本語のテキストです", 10)
	if w := runewidth.StringWidth(got); w > 10 {
		t.Fatalf("width = %d, want <= 10 (%q)", w, got)
	}
	if !strings.HasSuffix(got, ellipsis) {
		t.Fatalf("expected ellipsis suffix: %q", got)
	}
}

func TestPadToWidth(t *testing.T) {
	if got := PadToWidth("ab", 5); got != "ab   " {
		t.Fatalf("got %q", got)
	}
	if got := PadToWidth("abcdef", 5); got != "abcdef" {
		t.Fatalf("over-wide input must pass through, got %q", got)
	}
	if got := PadToWidth("日本", 6); got != "日本  " {
		t.Fatalf("got %q", got)
	}
}

func TestFitToWidthNeverExceeds(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		s := rapid.String().Draw(t, "s")
		w := rapid.IntRange(1, 60).Draw(t, "w")

		got := FitToWidth(s, w)
		if rw := runewidth.StringWidth(got); rw > w {
			t.Fatalf("FitToWidth(%q, %d) has width %d", s, w, rw)
		}
	})
}
