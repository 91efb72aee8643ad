package highlight

import (
	"strings"
	"testing"

	"github.com/framegrace/texelstyle/markup"
	"github.com/framegrace/texelstyle/styled"
)

const goSource = "package main\n\nfunc main() {\n\txs := []int{1, 2}\n\tprintln(xs[0], `raw [x]`)\n}\n"

func TestMarkupRoundTripsText(t *testing.T) {
	text, err := Markup(goSource, Options{Language: "go"})
	if err != nil {
		t.Fatalf("Markup: %v", err)
	}
	if !strings.Contains(text, "[c:r f:") {
		t.Fatalf("no colour directives emitted:\n%s", text)
	}
	p := markup.NewCodeParser(markup.DefaultOptions())
	if diags := p.Check(text); len(diags) != 0 {
		t.Fatalf("generated markup has bad directives: %v", diags)
	}
	if got := p.ParseString(text).Text(); got != goSource {
		t.Fatalf("text changed:\n%q\nwant\n%q", got, goSource)
	}
}

func TestKeywordIsColoured(t *testing.T) {
	s, err := String(goSource, markup.NewCodeParser(markup.DefaultOptions()), Options{Filename: "main.go"})
	if err != nil {
		t.Fatalf("String: %v", err)
	}
	// "package" is a keyword in every chroma style.
	if s.At(0).Foreground == styled.White {
		t.Fatalf("keyword kept the default colour")
	}
	for i := 1; i < len("package"); i++ {
		if s.At(i).Foreground != s.At(0).Foreground {
			t.Fatalf("keyword colour changed at %d", i)
		}
	}
}

func TestEscape(t *testing.T) {
	if got := Escape("a[b]"); got != "a`[b]" {
		t.Fatalf("Escape = %q", got)
	}
	if got := Escape("x`"); got != "x[c:sg 96:1] " {
		t.Fatalf("Escape backtick = %q", got)
	}
	p := markup.NewCodeParser(markup.DefaultOptions())
	src := "`[c:r f:red]`` [x]"
	if got := p.ParseString(Escape(src)).Text(); got != src {
		t.Fatalf("escaped text = %q", got)
	}
}

func TestDetect(t *testing.T) {
	cases := map[string]string{
		"main.go":   "Go",
		"script.py": "Python",
	}
	for file, want := range cases {
		if got := Detect(file, []byte("x = 1\n")); got != want {
			t.Fatalf("Detect(%q) = %q, want %q", file, got, want)
		}
	}
	if got := Detect("blob", []byte{0, 1, 2, 0, 0, 3}); got != "" {
		t.Fatalf("binary content detected as %q", got)
	}
}

func TestUnknownStyleFallsBack(t *testing.T) {
	if _, err := Markup("x := 1", Options{Language: "go", Style: "no-such-style"}); err != nil {
		t.Fatalf("Markup: %v", err)
	}
	fg, _ := BaseColors("")
	if fg == styled.Transparent {
		t.Fatalf("base foreground unset")
	}
}
