// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package styled

import (
	"errors"
	"testing"

	"github.com/gdamore/tcell/v2"
)

func TestParseColorForms(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		want  Color
		keepG bool
		def   bool
	}{
		{name: "rgb", in: "255,0,0", want: Color{255, 0, 0, 255}},
		{name: "rgba", in: "1,2,3,4", want: Color{1, 2, 3, 4}},
		{name: "keep green", in: "10,x,30", want: Color{10, 0, 30, 255}, keepG: true},
		{name: "named", in: "Red", want: Color{255, 0, 0, 255}},
		{name: "hex", in: "#102030", want: Color{0x10, 0x20, 0x30, 255}},
		{name: "transparent", in: "transparent", want: Transparent},
		{name: "default", in: "default", def: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := ParseColor(tt.in)
			if err != nil {
				t.Fatalf("ParseColor(%q): %v", tt.in, err)
			}
			if p.UseDefault != tt.def {
				t.Fatalf("UseDefault = %v, want %v", p.UseDefault, tt.def)
			}
			if tt.def {
				return
			}
			if p.Color != tt.want {
				t.Errorf("color = %v, want %v", p.Color, tt.want)
			}
			if p.KeepG != tt.keepG {
				t.Errorf("KeepG = %v, want %v", p.KeepG, tt.keepG)
			}
		})
	}
}

func TestParseColorRejectsGarbage(t *testing.T) {
	for _, in := range []string{"", "nosuchcolor", "1,2", "300,0,0", "a,b,c", "1,2,3,4,5"} {
		if _, err := ParseColor(in); !errors.Is(err, ErrBadColor) {
			t.Errorf("ParseColor(%q) err = %v, want ErrBadColor", in, err)
		}
	}
}

func TestResolveHonoursKeepFlags(t *testing.T) {
	p, err := ParseColor("x,200,x,x")
	if err != nil {
		t.Fatal(err)
	}
	got := p.Resolve(Color{1, 2, 3, 4})
	if want := (Color{1, 200, 3, 4}); got != want {
		t.Fatalf("Resolve = %v, want %v", got, want)
	}
}

func TestRegisterColorOverridesNames(t *testing.T) {
	RegisterColor("Brand", Color{9, 8, 7, 255})
	c, ok := LookupColor("brand")
	if !ok || c != (Color{9, 8, 7, 255}) {
		t.Fatalf("LookupColor(brand) = %v, %v", c, ok)
	}
}

func TestTCellRoundTrip(t *testing.T) {
	c := Color{12, 34, 56, 255}
	if got := FromTCell(c.TCell()); got != c {
		t.Fatalf("round trip = %v, want %v", got, c)
	}
	if Transparent.TCell() != tcell.ColorDefault {
		t.Fatalf("transparent should map to the default color")
	}
}

func TestParseMirror(t *testing.T) {
	cases := map[string]Mirror{
		"none":     MirrorNone,
		"H":        MirrorHorizontal,
		"vertical": MirrorVertical,
		"hv":       MirrorHorizontal | MirrorVertical,
		"3":        MirrorHorizontal | MirrorVertical,
		"1":        MirrorHorizontal,
	}
	for in, want := range cases {
		got, err := ParseMirror(in)
		if err != nil || got != want {
			t.Errorf("ParseMirror(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
	if _, err := ParseMirror("sideways"); err == nil {
		t.Fatalf("expected error for unknown mirror")
	}
	if _, err := ParseMirror("4"); err == nil {
		t.Fatalf("expected error for out of range mirror")
	}
}

func TestAddDecoratorDeduplicates(t *testing.T) {
	c := NewCell('a')
	d := Decorator{Color: White, Glyph: '_'}
	if !c.AddDecorator(d) {
		t.Fatalf("first add should succeed")
	}
	if c.AddDecorator(d) {
		t.Fatalf("second add should be rejected")
	}
	if len(c.Decorators) != 1 {
		t.Fatalf("decorators = %d, want 1", len(c.Decorators))
	}
	if !c.RemoveDecorator(d) || len(c.Decorators) != 0 {
		t.Fatalf("remove failed: %v", c.Decorators)
	}
}

func TestStringIsImmutable(t *testing.T) {
	src := []Cell{NewCell('a')}
	src[0].Decorators = []Decorator{{Glyph: '_'}}
	s := NewString(src)
	src[0].Glyph = 'z'
	src[0].Decorators[0].Glyph = '-'

	got := s.At(0)
	if got.Glyph != 'a' || got.Decorators[0].Glyph != '_' {
		t.Fatalf("string shares storage with its input: %+v", got)
	}
	got.Decorators[0].Glyph = '!'
	if s.At(0).Decorators[0].Glyph != '_' {
		t.Fatalf("At leaks internal storage")
	}
}

func TestStringTextWidthSub(t *testing.T) {
	s := Plain("ab世")
	if s.Text() != "ab世" {
		t.Fatalf("Text = %q", s.Text())
	}
	if s.Width() != 4 {
		t.Fatalf("Width = %d, want 4", s.Width())
	}
	if sub := s.Sub(1, 5); sub.Text() != "b世" {
		t.Fatalf("Sub = %q", sub.Text())
	}
	joined := Concat(Plain("x"), s)
	if joined.Text() != "xab世" || !joined.IgnoreDecorators {
		t.Fatalf("Concat = %q ignore=%v", joined.Text(), joined.IgnoreDecorators)
	}
}

func TestGradientRampMatchesAt(t *testing.T) {
	g := NewGradient(Color{255, 0, 0, 255}, Color{0, 255, 0, 255}, Color{0, 0, 255, 255})
	ramp := g.Ramp(10)
	if len(ramp) != 10 {
		t.Fatalf("ramp len = %d", len(ramp))
	}
	for k, c := range ramp {
		if want := g.At(float64(k) / 9); c != want {
			t.Errorf("ramp[%d] = %v, want %v", k, c, want)
		}
	}
	if ramp[0] != (Color{255, 0, 0, 255}) || ramp[9] != (Color{0, 0, 255, 255}) {
		t.Fatalf("ramp endpoints = %v .. %v", ramp[0], ramp[9])
	}
	if g.At(0.5) != (Color{0, 255, 0, 255}) {
		t.Fatalf("midpoint = %v, want green", g.At(0.5))
	}
}

func TestGradientSingleColor(t *testing.T) {
	g := NewGradient(White)
	for _, c := range g.Ramp(3) {
		if c != White {
			t.Fatalf("flat gradient produced %v", c)
		}
	}
	if NewGradient() != nil {
		t.Fatalf("empty gradient should be nil")
	}
}

func TestGradientStopsAreCopied(t *testing.T) {
	colors := []Color{Black, White}
	g := NewGradient(colors...)
	colors[0] = White
	stops := g.Stops()
	if len(stops) != 2 || stops[0] != Black || stops[1] != White {
		t.Fatalf("stops = %v", stops)
	}
	stops[1] = Black
	if g.Stops()[1] != White {
		t.Fatalf("Stops exposed internal storage")
	}
	if got := NewGradient(Black).Stops(); len(got) != 2 || got[0] != got[1] {
		t.Fatalf("single color stops = %v", got)
	}
}

func TestFromGradient(t *testing.T) {
	g := NewGradient(Color{255, 0, 0, 255}, Color{0, 0, 255, 255})
	s := FromGradient(g, "héllo")
	if s.Text() != "héllo" {
		t.Fatalf("text = %q", s.Text())
	}
	ramp := g.Ramp(5)
	for i := 0; i < s.Len(); i++ {
		c := s.At(i)
		if c.Foreground != ramp[i] || c.Background != Transparent {
			t.Fatalf("cell %d = %v on %v, want %v", i, c.Foreground, c.Background, ramp[i])
		}
	}
	if !s.IgnoreDecorators || !s.IgnoreEffects {
		t.Fatalf("gradient string should not carry decorators or effects")
	}
	if got := FromGradient(nil, "ab"); got.At(0).Foreground != White {
		t.Fatalf("nil gradient foreground = %v", got.At(0).Foreground)
	}
	if FromGradient(g, "").Len() != 0 {
		t.Fatalf("empty text should give an empty string")
	}
}
