package surface

import (
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/framegrace/texelstyle/effects"
	"github.com/framegrace/texelstyle/markup"
	"github.com/framegrace/texelstyle/styled"
)

type stubTarget struct {
	glyphs map[[2]int]rune
	styles map[[2]int]tcell.Style
}

func newStubTarget() *stubTarget {
	return &stubTarget{glyphs: map[[2]int]rune{}, styles: map[[2]int]tcell.Style{}}
}

func (s *stubTarget) SetContent(x, y int, mainc rune, _ []rune, style tcell.Style) {
	s.glyphs[[2]int{x, y}] = mainc
	s.styles[[2]int{x, y}] = style
}

var (
	grey  = styled.RGBA(200, 200, 200, 255)
	navy  = styled.RGBA(0, 0, 128, 255)
	red   = styled.RGBA(255, 0, 0, 255)
	green = styled.RGBA(0, 255, 0, 255)
)

func TestPrintMarkupSeedsFromBuffer(t *testing.T) {
	buf := New(10, 2, grey, navy)
	p := markup.NewCodeParser(markup.DefaultOptions())
	if n := buf.PrintMarkup(2, 0, p, "[c:r f:red]ab", nil); n != 2 {
		t.Fatalf("printed %d cells", n)
	}
	a := buf.CellAt(buf.Index(2, 0))
	if a.Glyph != 'a' || a.Foreground != red || a.Background != navy {
		t.Fatalf("cell = %q %v on %v", a.Glyph, a.Foreground, a.Background)
	}

	// restyle in place: default recolor restores the buffer default
	buf.PrintMarkup(2, 0, p, "[c:r f:default]a", nil)
	if got := buf.CellAt(buf.Index(2, 0)).Foreground; got != grey {
		t.Fatalf("default recolor = %v", got)
	}
	if got := buf.CellAt(buf.Index(3, 0)).Foreground; got != red {
		t.Fatalf("neighbour changed: %v", got)
	}
}

func TestPrintClipsAndWraps(t *testing.T) {
	buf := New(3, 2, grey, navy)
	n := buf.Print(buf.Index(2, 0), styled.Plain("xyz!!"))
	if n != 4 {
		t.Fatalf("printed %d, want clipping at buffer end", n)
	}
	if buf.CellAt(buf.Index(0, 1)).Glyph != 'y' || buf.CellAt(buf.Index(1, 1)).Glyph != 'z' {
		t.Fatalf("row wrap failed")
	}
	if buf.PrintMarkup(5, 0, markup.NewCodeParser(markup.DefaultOptions()), "a", nil) != 0 {
		t.Fatalf("out of range coordinate printed")
	}
}

func TestPrintKeepsDecoratorsWhenStringHasNone(t *testing.T) {
	buf := New(4, 1, grey, navy)
	tags := markup.NewTagParser(markup.DefaultOptions())
	buf.PrintMarkup(0, 0, tags, "[u]ab[/u]", nil)
	if len(buf.CellAt(0).Decorators) != 1 {
		t.Fatalf("underline not printed")
	}
	buf.PrintMarkup(0, 0, tags, "[color=lime]ab", nil)
	c := buf.CellAt(0)
	if len(c.Decorators) != 1 || c.Foreground != green {
		t.Fatalf("restyle dropped decorators: %v %v", c.Decorators, c.Foreground)
	}
}

func TestBlinkHandleSharedAcrossPrints(t *testing.T) {
	buf := New(8, 1, grey, navy)
	p := markup.NewCodeParser(markup.DefaultOptions())
	buf.PrintMarkup(0, 0, p, "[c:b 2]ab", nil)
	first := buf.CellAt(0).Effect
	if first == nil || buf.CellAt(1).Effect != first || buf.CellAt(2).Effect != nil {
		t.Fatalf("blink cells = %v %v %v", buf.CellAt(0).Effect, buf.CellAt(1).Effect, buf.CellAt(2).Effect)
	}
	buf.PrintMarkup(4, 0, p, "[c:b]z", nil)
	if buf.CellAt(4).Effect != first {
		t.Fatalf("second print allocated a new handle")
	}
	if got := len(buf.EffectsInUse()); got != 1 {
		t.Fatalf("effects in use = %d", got)
	}

	buf.PrintMarkup(0, 0, p, "[c:ce]ab", nil)
	buf.PrintMarkup(4, 0, p, "[c:ce]z", nil)
	if got := len(buf.EffectsInUse()); got != 0 {
		t.Fatalf("cleared effects still tracked: %d", got)
	}
}

func TestSnapshotAppliesBlink(t *testing.T) {
	buf := New(2, 1, grey, navy)
	blink := effects.NewBlink(100)
	s := styled.NewString([]styled.Cell{{Glyph: 'x', Foreground: red, Background: navy, Effect: blink}})
	buf.Print(0, s)

	start := time.Unix(1000, 0)
	blink.Update(start)
	blink.Update(start.Add(150))
	snap := buf.Snapshot()
	if snap[0][0].Foreground != navy {
		t.Fatalf("hidden blink drew foreground %v", snap[0][0].Foreground)
	}
	if buf.CellAt(0).Foreground != red {
		t.Fatalf("snapshot mutated the buffer")
	}
}

func TestDrawMapsDecoratorsToAttributes(t *testing.T) {
	buf := New(3, 1, grey, navy)
	buf.PrintMarkup(0, 0, markup.NewTagParser(markup.DefaultOptions()), "[u]a[/u][s]b[/s]", nil)
	buf.PrintMarkup(2, 0, markup.NewCodeParser(markup.DefaultOptions()), "[c:d *:none:red] ", nil)

	target := newStubTarget()
	buf.Draw(target, 1, 1)
	if target.glyphs[[2]int{1, 1}] != 'a' {
		t.Fatalf("origin offset ignored")
	}
	if _, _, attrs := target.styles[[2]int{1, 1}].Decompose(); attrs&tcell.AttrUnderline == 0 {
		t.Fatalf("underline attribute missing")
	}
	if _, _, attrs := target.styles[[2]int{2, 1}].Decompose(); attrs&tcell.AttrStrikeThrough == 0 {
		t.Fatalf("strikethrough attribute missing")
	}
	if target.glyphs[[2]int{3, 1}] != '*' {
		t.Fatalf("decorator over blank = %q", target.glyphs[[2]int{3, 1}])
	}
}

func TestClearForgetsEffects(t *testing.T) {
	buf := New(2, 1, grey, navy)
	buf.PrintMarkup(0, 0, markup.NewCodeParser(markup.DefaultOptions()), "[c:b]ab", nil)
	buf.Clear()
	if len(buf.EffectsInUse()) != 0 || buf.CellAt(0).Glyph != ' ' {
		t.Fatalf("clear left state behind")
	}
}
