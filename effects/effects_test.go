package effects

import (
	"testing"
	"time"

	"github.com/framegrace/texelstyle/styled"
)

func TestBlinkPhases(t *testing.T) {
	b := NewBlink(100 * time.Millisecond)
	start := time.Unix(1000, 0)

	b.Update(start)
	if !b.Visible() {
		t.Fatalf("blink should start visible")
	}
	b.Update(start.Add(150 * time.Millisecond))
	if b.Visible() {
		t.Fatalf("blink should be hidden in the second phase")
	}
	b.Update(start.Add(210 * time.Millisecond))
	if !b.Visible() {
		t.Fatalf("blink should be visible in the third phase")
	}
}

func TestBlinkApplyCellHidesGlyph(t *testing.T) {
	b := NewBlink(10 * time.Millisecond)
	now := time.Unix(0, 0)
	b.Update(now)
	b.Update(now.Add(15 * time.Millisecond))

	cell := styled.NewCell('x')
	cell.Background = styled.Black
	cell.Effect = b
	cell.Decorators = []styled.Decorator{{Color: styled.White, Glyph: '_'}}
	Apply(&cell)
	if cell.Foreground != styled.Black || cell.Decorators[0].Color != styled.Black {
		t.Fatalf("hidden blink should paint with the background, got %+v", cell)
	}
}

func TestBlinkMatchesDefaultSpeed(t *testing.T) {
	if !NewBlink(0).Matches(0) {
		t.Fatalf("default blinks should match one another")
	}
	if NewBlink(time.Second).Matches(2 * time.Second) {
		t.Fatalf("different speeds must not match")
	}
}

func TestManagerRefCounting(t *testing.T) {
	m := NewManager()
	a := NewBlink(time.Second)
	b := NewBlink(2 * time.Second)

	m.Retain(a)
	m.Retain(a)
	m.Retain(b)
	m.Retain(nil)
	if got := m.InUse(); len(got) != 2 || got[0] != a || got[1] != b {
		t.Fatalf("InUse = %v", got)
	}

	m.Release(a)
	if len(m.InUse()) != 2 {
		t.Fatalf("a still has one reference")
	}
	m.Release(a)
	if got := m.InUse(); len(got) != 1 || got[0] != b {
		t.Fatalf("InUse after release = %v", got)
	}
}

func TestManagerUpdateSignalsFrame(t *testing.T) {
	m := NewManager()
	ch := make(chan struct{}, 1)
	m.AttachRenderChannel(ch)
	m.Retain(NewBlink(time.Second))
	m.Update(time.Now())

	select {
	case <-ch:
	default:
		t.Fatalf("expected a frame request for an active blink")
	}
}

func TestRegisteredBlinkFactory(t *testing.T) {
	factory, ok := Lookup("blink")
	if !ok {
		t.Fatal("blink should be registered via init()")
	}
	eff, err := factory(EffectConfig{"speed_ms": float64(500)})
	if err != nil {
		t.Fatalf("factory: %v", err)
	}
	blink, ok := eff.(*Blink)
	if !ok || blink.Speed != 500*time.Millisecond {
		t.Fatalf("factory produced %#v", eff)
	}
}

func TestBlinkFactoryAcceptsDuration(t *testing.T) {
	eff, err := New("blink", EffectConfig{"speed": 1250 * time.Millisecond})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if b := eff.(*Blink); b.Speed != 1250*time.Millisecond {
		t.Fatalf("speed = %v", b.Speed)
	}
	if _, err := New("nope", nil); err == nil {
		t.Fatal("expected an error for an unregistered effect")
	}
}

func TestReplaceSwapsFactory(t *testing.T) {
	custom := func(EffectConfig) (styled.Effect, error) { return NewBlink(time.Hour), nil }
	prev := Replace("blink", custom)
	if prev == nil {
		t.Fatal("expected the built-in blink factory back")
	}
	eff, _ := New("blink", nil)
	if eff.(*Blink).Speed != time.Hour {
		t.Fatalf("replacement not used")
	}
	Replace("blink", prev)
	eff, _ = New("blink", nil)
	if eff.(*Blink).Speed != DefaultBlinkSpeed {
		t.Fatalf("built-in factory not restored")
	}
}

func TestManagerRestartResetsPhase(t *testing.T) {
	m := NewManager()
	b := NewBlink(100 * time.Millisecond)
	m.Retain(b)
	start := time.Unix(1000, 0)
	m.Update(start)
	m.Update(start.Add(150 * time.Millisecond))
	if b.Visible() {
		t.Fatal("blink should be hidden in its second phase")
	}

	m.Restart()
	if !b.Visible() {
		t.Fatal("restart should make the blink visible")
	}
	m.Update(start.Add(200 * time.Millisecond))
	if !b.Visible() {
		t.Fatal("phase should count from the first update after restart")
	}
}
