// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: markup/code_commands.go
// Summary: Built-in commands of the code grammar.

package markup

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/framegrace/texelstyle/effects"
	"github.com/framegrace/texelstyle/styled"
)

// Recolor overwrites the foreground or background of each cell.
type Recolor struct {
	Base
	Color      styled.ParsedColor
	Background bool
}

// NewRecolor returns a recolor command for the parsed color.
func NewRecolor(color styled.ParsedColor, background bool, life Lifetime) *Recolor {
	ch := ChannelForeground
	if background {
		ch = ChannelBackground
	}
	return &Recolor{Base: NewBase(ch, life), Color: color, Background: background}
}

func (r *Recolor) Apply(cell *styled.Cell, ctx *Context) {
	if r.Background {
		if r.Color.UseDefault {
			cell.Background = ctx.DefaultBackground()
		} else {
			cell.Background = r.Color.Resolve(cell.Background)
		}
		return
	}
	if r.Color.UseDefault {
		cell.Foreground = ctx.DefaultForeground()
	} else {
		cell.Foreground = r.Color.Resolve(cell.Foreground)
	}
}

// newRecolor accepts f|b followed by a color in name, hex, default or comma
// form and an optional lifetime, or the colon form R:G:B[:A][:life].
func newRecolor(params []string, _ *Context) (Command, error) {
	if len(params) < 2 {
		return nil, fmt.Errorf("%w: recolor needs a target and a color", ErrInvalidParameter)
	}
	background, err := parseTarget(params[0])
	if err != nil {
		return nil, err
	}
	rest := params[1:]

	var colorText, lifeText string
	if isNumber(rest[0]) {
		if len(rest) < 3 || !isNumber(rest[1]) || !isNumber(rest[2]) {
			return nil, fmt.Errorf("%w: colon color needs R:G:B", ErrInvalidParameter)
		}
		colorText = strings.Join(rest[:3], ",")
		switch tail := rest[3:]; len(tail) {
		case 0:
		case 1:
			lifeText = tail[0]
		case 2:
			colorText += "," + tail[0]
			lifeText = tail[1]
		default:
			return nil, fmt.Errorf("%w: too many recolor parameters", ErrInvalidParameter)
		}
	} else {
		if len(rest) > 2 {
			return nil, fmt.Errorf("%w: too many recolor parameters", ErrInvalidParameter)
		}
		colorText = rest[0]
		if len(rest) == 2 {
			lifeText = rest[1]
		}
	}

	color, err := parseColor(colorText)
	if err != nil {
		return nil, err
	}
	life, err := ParseLifetime(lifeText)
	if err != nil {
		return nil, err
	}
	return NewRecolor(color, background, life), nil
}

// MirrorCmd sets the mirror flags of each cell.
type MirrorCmd struct {
	Base
	Mirror styled.Mirror
}

func (m *MirrorCmd) Apply(cell *styled.Cell, _ *Context) { cell.Mirror = m.Mirror }

func newMirror(params []string, _ *Context) (Command, error) {
	if len(params) < 1 || len(params) > 2 {
		return nil, fmt.Errorf("%w: mirror takes flag[:life]", ErrInvalidParameter)
	}
	flag, err := styled.ParseMirror(params[0])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidEnum, err)
	}
	life, err := ParseLifetime(at(params, 1))
	if err != nil {
		return nil, err
	}
	return &MirrorCmd{Base: NewBase(ChannelMirror, life), Mirror: flag}, nil
}

// SetGlyph replaces the glyph of each cell, either with a fixed rune or a
// rune drawn uniformly from [Min, Max] per cell.
type SetGlyph struct {
	Base
	Min, Max rune
}

func (s *SetGlyph) Apply(cell *styled.Cell, ctx *Context) {
	if s.Min == s.Max {
		cell.Glyph = s.Min
		return
	}
	cell.Glyph = s.Min + rune(ctx.Options.intN(int(s.Max-s.Min)+1))
}

func newSetGlyph(params []string, _ *Context) (Command, error) {
	if len(params) < 1 || len(params) > 2 {
		return nil, fmt.Errorf("%w: sglyph takes glyph[:life]", ErrInvalidParameter)
	}
	lo, hi, err := parseGlyphRange(params[0])
	if err != nil {
		return nil, err
	}
	life, err := ParseLifetime(at(params, 1))
	if err != nil {
		return nil, err
	}
	return &SetGlyph{Base: NewBase(ChannelGlyph, life), Min: lo, Max: hi}, nil
}

// Gradient colors consecutive cells along a precomputed ramp.
type Gradient struct {
	Base
	Ramp       []styled.Color
	Background bool
}

func (g *Gradient) Apply(cell *styled.Cell, _ *Context) {
	k := g.Elapsed()
	if k >= len(g.Ramp) {
		k = len(g.Ramp) - 1
	}
	if g.Background {
		cell.Background = g.Ramp[k]
	} else {
		cell.Foreground = g.Ramp[k]
	}
}

func newGradient(params []string, _ *Context) (Command, error) {
	if len(params) < 4 {
		return nil, fmt.Errorf("%w: gradient takes f|b:color:color[:color...]:length", ErrInvalidParameter)
	}
	background, err := parseTarget(params[0])
	if err != nil {
		return nil, err
	}
	length, err := strconv.Atoi(params[len(params)-1])
	if err != nil || length < 1 {
		return nil, fmt.Errorf("%w: gradient length %q", ErrInvalidParameter, params[len(params)-1])
	}
	stops := params[1 : len(params)-1]
	colors := make([]styled.Color, 0, len(stops))
	for _, tok := range stops {
		p, err := parseColor(tok)
		if err != nil {
			return nil, err
		}
		if p.UseDefault {
			return nil, fmt.Errorf("%w: gradient stops need concrete colors", ErrInvalidParameter)
		}
		colors = append(colors, p.Color)
	}
	ch := ChannelForeground
	if background {
		ch = ChannelBackground
	}
	return &Gradient{
		Base:       NewBase(ch, CountDown(length)),
		Ramp:       styled.NewGradient(colors...).Ramp(length),
		Background: background,
	}, nil
}

// BlinkCmd attaches a shared blink handle to each cell.
type BlinkCmd struct {
	Base
	Handle styled.Effect
}

func (b *BlinkCmd) Apply(cell *styled.Cell, _ *Context) { cell.Effect = b.Handle }

func newBlink(params []string, ctx *Context) (Command, error) {
	if len(params) > 2 {
		return nil, fmt.Errorf("%w: blink takes [life][:speed]", ErrInvalidParameter)
	}
	life, err := ParseLifetime(at(params, 0))
	if err != nil {
		return nil, err
	}
	speed := ctx.Options.blinkSpeed()
	if tok := at(params, 1); tok != "" {
		secs, err := strconv.ParseFloat(tok, 64)
		if err != nil || secs <= 0 {
			return nil, fmt.Errorf("%w: blink speed %q", ErrInvalidParameter, tok)
		}
		speed = time.Duration(secs * float64(time.Second))
	}

	handle := findBlink(ctx, speed)
	if handle == nil {
		eff, err := effects.New("blink", effects.EffectConfig{"speed": speed})
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnsupported, err)
		}
		if eff == nil {
			return nil, fmt.Errorf("%w: blink factory returned no handle", ErrUnsupported)
		}
		handle = eff
	}
	ctx.Stacks.RememberEffect(handle)
	ctx.Stacks.EffectsEnabled = true
	return &BlinkCmd{Base: NewBase(ChannelEffect, life), Handle: handle}, nil
}

// findBlink looks for a handle of equal speed on the cells emitted so far,
// then on the surface, then in the stacks pool.
func findBlink(ctx *Context, speed time.Duration) styled.Effect {
	match := func(e styled.Effect) styled.Effect {
		if b, ok := e.(effects.SpeedMatcher); ok && b.ID() == "blink" && b.Matches(speed) {
			return b
		}
		return nil
	}
	for i := range ctx.Cells {
		if b := match(ctx.Cells[i].Effect); b != nil {
			return b
		}
	}
	for _, e := range ctx.surfaceEffects() {
		if b := match(e); b != nil {
			return b
		}
	}
	for _, e := range ctx.Stacks.Effects() {
		if b := match(e); b != nil {
			return b
		}
	}
	return nil
}

// ClearEffect detaches any effect from each cell.
type ClearEffect struct {
	Base
}

func (c *ClearEffect) Apply(cell *styled.Cell, _ *Context) { cell.Effect = nil }

func newClearEffect(params []string, ctx *Context) (Command, error) {
	if len(params) > 1 {
		return nil, fmt.Errorf("%w: ceffect takes [life]", ErrInvalidParameter)
	}
	life, err := ParseLifetime(at(params, 0))
	if err != nil {
		return nil, err
	}
	ctx.Stacks.EffectsEnabled = true
	return &ClearEffect{Base: NewBase(ChannelEffect, life)}, nil
}

// DecoratorCmd appends a decorator overlay to each cell.
type DecoratorCmd struct {
	Base
	Glyph  rune
	Mirror styled.Mirror
	Color  styled.ParsedColor
}

// NewDecorator returns a decorator command with a concrete color.
func NewDecorator(d styled.Decorator, life Lifetime) *DecoratorCmd {
	return &DecoratorCmd{
		Base:   NewBase(ChannelDecorator, life),
		Glyph:  d.Glyph,
		Mirror: d.Mirror,
		Color:  styled.ParsedColor{Color: d.Color},
	}
}

func (d *DecoratorCmd) Apply(cell *styled.Cell, ctx *Context) {
	color := ctx.DefaultForeground()
	if !d.Color.UseDefault {
		color = d.Color.Resolve(cell.Foreground)
	}
	cell.AddDecorator(styled.Decorator{Color: color, Glyph: d.Glyph, Mirror: d.Mirror})
}

func newDecorator(params []string, _ *Context) (Command, error) {
	if len(params) < 3 || len(params) > 4 {
		return nil, fmt.Errorf("%w: decorator takes glyph:mirror:color[:life]", ErrInvalidParameter)
	}
	glyph, err := parseGlyph(params[0])
	if err != nil {
		return nil, err
	}
	mirror, err := styled.ParseMirror(params[1])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidEnum, err)
	}
	color, err := parseColor(params[2])
	if err != nil {
		return nil, err
	}
	life, err := ParseLifetime(at(params, 3))
	if err != nil {
		return nil, err
	}
	return &DecoratorCmd{Base: NewBase(ChannelDecorator, life), Glyph: glyph, Mirror: mirror, Color: color}, nil
}

// Undo pops commands off one channel or off the global stack.
type Undo struct {
	Base
	Count int
	// Target is the channel to pop; ChannelPure means the global stack.
	Target Channel
}

func (u *Undo) Apply(*styled.Cell, *Context) {}

// Execute pops up to Count commands. Empty stacks end it early.
func (u *Undo) Execute(ctx *Context) {
	for i := 0; i < u.Count; i++ {
		var popped Command
		if u.Target == ChannelPure {
			popped = ctx.Stacks.PopAll()
		} else {
			popped = ctx.Stacks.Pop(u.Target)
		}
		if popped == nil {
			return
		}
	}
}

var undoChannels = map[string]Channel{
	"f": ChannelForeground,
	"b": ChannelBackground,
	"g": ChannelGlyph,
	"m": ChannelMirror,
	"e": ChannelEffect,
	"d": ChannelDecorator,
	"a": ChannelPure,
}

// newUndo takes an optional count and an optional channel, in either order.
func newUndo(params []string, _ *Context) (Command, error) {
	if len(params) > 2 {
		return nil, fmt.Errorf("%w: undo takes [count][:channel]", ErrInvalidParameter)
	}
	u := &Undo{Base: NewBase(ChannelPure, Infinite()), Count: 1, Target: ChannelPure}
	var haveCount, haveChannel bool
	for _, tok := range params {
		if tok == "" {
			continue
		}
		if isNumber(tok) {
			n, err := strconv.Atoi(tok)
			if haveCount || err != nil || n < 1 {
				return nil, fmt.Errorf("%w: undo count %q", ErrInvalidParameter, tok)
			}
			u.Count, haveCount = n, true
			continue
		}
		ch, ok := undoChannels[strings.ToLower(tok)]
		if !ok || haveChannel {
			return nil, fmt.Errorf("%w: undo channel %q", ErrInvalidEnum, tok)
		}
		u.Target, haveChannel = ch, true
	}
	return u, nil
}

// parseTarget maps f and b to foreground and background.
func parseTarget(tok string) (background bool, err error) {
	switch strings.ToLower(tok) {
	case "f", "fore", "foreground":
		return false, nil
	case "b", "back", "background":
		return true, nil
	}
	return false, fmt.Errorf("%w: target %q, want f or b", ErrInvalidEnum, tok)
}

func parseColor(tok string) (styled.ParsedColor, error) {
	p, err := styled.ParseColor(tok)
	if err != nil {
		return p, fmt.Errorf("%w: %v", ErrInvalidParameter, err)
	}
	return p, nil
}

// parseGlyph reads a single rune literal or a decimal code point of two or
// more digits.
func parseGlyph(tok string) (rune, error) {
	runes := []rune(tok)
	switch {
	case len(runes) == 1:
		return runes[0], nil
	case len(runes) > 1 && isNumber(tok):
		n, err := strconv.ParseInt(tok, 10, 32)
		if err == nil && utf8.ValidRune(rune(n)) {
			return rune(n), nil
		}
	}
	return 0, fmt.Errorf("%w: glyph %q", ErrInvalidParameter, tok)
}

const (
	surrogateMin = 0xD800
	surrogateMax = 0xDFFF
)

// parseGlyphRange reads a glyph or an inclusive min,max range.
func parseGlyphRange(tok string) (rune, rune, error) {
	lo, hi, isRange := strings.Cut(tok, ",")
	if !isRange || tok == "," {
		g, err := parseGlyph(tok)
		return g, g, err
	}
	first, err := parseGlyph(strings.TrimSpace(lo))
	if err != nil {
		return 0, 0, err
	}
	last, err := parseGlyph(strings.TrimSpace(hi))
	if err != nil {
		return 0, 0, err
	}
	if first > last {
		return 0, 0, fmt.Errorf("%w: glyph range %q is reversed", ErrInvalidParameter, tok)
	}
	// Surrogate halves are not runes.
	if first <= surrogateMax && last >= surrogateMin {
		return 0, 0, fmt.Errorf("%w: glyph range %q covers surrogates", ErrInvalidParameter, tok)
	}
	return first, last, nil
}

func isNumber(tok string) bool {
	if tok == "" {
		return false
	}
	for _, r := range tok {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func at(params []string, i int) string {
	if i < len(params) {
		return params[i]
	}
	return ""
}
