// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: styled/cell.go
// Summary: Styled cell, mirror flags and decorator overlays.
// Usage: Produced by the markup parsers, consumed by surfaces and renderers.
// Notes: Decorators are composited over the base glyph, never replacing it.

package styled

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gdamore/tcell/v2"
)

// Mirror describes how a glyph is flipped when drawn.
type Mirror uint8

const (
	MirrorNone       Mirror = 0
	MirrorHorizontal Mirror = 1 << (iota - 1)
	MirrorVertical
)

// String returns a human-readable representation of the mirror flags.
func (m Mirror) String() string {
	switch m {
	case MirrorNone:
		return "none"
	case MirrorHorizontal:
		return "horizontal"
	case MirrorVertical:
		return "vertical"
	case MirrorHorizontal | MirrorVertical:
		return "horizontal|vertical"
	}
	return "unknown"
}

// ParseMirror parses a mirror flag name or its numeric value.
func ParseMirror(s string) (Mirror, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "none", "n":
		return MirrorNone, nil
	case "horizontal", "h", "fliphorizontally":
		return MirrorHorizontal, nil
	case "vertical", "v", "flipvertically":
		return MirrorVertical, nil
	case "both", "hv", "vh", "horizontal|vertical":
		return MirrorHorizontal | MirrorVertical, nil
	}
	if n, err := strconv.ParseUint(s, 10, 8); err == nil && n <= 3 {
		return Mirror(n), nil
	}
	return MirrorNone, fmt.Errorf("styled: invalid mirror value %q", s)
}

// Decorator is a secondary glyph drawn over a cell.
type Decorator struct {
	Color  Color
	Glyph  rune
	Mirror Mirror
}

// Effect is an opaque handle to a visual effect attached to a cell. The
// interpreter stores and compares handles but never drives them.
type Effect interface {
	ID() string
}

// Cell is the smallest styled unit of output.
type Cell struct {
	Glyph      rune
	Foreground Color
	Background Color
	Mirror     Mirror
	Decorators []Decorator
	Effect     Effect
}

// NewCell returns a neutral cell, white on transparent, holding glyph.
func NewCell(glyph rune) Cell {
	return Cell{Glyph: glyph, Foreground: White, Background: Transparent}
}

// HasDecorator reports whether d is already attached.
func (c *Cell) HasDecorator(d Decorator) bool {
	for _, existing := range c.Decorators {
		if existing == d {
			return true
		}
	}
	return false
}

// AddDecorator appends d unless an equal decorator is already present.
func (c *Cell) AddDecorator(d Decorator) bool {
	if c.HasDecorator(d) {
		return false
	}
	c.Decorators = append(c.Decorators, d)
	return true
}

// RemoveDecorator drops every decorator equal to d.
func (c *Cell) RemoveDecorator(d Decorator) bool {
	out := c.Decorators[:0]
	removed := false
	for _, existing := range c.Decorators {
		if existing == d {
			removed = true
			continue
		}
		out = append(out, existing)
	}
	c.Decorators = out
	return removed
}

// Clone returns a copy that shares no decorator storage with c.
func (c Cell) Clone() Cell {
	if c.Decorators != nil {
		c.Decorators = append([]Decorator(nil), c.Decorators...)
	}
	return c
}

// Style converts the cell colors to a tcell style.
func (c Cell) Style() tcell.Style {
	return tcell.StyleDefault.Foreground(c.Foreground.TCell()).Background(c.Background.TCell())
}
