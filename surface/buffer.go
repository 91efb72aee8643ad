// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: surface/buffer.go
// Summary: In-memory cell grid that styled strings are printed onto.
// Usage: Pass a Buffer as the markup.Surface of a Parse call to restyle in
// place, then Print the result back.
// Notes: Effect handles are reference counted through an effects.Manager.

package surface

import (
	"github.com/framegrace/texelstyle/effects"
	"github.com/framegrace/texelstyle/markup"
	"github.com/framegrace/texelstyle/styled"
)

// Buffer is a row-major grid of cells with default colors.
type Buffer struct {
	width, height int
	cells         []styled.Cell
	fg, bg        styled.Color
	effects       *effects.Manager
}

var (
	_ markup.Surface       = (*Buffer)(nil)
	_ markup.DefaultColors = (*Buffer)(nil)
)

// New creates a width x height buffer filled with spaces in the default
// colors.
func New(width, height int, fg, bg styled.Color) *Buffer {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	b := &Buffer{
		width:   width,
		height:  height,
		cells:   make([]styled.Cell, width*height),
		fg:      fg,
		bg:      bg,
		effects: effects.NewManager(),
	}
	b.fill()
	return b
}

func (b *Buffer) fill() {
	for i := range b.cells {
		b.cells[i] = styled.Cell{Glyph: ' ', Foreground: b.fg, Background: b.bg}
	}
}

func (b *Buffer) Width() int  { return b.width }
func (b *Buffer) Height() int { return b.height }
func (b *Buffer) Len() int    { return len(b.cells) }

// Index converts a coordinate to a cell index, or -1 when out of range.
func (b *Buffer) Index(x, y int) int {
	if x < 0 || y < 0 || x >= b.width || y >= b.height {
		return -1
	}
	return y*b.width + x
}

// CellAt returns a copy of the cell at index. Out of range indexes give a
// blank cell in the default colors.
func (b *Buffer) CellAt(index int) styled.Cell {
	if index < 0 || index >= len(b.cells) {
		return styled.Cell{Glyph: ' ', Foreground: b.fg, Background: b.bg}
	}
	return b.cells[index].Clone()
}

// EffectsInUse lists the handles attached to any cell.
func (b *Buffer) EffectsInUse() []styled.Effect { return b.effects.InUse() }

func (b *Buffer) DefaultForeground() styled.Color { return b.fg }
func (b *Buffer) DefaultBackground() styled.Color { return b.bg }

// Effects exposes the manager so render loops can advance animations.
func (b *Buffer) Effects() *effects.Manager { return b.effects }

// Print copies s onto the buffer starting at index and returns the number
// of cells written. Decorators are only replaced when s carries them and
// effects only when s propagates them.
func (b *Buffer) Print(index int, s *styled.String) int {
	if s == nil || index < 0 {
		return 0
	}
	written := 0
	for i := 0; i < s.Len() && index+i < len(b.cells); i++ {
		src := s.At(i)
		dst := &b.cells[index+i]
		dst.Glyph = src.Glyph
		dst.Foreground = src.Foreground
		dst.Background = src.Background
		dst.Mirror = src.Mirror
		if !s.IgnoreDecorators {
			dst.Decorators = src.Decorators
		}
		if !s.IgnoreEffects && dst.Effect != src.Effect {
			b.effects.Release(dst.Effect)
			b.effects.Retain(src.Effect)
			dst.Effect = src.Effect
		}
		written++
	}
	return written
}

// PrintMarkup parses text against the cells at (x, y) and prints the
// result there. stacks may be nil.
func (b *Buffer) PrintMarkup(x, y int, p markup.Parser, text string, stacks *markup.Stacks) int {
	index := b.Index(x, y)
	if index < 0 {
		return 0
	}
	return b.Print(index, p.Parse(text, index, b, stacks))
}

// Row returns copies of the cells of row y.
func (b *Buffer) Row(y int) []styled.Cell {
	if y < 0 || y >= b.height {
		return nil
	}
	out := make([]styled.Cell, b.width)
	for x := range out {
		out[x] = b.cells[y*b.width+x].Clone()
	}
	return out
}

// Snapshot returns every row with effects applied, as it would be drawn.
func (b *Buffer) Snapshot() [][]styled.Cell {
	rows := make([][]styled.Cell, b.height)
	for y := range rows {
		rows[y] = b.Row(y)
		for x := range rows[y] {
			effects.Apply(&rows[y][x])
		}
	}
	return rows
}

// Clear blanks every cell and forgets all effect handles.
func (b *Buffer) Clear() {
	for i := range b.cells {
		b.effects.Release(b.cells[i].Effect)
	}
	b.fill()
}
