// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: surface/render.go
// Summary: Draws a buffer onto a tcell screen.
// Notes: Terminals cannot overlay glyphs, so the underline and strikethrough
// decorator glyphs map to style attributes and any other decorator is drawn
// only over blank cells.

package surface

import (
	"github.com/gdamore/tcell/v2"

	"github.com/framegrace/texelstyle/effects"
	"github.com/framegrace/texelstyle/styled"
)

// Target is the part of tcell.Screen that drawing needs.
type Target interface {
	SetContent(x, y int, mainc rune, combc []rune, style tcell.Style)
}

// Glyphs recognised as underline and strikethrough decorators.
var (
	UnderlineGlyph     rune = 95
	StrikethroughGlyph rune = 196
)

// Draw paints the buffer with its top-left corner at (x0, y0).
func (b *Buffer) Draw(t Target, x0, y0 int) {
	for y := 0; y < b.height; y++ {
		for x := 0; x < b.width; x++ {
			cell := b.cells[y*b.width+x].Clone()
			effects.Apply(&cell)
			glyph, style := TerminalCell(cell)
			t.SetContent(x0+x, y0+y, glyph, nil, style)
		}
	}
}

// TerminalCell resolves the glyph and style a terminal should show for cell.
func TerminalCell(cell styled.Cell) (rune, tcell.Style) {
	style := cell.Style()
	glyph := cell.Glyph
	for _, d := range cell.Decorators {
		switch d.Glyph {
		case UnderlineGlyph:
			style = style.Underline(true)
		case StrikethroughGlyph:
			style = style.StrikeThrough(true)
		default:
			if glyph == ' ' || glyph == 0 {
				glyph = d.Glyph
				style = style.Foreground(d.Color.TCell())
			}
		}
	}
	if glyph == 0 {
		glyph = ' '
	}
	return glyph, style
}
