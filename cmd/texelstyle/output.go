// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: cmd/texelstyle/output.go
// Summary: Cell dump and true colour escape output for parsed lines.

package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/gdamore/tcell/v2"

	"github.com/framegrace/texelstyle/effects"
	"github.com/framegrace/texelstyle/styled"
	"github.com/framegrace/texelstyle/surface"
)

// dump writes one line per cell: line:column, glyph, colours, mirror,
// decorators and effect.
func dump(w io.Writer, lines []*styled.String) error {
	for y, line := range lines {
		for x, cell := range line.Cells() {
			if _, err := fmt.Fprintln(w, describeCell(y, x, cell)); err != nil {
				return err
			}
		}
	}
	return nil
}

func describeCell(y, x int, cell styled.Cell) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d:%d %q fg=%s bg=%s", y, x, cell.Glyph, cell.Foreground, cell.Background)
	if cell.Mirror != styled.MirrorNone {
		fmt.Fprintf(&sb, " mirror=%s", cell.Mirror)
	}
	for _, d := range cell.Decorators {
		fmt.Fprintf(&sb, " deco=%q/%s/%s", d.Glyph, d.Mirror, d.Color)
	}
	if cell.Effect != nil {
		fmt.Fprintf(&sb, " effect=%s", cell.Effect.ID())
	}
	return sb.String()
}

// writeANSI prints lines with 24-bit SGR sequences. Effects are drawn in
// their current state since a stream cannot animate.
func writeANSI(w io.Writer, lines []*styled.String) error {
	var sb strings.Builder
	for _, line := range lines {
		for _, cell := range line.Cells() {
			effects.Apply(&cell)
			writeSGR(&sb, cell)
		}
		sb.WriteString("\x1b[0m\n")
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

func writeSGR(sb *strings.Builder, cell styled.Cell) {
	glyph, style := surface.TerminalCell(cell)
	fg, bg, attrs := style.Decompose()

	sb.WriteString("\x1b[0")
	if fg.Valid() {
		r, g, b := fg.RGB()
		fmt.Fprintf(sb, ";38;2;%d;%d;%d", r, g, b)
	}
	if bg.Valid() {
		r, g, b := bg.RGB()
		fmt.Fprintf(sb, ";48;2;%d;%d;%d", r, g, b)
	}
	if attrs&tcell.AttrUnderline != 0 {
		sb.WriteString(";4")
	}
	if attrs&tcell.AttrStrikeThrough != 0 {
		sb.WriteString(";9")
	}
	sb.WriteByte('m')
	sb.WriteRune(glyph)
}
