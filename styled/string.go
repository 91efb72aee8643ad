// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: styled/string.go
// Summary: Immutable sequence of styled cells produced by a parse.

package styled

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// String is an immutable sequence of styled cells.
type String struct {
	cells []Cell

	// IgnoreDecorators is true when no decorator command fired while the
	// string was built, so printers may skip decorator handling.
	IgnoreDecorators bool
	// IgnoreEffects is true unless a command enabled effect propagation.
	IgnoreEffects bool
}

// NewString wraps cells. The slice is copied.
func NewString(cells []Cell) *String {
	s := &String{cells: make([]Cell, len(cells)), IgnoreDecorators: true, IgnoreEffects: true}
	for i, c := range cells {
		s.cells[i] = c.Clone()
		if len(c.Decorators) > 0 {
			s.IgnoreDecorators = false
		}
	}
	return s
}

// Plain builds a neutral string from text.
func Plain(text string) *String {
	runes := []rune(text)
	cells := make([]Cell, len(runes))
	for i, r := range runes {
		cells[i] = NewCell(r)
	}
	return &String{cells: cells, IgnoreDecorators: true, IgnoreEffects: true}
}

// FromGradient builds a string whose foregrounds run along g, cell k taking
// g.At(k/(n-1)). A nil gradient gives Plain(text).
func FromGradient(g *Gradient, text string) *String {
	s := Plain(text)
	if g == nil {
		return s
	}
	for i, c := range g.Ramp(len(s.cells)) {
		s.cells[i].Foreground = c
	}
	return s
}

// Len returns the number of cells.
func (s *String) Len() int {
	if s == nil {
		return 0
	}
	return len(s.cells)
}

// At returns a copy of the cell at index i.
func (s *String) At(i int) Cell {
	return s.cells[i].Clone()
}

// Cells returns a copy of all cells.
func (s *String) Cells() []Cell {
	if s == nil {
		return nil
	}
	out := make([]Cell, len(s.cells))
	for i, c := range s.cells {
		out[i] = c.Clone()
	}
	return out
}

// Text returns the glyphs as plain text.
func (s *String) Text() string {
	if s == nil {
		return ""
	}
	var b strings.Builder
	b.Grow(len(s.cells))
	for _, c := range s.cells {
		b.WriteRune(c.Glyph)
	}
	return b.String()
}

// String implements fmt.Stringer.
func (s *String) String() string { return s.Text() }

// Width returns the number of terminal columns the glyphs occupy.
func (s *String) Width() int {
	if s == nil {
		return 0
	}
	w := 0
	for _, c := range s.cells {
		w += runewidth.RuneWidth(c.Glyph)
	}
	return w
}

// Sub returns count cells starting at start, clamped to the string bounds.
func (s *String) Sub(start, count int) *String {
	n := s.Len()
	if start < 0 {
		start = 0
	}
	if start > n {
		start = n
	}
	end := start + count
	if count < 0 || end > n {
		end = n
	}
	out := NewString(s.cells[start:end])
	out.IgnoreDecorators = s.IgnoreDecorators
	out.IgnoreEffects = s.IgnoreEffects
	return out
}

// Concat joins two strings. The flags of the result are the conjunction of
// the inputs: if either side carries decorators or effects, so does the join.
func Concat(a, b *String) *String {
	cells := make([]Cell, 0, a.Len()+b.Len())
	if a != nil {
		cells = append(cells, a.cells...)
	}
	if b != nil {
		cells = append(cells, b.cells...)
	}
	out := NewString(cells)
	out.IgnoreDecorators = ignore(a, func(s *String) bool { return s.IgnoreDecorators }) &&
		ignore(b, func(s *String) bool { return s.IgnoreDecorators })
	out.IgnoreEffects = ignore(a, func(s *String) bool { return s.IgnoreEffects }) &&
		ignore(b, func(s *String) bool { return s.IgnoreEffects })
	return out
}

func ignore(s *String, flag func(*String) bool) bool {
	if s == nil {
		return true
	}
	return flag(s)
}
