// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: markup/context.go
// Summary: Read-only surface contract and the per-parse scan context.

package markup

import "github.com/framegrace/texelstyle/styled"

// Surface is the read-only view of an already rendered surface that a
// string is about to be printed onto.
type Surface interface {
	Len() int
	// CellAt returns the appearance at index, including its effect handle.
	CellAt(index int) styled.Cell
	// EffectsInUse lists the handles currently attached to the surface.
	EffectsInUse() []styled.Effect
}

// DefaultColors is an optional Surface capability consulted by recolor
// commands in default mode.
type DefaultColors interface {
	DefaultForeground() styled.Color
	DefaultBackground() styled.Color
}

// Context is the scanner state handed to constructors and commands.
type Context struct {
	// Text is the whole input as runes.
	Text []rune
	// Index is the rune index of the directive or character being handled.
	Index int
	// Cells holds the cells emitted so far. Treat it as read-only.
	Cells []styled.Cell
	// Surface and SurfaceIndex are the optional printing target.
	Surface      Surface
	SurfaceIndex int
	// CellIndex is the surface index of the cell being built, or -1 when
	// the cell was not seeded from the surface.
	CellIndex int
	Stacks    *Stacks
	Options   *Options
}

// Rune returns the rune at Index.
func (c *Context) Rune() rune {
	if c.Index < 0 || c.Index >= len(c.Text) {
		return 0
	}
	return c.Text[c.Index]
}

// DefaultForeground returns the surface default foreground, or white.
func (c *Context) DefaultForeground() styled.Color {
	if dc, ok := c.Surface.(DefaultColors); ok && c.Surface != nil {
		return dc.DefaultForeground()
	}
	return styled.White
}

// DefaultBackground returns the surface default background, or transparent.
func (c *Context) DefaultBackground() styled.Color {
	if dc, ok := c.Surface.(DefaultColors); ok && c.Surface != nil {
		return dc.DefaultBackground()
	}
	return styled.Transparent
}

// surfaceEffects is nil safe access to the surface handles.
func (c *Context) surfaceEffects() []styled.Effect {
	if c.Surface == nil {
		return nil
	}
	return c.Surface.EffectsInUse()
}
