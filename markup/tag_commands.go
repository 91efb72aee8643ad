// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: markup/tag_commands.go
// Summary: Built-in tags: color, b, i, u, s, upper, lower.

package markup

import (
	"fmt"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"

	"github.com/framegrace/texelstyle/styled"
)

func init() {
	Register("color", newColorTag)
	Register("b", func(_ string, _ bool, ctx *Context) (Command, error) {
		return NewGlyphOffset(ctx.Options.BoldOffset), nil
	})
	Register("i", func(_ string, _ bool, ctx *Context) (Command, error) {
		return NewGlyphOffset(ctx.Options.ItalicOffset), nil
	})
	Register("u", func(_ string, _ bool, ctx *Context) (Command, error) {
		return NewDecorator(styled.Decorator{Color: ctx.Options.DecoratorColor, Glyph: ctx.Options.UnderlineGlyph}, Infinite()), nil
	})
	Register("s", func(_ string, _ bool, ctx *Context) (Command, error) {
		return NewDecorator(styled.Decorator{Color: ctx.Options.DecoratorColor, Glyph: ctx.Options.StrikethroughGlyph}, Infinite()), nil
	})
	Register("upper", func(_ string, _ bool, ctx *Context) (Command, error) {
		return NewCaseMap(true, ctx.Options), nil
	})
	Register("lower", func(_ string, _ bool, ctx *Context) (Command, error) {
		return NewCaseMap(false, ctx.Options), nil
	})
}

func newColorTag(value string, hasValue bool, _ *Context) (Command, error) {
	if !hasValue || value == "" {
		return nil, fmt.Errorf("%w: color tag needs a value", ErrInvalidParameter)
	}
	color, err := parseColor(value)
	if err != nil {
		return nil, err
	}
	return NewRecolor(color, false, Infinite()), nil
}

// GlyphOffset shifts each glyph by a fixed amount, selecting the bold and
// italic variants of fonts that lay them out next to the regular glyph.
type GlyphOffset struct {
	Base
	Offset int
}

// NewGlyphOffset returns an infinite glyph offset command.
func NewGlyphOffset(offset int) *GlyphOffset {
	return &GlyphOffset{Base: NewBase(ChannelGlyph, Infinite()), Offset: offset}
}

func (g *GlyphOffset) Apply(cell *styled.Cell, _ *Context) {
	if shifted := cell.Glyph + rune(g.Offset); shifted >= 0 {
		cell.Glyph = shifted
	}
}

// CaseMap upper- or lower-cases each glyph.
type CaseMap struct {
	Base
	Upper bool
	caser cases.Caser
}

// NewCaseMap returns a case mapping command using opts.CaseLanguage.
func NewCaseMap(upper bool, opts *Options) *CaseMap {
	c := &CaseMap{Base: NewBase(ChannelGlyph, Infinite()), Upper: upper}
	if upper {
		c.caser = cases.Upper(opts.CaseLanguage)
	} else {
		c.caser = cases.Lower(opts.CaseLanguage)
	}
	return c
}

// Apply maps the glyph. A mapping that expands to several runes, such as
// German sharp s to SS, falls back to the single rune mapping.
func (c *CaseMap) Apply(cell *styled.Cell, _ *Context) {
	mapped := c.caser.String(string(cell.Glyph))
	if r, size := utf8.DecodeRuneInString(mapped); size == len(mapped) && r != utf8.RuneError {
		cell.Glyph = r
		return
	}
	if c.Upper {
		cell.Glyph = unicode.ToUpper(cell.Glyph)
	} else {
		cell.Glyph = unicode.ToLower(cell.Glyph)
	}
}
