// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: markup/scanner.go
// Summary: The rune-by-rune interpreter loop shared by both grammars.
// Usage: CodeParser and TagParser supply the directive recognizer.
// Notes: A directive that fails for any reason prints as literal text.

package markup

import (
	"errors"
	"fmt"
	"log"
	"unicode"

	"github.com/framegrace/texelstyle/styled"
)

// Parser turns marked-up text into a styled string.
type Parser interface {
	// Parse styles text. surfaceIndex and surface optionally seed cells from
	// an existing surface (surfaceIndex < 0 disables seeding). stacks, when
	// non-nil, is the initial state and keeps any still-open commands.
	Parse(text string, surfaceIndex int, surface Surface, stacks *Stacks) *styled.String
}

// Diagnostic describes a directive that fell back to literal text.
type Diagnostic struct {
	Index     int
	Directive string
	Err       error
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%d: %s: %v", d.Index, d.Directive, d.Err)
}

// grammar recognizes a directive starting at ctx.Index, which holds an
// unescaped '['. It returns the command to register (nil when the
// directive only acted on the stacks) and the index of the closing ']'.
type grammar interface {
	directive(ctx *Context) (Command, int, error)
}

type scanner struct {
	opts Options
}

func (s *scanner) parse(g grammar, text string, surfaceIndex int, surface Surface, stacks *Stacks, report func(Diagnostic)) *styled.String {
	if stacks == nil {
		stacks = NewStacks()
	}
	runes := []rune(text)
	cells := make([]styled.Cell, 0, len(runes))
	ctx := &Context{
		Text:         runes,
		Surface:      surface,
		SurfaceIndex: surfaceIndex,
		Stacks:       stacks,
		Options:      &s.opts,
	}
	decorated := false

	for i := 0; i < len(runes); i++ {
		r := runes[i]
		ctx.Index = i
		ctx.Cells = cells
		ctx.CellIndex = -1

		// `[ prints a literal bracket; the backtick itself is dropped.
		if r == '`' && i+1 < len(runes) && runes[i+1] == '[' {
			continue
		}

		if r == '[' && (i == 0 || runes[i-1] != '`') {
			if end, ok := s.directive(g, ctx, report); ok {
				i = end
				continue
			}
		}

		cell := s.seed(ctx, r, len(cells))
		if s.applyStacks(&cell, ctx, unicode.IsSpace(r)) {
			decorated = true
		}
		cells = append(cells, cell)
	}
	stacks.expireWordScoped()

	out := styled.NewString(cells)
	out.IgnoreDecorators = !decorated
	out.IgnoreEffects = !stacks.EffectsEnabled
	return out
}

// directive runs the grammar and registers the result. Any failure,
// including a panic in a host constructor, reports ok=false.
func (s *scanner) directive(g grammar, ctx *Context, report func(Diagnostic)) (end int, ok bool) {
	defer func() {
		if rec := recover(); rec != nil {
			s.fail(ctx, fmt.Errorf("%w: %v", ErrMalformedDirective, rec), report)
			end, ok = 0, false
		}
	}()

	cmd, end, err := g.directive(ctx)
	if err != nil {
		s.fail(ctx, err, report)
		return 0, false
	}
	if cmd != nil {
		if cmd.Channel() == ChannelPure {
			if ex, isExec := cmd.(Executor); isExec {
				ex.Execute(ctx)
			}
		} else {
			ctx.Stacks.Push(cmd)
		}
	}
	return end, true
}

func (s *scanner) fail(ctx *Context, err error, report func(Diagnostic)) {
	if errors.Is(err, errNotDirective) {
		return
	}
	d := Diagnostic{Index: ctx.Index, Directive: directiveText(ctx.Text, ctx.Index), Err: err}
	if report != nil {
		report(d)
	}
	if s.opts.Debug {
		log.Printf("[MARKUP] Directive at %d printed as text: %s: %v", d.Index, d.Directive, err)
	}
}

// seed starts a cell from the surface when the output position is in
// range, otherwise from a neutral cell.
func (s *scanner) seed(ctx *Context, r rune, pos int) styled.Cell {
	if ctx.Surface != nil && ctx.SurfaceIndex >= 0 {
		idx := ctx.SurfaceIndex + pos
		if idx < ctx.Surface.Len() {
			cell := ctx.Surface.CellAt(idx).Clone()
			cell.Glyph = r
			ctx.CellIndex = idx
			return cell
		}
	}
	return styled.NewCell(r)
}

// applyStacks lets the top of each channel mutate the cell. A word scoped
// top expires on whitespace and the channel falls back to the next entry
// for the same cell. It reports whether a decorator command ran.
func (s *scanner) applyStacks(cell *styled.Cell, ctx *Context, space bool) bool {
	decorated := false
	for _, ch := range applyOrder {
		for {
			cmd := ctx.Stacks.Top(ch)
			if cmd == nil {
				break
			}
			b := cmd.base()
			if space && b.life.Kind == LifetimeUntilWhitespace {
				ctx.Stacks.Remove(cmd)
				continue
			}
			cmd.Apply(cell, ctx)
			if ch == ChannelDecorator {
				decorated = true
			}
			if b.tick() {
				ctx.Stacks.Remove(cmd)
			}
			break
		}
	}
	return decorated
}

// directiveText returns the bracketed text at i for diagnostics.
func directiveText(text []rune, i int) string {
	end := indexRune(text, i, ']')
	if end < 0 {
		end = len(text) - 1
	}
	return string(text[i : end+1])
}

// indexRune returns the index of the first r after from, or -1.
func indexRune(text []rune, from int, r rune) int {
	for j := from + 1; j < len(text); j++ {
		if text[j] == r {
			return j
		}
	}
	return -1
}
