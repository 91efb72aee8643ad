// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: markup/code.go
// Summary: The compact [c:name params] grammar and its handler table.
// Usage: p := markup.NewCodeParser(markup.DefaultOptions()); s := p.ParseString(text)
// Notes: Handlers are matched by name, case-insensitively, in table order.

package markup

import (
	"fmt"
	"strings"

	"github.com/framegrace/texelstyle/styled"
)

// Constructor builds a command from the colon separated parameters of a
// directive. A nil command with a nil error is treated as unknown.
type Constructor func(params []string, ctx *Context) (Command, error)

// Handler binds command names to a constructor.
type Handler struct {
	Names []string
	New   Constructor
}

// CustomProcessor is consulted before the handler table. It receives the
// raw name and parameter text. Returning a nil command falls through to
// the handler table.
type CustomProcessor func(name, params string, ctx *Context) (Command, error)

// CodeParser interprets [c:...] directives.
type CodeParser struct {
	scanner
	handlers []Handler

	// CustomProcessor, when set, is tried first for every directive.
	CustomProcessor CustomProcessor
}

// NewCodeParser returns a parser with the built-in command set.
func NewCodeParser(opts Options) *CodeParser {
	return &CodeParser{
		scanner:  scanner{opts: opts},
		handlers: builtinHandlers(),
	}
}

// Use prepends handlers so they shadow built-in names.
func (p *CodeParser) Use(handlers ...Handler) {
	p.handlers = append(append([]Handler(nil), handlers...), p.handlers...)
}

// Handlers returns a copy of the handler table in lookup order.
func (p *CodeParser) Handlers() []Handler {
	return append([]Handler(nil), p.handlers...)
}

// Options returns the parser options.
func (p *CodeParser) Options() Options { return p.opts }

// Parse implements Parser.
func (p *CodeParser) Parse(text string, surfaceIndex int, surface Surface, stacks *Stacks) *styled.String {
	return p.parse(p, text, surfaceIndex, surface, stacks, nil)
}

// ParseString parses text with no surface and fresh stacks.
func (p *CodeParser) ParseString(text string) *styled.String {
	return p.Parse(text, -1, nil, nil)
}

// Check parses text and returns the directives that printed as text.
func (p *CodeParser) Check(text string) []Diagnostic {
	var diags []Diagnostic
	p.parse(p, text, -1, nil, nil, func(d Diagnostic) { diags = append(diags, d) })
	return diags
}

// Explain checks text against the built-in code grammar.
func Explain(text string) []Diagnostic {
	return NewCodeParser(DefaultOptions()).Check(text)
}

func (p *CodeParser) directive(ctx *Context) (Command, int, error) {
	text, i := ctx.Text, ctx.Index
	if i+4 >= len(text) || text[i+1] != 'c' || text[i+2] != ':' {
		return nil, 0, errNotDirective
	}
	end := indexRune(text, i+2, ']')
	if end < 0 {
		return nil, 0, errNotDirective
	}

	body := string(text[i+3 : end])
	name, params, _ := strings.Cut(body, " ")
	if name == "" {
		return nil, 0, fmt.Errorf("%w: empty command name", ErrMalformedDirective)
	}

	if p.CustomProcessor != nil {
		cmd, err := p.CustomProcessor(name, params, ctx)
		if err != nil {
			return nil, 0, err
		}
		if cmd != nil {
			return cmd, end, nil
		}
	}

	h := p.lookup(name)
	if h == nil {
		return nil, 0, fmt.Errorf("%w: %q", ErrUnknownCommand, name)
	}
	cmd, err := h.New(splitParams(params), ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", name, err)
	}
	if cmd == nil {
		return nil, 0, fmt.Errorf("%w: %q", ErrUnknownCommand, name)
	}
	return cmd, end, nil
}

func (p *CodeParser) lookup(name string) *Handler {
	for i := range p.handlers {
		for _, n := range p.handlers[i].Names {
			if strings.EqualFold(n, name) {
				return &p.handlers[i]
			}
		}
	}
	return nil
}

// splitParams splits on ':' and trims each token. Empty input gives no
// tokens.
func splitParams(params string) []string {
	params = strings.TrimSpace(params)
	if params == "" {
		return nil
	}
	parts := strings.Split(params, ":")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

func builtinHandlers() []Handler {
	return []Handler{
		{Names: []string{"r", "recolor"}, New: newRecolor},
		{Names: []string{"m", "mirror"}, New: newMirror},
		{Names: []string{"sg", "sglyph"}, New: newSetGlyph},
		{Names: []string{"g", "grad"}, New: newGradient},
		{Names: []string{"b", "blink"}, New: newBlink},
		{Names: []string{"ce", "ceffect"}, New: newClearEffect},
		{Names: []string{"d", "decorator"}, New: newDecorator},
		{Names: []string{"u", "undo"}, New: newUndo},
	}
}
