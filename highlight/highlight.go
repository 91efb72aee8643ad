// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: highlight/highlight.go
// Summary: Turns source code into code-grammar markup using chroma tokens.
// Usage: text, err := highlight.Markup(src, highlight.Options{Filename: "main.go"})
// Notes: Only tokens whose colour differs from the style's base text colour
// get a directive, so plain runs stay directive free.

package highlight

import (
	"fmt"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"

	"github.com/framegrace/texelstyle/markup"
	"github.com/framegrace/texelstyle/styled"
)

const defaultStyleName = "catppuccin-mocha"

// Options selects the lexer and colour style.
type Options struct {
	// Language is a chroma lexer name or alias. Empty means detect.
	Language string
	// Filename helps detection when Language is empty.
	Filename string
	// Style is a chroma style name. Unknown names use the fallback style.
	Style string
	// Background also emits token background colours.
	Background bool
}

// Markup returns src with code-grammar directives colouring its tokens.
// Literal text is escaped, so parsing the result with a
// markup.CodeParser yields exactly src as text.
func Markup(src string, opts Options) (string, error) {
	lexer := chroma.Coalesce(resolveLexer(opts, src))
	it, err := lexer.Tokenise(nil, src)
	if err != nil {
		return "", fmt.Errorf("highlight: tokenise: %w", err)
	}

	style := chromaStyle(opts.Style)
	base := style.Get(chroma.Text)

	var sb strings.Builder
	sb.Grow(len(src) * 2)
	for tok := it(); tok != chroma.EOF; tok = it() {
		entry := style.Get(tok.Type)
		fg := entry.Colour.IsSet() && entry.Colour != base.Colour
		bg := opts.Background && entry.Background.IsSet() && entry.Background != base.Background
		underline := entry.Underline == chroma.Yes

		if fg {
			fmt.Fprintf(&sb, "[c:r f:%s]", channels(entry.Colour))
		}
		if bg {
			fmt.Fprintf(&sb, "[c:r b:%s]", channels(entry.Background))
		}
		if underline {
			colour := base.Colour
			if entry.Colour.IsSet() {
				colour = entry.Colour
			}
			fmt.Fprintf(&sb, "[c:d 95:none:%s]", channels(colour))
		}
		sb.WriteString(Escape(tok.Value))
		if underline {
			sb.WriteString("[c:u d]")
		}
		if bg {
			sb.WriteString("[c:u b]")
		}
		if fg {
			sb.WriteString("[c:u f]")
		}
	}
	return sb.String(), nil
}

// String highlights src and parses it with p.
func String(src string, p *markup.CodeParser, opts Options) (*styled.String, error) {
	text, err := Markup(src, opts)
	if err != nil {
		return nil, err
	}
	return p.ParseString(text), nil
}

// escaper makes '[' literal and emits each backtick through a one-cell
// glyph directive, since a bare backtick would escape the next directive.
var escaper = strings.NewReplacer("[", "`[", "`", "[c:sg 96:1] ")

// Escape makes s print literally under the code grammar.
func Escape(s string) string {
	return escaper.Replace(s)
}

// BaseColors returns the foreground and background of the style's plain
// text, suitable as surface defaults.
func BaseColors(styleName string) (styled.Color, styled.Color) {
	entry := chromaStyle(styleName).Get(chroma.Background)
	fg, bg := styled.White, styled.Transparent
	if entry.Colour.IsSet() {
		fg = toColor(entry.Colour)
	}
	if entry.Background.IsSet() {
		bg = toColor(entry.Background)
	}
	return fg, bg
}

func chromaStyle(name string) *chroma.Style {
	if name == "" {
		name = defaultStyleName
	}
	return styles.Get(name)
}

// resolveLexer prefers the explicit language, then the filename, then
// content detection.
func resolveLexer(opts Options, src string) chroma.Lexer {
	if opts.Language != "" {
		if l := lexers.Get(opts.Language); l != nil {
			return l
		}
	}
	if opts.Filename != "" {
		if l := lexers.Match(opts.Filename); l != nil {
			return l
		}
	}
	if lang := Detect(opts.Filename, []byte(src)); lang != "" {
		if l := lexers.Get(lang); l != nil {
			return l
		}
	}
	if l := lexers.Analyse(src); l != nil {
		return l
	}
	return lexers.Fallback
}

func channels(c chroma.Colour) string {
	return fmt.Sprintf("%d,%d,%d", c.Red(), c.Green(), c.Blue())
}

func toColor(c chroma.Colour) styled.Color {
	return styled.RGBA(c.Red(), c.Green(), c.Blue(), 255)
}
