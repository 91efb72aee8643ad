// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: markup/options.go
// Summary: Parser options and their mapping from the config store.

package markup

import (
	"log"
	"math/rand/v2"
	"time"

	"golang.org/x/text/language"

	"github.com/framegrace/texelstyle/config"
	"github.com/framegrace/texelstyle/effects"
	"github.com/framegrace/texelstyle/styled"
)

// Options tune both grammars.
type Options struct {
	// Debug logs every directive that falls back to literal text.
	Debug bool
	// Rand drives random glyph ranges. Nil uses the shared generator.
	// A *rand.Rand is not safe for concurrent use, so a parser holding one
	// must not Parse from several goroutines at once.
	Rand *rand.Rand
	// BlinkSpeed is used by blink directives that omit a speed.
	BlinkSpeed time.Duration

	// Tag grammar glyph variants and decorators.
	BoldOffset         int
	ItalicOffset       int
	UnderlineGlyph     rune
	StrikethroughGlyph rune
	DecoratorColor     styled.Color
	// CaseLanguage selects the case mapping rules of [upper] and [lower].
	CaseLanguage language.Tag
}

// DefaultOptions returns the stock settings.
func DefaultOptions() Options {
	return Options{
		BlinkSpeed:         effects.DefaultBlinkSpeed,
		BoldOffset:         1,
		ItalicOffset:       -1,
		UnderlineGlyph:     95,
		StrikethroughGlyph: 196,
		DecoratorColor:     styled.AnsiWhite,
		CaseLanguage:       language.Und,
	}
}

// OptionsFromConfig reads the "markup" section. Entries of its "colors"
// map are registered as named colors.
func OptionsFromConfig(cfg config.Config) Options {
	opts := DefaultOptions()
	opts.Debug = cfg.GetBool("markup", "debug", opts.Debug)
	opts.BoldOffset = cfg.GetInt("markup", "bold_offset", opts.BoldOffset)
	opts.ItalicOffset = cfg.GetInt("markup", "italic_offset", opts.ItalicOffset)
	opts.UnderlineGlyph = rune(cfg.GetInt("markup", "underline_glyph", int(opts.UnderlineGlyph)))
	opts.StrikethroughGlyph = rune(cfg.GetInt("markup", "strikethrough_glyph", int(opts.StrikethroughGlyph)))
	if ms := cfg.GetInt("markup", "blink_speed_ms", 0); ms > 0 {
		opts.BlinkSpeed = time.Duration(ms) * time.Millisecond
	}
	if raw := cfg.GetString("markup", "decorator_color", ""); raw != "" {
		if p, err := styled.ParseColor(raw); err == nil && !p.UseDefault {
			opts.DecoratorColor = p.Color
		} else {
			log.Printf("[MARKUP] Ignoring decorator_color %q", raw)
		}
	}
	if raw := cfg.GetString("markup", "case_language", ""); raw != "" {
		if tag, err := language.Parse(raw); err == nil {
			opts.CaseLanguage = tag
		} else {
			log.Printf("[MARKUP] Ignoring case_language %q: %v", raw, err)
		}
	}
	for name, value := range cfg.GetStringMap("markup", "colors") {
		p, err := styled.ParseColor(value)
		if err != nil || p.UseDefault {
			log.Printf("[MARKUP] Ignoring color mapping %q=%q", name, value)
			continue
		}
		styled.RegisterColor(name, p.Color)
	}
	return opts
}

func (o *Options) intN(n int) int {
	if o.Rand != nil {
		return o.Rand.IntN(n)
	}
	return rand.IntN(n)
}

func (o *Options) blinkSpeed() time.Duration {
	if o.BlinkSpeed > 0 {
		return o.BlinkSpeed
	}
	return effects.DefaultBlinkSpeed
}
