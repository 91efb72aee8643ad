// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: markup/command.go
// Summary: Channels, lifetimes and the command contract shared by both grammars.
// Usage: Built-in and host commands embed Base and implement Apply.
// Notes: Lifetime bookkeeping lives in Base so the scanner can expire any command.

package markup

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/framegrace/texelstyle/styled"
)

// Errors reported for directives that cannot be turned into commands. The
// scanner never surfaces them to the caller; the directive prints as text.
var (
	ErrMalformedDirective = errors.New("markup: malformed directive")
	ErrUnknownCommand     = errors.New("markup: unknown command")
	ErrInvalidParameter   = errors.New("markup: invalid parameter")
	ErrInvalidEnum        = errors.New("markup: invalid enum value")
	ErrUnsupported        = errors.New("markup: unsupported directive form")
)

// errNotDirective marks a bracket that is plain text for the active grammar.
var errNotDirective = errors.New("markup: not a directive")

// Channel selects the stack a command occupies and the cell field it drives.
type Channel int

const (
	ChannelForeground Channel = iota
	ChannelBackground
	ChannelGlyph
	ChannelMirror
	ChannelEffect
	ChannelDecorator
	// ChannelPure commands run once when recognized and never occupy a stack.
	ChannelPure
)

const stackedChannels = int(ChannelPure)

// applyOrder is the order in which channel tops mutate a cell.
var applyOrder = [stackedChannels]Channel{
	ChannelForeground,
	ChannelBackground,
	ChannelGlyph,
	ChannelMirror,
	ChannelDecorator,
	ChannelEffect,
}

func (c Channel) String() string {
	switch c {
	case ChannelForeground:
		return "foreground"
	case ChannelBackground:
		return "background"
	case ChannelGlyph:
		return "glyph"
	case ChannelMirror:
		return "mirror"
	case ChannelEffect:
		return "effect"
	case ChannelDecorator:
		return "decorator"
	case ChannelPure:
		return "pure"
	}
	return "channel(" + strconv.Itoa(int(c)) + ")"
}

// LifetimeKind is the expiry rule of a command.
type LifetimeKind int

const (
	LifetimeInfinite LifetimeKind = iota
	LifetimeCountDown
	LifetimeUntilWhitespace
)

// Lifetime is a command's expiry rule. Count is only meaningful for
// LifetimeCountDown.
type Lifetime struct {
	Kind  LifetimeKind
	Count int
}

func Infinite() Lifetime        { return Lifetime{Kind: LifetimeInfinite} }
func CountDown(n int) Lifetime  { return Lifetime{Kind: LifetimeCountDown, Count: n} }
func UntilWhitespace() Lifetime { return Lifetime{Kind: LifetimeUntilWhitespace} }

func (l Lifetime) String() string {
	switch l.Kind {
	case LifetimeCountDown:
		return strconv.Itoa(l.Count)
	case LifetimeUntilWhitespace:
		return "w"
	}
	return "*"
}

// ParseLifetime parses a lifetime token: a positive count, "w" for the rest
// of the word, or "*" and "" for infinite.
func ParseLifetime(tok string) (Lifetime, error) {
	tok = strings.TrimSpace(tok)
	switch {
	case tok == "", tok == "*":
		return Infinite(), nil
	case strings.EqualFold(tok, "w"):
		return UntilWhitespace(), nil
	}
	n, err := strconv.Atoi(tok)
	if err != nil || n <= 0 {
		return Lifetime{}, fmt.Errorf("%w: lifetime %q", ErrInvalidParameter, tok)
	}
	return CountDown(n), nil
}

// Command is one unit of style mutation. Implementations embed Base.
type Command interface {
	Channel() Channel
	// Apply mutates the cell being built. It runs only while the command is
	// the top of its channel.
	Apply(cell *styled.Cell, ctx *Context)
	base() *Base
}

// Executor is implemented by pure commands. Execute runs once, at the point
// the directive is recognized.
type Executor interface {
	Execute(ctx *Context)
}

// Base carries the channel, lifetime, tag and stack links of a command.
type Base struct {
	channel  Channel
	life     Lifetime
	declared int
	tag      string
	links    links
}

// NewBase returns a Base for a command on ch with the given lifetime.
func NewBase(ch Channel, life Lifetime) Base {
	return Base{channel: ch, life: life, declared: life.Count}
}

func (b *Base) base() *Base { return b }

// Channel returns the stack the command occupies.
func (b *Base) Channel() Channel { return b.channel }

// Lifetime returns the current lifetime, including the remaining count.
func (b *Base) Lifetime() Lifetime { return b.life }

// Elapsed returns how many cells a countdown command has already styled.
func (b *Base) Elapsed() int {
	if b.life.Kind != LifetimeCountDown {
		return 0
	}
	return b.declared - b.life.Count
}

// Tag returns the tag name a close directive matches, or "".
func (b *Base) Tag() string { return b.tag }

// SetTag sets the tag name used to match close directives.
func (b *Base) SetTag(tag string) { b.tag = strings.ToLower(tag) }

// tick consumes one cell of a countdown lifetime and reports expiry.
func (b *Base) tick() bool {
	if b.life.Kind != LifetimeCountDown {
		return false
	}
	b.life.Count--
	return b.life.Count <= 0
}
