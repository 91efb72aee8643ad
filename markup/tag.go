// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: markup/tag.go
// Summary: The [tag]/[tag=value]/[/tag] grammar and its tag registry.
// Usage: Hosts add tags from init functions via markup.Register.
// Notes: A close tag removes the innermost open command with that tag.

package markup

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/framegrace/texelstyle/styled"
)

// TagConstructor builds the command for an opening tag. value is the text
// after '=' and hasValue reports whether '=' was present.
type TagConstructor func(value string, hasValue bool, ctx *Context) (Command, error)

var (
	tagMu       sync.RWMutex
	tagRegistry = map[string]TagConstructor{}
)

// Register adds a tag to the registry used by new tag parsers. It panics if
// the tag is already registered.
func Register(tag string, ctor TagConstructor) {
	tag = strings.ToLower(tag)
	tagMu.Lock()
	defer tagMu.Unlock()
	if _, exists := tagRegistry[tag]; exists {
		panic("markup: tag already registered: " + tag)
	}
	tagRegistry[tag] = ctor
}

// RegisteredTags lists the registered tag names in sorted order.
func RegisteredTags() []string {
	tagMu.RLock()
	defer tagMu.RUnlock()
	names := make([]string, 0, len(tagRegistry))
	for name := range tagRegistry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// TagParser interprets BBCode style tags.
type TagParser struct {
	scanner
	tags map[string]TagConstructor
}

// NewTagParser returns a parser with every tag registered so far.
func NewTagParser(opts Options) *TagParser {
	tagMu.RLock()
	defer tagMu.RUnlock()
	tags := make(map[string]TagConstructor, len(tagRegistry))
	for name, ctor := range tagRegistry {
		tags[name] = ctor
	}
	return &TagParser{scanner: scanner{opts: opts}, tags: tags}
}

// Handle sets or replaces a tag on this parser only.
func (p *TagParser) Handle(tag string, ctor TagConstructor) {
	p.tags[strings.ToLower(tag)] = ctor
}

// Options returns the parser options.
func (p *TagParser) Options() Options { return p.opts }

// Parse implements Parser.
func (p *TagParser) Parse(text string, surfaceIndex int, surface Surface, stacks *Stacks) *styled.String {
	return p.parse(p, text, surfaceIndex, surface, stacks, nil)
}

// ParseString parses text with no surface and fresh stacks.
func (p *TagParser) ParseString(text string) *styled.String {
	return p.Parse(text, -1, nil, nil)
}

// Check parses text and returns the tags that printed as text.
func (p *TagParser) Check(text string) []Diagnostic {
	var diags []Diagnostic
	p.parse(p, text, -1, nil, nil, func(d Diagnostic) { diags = append(diags, d) })
	return diags
}

func (p *TagParser) directive(ctx *Context) (Command, int, error) {
	end := indexRune(ctx.Text, ctx.Index, ']')
	if end < 0 {
		return nil, 0, errNotDirective
	}
	body := string(ctx.Text[ctx.Index+1 : end])
	if body == "" {
		return nil, 0, errNotDirective
	}

	if name, closing := strings.CutPrefix(body, "/"); closing {
		open := ctx.Stacks.FindTag(name)
		if open == nil {
			return nil, 0, fmt.Errorf("%w: no open tag %q", ErrMalformedDirective, name)
		}
		ctx.Stacks.Remove(open)
		return nil, end, nil
	}

	if strings.ContainsRune(body, ' ') {
		return nil, 0, fmt.Errorf("%w: tag attributes in %q", ErrUnsupported, body)
	}
	name, value, hasValue := strings.Cut(body, "=")
	name = strings.ToLower(name)
	ctor, ok := p.tags[name]
	if !ok {
		return nil, 0, fmt.Errorf("%w: tag %q", ErrUnknownCommand, name)
	}
	cmd, err := ctor(value, hasValue, ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("[%s]: %w", name, err)
	}
	if cmd == nil {
		return nil, 0, fmt.Errorf("%w: tag %q", ErrUnknownCommand, name)
	}
	cmd.base().SetTag(name)
	return cmd, end, nil
}
