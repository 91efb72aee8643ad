// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: styled/color.go
// Summary: RGBA colors, named color mappings and the parser color syntax.
// Usage: Shared by the markup commands and anything that renders cells.

package styled

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/gdamore/tcell/v2"
)

// ErrBadColor is returned when a color string cannot be parsed.
var ErrBadColor = errors.New("styled: cannot parse color")

// Color is an 8-bit-per-channel RGBA color.
type Color struct {
	R, G, B, A uint8
}

// Neutral cell colors used when no surface supplies defaults.
var (
	White       = Color{255, 255, 255, 255}
	Black       = Color{0, 0, 0, 255}
	Transparent = Color{}
	AnsiWhite   = Color{170, 170, 170, 255}
)

// RGBA builds a color from its channels.
func RGBA(r, g, b, a uint8) Color { return Color{R: r, G: g, B: b, A: a} }

// String renders the color in the R,G,B,A parser form.
func (c Color) String() string {
	return fmt.Sprintf("%d,%d,%d,%d", c.R, c.G, c.B, c.A)
}

// TCell converts the color to a tcell true color. Alpha is dropped; a fully
// transparent color maps to tcell.ColorDefault so the terminal background
// shows through.
func (c Color) TCell() tcell.Color {
	if c.A == 0 {
		return tcell.ColorDefault
	}
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}

// FromTCell converts a tcell color to an opaque Color. Invalid and default
// colors become Transparent.
func FromTCell(tc tcell.Color) Color {
	if tc == tcell.ColorDefault || !tc.Valid() {
		return Transparent
	}
	r, g, b := tc.RGB()
	if r < 0 {
		return Transparent
	}
	return Color{R: uint8(r), G: uint8(g), B: uint8(b), A: 255}
}

var (
	mappingsMu sync.RWMutex
	mappings   = map[string]Color{
		"transparent": Transparent,
		"ansiwhite":   AnsiWhite,
	}
)

// RegisterColor adds or replaces a named color. Names are case-insensitive.
func RegisterColor(name string, c Color) {
	mappingsMu.Lock()
	defer mappingsMu.Unlock()
	mappings[strings.ToLower(name)] = c
}

// LookupColor resolves a color name. Host mappings win over the W3C names
// known to tcell. Hex literals (#rrggbb) are accepted as well.
func LookupColor(name string) (Color, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return Color{}, false
	}
	mappingsMu.RLock()
	c, ok := mappings[name]
	mappingsMu.RUnlock()
	if ok {
		return c, true
	}
	if tc, ok := tcell.ColorNames[name]; ok {
		return FromTCell(tc), true
	}
	if strings.HasPrefix(name, "#") {
		if tc := tcell.GetColor(name); tc != tcell.ColorDefault {
			return FromTCell(tc), true
		}
	}
	return Color{}, false
}

// ParsedColor is the result of ParseColor. Keep flags mark channels the
// caller should leave untouched; UseDefault means the value names the
// surface default rather than a concrete color.
type ParsedColor struct {
	Color      Color
	KeepR      bool
	KeepG      bool
	KeepB      bool
	KeepA      bool
	UseDefault bool
}

// ParseColor parses the parser color syntax: a color name, #rrggbb,
// "default", or R,G,B[,A] where each channel is 0-255 or x (keep).
func ParseColor(value string) (ParsedColor, error) {
	value = strings.TrimSpace(value)
	var p ParsedColor

	if strings.Contains(value, ",") {
		channels := strings.Split(value, ",")
		if len(channels) != 3 && len(channels) != 4 {
			return p, fmt.Errorf("%w: %q", ErrBadColor, value)
		}
		keeps := [4]*bool{&p.KeepR, &p.KeepG, &p.KeepB, &p.KeepA}
		dest := [4]*uint8{&p.Color.R, &p.Color.G, &p.Color.B, &p.Color.A}
		p.Color.A = 255
		for i, ch := range channels {
			ch = strings.TrimSpace(ch)
			if ch == "x" {
				*keeps[i] = true
				continue
			}
			n, err := strconv.ParseUint(ch, 10, 8)
			if err != nil {
				return p, fmt.Errorf("%w: channel %q", ErrBadColor, ch)
			}
			*dest[i] = uint8(n)
		}
		return p, nil
	}

	if strings.EqualFold(value, "default") {
		p.UseDefault = true
		return p, nil
	}

	c, ok := LookupColor(value)
	if !ok {
		return p, fmt.Errorf("%w: unknown name %q", ErrBadColor, value)
	}
	p.Color = c
	return p, nil
}

// Resolve merges the parsed color over base, honouring the keep flags.
func (p ParsedColor) Resolve(base Color) Color {
	out := base
	if !p.KeepR {
		out.R = p.Color.R
	}
	if !p.KeepG {
		out.G = p.Color.G
	}
	if !p.KeepB {
		out.B = p.Color.B
	}
	if !p.KeepA {
		out.A = p.Color.A
	}
	return out
}
