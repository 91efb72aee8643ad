// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: styled/gradient.go
// Summary: Multi-stop color gradients with evenly spaced stops.

package styled

import (
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// Gradient interpolates across evenly spaced color stops.
type Gradient struct {
	stops []Color
}

// NewGradient builds a gradient. A single color is treated as a flat
// two-stop gradient. It returns nil when no colors are given.
func NewGradient(colors ...Color) *Gradient {
	switch len(colors) {
	case 0:
		return nil
	case 1:
		return &Gradient{stops: []Color{colors[0], colors[0]}}
	}
	return &Gradient{stops: append([]Color(nil), colors...)}
}

// Stops returns the gradient stops.
func (g *Gradient) Stops() []Color { return append([]Color(nil), g.stops...) }

// At returns the color at position t in [0,1]. Values outside the range
// are clamped.
func (g *Gradient) At(t float64) Color {
	if t <= 0 || math.IsNaN(t) {
		return g.stops[0]
	}
	last := len(g.stops) - 1
	if t >= 1 {
		return g.stops[last]
	}
	segment := 1.0 / float64(last)
	idx := int(t / segment)
	if idx >= last {
		idx = last - 1
	}
	local := (t - float64(idx)*segment) / segment
	return Lerp(g.stops[idx], g.stops[idx+1], local)
}

// Ramp samples n colors where element k is At(k/(n-1)).
func (g *Gradient) Ramp(n int) []Color {
	if n <= 0 {
		return nil
	}
	out := make([]Color, n)
	if n == 1 {
		out[0] = g.stops[0]
		return out
	}
	for k := 0; k < n; k++ {
		out[k] = g.At(float64(k) / float64(n-1))
	}
	return out
}

// Lerp blends a toward b by t in RGB space. Alpha is interpolated linearly.
func Lerp(a, b Color, t float64) Color {
	ca := colorful.Color{R: float64(a.R) / 255, G: float64(a.G) / 255, B: float64(a.B) / 255}
	cb := colorful.Color{R: float64(b.R) / 255, G: float64(b.G) / 255, B: float64(b.B) / 255}
	r, g, bl := ca.BlendRgb(cb, t).RGB255()
	alpha := float64(a.A) + (float64(b.A)-float64(a.A))*t
	return Color{R: r, G: g, B: bl, A: uint8(math.Round(alpha))}
}
