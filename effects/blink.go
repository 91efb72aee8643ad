// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: effects/blink.go
// Summary: Shared blink effect handle attached to styled cells.
// Usage: Created by the markup blink command, advanced by Manager.Update.
// Notes: Every cell pointing at the same handle blinks in phase.

package effects

import (
	"sync"
	"time"

	"github.com/framegrace/texelstyle/styled"
)

// DefaultBlinkSpeed is the half period used when a blink omits its speed.
const DefaultBlinkSpeed = 350 * time.Millisecond

// Blink toggles cell visibility every Speed. The zero phase is visible.
type Blink struct {
	// Speed is the duration of one visible or hidden phase.
	Speed time.Duration

	mu      sync.Mutex
	started time.Time
	hidden  bool
}

// NewBlink creates a blink handle. Non-positive speeds use DefaultBlinkSpeed.
func NewBlink(speed time.Duration) *Blink {
	if speed <= 0 {
		speed = DefaultBlinkSpeed
	}
	return &Blink{Speed: speed}
}

func (b *Blink) ID() string { return "blink" }

// Matches reports whether b can stand in for a blink of the given speed.
func (b *Blink) Matches(speed time.Duration) bool {
	if speed <= 0 {
		speed = DefaultBlinkSpeed
	}
	return b.Speed == speed
}

// Update advances the blink phase to now.
func (b *Blink) Update(now time.Time) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.started.IsZero() {
		b.started = now
		b.hidden = false
		return
	}
	elapsed := now.Sub(b.started)
	if elapsed < 0 {
		b.hidden = false
		return
	}
	b.hidden = (elapsed/b.Speed)%2 == 1
}

// Visible reports the phase computed by the last Update.
func (b *Blink) Visible() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return !b.hidden
}

// Active is always true; a blink never settles.
func (b *Blink) Active() bool { return true }

// Restart resets the phase so the next Update starts visible.
func (b *Blink) Restart() {
	b.mu.Lock()
	b.started = time.Time{}
	b.hidden = false
	b.mu.Unlock()
}

// ApplyCell hides the glyph during the hidden phase by painting the
// foreground with the background color.
func (b *Blink) ApplyCell(cell *styled.Cell) {
	if b.Visible() {
		return
	}
	cell.Foreground = cell.Background
	for i := range cell.Decorators {
		cell.Decorators[i].Color = cell.Background
	}
}
