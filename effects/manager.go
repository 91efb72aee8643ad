// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: effects/manager.go
// Summary: Tracks the effect handles in use by a surface.
// Usage: Surfaces register handles as cells are printed and call Update per frame.

package effects

import (
	"sync"
	"time"

	"github.com/framegrace/texelstyle/styled"
)

// Animated is implemented by handles that change over time.
type Animated interface {
	styled.Effect
	Update(now time.Time)
	Active() bool
}

// CellApplier is implemented by handles that alter a cell when drawn.
type CellApplier interface {
	ApplyCell(cell *styled.Cell)
}

// Manager keeps a reference-counted set of effect handles.
type Manager struct {
	mu      sync.RWMutex
	order   []styled.Effect
	refs    map[styled.Effect]int
	frameCh chan<- struct{}
}

func NewManager() *Manager {
	return &Manager{refs: make(map[styled.Effect]int)}
}

// AttachRenderChannel sets a channel that receives a non-blocking signal
// after each Update in which an animated handle is still active.
func (m *Manager) AttachRenderChannel(ch chan<- struct{}) {
	m.mu.Lock()
	m.frameCh = ch
	m.mu.Unlock()
}

// Retain records one more cell using effect. Nil handles are ignored.
func (m *Manager) Retain(effect styled.Effect) {
	if m == nil || effect == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.refs[effect] == 0 {
		m.order = append(m.order, effect)
	}
	m.refs[effect]++
}

// Release drops one reference to effect, forgetting it at zero.
func (m *Manager) Release(effect styled.Effect) {
	if m == nil || effect == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	n, ok := m.refs[effect]
	if !ok {
		return
	}
	if n > 1 {
		m.refs[effect] = n - 1
		return
	}
	delete(m.refs, effect)
	for i, e := range m.order {
		if e == effect {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
}

// InUse returns the tracked handles in first-use order.
func (m *Manager) InUse() []styled.Effect {
	if m == nil {
		return nil
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]styled.Effect(nil), m.order...)
}

// Update advances every animated handle to now.
func (m *Manager) Update(now time.Time) {
	if m == nil {
		return
	}
	m.mu.RLock()
	handles := append([]styled.Effect(nil), m.order...)
	ch := m.frameCh
	m.mu.RUnlock()

	needsFrame := false
	for _, h := range handles {
		if a, ok := h.(Animated); ok {
			a.Update(now)
			if a.Active() {
				needsFrame = true
			}
		}
	}
	if needsFrame && ch != nil {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// Restart resets every tracked handle that supports it, so shared
// animations start over in phase.
func (m *Manager) Restart() {
	for _, h := range m.InUse() {
		if r, ok := h.(Restarter); ok {
			r.Restart()
		}
	}
}

// Apply runs the cell's effect, if it has one that knows how to draw.
func Apply(cell *styled.Cell) {
	if cell == nil || cell.Effect == nil {
		return
	}
	if ca, ok := cell.Effect.(CellApplier); ok {
		ca.ApplyCell(cell)
	}
}
