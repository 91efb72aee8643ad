// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: markup/stacks.go
// Summary: Per-channel command stacks plus the global push-order stack.
// Usage: Owned by one Parse call, or threaded across calls by the caller.
// Notes: Entries are intrusive list elements so removal by identity is O(1)
// and never disturbs the order of the remaining commands.

package markup

import (
	"container/list"
	"strings"

	"github.com/framegrace/texelstyle/styled"
)

type links struct {
	owner   *Stacks
	channel *list.Element
	all     *list.Element
}

// Stacks holds the active commands of a parse. A command is present in its
// channel stack exactly when it is present in the All stack.
type Stacks struct {
	channels [stackedChannels]list.List
	all      list.List
	pool     []styled.Effect

	// EffectsEnabled is set by effect commands; parsed strings copy its
	// negation into IgnoreEffects.
	EffectsEnabled bool
}

// NewStacks returns an empty stack set.
func NewStacks() *Stacks {
	return &Stacks{}
}

// Push places cmd on top of its channel stack and the All stack. Pure
// commands and commands already owned by a stack set are rejected.
func (s *Stacks) Push(cmd Command) bool {
	b := cmd.base()
	ch := b.channel
	if ch < 0 || int(ch) >= stackedChannels || b.links.owner != nil {
		return false
	}
	b.links = links{
		owner:   s,
		channel: s.channels[ch].PushBack(cmd),
		all:     s.all.PushBack(cmd),
	}
	return true
}

// Remove takes cmd out of both stacks wherever it sits.
func (s *Stacks) Remove(cmd Command) bool {
	if cmd == nil {
		return false
	}
	b := cmd.base()
	if b.links.owner != s {
		return false
	}
	s.channels[b.channel].Remove(b.links.channel)
	s.all.Remove(b.links.all)
	b.links = links{}
	return true
}

// Top returns the most recently pushed command of ch, or nil.
func (s *Stacks) Top(ch Channel) Command {
	if ch < 0 || int(ch) >= stackedChannels {
		return nil
	}
	if e := s.channels[ch].Back(); e != nil {
		return e.Value.(Command)
	}
	return nil
}

// Len returns the depth of the channel stack.
func (s *Stacks) Len(ch Channel) int {
	if ch < 0 || int(ch) >= stackedChannels {
		return 0
	}
	return s.channels[ch].Len()
}

// Count returns the depth of the All stack.
func (s *Stacks) Count() int { return s.all.Len() }

// Pop removes and returns the top of ch, or nil when empty.
func (s *Stacks) Pop(ch Channel) Command {
	cmd := s.Top(ch)
	if cmd != nil {
		s.Remove(cmd)
	}
	return cmd
}

// PopAll removes and returns the most recently pushed command of any channel.
func (s *Stacks) PopAll() Command {
	e := s.all.Back()
	if e == nil {
		return nil
	}
	cmd := e.Value.(Command)
	s.Remove(cmd)
	return cmd
}

// All returns the active commands in push order, oldest first.
func (s *Stacks) All() []Command {
	out := make([]Command, 0, s.all.Len())
	for e := s.all.Front(); e != nil; e = e.Next() {
		out = append(out, e.Value.(Command))
	}
	return out
}

// FindTag returns the innermost open command whose tag equals tag,
// ignoring case.
func (s *Stacks) FindTag(tag string) Command {
	tag = strings.ToLower(tag)
	if tag == "" {
		return nil
	}
	for e := s.all.Back(); e != nil; e = e.Prev() {
		cmd := e.Value.(Command)
		if cmd.base().tag == tag {
			return cmd
		}
	}
	return nil
}

// Clear removes every command. The effect pool is kept.
func (s *Stacks) Clear() {
	for s.PopAll() != nil {
	}
}

// expireWordScoped drops every until-whitespace command; the end of a
// parsed string ends the word.
func (s *Stacks) expireWordScoped() {
	for e := s.all.Front(); e != nil; {
		next := e.Next()
		cmd := e.Value.(Command)
		if cmd.base().life.Kind == LifetimeUntilWhitespace {
			s.Remove(cmd)
		}
		e = next
	}
}

// Effects returns the effect handles remembered by this stack set.
func (s *Stacks) Effects() []styled.Effect {
	return append([]styled.Effect(nil), s.pool...)
}

// RememberEffect adds a handle to the reuse pool.
func (s *Stacks) RememberEffect(e styled.Effect) {
	if e == nil {
		return
	}
	for _, known := range s.pool {
		if known == e {
			return
		}
	}
	s.pool = append(s.pool, e)
}
