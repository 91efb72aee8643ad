// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: cmd/texelstyle/preview.go
// Summary: Full screen tcell view of parsed lines with animated effects.
// Notes: Esc, q or Ctrl-C quits.

package main

import (
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/framegrace/texelstyle/styled"
	"github.com/framegrace/texelstyle/surface"
)

const frameInterval = 50 * time.Millisecond

func preview(lines []*styled.String, fg, bg styled.Color) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("init screen: %w", err)
	}
	defer screen.Fini()

	w, h := screen.Size()
	buf := layout(lines, w, h, fg, bg)

	frames := make(chan struct{}, 1)
	buf.Effects().AttachRenderChannel(frames)

	quit := make(chan struct{})
	resized := make(chan struct{}, 1)
	go func() {
		for {
			switch ev := screen.PollEvent().(type) {
			case nil:
				return
			case *tcell.EventResize:
				select {
				case resized <- struct{}{}:
				default:
				}
			case *tcell.EventKey:
				if ev.Key() == tcell.KeyEsc || ev.Key() == tcell.KeyCtrlC || ev.Rune() == 'q' {
					close(quit)
					return
				}
			}
		}
	}()

	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()

	render := func() {
		screen.Clear()
		buf.Draw(screen, 0, 0)
		screen.Show()
	}
	render()
	for {
		select {
		case <-quit:
			return nil
		case <-resized:
			w, h = screen.Size()
			buf = layout(lines, w, h, fg, bg)
			buf.Effects().AttachRenderChannel(frames)
			buf.Effects().Restart()
			screen.Sync()
			render()
		case now := <-ticker.C:
			buf.Effects().Update(now)
		case <-frames:
			render()
		}
	}
}

// layout prints each line on its own row, clipped to width.
func layout(lines []*styled.String, width, height int, fg, bg styled.Color) *surface.Buffer {
	buf := surface.New(width, height, fg, bg)
	for y, line := range lines {
		if y >= height {
			break
		}
		if line.Len() > width {
			line = line.Sub(0, width)
		}
		buf.Print(buf.Index(0, y), line)
	}
	return buf
}
