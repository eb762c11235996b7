// Package app drives the per-frame host loop: poll keys, poll the pointer, render,
// present, and stop once a close was requested.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/bnema/eglpi/internal/input"
	"github.com/bnema/eglpi/internal/logger"
)

// FrameFunc renders one frame with the normalized cursor
type FrameFunc func(x, y float32)

// Loop wires the input pollers to a renderer and a present call
type Loop struct {
	State  *input.InputState
	Keys   *input.KeyEventRouter
	Mouse  *input.MouseDecoder
	Target input.CommandTarget

	// Frame and Present are optional
	Frame   FrameFunc
	Present func() error

	// FPS caps the frame rate; 0 runs unpaced
	FPS int

	// StatsEvery is how often frame statistics are logged at debug level
	StatsEvery time.Duration

	frames int
}

// FrameResult is what one Step observed
type FrameResult struct {
	Command input.Command
	X, Y    float32
}

// Step runs the input half of a frame: one key poll, one pointer poll
func (l *Loop) Step() FrameResult {
	cmd := l.Keys.Poll(l.State, l.Target)
	x, y := l.Mouse.Poll(l.State)
	return FrameResult{Command: cmd, X: x, Y: y}
}

// Frames returns the number of presented frames
func (l *Loop) Frames() int {
	return l.frames
}

// Run loops until the close flag is set, ctx is cancelled or present fails. Both stop
// conditions are only checked between frames.
func (l *Loop) Run(ctx context.Context) error {
	var tick <-chan time.Time
	if l.FPS > 0 {
		ticker := time.NewTicker(time.Second / time.Duration(l.FPS))
		defer ticker.Stop()
		tick = ticker.C
	}

	statsEvery := l.StatsEvery
	if statsEvery <= 0 {
		statsEvery = 5 * time.Second
	}
	lastStats := time.Now()
	framesAtStats := 0

	for {
		if l.State.ShouldClose() {
			logger.Info("Close requested, leaving frame loop", "frames", l.frames)
			return nil
		}
		if err := ctx.Err(); err != nil {
			logger.Info("Frame loop cancelled", "frames", l.frames)
			return nil
		}

		res := l.Step()
		if l.Frame != nil {
			l.Frame(res.X, res.Y)
		}
		if l.Present != nil {
			if err := l.Present(); err != nil {
				return fmt.Errorf("present frame %d: %w", l.frames, err)
			}
		}
		l.frames++

		if elapsed := time.Since(lastStats); elapsed >= statsEvery {
			fps := float64(l.frames-framesAtStats) / elapsed.Seconds()
			cx, cy := l.State.Cursor()
			logger.Debug("Frame stats", "fps", fmt.Sprintf("%.1f", fps), "cursor_x", cx, "cursor_y", cy)
			lastStats = time.Now()
			framesAtStats = l.frames
		}

		if tick != nil {
			select {
			case <-ctx.Done():
			case <-tick:
			}
		}
	}
}
