// Package inject drives a virtual uinput mouse and keyboard so the frame loop can be
// exercised on real hardware without anyone at the keyboard.
package inject

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/ThomasT75/uinput"
	"github.com/bnema/eglpi/internal/input"
	"github.com/bnema/eglpi/internal/logger"
)

// DefaultUinputPath is the uinput control node
const DefaultUinputPath = "/dev/uinput"

// Mouse is the part of a uinput mouse the injector drives
type Mouse interface {
	Move(x, y int32) error
	io.Closer
}

// Keyboard is the part of a uinput keyboard the injector drives
type Keyboard interface {
	KeyDown(key int) error
	KeyUp(key int) error
	io.Closer
}

// StepKind identifies what a Step does
type StepKind int

const (
	StepMove StepKind = iota
	StepKey
	StepWait
)

// Step is one scripted action
type Step struct {
	Kind  StepKind
	DX    int32
	DY    int32
	Key   input.KeyCode
	Delay time.Duration
}

func (s Step) String() string {
	switch s.Kind {
	case StepMove:
		return fmt.Sprintf("move:%d,%d", s.DX, s.DY)
	case StepKey:
		return "key:" + strings.ToLower(s.Key.String())
	case StepWait:
		return "wait:" + s.Delay.String()
	}
	return "unknown"
}

// ParseStep parses "move:DX,DY", "key:NAME" or "wait:DURATION"
func ParseStep(text string) (Step, error) {
	kind, arg, ok := strings.Cut(strings.TrimSpace(text), ":")
	if !ok || arg == "" {
		return Step{}, fmt.Errorf("invalid step %q: expected kind:argument", text)
	}

	switch strings.ToLower(kind) {
	case "move":
		xs, ys, ok := strings.Cut(arg, ",")
		if !ok {
			return Step{}, fmt.Errorf("invalid move %q: expected DX,DY", arg)
		}
		dx, err := strconv.ParseInt(strings.TrimSpace(xs), 10, 32)
		if err != nil {
			return Step{}, fmt.Errorf("invalid move dx %q: %w", xs, err)
		}
		dy, err := strconv.ParseInt(strings.TrimSpace(ys), 10, 32)
		if err != nil {
			return Step{}, fmt.Errorf("invalid move dy %q: %w", ys, err)
		}
		return Step{Kind: StepMove, DX: int32(dx), DY: int32(dy)}, nil

	case "key":
		code, err := input.ParseKeyName(arg)
		if err != nil {
			return Step{}, err
		}
		return Step{Kind: StepKey, Key: code}, nil

	case "wait":
		d, err := time.ParseDuration(arg)
		if err != nil {
			return Step{}, fmt.Errorf("invalid wait %q: %w", arg, err)
		}
		if d < 0 {
			return Step{}, fmt.Errorf("invalid wait %q: negative duration", arg)
		}
		return Step{Kind: StepWait, Delay: d}, nil
	}

	return Step{}, fmt.Errorf("unknown step kind %q", kind)
}

// ParseScript parses every step, stopping at the first invalid one
func ParseScript(steps []string) ([]Step, error) {
	out := make([]Step, 0, len(steps))
	for i, text := range steps {
		s, err := ParseStep(text)
		if err != nil {
			return nil, fmt.Errorf("step %d: %w", i+1, err)
		}
		out = append(out, s)
	}
	return out, nil
}

// Injector replays steps on a virtual mouse and keyboard
type Injector struct {
	mouse    Mouse
	keyboard Keyboard

	// Gap is inserted between steps and between key down and key up
	Gap time.Duration
}

// New wraps existing devices. Either may be nil if the script never uses it.
func New(mouse Mouse, keyboard Keyboard) *Injector {
	return &Injector{mouse: mouse, keyboard: keyboard, Gap: 20 * time.Millisecond}
}

// Open creates a virtual mouse and keyboard on the uinput node at path
func Open(path, name string) (*Injector, error) {
	if path == "" {
		path = DefaultUinputPath
	}

	mouse, err := uinput.CreateMouse(path, []byte(name+" Mouse"))
	if err != nil {
		return nil, fmt.Errorf("failed to create virtual mouse: %w", err)
	}

	keyboard, err := uinput.CreateKeyboard(path, []byte(name+" Keyboard"))
	if err != nil {
		_ = mouse.Close()
		return nil, fmt.Errorf("failed to create virtual keyboard: %w", err)
	}

	logger.Info("Virtual input devices created", "path", path, "name", name)
	return New(mouse, keyboard), nil
}

// Run executes steps in order until one fails or ctx is cancelled
func (j *Injector) Run(ctx context.Context, steps []Step) error {
	for i, s := range steps {
		if err := ctx.Err(); err != nil {
			return err
		}
		logger.Debug("Injecting step", "index", i, "step", s)
		if err := j.apply(ctx, s); err != nil {
			return fmt.Errorf("step %d (%s): %w", i+1, s, err)
		}
		if err := j.wait(ctx, j.Gap); err != nil {
			return err
		}
	}
	return nil
}

func (j *Injector) apply(ctx context.Context, s Step) error {
	switch s.Kind {
	case StepMove:
		if j.mouse == nil {
			return errors.New("no virtual mouse")
		}
		return j.mouse.Move(s.DX, s.DY)

	case StepKey:
		if j.keyboard == nil {
			return errors.New("no virtual keyboard")
		}
		if err := j.keyboard.KeyDown(int(s.Key)); err != nil {
			return err
		}
		if err := j.wait(ctx, j.Gap); err != nil {
			_ = j.keyboard.KeyUp(int(s.Key))
			return err
		}
		return j.keyboard.KeyUp(int(s.Key))

	case StepWait:
		return j.wait(ctx, s.Delay)
	}
	return fmt.Errorf("unknown step kind %d", s.Kind)
}

func (j *Injector) wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Close destroys both virtual devices
func (j *Injector) Close() error {
	var errs []error
	if j.keyboard != nil {
		if err := j.keyboard.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close keyboard: %w", err))
		}
	}
	if j.mouse != nil {
		if err := j.mouse.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close mouse: %w", err))
		}
	}
	return errors.Join(errs...)
}
