package app

import (
	"fmt"

	"github.com/bnema/eglpi/internal/config"
	"github.com/bnema/eglpi/internal/input"
)

// Input bundles the input components that share one InputState
type Input struct {
	Devices *input.Devices
	State   *input.InputState
	Keys    *input.KeyEventRouter
	Mouse   *input.MouseDecoder
}

// NewInput builds the input layer for a width x height screen. A nil opener uses
// real device nodes.
func NewInput(cfg config.InputConfig, width, height int, opener input.Opener) (*Input, error) {
	translator, err := input.NewLayoutTranslator(cfg.KeyboardLayout)
	if err != nil {
		return nil, fmt.Errorf("keyboard layout: %w", err)
	}

	devices := input.NewDevices(input.DeviceConfig{
		MousePath:    cfg.MouseDevice,
		KeyboardPath: cfg.KeyboardDevice,
		ScrollMode:   cfg.ScrollMode,
	}, opener)

	return &Input{
		Devices: devices,
		State:   input.NewInputState(width, height),
		Keys:    input.NewKeyEventRouter(devices, translator),
		Mouse:   input.NewMouseDecoder(devices),
	}, nil
}

// Loop returns a frame loop over this input
func (in *Input) Loop(target input.CommandTarget) *Loop {
	return &Loop{
		State:  in.State,
		Keys:   in.Keys,
		Mouse:  in.Mouse,
		Target: target,
	}
}

// Close releases the device nodes
func (in *Input) Close() error {
	return in.Devices.Close(in.State)
}
