package setup

import (
	"errors"
	"fmt"
	"os"

	"github.com/bnema/eglpi/internal/config"
	"github.com/bnema/eglpi/internal/input"
	"github.com/bnema/eglpi/internal/logger"
	"github.com/charmbracelet/huh"
)

// ErrNoDevices is returned when the kernel lists no usable device of a kind
var ErrNoDevices = errors.New("no matching input devices")

// DeviceSetup handles interactive device selection and configuration
type DeviceSetup struct {
	path    string
	devices []input.DeviceInfo
}

// NewDeviceSetup creates a setup handler reading the device list at path.
// An empty path uses /proc/bus/input/devices.
func NewDeviceSetup(path string) *DeviceSetup {
	if path == "" {
		path = input.ProcDevicesPath
	}
	return &DeviceSetup{path: path}
}

// Load reads the kernel device list
func (ds *DeviceSetup) Load() error {
	devices, err := input.ListDevices(ds.path)
	if err != nil {
		return err
	}
	ds.devices = devices
	logger.Debug("Loaded input devices", "path", ds.path, "count", len(devices))
	return nil
}

// Devices returns the loaded device list
func (ds *DeviceSetup) Devices() []input.DeviceInfo {
	return ds.devices
}

// MouseOptions lists every device with a mousedev node
func (ds *DeviceSetup) MouseOptions() []huh.Option[string] {
	var opts []huh.Option[string]
	for _, d := range ds.devices {
		if node := d.MouseNode(); node != "" {
			opts = append(opts, huh.NewOption(fmt.Sprintf("%s (%s)", d.Name, node), node))
		}
	}
	return opts
}

// KeyboardOptions lists every keyboard with an evdev node
func (ds *DeviceSetup) KeyboardOptions() []huh.Option[string] {
	var opts []huh.Option[string]
	for _, d := range ds.devices {
		if node := d.EventNode(); node != "" && d.IsKeyboard() {
			opts = append(opts, huh.NewOption(fmt.Sprintf("%s (%s)", d.Name, node), node))
		}
	}
	return opts
}

// RunInteractiveSetup lets the user pick both devices and saves them to the config file
func (ds *DeviceSetup) RunInteractiveSetup() error {
	if ds.devices == nil {
		if err := ds.Load(); err != nil {
			return err
		}
	}

	mouseOpts := ds.MouseOptions()
	if len(mouseOpts) == 0 {
		return fmt.Errorf("mouse: %w", ErrNoDevices)
	}
	keyboardOpts := ds.KeyboardOptions()
	if len(keyboardOpts) == 0 {
		return fmt.Errorf("keyboard: %w", ErrNoDevices)
	}

	cfg := config.Get()
	mousePath := cfg.Input.MouseDevice
	keyboardPath := cfg.Input.KeyboardDevice

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Mouse device").
				Description("PS/2 style mousedev node read by the pointer decoder").
				Options(mouseOpts...).
				Value(&mousePath),
			huh.NewSelect[string]().
				Title("Keyboard device").
				Description("evdev node read by the key router").
				Options(keyboardOpts...).
				Value(&keyboardPath),
		),
	)

	if err := form.Run(); err != nil {
		return err
	}

	config.SetInputDevices(mousePath, keyboardPath)
	if err := config.Save(); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}

	logger.Info("Device configuration saved", "mouse", mousePath, "keyboard", keyboardPath, "path", config.GetConfigPath())
	return nil
}

// ValidateDevices checks that the configured nodes exist and can be opened
func (ds *DeviceSetup) ValidateDevices(cfg config.InputConfig) error {
	var errs []error
	for _, dev := range []struct{ kind, path string }{
		{"mouse", cfg.MouseDevice},
		{"keyboard", cfg.KeyboardDevice},
	} {
		if dev.path == "" {
			errs = append(errs, fmt.Errorf("no %s device configured", dev.kind))
			continue
		}
		file, err := os.Open(dev.path)
		if err != nil {
			errs = append(errs, fmt.Errorf("cannot access %s device %s: %w", dev.kind, dev.path, err))
			continue
		}
		if err := file.Close(); err != nil {
			logger.Debugf("Failed to close %s device file: %v", dev.kind, err)
		}
	}
	return errors.Join(errs...)
}
