package input

import (
	"errors"
	"fmt"
	"io"

	"github.com/bnema/eglpi/internal/logger"
	"golang.org/x/sys/unix"
)

// ErrNoData is returned by Device.Read when a non-blocking read finds nothing queued
var ErrNoData = errors.New("no data available")

// imps2Sequence is the set-sample-rate knock (200, 100, 80) that switches mousedev to
// IntelliMouse reports with a fourth, wheel byte.
var imps2Sequence = []byte{0xf3, 200, 0xf3, 100, 0xf3, 80}

// ps2Ack is the byte mousedev queues in answer to each command written to it
const ps2Ack = 0xfa

// Device is an open input device node
type Device interface {
	io.ReadWriteCloser
}

// Opener opens device nodes. flags are unix.O_* open flags.
type Opener interface {
	Open(path string, flags int) (Device, error)
}

// OpenerFunc adapts a function to Opener
type OpenerFunc func(path string, flags int) (Device, error)

// Open calls f(path, flags)
func (f OpenerFunc) Open(path string, flags int) (Device, error) {
	return f(path, flags)
}

// fdDevice wraps a raw non-blocking file descriptor
type fdDevice struct {
	fd   int
	path string
}

// UnixOpener opens device nodes with open(2) so reads stay truly non-blocking
var UnixOpener Opener = OpenerFunc(func(path string, flags int) (Device, error) {
	fd, err := unix.Open(path, flags|unix.O_CLOEXEC, 0)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return &fdDevice{fd: fd, path: path}, nil
})

func (d *fdDevice) Read(p []byte) (int, error) {
	n, err := unix.Read(d.fd, p)
	if err != nil {
		if errors.Is(err, unix.EAGAIN) || errors.Is(err, unix.EINTR) {
			return 0, ErrNoData
		}
		return 0, fmt.Errorf("read %s: %w", d.path, err)
	}
	if n == 0 {
		return 0, io.EOF
	}
	return n, nil
}

func (d *fdDevice) Write(p []byte) (int, error) {
	n, err := unix.Write(d.fd, p)
	if err != nil {
		return 0, fmt.Errorf("write %s: %w", d.path, err)
	}
	return n, nil
}

func (d *fdDevice) Close() error {
	return unix.Close(d.fd)
}

// DeviceConfig names the device nodes to use
type DeviceConfig struct {
	MousePath    string
	KeyboardPath string
	// ScrollMode writes the IMPS/2 knock after the mouse is opened
	ScrollMode bool
}

// DefaultDeviceConfig matches a Raspberry Pi with one USB mouse and keyboard
func DefaultDeviceConfig() DeviceConfig {
	return DeviceConfig{
		MousePath:    "/dev/input/mouse0",
		KeyboardPath: "/dev/input/event1",
		ScrollMode:   true,
	}
}

// Devices lazily opens the pointer and keyboard nodes on first use
type Devices struct {
	config DeviceConfig
	opener Opener
}

// NewDevices creates a device manager. A nil opener means UnixOpener.
func NewDevices(config DeviceConfig, opener Opener) *Devices {
	if opener == nil {
		opener = UnixOpener
	}
	return &Devices{config: config, opener: opener}
}

// Config returns the device configuration
func (d *Devices) Config() DeviceConfig {
	return d.config
}

// AcquireMouse returns the mouse device, opening it on the first call. In scroll mode a
// node that cannot be opened read-write is opened read-only with 3-byte records, within
// the same acquisition. It returns nil while the device is unavailable; callers treat
// that as "no input".
func (d *Devices) AcquireMouse(state *InputState) Device {
	slot := &state.mouse
	if slot.status != slotUnopened {
		return validDevice(slot)
	}

	var (
		dev    Device
		err    error
		scroll = d.config.ScrollMode
	)
	if scroll {
		// The knock has to be written, so try a writable handle first
		dev, err = d.opener.Open(d.config.MousePath, unix.O_RDWR|unix.O_NONBLOCK)
		if err != nil {
			logger.Debug("Mouse not writable, opening read-only without IMPS/2", "path", d.config.MousePath, "error", err)
			scroll = false
		}
	}
	if dev == nil {
		dev, err = d.opener.Open(d.config.MousePath, unix.O_RDONLY|unix.O_NONBLOCK)
	}
	if err != nil {
		slot.status = slotUnavailable
		logger.Warn("Mouse device unavailable", "path", d.config.MousePath, "error", err)
		return nil
	}
	slot.dev = dev
	slot.status = slotOpen
	state.mouseRecordSize = motionRecordSize

	if scroll {
		if enableScrollMode(dev) {
			state.mouseRecordSize = scrollRecordSize
			logger.Debug("Mouse switched to IMPS/2 mode", "path", d.config.MousePath)
		} else {
			logger.Warn("Mouse rejected IMPS/2 mode, using 3-byte reports", "path", d.config.MousePath)
		}
	}

	logger.Info("Opened mouse device", "path", d.config.MousePath, "record_size", state.mouseRecordSize)
	return dev
}

// enableScrollMode writes the IMPS/2 knock and swallows the acknowledgement
func enableScrollMode(dev Device) bool {
	n, err := dev.Write(imps2Sequence)
	if err != nil || n != len(imps2Sequence) {
		logger.Debug("IMPS/2 write failed", "written", n, "error", err)
		return false
	}

	var ack [8]byte
	n, err = dev.Read(ack[:])
	if err != nil {
		// No ack queued yet; the first motion read will realign on record size
		return true
	}
	for _, b := range ack[:n] {
		if b != ps2Ack {
			logger.Debug("Unexpected byte while draining IMPS/2 ack", "byte", b)
		}
	}
	return true
}

// AcquireKeyboard returns the keyboard device, opening it on the first call
func (d *Devices) AcquireKeyboard(state *InputState) Device {
	slot := &state.keyboard
	if slot.status != slotUnopened {
		return validDevice(slot)
	}

	dev, err := d.opener.Open(d.config.KeyboardPath, unix.O_RDONLY|unix.O_NONBLOCK)
	if err != nil {
		slot.status = slotUnavailable
		logger.Warn("Keyboard device unavailable", "path", d.config.KeyboardPath, "error", err)
		return nil
	}
	slot.dev = dev
	slot.status = slotOpen

	logger.Info("Opened keyboard device", "path", d.config.KeyboardPath)
	return dev
}

func validDevice(slot *deviceSlot) Device {
	if slot.valid() {
		return slot.dev
	}
	return nil
}

// Close closes the keyboard and then the mouse. Closed slots are never reopened.
func (d *Devices) Close(state *InputState) error {
	var errs []error
	for _, slot := range []*deviceSlot{&state.keyboard, &state.mouse} {
		if slot.valid() {
			if err := slot.dev.Close(); err != nil {
				errs = append(errs, err)
			}
		}
		slot.dev = nil
		slot.status = slotClosed
	}
	return errors.Join(errs...)
}

// Closer binds Close to one state so it can be handed to shutdown code as an io.Closer
func (d *Devices) Closer(state *InputState) io.Closer {
	return stateCloser{devices: d, state: state}
}

type stateCloser struct {
	devices *Devices
	state   *InputState
}

func (c stateCloser) Close() error {
	return c.devices.Close(c.state)
}

// Status reports the lifecycle status of both devices, for diagnostics
func (d *Devices) Status(state *InputState) (mouse, keyboard string) {
	return state.mouse.status.String(), state.keyboard.status.String()
}
