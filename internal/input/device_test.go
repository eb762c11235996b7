package input

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDevicesLazyOpenIsIdempotent(t *testing.T) {
	opener := newFakeOpener()
	mouse := &fakeDevice{}
	keyboard := &fakeDevice{}
	opener.devices[testMousePath] = mouse
	opener.devices[testKeyboardPath] = keyboard

	devices := NewDevices(testDeviceConfig(false), opener)
	state := NewInputState(640, 480)

	assert.Zero(t, opener.attempts[testMousePath])
	assert.Zero(t, opener.attempts[testKeyboardPath])

	for i := 0; i < 5; i++ {
		assert.Same(t, mouse, devices.AcquireMouse(state))
		assert.Same(t, keyboard, devices.AcquireKeyboard(state))
	}

	assert.Equal(t, 1, opener.attempts[testMousePath])
	assert.Equal(t, 1, opener.attempts[testKeyboardPath])

	m, k := devices.Status(state)
	assert.Equal(t, "open", m)
	assert.Equal(t, "open", k)
}

func TestDevicesFailedOpenIsNotRetried(t *testing.T) {
	opener := newFakeOpener()
	devices := NewDevices(testDeviceConfig(true), opener)
	state := NewInputState(640, 480)

	for i := 0; i < 5; i++ {
		assert.Nil(t, devices.AcquireMouse(state))
		assert.Nil(t, devices.AcquireKeyboard(state))
	}

	// Plugging the device in later does not help: there is no hot-plug
	opener.devices[testMousePath] = &fakeDevice{}
	assert.Nil(t, devices.AcquireMouse(state))

	// Scroll mode tries read-write and then read-only, once
	assert.Equal(t, 2, opener.attempts[testMousePath])
	assert.Equal(t, 1, opener.attempts[testKeyboardPath])

	m, k := devices.Status(state)
	assert.Equal(t, "unavailable", m)
	assert.Equal(t, "unavailable", k)
}

func TestDevicesClose(t *testing.T) {
	var order []string
	opener := newFakeOpener()
	mouse := &fakeDevice{name: "mouse", closeOrder: &order}
	keyboard := &fakeDevice{name: "keyboard", closeOrder: &order}
	opener.devices[testMousePath] = mouse
	opener.devices[testKeyboardPath] = keyboard

	devices := NewDevices(testDeviceConfig(false), opener)
	state := NewInputState(640, 480)
	devices.AcquireMouse(state)
	devices.AcquireKeyboard(state)

	require.NoError(t, devices.Closer(state).Close())
	assert.Equal(t, []string{"keyboard", "mouse"}, order)

	// Second close and later acquires are no-ops
	require.NoError(t, devices.Close(state))
	assert.Nil(t, devices.AcquireMouse(state))
	assert.Nil(t, devices.AcquireKeyboard(state))
	assert.Equal(t, 1, mouse.closed)
	assert.Equal(t, 1, keyboard.closed)
	assert.Equal(t, 1, opener.attempts[testMousePath])
}

func TestDevicesCloseUnopened(t *testing.T) {
	opener := newFakeOpener()
	devices := NewDevices(testDeviceConfig(false), opener)
	state := NewInputState(640, 480)

	require.NoError(t, devices.Close(state))
	assert.Nil(t, devices.AcquireKeyboard(state))
	assert.Zero(t, opener.attempts[testKeyboardPath])
}

type failingCloseDevice struct{ fakeDevice }

func (f *failingCloseDevice) Close() error { return errors.New("close failed") }

func TestDevicesCloseReportsErrors(t *testing.T) {
	opener := newFakeOpener()
	devices := NewDevices(testDeviceConfig(false), OpenerFunc(func(path string, flags int) (Device, error) {
		opener.attempts[path]++
		return &failingCloseDevice{}, nil
	}))
	state := NewInputState(640, 480)
	devices.AcquireKeyboard(state)

	err := devices.Close(state)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "close failed")
}

func TestUnixOpenerMissingNode(t *testing.T) {
	_, err := UnixOpener.Open("/dev/input/does-not-exist", 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does-not-exist")
}

func TestDefaultDeviceConfig(t *testing.T) {
	cfg := DefaultDeviceConfig()
	assert.Equal(t, "/dev/input/mouse0", cfg.MousePath)
	assert.Equal(t, "/dev/input/event1", cfg.KeyboardPath)
	assert.True(t, cfg.ScrollMode)
	assert.Equal(t, cfg, NewDevices(cfg, nil).Config())
}

const procSample = `I: Bus=0003 Vendor=046d Product=c077 Version=0111
N: Name="Logitech USB Optical Mouse"
P: Phys=usb-3f980000.usb-1.3/input0
H: Handlers=mouse0 event0
B: EV=17

I: Bus=0003 Vendor=04d9 Product=1603 Version=0110
N: Name="USB Keyboard"
P: Phys=usb-3f980000.usb-1.2/input0
H: Handlers=sysrq kbd leds event1
B: EV=120013
`

func TestParseDevices(t *testing.T) {
	devices, err := ParseDevices(strings.NewReader(procSample))
	require.NoError(t, err)
	require.Len(t, devices, 2)

	mouse := devices[0]
	assert.Equal(t, "Logitech USB Optical Mouse", mouse.Name)
	assert.Equal(t, "usb-3f980000.usb-1.3/input0", mouse.Phys)
	assert.True(t, mouse.IsMouse())
	assert.False(t, mouse.IsKeyboard())
	assert.Equal(t, "/dev/input/mouse0", mouse.MouseNode())
	assert.Equal(t, "/dev/input/event0", mouse.EventNode())

	kbd := devices[1]
	assert.True(t, kbd.IsKeyboard())
	assert.False(t, kbd.IsMouse())
	assert.Equal(t, "/dev/input/event1", kbd.EventNode())
	assert.Equal(t, "", kbd.MouseNode())
}

func TestListDevicesMissingFile(t *testing.T) {
	_, err := ListDevices("/nonexistent/devices")
	assert.Error(t, err)
}

func TestKeyCodeString(t *testing.T) {
	assert.Equal(t, "ESC", KeyEsc.String())
	assert.Equal(t, "KEY_200", KeyCode(200).String())
}
