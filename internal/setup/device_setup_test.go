package setup

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/bnema/eglpi/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const devicesFixture = `I: Bus=0003 Vendor=046d Product=c077 Version=0111
N: Name="Logitech USB Optical Mouse"
P: Phys=usb-3f980000.usb-1.2/input0
H: Handlers=mouse0 event0

I: Bus=0003 Vendor=04d9 Product=0006 Version=0111
N: Name="USB Keyboard"
P: Phys=usb-3f980000.usb-1.3/input0
H: Handlers=sysrq kbd leds event1

I: Bus=0019 Vendor=0000 Product=0001 Version=0000
N: Name="Power Button"
P: Phys=LNXPWRBN/button/input0
H: Handlers=kbd event2

I: Bus=0000 Vendor=0000 Product=0000 Version=0000
N: Name="vc4-hdmi"
P: Phys=vc4-hdmi/input0
H: Handlers=event3
`

func writeFixture(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "devices")
	require.NoError(t, os.WriteFile(path, []byte(devicesFixture), 0644))
	return path
}

func TestDeviceSetupOptions(t *testing.T) {
	ds := NewDeviceSetup(writeFixture(t))
	require.NoError(t, ds.Load())
	assert.Len(t, ds.Devices(), 4)

	mice := ds.MouseOptions()
	require.Len(t, mice, 1)
	assert.Equal(t, "/dev/input/mouse0", mice[0].Value)
	assert.Contains(t, mice[0].Key, "Logitech")

	keyboards := ds.KeyboardOptions()
	require.Len(t, keyboards, 2)
	assert.Equal(t, "/dev/input/event1", keyboards[0].Value)
	assert.Equal(t, "/dev/input/event2", keyboards[1].Value)
}

func TestDeviceSetupLoadMissing(t *testing.T) {
	ds := NewDeviceSetup(filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, ds.Load())
	assert.Error(t, ds.RunInteractiveSetup())
}

func TestDeviceSetupNoMice(t *testing.T) {
	path := filepath.Join(t.TempDir(), "devices")
	require.NoError(t, os.WriteFile(path, []byte("N: Name=\"kbd\"\nH: Handlers=kbd event1\n"), 0644))

	ds := NewDeviceSetup(path)
	err := ds.RunInteractiveSetup()
	assert.ErrorIs(t, err, ErrNoDevices)
	assert.Contains(t, err.Error(), "mouse")
}

func TestValidateDevices(t *testing.T) {
	dir := t.TempDir()
	mouse := filepath.Join(dir, "mouse0")
	require.NoError(t, os.WriteFile(mouse, nil, 0644))

	ds := NewDeviceSetup("")

	err := ds.ValidateDevices(config.InputConfig{MouseDevice: mouse, KeyboardDevice: filepath.Join(dir, "event9")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "keyboard")
	assert.NotContains(t, err.Error(), "mouse device")

	err = ds.ValidateDevices(config.InputConfig{MouseDevice: mouse, KeyboardDevice: mouse})
	assert.NoError(t, err)

	err = ds.ValidateDevices(config.InputConfig{})
	assert.ErrorContains(t, err, "no mouse device configured")
}
