package input

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

func newTestMouse(t *testing.T, scroll bool) (*MouseDecoder, *fakeDevice, *fakeOpener) {
	t.Helper()
	opener := newFakeOpener()
	dev := &fakeDevice{ackOnWrite: true}
	opener.devices[testMousePath] = dev
	return NewMouseDecoder(NewDevices(testDeviceConfig(scroll), opener)), dev, opener
}

func TestDecodeMotion(t *testing.T) {
	t.Run("rejects short buffers", func(t *testing.T) {
		for _, buf := range [][]byte{nil, {0x08}, {0x08, 1}} {
			_, err := DecodeMotion(buf)
			assert.ErrorIs(t, err, ErrShortRecord)
		}
	})

	t.Run("decodes PS/2 layout", func(t *testing.T) {
		rec, err := DecodeMotion([]byte{0x19, 10, 250})
		require.NoError(t, err)
		assert.Equal(t, MotionRecord{Status: 0x19, DX: 10, DY: 250}, rec)

		left, right, middle := rec.Buttons()
		assert.True(t, left)
		assert.False(t, right)
		assert.False(t, middle)
	})

	t.Run("decodes wheel byte in IMPS/2 layout", func(t *testing.T) {
		rec, err := DecodeMotion([]byte{0x08, 0, 0, 0xff})
		require.NoError(t, err)
		assert.Equal(t, int8(-1), rec.Wheel)
	})
}

func TestMotionRecordEffective(t *testing.T) {
	tests := []struct {
		name   string
		rec    MotionRecord
		wantDX int
		wantDY int
	}{
		{"no motion", MotionRecord{}, 0, 0},
		{"positive x", MotionRecord{DX: 10}, 20, 0},
		{"positive y", MotionRecord{DY: 7}, 0, 14},
		{"x sign set", MotionRecord{Status: statusXSign, DX: 246}, 2*246 - 512, 0},
		{"y sign set", MotionRecord{Status: statusYSign, DY: 255}, 0, 2*255 - 512},
		{"both signs", MotionRecord{Status: statusXSign | statusYSign, DX: 1, DY: 2}, 2 - 512, 4 - 512},
		{"buttons ignored", MotionRecord{Status: statusLeft | statusRight | statusMiddle, DX: 3}, 6, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dx, dy := tt.rec.Effective()
			assert.Equal(t, tt.wantDX, dx)
			assert.Equal(t, tt.wantDY, dy)
		})
	}
}

func TestSignCorrectionProperty(t *testing.T) {
	for d := 0; d < 256; d++ {
		dx, _ := MotionRecord{Status: statusXSign, DX: byte(d)}.Effective()
		require.Equal(t, 2*d-512, dx, "raw dx %d", d)
	}
}

func TestMouseDecoderScenario(t *testing.T) {
	decoder, dev, _ := newTestMouse(t, false)
	state := NewInputState(640, 480)

	dev.push([]byte{0x08, 10, 0})
	x, y := decoder.Poll(state)

	cx, cy := state.Cursor()
	assert.Equal(t, 20, cx)
	assert.Equal(t, 0, cy)
	assert.Equal(t, float32(-0.9375), x)
	assert.Equal(t, float32(-1.0), y)
}

func TestMouseDecoderClampsOverflow(t *testing.T) {
	decoder, dev, _ := newTestMouse(t, false)
	state := NewInputState(640, 480)

	// 254 + 254 + 142 = 650 before clamping
	dev.push([]byte{0, 127, 0}, []byte{0, 127, 0}, []byte{0, 71, 0})
	var x float32
	for i := 0; i < 3; i++ {
		x, _ = decoder.Poll(state)
	}

	cx, _ := state.Cursor()
	assert.Equal(t, 640, cx)
	assert.Equal(t, float32(1.0), x)
}

func TestMouseDecoderClampsBelowZero(t *testing.T) {
	decoder, dev, _ := newTestMouse(t, false)
	state := NewInputState(640, 480)

	dev.push([]byte{statusXSign | statusYSign, 246, 200})
	x, y := decoder.Poll(state)

	cx, cy := state.Cursor()
	assert.Equal(t, 0, cx)
	assert.Equal(t, 0, cy)
	assert.Equal(t, float32(-1), x)
	assert.Equal(t, float32(-1), y)
}

func TestNormalizationBoundaries(t *testing.T) {
	state := NewInputState(640, 480)

	x, y := state.Normalized()
	assert.Equal(t, float32(-1), x)
	assert.Equal(t, float32(-1), y)

	// Drive to the bottom-right corner; y grows downwards and is not flipped
	for i := 0; i < 4; i++ {
		x, y = state.ApplyMotion(MotionRecord{DX: 127, DY: 127})
	}
	assert.Equal(t, float32(1), x)
	assert.Equal(t, float32(1), y)

	cx, cy := state.Cursor()
	assert.Equal(t, 640, cx)
	assert.Equal(t, 480, cy)
}

func TestMouseDecoderPartialReadIsDiscarded(t *testing.T) {
	decoder, dev, _ := newTestMouse(t, false)
	state := NewInputState(640, 480)

	dev.push([]byte{0, 50, 30})
	wantX, wantY := decoder.Poll(state)

	dev.push([]byte{0, 99})
	x, y := decoder.Poll(state)
	assert.Equal(t, wantX, x)
	assert.Equal(t, wantY, y)

	// Empty queue is the common "no data" case
	x, y = decoder.Poll(state)
	assert.Equal(t, wantX, x)
	assert.Equal(t, wantY, y)

	cx, cy := state.Cursor()
	assert.Equal(t, 100, cx)
	assert.Equal(t, 60, cy)
}

func TestMouseDecoderDeviceUnavailable(t *testing.T) {
	opener := newFakeOpener()
	decoder := NewMouseDecoder(NewDevices(testDeviceConfig(true), opener))
	state := NewInputState(800, 600)

	for i := 0; i < 10; i++ {
		x, y := decoder.Poll(state)
		assert.Equal(t, float32(-1), x)
		assert.Equal(t, float32(-1), y)
	}
	// Read-write then read-only, both inside the first acquisition
	assert.Equal(t, 2, opener.attempts[testMousePath])
}

func TestMouseDecoderClampProperty(t *testing.T) {
	decoder, dev, _ := newTestMouse(t, false)
	state := NewInputState(320, 240)
	rng := rand.New(rand.NewSource(42))

	for i := 0; i < 5000; i++ {
		dev.push([]byte{byte(rng.Intn(256)) & (statusXSign | statusYSign), byte(rng.Intn(256)), byte(rng.Intn(256))})
		x, y := decoder.Poll(state)

		cx, cy := state.Cursor()
		require.GreaterOrEqual(t, cx, 0)
		require.LessOrEqual(t, cx, 320)
		require.GreaterOrEqual(t, cy, 0)
		require.LessOrEqual(t, cy, 240)
		require.GreaterOrEqual(t, x, float32(-1))
		require.LessOrEqual(t, x, float32(1))
		require.GreaterOrEqual(t, y, float32(-1))
		require.LessOrEqual(t, y, float32(1))
	}
}

func TestMouseDecoderScrollMode(t *testing.T) {
	t.Run("writes the IMPS/2 knock once and reads 4-byte records", func(t *testing.T) {
		decoder, dev, opener := newTestMouse(t, true)
		state := NewInputState(640, 480)

		decoder.Poll(state)
		dev.push([]byte{0, 5, 0, 0x01})
		decoder.Poll(state)
		decoder.Poll(state)

		require.Len(t, dev.writes, 1)
		assert.Equal(t, []byte{0xf3, 200, 0xf3, 100, 0xf3, 80}, dev.writes[0])
		assert.Equal(t, unix.O_RDWR|unix.O_NONBLOCK, opener.flags[testMousePath])
		assert.Equal(t, 1, opener.attempts[testMousePath])

		cx, _ := state.Cursor()
		assert.Equal(t, 10, cx)
		assert.Equal(t, int8(1), state.LastMotion().Wheel)
	})

	t.Run("a 3-byte read is short in 4-byte mode", func(t *testing.T) {
		decoder, dev, _ := newTestMouse(t, true)
		state := NewInputState(640, 480)

		decoder.Poll(state)
		dev.push([]byte{0, 5, 0})
		decoder.Poll(state)

		cx, _ := state.Cursor()
		assert.Equal(t, 0, cx)
	})

	t.Run("falls back to 3-byte records when the knock fails", func(t *testing.T) {
		decoder, dev, _ := newTestMouse(t, true)
		dev.writeErr = unix.EBADF
		state := NewInputState(640, 480)

		dev.push([]byte{0, 5, 0})
		decoder.Poll(state)

		cx, _ := state.Cursor()
		assert.Equal(t, 10, cx)
	})

	t.Run("a read-only node is opened without the knock", func(t *testing.T) {
		decoder, dev, opener := newTestMouse(t, true)
		opener.readOnly[testMousePath] = true
		state := NewInputState(640, 480)

		dev.push([]byte{0, 10, 0}, []byte{0, 5, 0})
		x, y := decoder.Poll(state)
		assert.Equal(t, float32(-0.9375), x)
		assert.Equal(t, float32(-1), y)
		decoder.Poll(state)
		decoder.Poll(state)

		cx, _ := state.Cursor()
		assert.Equal(t, 30, cx)
		assert.Empty(t, dev.writes)
		assert.Equal(t, unix.O_RDONLY|unix.O_NONBLOCK, opener.flags[testMousePath])
		assert.Equal(t, 2, opener.attempts[testMousePath])
		assert.Equal(t, motionRecordSize, state.mouseRecordSize)

		m, _ := decoder.devices.Status(state)
		assert.Equal(t, "open", m)
	})

	t.Run("plain mode opens read-only", func(t *testing.T) {
		decoder, dev, opener := newTestMouse(t, false)
		state := NewInputState(640, 480)

		decoder.Poll(state)
		assert.Empty(t, dev.writes)
		assert.Equal(t, unix.O_RDONLY|unix.O_NONBLOCK, opener.flags[testMousePath])
	})
}

func TestInputStatesAreIndependent(t *testing.T) {
	a := NewInputState(640, 480)
	b := NewInputState(640, 480)

	a.ApplyMotion(MotionRecord{DX: 50})

	ax, _ := a.Cursor()
	bx, _ := b.Cursor()
	assert.Equal(t, 100, ax)
	assert.Equal(t, 0, bx)
}

func TestNormalizeDegenerateScreen(t *testing.T) {
	state := NewInputState(0, 0)
	x, y := state.ApplyMotion(MotionRecord{DX: 10, DY: 10})
	assert.Equal(t, float32(-1), x)
	assert.Equal(t, float32(-1), y)
}
