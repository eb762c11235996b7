package input

import (
	"errors"
	"fmt"
)

const (
	// motionRecordSize is a plain PS/2 report: status, dx, dy
	motionRecordSize = 3
	// scrollRecordSize adds the IMPS/2 wheel byte
	scrollRecordSize = 4

	// SpeedMultiplier scales every raw delta
	SpeedMultiplier = 2

	statusLeft   = 1 << 0
	statusRight  = 1 << 1
	statusMiddle = 1 << 2
	statusXSign  = 1 << 4
	statusYSign  = 1 << 5
)

// ErrShortRecord is returned when a buffer is smaller than one record
var ErrShortRecord = errors.New("short input record")

// MotionRecord is one relative-motion report from a mousedev node
type MotionRecord struct {
	Status byte
	DX     byte // raw, unsigned; the sign lives in Status bit 4
	DY     byte // raw, unsigned; the sign lives in Status bit 5
	Wheel  int8 // only filled in IMPS/2 mode
}

// DecodeMotion decodes one record from buf. Buffers of 3 bytes decode as plain PS/2,
// 4 or more bytes as IMPS/2 with a wheel byte.
func DecodeMotion(buf []byte) (MotionRecord, error) {
	if len(buf) < motionRecordSize {
		return MotionRecord{}, fmt.Errorf("%w: got %d bytes, need %d", ErrShortRecord, len(buf), motionRecordSize)
	}
	rec := MotionRecord{
		Status: buf[0],
		DX:     buf[1],
		DY:     buf[2],
	}
	if len(buf) >= scrollRecordSize {
		rec.Wheel = int8(buf[3])
	}
	return rec, nil
}

// Effective returns the pixel deltas after speed scaling and sign correction.
// A set sign bit subtracts 256 scaled units, undoing the 8-bit wraparound.
func (r MotionRecord) Effective() (dx, dy int) {
	dx = SpeedMultiplier * int(r.DX)
	dy = SpeedMultiplier * int(r.DY)
	if r.Status&statusXSign != 0 {
		dx -= 256 * SpeedMultiplier
	}
	if r.Status&statusYSign != 0 {
		dy -= 256 * SpeedMultiplier
	}
	return dx, dy
}

// Buttons reports the left, right and middle button bits
func (r MotionRecord) Buttons() (left, right, middle bool) {
	return r.Status&statusLeft != 0, r.Status&statusRight != 0, r.Status&statusMiddle != 0
}

// MouseDecoder turns mousedev reports into normalized cursor coordinates
type MouseDecoder struct {
	devices *Devices
	buf     [scrollRecordSize]byte
}

// NewMouseDecoder creates a decoder reading through devices
func NewMouseDecoder(devices *Devices) *MouseDecoder {
	return &MouseDecoder{devices: devices}
}

// Poll reads at most one record and returns the normalized cursor. When the device is
// missing or the read is empty or short, the previous coordinates come back unchanged.
func (m *MouseDecoder) Poll(state *InputState) (x, y float32) {
	dev := m.devices.AcquireMouse(state)
	if dev == nil {
		return state.Normalized()
	}

	size := state.mouseRecordSize
	buf := m.buf[:size]
	n, err := dev.Read(buf)
	if err != nil || n != size {
		// Partial records are dropped whole
		return state.Normalized()
	}

	rec, err := DecodeMotion(buf[:n])
	if err != nil {
		return state.Normalized()
	}
	return state.ApplyMotion(rec)
}
