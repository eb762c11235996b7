package input

import (
	"encoding/binary"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/sys/unix"
)

// fakeDevice replays scripted reads; an empty script behaves like EAGAIN
type fakeDevice struct {
	mu         sync.Mutex
	reads      [][]byte
	writes     [][]byte
	writeErr   error
	ackOnWrite bool
	closed     int
	closeOrder *[]string
	name       string
}

func (f *fakeDevice) Read(p []byte) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.reads) == 0 {
		return 0, ErrNoData
	}
	chunk := f.reads[0]
	f.reads = f.reads[1:]
	return copy(p, chunk), nil
}

func (f *fakeDevice) Write(p []byte) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.writeErr != nil {
		return 0, f.writeErr
	}
	f.writes = append(f.writes, append([]byte(nil), p...))
	if f.ackOnWrite {
		f.reads = append([][]byte{{ps2Ack}}, f.reads...)
	}
	return len(p), nil
}

func (f *fakeDevice) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed++
	if f.closeOrder != nil {
		*f.closeOrder = append(*f.closeOrder, f.name)
	}
	return nil
}

func (f *fakeDevice) push(chunks ...[]byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reads = append(f.reads, chunks...)
}

// fakeOpener hands out devices by path and counts open attempts. Paths in readOnly
// refuse any access mode other than O_RDONLY.
type fakeOpener struct {
	devices  map[string]*fakeDevice
	readOnly map[string]bool
	attempts map[string]int
	flags    map[string]int
}

func newFakeOpener() *fakeOpener {
	return &fakeOpener{
		devices:  map[string]*fakeDevice{},
		readOnly: map[string]bool{},
		attempts: map[string]int{},
		flags:    map[string]int{},
	}
}

func (o *fakeOpener) Open(path string, flags int) (Device, error) {
	o.attempts[path]++
	o.flags[path] = flags
	if o.readOnly[path] && flags&unix.O_ACCMODE != unix.O_RDONLY {
		return nil, fmt.Errorf("open %s: %w", path, unix.EACCES)
	}
	dev, ok := o.devices[path]
	if !ok {
		return nil, errors.New("no such device")
	}
	return dev, nil
}

const (
	testMousePath    = "/dev/input/mouse-test"
	testKeyboardPath = "/dev/input/event-test"
)

func testDeviceConfig(scroll bool) DeviceConfig {
	return DeviceConfig{
		MousePath:    testMousePath,
		KeyboardPath: testKeyboardPath,
		ScrollMode:   scroll,
	}
}

// keyEvent encodes an input_event the way the kernel lays it out on this host
func keyEvent(typ uint16, code KeyCode, value KeyValue) []byte {
	buf := make([]byte, KeyRecordSize)
	binary.LittleEndian.PutUint16(buf[timevalSize:], typ)
	binary.LittleEndian.PutUint16(buf[timevalSize+2:], uint16(code))
	binary.LittleEndian.PutUint32(buf[timevalSize+4:], uint32(int32(value)))
	return buf
}

func keyDown(code KeyCode) []byte {
	return keyEvent(EvKey, code, KeyPressed)
}

// recordingTarget records every command it receives
type recordingTarget struct {
	calls []string
}

func (r *recordingTarget) IncreaseParameter() { r.calls = append(r.calls, "increase-parameter") }
func (r *recordingTarget) DecreaseParameter() { r.calls = append(r.calls, "decrease-parameter") }
func (r *recordingTarget) MoveParameterUp()   { r.calls = append(r.calls, "move-parameter-up") }
func (r *recordingTarget) MoveParameterDown() { r.calls = append(r.calls, "move-parameter-down") }
func (r *recordingTarget) RemovePartition()   { r.calls = append(r.calls, "remove-partition") }
func (r *recordingTarget) AddPartition()      { r.calls = append(r.calls, "add-partition") }
func (r *recordingTarget) SetFluidX()         { r.calls = append(r.calls, "set-fluid-x") }
func (r *recordingTarget) SetFluidY()         { r.calls = append(r.calls, "set-fluid-y") }
func (r *recordingTarget) SetFluidA()         { r.calls = append(r.calls, "set-fluid-a") }
func (r *recordingTarget) SetFluidB()         { r.calls = append(r.calls, "set-fluid-b") }
