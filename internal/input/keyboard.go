package input

import (
	"encoding/binary"
	"fmt"
	"unsafe"

	"github.com/bnema/eglpi/internal/logger"
	"golang.org/x/sys/unix"
)

// timevalSize is 16 on 64-bit hosts and 8 on 32-bit ones, which makes struct
// input_event 24 or 16 bytes.
const timevalSize = int(unsafe.Sizeof(unix.Timeval{}))

// KeyRecordSize is the size of struct input_event on this host
const KeyRecordSize = timevalSize + 8

// KeyRecord is one event from an evdev stream
type KeyRecord struct {
	Type  uint16
	Code  KeyCode
	Value KeyValue
}

// DecodeKey decodes an input_event laid out with a timeval of tvSize bytes
func DecodeKey(buf []byte, tvSize int) (KeyRecord, error) {
	size := tvSize + 8
	if len(buf) < size {
		return KeyRecord{}, fmt.Errorf("%w: got %d bytes, need %d", ErrShortRecord, len(buf), size)
	}
	ev := buf[tvSize:size]
	return KeyRecord{
		Type:  binary.LittleEndian.Uint16(ev[0:2]),
		Code:  KeyCode(binary.LittleEndian.Uint16(ev[2:4])),
		Value: KeyValue(int32(binary.LittleEndian.Uint32(ev[4:8]))),
	}, nil
}

// IsKeyDown reports a fresh press of a real key. Releases and autorepeat don't count.
func (r KeyRecord) IsKeyDown() bool {
	return r.Type == EvKey && r.Value == KeyPressed && r.Code > KeyReserved
}

// CommandTarget receives the commands decoded from the keyboard. It is implemented by
// the renderer's state, not by this package.
type CommandTarget interface {
	IncreaseParameter()
	DecreaseParameter()
	MoveParameterUp()
	MoveParameterDown()
	RemovePartition()
	AddPartition()
	SetFluidX()
	SetFluidY()
	SetFluidA()
	SetFluidB()
}

// Command is an abstract action bound to a key
type Command int

const (
	CommandNone Command = iota
	CommandIncreaseParameter
	CommandDecreaseParameter
	CommandMoveParameterUp
	CommandMoveParameterDown
	CommandRemovePartition
	CommandAddPartition
	CommandSetFluidX
	CommandSetFluidY
	CommandSetFluidA
	CommandSetFluidB
	CommandClose
)

func (c Command) String() string {
	switch c {
	case CommandNone:
		return "none"
	case CommandIncreaseParameter:
		return "increase-parameter"
	case CommandDecreaseParameter:
		return "decrease-parameter"
	case CommandMoveParameterUp:
		return "move-parameter-up"
	case CommandMoveParameterDown:
		return "move-parameter-down"
	case CommandRemovePartition:
		return "remove-partition"
	case CommandAddPartition:
		return "add-partition"
	case CommandSetFluidX:
		return "set-fluid-x"
	case CommandSetFluidY:
		return "set-fluid-y"
	case CommandSetFluidA:
		return "set-fluid-a"
	case CommandSetFluidB:
		return "set-fluid-b"
	case CommandClose:
		return "close"
	default:
		return fmt.Sprintf("command(%d)", int(c))
	}
}

// keymap is the fixed key to command table
var keymap = map[KeyCode]Command{
	KeyRight:    CommandIncreaseParameter,
	KeyLeft:     CommandDecreaseParameter,
	KeyUp:       CommandMoveParameterUp,
	KeyDown:     CommandMoveParameterDown,
	KeyEsc:      CommandClose,
	KeyPageUp:   CommandRemovePartition,
	KeyPageDown: CommandAddPartition,
	KeyX:        CommandSetFluidX,
	KeyY:        CommandSetFluidY,
	KeyA:        CommandSetFluidA,
	KeyB:        CommandSetFluidB,
}

// CommandForKey looks up the command bound to code
func CommandForKey(code KeyCode) Command {
	return keymap[code]
}

// Dispatch forwards cmd to target. CommandClose and CommandNone never reach it.
func Dispatch(target CommandTarget, cmd Command) {
	if target == nil {
		return
	}
	switch cmd {
	case CommandIncreaseParameter:
		target.IncreaseParameter()
	case CommandDecreaseParameter:
		target.DecreaseParameter()
	case CommandMoveParameterUp:
		target.MoveParameterUp()
	case CommandMoveParameterDown:
		target.MoveParameterDown()
	case CommandRemovePartition:
		target.RemovePartition()
	case CommandAddPartition:
		target.AddPartition()
	case CommandSetFluidX:
		target.SetFluidX()
	case CommandSetFluidY:
		target.SetFluidY()
	case CommandSetFluidA:
		target.SetFluidA()
	case CommandSetFluidB:
		target.SetFluidB()
	}
}

// KeyEventRouter reads one key event per poll and routes it to a CommandTarget
type KeyEventRouter struct {
	devices    *Devices
	translator *LayoutTranslator
	buf        [KeyRecordSize]byte
}

// NewKeyEventRouter creates a router. A nil translator means no layout translation.
func NewKeyEventRouter(devices *Devices, translator *LayoutTranslator) *KeyEventRouter {
	return &KeyEventRouter{devices: devices, translator: translator}
}

// Poll handles at most one pending key event and returns the command it produced.
// ESC sets the close-request flag on state instead of calling target.
func (r *KeyEventRouter) Poll(state *InputState, target CommandTarget) Command {
	dev := r.devices.AcquireKeyboard(state)
	if dev == nil {
		return CommandNone
	}

	n, err := dev.Read(r.buf[:])
	if err != nil || n != KeyRecordSize {
		return CommandNone
	}

	rec, err := DecodeKey(r.buf[:n], timevalSize)
	if err != nil || !rec.IsKeyDown() {
		return CommandNone
	}

	code := rec.Code
	if r.translator != nil {
		code = r.translator.Translate(code)
	}

	cmd := CommandForKey(code)
	switch cmd {
	case CommandNone:
		return CommandNone
	case CommandClose:
		state.RequestClose()
		logger.Info("Close requested from keyboard", "key", code)
	default:
		logger.Debug("Key command", "key", code, "command", cmd)
		Dispatch(target, cmd)
	}
	return cmd
}
