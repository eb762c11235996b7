package input

import (
	"fmt"
	"strconv"
	"strings"
)

// Event types and key codes from linux/input-event-codes.h. Only the ones the
// router and the layout translator look at are listed.
const (
	EvSyn uint16 = 0x00
	EvKey uint16 = 0x01
	EvRel uint16 = 0x02
)

// KeyCode is an evdev key code
type KeyCode uint16

const (
	KeyReserved  KeyCode = 0
	KeyEsc       KeyCode = 1
	KeyQ         KeyCode = 16
	KeyW         KeyCode = 17
	KeyY         KeyCode = 21
	KeyA         KeyCode = 30
	KeySemicolon KeyCode = 39
	KeyZ         KeyCode = 44
	KeyX         KeyCode = 45
	KeyB         KeyCode = 48
	KeyM         KeyCode = 50
	KeyUp        KeyCode = 103
	KeyPageUp    KeyCode = 104
	KeyLeft      KeyCode = 105
	KeyRight     KeyCode = 106
	KeyDown      KeyCode = 108
	KeyPageDown  KeyCode = 109
)

// KeyValue is the value field of an EV_KEY event
type KeyValue int32

const (
	KeyReleased KeyValue = 0
	KeyPressed  KeyValue = 1
	KeyRepeated KeyValue = 2
)

var keyNames = map[KeyCode]string{
	KeyEsc:       "ESC",
	KeyQ:         "Q",
	KeyW:         "W",
	KeyY:         "Y",
	KeyA:         "A",
	KeySemicolon: "SEMICOLON",
	KeyZ:         "Z",
	KeyX:         "X",
	KeyB:         "B",
	KeyM:         "M",
	KeyUp:        "UP",
	KeyPageUp:    "PAGEUP",
	KeyLeft:      "LEFT",
	KeyRight:     "RIGHT",
	KeyDown:      "DOWN",
	KeyPageDown:  "PAGEDOWN",
}

func (k KeyCode) String() string {
	if name, ok := keyNames[k]; ok {
		return name
	}
	return "KEY_" + strconv.Itoa(int(k))
}

// ParseKeyName resolves a key name such as "right", "KEY_ESC" or a raw numeric code
func ParseKeyName(name string) (KeyCode, error) {
	upper := strings.ToUpper(strings.TrimSpace(name))
	upper = strings.TrimPrefix(upper, "KEY_")
	for code, n := range keyNames {
		if n == upper {
			return code, nil
		}
	}
	if n, err := strconv.ParseUint(upper, 10, 16); err == nil && n > 0 {
		return KeyCode(n), nil
	}
	return KeyReserved, fmt.Errorf("unknown key %q", name)
}
