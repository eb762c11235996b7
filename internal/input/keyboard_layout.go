package input

import (
	"fmt"

	"github.com/bnema/eglpi/internal/logger"
)

// LayoutTranslator rewrites evdev codes (which name physical key positions on a US
// board) into the code of the key's label on the configured layout, so the key
// printed "A" triggers set-fluid-a on an AZERTY keyboard too.
type LayoutTranslator struct {
	layout  string
	mapping map[KeyCode]KeyCode
}

// NewLayoutTranslator creates a translator for layout ("us" or "fr")
func NewLayoutTranslator(layout string) (*LayoutTranslator, error) {
	switch layout {
	case "", "us":
		return &LayoutTranslator{layout: "us"}, nil
	case "fr":
		return &LayoutTranslator{layout: "fr", mapping: azertyLabels}, nil
	default:
		return nil, fmt.Errorf("unsupported keyboard layout %q", layout)
	}
}

// Layout returns the layout name
func (k *LayoutTranslator) Layout() string {
	return k.layout
}

// Translate returns the code of the label on the key at position code
func (k *LayoutTranslator) Translate(code KeyCode) KeyCode {
	if k == nil || k.mapping == nil {
		return code
	}
	if translated, ok := k.mapping[code]; ok {
		logger.Debugf("Translated key %s to %s (%s)", code, translated, k.layout)
		return translated
	}
	return code
}

// azertyLabels maps US key positions to the letters printed on AZERTY boards
var azertyLabels = map[KeyCode]KeyCode{
	KeyQ:         KeyA,
	KeyW:         KeyZ,
	KeyA:         KeyQ,
	KeyZ:         KeyW,
	KeySemicolon: KeyM,
}
