package input

// slotStatus tracks the lifecycle of one lazily opened device
type slotStatus int

const (
	slotUnopened    slotStatus = iota // no open attempted yet
	slotOpen                          // handle is valid
	slotUnavailable                   // the single open attempt failed
	slotClosed                        // closed at shutdown, never reopened
)

func (s slotStatus) String() string {
	switch s {
	case slotUnopened:
		return "unopened"
	case slotOpen:
		return "open"
	case slotUnavailable:
		return "unavailable"
	case slotClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// deviceSlot holds one device handle and its status
type deviceSlot struct {
	dev    Device
	status slotStatus
}

// valid reports whether reads can be attempted on the slot
func (s *deviceSlot) valid() bool {
	return s.status == slotOpen && s.dev != nil
}

// InputState is everything the input layer remembers between polls. It is owned by
// the host and passed into every poll; nothing in this package keeps global state.
type InputState struct {
	keyboard deviceSlot
	mouse    deviceSlot

	// mouseRecordSize is 3 for plain PS/2 reports, 4 once IMPS/2 mode is on
	mouseRecordSize int

	// Cursor accumulator in pixels, always within [0,width]x[0,height]
	cursorX int
	cursorY int

	// Last normalized position handed to the host
	normX float32
	normY float32

	lastMotion MotionRecord

	width  int
	height int

	closeRequested bool
}

// NewInputState creates state for a screen of the given size. The cursor starts at
// the top-left pixel (0,0), normalized to (-1,-1).
func NewInputState(width, height int) *InputState {
	s := &InputState{
		mouseRecordSize: motionRecordSize,
		width:           width,
		height:          height,
	}
	s.normX, s.normY = s.normalize()
	return s
}

// ScreenSize returns the dimensions used for clamping and normalization
func (s *InputState) ScreenSize() (width, height int) {
	return s.width, s.height
}

// Cursor returns the accumulated pixel position
func (s *InputState) Cursor() (x, y int) {
	return s.cursorX, s.cursorY
}

// Normalized returns the last normalized cursor position
func (s *InputState) Normalized() (x, y float32) {
	return s.normX, s.normY
}

// LastMotion returns the most recently applied motion record
func (s *InputState) LastMotion() MotionRecord {
	return s.lastMotion
}

// RequestClose sets the close-request flag. It is never cleared.
func (s *InputState) RequestClose() {
	s.closeRequested = true
}

// ShouldClose reports whether a close was requested. Hosts check it between frames.
func (s *InputState) ShouldClose() bool {
	return s.closeRequested
}

// ApplyMotion feeds one decoded record into the accumulator and returns the new
// normalized position.
func (s *InputState) ApplyMotion(rec MotionRecord) (x, y float32) {
	dx, dy := rec.Effective()

	s.cursorX = clamp(s.cursorX+dx, 0, s.width)
	s.cursorY = clamp(s.cursorY+dy, 0, s.height)
	s.lastMotion = rec

	s.normX, s.normY = s.normalize()
	return s.normX, s.normY
}

// normalize maps the pixel cursor onto [-1,1]. The vertical axis is not flipped:
// y=0 is the top row and maps to -1.
func (s *InputState) normalize() (x, y float32) {
	return normalizeAxis(s.cursorX, s.width), normalizeAxis(s.cursorY, s.height)
}

func normalizeAxis(v, size int) float32 {
	if size <= 0 {
		return -1
	}
	return float32(v)/(0.5*float32(size)) - 1
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
