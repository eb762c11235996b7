// Package egl brings up and tears down an EGL display, an OpenGL ES context and a
// window surface covering the whole screen.
package egl

// Opaque EGL handles. They point into driver-owned memory and are only ever
// handed back to the driver that produced them.
type (
	Display uintptr
	Config  uintptr
	Context uintptr
	Surface uintptr
)

// NativeWindow is the compositor's window handle wrapped for surface creation
type NativeWindow struct {
	Handle uintptr
	Width  int
	Height int
}

// EGL enums used when negotiating the configuration, from EGL/egl.h
const (
	AlphaSize            int32 = 0x3021
	BlueSize             int32 = 0x3022
	GreenSize            int32 = 0x3023
	RedSize              int32 = 0x3024
	SurfaceType          int32 = 0x3033
	None                 int32 = 0x3038
	ContextClientVersion int32 = 0x3098
	OpenGLESAPI          int32 = 0x30A0
	WindowBit            int32 = 0x0004
)

// Driver is the subset of EGL and GLES the manager needs
type Driver interface {
	GetDisplay() (Display, error)
	Initialize(d Display) error
	ChooseConfig(d Display, attribs []int32) (Config, error)
	BindAPI(api int32) error
	CreateContext(d Display, c Config, attribs []int32) (Context, error)
	CreateWindowSurface(d Display, c Config, win NativeWindow) (Surface, error)
	MakeCurrent(d Display, s Surface, ctx Context) error
	ReleaseCurrent(d Display) error
	SwapBuffers(d Display, s Surface) error
	ClearColorBuffer()
	DestroySurface(d Display, s Surface) error
	DestroyContext(d Display, ctx Context) error
	Terminate(d Display) error
}

// Compositor supplies the screen size and the native window the surface renders into
type Compositor interface {
	DisplaySize() (width, height int, err error)
	CreateNativeWindow(width, height int) (NativeWindow, error)
	DestroyNativeWindow(win NativeWindow) error
}
