package egl

import (
	"errors"
	"fmt"
	"io"

	"github.com/bnema/eglpi/internal/logger"
)

// configAttribs asks for 8 bits per RGBA channel on a window-capable config
var configAttribs = []int32{
	RedSize, 8,
	GreenSize, 8,
	BlueSize, 8,
	AlphaSize, 8,
	SurfaceType, WindowBit,
	None,
}

// contextAttribs selects OpenGL ES 2
var contextAttribs = []int32{
	ContextClientVersion, 2,
	None,
}

// GraphicsContext is a live display, context and surface. It is created once by
// Initialize and released once by Shutdown.
type GraphicsContext struct {
	Display Display
	Config  Config
	Context Context
	Surface Surface
	Window  NativeWindow

	// Screen size in pixels
	Width  int
	Height int

	closed bool
}

// Closed reports whether Shutdown already ran
func (gc *GraphicsContext) Closed() bool {
	return gc.closed
}

// Manager owns the EGL lifecycle for one screen
type Manager struct {
	driver     Driver
	compositor Compositor
}

// NewManager creates a manager over the given platform
func NewManager(driver Driver, compositor Compositor) *Manager {
	return &Manager{driver: driver, compositor: compositor}
}

// Initialize acquires the display, negotiates a config, creates the context and a
// full-screen window surface, and makes them current. It does not retry: any failure
// undoes what was already acquired and returns a *BootstrapError.
func (m *Manager) Initialize() (*GraphicsContext, error) {
	var undo []func()
	fail := func(step Step, cause error) (*GraphicsContext, error) {
		for i := len(undo) - 1; i >= 0; i-- {
			undo[i]()
		}
		return nil, &BootstrapError{Step: step, Err: cause}
	}

	d := m.driver
	gc := &GraphicsContext{}

	display, err := d.GetDisplay()
	if err != nil {
		return fail(StepGetDisplay, err)
	}
	gc.Display = display

	if err := d.Initialize(display); err != nil {
		return fail(StepInitialize, err)
	}
	undo = append(undo, func() { _ = d.Terminate(display) })

	config, err := d.ChooseConfig(display, configAttribs)
	if err != nil {
		return fail(StepChooseConfig, err)
	}
	gc.Config = config

	if err := d.BindAPI(OpenGLESAPI); err != nil {
		return fail(StepBindAPI, err)
	}

	ctx, err := d.CreateContext(display, config, contextAttribs)
	if err != nil {
		return fail(StepCreateContext, err)
	}
	gc.Context = ctx
	undo = append(undo, func() { _ = d.DestroyContext(display, ctx) })

	width, height, err := m.compositor.DisplaySize()
	if err != nil {
		return fail(StepDisplaySize, err)
	}
	if width <= 0 || height <= 0 {
		return fail(StepDisplaySize, fmt.Errorf("invalid display size %dx%d", width, height))
	}
	gc.Width, gc.Height = width, height

	win, err := m.compositor.CreateNativeWindow(width, height)
	if err != nil {
		return fail(StepNativeWindow, err)
	}
	gc.Window = win
	undo = append(undo, func() { _ = m.compositor.DestroyNativeWindow(win) })

	surface, err := d.CreateWindowSurface(display, config, win)
	if err != nil {
		return fail(StepCreateSurface, err)
	}
	gc.Surface = surface
	undo = append(undo, func() { _ = d.DestroySurface(display, surface) })

	if err := d.MakeCurrent(display, surface, ctx); err != nil {
		return fail(StepMakeCurrent, err)
	}

	logger.Info("Graphics context ready", "width", width, "height", height)
	return gc, nil
}

// Present submits the current frame buffer to the display
func (m *Manager) Present(gc *GraphicsContext) error {
	if gc == nil || gc.closed {
		return ErrShutdown
	}
	if err := m.driver.SwapBuffers(gc.Display, gc.Surface); err != nil {
		return fmt.Errorf("swap buffers: %w", err)
	}
	return nil
}

// Shutdown clears and flushes the screen, then releases surface, context and display
// in that order, then the native window, then closes each of owned (typically the
// input devices). Every step runs even if an earlier one fails. A second call is a no-op.
func (m *Manager) Shutdown(gc *GraphicsContext, owned ...io.Closer) error {
	if gc == nil || gc.closed {
		return nil
	}
	gc.closed = true

	d := m.driver
	var errs []error
	record := func(what string, err error) {
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", what, err))
		}
	}

	d.ClearColorBuffer()
	record("final swap", d.SwapBuffers(gc.Display, gc.Surface))
	record("release current", d.ReleaseCurrent(gc.Display))
	record("destroy surface", d.DestroySurface(gc.Display, gc.Surface))
	record("destroy context", d.DestroyContext(gc.Display, gc.Context))
	record("terminate display", d.Terminate(gc.Display))
	record("destroy native window", m.compositor.DestroyNativeWindow(gc.Window))

	for _, c := range owned {
		if c != nil {
			record("close", c.Close())
		}
	}

	err := errors.Join(errs...)
	if err != nil {
		logger.Warn("Graphics shutdown finished with errors", "error", err)
	} else {
		logger.Info("Graphics context closed")
	}
	return err
}
