//go:build !cgo || !rpi
// +build !cgo !rpi

package egl

import "errors"

// errNoPlatform is what every stub call reports
var errNoPlatform = errors.New("VideoCore EGL not available (build with CGO enabled and -tags rpi)")

// NewPlatform returns a platform whose first call fails, so Initialize reports a
// bootstrap error the same way a missing display would on real hardware.
func NewPlatform(displayID, layer int) (Driver, Compositor, error) {
	return stubDriver{}, stubCompositor{}, nil
}

type stubDriver struct{}

func (stubDriver) GetDisplay() (Display, error) {
	return 0, errNoPlatform
}

func (stubDriver) Initialize(Display) error {
	return errNoPlatform
}

func (stubDriver) ChooseConfig(Display, []int32) (Config, error) {
	return 0, errNoPlatform
}

func (stubDriver) BindAPI(int32) error {
	return errNoPlatform
}

func (stubDriver) CreateContext(Display, Config, []int32) (Context, error) {
	return 0, errNoPlatform
}

func (stubDriver) CreateWindowSurface(Display, Config, NativeWindow) (Surface, error) {
	return 0, errNoPlatform
}

func (stubDriver) MakeCurrent(Display, Surface, Context) error {
	return errNoPlatform
}

func (stubDriver) ReleaseCurrent(Display) error {
	return nil
}

func (stubDriver) SwapBuffers(Display, Surface) error {
	return errNoPlatform
}

func (stubDriver) ClearColorBuffer() {}

func (stubDriver) DestroySurface(Display, Surface) error {
	return nil
}

func (stubDriver) DestroyContext(Display, Context) error {
	return nil
}

func (stubDriver) Terminate(Display) error {
	return nil
}

type stubCompositor struct{}

func (stubCompositor) DisplaySize() (int, int, error) {
	return 0, 0, errNoPlatform
}

func (stubCompositor) CreateNativeWindow(int, int) (NativeWindow, error) {
	return NativeWindow{}, errNoPlatform
}

func (stubCompositor) DestroyNativeWindow(NativeWindow) error {
	return nil
}
