package egl

import (
	"errors"
	"fmt"
)

// ErrBootstrap matches every initialization failure. There is no fallback display,
// so hosts are expected to stop when they see it.
var ErrBootstrap = errors.New("egl bootstrap failed")

// ErrShutdown is returned by Present after the context has been torn down
var ErrShutdown = errors.New("egl context already shut down")

// Step names one stage of initialization
type Step string

const (
	StepGetDisplay    Step = "get display"
	StepInitialize    Step = "initialize display"
	StepChooseConfig  Step = "choose config"
	StepBindAPI       Step = "bind OpenGL ES API"
	StepCreateContext Step = "create context"
	StepDisplaySize   Step = "query display size"
	StepNativeWindow  Step = "create native window"
	StepCreateSurface Step = "create window surface"
	StepMakeCurrent   Step = "make current"
)

// BootstrapError reports the step that failed and why
type BootstrapError struct {
	Step Step
	Err  error
}

func (e *BootstrapError) Error() string {
	return fmt.Sprintf("egl bootstrap failed at %s: %v", e.Step, e.Err)
}

func (e *BootstrapError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrBootstrap) true for any BootstrapError
func (e *BootstrapError) Is(target error) bool {
	return target == ErrBootstrap
}
