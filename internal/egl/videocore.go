//go:build cgo && rpi
// +build cgo,rpi

package egl

/*
#cgo CFLAGS: -I/opt/vc/include -I/opt/vc/include/interface/vcos/pthreads -I/opt/vc/include/interface/vmcs_host/linux
#cgo LDFLAGS: -L/opt/vc/lib -lbrcmEGL -lbrcmGLESv2 -lbcm_host -lvcos -lvchiq_arm
#include <stdlib.h>
#include <bcm_host.h>
#include <EGL/egl.h>
#include <GLES2/gl2.h>

typedef struct {
    EGL_DISPMANX_WINDOW_T native;
    DISPMANX_DISPLAY_HANDLE_T display;
} eglpi_window;

static EGLDisplay eglpi_default_display(void) {
    return eglGetDisplay(EGL_DEFAULT_DISPLAY);
}

static EGLBoolean eglpi_release_current(EGLDisplay d) {
    return eglMakeCurrent(d, EGL_NO_SURFACE, EGL_NO_SURFACE, EGL_NO_CONTEXT);
}

static EGLConfig eglpi_choose_config(EGLDisplay d, const EGLint *attribs, EGLint *count) {
    EGLConfig config = NULL;
    if (eglChooseConfig(d, attribs, &config, 1, count) == EGL_FALSE) {
        *count = 0;
    }
    return config;
}

static EGLContext eglpi_create_context(EGLDisplay d, EGLConfig c, const EGLint *attribs) {
    return eglCreateContext(d, c, EGL_NO_CONTEXT, attribs);
}

static EGLSurface eglpi_create_surface(EGLDisplay d, EGLConfig c, eglpi_window *w) {
    return eglCreateWindowSurface(d, c, (EGLNativeWindowType)&w->native, NULL);
}

// Full-screen dispmanx element; source rectangle is in 16.16 fixed point
static eglpi_window *eglpi_create_window(uint32_t display_id, int32_t layer, uint32_t width, uint32_t height) {
    VC_RECT_T dst_rect = { 0, 0, (int32_t)width, (int32_t)height };
    VC_RECT_T src_rect = { 0, 0, (int32_t)(width << 16), (int32_t)(height << 16) };

    DISPMANX_DISPLAY_HANDLE_T display = vc_dispmanx_display_open(display_id);
    if (display == DISPMANX_NO_HANDLE) {
        return NULL;
    }

    DISPMANX_UPDATE_HANDLE_T update = vc_dispmanx_update_start(0);
    if (update == DISPMANX_NO_HANDLE) {
        vc_dispmanx_display_close(display);
        return NULL;
    }

    DISPMANX_ELEMENT_HANDLE_T element = vc_dispmanx_element_add(update, display,
        layer, &dst_rect, 0, &src_rect, DISPMANX_PROTECTION_NONE, 0, 0, 0);
    vc_dispmanx_update_submit_sync(update);
    if (element == DISPMANX_NO_HANDLE) {
        vc_dispmanx_display_close(display);
        return NULL;
    }

    eglpi_window *w = calloc(1, sizeof(eglpi_window));
    if (w == NULL) {
        update = vc_dispmanx_update_start(0);
        if (update != DISPMANX_NO_HANDLE) {
            vc_dispmanx_element_remove(update, element);
            vc_dispmanx_update_submit_sync(update);
        }
        vc_dispmanx_display_close(display);
        return NULL;
    }
    w->native.element = element;
    w->native.width = (int)width;
    w->native.height = (int)height;
    w->display = display;
    return w;
}

static int eglpi_destroy_window(eglpi_window *w) {
    if (w == NULL) {
        return 0;
    }
    int rc = 0;
    DISPMANX_UPDATE_HANDLE_T update = vc_dispmanx_update_start(0);
    if (update != DISPMANX_NO_HANDLE) {
        rc |= vc_dispmanx_element_remove(update, w->native.element);
        rc |= vc_dispmanx_update_submit_sync(update);
    }
    rc |= vc_dispmanx_display_close(w->display);
    free(w);
    return rc;
}
*/
import "C"

import (
	"fmt"
	"sync"
	"unsafe"
)

var hostInit sync.Once

// NewPlatform initializes the VideoCore host interface and returns the EGL driver and
// dispmanx compositor for displayID.
func NewPlatform(displayID, layer int) (Driver, Compositor, error) {
	if displayID < 0 {
		return nil, nil, fmt.Errorf("invalid display id %d", displayID)
	}
	hostInit.Do(func() { C.bcm_host_init() })
	return videocoreDriver{}, &dispmanxCompositor{displayID: displayID, layer: layer}, nil
}

// eglError formats the pending EGL error code
func eglError(call string) error {
	return fmt.Errorf("%s failed: EGL error 0x%04x", call, int(C.eglGetError()))
}

func cAttribs(attribs []int32) *C.EGLint {
	if len(attribs) == 0 {
		return nil
	}
	return (*C.EGLint)(unsafe.Pointer(&attribs[0]))
}

func toDisplay(d Display) C.EGLDisplay { return C.EGLDisplay(unsafe.Pointer(uintptr(d))) }
func toConfig(c Config) C.EGLConfig    { return C.EGLConfig(unsafe.Pointer(uintptr(c))) }
func toContext(c Context) C.EGLContext { return C.EGLContext(unsafe.Pointer(uintptr(c))) }
func toSurface(s Surface) C.EGLSurface { return C.EGLSurface(unsafe.Pointer(uintptr(s))) }

// videocoreDriver calls straight into libbrcmEGL and libbrcmGLESv2
type videocoreDriver struct{}

func (videocoreDriver) GetDisplay() (Display, error) {
	d := C.eglpi_default_display()
	if d == nil {
		return 0, eglError("eglGetDisplay")
	}
	return Display(uintptr(unsafe.Pointer(d))), nil
}

func (videocoreDriver) Initialize(d Display) error {
	if C.eglInitialize(toDisplay(d), nil, nil) == C.EGL_FALSE {
		return eglError("eglInitialize")
	}
	return nil
}

func (videocoreDriver) ChooseConfig(d Display, attribs []int32) (Config, error) {
	var count C.EGLint
	cfg := C.eglpi_choose_config(toDisplay(d), cAttribs(attribs), &count)
	if count < 1 || cfg == nil {
		return 0, fmt.Errorf("eglChooseConfig: no matching config")
	}
	return Config(uintptr(unsafe.Pointer(cfg))), nil
}

func (videocoreDriver) BindAPI(api int32) error {
	if C.eglBindAPI(C.EGLenum(api)) == C.EGL_FALSE {
		return eglError("eglBindAPI")
	}
	return nil
}

func (videocoreDriver) CreateContext(d Display, c Config, attribs []int32) (Context, error) {
	ctx := C.eglpi_create_context(toDisplay(d), toConfig(c), cAttribs(attribs))
	if ctx == nil {
		return 0, eglError("eglCreateContext")
	}
	return Context(uintptr(unsafe.Pointer(ctx))), nil
}

func (videocoreDriver) CreateWindowSurface(d Display, c Config, win NativeWindow) (Surface, error) {
	s := C.eglpi_create_surface(toDisplay(d), toConfig(c), (*C.eglpi_window)(unsafe.Pointer(win.Handle)))
	if s == nil {
		return 0, eglError("eglCreateWindowSurface")
	}
	return Surface(uintptr(unsafe.Pointer(s))), nil
}

func (videocoreDriver) MakeCurrent(d Display, s Surface, ctx Context) error {
	if C.eglMakeCurrent(toDisplay(d), toSurface(s), toSurface(s), toContext(ctx)) == C.EGL_FALSE {
		return eglError("eglMakeCurrent")
	}
	return nil
}

func (videocoreDriver) ReleaseCurrent(d Display) error {
	if C.eglpi_release_current(toDisplay(d)) == C.EGL_FALSE {
		return eglError("eglMakeCurrent(release)")
	}
	return nil
}

func (videocoreDriver) SwapBuffers(d Display, s Surface) error {
	if C.eglSwapBuffers(toDisplay(d), toSurface(s)) == C.EGL_FALSE {
		return eglError("eglSwapBuffers")
	}
	return nil
}

func (videocoreDriver) ClearColorBuffer() {
	C.glClear(C.GL_COLOR_BUFFER_BIT)
}

func (videocoreDriver) DestroySurface(d Display, s Surface) error {
	if C.eglDestroySurface(toDisplay(d), toSurface(s)) == C.EGL_FALSE {
		return eglError("eglDestroySurface")
	}
	return nil
}

func (videocoreDriver) DestroyContext(d Display, ctx Context) error {
	if C.eglDestroyContext(toDisplay(d), toContext(ctx)) == C.EGL_FALSE {
		return eglError("eglDestroyContext")
	}
	return nil
}

func (videocoreDriver) Terminate(d Display) error {
	if C.eglTerminate(toDisplay(d)) == C.EGL_FALSE {
		return eglError("eglTerminate")
	}
	return nil
}

// dispmanxCompositor places one full-screen element on a VideoCore display
type dispmanxCompositor struct {
	displayID int
	layer     int
}

func (c *dispmanxCompositor) DisplaySize() (int, int, error) {
	var width, height C.uint32_t
	if rc := C.graphics_get_display_size(C.uint16_t(c.displayID), &width, &height); rc < 0 {
		return 0, 0, fmt.Errorf("graphics_get_display_size(%d) returned %d", c.displayID, int(rc))
	}
	return int(width), int(height), nil
}

func (c *dispmanxCompositor) CreateNativeWindow(width, height int) (NativeWindow, error) {
	w := C.eglpi_create_window(C.uint32_t(c.displayID), C.int32_t(c.layer), C.uint32_t(width), C.uint32_t(height))
	if w == nil {
		return NativeWindow{}, fmt.Errorf("dispmanx element on display %d layer %d could not be created", c.displayID, c.layer)
	}
	return NativeWindow{Handle: uintptr(unsafe.Pointer(w)), Width: width, Height: height}, nil
}

func (c *dispmanxCompositor) DestroyNativeWindow(win NativeWindow) error {
	if win.Handle == 0 {
		return nil
	}
	if rc := C.eglpi_destroy_window((*C.eglpi_window)(unsafe.Pointer(win.Handle))); rc != 0 {
		return fmt.Errorf("dispmanx teardown returned %d", int(rc))
	}
	return nil
}
