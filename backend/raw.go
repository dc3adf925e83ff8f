package backend

import "github.com/1broseidon/casement/event"

// RawEvent is the normalized-but-unsynthesized representation adapters
// produce from native events. Coordinates and sizes are physical
// pixels; the translator applies the configured coordinate policy and
// synthesizes events some window systems omit.
type RawEvent interface {
	ImplementsRawEvent()
}

// RawCloseRequest reports the user asking the window to close (for
// example WM_DELETE_WINDOW on X11). The window stays alive until the
// application destroys it.
type RawCloseRequest struct {
	Window event.WindowID
}

// RawConfigure reports the authoritative geometry of a window after the
// window system applied a move, a resize, or both.
type RawConfigure struct {
	Window event.WindowID
	X, Y   int
	Width  int
	Height int
}

// RawFocus reports keyboard focus entering or leaving a window.
type RawFocus struct {
	Window event.WindowID
	Gained bool
}

// RawRedraw reports that a region of the window must be repainted.
type RawRedraw struct {
	Window event.WindowID
}

// RawDestroyed confirms that the native window is gone. It is the last
// raw event a backend emits for the window.
type RawDestroyed struct {
	Window event.WindowID
}

// RawMapped reports the window becoming viewable.
type RawMapped struct {
	Window event.WindowID
}

// RawUnmapped reports the window being hidden or minimized.
type RawUnmapped struct {
	Window event.WindowID
}

// RawKey reports a keyboard key transition. Code is the backend's
// hardware keycode.
type RawKey struct {
	Window  event.WindowID
	Code    uint32
	Pressed bool
}

// RawButton reports a pointer button transition at a position.
type RawButton struct {
	Window  event.WindowID
	Button  uint8
	Pressed bool
	X, Y    int
}

// RawMotion reports pointer movement within a window.
type RawMotion struct {
	Window event.WindowID
	X, Y   int
}

// RawWheel reports scroll wheel motion in line deltas.
type RawWheel struct {
	Window event.WindowID
	DX, DY float64
	X, Y   int
}

// RawEnter reports the pointer entering a window.
type RawEnter struct {
	Window event.WindowID
	X, Y   int
}

// RawLeave reports the pointer leaving a window.
type RawLeave struct {
	Window event.WindowID
}

// RawDeviceMotion reports unaccelerated device-level pointer deltas,
// independent of any window.
type RawDeviceMotion struct {
	Device event.DeviceID
	DX, DY float64
}

// RawUnknown wraps a native event the adapter could not classify. The
// translator drops it with a diagnostic.
type RawUnknown struct {
	Native string
}

func (RawCloseRequest) ImplementsRawEvent() {}
func (RawConfigure) ImplementsRawEvent()    {}
func (RawFocus) ImplementsRawEvent()        {}
func (RawRedraw) ImplementsRawEvent()       {}
func (RawDestroyed) ImplementsRawEvent()    {}
func (RawMapped) ImplementsRawEvent()       {}
func (RawUnmapped) ImplementsRawEvent()     {}
func (RawKey) ImplementsRawEvent()          {}
func (RawButton) ImplementsRawEvent()       {}
func (RawMotion) ImplementsRawEvent()       {}
func (RawWheel) ImplementsRawEvent()        {}
func (RawEnter) ImplementsRawEvent()        {}
func (RawLeave) ImplementsRawEvent()        {}
func (RawDeviceMotion) ImplementsRawEvent() {}
func (RawUnknown) ImplementsRawEvent()      {}
