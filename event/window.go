package event

// WindowEventKind is the marker interface for per-window event kinds.
type WindowEventKind interface {
	ImplementsWindowEventKind()
}

// CloseRequested reports the user asking the window to close. The
// window is destroyed only when the application requests it.
type CloseRequested struct{}

// Resized carries the authoritative new window size, in the configured
// coordinate space.
type Resized struct {
	Width  int
	Height int
}

// Moved carries the authoritative new window position.
type Moved struct {
	X, Y int
}

// Focused reports keyboard focus gained or lost.
type Focused struct {
	Gained bool
}

// ScaleFactorChanged reports a change of the window's scale factor.
type ScaleFactorChanged struct {
	Factor float64
}

// RedrawRequested asks the application to repaint the window.
type RedrawRequested struct{}

// CursorMoved reports pointer motion within the window.
type CursorMoved struct {
	X, Y float64
}

// CursorEntered reports the pointer entering the window.
type CursorEntered struct{}

// CursorLeft reports the pointer leaving the window.
type CursorLeft struct{}

// MouseInput reports a pointer button transition.
type MouseInput struct {
	Button  uint8
	Pressed bool
	X, Y    float64
}

// MouseWheel reports scroll motion in line deltas.
type MouseWheel struct {
	DX, DY float64
}

// KeyboardInput reports a keyboard key transition. Code is the
// platform keycode; layout-aware mapping is out of the core's scope.
type KeyboardInput struct {
	Code    uint32
	Pressed bool
}

// Minimized reports the window being iconified or restored.
type Minimized struct {
	Minimized bool
}

// Destroyed is the final event for a window. Its ID is invalid
// afterwards and never reused.
type Destroyed struct{}

func (CloseRequested) ImplementsWindowEventKind()     {}
func (Resized) ImplementsWindowEventKind()            {}
func (Moved) ImplementsWindowEventKind()              {}
func (Focused) ImplementsWindowEventKind()            {}
func (ScaleFactorChanged) ImplementsWindowEventKind() {}
func (RedrawRequested) ImplementsWindowEventKind()    {}
func (CursorMoved) ImplementsWindowEventKind()        {}
func (CursorEntered) ImplementsWindowEventKind()      {}
func (CursorLeft) ImplementsWindowEventKind()         {}
func (MouseInput) ImplementsWindowEventKind()         {}
func (MouseWheel) ImplementsWindowEventKind()         {}
func (KeyboardInput) ImplementsWindowEventKind()      {}
func (Minimized) ImplementsWindowEventKind()          {}
func (Destroyed) ImplementsWindowEventKind()          {}

// DeviceEventKind is the marker interface for device-level event kinds.
type DeviceEventKind interface {
	ImplementsDeviceEventKind()
}

// MotionDelta carries unaccelerated pointer deltas.
type MotionDelta struct {
	DX, DY float64
}

// ButtonChanged reports a device button transition.
type ButtonChanged struct {
	Button  uint8
	Pressed bool
}

func (MotionDelta) ImplementsDeviceEventKind()   {}
func (ButtonChanged) ImplementsDeviceEventKind() {}
