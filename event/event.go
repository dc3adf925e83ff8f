// Package event defines the canonical, backend-independent event set
// delivered by a casement event loop, along with the window identifier
// type shared by every layer of the library.
package event

// WindowID is an opaque, process-unique window identifier. IDs are
// stable for the life of a window and are never reused after the
// window is destroyed.
type WindowID uint64

// DeviceID identifies an input device for device-level events. Backends
// that cannot distinguish devices report DeviceID(0).
type DeviceID uint32

// Event is the marker interface implemented by every canonical event.
type Event interface {
	ImplementsEvent()
}

// StartCause explains why an iteration of the event loop started.
type StartCause int

const (
	// CauseInit marks the very first iteration after the loop starts.
	CauseInit StartCause = iota
	// CausePoll marks an iteration begun without blocking.
	CausePoll
	// CauseWaitCancelled marks a wait interrupted by an event or a wake.
	CauseWaitCancelled
	// CauseResumeTimeReached marks a WaitUntil deadline expiring.
	CauseResumeTimeReached
)

func (c StartCause) String() string {
	switch c {
	case CauseInit:
		return "init"
	case CausePoll:
		return "poll"
	case CauseWaitCancelled:
		return "wait-cancelled"
	case CauseResumeTimeReached:
		return "resume-time-reached"
	default:
		return "unknown"
	}
}

// NewEvents opens every loop iteration, before any queued events are
// dispatched.
type NewEvents struct {
	Cause StartCause
}

// AboutToWait is delivered after the iteration's batch has been fully
// dispatched and before the loop blocks or polls again.
type AboutToWait struct{}

// Resumed is delivered once after the first NewEvents. Desktop backends
// are always resumed; the variant exists for platforms with a suspended
// lifecycle stage.
type Resumed struct{}

// Suspended is the counterpart of Resumed on platforms that suspend.
type Suspended struct{}

// LoopExiting is the final event delivered by a loop. Exactly one is
// dispatched, after which Run returns.
type LoopExiting struct{}

// LoopError reports a fatal backend failure. It is delivered before the
// loop transitions toward exit so the handler observes the cause.
type LoopError struct {
	Err error
}

// UserEvent carries a payload injected through a Proxy from any
// goroutine.
type UserEvent struct {
	Payload any
}

// WindowEvent is an event scoped to a single window.
type WindowEvent struct {
	Window WindowID
	Kind   WindowEventKind
}

// DeviceEvent is a raw, window-independent input event.
type DeviceEvent struct {
	Device DeviceID
	Kind   DeviceEventKind
}

func (NewEvents) ImplementsEvent()   {}
func (AboutToWait) ImplementsEvent() {}
func (Resumed) ImplementsEvent()     {}
func (Suspended) ImplementsEvent()   {}
func (LoopExiting) ImplementsEvent() {}
func (LoopError) ImplementsEvent()   {}
func (UserEvent) ImplementsEvent()   {}
func (WindowEvent) ImplementsEvent() {}
func (DeviceEvent) ImplementsEvent() {}
