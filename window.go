package casement

import (
	"fmt"

	"github.com/1broseidon/casement/backend"
	"github.com/1broseidon/casement/event"
	"github.com/1broseidon/casement/internal/registry"
)

// WindowAttributes describes a window creation request.
type WindowAttributes = backend.WindowAttributes

// Window is the application's handle to one window. Its mutating
// methods are requests forwarded to the backend; authoritative state
// changes arrive as events. Methods are safe from any goroutine on
// backends advertising CapCrossThreadOps (both shipped backends);
// others return ErrCrossThread when called off the loop thread.
type Window struct {
	id   event.WindowID
	loop *EventLoop
}

// CreateWindow creates a window and registers it with the loop. Call
// it before Run, or from the handler via Control.CreateWindow; window
// creation races with a running loop otherwise.
func (l *EventLoop) CreateWindow(attrs WindowAttributes) (*Window, error) {
	if l.state.Load() == stateExited {
		return nil, ErrLoopConsumed
	}

	created, err := l.backend.CreateWindow(attrs)
	if err != nil {
		return nil, err
	}

	err = l.reg.Register(created.ID, registry.WindowState{
		X:           created.X,
		Y:           created.Y,
		Width:       created.Width,
		Height:      created.Height,
		ScaleFactor: created.ScaleFactor,
		Visible:     attrs.Visible,
		Decorated:   attrs.Decorated,
		Title:       attrs.Title,
	})
	if err != nil {
		// Registration cannot fail for a fresh ID; treat it as a
		// creation failure and roll the native window back.
		l.backend.DestroyWindow(created.ID)
		return nil, &backend.WindowCreationError{Kind: l.backend.Kind(), Err: err}
	}
	l.everCreated = true

	return &Window{id: created.ID, loop: l}, nil
}

// ID returns the window's process-unique identifier.
func (w *Window) ID() event.WindowID { return w.id }

// SetTitle requests a title change.
func (w *Window) SetTitle(title string) error {
	return w.loop.backend.SetTitle(w.id, title)
}

// SetVisible requests mapping or unmapping of the window.
func (w *Window) SetVisible(visible bool) error {
	return w.loop.backend.SetVisible(w.id, visible)
}

// RequestSize asks for a resize. The authoritative new size arrives as
// a Resized event once the window system confirms it.
func (w *Window) RequestSize(width, height int) error {
	return w.loop.backend.RequestSize(w.id, width, height)
}

// RequestRedraw schedules a RedrawRequested event for the window.
func (w *Window) RequestRedraw() error {
	return w.loop.backend.RequestRedraw(w.id)
}

// Destroy tears the window down. The Destroyed event confirms it and
// invalidates the ID permanently.
func (w *Window) Destroy() error {
	return w.loop.backend.DestroyWindow(w.id)
}

// PresentBuffer blits a 32-bit BGRX software buffer to the window on
// backends with CapSoftwareBuffer.
func (w *Window) PresentBuffer(pix []byte, width, height int) error {
	b := w.loop.backend
	sb, ok := b.(backend.SoftwareBufferer)
	if !ok || !b.Capabilities().Has(backend.CapSoftwareBuffer) {
		return fmt.Errorf("%s: present buffer: %w", b.Kind(), backend.ErrUnsupported)
	}
	return sb.PresentBuffer(w.id, pix, width, height)
}
