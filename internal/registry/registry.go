// Package registry tracks per-window state for the event-loop core.
//
// The registry is the single authority on window state. Only the loop
// driver mutates it, and only when applying a backend-confirmed event;
// application requests (resize, title) go through the backend and come
// back as confirmed events before any state changes here.
package registry

import (
	"errors"
	"fmt"

	"github.com/1broseidon/casement/event"
)

// ErrNotFound reports an operation on an unregistered or destroyed
// window ID. It is a programmer error and is always surfaced.
var ErrNotFound = errors.New("window not registered")

// WindowState is the authoritative state of a live window. Position and
// size are physical pixels as reported by the backend.
type WindowState struct {
	X, Y        int
	Width       int
	Height      int
	ScaleFactor float64
	Visible     bool
	Focused     bool
	Minimized   bool
	Decorated   bool
	Title       string
}

// Delta describes a state mutation. Nil fields leave the corresponding
// state untouched.
type Delta struct {
	X, Y        *int
	Width       *int
	Height      *int
	ScaleFactor *float64
	Visible     *bool
	Focused     *bool
	Minimized   *bool
	Title       *string
}

// Registry maps window IDs to state. It is not safe for concurrent
// use: all access happens on the loop thread.
type Registry struct {
	windows map[event.WindowID]*WindowState
}

func New() *Registry {
	return &Registry{windows: make(map[event.WindowID]*WindowState)}
}

// Register records a newly created window. Registering an ID twice is
// a bug in the caller.
func (r *Registry) Register(id event.WindowID, initial WindowState) error {
	if _, ok := r.windows[id]; ok {
		return fmt.Errorf("window %d already registered", id)
	}
	if initial.ScaleFactor <= 0 {
		initial.ScaleFactor = 1.0
	}
	st := initial
	r.windows[id] = &st
	return nil
}

// Get returns a copy of the window's state.
func (r *Registry) Get(id event.WindowID) (WindowState, error) {
	st, ok := r.windows[id]
	if !ok {
		return WindowState{}, fmt.Errorf("window %d: %w", id, ErrNotFound)
	}
	return *st, nil
}

// Has reports whether id is currently registered.
func (r *Registry) Has(id event.WindowID) bool {
	_, ok := r.windows[id]
	return ok
}

// Len returns the number of live windows.
func (r *Registry) Len() int {
	return len(r.windows)
}

// Update applies a delta to a registered window.
func (r *Registry) Update(id event.WindowID, d Delta) error {
	st, ok := r.windows[id]
	if !ok {
		return fmt.Errorf("window %d: %w", id, ErrNotFound)
	}
	if d.X != nil {
		st.X = *d.X
	}
	if d.Y != nil {
		st.Y = *d.Y
	}
	if d.Width != nil {
		st.Width = *d.Width
	}
	if d.Height != nil {
		st.Height = *d.Height
	}
	if d.ScaleFactor != nil {
		st.ScaleFactor = *d.ScaleFactor
	}
	if d.Visible != nil {
		st.Visible = *d.Visible
	}
	if d.Focused != nil {
		st.Focused = *d.Focused
	}
	if d.Minimized != nil {
		st.Minimized = *d.Minimized
	}
	if d.Title != nil {
		st.Title = *d.Title
	}
	return nil
}

// Unregister removes a destroyed window. Valid only after the backend
// confirmed destruction; the ID is never reused afterwards.
func (r *Registry) Unregister(id event.WindowID) error {
	if _, ok := r.windows[id]; !ok {
		return fmt.Errorf("window %d: %w", id, ErrNotFound)
	}
	delete(r.windows, id)
	return nil
}
