// Package translate converts normalized raw backend events into the
// canonical event set. Translation is pure: given the same raw event
// and the same window-state snapshot it always produces the same
// canonical events, which is what makes the event stream structurally
// identical across backends.
package translate

import (
	"errors"
	"fmt"
	"math"

	"github.com/1broseidon/casement/backend"
	"github.com/1broseidon/casement/event"
	"github.com/1broseidon/casement/internal/registry"
)

// Coordinates selects the coordinate space of dispatched events.
type Coordinates int

const (
	// Logical reports positions and sizes divided by the window's
	// scale factor.
	Logical Coordinates = iota
	// Physical reports positions and sizes as the backend delivered
	// them.
	Physical
)

// ErrDropped reports a raw event that could not be translated. The
// loop logs it and continues; it is never fatal.
var ErrDropped = errors.New("raw event dropped")

// StateSource provides the window-state snapshot translation depends
// on. *registry.Registry satisfies it.
type StateSource interface {
	Get(event.WindowID) (registry.WindowState, error)
	Has(event.WindowID) bool
}

// Translator holds the translation policy. It carries no mutable
// state of its own.
type Translator struct {
	Coordinates Coordinates
}

// Translate maps one raw event to zero or more canonical events using
// the given state snapshot. An ErrDropped-wrapped error means the raw
// event was malformed or referenced an unknown window; the caller logs
// and moves on.
func (t Translator) Translate(raw backend.RawEvent, states StateSource) ([]event.Event, error) {
	switch r := raw.(type) {
	case backend.RawCloseRequest:
		if !states.Has(r.Window) {
			return nil, unknownWindow("close request", r.Window)
		}
		return []event.Event{windowEvent(r.Window, event.CloseRequested{})}, nil

	case backend.RawConfigure:
		return t.translateConfigure(r, states)

	case backend.RawFocus:
		st, err := states.Get(r.Window)
		if err != nil {
			return nil, unknownWindow("focus", r.Window)
		}
		if st.Focused == r.Gained {
			// Some window systems repeat focus notifications.
			return nil, nil
		}
		return []event.Event{windowEvent(r.Window, event.Focused{Gained: r.Gained})}, nil

	case backend.RawRedraw:
		if !states.Has(r.Window) {
			return nil, unknownWindow("redraw", r.Window)
		}
		return []event.Event{windowEvent(r.Window, event.RedrawRequested{})}, nil

	case backend.RawDestroyed:
		st, err := states.Get(r.Window)
		if err != nil {
			return nil, unknownWindow("destroy", r.Window)
		}
		// Backends may conflate focus loss with destruction; the
		// canonical stream always sees the focus transition first.
		evs := make([]event.Event, 0, 2)
		if st.Focused {
			evs = append(evs, windowEvent(r.Window, event.Focused{Gained: false}))
		}
		evs = append(evs, windowEvent(r.Window, event.Destroyed{}))
		return evs, nil

	case backend.RawMapped:
		st, err := states.Get(r.Window)
		if err != nil {
			return nil, unknownWindow("map", r.Window)
		}
		if !st.Minimized {
			return nil, nil
		}
		return []event.Event{windowEvent(r.Window, event.Minimized{Minimized: false})}, nil

	case backend.RawUnmapped:
		st, err := states.Get(r.Window)
		if err != nil {
			return nil, unknownWindow("unmap", r.Window)
		}
		evs := make([]event.Event, 0, 2)
		if st.Focused {
			evs = append(evs, windowEvent(r.Window, event.Focused{Gained: false}))
		}
		if !st.Minimized {
			evs = append(evs, windowEvent(r.Window, event.Minimized{Minimized: true}))
		}
		return evs, nil

	case backend.RawKey:
		if !states.Has(r.Window) {
			return nil, unknownWindow("key", r.Window)
		}
		return []event.Event{windowEvent(r.Window, event.KeyboardInput{
			Code:    r.Code,
			Pressed: r.Pressed,
		})}, nil

	case backend.RawButton:
		st, err := states.Get(r.Window)
		if err != nil {
			return nil, unknownWindow("button", r.Window)
		}
		x, y := t.point(r.X, r.Y, st.ScaleFactor)
		return []event.Event{windowEvent(r.Window, event.MouseInput{
			Button:  r.Button,
			Pressed: r.Pressed,
			X:       x,
			Y:       y,
		})}, nil

	case backend.RawMotion:
		st, err := states.Get(r.Window)
		if err != nil {
			return nil, unknownWindow("motion", r.Window)
		}
		x, y := t.point(r.X, r.Y, st.ScaleFactor)
		return []event.Event{windowEvent(r.Window, event.CursorMoved{X: x, Y: y})}, nil

	case backend.RawWheel:
		if !states.Has(r.Window) {
			return nil, unknownWindow("wheel", r.Window)
		}
		return []event.Event{windowEvent(r.Window, event.MouseWheel{DX: r.DX, DY: r.DY})}, nil

	case backend.RawEnter:
		if !states.Has(r.Window) {
			return nil, unknownWindow("enter", r.Window)
		}
		return []event.Event{windowEvent(r.Window, event.CursorEntered{})}, nil

	case backend.RawLeave:
		if !states.Has(r.Window) {
			return nil, unknownWindow("leave", r.Window)
		}
		return []event.Event{windowEvent(r.Window, event.CursorLeft{})}, nil

	case backend.RawDeviceMotion:
		return []event.Event{event.DeviceEvent{
			Device: r.Device,
			Kind:   event.MotionDelta{DX: r.DX, DY: r.DY},
		}}, nil

	case backend.RawUnknown:
		return nil, fmt.Errorf("%w: unclassified native event %q", ErrDropped, r.Native)

	default:
		return nil, fmt.Errorf("%w: unhandled raw event type %T", ErrDropped, raw)
	}
}

// translateConfigure splits a configure into Resized and/or Moved,
// emitting only what actually changed. When both changed the resize is
// delivered first so handlers see a stable canonical order.
func (t Translator) translateConfigure(r backend.RawConfigure, states StateSource) ([]event.Event, error) {
	st, err := states.Get(r.Window)
	if err != nil {
		return nil, unknownWindow("configure", r.Window)
	}
	if r.Width <= 0 || r.Height <= 0 {
		return nil, fmt.Errorf("%w: configure with non-positive size %dx%d", ErrDropped, r.Width, r.Height)
	}

	var evs []event.Event
	if r.Width != st.Width || r.Height != st.Height {
		w, h := t.size(r.Width, r.Height, st.ScaleFactor)
		evs = append(evs, windowEvent(r.Window, event.Resized{Width: w, Height: h}))
	}
	if r.X != st.X || r.Y != st.Y {
		evs = append(evs, windowEvent(r.Window, event.Moved{X: r.X, Y: r.Y}))
	}
	return evs, nil
}

func (t Translator) point(x, y int, scale float64) (float64, float64) {
	if t.Coordinates == Physical || scale == 0 {
		return float64(x), float64(y)
	}
	return float64(x) / scale, float64(y) / scale
}

func (t Translator) size(w, h int, scale float64) (int, int) {
	if t.Coordinates == Physical || scale == 0 || scale == 1.0 {
		return w, h
	}
	return roundHalfAway(float64(w) / scale), roundHalfAway(float64(h) / scale)
}

func roundHalfAway(v float64) int {
	return int(math.Round(v))
}

func windowEvent(id event.WindowID, kind event.WindowEventKind) event.Event {
	return event.WindowEvent{Window: id, Kind: kind}
}

func unknownWindow(what string, id event.WindowID) error {
	return fmt.Errorf("%w: %s for unregistered window %d", ErrDropped, what, id)
}
