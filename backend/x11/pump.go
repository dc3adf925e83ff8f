//go:build linux

package x11

import (
	"fmt"
	"log"
	"time"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xproto"

	"github.com/1broseidon/casement/backend"
	"github.com/1broseidon/casement/event"
)

// readEvents runs on its own goroutine for the life of the connection,
// re-architecting X11's push delivery into the bounded buffer that
// PumpEvents drains on the loop thread. Order is preserved: the
// channel is the only path from the wire to the loop.
func (b *Backend) readEvents() {
	conn := b.xu.Conn()
	for {
		ev, xerr := conn.WaitForEvent()
		if ev == nil && xerr == nil {
			// Connection closed. Deliberate Close is not an error;
			// anything else is fatal to the loop.
			select {
			case <-b.done:
			default:
				select {
				case b.fatal <- fmt.Errorf("x11: connection to display lost"):
				default:
				}
				b.Wake()
			}
			return
		}
		if xerr != nil {
			// Per-request protocol errors are not fatal; the failed
			// request already reported to its caller.
			log.Printf("x11: protocol error: %v", xerr)
			continue
		}

		raw, ok := b.convertEvent(ev)
		if !ok {
			continue
		}
		select {
		case b.raw <- raw:
		case <-b.done:
			return
		}
	}
}

// convertEvent maps one native event to the normalized raw set.
// Synthesis and coordinate policy are the translator's job; this is a
// plain structural mapping.
func (b *Backend) convertEvent(ev xgb.Event) (backend.RawEvent, bool) {
	switch e := ev.(type) {
	case xproto.ClientMessageEvent:
		id, ok := b.resolveNative(e.Window)
		if !ok {
			return nil, false
		}
		if e.Type == b.wmProtocols && e.Format == 32 {
			data := e.Data.Data32
			if len(data) > 0 && xproto.Atom(data[0]) == b.wmDeleteWindow {
				return backend.RawCloseRequest{Window: id}, true
			}
		}
		return nil, false

	case xproto.ConfigureNotifyEvent:
		id, ok := b.resolveNative(e.Window)
		if !ok {
			return nil, false
		}
		return backend.RawConfigure{
			Window: id,
			X:      int(e.X),
			Y:      int(e.Y),
			Width:  int(e.Width),
			Height: int(e.Height),
		}, true

	case xproto.FocusInEvent:
		id, ok := b.resolveNative(e.Event)
		if !ok {
			return nil, false
		}
		return backend.RawFocus{Window: id, Gained: true}, true

	case xproto.FocusOutEvent:
		id, ok := b.resolveNative(e.Event)
		if !ok {
			return nil, false
		}
		return backend.RawFocus{Window: id, Gained: false}, true

	case xproto.ExposeEvent:
		// Coalesce: only the final expose of a series triggers a
		// redraw.
		if e.Count != 0 {
			return nil, false
		}
		id, ok := b.resolveNative(e.Window)
		if !ok {
			return nil, false
		}
		return backend.RawRedraw{Window: id}, true

	case xproto.DestroyNotifyEvent:
		id, ok := b.resolveNative(e.Window)
		if !ok {
			return nil, false
		}
		b.forgetNative(e.Window)
		return backend.RawDestroyed{Window: id}, true

	case xproto.MapNotifyEvent:
		id, ok := b.resolveNative(e.Window)
		if !ok {
			return nil, false
		}
		return backend.RawMapped{Window: id}, true

	case xproto.UnmapNotifyEvent:
		id, ok := b.resolveNative(e.Window)
		if !ok {
			return nil, false
		}
		return backend.RawUnmapped{Window: id}, true

	case xproto.KeyPressEvent:
		id, ok := b.resolveNative(e.Event)
		if !ok {
			return nil, false
		}
		return backend.RawKey{Window: id, Code: uint32(e.Detail), Pressed: true}, true

	case xproto.KeyReleaseEvent:
		id, ok := b.resolveNative(e.Event)
		if !ok {
			return nil, false
		}
		return backend.RawKey{Window: id, Code: uint32(e.Detail), Pressed: false}, true

	case xproto.ButtonPressEvent:
		id, ok := b.resolveNative(e.Event)
		if !ok {
			return nil, false
		}
		if raw, isWheel := wheelFromButton(id, e.Detail, int(e.EventX), int(e.EventY)); isWheel {
			return raw, true
		}
		return backend.RawButton{
			Window:  id,
			Button:  uint8(e.Detail),
			Pressed: true,
			X:       int(e.EventX),
			Y:       int(e.EventY),
		}, true

	case xproto.ButtonReleaseEvent:
		id, ok := b.resolveNative(e.Event)
		if !ok {
			return nil, false
		}
		// Wheel buttons report press only.
		if e.Detail >= 4 && e.Detail <= 7 {
			return nil, false
		}
		return backend.RawButton{
			Window:  id,
			Button:  uint8(e.Detail),
			Pressed: false,
			X:       int(e.EventX),
			Y:       int(e.EventY),
		}, true

	case xproto.MotionNotifyEvent:
		id, ok := b.resolveNative(e.Event)
		if !ok {
			return nil, false
		}
		return backend.RawMotion{Window: id, X: int(e.EventX), Y: int(e.EventY)}, true

	case xproto.EnterNotifyEvent:
		id, ok := b.resolveNative(e.Event)
		if !ok {
			return nil, false
		}
		return backend.RawEnter{Window: id, X: int(e.EventX), Y: int(e.EventY)}, true

	case xproto.LeaveNotifyEvent:
		id, ok := b.resolveNative(e.Event)
		if !ok {
			return nil, false
		}
		return backend.RawLeave{Window: id}, true

	case xproto.ReparentNotifyEvent, xproto.MappingNotifyEvent,
		xproto.GravityNotifyEvent, xproto.CirculateNotifyEvent:
		// Bookkeeping notifications with no canonical counterpart.
		return nil, false

	default:
		return backend.RawUnknown{Native: fmt.Sprintf("%T", ev)}, true
	}
}

// wheelFromButton maps X11's wheel-as-button encoding (buttons 4-7)
// to scroll deltas.
func wheelFromButton(id event.WindowID, detail xproto.Button, x, y int) (backend.RawEvent, bool) {
	switch detail {
	case 4:
		return backend.RawWheel{Window: id, DY: 1, X: x, Y: y}, true
	case 5:
		return backend.RawWheel{Window: id, DY: -1, X: x, Y: y}, true
	case 6:
		return backend.RawWheel{Window: id, DX: 1, X: x, Y: y}, true
	case 7:
		return backend.RawWheel{Window: id, DX: -1, X: x, Y: y}, true
	default:
		return nil, false
	}
}

func (b *Backend) PumpEvents(mode backend.PumpMode, deadline time.Time) ([]backend.RawEvent, error) {
	if err := b.takeFatal(); err != nil {
		return nil, err
	}

	var batch []backend.RawEvent
	switch mode {
	case backend.PumpPoll:
		// Drain without blocking.

	case backend.PumpWait:
		select {
		case ev := <-b.raw:
			batch = append(batch, ev)
		case <-b.wake:
		}

	case backend.PumpWaitUntil:
		timer := time.NewTimer(time.Until(deadline))
		defer timer.Stop()
		select {
		case ev := <-b.raw:
			batch = append(batch, ev)
		case <-b.wake:
		case <-timer.C:
		}
	}

	for {
		select {
		case ev := <-b.raw:
			batch = append(batch, ev)
		default:
			if err := b.takeFatal(); err != nil {
				return batch, err
			}
			return batch, nil
		}
	}
}

func (b *Backend) Wake() {
	select {
	case b.wake <- struct{}{}:
	default:
	}
}

func (b *Backend) takeFatal() error {
	select {
	case err := <-b.fatal:
		return err
	default:
		return nil
	}
}
