//go:build linux

package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"
	"github.com/BurntSushi/xgbutil/xwindow"

	"github.com/1broseidon/casement/backend"
	"github.com/1broseidon/casement/event"
)

const (
	defaultWidth  = 800
	defaultHeight = 600
)

// eventMask selects every native event class the translator consumes.
const eventMask = xproto.EventMaskStructureNotify |
	xproto.EventMaskKeyPress |
	xproto.EventMaskKeyRelease |
	xproto.EventMaskButtonPress |
	xproto.EventMaskButtonRelease |
	xproto.EventMaskPointerMotion |
	xproto.EventMaskEnterWindow |
	xproto.EventMaskLeaveWindow |
	xproto.EventMaskFocusChange |
	xproto.EventMaskExposure

func (b *Backend) CreateWindow(attrs backend.WindowAttributes) (backend.Created, error) {
	width, height := attrs.Width, attrs.Height
	if width <= 0 {
		width = defaultWidth
	}
	if height <= 0 {
		height = defaultHeight
	}
	x, y := 0, 0
	if attrs.HasPos {
		x, y = attrs.X, attrs.Y
	}

	win, err := xwindow.Generate(b.xu)
	if err != nil {
		return backend.Created{}, &backend.WindowCreationError{Kind: backend.KindX11, Err: err}
	}

	err = win.CreateChecked(b.root, x, y, width, height,
		xproto.CwBackPixel|xproto.CwEventMask,
		b.xu.Screen().WhitePixel, eventMask)
	if err != nil {
		return backend.Created{}, &backend.WindowCreationError{Kind: backend.KindX11, Err: err}
	}

	// Opt in to WM_DELETE_WINDOW so closes arrive as client messages
	// instead of the server killing the connection.
	if err := icccm.WmProtocolsSet(b.xu, win.Id, []string{"WM_DELETE_WINDOW"}); err != nil {
		win.Destroy()
		return backend.Created{}, &backend.WindowCreationError{Kind: backend.KindX11, Err: err}
	}

	if attrs.Title != "" {
		if err := ewmh.WmNameSet(b.xu, win.Id, attrs.Title); err != nil {
			// Title is cosmetic; creation proceeds.
			icccm.WmNameSet(b.xu, win.Id, attrs.Title)
		}
	}

	id := backend.NextWindowID()
	b.mu.Lock()
	b.byID[id] = &nativeWindow{win: win.Id}
	b.byNative[win.Id] = id
	b.mu.Unlock()

	if attrs.Visible {
		win.Map()
	}

	return backend.Created{
		ID:          id,
		X:           x,
		Y:           y,
		Width:       width,
		Height:      height,
		ScaleFactor: b.scale,
	}, nil
}

// DestroyWindow asks the server to destroy the window. The confirmed
// DestroyNotify flows back through the event stream.
func (b *Backend) DestroyWindow(id event.WindowID) error {
	nw, err := b.lookup(id)
	if err != nil {
		return err
	}
	xwindow.New(b.xu, nw.win).Destroy()
	return nil
}

func (b *Backend) SetTitle(id event.WindowID, title string) error {
	nw, err := b.lookup(id)
	if err != nil {
		return err
	}
	if err := ewmh.WmNameSet(b.xu, nw.win, title); err != nil {
		return icccm.WmNameSet(b.xu, nw.win, title)
	}
	return nil
}

func (b *Backend) SetVisible(id event.WindowID, visible bool) error {
	nw, err := b.lookup(id)
	if err != nil {
		return err
	}
	win := xwindow.New(b.xu, nw.win)
	if visible {
		win.Map()
	} else {
		win.Unmap()
	}
	return nil
}

// RequestSize asks the server for a resize; the authoritative outcome
// arrives as ConfigureNotify.
func (b *Backend) RequestSize(id event.WindowID, width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("x11: invalid size request %dx%d", width, height)
	}
	nw, err := b.lookup(id)
	if err != nil {
		return err
	}
	return xproto.ConfigureWindowChecked(b.xu.Conn(), nw.win,
		xproto.ConfigWindowWidth|xproto.ConfigWindowHeight,
		[]uint32{uint32(width), uint32(height)}).Check()
}

// RequestRedraw queues a redraw locally. No server round trip: the
// request only needs to reach the loop thread's next drain, which is
// how compositor-driven toolkits schedule frames as well.
func (b *Backend) RequestRedraw(id event.WindowID) error {
	if _, err := b.lookup(id); err != nil {
		return err
	}
	select {
	case b.raw <- backend.RawRedraw{Window: id}:
	default:
		// Buffer full: a redraw is already pending among the queued
		// events, so dropping the duplicate is harmless.
	}
	b.Wake()
	return nil
}
