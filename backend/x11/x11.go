//go:build linux

// Package x11 implements the X11 backend over the pure-Go X protocol
// bindings. One connection per backend instance owns all windows; the
// push-style native event stream is captured by a reader goroutine
// into a bounded buffer that PumpEvents drains on the loop thread.
package x11

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"sync"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"

	"github.com/1broseidon/casement/backend"
	"github.com/1broseidon/casement/event"
)

const defaultQueueCapacity = 1024

func init() {
	backend.Register(backend.KindX11, func() (backend.Backend, error) {
		return New()
	})
}

type nativeWindow struct {
	win   xproto.Window
	gc    xproto.Gcontext
	hasGC bool
}

// Backend owns one X11 connection and the windows created through it.
// xgb serializes protocol requests internally, so window-mutating
// operations are safe from any goroutine and the backend advertises
// CapCrossThreadOps.
type Backend struct {
	xu   *xgbutil.XUtil
	root xproto.Window

	wmProtocols    xproto.Atom
	wmDeleteWindow xproto.Atom

	mu       sync.Mutex
	byID     map[event.WindowID]*nativeWindow
	byNative map[xproto.Window]event.WindowID
	closed   bool

	raw   chan backend.RawEvent
	wake  chan struct{}
	fatal chan error
	done  chan struct{}

	scale float64
}

// New connects to the X server named by DISPLAY. A missing or
// unreachable display reports ErrBackendUnavailable.
func New() (*Backend, error) {
	xu, err := xgbutil.NewConn()
	if err != nil {
		return nil, fmt.Errorf("x11: %w: %v", backend.ErrBackendUnavailable, err)
	}

	b := &Backend{
		xu:       xu,
		root:     xu.RootWin(),
		byID:     make(map[event.WindowID]*nativeWindow),
		byNative: make(map[xproto.Window]event.WindowID),
		raw:      make(chan backend.RawEvent, defaultQueueCapacity),
		wake:     make(chan struct{}, 1),
		fatal:    make(chan error, 1),
		done:     make(chan struct{}),
		scale:    scaleFactor(),
	}

	if err := b.internAtoms(); err != nil {
		xu.Conn().Close()
		return nil, fmt.Errorf("x11: failed to intern atoms: %w", err)
	}

	go b.readEvents()
	return b, nil
}

func (b *Backend) Kind() backend.Kind { return backend.KindX11 }

func (b *Backend) Capabilities() backend.Capability {
	return backend.CapCrossThreadOps | backend.CapSoftwareBuffer | backend.CapSetPosition
}

// Close disconnects from the X server. Windows still alive are
// destroyed by the server when the connection drops.
func (b *Backend) Close() error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil
	}
	b.closed = true
	b.mu.Unlock()

	close(b.done)
	b.xu.Conn().Close()
	return nil
}

func (b *Backend) internAtoms() error {
	conn := b.xu.Conn()
	protocols, err := xproto.InternAtom(conn, false, uint16(len("WM_PROTOCOLS")), "WM_PROTOCOLS").Reply()
	if err != nil {
		return err
	}
	deleteWin, err := xproto.InternAtom(conn, false, uint16(len("WM_DELETE_WINDOW")), "WM_DELETE_WINDOW").Reply()
	if err != nil {
		return err
	}
	b.wmProtocols = protocols.Atom
	b.wmDeleteWindow = deleteWin.Atom
	return nil
}

// lookup resolves a core ID to its native window.
func (b *Backend) lookup(id event.WindowID) (*nativeWindow, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	nw, ok := b.byID[id]
	if !ok {
		return nil, fmt.Errorf("x11: unknown window %d", id)
	}
	return nw, nil
}

func (b *Backend) resolveNative(win xproto.Window) (event.WindowID, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	id, ok := b.byNative[win]
	return id, ok
}

func (b *Backend) forgetNative(win xproto.Window) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if id, ok := b.byNative[win]; ok {
		delete(b.byNative, win)
		delete(b.byID, id)
	}
}

// scaleFactor resolves the per-connection scale factor. X11 has no
// authoritative per-window scale; the override environment variable
// mirrors what users of other toolkits expect.
func scaleFactor() float64 {
	if s := os.Getenv("CASEMENT_X11_SCALE_FACTOR"); s != "" {
		f, err := strconv.ParseFloat(s, 64)
		if err != nil || f <= 0 {
			log.Printf("x11: ignoring invalid CASEMENT_X11_SCALE_FACTOR=%q", s)
		} else {
			return f
		}
	}
	return 1.0
}

var (
	_ backend.Backend          = (*Backend)(nil)
	_ backend.SoftwareBufferer = (*Backend)(nil)
)
