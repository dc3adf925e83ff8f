// Package headless implements an in-memory backend with no native
// display. It serves display-less environments and is the substrate
// the core's test suite runs on: tests inject raw events exactly as a
// native source would deliver them.
package headless

import (
	"fmt"
	"sync"
	"time"

	"github.com/1broseidon/casement/backend"
	"github.com/1broseidon/casement/event"
)

const defaultQueueCapacity = 1024

func init() {
	backend.Register(backend.KindHeadless, func() (backend.Backend, error) {
		return New(), nil
	})
}

type window struct {
	x, y          int
	width, height int
	visible       bool
	title         string
	lastFrame     []byte
	frameW        int
	frameH        int
}

// Backend is an in-memory window system. All window-mutating
// operations are mutex-guarded, so it advertises CapCrossThreadOps.
type Backend struct {
	mu      sync.Mutex
	windows map[event.WindowID]*window
	closed  bool

	raw   chan backend.RawEvent
	wake  chan struct{}
	fatal chan error

	scale float64
}

// Option configures a headless backend.
type Option func(*Backend)

// WithQueueCapacity bounds the raw event buffer.
func WithQueueCapacity(n int) Option {
	return func(b *Backend) {
		if n > 0 {
			b.raw = make(chan backend.RawEvent, n)
		}
	}
}

// WithScaleFactor sets the scale factor reported for new windows.
func WithScaleFactor(f float64) Option {
	return func(b *Backend) {
		if f > 0 {
			b.scale = f
		}
	}
}

func New(opts ...Option) *Backend {
	b := &Backend{
		windows: make(map[event.WindowID]*window),
		raw:     make(chan backend.RawEvent, defaultQueueCapacity),
		wake:    make(chan struct{}, 1),
		fatal:   make(chan error, 1),
		scale:   1.0,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func (b *Backend) Kind() backend.Kind { return backend.KindHeadless }

func (b *Backend) Capabilities() backend.Capability {
	return backend.CapCrossThreadOps | backend.CapSoftwareBuffer | backend.CapSetPosition
}

func (b *Backend) CreateWindow(attrs backend.WindowAttributes) (backend.Created, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return backend.Created{}, &backend.WindowCreationError{
			Kind: backend.KindHeadless,
			Err:  fmt.Errorf("backend closed"),
		}
	}

	w := &window{
		x:       attrs.X,
		y:       attrs.Y,
		width:   attrs.Width,
		height:  attrs.Height,
		visible: attrs.Visible,
		title:   attrs.Title,
	}
	if w.width <= 0 {
		w.width = 800
	}
	if w.height <= 0 {
		w.height = 600
	}
	if !attrs.HasPos {
		w.x, w.y = 0, 0
	}

	id := backend.NextWindowID()
	b.windows[id] = w
	return backend.Created{
		ID:          id,
		X:           w.x,
		Y:           w.y,
		Width:       w.width,
		Height:      w.height,
		ScaleFactor: b.scale,
	}, nil
}

func (b *Backend) DestroyWindow(id event.WindowID) error {
	b.mu.Lock()
	_, ok := b.windows[id]
	if ok {
		delete(b.windows, id)
	}
	b.mu.Unlock()
	if !ok {
		return fmt.Errorf("headless: destroy of unknown window %d", id)
	}
	// Destruction is confirmed through the event stream, mirroring
	// native backends where DestroyNotify trails the request.
	b.Inject(backend.RawDestroyed{Window: id})
	return nil
}

func (b *Backend) SetTitle(id event.WindowID, title string) error {
	return b.withWindow(id, func(w *window) { w.title = title })
}

func (b *Backend) SetVisible(id event.WindowID, visible bool) error {
	err := b.withWindow(id, func(w *window) { w.visible = visible })
	if err != nil {
		return err
	}
	if visible {
		b.Inject(backend.RawMapped{Window: id})
	} else {
		b.Inject(backend.RawUnmapped{Window: id})
	}
	return nil
}

func (b *Backend) RequestSize(id event.WindowID, width, height int) error {
	var x, y int
	err := b.withWindow(id, func(w *window) {
		w.width, w.height = width, height
		x, y = w.x, w.y
	})
	if err != nil {
		return err
	}
	// The headless window system grants every request verbatim and
	// confirms it like a real server would.
	b.Inject(backend.RawConfigure{Window: id, X: x, Y: y, Width: width, Height: height})
	return nil
}

func (b *Backend) RequestRedraw(id event.WindowID) error {
	if err := b.withWindow(id, func(*window) {}); err != nil {
		return err
	}
	b.Inject(backend.RawRedraw{Window: id})
	return nil
}

// PresentBuffer stores the frame for later inspection via LastFrame.
func (b *Backend) PresentBuffer(id event.WindowID, pix []byte, width, height int) error {
	if len(pix) < width*height*4 {
		return fmt.Errorf("headless: buffer too small for %dx%d", width, height)
	}
	return b.withWindow(id, func(w *window) {
		w.lastFrame = append(w.lastFrame[:0], pix[:width*height*4]...)
		w.frameW, w.frameH = width, height
	})
}

// LastFrame returns the most recently presented buffer for a window.
func (b *Backend) LastFrame(id event.WindowID) (pix []byte, width, height int, ok bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	w, found := b.windows[id]
	if !found || w.lastFrame == nil {
		return nil, 0, 0, false
	}
	out := make([]byte, len(w.lastFrame))
	copy(out, w.lastFrame)
	return out, w.frameW, w.frameH, true
}

// Title returns the window's current title, for tests.
func (b *Backend) Title(id event.WindowID) (string, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	w, ok := b.windows[id]
	if !ok {
		return "", false
	}
	return w.title, true
}

// Inject feeds raw events into the backend's buffer, playing the role
// of the native event source. Safe from any goroutine.
func (b *Backend) Inject(events ...backend.RawEvent) {
	for _, ev := range events {
		b.raw <- ev
	}
}

// InjectFatal makes the next PumpEvents call fail with err, simulating
// a native connection loss.
func (b *Backend) InjectFatal(err error) {
	select {
	case b.fatal <- err:
	default:
	}
	b.Wake()
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

func (b *Backend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
	b.windows = make(map[event.WindowID]*window)
	return nil
}

func (b *Backend) withWindow(id event.WindowID, fn func(*window)) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	w, ok := b.windows[id]
	if !ok {
		return fmt.Errorf("headless: unknown window %d", id)
	}
	fn(w)
	return nil
}

func (b *Backend) takeFatal() error {
	select {
	case err := <-b.fatal:
		return err
	default:
		return nil
	}
}

var (
	_ backend.Backend          = (*Backend)(nil)
	_ backend.SoftwareBufferer = (*Backend)(nil)
)
