// Package backend defines the contract between the casement event-loop
// core and platform-specific windowing adapters, along with the
// normalized raw event set adapters produce.
package backend

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/1broseidon/casement/event"
)

// Kind names a platform backend.
type Kind string

const (
	KindX11      Kind = "x11"
	KindHeadless Kind = "headless"
)

// Capability is a bitset of optional backend features. The driver and
// window handles query capabilities at runtime instead of branching on
// the backend kind, so higher layers degrade gracefully on platforms
// that lack a feature.
type Capability uint32

const (
	// CapCrossThreadOps marks backends whose window-mutating operations
	// are safe to call from any goroutine. Backends without it return
	// ErrCrossThread when mutated off the loop thread.
	CapCrossThreadOps Capability = 1 << iota
	// CapSoftwareBuffer marks backends implementing SoftwareBufferer.
	CapSoftwareBuffer
	// CapSetPosition marks backends that honor a position request in
	// WindowAttributes.
	CapSetPosition
)

// Has reports whether all bits of want are present.
func (c Capability) Has(want Capability) bool {
	return c&want == want
}

// PumpMode selects the blocking behavior of a PumpEvents call.
type PumpMode int

const (
	// PumpPoll drains pending events without blocking.
	PumpPoll PumpMode = iota
	// PumpWait blocks until at least one event or a wake arrives.
	PumpWait
	// PumpWaitUntil blocks until an event, a wake, or the deadline.
	PumpWaitUntil
)

// WindowAttributes describes a window creation request. Zero values
// select backend defaults.
type WindowAttributes struct {
	Title     string
	Width     int
	Height    int
	X         int
	Y         int
	HasPos    bool
	Visible   bool
	Decorated bool
}

// Created reports the outcome of a window creation: the allocated core
// ID plus the geometry and scale factor the backend observed at
// creation time. Later geometry is authoritative only via confirmed
// RawConfigure events.
type Created struct {
	ID            event.WindowID
	X, Y          int
	Width, Height int
	ScaleFactor   float64
}

// Backend abstracts a native window system behind the core's canonical
// model. All methods except Wake must be called from the goroutine that
// owns the native event source (the loop thread); backends advertising
// CapCrossThreadOps relax that for the window-mutating operations.
type Backend interface {
	Kind() Kind
	Capabilities() Capability

	// CreateWindow creates a native window and returns its core ID
	// along with the observed initial geometry. The attributes are a
	// request; subsequent geometry arrives as confirmed events.
	CreateWindow(attrs WindowAttributes) (Created, error)
	// DestroyWindow tears down the native window. The registry entry
	// is removed only when the confirmed RawDestroyed event arrives.
	DestroyWindow(id event.WindowID) error

	SetTitle(id event.WindowID, title string) error
	SetVisible(id event.WindowID, visible bool) error
	// RequestSize asks the window system for a resize. The new size is
	// not authoritative until a RawConfigure event confirms it.
	RequestSize(id event.WindowID, width, height int) error
	RequestRedraw(id event.WindowID) error

	// PumpEvents drains the backend's internal event buffer according
	// to mode. deadline is consulted only for PumpWaitUntil. A non-nil
	// error is fatal to the loop.
	PumpEvents(mode PumpMode, deadline time.Time) ([]RawEvent, error)

	// Wake unblocks a concurrent PumpEvents promptly. Safe from any
	// goroutine, before, during and after the loop runs.
	Wake()

	// Close releases the native connection. The backend must not be
	// used afterwards.
	Close() error
}

// SoftwareBufferer is the optional software-presentation capability.
// pix is 32-bit BGRX pixels in row-major order, width*height*4 bytes.
// Backends advertising CapSoftwareBuffer implement it.
type SoftwareBufferer interface {
	PresentBuffer(id event.WindowID, pix []byte, width, height int) error
}

// ErrBackendUnavailable reports that no compatible native display or
// session was found for the requested kind.
var ErrBackendUnavailable = errors.New("backend unavailable")

// ErrCrossThread reports a window-mutating call from a goroutine other
// than the loop thread on a backend without CapCrossThreadOps.
var ErrCrossThread = errors.New("operation requires the loop thread")

// ErrUnsupported reports a capability the backend does not provide.
var ErrUnsupported = errors.New("capability not supported by backend")

// WindowCreationError wraps a failed window creation. The caller may
// retry with different attributes.
type WindowCreationError struct {
	Kind Kind
	Err  error
}

func (e *WindowCreationError) Error() string {
	return fmt.Sprintf("%s: window creation failed: %v", e.Kind, e.Err)
}

func (e *WindowCreationError) Unwrap() error { return e.Err }

// Factory constructs a backend instance.
type Factory func() (Backend, error)

var (
	factoriesMu sync.RWMutex
	factories   = make(map[Kind]Factory)
)

// Register makes a backend kind available to New. Backends register
// themselves from an init function, typically behind a build tag.
func Register(kind Kind, f Factory) {
	factoriesMu.Lock()
	defer factoriesMu.Unlock()
	if _, dup := factories[kind]; dup {
		panic(fmt.Sprintf("backend: Register called twice for kind %q", kind))
	}
	factories[kind] = f
}

// Registered returns the registered kinds in unspecified order.
func Registered() []Kind {
	factoriesMu.RLock()
	defer factoriesMu.RUnlock()
	kinds := make([]Kind, 0, len(factories))
	for k := range factories {
		kinds = append(kinds, k)
	}
	return kinds
}

// New instantiates the backend registered for kind. The selection
// policy (environment variables, fallback chains) belongs to the
// caller; the core treats kind as opaque.
func New(kind Kind) (Backend, error) {
	factoriesMu.RLock()
	f, ok := factories[kind]
	factoriesMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("backend %q: %w", kind, ErrBackendUnavailable)
	}
	return f()
}

var windowIDCounter atomic.Uint64

// NextWindowID allocates a process-unique window ID. IDs are shared
// across backend instances so a destroyed window's ID is never reused,
// even by a different backend.
func NextWindowID() event.WindowID {
	return event.WindowID(windowIDCounter.Add(1))
}
