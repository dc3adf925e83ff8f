package casement

import (
	"errors"
	"fmt"
	"log"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/eapache/queue"

	"github.com/1broseidon/casement/backend"
	"github.com/1broseidon/casement/event"
	"github.com/1broseidon/casement/internal/config"
	"github.com/1broseidon/casement/internal/diag"
	"github.com/1broseidon/casement/internal/registry"
	"github.com/1broseidon/casement/internal/translate"
)

// Handler receives every canonical event, one at a time, on the loop
// thread. The Control argument is valid only for the current dispatch.
type Handler func(ev event.Event, ctl *Control)

// ErrProxyClosed reports a proxy send after the loop exited. The
// caller may discard the event.
var ErrProxyClosed = errors.New("event loop has exited")

// ErrLoopConsumed reports a second Run on a one-shot loop.
var ErrLoopConsumed = errors.New("event loop already consumed")

// ErrQueueFull reports a proxy send against a user-event queue at its
// configured capacity. The event was not enqueued; the caller may
// retry after the loop drains.
var ErrQueueFull = errors.New("user event queue full")

// ErrNoBackend reports a loop constructed without a backend choice.
// Backend selection (environment, fallback chains) is the embedding
// application's policy, never the core's.
var ErrNoBackend = errors.New("no backend selected")

const (
	stateInit int32 = iota
	stateRunning
	stateExited
)

// EventLoop drives a backend: it pumps raw events, translates them,
// maintains the window registry and dispatches canonical events to the
// handler. A loop is one-shot: Run consumes it.
type EventLoop struct {
	backend backend.Backend
	reg     *registry.Registry
	tr      translate.Translator
	diag    *diag.Logger
	cfg     *config.Config

	// pending holds translated events awaiting dispatch, FIFO.
	pending *queue.Queue

	// userQ is the only structure shared with other goroutines.
	userMu      sync.Mutex
	userQ       *queue.Queue
	proxyClosed bool

	state       atomic.Int32
	consumed    atomic.Bool
	exit        bool
	everCreated bool
}

// NewLoop builds an event loop over the selected backend. Exactly one
// of WithBackend or WithKind must be supplied.
func NewLoop(opts ...Option) (*EventLoop, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	var cfg *config.Config
	var err error
	if o.configPath != "" {
		cfg, err = config.LoadFromPath(o.configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, fmt.Errorf("casement: %w", err)
	}
	if o.exitOnLastWindowClose != nil {
		cfg.Loop.ExitOnLastWindowClose = *o.exitOnLastWindowClose
	}
	if o.coordinates != nil {
		cfg.Coordinates = *o.coordinates
	}

	b := o.backend
	if b == nil {
		if o.kind == "" {
			return nil, ErrNoBackend
		}
		b, err = backend.New(o.kind)
		if err != nil {
			return nil, err
		}
	}

	logger, err := diag.New(diag.Config{
		Enabled:   cfg.Diagnostics.Enabled,
		Level:     diag.ParseLogLevel(cfg.Diagnostics.Level),
		FilePath:  cfg.Diagnostics.File,
		MaxSizeMB: cfg.Diagnostics.MaxSizeMB,
		MaxFiles:  cfg.Diagnostics.MaxFiles,
	})
	if err != nil {
		return nil, fmt.Errorf("casement: diagnostics: %w", err)
	}

	coords := translate.Logical
	if cfg.Coordinates == config.CoordinatesPhysical {
		coords = translate.Physical
	}

	return &EventLoop{
		backend: b,
		reg:     registry.New(),
		tr:      translate.Translator{Coordinates: coords},
		diag:    logger,
		cfg:     cfg,
		pending: queue.New(),
		userQ:   queue.New(),
	}, nil
}

// Backend exposes the driving backend, mainly for capability probing.
func (l *EventLoop) Backend() backend.Backend { return l.backend }

// Run drives the loop until exit and dispatches every event to
// handler. It locks the calling goroutine to its OS thread for the
// duration, since native event sources are thread-affine. Run returns
// the fatal backend error if one terminated the loop, otherwise nil.
func (l *EventLoop) Run(handler Handler) error {
	if !l.consumed.CompareAndSwap(false, true) {
		return ErrLoopConsumed
	}
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	l.state.Store(stateRunning)
	ctl := &Control{loop: l, flow: Wait()}
	cause := event.CauseInit
	first := true
	var fatal error

	for {
		l.dispatch(handler, ctl, event.NewEvents{Cause: cause})
		if first {
			l.dispatch(handler, ctl, event.Resumed{})
			first = false
		}

		l.drainPending(handler, ctl)
		l.drainUser(handler, ctl)
		l.dispatch(handler, ctl, event.AboutToWait{})

		if l.exit || ctl.exit {
			break
		}

		mode, deadline := ctl.flow.pumpArgs()
		raws, err := l.backend.PumpEvents(mode, deadline)
		l.ingest(raws)
		if err != nil {
			fatal = err
			l.dispatch(handler, ctl, event.LoopError{Err: err})
			break
		}
		cause = nextCause(mode, deadline, len(raws))
	}

	l.closeProxies()
	l.state.Store(stateExited)
	l.dispatch(handler, ctl, event.LoopExiting{})

	if err := l.backend.Close(); err != nil {
		log.Printf("casement: backend close: %v", err)
	}
	l.diag.Close()
	return fatal
}

// dispatch delivers one event synchronously.
func (l *EventLoop) dispatch(handler Handler, ctl *Control, ev event.Event) {
	handler(ev, ctl)
	if ctl.exit {
		l.exit = true
	}
}

// drainPending delivers the events queued at drain start, one at a
// time, in FIFO arrival order. Snapshotting the length bounds any one
// source's ability to starve others to a single drain cycle.
func (l *EventLoop) drainPending(handler Handler, ctl *Control) {
	n := l.pending.Length()
	for i := 0; i < n; i++ {
		ev := l.pending.Remove().(event.Event)
		l.dispatch(handler, ctl, ev)
	}
}

// drainUser delivers the user events enqueued at drain start. Events
// injected during the drain wait for the next cycle, so a busy sender
// cannot starve window events.
func (l *EventLoop) drainUser(handler Handler, ctl *Control) {
	l.userMu.Lock()
	n := l.userQ.Length()
	l.userMu.Unlock()

	for i := 0; i < n; i++ {
		l.userMu.Lock()
		payload := l.userQ.Remove()
		l.userMu.Unlock()
		l.dispatch(handler, ctl, event.UserEvent{Payload: payload})
	}
}

// ingest translates raw events against the pre-update state snapshot,
// applies the confirmed state transition, and queues the canonical
// events for the next drain. A translation failure drops that one raw
// event with a diagnostic and never disturbs the loop.
func (l *EventLoop) ingest(raws []backend.RawEvent) {
	for _, raw := range raws {
		evs, err := l.tr.Translate(raw, l.reg)
		if err != nil {
			l.diag.Warnf(diag.CategoryTranslate, "dropped: %v", err)
			continue
		}
		l.applyConfirmed(raw)
		for _, ev := range evs {
			l.pending.Add(ev)
		}
	}
}

// applyConfirmed mutates the registry from a backend-confirmed raw
// event. This is the only write path to window state.
func (l *EventLoop) applyConfirmed(raw backend.RawEvent) {
	var err error
	switch r := raw.(type) {
	case backend.RawConfigure:
		err = l.reg.Update(r.Window, registry.Delta{
			X: &r.X, Y: &r.Y, Width: &r.Width, Height: &r.Height,
		})
	case backend.RawFocus:
		err = l.reg.Update(r.Window, registry.Delta{Focused: &r.Gained})
	case backend.RawMapped:
		visible, minimized := true, false
		err = l.reg.Update(r.Window, registry.Delta{Visible: &visible, Minimized: &minimized})
	case backend.RawUnmapped:
		minimized := true
		err = l.reg.Update(r.Window, registry.Delta{Minimized: &minimized})
	case backend.RawDestroyed:
		err = l.reg.Unregister(r.Window)
		if err == nil && l.cfg.Loop.ExitOnLastWindowClose && l.everCreated && l.reg.Len() == 0 {
			l.exit = true
		}
	default:
		// Input events carry no authoritative state.
	}
	if err != nil {
		l.diag.Warnf(diag.CategoryRegistry, "state update failed: %v", err)
	}
}

// nextCause classifies why the upcoming iteration starts.
func nextCause(mode backend.PumpMode, deadline time.Time, events int) event.StartCause {
	switch mode {
	case backend.PumpPoll:
		return event.CausePoll
	case backend.PumpWaitUntil:
		if events == 0 && !time.Now().Before(deadline) {
			return event.CauseResumeTimeReached
		}
		return event.CauseWaitCancelled
	default:
		return event.CauseWaitCancelled
	}
}

func (l *EventLoop) closeProxies() {
	l.userMu.Lock()
	l.proxyClosed = true
	l.userMu.Unlock()
}
