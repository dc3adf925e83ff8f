package casement

import (
	"time"

	"github.com/1broseidon/casement/backend"
)

type flowKind int

const (
	flowWait flowKind = iota
	flowPoll
	flowWaitUntil
)

// ControlFlow is the loop's blocking policy for its next iteration.
// Setting it during dispatch of iteration N affects the blocking
// behavior of iteration N+1, never N.
type ControlFlow struct {
	kind     flowKind
	deadline time.Time
}

// Wait blocks until at least one event arrives. This is the initial
// policy of every loop.
func Wait() ControlFlow { return ControlFlow{kind: flowWait} }

// Poll runs the next iteration immediately after draining whatever is
// pending, without blocking.
func Poll() ControlFlow { return ControlFlow{kind: flowPoll} }

// WaitUntil blocks until an event arrives or the deadline passes,
// whichever comes first.
func WaitUntil(deadline time.Time) ControlFlow {
	return ControlFlow{kind: flowWaitUntil, deadline: deadline}
}

func (cf ControlFlow) pumpArgs() (backend.PumpMode, time.Time) {
	switch cf.kind {
	case flowPoll:
		return backend.PumpPoll, time.Time{}
	case flowWaitUntil:
		return backend.PumpWaitUntil, cf.deadline
	default:
		return backend.PumpWait, time.Time{}
	}
}

// Control is handed to the handler on every dispatch. It is only valid
// for the duration of that dispatch and must not be retained.
type Control struct {
	loop *EventLoop
	flow ControlFlow
	exit bool
}

// SetControlFlow records the blocking policy for the next iteration.
func (c *Control) SetControlFlow(cf ControlFlow) {
	c.flow = cf
}

// ControlFlow returns the currently recorded policy.
func (c *Control) ControlFlow() ControlFlow {
	return c.flow
}

// Exit requests loop termination. The request is deferred: the current
// iteration's batch is fully delivered, AboutToWait and one final
// LoopExiting follow, then Run returns.
func (c *Control) Exit() {
	c.exit = true
}

// CreateWindow creates a window from inside the handler, on the loop
// thread.
func (c *Control) CreateWindow(attrs WindowAttributes) (*Window, error) {
	return c.loop.CreateWindow(attrs)
}
