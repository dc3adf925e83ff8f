package casement

// Proxy is a thread-safe handle for injecting user events into a
// running loop and for waking a blocked one. Proxies may be shared
// freely across goroutines and safely outlive the loop: sends after
// exit report ErrProxyClosed instead of dropping silently.
type Proxy struct {
	loop *EventLoop
}

// CreateProxy returns a new proxy for this loop. Any number may exist.
func (l *EventLoop) CreateProxy() *Proxy {
	return &Proxy{loop: l}
}

// SendEvent enqueues payload for dispatch as a UserEvent and wakes the
// loop. Once SendEvent returns nil the event is dispatched before the
// loop exits; the enqueue under the mutex establishes the
// happens-before edge to the dispatch. Delivery order among concurrent
// senders is unspecified. SendEvent never blocks: a queue at the
// configured capacity reports ErrQueueFull instead.
func (p *Proxy) SendEvent(payload any) error {
	l := p.loop
	l.userMu.Lock()
	if l.proxyClosed {
		l.userMu.Unlock()
		return ErrProxyClosed
	}
	if l.userQ.Length() >= l.cfg.Loop.QueueCapacity {
		l.userMu.Unlock()
		return ErrQueueFull
	}
	l.userQ.Add(payload)
	l.userMu.Unlock()

	l.backend.Wake()
	return nil
}

// Wake forces a blocked loop out of its wait promptly. Waking an
// exited loop is a no-op.
func (p *Proxy) Wake() {
	l := p.loop
	l.userMu.Lock()
	closed := l.proxyClosed
	l.userMu.Unlock()
	if closed {
		return
	}
	l.backend.Wake()
}
