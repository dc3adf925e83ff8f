// Package casement is a cross-platform window and event-loop library.
// It creates OS-level windows and delivers a single, backend-
// independent stream of input and system events to application code.
//
// The loop is single-threaded and cooperative: all dispatch and all
// window-state mutation happen on the goroutine that calls Run, which
// is locked to its OS thread. The only structure shared with other
// goroutines is the Proxy, which enqueues user events and wakes a
// blocked loop.
//
// A minimal application:
//
//	loop, err := casement.NewLoop(casement.WithKind(backend.KindX11))
//	if err != nil {
//		log.Fatal(err)
//	}
//	win, err := loop.CreateWindow(casement.WindowAttributes{
//		Title: "hello", Width: 640, Height: 480, Visible: true,
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//	loop.Run(func(ev event.Event, ctl *casement.Control) {
//		switch e := ev.(type) {
//		case event.WindowEvent:
//			if _, ok := e.Kind.(event.CloseRequested); ok {
//				win.Destroy()
//			}
//			if _, ok := e.Kind.(event.Destroyed); ok {
//				ctl.Exit()
//			}
//		}
//	})
//
// Backend selection is the application's policy: pick a kind (for
// example from an environment variable) before the loop exists and
// pass it to NewLoop. The core treats the kind as opaque.
package casement
