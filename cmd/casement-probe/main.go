// Command casement-probe opens a window on the selected backend and
// streams every canonical event to stdout. It is the quickest way to
// verify a backend end to end: geometry, focus, input, close handling
// and the software-buffer presentation path.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"golang.org/x/term"

	"github.com/1broseidon/casement"
	"github.com/1broseidon/casement/backend"
	"github.com/1broseidon/casement/event"

	// Link in the shipped backends; selection happens at runtime.
	_ "github.com/1broseidon/casement/backend/headless"
)

func main() {
	var (
		kindFlag = flag.String("backend", "", "backend kind (default: $CASEMENT_BACKEND, then first registered)")
		title    = flag.String("title", "casement probe", "window title")
		width    = flag.Int("width", 640, "window width")
		height   = flag.Int("height", 480, "window height")
		timeout  = flag.Duration("timeout", 0, "exit after this duration (0 = run until closed)")
	)
	flag.Parse()

	kind := selectKind(*kindFlag)
	if kind == "" {
		log.Fatal("no backend available; build with a platform backend or set -backend")
	}

	loop, err := casement.NewLoop(
		casement.WithKind(kind),
		casement.WithExitOnLastWindowClose(true),
	)
	if err != nil {
		log.Fatalf("failed to create event loop: %v", err)
	}

	win, err := loop.CreateWindow(casement.WindowAttributes{
		Title:   *title,
		Width:   *width,
		Height:  *height,
		Visible: true,
	})
	if err != nil {
		log.Fatalf("failed to create window: %v", err)
	}

	if *timeout > 0 {
		proxy := loop.CreateProxy()
		go func() {
			time.Sleep(*timeout)
			if err := proxy.SendEvent("timeout"); err != nil {
				log.Printf("timeout send: %v", err)
			}
		}()
	}

	p := newPrinter(term.IsTerminal(int(os.Stdout.Fd())))
	frame := newTestPattern(*width, *height)

	err = loop.Run(func(ev event.Event, ctl *casement.Control) {
		p.print(ev)

		switch e := ev.(type) {
		case event.WindowEvent:
			switch k := e.Kind.(type) {
			case event.CloseRequested:
				win.Destroy()
			case event.Resized:
				frame = newTestPattern(k.Width, k.Height)
			case event.RedrawRequested:
				if loop.Backend().Capabilities().Has(backend.CapSoftwareBuffer) {
					if err := win.PresentBuffer(frame.pix, frame.w, frame.h); err != nil {
						log.Printf("present: %v", err)
					}
				}
			}
		case event.UserEvent:
			if e.Payload == "timeout" {
				ctl.Exit()
			}
		case event.LoopError:
			log.Printf("fatal backend error: %v", e.Err)
		}
	})
	if err != nil {
		log.Fatalf("event loop failed: %v", err)
	}
}

// selectKind resolves the backend kind: explicit flag, then the
// CASEMENT_BACKEND environment variable, then the first registered
// kind with x11 preferred.
func selectKind(flagValue string) backend.Kind {
	if flagValue != "" {
		return backend.Kind(flagValue)
	}
	if env := os.Getenv("CASEMENT_BACKEND"); env != "" {
		return backend.Kind(env)
	}
	registered := backend.Registered()
	for _, k := range registered {
		if k == backend.KindX11 {
			return k
		}
	}
	if len(registered) > 0 {
		return registered[0]
	}
	return ""
}

type printer struct {
	tty bool
}

func newPrinter(tty bool) *printer {
	return &printer{tty: tty}
}

func (p *printer) print(ev event.Event) {
	ts := time.Now().Format("15:04:05.000")
	line := formatEvent(ev)
	if p.tty {
		fmt.Printf("\x1b[90m%s\x1b[0m %s\n", ts, line)
	} else {
		fmt.Printf("%s %s\n", ts, line)
	}
}

func formatEvent(ev event.Event) string {
	switch e := ev.(type) {
	case event.NewEvents:
		return fmt.Sprintf("new-events cause=%s", e.Cause)
	case event.WindowEvent:
		return fmt.Sprintf("window=%d %T%+v", e.Window, e.Kind, e.Kind)
	case event.DeviceEvent:
		return fmt.Sprintf("device=%d %T%+v", e.Device, e.Kind, e.Kind)
	case event.UserEvent:
		return fmt.Sprintf("user payload=%v", e.Payload)
	default:
		return fmt.Sprintf("%T", ev)
	}
}

type pattern struct {
	pix  []byte
	w, h int
}

// newTestPattern builds a BGRX gradient so presented frames are
// visually obvious.
func newTestPattern(w, h int) pattern {
	if w <= 0 || h <= 0 {
		return pattern{}
	}
	pix := make([]byte, w*h*4)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := (y*w + x) * 4
			pix[i] = byte(x * 255 / w)   // blue
			pix[i+1] = byte(y * 255 / h) // green
			pix[i+2] = 0x40              // red
			pix[i+3] = 0
		}
	}
	return pattern{pix: pix, w: w, h: h}
}
