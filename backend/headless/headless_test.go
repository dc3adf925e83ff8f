package headless

import (
	"errors"
	"testing"
	"time"

	"github.com/1broseidon/casement/backend"
)

func TestWindowIDsNeverReused(t *testing.T) {
	b := New()
	seen := make(map[any]bool)

	for i := 0; i < 50; i++ {
		created, err := b.CreateWindow(backend.WindowAttributes{Width: 10, Height: 10})
		if err != nil {
			t.Fatalf("CreateWindow: %v", err)
		}
		if seen[created.ID] {
			t.Fatalf("window ID %d reused", created.ID)
		}
		seen[created.ID] = true
		if err := b.DestroyWindow(created.ID); err != nil {
			t.Fatalf("DestroyWindow: %v", err)
		}
	}

	// IDs stay unique across backend instances too.
	other := New()
	created, err := other.CreateWindow(backend.WindowAttributes{Width: 10, Height: 10})
	if err != nil {
		t.Fatalf("CreateWindow: %v", err)
	}
	if seen[created.ID] {
		t.Fatalf("window ID %d reused across backends", created.ID)
	}
}

func TestPumpPollNeverBlocks(t *testing.T) {
	b := New()
	start := time.Now()
	evs, err := b.PumpEvents(backend.PumpPoll, time.Time{})
	if err != nil {
		t.Fatalf("PumpEvents: %v", err)
	}
	if len(evs) != 0 {
		t.Fatalf("poll on empty backend returned %v", evs)
	}
	if time.Since(start) > time.Second {
		t.Fatal("poll blocked")
	}
}

func TestPumpWaitReturnsOnInject(t *testing.T) {
	b := New()
	created, _ := b.CreateWindow(backend.WindowAttributes{Width: 10, Height: 10})

	go func() {
		time.Sleep(20 * time.Millisecond)
		b.Inject(backend.RawRedraw{Window: created.ID})
	}()

	evs, err := b.PumpEvents(backend.PumpWait, time.Time{})
	if err != nil {
		t.Fatalf("PumpEvents: %v", err)
	}
	if len(evs) != 1 {
		t.Fatalf("got %d events, want 1", len(evs))
	}
}

func TestPumpWaitUnblockedByWake(t *testing.T) {
	b := New()
	go func() {
		time.Sleep(20 * time.Millisecond)
		b.Wake()
	}()

	evs, err := b.PumpEvents(backend.PumpWait, time.Time{})
	if err != nil {
		t.Fatalf("PumpEvents: %v", err)
	}
	if len(evs) != 0 {
		t.Fatalf("wake delivered events: %v", evs)
	}
}

func TestPumpWaitUntilDeadline(t *testing.T) {
	b := New()
	deadline := time.Now().Add(30 * time.Millisecond)
	evs, err := b.PumpEvents(backend.PumpWaitUntil, deadline)
	if err != nil {
		t.Fatalf("PumpEvents: %v", err)
	}
	if len(evs) != 0 {
		t.Fatalf("deadline pump returned events: %v", evs)
	}
	if time.Now().Before(deadline) {
		t.Fatal("pump returned before the deadline")
	}
}

func TestPumpDrainsBatchInOrder(t *testing.T) {
	b := New()
	created, _ := b.CreateWindow(backend.WindowAttributes{Width: 10, Height: 10})
	id := created.ID

	b.Inject(
		backend.RawMotion{Window: id, X: 1, Y: 1},
		backend.RawMotion{Window: id, X: 2, Y: 2},
		backend.RawMotion{Window: id, X: 3, Y: 3},
	)

	evs, err := b.PumpEvents(backend.PumpPoll, time.Time{})
	if err != nil {
		t.Fatalf("PumpEvents: %v", err)
	}
	if len(evs) != 3 {
		t.Fatalf("got %d events, want 3", len(evs))
	}
	for i, ev := range evs {
		if ev.(backend.RawMotion).X != i+1 {
			t.Fatalf("batch reordered: %+v", evs)
		}
	}
}

func TestFatalInjection(t *testing.T) {
	b := New()
	boom := errors.New("simulated loss")
	b.InjectFatal(boom)

	_, err := b.PumpEvents(backend.PumpWait, time.Time{})
	if !errors.Is(err, boom) {
		t.Fatalf("PumpEvents = %v, want injected error", err)
	}
}

func TestRequestsConfirmedViaEvents(t *testing.T) {
	b := New()
	created, _ := b.CreateWindow(backend.WindowAttributes{Width: 100, Height: 100})
	id := created.ID

	if err := b.RequestSize(id, 300, 200); err != nil {
		t.Fatalf("RequestSize: %v", err)
	}
	evs, err := b.PumpEvents(backend.PumpPoll, time.Time{})
	if err != nil {
		t.Fatalf("PumpEvents: %v", err)
	}
	if len(evs) != 1 {
		t.Fatalf("got %d events, want 1 configure", len(evs))
	}
	cfg := evs[0].(backend.RawConfigure)
	if cfg.Width != 300 || cfg.Height != 200 {
		t.Fatalf("configure = %+v", cfg)
	}
}

func TestPresentBufferRoundTrip(t *testing.T) {
	b := New()
	created, _ := b.CreateWindow(backend.WindowAttributes{Width: 4, Height: 4})
	id := created.ID

	if !b.Capabilities().Has(backend.CapSoftwareBuffer) {
		t.Fatal("headless must advertise CapSoftwareBuffer")
	}

	pix := make([]byte, 2*2*4)
	pix[0] = 0xAB
	if err := b.PresentBuffer(id, pix, 2, 2); err != nil {
		t.Fatalf("PresentBuffer: %v", err)
	}

	got, w, h, ok := b.LastFrame(id)
	if !ok || w != 2 || h != 2 {
		t.Fatalf("LastFrame: ok=%v %dx%d", ok, w, h)
	}
	if got[0] != 0xAB {
		t.Fatalf("frame content lost: %v", got[:4])
	}

	if err := b.PresentBuffer(id, pix, 8, 8); err == nil {
		t.Fatal("undersized buffer accepted")
	}
}

func TestSetTitle(t *testing.T) {
	b := New()
	created, _ := b.CreateWindow(backend.WindowAttributes{Title: "before"})
	id := created.ID

	if err := b.SetTitle(id, "after"); err != nil {
		t.Fatalf("SetTitle: %v", err)
	}
	title, ok := b.Title(id)
	if !ok || title != "after" {
		t.Fatalf("title = %q ok=%v", title, ok)
	}
}
