package registry

import (
	"errors"
	"testing"

	"github.com/1broseidon/casement/event"
)

func TestRegisterAndGet(t *testing.T) {
	r := New()
	if err := r.Register(1, WindowState{Width: 640, Height: 480, Title: "w"}); err != nil {
		t.Fatalf("Register: %v", err)
	}

	st, err := r.Get(1)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if st.Width != 640 || st.Height != 480 || st.Title != "w" {
		t.Fatalf("state = %+v", st)
	}
	if st.ScaleFactor != 1.0 {
		t.Fatalf("zero scale factor not defaulted: %v", st.ScaleFactor)
	}
}

func TestRegisterTwiceFails(t *testing.T) {
	r := New()
	if err := r.Register(7, WindowState{}); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if err := r.Register(7, WindowState{}); err == nil {
		t.Fatal("double Register succeeded")
	}
}

func TestUpdateDelta(t *testing.T) {
	r := New()
	if err := r.Register(3, WindowState{Width: 100, Height: 100}); err != nil {
		t.Fatalf("Register: %v", err)
	}

	w, focused := 250, true
	if err := r.Update(3, Delta{Width: &w, Focused: &focused}); err != nil {
		t.Fatalf("Update: %v", err)
	}

	st, _ := r.Get(3)
	if st.Width != 250 || st.Height != 100 || !st.Focused {
		t.Fatalf("partial update wrong: %+v", st)
	}
}

func TestUnregisteredOperationsFail(t *testing.T) {
	r := New()

	ops := []struct {
		name string
		fn   func(event.WindowID) error
	}{
		{"Get", func(id event.WindowID) error { _, err := r.Get(id); return err }},
		{"Update", func(id event.WindowID) error { return r.Update(id, Delta{}) }},
		{"Unregister", func(id event.WindowID) error { return r.Unregister(id) }},
	}
	for _, op := range ops {
		t.Run(op.name, func(t *testing.T) {
			if err := op.fn(99); !errors.Is(err, ErrNotFound) {
				t.Fatalf("%s on unknown id = %v, want ErrNotFound", op.name, err)
			}
		})
	}
}

func TestUnregisterRemoves(t *testing.T) {
	r := New()
	r.Register(5, WindowState{})
	if err := r.Unregister(5); err != nil {
		t.Fatalf("Unregister: %v", err)
	}
	if r.Has(5) {
		t.Fatal("window still registered after Unregister")
	}
	if r.Len() != 0 {
		t.Fatalf("Len = %d, want 0", r.Len())
	}
	if err := r.Unregister(5); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second Unregister = %v, want ErrNotFound", err)
	}
}
