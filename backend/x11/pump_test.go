//go:build linux

package x11

import (
	"testing"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xproto"

	"github.com/1broseidon/casement/backend"
	"github.com/1broseidon/casement/event"
)

// newMappedBackend builds a backend with one known native window and
// no X connection; convertEvent is a pure structural mapping.
func newMappedBackend(native xproto.Window, id event.WindowID) *Backend {
	return &Backend{
		byID:           map[event.WindowID]*nativeWindow{id: {win: native}},
		byNative:       map[xproto.Window]event.WindowID{native: id},
		wmProtocols:    100,
		wmDeleteWindow: 101,
	}
}

func TestConvertEvent(t *testing.T) {
	const native xproto.Window = 0x2a
	const id event.WindowID = 7
	b := newMappedBackend(native, id)

	tests := []struct {
		name string
		in   xgb.Event
		want backend.RawEvent
	}{
		{
			name: "configure",
			in:   xproto.ConfigureNotifyEvent{Window: native, X: 5, Y: 6, Width: 640, Height: 480},
			want: backend.RawConfigure{Window: id, X: 5, Y: 6, Width: 640, Height: 480},
		},
		{
			name: "focus in",
			in:   xproto.FocusInEvent{Event: native},
			want: backend.RawFocus{Window: id, Gained: true},
		},
		{
			name: "focus out",
			in:   xproto.FocusOutEvent{Event: native},
			want: backend.RawFocus{Window: id, Gained: false},
		},
		{
			name: "key press",
			in:   xproto.KeyPressEvent{Detail: 38, Event: native},
			want: backend.RawKey{Window: id, Code: 38, Pressed: true},
		},
		{
			name: "button press",
			in:   xproto.ButtonPressEvent{Detail: 1, Event: native, EventX: 10, EventY: 20},
			want: backend.RawButton{Window: id, Button: 1, Pressed: true, X: 10, Y: 20},
		},
		{
			name: "wheel up as button 4",
			in:   xproto.ButtonPressEvent{Detail: 4, Event: native, EventX: 10, EventY: 20},
			want: backend.RawWheel{Window: id, DY: 1, X: 10, Y: 20},
		},
		{
			name: "motion",
			in:   xproto.MotionNotifyEvent{Event: native, EventX: 3, EventY: 4},
			want: backend.RawMotion{Window: id, X: 3, Y: 4},
		},
		{
			name: "final expose",
			in:   xproto.ExposeEvent{Window: native, Count: 0},
			want: backend.RawRedraw{Window: id},
		},
		{
			name: "unmap",
			in:   xproto.UnmapNotifyEvent{Window: native},
			want: backend.RawUnmapped{Window: id},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := b.convertEvent(tc.in)
			if !ok {
				t.Fatalf("convertEvent dropped %T", tc.in)
			}
			if got != tc.want {
				t.Fatalf("got %+v, want %+v", got, tc.want)
			}
		})
	}
}

func TestConvertEventDrops(t *testing.T) {
	const native xproto.Window = 0x2a
	const id event.WindowID = 7
	b := newMappedBackend(native, id)

	tests := []struct {
		name string
		in   xgb.Event
	}{
		{"unknown window", xproto.MotionNotifyEvent{Event: 0x99, EventX: 1, EventY: 1}},
		{"partial expose", xproto.ExposeEvent{Window: native, Count: 2}},
		{"wheel release", xproto.ButtonReleaseEvent{Detail: 5, Event: native}},
		{"foreign client message", xproto.ClientMessageEvent{Window: native, Type: 999, Format: 32}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if raw, ok := b.convertEvent(tc.in); ok {
				t.Fatalf("convertEvent produced %+v, want drop", raw)
			}
		})
	}
}

func TestCloseRequestFromClientMessage(t *testing.T) {
	const native xproto.Window = 0x2a
	const id event.WindowID = 7
	b := newMappedBackend(native, id)

	msg := xproto.ClientMessageEvent{
		Window: native,
		Type:   b.wmProtocols,
		Format: 32,
		Data:   xproto.ClientMessageDataUnionData32New([]uint32{uint32(b.wmDeleteWindow), 0, 0, 0, 0}),
	}
	raw, ok := b.convertEvent(msg)
	if !ok {
		t.Fatal("WM_DELETE_WINDOW message dropped")
	}
	if raw != (backend.RawCloseRequest{Window: id}) {
		t.Fatalf("got %+v", raw)
	}
}

func TestDestroyNotifyForgetsMapping(t *testing.T) {
	const native xproto.Window = 0x2a
	const id event.WindowID = 7
	b := newMappedBackend(native, id)

	raw, ok := b.convertEvent(xproto.DestroyNotifyEvent{Window: native})
	if !ok || raw != (backend.RawDestroyed{Window: id}) {
		t.Fatalf("got %+v ok=%v", raw, ok)
	}
	if _, still := b.resolveNative(native); still {
		t.Fatal("native mapping survived destroy")
	}
}

func TestWheelFromButton(t *testing.T) {
	tests := []struct {
		detail xproto.Button
		dx, dy float64
	}{
		{4, 0, 1},
		{5, 0, -1},
		{6, 1, 0},
		{7, -1, 0},
	}
	for _, tc := range tests {
		raw, ok := wheelFromButton(1, tc.detail, 0, 0)
		if !ok {
			t.Fatalf("button %d not a wheel", tc.detail)
		}
		wheel := raw.(backend.RawWheel)
		if wheel.DX != tc.dx || wheel.DY != tc.dy {
			t.Fatalf("button %d: got %+v", tc.detail, wheel)
		}
	}
	if _, ok := wheelFromButton(1, 1, 0, 0); ok {
		t.Fatal("button 1 classified as wheel")
	}
}
