//go:build linux

package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/xproto"

	"github.com/1broseidon/casement/event"
)

// maxPutImageBytes keeps each PutImage request under the core protocol
// request-size limit without negotiating BIG-REQUESTS.
const maxPutImageBytes = 57344

// PresentBuffer blits a 32-bit BGRX pixel buffer to the window over
// the wire. Large buffers are sent in row bands to respect the
// protocol request-size limit. The shared-memory fast path is not
// expressible over the socket protocol, so every present pays the
// copy; this capability is a convenience boundary, not a render
// pipeline.
func (b *Backend) PresentBuffer(id event.WindowID, pix []byte, width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("x11: invalid buffer size %dx%d", width, height)
	}
	if len(pix) < width*height*4 {
		return fmt.Errorf("x11: buffer holds %d bytes, need %d", len(pix), width*height*4)
	}

	nw, err := b.lookup(id)
	if err != nil {
		return err
	}
	gc, err := b.windowGC(nw)
	if err != nil {
		return err
	}

	conn := b.xu.Conn()
	depth := b.xu.Screen().RootDepth
	stride := width * 4
	rowsPerBand := maxPutImageBytes / stride
	if rowsPerBand < 1 {
		rowsPerBand = 1
	}

	for row := 0; row < height; row += rowsPerBand {
		bandRows := rowsPerBand
		if row+bandRows > height {
			bandRows = height - row
		}
		data := pix[row*stride : (row+bandRows)*stride]
		cookie := xproto.PutImageChecked(conn,
			xproto.ImageFormatZPixmap,
			xproto.Drawable(nw.win),
			gc,
			uint16(width), uint16(bandRows),
			0, int16(row),
			0, depth, data)
		if err := cookie.Check(); err != nil {
			return fmt.Errorf("x11: put image failed: %w", err)
		}
	}
	return nil
}

// windowGC lazily creates the graphics context used for presentation.
func (b *Backend) windowGC(nw *nativeWindow) (xproto.Gcontext, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if nw.hasGC {
		return nw.gc, nil
	}

	gc, err := xproto.NewGcontextId(b.xu.Conn())
	if err != nil {
		return 0, fmt.Errorf("x11: failed to allocate gcontext: %w", err)
	}
	err = xproto.CreateGCChecked(b.xu.Conn(), gc, xproto.Drawable(nw.win),
		xproto.GcForeground, []uint32{b.xu.Screen().BlackPixel}).Check()
	if err != nil {
		return 0, fmt.Errorf("x11: failed to create gcontext: %w", err)
	}

	nw.gc = gc
	nw.hasGC = true
	return gc, nil
}
