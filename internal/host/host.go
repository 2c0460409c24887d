// Package host adapts a desktop window to the engine's host contract:
// a double-buffered render surface and a dispatcher that turns polled
// window state into lifecycle events.
package host

import (
	"errors"
	"image"
	"sync"

	"golang.org/x/image/draw"

	"github.com/ivlev/framewall/internal/engine"
	"github.com/ivlev/framewall/internal/system"
)

var errForeignImage = errors.New("posted image was not handed out by Lock")

// FrameBuffer is an engine.Surface. The engine draws into the back
// buffer; posting swaps it with the front buffer the window presents.
type FrameBuffer struct {
	mu    sync.Mutex
	size  image.Point
	back  *image.RGBA
	front *image.RGBA
	posts int
}

var _ engine.Surface = (*FrameBuffer)(nil)

func NewFrameBuffer() *FrameBuffer {
	return &FrameBuffer{}
}

// SetSize resizes the surface. Buffers of the old size are returned to
// the pool on the next Lock.
func (b *FrameBuffer) SetSize(width, height int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.size = image.Pt(width, height)
}

func (b *FrameBuffer) Lock() (draw.Image, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.size.X <= 0 || b.size.Y <= 0 {
		return nil, engine.ErrSurfaceUnavailable
	}
	if b.back == nil || b.back.Rect.Size() != b.size {
		system.PutImage(b.back)
		b.back = system.GetImage(b.size)
	}
	return b.back, nil
}

func (b *FrameBuffer) UnlockAndPost(img draw.Image) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if rgba, ok := img.(*image.RGBA); !ok || rgba != b.back {
		return errForeignImage
	}
	b.back, b.front = b.front, b.back
	b.posts++
	return nil
}

// Present calls fn with the most recently posted frame, if any. fn must
// not retain the image.
func (b *FrameBuffer) Present(fn func(*image.RGBA)) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.front == nil {
		return false
	}
	fn(b.front)
	return true
}

func (b *FrameBuffer) Posts() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.posts
}

// Release returns both buffers to the pool.
func (b *FrameBuffer) Release() {
	b.mu.Lock()
	defer b.mu.Unlock()

	system.PutImage(b.back)
	system.PutImage(b.front)
	b.back, b.front = nil, nil
}

// Input is one poll of window state.
type Input struct {
	Width, Height    int
	Focused          bool
	CursorX, CursorY int
	Tapped           bool
	Closing          bool
}

// Dispatcher diffs successive Inputs and forwards the changes to a
// lifecycle handler: size changes first, then visibility, then offsets.
// The horizontal cursor position stands in for the home-screen offset.
type Dispatcher struct {
	handler   engine.LifecycleHandler
	last      Input
	offset    float64
	started   bool
	destroyed bool
}

func NewDispatcher(h engine.LifecycleHandler) *Dispatcher {
	return &Dispatcher{handler: h}
}

// Dispatch forwards the changes in in and reports whether the handler
// has been destroyed.
func (d *Dispatcher) Dispatch(in Input) bool {
	if d.destroyed {
		return true
	}
	if in.Closing {
		d.Destroy()
		return true
	}

	first := !d.started
	d.started = true

	if (first || in.Width != d.last.Width || in.Height != d.last.Height) && in.Width > 0 && in.Height > 0 {
		d.handler.OnSurfaceChanged(in.Width, in.Height)
	}
	if first || in.Focused != d.last.Focused {
		d.handler.OnVisibilityChanged(in.Focused)
	}
	if off := Offset(in.CursorX, in.Width); first || off != d.offset {
		d.offset = off
		d.handler.OnOffsetsChanged(off, in.CursorX)
	}
	if in.Tapped {
		d.handler.OnCommand("tap", in.CursorX, in.CursorY, 0)
	}

	d.last = in
	return false
}

// Destroy tears the handler down once.
func (d *Dispatcher) Destroy() {
	if d.destroyed {
		return
	}
	d.destroyed = true
	d.handler.OnSurfaceDestroyed()
	d.handler.OnDestroy()
}

// Offset maps a cursor column to a wallpaper offset in [0,1].
func Offset(x, width int) float64 {
	if width <= 1 || x <= 0 {
		return 0
	}
	if x >= width-1 {
		return 1
	}
	return float64(x) / float64(width-1)
}
