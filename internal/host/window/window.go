// Package window runs the engine in a desktop window. Window focus is
// treated as wallpaper visibility and the cursor column as the
// home-screen offset.
package window

import (
	"image"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hashicorp/go-hclog"

	"github.com/ivlev/framewall/internal/engine"
	"github.com/ivlev/framewall/internal/host"
	"github.com/ivlev/framewall/internal/logging"
)

type Options struct {
	Title  string
	Width  int
	Height int
	Logger hclog.Logger
}

// Window is an ebiten.Game presenting a host.FrameBuffer.
type Window struct {
	opts   Options
	log    hclog.Logger
	buffer *host.FrameBuffer

	mu         sync.Mutex
	size       image.Point
	dispatcher *host.Dispatcher
}

func New(opts Options) *Window {
	if opts.Title == "" {
		opts.Title = "framewall"
	}
	if opts.Width <= 0 || opts.Height <= 0 {
		opts.Width, opts.Height = 540, 960
	}
	return &Window{
		opts:   opts,
		log:    logging.OrNull(opts.Logger),
		buffer: host.NewFrameBuffer(),
	}
}

// Surface is what the engine draws into.
func (w *Window) Surface() engine.Surface {
	return w.buffer
}

// Attach sets the handler that receives lifecycle events. It must be
// called before Run.
func (w *Window) Attach(h engine.LifecycleHandler) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.dispatcher = host.NewDispatcher(h)
}

// Run blocks until the window is closed. The attached handler has been
// destroyed when Run returns.
func (w *Window) Run() error {
	ebiten.SetWindowTitle(w.opts.Title)
	ebiten.SetWindowSize(w.opts.Width, w.opts.Height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowClosingHandled(true)
	ebiten.SetRunnableOnUnfocused(true)

	w.log.Info("opening window", "title", w.opts.Title, "width", w.opts.Width, "height", w.opts.Height)
	err := ebiten.RunGame(w)

	w.mu.Lock()
	d := w.dispatcher
	w.mu.Unlock()
	if d != nil {
		d.Destroy()
	}
	w.buffer.Release()
	return err
}

func (w *Window) Update() error {
	w.mu.Lock()
	size, d := w.size, w.dispatcher
	w.mu.Unlock()
	if d == nil {
		return nil
	}

	x, y := ebiten.CursorPosition()
	in := host.Input{
		Width:   size.X,
		Height:  size.Y,
		Focused: ebiten.IsFocused(),
		CursorX: x,
		CursorY: y,
		Tapped:  inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft),
		Closing: ebiten.IsWindowBeingClosed(),
	}
	// Handlers draw synchronously, so no window lock may be held here.
	if d.Dispatch(in) {
		w.log.Debug("window closing")
		return ebiten.Termination
	}
	return nil
}

func (w *Window) Draw(screen *ebiten.Image) {
	want := screen.Bounds().Size()
	w.buffer.Present(func(front *image.RGBA) {
		if front.Rect.Size() == want {
			screen.WritePixels(front.Pix)
		}
	})
}

func (w *Window) Layout(outsideWidth, outsideHeight int) (int, int) {
	w.mu.Lock()
	defer w.mu.Unlock()

	size := image.Pt(outsideWidth, outsideHeight)
	if size != w.size {
		w.size = size
		w.buffer.SetSize(size.X, size.Y)
	}
	return outsideWidth, outsideHeight
}
