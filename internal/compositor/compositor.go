package compositor

import (
	"image"
	"image/color"

	"github.com/hashicorp/go-hclog"
	"golang.org/x/image/draw"

	"github.com/ivlev/framewall/internal/layer"
	"github.com/ivlev/framewall/internal/logging"
	"github.com/ivlev/framewall/internal/system"
)

// Compositor draws the current frame of every layer into a surface. It
// owns one frame buffer sized to the layer set's frame size; every frame
// of every layer is decoded into that buffer and scaled from it.
//
// A Compositor is not safe for concurrent use; the engine serializes calls.
type Compositor struct {
	policy     Policy
	background *image.Uniform
	scaler     draw.Scaler
	log        hclog.Logger

	viewport image.Point
	xOffset  float64

	rect      image.Rectangle
	rectValid bool
	computes  int

	buf *image.RGBA
}

func New(policy Policy, background color.Color, log hclog.Logger) *Compositor {
	if policy == nil {
		policy = CenterFit{}
	}
	if background == nil {
		background = color.Black
	}
	return &Compositor{
		policy:     policy,
		background: image.NewUniform(background),
		scaler:     draw.ApproxBiLinear,
		log:        logging.OrNull(log),
	}
}

// SetViewport records the surface size, dropping the cached rectangle if
// it changed.
func (c *Compositor) SetViewport(width, height int) {
	vp := image.Pt(width, height)
	if vp != c.viewport {
		c.viewport = vp
		c.rectValid = false
	}
}

// SetOffset records the horizontal wallpaper offset in [0,1].
func (c *Compositor) SetOffset(x float64) {
	if x != c.xOffset {
		c.xOffset = x
		c.rectValid = false
	}
}

// Invalidate drops the cached destination rectangle.
func (c *Compositor) Invalidate() {
	c.rectValid = false
}

// DestRect returns the cached destination rectangle for frames of size
// src, computing it first if it was invalidated.
func (c *Compositor) DestRect(src image.Point) (image.Rectangle, bool) {
	if c.rectValid {
		return c.rect, true
	}
	rect, ok := c.policy.Rect(src, c.viewport, c.xOffset)
	if !ok {
		return image.Rectangle{}, false
	}
	c.rect, c.rectValid = rect, true
	c.computes++
	c.log.Debug("destination rect", "rect", rect.String(), "viewport", c.viewport.String(), "x_offset", c.xOffset)
	return rect, true
}

// Composite clears dst to the background and, when set is ready, draws
// each layer's current frame in layer order and advances its cursor.
// It returns the number of layers that were drawn.
func (c *Compositor) Composite(dst draw.Image, set *layer.Set) int {
	bounds := dst.Bounds()
	draw.Draw(dst, bounds, c.background, image.Point{}, draw.Src)

	if set == nil || len(set.Layers) == 0 {
		return 0
	}
	if set.Size.X <= 0 || set.Size.Y <= 0 {
		return 0
	}
	rect, ok := c.DestRect(set.Size)
	if !ok {
		return 0
	}
	rect = rect.Add(bounds.Min)

	buf := c.buffer(set.Size)
	drawn := 0
	for _, l := range set.Layers {
		if l == nil {
			continue
		}
		f, ok := l.Current()
		if !ok {
			continue
		}
		if err := f.Loader.Load(buf); err != nil {
			c.log.Error("render frame", "layer", l.Key, "frame", f.Key, "name", f.Name, "error", err)
		} else {
			c.scaler.Scale(dst, rect, buf, buf.Bounds(), draw.Over, nil)
			drawn++
		}
		l.Advance()
	}
	return drawn
}

func (c *Compositor) buffer(size image.Point) *image.RGBA {
	if c.buf != nil && c.buf.Rect.Size() == size {
		return c.buf
	}
	c.Release()
	c.buf = system.GetImage(size)
	return c.buf
}

// Release hands the frame buffer back to the pool. The next Composite
// takes a new one.
func (c *Compositor) Release() {
	if c.buf != nil {
		if err := system.PutImage(c.buf); err != nil {
			c.log.Warn("release frame buffer", "error", err)
		}
		c.buf = nil
	}
}
