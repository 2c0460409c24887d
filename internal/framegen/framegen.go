// Package framegen writes synthetic frame sets. Every frame carries a QR
// code spelling out its layer and ordinal so a played-back wallpaper can
// be checked by eye or by scanner.
package framegen

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"

	"github.com/fogleman/ease"
	"github.com/hashicorp/go-hclog"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/skip2/go-qrcode"
	"golang.org/x/image/draw"

	"github.com/ivlev/framewall/internal/config"
	"github.com/ivlev/framewall/internal/logging"
)

var ErrInvalidOptions = errors.New("invalid generator options")

type Options struct {
	Dir    string
	Naming string // config.NamingSingle or config.NamingMulti
	Layers int    // ignored for single naming
	Frames int
	Width  int
	Height int
}

func (o Options) validate() error {
	switch o.Naming {
	case config.NamingSingle, config.NamingMulti:
	default:
		return fmt.Errorf("%w: naming %q", ErrInvalidOptions, o.Naming)
	}
	if o.Frames <= 0 || o.Width <= 0 || o.Height <= 0 {
		return fmt.Errorf("%w: frames and size must be positive", ErrInvalidOptions)
	}
	if o.Naming == config.NamingMulti && o.Layers <= 0 {
		return fmt.Errorf("%w: layers must be positive", ErrInvalidOptions)
	}
	return nil
}

// FileName is the name frame f of layer l is written under.
func FileName(naming string, l, f int) string {
	if naming == config.NamingMulti {
		return fmt.Sprintf("layer%d_frame%03d.png", l, f)
	}
	return fmt.Sprintf("frame%03d.png", f)
}

// Generate writes the frame set into opts.Dir and returns the written
// paths in layer, then frame, order.
func Generate(opts Options, log hclog.Logger) ([]string, error) {
	log = logging.OrNull(log)
	if err := opts.validate(); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(opts.Dir, 0755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	layers := 1
	if opts.Naming == config.NamingMulti {
		layers = opts.Layers
	}

	var paths []string
	for l := 0; l < layers; l++ {
		for f := 0; f < opts.Frames; f++ {
			img, err := renderFrame(opts, l, f)
			if err != nil {
				return nil, err
			}
			path := filepath.Join(opts.Dir, FileName(opts.Naming, l, f+1))
			if err := writePNG(path, img); err != nil {
				return nil, err
			}
			paths = append(paths, path)
		}
		log.Debug("layer generated", "layer", l, "frames", opts.Frames)
	}
	log.Info("frame set generated", "dir", opts.Dir, "layers", layers, "frames", len(paths))
	return paths, nil
}

// renderFrame draws one frame. Layer 0 is opaque: a hue that turns over
// the loop with the QR code in the middle. Upper layers are transparent
// apart from an eased progress bar in their own horizontal band.
func renderFrame(opts Options, l, f int) (*image.RGBA, error) {
	w, h := opts.Width, opts.Height
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	t := float64(f) / float64(opts.Frames)

	bar := barColor(l)
	if l == 0 {
		bg := colorful.Hsv(360*t, 0.5, 0.35)
		draw.Draw(img, img.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)

		q, err := qrcode.New(fmt.Sprintf("layer %d frame %d", l, f+1), qrcode.Medium)
		if err != nil {
			return nil, fmt.Errorf("encode qr: %w", err)
		}
		side := min(w, h) * 3 / 4
		if side > 0 {
			code := q.Image(side)
			r := image.Rect(0, 0, side, side).Add(image.Pt((w-side)/2, (h-side)/2))
			draw.Draw(img, r, code, code.Bounds().Min, draw.Src)
		}
	}

	bandH := max(h/16, 1)
	top := h - bandH*(l+1)
	if top < 0 {
		return img, nil
	}
	progress := int(ease.InOutQuad(t) * float64(w))
	band := image.Rect(0, top, progress, top+bandH)
	draw.Draw(img, band, image.NewUniform(bar), image.Point{}, draw.Src)
	return img, nil
}

func barColor(l int) color.Color {
	return colorful.Hcl(float64(l*67%360), 0.8, 0.6).Clamped()
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create frame: %w", err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode frame %s: %w", path, err)
	}
	return f.Close()
}
