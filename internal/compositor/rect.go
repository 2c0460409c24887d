package compositor

import (
	"fmt"
	"image"
	"math"

	"github.com/ivlev/framewall/internal/config"
)

// Policy places a frame of size src inside a viewport.
type Policy interface {
	// Rect returns the destination rectangle in viewport coordinates, or
	// false when it cannot be computed yet.
	Rect(src, viewport image.Point, xOffset float64) (image.Rectangle, bool)
}

// CenterFit scales the frame uniformly to fit the viewport and centers it.
// The horizontal offset is ignored.
type CenterFit struct{}

func (CenterFit) Rect(src, vp image.Point, _ float64) (image.Rectangle, bool) {
	if !valid(src) || !valid(vp) {
		return image.Rectangle{}, false
	}
	sw, sh := float64(src.X), float64(src.Y)
	vw, vh := float64(vp.X), float64(vp.Y)

	scale := math.Min(vh/sh, vw/sw)
	w, h := sw*scale, sh*scale
	left := (vw - w) / 2
	top := (vh - h) / 2
	return rectF(left, top, w, h), true
}

// DefaultEpsilon is the aspect difference below which ParallaxFit fills
// the width instead of the height.
const DefaultEpsilon = 1e-3

// ParallaxFit fills the viewport height and pans the excess width with
// the wallpaper offset. When source and viewport aspect ratios are within
// Epsilon of each other it fills the width instead.
type ParallaxFit struct {
	Epsilon float64
}

func (p ParallaxFit) Rect(src, vp image.Point, xOffset float64) (image.Rectangle, bool) {
	if !valid(src) || !valid(vp) {
		return image.Rectangle{}, false
	}
	sw, sh := float64(src.X), float64(src.Y)
	vw, vh := float64(vp.X), float64(vp.Y)

	fr := sw / sh
	cr := vw / vh
	ew := math.Min(fr-cr, cr-fr)

	eps := p.Epsilon
	if eps <= 0 {
		eps = DefaultEpsilon
	}
	if -ew < eps {
		h := sh * (vw / sw)
		return rectF(0, (vh-h)/2, vw, h), true
	}

	// Filling the height makes the frame wider than the viewport by
	// vh*(fr-cr); that excess is what the offset pans across.
	excess := vh * (fr - cr)
	w := vw + excess
	var left float64
	if excess > 0 {
		left = -clamp01(xOffset) * excess
	} else {
		left = -excess / 2
	}
	return rectF(left, 0, w, vh), true
}

// NewPolicy returns the fit policy registered under variant.
func NewPolicy(variant string) (Policy, error) {
	switch variant {
	case config.FitCenter, "":
		return CenterFit{}, nil
	case config.FitParallax:
		return ParallaxFit{Epsilon: DefaultEpsilon}, nil
	default:
		return nil, fmt.Errorf("unknown fit policy: %s", variant)
	}
}

func valid(p image.Point) bool {
	return p.X > 0 && p.Y > 0
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func rectF(left, top, w, h float64) image.Rectangle {
	return image.Rect(
		int(math.Round(left)),
		int(math.Round(top)),
		int(math.Round(left+w)),
		int(math.Round(top+h)),
	)
}
