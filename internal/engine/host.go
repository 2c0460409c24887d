package engine

import (
	"errors"
	"time"

	"golang.org/x/image/draw"
)

// ErrSurfaceUnavailable is returned by a Surface that has nothing to draw on.
var ErrSurfaceUnavailable = errors.New("render surface unavailable")

// Surface is the host's drawable. Lock hands out the image to draw the
// next frame into; UnlockAndPost presents it.
type Surface interface {
	Lock() (draw.Image, error)
	UnlockAndPost(img draw.Image) error
}

// Scheduler runs one delayed callback at a time.
type Scheduler interface {
	// Schedule runs fn after delay, replacing any callback still pending.
	Schedule(delay time.Duration, fn func())
	// Cancel drops the pending callback. It is a no-op when none is pending.
	Cancel()
}

// LifecycleHandler is the set of host events the engine reacts to.
type LifecycleHandler interface {
	OnVisibilityChanged(visible bool)
	OnSurfaceChanged(width, height int)
	OnSurfaceDestroyed()
	OnOffsetsChanged(xOffset float64, xPixelOffset int)
	OnCommand(action string, x, y, z int)
	OnDestroy()
}
