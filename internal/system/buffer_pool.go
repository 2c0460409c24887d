package system

import (
	"errors"
	"image"
	"sync"
)

// DefaultMaxFree is how many idle buffers of one size the shared pool keeps.
const DefaultMaxFree = 4

var ErrNotPooled = errors.New("buffer was not handed out by this pool")

// ImagePool recycles *image.RGBA frame buffers by size. A buffer handed
// out by Get belongs to the caller until it is put back; the pool tracks
// every outstanding buffer so a double or foreign Put is refused instead
// of letting two owners share pixels.
type ImagePool struct {
	mu      sync.Mutex
	maxFree int
	free    map[image.Point][]*image.RGBA
	out     map[*image.RGBA]struct{}
	allocs  int
}

// PoolStats describes the buffers a pool knows about.
type PoolStats struct {
	InUse     int
	Free      int
	Allocated int
}

func NewImagePool(maxFree int) *ImagePool {
	if maxFree < 0 {
		maxFree = 0
	}
	return &ImagePool{
		maxFree: maxFree,
		free:    make(map[image.Point][]*image.RGBA),
		out:     make(map[*image.RGBA]struct{}),
	}
}

var globalPool = NewImagePool(DefaultMaxFree)

// GetImage takes a cleared buffer of the given size from the shared pool.
func GetImage(size image.Point) *image.RGBA {
	return globalPool.Get(size)
}

// PutImage returns img to the shared pool. nil is ignored.
func PutImage(img *image.RGBA) error {
	return globalPool.Put(img)
}

// Get returns a buffer with bounds (0,0)-size, reused when one is idle.
// Every pixel is transparent black.
func (p *ImagePool) Get(size image.Point) *image.RGBA {
	p.mu.Lock()
	defer p.mu.Unlock()

	var img *image.RGBA
	if idle := p.free[size]; len(idle) > 0 {
		img = idle[len(idle)-1]
		p.free[size] = idle[:len(idle)-1]
		clear(img.Pix)
	} else {
		img = image.NewRGBA(image.Rectangle{Max: size})
		p.allocs++
	}
	p.out[img] = struct{}{}
	return img
}

// Put hands img back. Beyond maxFree idle buffers of its size it is
// dropped for the garbage collector.
func (p *ImagePool) Put(img *image.RGBA) error {
	if img == nil {
		return nil
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, ok := p.out[img]; !ok {
		return ErrNotPooled
	}
	delete(p.out, img)

	size := img.Rect.Size()
	if len(p.free[size]) < p.maxFree {
		p.free[size] = append(p.free[size], img)
	}
	return nil
}

func (p *ImagePool) Stats() PoolStats {
	p.mu.Lock()
	defer p.mu.Unlock()

	st := PoolStats{InUse: len(p.out), Allocated: p.allocs}
	for _, idle := range p.free {
		st.Free += len(idle)
	}
	return st
}

// Stats reports on the shared pool.
func Stats() PoolStats {
	return globalPool.Stats()
}
