package system

import (
	"errors"
	"image"
	"strings"
	"testing"
)

func TestImagePoolReuse(t *testing.T) {
	pool := NewImagePool(2)
	size := image.Pt(16, 9)

	img := pool.Get(size)
	if img.Rect != image.Rect(0, 0, 16, 9) {
		t.Fatalf("Expected bounds 16x9 at origin, got %v", img.Rect)
	}
	if len(img.Pix) != 16*9*4 {
		t.Errorf("Expected %d bytes, got %d", 16*9*4, len(img.Pix))
	}
	img.Pix[0] = 0xff
	if err := pool.Put(img); err != nil {
		t.Fatal(err)
	}

	again := pool.Get(size)
	if again != img {
		t.Error("Expected the idle buffer to be reused")
	}
	if again.Pix[0] != 0 {
		t.Error("Expected a reused buffer to be cleared")
	}

	other := pool.Get(image.Pt(4, 4))
	if other == img || other.Rect.Dx() != 4 {
		t.Errorf("Expected a separate 4px wide buffer, got %v", other.Rect)
	}

	st := pool.Stats()
	if st.InUse != 2 || st.Free != 0 || st.Allocated != 2 {
		t.Errorf("Unexpected stats %+v", st)
	}
}

func TestImagePoolOwnership(t *testing.T) {
	pool := NewImagePool(1)
	img := pool.Get(image.Pt(2, 2))

	if err := pool.Put(img); err != nil {
		t.Fatal(err)
	}
	if err := pool.Put(img); !errors.Is(err, ErrNotPooled) {
		t.Errorf("Expected ErrNotPooled on double put, got %v", err)
	}
	if err := pool.Put(image.NewRGBA(image.Rect(0, 0, 2, 2))); !errors.Is(err, ErrNotPooled) {
		t.Errorf("Expected ErrNotPooled for a foreign buffer, got %v", err)
	}
	if err := pool.Put(nil); err != nil {
		t.Errorf("Expected nil to be ignored, got %v", err)
	}

	a, b := pool.Get(image.Pt(2, 2)), pool.Get(image.Pt(2, 2))
	if a == b {
		t.Fatal("Expected two owners to get two buffers")
	}
	pool.Put(a)
	pool.Put(b)
	if st := pool.Stats(); st.Free != 1 || st.InUse != 0 {
		t.Errorf("Expected idle list capped at 1, got %+v", st)
	}
}

func TestGlobalPool(t *testing.T) {
	before := Stats().InUse
	img := GetImage(image.Pt(2, 2))
	if Stats().InUse != before+1 {
		t.Error("Expected the shared pool to track the buffer")
	}
	if err := PutImage(img); err != nil {
		t.Fatal(err)
	}
}

func TestTakeSnapshot(t *testing.T) {
	s, err := TakeSnapshot()
	if err != nil {
		t.Skipf("memory stats unavailable: %v", err)
	}
	if s.ProcessRSS == 0 {
		t.Error("Expected non-zero RSS")
	}
	if !strings.Contains(s.String(), "MiB") {
		t.Errorf("Unexpected report: %s", s.String())
	}
}
