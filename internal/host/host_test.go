package host

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"reflect"
	"testing"

	"github.com/ivlev/framewall/internal/engine"
)

type recorder struct {
	events []string
}

func (r *recorder) OnVisibilityChanged(v bool) { r.add("visible %v", v) }
func (r *recorder) OnSurfaceChanged(w, h int)  { r.add("surface %dx%d", w, h) }
func (r *recorder) OnSurfaceDestroyed()        { r.add("surface destroyed") }
func (r *recorder) OnOffsetsChanged(x float64, px int) {
	r.add("offset %.2f %d", x, px)
}
func (r *recorder) OnCommand(a string, x, y, z int) { r.add("command %s %d,%d", a, x, y) }
func (r *recorder) OnDestroy()                     { r.add("destroy") }

func (r *recorder) add(format string, args ...any) {
	r.events = append(r.events, fmt.Sprintf(format, args...))
}

func (r *recorder) take() []string {
	ev := r.events
	r.events = nil
	return ev
}

func TestDispatcherEventOrder(t *testing.T) {
	rec := &recorder{}
	d := NewDispatcher(rec)

	d.Dispatch(Input{Width: 101, Height: 50, Focused: true})
	want := []string{"surface 101x50", "visible true", "offset 0.00 0"}
	if got := rec.take(); !reflect.DeepEqual(got, want) {
		t.Errorf("Expected %v, got %v", want, got)
	}

	d.Dispatch(Input{Width: 101, Height: 50, Focused: true})
	if got := rec.take(); len(got) != 0 {
		t.Errorf("Expected no events for unchanged input, got %v", got)
	}

	d.Dispatch(Input{Width: 101, Height: 50, Focused: true, CursorX: 50, CursorY: 7, Tapped: true})
	want = []string{"offset 0.50 50", "command tap 50,7"}
	if got := rec.take(); !reflect.DeepEqual(got, want) {
		t.Errorf("Expected %v, got %v", want, got)
	}

	d.Dispatch(Input{Width: 200, Height: 50, Focused: false, CursorX: 50})
	want = []string{"surface 200x50", "visible false", "offset 0.25 50"}
	if got := rec.take(); !reflect.DeepEqual(got, want) {
		t.Errorf("Expected %v, got %v", want, got)
	}
}

func TestDispatcherClose(t *testing.T) {
	rec := &recorder{}
	d := NewDispatcher(rec)
	d.Dispatch(Input{Width: 10, Height: 10, Focused: true})
	rec.take()

	if !d.Dispatch(Input{Width: 10, Height: 10, Closing: true}) {
		t.Fatal("Expected closing input to report destroyed")
	}
	want := []string{"surface destroyed", "destroy"}
	if got := rec.take(); !reflect.DeepEqual(got, want) {
		t.Errorf("Expected %v, got %v", want, got)
	}

	d.Destroy()
	if !d.Dispatch(Input{Width: 10, Height: 10, Focused: true}) {
		t.Error("Expected destroyed dispatcher to stay destroyed")
	}
	if got := rec.take(); len(got) != 0 {
		t.Errorf("Expected no events after destroy, got %v", got)
	}
}

func TestDispatcherSkipsEmptySurface(t *testing.T) {
	rec := &recorder{}
	d := NewDispatcher(rec)
	d.Dispatch(Input{Focused: true})
	for _, ev := range rec.take() {
		if ev == "surface 0x0" {
			t.Error("Expected no surface change for a zero-sized window")
		}
	}
}

func TestOffset(t *testing.T) {
	tests := []struct {
		x, width int
		want     float64
	}{
		{0, 100, 0},
		{-5, 100, 0},
		{99, 100, 1},
		{500, 100, 1},
		{33, 67, 0.5},
		{3, 1, 0},
	}
	for _, tt := range tests {
		if got := Offset(tt.x, tt.width); got != tt.want {
			t.Errorf("Offset(%d, %d) = %v, want %v", tt.x, tt.width, got, tt.want)
		}
	}
}

func TestFrameBufferSwap(t *testing.T) {
	b := NewFrameBuffer()
	if _, err := b.Lock(); !errors.Is(err, engine.ErrSurfaceUnavailable) {
		t.Fatalf("Expected ErrSurfaceUnavailable before sizing, got %v", err)
	}
	if b.Present(func(*image.RGBA) {}) {
		t.Error("Expected nothing to present before the first post")
	}

	b.SetSize(4, 2)
	img, err := b.Lock()
	if err != nil {
		t.Fatal(err)
	}
	if img.Bounds().Size() != image.Pt(4, 2) {
		t.Errorf("Expected 4x2, got %v", img.Bounds())
	}
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	if err := b.UnlockAndPost(img); err != nil {
		t.Fatal(err)
	}

	var got color.RGBA
	b.Present(func(front *image.RGBA) { got = front.RGBAAt(0, 0) })
	if got.R != 255 {
		t.Errorf("Expected the posted frame in front, got %v", got)
	}

	next, _ := b.Lock()
	if next == img {
		t.Error("Expected Lock to hand out the other buffer after a post")
	}
	if b.Posts() != 1 {
		t.Errorf("Expected 1 post, got %d", b.Posts())
	}

	if err := b.UnlockAndPost(image.NewRGBA(image.Rect(0, 0, 4, 2))); err == nil {
		t.Error("Expected error for an image not handed out by Lock")
	}

	b.SetSize(8, 8)
	resized, _ := b.Lock()
	if resized.Bounds().Size() != image.Pt(8, 8) {
		t.Errorf("Expected resized buffer, got %v", resized.Bounds())
	}
	b.Release()
	if b.Present(func(*image.RGBA) {}) {
		t.Error("Expected no front buffer after Release")
	}
}
