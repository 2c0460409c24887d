package framegen

import (
	"context"
	"errors"
	"image"
	"path/filepath"
	"testing"

	"github.com/ivlev/framewall/internal/config"
	"github.com/ivlev/framewall/internal/layer"
	"github.com/ivlev/framewall/internal/source"
)

func scan(t *testing.T, dir string, naming source.Naming) *layer.Set {
	t.Helper()
	entries, err := source.NewDirSource(dir).Entries(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	res, err := source.Collect(context.Background(), entries, naming, 2, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Rejected) != 0 {
		t.Errorf("Expected no rejections, got %+v", res.Rejected)
	}
	set, err := layer.Build(res.Frames, res.Size)
	if err != nil {
		t.Fatal(err)
	}
	return set
}

func TestGenerateSingle(t *testing.T) {
	dir := t.TempDir()
	paths, err := Generate(Options{Dir: dir, Naming: config.NamingSingle, Frames: 3, Width: 40, Height: 30}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(paths) != 3 || filepath.Base(paths[0]) != "frame001.png" {
		t.Fatalf("Unexpected paths %v", paths)
	}

	set := scan(t, dir, source.SingleNaming{})
	if len(set.Layers) != 1 || len(set.Layers[0].Frames) != 3 {
		t.Fatalf("Expected 1 layer of 3 frames, got %+v", set.Layers)
	}
	if set.Size != image.Pt(40, 30) {
		t.Errorf("Expected 40x30, got %v", set.Size)
	}
}

func TestGenerateMulti(t *testing.T) {
	dir := t.TempDir()
	if _, err := Generate(Options{Dir: dir, Naming: config.NamingMulti, Layers: 2, Frames: 2, Width: 32, Height: 32}, nil); err != nil {
		t.Fatal(err)
	}

	set := scan(t, dir, source.MultiNaming{})
	if len(set.Layers) != 2 {
		t.Fatalf("Expected 2 layers, got %d", len(set.Layers))
	}
	for i, l := range set.Layers {
		if len(l.Frames) != 2 {
			t.Errorf("Layer %d: expected 2 frames, got %d", i, len(l.Frames))
		}
	}
	if set.Layers[0].Key != "0" || set.Layers[1].Key != "1" {
		t.Errorf("Unexpected layer keys %q %q", set.Layers[0].Key, set.Layers[1].Key)
	}
}

func TestRenderFrameLayers(t *testing.T) {
	opts := Options{Naming: config.NamingMulti, Layers: 2, Frames: 2, Width: 32, Height: 32}

	base, err := renderFrame(opts, 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	if _, _, _, a := base.At(0, 0).RGBA(); a != 0xffff {
		t.Error("Expected the base layer to be opaque")
	}

	overlay, err := renderFrame(opts, 1, 1)
	if err != nil {
		t.Fatal(err)
	}
	if _, _, _, a := overlay.At(16, 0).RGBA(); a != 0 {
		t.Error("Expected the overlay to be transparent outside its bar")
	}
	// halfway through an in-out ease the bar covers half the width
	if _, _, _, a := overlay.At(8, 29).RGBA(); a == 0 {
		t.Error("Expected the overlay bar to be drawn")
	}
}

func TestGenerateInvalid(t *testing.T) {
	tests := []Options{
		{Naming: "split", Frames: 1, Width: 1, Height: 1},
		{Naming: config.NamingSingle, Frames: 0, Width: 1, Height: 1},
		{Naming: config.NamingMulti, Layers: 0, Frames: 1, Width: 1, Height: 1},
	}
	for _, opts := range tests {
		opts.Dir = t.TempDir()
		if _, err := Generate(opts, nil); !errors.Is(err, ErrInvalidOptions) {
			t.Errorf("%+v: expected ErrInvalidOptions, got %v", opts, err)
		}
	}
}

func TestFileName(t *testing.T) {
	if got := FileName(config.NamingMulti, 2, 7); got != "layer2_frame007.png" {
		t.Errorf("Got %q", got)
	}
	if got := FileName(config.NamingSingle, 2, 7); got != "frame007.png" {
		t.Errorf("Got %q", got)
	}
}
