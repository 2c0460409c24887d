package source

import (
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

var errEmptyImage = errors.New("image has no pixels")

// DirSource reads frames from the files of one directory.
type DirSource struct {
	path string
}

func NewDirSource(path string) *DirSource {
	return &DirSource{path: path}
}

func (s *DirSource) Entries(ctx context.Context) ([]Entry, error) {
	dirEntries, err := os.ReadDir(s.path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	var entries []Entry
	for _, entry := range dirEntries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if entry.IsDir() {
			continue
		}
		path := filepath.Join(s.path, entry.Name())
		entries = append(entries, Entry{
			Name:   entry.Name(),
			Path:   path,
			Probe:  func() (image.Point, error) { return probeFile(path) },
			Loader: fileLoader(path),
		})
	}
	return entries, nil
}

func (s *DirSource) Close() error {
	return nil
}

// probeFile reads only the image header; no pixel storage is allocated.
func probeFile(path string) (image.Point, error) {
	f, err := os.Open(path)
	if err != nil {
		return image.Point{}, err
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return image.Point{}, err
	}
	return image.Pt(cfg.Width, cfg.Height), nil
}

type fileLoader string

func (p fileLoader) Load(dst *image.RGBA) error {
	f, err := os.Open(string(p))
	if err != nil {
		return err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return err
	}
	return copyInto(dst, img)
}

// copyInto writes img into dst. The stdlib codecs always allocate their
// own pixel storage, so the decoded image is copied into the shared
// buffer; a decoder that already produced dst is left alone. When img is
// smaller than dst the uncovered pixels are cleared so nothing of the
// previous frame remains.
func copyInto(dst *image.RGBA, img image.Image) error {
	if img == nil {
		return errEmptyImage
	}
	if rgba, ok := img.(*image.RGBA); ok && rgba == dst {
		return nil
	}
	if img.Bounds().Size() != dst.Rect.Size() {
		clear(dst.Pix)
	}
	draw.Draw(dst, dst.Bounds(), img, img.Bounds().Min, draw.Src)
	return nil
}
