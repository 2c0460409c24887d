package source

import (
	"archive/zip"
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"path"
	"strings"
	"sync"

	"github.com/dsnet/compress/bzip2"
	"github.com/nfnt/resize"
)

// zipMethodBZIP2 is the ZIP compression method id for bzip2 entries.
const zipMethodBZIP2 = 12

var errNotDecoded = errors.New("archive entry was not decoded")

// ArchiveSource reads frames from the entries of a ZIP archive. Archive
// entries have no cheap header probe, so each entry is fully decoded
// while probing and kept in memory, optionally shrunk by sampleSize.
type ArchiveSource struct {
	path       string
	sampleSize int

	mu sync.Mutex
	zr *zip.ReadCloser
}

func NewArchiveSource(path string, sampleSize int) *ArchiveSource {
	if sampleSize < 1 {
		sampleSize = 1
	}
	return &ArchiveSource{path: path, sampleSize: sampleSize}
}

func (s *ArchiveSource) Entries(ctx context.Context) ([]Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.zr != nil {
		s.zr.Close()
		s.zr = nil
	}

	zr, err := zip.OpenReader(s.path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	zr.RegisterDecompressor(zipMethodBZIP2, bzip2Decompressor)
	s.zr = zr

	var entries []Entry
	for _, f := range zr.File {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if f.FileInfo().IsDir() || strings.HasSuffix(f.Name, "/") {
			continue
		}
		mem := &memLoader{}
		entries = append(entries, Entry{
			Name: path.Base(f.Name),
			Path: f.Name,
			Probe: func() (image.Point, error) {
				img, err := s.decode(f)
				if err != nil {
					return image.Point{}, err
				}
				mem.img = img
				return img.Bounds().Size(), nil
			},
			Loader: mem,
		})
	}
	return entries, nil
}

func (s *ArchiveSource) decode(f *zip.File) (image.Image, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	img, _, err := image.Decode(rc)
	if err != nil {
		return nil, err
	}
	if s.sampleSize > 1 {
		b := img.Bounds()
		w, h := b.Dx()/s.sampleSize, b.Dy()/s.sampleSize
		if w < 1 {
			w = 1
		}
		if h < 1 {
			h = 1
		}
		img = resize.Resize(uint(w), uint(h), img, resize.NearestNeighbor)
	}
	return img, nil
}

func (s *ArchiveSource) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.zr == nil {
		return nil
	}
	err := s.zr.Close()
	s.zr = nil
	return err
}

type memLoader struct {
	img image.Image
}

func (m *memLoader) Load(dst *image.RGBA) error {
	if m.img == nil {
		return errNotDecoded
	}
	return copyInto(dst, m.img)
}

func bzip2Decompressor(r io.Reader) io.ReadCloser {
	br, err := bzip2.NewReader(r, nil)
	if err != nil {
		return errReadCloser{err}
	}
	return br
}

type errReadCloser struct{ err error }

func (e errReadCloser) Read([]byte) (int, error) { return 0, e.err }
func (e errReadCloser) Close() error             { return nil }
