package source

import (
	"context"
	"fmt"
	"image"
	"math"
	"sync"

	"github.com/gen2brain/go-fitz"
)

// PDFSource treats every page of a PDF document as one frame of layer
// "0". Page bounds are read without rendering, pages render at dpi.
type PDFSource struct {
	path string
	dpi  int

	mu  sync.Mutex
	doc *fitz.Document
}

func NewPDFSource(path string, dpi int) *PDFSource {
	if dpi <= 0 {
		dpi = 72
	}
	return &PDFSource{path: path, dpi: dpi}
}

func (s *PDFSource) Entries(ctx context.Context) ([]Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.doc == nil {
		doc, err := fitz.New(s.path)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
		}
		s.doc = doc
	}

	doc := s.doc
	scale := float64(s.dpi) / 72.0
	entries := make([]Entry, 0, doc.NumPage())
	for i := 0; i < doc.NumPage(); i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		// The name feeds the naming convention, so it carries an ordinal
		// and an extension like a file would.
		name := fmt.Sprintf("page%04d.pdf", i+1)
		entries = append(entries, Entry{
			Name: name,
			Path: fmt.Sprintf("%s#%d", s.path, i+1),
			Probe: func() (image.Point, error) {
				rect, err := doc.Bound(i)
				if err != nil {
					return image.Point{}, err
				}
				return pageSize(rect, scale), nil
			},
			Loader: &pdfLoader{doc: doc, page: i, dpi: s.dpi},
		})
	}
	return entries, nil
}

func (s *PDFSource) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.doc == nil {
		return nil
	}
	err := s.doc.Close()
	s.doc = nil
	return err
}

// pageSize is the pixel size of a page box at scale. The renderer rounds
// the scaled box outwards, so partial pixels count.
func pageSize(box image.Rectangle, scale float64) image.Point {
	return image.Pt(
		int(math.Ceil(float64(box.Dx())*scale-1e-3)),
		int(math.Ceil(float64(box.Dy())*scale-1e-3)),
	)
}

type pdfLoader struct {
	doc  *fitz.Document
	page int
	dpi  int
}

func (l *pdfLoader) Load(dst *image.RGBA) error {
	img, err := l.doc.ImageDPI(l.page, float64(l.dpi))
	if err != nil {
		return err
	}
	return copyInto(dst, img)
}
