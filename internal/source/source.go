package source

import (
	"context"
	"errors"
	"fmt"
	"image"

	"github.com/ivlev/framewall/internal/config"
)

// ErrStoreUnavailable is returned when the backing store cannot be
// enumerated at all (missing directory, unreadable or corrupt archive).
var ErrStoreUnavailable = errors.New("backing store unavailable")

// Loader renders one frame into dst. dst is always sized to the common
// frame size and is reused across frames, so implementations must
// overwrite every pixel they are responsible for.
type Loader interface {
	Load(dst *image.RGBA) error
}

// Entry is one raw candidate found in a backing store, before its name
// is parsed or its dimensions are checked.
type Entry struct {
	Name   string // base name the naming convention is applied to
	Path   string // locator inside the store: file path or archive entry name
	Probe  func() (image.Point, error)
	Loader Loader
}

// Frame is an accepted still image of one layer.
type Frame struct {
	Layer  string
	Key    string
	Name   string
	Loader Loader
}

type Source interface {
	// Entries enumerates the store non-recursively. Directories are skipped.
	Entries(ctx context.Context) ([]Entry, error)
	Close() error
}

// Open builds the Source described by cfg without touching the store;
// the store itself is opened by Entries so that a failed scan can be
// retried later.
func Open(cfg *config.Config) (Source, error) {
	switch kind := cfg.ResolvedStoreKind(); kind {
	case config.StoreDir:
		return NewDirSource(cfg.StorePath), nil
	case config.StoreZip:
		return NewArchiveSource(cfg.StorePath, cfg.SampleSize), nil
	case config.StorePDF:
		return NewPDFSource(cfg.StorePath, cfg.DPI), nil
	default:
		return nil, fmt.Errorf("unknown store kind: %s", kind)
	}
}

type filtered struct {
	Source
	keep func(Entry) bool
}

// Filter wraps src so that Entries only returns the entries keep accepts.
func Filter(src Source, keep func(Entry) bool) Source {
	return &filtered{Source: src, keep: keep}
}

func (f *filtered) Entries(ctx context.Context) ([]Entry, error) {
	all, err := f.Source.Entries(ctx)
	if err != nil {
		return nil, err
	}
	var entries []Entry
	for _, e := range all {
		if f.keep(e) {
			entries = append(entries, e)
		}
	}
	return entries, nil
}
