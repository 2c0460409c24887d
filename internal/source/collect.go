package source

import (
	"context"
	"image"

	"github.com/hashicorp/go-hclog"
	"golang.org/x/sync/errgroup"

	"github.com/ivlev/framewall/internal/logging"
)

type Reason string

const (
	ReasonMalformedName     Reason = "malformed-name"
	ReasonDuplicate         Reason = "duplicate-ordinal"
	ReasonProbeFailed       Reason = "probe-failed"
	ReasonDimensionMismatch Reason = "dimension-mismatch"
)

// Rejection records a candidate that was left out of the result.
type Rejection struct {
	Name   string
	Reason Reason
	Detail string
}

// Result is the outcome of one scan: accepted frames in enumeration
// order, the common frame size and everything that was skipped.
type Result struct {
	Frames   []Frame
	Size     image.Point
	Rejected []Rejection
}

type candidate struct {
	entry  Entry
	layer  string
	frame  string
	repeat bool // an earlier entry carries the same key
	probed bool
	size   image.Point
	err    error
}

func (c *candidate) probe() {
	c.size, c.err = c.entry.Probe()
	c.probed = true
}

// Collect parses, probes and validates entries. First occurrences of a
// key are probed concurrently on up to workers goroutines; a repeated key
// is only probed if every earlier entry for it was rejected, so archive
// duplicates are never decoded for nothing. Acceptance is decided in
// enumeration order, so the first probed frame always fixes the size and
// the first acceptable occurrence of a key always wins.
// Only cancellation of ctx makes Collect fail.
func Collect(ctx context.Context, entries []Entry, naming Naming, workers int, log hclog.Logger) (*Result, error) {
	log = logging.OrNull(log)
	res := &Result{}

	var cands []*candidate
	keys := make(map[[2]string]bool)
	for _, e := range entries {
		layer, frame, ok := naming.Parse(e.Name)
		if !ok {
			log.Trace("skipping non-matching filename", "name", e.Name)
			res.Rejected = append(res.Rejected, Rejection{Name: e.Name, Reason: ReasonMalformedName})
			continue
		}
		key := [2]string{layer, frame}
		cands = append(cands, &candidate{entry: e, layer: layer, frame: frame, repeat: keys[key]})
		keys[key] = true
	}

	if workers < 1 {
		workers = 1
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for _, c := range cands {
		if c.repeat {
			continue
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			c.probe()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	accepted := make(map[[2]string]bool)
	for _, c := range cands {
		key := [2]string{c.layer, c.frame}
		if accepted[key] {
			log.Warn("skipping frame; already loaded", "layer", c.layer, "frame", c.frame, "name", c.entry.Name)
			res.Rejected = append(res.Rejected, Rejection{Name: c.entry.Name, Reason: ReasonDuplicate})
			continue
		}

		if !c.probed {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			c.probe()
		}
		if c.err == nil && (c.size.X <= 0 || c.size.Y <= 0) {
			c.err = errEmptyImage
		}
		if c.err != nil {
			log.Warn("skipping frame; probe failed", "layer", c.layer, "frame", c.frame, "name", c.entry.Name, "error", c.err)
			res.Rejected = append(res.Rejected, Rejection{Name: c.entry.Name, Reason: ReasonProbeFailed, Detail: c.err.Error()})
			continue
		}

		if res.Size == (image.Point{}) {
			res.Size = c.size
		} else if c.size != res.Size {
			log.Warn("skipping frame; mismatched size", "layer", c.layer, "frame", c.frame,
				"width", c.size.X, "want_width", res.Size.X, "height", c.size.Y, "want_height", res.Size.Y)
			res.Rejected = append(res.Rejected, Rejection{Name: c.entry.Name, Reason: ReasonDimensionMismatch, Detail: c.size.String()})
			continue
		}

		accepted[key] = true
		res.Frames = append(res.Frames, Frame{
			Layer:  c.layer,
			Key:    c.frame,
			Name:   c.entry.Path,
			Loader: c.entry.Loader,
		})
	}

	log.Debug("scan finished", "accepted", len(res.Frames), "rejected", len(res.Rejected), "size", res.Size.String())
	return res, nil
}
