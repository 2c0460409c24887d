package layer

import (
	"errors"
	"image"
	"sort"

	"github.com/ivlev/framewall/internal/source"
)

// ErrNoLayers is returned by Build when no frame survived the scan.
var ErrNoLayers = errors.New("no layers loaded")

// Layer is one independently advancing frame sequence.
type Layer struct {
	Key    string
	Frames []source.Frame
	cursor int
}

// Current returns the frame under the cursor, pulling the cursor back
// into range first if the frame list changed underneath it.
func (l *Layer) Current() (source.Frame, bool) {
	if len(l.Frames) == 0 {
		return source.Frame{}, false
	}
	if l.cursor < 0 || l.cursor >= len(l.Frames) {
		l.cursor = 0
	}
	return l.Frames[l.cursor], true
}

// Advance moves the cursor one frame forward, wrapping at the end.
func (l *Layer) Advance() {
	if len(l.Frames) == 0 {
		l.cursor = 0
		return
	}
	l.cursor++
	if l.cursor >= len(l.Frames) {
		l.cursor = 0
	}
}

func (l *Layer) Cursor() int {
	return l.cursor
}

// Set is the ordered collection of layers sharing one frame size.
type Set struct {
	Layers []*Layer
	Size   image.Point
}

// Build groups frames by layer key and orders layers and frames by key.
// Keys compare as strings, so unpadded numbers order lexicographically
// ("10" before "2").
func Build(frames []source.Frame, size image.Point) (*Set, error) {
	groups := make(map[string][]source.Frame)
	for _, f := range frames {
		groups[f.Layer] = append(groups[f.Layer], f)
	}

	keys := make([]string, 0, len(groups))
	for k, g := range groups {
		if len(g) == 0 {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	set := &Set{Size: size}
	for _, k := range keys {
		g := groups[k]
		sort.SliceStable(g, func(i, j int) bool {
			return g[i].Key < g[j].Key
		})
		set.Layers = append(set.Layers, &Layer{Key: k, Frames: g})
	}

	if len(set.Layers) == 0 {
		return nil, ErrNoLayers
	}
	return set, nil
}

// FrameCount is the total number of frames across all layers.
func (s *Set) FrameCount() int {
	n := 0
	for _, l := range s.Layers {
		n += len(l.Frames)
	}
	return n
}
