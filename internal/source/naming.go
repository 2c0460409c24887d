package source

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/ivlev/framewall/internal/config"
)

// Naming extracts the layer and frame ordinal from a file name.
type Naming interface {
	Parse(name string) (layer, frame string, ok bool)
}

var (
	singlePattern = regexp.MustCompile(`(?i)^.*?(\d+)(?:\..+)+$`)
	multiPattern  = regexp.MustCompile(`(?i)^layer.*?(\d+)_frame.*?(\d+)(?:\..+)*$`)
)

const (
	// SingleLayer is the layer key every frame gets under SingleNaming.
	SingleLayer = "0"

	// SplitFrames and SplitLayers are the two sequences of SplitNaming.
	// They sort so that the animation is drawn below the overlay.
	SplitFrames = "frames"
	SplitLayers = "layers"
)

// SingleNaming matches <prefix><digits>.<ext>; every frame is in layer "0".
type SingleNaming struct{}

func (SingleNaming) Parse(name string) (string, string, bool) {
	m := singlePattern.FindStringSubmatch(name)
	if m == nil {
		return "", "", false
	}
	return SingleLayer, m[1], true
}

// MultiNaming matches layer<digits>_frame<digits>[.ext].
type MultiNaming struct{}

func (MultiNaming) Parse(name string) (string, string, bool) {
	m := multiPattern.FindStringSubmatch(name)
	if m == nil {
		return "", "", false
	}
	return m[1], m[2], true
}

// SplitNaming puts names starting with "layer" into the overlay sequence
// and everything else into the animation sequence. Ordinals are parsed
// the same way as SingleNaming.
type SplitNaming struct{}

func (SplitNaming) Parse(name string) (string, string, bool) {
	m := singlePattern.FindStringSubmatch(name)
	if m == nil {
		return "", "", false
	}
	if strings.HasPrefix(name, "layer") {
		return SplitLayers, m[1], true
	}
	return SplitFrames, m[1], true
}

// NewNaming returns the naming convention registered under variant.
func NewNaming(variant string) (Naming, error) {
	switch variant {
	case config.NamingSingle, "":
		return SingleNaming{}, nil
	case config.NamingMulti:
		return MultiNaming{}, nil
	case config.NamingSplit:
		return SplitNaming{}, nil
	default:
		return nil, fmt.Errorf("unknown naming convention: %s", variant)
	}
}
