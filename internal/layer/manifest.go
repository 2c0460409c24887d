package layer

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ivlev/framewall/internal/source"
)

// Manifest is the YAML description of a scanned layer set.
type Manifest struct {
	Version  string          `yaml:"version"`
	Store    string          `yaml:"store"`
	Width    int             `yaml:"width"`
	Height   int             `yaml:"height"`
	Layers   []ManifestLayer `yaml:"layers"`
	Rejected []ManifestSkip  `yaml:"rejected,omitempty"`
}

type ManifestLayer struct {
	Key    string   `yaml:"key"`
	Frames []string `yaml:"frames"`
}

type ManifestSkip struct {
	Name   string `yaml:"name"`
	Reason string `yaml:"reason"`
	Detail string `yaml:"detail,omitempty"`
}

// NewManifest describes set and the rejections of the scan that built it.
// set may be nil when nothing was loaded.
func NewManifest(store string, set *Set, rejected []source.Rejection) *Manifest {
	m := &Manifest{Version: "1.0", Store: store}
	if set != nil {
		m.Width, m.Height = set.Size.X, set.Size.Y
		for _, l := range set.Layers {
			ml := ManifestLayer{Key: l.Key}
			for _, f := range l.Frames {
				ml.Frames = append(ml.Frames, f.Name)
			}
			m.Layers = append(m.Layers, ml)
		}
	}
	for _, r := range rejected {
		m.Rejected = append(m.Rejected, ManifestSkip{Name: r.Name, Reason: string(r.Reason), Detail: r.Detail})
	}
	return m
}

// Frames is the set of frame locators the manifest accepted, across all
// layers.
func (m *Manifest) Frames() map[string]bool {
	frames := make(map[string]bool)
	for _, l := range m.Layers {
		for _, f := range l.Frames {
			frames[f] = true
		}
	}
	return frames
}

// WriteManifest writes a manifest to a YAML file
func WriteManifest(m *Manifest, path string) error {
	data, err := yaml.Marshal(m)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// ReadManifest reads a manifest from a YAML file
func ReadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, err
	}

	return &m, nil
}
