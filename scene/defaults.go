package scene

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Defaults is the renderer's profile file (SPEC_FULL.md §1
// "Configuration"): a handful of render-quality knobs that a JSON
// scene's own "options" object overrides when present. Following
// gazed/vu's own config-loading style, this is a flat yaml document
// rather than a nested one. TileSize and Gamma are parsed but not
// applied: the renderer's tile size (render.TileSize) and its
// square-root gamma are fixed.
type Defaults struct {
	TileSize        int     `yaml:"tileSize"`
	SamplesPerPixel int     `yaml:"samplesPerPixel"`
	MaxDepth        int     `yaml:"maxDepth"`
	Gamma           float32 `yaml:"gamma"`
	Accelerator     string  `yaml:"accelerator"`
}

// DefaultProfile is the built-in fallback used when no defaults file is
// given or it cannot be read.
func DefaultProfile() Defaults {
	return Defaults{
		TileSize:        32,
		SamplesPerPixel: 16,
		MaxDepth:        8,
		Gamma:           2.0,
		Accelerator:     "bvh",
	}
}

// LoadDefaults reads a yaml render profile from path, starting from
// DefaultProfile() so a partial file only overrides the fields it
// names.
func LoadDefaults(path string) (Defaults, error) {
	d := DefaultProfile()
	data, err := os.ReadFile(path)
	if err != nil {
		return d, fmt.Errorf("scene: read defaults %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &d); err != nil {
		return d, fmt.Errorf("scene: parse defaults %s: %w", path, err)
	}
	return d, nil
}

// ApplyDefaults fills the zero-valued SamplesPerPixel, MaxDepth and
// Accelerator fields of o from d (no other Options field), implementing
// the precedence spec §6/SPEC_FULL.md §1 describe: JSON scene options
// win over the yaml defaults file, which wins over built-in constants.
func (o *Options) ApplyDefaults(d Defaults) {
	if o.SamplesPerPixel == 0 {
		o.SamplesPerPixel = d.SamplesPerPixel
	}
	if o.MaxDepth == 0 {
		o.MaxDepth = d.MaxDepth
	}
	if o.Accelerator == "" {
		o.Accelerator = d.Accelerator
	}
}
