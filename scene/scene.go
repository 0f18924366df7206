package scene

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/guerarda/rt1w-sub000/bvh"
	"github.com/guerarda/rt1w-sub000/camera"
	"github.com/guerarda/rt1w-sub000/light"
	"github.com/guerarda/rt1w-sub000/load"
	"github.com/guerarda/rt1w-sub000/primitive"
	"github.com/guerarda/rt1w-sub000/shape"
	"github.com/guerarda/rt1w-sub000/spectrum"
	"github.com/guerarda/rt1w-sub000/vmath"
)

// Accelerator is the closed set of spatial indices a Scene can be built
// on top of: the reference Aggregate, BVH, and QBVH (spec §6
// "accelerator selection").
type Accelerator interface {
	Intersect(r vmath.Ray) (shape.Interaction, bool)
	QIntersect(r vmath.Ray) bool
	WorldBound() vmath.Bounds3
}

// Options is the render profile decoded from the JSON document's
// "options" object, merged over scene.Defaults (spec §6, SPEC_FULL.md
// §1 "Configuration").
type Options struct {
	Width, Height   int
	SamplesPerPixel int
	MaxDepth        int
	Accelerator     string // "bvh" or "qbvh", default "bvh" (spec §6)
	Output          string

	Background    spectrum.Spectrum
	HasBackground bool
}

// Scene glues an accelerator, a light list and a camera together,
// implementing both integrator.Scene and light.Scene, plus the render
// options the CLI needs to size the framebuffer and pick an
// integrator.
type Scene struct {
	Accel     Accelerator
	LightList []light.Light
	Cam       camera.Camera
	Opts      Options
}

func (s *Scene) Intersect(r vmath.Ray) (shape.Interaction, bool) { return s.Accel.Intersect(r) }
func (s *Scene) QIntersect(r vmath.Ray) bool                     { return s.Accel.QIntersect(r) }
func (s *Scene) Lights() []light.Light                           { return s.LightList }

// BackgroundAt implements SPEC_FULL.md §3's supplemented background
// rule: an explicit scene.Options.Background wins; absent that, a
// vertical gradient sky (the original ray tracer's color() fallback)
// is used.
func (s *Scene) BackgroundAt(r vmath.Ray) spectrum.Spectrum {
	if s.Opts.HasBackground {
		return s.Opts.Background
	}
	t := 0.5 * (r.Dir.Unit().Y + 1)
	return spectrum.Lerp(t, spectrum.RGB(1, 1, 1), spectrum.RGB(0.5, 0.7, 1.0))
}

// document is the top-level shape of the JSON scene format (spec §6).
type document struct {
	Textures   map[string]any   `json:"textures"`
	Materials  map[string]any   `json:"materials"`
	Shapes     map[string]any   `json:"shapes"`
	Camera     map[string]any   `json:"camera"`
	Options    map[string]any   `json:"options"`
	Lights     []map[string]any `json:"lights"`
	Primitives []map[string]any `json:"primitives"`
}

// Load parses the JSON scene document at path using the built-in
// default render profile. See LoadWithDefaults to supply one loaded
// from a yaml file.
func Load(path string) (*Scene, error) {
	return LoadWithDefaults(path, DefaultProfile())
}

// LoadWithDefaults parses the JSON scene document at path, resolves
// every texture/mesh reference relative to its directory, builds the
// requested accelerator, and returns the assembled Scene. Any
// "options" field the document leaves unset falls back to d (spec §6,
// SPEC_FULL.md §1's precedence: JSON scene > yaml defaults > built-in
// constants).
func LoadWithDefaults(path string, d Defaults) (*Scene, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("scene: open %s: %w", path, err)
	}
	defer f.Close()

	var doc document
	if err := json.NewDecoder(f).Decode(&doc); err != nil {
		return nil, fmt.Errorf("scene: parse %s: %w", path, err)
	}

	loc := load.NewLocator(filepath.Dir(path))
	b := newBuilder(loc)

	if err := b.loadTextures(doc.Textures); err != nil {
		return nil, err
	}
	if err := b.loadMaterials(doc.Materials); err != nil {
		return nil, err
	}
	if err := b.loadShapes(doc.Shapes); err != nil {
		return nil, err
	}
	if err := b.loadPrimitives(doc.Primitives); err != nil {
		return nil, err
	}
	if err := b.loadLights(doc.Lights); err != nil {
		return nil, err
	}

	opts := parseOptions(doc.Options)
	opts.ApplyDefaults(d)
	cam, err := parseCamera(doc.Camera, opts.Width, opts.Height)
	if err != nil {
		return nil, err
	}

	accel, err := buildAccelerator(opts.Accelerator, b.prims)
	if err != nil {
		return nil, err
	}

	if len(b.prims) == 0 {
		log.Printf("scene: %s: no primitives; render will be empty", path)
	}

	return &Scene{Accel: accel, LightList: b.lights, Cam: cam, Opts: opts}, nil
}

func buildAccelerator(kind string, prims []primitive.Primitive) (Accelerator, error) {
	switch kind {
	case "", "bvh":
		return bvh.Build(prims), nil
	case "qbvh":
		return bvh.BuildQBVH(prims), nil
	default:
		return nil, fmt.Errorf("scene: unknown accelerator %q", kind)
	}
}

func parseOptions(m map[string]any) Options {
	p := ParamsFromMap(m)
	opts := Options{
		Width:           p.Int("width", 400),
		Height:          p.Int("height", 300),
		SamplesPerPixel: p.Int("spp", 0),
		MaxDepth:        p.Int("maxDepth", 0),
		Accelerator:     p.String("accelerator", ""),
		Output:          p.String("output", ""),
	}
	if p.Has("background") {
		opts.Background = p.V3("background", vmath.V3{})
		opts.HasBackground = true
	}
	return opts
}

func parseCamera(m map[string]any, width, height int) (camera.Camera, error) {
	p := ParamsFromMap(m)
	eye := p.V3("eye", vmath.V3{X: 0, Y: 0, Z: 0})
	lookAt := p.V3("lookAt", vmath.V3{X: 0, Y: 0, Z: -1})
	up := p.V3("up", vmath.V3{X: 0, Y: 1, Z: 0})
	fov := p.Float("fov", 20) // spec's supplemented original-ray-tracer default (SPEC_FULL.md §3)
	aperture := p.Float("aperture", 0.125)
	focusDist := p.Float("focusDistance", eye.Sub(lookAt).Len())
	zNear := p.Float("zNear", 1e-3)
	zFar := p.Float("zFar", 1e4)

	kind := p.String("type", "perspective")
	screen := defaultScreen(width, height)
	switch kind {
	case "", "perspective":
		return camera.NewPerspective(eye, lookAt, up, width, height, screen, fov, aperture, focusDist, zNear, zFar), nil
	case "orthographic":
		return camera.NewOrthographic(eye, lookAt, up, width, height, screen, aperture, focusDist), nil
	default:
		return nil, fmt.Errorf("scene: unknown camera type %q", kind)
	}
}

func defaultScreen(width, height int) camera.Screen {
	aspect := float32(width) / float32(height)
	if aspect > 1 {
		return camera.Screen{Left: -aspect, Right: aspect, Bottom: -1, Top: 1}
	}
	return camera.Screen{Left: -1, Right: 1, Bottom: -1 / aspect, Top: 1 / aspect}
}

// parseTransform implements spec §6's three transform forms: a
// 16-number row-major matrix, an array of composable transforms, or an
// object with one of rotate/scale/translate (if an object names several,
// translate wins over scale, which wins over rotate).
func parseTransform(v any) (vmath.Transform, error) {
	if v == nil {
		return vmath.Identity(), nil
	}
	switch t := v.(type) {
	case []any:
		if len(t) == 16 {
			return matrixFromFlat(t)
		}
		out := vmath.Identity()
		for _, e := range t {
			xf, err := parseTransform(e)
			if err != nil {
				return vmath.Transform{}, err
			}
			out = out.Mul(xf)
		}
		return out, nil
	case map[string]any:
		p := ParamsFromMap(t)
		switch {
		case p.Has("translate"):
			return vmath.Translate(p.V3("translate", vmath.V3{})), nil
		case p.Has("scale"):
			s := p.V3("scale", vmath.V3{X: 1, Y: 1, Z: 1})
			return vmath.ScaleT(s.X, s.Y, s.Z), nil
		case p.Has("rotate"):
			nums, ok := p.floats("rotate")
			if !ok || len(nums) != 4 {
				return vmath.Transform{}, fmt.Errorf("scene: rotate requires 4 numbers (angle, axis)")
			}
			axis := vmath.V3{X: nums[1], Y: nums[2], Z: nums[3]}
			return vmath.Rotate(nums[0], axis), nil
		default:
			return vmath.Transform{}, fmt.Errorf("scene: transform object must have exactly one of rotate/scale/translate")
		}
	default:
		return vmath.Transform{}, fmt.Errorf("scene: unrecognized transform value %T", v)
	}
}

func matrixFromFlat(vals []any) (vmath.Transform, error) {
	var m vmath.M4
	for i, v := range vals {
		f, ok := asFloat(v)
		if !ok {
			return vmath.Transform{}, fmt.Errorf("scene: transform matrix element %d is not numeric", i)
		}
		m[i/4][i%4] = f
	}
	return vmath.Transform{M: m, Minv: m.Inverse()}, nil
}
