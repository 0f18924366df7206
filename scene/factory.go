package scene

import (
	"fmt"
	"image"
	"log"

	"github.com/guerarda/rt1w-sub000/light"
	"github.com/guerarda/rt1w-sub000/load"
	"github.com/guerarda/rt1w-sub000/material"
	"github.com/guerarda/rt1w-sub000/primitive"
	"github.com/guerarda/rt1w-sub000/shape"
	"github.com/guerarda/rt1w-sub000/spectrum"
	"github.com/guerarda/rt1w-sub000/vmath"
)

// builder accumulates the named objects a JSON scene document
// references by name (spec §6 "by name or inline"), resolving paths
// through loc and producing the flat primitive/light lists a Scene is
// built from.
type builder struct {
	loc *load.Locator

	textures  map[string]light.EnvironmentMap
	materials map[string]material.Material
	shapes    map[string]shape.Shape

	prims  []primitive.Primitive
	lights []light.Light
}

func newBuilder(loc *load.Locator) *builder {
	return &builder{
		loc:       loc,
		textures:  map[string]light.EnvironmentMap{},
		materials: map[string]material.Material{},
		shapes:    map[string]shape.Shape{},
	}
}

// imageMap adapts a decoded image.Image to light.EnvironmentMap,
// sampling nearest-neighbor at the given equirectangular (u,v).
type imageMap struct {
	img image.Image
}

func (m imageMap) Eval(u, v float32) spectrum.Spectrum {
	b := m.img.Bounds()
	x := b.Min.X + int(u*float32(b.Dx()))
	y := b.Min.Y + int(v*float32(b.Dy()))
	x = clampInt(x, b.Min.X, b.Max.X-1)
	y = clampInt(y, b.Min.Y, b.Max.Y-1)
	r, g, bl, _ := m.img.At(x, y).RGBA()
	const inv = 1.0 / 65535.0
	return spectrum.RGB(float32(r)*inv, float32(g)*inv, float32(bl)*inv)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func (b *builder) loadTextures(m map[string]any) error {
	for name, v := range m {
		obj, ok := v.(map[string]any)
		if !ok {
			return fmt.Errorf("scene: texture %q must be an object", name)
		}
		p := ParamsFromMap(obj)
		file := p.String("file", "")
		if file == "" {
			return fmt.Errorf("scene: texture %q missing \"file\"", name)
		}
		r, err := b.loc.Open(file)
		if err != nil {
			log.Printf("scene: texture %q: %v; skipping", name, err)
			continue
		}
		img, err := load.Image(r)
		r.Close()
		if err != nil {
			log.Printf("scene: texture %q: %v; skipping", name, err)
			continue
		}
		b.textures[name] = imageMap{img: img}
	}
	return nil
}

func (b *builder) loadShapes(m map[string]any) error {
	for name, v := range m {
		obj, ok := v.(map[string]any)
		if !ok {
			return fmt.Errorf("scene: shape %q must be an object", name)
		}
		s, err := b.buildShape(ParamsFromMap(obj))
		if err != nil {
			return fmt.Errorf("scene: shape %q: %w", name, err)
		}
		b.shapes[name] = s
	}
	return nil
}

func (b *builder) buildShape(p *Params) (shape.Shape, error) {
	xform, err := parseTransform(firstOf(p, "transform"))
	if err != nil {
		return nil, err
	}
	switch kind := p.String("type", ""); kind {
	case "sphere":
		return shape.NewSphere(xform, p.Float("radius", 1)), nil
	case "mesh", "obj":
		file := p.String("file", "")
		if file == "" {
			return nil, fmt.Errorf("mesh shape requires \"file\"")
		}
		r, err := b.loc.Open(file)
		if err != nil {
			return nil, err
		}
		defer r.Close()
		meshes, err := load.Obj(r)
		if err != nil {
			return nil, err
		}
		for _, mesh := range meshes {
			worldify(mesh, xform)
			// Only one object of a multi-object OBJ file becomes the
			// named shape: the first non-empty mesh the map iteration
			// yields, which is not necessarily the first in the file.
			// The other objects are not reachable from the scene.
			tris := shape.NewTriangles(mesh)
			if len(tris) == 0 {
				continue
			}
			return &meshShape{tris: tris, bound: meshBound(mesh)}, nil
		}
		return nil, fmt.Errorf("mesh file %q contains no objects", file)
	default:
		return nil, fmt.Errorf("unknown shape type %q", kind)
	}
}

// worldify bakes xform into a mesh's vertex positions and normals in
// place, since shape.Triangle carries no per-triangle transform of its
// own (spec's Shape contract expects world-space storage for meshes).
func worldify(mesh *shape.Mesh, xform vmath.Transform) {
	for i, p := range mesh.P {
		mesh.P[i] = xform.ApplyPoint(p)
	}
	for i, n := range mesh.N {
		mesh.N[i] = xform.ApplyNormal(n)
	}
}

func meshBound(mesh *shape.Mesh) vmath.Bounds3 {
	b := vmath.EmptyBounds3()
	for _, p := range mesh.P {
		b = b.Union(p)
	}
	return b
}

// meshShape groups a mesh's triangles behind a single shape.Shape so a
// JSON scene can reference an OBJ file as one named shape; intersection
// and sampling delegate to an internal linear scan, matching
// primitive.Aggregate's reference-implementation role for small meshes.
type meshShape struct {
	tris  []*shape.Triangle
	bound vmath.Bounds3
}

func (m *meshShape) Intersect(r vmath.Ray) (shape.Interaction, float32, bool) {
	var best shape.Interaction
	bestT := float32(0)
	hitAny := false
	ray := r
	for _, tr := range m.tris {
		if it, t, hit := tr.Intersect(ray); hit {
			hitAny = true
			best, bestT = it, t
			ray.TMax = t
		}
	}
	return best, bestT, hitAny
}

func (m *meshShape) QIntersect(r vmath.Ray) bool {
	for _, tr := range m.tris {
		if tr.QIntersect(r) {
			return true
		}
	}
	return false
}

func (m *meshShape) WorldBound() vmath.Bounds3 { return m.bound }

func (m *meshShape) Area() float32 {
	var a float32
	for _, tr := range m.tris {
		a += tr.Area()
	}
	return a
}

func (m *meshShape) Sample(u vmath.V2) (shape.Interaction, float32) {
	if len(m.tris) == 0 {
		return shape.Interaction{}, 0
	}
	ix := int(u.X * float32(len(m.tris)))
	if ix >= len(m.tris) {
		ix = len(m.tris) - 1
	}
	it, pdf := m.tris[ix].Sample(vmath.V2{X: u.X*float32(len(m.tris)) - float32(ix), Y: u.Y})
	return it, pdf / float32(len(m.tris))
}

func (m *meshShape) SampleFrom(ref shape.Interaction, u vmath.V2) (shape.Interaction, float32) {
	it, areaPdf := m.Sample(u)
	if areaPdf == 0 {
		return shape.Interaction{}, 0
	}
	d := it.P.Sub(ref.P)
	if d.LenSq() == 0 {
		return shape.Interaction{}, 0
	}
	return it, shape.SolidAnglePdf(ref, it, d.Unit(), 1/areaPdf)
}

func (m *meshShape) PdfFrom(ref shape.Interaction, wi vmath.V3) float32 {
	r := vmath.SpawnRay(ref.P, ref.PError, ref.N, wi)
	it, _, hit := m.Intersect(r)
	if !hit {
		return 0
	}
	area := m.Area()
	if area == 0 {
		return 0
	}
	return shape.SolidAnglePdf(ref, it, wi, area)
}

func (b *builder) loadMaterials(m map[string]any) error {
	for name, v := range m {
		obj, ok := v.(map[string]any)
		if !ok {
			return fmt.Errorf("scene: material %q must be an object", name)
		}
		mtl, err := b.buildMaterial(ParamsFromMap(obj))
		if err != nil {
			return fmt.Errorf("scene: material %q: %w", name, err)
		}
		b.materials[name] = mtl
	}
	return nil
}

// buildMaterial dispatches on the material catalog of SPEC_FULL.md §3:
// matte, mirror, glass, metal, light.
func (b *builder) buildMaterial(p *Params) (material.Material, error) {
	r := p.V3("albedo", vmath.V3{X: 0.5, Y: 0.5, Z: 0.5})
	albedo := spectrum.RGB(r.X, r.Y, r.Z)

	switch kind := p.String("type", "matte"); kind {
	case "matte":
		return material.NewMatte(albedo), nil
	case "mirror":
		return material.NewMirror(albedo), nil
	case "metal":
		eta := p.V3("eta", vmath.V3{X: 0.2, Y: 0.2, Z: 0.2})
		k := p.V3("k", vmath.V3{X: 3, Y: 3, Z: 3})
		return material.NewMetal(albedo, spectrum.RGB(eta.X, eta.Y, eta.Z), spectrum.RGB(k.X, k.Y, k.Z), p.Float("fuzz", 0)), nil
	case "glass":
		t := p.V3("transmit", vmath.V3{X: 1, Y: 1, Z: 1})
		return material.NewGlass(albedo, spectrum.RGB(t.X, t.Y, t.Z), p.Float("eta", 1.5)), nil
	case "light":
		return material.NewLight(), nil
	default:
		return nil, fmt.Errorf("unknown material type %q", kind)
	}
}

func (b *builder) loadPrimitives(list []map[string]any) error {
	for i, obj := range list {
		p := ParamsFromMap(obj)
		if err := b.buildPrimitive(p); err != nil {
			return fmt.Errorf("scene: primitive %d: %w", i, err)
		}
	}
	return nil
}

func (b *builder) buildPrimitive(p *Params) error {
	s, err := b.resolveShape(p)
	if err != nil {
		return err
	}
	mtl, err := b.resolveMaterial(p)
	if err != nil {
		return err
	}

	emit := p.V3("emit", vmath.V3{})
	if emit != (vmath.V3{}) {
		lemit := spectrum.RGB(emit.X, emit.Y, emit.Z)
		al := light.NewAreaLight(s, lemit)
		g := primitive.NewAreaPrimitive(s, mtl, al)
		b.prims = append(b.prims, g)
		b.lights = append(b.lights, al)
		return nil
	}

	b.prims = append(b.prims, primitive.NewGeometric(s, mtl))
	return nil
}

func (b *builder) resolveShape(p *Params) (shape.Shape, error) {
	if ref := p.String("shape", ""); ref != "" {
		s, ok := b.shapes[ref]
		if !ok {
			return nil, fmt.Errorf("undefined shape %q", ref)
		}
		return s, nil
	}
	if inline, ok := p.Object("shape"); ok {
		if obj, ok := inline.(map[string]any); ok {
			return b.buildShape(ParamsFromMap(obj))
		}
	}
	return nil, fmt.Errorf("primitive missing \"shape\"")
}

func (b *builder) resolveMaterial(p *Params) (material.Material, error) {
	if ref := p.String("material", ""); ref != "" {
		m, ok := b.materials[ref]
		if !ok {
			return nil, fmt.Errorf("undefined material %q", ref)
		}
		return m, nil
	}
	if inline, ok := p.Object("material"); ok {
		if obj, ok := inline.(map[string]any); ok {
			return b.buildMaterial(ParamsFromMap(obj))
		}
	}
	return material.NewMatte(spectrum.New(0.5)), nil
}

func (b *builder) loadLights(list []map[string]any) error {
	for i, obj := range list {
		p := ParamsFromMap(obj)
		l, err := b.buildLight(p)
		if err != nil {
			return fmt.Errorf("scene: light %d: %w", i, err)
		}
		b.lights = append(b.lights, l)
	}
	return nil
}

func (b *builder) buildLight(p *Params) (light.Light, error) {
	intensity := p.V3("intensity", vmath.V3{X: 1, Y: 1, Z: 1})
	i := spectrum.RGB(intensity.X, intensity.Y, intensity.Z)

	switch kind := p.String("type", "point"); kind {
	case "point":
		return light.NewPointLight(p.V3("position", vmath.V3{}), i), nil
	case "environment":
		xform, err := parseTransform(firstOf(p, "transform"))
		if err != nil {
			return nil, err
		}
		var m light.EnvironmentMap
		if ref := p.String("texture", ""); ref != "" {
			tex, ok := b.textures[ref]
			if !ok {
				return nil, fmt.Errorf("undefined texture %q", ref)
			}
			m = tex
		}
		center := p.V3("center", vmath.V3{})
		radius := p.Float("radius", 1000)
		return light.NewEnvironmentLight(xform, center, radius, m, i), nil
	default:
		return nil, fmt.Errorf("unknown light type %q", kind)
	}
}

// firstOf returns p's raw object value for key, or nil if absent; used
// to pass an optional transform field through to parseTransform, which
// treats nil as identity.
func firstOf(p *Params, key string) any {
	v, _ := p.Object(key)
	return v
}
