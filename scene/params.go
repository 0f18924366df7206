// Package scene implements the renderer's external interfaces (spec
// §6): a two-map Params bag for the JSON scene document, factory
// dispatch from Params to the core packages' types, and a Scene value
// gluing an accelerator, a light list, and a camera together for the
// integrator and rendering context.
package scene

import (
	"fmt"

	"github.com/guerarda/rt1w-sub000/vmath"
)

// Params is the two-map bag of spec §6: a string→string map for
// scalars and a string→object map for nested documents, arrays and
// tagged values. String reads the string map first; the other typed
// getters resolve from the object map first (Float, Int and Bool
// falling back to parsing the string map) when a caller asks for a
// scalar stored as plain text (e.g. a JSON number decoded into a
// string-keyed reference by an earlier indirection pass).
type Params struct {
	Strings map[string]string
	Objects map[string]any
}

// NewParams returns an empty Params bag with both maps allocated.
func NewParams() *Params {
	return &Params{Strings: map[string]string{}, Objects: map[string]any{}}
}

// Merge deep-merges o into p: keys already present in p take
// precedence over o's, as spec §6 requires ("existing keys taking
// precedence").
func (p *Params) Merge(o *Params) {
	if o == nil {
		return
	}
	for k, v := range o.Strings {
		if _, ok := p.Strings[k]; !ok {
			p.Strings[k] = v
		}
	}
	for k, v := range o.Objects {
		if _, ok := p.Objects[k]; !ok {
			p.Objects[k] = v
		}
	}
}

// Has reports whether key is present in either map.
func (p *Params) Has(key string) bool {
	if _, ok := p.Objects[key]; ok {
		return true
	}
	_, ok := p.Strings[key]
	return ok
}

// String returns the string value of key, or def if absent.
func (p *Params) String(key, def string) string {
	if v, ok := p.Strings[key]; ok {
		return v
	}
	if v, ok := p.Objects[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return def
}

// Float returns the float32 value of key, or def if absent or
// unparsable.
func (p *Params) Float(key string, def float32) float32 {
	if v, ok := p.Objects[key]; ok {
		if f, ok := asFloat(v); ok {
			return f
		}
	}
	if s, ok := p.Strings[key]; ok {
		var f float64
		if _, err := fmt.Sscanf(s, "%g", &f); err == nil {
			return float32(f)
		}
	}
	return def
}

// Int returns the int value of key, or def if absent or unparsable.
func (p *Params) Int(key string, def int) int {
	return int(p.Float(key, float32(def)))
}

// Bool returns the bool value of key, or def if absent.
func (p *Params) Bool(key string, def bool) bool {
	if v, ok := p.Objects[key]; ok {
		if b, ok := v.(bool); ok {
			return b
		}
	}
	switch p.Strings[key] {
	case "true":
		return true
	case "false":
		return false
	}
	return def
}

// V3 returns the 3-number array value of key as a vector, or def.
func (p *Params) V3(key string, def vmath.V3) vmath.V3 {
	nums, ok := p.floats(key)
	if !ok || len(nums) < 3 {
		return def
	}
	return vmath.V3{X: nums[0], Y: nums[1], Z: nums[2]}
}

// V2 returns the 2-number array value of key as a vector, or def.
func (p *Params) V2(key string, def vmath.V2) vmath.V2 {
	nums, ok := p.floats(key)
	if !ok || len(nums) < 2 {
		return def
	}
	return vmath.V2{X: nums[0], Y: nums[1]}
}

// Object returns the raw object value of key (expected to be a
// map[string]any or []any from JSON decoding), and whether it was
// present.
func (p *Params) Object(key string) (any, bool) {
	v, ok := p.Objects[key]
	return v, ok
}

// Sub returns the nested Params built from key's object value, used
// to recurse into a JSON sub-document (e.g. a material's inline
// definition under a primitive).
func (p *Params) Sub(key string) *Params {
	v, ok := p.Objects[key]
	if !ok {
		return NewParams()
	}
	m, ok := v.(map[string]any)
	if !ok {
		return NewParams()
	}
	return ParamsFromMap(m)
}

func (p *Params) floats(key string) ([]float32, bool) {
	v, ok := p.Objects[key]
	if !ok {
		return nil, false
	}
	arr, ok := v.([]any)
	if !ok {
		return nil, false
	}
	out := make([]float32, 0, len(arr))
	for _, e := range arr {
		f, ok := asFloat(e)
		if !ok {
			return nil, false
		}
		out = append(out, f)
	}
	return out, true
}

func asFloat(v any) (float32, bool) {
	switch n := v.(type) {
	case float64:
		return float32(n), true
	case float32:
		return n, true
	case int:
		return float32(n), true
	}
	return 0, false
}

// ParamsFromMap builds a Params from a decoded JSON object: scalar
// strings and numbers go into both maps (Strings holds their textual
// form for indirection lookups), everything else goes into Objects
// only.
func ParamsFromMap(m map[string]any) *Params {
	p := NewParams()
	for k, v := range m {
		p.Objects[k] = v
		switch s := v.(type) {
		case string:
			p.Strings[k] = s
		case float64:
			p.Strings[k] = fmt.Sprintf("%g", s)
		case bool:
			p.Strings[k] = fmt.Sprintf("%t", s)
		}
	}
	return p
}
