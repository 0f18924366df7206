package load

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/guerarda/rt1w-sub000/shape"
	"github.com/guerarda/rt1w-sub000/vmath"
)

// Obj reads a Wavefront OBJ document and returns one shape.Mesh per
// named object ("o name" line) it contains, keyed by object name (a map,
// so the objects' file order is not kept). This is a
// limited subset of the full format: it understands vertices (v),
// vertex normals (vn), texture coordinates (vt) and triangular or
// fan-triangulated polygonal faces (f); material directives (mtllib,
// usemtl) and smoothing groups (s) are recognized and ignored, since
// materials are attached to primitives independently in the JSON scene
// document (spec §6), not read from the mesh file.
//
// The Reader r is expected to be opened and closed by the caller.
func Obj(r io.Reader) (map[string]*shape.Mesh, error) {
	objs := splitObjects(r)
	if len(objs) == 0 {
		return nil, fmt.Errorf("load: no objects in .obj file")
	}
	out := make(map[string]*shape.Mesh, len(objs))
	for _, o := range objs {
		m, err := parseObject(o.lines)
		if err != nil {
			return nil, fmt.Errorf("load: object %q: %w", o.name, err)
		}
		out[o.name] = m
	}
	return out, nil
}

type objLines struct {
	name  string
	lines []string
}

// splitObjects groups the raw lines of a (possibly multi-object) OBJ
// file by their "o name" directive. A file with no "o" directive is
// treated as a single anonymous object.
func splitObjects(r io.Reader) []objLines {
	var objs []objLines
	cur := objLines{name: "default"}
	started := false
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		switch fields[0] {
		case "mtllib", "usemtl", "s":
			continue
		}
		if len(fields) == 2 && fields[0] == "o" {
			if started || len(cur.lines) > 0 {
				objs = append(objs, cur)
			}
			cur = objLines{name: fields[1]}
			started = true
			continue
		}
		cur.lines = append(cur.lines, line)
	}
	objs = append(objs, cur)
	return objs
}

// parseObject turns one object's raw lines into a shape.Mesh. Vertex,
// normal and UV indices (1-based, possibly negative for a relative
// reference) resolve against this object's own v/vn/vt lines only, not
// against the whole file as standard OBJ numbering does; faces are
// fan-triangulated around their first vertex when they have more than
// three corners.
func parseObject(lines []string) (*shape.Mesh, error) {
	var verts []vmath.V3
	var normals []vmath.V3
	var uvs []vmath.V2
	var faces [][]string

	for _, line := range lines {
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case "v":
			v, err := parseV3(fields[1:])
			if err != nil {
				return nil, fmt.Errorf("bad vertex %q: %w", line, err)
			}
			verts = append(verts, v)
		case "vn":
			n, err := parseV3(fields[1:])
			if err != nil {
				return nil, fmt.Errorf("bad normal %q: %w", line, err)
			}
			normals = append(normals, n)
		case "vt":
			uv, err := parseV2(fields[1:])
			if err != nil {
				return nil, fmt.Errorf("bad texcoord %q: %w", line, err)
			}
			uvs = append(uvs, uv)
		case "f":
			if len(fields) < 4 {
				return nil, fmt.Errorf("bad face %q: fewer than 3 corners", line)
			}
			faces = append(faces, fields[1:])
		}
	}
	if len(verts) == 0 || len(faces) == 0 {
		return nil, fmt.Errorf("minimally need vertex and face data")
	}

	mesh := &shape.Mesh{P: verts}
	if len(normals) > 0 {
		mesh.N = make([]vmath.V3, len(verts))
	}
	if len(uvs) > 0 {
		mesh.UV = make([]vmath.V2, len(verts))
	}

	for _, corners := range faces {
		idx := make([]int, len(corners))
		for i, c := range corners {
			vi, ti, ni, err := parseFaceCorner(c, len(verts), len(uvs), len(normals))
			if err != nil {
				return nil, err
			}
			idx[i] = vi
			if ni >= 0 {
				mesh.N[vi] = normals[ni]
			}
			if ti >= 0 {
				mesh.UV[vi] = uvs[ti]
			}
		}
		for i := 1; i < len(idx)-1; i++ {
			mesh.Indices = append(mesh.Indices, idx[0], idx[i], idx[i+1])
		}
	}
	return mesh, nil
}

func parseV3(fields []string) (vmath.V3, error) {
	if len(fields) < 3 {
		return vmath.V3{}, fmt.Errorf("expected 3 components")
	}
	var f [3]float64
	for i := 0; i < 3; i++ {
		if _, err := fmt.Sscanf(fields[i], "%g", &f[i]); err != nil {
			return vmath.V3{}, err
		}
	}
	return vmath.V3{X: float32(f[0]), Y: float32(f[1]), Z: float32(f[2])}, nil
}

func parseV2(fields []string) (vmath.V2, error) {
	if len(fields) < 2 {
		return vmath.V2{}, fmt.Errorf("expected 2 components")
	}
	var f [2]float64
	for i := 0; i < 2; i++ {
		if _, err := fmt.Sscanf(fields[i], "%g", &f[i]); err != nil {
			return vmath.V2{}, err
		}
	}
	return vmath.V2{X: float32(f[0]), Y: 1 - float32(f[1])}, nil
}

// parseFaceCorner parses one "v", "v/t", "v//n" or "v/t/n" face corner,
// resolving negative (relative) indices and converting to 0-based.
// ti/ni are -1 when absent.
func parseFaceCorner(s string, nv, nt, nn int) (vi, ti, ni int, err error) {
	parts := strings.Split(s, "/")
	vi, err = resolveIndex(parts[0], nv)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("bad face corner %q: %w", s, err)
	}
	ti, ni = -1, -1
	if len(parts) >= 2 && parts[1] != "" {
		if ti, err = resolveIndex(parts[1], nt); err != nil {
			return 0, 0, 0, fmt.Errorf("bad face corner %q: %w", s, err)
		}
	}
	if len(parts) >= 3 && parts[2] != "" {
		if ni, err = resolveIndex(parts[2], nn); err != nil {
			return 0, 0, 0, fmt.Errorf("bad face corner %q: %w", s, err)
		}
	}
	return vi, ti, ni, nil
}

func resolveIndex(s string, n int) (int, error) {
	var i int
	if _, err := fmt.Sscanf(s, "%d", &i); err != nil {
		return 0, err
	}
	if i < 0 {
		return n + i, nil
	}
	return i - 1, nil
}
