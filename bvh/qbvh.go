package bvh

import (
	"github.com/guerarda/rt1w-sub000/internal/trap"
	"github.com/guerarda/rt1w-sub000/primitive"
	"github.com/guerarda/rt1w-sub000/shape"
	"github.com/guerarda/rt1w-sub000/vmath"
)

// qbvhLeafBit/qbvhCountShift/qbvhCountMask/qbvhIndexMask split a QBVH
// child slot's encoding: bit 31 marks a leaf, bits 27..30 hold its primitive count (0..15), bits
// 0..26 hold its first primitive index (spec §3 "QBVH node").
const (
	qbvhLeafBit    = uint32(1) << 31
	qbvhCountShift = 27
	qbvhCountMask  = 0xF
	qbvhIndexMask  = (1 << 27) - 1
	maxLeafPrims   = 15
)

// qbvhNode stores four children's bounds in SOA layout plus their
// encoded indices. Slots 0-1 are always n's first child's children
// (or just slot 0, if that child was a leaf); slots 2-3 are the
// second's. axisTop/axisLeft/axisRight are the three split axes needed
// to order all four slots by ray direction (spec §4.4).
type qbvhNode struct {
	lo, hi                       [3][4]float32
	child                        [4]uint32
	axisTop, axisLeft, axisRight int
}

func emptyChildBounds() vmath.Bounds3 {
	return vmath.Bounds3{
		Lo: vmath.V3{X: inf, Y: inf, Z: inf},
		Hi: vmath.V3{X: -inf, Y: -inf, Z: -inf},
	}
}

const inf = float32(1e30)

// QBVH is the compacted four-way accelerator of spec §4.4, built by
// merging grandchildren of the binary BVH's build tree.
type QBVH struct {
	nodes []qbvhNode
	prims []primitive.Primitive
}

// BuildQBVH constructs a QBVH over prims.
func BuildQBVH(prims []primitive.Primitive) *QBVH {
	root, _, ordered := build(prims)
	q := &QBVH{prims: ordered}
	if root != nil {
		q.flattenFrom(root)
	}
	return q
}

// flattenFrom emits one qbvhNode for the binary node n (treated as the
// root of a 4-ary group) and returns its index, recursing into any
// interior grandchildren.
func (q *QBVH) flattenFrom(n *buildNode) int {
	children := q.fourChildrenOf(n)

	myIndex := len(q.nodes)
	q.nodes = append(q.nodes, qbvhNode{})
	node := &q.nodes[myIndex]
	for i := 0; i < 4; i++ {
		b := emptyChildBounds()
		if children[i] != nil {
			b = children[i].bounds
		}
		for a := 0; a < 3; a++ {
			node.lo[a][i] = b.Lo.At(a)
			node.hi[a][i] = b.Hi.At(a)
		}
	}
	node.axisTop = n.splitAxis
	if c := n.children[0]; c != nil && c.children[0] != nil {
		node.axisLeft = c.splitAxis
	}
	if c := n.children[1]; c != nil && c.children[0] != nil {
		node.axisRight = c.splitAxis
	}

	for i, c := range children {
		switch {
		case c == nil:
			node.child[i] = qbvhLeafBit // count=0, empty leaf.
		case c.primCount > 0 || (c.children[0] == nil && c.children[1] == nil):
			if c.primCount > maxLeafPrims {
				trap.Panicf("bvh: QBVH leaf exceeds encoding capacity (contract violation)")
			}
			node.child[i] = qbvhLeafBit | (uint32(c.primCount) << qbvhCountShift) | (uint32(c.firstPrim) & qbvhIndexMask)
		default:
			node.child[i] = uint32(q.flattenFrom(c))
		}
	}
	return myIndex
}

// fourChildrenOf collapses n's two children into up to four
// grandchildren: an interior child is replaced by its own two
// children; a leaf child occupies a single slot.
func (q *QBVH) fourChildrenOf(n *buildNode) [4]*buildNode {
	var out [4]*buildNode
	assign := func(c *buildNode, i0, i1 int) {
		if c == nil {
			return
		}
		if c.children[0] == nil {
			out[i0] = c // leaf: occupies only its first slot.
			return
		}
		out[i0] = c.children[0]
		out[i1] = c.children[1]
	}
	assign(n.children[0], 0, 1)
	assign(n.children[1], 2, 3)
	return out
}

func isLeafChild(c uint32) bool { return c&qbvhLeafBit != 0 }

func leafCount(c uint32) int { return int((c >> qbvhCountShift) & qbvhCountMask) }
func leafFirst(c uint32) int { return int(c & qbvhIndexMask) }

// intersectBoxes4 runs the SIMD-style ray-box test against all four
// children of node at once, returning a bitmask with bit i set iff
// child i is hit within [0, tMax].
func intersectBoxes4(node *qbvhNode, origin, invDir vmath.V3, tMax float32) int {
	tmin := [4]float32{0, 0, 0, 0}
	tmax := [4]float32{tMax, tMax, tMax, tMax}

	axes := [3]float32{origin.X, origin.Y, origin.Z}
	invs := [3]float32{invDir.X, invDir.Y, invDir.Z}

	mask := 0xF
	for a := 0; a < 3; a++ {
		o, inv := axes[a], invs[a]
		for i := 0; i < 4; i++ {
			if mask&(1<<i) == 0 {
				continue
			}
			t0 := (node.lo[a][i] - o) * inv
			t1 := (node.hi[a][i] - o) * inv
			if inv < 0 {
				t0, t1 = t1, t0
			}
			if t0 > tmin[i] {
				tmin[i] = t0
			}
			if t1 < tmax[i] {
				tmax[i] = t1
			}
			if tmin[i] > tmax[i] {
				mask &^= 1 << i
			}
		}
	}
	return mask
}

// orderedChildren reorders the four child slot indices so the ray
// visits near children first, using the direction sign along the
// node's recorded split axes (spec §4.4).
func orderedChildren(node *qbvhNode, dirIsNeg [3]bool) [4]int {
	left, right := [2]int{0, 1}, [2]int{2, 3}
	if dirIsNeg[node.axisLeft] {
		left[0], left[1] = left[1], left[0]
	}
	if dirIsNeg[node.axisRight] {
		right[0], right[1] = right[1], right[0]
	}
	if dirIsNeg[node.axisTop] {
		left, right = right, left
	}
	return [4]int{left[0], left[1], right[0], right[1]}
}

// Intersect finds the nearest hit along r.
func (q *QBVH) Intersect(r vmath.Ray) (shape.Interaction, bool) {
	if len(q.nodes) == 0 {
		return shape.Interaction{}, false
	}
	invDir := vmath.V3{X: 1 / r.Dir.X, Y: 1 / r.Dir.Y, Z: 1 / r.Dir.Z}
	dirIsNeg := [3]bool{invDir.X < 0, invDir.Y < 0, invDir.Z < 0}

	var stack [64]int
	sp := 0
	stack[sp] = 0
	sp++

	var best shape.Interaction
	hitAny := false
	ray := r

	for sp > 0 {
		sp--
		idx := stack[sp]
		node := &q.nodes[idx]
		mask := intersectBoxes4(node, ray.Origin, invDir, ray.TMax)
		if mask == 0 {
			continue
		}
		for _, i := range orderedChildren(node, dirIsNeg) {
			if mask&(1<<uint(i)) == 0 {
				continue
			}
			c := node.child[i]
			if isLeafChild(c) {
				count := leafCount(c)
				first := leafFirst(c)
				for j := 0; j < count; j++ {
					p := q.prims[first+j]
					if it, ok := p.Intersect(ray); ok {
						hitAny = true
						best = it
						ray.TMax = it.T
					}
				}
			} else {
				stack[sp] = int(c)
				sp++
			}
		}
	}
	return best, hitAny
}

// QIntersect is the shadow-ray predicate: returns on first hit.
func (q *QBVH) QIntersect(r vmath.Ray) bool {
	if len(q.nodes) == 0 {
		return false
	}
	invDir := vmath.V3{X: 1 / r.Dir.X, Y: 1 / r.Dir.Y, Z: 1 / r.Dir.Z}

	var stack [64]int
	sp := 0
	stack[sp] = 0
	sp++

	for sp > 0 {
		sp--
		idx := stack[sp]
		node := &q.nodes[idx]
		mask := intersectBoxes4(node, r.Origin, invDir, r.TMax)
		if mask == 0 {
			continue
		}
		for i := 0; i < 4; i++ {
			if mask&(1<<uint(i)) == 0 {
				continue
			}
			c := node.child[i]
			if isLeafChild(c) {
				count := leafCount(c)
				first := leafFirst(c)
				for j := 0; j < count; j++ {
					if q.prims[first+j].QIntersect(r) {
						return true
					}
				}
			} else {
				stack[sp] = int(c)
				sp++
			}
		}
	}
	return false
}

func (q *QBVH) WorldBound() vmath.Bounds3 {
	if len(q.nodes) == 0 {
		return vmath.EmptyBounds3()
	}
	bounds := vmath.EmptyBounds3()
	for i := 0; i < 4; i++ {
		c := q.nodes[0].child[i]
		if c == qbvhLeafBit {
			continue
		}
		cb := vmath.Bounds3{
			Lo: vmath.V3{X: q.nodes[0].lo[0][i], Y: q.nodes[0].lo[1][i], Z: q.nodes[0].lo[2][i]},
			Hi: vmath.V3{X: q.nodes[0].hi[0][i], Y: q.nodes[0].hi[1][i], Z: q.nodes[0].hi[2][i]},
		}
		bounds = bounds.UnionBounds(cb)
	}
	return bounds
}
