package bvh

import (
	"github.com/guerarda/rt1w-sub000/primitive"
	"github.com/guerarda/rt1w-sub000/shape"
	"github.com/guerarda/rt1w-sub000/vmath"
)

// linearNode is the flattened, preorder accelerator node of spec §3
// ("BVH node forms"): for an interior node, the left child follows
// immediately and the right child's offset is recorded explicitly.
type linearNode struct {
	bounds            vmath.Bounds3
	primOffset        int // leaf: index into ordered prims.
	secondChildOffset int // interior: index of the right child.
	primCount         int // 0 for interior nodes.
	axis              int
}

// BVH is the binary bounding-volume-hierarchy accelerator (spec §4.3).
type BVH struct {
	nodes []linearNode
	prims []primitive.Primitive
}

// Build constructs a BVH over prims.
func Build(prims []primitive.Primitive) *BVH {
	root, _, ordered := build(prims)
	b := &BVH{prims: ordered}
	b.nodes = make([]linearNode, 0, countNodes(root))
	flatten(root, &b.nodes)
	return b
}

func countNodes(n *buildNode) int {
	if n == nil {
		return 0
	}
	if n.primCount > 0 || (n.children[0] == nil && n.children[1] == nil) {
		return 1
	}
	return 1 + countNodes(n.children[0]) + countNodes(n.children[1])
}

// flatten appends n (preorder) to nodes and returns n's own index.
func flatten(n *buildNode, nodes *[]linearNode) int {
	myIndex := len(*nodes)
	*nodes = append(*nodes, linearNode{bounds: n.bounds})
	if n.primCount > 0 || (n.children[0] == nil && n.children[1] == nil) {
		(*nodes)[myIndex].primOffset = n.firstPrim
		(*nodes)[myIndex].primCount = n.primCount
		return myIndex
	}
	(*nodes)[myIndex].axis = n.splitAxis
	flatten(n.children[0], nodes)
	second := flatten(n.children[1], nodes)
	(*nodes)[myIndex].secondChildOffset = second
	return myIndex
}

// Intersect finds the nearest hit along r, per spec §4.3: pop on a box
// miss, test leaves directly, otherwise descend the near child first
// using the ray-direction sign along the node's split axis.
func (b *BVH) Intersect(r vmath.Ray) (shape.Interaction, bool) {
	if len(b.nodes) == 0 {
		return shape.Interaction{}, false
	}
	invDir := vmath.V3{X: 1 / r.Dir.X, Y: 1 / r.Dir.Y, Z: 1 / r.Dir.Z}
	dirIsNeg := [3]bool{invDir.X < 0, invDir.Y < 0, invDir.Z < 0}

	var stack [64]int
	sp := 0
	current := 0

	var best shape.Interaction
	hitAny := false
	ray := r

	for {
		node := &b.nodes[current]
		if hit, _, _ := node.bounds.IntersectP(ray.Origin, invDir, dirIsNeg, ray.TMax); hit {
			if node.primCount > 0 {
				for i := 0; i < node.primCount; i++ {
					p := b.prims[node.primOffset+i]
					if it, ok := p.Intersect(ray); ok {
						hitAny = true
						best = it
						ray.TMax = it.T
					}
				}
				if sp == 0 {
					break
				}
				sp--
				current = stack[sp]
			} else {
				if dirIsNeg[node.axis] {
					stack[sp] = current + 1
					sp++
					current = node.secondChildOffset
				} else {
					stack[sp] = node.secondChildOffset
					sp++
					current = current + 1
				}
			}
		} else {
			if sp == 0 {
				break
			}
			sp--
			current = stack[sp]
		}
	}
	return best, hitAny
}

// QIntersect is the shadow-ray predicate: returns on the first hit and
// does not reorder children by direction (spec §4.3).
func (b *BVH) QIntersect(r vmath.Ray) bool {
	if len(b.nodes) == 0 {
		return false
	}
	invDir := vmath.V3{X: 1 / r.Dir.X, Y: 1 / r.Dir.Y, Z: 1 / r.Dir.Z}
	dirIsNeg := [3]bool{invDir.X < 0, invDir.Y < 0, invDir.Z < 0}

	var stack [64]int
	sp := 0
	current := 0

	for {
		node := &b.nodes[current]
		if hit, _, _ := node.bounds.IntersectP(r.Origin, invDir, dirIsNeg, r.TMax); hit {
			if node.primCount > 0 {
				for i := 0; i < node.primCount; i++ {
					if b.prims[node.primOffset+i].QIntersect(r) {
						return true
					}
				}
				if sp == 0 {
					return false
				}
				sp--
				current = stack[sp]
			} else {
				stack[sp] = node.secondChildOffset
				sp++
				current = current + 1
			}
		} else {
			if sp == 0 {
				return false
			}
			sp--
			current = stack[sp]
		}
	}
}

func (b *BVH) WorldBound() vmath.Bounds3 {
	if len(b.nodes) == 0 {
		return vmath.EmptyBounds3()
	}
	return b.nodes[0].bounds
}
