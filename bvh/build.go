package bvh

import (
	"github.com/guerarda/rt1w-sub000/primitive"
	"github.com/guerarda/rt1w-sub000/vmath"
)

const nBuckets = 12

// traversalCost is the SAH's constant cost of descending one interior
// node, relative to a unit-cost primitive intersection test (spec §9
// open question 1: either 1.0 or 0.125 is acceptable so long as the
// leaf-cost comparison below uses the same units).
const traversalCost = 1.0

// primInfo is the per-primitive bookkeeping the builder partitions in
// place; it never touches the primitives themselves until a leaf is
// emitted.
type primInfo struct {
	index  int
	bounds vmath.Bounds3
	center vmath.V3
}

// buildNode is an arena-owned build-time tree node (spec §3 "BVH node
// forms").
type buildNode struct {
	bounds    vmath.Bounds3
	children  [2]*buildNode
	splitAxis int
	firstPrim int
	primCount int
}

func (n *buildNode) initLeaf(first, count int, b vmath.Bounds3) {
	n.firstPrim = first
	n.primCount = count
	n.bounds = b
}

func (n *buildNode) initInterior(axis int, c0, c1 *buildNode) {
	n.children[0] = c0
	n.children[1] = c1
	n.bounds = c0.bounds.UnionBounds(c1.bounds)
	n.splitAxis = axis
	n.primCount = 0
}

// build runs the recursive SAH builder of spec §4.2 over prims,
// returning the build-time root, the arena backing it (kept alive by
// the caller only for the duration of flattening), and prims reordered
// so that each leaf's primitives occupy a contiguous range.
func build(prims []primitive.Primitive) (*buildNode, *Arena, []primitive.Primitive) {
	arena := NewArena()
	if len(prims) == 0 {
		root := arena.New()
		root.initLeaf(0, 0, vmath.EmptyBounds3())
		return root, arena, nil
	}

	info := make([]primInfo, len(prims))
	for i, p := range prims {
		b := p.WorldBound()
		info[i] = primInfo{index: i, bounds: b, center: b.Centroid()}
	}

	ordered := make([]primitive.Primitive, 0, len(prims))
	root := buildRange(arena, prims, info, 0, len(info), &ordered)
	return root, arena, ordered
}

func buildRange(arena *Arena, prims []primitive.Primitive, info []primInfo, begin, end int, ordered *[]primitive.Primitive) *buildNode {
	node := arena.New()

	bounds := vmath.EmptyBounds3()
	for i := begin; i < end; i++ {
		bounds = bounds.UnionBounds(info[i].bounds)
	}

	n := end - begin
	emitLeaf := func() *buildNode {
		first := len(*ordered)
		for i := begin; i < end; i++ {
			*ordered = append(*ordered, prims[info[i].index])
		}
		node.initLeaf(first, n, bounds)
		return node
	}

	if n == 1 {
		return emitLeaf()
	}

	centerBounds := vmath.EmptyBounds3()
	for i := begin; i < end; i++ {
		centerBounds = centerBounds.Union(info[i].center)
	}
	axis := centerBounds.MaxAxis()

	if centerBounds.Lo.At(axis) == centerBounds.Hi.At(axis) {
		return emitLeaf()
	}

	var mid int
	if n <= 4 {
		mid = begin + n/2
		partitionByCenter(info[begin:end], axis)
	} else {
		var buckets [nBuckets]struct {
			count  int
			bounds vmath.Bounds3
		}
		for i := range buckets {
			buckets[i].bounds = vmath.EmptyBounds3()
		}
		bucketOf := func(p primInfo) int {
			off := centerBounds.Offset(p.center).At(axis)
			b := int(float32(nBuckets) * off)
			if b == nBuckets {
				b = nBuckets - 1
			}
			if b < 0 {
				b = 0
			}
			return b
		}
		for i := begin; i < end; i++ {
			b := bucketOf(info[i])
			buckets[b].count++
			buckets[b].bounds = buckets[b].bounds.UnionBounds(info[i].bounds)
		}

		var costs [nBuckets - 1]float32
		for i := 0; i < nBuckets-1; i++ {
			b0, b1 := vmath.EmptyBounds3(), vmath.EmptyBounds3()
			c0, c1 := 0, 0
			for j := 0; j <= i; j++ {
				b0 = b0.UnionBounds(buckets[j].bounds)
				c0 += buckets[j].count
			}
			for j := i + 1; j < nBuckets; j++ {
				b1 = b1.UnionBounds(buckets[j].bounds)
				c1 += buckets[j].count
			}
			area := bounds.SurfaceArea()
			if area == 0 {
				costs[i] = traversalCost
				continue
			}
			costs[i] = traversalCost + (float32(c0)*b0.SurfaceArea()+float32(c1)*b1.SurfaceArea())/area
		}

		minCost, minBucket := costs[0], 0
		for i := 1; i < nBuckets-1; i++ {
			if costs[i] < minCost {
				minCost, minBucket = costs[i], i
			}
		}

		leafCost := float32(n)
		if minCost >= leafCost {
			return emitLeaf()
		}

		mid = partitionByBucket(info[begin:end], bucketOf, minBucket) + begin
	}

	c0 := buildRange(arena, prims, info, begin, mid, ordered)
	c1 := buildRange(arena, prims, info, mid, end, ordered)
	node.initInterior(axis, c0, c1)
	return node
}

// partitionByCenter performs the n<=4 equal-count split: a median
// select on the centroid's axis coordinate.
func partitionByCenter(s []primInfo, axis int) {
	for i := 1; i < len(s); i++ {
		v := s[i]
		j := i - 1
		for j >= 0 && s[j].center.At(axis) > v.center.At(axis) {
			s[j+1] = s[j]
			j--
		}
		s[j+1] = v
	}
}

// partitionByBucket reorders s in place so every element whose bucket
// is <= minBucket precedes every element whose bucket is greater,
// returning the partition point (relative to s's start).
func partitionByBucket(s []primInfo, bucketOf func(primInfo) int, minBucket int) int {
	i := 0
	for j := 0; j < len(s); j++ {
		if bucketOf(s[j]) <= minBucket {
			s[i], s[j] = s[j], s[i]
			i++
		}
	}
	return i
}
