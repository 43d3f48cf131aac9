package core

import (
	"math"
	"sort"
)

// Leaf threshold: if we have this many or fewer primitives, store them in a leaf node
const leafThreshold = 4

// BVHPrimitive is the build input for one primitive: its bounds and centroid
type BVHPrimitive struct {
	Bounds   AABB
	Centroid Vec3
}

// BVHNode is one entry of the flattened hierarchy. Internal nodes reference two
// children by index; leaves reference a range of BVH.Indices.
type BVHNode struct {
	Bounds AABB
	Left   int32 // -1 for leaves
	Right  int32 // -1 for leaves
	Start  int32 // First entry in BVH.Indices (leaves only)
	Count  int32 // Number of primitives (0 for internal nodes)
	Axis   int8  // Split axis of internal nodes
}

// IsLeaf reports whether the node stores primitives
func (n *BVHNode) IsLeaf() bool {
	return n.Count > 0
}

// BVH represents a Bounding Volume Hierarchy over an indexed primitive list.
// Nodes[0] is the root; Indices is the permutation of primitive indices
// referenced by leaf ranges.
type BVH struct {
	Nodes   []BVHNode
	Indices []int
}

// HitFunc tests a single primitive against the ray restricted to [tMin, tMax]
// and returns the hit distance
type HitFunc func(prim int, ray Ray, tMin, tMax float64) (float64, bool)

// BVHHit identifies the nearest primitive hit found by a traversal
type BVHHit struct {
	Primitive int
	T         float64
}

// TraversalStats counts the work done by BVH queries
type TraversalStats struct {
	Rays           uint64
	BoxTests       uint64
	BoxHits        uint64
	PrimitiveTests uint64
	PrimitiveHits  uint64
}

// Merge adds the counters of other to s
func (s *TraversalStats) Merge(other TraversalStats) {
	s.Rays += other.Rays
	s.BoxTests += other.BoxTests
	s.BoxHits += other.BoxHits
	s.PrimitiveTests += other.PrimitiveTests
	s.PrimitiveHits += other.PrimitiveHits
}

// NewBVH constructs a BVH over prims. An empty input yields an empty tree.
func NewBVH(prims []BVHPrimitive) *BVH {
	bvh := &BVH{}
	if len(prims) == 0 {
		return bvh
	}

	bvh.Indices = make([]int, len(prims))
	for i := range bvh.Indices {
		bvh.Indices[i] = i
	}
	bvh.Nodes = make([]BVHNode, 0, 2*len(prims)/leafThreshold+1)

	builder := &bvhBuilder{prims: prims, bvh: bvh}
	builder.build(0, len(prims))
	return bvh
}

type bvhBuilder struct {
	prims []BVHPrimitive
	bvh   *BVH
}

// build creates the node covering Indices[start:end] and returns its index
func (b *bvhBuilder) build(start, end int) int32 {
	bounds := EmptyAABB()
	centroids := EmptyAABB()
	for _, idx := range b.bvh.Indices[start:end] {
		bounds = bounds.Union(b.prims[idx].Bounds)
		centroids = centroids.Grow(b.prims[idx].Centroid)
	}

	nodeIndex := int32(len(b.bvh.Nodes))
	b.bvh.Nodes = append(b.bvh.Nodes, BVHNode{Bounds: bounds, Left: -1, Right: -1})

	if end-start <= leafThreshold {
		node := &b.bvh.Nodes[nodeIndex]
		node.Start = int32(start)
		node.Count = int32(end - start)
		return nodeIndex
	}

	axis := centroids.LongestAxis()
	mid := b.partition(start, end, axis, centroids.Center().Axis(axis))

	left := b.build(start, mid)
	right := b.build(mid, end)

	// Re-take the pointer: the recursive appends may have moved the slice
	node := &b.bvh.Nodes[nodeIndex]
	node.Left = left
	node.Right = right
	node.Axis = int8(axis)
	return nodeIndex
}

// partition splits Indices[start:end] at the centroid midpoint along axis. When
// that leaves one side empty it sorts by centroid and splits the range in half.
func (b *bvhBuilder) partition(start, end, axis int, split float64) int {
	indices := b.bvh.Indices
	mid := start
	for i := start; i < end; i++ {
		if b.prims[indices[i]].Centroid.Axis(axis) < split {
			indices[i], indices[mid] = indices[mid], indices[i]
			mid++
		}
	}
	if mid != start && mid != end {
		return mid
	}

	span := indices[start:end]
	sort.Slice(span, func(i, j int) bool {
		ci := b.prims[span[i]].Centroid.Axis(axis)
		cj := b.prims[span[j]].Centroid.Axis(axis)
		if ci != cj {
			return ci < cj
		}
		return span[i] < span[j]
	})
	return start + (end-start)/2
}

// tieEpsilon is the distance below which two hits count as the same distance
func tieEpsilon(t float64) float64 {
	return 1e-9 * math.Max(1, math.Abs(t))
}

// closer reports whether a hit at t on prim replaces best. Near-equal
// distances go to the lower primitive index.
func closer(t float64, prim int, best BVHHit) bool {
	eps := tieEpsilon(best.T)
	if t < best.T-eps {
		return true
	}
	return math.Abs(t-best.T) <= eps && prim < best.Primitive
}

// Intersect returns the nearest primitive hit within [ray.TMin, ray.TMax]
func (bvh *BVH) Intersect(ray Ray, hit HitFunc, stats *TraversalStats) (BVHHit, bool) {
	if len(bvh.Nodes) == 0 {
		return BVHHit{}, false
	}
	if stats == nil {
		stats = &TraversalStats{}
	}
	stats.Rays++

	best := BVHHit{Primitive: -1, T: ray.TMax}
	found := false
	limit := ray.TMax

	var buf [64]int32
	stack := append(buf[:0], 0)
	for len(stack) > 0 {
		node := &bvh.Nodes[stack[len(stack)-1]]
		stack = stack[:len(stack)-1]

		stats.BoxTests++
		if !node.Bounds.Hit(ray, ray.TMin, limit) {
			continue
		}
		stats.BoxHits++

		if node.IsLeaf() {
			for _, prim := range bvh.Indices[node.Start : node.Start+node.Count] {
				stats.PrimitiveTests++
				t, ok := hit(prim, ray, ray.TMin, limit)
				if !ok {
					continue
				}
				stats.PrimitiveHits++
				if !found || closer(t, prim, best) {
					best = BVHHit{Primitive: prim, T: t}
					found = true
					limit = math.Min(ray.TMax, t+tieEpsilon(t))
				}
			}
			continue
		}

		// Push the far child first so the near child is visited first
		near, far := node.Left, node.Right
		if ray.Direction.Axis(int(node.Axis)) < 0 {
			near, far = far, near
		}
		stack = append(stack, far, near)
	}

	return best, found
}

// IntersectAny reports whether any primitive is hit within [ray.TMin, ray.TMax]
func (bvh *BVH) IntersectAny(ray Ray, hit HitFunc, stats *TraversalStats) bool {
	if len(bvh.Nodes) == 0 {
		return false
	}
	if stats == nil {
		stats = &TraversalStats{}
	}
	stats.Rays++

	var buf [64]int32
	stack := append(buf[:0], 0)
	for len(stack) > 0 {
		node := &bvh.Nodes[stack[len(stack)-1]]
		stack = stack[:len(stack)-1]

		stats.BoxTests++
		if !node.Bounds.Hit(ray, ray.TMin, ray.TMax) {
			continue
		}
		stats.BoxHits++

		if !node.IsLeaf() {
			stack = append(stack, node.Right, node.Left)
			continue
		}
		for _, prim := range bvh.Indices[node.Start : node.Start+node.Count] {
			stats.PrimitiveTests++
			if _, ok := hit(prim, ray, ray.TMin, ray.TMax); ok {
				stats.PrimitiveHits++
				return true
			}
		}
	}

	return false
}

// BVHStats contains statistics about the BVH structure
type BVHStats struct {
	TotalNodes      int
	LeafNodes       int
	MaxDepth        int
	AvgDepth        float64
	TotalPrimitives int
	MaxLeafSize     int
}

// Stats returns statistics about the BVH structure
func (bvh *BVH) Stats() BVHStats {
	stats := BVHStats{}
	if len(bvh.Nodes) == 0 {
		return stats
	}

	bvh.collectStats(0, 0, &stats)
	if stats.LeafNodes > 0 {
		stats.AvgDepth /= float64(stats.LeafNodes)
	}
	return stats
}

// collectStats recursively collects statistics about the BVH
func (bvh *BVH) collectStats(index int32, depth int, stats *BVHStats) {
	node := &bvh.Nodes[index]
	stats.TotalNodes++
	stats.MaxDepth = max(stats.MaxDepth, depth)

	if node.IsLeaf() {
		stats.LeafNodes++
		stats.TotalPrimitives += int(node.Count)
		stats.MaxLeafSize = max(stats.MaxLeafSize, int(node.Count))
		stats.AvgDepth += float64(depth)
		return
	}

	bvh.collectStats(node.Left, depth+1, stats)
	bvh.collectStats(node.Right, depth+1, stats)
}
