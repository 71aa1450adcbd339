// SPDX-License-Identifier: GPL-2.0-or-later

package bsp

import (
	"log/slog"

	"lidefer/math/vec"

	"github.com/pkg/errors"
)

const (
	// MaxLeafTriangles stops the recursion once a node holds this many
	// triangles or fewer.
	MaxLeafTriangles = 8
	// MaxDepth bounds the recursion independent of the triangle layout.
	MaxDepth = 32
	// splitEpsilon is the slab around a split plane that counts as on the
	// plane.
	splitEpsilon = 0.01
	// maxCandidates bounds the number of split planes scored per node.
	maxCandidates = 32
	// splitCost weighs a duplicated triangle against tree imbalance.
	splitCost = 8
	noChild   = -1
)

// node is an element of the tree arena. Interior nodes own two children by
// index, leaves own the range [first, first+count) of Tree.leafTris.
type node struct {
	plane    Plane
	children [2]int32
	first    int32
	count    int32
}

func (n *node) leaf() bool {
	return n.children[0] == noChild
}

type Stats struct {
	Nodes      int
	Leafs      int
	Triangles  int
	Skipped    int
	Duplicates int
	Depth      int
	// Mins and Maxs bound all kept triangles.
	Mins, Maxs vec.Vec3
}

// Tree is a binary space partition over a triangle soup. It is immutable after
// Build and can be queried from any goroutine.
type Tree struct {
	tris     []Triangle
	nodes    []node
	leafTris []int32
	stats    Stats

	maxLeaf  int
	maxDepth int
}

type Option func(*Tree)

func WithMaxLeafTriangles(n int) Option {
	return func(t *Tree) {
		if n > 0 {
			t.maxLeaf = n
		}
	}
}

func WithMaxDepth(d int) Option {
	return func(t *Tree) {
		if d >= 0 {
			t.maxDepth = d
		}
	}
}

// Build creates the tree from indexed triangles. Zero area triangles are
// dropped. Triangles crossing a split plane are referenced from both
// children.
func Build(vertices []vec.Vec3, indices []uint32, opts ...Option) (*Tree, error) {
	if len(indices)%3 != 0 {
		return nil, errors.Errorf("bsp: index count %d is not a multiple of 3", len(indices))
	}
	t := &Tree{
		maxLeaf:  MaxLeafTriangles,
		maxDepth: MaxDepth,
	}
	for _, o := range opts {
		o(t)
	}
	t.tris = make([]Triangle, 0, len(indices)/3)
	for i := 0; i < len(indices); i += 3 {
		for _, idx := range indices[i : i+3] {
			if int(idx) >= len(vertices) {
				return nil, errors.Errorf("bsp: triangle %d references vertex %d of %d", i/3, idx, len(vertices))
			}
		}
		tri, ok := newTriangle(vertices[indices[i]], vertices[indices[i+1]], vertices[indices[i+2]])
		if !ok {
			t.stats.Skipped++
			continue
		}
		if len(t.tris) == 0 {
			t.stats.Mins, t.stats.Maxs = tri.V[0], tri.V[0]
		}
		for _, v := range tri.V {
			t.stats.Mins = vec.Min(t.stats.Mins, v)
			t.stats.Maxs = vec.Max(t.stats.Maxs, v)
		}
		t.tris = append(t.tris, tri)
	}
	if t.stats.Skipped > 0 {
		slog.Warn("bsp: skipped degenerate triangles", "count", t.stats.Skipped)
	}
	t.stats.Triangles = len(t.tris)

	all := make([]int32, len(t.tris))
	for i := range all {
		all[i] = int32(i)
	}
	t.build(all, 0)
	t.stats.Nodes = len(t.nodes)
	slog.Debug("bsp: built", "nodes", t.stats.Nodes, "leafs", t.stats.Leafs,
		"triangles", t.stats.Triangles, "duplicates", t.stats.Duplicates, "depth", t.stats.Depth,
		"mins", t.stats.Mins, "maxs", t.stats.Maxs)
	return t, nil
}

func (t *Tree) Stats() Stats {
	return t.stats
}

// Triangle returns the triangle with the given index as reported by a Hit.
func (t *Tree) Triangle(i int) Triangle {
	return t.tris[i]
}

func (t *Tree) TriangleCount() int {
	return len(t.tris)
}

func (t *Tree) newNode() int32 {
	t.nodes = append(t.nodes, node{children: [2]int32{noChild, noChild}})
	return int32(len(t.nodes) - 1)
}

func (t *Tree) makeLeaf(n int32, tris []int32) int32 {
	t.nodes[n].first = int32(len(t.leafTris))
	t.nodes[n].count = int32(len(tris))
	t.leafTris = append(t.leafTris, tris...)
	t.stats.Leafs++
	return n
}

func (t *Tree) build(tris []int32, depth int) int32 {
	n := t.newNode()
	if depth > t.stats.Depth {
		t.stats.Depth = depth
	}
	if len(tris) <= t.maxLeaf || depth >= t.maxDepth {
		return t.makeLeaf(n, tris)
	}
	plane, ok := t.chooseSplit(tris)
	if !ok {
		return t.makeLeaf(n, tris)
	}
	var front, back []int32
	for _, i := range tris {
		switch t.tris[i].classify(&plane) {
		case sideFront:
			front = append(front, i)
		case sideBack:
			back = append(back, i)
		case sideSpan:
			front = append(front, i)
			back = append(back, i)
			t.stats.Duplicates++
		}
	}
	t.nodes[n].plane = plane
	f := t.build(front, depth+1)
	b := t.build(back, depth+1)
	// t.nodes may have been reallocated by the recursion
	t.nodes[n].children = [2]int32{f, b}
	return n
}

// chooseSplit scores the planes of a sample of the triangles and returns the
// best one that actually separates the set.
func (t *Tree) chooseSplit(tris []int32) (Plane, bool) {
	step := 1
	if len(tris) > maxCandidates {
		step = len(tris) / maxCandidates
	}
	best := Plane{}
	bestScore := -1
	for c := 0; c < len(tris); c += step {
		p := t.tris[tris[c]].Plane
		front, back, span := 0, 0, 0
		for _, i := range tris {
			switch t.tris[i].classify(&p) {
			case sideFront:
				front++
			case sideBack:
				back++
			case sideSpan:
				span++
			}
		}
		if front+span == len(tris) || back+span == len(tris) {
			continue
		}
		score := front - back
		if score < 0 {
			score = -score
		}
		score += splitCost * span
		if bestScore < 0 || score < bestScore {
			best, bestScore = p, score
		}
	}
	return best, bestScore >= 0
}
