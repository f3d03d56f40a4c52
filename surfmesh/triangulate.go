package surfmesh

import (
	"math"

	"github.com/aeromesh/cfdmesh/geom"
)

// TriangulateBorders builds an initial constrained triangulation of a
// surface's parametric domain from its closed border-loop node sequence(s)
// plus an optional set of interior seed nodes, grounded on spec section
// 4.6 and original_source/src/cfd_mesh/Surf.cpp's call into the external
// Triangle library (Shewchuk's `p`/`Y`/`a`/`q20` flags: planar straight-line
// graph, no Steiner points on boundary, area bound, 20 degree min angle).
// This hand-rolled pass substitutes an incremental Bowyer-Watson Delaunay
// triangulation of the full point set followed by boundary-edge recovery
// via local edge flips, since no example repo ships a CDT library.
func (m *Mesh) TriangulateBorders(loops [][]*Node, interior []*Node) {
	all := make([]*Node, 0, len(interior))
	for _, loop := range loops {
		all = append(all, loop...)
	}
	all = append(all, interior...)
	if len(all) < 3 {
		return
	}

	faces := bowyerWatson(all)
	for _, f := range faces {
		m.AddFace(f[0], f[1], f[2])
	}

	for _, loop := range loops {
		n := len(loop)
		for i := 0; i < n; i++ {
			a, b := loop[i], loop[(i+1)%n]
			m.recoverEdge(a, b)
		}
	}
	m.markBorders(loops)
	m.RemoveOuterHull(loops)
}

// uvTri is a triangle referenced by its three Nodes, used only during
// Bowyer-Watson construction before Mesh edges exist.
type uvTri [3]*Node

// bowyerWatson runs a standard incremental Delaunay triangulation over the
// nodes' (U,W) positions using a supertriangle that is discarded at the
// end, grounded on the general Bowyer-Watson algorithm (no example repo
// ships this; the teacher's own mesh code (model3d/decimate.go,
// model3d/mesh_hierarchy.go) is entirely hand-rolled incremental/local
// edit logic, which this mirrors in spirit).
func bowyerWatson(nodes []*Node) []uvTri {
	minU, minW := math.Inf(1), math.Inf(1)
	maxU, maxW := math.Inf(-1), math.Inf(-1)
	for _, n := range nodes {
		minU = math.Min(minU, n.UW.U)
		maxU = math.Max(maxU, n.UW.U)
		minW = math.Min(minW, n.UW.W)
		maxW = math.Max(maxW, n.UW.W)
	}
	dx, dy := maxU-minU, maxW-minW
	if dx <= 0 {
		dx = 1
	}
	if dy <= 0 {
		dy = 1
	}
	mid := 20 * math.Max(dx, dy)
	s0 := &Node{UW: geom.UW(minU-dx-1, minW-1)}
	s1 := &Node{UW: geom.UW(minU+dx/2, minW+mid)}
	s2 := &Node{UW: geom.UW(maxU+dx+1, minW-1)}

	tris := []uvTri{{s0, s1, s2}}

	for _, n := range nodes {
		var bad []uvTri
		edgeCount := make(map[[2]*Node]int)
		var edgeOrder [][2]*Node
		for _, t := range tris {
			if inCircumcircle(t, n) {
				bad = append(bad, t)
				for _, e := range triEdges(t) {
					k := edgeKey(e[0], e[1])
					if _, ok := edgeCount[k]; !ok {
						edgeOrder = append(edgeOrder, e)
					}
					edgeCount[k]++
				}
			}
		}

		var keep []uvTri
		for _, t := range tris {
			isBad := false
			for _, b := range bad {
				if b == t {
					isBad = true
					break
				}
			}
			if !isBad {
				keep = append(keep, t)
			}
		}
		tris = keep

		for _, e := range edgeOrder {
			if edgeCount[edgeKey(e[0], e[1])] == 1 {
				tris = append(tris, uvTri{e[0], e[1], n})
			}
		}
	}

	var out []uvTri
	for _, t := range tris {
		if t[0] == s0 || t[0] == s1 || t[0] == s2 ||
			t[1] == s0 || t[1] == s1 || t[1] == s2 ||
			t[2] == s0 || t[2] == s1 || t[2] == s2 {
			continue
		}
		out = append(out, t)
	}
	return out
}

// edgeKey returns an unordered-pair map key for (a,b); the two nodes are
// ordered by their UW coordinates, so the same unordered pair always hashes
// alike. There is no tiebreak for two nodes with identical (U,W).
func edgeKey(a, b *Node) [2]*Node {
	if lessNode(a, b) {
		return [2]*Node{a, b}
	}
	return [2]*Node{b, a}
}

func lessNode(a, b *Node) bool {
	if a.UW.U != b.UW.U {
		return a.UW.U < b.UW.U
	}
	return a.UW.W < b.UW.W
}

func triEdges(t uvTri) [3][2]*Node {
	return [3][2]*Node{{t[0], t[1]}, {t[1], t[2]}, {t[2], t[0]}}
}

// inCircumcircle reports whether n lies inside t's circumcircle.
func inCircumcircle(t uvTri, n *Node) bool {
	ax, ay := t[0].UW.U, t[0].UW.W
	bx, by := t[1].UW.U, t[1].UW.W
	cx, cy := t[2].UW.U, t[2].UW.W
	dx, dy := n.UW.U, n.UW.W

	ax_, ay_ := ax-dx, ay-dy
	bx_, by_ := bx-dx, by-dy
	cx_, cy_ := cx-dx, cy-dy

	det := (ax_*ax_+ay_*ay_)*(bx_*cy_-cx_*by_) -
		(bx_*bx_+by_*by_)*(ax_*cy_-cx_*ay_) +
		(cx_*cx_+cy_*cy_)*(ax_*by_-bx_*ay_)

	// orientation of a,b,c: positive det means CCW and requires positive
	// in-circle test; flip sign if the triangle winds CW.
	orient := (bx-ax)*(cy-ay) - (cx-ax)*(by-ay)
	if orient < 0 {
		det = -det
	}
	return det > 0
}

// recoverEdge ensures the edge (a,b) exists in the mesh, flipping local
// diagonals along the straight line between them when it was lost to
// Delaunay subdivision, grounded on the standard constrained-Delaunay edge
// recovery technique (Shewchuk's `p` flag equivalent).
func (m *Mesh) recoverEdge(a, b *Node) {
	if m.hasEdge(a, b) {
		e := m.edgeBetween(a, b)
		e.Border = true
		return
	}

	for pass := 0; pass < 64; pass++ {
		crossing := m.findCrossingEdge(a, b)
		if crossing == nil {
			break
		}
		if !m.flipEdge(crossing) {
			break
		}
		if m.hasEdge(a, b) {
			break
		}
	}
	if e := m.edgeBetween(a, b); e != nil {
		e.Border = true
	}
}

func (m *Mesh) hasEdge(a, b *Node) bool { return m.edgeBetween(a, b) != nil }

func (m *Mesh) edgeBetween(a, b *Node) *Edge {
	for _, e := range a.Edges {
		if e.Other(a) == b {
			return e
		}
	}
	return nil
}

// findCrossingEdge locates an interior (two-face) edge whose segment
// properly crosses the line a-b in (U,W), preferring edges nearest a.
func (m *Mesh) findCrossingEdge(a, b *Node) *Edge {
	var cand *Edge
	bestT := math.Inf(1)
	for _, e := range m.Edges {
		if e.F0 == nil || e.F1 == nil {
			continue
		}
		if e.N0 == a || e.N1 == a || e.N0 == b || e.N1 == b {
			continue
		}
		if !segmentsCross(a.UW, b.UW, e.N0.UW, e.N1.UW) {
			continue
		}
		t := a.UW.Dist(e.N0.UW)
		if t < bestT {
			bestT = t
			cand = e
		}
	}
	return cand
}

func segmentsCross(p0, p1, q0, q1 geom.Coord2D) bool {
	d1 := cross2(p1.Sub(p0), q0.Sub(p0))
	d2 := cross2(p1.Sub(p0), q1.Sub(p0))
	d3 := cross2(q1.Sub(q0), p0.Sub(q0))
	d4 := cross2(q1.Sub(q0), p1.Sub(q0))
	return ((d1 > 0) != (d2 > 0)) && ((d3 > 0) != (d4 > 0))
}

func cross2(a, b geom.Coord2D) float64 { return a.U*b.W - a.W*b.U }

// flipEdge replaces e's two adjoining faces with the diagonal-flipped pair
// when e is an interior edge of a strictly convex quad, returning whether
// it flipped.
func (m *Mesh) flipEdge(e *Edge) bool {
	f0, f1 := e.F0, e.F1
	if f0 == nil || f1 == nil {
		return false
	}
	a, b := e.N0, e.N1
	c := f0.ThirdNode(a, b)
	d := f1.ThirdNode(a, b)
	if c == nil || d == nil {
		return false
	}
	if !segmentsCross(a.UW, b.UW, c.UW, d.UW) {
		return false
	}

	m.RemoveFace(f0)
	m.RemoveFace(f1)
	e.dead = true
	removeEdgeFromNode(a, e)
	removeEdgeFromNode(b, e)

	m.AddFace(c, d, a)
	m.AddFace(d, c, b)
	return true
}

func removeEdgeFromNode(n *Node, e *Edge) {
	out := n.Edges[:0]
	for _, ne := range n.Edges {
		if ne != e {
			out = append(out, ne)
		}
	}
	n.Edges = out
}

// markBorders flags every mesh edge running along one of the supplied
// border loops.
func (m *Mesh) markBorders(loops [][]*Node) {
	for _, loop := range loops {
		n := len(loop)
		for i := 0; i < n; i++ {
			a, b := loop[i], loop[(i+1)%n]
			if e := m.edgeBetween(a, b); e != nil {
				e.Border = true
			}
		}
	}
}

// RemoveOuterHull discards faces lying outside the supplied border loops'
// union, identified as faces whose centroid fails a ray-parity containment
// test against every loop, grounded on spec section 4.8's ray-parity
// classification idiom reused here for the simpler 2D case.
func (m *Mesh) RemoveOuterHull(loops [][]*Node) {
	if len(loops) == 0 {
		return
	}
	var keep []*Face
	for _, f := range m.Faces {
		c := f.CentroidUW()
		inside := false
		for _, loop := range loops {
			if pointInLoop(c, loop) {
				inside = true
				break
			}
		}
		if inside {
			keep = append(keep, f)
		} else {
			m.RemoveFace(f)
		}
	}
	m.Faces = keep
	m.compact()
}

func pointInLoop(p geom.Coord2D, loop []*Node) bool {
	in := false
	n := len(loop)
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		pi, pj := loop[i].UW, loop[j].UW
		if (pi.W > p.W) != (pj.W > p.W) &&
			p.U < (pj.U-pi.U)*(p.W-pi.W)/(pj.W-pi.W)+pi.U {
			in = !in
		}
	}
	return in
}
