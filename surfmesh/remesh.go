package surfmesh

import (
	"math"
	"sort"

	"github.com/aeromesh/cfdmesh/geom"
)

// RemeshPasses is the fixed iteration count for Remesh's split/collapse/
// swap/smooth loop, per spec section 4.7.
const RemeshPasses = 10

// splitRatio and collapseRatio bound when an edge's current length versus
// its target length triggers a split or collapse, grounded on
// original_source/src/cfd_mesh/Mesh.cpp's remesh loop thresholds.
const (
	splitRatio    = 1.5
	collapseRatio = 0.6
	swapAngleGain = 1e-9

	// swapMaxDihedral bounds how far a swap may rotate either new face's
	// normal away from either old face's normal, per spec section 4.7
	// step 3.
	swapMaxDihedral = 0.25 * math.Pi / 4

	// smoothStep and smoothSteps implement spec section 4.7 step 4's
	// twice/step-0.1 relaxation move.
	smoothStep  = 0.1
	smoothSteps = 2

	// smoothMaxNormalChange is the face-normal-change guard spec section
	// 4.7 step 4 requires before a smoothing move is accepted.
	smoothMaxNormalChange = math.Pi / 8
)

// Remesh runs the fixed 10-pass split/collapse/swap/smooth loop over the
// mesh, pulling target edge lengths from targetLen and re-projecting any
// moved or inserted node through m.ClosestUW, per spec section 4.7.
func (m *Mesh) Remesh(targetLen func(u, w float64) float64) {
	for pass := 0; pass < RemeshPasses; pass++ {
		m.splitPass(targetLen)
		m.collapsePass(targetLen)
		m.swapPass()
		m.smoothPass(targetLen)
		m.compact()
	}
}

// splitPass bisects every edge whose length exceeds splitRatio times its
// local target length, inserting the new node at the 3D midpoint
// re-projected onto the surface.
func (m *Mesh) splitPass(targetLen func(u, w float64) float64) {
	candidates := append([]*Edge(nil), m.Edges...)
	for _, e := range candidates {
		if e.dead || e.F0 == nil && e.F1 == nil {
			continue
		}
		mid := e.N0.UW
		mid.U = (e.N0.UW.U + e.N1.UW.U) / 2
		mid.W = (e.N0.UW.W + e.N1.UW.W) / 2
		tl := targetLen(mid.U, mid.W)
		if tl <= 0 || e.Length() <= splitRatio*tl {
			continue
		}
		m.splitEdge(e)
	}
}

// splitEdge replaces each of e's one or two adjoining faces with two new
// faces (four in all for an interior edge), inserting a new node at e's
// midpoint.
func (m *Mesh) splitEdge(e *Edge) {
	a, b := e.N0, e.N1
	pos := a.Pos.Add(b.Pos).Scale(0.5)
	uw := a.UW
	uw.U = (a.UW.U + b.UW.U) / 2
	uw.W = (a.UW.W + b.UW.W) / 2
	if m.ClosestUW != nil {
		projected, _ := m.ClosestUW(pos, uw, true)
		uw = projected
	}
	if m.EvalUW != nil {
		pos = m.EvalUW(uw.U, uw.W)
	}
	newFixed := a.Fixed && b.Fixed && e.Border
	n := m.AddNode(pos, uw, newFixed)

	faces := []*Face{e.F0, e.F1}
	border := e.Border
	ridge := e.Ridge
	e.dead = true
	removeEdgeFromNode(a, e)
	removeEdgeFromNode(b, e)

	for _, f := range faces {
		if f == nil {
			continue
		}
		c := f.ThirdNode(a, b)
		m.RemoveFace(f)
		f1 := m.AddFace(a, n, c)
		f2 := m.AddFace(n, b, c)
		if border {
			m.edgeBetween(a, n).Border = true
			m.edgeBetween(n, b).Border = true
		}
		if ridge {
			m.edgeBetween(a, n).Ridge = true
			m.edgeBetween(n, b).Ridge = true
		}
		_, _ = f1, f2
	}
}

// collapsePass merges an edge's two endpoints whenever the edge is shorter
// than collapseRatio times its target length and the collapse is
// topologically valid, grounded on model3d/decimate.go's
// attemptRemoveVertex validity-check-before-committing idiom.
func (m *Mesh) collapsePass(targetLen func(u, w float64) float64) {
	candidates := append([]*Edge(nil), m.Edges...)
	for _, e := range candidates {
		if e.dead || e.Border || e.Ridge {
			continue
		}
		mid := e.N0.UW
		mid.U = (e.N0.UW.U + e.N1.UW.U) / 2
		mid.W = (e.N0.UW.W + e.N1.UW.W) / 2
		tl := targetLen(mid.U, mid.W)
		if tl <= 0 || e.Length() >= collapseRatio*tl {
			continue
		}
		m.tryCollapse(e)
	}
}

// tryCollapse attempts to collapse e.N1 into e.N0, rejecting the move when
// e lacks either adjoining face, or when it would invert a triangle, remove
// a fixed node, or create a non-manifold edge (a node other than the third
// nodes of e's own two faces already adjacent to both endpoints).
func (m *Mesh) tryCollapse(e *Edge) bool {
	if e.F0 == nil || e.F1 == nil {
		return false
	}
	a, b := e.N0, e.N1
	if a.Fixed && b.Fixed {
		return false
	}
	survivor, victim := a, b
	if b.Fixed {
		survivor, victim = b, a
	}

	c0, c1 := e.F0.ThirdNode(a, b), e.F1.ThirdNode(a, b)
	commonThirds := 0
	for _, f := range victim.faces() {
		if f == e.F0 || f == e.F1 {
			continue
		}
		for _, o := range f.Nodes {
			if o != victim && o != c0 && o != c1 && m.edgeBetween(survivor, o) != nil {
				commonThirds++
			}
		}
	}
	if commonThirds > 0 {
		return false
	}

	affected := victim.faces()
	for _, f := range affected {
		if f == e.F0 || f == e.F1 {
			continue
		}
		test := *f
		for i, n := range test.Nodes {
			if n == victim {
				test.Nodes[i] = survivor
			}
		}
		if test.Area() < 1e-14 {
			return false
		}
		if faceNormalFlips(f, &test) {
			return false
		}
	}

	for _, f := range affected {
		if f == e.F0 || f == e.F1 {
			continue
		}
		m.RemoveFace(f)
		var others [2]*Node
		oi := 0
		for _, n := range f.Nodes {
			if n != victim {
				others[oi] = n
				oi++
			}
		}
		m.AddFace(survivor, others[0], others[1])
	}
	m.RemoveFace(e.F0)
	m.RemoveFace(e.F1)
	e.dead = true
	victim.dead = true
	return true
}

func faceNormalFlips(orig, test *Face) bool {
	return orig.Normal().Dot(test.Normal()) < 0
}

// faces returns every live face touching n.
func (n *Node) faces() []*Face {
	seen := map[*Face]bool{}
	var out []*Face
	for _, e := range n.Edges {
		for _, f := range []*Face{e.F0, e.F1} {
			if f != nil && !f.dead && !seen[f] {
				seen[f] = true
				out = append(out, f)
			}
		}
	}
	return out
}

// swapPass flips every interior edge whose diagonal swap would improve the
// minimum angle of its two adjoining triangles (Delaunay-style local
// optimization), grounded on the standard mesh-quality edge-swap pass.
func (m *Mesh) swapPass() {
	candidates := append([]*Edge(nil), m.Edges...)
	for _, e := range candidates {
		if e.dead || e.Border || e.Ridge || e.F0 == nil || e.F1 == nil {
			continue
		}
		if m.swapImproves(e) {
			m.flipEdge(e)
		}
	}
}

// swapImproves reports whether flipping e both raises the minimum angle of
// its two adjoining triangles and keeps the swap's dihedral change (the
// angle between each new face's normal and either old face's normal) under
// swapMaxDihedral, per spec section 4.7 step 3.
func (m *Mesh) swapImproves(e *Edge) bool {
	a, b := e.N0, e.N1
	c := e.F0.ThirdNode(a, b)
	d := e.F1.ThirdNode(a, b)
	if c == nil || d == nil {
		return false
	}
	before := math.Min(minAngle(a, b, c), minAngle(a, b, d))
	after := math.Min(minAngle(c, d, a), minAngle(c, d, b))
	if after <= before+swapAngleGain {
		return false
	}

	oldN0, oldN1 := e.F0.Normal(), e.F1.Normal()
	newN0 := triNormalNodes(c, d, a)
	newN1 := triNormalNodes(d, c, b)
	maxDihedral := math.Max(
		math.Max(normalAngle(oldN0, newN0), normalAngle(oldN0, newN1)),
		math.Max(normalAngle(oldN1, newN0), normalAngle(oldN1, newN1)),
	)
	return maxDihedral < swapMaxDihedral
}

// triNormalNodes computes a triangle's unit normal in the same (b-a)x(c-a)
// convention as Face.Normal, without allocating a Face.
func triNormalNodes(a, b, c *Node) geom.Coord3D {
	e1 := b.Pos.Sub(a.Pos)
	e2 := c.Pos.Sub(a.Pos)
	return e1.Cross(e2).Normalize()
}

func normalAngle(a, b geom.Coord3D) float64 {
	d := a.Dot(b)
	if d > 1 {
		d = 1
	}
	if d < -1 {
		d = -1
	}
	return math.Acos(d)
}

func minAngle(a, b, c *Node) float64 {
	angles := []float64{
		angleAt(a, b, c),
		angleAt(b, c, a),
		angleAt(c, a, b),
	}
	sort.Float64s(angles)
	return angles[0]
}

func angleAt(at, p1, p2 *Node) float64 {
	v1 := p1.Pos.Sub(at.Pos)
	v2 := p2.Pos.Sub(at.Pos)
	d := v1.Dot(v2) / (v1.Norm() * v2.Norm())
	if d > 1 {
		d = 1
	}
	if d < -1 {
		d = -1
	}
	return math.Acos(d)
}

// smoothPass relaxes every non-fixed interior node toward the area-weighted
// centroid of its neighbors in (U,W), moving it in smoothSteps increments
// of smoothStep and re-projecting (UW and the recomputed 3D position)
// through ClosestUW/EvalUW after each increment, grounded on Laplacian
// smoothing as used by original_source/src/cfd_mesh/Mesh.cpp's remesh
// loop. A step whose resulting face-normal change exceeds
// smoothMaxNormalChange is rejected and the node reverts to its
// pre-step state.
func (m *Mesh) smoothPass(targetLen func(u, w float64) float64) {
	for _, n := range m.Nodes {
		if n.dead || n.Fixed || len(n.Edges) == 0 {
			continue
		}
		if edgeTouchesBorder(n) {
			continue
		}
		targetUW, ok := areaWeightedCentroidUW(n)
		if !ok {
			continue
		}
		m.stepNodeToward(n, targetUW)
	}
}

// areaWeightedCentroidUW averages n's neighbors' (U,W) weighted by the
// combined area of the faces adjoining each connecting edge, per spec
// section 4.7 step 4's area-weighted move.
func areaWeightedCentroidUW(n *Node) (geom.Coord2D, bool) {
	var su, sw, wsum float64
	for _, e := range n.Edges {
		o := e.Other(n)
		w := edgeFaceAreaWeight(e)
		su += o.UW.U * w
		sw += o.UW.W * w
		wsum += w
	}
	if wsum <= 0 {
		return geom.Coord2D{}, false
	}
	return geom.UW(su/wsum, sw/wsum), true
}

func edgeFaceAreaWeight(e *Edge) float64 {
	var a float64
	if e.F0 != nil {
		a += e.F0.Area()
	}
	if e.F1 != nil {
		a += e.F1.Area()
	}
	if a <= 0 {
		return 1
	}
	return a
}

// stepNodeToward moves n toward targetUW in smoothSteps fractional steps of
// smoothStep, reprojecting through ClosestUW/EvalUW and rejecting (reverting)
// any step whose face-normal change exceeds smoothMaxNormalChange.
func (m *Mesh) stepNodeToward(n *Node, targetUW geom.Coord2D) {
	for i := 0; i < smoothSteps; i++ {
		before := faceNormalsOf(n)
		origUW, origPos := n.UW, n.Pos

		candUW := geom.UW(
			n.UW.U+(targetUW.U-n.UW.U)*smoothStep,
			n.UW.W+(targetUW.W-n.UW.W)*smoothStep,
		)
		if m.ClosestUW != nil {
			projected, _ := m.ClosestUW(n.Pos, candUW, true)
			candUW = projected
		}
		candPos := n.Pos
		if m.EvalUW != nil {
			candPos = m.EvalUW(candUW.U, candUW.W)
		}

		n.UW, n.Pos = candUW, candPos
		if maxNormalChange(before, faceNormalsOf(n)) >= smoothMaxNormalChange {
			n.UW, n.Pos = origUW, origPos
			return
		}
	}
}

// faceNormalsOf returns the normals of every live face touching n, in
// n.faces() order, used to measure a candidate move's dihedral impact.
func faceNormalsOf(n *Node) []geom.Coord3D {
	faces := n.faces()
	out := make([]geom.Coord3D, len(faces))
	for i, f := range faces {
		out[i] = f.Normal()
	}
	return out
}

func maxNormalChange(before, after []geom.Coord3D) float64 {
	if len(before) != len(after) {
		return 0
	}
	var max float64
	for i := range before {
		if a := normalAngle(before[i], after[i]); a > max {
			max = a
		}
	}
	return max
}

func edgeTouchesBorder(n *Node) bool {
	for _, e := range n.Edges {
		if e.Border || e.Ridge {
			return true
		}
	}
	return false
}

// RemoveRevTris discards any face whose winding disagrees with the
// majority orientation of its neighbors (a reversed triangle produced by a
// degenerate split/collapse sequence), grounded on spec section 4.7's
// RemoveRevTris pass name and model3d/decimate.go's post-edit sanity
// sweep idiom.
func (m *Mesh) RemoveRevTris() int {
	removed := 0
	for _, f := range append([]*Face(nil), m.Faces...) {
		if f.dead {
			continue
		}
		agree, disagree := 0, 0
		for _, e := range f.Edges {
			other := e.OtherFace(f)
			if other == nil {
				continue
			}
			if f.Normal().Dot(other.Normal()) >= 0 {
				agree++
			} else {
				disagree++
			}
		}
		if disagree > agree && disagree > 0 {
			m.RemoveFace(f)
			removed++
		}
	}
	if removed > 0 {
		m.compact()
	}
	return removed
}
