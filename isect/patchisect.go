package isect

import (
	"math"

	"github.com/aeromesh/cfdmesh/bezier"
	"github.com/aeromesh/cfdmesh/geom"
)

// maxPatchSplitDepth bounds the recursive subdivision IntersectPatchTrees
// performs when two overlapping patches never become planar within
// relTol; a pathological input (near-tangent, highly curved surfaces)
// would otherwise recurse without converging.
const maxPatchSplitDepth = 14

// IntersectPatchTrees finds every intersection segment between surface a's
// and surface b's patch trees, grounded on spec section 4.3: recursively
// subdivide overlapping patch pairs until both are planar within relTol,
// then intersect the pair as two coplanar triangles yielding at most one
// line segment, with both endpoints projected back to (U,W) on each
// surface via SurfaceRef.ClosestUW. original_source/src/cfd_mesh/
// SurfPatch.cpp's intersect() body was not retrievable from the reference
// pack (only its call site and the sibling IntersectLineSeg routine were),
// so the leaf-pair test here is authored directly from IntersectLineSeg's
// visible planar-triangle-pair idiom: each patch reduces to its bilinear
// corner plane, the two planes' intersection line is clipped against both
// patches' 3D bounding boxes.
func IntersectPatchTrees(a SurfaceRef, patchesA []*bezier.SurfPatch, b SurfaceRef, patchesB []*bezier.SurfPatch, relTol float64) []*ISeg {
	var out []*ISeg
	for _, pa := range patchesA {
		for _, pb := range patchesB {
			if !pa.BndBox().Overlaps(pb.BndBox()) {
				continue
			}
			intersectPatchPair(a, pa, b, pb, relTol, 0, &out)
		}
	}
	return out
}

func intersectPatchPair(a SurfaceRef, pa *bezier.SurfPatch, b SurfaceRef, pb *bezier.SurfPatch, relTol float64, depth int, out *[]*ISeg) {
	if !pa.BndBox().Overlaps(pb.BndBox()) {
		return
	}

	planarA := pa.TestPlanarRel(relTol)
	planarB := pb.TestPlanarRel(relTol)

	if (planarA && planarB) || depth >= maxPatchSplitDepth {
		if seg := leafPatchIntersect(a, pa, b, pb); seg != nil {
			*out = append(*out, seg)
		}
		return
	}

	if !planarA {
		c00, c10, c01, c11 := pa.SplitPatch()
		for _, ca := range []*bezier.SurfPatch{c00, c10, c01, c11} {
			intersectPatchPair(a, ca, b, pb, relTol, depth+1, out)
		}
		return
	}

	c00, c10, c01, c11 := pb.SplitPatch()
	for _, cb := range []*bezier.SurfPatch{c00, c10, c01, c11} {
		intersectPatchPair(a, pa, b, cb, relTol, depth+1, out)
	}
}

// leafPatchIntersect treats two mutually planar patches as their bilinear
// corner planes, intersects the planes into a line, clips that line to
// both patches' 3D extents, and returns the resulting segment (or nil if
// the planes are parallel or the clip interval is empty/degenerate).
func leafPatchIntersect(a SurfaceRef, pa *bezier.SurfPatch, b SurfaceRef, pb *bezier.SurfPatch) *ISeg {
	pointA, normalA := patchPlane(pa)
	pointB, normalB := patchPlane(pb)

	dir := normalA.Cross(normalB)
	if dir.Norm() < 1e-12 {
		return nil
	}
	dir = dir.Normalize()

	linePt, ok := planeIntersectLinePoint(pointA, normalA, pointB, normalB, dir)
	if !ok {
		return nil
	}

	t0a, t1a, ok := clipLineToBox(linePt, dir, pa.BndBox())
	if !ok {
		return nil
	}
	t0b, t1b, ok := clipLineToBox(linePt, dir, pb.BndBox())
	if !ok {
		return nil
	}

	t0 := math.Max(t0a, t0b)
	t1 := math.Min(t1a, t1b)
	if t1-t0 < 1e-9 {
		return nil
	}

	p0 := linePt.Add(dir.Scale(t0))
	p1 := linePt.Add(dir.Scale(t1))

	uwA0, _ := a.ClosestUW(p0, pa.FindClosestUWPlanarApprox(p0), true)
	uwB0, _ := b.ClosestUW(p0, pb.FindClosestUWPlanarApprox(p0), true)
	uwA1, _ := a.ClosestUW(p1, pa.FindClosestUWPlanarApprox(p1), true)
	uwB1, _ := b.ClosestUW(p1, pb.FindClosestUWPlanarApprox(p1), true)

	ip0 := NewIPnt(p0, Puw{Surf: a, UW: uwA0}, Puw{Surf: b, UW: uwB0})
	ip1 := NewIPnt(p1, Puw{Surf: a, UW: uwA1}, Puw{Surf: b, UW: uwB1})
	return NewISeg(a, b, ip0, ip1)
}

// patchPlane returns a representative point and unit normal for a patch's
// bilinear corner approximation.
func patchPlane(p *bezier.SurfPatch) (geom.Coord3D, geom.Coord3D) {
	t0, _ := p.Triangles()
	e1 := t0[1].Sub(t0[0])
	e2 := t0[2].Sub(t0[0])
	n := e1.Cross(e2).Normalize()
	return t0[0], n
}

// planeIntersectLinePoint returns one point on the line of intersection of
// two planes whose cross-product direction is dir, solving the 2x2 system
// for the offsets along normalA/normalB from pointA.
func planeIntersectLinePoint(pointA, normalA, pointB, normalB, dir geom.Coord3D) (geom.Coord3D, bool) {
	// Find the axis along which dir has the largest component and solve
	// the plane equations for the other two coordinates there.
	ax := [3]float64{math.Abs(dir.X), math.Abs(dir.Y), math.Abs(dir.Z)}
	axis := 0
	if ax[1] > ax[axis] {
		axis = 1
	}
	if ax[2] > ax[axis] {
		axis = 2
	}

	dA := normalA.Dot(pointA)
	dB := normalB.Dot(pointB)

	var m [2][2]float64
	var rhs [2]float64
	switch axis {
	case 0:
		m = [2][2]float64{{normalA.Y, normalA.Z}, {normalB.Y, normalB.Z}}
		rhs = [2]float64{dA, dB}
	case 1:
		m = [2][2]float64{{normalA.X, normalA.Z}, {normalB.X, normalB.Z}}
		rhs = [2]float64{dA, dB}
	default:
		m = [2][2]float64{{normalA.X, normalA.Y}, {normalB.X, normalB.Y}}
		rhs = [2]float64{dA, dB}
	}

	det := m[0][0]*m[1][1] - m[0][1]*m[1][0]
	if math.Abs(det) < 1e-15 {
		return geom.Coord3D{}, false
	}
	x := (rhs[0]*m[1][1] - rhs[1]*m[0][1]) / det
	y := (m[0][0]*rhs[1] - m[1][0]*rhs[0]) / det

	switch axis {
	case 0:
		return geom.XYZ(0, x, y), true
	case 1:
		return geom.XYZ(x, 0, y), true
	default:
		return geom.XYZ(x, y, 0), true
	}
}

// clipLineToBox clips the infinite line {pt + t*dir} against box using the
// standard slab method, returning the surviving [t0,t1] range.
func clipLineToBox(pt, dir geom.Coord3D, box bezier.Box3) (float64, float64, bool) {
	t0, t1 := math.Inf(-1), math.Inf(1)

	axes := [3]struct{ p, d, lo, hi float64 }{
		{pt.X, dir.X, box.Min.X, box.Max.X},
		{pt.Y, dir.Y, box.Min.Y, box.Max.Y},
		{pt.Z, dir.Z, box.Min.Z, box.Max.Z},
	}
	for _, ax := range axes {
		if math.Abs(ax.d) < 1e-15 {
			if ax.p < ax.lo-1e-9 || ax.p > ax.hi+1e-9 {
				return 0, 0, false
			}
			continue
		}
		ta := (ax.lo - ax.p) / ax.d
		tb := (ax.hi - ax.p) / ax.d
		if ta > tb {
			ta, tb = tb, ta
		}
		if ta > t0 {
			t0 = ta
		}
		if tb < t1 {
			t1 = tb
		}
	}
	if t0 > t1 {
		return 0, 0, false
	}
	return t0, t1, true
}
