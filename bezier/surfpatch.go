package bezier

import (
	"math"

	"github.com/aeromesh/cfdmesh/geom"
)

// SurfPatch is one node of the recursive quad-tree used for surface-surface
// intersection, grounded on original_source/src/cfd_mesh/SurfPatch.{h,cpp}.
// A leaf patch is tested for planarity before being treated as two flat
// triangles; a non-planar patch is subdivided into four children via de
// Casteljau splitting at its parametric midpoint.
type SurfPatch struct {
	Ctrl [4][4]geom.Coord3D

	UMin, UMax, WMin, WMax float64
	SubDepth               int

	box Box3

	checkedPlanar bool
	wasPlanar     bool
}

// Box3 is a minimal axis-aligned bounding box kept by the patch tree; isect
// reads it directly when clipping a patch pair's intersection segment.
type Box3 struct {
	Min, Max geom.Coord3D
}

func (b Box3) DiagDist() float64 { return b.Max.Dist(b.Min) }

func (b Box3) Overlaps(o Box3) bool {
	return b.Min.X <= o.Max.X && b.Max.X >= o.Min.X &&
		b.Min.Y <= o.Max.Y && b.Max.Y >= o.Min.Y &&
		b.Min.Z <= o.Max.Z && b.Max.Z >= o.Min.Z
}

// NewSurfPatch builds a leaf patch directly from a 4x4 bicubic control net
// spanning the given parametric rectangle.
func NewSurfPatch(ctrl [4][4]geom.Coord3D, uMin, uMax, wMin, wMax float64, depth int) *SurfPatch {
	p := &SurfPatch{
		Ctrl:     ctrl,
		UMin:     uMin,
		UMax:     uMax,
		WMin:     wMin,
		WMax:     wMax,
		SubDepth: depth,
	}
	p.computeBndBox()
	return p
}

// PatchesFromSurfCore builds the flat patch tree (one leaf per non-degenerate
// knot span) used as the starting point for surface-surface intersection,
// the Go counterpart of Surf::BuildPatches iterating SurfCore::GetPatch.
func PatchesFromSurfCore(s *SurfCore) []*SurfPatch {
	var out []*SurfPatch
	du, dw := s.localDomain()
	for i := 0; i < s.NumUPatches; i++ {
		for j := 0; j < s.NumWPatches; j++ {
			var ctrl [4][4]geom.Coord3D
			for a := 0; a < 4; a++ {
				for b := 0; b < 4; b++ {
					ctrl[a][b] = s.Ctrl[3*i+a][3*j+b]
				}
			}
			uMin := s.U0 + float64(i)*du
			wMin := s.W0 + float64(j)*dw
			out = append(out, NewSurfPatch(ctrl, uMin, uMin+du, wMin, wMin+dw, 0))
		}
	}
	return out
}

func (p *SurfPatch) computeBndBox() {
	min := p.Ctrl[0][0]
	max := p.Ctrl[0][0]
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			c := p.Ctrl[i][j]
			min = min.Min(c)
			max = max.Max(c)
		}
	}
	p.box = Box3{Min: min, Max: max}
}

func (p *SurfPatch) BndBox() Box3 { return p.box }

// SplitPatch performs de Casteljau subdivision at the parametric midpoint,
// returning the four children in (u,w) quadrant order: (lo,lo), (hi,lo),
// (lo,hi), (hi,hi).
func (p *SurfPatch) SplitPatch() (bp00, bp10, bp01, bp11 *SurfPatch) {
	lowV, hiV := splitNetV(p.Ctrl)
	lo00, lo10 := splitNetU(lowV)
	hi01, hi11 := splitNetU(hiV)

	uMid := 0.5 * (p.UMin + p.UMax)
	wMid := 0.5 * (p.WMin + p.WMax)
	d := p.SubDepth + 1

	bp00 = NewSurfPatch(lo00, p.UMin, uMid, p.WMin, wMid, d)
	bp10 = NewSurfPatch(lo10, uMid, p.UMax, p.WMin, wMid, d)
	bp01 = NewSurfPatch(hi01, p.UMin, uMid, wMid, p.WMax, d)
	bp11 = NewSurfPatch(hi11, uMid, p.UMax, wMid, p.WMax, d)
	return
}

// splitNetV splits a 4x4 net in half along its second index (w/v direction),
// de Casteljau subdivision applied to each of the 4 control-point columns.
func splitNetV(ctrl [4][4]geom.Coord3D) (lo, hi [4][4]geom.Coord3D) {
	for i := 0; i < 4; i++ {
		row := []geom.Coord3D{ctrl[i][0], ctrl[i][1], ctrl[i][2], ctrl[i][3]}
		l, r := deCasteljauSplit(row)
		for j := 0; j < 4; j++ {
			lo[i][j] = l[j]
			hi[i][j] = r[j]
		}
	}
	return
}

// splitNetU splits a 4x4 net in half along its first index (u direction).
func splitNetU(ctrl [4][4]geom.Coord3D) (lo, hi [4][4]geom.Coord3D) {
	for j := 0; j < 4; j++ {
		col := []geom.Coord3D{ctrl[0][j], ctrl[1][j], ctrl[2][j], ctrl[3][j]}
		l, r := deCasteljauSplit(col)
		for i := 0; i < 4; i++ {
			lo[i][j] = l[i]
			hi[i][j] = r[i]
		}
	}
	return
}

// deCasteljauSplit subdivides a cubic Bezier's 4 control points at t=0.5
// into two new sets of 4 control points reproducing the original exactly.
func deCasteljauSplit(pts []geom.Coord3D) (left, right [4]geom.Coord3D) {
	var tri [4][4]geom.Coord3D
	copy(tri[0][:], pts)
	for k := 1; k < 4; k++ {
		for i := 0; i < 4-k; i++ {
			tri[k][i] = tri[k-1][i].Scale(0.5).Add(tri[k-1][i+1].Scale(0.5))
		}
	}
	for k := 0; k < 4; k++ {
		left[k] = tri[k][0]
		right[3-k] = tri[k][3-k]
	}
	return
}

// TestPlanarRel reports whether the patch is planar within a bounding-box
// relative tolerance, caching the result since it is evaluated repeatedly
// during recursive subdivision.
func (p *SurfPatch) TestPlanarRel(relTol float64) bool {
	if p.checkedPlanar {
		return p.wasPlanar
	}

	approx := p.planarApprox()
	dst := p.eqpDistanceBound(approx)

	p.wasPlanar = dst < relTol*p.box.DiagDist()
	p.checkedPlanar = true
	return p.wasPlanar
}

// TestPlanar reports planarity within a dimensional tolerance, converting it
// to the relative form TestPlanarRel expects.
func (p *SurfPatch) TestPlanar(tol float64) bool {
	diag := p.box.DiagDist()
	if diag < 1e-12 {
		return true
	}
	return p.TestPlanarRel(tol / diag)
}

// planarApprox returns the bilinear surface spanned by the patch's four
// corners, reusing the corner control points directly as the degree-1x1
// control net.
func (p *SurfPatch) planarApprox() [4][4]geom.Coord3D {
	a0 := p.Ctrl[0][0]
	a1 := p.Ctrl[3][0]
	a2 := p.Ctrl[0][3]
	a3 := p.Ctrl[3][3]

	var out [4][4]geom.Coord3D
	for i := 0; i < 4; i++ {
		fu := float64(i) / 3
		for j := 0; j < 4; j++ {
			fw := float64(j) / 3
			top := a0.Scale(1 - fw).Add(a2.Scale(fw))
			bot := a1.Scale(1 - fw).Add(a3.Scale(fw))
			out[i][j] = top.Scale(1 - fu).Add(bot.Scale(fu))
		}
	}
	return out
}

// eqpDistanceBound returns the maximum control-point distance between p and
// approx, an upper bound on the distance between the two surfaces'
// convex hulls (simple_eqp_distance_bound in the original).
func (p *SurfPatch) eqpDistanceBound(approx [4][4]geom.Coord3D) float64 {
	var maxDist float64
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			d := p.Ctrl[i][j].Dist(approx[i][j])
			if d > maxDist {
				maxDist = d
			}
		}
	}
	return maxDist
}

// FindClosestUWPlanarApprox projects pt onto the patch's bilinear corner
// plane, valid only once TestPlanarRel has confirmed near-flatness.
func (p *SurfPatch) FindClosestUWPlanarApprox(pt geom.Coord3D) geom.Coord2D {
	a0 := p.Ctrl[0][0]
	a1 := p.Ctrl[3][0]
	a2 := p.Ctrl[0][3]

	uVec := a1.Sub(a0)
	wVec := a2.Sub(a0)

	rel := pt.Sub(a0)
	uu := uVec.Dot(uVec)
	uw := uVec.Dot(wVec)
	ww := wVec.Dot(wVec)
	ru := rel.Dot(uVec)
	rw := rel.Dot(wVec)

	det := uu*ww - uw*uw
	var u01, w01 float64
	if math.Abs(det) > 1e-18 {
		u01 = (ru*ww - rw*uw) / det
		w01 = (rw*uu - ru*uw) / det
	}
	u01 = clampUnit(u01)
	w01 = clampUnit(w01)

	return geom.UW(p.UMin+u01*(p.UMax-p.UMin), p.WMin+w01*(p.WMax-p.WMin))
}

// Triangles returns the patch's bilinear corner quad split into the two
// triangles used for planar-patch segment and patch-patch intersection.
func (p *SurfPatch) Triangles() (t0, t1 [3]geom.Coord3D) {
	a0 := p.Ctrl[0][0]
	a1 := p.Ctrl[3][0]
	a2 := p.Ctrl[0][3]
	a3 := p.Ctrl[3][3]
	return [3]geom.Coord3D{a0, a1, a3}, [3]geom.Coord3D{a0, a3, a2}
}

// IntersectLineSeg accumulates the parametric t values (along p0->p1) where
// the segment crosses the patch, recursing into children until the patch is
// planar enough to treat as two flat triangles.
func (p *SurfPatch) IntersectLineSeg(p0, p1 geom.Coord3D, segBox Box3, tVals *[]float64) {
	if !p.box.Overlaps(segBox) {
		return
	}

	if p.TestPlanar(1e-5) {
		dir := p1.Sub(p0)
		t0, t1 := p.Triangles()
		if t, ok := segTriIntersect(p0, dir, t0); ok {
			addTVal(t, tVals)
		}
		if t, ok := segTriIntersect(p0, dir, t1); ok {
			addTVal(t, tVals)
		}
		return
	}

	bp00, bp10, bp01, bp11 := p.SplitPatch()
	bp00.IntersectLineSeg(p0, p1, segBox, tVals)
	bp10.IntersectLineSeg(p0, p1, segBox, tVals)
	bp01.IntersectLineSeg(p0, p1, segBox, tVals)
	bp11.IntersectLineSeg(p0, p1, segBox, tVals)
}

func addTVal(t float64, tVals *[]float64) {
	for _, existing := range *tVals {
		if math.Abs(t-existing) < 1e-6 {
			return
		}
	}
	*tVals = append(*tVals, t)
}

// segTriIntersect tests the segment p0+s*dir, s in [0,1], against a
// triangle, returning s on hit.
func segTriIntersect(p0, dir geom.Coord3D, tri [3]geom.Coord3D) (float64, bool) {
	ray := geom.Ray{Origin: p0, Direction: dir}
	t, hit := ray.IntersectTriangle(tri[0], tri[1], tri[2])
	if !hit || t < 0 || t > 1 {
		return 0, false
	}
	return t, true
}
