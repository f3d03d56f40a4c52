// Package curve implements border curves living in a surface's (U,W)
// domain, their cross-surface matching, and density-driven shared
// tessellation, grounded on
// original_source/src/cfd_mesh/{SCurve,ICurve,BezierCurve}.cpp.
package curve

import (
	"github.com/aeromesh/cfdmesh/bezier"
	"github.com/aeromesh/cfdmesh/density"
	"github.com/aeromesh/cfdmesh/geom"
)

// degenerateBorderLen is the length below which a border curve is dropped
// as degenerate, per spec section 4.2.
const degenerateBorderLen = 1e-6

// ptsPerSeg sets FindBorderCurves' arclength sampling (ptsPerSeg*4 samples
// per border). Tessellate has no uniform-sampling mode and does not read it.
const ptsPerSeg = 5

// SCurve is one border curve of one surface in (U,W), grounded on
// original_source/src/cfd_mesh/SCurve.{h,cpp}.
type SCurve struct {
	Core  *bezier.SurfCore
	Grid  *density.Grid
	Curve *bezier.Curve[geom.Coord2D]

	UWTess     []geom.Coord2D
	TargetLens []float64

	length float64
}

// FindBorderCurves builds the four (possibly fewer, once degenerate
// borders are dropped) SCurves of a surface.
func FindBorderCurves(core *bezier.SurfCore, grid *density.Grid) []*SCurve {
	var out []*SCurve
	for _, b := range []bezier.Border{bezier.UMin, bezier.UMax, bezier.WMin, bezier.WMax} {
		l := core.BorderLength(b, ptsPerSeg*4)
		if l < degenerateBorderLen {
			continue
		}
		out = append(out, &SCurve{
			Core:   core,
			Grid:   grid,
			Curve:  core.BorderUWLine(b),
			length: l,
		})
	}
	return out
}

// Length returns the cached 3D arclength of the border.
func (s *SCurve) Length() float64 { return s.length }

// EvalUW evaluates the border's (U,W) position at parameter t in [0,1].
func (s *SCurve) EvalUW(t float64) geom.Coord2D { return s.Curve.Eval(t) }

// Eval3D evaluates the border's 3D position at parameter t.
func (s *SCurve) Eval3D(t float64) geom.Coord3D {
	uw := s.EvalUW(t)
	return s.Core.CompPnt(uw.U, uw.W)
}

// Tessellate places vertices along the border according to the density
// field: integrate forward along the curve, placing a new vertex whenever
// accumulated arclength reaches the current target length, then integrate
// backward and average the two point distributions for symmetry, per spec
// section 4.2.
func (s *SCurve) Tessellate() {
	fwd := s.integrate(false)
	bwd := s.integrate(true)

	n := len(fwd)
	if len(bwd) < n {
		n = len(bwd)
	}
	uw := make([]geom.Coord2D, n)
	for i := 0; i < n; i++ {
		fi := fwd[i]
		bi := bwd[n-1-i]
		uw[i] = geom.UW((fi.U+bi.U)/2, (fi.W+bi.W)/2)
	}
	uw[0] = fwd[0]
	uw[n-1] = fwd[len(fwd)-1]

	s.UWTess = uw
	s.TargetLens = make([]float64, n)
	for i, p := range uw {
		s.TargetLens[i] = s.Grid.InterpTargetMap(p.U, p.W)
	}
	s.limitTargetGrowth(DefaultGrowRatio)
}

// DefaultGrowRatio is the growth ratio Tessellate always passes to
// limitTargetGrowth; the run's SimpleGridDensity growth ratio is not applied
// to border tessellation.
const DefaultGrowRatio = 1.3

// limitTargetGrowth walks the tessellated target lengths forward then
// backward along accumulated arclength, capping each step's increase to
// (growRatio-1)*ds, grounded on SCurve::LimitTarget.
func (s *SCurve) limitTargetGrowth(growRatio float64) {
	n := len(s.TargetLens)
	if n < 2 {
		return
	}
	dist := make([]float64, n)
	for i := 1; i < n; i++ {
		p0 := s.Core.CompPnt(s.UWTess[i-1].U, s.UWTess[i-1].W)
		p1 := s.Core.CompPnt(s.UWTess[i].U, s.UWTess[i].W)
		dist[i] = dist[i-1] + p0.Dist(p1)
	}

	for i := 1; i < n; i++ {
		dt := s.TargetLens[i] - s.TargetLens[i-1]
		ds := dist[i] - dist[i-1]
		limit := (growRatio - 1) * ds
		if dt > limit {
			s.TargetLens[i] = s.TargetLens[i-1] + limit
		}
	}
	for i := n - 2; i >= 0; i-- {
		dt := s.TargetLens[i] - s.TargetLens[i+1]
		ds := dist[i] - dist[i+1]
		limit := -(growRatio - 1) * ds
		if dt > limit {
			s.TargetLens[i] = s.TargetLens[i+1] + limit
		}
	}
}

// integrate walks the curve from one end (t=0 unless reverse) placing a new
// sample whenever accumulated 3D arclength meets the locally queried target
// length.
func (s *SCurve) integrate(reverse bool) []geom.Coord2D {
	const steps = 2000
	out := []geom.Coord2D{s.sampleAt(0, reverse)}
	accum := 0.0
	prev := s.eval3DAt(0, reverse)

	for i := 1; i <= steps; i++ {
		t := float64(i) / steps
		p := s.eval3DAt(t, reverse)
		accum += p.Dist(prev)
		prev = p

		uw := s.sampleAt(t, reverse)
		target := s.Grid.InterpTargetMap(uw.U, uw.W)
		if target <= 0 {
			target = 1e-6
		}
		if accum >= target {
			out = append(out, uw)
			accum = 0
		}
	}

	last := s.sampleAt(1, reverse)
	if out[len(out)-1] != last {
		out = append(out, last)
	}
	return out
}

func (s *SCurve) sampleAt(t float64, reverse bool) geom.Coord2D {
	if reverse {
		t = 1 - t
	}
	return s.EvalUW(t)
}

func (s *SCurve) eval3DAt(t float64, reverse bool) geom.Coord3D {
	uw := s.sampleAt(t, reverse)
	return s.Core.CompPnt(uw.U, uw.W)
}

// ShareTessellation copies a's parametric samples onto b, re-evaluated
// through b's own border curve, guaranteeing matching vertex positions in
// 3D on both sides of a shared edge, per spec section 4.2 ("the B-side
// receives A's parametric-U samples"). Since border curves are linear in
// (U,W), a's fractional position t along its own curve is recovered from
// each UWTess sample and reused (flipped when bFwd is false) as the
// parameter fed into b's curve, rather than assuming a's samples are evenly
// spaced by index.
func ShareTessellation(a, b *SCurve, bFwd bool) {
	n := len(a.UWTess)
	b.UWTess = make([]geom.Coord2D, n)
	b.TargetLens = make([]float64, n)
	for i := 0; i < n; i++ {
		t := a.paramAt(a.UWTess[i])
		if !bFwd {
			t = 1 - t
		}
		uw := b.Curve.Eval(t)
		b.UWTess[i] = uw
		b.TargetLens[i] = b.Grid.InterpTargetMap(uw.U, uw.W)
	}
}

// paramAt recovers the fractional parameter t in [0,1] such that
// s.Curve.Eval(t) == p, using whichever axis (U or W) varies more along the
// curve to avoid dividing by a near-zero span.
func (s *SCurve) paramAt(p geom.Coord2D) float64 {
	first, last := s.Curve.First(), s.Curve.Last()
	du := last.U - first.U
	dw := last.W - first.W
	if absF(du) >= absF(dw) {
		if absF(du) < 1e-15 {
			return 0
		}
		return (p.U - first.U) / du
	}
	if absF(dw) < 1e-15 {
		return 0
	}
	return (p.W - first.W) / dw
}

func absF(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

// MatchFwd reports whether a's and b's 3D control-polygon samples agree
// within tol, sampled at both endpoints and midpoint of the underlying
// linear (U,W) curves.
func MatchFwd(a, b *SCurve, tol float64) bool {
	for _, t := range []float64{0, 0.5, 1} {
		if a.Eval3D(t).Dist(b.Eval3D(t)) > tol {
			return false
		}
	}
	return true
}

// MatchBkwd reports whether a matches b's reverse within tol.
func MatchBkwd(a, b *SCurve, tol float64) bool {
	for _, t := range []float64{0, 0.5, 1} {
		if a.Eval3D(t).Dist(b.Eval3D(1-t)) > tol {
			return false
		}
	}
	return true
}
