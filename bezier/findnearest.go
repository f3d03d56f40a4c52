package bezier

import (
	"math"

	"github.com/aeromesh/cfdmesh/geom"
)

const findNearestGridRes = 9

// FindNearest locates the closest (u,w) on the surface to pt, starting a
// Newton-style refinement from an initial guess (u0,w0) and falling back
// to a coarse grid search if no initial guess is available. It returns the
// resulting (u,w) and the distance to pt.
//
// Grounded on original_source/src/cfd_mesh/SurfCore.cpp's FindNearest,
// which wraps eli::geom::intersect::minimum_distance; here the projection
// is a hand-rolled Newton iteration since no pack repo ships a NURBS
// projection library.
func (s *SurfCore) FindNearest(ptX, ptY, ptZ float64, u0, w0 float64, hasGuess bool) (u, w, dist float64) {
	pt := geom.XYZ(ptX, ptY, ptZ)

	if !hasGuess {
		u0, w0 = s.coarseSearch(pt)
	} else {
		u0, w0 = s.clampParam(u0, w0)
	}

	u, w = u0, w0
	for iter := 0; iter < 30; iter++ {
		p := s.CompPnt(u, w)
		d := p.Sub(pt)
		su := s.CompTanU(u, w)
		sw := s.CompTanW(u, w)

		// Solve the 2x2 system for a Newton step on the squared distance
		// functional (full Hessian, including the d.suu/d.suw/d.sww terms).
		suu := s.CompTanUU(u, w)
		suw := s.CompTanUW(u, w)
		sww := s.CompTanWW(u, w)

		fu := d.Dot(su)
		fw := d.Dot(sw)
		fuu := su.Dot(su) + d.Dot(suu)
		fww := sw.Dot(sw) + d.Dot(sww)
		fuw := su.Dot(sw) + d.Dot(suw)

		det := fuu*fww - fuw*fuw
		var du, dw float64
		if math.Abs(det) > 1e-18 {
			du = -(fu*fww - fw*fuw) / det
			dw = -(fw*fuu - fu*fuw) / det
		} else {
			break
		}

		// Damp large steps so we don't overshoot the patch.
		step := math.Max(math.Abs(du), math.Abs(dw))
		if step > 0.5 {
			scale := 0.5 / step
			du *= scale
			dw *= scale
		}

		nu, nw := s.clampParam(u+du, w+dw)
		if math.Abs(nu-u) < 1e-13 && math.Abs(nw-w) < 1e-13 {
			u, w = nu, nw
			break
		}
		u, w = nu, nw
	}

	dist = s.CompPnt(u, w).Sub(pt).Norm()
	return u, w, dist
}

// FindNearestPt is a geom.Coord3D-typed convenience wrapper around
// FindNearest, used as Surf's ClosestUW projection during mesh lifting.
func (s *SurfCore) FindNearestPt(pt geom.Coord3D, guess geom.Coord2D, hasGuess bool) (uw geom.Coord2D, dist float64) {
	u, w, d := s.FindNearest(pt.X, pt.Y, pt.Z, guess.U, guess.W, hasGuess)
	return geom.UW(u, w), d
}

func (s *SurfCore) coarseSearch(pt geom.Coord3D) (u0, w0 float64) {
	bestDist := math.Inf(1)
	du := s.GetDU() / findNearestGridRes
	dw := s.GetDW() / findNearestGridRes
	for i := 0; i <= findNearestGridRes; i++ {
		u := s.U0 + float64(i)*du
		for j := 0; j <= findNearestGridRes; j++ {
			w := s.W0 + float64(j)*dw
			p := s.CompPnt(u, w)
			d := p.Sub(pt).Norm()
			if d < bestDist {
				bestDist = d
				u0, w0 = u, w
			}
		}
	}
	return u0, w0
}
