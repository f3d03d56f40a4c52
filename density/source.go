// Package density implements the parametric target-length field that
// bounds mesh element size from curvature, growth rate, and user sources,
// grounded on original_source/src/cfd_mesh/MapSource.h and spec section
// 4.1/9's BaseSource hierarchy.
package density

import "github.com/aeromesh/cfdmesh/geom"

// SourceKind distinguishes the three user-placed density source shapes.
// Represented as a tagged union rather than an interface hierarchy per
// spec section 9's "virtual dispatch for sources" design note.
type SourceKind int

const (
	PointSourceKind SourceKind = iota
	LineSourceKind
	BoxSourceKind
)

// Source is a user-placed density control, one of point/line/box. Only the
// fields relevant to Kind are populated; GetTargetLen switches on Kind.
type Source struct {
	Kind SourceKind

	// Point: single location.
	Pt geom.Coord3D

	// Line: two endpoints.
	P0, P1 geom.Coord3D

	// Box: axis-aligned extent.
	Min, Max geom.Coord3D

	Len    float64 // target edge length at the source
	Rad    float64 // radius of influence
	SurfID int
}

// GetTargetLen returns the source's contribution to the target length at p:
// base at or beyond its radius of influence, and within it a linear blend
// from Len at the source (d = 0) up to base at d = Rad, so there is no
// discontinuity at the radius, in the original's style of
// BaseSource::GetTargetLen.
func (s *Source) GetTargetLen(base float64, p geom.Coord3D) float64 {
	d := s.distance(p)
	if d >= s.Rad {
		return base
	}
	frac := d / s.Rad
	return s.Len + frac*(base-s.Len)
}

func (s *Source) distance(p geom.Coord3D) float64 {
	switch s.Kind {
	case PointSourceKind:
		return p.Dist(s.Pt)
	case LineSourceKind:
		return distToSegment(p, s.P0, s.P1)
	case BoxSourceKind:
		return distToBox(p, s.Min, s.Max)
	default:
		return 0
	}
}

func distToSegment(p, a, b geom.Coord3D) float64 {
	ab := b.Sub(a)
	denom := ab.Dot(ab)
	if denom < 1e-18 {
		return p.Dist(a)
	}
	t := p.Sub(a).Dot(ab) / denom
	if t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}
	closest := a.Add(ab.Scale(t))
	return p.Dist(closest)
}

func distToBox(p, min, max geom.Coord3D) float64 {
	dx := axisDist(p.X, min.X, max.X)
	dy := axisDist(p.Y, min.Y, max.Y)
	dz := axisDist(p.Z, min.Z, max.Z)
	return geom.XYZ(dx, dy, dz).Norm()
}

func axisDist(v, lo, hi float64) float64 {
	if v < lo {
		return lo - v
	}
	if v > hi {
		return v - hi
	}
	return 0
}
