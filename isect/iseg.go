package isect

// ISeg is a line segment between two IPnts on two surfaces, grounded on
// original_source/src/cfd_mesh/ISegChain.h's ISeg struct. SurfA equals
// SurfB for border and subsurface chains; otherwise the two differ.
type ISeg struct {
	SurfA, SurfB SurfaceRef
	IPnt         [2]*IPnt
}

// NewISeg builds a segment and back-references itself on both endpoints.
func NewISeg(surfA, surfB SurfaceRef, p0, p1 *IPnt) *ISeg {
	s := &ISeg{SurfA: surfA, SurfB: surfB, IPnt: [2]*IPnt{p0, p1}}
	p0.Segs = append(p0.Segs, s)
	p1.Segs = append(p1.Segs, s)
	return s
}

// Other returns the endpoint of the segment opposite p.
func (s *ISeg) Other(p *IPnt) *IPnt {
	if s.IPnt[0] == p {
		return s.IPnt[1]
	}
	return s.IPnt[0]
}

// Length returns the segment's 3D length.
func (s *ISeg) Length() float64 {
	return s.IPnt[0].Pt.Dist(s.IPnt[1].Pt)
}
