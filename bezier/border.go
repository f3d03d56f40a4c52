package bezier

import "github.com/aeromesh/cfdmesh/geom"

// BorderUWLine returns the degree-one Bezier curve describing one of the
// surface's four parametric borders in (U,W) space, per spec section 4.2:
// border curves are linear in the parametric domain even though the
// underlying surface position along them is generally curved.
func (s *SurfCore) BorderUWLine(b Border) *Curve[geom.Coord2D] {
	switch b {
	case UMin:
		return NewCurve(geom.UW(s.U0, s.W0), geom.UW(s.U0, s.Wmax))
	case UMax:
		return NewCurve(geom.UW(s.Umax, s.W0), geom.UW(s.Umax, s.Wmax))
	case WMin:
		return NewCurve(geom.UW(s.U0, s.W0), geom.UW(s.Umax, s.W0))
	case WMax:
		return NewCurve(geom.UW(s.U0, s.Wmax), geom.UW(s.Umax, s.Wmax))
	default:
		panic("unknown border")
	}
}

// BorderLength returns the 3D arclength of a border, approximated by
// sampling since the underlying surface curve is not itself a Bezier
// segment in 3D.
func (s *SurfCore) BorderLength(b Border, samples int) float64 {
	line := s.BorderUWLine(b)
	var total float64
	prev := s.CompPnt(line.First().U, line.First().W)
	for i := 1; i <= samples; i++ {
		t := float64(i) / float64(samples)
		uw := line.Eval(t)
		p := s.CompPnt(uw.U, uw.W)
		total += p.Dist(prev)
		prev = p
	}
	return total
}
