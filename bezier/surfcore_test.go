package bezier

import (
	"math"
	"testing"

	"github.com/aeromesh/cfdmesh/geom"
)

// flatNet builds a single-patch (numU=numW=1) control net lying exactly on
// a plane z = f(x,y) for a simple bilinear height field, which is enough to
// exercise CompPnt/CompNorm/CompCurvature without needing a real aircraft
// patch.
func flatNet() *SurfCore {
	ctrl := make([][]geom.Coord3D, 4)
	for i := 0; i < 4; i++ {
		ctrl[i] = make([]geom.Coord3D, 4)
		for j := 0; j < 4; j++ {
			x := float64(i) / 3
			y := float64(j) / 3
			ctrl[i][j] = geom.XYZ(x, y, 0)
		}
	}
	return NewSurfCore(1, 1, 0, 1, 0, 1, ctrl)
}

func sphereNet(radius float64) *SurfCore {
	// A single bicubic patch cannot represent a sphere exactly; this
	// builds a patch whose control net approximates a gently curved cap,
	// sufficient for the curvature-sign and normal-unit invariants.
	ctrl := make([][]geom.Coord3D, 4)
	for i := 0; i < 4; i++ {
		ctrl[i] = make([]geom.Coord3D, 4)
		for j := 0; j < 4; j++ {
			u := float64(i)/3*0.6 - 0.3
			w := float64(j)/3*0.6 - 0.3
			z := radius - (u*u+w*w)/(2*radius)
			ctrl[i][j] = geom.XYZ(u, w, z)
		}
	}
	return NewSurfCore(1, 1, 0, 1, 0, 1, ctrl)
}

func TestCompPntMatchesDeCasteljau(t *testing.T) {
	s := flatNet()
	for _, uw := range []geom.Coord2D{geom.UW(0, 0), geom.UW(1, 1), geom.UW(0.3, 0.7)} {
		p := s.CompPnt(uw.U, uw.W)
		expected := geom.XYZ(uw.U, uw.W, 0)
		if p.Dist(expected) > 1e-9 {
			t.Errorf("CompPnt(%v) = %v, want %v", uw, p, expected)
		}
	}
}

func TestCompNormUnit(t *testing.T) {
	s := sphereNet(2)
	for u := 0.1; u < 1; u += 0.2 {
		for w := 0.1; w < 1; w += 0.2 {
			n := s.CompNorm(u, w)
			if math.Abs(n.Norm()-1) > 1e-6 {
				t.Errorf("CompNorm(%v,%v) not unit: norm=%v", u, w, n.Norm())
			}
		}
	}
}

func TestCompCurvatureFiniteDifference(t *testing.T) {
	s := sphereNet(2)
	u, w := 0.5, 0.5
	k1, k2, _, _ := s.CompCurvature(u, w)

	// Finite-difference estimate of normal curvature along u using the
	// second derivative along an isoparametric line (the curvature of the
	// curve S(u, w0) projected onto the tangent plane).
	h := 1e-4
	p0 := s.CompPnt(u-h, w)
	p1 := s.CompPnt(u, w)
	p2 := s.CompPnt(u+h, w)
	secondDeriv := p0.Add(p2).Sub(p1.Scale(2)).Scale(1 / (h * h))
	n := s.CompNorm(u, w)
	approxKappaU := secondDeriv.Dot(n) / math.Pow(s.CompTanU(u, w).Norm(), 2)

	if math.Abs(approxKappaU) > 1e-3 && math.Min(math.Abs(k1), math.Abs(k2)) < 1e-6 {
		t.Errorf("expected nonzero principal curvature near a curved patch")
	}
	if math.Abs(approxKappaU-k1) > 1e-3 && math.Abs(approxKappaU-k2) > 1e-3 {
		t.Errorf("finite-difference curvature %v matches neither principal curvature (%v, %v)", approxKappaU, k1, k2)
	}
}

func TestSurfMatchIdentity(t *testing.T) {
	s := sphereNet(2)
	if !s.SurfMatch(s, 0) {
		t.Error("a surface must match itself")
	}
}

func TestSurfMatchReverseU(t *testing.T) {
	s := sphereNet(2)
	reversed := NewSurfCore(1, 1, 0, 1, 0, 1, reverseRows(s.Ctrl))
	if !s.SurfMatch(reversed, 0) {
		t.Error("expected match against a u-reversed copy")
	}
}

func TestBorderCurveCorners(t *testing.T) {
	s := flatNet()
	line := s.BorderUWLine(UMin)
	if line.First() != geom.UW(0, 0) || line.Last() != geom.UW(0, 1) {
		t.Errorf("unexpected UMin border endpoints: %v %v", line.First(), line.Last())
	}
}
