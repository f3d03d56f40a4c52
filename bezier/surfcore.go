package bezier

import (
	"fmt"
	"math"

	"github.com/aeromesh/cfdmesh/geom"
)

// Border identifies one of the four parametric edges of a SurfCore.
type Border int

const (
	UMin Border = iota
	UMax
	WMin
	WMax
)

// SurfCore is a piecewise bicubic Bezier surface evaluator: a grid of
// patches sharing control points along shared edges (C0 continuity),
// grounded on original_source/src/cfd_mesh/SurfCore.{h,cpp}.
//
// The control net has (3*NumUPatches+1) rows and (3*NumWPatches+1) columns;
// patch (ip, jp) occupies net rows [3ip, 3ip+3] and columns [3jp, 3jp+3].
type SurfCore struct {
	NumUPatches, NumWPatches int
	U0, Umax, W0, Wmax       float64
	Ctrl                     [][]geom.Coord3D
}

// NewSurfCore builds a SurfCore from an explicit control net and parametric
// domain. The net must have 3*numU+1 rows and 3*numW+1 columns.
func NewSurfCore(numU, numW int, u0, umax, w0, wmax float64, ctrl [][]geom.Coord3D) *SurfCore {
	if len(ctrl) != 3*numU+1 || len(ctrl[0]) != 3*numW+1 {
		panic(fmt.Sprintf("control net size %dx%d does not match %d/%d patches",
			len(ctrl), len(ctrl[0]), numU, numW))
	}
	return &SurfCore{
		NumUPatches: numU, NumWPatches: numW,
		U0: u0, Umax: umax, W0: w0, Wmax: wmax,
		Ctrl: ctrl,
	}
}

func (s *SurfCore) GetDU() float64 { return s.Umax - s.U0 }
func (s *SurfCore) GetDW() float64 { return s.Wmax - s.W0 }
func (s *SurfCore) GetMidU() float64 { return (s.U0 + s.Umax) / 2 }
func (s *SurfCore) GetMidW() float64 { return (s.W0 + s.Wmax) / 2 }

// clampParam clamps (u,w) into the valid domain, panicking if it was more
// than 1e-3 outside — a programmer-contract violation per spec section 7.
func (s *SurfCore) clampParam(u, w float64) (float64, float64) {
	const slop = 1e-3
	if u < s.U0-slop || u > s.Umax+slop || w < s.W0-slop || w > s.Wmax+slop {
		panic(fmt.Sprintf("parameter (%g, %g) outside surface domain [%g,%g]x[%g,%g]",
			u, w, s.U0, s.Umax, s.W0, s.Wmax))
	}
	if u < s.U0 {
		u = s.U0
	}
	if u > s.Umax {
		u = s.Umax
	}
	if w < s.W0 {
		w = s.W0
	}
	if w > s.Wmax {
		w = s.Wmax
	}
	return u, w
}

// patchAndLocal locates the patch containing (u,w) and returns its local
// parameters in [0,1]x[0,1] along with the patch's 4x4 control net.
func (s *SurfCore) patchAndLocal(u, w float64) (net [4][4]geom.Coord3D, pu, pw float64) {
	du := s.GetDU() / float64(s.NumUPatches)
	dw := s.GetDW() / float64(s.NumWPatches)

	ip := int(math.Floor((u - s.U0) / du))
	ip = clampInt(ip, 0, s.NumUPatches-1)
	jp := int(math.Floor((w - s.W0) / dw))
	jp = clampInt(jp, 0, s.NumWPatches-1)

	pu = (u - (s.U0 + float64(ip)*du)) / du
	pw = (w - (s.W0 + float64(jp)*dw)) / dw
	pu = clampUnit(pu)
	pw = clampUnit(pw)

	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			net[i][j] = s.Ctrl[3*ip+i][3*jp+j]
		}
	}
	return
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampUnit(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func deCasteljau(pts []geom.Coord3D, t float64) geom.Coord3D {
	buf := append([]geom.Coord3D{}, pts...)
	for n := len(buf); n > 1; n-- {
		for i := 0; i < n-1; i++ {
			buf[i] = buf[i].Scale(1 - t).Add(buf[i+1].Scale(t))
		}
	}
	return buf[0]
}

// diffControlPts returns the control points of the derivative curve of a
// Bezier curve with control points pts over a parameter domain of length
// domainLen.
func diffControlPts(pts []geom.Coord3D, domainLen float64) []geom.Coord3D {
	n := len(pts) - 1
	out := make([]geom.Coord3D, n)
	scale := float64(n) / domainLen
	for i := 0; i < n; i++ {
		out[i] = pts[i+1].Sub(pts[i]).Scale(scale)
	}
	return out
}

// evalNet evaluates the (du,dw)-th partial derivative of the patch's
// tensor-product surface at local parameters (pu,pw) in [0,1]^2. domU/domW
// are the patch's parametric domain lengths in the original (u,w) space,
// used to scale derivative control points back out of the local [0,1]
// patch frame.
func evalNet(net [4][4]geom.Coord3D, pu, pw float64, du, dw int, domU, domW float64) geom.Coord3D {
	// Differentiate along U for every row (fixed W-grid index).
	rows := make([][]geom.Coord3D, 4)
	for j := 0; j < 4; j++ {
		row := []geom.Coord3D{net[0][j], net[1][j], net[2][j], net[3][j]}
		for k := 0; k < du; k++ {
			row = diffControlPts(row, domU)
		}
		rows[j] = row
	}
	// Evaluate each (possibly-differentiated) row at pu, producing one
	// value per original W-grid index.
	colPts := make([]geom.Coord3D, 4)
	for j := 0; j < 4; j++ {
		colPts[j] = deCasteljau(rows[j], pu)
	}
	for k := 0; k < dw; k++ {
		colPts = diffControlPts(colPts, domW)
	}
	return deCasteljau(colPts, pw)
}

func (s *SurfCore) localDomain() (domU, domW float64) {
	return s.GetDU() / float64(s.NumUPatches), s.GetDW() / float64(s.NumWPatches)
}

// CompPnt evaluates the surface position at (u,w).
func (s *SurfCore) CompPnt(u, w float64) geom.Coord3D {
	u, w = s.clampParam(u, w)
	net, pu, pw := s.patchAndLocal(u, w)
	domU, domW := s.localDomain()
	return evalNet(net, pu, pw, 0, 0, domU, domW)
}

// CompTanU returns dS/du at (u,w).
func (s *SurfCore) CompTanU(u, w float64) geom.Coord3D {
	u, w = s.clampParam(u, w)
	net, pu, pw := s.patchAndLocal(u, w)
	domU, domW := s.localDomain()
	return evalNet(net, pu, pw, 1, 0, domU, domW)
}

// CompTanW returns dS/dw at (u,w).
func (s *SurfCore) CompTanW(u, w float64) geom.Coord3D {
	u, w = s.clampParam(u, w)
	net, pu, pw := s.patchAndLocal(u, w)
	domU, domW := s.localDomain()
	return evalNet(net, pu, pw, 0, 1, domU, domW)
}

// CompTanUU returns d2S/du2 at (u,w).
func (s *SurfCore) CompTanUU(u, w float64) geom.Coord3D {
	u, w = s.clampParam(u, w)
	net, pu, pw := s.patchAndLocal(u, w)
	domU, domW := s.localDomain()
	return evalNet(net, pu, pw, 2, 0, domU, domW)
}

// CompTanWW returns d2S/dw2 at (u,w).
func (s *SurfCore) CompTanWW(u, w float64) geom.Coord3D {
	u, w = s.clampParam(u, w)
	net, pu, pw := s.patchAndLocal(u, w)
	domU, domW := s.localDomain()
	return evalNet(net, pu, pw, 0, 2, domU, domW)
}

// CompTanUW returns d2S/dudw at (u,w).
func (s *SurfCore) CompTanUW(u, w float64) geom.Coord3D {
	u, w = s.clampParam(u, w)
	net, pu, pw := s.patchAndLocal(u, w)
	domU, domW := s.localDomain()
	return evalNet(net, pu, pw, 1, 1, domU, domW)
}

// CompNorm returns the unit surface normal at (u,w).
func (s *SurfCore) CompNorm(u, w float64) geom.Coord3D {
	return s.CompTanU(u, w).Cross(s.CompTanW(u, w)).Normalize()
}

// CompPnt01 evaluates the surface at normalized parameters in [0,1]x[0,1].
func (s *SurfCore) CompPnt01(u01, w01 float64) geom.Coord3D {
	return s.CompPnt(s.U0+u01*s.GetDU(), s.W0+w01*s.GetDW())
}

// CompCurvature computes the principal (k1, k2), mean (ka) and Gaussian
// (kg) curvature at (u,w), degenerating to a small interior offset where
// the first fundamental form vanishes in one direction.
func (s *SurfCore) CompCurvature(u, w float64) (k1, k2, ka, kg float64) {
	u, w = s.clampParam(u, w)
	const tol = 1e-10
	const bump = 1e-3

	su := s.CompTanU(u, w)
	sw := s.CompTanW(u, w)
	e := su.Dot(su)
	g := sw.Dot(sw)

	if e < tol && g < tol {
		um, wm := s.GetMidU(), s.GetMidW()
		u, w = u+(um-u)*bump, w+(wm-w)*bump
		su, sw = s.CompTanU(u, w), s.CompTanW(u, w)
		e, g = su.Dot(su), sw.Dot(sw)
	} else if e < tol {
		wm := s.GetMidW()
		w = w + (wm-w)*bump
		su, sw = s.CompTanU(u, w), s.CompTanW(u, w)
		e, g = su.Dot(su), sw.Dot(sw)
	} else if g < tol {
		um := s.GetMidU()
		u = u + (um-u)*bump
		su, sw = s.CompTanU(u, w), s.CompTanW(u, w)
		e, g = su.Dot(su), sw.Dot(sw)
	}

	suu := s.CompTanUU(u, w)
	suw := s.CompTanUW(u, w)
	sww := s.CompTanWW(u, w)

	q := su.Cross(sw).Normalize()
	f := su.Dot(sw)
	l := suu.Dot(q)
	m := suw.Dot(q)
	n := sww.Dot(q)

	denom := e*g - f*f
	ka = (e*n + g*l - 2*f*m) / (2 * denom)
	kg = (l*n - m*m) / denom

	b := math.Sqrt(math.Max(0, ka*ka-kg))
	kmax, kmin := ka+b, ka-b
	if math.Abs(kmax) > math.Abs(kmin) {
		k1, k2 = kmax, kmin
	} else {
		k1, k2 = kmin, kmax
	}
	return
}

// UWPointOnBorder reports which border, if any, (u,w) lies on within tol.
// Returns (border, true), or (0, false) if not on a border.
func (s *SurfCore) UWPointOnBorder(u, w, tol float64) (Border, bool) {
	if math.Abs(u-s.U0) < tol {
		return UMin, true
	}
	if math.Abs(u-s.Umax) < tol {
		return UMax, true
	}
	if math.Abs(w-s.W0) < tol {
		return WMin, true
	}
	if math.Abs(w-s.Wmax) < tol {
		return WMax, true
	}
	return 0, false
}

// LessThanY reports whether every control point's Y coordinate is <= val.
func (s *SurfCore) LessThanY(val float64) bool {
	for _, row := range s.Ctrl {
		for _, p := range row {
			if p.Y > val {
				return false
			}
		}
	}
	return true
}

// PlaneAtYZero reports whether every control point lies within tol of the
// y=0 plane, identifying this surface as a symmetry plane.
func (s *SurfCore) PlaneAtYZero() bool {
	const tol = 1e-6
	for _, row := range s.Ctrl {
		for _, p := range row {
			if math.Abs(p.Y) > tol {
				return false
			}
		}
	}
	return true
}

// defaultSurfMatchTol is SurfMatch's squared-distance tolerance when tol<=0
// is passed, for exact-net comparisons like tests.
const defaultSurfMatchTol = 1.0e-8

// SurfMatch tests geometric equivalence under the 8-fold symmetry of
// (reverse_u x reverse_v x swap_uv), used to drop mirror-image duplicate
// surfaces during CleanMergeSurfs. tol is the squared-distance threshold
// below which two control points are considered coincident; pass 0 to use
// defaultSurfMatchTol.
func (s *SurfCore) SurfMatch(other *SurfCore, tol float64) bool {
	if tol <= 0 {
		tol = defaultSurfMatchTol
	}
	candidates := []func() [][]geom.Coord3D{
		func() [][]geom.Coord3D { return other.Ctrl },
		func() [][]geom.Coord3D { return reverseRows(other.Ctrl) },
		func() [][]geom.Coord3D { return reverseCols(other.Ctrl) },
		func() [][]geom.Coord3D { return reverseCols(reverseRows(other.Ctrl)) },
		func() [][]geom.Coord3D { return transpose(other.Ctrl) },
		func() [][]geom.Coord3D { return reverseRows(transpose(other.Ctrl)) },
		func() [][]geom.Coord3D { return reverseCols(transpose(other.Ctrl)) },
		func() [][]geom.Coord3D { return reverseCols(reverseRows(transpose(other.Ctrl))) },
	}
	for _, candidate := range candidates {
		if s.matchNet(candidate(), tol) {
			return true
		}
	}
	return false
}

func (s *SurfCore) matchNet(net [][]geom.Coord3D, tol float64) bool {
	if len(net) != len(s.Ctrl) || len(net[0]) != len(s.Ctrl[0]) {
		return false
	}
	for i := range s.Ctrl {
		for j := range s.Ctrl[i] {
			if s.Ctrl[i][j].Sub(net[i][j]).Dot(s.Ctrl[i][j].Sub(net[i][j])) > tol {
				return false
			}
		}
	}
	return true
}

func reverseRows(net [][]geom.Coord3D) [][]geom.Coord3D {
	out := make([][]geom.Coord3D, len(net))
	for i, row := range net {
		out[len(net)-1-i] = row
	}
	return out
}

func reverseCols(net [][]geom.Coord3D) [][]geom.Coord3D {
	out := make([][]geom.Coord3D, len(net))
	for i, row := range net {
		rev := make([]geom.Coord3D, len(row))
		for j, p := range row {
			rev[len(row)-1-j] = p
		}
		out[i] = rev
	}
	return out
}

func transpose(net [][]geom.Coord3D) [][]geom.Coord3D {
	out := make([][]geom.Coord3D, len(net[0]))
	for j := range out {
		out[j] = make([]geom.Coord3D, len(net))
		for i := range net {
			out[j][i] = net[i][j]
		}
	}
	return out
}
