package curve

import (
	"testing"

	"github.com/aeromesh/cfdmesh/bezier"
	"github.com/aeromesh/cfdmesh/density"
	"github.com/aeromesh/cfdmesh/geom"
)

func unitSquareCore() *bezier.SurfCore {
	ctrl := make([][]geom.Coord3D, 4)
	for i := range ctrl {
		ctrl[i] = make([]geom.Coord3D, 4)
		for j := range ctrl[i] {
			ctrl[i][j] = geom.XYZ(float64(i)/3, float64(j)/3, 0)
		}
	}
	return bezier.NewSurfCore(1, 1, 0, 1, 0, 1, ctrl)
}

func uniformGrid(core *bezier.SurfCore, targetLen float64) *density.Grid {
	cfg := density.DefaultSimpleGridDensity()
	cfg.BaseLen = targetLen
	cfg.MinLen = targetLen / 10
	return density.BuildTargetMap(core, cfg, 0, false)
}

func TestFindBorderCurvesCount(t *testing.T) {
	core := unitSquareCore()
	grid := uniformGrid(core, 0.2)
	borders := FindBorderCurves(core, grid)
	if len(borders) != 4 {
		t.Fatalf("expected 4 non-degenerate borders, got %d", len(borders))
	}
}

func TestTessellateEndpointsMatchCorners(t *testing.T) {
	core := unitSquareCore()
	grid := uniformGrid(core, 0.2)
	borders := FindBorderCurves(core, grid)
	sc := borders[0]
	sc.Tessellate()

	if len(sc.UWTess) < 2 {
		t.Fatalf("expected at least 2 tessellation points, got %d", len(sc.UWTess))
	}
	if sc.UWTess[0] != sc.Curve.First() {
		t.Errorf("tessellation should start at the border's first corner")
	}
	if sc.UWTess[len(sc.UWTess)-1] != sc.Curve.Last() {
		t.Errorf("tessellation should end at the border's last corner")
	}
}

func TestMatchFwdReverseIdentity(t *testing.T) {
	core := unitSquareCore()
	grid := uniformGrid(core, 0.2)
	borders := FindBorderCurves(core, grid)
	sc := borders[0]

	reversed := &SCurve{
		Core:  sc.Core,
		Grid:  sc.Grid,
		Curve: bezier.NewCurve(sc.Curve.Last(), sc.Curve.First()),
	}
	if !MatchBkwd(sc, reversed, DefaultMatchTol) {
		t.Error("expected backward match against the reversed border")
	}
}

func TestShareTessellationEqualLength(t *testing.T) {
	core := unitSquareCore()
	grid := uniformGrid(core, 0.2)
	borders := FindBorderCurves(core, grid)
	a := borders[0]
	a.Tessellate()

	b := &SCurve{Core: a.Core, Grid: a.Grid, Curve: bezier.NewCurve(a.Curve.Last(), a.Curve.First())}
	ShareTessellation(a, b, false)

	if len(a.UWTess) != len(b.UWTess) {
		t.Fatalf("expected equal tessellation lengths, got %d vs %d", len(a.UWTess), len(b.UWTess))
	}
	for i := range a.UWTess {
		pa := a.Core.CompPnt(a.UWTess[i].U, a.UWTess[i].W)
		pb := b.Core.CompPnt(b.UWTess[i].U, b.UWTess[i].W)
		if pa.Dist(pb) > 1e-9 {
			t.Errorf("shared tessellation point %d disagrees in 3D: %v vs %v", i, pa, pb)
		}
	}
}
