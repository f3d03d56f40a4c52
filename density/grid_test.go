package density

import (
	"math"
	"testing"

	"github.com/aeromesh/cfdmesh/bezier"
	"github.com/aeromesh/cfdmesh/geom"
)

func flatCore() *bezier.SurfCore {
	ctrl := make([][]geom.Coord3D, 4)
	for i := range ctrl {
		ctrl[i] = make([]geom.Coord3D, 4)
		for j := range ctrl[i] {
			ctrl[i][j] = geom.XYZ(float64(i)/3, float64(j)/3, 0)
		}
	}
	return bezier.NewSurfCore(1, 1, 0, 1, 0, 1, ctrl)
}

func TestBuildTargetMapRespectsMinLen(t *testing.T) {
	core := flatCore()
	cfg := DefaultSimpleGridDensity()
	cfg.MinLen = 0.05
	cfg.BaseLen = 0.01 // below minLen, should be floored up

	grid := BuildTargetMap(core, cfg, 0, false)
	for _, row := range grid.Cells {
		for _, c := range row {
			if c.Str < cfg.MinLen-1e-12 {
				t.Fatalf("cell target %v below minLen %v", c.Str, cfg.MinLen)
			}
		}
	}
}

func TestPointSourceShrinksLength(t *testing.T) {
	core := flatCore()
	cfg := DefaultSimpleGridDensity()
	cfg.BaseLen = 1.0
	cfg.MinLen = 0.0001
	cfg.Sources = []*Source{
		{Kind: PointSourceKind, Pt: geom.XYZ(0.5, 0.5, 0), Len: 0.01, Rad: 0.3},
	}
	grid := BuildTargetMap(core, cfg, 0, false)

	mid := grid.InterpTargetMap(0.5, 0.5)
	edge := grid.InterpTargetMap(0.0, 0.0)
	if mid >= edge {
		t.Errorf("expected source to shrink target length near its center: mid=%v edge=%v", mid, edge)
	}
}

func TestLimitTargetMapGrowthRatio(t *testing.T) {
	core := flatCore()
	cfg := DefaultSimpleGridDensity()
	cfg.BaseLen = 1.0
	cfg.MinLen = 0.001
	cfg.Sources = []*Source{
		{Kind: PointSourceKind, Pt: geom.XYZ(0, 0, 0), Len: 0.001, Rad: 1e-6},
	}
	grid := BuildTargetMap(core, cfg, 0, false)
	growRatio := 1.2
	grid.LimitTargetMap(growRatio)

	for i := 0; i < grid.nu; i++ {
		for j := 0; j < grid.nw; j++ {
			for _, n := range grid.neighbors(i, j) {
				a := grid.Cells[i][j]
				b := grid.Cells[n.i][n.j]
				dist := a.Pt.Dist(b.Pt)
				if math.Abs(a.Str-b.Str) > (growRatio-1)*dist+1e-6 {
					t.Errorf("growth ratio violated: |%v-%v| > %v", a.Str, b.Str, (growRatio-1)*dist)
				}
			}
		}
	}
}

func TestKDTreeExcludesOwnSurface(t *testing.T) {
	points := []*MapSource{
		NewMapSource(geom.XYZ(0, 0, 0), 0.1, 0),
		NewMapSource(geom.XYZ(0, 0, 0), 0.2, 1),
	}
	tree := BuildKDTree(points, 0)
	found := tree.RadiusSearch(geom.XYZ(0, 0, 0), 1)
	if len(found) != 1 || found[0].SurfID != 1 {
		t.Fatalf("expected only surface 1's point, got %d results", len(found))
	}
}

func TestInterpTargetMapBilinear(t *testing.T) {
	core := flatCore()
	cfg := DefaultSimpleGridDensity()
	cfg.BaseLen = 0.3
	cfg.MinLen = 0.001
	grid := BuildTargetMap(core, cfg, 0, false)
	v := grid.InterpTargetMap(0.5, 0.5)
	if v <= 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		t.Fatalf("expected finite positive interpolated length, got %v", v)
	}
}
