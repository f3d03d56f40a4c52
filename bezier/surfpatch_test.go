package bezier

import (
	"testing"

	"github.com/aeromesh/cfdmesh/geom"
)

func TestPatchesFromSurfCoreCount(t *testing.T) {
	ctrl := make([][]geom.Coord3D, 7)
	for i := range ctrl {
		ctrl[i] = make([]geom.Coord3D, 4)
		for j := range ctrl[i] {
			ctrl[i][j] = geom.XYZ(float64(i)/6, float64(j)/3, 0)
		}
	}
	s := NewSurfCore(2, 1, 0, 1, 0, 1, ctrl)
	patches := PatchesFromSurfCore(s)
	if len(patches) != 2 {
		t.Fatalf("expected 2 patches, got %d", len(patches))
	}
}

func TestSplitPatchReproducesCorners(t *testing.T) {
	s := flatNet()
	patches := PatchesFromSurfCore(s)
	p := patches[0]
	bp00, bp10, bp01, bp11 := p.SplitPatch()

	if bp00.Ctrl[0][0] != p.Ctrl[0][0] {
		t.Error("bp00 should share the original's (0,0) corner")
	}
	if bp11.Ctrl[3][3] != p.Ctrl[3][3] {
		t.Error("bp11 should share the original's (3,3) corner")
	}
	// Shared edge: bp00's u-max edge must match bp10's u-min edge.
	for j := 0; j < 4; j++ {
		if bp00.Ctrl[3][j].Dist(bp10.Ctrl[0][j]) > 1e-9 {
			t.Errorf("split patches do not share boundary at col %d", j)
		}
	}
	_ = bp01
}

func TestFlatPatchIsPlanar(t *testing.T) {
	s := flatNet()
	p := PatchesFromSurfCore(s)[0]
	if !p.TestPlanarRel(1e-3) {
		t.Error("a flat patch should test as planar")
	}
}

func TestCurvedPatchIsNotPlanar(t *testing.T) {
	s := sphereNet(0.5)
	p := PatchesFromSurfCore(s)[0]
	if p.TestPlanarRel(1e-9) {
		t.Error("a sharply curved patch should fail a tight planarity test")
	}
}

func TestIntersectLineSegThroughFlatPatch(t *testing.T) {
	s := flatNet()
	p := PatchesFromSurfCore(s)[0]

	p0 := geom.XYZ(0.5, 0.5, 1)
	p1 := geom.XYZ(0.5, 0.5, -1)
	box := Box3{Min: geom.XYZ(0.5, 0.5, -1), Max: geom.XYZ(0.5, 0.5, 1)}

	var tVals []float64
	p.IntersectLineSeg(p0, p1, box, &tVals)
	if len(tVals) != 1 {
		t.Fatalf("expected exactly one crossing, got %d", len(tVals))
	}
	if tVals[0] < 0.49 || tVals[0] > 0.51 {
		t.Errorf("expected crossing near t=0.5, got %v", tVals[0])
	}
}
