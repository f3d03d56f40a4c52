package surfmesh

import (
	"testing"

	"github.com/aeromesh/cfdmesh/geom"
)

func flatSquareMesh() *Mesh {
	m := NewMesh()
	loop := squareLoop(m)
	m.TriangulateBorders([][]*Node{loop}, nil)
	return m
}

func TestRemeshSplitsLongEdgesAndPreservesArea(t *testing.T) {
	m := flatSquareMesh()
	before := totalArea(m)

	m.Remesh(func(u, w float64) float64 { return 0.3 })

	if len(m.Faces) <= 2 {
		t.Fatalf("expected remeshing to add faces by splitting long edges, got %d", len(m.Faces))
	}
	after := totalArea(m)
	if diff := before - after; diff < -1e-6 || diff > 1e-6 {
		t.Errorf("expected total mesh area to be preserved by remeshing, before=%v after=%v", before, after)
	}
}

func TestRemoveRevTrisDeletesMinorityWinding(t *testing.T) {
	m := NewMesh()
	n0 := m.AddNode(geom.XYZ(0, 0, 0), geom.UW(0, 0), true)
	n1 := m.AddNode(geom.XYZ(1, 0, 0), geom.UW(1, 0), true)
	n2 := m.AddNode(geom.XYZ(1, 1, 0), geom.UW(1, 1), true)
	n3 := m.AddNode(geom.XYZ(0, 1, 0), geom.UW(0, 1), true)
	nc := m.AddNode(geom.XYZ(0.5, 0.5, 0), geom.UW(0.5, 0.5), false)

	m.AddFace(n0, n1, nc)
	m.AddFace(n1, n2, nc)
	m.AddFace(n2, n3, nc)
	m.AddFace(n0, n3, nc) // reversed winding relative to the other three

	if len(m.Faces) != 4 {
		t.Fatalf("setup expected 4 faces, got %d", len(m.Faces))
	}

	removed := m.RemoveRevTris()
	if removed != 1 {
		t.Fatalf("expected exactly 1 reversed face removed, got %d", removed)
	}
	if len(m.Faces) != 3 {
		t.Fatalf("expected 3 faces to remain, got %d", len(m.Faces))
	}
	for _, f := range m.Faces {
		if f.Normal().Z < 0 {
			t.Errorf("remaining face has unexpected reversed normal: %v", f.Normal())
		}
	}
}
