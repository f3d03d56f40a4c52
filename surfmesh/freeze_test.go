package surfmesh

import (
	"testing"

	"github.com/aeromesh/cfdmesh/geom"
)

func TestFreezeDedupesCoincidentNodes(t *testing.T) {
	m := NewMesh()

	a0 := m.AddNode(geom.XYZ(0, 0, 0), geom.UW(0, 0), true)
	a1 := m.AddNode(geom.XYZ(1, 0, 0), geom.UW(1, 0), true)
	a2 := m.AddNode(geom.XYZ(0, 1, 0), geom.UW(0, 1), true)
	m.AddFace(a0, a1, a2)

	// A second triangle built from distinct Node pointers that coincide in
	// 3D position with a1 and a2, simulating two surfaces' independently
	// tessellated borders meeting at a shared edge.
	b1 := m.AddNode(geom.XYZ(1, 0, 0), geom.UW(1, 0), true)
	b2 := m.AddNode(geom.XYZ(0, 1, 0), geom.UW(0, 1), true)
	b3 := m.AddNode(geom.XYZ(1, 1, 0), geom.UW(1, 1), true)
	m.AddFace(b1, b3, b2)

	st := m.Freeze()
	if st.NumVerts() != 4 {
		t.Fatalf("expected 4 deduplicated vertices, got %d", st.NumVerts())
	}
	if st.NumTris() != 2 {
		t.Fatalf("expected 2 triangles, got %d", st.NumTris())
	}

	tri0, tri1 := st.Tris[0], st.Tris[1]
	shared := 0
	for _, i := range tri0 {
		for _, j := range tri1 {
			if i == j {
				shared++
			}
		}
	}
	if shared != 2 {
		t.Errorf("expected the two triangles to share exactly 2 deduplicated vertices, got %d", shared)
	}
}
