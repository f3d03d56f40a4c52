package surfmesh

import (
	"testing"

	"github.com/aeromesh/cfdmesh/geom"
)

func squareLoop(m *Mesh) []*Node {
	n0 := m.AddNode(geom.XYZ(0, 0, 0), geom.UW(0, 0), true)
	n1 := m.AddNode(geom.XYZ(1, 0, 0), geom.UW(1, 0), true)
	n2 := m.AddNode(geom.XYZ(1, 1, 0), geom.UW(1, 1), true)
	n3 := m.AddNode(geom.XYZ(0, 1, 0), geom.UW(0, 1), true)
	return []*Node{n0, n1, n2, n3}
}

func totalArea(m *Mesh) float64 {
	var a float64
	for _, f := range m.Faces {
		if !f.dead {
			a += f.Area()
		}
	}
	return a
}

func TestTriangulateBordersSquareCoversFullArea(t *testing.T) {
	m := NewMesh()
	loop := squareLoop(m)
	m.TriangulateBorders([][]*Node{loop}, nil)

	if len(m.Faces) != 2 {
		t.Fatalf("expected 2 triangles tiling the square, got %d", len(m.Faces))
	}
	if a := totalArea(m); a < 0.999 || a > 1.001 {
		t.Errorf("expected total area ~1, got %v", a)
	}
	n := len(loop)
	for i := 0; i < n; i++ {
		e := m.edgeBetween(loop[i], loop[(i+1)%n])
		if e == nil || !e.Border {
			t.Errorf("border edge %d-%d missing or not marked Border", i, (i+1)%n)
		}
	}
}

func TestTriangulateBordersWithInteriorPointFans(t *testing.T) {
	m := NewMesh()
	loop := squareLoop(m)
	center := m.AddNode(geom.XYZ(0.5, 0.5, 0), geom.UW(0.5, 0.5), false)
	m.TriangulateBorders([][]*Node{loop}, []*Node{center})

	if len(m.Faces) != 4 {
		t.Fatalf("expected a 4-triangle fan around the interior point, got %d", len(m.Faces))
	}
	if a := totalArea(m); a < 0.999 || a > 1.001 {
		t.Errorf("expected total area ~1, got %v", a)
	}
	if len(center.Edges) != 4 {
		t.Errorf("expected the interior point to connect to all 4 fan edges, got %d", len(center.Edges))
	}
}
