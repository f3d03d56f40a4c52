package geom

import (
	"math"
	"testing"
)

func TestCoord3DBasics(t *testing.T) {
	a := XYZ(1, 2, 3)
	b := XYZ(4, -1, 2)
	if a.Add(b) != XYZ(5, 1, 5) {
		t.Errorf("unexpected sum: %v", a.Add(b))
	}
	if math.Abs(a.Dot(b)-(4-2+6)) > 1e-12 {
		t.Errorf("unexpected dot product: %v", a.Dot(b))
	}
	n := XYZ(3, 4, 0).Normalize()
	if math.Abs(n.Norm()-1) > 1e-12 {
		t.Errorf("expected unit vector, got norm %v", n.Norm())
	}
}

func TestRayIntersectTriangle(t *testing.T) {
	r := Ray{Origin: XYZ(0.25, 0.25, -1), Direction: XYZ(0, 0, 1)}
	a, b, c := XYZ(0, 0, 0), XYZ(1, 0, 0), XYZ(0, 1, 0)
	dist, hit := r.IntersectTriangle(a, b, c)
	if !hit {
		t.Fatal("expected a hit")
	}
	if math.Abs(dist-1) > 1e-9 {
		t.Errorf("expected distance 1, got %v", dist)
	}

	miss := Ray{Origin: XYZ(5, 5, -1), Direction: XYZ(0, 0, 1)}
	if _, hit := miss.IntersectTriangle(a, b, c); hit {
		t.Error("expected a miss")
	}
}

func TestBoxOverlaps(t *testing.T) {
	b1 := Box{MinVal: XYZ(0, 0, 0), MaxVal: XYZ(1, 1, 1)}
	b2 := Box{MinVal: XYZ(0.5, 0.5, 0.5), MaxVal: XYZ(2, 2, 2)}
	if !b1.Overlaps(b2) {
		t.Error("expected boxes to overlap")
	}
	b3 := Box{MinVal: XYZ(2, 2, 2), MaxVal: XYZ(3, 3, 3)}
	if b1.Overlaps(b3) {
		t.Error("expected boxes not to overlap")
	}
}
