package geom

// A Segment is a line segment between two 3D points, stored with a fixed
// endpoint order (not sorted) since callers care about direction for
// tessellation but use SegmentKey when they need an order-independent key.
type Segment [2]Coord3D

func NewSegment(p1, p2 Coord3D) Segment {
	return Segment{p1, p2}
}

func (s Segment) Mid() Coord3D {
	return Mid3(s[0], s[1])
}

func (s Segment) Length() float64 {
	return s[0].Dist(s[1])
}

// SegmentKey is an order-independent identity for a segment, used as a map
// key when two segments referencing the same pair of points (regardless of
// direction) must compare equal.
type SegmentKey struct {
	A, B Coord3D
}

func (s Segment) Key() SegmentKey {
	a, b := s[0], s[1]
	if segLess(b, a) {
		a, b = b, a
	}
	return SegmentKey{A: a, B: b}
}

func segLess(a, b Coord3D) bool {
	if a.X != b.X {
		return a.X < b.X
	}
	if a.Y != b.Y {
		return a.Y < b.Y
	}
	return a.Z < b.Z
}

// Ray is a line originating at Origin and extending in Direction.
//
// Grounded on model2d/collisions.go's Ray/Collider pattern, lifted to 3D for
// the inside/outside classification ray casts of spec section 4.8.
type Ray struct {
	Origin    Coord3D
	Direction Coord3D
}

// IntersectTriangle performs a Moller-Trumbore ray/triangle intersection
// test. It returns the ray parameter t and true if the ray hits the
// triangle at t >= 0.
func (r Ray) IntersectTriangle(a, b, c Coord3D) (t float64, hit bool) {
	const epsilon = 1e-12
	edge1 := b.Sub(a)
	edge2 := c.Sub(a)
	h := r.Direction.Cross(edge2)
	det := edge1.Dot(h)
	if det > -epsilon && det < epsilon {
		return 0, false
	}
	invDet := 1 / det
	s := r.Origin.Sub(a)
	u := invDet * s.Dot(h)
	if u < 0 || u > 1 {
		return 0, false
	}
	q := s.Cross(edge1)
	v := invDet * r.Direction.Dot(q)
	if v < 0 || u+v > 1 {
		return 0, false
	}
	t = invDet * edge2.Dot(q)
	if t < 0 {
		return 0, false
	}
	return t, true
}
