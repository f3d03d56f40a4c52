package geom

import "math"

// A Bounder is contained in an axis-aligned bounding box.
//
// Grounded on model3d/model2d's Bounder interface: a point p satisfies
// p >= Min and p <= Max if it is within the bounds.
type Bounder interface {
	Min() Coord3D
	Max() Coord3D
}

// Box is a concrete axis-aligned bounding box.
type Box struct {
	MinVal Coord3D
	MaxVal Coord3D
}

func (b Box) Min() Coord3D { return b.MinVal }
func (b Box) Max() Coord3D { return b.MaxVal }

// Diag returns the length of the box's diagonal.
func (b Box) Diag() float64 {
	return b.MaxVal.Sub(b.MinVal).Norm()
}

// Contains reports whether c lies within the box (inclusive).
func (b Box) Contains(c Coord3D) bool {
	return c.X >= b.MinVal.X && c.X <= b.MaxVal.X &&
		c.Y >= b.MinVal.Y && c.Y <= b.MaxVal.Y &&
		c.Z >= b.MinVal.Z && c.Z <= b.MaxVal.Z
}

// Overlaps reports whether two boxes intersect.
func (b Box) Overlaps(o Box) bool {
	return b.MinVal.X <= o.MaxVal.X && b.MaxVal.X >= o.MinVal.X &&
		b.MinVal.Y <= o.MaxVal.Y && b.MaxVal.Y >= o.MinVal.Y &&
		b.MinVal.Z <= o.MaxVal.Z && b.MaxVal.Z >= o.MinVal.Z
}

// BoxFromPoints computes the bounding box of a set of points.
func BoxFromPoints(pts ...Coord3D) Box {
	if len(pts) == 0 {
		return Box{}
	}
	min, max := pts[0], pts[0]
	for _, p := range pts[1:] {
		min = min.Min(p)
		max = max.Max(p)
	}
	return Box{MinVal: min, MaxVal: max}
}

// Union computes the bounding box containing both boxes.
func (b Box) Union(o Box) Box {
	return Box{MinVal: b.MinVal.Min(o.MinVal), MaxVal: b.MaxVal.Max(o.MaxVal)}
}

// Box2D is an axis-aligned bounding box in a surface's (U,W) domain, used by
// ISegBox for parametric chain-intersection pruning.
type Box2D struct {
	MinVal Coord2D
	MaxVal Coord2D
}

func Box2DFromPoints(pts ...Coord2D) Box2D {
	if len(pts) == 0 {
		return Box2D{}
	}
	min, max := pts[0], pts[0]
	for _, p := range pts[1:] {
		min = Coord2D{math.Min(min.U, p.U), math.Min(min.W, p.W)}
		max = Coord2D{math.Max(max.U, p.U), math.Max(max.W, p.W)}
	}
	return Box2D{MinVal: min, MaxVal: max}
}

func (b Box2D) Overlaps(o Box2D) bool {
	return b.MinVal.U <= o.MaxVal.U && b.MaxVal.U >= o.MinVal.U &&
		b.MinVal.W <= o.MaxVal.W && b.MaxVal.W >= o.MinVal.W
}

func (b Box2D) Union(o Box2D) Box2D {
	return Box2D{
		MinVal: Coord2D{math.Min(b.MinVal.U, o.MinVal.U), math.Min(b.MinVal.W, o.MinVal.W)},
		MaxVal: Coord2D{math.Max(b.MaxVal.U, o.MaxVal.U), math.Max(b.MaxVal.W, o.MaxVal.W)},
	}
}
