// Package geom provides the vector, segment, and bounding-box primitives
// shared by every layer of the meshing pipeline.
package geom

import "math"

// Coord3D is a point or vector in 3D space.
type Coord3D struct {
	X, Y, Z float64
}

// XYZ creates a Coord3D from three components.
func XYZ(x, y, z float64) Coord3D {
	return Coord3D{X: x, Y: y, Z: z}
}

func (c Coord3D) Add(c1 Coord3D) Coord3D {
	return Coord3D{c.X + c1.X, c.Y + c1.Y, c.Z + c1.Z}
}

func (c Coord3D) Sub(c1 Coord3D) Coord3D {
	return Coord3D{c.X - c1.X, c.Y - c1.Y, c.Z - c1.Z}
}

func (c Coord3D) Scale(s float64) Coord3D {
	return Coord3D{c.X * s, c.Y * s, c.Z * s}
}

func (c Coord3D) Dot(c1 Coord3D) float64 {
	return c.X*c1.X + c.Y*c1.Y + c.Z*c1.Z
}

func (c Coord3D) Cross(c1 Coord3D) Coord3D {
	return Coord3D{
		c.Y*c1.Z - c.Z*c1.Y,
		c.Z*c1.X - c.X*c1.Z,
		c.X*c1.Y - c.Y*c1.X,
	}
}

func (c Coord3D) Norm() float64 {
	return math.Sqrt(c.Dot(c))
}

func (c Coord3D) Dist(c1 Coord3D) float64 {
	return c.Sub(c1).Norm()
}

func (c Coord3D) Normalize() Coord3D {
	n := c.Norm()
	if n == 0 {
		return c
	}
	return c.Scale(1 / n)
}

func (c Coord3D) Min(c1 Coord3D) Coord3D {
	return Coord3D{math.Min(c.X, c1.X), math.Min(c.Y, c1.Y), math.Min(c.Z, c1.Z)}
}

func (c Coord3D) Max(c1 Coord3D) Coord3D {
	return Coord3D{math.Max(c.X, c1.X), math.Max(c.Y, c1.Y), math.Max(c.Z, c1.Z)}
}

func (c Coord3D) Array() [3]float64 {
	return [3]float64{c.X, c.Y, c.Z}
}

// BinID buckets a 3D point into the spatial hash used by isect.IPntBins and
// by the point dedup of surfmesh.Freeze, export and the watertight report:
// floor((x+y+z)*1e4).
func (c Coord3D) BinID() int64 {
	return int64(math.Floor((c.X + c.Y + c.Z) * 1e4))
}

// Coord2D is a point in a surface's (U,W) parametric domain.
type Coord2D struct {
	U, W float64
}

func UW(u, w float64) Coord2D {
	return Coord2D{U: u, W: w}
}

func (c Coord2D) Add(c1 Coord2D) Coord2D {
	return Coord2D{c.U + c1.U, c.W + c1.W}
}

func (c Coord2D) Sub(c1 Coord2D) Coord2D {
	return Coord2D{c.U - c1.U, c.W - c1.W}
}

func (c Coord2D) Scale(s float64) Coord2D {
	return Coord2D{c.U * s, c.W * s}
}

func (c Coord2D) Norm() float64 {
	return math.Sqrt(c.U*c.U + c.W*c.W)
}

func (c Coord2D) Dist(c1 Coord2D) float64 {
	return c.Sub(c1).Norm()
}

// Mid3 and Mid2 return the midpoint between two coordinates; they are kept
// as two free functions rather than one generic helper since Coord3D/Coord2D
// arithmetic is this small.
func Mid3(a, b Coord3D) Coord3D {
	return a.Add(b).Scale(0.5)
}

func Mid2(a, b Coord2D) Coord2D {
	return a.Add(b).Scale(0.5)
}
