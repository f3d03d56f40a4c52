// Package bezier implements the piecewise polynomial (non-rational, no
// control-point weights) Bezier surface evaluator
// and patch tree used for surface-surface intersection, grounded on
// original_source/src/cfd_mesh/{BezierCurve,SurfCore,SurfPatch}.{h,cpp}.
package bezier

// Vector constrains the point/vector types a Curve can be built from: both
// geom.Coord3D (3D control nets) and geom.Coord2D (parametric (U,W) border
// curves) satisfy this with their existing Add/Scale methods.
type Vector[T any] interface {
	Add(T) T
	Scale(float64) T
}

// Curve is a single Bezier segment (arbitrary degree, determined by
// len(Pts)-1). Corresponds to one segment of the original's piecewise
// curve_segment_type.
type Curve[T Vector[T]] struct {
	Pts []T
}

func NewCurve[T Vector[T]](pts ...T) *Curve[T] {
	return &Curve[T]{Pts: append([]T{}, pts...)}
}

// Eval computes the curve position at parameter t in [0, 1] via de
// Casteljau's algorithm.
func (c *Curve[T]) Eval(t float64) T {
	pts := append([]T{}, c.Pts...)
	for len(pts) > 1 {
		next := make([]T, len(pts)-1)
		for i := range next {
			next[i] = pts[i].Scale(1 - t).Add(pts[i+1].Scale(t))
		}
		pts = next
	}
	return pts[0]
}

// Split performs de Casteljau subdivision at parameter t, returning the two
// child curves whose concatenation reproduces c exactly.
func (c *Curve[T]) Split(t float64) (left, right *Curve[T]) {
	n := len(c.Pts)
	tri := make([][]T, n)
	tri[0] = append([]T{}, c.Pts...)
	for k := 1; k < n; k++ {
		row := make([]T, n-k)
		prev := tri[k-1]
		for i := range row {
			row[i] = prev[i].Scale(1 - t).Add(prev[i+1].Scale(t))
		}
		tri[k] = row
	}
	leftPts := make([]T, n)
	rightPts := make([]T, n)
	for k := 0; k < n; k++ {
		leftPts[k] = tri[k][0]
		rightPts[n-1-k] = tri[k][len(tri[k])-1]
	}
	return &Curve[T]{Pts: leftPts}, &Curve[T]{Pts: rightPts}
}

// First returns the curve's start point.
func (c *Curve[T]) First() T { return c.Pts[0] }

// Last returns the curve's end point.
func (c *Curve[T]) Last() T { return c.Pts[len(c.Pts)-1] }

// Flip reverses the control-point order in place and returns the receiver.
func (c *Curve[T]) Flip() *Curve[T] {
	for i, j := 0, len(c.Pts)-1; i < j; i, j = i+1, j-1 {
		c.Pts[i], c.Pts[j] = c.Pts[j], c.Pts[i]
	}
	return c
}

// A Curve's degree is len(Pts)-1 and there is no separate degree accessor;
// the mesher only ever builds cubic (4-point) or linear (2-point) curves,
// matching the original's degree-3 border curves and linear SCurve borders.
