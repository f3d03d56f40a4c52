// Package wake builds trailing-edge wake surfaces for wing-typed surfaces
// and stretches them for far-field resolution, grounded on
// original_source/src/cfd_mesh/{Wake,WakeMgr}.{h,cpp} and spec section 4.5.
package wake

import (
	"math"

	"github.com/aeromesh/cfdmesh/bezier"
	"github.com/aeromesh/cfdmesh/geom"
	"github.com/aeromesh/cfdmesh/isect"
	"github.com/aeromesh/cfdmesh/surfmesh"
)

// leMatchTol is the maximum distance between a wake's leading-edge
// endpoint and a candidate border chain's endpoint for the two to be
// considered attached, per spec section 4.5.
const leMatchTol = 1e-8

// Wake is one trailing-edge wake: a leading-edge polyline (the wing's
// trailing edge in 3D), the border ICurve-equivalent chains it attaches
// to, and the generated wake surface core(s), grounded on spec section 3's
// Wake data-model row.
type Wake struct {
	CompID int
	LE     []geom.Coord3D

	AttachChains []*isect.ISegChain

	AngleDeg float64
	EndX     float64

	Surfs []*bezier.SurfCore
}

// NewWake builds a planar wake surface swept back from a trailing-edge
// polyline: the wake surface extends from each LE point to x=endX, offset
// in z by angleDeg of sweep, per spec section 4.5 ("a planar (swept-back
// by angle to endX) wake surface").
func NewWake(compID int, le []geom.Coord3D, angleDeg, endX float64) *Wake {
	w := &Wake{CompID: compID, LE: le, AngleDeg: angleDeg, EndX: endX}
	w.Surfs = append(w.Surfs, w.buildSurface())
	return w
}

// buildSurface constructs a single bicubic patch spanning the LE polyline
// (reduced to its two endpoints, since a wake is planar) to the downstream
// plane at x=endX, with a linear z-offset following the sweep angle.
func (w *Wake) buildSurface() *bezier.SurfCore {
	if len(w.LE) < 2 {
		panic("wake: leading-edge polyline needs at least two points")
	}
	p0, p1 := w.LE[0], w.LE[len(w.LE)-1]
	tan := math.Tan(w.AngleDeg * math.Pi / 180)

	trail := func(p geom.Coord3D) geom.Coord3D {
		dx := w.EndX - p.X
		return geom.XYZ(w.EndX, p.Y, p.Z+dx*tan)
	}
	q0, q1 := trail(p0), trail(p1)

	net := make([][]geom.Coord3D, 4)
	for i := 0; i < 4; i++ {
		t := float64(i) / 3
		lerp := func(a, b geom.Coord3D) geom.Coord3D { return a.Add(b.Sub(a).Scale(t)) }
		net[i] = []geom.Coord3D{lerp(p0, p1), lerp(p0, p1), lerp(q0, q1), lerp(q0, q1)}
	}

	return bezier.NewSurfCore(1, 1, 0, 1, 0, 1, net)
}

// MatchLE identifies which border chains this wake attaches to: a chain
// matches when both its front and back 3D endpoints lie within leMatchTol
// of the LE polyline, per spec section 4.5.
func (w *Wake) MatchLE(candidates []*isect.ISegChain) {
	w.AttachChains = w.AttachChains[:0]
	for _, c := range candidates {
		if onPolyline(c.Front().Pt, w.LE) && onPolyline(c.Back().Pt, w.LE) {
			w.AttachChains = append(w.AttachChains, c)
		}
	}
}

func onPolyline(p geom.Coord3D, le []geom.Coord3D) bool {
	for i := 0; i+1 < len(le); i++ {
		if distToSeg(p, le[i], le[i+1]) < leMatchTol {
			return true
		}
	}
	return len(le) == 1 && p.Dist(le[0]) < leMatchTol
}

func distToSeg(p, a, b geom.Coord3D) float64 {
	ab := b.Sub(a)
	denom := ab.Dot(ab)
	if denom < 1e-18 {
		return p.Dist(a)
	}
	t := p.Sub(a).Dot(ab) / denom
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return p.Dist(a.Add(ab.Scale(t)))
}

// WakeMgr owns every wake generated for a meshing run.
type WakeMgr struct {
	Wakes []*Wake
}

// AddWake appends a newly built wake.
func (m *WakeMgr) AddWake(w *Wake) { m.Wakes = append(m.Wakes, w) }

// StretchWakes stretches every wake vertex beyond startStretchX according
// to spec section 4.5's formula: fract = (x-startStretchX)/(endX-
// startStretchX); stretched x = startStretchX + (x-startStretchX)*(1 +
// (scale-1)*fract^2); z is re-projected along the wake's sweep angle so the
// stretched vertex stays on the planar wake surface.
func StretchWakes(wakes []*Wake, scale, startStretchX float64, wakeMeshes []*surfmesh.Mesh) {
	for i, w := range wakes {
		if i >= len(wakeMeshes) || wakeMeshes[i] == nil {
			continue
		}
		tan := math.Tan(w.AngleDeg * math.Pi / 180)
		span := w.EndX - startStretchX
		if span <= 0 {
			continue
		}
		for _, n := range wakeMeshes[i].Nodes {
			if n.Pos.X <= startStretchX {
				continue
			}
			fract := (n.Pos.X - startStretchX) / span
			newX := startStretchX + (n.Pos.X-startStretchX)*(1+(scale-1)*fract*fract)
			dz := (newX - n.Pos.X) * tan
			n.Pos.X = newX
			n.Pos.Z += dz
		}
	}
}

// AttachBackref sets the wake-attach back-reference on one wake
// leading-edge chain, per spec section 4.5: a wake's leading-edge chain copies
// its parent (non-wake) border chain's tessellation verbatim.
func AttachBackref(wakeLEChain, parentBorderChain *isect.ISegChain) {
	wakeLEChain.WakeAttachChain = parentBorderChain
}
