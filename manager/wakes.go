package manager

import (
	"github.com/aeromesh/cfdmesh/bezier"
	"github.com/aeromesh/cfdmesh/curve"
	"github.com/aeromesh/cfdmesh/geom"
	"github.com/aeromesh/cfdmesh/isect"
	"github.com/aeromesh/cfdmesh/settings"
	"github.com/aeromesh/cfdmesh/surf"
	"github.com/aeromesh/cfdmesh/wake"
)

// wakeUVTol is the parametric tolerance used to identify which SCurve
// border a sample lies on.
const wakeUVTol = 1e-7

// wakeLink remembers how one generated wake surface attaches to its parent
// wing surface's trailing-edge border, so applyWakeBackrefs can wire the
// two chains together once both are tessellated.
type wakeLink struct {
	wakeSurf     *surf.Surf
	parentSurf   *surf.Surf
	parentBorder *curve.SCurve
}

// buildWakes generates one planar wake surface per WingSurface-typed Surf
// from its trailing-edge border, per spec section 4.5. Wake surfaces are
// appended to m.Surfs but, unlike ordinary surfaces, are not matched
// against the rest of the fleet here: their leading edge is coplanar with
// the parent's trailing-edge border and is wired directly in
// applyWakeBackrefs instead of independently intersected.
func (m *CfdMeshMgr) buildWakes() {
	endX := m.wakeEndX()

	var wings []*surf.Surf
	for _, s := range m.Surfs {
		if s.SurfType == settings.WingSurface && !s.WakeFlag {
			wings = append(wings, s)
		}
	}

	for _, s := range wings {
		te := trailingEdgeBorder(s)
		if te == nil {
			continue
		}
		le := []geom.Coord3D{te.Eval3D(0), te.Eval3D(1)}
		w := wake.NewWake(s.CompID, le, m.Settings.WakeAngleDeg, endX)
		m.Wakes.AddWake(w)

		for _, core := range w.Surfs {
			ws := surf.NewSurf(core, m.nextSurfID, s.GeomID+"-wake", false, settings.CfdNormal)
			m.nextSurfID++
			ws.WakeFlag = true
			ws.WakeParentSurfID = s.SurfID
			ws.CompID = s.CompID
			ws.BuildBorders()
			m.Surfs = append(m.Surfs, ws)
			m.wakeLinks = append(m.wakeLinks, wakeLink{wakeSurf: ws, parentSurf: s, parentBorder: te})
		}
	}
}

// wakeEndX sizes the downstream wake termination plane as a multiple of the
// combined geometry's max-x extent, per spec section 4.5's WakeEndXScale.
func (m *CfdMeshMgr) wakeEndX() float64 {
	box := m.combinedBoundingBox()
	scale := m.Settings.WakeEndXScale
	if scale <= 0 {
		scale = 2
	}
	return box.MaxVal.X * scale
}

// trailingEdgeBorder picks s's UMax border as its trailing edge: the
// surface's wing parameterization runs leading-edge-to-trailing-edge along
// U, per original_source/src/cfd_mesh/WakeMgr.cpp's GetLeadingEdge (called
// on the surface's aft border).
func trailingEdgeBorder(s *surf.Surf) *curve.SCurve {
	for _, b := range s.Borders {
		mid := b.EvalUW(0.5)
		if border, ok := s.Core.UWPointOnBorder(mid.U, mid.W, wakeUVTol); ok && border == bezier.UMax {
			return b
		}
	}
	return nil
}

// applyWakeBackrefs wires each wake's leading-edge border chain to its
// parent's trailing-edge border chain, per spec section 4.5 ("a wake's
// leading-edge chain copies its parent border chain's tessellation
// verbatim"): the wake chain's own segments are discarded and rebuilt from
// the parent chain's points, reprojected onto the wake surface.
func (m *CfdMeshMgr) applyWakeBackrefs() {
	for _, link := range m.wakeLinks {
		parentChain := m.findBorderChainFor(link.parentSurf, link.parentBorder)
		wakeChain := m.findWakeLEChain(link.wakeSurf)
		if parentChain == nil || wakeChain == nil {
			continue
		}
		wake.AttachBackref(wakeChain, parentChain)
		m.copyChainOnto(wakeChain, parentChain, link.wakeSurf)
	}
}

func (m *CfdMeshMgr) findBorderChainFor(s *surf.Surf, sc *curve.SCurve) *isect.ISegChain {
	for _, c := range m.Chains {
		if !c.BorderFlag || c.SurfA != isect.SurfaceRef(s) || len(c.Segs) == 0 {
			continue
		}
		if approxOnSCurveEnds(c.Front().Pt, c.Back().Pt, sc) {
			return c
		}
	}
	return nil
}

func approxOnSCurveEnds(front, back geom.Coord3D, sc *curve.SCurve) bool {
	a, b := sc.Eval3D(0), sc.Eval3D(1)
	const tol = 1e-5
	return (front.Dist(a) < tol && back.Dist(b) < tol) || (front.Dist(b) < tol && back.Dist(a) < tol)
}

// findWakeLEChain locates the wake surface's own border chain whose
// endpoints lie on its UMin edge, the attach edge per wake.buildSurface's
// row-0 construction.
func (m *CfdMeshMgr) findWakeLEChain(ws *surf.Surf) *isect.ISegChain {
	for _, c := range m.Chains {
		if !c.BorderFlag || c.SurfA != isect.SurfaceRef(ws) || len(c.Segs) == 0 {
			continue
		}
		puw, ok := c.Front().PuwOn(ws)
		if !ok {
			continue
		}
		if border, ok := ws.Core.UWPointOnBorder(puw.UW.U, puw.UW.W, wakeUVTol); ok && border == bezier.UMin {
			return c
		}
	}
	return nil
}

// copyChainOnto overwrites wakeChain's segments with parentChain's 3D
// positions, re-deriving the wake side's (U,W) by projection so the copied
// chain still lies exactly on the wake surface.
func (m *CfdMeshMgr) copyChainOnto(wakeChain, parentChain *isect.ISegChain, ws *surf.Surf) {
	n := len(parentChain.Segs) + 1
	newPnts := make([]*isect.IPnt, n)
	var guess geom.Coord2D
	hasGuess := false
	for i := 0; i < n; i++ {
		var p *isect.IPnt
		if i == 0 {
			p = parentChain.Front()
		} else {
			p = parentChain.Segs[i-1].IPnt[1]
		}
		uw, _ := ws.ClosestUW(p.Pt, guess, hasGuess)
		guess, hasGuess = uw, true
		parentPuw, _ := p.PuwOn(parentChain.SurfA)
		newPnts[i] = isect.NewIPnt(p.Pt, parentPuw, isect.Puw{Surf: ws, UW: uw})
	}
	rebuilt := isect.NewBorderChain(ws, newPnts)
	wakeChain.Segs = rebuilt.Segs
}
