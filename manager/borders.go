package manager

import (
	"github.com/aeromesh/cfdmesh/curve"
	"github.com/aeromesh/cfdmesh/isect"
	"github.com/aeromesh/cfdmesh/surf"
)

// buildBordersAndMatch finds each surface's border SCurves and pairs them
// across surfaces into ICurves, per spec section 4.2.
func (m *CfdMeshMgr) buildBordersAndMatch() {
	for _, s := range m.Surfs {
		s.BuildBorders()
	}

	for i := 0; i < len(m.Surfs); i++ {
		for j := i + 1; j < len(m.Surfs); j++ {
			a, b := m.Surfs[i], m.Surfs[j]
			matched, _, _ := curve.MatchBorders(a.Borders, b.Borders, curve.DefaultMatchTol)
			m.ICurves = append(m.ICurves, matched...)
		}
	}

	// Any SCurve that never matched becomes an open-boundary ICurve with a
	// nil B side, per spec section 4.2.
	used := make(map[*curve.SCurve]bool)
	for _, ic := range m.ICurves {
		used[ic.SCurveA] = true
		if ic.SCurveB != nil {
			used[ic.SCurveB] = true
		}
	}
	for _, s := range m.Surfs {
		for _, b := range s.Borders {
			if !used[b] {
				m.ICurves = append(m.ICurves, &curve.ICurve{SCurveA: b})
			}
		}
	}
}

// surfOwning finds the Surf whose border SCurves include sc, resolved by
// SurfCore pointer identity (an SCurve only ever belongs to one surface's
// border set).
func (m *CfdMeshMgr) surfOwning(sc *curve.SCurve) *surf.Surf {
	for _, s := range m.Surfs {
		if s.Core != sc.Core {
			continue
		}
		for _, b := range s.Borders {
			if b == sc {
				return s
			}
		}
	}
	return nil
}

// refreshBorderChains rebuilds every ICurve's border ISegChain from its
// current tessellation, grounded on spec section 4.3's "border chains are
// constructed directly from the (already-matched) ICurve tessellations".
func (m *CfdMeshMgr) refreshBorderChains() {
	var chains []*isect.ISegChain
	for _, c := range m.Chains {
		if !c.BorderFlag {
			chains = append(chains, c)
		}
	}
	for _, ic := range m.ICurves {
		if chain := m.buildBorderChain(ic); chain != nil {
			chains = append(chains, chain)
		}
	}
	m.Chains = chains
}

func (m *CfdMeshMgr) buildBorderChain(ic *curve.ICurve) *isect.ISegChain {
	sa := m.surfOwning(ic.SCurveA)
	if sa == nil || len(ic.SCurveA.UWTess) < 2 {
		return nil
	}

	var sb *surf.Surf
	if ic.SCurveB != nil {
		sb = m.surfOwning(ic.SCurveB)
	}

	n := len(ic.SCurveA.UWTess)
	pnts := make([]*isect.IPnt, n)
	for i := 0; i < n; i++ {
		uwA := ic.SCurveA.UWTess[i]
		pt := ic.SCurveA.Core.CompPnt(uwA.U, uwA.W)
		puwA := isect.Puw{Surf: sa, UW: uwA}
		if sb != nil && i < len(ic.SCurveB.UWTess) {
			uwB := ic.SCurveB.UWTess[i]
			puwB := isect.Puw{Surf: sb, UW: uwB}
			pnts[i] = isect.NewIPnt(pt, puwA, puwB)
		} else {
			pnts[i] = &isect.IPnt{Pt: pt, Puws: []isect.Puw{puwA}}
		}
	}

	refB := isect.SurfaceRef(sa)
	if sb != nil {
		refB = sb
	}
	chain := isect.NewBorderChain(sa, pnts)
	chain.SurfB = refB
	return chain
}
