package export

import (
	"bufio"
	"fmt"
	"os"

	"github.com/pkg/errors"

	"github.com/aeromesh/cfdmesh/isect"
	"github.com/aeromesh/cfdmesh/manager"
)

// WriteSRF writes the custom .srf dump of spec section 6: a component
// list (compID -> surfIDs), the cubic bezier surface list (SurfCore
// control nets), the border-curve list (paired (Au,Aw,Bu,Bw) samples from
// every ICurve; an unmatched one repeats its A-side (u,w) as the B side),
// and the intersect-curve list in the same shape
// from each non-border chain. This is the one export format generated
// entirely from the CORE's own intermediate state, per SPEC_FULL's
// supplemented-features note.
func WriteSRF(path string, m *manager.CfdMeshMgr) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "write SRF")
	}
	defer f.Close()
	w := bufio.NewWriter(f)

	writeSRFComponents(w, m)
	writeSRFSurfaces(w, m)
	writeSRFBorderCurves(w, m)
	writeSRFIntersectCurves(w, m)

	return w.Flush()
}

func writeSRFComponents(w *bufio.Writer, m *manager.CfdMeshMgr) {
	byComp := map[int][]int{}
	var order []int
	for _, s := range m.Surfs {
		if _, ok := byComp[s.CompID]; !ok {
			order = append(order, s.CompID)
		}
		byComp[s.CompID] = append(byComp[s.CompID], s.SurfID)
	}
	fmt.Fprintf(w, "NUM_COMPONENTS %d\n", len(order))
	for _, compID := range order {
		fmt.Fprintf(w, "COMPONENT %d", compID)
		for _, sid := range byComp[compID] {
			fmt.Fprintf(w, " %d", sid)
		}
		w.WriteString("\n")
	}
}

func writeSRFSurfaces(w *bufio.Writer, m *manager.CfdMeshMgr) {
	fmt.Fprintf(w, "NUM_SURFACES %d\n", len(m.Surfs))
	for _, s := range m.Surfs {
		c := s.Core
		fmt.Fprintf(w, "SURFACE %d %d %d %g %g %g %g\n",
			s.SurfID, c.NumUPatches, c.NumWPatches, c.U0, c.Umax, c.W0, c.Wmax)
		for _, row := range c.Ctrl {
			for _, p := range row {
				fmt.Fprintf(w, "%g %g %g ", p.X, p.Y, p.Z)
			}
			w.WriteString("\n")
		}
	}
}

func writeSRFBorderCurves(w *bufio.Writer, m *manager.CfdMeshMgr) {
	fmt.Fprintf(w, "NUM_BORDER_CURVES %d\n", len(m.ICurves))
	for _, ic := range m.ICurves {
		a := ic.SCurveA
		n := len(a.UWTess)
		fmt.Fprintf(w, "BORDER_CURVE %d\n", n)
		for i, auw := range a.UWTess {
			buw := auw
			if ic.SCurveB != nil && i < len(ic.SCurveB.UWTess) {
				buw = ic.SCurveB.UWTess[i]
			}
			fmt.Fprintf(w, "%g %g %g %g\n", auw.U, auw.W, buw.U, buw.W)
		}
	}
}

func writeSRFIntersectCurves(w *bufio.Writer, m *manager.CfdMeshMgr) {
	var nonBorder []int
	for i, c := range m.Chains {
		if !c.BorderFlag {
			nonBorder = append(nonBorder, i)
		}
	}
	fmt.Fprintf(w, "NUM_INTERSECT_CURVES %d\n", len(nonBorder))
	for _, i := range nonBorder {
		c := m.Chains[i]
		pts := chainIPnts(c)
		fmt.Fprintf(w, "INTERSECT_CURVE %d\n", len(pts))
		for _, p := range pts {
			pa, _ := p.PuwOn(c.SurfA)
			pb, _ := p.PuwOn(c.SurfB)
			fmt.Fprintf(w, "%g %g %g %g\n", pa.UW.U, pa.UW.W, pb.UW.U, pb.UW.W)
		}
	}
}

// chainIPnts returns a chain's ordered sequence of IPnts: the front
// endpoint of the first segment, then the trailing endpoint of every
// segment, mirroring surf.Surf.chainLoopNodes' traversal.
func chainIPnts(c *isect.ISegChain) []*isect.IPnt {
	pts := make([]*isect.IPnt, 0, len(c.Segs)+1)
	pts = append(pts, c.Segs[0].IPnt[0])
	for _, seg := range c.Segs {
		pts = append(pts, seg.IPnt[1])
	}
	return pts
}
