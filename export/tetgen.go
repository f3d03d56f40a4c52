package export

import (
	"bufio"
	"fmt"
	"os"

	"github.com/pkg/errors"

	"github.com/aeromesh/cfdmesh/geom"
	"github.com/aeromesh/cfdmesh/manager"
	"github.com/aeromesh/cfdmesh/settings"
)

// WriteTetGenPoly writes the TetGen .poly format of spec section 6: part 1
// (1-based node list), part 2 (one facet per triangle), part 3 (one hole
// point per non-far, non-negative solid component), part 4 (empty region
// list).
func WriteTetGenPoly(path string, m *manager.CfdMeshMgr) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "write TetGen poly")
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	ip := BuildIndexedPoints(CollectLiveTriangles(m))

	fmt.Fprintf(w, "%d 3 0 0\n", len(ip.Points))
	for i, p := range ip.Points {
		fmt.Fprintf(w, "%d %g %g %g\n", i+1, p.X, p.Y, p.Z)
	}

	fmt.Fprintf(w, "%d 0\n", len(ip.Tris))
	for _, t := range ip.Tris {
		w.WriteString("1\n")
		fmt.Fprintf(w, "3 %d %d %d\n", t[0]+1, t[1]+1, t[2]+1)
	}

	holes := holePoints(m)
	fmt.Fprintf(w, "%d\n", len(holes))
	for i, h := range holes {
		fmt.Fprintf(w, "%d %g %g %g\n", i+1, h.X, h.Y, h.Z)
	}

	w.WriteString("0\n")
	return w.Flush()
}

// holePoints estimates one interior point per solid (non-far, non-negative)
// component, offset from its mean triangle centroid opposite the mean face
// normal, which TetGen uses to mark that component's volume as a hole (not
// tetrahedralized) rather than fluid.
func holePoints(m *manager.CfdMeshMgr) []geom.Coord3D {
	type accum struct {
		centroidSum, normalSum geom.Coord3D
		n                      int
	}
	byComp := map[int]*accum{}
	for _, s := range m.Surfs {
		if s.Tri == nil || s.FarFlag || s.CfdType == settings.CfdNegative {
			continue
		}
		a, ok := byComp[s.CompID]
		if !ok {
			a = &accum{}
			byComp[s.CompID] = a
		}
		for i, t := range s.Tri.Tris {
			if s.Tri.Delete[i] {
				continue
			}
			p0, p1, p2 := s.Tri.Pnts[t[0]].Pos, s.Tri.Pnts[t[1]].Pos, s.Tri.Pnts[t[2]].Pos
			c := p0.Add(p1).Add(p2).Scale(1.0 / 3)
			a.centroidSum = a.centroidSum.Add(c)
			a.normalSum = a.normalSum.Add(triNormal(p0, p1, p2))
			a.n++
		}
	}
	var out []geom.Coord3D
	for _, a := range byComp {
		if a.n == 0 {
			continue
		}
		centroid := a.centroidSum.Scale(1.0 / float64(a.n))
		normal := a.normalSum.Scale(1.0 / float64(a.n)).Normalize()
		out = append(out, centroid.Sub(normal.Scale(1e-3)))
	}
	return out
}
