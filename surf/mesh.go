package surf

import (
	"github.com/aeromesh/cfdmesh/geom"
	"github.com/aeromesh/cfdmesh/isect"
	"github.com/aeromesh/cfdmesh/surfmesh"
)

// gridInteriorStride controls how many density-grid rows/columns are
// sampled as interior seed points during BuildMesh; every stride'th cell
// (away from the borders) becomes a candidate interior vertex, grounded on
// spec section 4.6's "builds a unique (U,W) vertex set" over the
// tessellated chains plus however many interior points the triangulation
// library needs to honor the target-length field away from edges.
const gridInteriorStride = 4

// BuildMesh constructs this surface's output Mesh from the tessellated
// chains touching it (border chains and/or intersection chains, per spec
// section 4.6): each chain contributes an ordered border loop in this
// surface's (U,W) side, interior points are seeded from the density grid,
// and the whole set is constrained-Delaunay triangulated, remeshed, and
// frozen.
func (s *Surf) BuildMesh(chains []*isect.ISegChain) *surfmesh.SimpTri {
	m := s.NewMesh()

	var loops [][]*surfmesh.Node
	for _, c := range chains {
		if c.SurfA != isect.SurfaceRef(s) && c.SurfB != isect.SurfaceRef(s) {
			continue
		}
		loop := s.chainLoopNodes(m, c)
		if len(loop) >= 3 {
			loops = append(loops, loop)
		}
	}

	interior := s.seedInteriorNodes(m, loops)

	m.TriangulateBorders(loops, interior)
	m.Remesh(s.TargetLenAt)
	m.RemoveRevTris()
	s.Tri = m.Freeze()
	return s.Tri
}

// chainLoopNodes converts one chain's sequence of IPnts into fixed mesh
// nodes on this surface's side. It marks no edges itself: TriangulateBorders
// later marks the edges between consecutive loop nodes as borders, and no
// edge is marked as a ridge.
func (s *Surf) chainLoopNodes(m *surfmesh.Mesh, c *isect.ISegChain) []*surfmesh.Node {
	nodes := make([]*surfmesh.Node, 0, len(c.Segs)+1)
	add := func(p *isect.IPnt) *surfmesh.Node {
		puw, ok := p.PuwOn(s)
		uw := puw.UW
		if !ok {
			uw, _ = s.ClosestUW(p.Pt, geom.Coord2D{}, false)
		}
		return m.AddNode(p.Pt, uw, true)
	}
	nodes = append(nodes, add(c.Segs[0].IPnt[0]))
	for _, seg := range c.Segs {
		nodes = append(nodes, add(seg.IPnt[1]))
	}
	return nodes
}

// seedInteriorNodes samples the density grid for points strictly inside
// every border loop, giving the triangulator interior vertices so the
// target-length field is honored away from edges.
func (s *Surf) seedInteriorNodes(m *surfmesh.Mesh, loops [][]*surfmesh.Node) []*surfmesh.Node {
	if s.Grid == nil {
		return nil
	}
	var out []*surfmesh.Node
	for i := 0; i < s.Core.NumUPatches*10+1; i += gridInteriorStride {
		for j := 0; j < s.Core.NumWPatches*10+1; j += gridInteriorStride {
			u := s.Core.U0 + float64(i)/float64(s.Core.NumUPatches*10)*s.Core.GetDU()
			w := s.Core.W0 + float64(j)/float64(s.Core.NumWPatches*10)*s.Core.GetDW()
			uw := geom.UW(u, w)
			if !insideAllLoops(uw, loops) {
				continue
			}
			pt := s.Core.CompPnt(u, w)
			out = append(out, m.AddNode(pt, uw, false))
		}
	}
	return out
}

// insideAllLoops reports whether uw lies inside the outer loop and outside
// any hole loops, using the same ray-parity rule as subsurf.Contains.
func insideAllLoops(uw geom.Coord2D, loops [][]*surfmesh.Node) bool {
	if len(loops) == 0 {
		return true
	}
	inAny := false
	for _, loop := range loops {
		if pointInNodeLoop(uw, loop) {
			inAny = !inAny
		}
	}
	return inAny
}

func pointInNodeLoop(p geom.Coord2D, loop []*surfmesh.Node) bool {
	n := len(loop)
	inside := false
	j := n - 1
	for i := 0; i < n; i++ {
		pi, pj := loop[i].UW, loop[j].UW
		if (pi.W > p.W) != (pj.W > p.W) {
			uAtW := pi.U + (p.W-pi.W)/(pj.W-pi.W)*(pj.U-pi.U)
			if p.U < uAtW {
				inside = !inside
			}
		}
		j = i
	}
	return inside
}
