package surfmesh

// SimpTri is the frozen, indexed triangle-soup view of a Mesh, grounded on
// original_source/src/cfd_mesh/CfdMeshMgr.cpp's final simp_tri export pass:
// coincident 3D points across faces collapse to a single index via the
// spec section 4.3 bin rule (floor((x+y+z)*1e4)) at 1e-12 tolerance.
type SimpTri struct {
	Pnts  []*Node
	Tris  [][3]int
	TagID []int

	// Tags holds the full subsurface-tag set per triangle (spec section
	// 4.7's "{baseTag} plus every enclosing subsurface tag"); TagID mirrors
	// Tags[i][0] for callers that only need the base tag. Set by manager
	// after Freeze, once the owning Surf's SubSurfs are known.
	Tags [][]int

	// Delete marks triangles removed during inside/outside classification
	// (spec section 4.8); Freeze leaves every triangle live.
	Delete []bool
}

// Freeze assigns a stable index to every live node reachable from a live
// face, deduplicating nodes whose 3D positions coincide within 1e-12, and
// returns the resulting triangle soup. TagID carries one integer per
// triangle, defaulting to 0 (callers such as manager set these to
// subsurface/component ids after the fact).
func (m *Mesh) Freeze() *SimpTri {
	m.compact()

	bins := make(map[int64][]int)
	var pnts []*Node

	indexOf := func(n *Node) int {
		id := n.Pos.BinID()
		for _, cand := range bins[id] {
			if pnts[cand].Pos.Dist(n.Pos) < 1e-12 {
				n.index = cand
				return cand
			}
		}
		idx := len(pnts)
		pnts = append(pnts, n)
		bins[id] = append(bins[id], idx)
		n.index = idx
		return idx
	}

	var tris [][3]int
	for _, f := range m.Faces {
		if f.dead {
			continue
		}
		i0 := indexOf(f.Nodes[0])
		i1 := indexOf(f.Nodes[1])
		i2 := indexOf(f.Nodes[2])
		tris = append(tris, [3]int{i0, i1, i2})
	}

	return &SimpTri{
		Pnts:   pnts,
		Tris:   tris,
		TagID:  make([]int, len(tris)),
		Tags:   make([][]int, len(tris)),
		Delete: make([]bool, len(tris)),
	}
}

// NumVerts returns the deduplicated vertex count.
func (s *SimpTri) NumVerts() int { return len(s.Pnts) }

// NumTris returns the triangle count.
func (s *SimpTri) NumTris() int { return len(s.Tris) }
