package manager

import (
	"fmt"

	"github.com/aeromesh/cfdmesh/geom"
	"github.com/aeromesh/cfdmesh/settings"
	"github.com/aeromesh/cfdmesh/surf"
	"github.com/aeromesh/cfdmesh/surfmesh"
	"github.com/unixpickle/essentials"
)

// rayPerturb nudges a ray's origin off the triangle centroid in y,z so the
// +x cast doesn't graze another triangle's edge, per spec section 4.8.
const rayPerturb = 1e-4

// compGroup is every surface sharing one CompID after CleanMergeSurfs, with
// a representative CfdType used by the delete rule table. Surfaces within
// a component are assumed to share one CfdType in practice (they descend
// from the same transfer batch); the first surface's type stands in for
// the group's.
type compGroup struct {
	id      int
	cfdType settings.CfdType
	isFar   bool
	surfs   []*surf.Surf
}

func (m *CfdMeshMgr) groupsByComponent() []compGroup {
	byID := map[int]*compGroup{}
	var order []int
	for _, s := range m.Surfs {
		g, ok := byID[s.CompID]
		if !ok {
			g = &compGroup{id: s.CompID, cfdType: s.CfdType, isFar: s.FarFlag}
			byID[s.CompID] = g
			order = append(order, s.CompID)
		}
		g.surfs = append(g.surfs, s)
		if s.FarFlag {
			g.isFar = true
		}
	}
	out := make([]compGroup, 0, len(order))
	for _, id := range order {
		out = append(out, *byID[id])
	}
	return out
}

// classifyAndTrim casts an inside/outside ray from every triangle centroid
// against every other component, smooths the raw per-triangle parity with
// a face-ring vote, and sets each triangle's delete flag from the rule
// table of spec section 4.8. Half-mesh trimming (spec section 4.8's "every
// non-symmetry triangle with centroid y < -1e-10") runs last.
func (m *CfdMeshMgr) classifyAndTrim() {
	groups := m.groupsByComponent()
	for _, s := range m.Surfs {
		if s.Tri == nil || s.Tri.NumTris() == 0 {
			continue
		}
		m.classifySurf(s, groups)
	}
	if m.Settings.HalfMesh {
		m.trimHalfMesh(groups)
	}
}

func triCentroid(st *surfmesh.SimpTri, i int) geom.Coord3D {
	t := st.Tris[i]
	p0, p1, p2 := st.Pnts[t[0]].Pos, st.Pnts[t[1]].Pos, st.Pnts[t[2]].Pos
	return p0.Add(p1).Add(p2).Scale(1.0 / 3)
}

func (m *CfdMeshMgr) classifySurf(s *surf.Surf, groups []compGroup) {
	st := s.Tri
	n := st.NumTris()
	centroids := make([]geom.Coord3D, n)
	for i := range st.Tris {
		centroids[i] = triCentroid(st, i)
	}

	raw := make([]map[int]bool, n)
	essentials.ConcurrentMap(0, n, func(i int) {
		row := make(map[int]bool, len(groups))
		for _, g := range groups {
			if g.id == s.CompID {
				continue
			}
			flip := s.SymPlaneFlag && g.isFar
			row[g.id] = rayInsideComponent(centroids[i], g, flip)
		}
		raw[i] = row
	})

	adjacency := buildFaceAdjacency(st)

	for i := range st.Tris {
		final := make(map[int]bool, len(groups))
		for _, g := range groups {
			if g.id == s.CompID {
				continue
			}
			sum := ringVote(i, g.id, raw, adjacency)
			switch {
			case sum > 0:
				final[g.id] = true
			case sum < 0:
				final[g.id] = false
			default:
				m.emit(fmt.Sprintf("surf %d tri %d: zero inside/outside vote against component %d, treating as outside", s.SurfID, i, g.id))
				final[g.id] = false
			}
		}
		st.Delete[i] = deleteDecision(s.CfdType, s.SymPlaneFlag, groups, final)
	}
}

// rayInsideComponent casts a +x ray from p against every triangle of every
// surface in g (using post-remesh mesh triangles, per spec section 4.8),
// returning true on an odd crossing count. flip accounts for symmetry-plane
// triangles tested against the far-field box, which count one extra
// crossing per spec section 4.8.
func rayInsideComponent(p geom.Coord3D, g compGroup, flip bool) bool {
	ray := geom.Ray{Origin: p.Add(geom.XYZ(0, rayPerturb, rayPerturb)), Direction: geom.XYZ(1, 0, 0)}
	count := 0
	for _, gs := range g.surfs {
		if gs.Tri == nil {
			continue
		}
		for _, tri := range gs.Tri.Tris {
			a, b, c := gs.Tri.Pnts[tri[0]].Pos, gs.Tri.Pnts[tri[1]].Pos, gs.Tri.Pnts[tri[2]].Pos
			if _, hit := ray.IntersectTriangle(a, b, c); hit {
				count++
			}
		}
	}
	if flip {
		count++
	}
	return count%2 == 1
}

// edgeKey is an order-independent vertex-index pair identifying a shared
// mesh edge within one SimpTri's index space.
type edgeKey struct{ a, b int }

func newEdgeKey(a, b int) edgeKey {
	if a > b {
		a, b = b, a
	}
	return edgeKey{a, b}
}

// buildFaceAdjacency maps each triangle to the triangles it shares an edge
// with, used by ringVote's 3-level face-ring walk.
func buildFaceAdjacency(st *surfmesh.SimpTri) [][]int {
	byEdge := map[edgeKey][]int{}
	for i, t := range st.Tris {
		for k := 0; k < 3; k++ {
			e := newEdgeKey(t[k], t[(k+1)%3])
			byEdge[e] = append(byEdge[e], i)
		}
	}
	adj := make([][]int, len(st.Tris))
	for _, tris := range byEdge {
		if len(tris) < 2 {
			continue
		}
		for _, i := range tris {
			for _, j := range tris {
				if i != j {
					adj[i] = append(adj[i], j)
				}
			}
		}
	}
	return adj
}

// ringVote sums +1/-1 raw votes (inside/outside component gid) over
// triangle i and its 3-level face-ring (direct neighbors, their neighbors,
// and their neighbors' neighbors), per spec section 4.8's adjacency voting.
func ringVote(i, gid int, raw []map[int]bool, adjacency [][]int) int {
	visited := map[int]bool{i: true}
	frontier := []int{i}
	sum := voteSign(raw[i][gid])
	for level := 0; level < 3; level++ {
		var next []int
		for _, f := range frontier {
			for _, nb := range adjacency[f] {
				if visited[nb] {
					continue
				}
				visited[nb] = true
				sum += voteSign(raw[nb][gid])
				next = append(next, nb)
			}
		}
		frontier = next
	}
	return sum
}

func voteSign(inside bool) int {
	if inside {
		return 1
	}
	return -1
}

func groupType(groups []compGroup, id int) settings.CfdType {
	for _, g := range groups {
		if g.id == id {
			return g.cfdType
		}
	}
	return settings.CfdNormal
}

func groupIsFar(groups []compGroup, id int) bool {
	for _, g := range groups {
		if g.id == id {
			return g.isFar
		}
	}
	return false
}

// deleteDecision applies spec section 4.8's rule table. Negative surfaces
// default to deleted (they only matter where they carve a host solid);
// every other type defaults to kept.
func deleteDecision(at settings.CfdType, isSym bool, groups []compGroup, final map[int]bool) bool {
	del := at == settings.CfdNegative
	for gid, inside := range final {
		if !inside {
			continue
		}
		bt := groupType(groups, gid)
		switch {
		case at == settings.CfdNormal && bt == settings.CfdNormal:
			del = true
		case at == settings.CfdNegative && bt == settings.CfdNegative:
			del = true
		case at == settings.CfdNormal && bt == settings.CfdNegative:
			del = true
		case at == settings.CfdTransparent && bt == settings.CfdNegative:
			del = false
		case at == settings.CfdNegative && bt == settings.CfdNormal:
			del = false
		case at == settings.CfdTransparent && bt == settings.CfdNormal:
			del = true
		}
		if isSym && groupIsFar(groups, gid) && inside {
			del = true
		}
	}
	return del
}

// trimHalfMesh deletes every non-symmetry triangle whose centroid falls on
// the mirrored side (y < -1e-10) and, unless a far-field component is kept,
// every symmetry-plane triangle, per spec section 4.8.
func (m *CfdMeshMgr) trimHalfMesh(groups []compGroup) {
	keepFar := m.Settings.FarField.Enabled && m.Settings.FarField.KeepSurf
	for _, s := range m.Surfs {
		if s.Tri == nil {
			continue
		}
		for i := range s.Tri.Tris {
			c := triCentroid(s.Tri, i)
			if !s.SymPlaneFlag && c.Y < -1e-10 {
				s.Tri.Delete[i] = true
			} else if s.SymPlaneFlag && !keepFar {
				s.Tri.Delete[i] = true
			}
		}
	}
}
