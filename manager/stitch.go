package manager

import (
	"fmt"
	"math"

	"github.com/aeromesh/cfdmesh/geom"
	"github.com/aeromesh/cfdmesh/surf"
	"github.com/aeromesh/cfdmesh/surfmesh"
)

// stitchBucketSize is the 3D grid cell size border-stitch candidates are
// bucketed into, per spec section 4.9 ("configurable grid, currently
// 1x1x1").
const stitchBucketSize = 1.0

// stitchMaxIter caps the closest-pair search per bucket, per spec section
// 5's "20 border-edge bucket iterations" progress bound.
const stitchMaxIter = 20

// stitchTolSq is the squared-distance threshold below which two border
// edges are considered coincident and snapped together.
const stitchTolSq = 1e-4

// borderEdgeRef is one candidate border edge: an edge of a live (non-
// deleted) triangle that has no triangle sharing it within its own
// surface's mesh.
type borderEdgeRef struct {
	n0, n1 *surfmesh.Node
}

func (e borderEdgeRef) mid() geom.Coord3D {
	return geom.Mid3(e.n0.Pos, e.n1.Pos)
}

type bucketKey [3]int64

func bucketOf(p geom.Coord3D) bucketKey {
	return bucketKey{
		int64(math.Floor(p.X / stitchBucketSize)),
		int64(math.Floor(p.Y / stitchBucketSize)),
		int64(math.Floor(p.Z / stitchBucketSize)),
	}
}

// stitchBorders finds border edges left over after interior-triangle
// removal and snaps matching pairs together so neighboring surfaces' post-
// remesh meshes reconnect exactly, per spec section 4.9. Wake surfaces and
// non-wake surfaces are stitched in two independent passes (step 12 of
// spec section 5).
func (m *CfdMeshMgr) stitchBorders() {
	var nonWake, wake []borderEdgeRef
	for _, s := range m.Surfs {
		if s.Tri == nil {
			continue
		}
		refs := collectBorderEdges(s)
		if s.WakeFlag {
			wake = append(wake, refs...)
		} else {
			nonWake = append(nonWake, refs...)
		}
	}
	stitchEdgeSet(nonWake)
	stitchEdgeSet(wake)
}

// collectBorderEdges returns every edge of a live triangle in s.Tri that no
// other live triangle in s.Tri shares, keyed purely within this surface's
// own index space (cross-surface sharing is what stitching resolves).
func collectBorderEdges(s *surf.Surf) []borderEdgeRef {
	st := s.Tri
	counts := map[edgeKey]int{}
	for i, t := range st.Tris {
		if st.Delete[i] {
			continue
		}
		for k := 0; k < 3; k++ {
			counts[newEdgeKey(t[k], t[(k+1)%3])]++
		}
	}
	var out []borderEdgeRef
	for i, t := range st.Tris {
		if st.Delete[i] {
			continue
		}
		for k := 0; k < 3; k++ {
			a, b := t[k], t[(k+1)%3]
			if counts[newEdgeKey(a, b)] == 1 {
				out = append(out, borderEdgeRef{n0: st.Pnts[a], n1: st.Pnts[b]})
			}
		}
	}
	return out
}

// stitchEdgeSet buckets candidate border edges by 3D position and
// repeatedly snaps the closest coincident pair together until no bucket
// has a pair closer than stitchTolSq or the iteration cap is hit.
func stitchEdgeSet(edges []borderEdgeRef) {
	buckets := map[bucketKey][]borderEdgeRef{}
	for _, e := range edges {
		k := bucketOf(e.mid())
		buckets[k] = append(buckets[k], e)
	}
	for _, bucket := range buckets {
		stitchBucket(bucket)
	}
}

func stitchBucket(bucket []borderEdgeRef) {
	snapped := make([]bool, len(bucket))
	for iter := 0; iter < stitchMaxIter; iter++ {
		bi, bj, bestD, fwd := -1, -1, stitchTolSq, true
		for i := 0; i < len(bucket); i++ {
			if snapped[i] {
				continue
			}
			for j := i + 1; j < len(bucket); j++ {
				if snapped[j] {
					continue
				}
				a, b := bucket[i], bucket[j]
				if a.n0 == b.n0 && a.n1 == b.n1 {
					continue
				}
				dFwd := a.n0.Pos.Dist(b.n0.Pos) + a.n1.Pos.Dist(b.n1.Pos)
				dRev := a.n0.Pos.Dist(b.n1.Pos) + a.n1.Pos.Dist(b.n0.Pos)
				d, isFwd := dFwd, true
				if dRev < dFwd {
					d, isFwd = dRev, false
				}
				if d*d < bestD {
					bestD, bi, bj, fwd = d*d, i, j, isFwd
				}
			}
		}
		if bi < 0 {
			return
		}
		a, b := bucket[bi], bucket[bj]
		if fwd {
			b.n0.Pos, b.n1.Pos = a.n0.Pos, a.n1.Pos
		} else {
			b.n0.Pos, b.n1.Pos = a.n1.Pos, a.n0.Pos
		}
		snapped[bi], snapped[bj] = true, true
	}
}

// NonManifoldTri names one triangle flagged by WatertightReport as touching
// a border edge or an edge shared by more than two triangles, per spec
// section 4.9's diagnostic output.
type NonManifoldTri struct {
	Surf     *surf.Surf
	TriIndex int
}

// WatertightReport rebuilds edge multiplicity across every surface's live
// (non-deleted) triangles, after assigning a shared global vertex index to
// coincident 3D positions (spec section 4.3's bin-and-tolerance dedup
// rule), and reports the watertight string of spec section 6. Offending
// triangles are left in m.NonManifoldTris for diagnostic output.
func (m *CfdMeshMgr) WatertightReport() string {
	var verts []geom.Coord3D
	bins := map[int64][]int{}
	indexOf := func(p geom.Coord3D) int {
		id := p.BinID()
		for _, cand := range bins[id] {
			if verts[cand].Dist(p) < 1e-9 {
				return cand
			}
		}
		idx := len(verts)
		verts = append(verts, p)
		bins[id] = append(bins[id], idx)
		return idx
	}

	edgeCount := map[edgeKey]int{}
	edgeTris := map[edgeKey][]NonManifoldTri{}

	for _, s := range m.Surfs {
		if s.Tri == nil {
			continue
		}
		for i, t := range s.Tri.Tris {
			if s.Tri.Delete[i] {
				continue
			}
			gi := [3]int{
				indexOf(s.Tri.Pnts[t[0]].Pos),
				indexOf(s.Tri.Pnts[t[1]].Pos),
				indexOf(s.Tri.Pnts[t[2]].Pos),
			}
			for k := 0; k < 3; k++ {
				e := newEdgeKey(gi[k], gi[(k+1)%3])
				edgeCount[e]++
				edgeTris[e] = append(edgeTris[e], NonManifoldTri{s, i})
			}
		}
	}

	borderEdges, overEdges := 0, 0
	m.NonManifoldTris = m.NonManifoldTris[:0]
	for e, c := range edgeCount {
		switch {
		case c == 1:
			borderEdges++
			m.NonManifoldTris = append(m.NonManifoldTris, edgeTris[e]...)
		case c > 2:
			overEdges++
			m.NonManifoldTris = append(m.NonManifoldTris, edgeTris[e]...)
		}
	}

	if borderEdges == 0 && overEdges == 0 {
		return "Is Water Tight\n"
	}
	return fmt.Sprintf("NOT Water Tight : %d Border Edges, %d Edges > 2 Tris\n", borderEdges, overEdges)
}
