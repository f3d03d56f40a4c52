// Package export writes the file formats spec section 6 names as the CFD
// solver's downstream consumers: STL, TetGen .poly, NASCART .dat, Cart3D
// .tri, OBJ, Gmsh 2.2 ascii, and the custom .srf intermediate dump.
//
// Grounded on model3d/export.go's writer shape (bufio + fmt, errors.Wrap
// at the file-I/O boundary; every writer runs sequentially) and on
// original_source/src/cfd_mesh/CfdMeshMgr.cpp's per-format field ordering.
package export

import (
	"github.com/aeromesh/cfdmesh/geom"
	"github.com/aeromesh/cfdmesh/manager"
	"github.com/aeromesh/cfdmesh/surf"
)

// Tri is one live (non-deleted) output triangle plus the Surf it came
// from, the minimal shape every exporter in this package needs.
type Tri struct {
	Surf *surf.Surf
	V    [3]geom.Coord3D
	Tag  int
	Tags []int
}

// CollectLiveTriangles flattens every surface's non-deleted triangles into
// one list, grounded on spec section 6's "per surface, a packed SimpTri
// list ... and integer tag vector" output contract.
func CollectLiveTriangles(m *manager.CfdMeshMgr) []Tri {
	var out []Tri
	for _, s := range m.Surfs {
		if s.Tri == nil {
			continue
		}
		for i, t := range s.Tri.Tris {
			if s.Tri.Delete[i] {
				continue
			}
			out = append(out, Tri{
				Surf: s,
				V: [3]geom.Coord3D{
					s.Tri.Pnts[t[0]].Pos,
					s.Tri.Pnts[t[1]].Pos,
					s.Tri.Pnts[t[2]].Pos,
				},
				Tag:  s.Tri.TagID[i],
				Tags: s.Tri.Tags[i],
			})
		}
	}
	return out
}

// IndexedPoints is a deduplicated point list plus the per-triangle index
// triples into it, the shape every indexed format (TetGen, NASCART, Cart3D,
// OBJ, Gmsh) needs.
type IndexedPoints struct {
	Points []geom.Coord3D
	Tris   [][3]int
}

// BuildIndexedPoints deduplicates triangle vertices across the whole live
// triangle set within 1e-9, grounded on model3d/export.go's
// BuildMaterialOBJ coordinate map and spec section 8's BuildIndMap
// point-dedup property (same position, same index).
func BuildIndexedPoints(tris []Tri) IndexedPoints {
	bins := map[int64][]int{}
	var pts []geom.Coord3D
	indexOf := func(p geom.Coord3D) int {
		id := p.BinID()
		for _, cand := range bins[id] {
			if pts[cand].Dist(p) < 1e-9 {
				return cand
			}
		}
		idx := len(pts)
		pts = append(pts, p)
		bins[id] = append(bins[id], idx)
		return idx
	}
	out := make([][3]int, len(tris))
	for i, t := range tris {
		out[i] = [3]int{indexOf(t.V[0]), indexOf(t.V[1]), indexOf(t.V[2])}
	}
	return IndexedPoints{Points: pts, Tris: out}
}

// triNormal computes a triangle's face normal the way spec section 6's STL
// writer requires: cross(p1-p0, p2-p1), normalized.
func triNormal(a, b, c geom.Coord3D) geom.Coord3D {
	return b.Sub(a).Cross(c.Sub(b)).Normalize()
}
