package manager

import (
	"github.com/aeromesh/cfdmesh/geom"
	"github.com/aeromesh/cfdmesh/subsurf"
	"github.com/aeromesh/cfdmesh/surf"
)

// meshAllSurfaces triangulates every surface from the chains discovered so
// far, per spec section 4.6, then tags each triangle with its base
// component tag plus any enclosing subsurface tags, per spec section 4.7.
func (m *CfdMeshMgr) meshAllSurfaces() {
	for _, s := range m.Surfs {
		s.BuildMesh(m.Chains)
		tagSurfaceTriangles(s)
	}
}

func tagSurfaceTriangles(s *surf.Surf) {
	st := s.Tri
	for i := 0; i < st.NumTris(); i++ {
		t := st.Tris[i]
		centroid := geom.UW(
			(st.Pnts[t[0]].UW.U+st.Pnts[t[1]].UW.U+st.Pnts[t[2]].UW.U)/3,
			(st.Pnts[t[0]].UW.W+st.Pnts[t[1]].UW.W+st.Pnts[t[2]].UW.W)/3,
		)
		tags := subsurf.TagsFor(s.CompID, s.SubSurfs, centroid)
		st.Tags[i] = tags
		st.TagID[i] = tags[0]
	}
}
