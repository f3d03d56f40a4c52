package manager

import (
	"github.com/aeromesh/cfdmesh/isect"
	"github.com/aeromesh/cfdmesh/surf"
)

// patchIsectRelTol is the planarity tolerance (relative to each patch's
// bounding-box diagonal) used when deciding a patch pair is flat enough to
// intersect directly, per spec section 4.3.
const patchIsectRelTol = 1e-4

// intersectAllPairs builds patch trees for every surface and runs
// IntersectPatchTrees over every pair whose trees were requested, per spec
// section 4.3's pairwise-intersection step. Far-field surfaces still
// participate: they trim everything else to the domain box.
func (m *CfdMeshMgr) intersectAllPairs() []*isect.ISeg {
	for _, s := range m.Surfs {
		if s.Patches == nil {
			s.BuildPatches()
		}
	}

	var segs []*isect.ISeg
	for i := 0; i < len(m.Surfs); i++ {
		for j := i + 1; j < len(m.Surfs); j++ {
			a, b := m.Surfs[i], m.Surfs[j]
			if !shouldIntersect(a, b) {
				continue
			}
			pair := isect.IntersectPatchTrees(a, a.Patches, b, b.Patches, patchIsectRelTol)
			segs = append(segs, pair...)
		}
	}
	return segs
}

// shouldIntersect skips a wake surface paired with its own parent wing: the
// shared leading edge is wired directly by applyWakeBackrefs rather than
// discovered by patch intersection, per spec section 4.5.
func shouldIntersect(a, b *surf.Surf) bool {
	if a.WakeFlag && a.WakeParentSurfID == b.SurfID {
		return false
	}
	if b.WakeFlag && b.WakeParentSurfID == a.SurfID {
		return false
	}
	return true
}
