package manager

import "github.com/aeromesh/cfdmesh/surf"

// CleanMergeSurfs drops duplicate (mirror-image or exact-copy) surfaces
// using SurfCore.SurfMatch's 8-fold symmetry test. Running it twice on
// already-merged surfaces is a no-op: SurfMatch is symmetric, so no
// survivor of the first pass matches any other survivor, per spec section
// 8's idempotence property.
func (m *CfdMeshMgr) CleanMergeSurfs(tol float64) {
	sqTol := tol * tol
	var kept []*surf.Surf
	for _, s := range m.Surfs {
		dup := false
		for _, k := range kept {
			if s.Core.SurfMatch(k.Core, sqTol) {
				dup = true
				break
			}
		}
		if !dup {
			kept = append(kept, s)
		}
	}
	m.Surfs = kept

	for _, s := range m.Surfs {
		if s.CompID < 0 {
			s.CompID = s.UnmergedCompID
		}
	}
}
