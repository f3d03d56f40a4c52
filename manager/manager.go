// Package manager implements the top-level meshing orchestrator, grounded
// on original_source/src/cfd_mesh/CfdMeshMgr.{h,cpp} and spec section 5's
// strict phase ordering.
package manager

import (
	"github.com/aeromesh/cfdmesh/bezier"
	"github.com/aeromesh/cfdmesh/curve"
	"github.com/aeromesh/cfdmesh/density"
	"github.com/aeromesh/cfdmesh/isect"
	"github.com/aeromesh/cfdmesh/settings"
	"github.com/aeromesh/cfdmesh/subsurf"
	"github.com/aeromesh/cfdmesh/surf"
	"github.com/aeromesh/cfdmesh/wake"
)

// CfdMeshMgr owns every Surf, wake, and intersection artifact for one
// meshing run. Pointer identity is the unit of equality throughout the
// pipeline (spec section 5's shared-resource policy); there is no deep
// copying. The one place data is shared across goroutines is
// classification's per-triangle ray casting, which reads the surfaces'
// meshes in parallel without writing them.
type CfdMeshMgr struct {
	Settings settings.SimpleMeshSettings

	Surfs []*surf.Surf
	Wakes wake.WakeMgr

	ICurves []*curve.ICurve
	Chains  []*isect.ISegChain

	// NonManifoldTris is populated by WatertightReport with every triangle
	// touching a border edge or an over-shared edge, for diagnostic output.
	NonManifoldTris []NonManifoldTri

	// Progress is the free-form output-text sink described in spec section
	// 6; nil is a valid no-op sink.
	Progress func(string)

	nextSurfID int
	wakeLinks  []wakeLink
}

func (m *CfdMeshMgr) emit(msg string) {
	if m.Progress != nil {
		m.Progress(msg)
	}
}

// LoadSurfaces converts the geometry collaborator's transfer records into
// owned Surfs, per spec section 6's input contract.
func (m *CfdMeshMgr) LoadSurfaces(xfers []settings.XferSurf) {
	for _, x := range xfers {
		core := bezier.NewSurfCore(x.NumU, x.NumW, x.U0, x.Umax, x.W0, x.Wmax, x.Ctrl)
		s := surf.NewSurf(core, m.nextSurfID, x.GeomID, x.FlipFlag, x.CfdSurfType)
		m.nextSurfID++
		s.WakeFlag = x.IsWake
		s.WakeParentSurfID = x.WakeParentSurf
		s.UnmergedCompID = x.CompIndex
		s.SurfType = x.SurfType
		for i, loop := range x.SubSurfLines {
			s.SubSurfs = append(s.SubSurfs, &subsurf.SimpleSubSurface{Tag: i + 1, Loop: loop})
		}
		m.Surfs = append(m.Surfs, s)
	}
}

// GenerateMesh runs the full pipeline in the 12-step order spec section 5
// requires. It never panics on invalid input; degenerate cases emit a
// progress line and the affected phase is a no-op (spec section 7).
func (m *CfdMeshMgr) GenerateMesh() (string, error) {
	if len(m.Surfs) == 0 {
		m.emit("no surfaces loaded")
		return "Is Water Tight\n", nil
	}

	// 1. surfaces loaded and duplicates merged.
	m.CleanMergeSurfs(1e-7)

	// 2. sources updated and wake LE polylines collected (sources already
	// live on m.Settings.Density.Sources; LE polylines are derived directly
	// from each wing surf's trailing-edge border inside buildWakes).

	// 3. far-field domain surfaces created.
	m.buildFarField()

	// 4. border SCurves found, ICurves matched.
	m.buildBordersAndMatch()

	// 5. wake surfaces created and appended.
	m.buildWakes()

	// 6. target-map built. Border SCurves were constructed in step 4 before
	// any Grid existed, so their Grid pointer is refreshed here now that
	// BuildTargetMap has one (SCurve.Tessellate, in step 8, is the first
	// thing that dereferences it).
	for _, s := range m.Surfs {
		s.BuildTargetMap(m.Settings.Density)
	}
	for _, s := range m.Surfs {
		s.LimitTargetMap(m.Settings.Density.GrowRatio)
	}
	if m.Settings.Density.RigorLimit {
		m.rigorousLimitAll()
	}
	for _, s := range m.Surfs {
		for _, b := range s.Borders {
			b.Grid = s.Grid
		}
	}

	// 7. pairwise intersection and chain building. Chains are not split at
	// each other's endpoints or at mutual crossings here.
	segs := m.intersectAllPairs()
	m.Chains = isect.BuildChains(segs)

	// 8. chain tessellation and endpoint merging.
	for _, ic := range m.ICurves {
		ic.TessellateShared()
	}
	m.refreshBorderChains()
	isect.MergeIPntGroups(m.Chains, m.Settings.Density.MinLen/100)

	// 9. wake-coplanar chain addition: wake LE chains copy their parent
	// border chain's tessellation verbatim.
	m.applyWakeBackrefs()

	// 10. per-surface meshing.
	m.meshAllSurfaces()

	// 11. interior triangle removal.
	m.classifyAndTrim()

	// 12. border-edge stitching (non-wake then wake).
	m.stitchBorders()

	return m.WatertightReport(), nil
}

// rigorousLimitAll tightens every surface's target-length grid against
// every other surface's grid points, per spec section 4.1's rigorous
// cross-surface limiting pass (gated on Settings.Density.RigorLimit). Each
// surface's own points are excluded from the kd-tree built for it, per the
// original's rule that a surface never rigor-limits against itself.
func (m *CfdMeshMgr) rigorousLimitAll() {
	var allPts []*density.MapSource
	for _, s := range m.Surfs {
		if s.Grid != nil {
			allPts = append(allPts, s.Grid.AllPoints()...)
		}
	}
	if len(allPts) == 0 {
		return
	}
	for _, s := range m.Surfs {
		if s.Grid == nil {
			continue
		}
		tree := density.BuildKDTree(allPts, s.Grid.SurfID())
		density.RigorousLimit(s.Grid, tree, m.Settings.Density.GrowRatio, m.Settings.Density.MinLen)
	}
}
