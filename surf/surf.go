// Package surf ties one surface's bezier evaluator, density grid, border
// curves, intersection patch tree, and output mesh into a single owned
// unit, grounded on original_source/src/cfd_mesh/Surf.{h,cpp} and spec
// section 3's Surf data-model row.
package surf

import (
	"github.com/aeromesh/cfdmesh/bezier"
	"github.com/aeromesh/cfdmesh/curve"
	"github.com/aeromesh/cfdmesh/density"
	"github.com/aeromesh/cfdmesh/geom"
	"github.com/aeromesh/cfdmesh/settings"
	"github.com/aeromesh/cfdmesh/subsurf"
	"github.com/aeromesh/cfdmesh/surfmesh"
)

// Surf is one trimmed bezier patch plus everything derived from it during
// meshing, grounded on spec section 3's Surf row: surfcore, compID,
// unmergedCompID, surfID, geomID, flipFlag, cfdType, wakeFlag,
// wakeParentSurfID, symPlaneFlag, farFlag, densityGrid, borderSCurves,
// patchTree, mesh.
type Surf struct {
	Core *bezier.SurfCore

	SurfID    int
	GeomID    string
	CompID    int // group id after CleanMergeSurfs; -1 until assigned
	UnmergedCompID int

	FlipFlag bool
	CfdType  settings.CfdType
	SurfType settings.SurfaceType

	WakeFlag         bool
	WakeParentSurfID int

	SymPlaneFlag bool
	FarFlag      bool

	Grid    *density.Grid
	Borders []*curve.SCurve
	Patches []*bezier.SurfPatch
	Mesh    *surfmesh.Mesh
	Tri     *surfmesh.SimpTri

	SubSurfs []*subsurf.SimpleSubSurface
}

// NewSurf wraps a bezier core with the identity and classification fields
// carried in from the transfer record.
func NewSurf(core *bezier.SurfCore, surfID int, geomID string, flip bool, cfdType settings.CfdType) *Surf {
	return &Surf{
		Core:           core,
		SurfID:         surfID,
		GeomID:         geomID,
		CompID:         -1,
		UnmergedCompID: -1,
		FlipFlag:       flip,
		CfdType:        cfdType,
	}
}

// ID satisfies isect.SurfaceRef.
func (s *Surf) ID() int { return s.SurfID }

// ClosestUW satisfies isect.SurfaceRef, delegating to the underlying
// bezier evaluator's Newton-style closest-point search.
func (s *Surf) ClosestUW(pt geom.Coord3D, guess geom.Coord2D, hasGuess bool) (geom.Coord2D, float64) {
	return s.Core.FindNearestPt(pt, guess, hasGuess)
}

// BuildPatches populates the flat patch tree used for pairwise
// intersection, per spec section 4.1.
func (s *Surf) BuildPatches() {
	s.Patches = bezier.PatchesFromSurfCore(s.Core)
}

// BuildTargetMap/LimitTargetMap/InterpTargetMap/ApplyES wire Surf to the
// density package exactly as spec section 4.1 describes; isSymmetryPlane
// selects the finer 100x grid multiplier for the seam surface.
func (s *Surf) BuildTargetMap(cfg density.SimpleGridDensity) {
	s.Grid = density.BuildTargetMap(s.Core, cfg, s.SurfID, s.SymPlaneFlag)
}

func (s *Surf) LimitTargetMap(growRatio float64) {
	s.Grid.LimitTargetMap(growRatio)
}

func (s *Surf) InterpTargetMap(u, w float64) float64 {
	return s.Grid.InterpTargetMap(u, w)
}

func (s *Surf) ApplyES(u, w, t float64) {
	s.Grid.ApplyES(u, w, t)
}

// BuildBorders constructs the surface's (up to four) border SCurves, per
// spec section 4.2.
func (s *Surf) BuildBorders() {
	s.Borders = curve.FindBorderCurves(s.Core, s.Grid)
}

// NewMesh allocates this surface's output Mesh, wiring its ClosestUW
// projection back to this Surf so every remesh move re-lands on the
// surface.
func (s *Surf) NewMesh() *surfmesh.Mesh {
	m := surfmesh.NewMesh()
	m.ClosestUW = s.ClosestUW
	m.EvalUW = s.Core.CompPnt
	s.Mesh = m
	return m
}

// TargetLenAt is the per-(u,w) target-length function Remesh/border-edge
// freezing needs, delegating to the density grid.
func (s *Surf) TargetLenAt(u, w float64) float64 {
	return s.Grid.InterpTargetMap(u, w)
}
