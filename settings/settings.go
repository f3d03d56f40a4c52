// Package settings holds the run-wide configuration snapshot and the
// geometry-transfer record handed in from the CAD/geometry collaborator,
// grounded on spec section 6's External Interfaces and
// original_source/src/cfd_mesh/CfdMeshMgr.h's settings fields.
package settings

import (
	"github.com/aeromesh/cfdmesh/density"
	"github.com/aeromesh/cfdmesh/geom"
)

// SurfaceType distinguishes the three geometry collaborator surface kinds.
type SurfaceType int

const (
	NormalSurface SurfaceType = iota
	WingSurface
	DiskSurface
)

// CfdType classifies how a surface participates in inside/outside
// trimming (spec section 4.8's rule table).
type CfdType int

const (
	CfdNormal CfdType = iota
	CfdNegative
	CfdTransparent
	CfdStructure
)

func (t CfdType) String() string {
	switch t {
	case CfdNormal:
		return "normal"
	case CfdNegative:
		return "negative"
	case CfdTransparent:
		return "transparent"
	case CfdStructure:
		return "structure"
	default:
		return "unknown"
	}
}

// XferSurf is one transfer record from the geometry collaborator, grounded
// on original_source/src/cfd_mesh/SurfaceIntersectionMgr.h's XferSurf.
type XferSurf struct {
	GeomID         string
	SplitIndex     int
	CompIndex      int
	SurfType       SurfaceType
	CfdSurfType    CfdType
	FlipFlag       bool
	NumU, NumW     int
	U0, Umax       float64
	W0, Wmax       float64
	Ctrl           [][]geom.Coord3D
	WakeParentSurf int // only meaningful when this record is itself a wake
	IsWake         bool

	// SubSurfLines are 2D (U,W) polyline loops tagging regions of this
	// surface, per spec section 6.
	SubSurfLines [][]geom.Coord2D
}

// FarFieldSpec configures the optional far-field domain box, per spec
// section 6.
type FarFieldSpec struct {
	Enabled    bool
	UseScale   bool
	Scale      float64
	ManualBox  bool
	Min, Max   geom.Coord3D
	KeepSurf   bool
}

// ExportSpec bundles the file-export flags and destination paths named in
// spec section 6.
type ExportSpec struct {
	WriteSTL, WriteTetGenPoly, WriteNascart, WriteCart3D bool
	WriteOBJ, WriteGmsh, WriteSRF                        bool
	StlTaggedSolids                                      bool

	STLPath, PolyPath, NascartPath, Cart3DPath string
	OBJPath, GmshPath, SRFPath                 string
}

// SimpleMeshSettings is the run-wide configuration snapshot copied from the
// editor once per meshing run, grounded on
// original_source/src/cfd_mesh/CfdMeshMgr.h.
type SimpleMeshSettings struct {
	Density density.SimpleGridDensity

	HalfMesh          bool
	SymSplitting      bool
	IntersectSubSurfs bool

	WakeEndXScale float64 // endX = WakeEndXScale * bbox max-x
	WakeAngleDeg  float64

	FarField FarFieldSpec
	Export   ExportSpec

	SelectedSetIndex int
}

// DefaultSimpleMeshSettings matches the stock run-wide defaults.
func DefaultSimpleMeshSettings() SimpleMeshSettings {
	return SimpleMeshSettings{
		Density:       density.DefaultSimpleGridDensity(),
		HalfMesh:      false,
		SymSplitting:  false,
		WakeEndXScale: 2.0,
		WakeAngleDeg:  5.0,
		FarField:      FarFieldSpec{Enabled: false},
	}
}
