package density

import (
	"math"

	"github.com/aeromesh/cfdmesh/geom"
)

// MapSource is one discrete sample of the target-length field, grounded on
// original_source/src/cfd_mesh/MapSource.h's MapSource struct.
type MapSource struct {
	Pt        geom.Coord3D
	Str       float64
	Dominated bool
	SurfID    int
}

// NewMapSource mirrors the original's two-argument constructor.
func NewMapSource(pt geom.Coord3D, str float64, surfID int) *MapSource {
	return &MapSource{Pt: pt, Str: str, SurfID: surfID}
}

// SimpleGridDensity is the run-wide density configuration snapshot copied
// from the settings bundle once per meshing run, grounded on spec section
// 3's SimpleGridDensity data-model row.
type SimpleGridDensity struct {
	BaseLen     float64
	FarMaxLen   float64
	MinLen      float64
	NCircSeg    float64
	FarNCircSeg float64
	MaxGap      float64
	FarMaxGap   float64
	GrowRatio   float64
	RigorLimit  bool
	Sources     []*Source
}

// DefaultSimpleGridDensity matches the CFD mesher's stock defaults.
func DefaultSimpleGridDensity() SimpleGridDensity {
	return SimpleGridDensity{
		BaseLen:     0.5,
		FarMaxLen:   2.0,
		MinLen:      0.001,
		NCircSeg:    16,
		FarNCircSeg: 10,
		MaxGap:      0.005,
		FarMaxGap:   0.1,
		GrowRatio:   1.3,
		RigorLimit:  false,
	}
}

// radFrac returns the curvature bound radFrac = 2*sin(pi/nCircSeg), using
// the original's degenerate small-nCircSeg fallback of 4/nCircSeg.
func radFrac(nCircSeg float64) float64 {
	if nCircSeg < 2 {
		return 4 / nCircSeg
	}
	return 2 * math.Sin(math.Pi/nCircSeg)
}
