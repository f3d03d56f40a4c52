// Package isect builds intersection segments between surface pairs and
// assembles them into ordered chains, grounded on
// original_source/src/cfd_mesh/{ISegChain,Surf}.cpp.
package isect

import "github.com/aeromesh/cfdmesh/geom"

// SurfaceRef is the minimal surface capability isect needs: identity for
// equality/grouping, and a closest-point projection for lifting 3D
// intersection points back into (U,W). The surf package's Surf type
// satisfies this; isect depends only on the interface to stay below surf
// in the package layout (surf owns the patch tree isect recurses over).
type SurfaceRef interface {
	ID() int
	ClosestUW(pt geom.Coord3D, guess geom.Coord2D, hasGuess bool) (geom.Coord2D, float64)
}

// Puw is a (U,W) coordinate on a specific surface, grounded on
// original_source/src/cfd_mesh/Puw.h.
type Puw struct {
	Surf SurfaceRef
	UW   geom.Coord2D
}
