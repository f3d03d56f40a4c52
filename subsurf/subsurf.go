// Package subsurf tags mesh triangles with extra integer tags for 2D
// polygons defined in a surface's (U,W) domain, grounded on
// original_source/src/cfd_mesh/SubSurface.{h,cpp} and spec section 8
// scenario 6.
package subsurf

import "github.com/aeromesh/cfdmesh/geom"

// SimpleSubSurface is a single closed polygon in (U,W) carrying one tag
// id, per spec section 6's "subsurface line segments per geom".
type SimpleSubSurface struct {
	Tag int
	Loop []geom.Coord2D
}

// Contains reports whether uw falls inside the polygon, using the same
// ray-parity test surfmesh's pointInLoop applies to (U,W) mesh border loops
// (here specialized to a single closed 2D polygon, no multi-loop nesting).
func (s *SimpleSubSurface) Contains(uw geom.Coord2D) bool {
	n := len(s.Loop)
	if n < 3 {
		return false
	}
	inside := false
	j := n - 1
	for i := 0; i < n; i++ {
		pi, pj := s.Loop[i], s.Loop[j]
		if (pi.W > uw.W) != (pj.W > uw.W) {
			uAtW := pi.U + (uw.W-pi.W)/(pj.W-pi.W)*(pj.U-pi.U)
			if uw.U < uAtW {
				inside = !inside
			}
		}
		j = i
	}
	return inside
}

// TagsFor returns the base surface tag plus the tag of every subsurface
// whose polygon contains centroidUW, per spec section 6's output-tag
// contract ("the base surface tag plus any subsurface tags whose 2D
// polygons contain the triangle centroid").
func TagsFor(baseTag int, subs []*SimpleSubSurface, centroidUW geom.Coord2D) []int {
	tags := []int{baseTag}
	for _, s := range subs {
		if s.Contains(centroidUW) {
			tags = append(tags, s.Tag)
		}
	}
	return tags
}
