package density

import (
	"sort"

	"github.com/aeromesh/cfdmesh/geom"
)

// kdNode is a node of a 3D kd-tree over MapSource points, hand-rolled in the
// absence of any kd-tree library in the example pack (the teacher itself
// hand-rolls spatial partitioning in model3d/parameterization.go rather
// than reaching for an external geometry library).
type kdNode struct {
	point       *MapSource
	axis        int
	left, right *kdNode
}

// KDTree supports the radius queries RigorousLimit needs: "every point
// within r of q", mirroring the original's nanoflann-backed MSCloud/MSTree.
type KDTree struct {
	root *kdNode
}

// BuildKDTree indexes every MapSource in points whose SurfID differs from
// excludeSurfID, reproducing the original's verbatim rule that a surface's
// own sources are excluded from its own rigorous-limiting query tree.
func BuildKDTree(points []*MapSource, excludeSurfID int) *KDTree {
	var filtered []*MapSource
	for _, p := range points {
		if p.SurfID != excludeSurfID {
			filtered = append(filtered, p)
		}
	}
	return &KDTree{root: buildKDNode(filtered, 0)}
}

func buildKDNode(points []*MapSource, depth int) *kdNode {
	if len(points) == 0 {
		return nil
	}
	axis := depth % 3
	sort.Slice(points, func(i, j int) bool {
		return axisValue(points[i].Pt, axis) < axisValue(points[j].Pt, axis)
	})
	mid := len(points) / 2
	node := &kdNode{point: points[mid], axis: axis}
	node.left = buildKDNode(points[:mid], depth+1)
	node.right = buildKDNode(points[mid+1:], depth+1)
	return node
}

func axisValue(c geom.Coord3D, axis int) float64 {
	switch axis {
	case 0:
		return c.X
	case 1:
		return c.Y
	default:
		return c.Z
	}
}

// RadiusSearch returns every indexed point within radius r of q.
func (t *KDTree) RadiusSearch(q geom.Coord3D, r float64) []*MapSource {
	var out []*MapSource
	r2 := r * r
	var walk func(n *kdNode)
	walk = func(n *kdNode) {
		if n == nil {
			return
		}
		if n.point.Pt.Dist(q)*n.point.Pt.Dist(q) <= r2 {
			out = append(out, n.point)
		}
		diff := axisValue(q, n.axis) - axisValue(n.point.Pt, n.axis)
		if diff < 0 {
			walk(n.left)
			if diff*diff <= r2 {
				walk(n.right)
			}
		} else {
			walk(n.right)
			if diff*diff <= r2 {
				walk(n.left)
			}
		}
	}
	walk(t.root)
	return out
}

// RigorousLimit tightens every cell of grid g against the kd-tree of other
// surfaces' grid points, per spec section 4.1: query within radius
// (len-minmap)/(growRatio-1) and tighten accordingly.
func RigorousLimit(g *Grid, tree *KDTree, growRatio, minLen float64) {
	for _, row := range g.Cells {
		for _, cell := range row {
			r := (cell.Str - minLen) / (growRatio - 1)
			if r <= 0 {
				continue
			}
			for _, other := range tree.RadiusSearch(cell.Pt, r) {
				dist := cell.Pt.Dist(other.Pt)
				limited := other.Str + dist*(growRatio-1)
				if limited < cell.Str {
					cell.Str = limited
				}
			}
		}
	}
}
