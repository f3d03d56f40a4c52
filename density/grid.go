package density

import (
	"math"

	"github.com/aeromesh/cfdmesh/bezier"
	"github.com/aeromesh/cfdmesh/geom"
	"github.com/unixpickle/essentials"
	"github.com/unixpickle/splaytree"
)

// Grid is one surface's (npatchU*k+1) x (npatchW*k+1) target-length map,
// grounded on original_source/src/cfd_mesh/Surf.cpp's BuildTargetMap /
// LimitTargetMap / InterpTargetMap / ApplyES quartet.
type Grid struct {
	Cells [][]*MapSource

	u0, w0, du, dw float64
	nu, nw         int
	surfID         int
}

// interiorK and symmetryK are the grid-density multipliers the original
// uses for interior surfaces versus the symmetry plane (finer, since it
// carries the seam of the half-mesh).
const (
	interiorK = 10
	symmetryK = 100
)

// BuildTargetMap builds the density grid for one surface: a curvature-bound
// length, a source-driven length, and the global base length all floor each
// cell, never below minLen.
func BuildTargetMap(core *bezier.SurfCore, cfg SimpleGridDensity, surfID int, isSymmetryPlane bool) *Grid {
	k := interiorK
	if isSymmetryPlane {
		k = symmetryK
	}
	nu := core.NumUPatches*k + 1
	nw := core.NumWPatches*k + 1

	g := &Grid{
		Cells:  make([][]*MapSource, nu),
		u0:     core.U0,
		w0:     core.W0,
		du:     core.GetDU() / float64(nu-1),
		dw:     core.GetDW() / float64(nw-1),
		nu:     nu,
		nw:     nw,
		surfID: surfID,
	}

	gap := cfg.MaxGap
	rf := radFrac(cfg.NCircSeg)

	for i := 0; i < nu; i++ {
		g.Cells[i] = make([]*MapSource, nw)
		u := g.u0 + float64(i)*g.du
		for j := 0; j < nw; j++ {
			w := g.w0 + float64(j)*g.dw
			p := core.CompPnt(u, w)

			curvLen := curvatureLength(core, u, w, gap, rf)
			srcLen := sourceLength(cfg.Sources, p, cfg.BaseLen)

			target := math.Min(curvLen, math.Min(srcLen, cfg.BaseLen))
			if target < cfg.MinLen {
				target = cfg.MinLen
			}

			ms := NewMapSource(p, target, surfID)
			g.Cells[i][j] = ms
		}
	}
	return g
}

// curvatureLength implements spec section 4.1's curvature-length formula:
// kappa = max(|k1|,|k2|); if kappa*gap <= gap then
// sqrt(2*gap/kappa - gap*gap)*2, else 2*gap; also bounded by radFrac/kappa.
// Near-zero curvature (kappa < 1e-9) imposes no bound and returns +Inf;
// probing a small interior offset at a degenerate tangent is done inside
// CompCurvature.
func curvatureLength(core *bezier.SurfCore, u, w, gap, rf float64) float64 {
	k1, k2, _, _ := core.CompCurvature(u, w)
	kappa := math.Max(math.Abs(k1), math.Abs(k2))
	if kappa < 1e-9 {
		return math.Inf(1)
	}

	var lenFromGap float64
	if kappa*gap <= gap {
		lenFromGap = math.Sqrt(2*gap/kappa-gap*gap) * 2
	} else {
		lenFromGap = 2 * gap
	}

	lenFromRad := rf / kappa
	return math.Min(lenFromGap, lenFromRad)
}

func sourceLength(sources []*Source, p geom.Coord3D, base float64) float64 {
	best := base
	for _, s := range sources {
		if l := s.GetTargetLen(base, p); l < best {
			best = l
		}
	}
	return best
}

// relaxNode is one grid cell's entry in LimitTargetMap's priority queue,
// grounded on model3d/parameterization.go's meshDiscsQueueNode: a
// splaytree.Tree node ordered by a numeric key with a UID tiebreak, swapped
// out of the tree and reinserted whenever its key improves.
type relaxNode struct {
	str  float64
	i, j int
	uid  int
}

// Compare orders nodes so the tree's Max is always the smallest-Str,
// lowest-UID entry: lower Str must win, the inverse of the teacher's
// highest-NormalDot-first ordering, since this queue drains in ascending
// target-length order rather than descending similarity.
func (n *relaxNode) Compare(o *relaxNode) int {
	if n.str != o.str {
		if n.str < o.str {
			return 1
		}
		return -1
	}
	if n.uid != o.uid {
		if n.uid < o.uid {
			return 1
		}
		return -1
	}
	return 0
}

// SurfID returns the id of the surface this grid was built for, the
// exclusion key RigorousLimit's kd-tree needs.
func (g *Grid) SurfID() int {
	return g.surfID
}

// AllPoints flattens every cell into a single slice, the shape
// BuildKDTree's cross-surface index needs.
func (g *Grid) AllPoints() []*MapSource {
	pts := make([]*MapSource, 0, g.nu*g.nw)
	for _, row := range g.Cells {
		pts = append(pts, row...)
	}
	return pts
}

// LimitTargetMap runs the growth-ratio relaxation described in spec section
// 4.1 as a multi-source Dijkstra walk over the grid's 4-connected graph:
// every cell starts in the queue at its current target length, and each
// pop finalizes the smallest remaining length before relaxing its
// neighbors to at most finalized+dist*(growRatio-1). Since growRatio-1 is
// never negative, this is a standard non-negative-edge shortest-path
// relaxation and converges in one queue drain rather than the bounded
// number of sorted passes a simpler scheme would need.
func (g *Grid) LimitTargetMap(growRatio float64) {
	type key struct{ i, j int }
	tree := &splaytree.Tree[*relaxNode]{}
	live := make(map[key]*relaxNode, g.nu*g.nw)

	uid := 0
	for i := 0; i < g.nu; i++ {
		for j := 0; j < g.nw; j++ {
			n := &relaxNode{str: g.Cells[i][j].Str, i: i, j: j, uid: uid}
			uid++
			live[key{i, j}] = n
			tree.Insert(n)
		}
	}

	for {
		best := tree.Max()
		if best == nil {
			break
		}
		tree.Delete(best)
		delete(live, key{best.i, best.j})
		g.Cells[best.i][best.j].Str = best.str

		for _, n := range g.neighbors(best.i, best.j) {
			cur, ok := live[key{n.i, n.j}]
			if !ok {
				continue
			}
			dist := g.Cells[best.i][best.j].Pt.Dist(g.Cells[n.i][n.j].Pt)
			limited := best.str + dist*(growRatio-1)
			if limited < cur.str {
				tree.Delete(cur)
				updated := &relaxNode{str: limited, i: n.i, j: n.j, uid: cur.uid}
				live[key{n.i, n.j}] = updated
				tree.Insert(updated)
			}
		}
	}
}

type cellIdx struct{ i, j int }

func (g *Grid) neighbors(i, j int) []cellIdx {
	var out []cellIdx
	if i > 0 {
		out = append(out, cellIdx{i - 1, j})
	}
	if i < g.nu-1 {
		out = append(out, cellIdx{i + 1, j})
	}
	if j > 0 {
		out = append(out, cellIdx{i, j - 1})
	}
	if j < g.nw-1 {
		out = append(out, cellIdx{i, j + 1})
	}
	return out
}

// InterpTargetMap bilinearly interpolates the target length at (u,w).
func (g *Grid) InterpTargetMap(u, w float64) float64 {
	fi := (u - g.u0) / g.du
	fj := (w - g.w0) / g.dw

	i0 := essentials.MaxInt(0, essentials.MinInt(g.nu-2, int(math.Floor(fi))))
	j0 := essentials.MaxInt(0, essentials.MinInt(g.nw-2, int(math.Floor(fj))))
	i1, j1 := i0+1, j0+1

	tu := fi - float64(i0)
	tw := fj - float64(j0)
	tu = clamp01(tu)
	tw = clamp01(tw)

	v00 := g.Cells[i0][j0].Str
	v10 := g.Cells[i1][j0].Str
	v01 := g.Cells[i0][j1].Str
	v11 := g.Cells[i1][j1].Str

	top := v00*(1-tu) + v10*tu
	bot := v01*(1-tu) + v11*tu
	return top*(1-tw) + bot*tw
}

// ApplyES propagates a new strength t into the four grid corners
// surrounding (u,w), taking the minimum of the existing and incoming
// strength at each corner.
func (g *Grid) ApplyES(u, w, t float64) {
	fi := (u - g.u0) / g.du
	fj := (w - g.w0) / g.dw
	i0 := essentials.MaxInt(0, essentials.MinInt(g.nu-2, int(math.Floor(fi))))
	j0 := essentials.MaxInt(0, essentials.MinInt(g.nw-2, int(math.Floor(fj))))

	for _, c := range []cellIdx{{i0, j0}, {i0 + 1, j0}, {i0, j0 + 1}, {i0 + 1, j0 + 1}} {
		cell := g.Cells[c.i][c.j]
		if t < cell.Str {
			cell.Str = t
		}
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
