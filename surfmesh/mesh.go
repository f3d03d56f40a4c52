// Package surfmesh implements per-surface constrained triangulation and
// iterative remeshing over an explicit Node/Edge/Face structure, grounded
// on original_source/src/cfd_mesh/Mesh.{h,cpp} for the algorithms and on
// the teacher's pointer-graph mesh idiom
// (model3d/mesh_hierarchy.go's ptrMesh/ptrCoord/ptrTriangle,
// model3d/decimate.go's vertex-removal validity checks) for the Go shape
// of that structure.
package surfmesh

import "github.com/aeromesh/cfdmesh/geom"

// Node is a mesh vertex carrying both its 3D position and its parametric
// (U,W) coordinate on the owning surface, grounded on spec section 3's
// Node data-model row.
type Node struct {
	Pos   geom.Coord3D
	UW    geom.Coord2D
	Fixed bool

	Edges []*Edge

	index int // valid only after Mesh.Freeze
	dead  bool
}

// Edge is a mesh half-edge-like structure with up to two adjoining faces,
// grounded on spec section 3's Edge data-model row.
type Edge struct {
	N0, N1 *Node
	F0, F1 *Face

	Border bool
	Ridge  bool

	TargetLen float64

	dead bool
}

// Other returns the edge's endpoint other than n.
func (e *Edge) Other(n *Node) *Node {
	if e.N0 == n {
		return e.N1
	}
	return e.N0
}

// Length returns the edge's current 3D length.
func (e *Edge) Length() float64 { return e.N0.Pos.Dist(e.N1.Pos) }

// OtherFace returns the face adjoining e other than f (nil if e is a
// border edge or f isn't one of e's two faces).
func (e *Edge) OtherFace(f *Face) *Face {
	if e.F0 == f {
		return e.F1
	}
	if e.F1 == f {
		return e.F0
	}
	return nil
}

// AddFace registers f as one of e's (at most two) adjoining faces.
func (e *Edge) AddFace(f *Face) {
	if e.F0 == nil {
		e.F0 = f
	} else {
		e.F1 = f
	}
}

// RemoveFace clears f from e's adjoining faces.
func (e *Edge) RemoveFace(f *Face) {
	if e.F0 == f {
		e.F0 = nil
	} else if e.F1 == f {
		e.F1 = nil
	}
}

// Face is a mesh triangle, grounded on spec section 3's Face data-model
// row. Node and Edge ordering are kept consistent: Edges[i] connects
// Nodes[i] to Nodes[(i+1)%3].
type Face struct {
	Nodes [3]*Node
	Edges [3]*Edge

	dead bool
}

// Centroid returns the face's 3D centroid.
func (f *Face) Centroid() geom.Coord3D {
	return f.Nodes[0].Pos.Add(f.Nodes[1].Pos).Add(f.Nodes[2].Pos).Scale(1.0 / 3)
}

// CentroidUW returns the face's parametric centroid.
func (f *Face) CentroidUW() geom.Coord2D {
	a, b, c := f.Nodes[0].UW, f.Nodes[1].UW, f.Nodes[2].UW
	return geom.UW((a.U+b.U+c.U)/3, (a.W+b.W+c.W)/3)
}

// Normal returns the face's unit normal following node winding order.
func (f *Face) Normal() geom.Coord3D {
	e1 := f.Nodes[1].Pos.Sub(f.Nodes[0].Pos)
	e2 := f.Nodes[2].Pos.Sub(f.Nodes[0].Pos)
	return e1.Cross(e2).Normalize()
}

// Area returns the face's 3D triangle area.
func (f *Face) Area() float64 {
	e1 := f.Nodes[1].Pos.Sub(f.Nodes[0].Pos)
	e2 := f.Nodes[2].Pos.Sub(f.Nodes[0].Pos)
	return e1.Cross(e2).Norm() / 2
}

// EdgeOpposite returns the edge opposite node n (the one not touching n).
func (f *Face) EdgeOpposite(n *Node) *Edge {
	for i, nd := range f.Nodes {
		if nd == n {
			return f.Edges[(i+1)%3]
		}
	}
	return nil
}

// HasNode reports whether f includes n as one of its three vertices.
func (f *Face) HasNode(n *Node) bool {
	return f.Nodes[0] == n || f.Nodes[1] == n || f.Nodes[2] == n
}

// ThirdNode returns the face's vertex that is neither a nor b.
func (f *Face) ThirdNode(a, b *Node) *Node {
	for _, n := range f.Nodes {
		if n != a && n != b {
			return n
		}
	}
	return nil
}

// Mesh owns the live Node/Edge/Face lists for one surface's output
// triangulation, grounded on spec section 3's Mesh-adjacent rows and
// original_source/src/cfd_mesh/Mesh.h.
type Mesh struct {
	Nodes []*Node
	Edges []*Edge
	Faces []*Face

	// ClosestUW re-projects a 3D point onto the owning surface, used after
	// every split/collapse/smooth move. Set by the surf package, which
	// owns the SurfCore this mesh was built from.
	ClosestUW func(pt geom.Coord3D, guess geom.Coord2D, hasGuess bool) (geom.Coord2D, float64)

	// EvalUW lifts a (U,W) parametric point back to its 3D position on the
	// owning surface, used to recompute Pos once ClosestUW has corrected a
	// node's UW. Set alongside ClosestUW by the surf package.
	EvalUW func(u, w float64) geom.Coord3D
}

func NewMesh() *Mesh { return &Mesh{} }

// AddNode appends and returns a new node.
func (m *Mesh) AddNode(pos geom.Coord3D, uw geom.Coord2D, fixed bool) *Node {
	n := &Node{Pos: pos, UW: uw, Fixed: fixed}
	m.Nodes = append(m.Nodes, n)
	return n
}

// findOrAddEdge returns the existing edge between n0 and n1, or creates one.
func (m *Mesh) findOrAddEdge(n0, n1 *Node) *Edge {
	for _, e := range n0.Edges {
		if e.Other(n0) == n1 {
			return e
		}
	}
	e := &Edge{N0: n0, N1: n1}
	n0.Edges = append(n0.Edges, e)
	n1.Edges = append(n1.Edges, e)
	m.Edges = append(m.Edges, e)
	return e
}

// AddFace builds a face over three nodes in winding order, creating any
// missing edges.
func (m *Mesh) AddFace(a, b, c *Node) *Face {
	f := &Face{Nodes: [3]*Node{a, b, c}}
	f.Edges[0] = m.findOrAddEdge(a, b)
	f.Edges[1] = m.findOrAddEdge(b, c)
	f.Edges[2] = m.findOrAddEdge(c, a)
	for _, e := range f.Edges {
		e.AddFace(f)
	}
	m.Faces = append(m.Faces, f)
	return f
}

// RemoveFace deletes f and detaches it from its edges.
func (m *Mesh) RemoveFace(f *Face) {
	if f.dead {
		return
	}
	f.dead = true
	for _, e := range f.Edges {
		e.RemoveFace(f)
	}
}

// compact drops dead faces/edges/nodes from the live lists. Called after a
// batch of removals to keep iteration cheap.
func (m *Mesh) compact() {
	liveFaces := m.Faces[:0]
	for _, f := range m.Faces {
		if !f.dead {
			liveFaces = append(liveFaces, f)
		}
	}
	m.Faces = liveFaces

	liveEdges := m.Edges[:0]
	for _, e := range m.Edges {
		if !e.dead && (e.F0 != nil || e.F1 != nil || e.Border) {
			liveEdges = append(liveEdges, e)
		}
	}
	m.Edges = liveEdges

	liveNodes := m.Nodes[:0]
	for _, n := range m.Nodes {
		if !n.dead {
			liveNodes = append(liveNodes, n)
		}
	}
	m.Nodes = liveNodes
}
