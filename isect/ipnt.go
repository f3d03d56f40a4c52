package isect

import "github.com/aeromesh/cfdmesh/geom"

// IPnt is one shared intersection vertex in 3D, carrying one Puw per
// touching surface, grounded on original_source/src/cfd_mesh/IPnt.{h,cpp}.
type IPnt struct {
	Pt   geom.Coord3D
	Puws []Puw
	Used bool

	// Segs back-references every ISeg this point terminates, populated by
	// NewISeg as each segment is built.
	Segs []*ISeg
}

// NewIPnt builds an intersection point shared by two surfaces.
func NewIPnt(pt geom.Coord3D, a, b Puw) *IPnt {
	return &IPnt{Pt: pt, Puws: []Puw{a, b}}
}

// PuwOn returns the Puw belonging to s, or false if none.
func (p *IPnt) PuwOn(s SurfaceRef) (Puw, bool) {
	for _, puw := range p.Puws {
		if puw.Surf == s {
			return puw, true
		}
	}
	return Puw{}, false
}

// AddPuw appends each puw unless the point already carries one on that
// surface.
func (p *IPnt) AddPuw(puws ...Puw) {
	for _, puw := range puws {
		if _, ok := p.PuwOn(puw.Surf); ok {
			continue
		}
		p.Puws = append(p.Puws, puw)
	}
}

// IPntBin is a spatial bucket of IPnts keyed by the fixed-scale truncated
// sum of 3D coordinates, grounded on spec section 4.3's
// `bin id = floor((x+y+z)*1e4)` rule.
type IPntBin struct {
	ID        int64
	Pnts      []*IPnt
	Neighbors []int64
}

// IPntBins indexes a set of IPnts into their spatial bins and links each
// bin to its adjacent bins (id±k for k in [1,3], per spec section 4.3).
type IPntBins struct {
	bins map[int64]*IPntBin
}

func NewIPntBins() *IPntBins {
	return &IPntBins{bins: make(map[int64]*IPntBin)}
}

func (b *IPntBins) Add(p *IPnt) {
	id := p.Pt.BinID()
	bin, ok := b.bins[id]
	if !ok {
		bin = &IPntBin{ID: id}
		for k := int64(1); k <= 3; k++ {
			bin.Neighbors = append(bin.Neighbors, id-k, id+k)
		}
		b.bins[id] = bin
	}
	bin.Pnts = append(bin.Pnts, p)
}

// Adjacent returns every IPnt sharing p's bin or one of its ±1..3 neighbor
// bins.
func (b *IPntBins) Adjacent(p *IPnt) []*IPnt {
	id := p.Pt.BinID()
	var out []*IPnt
	if bin, ok := b.bins[id]; ok {
		out = append(out, bin.Pnts...)
	}
	for k := int64(1); k <= 3; k++ {
		if bin, ok := b.bins[id-k]; ok {
			out = append(out, bin.Pnts...)
		}
		if bin, ok := b.bins[id+k]; ok {
			out = append(out, bin.Pnts...)
		}
	}
	return out
}
