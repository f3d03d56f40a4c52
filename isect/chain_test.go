package isect

import (
	"testing"

	"github.com/aeromesh/cfdmesh/geom"
)

type fakeSurf struct{ id int }

func (f *fakeSurf) ID() int { return f.id }
func (f *fakeSurf) ClosestUW(pt geom.Coord3D, guess geom.Coord2D, hasGuess bool) (geom.Coord2D, float64) {
	return guess, 0
}

func TestBuildChainsClosure(t *testing.T) {
	a := &fakeSurf{1}
	b := &fakeSurf{2}

	p0 := &IPnt{Pt: geom.XYZ(0, 0, 0)}
	p1 := &IPnt{Pt: geom.XYZ(1, 0, 0)}
	p2 := &IPnt{Pt: geom.XYZ(2, 0, 0)}

	s0 := NewISeg(a, b, p0, p1)
	s1 := NewISeg(a, b, p1, p2)

	chains := BuildChains([]*ISeg{s0, s1})
	if len(chains) != 1 {
		t.Fatalf("expected 1 chain, got %d", len(chains))
	}
	c := chains[0]
	if len(c.Segs) != 2 {
		t.Fatalf("expected 2 segments in chain, got %d", len(c.Segs))
	}
	if c.SurfA != a || c.SurfB != b {
		t.Errorf("chain surfA/surfB should match segment's")
	}

	// Every IPnt referenced by any ISeg appears in exactly one chain.
	seen := make(map[*IPnt]int)
	for _, ch := range chains {
		for _, seg := range ch.Segs {
			seen[seg.IPnt[0]]++
			seen[seg.IPnt[1]]++
		}
	}
	if seen[p0] != 1 || seen[p2] != 1 {
		t.Errorf("endpoint IPnts should appear exactly once in the chain's segment list")
	}
	if seen[p1] != 2 {
		t.Errorf("interior IPnt shared by two segments should appear twice across the chain")
	}
}

func TestBuildChainsDiscardsTooShort(t *testing.T) {
	a := &fakeSurf{1}
	b := &fakeSurf{2}
	p0 := &IPnt{Pt: geom.XYZ(0, 0, 0)}
	p1 := &IPnt{Pt: geom.XYZ(1e-6, 0, 0)}
	s0 := NewISeg(a, b, p0, p1)

	chains := BuildChains([]*ISeg{s0})
	if len(chains) != 0 {
		t.Fatalf("expected degenerate chain to be discarded, got %d chains", len(chains))
	}
}

func TestIPntBinsAdjacency(t *testing.T) {
	bins := NewIPntBins()
	p0 := &IPnt{Pt: geom.XYZ(0, 0, 0)} // binID 0
	p1 := &IPnt{Pt: geom.XYZ(0.0002, 0, 0)} // binID 2
	bins.Add(p0)
	bins.Add(p1)

	adj := bins.Adjacent(p0)
	if len(adj) != 2 {
		t.Fatalf("expected p0's own bin plus neighbor bin contents, got %d", len(adj))
	}
}

func TestMergeIPntGroupsCollapsesClosePair(t *testing.T) {
	a := &fakeSurf{1}
	b := &fakeSurf{2}

	p0 := &IPnt{Pt: geom.XYZ(0, 0, 0), Puws: []Puw{{Surf: a, UW: geom.UW(0, 0)}}}
	p1 := &IPnt{Pt: geom.XYZ(1, 0, 0), Puws: []Puw{{Surf: a, UW: geom.UW(1, 0)}}}
	chain1 := &ISegChain{SurfA: a, SurfB: b, Segs: []*ISeg{NewISeg(a, b, p0, p1)}}

	p2 := &IPnt{Pt: geom.XYZ(1e-8, 0, 0), Puws: []Puw{{Surf: b, UW: geom.UW(0, 0)}}}
	p3 := &IPnt{Pt: geom.XYZ(2, 0, 0), Puws: []Puw{{Surf: b, UW: geom.UW(1, 0)}}}
	chain2 := &ISegChain{SurfA: a, SurfB: b, Segs: []*ISeg{NewISeg(a, b, p2, p3)}}

	groups := MergeIPntGroups([]*ISegChain{chain1, chain2}, 1e-6)

	foundMerged := false
	for _, g := range groups {
		if len(g.Members) == 2 {
			foundMerged = true
			if len(g.Rep.Puws) != 2 {
				t.Errorf("merged representative should carry both surfaces' Puw, got %d", len(g.Rep.Puws))
			}
		}
	}
	if !foundMerged {
		t.Error("expected p0 and p2 to merge into one group")
	}
	if chain2.Front() != chain1.Front() {
		t.Error("chain2's front should be rewritten to the merged representative")
	}
}
