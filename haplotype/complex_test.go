package haplotype

import (
	"testing"

	"hapcore/dna"
	"hapcore/graph"
	"hapcore/readid"
	"hapcore/seqstore"
)

type stubAligner struct {
	index map[graph.EdgeID][]GraphAlignment
}

func (a *stubAligner) AlignmentIndex() map[graph.EdgeID][]GraphAlignment { return a.index }
func (a *stubAligner) UpdateAlignments()                                {}

// step builds one alignment step covering [pos*10, pos*10+10) of the read.
func step(e graph.EdgeID, r readid.ID, pos int) EdgeAlignment {
	return EdgeAlignment{Edge: e, ReadID: r, CurBegin: pos * 10, CurEnd: pos*10 + 10}
}

func TestFindVariantSegmentGroupsBranchesByPrefix(t *testing.T) {
	g := graph.NewGraph()
	n1, n2, n3, n4 := g.AddNode(), g.AddNode(), g.AddNode(), g.AddNode()
	s := g.AddEdge(n1, n2, g.NewEdgeID(), 10, 1, dna.New("AAAAAAAAAA"), false).ID
	b1 := g.AddEdge(n2, n3, g.NewEdgeID(), 10, 1, dna.New("CCCCCCCCCC"), false).ID
	b2 := g.AddEdge(n2, n3, g.NewEdgeID(), 10, 1, dna.New("GGGGGGGGGG"), false).ID
	c := g.AddEdge(n3, n4, g.NewEdgeID(), 10, 1, dna.New("TTTTTTTTTT"), false).ID

	alns := []GraphAlignment{
		{step(s, 1, 0), step(b1, 1, 1), step(c, 1, 2)},
		{step(s, 2, 0), step(b1, 2, 1), step(c, 2, 2)},
		{step(s, 3, 0), step(b2, 3, 1), step(c, 3, 2)},
		{step(s, 4, 0), step(b2, 4, 1), step(c, 4, 2)},
	}

	seg, ok := findVariantSegment(g, s, alns, map[graph.EdgeID]bool{})
	if !ok {
		t.Fatalf("findVariantSegment() ok = false, want true")
	}
	if seg.startEdge != s || seg.endEdge != c {
		t.Errorf("segment = (%v,%v), want (%v,%v)", seg.startEdge, seg.endEdge, s, c)
	}
	if len(seg.altPaths) != 2 {
		t.Fatalf("len(altPaths) = %d, want 2", len(seg.altPaths))
	}
}

func TestFindVariantSegmentRequiresTwoSupportedBranches(t *testing.T) {
	g := graph.NewGraph()
	n1, n2, n3, n4 := g.AddNode(), g.AddNode(), g.AddNode(), g.AddNode()
	s := g.AddEdge(n1, n2, g.NewEdgeID(), 10, 1, dna.New("AAAAAAAAAA"), false).ID
	b1 := g.AddEdge(n2, n3, g.NewEdgeID(), 10, 1, dna.New("CCCCCCCCCC"), false).ID
	b2 := g.AddEdge(n2, n3, g.NewEdgeID(), 10, 1, dna.New("GGGGGGGGGG"), false).ID
	c := g.AddEdge(n3, n4, g.NewEdgeID(), 10, 1, dna.New("TTTTTTTTTT"), false).ID

	// b2 only has a single supporting read, below the minimum score of 2.
	alns := []GraphAlignment{
		{step(s, 1, 0), step(b1, 1, 1), step(c, 1, 2)},
		{step(s, 2, 0), step(b1, 2, 1), step(c, 2, 2)},
		{step(s, 3, 0), step(b2, 3, 1), step(c, 3, 2)},
	}

	_, ok := findVariantSegment(g, s, alns, map[graph.EdgeID]bool{})
	if ok {
		t.Errorf("findVariantSegment() ok = true, want false (b2 under-supported)")
	}
}

// buildComplexGraph mirrors buildSuperbubbleGraph's topology (s -> {b1,b2}
// -> c) and returns an Aligner whose index supports both the forward
// search from s and the mandatory reverse search from complement(c).
func buildComplexGraph() (g *graph.Graph, aligner Aligner, s, b1, b2, c graph.EdgeID) {
	g = graph.NewGraph()
	n1, n2, n3, n4 := g.AddNode(), g.AddNode(), g.AddNode(), g.AddNode()
	s = g.AddEdge(n1, n2, g.NewEdgeID(), 10, 1, dna.New("AAAAAAAAAA"), false).ID
	b1 = g.AddEdge(n2, n3, g.NewEdgeID(), 10, 1, dna.New("CCCCCCCCCC"), false).ID
	b2 = g.AddEdge(n2, n3, g.NewEdgeID(), 10, 1, dna.New("GGGGGGGGGG"), false).ID
	c = g.AddEdge(n3, n4, g.NewEdgeID(), 10, 1, dna.New("TTTTTTTTTT"), false).ID

	compS := g.ComplementEdge(g.Edge(s)).ID
	compB1 := g.ComplementEdge(g.Edge(b1)).ID
	compB2 := g.ComplementEdge(g.Edge(b2)).ID
	compC := g.ComplementEdge(g.Edge(c)).ID

	index := map[graph.EdgeID][]GraphAlignment{
		s: {
			{step(s, 1, 0), step(b1, 1, 1), step(c, 1, 2)},
			{step(s, 2, 0), step(b1, 2, 1), step(c, 2, 2)},
			{step(s, 3, 0), step(b2, 3, 1), step(c, 3, 2)},
			{step(s, 4, 0), step(b2, 4, 1), step(c, 4, 2)},
		},
		compC: {
			{step(compC, 5, 0), step(compB1, 5, 1), step(compS, 5, 2)},
			{step(compC, 6, 0), step(compB1, 6, 1), step(compS, 6, 2)},
			{step(compC, 7, 0), step(compB2, 7, 1), step(compS, 7, 2)},
			{step(compC, 8, 0), step(compB2, 8, 1), step(compS, 8, 2)},
		},
	}
	return g, &stubAligner{index: index}, s, b1, b2, c
}

func TestFindComplexHaplotypesMasksBothBranches(t *testing.T) {
	g, aligner, s, b1, b2, c := buildComplexGraph()
	bridges := BridgeMap{}
	seqs := seqstore.NewMemContainer()
	for _, r := range []readid.ID{1, 2, 3, 4} {
		seqs.Add(r, dna.New("ACGTACGTACACGTACGTACACGTACGTACACGTACGTACACGTACGTACACGTACGTACACGTACGTACACGTACGTACACGTACGTACACGTACGTAC"))
	}

	n := FindComplexHaplotypes(g, bridges, aligner, seqs)
	if n != 1 {
		t.Fatalf("FindComplexHaplotypes() = %d, want 1", n)
	}

	if !g.Edge(b1).AltHaplotype || !g.Edge(b2).AltHaplotype {
		t.Errorf("both branches should be marked AltHaplotype")
	}

	sEdge := g.Edge(s)
	if sEdge.RightLink == nil || *sEdge.RightLink != c {
		t.Fatalf("s.RightLink = %v, want %v", sEdge.RightLink, c)
	}

	if _, ok := bridges[EdgePair{In: s, Out: c}]; !ok {
		t.Errorf("no bridge recorded between s and c")
	}
}
