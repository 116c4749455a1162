package pathutil

import (
	"testing"

	"hapcore/dna"
	"hapcore/graph"
)

// linearChain builds a -> b -> c -> d with no branching, so it should
// collapse to a single unbranching path (plus its complement).
func linearChain() *graph.Graph {
	g := graph.NewGraph()
	n1, n2, n3, n4 := g.AddNode(), g.AddNode(), g.AddNode(), g.AddNode()
	g.AddEdge(n1, n2, g.NewEdgeID(), 10, 1, dna.New("AAAAAAAAAA"), false)
	g.AddEdge(n2, n3, g.NewEdgeID(), 10, 1, dna.New("CCCCCCCCCC"), false)
	g.AddEdge(n3, n4, g.NewEdgeID(), 10, 1, dna.New("GGGGGGGGGG"), false)
	return g
}

func TestUnbranchingPathsLinearChain(t *testing.T) {
	g := linearChain()
	paths := UnbranchingPaths(g)

	// One forward path covering all three edges, plus its complement.
	if len(paths) != 2 {
		t.Fatalf("len(UnbranchingPaths()) = %d, want 2", len(paths))
	}

	var fwd UnbranchingPath
	for _, p := range paths {
		if p.Path[0] > 0 {
			fwd = p
		}
	}
	if len(fwd.Path) != 3 {
		t.Errorf("forward path length = %d, want 3", len(fwd.Path))
	}
	if fwd.Length() != 30 {
		t.Errorf("forward path total length = %d, want 30", fwd.Length())
	}
}

func TestUnbranchingPathsStopAtBranch(t *testing.T) {
	g := graph.NewGraph()
	n1, n2, n3, n4 := g.AddNode(), g.AddNode(), g.AddNode(), g.AddNode()
	g.AddEdge(n1, n2, g.NewEdgeID(), 10, 1, dna.New("AAAAAAAAAA"), false)
	g.AddEdge(n2, n3, g.NewEdgeID(), 10, 1, dna.New("CCCCCCCCCC"), false)
	g.AddEdge(n2, n4, g.NewEdgeID(), 10, 1, dna.New("GGGGGGGGGG"), false)

	paths := UnbranchingPaths(g)
	for _, p := range paths {
		if len(p.Path) > 1 {
			t.Errorf("path %v has length %d edges, want exactly 1 (n2 is a branch point)", p.ID, len(p.Path))
		}
	}
}

func TestUnbranchingPathComplementIsReverseComplement(t *testing.T) {
	g := linearChain()
	paths := UnbranchingPaths(g)

	var fwd, rev UnbranchingPath
	for _, p := range paths {
		if p.Path[0] > 0 {
			fwd = p
		} else {
			rev = p
		}
	}

	if rev.ID != fwd.ID.RC() {
		t.Errorf("rev.ID = %v, want %v", rev.ID, fwd.ID.RC())
	}
	if len(rev.Path) != len(fwd.Path) {
		t.Fatalf("len(rev.Path) = %d, want %d", len(rev.Path), len(fwd.Path))
	}
	for i, eid := range fwd.Path {
		wantComp := fwd.Path[len(fwd.Path)-1-i].RC()
		if rev.Path[i] != wantComp {
			t.Errorf("rev.Path[%d] = %v, want %v", i, rev.Path[i], wantComp)
		}
		_ = eid
	}
}

func TestUnbranchingPathIsLooped(t *testing.T) {
	g := graph.NewGraph()
	n1 := g.AddNode()
	// A single-node self loop: edge from n1 back to n1.
	g.AddEdge(n1, n1, g.NewEdgeID(), 10, 1, dna.New("AAAAAAAAAA"), false)

	paths := UnbranchingPaths(g)
	foundLoop := false
	for _, p := range paths {
		if p.IsLooped() {
			foundLoop = true
		}
	}
	if !foundLoop {
		t.Errorf("expected at least one looped unbranching path")
	}
}
