// Package haplotype detects and collapses the structural variants caused
// by heterozygosity on a bi-directed assembly graph: heterozygous bulges,
// heterozygous loops, complex multi-branch variants and superbubbles,
// grounded throughout on
// original_source/src/repeat_graph/haplotype_resolver.cpp's
// HaplotypeResolver.
package haplotype

import (
	"hapcore/dna"
	"hapcore/graph"
	"hapcore/pathutil"
)

// EdgePair is the bridging-sequence map's key: an ordered (inEdge, outEdge)
// pair about to be joined by the collapser.
type EdgePair struct {
	In, Out graph.EdgeID
}

// BridgeMap is the bridging-sequence map: for every entry (a, b) -> s
// there must be a sibling entry (complement(b), complement(a)) ->
// reverseComplement(s). setBridge is the only writer so that invariant
// never has to be re-established by each resolver.
type BridgeMap map[EdgePair]dna.Sequence

func setBridge(g *graph.Graph, bridges BridgeMap, in, out graph.EdgeID, seq dna.Sequence) {
	bridges[EdgePair{In: in, Out: out}] = seq

	compOut := g.ComplementEdge(g.Edge(out)).ID
	compIn := g.ComplementEdge(g.Edge(in)).ID
	bridges[EdgePair{In: compOut, Out: compIn}] = seq.Complement()
}

// pathSequence concatenates the sequences of every edge in path, falling
// back to the stub "A" for an empty path (HaplotypeResolver::pathSequence).
func pathSequence(g *graph.Graph, path []graph.EdgeID) dna.Sequence {
	var buf []byte
	for _, eid := range path {
		buf = append(buf, g.Edge(eid).Seq...)
	}
	if len(buf) == 0 {
		buf = []byte("A")
	}
	return dna.Sequence(buf)
}

// tryLink installs the link between inEdge and outEdge (both strands),
// skipping silently if either endpoint already carries a conflicting
// link, exactly as every resolver phase does before calling linkEdges.
func tryLink(g *graph.Graph, inEdge, outEdge *graph.Edge) bool {
	if inEdge.RightLink != nil || outEdge.LeftLink != nil {
		return false
	}
	g.LinkEdges(inEdge.ID, outEdge.ID)
	g.LinkEdges(g.ComplementEdge(outEdge).ID, g.ComplementEdge(inEdge).ID)
	return true
}

// findPathByNodeRight and findPathByNodeLeft are the small linear scans
// findHeterozygousBulges/findHeterozygousLoops use to locate the unique
// entrance/exit unbranching path touching a node; unlike the original
// they return ok=false instead of risking a nil dereference when the
// expected neighbor is missing.
func findPathByNodeRight(paths []pathutil.UnbranchingPath, n graph.NodeID, exclude pathutil.UnbranchingPath) (pathutil.UnbranchingPath, bool) {
	var found pathutil.UnbranchingPath
	ok := false
	for _, cand := range paths {
		if cand.NodeRight() == n && cand.ID != exclude.ID {
			found, ok = cand, true
		}
	}
	return found, ok
}

func findPathByNodeLeft(paths []pathutil.UnbranchingPath, n graph.NodeID, exclude pathutil.UnbranchingPath) (pathutil.UnbranchingPath, bool) {
	var found pathutil.UnbranchingPath
	ok := false
	for _, cand := range paths {
		if cand.NodeLeft() == n && cand.ID != exclude.ID {
			found, ok = cand, true
		}
	}
	return found, ok
}
