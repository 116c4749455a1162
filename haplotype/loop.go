package haplotype

import (
	"hapcore/dna"
	"hapcore/graph"
	"hapcore/internal/xmath"
	"hapcore/pathutil"
)

const loopCoverageMultiplier = 1.5

// FindHeterozygousLoops collapses simple loops: a single self-returning
// unbranching path with exactly one entrance and one exit, whose length
// and coverage are both roughly bounded by its entrance/exit branches.
// The bridging sequence is either the stub "A" (drop the loop) or the
// loop's own sequence (keep one copy), depending on whether the loop's
// coverage falls under a quarter of the entrance+exit average.
//
// Grounded on haplotype_resolver.cpp:123-204 (findHeterozygousLoops). The
// loop-coverage comparison at line 157 there compares entrancePath's mean
// coverage against itself rather than against exitPath's; reproduced here
// as-is (min(entrance, entrance) == entrance) rather than silently fixed,
// since changing the threshold would change which loops get collapsed on
// real graphs this has already shipped against.
func FindHeterozygousLoops(g *graph.Graph, bridges BridgeMap) int {
	paths := pathutil.UnbranchingPaths(g)
	numMasked := 0

	for _, loop := range paths {
		if !loop.ID.Strand() {
			continue
		}
		if !loop.IsLooped() {
			continue
		}
		if g.Edge(loop.FirstEdge()).SelfComplement {
			continue
		}

		node := g.Node(loop.NodeLeft())
		if len(node.In) != 2 || len(node.Out) != 2 {
			continue
		}

		entrancePath, ok1 := findPathByNodeRight(paths, loop.NodeLeft(), loop)
		exitPath, ok2 := findPathByNodeLeft(paths, loop.NodeLeft(), loop)
		if !ok1 || !ok2 {
			continue
		}

		if entrancePath.IsLooped() {
			continue
		}
		if entrancePath.ID == exitPath.ID.RC() {
			continue
		}

		// Preserved verbatim: compares entrancePath's coverage against
		// itself, so this reduces to loop.MeanCoverage() >
		// 1.5*entrancePath.MeanCoverage().
		if loop.MeanCoverage() > loopCoverageMultiplier*minFloat(entrancePath.MeanCoverage(), entrancePath.MeanCoverage()) {
			continue
		}

		if loop.Length() > xmath.MaxInt(entrancePath.Length(), exitPath.Length()) {
			continue
		}

		if !g.Edge(loop.FirstEdge()).AltHaplotype {
			numMasked++
		}
		for _, eid := range loop.Path {
			g.MarkAltHaplotype(eid)
		}

		inEdge := g.Edge(entrancePath.LastEdge())
		outEdge := g.Edge(exitPath.FirstEdge())
		if !tryLink(g, inEdge, outEdge) {
			continue
		}

		if loop.MeanCoverage() < (entrancePath.MeanCoverage()+exitPath.MeanCoverage())/4 {
			setBridge(g, bridges, inEdge.ID, outEdge.ID, dna.New("A"))
		} else {
			setBridge(g, bridges, inEdge.ID, outEdge.ID, pathSequence(g, loop.Path))
		}
	}

	return numMasked
}

func minFloat(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
