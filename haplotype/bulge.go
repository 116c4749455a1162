package haplotype

import (
	"hapcore/config"
	"hapcore/graph"
	"hapcore/internal/xmath"
	"hapcore/pathutil"
	"hapcore/readid"
)

// FindHeterozygousBulges marks both branches of every heterozygous bulge
// (two unbranching paths sharing the same left and right node, neither
// being the other's complement) as AltHaplotype, links the entrance path
// to the exit path across the bulge, and records the lower-coverage
// branch's sequence as the bridge between them. It returns the number of
// newly-masked bulges, i.e. those where at least one branch wasn't already
// flagged AltHaplotype.
//
// Grounded on haplotype_resolver.cpp:13-117 (findHeterozygousBulges).
func FindHeterozygousBulges(g *graph.Graph, bridges BridgeMap, cfg config.Config) int {
	paths := pathutil.UnbranchingPaths(g)

	// toSeparate mirrors the original's std::unordered_set<size_t>: it is
	// consulted before accepting a bulge but, in the source this was
	// ported from, never populated — every membership test is always
	// false. Kept as-is rather than removed, since the spec this was
	// ported from does not flag it as a bug to fix.
	toSeparate := map[readid.ID]bool{}

	numMasked := 0

	for _, path := range paths {
		if path.IsLooped() {
			continue
		}

		var twoPaths []pathutil.UnbranchingPath
		for _, cand := range paths {
			if cand.NodeLeft() == path.NodeLeft() && cand.NodeRight() == path.NodeRight() {
				twoPaths = append(twoPaths, cand)
			}
		}
		if len(twoPaths) != 2 {
			continue
		}
		if twoPaths[0].ID == twoPaths[1].ID.RC() {
			continue
		}
		if toSeparate[twoPaths[0].ID] || toSeparate[twoPaths[1].ID] {
			continue
		}

		leftNode := g.Node(twoPaths[0].NodeLeft())
		rightNode := g.Node(twoPaths[0].NodeRight())
		if len(leftNode.In) != 1 || len(leftNode.Out) != 2 {
			continue
		}
		if len(rightNode.Out) != 1 || len(rightNode.In) != 2 {
			continue
		}

		entrancePath, ok := findPathByNodeRight(paths, twoPaths[0].NodeLeft(), twoPaths[0])
		if !ok {
			continue
		}
		exitPath, ok := findPathByNodeLeft(paths, twoPaths[0].NodeRight(), twoPaths[0])
		if !ok {
			continue
		}
		if entrancePath.ID == exitPath.ID || entrancePath.ID == exitPath.ID.RC() {
			continue
		}

		if xmath.MaxInt(twoPaths[0].Length(), twoPaths[1].Length()) > cfg.MaxBubbleLength {
			continue
		}

		if twoPaths[0].MeanCoverage() > twoPaths[1].MeanCoverage() {
			twoPaths[0], twoPaths[1] = twoPaths[1], twoPaths[0]
		}

		if !g.Edge(twoPaths[0].FirstEdge()).AltHaplotype || !g.Edge(twoPaths[1].FirstEdge()).AltHaplotype {
			numMasked++
		}

		for i := 0; i < 2; i++ {
			for _, eid := range twoPaths[i].Path {
				g.MarkAltHaplotype(eid)
			}
		}

		inEdge := g.Edge(entrancePath.LastEdge())
		outEdge := g.Edge(exitPath.FirstEdge())
		if !tryLink(g, inEdge, outEdge) {
			continue
		}

		setBridge(g, bridges, inEdge.ID, outEdge.ID, pathSequence(g, twoPaths[0].Path))
	}

	return numMasked
}

