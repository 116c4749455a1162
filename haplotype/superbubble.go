package haplotype

import (
	"hapcore/graph"
	"hapcore/pathutil"
)

type superbubble struct {
	start, end    graph.EdgeID
	hasEnd        bool
	internalEdges map[graph.EdgeID]bool
	refPath       []graph.EdgeID
}

// isRightSuperbubble looks for a superbubble rooted at startEdge: picks a
// reference path with pathutil.AnyPath (the first path found whose length
// exceeds maxBubbleLen, else the longest dead-end path), then for each
// candidate end edge on that path checks that every edge reached by the
// forward Dijkstra has its complement reached by the reverse (complement)
// Dijkstra, with a round-trip length of at most maxBubbleLen. Returns
// ok=false if no candidate end qualifies.
//
// Grounded on haplotype_resolver.cpp:760-840 (isRightSuperbubble).
func isRightSuperbubble(g *graph.Graph, startEdge graph.EdgeID, maxBubbleLen int, isLooped func(graph.EdgeID) bool) (superbubble, bool) {
	refPath := pathutil.AnyPath(g, startEdge, maxBubbleLen, isLooped)
	if len(refPath) == 0 {
		return superbubble{}, false
	}

	for _, endCand := range refPath {
		if endCand == startEdge {
			continue
		}

		distFromSource, failSrc := pathutil.ShortestPathsFrom(g, startEdge, endCand, maxBubbleLen)
		compEnd := g.ComplementEdge(g.Edge(endCand)).ID
		compStart := g.ComplementEdge(g.Edge(startEdge)).ID
		distFromSink, failSink := pathutil.ShortestPathsFrom(g, compEnd, compStart, maxBubbleLen)
		if failSrc || failSink {
			continue
		}

		goodBubble := true
		internal := map[graph.EdgeID]bool{}
		for edge, d := range distFromSource {
			complEdge := g.ComplementEdge(g.Edge(edge)).ID
			sinkDist, ok := distFromSink[complEdge]
			if !ok {
				goodBubble = false
				break
			}
			tourLen := d + sinkDist - g.Edge(complEdge).Length
			if tourLen > maxBubbleLen {
				goodBubble = false
				break
			}
			if edge != startEdge && edge != endCand {
				internal[edge] = true
			}
		}
		if goodBubble {
			return superbubble{start: startEdge, end: endCand, hasEnd: true, internalEdges: internal, refPath: refPath}, true
		}
	}

	return superbubble{}, false
}

// FindSuperbubbles masks every internal edge of each discovered superbubble
// as AltHaplotype, links the bubble's start/end edges, and records the
// sequence of the reference path's edges strictly between the start edge
// and the end edge as the bridge between them.
//
// Grounded on haplotype_resolver.cpp:843-928 (findSuperbubbles).
func FindSuperbubbles(g *graph.Graph, bridges BridgeMap, maxBubbleLen int) int {
	paths := pathutil.UnbranchingPaths(g)
	loopedEdges := map[graph.EdgeID]bool{}
	for _, p := range paths {
		if p.IsLooped() {
			for _, eid := range p.Path {
				loopedEdges[eid] = true
			}
		}
	}
	isLooped := func(eid graph.EdgeID) bool { return loopedEdges[eid] }

	foundNew := 0
	usedEdges := map[graph.EdgeID]bool{}

	for _, startEdge := range g.Edges() {
		if loopedEdges[startEdge.ID] || usedEdges[startEdge.ID] {
			continue
		}
		rightNode := g.Node(startEdge.NodeRight)
		if len(rightNode.In) > 1 || len(rightNode.Out) < 2 {
			continue
		}

		fwd, ok := isRightSuperbubble(g, startEdge.ID, maxBubbleLen, isLooped)
		if !ok {
			continue
		}
		compEnd := g.ComplementEdge(g.Edge(fwd.end)).ID
		if startEdge.ID == fwd.end || startEdge.ID == compEnd {
			continue
		}

		rev, ok := isRightSuperbubble(g, compEnd, maxBubbleLen, isLooped)
		if !ok || startEdge.ID != g.ComplementEdge(g.Edge(rev.end)).ID {
			continue
		}

		usedEdges[compEnd] = true

		newVariant := true
		for eid := range fwd.internalEdges {
			if g.Edge(eid).AltHaplotype {
				newVariant = false
			}
		}
		if newVariant {
			foundNew++
		}
		for eid := range fwd.internalEdges {
			g.MarkAltHaplotype(eid)
		}

		endEdge := g.Edge(fwd.end)
		if !tryLink(g, startEdge, endEdge) {
			continue
		}

		bridgePath := interiorPath(fwd.refPath, fwd.end)
		pathSeq := pathSequence(g, bridgePath)
		setBridge(g, bridges, startEdge.ID, endEdge.ID, pathSeq)
	}

	return foundNew
}

// interiorPath returns refPath with its first edge and everything from
// end onward trimmed off, i.e. refPath[1:indexOf(end)].
func interiorPath(refPath []graph.EdgeID, end graph.EdgeID) []graph.EdgeID {
	idx := len(refPath)
	for i, e := range refPath {
		if e == end {
			idx = i
			break
		}
	}
	if idx <= 1 {
		return nil
	}
	return refPath[1:idx]
}
