package haplotype

import (
	"log"

	"hapcore/dna"
	"hapcore/graph"
)

// CollapseHaplotypes walks every edge carrying a RightLink and, for each
// bridged pair with a recorded bridging sequence, either splits the two
// edges apart at a fresh shared node (when they were already adjacent) or
// inserts a brand-new edge carrying the bridging sequence between them
// (when they weren't). Both operations are applied to the complement pair
// as well, preserving the graph's bi-directed symmetry. Returns the number
// of pairs bridged.
//
// Grounded on haplotype_resolver.cpp:522-623 (collapseHaplotypes,
// separeteAdjacentEdges, separateDistantEdges).
func CollapseHaplotypes(g *graph.Graph, bridges BridgeMap, aligner Aligner) int {
	numBridged := 0
	separatedEdges := map[graph.EdgeID]bool{}

	for _, inEdge := range g.Edges() {
		if inEdge.RightLink == nil {
			continue
		}
		if separatedEdges[inEdge.ID] {
			continue
		}

		outEdge := g.Edge(*inEdge.RightLink)
		if outEdge == nil {
			log.Printf("[CollapseHaplotypes] warning: missing linked edge")
			continue
		}
		if outEdge.LeftLink == nil || *outEdge.LeftLink != inEdge.ID {
			log.Printf("[CollapseHaplotypes] warning: broken link")
			continue
		}

		seq, ok := bridges[EdgePair{In: inEdge.ID, Out: outEdge.ID}]
		if !ok {
			log.Printf("[CollapseHaplotypes] warning: no bridging path")
			continue
		}

		numBridged++
		separatedEdges[g.ComplementEdge(outEdge).ID] = true

		if inEdge.NodeRight == outEdge.NodeLeft {
			separateAdjacentEdges(g, inEdge, outEdge)
			separateAdjacentEdges(g, g.ComplementEdge(outEdge), g.ComplementEdge(inEdge))
		} else {
			separateDistantEdges(g, inEdge, outEdge, seq)
		}
	}

	if aligner != nil {
		aligner.UpdateAlignments()
	}

	log.Printf("[CollapseHaplotypes] collapsed %d haplotypes", numBridged)
	return numBridged
}

// separateAdjacentEdges splits inEdge and outEdge, which share a node,
// onto a freshly allocated node each keeps one end attached to.
func separateAdjacentEdges(g *graph.Graph, inEdge, outEdge *graph.Edge) {
	newNode := g.AddNode()

	g.DetachFromRight(inEdge.NodeRight, inEdge.ID)
	inEdge.NodeRight = newNode
	g.AttachToRight(newNode, inEdge.ID)

	g.DetachFromLeft(outEdge.NodeLeft, outEdge.ID)
	outEdge.NodeLeft = newNode
	g.AttachToLeft(newNode, outEdge.ID)
}

// separateDistantEdges inserts a brand-new edge carrying insertSeq between
// inEdge and outEdge, whose mean coverage is the average of the two edges
// it bridges, then rewires inEdge/outEdge's complement pair onto the same
// new edge's automatically-generated twin (AddEdge always mints both
// strands together, unlike the original's two independent addEdge calls;
// rewiring onto the twin here is the adapted equivalent of that second
// call, since our Graph already guarantees the twin exists with the
// mirrored endpoints).
func separateDistantEdges(g *graph.Graph, inEdge, outEdge *graph.Edge, insertSeq dna.Sequence) {
	leftNode := g.AddNode()
	rightNode := g.AddNode()

	pathCoverage := (inEdge.MeanCoverage + outEdge.MeanCoverage) / 2
	newEdge := g.AddEdge(leftNode, rightNode, g.NewEdgeID(), insertSeq.Len(), pathCoverage, insertSeq, false)
	compNewEdge := g.ComplementEdge(newEdge)

	g.DetachFromRight(inEdge.NodeRight, inEdge.ID)
	inEdge.NodeRight = leftNode
	g.AttachToRight(leftNode, inEdge.ID)

	g.DetachFromLeft(outEdge.NodeLeft, outEdge.ID)
	outEdge.NodeLeft = rightNode
	g.AttachToLeft(rightNode, outEdge.ID)

	compOut := g.ComplementEdge(outEdge)
	compIn := g.ComplementEdge(inEdge)

	g.DetachFromRight(compOut.NodeRight, compOut.ID)
	compOut.NodeRight = compNewEdge.NodeLeft
	g.AttachToRight(compNewEdge.NodeLeft, compOut.ID)

	g.DetachFromLeft(compIn.NodeLeft, compIn.ID)
	compIn.NodeLeft = compNewEdge.NodeRight
	g.AttachToLeft(compNewEdge.NodeRight, compIn.ID)
}

// ResetEdges clears every edge's link pointers and AltHaplotype flag and
// empties the bridging-sequence map, returning the graph to the state
// UnbranchingPaths assumed before the next detection phase runs.
//
// Grounded on haplotype_resolver.cpp:625-634 (resetEdges).
func ResetEdges(g *graph.Graph, bridges BridgeMap) {
	for _, e := range g.Edges() {
		e.LeftLink = nil
		e.RightLink = nil
		e.AltHaplotype = false
	}
	for k := range bridges {
		delete(bridges, k)
	}
}
