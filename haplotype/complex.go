package haplotype

import (
	"hapcore/graph"
	"hapcore/pathutil"
	"hapcore/seqstore"
)

// bridgingSeqFloor is the minimum length floor Flye applies when slicing a
// complex-variant bridging sequence out of the supporting read: the
// original's readEnd is never allowed to fall short of
// readStart+bridgingSeqFloor-1 (readStart+99), so the bridge spans at least
// 99 bases unless the read ends sooner. Preserved verbatim, as a
// calibration constant rather than one derived from anything else in this
// file.
const bridgingSeqFloor = 100

type variantPaths struct {
	startEdge, endEdge graph.EdgeID
	hasEnd             bool
	altPaths           []GraphAlignment
}

type pathWithScore struct {
	path  GraphAlignment
	score int
}

// findVariantSegment looks, among every alignment passing through
// startEdge, for a convergence point downstream where at least two
// distinct branches (grouped by path-prefix containment, each branch
// needing at least 2 supporting reads) rejoin. Returns ok=false if no
// such segment exists.
//
// Grounded on haplotype_resolver.cpp:206-420 (findVariantSegment).
func findVariantSegment(g *graph.Graph, startEdge graph.EdgeID, alignments []GraphAlignment, loopedEdges map[graph.EdgeID]bool) (variantPaths, bool) {
	var outPaths []GraphAlignment
	for _, aln := range alignments {
		for i, step := range aln {
			if step.Edge == startEdge {
				outPaths = append(outPaths, aln[i:])
				break
			}
		}
	}
	if len(outPaths) == 0 {
		return variantPaths{}, false
	}

	alignedSpan := func(a GraphAlignment) int { return a[len(a)-1].CurEnd - a[0].CurEnd }
	// Longest (by aligned read span) first, stable insertion-order scan.
	sorted := make([]GraphAlignment, len(outPaths))
	copy(sorted, outPaths)
	for i := 1; i < len(sorted); i++ {
		for j := i; j > 0 && alignedSpan(sorted[j]) > alignedSpan(sorted[j-1]); j-- {
			sorted[j], sorted[j-1] = sorted[j-1], sorted[j]
		}
	}

	const minScore = 2
	var pathGroups []pathWithScore
	for _, trgPath := range sorted {
		newPath := true
		for gi := range pathGroups {
			contained := true
			minLen := len(trgPath)
			if len(pathGroups[gi].path) < minLen {
				minLen = len(pathGroups[gi].path)
			}
			for i := 0; i < minLen; i++ {
				if trgPath[i].Edge != pathGroups[gi].path[i].Edge {
					contained = false
					break
				}
			}
			if contained {
				newPath = false
				pathGroups[gi].score++
				break
			}
		}
		if newPath {
			pathGroups = append(pathGroups, pathWithScore{path: trgPath, score: 1})
		}
	}

	filtered := pathGroups[:0]
	for _, p := range pathGroups {
		if p.score >= minScore {
			filtered = append(filtered, p)
		}
	}
	pathGroups = filtered
	if len(pathGroups) < 2 {
		return variantPaths{}, false
	}

	repeats := map[graph.EdgeID]bool{}
	for _, group := range pathGroups {
		seen := map[graph.EdgeID]bool{}
		for _, step := range group.path {
			if seen[step.Edge] {
				repeats[step.Edge] = true
			}
			seen[step.Edge] = true
		}
	}

	refPath := pathGroups[0]
	convergenceEdges := map[graph.EdgeID]bool{}
	for _, step := range refPath.path {
		if !loopedEdges[step.Edge] && !repeats[step.Edge] {
			convergenceEdges[step.Edge] = true
		}
	}
	for gi := 1; gi < len(pathGroups); gi++ {
		newSet := map[graph.EdgeID]bool{}
		for _, step := range pathGroups[gi].path {
			if convergenceEdges[step.Edge] {
				newSet[step.Edge] = true
			}
		}
		convergenceEdges = newSet
	}

	bubbleStartID := 0
	for {
		agreement := true
		for gi := 1; gi < len(pathGroups); gi++ {
			if bubbleStartID+1 >= len(pathGroups[gi].path) ||
				!convergenceEdges[refPath.path[bubbleStartID+1].Edge] ||
				pathGroups[gi].path[bubbleStartID+1].Edge != refPath.path[bubbleStartID+1].Edge {
				agreement = false
				break
			}
		}
		if !agreement {
			break
		}
		bubbleStartID++
	}
	if !convergenceEdges[refPath.path[bubbleStartID].Edge] {
		return variantPaths{}, false
	}

	foundEnd := false
	bubbleEndID := bubbleStartID + 1
	for ; bubbleEndID < len(refPath.path); bubbleEndID++ {
		if convergenceEdges[refPath.path[bubbleEndID].Edge] {
			foundEnd = true
			break
		}
	}
	if !foundEnd {
		return variantPaths{}, false
	}

	var bubbleBranches []pathWithScore
	for _, group := range pathGroups {
		groupStart, groupEnd := 0, 0
		for i, step := range group.path {
			if step.Edge == refPath.path[bubbleStartID].Edge {
				groupStart = i
			}
			if step.Edge == refPath.path[bubbleEndID].Edge {
				groupEnd = i
			}
		}
		newBranch := pathWithScore{path: group.path[groupStart : groupEnd+1], score: group.score}

		duplicate := false
		for bi := range bubbleBranches {
			if len(newBranch.path) != len(bubbleBranches[bi].path) {
				continue
			}
			equal := true
			for i := range newBranch.path {
				if newBranch.path[i].Edge != bubbleBranches[bi].path[i].Edge {
					equal = false
					break
				}
			}
			if equal {
				duplicate = true
				bubbleBranches[bi].score += newBranch.score
			}
		}
		if !duplicate {
			bubbleBranches = append(bubbleBranches, newBranch)
		}
	}
	if len(bubbleBranches) < 2 {
		return variantPaths{}, false
	}

	altPaths := make([]GraphAlignment, len(bubbleBranches))
	for i, b := range bubbleBranches {
		altPaths[i] = b.path
	}

	return variantPaths{
		startEdge: refPath.path[bubbleStartID].Edge,
		endEdge:   refPath.path[bubbleEndID].Edge,
		hasEnd:    true,
		altPaths:  altPaths,
	}, true
}

// FindComplexHaplotypes uses read-to-graph alignments (rather than graph
// topology alone) to reveal heterozygous variants with more than two
// branches. For each candidate segment it requires the forward search
// (from startEdge) and the reverse search (from the complement of the
// discovered end edge) to agree, masks every branch's interior edges as
// AltHaplotype, links startEdge to endEdge, and slices the bridging
// sequence directly out of the supporting read (padded to at least
// bridgingSeqFloor-1 bases). It returns the number of variants none of
// whose branch interiors were already flagged AltHaplotype.
//
// Grounded on haplotype_resolver.cpp:422-520 (findComplexHaplotypes).
func FindComplexHaplotypes(g *graph.Graph, bridges BridgeMap, aligner Aligner, seqs seqstore.Container) int {
	alnIndex := aligner.AlignmentIndex()

	paths := pathutil.UnbranchingPaths(g)
	loopedEdges := map[graph.EdgeID]bool{}
	for _, p := range paths {
		if p.IsLooped() {
			for _, eid := range p.Path {
				loopedEdges[eid] = true
			}
		}
	}

	usedEdges := map[graph.EdgeID]bool{}
	var foundVariants []variantPaths

	for _, startPath := range paths {
		startEdge := startPath.LastEdge()
		if loopedEdges[startEdge] || usedEdges[startEdge] {
			continue
		}

		varSeg, ok := findVariantSegment(g, startEdge, alnIndex[startEdge], loopedEdges)
		if !ok {
			continue
		}
		compEnd := g.ComplementEdge(g.Edge(varSeg.endEdge)).ID
		if varSeg.startEdge == compEnd {
			continue
		}

		revSeg, ok := findVariantSegment(g, compEnd, alnIndex[compEnd], loopedEdges)
		if !ok {
			continue
		}
		compStart := g.ComplementEdge(g.Edge(varSeg.startEdge)).ID
		if revSeg.endEdge != compStart {
			continue
		}

		foundVariants = append(foundVariants, varSeg)
		usedEdges[revSeg.startEdge] = true
	}

	foundNew := 0
	for _, varSegment := range foundVariants {
		newVariant := true
		for _, branch := range varSegment.altPaths {
			for i := 1; i < len(branch)-1; i++ {
				if g.Edge(branch[i].Edge).AltHaplotype {
					newVariant = false
				}
			}
		}
		if newVariant {
			foundNew++
		}

		for _, branch := range varSegment.altPaths {
			for i := 1; i < len(branch)-1; i++ {
				g.MarkAltHaplotype(branch[i].Edge)
			}
		}

		startEdge := g.Edge(varSegment.startEdge)
		endEdge := g.Edge(varSegment.endEdge)
		if !tryLink(g, startEdge, endEdge) {
			continue
		}

		first := varSegment.altPaths[0]
		readID := first[0].ReadID
		readStart := first[0].CurEnd
		readEnd := first[len(first)-1].CurBegin
		if readStart+bridgingSeqFloor-1 > readEnd {
			readEnd = readStart + bridgingSeqFloor - 1
		}
		seq := seqs.GetSeq(readID).Substr(readStart, readEnd-readStart)

		setBridge(g, bridges, startEdge.ID, endEdge.ID, seq)
	}

	return foundNew
}
