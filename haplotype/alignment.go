package haplotype

import (
	"hapcore/graph"
	"hapcore/readid"
)

// EdgeAlignment is one step of a read's path through the graph: the edge
// it traversed and the read-coordinate window the traversal covered.
// Mirrors Flye's EdgeAlignment{edge, overlap}.
type EdgeAlignment struct {
	Edge               graph.EdgeID
	ReadID             readid.ID
	CurBegin, CurEnd   int
	TargetBegin, TargetEnd int
}

// GraphAlignment is a read's full path through the graph, edge by edge.
type GraphAlignment []EdgeAlignment

// Aligner supplies read-to-graph alignments, keyed by the edge each
// alignment starts on. findComplexHaplotypes consults this index directly
// (_aligner.makeAlignmentIndex() in the original); collapseHaplotypes asks
// it to refresh itself once edges have been rewired
// (_aligner.updateAlignments()).
type Aligner interface {
	AlignmentIndex() map[graph.EdgeID][]GraphAlignment
	UpdateAlignments()
}
