// Package overlap defines the pairwise read-overlap record and the
// overlap-store collaborator consumed by the coverage profiler and the
// chimera detector. The field names follow
// original_source/src/assemble/chimera.cpp's OverlapRange
// (curId/curBegin/curEnd/extId/extBegin/extEnd/extLen), translated to this
// package's source/target vocabulary.
package overlap

import "hapcore/readid"

// Record is a directed overlap from Source to Target: Source[CurBegin:CurEnd]
// aligns to Target[TargetBegin:TargetEnd], both coordinates given in each
// read's own forward orientation.
type Record struct {
	Source ID
	Target ID

	CurBegin, CurEnd       int
	TargetBegin, TargetEnd int

	SourceLen, TargetLen int
}

type ID = readid.ID

// IsSelfOverlap reports whether the overlap joins a read to its own
// reverse complement, i.e. Target == Source.RC() (equivalently
// Source == Target.RC(), the form chimera.cpp tests).
func (r Record) IsSelfOverlap() bool {
	return r.Target == r.Source.RC()
}

// Store is the overlap-computation engine's interface, consumed read-only
// by the core.
type Store interface {
	LazySeqOverlaps(id ID) []Record
	HasSelfOverlaps(id ID) bool
}
