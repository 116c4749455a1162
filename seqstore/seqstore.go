// Package seqstore defines the sequence-container collaborator interface
// the core consumes ("seqLen", "iterSeqs", "getSeq") and provides
// reference in-memory and file-backed implementations so the core can be
// exercised end to end. The sequence container itself is an external
// collaborator and not part of the core's tested invariants.
package seqstore

import "hapcore/dna"
import "hapcore/readid"

// SeqInfo is the minimal per-read record iterSeqs() yields.
type SeqInfo struct {
	ID     readid.ID
	Length int
}

// Container is the sequence-container collaborator: seqLen, iterSeqs and
// getSeq.
type Container interface {
	SeqLen(id readid.ID) int
	IterSeqs() []SeqInfo
	GetSeq(id readid.ID) dna.Sequence
}

// MemContainer is a plain in-memory Container, used by tests and by the
// CLI driver when no FASTA is supplied.
type MemContainer struct {
	seqs map[readid.ID]dna.Sequence
	// order preserves the insertion order so IterSeqs is deterministic,
	// the same intrinsic-order determinism the graph's edge iteration
	// gives resolvers, applied here to read sampling.
	order []readid.ID
}

func NewMemContainer() *MemContainer {
	return &MemContainer{seqs: make(map[readid.ID]dna.Sequence)}
}

func (m *MemContainer) Add(id readid.ID, seq dna.Sequence) {
	if _, ok := m.seqs[id]; !ok {
		m.order = append(m.order, id)
	}
	m.seqs[id] = seq
}

func (m *MemContainer) SeqLen(id readid.ID) int {
	return len(m.seqs[id.Base()])
}

func (m *MemContainer) GetSeq(id readid.ID) dna.Sequence {
	s := m.seqs[id.Base()]
	if id.Strand() {
		return s
	}
	return s.Complement()
}

func (m *MemContainer) IterSeqs() []SeqInfo {
	out := make([]SeqInfo, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, SeqInfo{ID: id, Length: len(m.seqs[id])})
	}
	return out
}
