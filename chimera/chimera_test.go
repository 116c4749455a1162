package chimera

import (
	"testing"

	"hapcore/config"
	"hapcore/dna"
	"hapcore/overlap"
	"hapcore/readid"
	"hapcore/seqstore"
)

func testConfig() config.Config {
	return config.Config{
		MaximumJump:         5,
		ChimeraWindow:       10,
		MaximumOverhang:     10, // Flank() == 1
		MaxCoverageDropRate: 5,
		MaxBubbleLength:     50000,
		UnevenCoverage:      false,
	}
}

func fullSpanOverlap(source, target readid.ID) overlap.Record {
	return overlap.Record{Source: source, Target: target, CurBegin: 0, CurEnd: 100, SourceLen: 100, TargetLen: 100}
}

func TestCoverageDropsBelowThresholdEvenCoverage(t *testing.T) {
	seqs := seqstore.NewMemContainer()
	seqs.Add(1, dna.New(repeatBase("A", 100)))
	ovlps := overlap.NewMemStore()
	ovlps.Add(fullSpanOverlap(1, 2))

	d := NewDetector(testConfig(), seqs, ovlps)
	d.overlapCoverage = 5 // threshold = round(5/5) = 1, matches every window's count

	if d.coverageDropsBelowThreshold(1, ovlps.LazySeqOverlaps(1)) {
		t.Errorf("coverageDropsBelowThreshold(1) = true, want false (coverage 1 meets threshold 1)")
	}

	d.overlapCoverage = 10 // threshold = round(10/5) = 2, now above every window's count
	if !d.coverageDropsBelowThreshold(1, ovlps.LazySeqOverlaps(1)) {
		t.Errorf("coverageDropsBelowThreshold(1) = false, want true (coverage 1 below threshold 2)")
	}
}

func TestCoverageDropsBelowThresholdUnevenCapsAtLocalMax(t *testing.T) {
	seqs := seqstore.NewMemContainer()
	seqs.Add(1, dna.New(repeatBase("A", 100)))
	ovlps := overlap.NewMemStore()
	ovlps.Add(fullSpanOverlap(1, 2))

	cfg := testConfig()
	cfg.UnevenCoverage = true
	d := NewDetector(cfg, seqs, ovlps)
	d.overlapCoverage = 100 // even-mode threshold would be round(100/5)=20 and always trip

	if d.coverageDropsBelowThreshold(1, ovlps.LazySeqOverlaps(1)) {
		t.Errorf("coverageDropsBelowThreshold(1) = true, want false: uneven mode should cap the global estimate at the read's own local max coverage (1), giving threshold 0")
	}
}

func TestIsChimericWithOverlapsDetectsNearPalindromicJoin(t *testing.T) {
	seqs := seqstore.NewMemContainer()
	seqs.Add(1, dna.New(repeatBase("A", 100)))
	ovlps := overlap.NewMemStore()

	d := NewDetector(testConfig(), seqs, ovlps)
	d.overlapCoverage = 5 // threshold 1, the non-self overlap below keeps coverage clean

	nonSelf := fullSpanOverlap(1, 2)
	selfOverlap := overlap.Record{Source: 1, Target: readid.ID(1).RC(), CurEnd: 50, TargetLen: 100, TargetEnd: 50}

	if got := d.IsChimericWithOverlaps(1, []overlap.Record{nonSelf, selfOverlap}); !got {
		t.Errorf("IsChimericWithOverlaps() = false, want true (self-overlap join point within MaximumJump)")
	}
}

func TestIsChimericWithOverlapsIgnoresFarSelfOverlapJoin(t *testing.T) {
	seqs := seqstore.NewMemContainer()
	seqs.Add(1, dna.New(repeatBase("A", 100)))
	ovlps := overlap.NewMemStore()

	d := NewDetector(testConfig(), seqs, ovlps)
	d.overlapCoverage = 5

	nonSelf := fullSpanOverlap(1, 2)
	// TargetEnd=0 puts the join point far from CurEnd: projEnd=99, |50-99|=49 >= MaximumJump(5).
	selfOverlap := overlap.Record{Source: 1, Target: readid.ID(1).RC(), CurEnd: 50, TargetLen: 100, TargetEnd: 0}

	if got := d.IsChimericWithOverlaps(1, []overlap.Record{nonSelf, selfOverlap}); got {
		t.Errorf("IsChimericWithOverlaps() = true, want false (join point far outside MaximumJump)")
	}
}

// stubStore lets each exact read id (not just its Base()) be wired to its
// own overlap set, independently of readid.ID.RC() symmetry, so the cache
// test below can tell a genuine cache hit apart from a coincidentally equal
// fresh computation.
type stubStore struct {
	overlaps map[readid.ID][]overlap.Record
}

func (s *stubStore) LazySeqOverlaps(id readid.ID) []overlap.Record { return s.overlaps[id] }
func (s *stubStore) HasSelfOverlaps(id readid.ID) bool             { return false }

func TestIsChimericCacheIsSharedAcrossOrientations(t *testing.T) {
	seqs := seqstore.NewMemContainer()
	seqs.Add(1, dna.New(repeatBase("A", 100)))

	store := &stubStore{overlaps: map[readid.ID][]overlap.Record{
		1: {fullSpanOverlap(1, 2)},
		// readid.ID(1).RC() deliberately has no overlaps: a fresh
		// computation would see an all-zero coverage profile and come
		// back chimeric, which is the opposite of the cached verdict.
	}}

	d := NewDetector(testConfig(), seqs, store)
	d.overlapCoverage = 5 // threshold 1, matches the full-span overlap's coverage of 1

	if got := d.IsChimeric(1); got {
		t.Fatalf("IsChimeric(1) = true, want false")
	}
	if got := d.IsChimeric(readid.ID(1).RC()); got {
		t.Errorf("IsChimeric(-1) = true, want false: the cached verdict for id 1's Base() should be reused instead of recomputed from -1's empty overlap set")
	}
}

func TestEstimateGlobalCoverageIsIdempotent(t *testing.T) {
	seqs := seqstore.NewMemContainer()
	ovlps := overlap.NewMemStore()
	for id := readid.ID(1); id <= 3; id++ {
		seqs.Add(id, dna.New(repeatBase("A", 100)))
		ovlps.Add(fullSpanOverlap(id, id+10))
	}

	cfg := testConfig()
	cfg.MaximumOverhang = 0 // Flank() == 0, keep every window including the always-zero first one
	d := NewDetector(cfg, seqs, ovlps)

	d.EstimateGlobalCoverage()
	first := d.overlapCoverage
	d.EstimateGlobalCoverage()
	second := d.overlapCoverage

	if first != second {
		t.Errorf("EstimateGlobalCoverage() not idempotent: %v then %v", first, second)
	}
	if first != 1 {
		t.Errorf("overlapCoverage = %v, want 1 (median of nine 1s and one 0 per read)", first)
	}
}

func TestEstimateGlobalCoverageEmptyContainer(t *testing.T) {
	seqs := seqstore.NewMemContainer()
	ovlps := overlap.NewMemStore()
	d := NewDetector(testConfig(), seqs, ovlps)

	d.EstimateGlobalCoverage()
	if d.overlapCoverage != 0 {
		t.Errorf("overlapCoverage = %v, want 0 for an empty container", d.overlapCoverage)
	}
}

func repeatBase(base string, n int) string {
	out := make([]byte, 0, n*len(base))
	for i := 0; i < n; i++ {
		out = append(out, base...)
	}
	return string(out)
}
