package coverage

import (
	"testing"

	"hapcore/overlap"
)

func TestProfileTooShortReturnsSentinel(t *testing.T) {
	got := Profile(1, 50, nil, 100, 10)
	if len(got) != 1 || got[0] != 0 {
		t.Errorf("Profile(short read) = %v, want [0]", got)
	}
}

func TestProfileLength(t *testing.T) {
	// readLen=1000, window=100 -> numWindows=10; flank=2 -> len=6.
	got := Profile(1, 1000, nil, 100, 2)
	if len(got) != 6 {
		t.Errorf("len(Profile()) = %d, want 6", len(got))
	}
}

func TestProfileIgnoresSelfOverlapsAndForeignOverlaps(t *testing.T) {
	var readID overlap.ID = 1
	ovlps := []overlap.Record{
		{Source: readID, Target: readID.RC(), CurBegin: 0, CurEnd: 1000}, // self-overlap, skipped
		{Source: 2, Target: readID, CurBegin: 0, CurEnd: 1000},           // not sourced at readID, skipped
	}
	got := Profile(readID, 1000, ovlps, 100, 0)
	for i, c := range got {
		if c != 0 {
			t.Errorf("Profile()[%d] = %d, want 0 (no counting overlaps)", i, c)
		}
	}
}

func TestProfileCountsEnclosedWindows(t *testing.T) {
	var readID overlap.ID = 1
	ovlps := []overlap.Record{
		{Source: readID, Target: 2, CurBegin: 150, CurEnd: 550},
	}
	got := Profile(readID, 1000, ovlps, 100, 0)
	// Overlap spans windows [1,5] inclusive of the boundary windows;
	// the loop starts at CurBegin/window+1=2 and runs while pos<CurEnd/window=5,
	// so windows 2,3,4 are incremented.
	want := []int{0, 0, 1, 1, 1, 0, 0, 0, 0, 0}
	if len(got) != len(want) {
		t.Fatalf("len(Profile()) = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Profile()[%d] = %d, want %d", i, got[i], want[i])
		}
	}
}
