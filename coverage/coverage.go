// Package coverage builds windowed per-read coverage profiles from
// overlaps, grounded on
// original_source/src/assemble/chimera.cpp's getReadCoverage.
package coverage

import "hapcore/overlap"

// Profile computes the windowed coverage profile for readID given its
// length and its outgoing overlaps.
//
// numWindows = readLen / window. If numWindows - 2*flank <= 0, the read is
// too short to profile and the sentinel []int{0} is returned. Otherwise a
// zeroed slice of length numWindows-2*flank is allocated and, for every
// overlap sourced at readID (excluding self-overlaps), every window
// strictly enclosed by the overlap's span is incremented.
func Profile(readID overlap.ID, readLen int, overlaps []overlap.Record, window, flank int) []int {
	numWindows := readLen / window
	if numWindows-2*flank <= 0 {
		return []int{0}
	}

	cov := make([]int, numWindows-2*flank)
	for _, ov := range overlaps {
		if ov.Source != readID {
			continue
		}
		if ov.IsSelfOverlap() {
			continue
		}

		for pos := ov.CurBegin/window + 1; pos < ov.CurEnd/window; pos++ {
			idx := pos - flank
			if idx >= 0 && idx < len(cov) {
				cov[idx]++
			}
		}
	}
	return cov
}
