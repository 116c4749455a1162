// Package chimera classifies reads as chimeric using coverage evidence and
// self-overlaps, grounded on
// original_source/src/assemble/chimera.cpp's ChimeraDetector.
package chimera

import (
	"encoding/binary"
	"log"
	"math"
	"sort"
	"sync"

	"github.com/cespare/xxhash"

	"hapcore/config"
	"hapcore/coverage"
	"hapcore/internal/xmath"
	"hapcore/overlap"
	"hapcore/readid"
	"hapcore/seqstore"
)

// Detector holds the chimera cache and the estimated overlap coverage.
// The cache is a sync.Map so parallel workers may all query IsChimeric
// concurrently, following mudesheng-ga's sync.Map usage in
// constructNodeMap/CollectAddedDBGNode. A lookup and the store after a miss
// are separate steps, so workers that miss on the same orientation class at
// the same time each compute the verdict; the cache keeps whichever store
// lands last.
type Detector struct {
	cfg   config.Config
	seqs  seqstore.Container
	ovlps overlap.Store

	// Seed makes EstimateGlobalCoverage's read sampling reproducible: the
	// same seed always samples the same reads.
	Seed uint64

	cache           sync.Map // readid.ID (base) -> bool
	overlapCoverage float64
}

// NewDetector constructs a Detector with a default, reproducible sampling
// seed.
func NewDetector(cfg config.Config, seqs seqstore.Container, ovlps overlap.Store) *Detector {
	return &Detector{cfg: cfg, seqs: seqs, ovlps: ovlps, Seed: 1}
}

func (d *Detector) load(id readid.ID) (bool, bool) {
	v, ok := d.cache.Load(id.Base())
	if !ok {
		return false, false
	}
	return v.(bool), true
}

func (d *Detector) store(id readid.ID, result bool) {
	// Both orientations share a verdict; Base() is the canonical key so
	// either orientation's query hits the same cache slot.
	d.cache.Store(id.Base(), result)
}

// IsChimeric implements the cache-miss-fetches-overlaps path of
// isChimeric(readId).
func (d *Detector) IsChimeric(id readid.ID) bool {
	if v, ok := d.load(id); ok {
		return v
	}
	ovlps := d.ovlps.LazySeqOverlaps(id)
	result := d.coverageDropsBelowThreshold(id, ovlps) || d.ovlps.HasSelfOverlaps(id)
	d.store(id, result)
	return result
}

// IsChimericWithOverlaps implements isChimeric(readId, overlaps): the
// cache-miss path is handed pre-supplied overlaps and, in addition to the
// coverage test, inspects self-overlaps for a near-palindromic join point.
func (d *Detector) IsChimericWithOverlaps(id readid.ID, ovlps []overlap.Record) bool {
	if v, ok := d.load(id); ok {
		return v
	}

	result := d.coverageDropsBelowThreshold(id, ovlps)
	jump := d.cfg.MaximumJump
	for _, ov := range ovlps {
		if !ov.IsSelfOverlap() {
			continue
		}
		projEnd := ov.TargetLen - ov.TargetEnd - 1
		if xmath.AbsInt(ov.CurEnd-projEnd) < jump {
			result = true
		}
	}
	d.store(id, result)
	return result
}

// EstimateGlobalCoverage samples up to 1,000 reads uniformly from the
// container and sets overlapCoverage to the median of every nonzero
// sampled read's interior window values.
func (d *Detector) EstimateGlobalCoverage() {
	log.Printf("[EstimateGlobalCoverage] estimating overlap coverage")

	allSeqs := d.seqs.IterSeqs()
	if len(allSeqs) == 0 {
		d.overlapCoverage = 0
		log.Printf("[EstimateGlobalCoverage] warning: no reads to sample, overlap coverage set to 0")
		return
	}

	numSamples := len(allSeqs)
	if numSamples > 1000 {
		numSamples = 1000
	}
	sampleRate := len(allSeqs) / numSamples
	if sampleRate < 1 {
		sampleRate = 1
	}

	var covList []int
	for _, s := range allSeqs {
		if !d.sampled(s.ID, sampleRate) {
			continue
		}

		ovlps := d.ovlps.LazySeqOverlaps(s.ID)
		cov := coverage.Profile(s.ID, s.Length, ovlps, d.cfg.ChimeraWindow, d.cfg.Flank())

		nonZero := false
		for _, c := range cov {
			if c != 0 {
				nonZero = true
				break
			}
		}
		if !nonZero {
			continue
		}

		covList = append(covList, cov...)
	}

	if len(covList) == 0 {
		d.overlapCoverage = 0
		log.Printf("[EstimateGlobalCoverage] warning: no overlaps found")
		return
	}

	d.overlapCoverage = median(covList)
	log.Printf("[EstimateGlobalCoverage] overlap-based coverage: %v", d.overlapCoverage)
}

// sampled deterministically decides whether id is included in the
// coverage-estimation sample, replacing Flye's rand()%sampleRate stride
// with a seeded hash of the read id (github.com/cespare/xxhash, as used for
// kmer hashing in mudesheng-ga's cuckoofilter.go) so EstimateGlobalCoverage
// is reproducible and idempotent on the same input.
func (d *Detector) sampled(id readid.ID, sampleRate int) bool {
	var buf [16]byte
	binary.LittleEndian.PutUint64(buf[0:8], uint64(id.Base()))
	binary.LittleEndian.PutUint64(buf[8:16], d.Seed)
	return xxhash.Sum64(buf[:])%uint64(sampleRate) == 0
}

func median(vals []int) float64 {
	sorted := make([]int, len(vals))
	copy(sorted, vals)
	sort.Ints(sorted)

	n := len(sorted)
	if n%2 == 1 {
		return float64(sorted[n/2])
	}
	return float64(sorted[n/2-1]+sorted[n/2]) / 2
}

// coverageDropsBelowThreshold implements testReadByCoverage: a read is
// flagged chimeric if any window has coverage 0, or coverage below the
// even/uneven-coverage threshold.
func (d *Detector) coverageDropsBelowThreshold(id readid.ID, ovlps []overlap.Record) bool {
	seqLen := d.seqs.SeqLen(id)
	cov := coverage.Profile(id, seqLen, ovlps, d.cfg.ChimeraWindow, d.cfg.Flank())

	var threshold int
	if !d.cfg.UnevenCoverage {
		threshold = roundHalfAwayFromZero(d.overlapCoverage / d.cfg.MaxCoverageDropRate)
	} else {
		maxLocalCov := 0
		for _, c := range cov {
			if c > maxLocalCov {
				maxLocalCov = c
			}
		}
		threshold = roundHalfAwayFromZero(math.Min(d.overlapCoverage, float64(maxLocalCov)) / d.cfg.MaxCoverageDropRate)
	}

	for _, c := range cov {
		if c == 0 || c < threshold {
			return true
		}
	}
	return false
}

func roundHalfAwayFromZero(x float64) int {
	if x >= 0 {
		return int(math.Floor(x + 0.5))
	}
	return int(math.Ceil(x - 0.5))
}
