// Package config holds the named configuration constants the core reads
// from its configuration-store collaborator. The struct and its
// range-checked constructor mirror deconstructdbg.go's optionsDDBG /
// checkArgsDDBG pattern: a plain value type populated by the CLI layer and
// passed down into the core by value.
package config

import "fmt"

// Config holds the named constants the chimera detector and haplotype
// resolvers read from the configuration store.
type Config struct {
	// MaximumJump bounds the palindromic self-overlap join-point test in
	// chimera detection (maximum_jump).
	MaximumJump int
	// ChimeraWindow is the fixed window width W used to build read-coverage
	// profiles (chimera_window).
	ChimeraWindow int
	// MaximumOverhang sets the flank size F = MaximumOverhang / ChimeraWindow
	// trimmed from each end of a coverage profile (maximum_overhang).
	MaximumOverhang int
	// MaxCoverageDropRate is the divisor used to derive the coverage-drop
	// threshold from the estimated overlap coverage (max_coverage_drop_rate).
	MaxCoverageDropRate float64
	// MaxBubbleLength bounds bulge and superbubble branch lengths
	// (max_bubble_length); the loop phase does not read it.
	MaxBubbleLength int
	// UnevenCoverage switches the chimera coverage-drop threshold between
	// the even-coverage and uneven-coverage modes.
	UnevenCoverage bool
}

// Default returns the constants Flye ships as defaults, for tests and for
// the CLI's flag defaults.
func Default() Config {
	return Config{
		MaximumJump:          1500,
		ChimeraWindow:        100,
		MaximumOverhang:      1000,
		MaxCoverageDropRate:  5,
		MaxBubbleLength:      50000,
		UnevenCoverage:       false,
	}
}

// Flank returns F = MaximumOverhang / ChimeraWindow, the number of
// coverage-profile windows trimmed from each side of a read.
func (c Config) Flank() int {
	return c.MaximumOverhang / c.ChimeraWindow
}

// Validate range-checks c the way checkArgsDDBG range-checks its flags,
// failing loudly on configuration the core cannot act on. Section 7 treats
// out-of-range configuration as undefined behavior; Validate exists so the
// CLI driver can refuse bad input before it reaches the core, rather than
// have the core silently misbehave.
func Validate(c Config) error {
	if c.MaximumJump <= 0 {
		return fmt.Errorf("maximum_jump must be positive, got %d", c.MaximumJump)
	}
	if c.ChimeraWindow <= 0 {
		return fmt.Errorf("chimera_window must be positive, got %d", c.ChimeraWindow)
	}
	if c.MaximumOverhang < 0 {
		return fmt.Errorf("maximum_overhang must be non-negative, got %d", c.MaximumOverhang)
	}
	if c.MaxCoverageDropRate <= 0 {
		return fmt.Errorf("max_coverage_drop_rate must be positive, got %v", c.MaxCoverageDropRate)
	}
	if c.MaxBubbleLength <= 0 {
		return fmt.Errorf("max_bubble_length must be positive, got %d", c.MaxBubbleLength)
	}
	return nil
}
