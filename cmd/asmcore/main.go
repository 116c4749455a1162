// Command asmcore drives the chimera-detection and haplotype-resolution
// core over a FASTA read set, grounded on ga.go's cli.New/
// DefineSubCommand wiring and pprof init() hook.
package main

import (
	"fmt"
	"log"
	"net/http"
	_ "net/http/pprof"
	"os"
	"runtime/pprof"
	"strconv"

	"github.com/jwaldrip/odin/cli"

	"hapcore/chimera"
	"hapcore/config"
	"hapcore/graph"
	"hapcore/haplotype"
	"hapcore/overlap"
	"hapcore/seqstore"
)

var app = cli.New("1.0.0", "chimera detection and haplotype resolution core", func(c cli.Command) {})

func init() {
	go func() {
		log.Println(http.ListenAndServe("localhost:6090", nil))
	}()

	chimeraCmd := app.DefineSubCommand("chimera", "flag chimeric reads in a FASTA file", runChimera)
	{
		chimeraCmd.DefineStringFlag("reads", "", "input brotli-compressed FASTA of reads")
		chimeraCmd.DefineStringFlag("cpuprofile", "", "write cpu profile to file")
		chimeraCmd.DefineIntFlag("MaximumJump", 1500, "max coordinate jump allowed for a self-overlap join")
		chimeraCmd.DefineIntFlag("ChimeraWindow", 100, "coverage window size in bases")
		chimeraCmd.DefineIntFlag("MaximumOverhang", 1000, "bases trimmed from each end before windowing")
		chimeraCmd.DefineFloat64Flag("MaxCoverageDropRate", 5, "global-coverage divisor for the drop threshold")
		chimeraCmd.DefineBoolFlag("UnevenCoverage", false, "use the local-max coverage threshold variant")
	}

	resolveCmd := app.DefineSubCommand("resolve", "collapse heterozygous variants on a saved graph snapshot", runResolve)
	{
		resolveCmd.DefineStringFlag("graph", "", "input graph snapshot (zstd)")
		resolveCmd.DefineStringFlag("out", "", "output graph snapshot (zstd)")
		resolveCmd.DefineStringFlag("dot", "", "optional dot file to also write")
		resolveCmd.DefineIntFlag("MaxBubbleLength", 50000, "maximum bulge/superbubble branch length")
		resolveCmd.DefineStringFlag("cpuprofile", "", "write cpu profile to file")
	}
}

func main() {
	app.Start()
}

func startProfiling(c cli.Command) func() {
	pf := c.Flag("cpuprofile").String()
	if pf == "" {
		return func() {}
	}
	fp, err := os.Create(pf)
	if err != nil {
		log.Fatalf("[main] open cpuprofile file %v failed: %v\n", pf, err)
	}
	pprof.StartCPUProfile(fp)
	return pprof.StopCPUProfile
}

func runChimera(c cli.Command) {
	defer startProfiling(c)()

	readsFn := c.Flag("reads").String()
	if readsFn == "" {
		log.Fatalf("[chimera] -reads is required\n")
	}

	seqs, err := seqstore.LoadBrotliFasta(readsFn)
	if err != nil {
		log.Fatalf("[chimera] load %v failed: %v\n", readsFn, err)
	}

	cfg := config.Default()
	cfg.MaximumJump = mustAtoi(c.Flag("MaximumJump").String())
	cfg.ChimeraWindow = mustAtoi(c.Flag("ChimeraWindow").String())
	cfg.MaximumOverhang = mustAtoi(c.Flag("MaximumOverhang").String())
	cfg.MaxCoverageDropRate, err = strconv.ParseFloat(c.Flag("MaxCoverageDropRate").String(), 64)
	if err != nil {
		log.Fatalf("[chimera] argument 'MaxCoverageDropRate' set error: %v\n", err)
	}
	cfg.UnevenCoverage = c.Flag("UnevenCoverage").Get().(bool)
	if err := config.Validate(cfg); err != nil {
		log.Fatalf("[chimera] invalid configuration: %v\n", err)
	}

	// The overlap computation engine is an external collaborator; this
	// driver has no overlaps to hand the detector, so it relies entirely
	// on the self-overlap-free coverage path. Wiring a real overlapper in
	// is left to whatever upstream tool produces the brotli-compressed
	// read set.
	ovlps := overlap.NewMemStore()
	det := chimera.NewDetector(cfg, seqs, ovlps)
	det.EstimateGlobalCoverage()

	for _, s := range seqs.IterSeqs() {
		if det.IsChimeric(s.ID) {
			fmt.Printf("%v\tchimeric\n", s.ID)
		}
	}
}

func runResolve(c cli.Command) {
	defer startProfiling(c)()

	graphFn := c.Flag("graph").String()
	if graphFn == "" {
		log.Fatalf("[resolve] -graph is required\n")
	}

	g, err := graph.LoadSnapshot(graphFn)
	if err != nil {
		log.Fatalf("[resolve] load %v failed: %v\n", graphFn, err)
	}

	cfg := config.Default()
	cfg.MaxBubbleLength = mustAtoi(c.Flag("MaxBubbleLength").String())
	if err := config.Validate(cfg); err != nil {
		log.Fatalf("[resolve] invalid configuration: %v\n", err)
	}

	resolver := haplotype.NewResolver(g, seqstore.NewMemContainer(), nil, cfg)
	bulges, loops, complexVariants, superbubbles := resolver.Resolve()
	log.Printf("[resolve] bulges=%d loops=%d complex=%d superbubbles=%d\n", bulges, loops, complexVariants, superbubbles)

	if outFn := c.Flag("out").String(); outFn != "" {
		if err := graph.SaveSnapshot(outFn, g); err != nil {
			log.Fatalf("[resolve] save %v failed: %v\n", outFn, err)
		}
	}
	if dotFn := c.Flag("dot").String(); dotFn != "" {
		if err := graph.WriteDot(dotFn, g); err != nil {
			log.Fatalf("[resolve] write dot %v failed: %v\n", dotFn, err)
		}
	}
}

func mustAtoi(s string) int {
	v, err := strconv.Atoi(s)
	if err != nil {
		log.Fatalf("[main] expected an integer argument, got %v: %v\n", s, err)
	}
	return v
}
