package haplotype

import (
	"log"

	"hapcore/config"
	"hapcore/graph"
	"hapcore/seqstore"
)

// Resolver drives the full heterozygous-variant detection and collapse
// pipeline over a single graph, in a fixed phase order: bulges, then
// loops, then complex (alignment-driven) variants, then superbubbles,
// collapsing and resetting between each phase so later phases never see
// link pointers or AltHaplotype flags left over from an earlier one.
type Resolver struct {
	Graph   *graph.Graph
	Seqs    seqstore.Container
	Aligner Aligner
	Cfg     config.Config

	Bridges BridgeMap
}

func NewResolver(g *graph.Graph, seqs seqstore.Container, aligner Aligner, cfg config.Config) *Resolver {
	return &Resolver{Graph: g, Seqs: seqs, Aligner: aligner, Cfg: cfg, Bridges: BridgeMap{}}
}

// Resolve runs every detection phase once, in order, collapsing and
// resetting after each, and reports how many variants each phase masked.
func (r *Resolver) Resolve() (bulges, loops, complexVariants, superbubbles int) {
	bulges = FindHeterozygousBulges(r.Graph, r.Bridges, r.Cfg)
	log.Printf("[Resolve] masked %d heterozygous bulges", bulges)
	CollapseHaplotypes(r.Graph, r.Bridges, r.Aligner)
	ResetEdges(r.Graph, r.Bridges)

	loops = FindHeterozygousLoops(r.Graph, r.Bridges)
	log.Printf("[Resolve] masked %d heterozygous loops", loops)
	CollapseHaplotypes(r.Graph, r.Bridges, r.Aligner)
	ResetEdges(r.Graph, r.Bridges)

	if r.Aligner != nil {
		complexVariants = FindComplexHaplotypes(r.Graph, r.Bridges, r.Aligner, r.Seqs)
		log.Printf("[Resolve] masked %d complex haplotypes", complexVariants)
		CollapseHaplotypes(r.Graph, r.Bridges, r.Aligner)
		ResetEdges(r.Graph, r.Bridges)
	}

	superbubbles = FindSuperbubbles(r.Graph, r.Bridges, r.Cfg.MaxBubbleLength)
	log.Printf("[Resolve] masked %d superbubbles", superbubbles)
	CollapseHaplotypes(r.Graph, r.Bridges, r.Aligner)
	ResetEdges(r.Graph, r.Bridges)

	return
}
