package graph

import (
	"encoding/gob"
	"os"

	"github.com/klauspost/compress/zstd"

	"hapcore/dna"
)

// snapshotEdge/snapshotNode are the gob-encoded wire shapes for a graph
// snapshot: plain values only, no pointers, so link pointers are encoded
// as (hasLink, target) pairs rather than serialized directly.
type snapshotEdge struct {
	ID             EdgeID
	NodeLeft       NodeID
	NodeRight      NodeID
	Length         int
	MeanCoverage   float64
	SelfComplement bool
	AltHaplotype   bool
	HasLeftLink    bool
	LeftLink       EdgeID
	HasRightLink   bool
	RightLink      EdgeID
	Seq            []byte
}

type snapshotNode struct {
	ID         NodeID
	Complement NodeID
}

type snapshot struct {
	Nodes      []snapshotNode
	Edges      []snapshotEdge
	NextNodeID NodeID
	NextEdge   int64
}

// SaveSnapshot writes g to path as a zstd-compressed gob stream.
//
// Grounded on constructdbg.go:1418 (WriteEdgesToFn)'s zstd writer options.
func SaveSnapshot(path string, g *Graph) error {
	fp, err := os.Create(path)
	if err != nil {
		return err
	}
	defer fp.Close()

	zw, err := zstd.NewWriter(fp, zstd.WithEncoderCRC(false), zstd.WithEncoderConcurrency(1), zstd.WithEncoderLevel(1))
	if err != nil {
		return err
	}
	defer zw.Close()

	snap := snapshot{NextNodeID: g.nextNodeID, NextEdge: g.nextEdgeNum}
	for _, n := range g.Nodes() {
		snap.Nodes = append(snap.Nodes, snapshotNode{ID: n.ID, Complement: g.nodeComplement[n.ID]})
	}
	for _, e := range g.edges {
		se := snapshotEdge{
			ID: e.ID, NodeLeft: e.NodeLeft, NodeRight: e.NodeRight,
			Length: e.Length, MeanCoverage: e.MeanCoverage,
			SelfComplement: e.SelfComplement, AltHaplotype: e.AltHaplotype,
			Seq: []byte(e.Seq),
		}
		if e.LeftLink != nil {
			se.HasLeftLink, se.LeftLink = true, *e.LeftLink
		}
		if e.RightLink != nil {
			se.HasRightLink, se.RightLink = true, *e.RightLink
		}
		snap.Edges = append(snap.Edges, se)
	}

	return gob.NewEncoder(zw).Encode(snap)
}

// LoadSnapshot reads a graph previously written by SaveSnapshot.
func LoadSnapshot(path string) (*Graph, error) {
	fp, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fp.Close()

	zr, err := zstd.NewReader(fp, zstd.WithDecoderConcurrency(1))
	if err != nil {
		return nil, err
	}
	defer zr.Close()

	var snap snapshot
	if err := gob.NewDecoder(zr).Decode(&snap); err != nil {
		return nil, err
	}

	g := &Graph{
		nodes:          make(map[NodeID]*Node, len(snap.Nodes)),
		edges:          make(map[EdgeID]*Edge, len(snap.Edges)),
		nodeComplement: make(map[NodeID]NodeID, len(snap.Nodes)),
		nextNodeID:     snap.NextNodeID,
		nextEdgeNum:    snap.NextEdge,
	}
	for _, n := range snap.Nodes {
		g.nodes[n.ID] = &Node{ID: n.ID}
		g.nodeComplement[n.ID] = n.Complement
	}
	for _, se := range snap.Edges {
		e := &Edge{
			ID: se.ID, NodeLeft: se.NodeLeft, NodeRight: se.NodeRight,
			Length: se.Length, MeanCoverage: se.MeanCoverage,
			SelfComplement: se.SelfComplement, AltHaplotype: se.AltHaplotype,
			Seq: dna.Sequence(se.Seq),
		}
		if se.HasLeftLink {
			v := se.LeftLink
			e.LeftLink = &v
		}
		if se.HasRightLink {
			v := se.RightLink
			e.RightLink = &v
		}
		g.edges[e.ID] = e
		g.nodes[e.NodeLeft].Out = append(g.nodes[e.NodeLeft].Out, e.ID)
		g.nodes[e.NodeRight].In = append(g.nodes[e.NodeRight].In, e.ID)
	}

	return g, nil
}
