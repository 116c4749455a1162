// Package graph models the bi-directed assembly graph consumed (and, via
// the haplotype collapser, mutated) by the core. It mirrors
// constructdbg.go's DBGNode/DBGEdge arena-of-ids style combined with
// Flye's explicit leftLink/rightLink/altHaplotype edge fields
// (original_source/src/repeat_graph/haplotype_resolver.cpp): edges are
// modeled by stable ids, and complement(e) is an id lookup rather than a
// pointer chase.
package graph

import (
	"sort"

	"hapcore/dna"
	"hapcore/readid"
)

// NodeID identifies a graph node. Every node is minted together with a
// distinct complement partner node (see Graph.AddNode/ComplementNode), so a
// node's in/out-degree is independent of its complement's; this is what
// lets a bulge's shared node show up with in-degree 1 and out-degree 2
// while its complement shows the mirrored 2-and-1, the way
// haplotype_resolver.cpp's GraphNode pairs behave.
type NodeID int

// EdgeID is a strand-signed edge identifier; the complement of an edge id
// is its negation (readid.ID's RC()), except for a self-complement edge,
// which is its own complement (see ComplementEdge).
type EdgeID = readid.ID

// Node holds the in/out edge lists for the assembly graph's node type.
// Lists are kept in insertion order, and the traversals in pathutil walk
// them in that order; only Graph.Edges and Graph.Nodes sort, by id. No
// tie-breaking by coverage is applied to these lists.
type Node struct {
	ID  NodeID
	In  []EdgeID
	Out []EdgeID
}

// Edge is one strand of a bi-directed edge pair. Every Edge has a twin
// reachable via Graph.ComplementEdge; mutations to AltHaplotype and the
// link pointers must always be applied to both twins. MarkAltHaplotype
// mirrors onto the twin itself; LinkEdges does not, so its callers make the
// mirrored call.
type Edge struct {
	ID             EdgeID
	NodeLeft       NodeID
	NodeRight      NodeID
	Length         int
	MeanCoverage   float64
	SelfComplement bool
	AltHaplotype   bool

	// LeftLink/RightLink are the mutable join pointers set once a bubble,
	// loop or variant segment has been bridged; nil means unlinked.
	LeftLink  *EdgeID
	RightLink *EdgeID

	// Seq is the edge's own nucleotide sequence. The graph owns edges, so
	// sequences live directly on the edge rather than behind a separate
	// sequence-lookup collaborator.
	Seq dna.Sequence
}

// Graph owns nodes and edges; haplotype resolvers borrow them mutably,
// through the methods below and also by setting Edge fields directly (the
// collapser rewires NodeLeft/NodeRight, ResetEdges clears flags and links).
type Graph struct {
	nodes map[NodeID]*Node
	edges map[EdgeID]*Edge

	// nodeComplement pairs every node with its reverse-complement partner,
	// minted together in AddNode the same way AddEdge always mints an edge
	// and its twin together. A node's in/out-degree is therefore
	// independent of its complement's degree, matching
	// haplotype_resolver.cpp's GraphNode (whose inEdges/outEdges commonly
	// differ in size from its complement node's), rather than forcing the
	// two to move in lockstep.
	nodeComplement map[NodeID]NodeID

	nextNodeID  NodeID
	nextEdgeNum int64
}

func NewGraph() *Graph {
	return &Graph{
		nodes:          make(map[NodeID]*Node),
		edges:          make(map[EdgeID]*Edge),
		nodeComplement: make(map[NodeID]NodeID),
		nextNodeID:     1,
		nextEdgeNum:    1,
	}
}

// AddNode allocates a fresh, edgeless node together with its complement
// partner, and returns the forward node's id; the complement is reachable
// via ComplementNode.
func (g *Graph) AddNode() NodeID {
	id := g.nextNodeID
	g.nextNodeID++
	comp := g.nextNodeID
	g.nextNodeID++

	g.nodes[id] = &Node{ID: id}
	g.nodes[comp] = &Node{ID: comp}
	g.nodeComplement[id] = comp
	g.nodeComplement[comp] = id
	return id
}

func (g *Graph) Node(id NodeID) *Node {
	return g.nodes[id]
}

// ComplementNode returns n's reverse-complement partner node.
func (g *Graph) ComplementNode(n NodeID) NodeID {
	return g.nodeComplement[n]
}

// NewEdgeID mints a fresh positive edge id not yet used by any edge.
func (g *Graph) NewEdgeID() EdgeID {
	for {
		id := EdgeID(g.nextEdgeNum)
		g.nextEdgeNum++
		if _, used := g.edges[id]; !used {
			return id
		}
	}
}

// AddEdge inserts e spanning n1->n2 under id and its complement -id. The
// complement spans complement(n2)->complement(n1), not n2->n1: a node's
// complement is a distinct node (minted alongside it in AddNode), so a
// node's in/out-degree is free to differ from its complement's, the way
// haplotype_resolver.cpp's branch-point checks require. selfComplement
// edges (palindromic sequence, own twin) are inserted only once, spanning
// n1->n2 with n1 and n2 each other's complement.
func (g *Graph) AddEdge(n1, n2 NodeID, id EdgeID, length int, meanCov float64, seq dna.Sequence, selfComplement bool) *Edge {
	e := &Edge{ID: id, NodeLeft: n1, NodeRight: n2, Length: length, MeanCoverage: meanCov, Seq: seq, SelfComplement: selfComplement}
	g.edges[id] = e
	g.nodes[n1].Out = append(g.nodes[n1].Out, id)
	g.nodes[n2].In = append(g.nodes[n2].In, id)

	if selfComplement {
		return e
	}

	compN1, compN2 := g.ComplementNode(n1), g.ComplementNode(n2)
	rc := &Edge{ID: id.RC(), NodeLeft: compN2, NodeRight: compN1, Length: length, MeanCoverage: meanCov, Seq: seq.Complement()}
	g.edges[id.RC()] = rc
	g.nodes[compN2].Out = append(g.nodes[compN2].Out, id.RC())
	g.nodes[compN1].In = append(g.nodes[compN1].In, id.RC())
	return e
}

// Edge looks up an edge by id (either strand).
func (g *Graph) Edge(id EdgeID) *Edge {
	return g.edges[id]
}

func (g *Graph) HasEdge(id EdgeID) bool {
	_, ok := g.edges[id]
	return ok
}

// ComplementEdge returns e's reverse-complement twin: an id lookup, not a
// pointer chase.
func (g *Graph) ComplementEdge(e *Edge) *Edge {
	if e.SelfComplement {
		return e
	}
	return g.edges[e.ID.RC()]
}

// Edges returns every edge in the graph's intrinsic order (sorted by id),
// the deterministic iteration order every detection phase relies on.
func (g *Graph) Edges() []*Edge {
	out := make([]*Edge, 0, len(g.edges))
	for _, e := range g.edges {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (g *Graph) Nodes() []*Node {
	out := make([]*Node, 0, len(g.nodes))
	for _, n := range g.nodes {
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// MarkAltHaplotype sets AltHaplotype on e and its complement together,
// the way every resolver phase in haplotype_resolver.cpp pairs
// edge->altHaplotype = true with graph.complementEdge(edge)->altHaplotype
// = true.
func (g *Graph) MarkAltHaplotype(id EdgeID) {
	e := g.Edge(id)
	if e == nil {
		return
	}
	e.AltHaplotype = true
	g.ComplementEdge(e).AltHaplotype = true
}

// LinkEdges installs a.RightLink = b and b.LeftLink = a. Callers are
// responsible for the complement-mirroring call
// (LinkEdges(complement(b), complement(a))) and for the pre-check against
// overwriting an existing link, exactly as findHeterozygousBulges et al.
// do in haplotype_resolver.cpp ("if (inEdge->rightLink || outEdge->
// leftLink) continue;" before calling linkEdges twice).
func (g *Graph) LinkEdges(a, b EdgeID) {
	ea, eb := g.Edge(a), g.Edge(b)
	if ea == nil || eb == nil {
		return
	}
	bb := b
	aa := a
	ea.RightLink = &bb
	eb.LeftLink = &aa
}

// DetachFromRight removes id from node n's In list (used when rewiring an
// edge's right endpoint during collapse).
func (g *Graph) DetachFromRight(n NodeID, id EdgeID) {
	node := g.nodes[n]
	node.In = removeID(node.In, id)
}

// DetachFromLeft removes id from node n's Out list.
func (g *Graph) DetachFromLeft(n NodeID, id EdgeID) {
	node := g.nodes[n]
	node.Out = removeID(node.Out, id)
}

func (g *Graph) AttachToRight(n NodeID, id EdgeID) {
	g.nodes[n].In = append(g.nodes[n].In, id)
}

func (g *Graph) AttachToLeft(n NodeID, id EdgeID) {
	g.nodes[n].Out = append(g.nodes[n].Out, id)
}

func removeID(arr []EdgeID, id EdgeID) []EdgeID {
	for i, v := range arr {
		if v == id {
			return append(arr[:i], arr[i+1:]...)
		}
	}
	return arr
}
