// Package pathutil provides the graph-traversal primitives every resolver
// borrows read-only: unbranching-path enumeration, a depth-bounded DFS, and
// a bounded Dijkstra. Traversal shape is grounded on
// original_source/src/repeat_graph/haplotype_resolver.cpp's anonymous-
// namespace helpers (anyPath, getShortestPathsLen) and on the unbranching-
// path abstraction every resolver in that file calls through
// GraphProcessor::getUnbranchingPaths; walking style (explicit worklists
// rather than recursion) follows findPath.go's FoundAllPath/
// FindMaxUnqiuePath.
package pathutil

import (
	"hapcore/graph"
	"hapcore/readid"
)

// UnbranchingPath is a maximal simple path whose internal nodes have
// in- and out-degree 1.
type UnbranchingPath struct {
	ID   readid.ID
	Path []graph.EdgeID

	nodeLeft, nodeRight graph.NodeID
	length              int
	meanCoverage        float64
}

func (p UnbranchingPath) NodeLeft() graph.NodeID  { return p.nodeLeft }
func (p UnbranchingPath) NodeRight() graph.NodeID { return p.nodeRight }
func (p UnbranchingPath) Length() int             { return p.length }
func (p UnbranchingPath) MeanCoverage() float64   { return p.meanCoverage }
func (p UnbranchingPath) IsLooped() bool          { return p.nodeLeft == p.nodeRight }

// FirstEdge and LastEdge are convenience accessors used throughout the
// resolvers (entrance/exit path lookups key off these).
func (p UnbranchingPath) FirstEdge() graph.EdgeID { return p.Path[0] }
func (p UnbranchingPath) LastEdge() graph.EdgeID  { return p.Path[len(p.Path)-1] }

func isPassThrough(g *graph.Graph, n graph.NodeID) bool {
	node := g.Node(n)
	return len(node.In) == 1 && len(node.Out) == 1
}

// UnbranchingPaths enumerates the set of unbranching paths covering g.
//
// Construction is two-pass: first every edge whose left node is a branch
// point, a source, or a degree-(2,2) loop node is walked forward until it
// either reaches a non-pass-through node or closes back on itself (a
// single-node loop). Whatever's left after that pass is entirely rings of
// pass-through nodes with no branch-point entry — those are swept up in a
// second pass starting from an arbitrary (lowest-id) still-unvisited edge.
// Each discovered forward path is paired with its explicit
// reverse-complement path (built by reversing and complementing every
// edge), which is how every unbranching path ends up with a twin
// reachable via its id's RC(), mirroring the edge-complement symmetry
// every other layer of the graph carries. Of each such pair, the positive
// (forward-strand) path id goes to the orientation whose first edge has a
// positive edge id.
func UnbranchingPaths(g *graph.Graph) []UnbranchingPath {
	edges := g.Edges()
	visited := make(map[graph.EdgeID]bool, len(edges))
	var result []UnbranchingPath
	var nextID int64 = 1

	buildForward := func(start graph.EdgeID) []graph.EdgeID {
		path := []graph.EdgeID{start}
		cur := g.Edge(start)
		for {
			if !isPassThrough(g, cur.NodeRight) {
				return path
			}
			nxt := g.Node(cur.NodeRight).Out[0]
			if nxt == start {
				return path // closes the ring; don't re-append the start edge
			}
			path = append(path, nxt)
			cur = g.Edge(nxt)
		}
	}

	register := func(path []graph.EdgeID) {
		mk := func(p []graph.EdgeID, id readid.ID) UnbranchingPath {
			first, last := g.Edge(p[0]), g.Edge(p[len(p)-1])
			var totalLen int
			var weighted float64
			for _, eid := range p {
				e := g.Edge(eid)
				totalLen += e.Length
				weighted += e.MeanCoverage * float64(e.Length)
			}
			meanCov := 0.0
			if totalLen > 0 {
				meanCov = weighted / float64(totalLen)
			}
			return UnbranchingPath{
				ID:           id,
				Path:         p,
				nodeLeft:     first.NodeLeft,
				nodeRight:    last.NodeRight,
				length:       totalLen,
				meanCoverage: meanCov,
			}
		}

		comp := make([]graph.EdgeID, len(path))
		for i, eid := range path {
			comp[len(path)-1-i] = g.ComplementEdge(g.Edge(eid)).ID
		}
		palindromic := equalEdgeIDs(comp, path)

		id := readid.ID(nextID)
		nextID++
		if !palindromic && !path[0].Strand() {
			id = id.RC()
		}
		fwd := mk(path, id)
		result = append(result, fwd)
		for _, eid := range path {
			visited[eid] = true
		}

		if !palindromic {
			result = append(result, mk(comp, id.RC()))
			for _, eid := range comp {
				visited[eid] = true
			}
		}
	}

	for _, e := range edges {
		if visited[e.ID] || isPassThrough(g, e.NodeLeft) {
			continue
		}
		register(buildForward(e.ID))
	}
	for _, e := range edges {
		if visited[e.ID] {
			continue
		}
		register(buildForward(e.ID))
	}

	return result
}

func equalEdgeIDs(a, b []graph.EdgeID) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
