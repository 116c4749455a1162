package pathutil

import (
	"container/heap"

	"hapcore/graph"
)

// AnyPath is a depth-bounded DFS that returns the first path whose
// accumulated length (the first edge contributes 0; every edge appended
// after it contributes its own length) exceeds maxDepth. If no such path
// exists, it returns the longest dead-end path found. Local repeats
// (revisiting an edge already in the current path) are skipped, and so are
// looped edges shorter than maxDepth — isLooped reports whether an edge
// belongs to a looped unbranching path, computed by the caller (typically
// from UnbranchingPaths) and threaded in rather than recomputed here,
// since every caller already has that set on hand.
//
// Grounded on haplotype_resolver.cpp's anyPath lambda.
func AnyPath(g *graph.Graph, start graph.EdgeID, maxDepth int, isLooped func(graph.EdgeID) bool) []graph.EdgeID {
	type frame struct {
		path   []graph.EdgeID
		length int
	}

	stack := []frame{{path: []graph.EdgeID{start}, length: 0}}
	var deadEnds []frame

	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if cur.length > maxDepth {
			return cur.path
		}

		lastEdge := g.Edge(cur.path[len(cur.path)-1])
		deadEnd := true
		for _, nxt := range g.Node(lastEdge.NodeRight).Out {
			if containsEdge(cur.path, nxt) {
				continue
			}
			nxtEdge := g.Edge(nxt)
			if isLooped != nil && isLooped(nxt) && nxtEdge.Length < maxDepth {
				continue
			}
			deadEnd = false

			newPath := make([]graph.EdgeID, len(cur.path)+1)
			copy(newPath, cur.path)
			newPath[len(cur.path)] = nxt
			stack = append(stack, frame{path: newPath, length: cur.length + nxtEdge.Length})
		}
		if deadEnd {
			deadEnds = append(deadEnds, cur)
		}
	}

	if len(deadEnds) == 0 {
		return nil
	}
	best := deadEnds[0]
	for _, d := range deadEnds[1:] {
		if d.length > best.length {
			best = d
		}
	}
	return best.path
}

func containsEdge(path []graph.EdgeID, id graph.EdgeID) bool {
	for _, e := range path {
		if e == id {
			return true
		}
	}
	return false
}

// ShortestPathsFrom runs Dijkstra from source, with edge weight =
// edge length + 1, expanding the out-edges of the head node of each edge.
// sink is never traversed outbound. If any tentative distance exceeds
// maxBubble, the search aborts and reports failure.
//
// Grounded on haplotype_resolver.cpp's getShortestPathsLen lambda.
func ShortestPathsFrom(g *graph.Graph, source, sink graph.EdgeID, maxBubble int) (dist map[graph.EdgeID]int, failure bool) {
	dist = map[graph.EdgeID]int{source: 0}
	closed := map[graph.EdgeID]bool{}

	pq := &edgeHeap{{edge: source, priority: 0}}
	for pq.Len() > 0 {
		cur := heap.Pop(pq).(edgeWithPriority)
		if closed[cur.edge] {
			continue
		}
		closed[cur.edge] = true

		curEdge := g.Edge(cur.edge)
		for _, nxt := range g.Node(curEdge.NodeRight).Out {
			if nxt == sink {
				continue
			}
			newDist := cur.priority + g.Edge(nxt).Length + 1
			if existing, ok := dist[nxt]; !ok || newDist < existing {
				if newDist > maxBubble {
					return dist, true
				}
				dist[nxt] = newDist
				heap.Push(pq, edgeWithPriority{edge: nxt, priority: newDist})
			}
		}
	}

	delete(dist, source)
	return dist, false
}

type edgeWithPriority struct {
	edge     graph.EdgeID
	priority int
}

type edgeHeap []edgeWithPriority

func (h edgeHeap) Len() int            { return len(h) }
func (h edgeHeap) Less(i, j int) bool  { return h[i].priority < h[j].priority }
func (h edgeHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *edgeHeap) Push(x interface{}) { *h = append(*h, x.(edgeWithPriority)) }
func (h *edgeHeap) Pop() interface{} {
	old := *h
	n := len(old)
	v := old[n-1]
	*h = old[:n-1]
	return v
}
