package heuristic

import (
	"container/heap"
	"math"

	"github.com/katalvlaran/taro/graphrt"
	"github.com/katalvlaran/taro/profile"
)

// saturateF32 clamps a float64 lower-bound accumulation into the f32
// range, matching the cost engine's own saturation rule (spec §4.7:
// "saturated to f32::MAX").
func saturateF32(v float64) float32 {
	if math.IsNaN(v) || math.IsInf(v, 1) || v > math.MaxFloat32 {
		return float32(math.Inf(1))
	}
	return float32(v)
}

// reverseIndex is a prebuilt reverse-adjacency CSR: incoming[n] lists the
// edge indices whose destination is n (spec §4.7 backward Dijkstra).
type reverseIndex struct {
	firstIncoming []int32 // len N+1
	incomingEdges []int32 // len M
}

// buildReverseIndex constructs the reverse-adjacency CSR for g in a single
// counting-sort pass, mirroring the forward CSR's own construction shape
// (graphrt.Load's origin-from-first_edge pass).
func buildReverseIndex(g *graphrt.Graph) *reverseIndex {
	n := g.NodeCount()
	m := g.EdgeCount()

	counts := make([]int32, n+1)
	for e := 0; e < m; e++ {
		counts[g.Destination(int32(e))+1]++
	}
	for i := 0; i < n; i++ {
		counts[i+1] += counts[i]
	}
	first := append([]int32(nil), counts...)
	cursor := append([]int32(nil), counts...)
	edges := make([]int32, m)
	for e := 0; e < m; e++ {
		dst := g.Destination(int32(e))
		edges[cursor[dst]] = int32(e)
		cursor[dst]++
	}
	return &reverseIndex{firstIncoming: first, incomingEdges: edges}
}

// incoming iterates the incoming edges of node n.
func (r *reverseIndex) incoming(n int32, fn func(e int32) bool) {
	start, end := r.firstIncoming[n], r.firstIncoming[n+1]
	for e := start; e < end; e++ {
		if !fn(r.incomingEdges[e]) {
			return
		}
	}
}

// nodeHeapItem is one entry in the landmark Dijkstra's lazy-decrease-key
// min-heap, ordered by (distance, node) ascending for determinism (spec
// §4.7), following lvlath/dijkstra's nodeItem/nodePQ shape.
type nodeHeapItem struct {
	node int32
	dist float32
}

type nodeHeap []nodeHeapItem

func (h nodeHeap) Len() int { return len(h) }
func (h nodeHeap) Less(i, j int) bool {
	if h[i].dist != h[j].dist {
		return h[i].dist < h[j].dist
	}
	return h[i].node < h[j].node
}
func (h nodeHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }
func (h *nodeHeap) Push(x interface{}) { *h = append(*h, x.(nodeHeapItem)) }
func (h *nodeHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// forwardLowerBoundDijkstra computes, for source, the shortest lower-bound
// distance to every node over outgoing edges. Unreachable nodes retain
// +Inf. maxSettled bounds the number of extracted nodes (0 = unbounded).
func forwardLowerBoundDijkstra(g *graphrt.Graph, profiles *profile.Store, source int32, maxSettled int) []float32 {
	n := g.NodeCount()
	dist := make([]float32, n)
	for i := range dist {
		dist[i] = float32(math.Inf(1))
	}
	visited := make([]bool, n)
	dist[source] = 0

	h := &nodeHeap{{node: source, dist: 0}}
	heap.Init(h)

	settled := 0
	for h.Len() > 0 {
		item := heap.Pop(h).(nodeHeapItem)
		u := item.node
		if visited[u] {
			continue
		}
		visited[u] = true
		settled++
		if maxSettled > 0 && settled > maxSettled {
			break
		}

		g.Outgoing(u, func(e int32) bool {
			v := g.Destination(e)
			w := saturateF32(lowerBoundCost(g, profiles, e))
			nd := dist[u] + w
			if nd < dist[v] {
				dist[v] = nd
				heap.Push(h, nodeHeapItem{node: v, dist: nd})
			}
			return true
		})
	}
	return dist
}

// backwardLowerBoundDijkstra computes, for target, the shortest
// lower-bound distance from every node to target, via the prebuilt
// reverse-adjacency index (spec §4.7).
func backwardLowerBoundDijkstra(g *graphrt.Graph, profiles *profile.Store, rev *reverseIndex, target int32, maxSettled int) []float32 {
	n := g.NodeCount()
	dist := make([]float32, n)
	for i := range dist {
		dist[i] = float32(math.Inf(1))
	}
	visited := make([]bool, n)
	dist[target] = 0

	h := &nodeHeap{{node: target, dist: 0}}
	heap.Init(h)

	settled := 0
	for h.Len() > 0 {
		item := heap.Pop(h).(nodeHeapItem)
		u := item.node
		if visited[u] {
			continue
		}
		visited[u] = true
		settled++
		if maxSettled > 0 && settled > maxSettled {
			break
		}

		rev.incoming(u, func(e int32) bool {
			v := g.Origin(e)
			w := saturateF32(lowerBoundCost(g, profiles, e))
			nd := dist[u] + w
			if nd < dist[v] {
				dist[v] = nd
				heap.Push(h, nodeHeapItem{node: v, dist: nd})
			}
			return true
		})
	}
	return dist
}
