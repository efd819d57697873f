// Package search implements the time-dependent one-to-one shortest-path
// core over the edge-based graph (spec §4.8): a pooled binary min-heap
// priority queue with decrease-key via a position map, a visited bit-set,
// and the Dijkstra/A* search loop itself.
package search

import "github.com/katalvlaran/taro/taroerr"

// NoPredecessor marks a virtual-source state with no incoming edge (spec
// §4.8 step 2).
const NoPredecessor int32 = -1

const (
	stagePool  = "search.Pool"
	stageQueue = "search.Queue"
)

// State is one priority-queue entry: the edge under consideration, its
// arrival time, its accumulated path cost (g), and its predecessor edge
// (spec §4.8). Priority (the heap ordering key, g+h under A*) is tracked
// separately from Cost so the reconstructed path reports true cost.
type State struct {
	EdgeID       int32
	ArrivalTicks int64
	Cost         float32
	Priority     float32
	Predecessor  int32
}

// less orders states by (priority, arrival_time) ascending (spec §4.8:
// "lower cost first; tie-break on lower arrival_time" — generalized to
// the A* priority so Dijkstra, where priority==cost, is the h=0 case).
func less(a, b State) bool {
	if a.Priority != b.Priority {
		return a.Priority < b.Priority
	}
	return a.ArrivalTicks < b.ArrivalTicks
}

// betterThan reports whether candidate should overwrite existing in an
// already-queued slot (spec §4.8 insert: "compare (cost, arrival_time)
// lexicographically; if strictly better, overwrite").
func betterThan(candidate, existing State) bool {
	return less(candidate, existing)
}

type cell struct {
	state State
	alive bool
}

// Handle identifies a pool cell returned by ExtractMin; the caller must
// pass it to Recycle exactly once (spec §4.8).
type Handle int32

// Queue is the pooled, position-indexed binary min-heap of spec §4.8: a
// 1-based heap array (slot 0 unused) over pool cell ids, combined with an
// edge-id-keyed position map for O(log n) decrease-key, grounded on
// lvlath/dijkstra's nodeItem/nodePQ lazy-decrease-key shape but made
// eager (overwrite in place) and allocation-free via the pool.
type Queue struct {
	capacity int
	heap     []int32 // 1-based; heap[0] unused
	size     int
	position []int32 // len = edgeSpace; 0 = absent, else 1-based heap slot
	touched  []int32 // edge ids with a non-zero position, for cheap Clear

	cells []cell
	free  []int32

	activeStates     int
	peakActiveStates int
}

// NewQueue constructs a Queue with capacity pool cells and a position map
// sized to edgeSpace (normally the graph's edge count).
func NewQueue(capacity, edgeSpace int) *Queue {
	q := &Queue{
		capacity: capacity,
		heap:     make([]int32, capacity+1),
		position: make([]int32, edgeSpace),
		cells:    make([]cell, capacity),
		free:     make([]int32, capacity),
	}
	for i := 0; i < capacity; i++ {
		q.free[i] = int32(i)
	}
	return q
}

// Len returns the number of states currently queued (not yet extracted).
func (q *Queue) Len() int { return q.size }

// ActiveStates returns the number of pool cells currently allocated
// (queued or extracted-but-not-recycled).
func (q *Queue) ActiveStates() int { return q.activeStates }

// PeakActiveStates returns the high-water mark of ActiveStates since
// construction or the last Clear.
func (q *Queue) PeakActiveStates() int { return q.peakActiveStates }

// PoolUtilization returns the fraction of pool capacity currently
// allocated.
func (q *Queue) PoolUtilization() float64 {
	if q.capacity == 0 {
		return 0
	}
	return float64(q.capacity-len(q.free)) / float64(q.capacity)
}

func (q *Queue) swap(i, j int32) {
	q.heap[i], q.heap[j] = q.heap[j], q.heap[i]
	q.position[q.cells[q.heap[i]].state.EdgeID] = i
	q.position[q.cells[q.heap[j]].state.EdgeID] = j
}

func (q *Queue) swim(slot int32) {
	for slot > 1 {
		parent := slot / 2
		if !less(q.cells[q.heap[slot]].state, q.cells[q.heap[parent]].state) {
			break
		}
		q.swap(slot, parent)
		slot = parent
	}
}

func (q *Queue) sink(slot int32) {
	for {
		left, right := slot*2, slot*2+1
		smallest := slot
		if left <= int32(q.size) && less(q.cells[q.heap[left]].state, q.cells[q.heap[smallest]].state) {
			smallest = left
		}
		if right <= int32(q.size) && less(q.cells[q.heap[right]].state, q.cells[q.heap[smallest]].state) {
			smallest = right
		}
		if smallest == slot {
			return
		}
		q.swap(slot, smallest)
		slot = smallest
	}
}

// Insert enqueues or decrease-keys a state for edgeID (spec §4.8):
//   - if edgeID is already queued, overwrite in place and swim only when
//     the candidate is strictly better (priority, then arrival_time);
//   - else acquire a cell from the pool (PoolExhausted if none free),
//     append to the heap tail (HeapFull if already at capacity), and swim.
func (q *Queue) Insert(edgeID int32, arrivalTicks int64, cost, priority float32, predecessor int32) error {
	if int(edgeID) < 0 || int(edgeID) >= len(q.position) {
		return taroerr.Internal(stageQueue, taroerr.ReasonQueueInvariantViolated)
	}

	candidate := State{EdgeID: edgeID, ArrivalTicks: arrivalTicks, Cost: cost, Priority: priority, Predecessor: predecessor}

	if slot := q.position[edgeID]; slot != 0 {
		cellID := q.heap[slot]
		if betterThan(candidate, q.cells[cellID].state) {
			q.cells[cellID].state = candidate
			q.swim(slot)
		}
		return nil
	}

	if len(q.free) == 0 {
		return taroerr.Internal(stagePool, taroerr.ReasonPoolExhausted)
	}
	if q.size >= q.capacity {
		return taroerr.Internal(stageQueue, taroerr.ReasonHeapFull)
	}

	cellID := q.free[len(q.free)-1]
	q.free = q.free[:len(q.free)-1]

	q.size++
	slot := int32(q.size)
	q.heap[slot] = cellID
	q.cells[cellID] = cell{state: candidate, alive: true}
	if q.position[edgeID] == 0 {
		q.touched = append(q.touched, edgeID)
	}
	q.position[edgeID] = slot

	q.activeStates++
	if q.activeStates > q.peakActiveStates {
		q.peakActiveStates = q.activeStates
	}

	q.swim(slot)
	return nil
}

// ExtractMin pops and returns the minimum-priority state plus a handle
// the caller must later pass to Recycle. ok is false when the queue is
// empty (spec §4.8 step 4: the target is unreachable).
func (q *Queue) ExtractMin() (State, Handle, bool) {
	if q.size == 0 {
		return State{}, 0, false
	}

	top := q.heap[1]
	result := q.cells[top].state
	q.position[result.EdgeID] = 0

	last := q.heap[q.size]
	q.heap[1] = last
	q.size--
	if q.size > 0 {
		q.position[q.cells[last].state.EdgeID] = 1
		q.sink(1)
	}

	return result, Handle(top), true
}

// Recycle returns a handle previously produced by ExtractMin to the pool.
// Double-recycling a handle, or recycling when no state is active, is an
// internal invariant violation (spec §4.8).
func (q *Queue) Recycle(h Handle) error {
	idx := int32(h)
	if idx < 0 || int(idx) >= len(q.cells) {
		return taroerr.Internal(stagePool, taroerr.ReasonQueueInvariantViolated)
	}
	if q.activeStates == 0 {
		return taroerr.Internal(stagePool, taroerr.ReasonRecycleWithNoneActive)
	}
	if !q.cells[idx].alive {
		return taroerr.Internal(stagePool, taroerr.ReasonDoubleRecycle)
	}

	q.cells[idx].alive = false
	q.free = append(q.free, idx)
	q.activeStates--
	return nil
}

// Clear resets the queue for reuse: all queued and outstanding-active
// cells return to the pool, size and accounting reset to zero, and
// position entries are cleared only for the edges touched since
// construction or the last Clear (spec §4.8: "replenishes the pool ...
// and resets the accounting").
func (q *Queue) Clear() {
	for i := range q.cells {
		q.cells[i].alive = false
	}
	q.free = q.free[:0]
	for i := 0; i < q.capacity; i++ {
		q.free = append(q.free, int32(i))
	}

	for _, e := range q.touched {
		q.position[e] = 0
	}
	q.touched = q.touched[:0]

	q.size = 0
	q.activeStates = 0
	q.peakActiveStates = 0
}
