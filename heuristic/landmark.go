package heuristic

import (
	"hash/fnv"
	"math"

	"github.com/katalvlaran/taro/graphrt"
	"github.com/katalvlaran/taro/profile"
)

// LandmarkStore holds the precomputed forward/backward distance tables for
// the ALT heuristic (spec §3, §4.7).
type LandmarkStore struct {
	NodeCount   int
	LandmarkIDs []int32
	Forward     [][]float32 // [landmark][node]
	Backward    [][]float32 // [landmark][node]
	Signature   uint64
}

// splitMix64 is the teacher's deterministic-RNG avalanche mix
// (tsp/rng.go's deriveSeed), reused here to seed the landmark-selection
// shuffle.
func splitMix64(x uint64) uint64 {
	x += 0x9e3779b97f4a7c15
	z := x
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	z ^= z >> 31
	return z
}

// splittableRNG is a minimal deterministic 64-bit generator in the
// SplitMix64 family, giving reproducible shuffles independent of
// math/rand's algorithm version (spec §4.7: "seeded 64-bit RNG").
type splittableRNG struct{ state uint64 }

func newSplittableRNG(seed uint64) *splittableRNG { return &splittableRNG{state: seed} }

func (r *splittableRNG) next() uint64 {
	r.state = splitMix64(r.state)
	return r.state
}

// intn returns a value in [0, n) by plain modulo reduction, which is
// slightly biased (adequate for shuffling; this is not a cryptographic RNG).
func (r *splittableRNG) intn(n int) int {
	if n <= 0 {
		return 0
	}
	return int(r.next() % uint64(n))
}

// shuffleNodesFisherYates performs a seeded Fisher-Yates shuffle of nodes
// in place, the same algorithm shape as lvlath/tsp's
// shuffleIntsInPlace, parameterized over a splittableRNG instead of
// math/rand so landmark selection has its own dedicated, versioned seed
// space.
func shuffleNodesFisherYates(nodes []int32, rng *splittableRNG) {
	for i := len(nodes) - 1; i > 0; i-- {
		j := rng.intn(i + 1)
		nodes[i], nodes[j] = nodes[j], nodes[i]
	}
}

// SelectLandmarks deterministically selects up to k landmark node ids:
// materialize [0,N), seed-shuffle, keep the first k nodes with non-zero
// out-degree, then fill from the remainder if needed (spec §4.7).
func SelectLandmarks(g *graphrt.Graph, k int, seed uint64) []int32 {
	n := g.NodeCount()
	if k > n {
		k = n
	}
	all := make([]int32, n)
	for i := range all {
		all[i] = int32(i)
	}
	rng := newSplittableRNG(seed)
	shuffleNodesFisherYates(all, rng)

	selected := make([]int32, 0, k)
	used := make([]bool, n)
	for _, node := range all {
		if len(selected) == k {
			break
		}
		if g.Degree(node) > 0 {
			selected = append(selected, node)
			used[node] = true
		}
	}
	if len(selected) < k {
		for _, node := range all {
			if len(selected) == k {
				break
			}
			if !used[node] {
				selected = append(selected, node)
				used[node] = true
			}
		}
	}
	return selected
}

// ComputeCompatibilitySignature computes the FNV-1a signature over
// (node_count, edge_count, and for every edge: origin, destination,
// lower_bound_weight_f32_bits), used to detect a stale landmark
// precomputation against a graph/profile pair (spec §4.7).
func ComputeCompatibilitySignature(g *graphrt.Graph, profiles *profile.Store) uint64 {
	h := fnv.New64a()
	var buf [4]byte

	writeU32 := func(v uint32) {
		buf[0] = byte(v)
		buf[1] = byte(v >> 8)
		buf[2] = byte(v >> 16)
		buf[3] = byte(v >> 24)
		_, _ = h.Write(buf[:])
	}

	writeU32(uint32(g.NodeCount()))
	writeU32(uint32(g.EdgeCount()))
	for e := 0; e < g.EdgeCount(); e++ {
		ei := int32(e)
		writeU32(uint32(g.Origin(ei)))
		writeU32(uint32(g.Destination(ei)))
		w := saturateF32(lowerBoundCost(g, profiles, ei))
		writeU32(math.Float32bits(w))
	}
	return h.Sum64()
}

// BuildLandmarkStore runs the deterministic landmark preprocessing of
// spec §4.7: select k landmarks, then run a forward and a backward
// Dijkstra per landmark over the per-edge lower bound. maxSettledPerLandmark
// bounds work per Dijkstra (0 = unbounded).
func BuildLandmarkStore(g *graphrt.Graph, profiles *profile.Store, k int, seed uint64, maxSettledPerLandmark int) *LandmarkStore {
	ids := SelectLandmarks(g, k, seed)
	rev := buildReverseIndex(g)

	store := &LandmarkStore{
		NodeCount:   g.NodeCount(),
		LandmarkIDs: ids,
		Forward:     make([][]float32, len(ids)),
		Backward:    make([][]float32, len(ids)),
	}
	for i, landmark := range ids {
		store.Forward[i] = forwardLowerBoundDijkstra(g, profiles, landmark, maxSettledPerLandmark)
		store.Backward[i] = backwardLowerBoundDijkstra(g, profiles, rev, landmark, maxSettledPerLandmark)
	}
	store.Signature = ComputeCompatibilitySignature(g, profiles)
	return store
}

// ALTProvider is the A*/Landmarks/Triangle-inequality heuristic (spec
// §4.7).
type ALTProvider struct {
	store *LandmarkStore
}

// NewALTProvider constructs a provider over a compatible landmark store.
// Compatibility (node count, signature) must already have been checked by
// the factory.
func NewALTProvider(store *LandmarkStore) *ALTProvider {
	return &ALTProvider{store: store}
}

func (*ALTProvider) Type() Type { return TypeLandmark }

func (p *ALTProvider) BindGoal(goal int32) GoalBoundHeuristic {
	return &altBound{store: p.store, goal: goal}
}

type altBound struct {
	store *LandmarkStore
	goal  int32
}

func (b *altBound) EstimateFromNode(node int32) float64 {
	best := 0.0
	for i := range b.store.LandmarkIDs {
		fwd := b.store.Forward[i]
		bwd := b.store.Backward[i]

		forwardTerm := lowerBoundDiff(fwd[b.goal], fwd[node])
		backwardTerm := lowerBoundDiff(bwd[node], bwd[b.goal])

		if forwardTerm > best {
			best = forwardTerm
		}
		if backwardTerm > best {
			best = backwardTerm
		}
	}
	return best
}

// lowerBoundDiff computes max(0, a-b), treating either +Inf operand as
// contributing 0 (spec §4.7).
func lowerBoundDiff(a, b float32) float64 {
	if math.IsInf(float64(a), 1) || math.IsInf(float64(b), 1) {
		return 0
	}
	d := float64(a) - float64(b)
	if d < 0 {
		return 0
	}
	return d
}
