// Package turncost implements the immutable open-addressed turn-cost map
// (spec §4.2): O(1) lookup of the penalty for a (from-edge, to-edge)
// transition, keyed by the packed 64-bit pair.
//
// lvlath itself never needs a custom hash table (its adjacency is Go's
// builtin map, see core/methods.go), so this structure has no direct
// teacher analogue; it follows the corpus's general primitive-array idiom
// (matrix's flat slices, core's SoA-free-but-indexed style) and names its
// sentinel errors the way builder/errors.go and core/types.go do.
package turncost

import (
	"errors"
	"math"
)

// DefaultCost is returned for any (from, to) pair with no explicit
// definition (spec §4.2).
const DefaultCost float32 = 0

// Forbidden is the sentinel stored-value meaning "this transition is
// forbidden".
var Forbidden = float32(math.Inf(1))

// emptySlot is not stored in Map.keys: slot emptiness is tracked by
// Map.occupied instead.
const emptySlot = -1

// Sentinel errors for turncost construction.
var (
	// ErrNegativeEdgeID indicates a from/to edge id below zero in a raw entry.
	ErrNegativeEdgeID = errors.New("turncost: negative edge id")

	// ErrInvalidPenalty indicates a penalty that is NaN or -Inf (only
	// finite non-negative values or +Inf are accepted).
	ErrInvalidPenalty = errors.New("turncost: invalid penalty")
)

// RawEntry is one {from_edge, to_edge, penalty_seconds} definition from the
// artifact (spec §3).
type RawEntry struct {
	FromEdge int64
	ToEdge   int64
	Penalty  float32
}

// packKey packs (from, to) edge indices into the 64-bit key the map
// hashes on (spec §4.2: "(from << 32) | to").
func packKey(from, to int64) uint64 {
	return (uint64(from) << 32) | (uint64(to) & 0xFFFFFFFF)
}

// Map is the immutable open-addressed turn-cost table. Safe for unbounded
// concurrent readers once built.
type Map struct {
	keys     []uint64  // packed key per slot; meaningful only where occupied is true
	values   []float32 // penalty per slot
	occupied []bool
	capacity uint64
	count    int
}

// nextPowerOfTwo returns the smallest power of two >= n (n >= 1).
func nextPowerOfTwo(n uint64) uint64 {
	if n <= 1 {
		return 1
	}
	p := uint64(1)
	for p < n {
		p <<= 1
	}
	return p
}

// capacityFor sizes a table for load factor ≈ 0.6, i.e.
// capacity ≥ ceil(count × 1.67), rounded up to a power of two (spec §4.2).
func capacityFor(count int) uint64 {
	if count == 0 {
		return 1
	}
	need := uint64(math.Ceil(float64(count) * 1.67))
	return nextPowerOfTwo(need)
}

// mix64 is MurmurHash3's 64-bit finalizer (fmix64), used to disperse the
// packed key before taking it modulo the table capacity (spec §4.2).
func mix64(k uint64) uint64 {
	k ^= k >> 33
	k *= 0xff51afd7ed558ccd
	k ^= k >> 33
	k *= 0xc4ceb9fe1a85ec53
	k ^= k >> 33
	return k
}

// Build constructs an immutable Map from the given raw entries. Duplicate
// (from, to) pairs: the last definition wins (spec §3). Returns
// ErrNegativeEdgeID or ErrInvalidPenalty on the first invalid entry.
func Build(entries []RawEntry) (*Map, error) {
	for _, e := range entries {
		if e.FromEdge < 0 || e.ToEdge < 0 {
			return nil, ErrNegativeEdgeID
		}
		if math.IsNaN(float64(e.Penalty)) || math.IsInf(float64(e.Penalty), -1) {
			return nil, ErrInvalidPenalty
		}
		if e.Penalty < 0 {
			return nil, ErrInvalidPenalty
		}
	}

	// Dedupe by packed key up front so count reflects unique keys, matching
	// the "last definition wins" contract exactly.
	dedup := make(map[uint64]float32, len(entries))
	order := make([]uint64, 0, len(entries))
	for _, e := range entries {
		key := packKey(e.FromEdge, e.ToEdge)
		if _, exists := dedup[key]; !exists {
			order = append(order, key)
		}
		dedup[key] = e.Penalty
	}

	cap64 := capacityFor(len(dedup))
	m := &Map{
		keys:     make([]uint64, cap64),
		values:   make([]float32, cap64),
		occupied: make([]bool, cap64),
		capacity: cap64,
	}

	mask := cap64 - 1
	for _, key := range order {
		slot := mix64(key) & mask
		for m.occupied[slot] {
			slot = (slot + 1) & mask
		}
		m.keys[slot] = key
		m.values[slot] = dedup[key]
		m.occupied[slot] = true
		m.count++
	}

	return m, nil
}

// find returns the slot index holding (from, to) and true, or false if the
// pair was never inserted (a miss, encountered via an unoccupied slot
// during linear probing).
func (m *Map) find(from, to int32) (int, bool) {
	if m.capacity == 0 {
		return 0, false
	}
	key := packKey(int64(from), int64(to))
	mask := m.capacity - 1
	slot := mix64(key) & mask
	for i := uint64(0); i < m.capacity; i++ {
		s := (slot + i) & mask
		if !m.occupied[s] {
			return 0, false
		}
		if m.keys[s] == key {
			return int(s), true
		}
	}
	return 0, false
}

// Cost returns the stored penalty for (from, to), or DefaultCost if no
// entry was defined (spec §4.2).
func (m *Map) Cost(from, to int32) float32 {
	if slot, ok := m.find(from, to); ok {
		return m.values[slot]
	}
	return DefaultCost
}

// HasCost distinguishes an explicit-zero definition from the implicit
// default (spec §4.2).
func (m *Map) HasCost(from, to int32) bool {
	_, ok := m.find(from, to)
	return ok
}

// IsForbidden reports whether the stored penalty for (from, to) is +Inf.
// Undefined pairs are never forbidden.
func (m *Map) IsForbidden(from, to int32) bool {
	slot, ok := m.find(from, to)
	return ok && math.IsInf(float64(m.values[slot]), 1)
}

// Len returns the number of distinct (from, to) pairs stored.
func (m *Map) Len() int { return m.count }

// Capacity returns the table's slot count (a power of two).
func (m *Map) Capacity() uint64 { return m.capacity }
