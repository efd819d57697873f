package graphrt

import (
	"math"

	"github.com/katalvlaran/taro/taroerr"
)

// RawTopology is the decoded-but-unvalidated shape a graph-artifact reader
// produces (spec §1, §6: binary decoding is an external collaborator; this
// struct is the contract boundary). Load validates it exactly once and
// produces an immutable Graph.
type RawTopology struct {
	NodeCount int
	EdgeCount int

	FirstEdge     []int32 // len N+1, required
	EdgeTarget    []int32 // len M, required
	EdgeOrigin    []int32 // len M, optional: nil means "compute from FirstEdge"
	BaseWeight    []float32
	EdgeProfileID []uint16

	Coordinates []Coordinate // optional: nil means "absent"
}

// Load validates raw and constructs an immutable Graph, or returns an
// InvalidArtifact error naming the first offending field (spec §4.1 Loader
// contract). Validation order: vector lengths, then CSR monotonicity and
// bounds, then value ranges, then coordinates.
func Load(raw RawTopology) (*Graph, error) {
	n := raw.NodeCount
	m := raw.EdgeCount

	if n < 0 {
		return nil, taroerr.Artifact("node_count", "NegativeCount")
	}
	if m < 0 {
		return nil, taroerr.Artifact("edge_count", "NegativeCount")
	}
	if len(raw.FirstEdge) != n+1 {
		return nil, taroerr.Artifact("first_edge", "LengthMismatch")
	}
	if len(raw.EdgeTarget) != m {
		return nil, taroerr.Artifact("edge_target", "LengthMismatch")
	}
	if raw.BaseWeight != nil && len(raw.BaseWeight) != m {
		return nil, taroerr.Artifact("base_weight", "LengthMismatch")
	}
	if raw.EdgeProfileID != nil && len(raw.EdgeProfileID) != m {
		return nil, taroerr.Artifact("edge_profile_id", "LengthMismatch")
	}
	if raw.EdgeOrigin != nil && len(raw.EdgeOrigin) != m {
		return nil, taroerr.Artifact("edge_origin", "LengthMismatch")
	}

	// CSR monotonicity: first_edge[0] = 0, first_edge[N] = M, non-decreasing.
	if raw.FirstEdge[0] != 0 {
		return nil, taroerr.Artifact("first_edge[0]", "MustBeZero")
	}
	if int(raw.FirstEdge[n]) != m {
		return nil, taroerr.Artifact("first_edge[N]", "MustEqualEdgeCount")
	}
	for i := 0; i < n; i++ {
		if raw.FirstEdge[i] > raw.FirstEdge[i+1] {
			return nil, taroerr.Artifact("first_edge", "NotMonotone").WithIndex(i)
		}
		if raw.FirstEdge[i+1] > int32(m) {
			return nil, taroerr.Artifact("first_edge", "ExceedsEdgeCount").WithIndex(i + 1)
		}
	}

	// Target range.
	for e := 0; e < m; e++ {
		t := raw.EdgeTarget[e]
		if t < 0 || int(t) >= n {
			return nil, taroerr.Artifact("edge_target", "OutOfRange").WithIndex(e)
		}
	}

	// Origin: compute if absent, else cross-check consistency with
	// first_edge (spec §3 invariant; §9 open question resolved as rejection
	// rather than the source's silent skip).
	origin := raw.EdgeOrigin
	if origin == nil {
		origin = make([]int32, m)
		for nodeIdx := 0; nodeIdx < n; nodeIdx++ {
			start, end := raw.FirstEdge[nodeIdx], raw.FirstEdge[nodeIdx+1]
			for e := start; e < end; e++ {
				origin[e] = int32(nodeIdx)
			}
		}
	} else {
		for nodeIdx := 0; nodeIdx < n; nodeIdx++ {
			start, end := raw.FirstEdge[nodeIdx], raw.FirstEdge[nodeIdx+1]
			for e := start; e < end; e++ {
				if origin[e] != int32(nodeIdx) {
					return nil, taroerr.Artifact("edge_origin", "InconsistentWithFirstEdge").WithIndex(int(e))
				}
			}
		}
		for e := 0; e < m; e++ {
			if origin[e] < 0 || int(origin[e]) >= n {
				return nil, taroerr.Artifact("edge_origin", "OutOfRange").WithIndex(e)
			}
		}
	}

	baseWeight := raw.BaseWeight
	if baseWeight == nil {
		baseWeight = make([]float32, m)
	}
	for e, w := range baseWeight {
		if math.IsNaN(float64(w)) || math.IsInf(float64(w), 0) || w < 0 {
			return nil, taroerr.Artifact("base_weight", "MustBeFiniteNonNegative").WithIndex(e)
		}
	}

	profileID := raw.EdgeProfileID
	if profileID == nil {
		profileID = make([]uint16, m)
	}

	g := &Graph{
		nodeCount:     n,
		edgeCount:     m,
		firstEdge:     append([]int32(nil), raw.FirstEdge...),
		edgeTarget:    append([]int32(nil), raw.EdgeTarget...),
		edgeOrigin:    origin,
		baseWeight:    baseWeight,
		edgeProfileID: profileID,
	}

	if raw.Coordinates != nil {
		if len(raw.Coordinates) != n {
			return nil, taroerr.Artifact("coordinates", "LengthMismatch")
		}
		for i, c := range raw.Coordinates {
			if !c.Finite() {
				return nil, taroerr.Artifact("coordinates", "NonFiniteValue").WithIndex(i)
			}
		}
		g.hasCoordinates = true
		g.coordinates = append([]Coordinate(nil), raw.Coordinates...)
	}

	return g, nil
}
