package graphrt

import (
	"testing"

	"github.com/katalvlaran/taro/taroerr"
	"github.com/stretchr/testify/require"
)

func chainTopology() RawTopology {
	// N0 -> N1 -> N2 -> N3 -> N4, each edge weight 1.
	return RawTopology{
		NodeCount:     5,
		EdgeCount:     4,
		FirstEdge:     []int32{0, 1, 2, 3, 4, 4},
		EdgeTarget:    []int32{1, 2, 3, 4},
		BaseWeight:    []float32{1, 1, 1, 1},
		EdgeProfileID: []uint16{0, 0, 0, 0},
	}
}

func TestLoad_Chain(t *testing.T) {
	g, err := Load(chainTopology())
	require.NoError(t, err)
	require.Equal(t, 5, g.NodeCount())
	require.Equal(t, 4, g.EdgeCount())

	for e := int32(0); e < 4; e++ {
		require.Equal(t, e, g.Origin(e))
		require.Equal(t, e+1, g.Destination(e))
	}

	report := g.Validate()
	require.True(t, report.OK())
	require.Len(t, report.Warnings, 1, "N4 has no outgoing edges")
}

func TestLoad_ComputesOriginWhenAbsent(t *testing.T) {
	raw := chainTopology()
	raw.EdgeOrigin = nil
	g, err := Load(raw)
	require.NoError(t, err)
	require.Equal(t, []int32{0, 1, 2, 3}, g.edgeOrigin)
}

func TestLoad_RejectsLengthMismatch(t *testing.T) {
	raw := chainTopology()
	raw.FirstEdge = raw.FirstEdge[:4]
	_, err := Load(raw)
	require.ErrorIs(t, err, taroerr.ErrInvalidArtifact)
}

func TestLoad_RejectsBadMonotonicity(t *testing.T) {
	raw := chainTopology()
	raw.FirstEdge = []int32{0, 3, 2, 3, 4, 4}
	_, err := Load(raw)
	require.Error(t, err)
}

func TestLoad_RejectsOutOfRangeTarget(t *testing.T) {
	raw := chainTopology()
	raw.EdgeTarget[0] = 99
	_, err := Load(raw)
	require.Error(t, err)
}

func TestLoad_RejectsMalformedCSRSpanRatherThanSkipping(t *testing.T) {
	// §9 open question: a malformed span is rejected, not silently skipped.
	raw := chainTopology()
	raw.EdgeOrigin = []int32{0, 1, 2, 3}
	raw.FirstEdge = []int32{0, 1, 2, 3, 0, 4} // node 3's span regresses
	_, err := Load(raw)
	require.Error(t, err)
}

func TestLoad_CoordinatesMustBeFinite(t *testing.T) {
	raw := chainTopology()
	raw.Coordinates = make([]Coordinate, 5)
	raw.Coordinates[2] = Coordinate{A: 1, B: 1}
	raw.Coordinates[3] = Coordinate{A: 1, B: 1.0 / zero()}
	_, err := Load(raw)
	require.Error(t, err)
}

func zero() float64 { return 0 }
