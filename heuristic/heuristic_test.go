package heuristic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/taro/graphrt"
	"github.com/katalvlaran/taro/profile"
	"github.com/katalvlaran/taro/taroerr"
)

// lineTopology builds a 3-node chain 0->1->2 with base weight 10 per edge
// and coordinates (0,0), (3,4), (6,8), matching a 3-4-5 right triangle
// (Euclidean distance 0->1 is 5, 1->2 is 5, 0->2 is 10).
func lineTopology(coords []graphrt.Coordinate) *graphrt.Graph {
	raw := graphrt.RawTopology{
		NodeCount:  3,
		EdgeCount:  2,
		FirstEdge:  []int32{0, 1, 2, 2},
		EdgeTarget: []int32{1, 2},
		BaseWeight: []float32{10, 10},
		Coordinates: coords,
	}
	g, err := graphrt.Load(raw)
	if err != nil {
		panic(err)
	}
	return g
}

func emptyProfiles() *profile.Store {
	s, err := profile.Build(nil)
	if err != nil {
		panic(err)
	}
	return s
}

func TestNullProvider_AlwaysZero(t *testing.T) {
	p := NullProvider{}
	assert.Equal(t, TypeNone, p.Type())
	bound := p.BindGoal(2)
	assert.Equal(t, 0.0, bound.EstimateFromNode(0))
	assert.Equal(t, 0.0, bound.EstimateFromNode(2))
}

func TestEuclideanProvider_KnownDistances(t *testing.T) {
	g := lineTopology([]graphrt.Coordinate{{A: 0, B: 0}, {A: 3, B: 4}, {A: 6, B: 8}})
	profiles := emptyProfiles()

	scale, err := CalibrateLowerBoundScale(g, profiles, EuclideanDistance)
	require.NoError(t, err)
	// Each edge: base weight 10, distance 5 -> ratio 2.0 for both edges.
	assert.InDelta(t, 2.0, scale, 1e-9)

	p := NewEuclideanProvider(g, scale)
	bound := p.BindGoal(2)
	assert.InDelta(t, 20.0, bound.EstimateFromNode(0), 1e-9)
	assert.InDelta(t, 10.0, bound.EstimateFromNode(1), 1e-9)
	assert.InDelta(t, 0.0, bound.EstimateFromNode(2), 1e-9)
}

func TestSphericalProvider_AntiMeridianBoundary(t *testing.T) {
	// Two points straddling the anti-meridian: lon 179.9 and -179.9 are
	// close together, not ~360 degrees apart.
	a := graphrt.Coordinate{A: 0, B: 179.9}
	b := graphrt.Coordinate{A: 0, B: -179.9}

	d := haversineMeters(a, b)
	// 0.2 degrees of longitude at the equator is roughly 22.2 km.
	assert.Less(t, d, 50_000.0)
	assert.Greater(t, d, 1_000.0)
}

func TestSphericalProvider_ValidGeodeticRange(t *testing.T) {
	latOK, lonOK := ValidGeodetic(graphrt.Coordinate{A: 91, B: 0})
	assert.False(t, latOK)
	assert.True(t, lonOK)

	latOK, lonOK = ValidGeodetic(graphrt.Coordinate{A: 0, B: 181})
	assert.True(t, latOK)
	assert.False(t, lonOK)
}

func TestFactory_SphericalRejectsOutOfRangeCoordinates(t *testing.T) {
	g := lineTopology([]graphrt.Coordinate{{A: 0, B: 0}, {A: 95, B: 0}, {A: 10, B: 0}})
	profiles := emptyProfiles()

	_, err := New(Config{Type: TypeSpherical, Graph: g, Profiles: profiles})
	require.Error(t, err)
	assert.ErrorIs(t, err, taroerr.ErrInvalidConfig)

	var coded *taroerr.CodedError
	require.ErrorAs(t, err, &coded)
	assert.Equal(t, taroerr.ReasonSphericalLatRange, coded.Reason)
}

func TestSelectLandmarks_Deterministic(t *testing.T) {
	g := lineTopology([]graphrt.Coordinate{{A: 0, B: 0}, {A: 3, B: 4}, {A: 6, B: 8}})

	first := SelectLandmarks(g, 2, 42)
	second := SelectLandmarks(g, 2, 42)
	assert.Equal(t, first, second)
	assert.Len(t, first, 2)
}

func TestBuildLandmarkStore_AdmissibleEstimate(t *testing.T) {
	g := lineTopology([]graphrt.Coordinate{{A: 0, B: 0}, {A: 3, B: 4}, {A: 6, B: 8}})
	profiles := emptyProfiles()

	store := BuildLandmarkStore(g, profiles, 1, 7, 0)
	require.Len(t, store.LandmarkIDs, 1)
	assert.Equal(t, 3, store.NodeCount)
	assert.NotZero(t, store.Signature)

	provider := NewALTProvider(store)
	bound := provider.BindGoal(2)
	// True lower-bound cost node0->node2 is 20; ALT must never overestimate.
	assert.LessOrEqual(t, bound.EstimateFromNode(0), 20.0)
	assert.Equal(t, 0.0, bound.EstimateFromNode(2))
}

func TestFactory_LandmarkRejectsSignatureMismatch(t *testing.T) {
	g := lineTopology([]graphrt.Coordinate{{A: 0, B: 0}, {A: 3, B: 4}, {A: 6, B: 8}})
	profiles := emptyProfiles()

	store := BuildLandmarkStore(g, profiles, 1, 7, 0)
	store.Signature ^= 0xdeadbeef

	_, err := New(Config{Type: TypeLandmark, Graph: g, Profiles: profiles, LandmarkStore: store})
	require.Error(t, err)

	var coded *taroerr.CodedError
	require.ErrorAs(t, err, &coded)
	assert.Equal(t, taroerr.ReasonLandmarkSignatureMismatch, coded.Reason)
}

func TestFactory_LandmarkRejectsNodeCountMismatch(t *testing.T) {
	g := lineTopology([]graphrt.Coordinate{{A: 0, B: 0}, {A: 3, B: 4}, {A: 6, B: 8}})
	profiles := emptyProfiles()

	store := BuildLandmarkStore(g, profiles, 1, 7, 0)
	store.NodeCount = 99

	_, err := New(Config{Type: TypeLandmark, Graph: g, Profiles: profiles, LandmarkStore: store})
	require.Error(t, err)

	var coded *taroerr.CodedError
	require.ErrorAs(t, err, &coded)
	assert.Equal(t, taroerr.ReasonLandmarkNodeCountMismatch, coded.Reason)
}

func TestFactory_RequiresGraphAndProfiles(t *testing.T) {
	_, err := New(Config{Type: TypeEuclidean})
	require.Error(t, err)
	var coded *taroerr.CodedError
	require.ErrorAs(t, err, &coded)
	assert.Equal(t, taroerr.ReasonGraphRequired, coded.Reason)
}

func TestFactory_NoneTypeReturnsNullProvider(t *testing.T) {
	p, err := New(Config{Type: TypeNone})
	require.NoError(t, err)
	assert.Equal(t, TypeNone, p.Type())
}
