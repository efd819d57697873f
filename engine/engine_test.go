package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/taro/artifact"
	"github.com/katalvlaran/taro/costengine"
	"github.com/katalvlaran/taro/graphrt"
	"github.com/katalvlaran/taro/idmap"
	"github.com/katalvlaran/taro/profile"
	"github.com/katalvlaran/taro/temporal"
	"github.com/katalvlaran/taro/transition"
)

// mapping is a minimal idmap.Mapping backed by a pair of built-in maps.
type mapping struct {
	toInternal map[string]int32
	toExternal map[int32]string
}

func newMapping(pairs map[string]int32) *mapping {
	m := &mapping{toInternal: pairs, toExternal: make(map[int32]string, len(pairs))}
	for ext, in := range pairs {
		m.toExternal[in] = ext
	}
	return m
}

func (m *mapping) ToInternal(external string) int32 {
	if in, ok := m.toInternal[external]; ok {
		return in
	}
	return idmap.UnknownID
}

func (m *mapping) ToExternal(internal int32) (string, bool) {
	ext, ok := m.toExternal[internal]
	return ext, ok
}

func (m *mapping) ContainsExternal(external string) bool {
	_, ok := m.toInternal[external]
	return ok
}

func (m *mapping) ContainsInternal(internal int32) bool {
	_, ok := m.toExternal[internal]
	return ok
}

func (m *mapping) Size() int { return len(m.toInternal) }

func twoNodeArtifact(t *testing.T, baseWeight float32) *artifact.Decoded {
	t.Helper()
	g, err := graphrt.Load(graphrt.RawTopology{
		NodeCount:  2,
		EdgeCount:  1,
		FirstEdge:  []int32{0, 1, 1},
		EdgeTarget: []int32{1},
		BaseWeight: []float32{baseWeight},
	})
	require.NoError(t, err)
	return &artifact.Decoded{Graph: g}
}

// TestEngine_WeekdayProfileFallsBackOnSunday reproduces the fixture
// scenario where a weekday-only profile is inactive on the query's day of
// week and the effective multiplier must fall back to 1.0 rather than
// applying the weekday bucket value.
func TestEngine_WeekdayProfileFallsBackOnSunday(t *testing.T) {
	art := twoNodeArtifact(t, 2.0)
	profiles, err := profile.Build([]profile.RawProfile{
		{ProfileID: 0, DayMask: 0b0011111, Buckets: []float64{2.0}, Scale: 1.0}, // Mon-Fri only
	})
	require.NoError(t, err)
	art.Profiles = profiles

	ids := newMapping(map[string]int32{"A": 0, "B": 1})
	utc := temporal.UTC

	eng, err := New(Config{
		Artifact:              art,
		IDs:                   ids,
		TemporalTrait:         temporal.Calendar,
		TimezonePolicy:        &utc,
		OffsetRangeStart:      0,
		OffsetRangeEnd:        365 * 86400,
		OffsetStepSec:         86400,
		TransitionTrait:       transition.NodeBased,
		CostUnit:              temporal.Seconds,
		CostBucketSizeSeconds: 86400,
		CostSamplingPolicy:    costengine.Discrete,
	})
	require.NoError(t, err)

	sess := eng.NewSession()
	// 259200s since epoch (1970-01-01 Thu) falls on a Sunday.
	resp, err := sess.Query(Request{SourceExternalID: "A", TargetExternalID: "B", DepartureTicks: 259200, Algorithm: Dijkstra})
	require.NoError(t, err)
	require.True(t, resp.Reachable)
	assert.InDelta(t, 2.0, resp.TotalCost, 1e-6)
}

// TestEngine_WeekdayProfileAppliesOnWeekday is the contrasting weekday
// case: the same profile, queried on a day its mask activates, applies
// the 2.0 multiplier on top of the base weight.
func TestEngine_WeekdayProfileAppliesOnWeekday(t *testing.T) {
	art := twoNodeArtifact(t, 2.0)
	profiles, err := profile.Build([]profile.RawProfile{
		{ProfileID: 0, DayMask: 0b0011111, Buckets: []float64{2.0}, Scale: 1.0},
	})
	require.NoError(t, err)
	art.Profiles = profiles

	ids := newMapping(map[string]int32{"A": 0, "B": 1})
	utc := temporal.UTC

	eng, err := New(Config{
		Artifact:              art,
		IDs:                   ids,
		TemporalTrait:         temporal.Calendar,
		TimezonePolicy:        &utc,
		OffsetRangeStart:      0,
		OffsetRangeEnd:        365 * 86400,
		OffsetStepSec:         86400,
		TransitionTrait:       transition.NodeBased,
		CostUnit:              temporal.Seconds,
		CostBucketSizeSeconds: 86400,
		CostSamplingPolicy:    costengine.Discrete,
	})
	require.NoError(t, err)

	sess := eng.NewSession()
	// 1970-01-01 (epoch 0) was a Thursday, a day the mask activates.
	resp, err := sess.Query(Request{SourceExternalID: "A", TargetExternalID: "B", DepartureTicks: 0, Algorithm: Dijkstra})
	require.NoError(t, err)
	require.True(t, resp.Reachable)
	assert.InDelta(t, 4.0, resp.TotalCost, 1e-6)
}

func TestEngine_UnknownExternalIDIsInvalidInput(t *testing.T) {
	art := twoNodeArtifact(t, 1.0)
	profiles, err := profile.Build([]profile.RawProfile{
		{ProfileID: 0, DayMask: 0x7F, Buckets: []float64{1.0}, Scale: 1.0},
	})
	require.NoError(t, err)
	art.Profiles = profiles

	ids := newMapping(map[string]int32{"A": 0, "B": 1})
	eng, err := New(Config{
		Artifact:              art,
		IDs:                   ids,
		TemporalTrait:         temporal.Linear,
		TransitionTrait:       transition.NodeBased,
		CostUnit:              temporal.Seconds,
		CostBucketSizeSeconds: 3600,
		CostSamplingPolicy:    costengine.Discrete,
	})
	require.NoError(t, err)

	sess := eng.NewSession()
	_, err = sess.Query(Request{SourceExternalID: "A", TargetExternalID: "nonexistent", Algorithm: Dijkstra})
	require.Error(t, err)
}

func TestEngine_UnsupportedHeuristicWithoutCoordinates(t *testing.T) {
	art := twoNodeArtifact(t, 1.0)
	profiles, err := profile.Build([]profile.RawProfile{
		{ProfileID: 0, DayMask: 0x7F, Buckets: []float64{1.0}, Scale: 1.0},
	})
	require.NoError(t, err)
	art.Profiles = profiles

	ids := newMapping(map[string]int32{"A": 0, "B": 1})
	eng, err := New(Config{
		Artifact:              art,
		IDs:                   ids,
		TemporalTrait:         temporal.Linear,
		TransitionTrait:       transition.NodeBased,
		CostUnit:              temporal.Seconds,
		CostBucketSizeSeconds: 3600,
		CostSamplingPolicy:    costengine.Discrete,
	})
	require.NoError(t, err)

	sess := eng.NewSession()
	_, err = sess.Query(Request{SourceExternalID: "A", TargetExternalID: "B", Algorithm: AStar, HeuristicType: HeuristicEuclidean})
	require.Error(t, err)
}
