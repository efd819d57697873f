package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/taro/costengine"
	"github.com/katalvlaran/taro/graphrt"
	"github.com/katalvlaran/taro/overlay"
	"github.com/katalvlaran/taro/profile"
	"github.com/katalvlaran/taro/temporal"
	"github.com/katalvlaran/taro/transition"
	"github.com/katalvlaran/taro/turncost"
)

// chainOf5 builds N0-N1-N2-N3-N4, each edge weight 1, single always-on
// profile with one bucket of 1.0 (spec §8 scenario 1).
func chainOf5(t *testing.T) *graphrt.Graph {
	t.Helper()
	g, err := graphrt.Load(graphrt.RawTopology{
		NodeCount:  5,
		EdgeCount:  4,
		FirstEdge:  []int32{0, 1, 2, 3, 4, 4},
		EdgeTarget: []int32{1, 2, 3, 4},
		BaseWeight: []float32{1, 1, 1, 1},
	})
	require.NoError(t, err)
	return g
}

func allDaysProfile(t *testing.T) *profile.Store {
	t.Helper()
	s, err := profile.Build([]profile.RawProfile{
		{ProfileID: 0, DayMask: 0x7F, Buckets: []float64{1.0}, Scale: 1.0},
	})
	require.NoError(t, err)
	return s
}

func newSession(t *testing.T, g *graphrt.Graph, profiles *profile.Store, ov *overlay.Overlay, turnMap *turncost.Map) *Session {
	t.Helper()
	cfg, err := costengine.NewConfig(temporal.Seconds, 3600, costengine.Discrete)
	require.NoError(t, err)
	eng := costengine.New(cfg, g, profiles, ov, turnMap)

	temporalCtx, err := temporal.Bind(temporal.Linear, nil, "", 0, 0, 0)
	require.NoError(t, err)
	transitionCtx, err := transition.Bind(transition.NodeBased)
	require.NoError(t, err)

	return NewSession(g, eng, temporalCtx, transitionCtx, nil, g.EdgeCount()+1)
}

func TestSession_LinearChain(t *testing.T) {
	g := chainOf5(t)
	profiles := allDaysProfile(t)
	s := newSession(t, g, profiles, nil, nil)

	resp, err := s.Query(Request{SourceNode: 0, TargetNode: 4, DepartureTicks: 0, Algorithm: Dijkstra})
	require.NoError(t, err)
	assert.True(t, resp.Reachable)
	assert.Equal(t, []int32{0, 1, 2, 3}, resp.EdgeSequence)
	assert.InDelta(t, 4.0, resp.TotalCost, 1e-6)
	assert.Equal(t, int64(4), resp.ArrivalTicks)
}

func TestSession_ForbiddenTurnMakesUnreachable(t *testing.T) {
	g := chainOf5(t)
	profiles := allDaysProfile(t)

	turnMap, err := turncost.Build([]turncost.RawEntry{
		{FromEdge: 0, ToEdge: 1, Penalty: turncost.Forbidden},
	})
	require.NoError(t, err)

	cfg, err := costengine.NewConfig(temporal.Seconds, 3600, costengine.Discrete)
	require.NoError(t, err)
	eng := costengine.New(cfg, g, profiles, nil, turnMap)
	temporalCtx, err := temporal.Bind(temporal.Linear, nil, "", 0, 0, 0)
	require.NoError(t, err)
	transitionCtx, err := transition.Bind(transition.EdgeBased)
	require.NoError(t, err)

	s := NewSession(g, eng, temporalCtx, transitionCtx, nil, g.EdgeCount()+1)
	// N0->N2 requires traversing edges 0 then 1; edge 0->1 is forbidden.
	resp, err := s.Query(Request{SourceNode: 0, TargetNode: 2, DepartureTicks: 0, Algorithm: Dijkstra})
	require.NoError(t, err)
	assert.False(t, resp.Reachable)
}

func TestSession_BlockedLiveEntryMakesUnreachable(t *testing.T) {
	g := chainOf5(t)
	profiles := allDaysProfile(t)
	ov := overlay.Build(4, []overlay.RawEntry{
		{EdgeID: 1, Blocked: true, ValidUntilTick: 1_000_000},
	})
	s := newSession(t, g, profiles, ov, nil)

	resp, err := s.Query(Request{SourceNode: 0, TargetNode: 4, DepartureTicks: 0, Algorithm: Dijkstra})
	require.NoError(t, err)
	assert.False(t, resp.Reachable)
}

func TestSession_SourceEqualsTarget(t *testing.T) {
	g := chainOf5(t)
	profiles := allDaysProfile(t)
	s := newSession(t, g, profiles, nil, nil)

	resp, err := s.Query(Request{SourceNode: 2, TargetNode: 2, DepartureTicks: 5, Algorithm: Dijkstra})
	require.NoError(t, err)
	assert.True(t, resp.Reachable)
	assert.Empty(t, resp.EdgeSequence)
	assert.Equal(t, float32(0), resp.TotalCost)
	assert.Equal(t, int64(5), resp.ArrivalTicks)
}

func TestSession_IdempotentAcrossQueriesWithClear(t *testing.T) {
	g := chainOf5(t)
	profiles := allDaysProfile(t)
	s := newSession(t, g, profiles, nil, nil)

	first, err := s.Query(Request{SourceNode: 0, TargetNode: 4, DepartureTicks: 0, Algorithm: Dijkstra})
	require.NoError(t, err)
	second, err := s.Query(Request{SourceNode: 0, TargetNode: 4, DepartureTicks: 0, Algorithm: Dijkstra})
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestSession_OutOfRangeNodeIsInvalidInput(t *testing.T) {
	g := chainOf5(t)
	profiles := allDaysProfile(t)
	s := newSession(t, g, profiles, nil, nil)

	_, err := s.Query(Request{SourceNode: 99, TargetNode: 4, DepartureTicks: 0, Algorithm: Dijkstra})
	require.Error(t, err)
}

func TestQueue_PoolDiscipline(t *testing.T) {
	q := NewQueue(4, 8)
	require.NoError(t, q.Insert(0, 10, 1.0, 1.0, NoPredecessor))
	require.NoError(t, q.Insert(1, 20, 2.0, 2.0, NoPredecessor))
	assert.Equal(t, 2, q.ActiveStates())

	_, h0, ok := q.ExtractMin()
	require.True(t, ok)
	assert.NoError(t, q.Recycle(h0))
	assert.Equal(t, 1, q.ActiveStates())

	_, h1, ok := q.ExtractMin()
	require.True(t, ok)
	assert.NoError(t, q.Recycle(h1))
	assert.Equal(t, 0, q.ActiveStates())

	// Double recycle must fail loudly.
	assert.Error(t, q.Recycle(h1))
}

func TestQueue_DecreaseKeyOverwritesInPlace(t *testing.T) {
	q := NewQueue(4, 8)
	require.NoError(t, q.Insert(0, 100, 10.0, 10.0, NoPredecessor))
	require.NoError(t, q.Insert(0, 50, 5.0, 5.0, 7))
	assert.Equal(t, 1, q.Len())
	assert.Equal(t, 1, q.ActiveStates())

	state, _, ok := q.ExtractMin()
	require.True(t, ok)
	assert.Equal(t, float32(5.0), state.Cost)
	assert.Equal(t, int32(7), state.Predecessor)
}

func TestQueue_ClearResetsAccounting(t *testing.T) {
	q := NewQueue(4, 8)
	require.NoError(t, q.Insert(0, 1, 1, 1, NoPredecessor))
	require.NoError(t, q.Insert(1, 2, 2, 2, NoPredecessor))
	q.Clear()
	assert.Equal(t, 0, q.ActiveStates())
	assert.Equal(t, 0, q.Len())
	assert.Equal(t, 0.0, q.PoolUtilization())
}
