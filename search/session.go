package search

import (
	"math"
	"sync/atomic"

	"github.com/katalvlaran/taro/costengine"
	"github.com/katalvlaran/taro/graphrt"
	"github.com/katalvlaran/taro/heuristic"
	"github.com/katalvlaran/taro/taroerr"
	"github.com/katalvlaran/taro/temporal"
	"github.com/katalvlaran/taro/transition"
)

// Algorithm selects the search strategy (spec §6 request field
// `algorithm`).
type Algorithm string

const (
	// Dijkstra forces the null heuristic regardless of the configured
	// provider, reducing the search to plain Dijkstra.
	Dijkstra Algorithm = "DIJKSTRA"
	// AStar applies the configured heuristic provider's bound estimator.
	AStar Algorithm = "A_STAR"
)

const stageQuery = "search.Query"

// Request is the public one-to-one shortest-path query (spec §6, with
// external ids already resolved to internal node indices by the caller's
// idmap layer).
type Request struct {
	SourceNode     int32
	TargetNode     int32
	DepartureTicks int64
	Algorithm      Algorithm
}

// Response is the public search result (spec §6).
type Response struct {
	Reachable     bool
	EdgeSequence  []int32
	TotalCost     float32
	ArrivalTicks  int64
}

// Session owns the private, single-threaded scratch state for one query
// stream: the pooled priority queue, the visited set, and the
// predecessor/arrival/cost scratch arrays (spec §5 "a query session owns
// a private set of mutable scratch structures"). A Session is reused
// across queries via Clear-on-entry; it is not safe for concurrent use.
type Session struct {
	graph         *graphrt.Graph
	engine        *costengine.Engine
	temporalCtx   *temporal.ResolvedTemporalContext
	transitionCtx *transition.ResolvedTransitionContext
	heuristicProv heuristic.Provider

	queue   *Queue
	visited *VisitedSet

	predecessor []int32
	arrivalAt   []int64
	costAt      []float32
	touched     []int32

	cancelled int32
}

// NewSession constructs a Session bound to the given immutable artifacts.
// capacity sizes the queue's pool; it should be at least the expected
// number of distinct edges settled in a typical query (an undersized
// capacity surfaces as PoolExhausted/HeapFull, not silent truncation).
func NewSession(graph *graphrt.Graph, engine *costengine.Engine, temporalCtx *temporal.ResolvedTemporalContext, transitionCtx *transition.ResolvedTransitionContext, heuristicProv heuristic.Provider, capacity int) *Session {
	m := graph.EdgeCount()
	return &Session{
		graph:         graph,
		engine:        engine,
		temporalCtx:   temporalCtx,
		transitionCtx: transitionCtx,
		heuristicProv: heuristicProv,
		queue:         NewQueue(capacity, m),
		visited:       NewVisitedSet(m),
		predecessor:   make([]int32, m),
		arrivalAt:     make([]int64, m),
		costAt:        make([]float32, m),
	}
}

// Cancel requests cooperative cancellation of the in-flight query (spec
// §5 "Cancellation/timeouts"). A Cancel issued while no query is running
// is cleared when the next Query resets the session.
func (s *Session) Cancel() { atomic.StoreInt32(&s.cancelled, 1) }

func (s *Session) cancelRequested() bool { return atomic.LoadInt32(&s.cancelled) != 0 }

// reset clears the queue, visited set, and touched scratch arrays at the
// start of every query, and clears a pending cancellation flag (spec §9
// "scoped resource acquisition").
func (s *Session) reset() {
	s.queue.Clear()
	s.visited.Clear()
	for _, e := range s.touched {
		s.predecessor[e] = 0
		s.arrivalAt[e] = 0
		s.costAt[e] = 0
	}
	s.touched = s.touched[:0]
	atomic.StoreInt32(&s.cancelled, 0)
}

func (s *Session) remember(edge int32, predecessor int32, arrival int64, cost float32) {
	s.predecessor[edge] = predecessor
	s.arrivalAt[edge] = arrival
	s.costAt[edge] = cost
	s.touched = append(s.touched, edge)
}

// durationFromCost derives an arrival-time delta from an edge travel cost
// (spec §9 "Duration vs cost": arrival_time_delta = edge_travel_cost in
// engine time units, absent a separate duration model).
func durationFromCost(cost float32) int64 {
	if math.IsInf(float64(cost), 1) {
		return math.MaxInt64
	}
	return int64(math.Round(float64(cost)))
}

func isInfCost(cost float32) bool { return math.IsInf(float64(cost), 1) }

// Query executes one time-dependent shortest-path search (spec §4.8).
// The session must be reused across queries rather than reconstructed;
// Query resets all scratch state on entry.
func (s *Session) Query(req Request) (Response, error) {
	s.reset()

	n := s.graph.NodeCount()
	if int(req.SourceNode) < 0 || int(req.SourceNode) >= n {
		return Response{}, taroerr.Input("source_node", taroerr.ReasonSourceUnknown)
	}
	if int(req.TargetNode) < 0 || int(req.TargetNode) >= n {
		return Response{}, taroerr.Input("target_node", taroerr.ReasonTargetUnknown)
	}
	if req.SourceNode == req.TargetNode {
		return Response{Reachable: true, EdgeSequence: nil, TotalCost: 0, ArrivalTicks: req.DepartureTicks}, nil
	}

	var bound heuristic.GoalBoundHeuristic
	if req.Algorithm == AStar && s.heuristicProv != nil {
		bound = s.heuristicProv.BindGoal(req.TargetNode)
	} else {
		bound = heuristic.NullProvider{}.BindGoal(req.TargetNode)
	}

	var seedErr error
	s.graph.Outgoing(req.SourceNode, func(e0 int32) bool {
		cost, err := s.engine.Evaluate(e0, costengine.NoPredecessor, req.DepartureTicks, s.temporalCtx, s.transitionCtx, nil)
		if err != nil {
			seedErr = err
			return false
		}
		if isInfCost(cost) {
			return true
		}
		arrival := req.DepartureTicks + durationFromCost(cost)
		priority := cost + float32(bound.EstimateFromNode(s.graph.Destination(e0)))
		if err := s.queue.Insert(e0, arrival, cost, priority, NoPredecessor); err != nil {
			seedErr = err
			return false
		}
		return true
	})
	if seedErr != nil {
		return Response{}, seedErr
	}

	for {
		if s.cancelRequested() {
			s.queue.Clear()
			s.visited.Clear()
			return Response{}, taroerr.Input(stageQuery, taroerr.ReasonCancelled)
		}

		state, handle, ok := s.queue.ExtractMin()
		if !ok {
			return Response{Reachable: false}, nil
		}
		if s.visited.IsMarked(state.EdgeID) {
			if err := s.queue.Recycle(handle); err != nil {
				return Response{}, err
			}
			continue
		}
		s.visited.Mark(state.EdgeID)
		s.remember(state.EdgeID, state.Predecessor, state.ArrivalTicks, state.Cost)

		destNode := s.graph.Destination(state.EdgeID)
		if destNode == req.TargetNode {
			path := s.reconstruct(state.EdgeID)
			if err := s.queue.Recycle(handle); err != nil {
				return Response{}, err
			}
			return Response{Reachable: true, EdgeSequence: path, TotalCost: state.Cost, ArrivalTicks: state.ArrivalTicks}, nil
		}

		var expandErr error
		s.graph.Outgoing(destNode, func(eNext int32) bool {
			if s.visited.IsMarked(eNext) {
				return true
			}
			stepCost, err := s.engine.Evaluate(eNext, state.EdgeID, state.ArrivalTicks, s.temporalCtx, s.transitionCtx, nil)
			if err != nil {
				expandErr = err
				return false
			}
			if isInfCost(stepCost) {
				return true
			}
			newCost := state.Cost + stepCost
			newArrival := state.ArrivalTicks + durationFromCost(stepCost)
			h := bound.EstimateFromNode(s.graph.Destination(eNext))
			priority := newCost + float32(h)
			if err := s.queue.Insert(eNext, newArrival, newCost, priority, state.EdgeID); err != nil {
				expandErr = err
				return false
			}
			return true
		})
		if expandErr != nil {
			return Response{}, expandErr
		}

		if err := s.queue.Recycle(handle); err != nil {
			return Response{}, err
		}
	}
}

// reconstruct walks the predecessor chain from lastEdge back to
// NoPredecessor and reverses it into arrival order (spec §4.8 "Path
// reconstruction").
func (s *Session) reconstruct(lastEdge int32) []int32 {
	var edges []int32
	for e := lastEdge; e != NoPredecessor; e = s.predecessor[e] {
		edges = append(edges, e)
	}
	for i, j := 0, len(edges)-1; i < j; i, j = i+1, j-1 {
		edges[i], edges[j] = edges[j], edges[i]
	}
	return edges
}
