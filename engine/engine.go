// Package engine is the composition root of spec §2/§6: it wires
// graphrt, turncost, profile, overlay, costengine, temporal, transition,
// heuristic, and search into the single public request/response surface
// external callers use, resolving caller-facing external ids through an
// injected idmap.Mapping. It is a library entry point, not a CLI (spec
// explicitly scopes a command-line front end out).
package engine

import (
	"github.com/katalvlaran/taro/artifact"
	"github.com/katalvlaran/taro/costengine"
	"github.com/katalvlaran/taro/heuristic"
	"github.com/katalvlaran/taro/idmap"
	"github.com/katalvlaran/taro/overlay"
	"github.com/katalvlaran/taro/search"
	"github.com/katalvlaran/taro/taroerr"
	"github.com/katalvlaran/taro/temporal"
	"github.com/katalvlaran/taro/transition"
)

// Algorithm selects the search strategy (spec §6 request field
// `algorithm`).
type Algorithm = search.Algorithm

// Public algorithm values, re-exported for callers that do not want to
// import the search package directly.
const (
	Dijkstra = search.Dijkstra
	AStar    = search.AStar
)

// HeuristicType selects the heuristic provider (spec §6 request field
// `heuristic_type`).
type HeuristicType = heuristic.Type

// Public heuristic values.
const (
	HeuristicNone      = heuristic.TypeNone
	HeuristicEuclidean = heuristic.TypeEuclidean
	HeuristicSpherical = heuristic.TypeSpherical
	HeuristicLandmark  = heuristic.TypeLandmark
)

// Config assembles a Decoded artifact with the strategy choices needed
// to bind a runnable Engine (spec §6). Every heuristic type the artifact
// can support is pre-bound at New time; a query later selects among them
// via its own heuristic_type field rather than fixing one at startup.
type Config struct {
	Artifact *artifact.Decoded
	Overlay  *overlay.Overlay // optional; nil means no live-traffic data

	IDs idmap.Mapping

	TemporalTrait    temporal.TraitID
	TimezonePolicy   *temporal.TimezonePolicyID // required only by CALENDAR
	ZoneMetadata     string
	OffsetRangeStart int64
	OffsetRangeEnd   int64
	OffsetStepSec    int64

	TransitionTrait transition.TraitID

	CostUnit              temporal.TimeUnit
	CostBucketSizeSeconds float64
	CostSamplingPolicy    costengine.SamplingPolicy

	// QueryCapacity sizes each per-heuristic Session's pooled queue. See
	// search.NewSession for the undersized-capacity failure mode.
	QueryCapacity int
}

// Engine is the bound, query-ready runtime (spec §6 "the engine accepts
// a decoded artifact and strategy configuration once, then serves many
// queries").
type Engine struct {
	ids           idmap.Mapping
	artifact      *artifact.Decoded
	temporalCtx   *temporal.ResolvedTemporalContext
	transitionCtx *transition.ResolvedTransitionContext
	costEngine    *costengine.Engine
	providers     map[HeuristicType]heuristic.Provider
	queryCapacity int
}

const stageNew = "engine.New"

// New validates cfg, binds every strategy once, pre-builds every
// heuristic provider the artifact can support, and returns a ready
// Engine. All failures are startup-time InvalidConfig errors (spec §9).
func New(cfg Config) (*Engine, error) {
	if cfg.Artifact == nil {
		return nil, taroerr.Config(stageNew, taroerr.ReasonGraphRequired)
	}
	if cfg.IDs == nil {
		return nil, taroerr.Config(stageNew, taroerr.ReasonProfileRequired)
	}

	temporalCtx, err := temporal.Bind(cfg.TemporalTrait, cfg.TimezonePolicy, cfg.ZoneMetadata, cfg.OffsetRangeStart, cfg.OffsetRangeEnd, cfg.OffsetStepSec)
	if err != nil {
		return nil, err
	}

	transitionCtx, err := transition.Bind(cfg.TransitionTrait)
	if err != nil {
		return nil, err
	}

	costCfg, err := costengine.NewConfig(cfg.CostUnit, cfg.CostBucketSizeSeconds, cfg.CostSamplingPolicy)
	if err != nil {
		return nil, err
	}
	costEng := costengine.New(costCfg, cfg.Artifact.Graph, cfg.Artifact.Profiles, cfg.Overlay, cfg.Artifact.TurnMap)

	providers := map[HeuristicType]heuristic.Provider{
		HeuristicNone: heuristic.NullProvider{},
	}
	if cfg.Artifact.Graph.HasCoordinates() {
		euclidean, err := heuristic.New(heuristic.Config{Type: HeuristicEuclidean, Graph: cfg.Artifact.Graph, Profiles: cfg.Artifact.Profiles})
		if err != nil {
			return nil, err
		}
		providers[HeuristicEuclidean] = euclidean

		spherical, err := heuristic.New(heuristic.Config{Type: HeuristicSpherical, Graph: cfg.Artifact.Graph, Profiles: cfg.Artifact.Profiles})
		if err != nil {
			return nil, err
		}
		providers[HeuristicSpherical] = spherical
	}
	if cfg.Artifact.LandmarkStore != nil {
		landmark, err := heuristic.New(heuristic.Config{Type: HeuristicLandmark, Graph: cfg.Artifact.Graph, Profiles: cfg.Artifact.Profiles, LandmarkStore: cfg.Artifact.LandmarkStore})
		if err != nil {
			return nil, err
		}
		providers[HeuristicLandmark] = landmark
	}

	capacity := cfg.QueryCapacity
	if capacity <= 0 {
		capacity = cfg.Artifact.Graph.EdgeCount() + 1
	}

	return &Engine{
		ids:           cfg.IDs,
		artifact:      cfg.Artifact,
		temporalCtx:   temporalCtx,
		transitionCtx: transitionCtx,
		costEngine:    costEng,
		providers:     providers,
		queryCapacity: capacity,
	}, nil
}

// NewSession opens a query session bound to this Engine's strategies.
// Sessions are cheap to construct relative to a query but are not safe
// for concurrent use; callers running queries from multiple goroutines
// should keep one Session per goroutine (spec §5).
func (e *Engine) NewSession() *Session {
	return &Session{
		engine: e,
		byHeur: make(map[HeuristicType]*search.Session, len(e.providers)),
	}
}

// Request is the public, external-id-based one-to-one shortest-path
// query (spec §6).
type Request struct {
	SourceExternalID string
	TargetExternalID string
	DepartureTicks   int64
	Algorithm        Algorithm
	HeuristicType    HeuristicType
}

// Response is the public search result (spec §6). EdgeSequence uses the
// artifact's internal edge ids; callers resolving to external
// identifiers do so via the same idmap.Mapping used for the request.
type Response struct {
	Reachable    bool
	EdgeSequence []int32
	TotalCost    float32
	ArrivalTicks int64
}

// Session is a reusable, single-threaded query handle (spec §5 "a query
// session owns a private set of mutable scratch structures"). It lazily
// holds one underlying search.Session per distinct heuristic_type a
// caller has requested, since a search.Session binds one provider for
// its lifetime.
type Session struct {
	engine *Engine
	byHeur map[HeuristicType]*search.Session
	active *search.Session // last session touched, for Cancel
}

// Cancel requests cooperative cancellation of whichever underlying
// search this Session most recently dispatched.
func (s *Session) Cancel() {
	if s.active != nil {
		s.active.Cancel()
	}
}

// Query resolves req's external ids through the bound idmap.Mapping and
// executes one time-dependent shortest-path search using the requested
// heuristic provider.
func (s *Session) Query(req Request) (Response, error) {
	source := s.engine.ids.ToInternal(req.SourceExternalID)
	if source == idmap.UnknownID {
		return Response{}, taroerr.Input("source_external_id", taroerr.ReasonSourceUnknown)
	}
	target := s.engine.ids.ToInternal(req.TargetExternalID)
	if target == idmap.UnknownID {
		return Response{}, taroerr.Input("target_external_id", taroerr.ReasonTargetUnknown)
	}

	inner, err := s.innerFor(req.HeuristicType)
	if err != nil {
		return Response{}, err
	}
	s.active = inner

	resp, err := inner.Query(search.Request{
		SourceNode:     source,
		TargetNode:     target,
		DepartureTicks: req.DepartureTicks,
		Algorithm:      req.Algorithm,
	})
	if err != nil {
		return Response{}, err
	}

	return Response{
		Reachable:    resp.Reachable,
		EdgeSequence: resp.EdgeSequence,
		TotalCost:    resp.TotalCost,
		ArrivalTicks: resp.ArrivalTicks,
	}, nil
}

// innerFor returns (lazily constructing) the search.Session bound to the
// provider for heuristicType, or an UnsupportedHeuristicType error if the
// artifact never built a provider for it (e.g. LANDMARK without a
// landmark store, or EUCLIDEAN/SPHERICAL without coordinates).
func (s *Session) innerFor(heuristicType HeuristicType) (*search.Session, error) {
	if existing, ok := s.byHeur[heuristicType]; ok {
		return existing, nil
	}
	provider, ok := s.engine.providers[heuristicType]
	if !ok {
		return nil, taroerr.Input("heuristic_type", taroerr.ReasonUnsupportedHeuristic)
	}
	inner := search.NewSession(
		s.engine.artifact.Graph,
		s.engine.costEngine,
		s.engine.temporalCtx,
		s.engine.transitionCtx,
		provider,
		s.engine.queryCapacity,
	)
	s.byHeur[heuristicType] = inner
	return inner, nil
}
