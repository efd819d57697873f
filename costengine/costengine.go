package costengine

import (
	"math"

	"github.com/katalvlaran/taro/graphrt"
	"github.com/katalvlaran/taro/overlay"
	"github.com/katalvlaran/taro/profile"
	"github.com/katalvlaran/taro/taroerr"
	"github.com/katalvlaran/taro/temporal"
	"github.com/katalvlaran/taro/transition"
	"github.com/katalvlaran/taro/turncost"
)

// NoPredecessor marks the absence of an incoming edge for a transition
// lookup (spec §4.5).
const NoPredecessor int32 = -1

const stageEvaluate = "costengine.Evaluate"

// Engine composes the canonical effective-cost formula over a bound graph,
// profile store, live overlay, and turn-cost map (spec §4.5).
type Engine struct {
	Config   Config
	Graph    *graphrt.Graph
	Profiles *profile.Store
	Overlay  *overlay.Overlay
	TurnMap  *turncost.Map
}

// New constructs an Engine. Overlay and TurnMap may be nil (both have
// well-defined neutral behaviour when absent).
func New(cfg Config, graph *graphrt.Graph, profiles *profile.Store, overlayTable *overlay.Overlay, turnMap *turncost.Map) *Engine {
	return &Engine{Config: cfg, Graph: graph, Profiles: profiles, Overlay: overlayTable, TurnMap: turnMap}
}

// Breakdown is the reusable explain-mode output struct (spec §4.5): the
// caller owns the allocation and passes a pointer to Evaluate to keep the
// hot path allocation-free.
type Breakdown struct {
	ProfileID         uint16
	DayOfWeek         int
	BucketIndex       int
	FractionalBucket  float64
	SamplingPolicy    SamplingPolicy
	LiveState         overlay.State
	SpeedFactor       float64
	LivePenalty       float64
	TurnApplied       bool
	TurnPenalty       float32
	EdgeTravelCost    float32
	EffectiveCost     float32
}

// Evaluate computes the effective cost of traversing edgeID arriving at
// entryTicks, having come from fromEdgeID (or NoPredecessor). breakdown,
// if non-nil, is populated with the explain-mode fields (spec §4.5).
func (e *Engine) Evaluate(
	edgeID int32,
	fromEdgeID int32,
	entryTicks int64,
	temporalCtx *temporal.ResolvedTemporalContext,
	transitionCtx *transition.ResolvedTransitionContext,
	breakdown *Breakdown,
) (float32, error) {
	if int(edgeID) < 0 || int(edgeID) >= e.Graph.EdgeCount() {
		return 0, taroerr.Input("edge_id", taroerr.ReasonEdgeIDOutOfRange)
	}
	if fromEdgeID != NoPredecessor && (int(fromEdgeID) < 0 || int(fromEdgeID) >= e.Graph.EdgeCount()) {
		return 0, taroerr.Input("from_edge_id", taroerr.ReasonFromEdgeIDOutOfRange)
	}

	baseWeight := e.Graph.BaseWeight(edgeID)
	if math.IsNaN(float64(baseWeight)) || math.IsInf(float64(baseWeight), 0) || baseWeight < 0 {
		return 0, taroerr.Contract("base_weight", taroerr.ReasonBaseWeightInvalid)
	}

	profileID := e.Graph.ProfileID(edgeID)
	dow := temporalCtx.DayOfWeek(entryTicks, e.Config.Unit)

	var temporalMultiplier float64
	bucketIdx := 0
	fractionalBucket := 0.0
	switch e.Config.SamplingPolicy {
	case Interpolated:
		fractionalBucket = temporalCtx.FractionalBucket(entryTicks, e.Config.BucketSizeTicks(), e.Config.Unit)
		if temporalCtx.DayMaskAware() {
			temporalMultiplier = e.Profiles.InterpolateForDay(profileID, dow, fractionalBucket)
		} else {
			temporalMultiplier = e.Profiles.Interpolate(profileID, fractionalBucket)
		}
	default:
		bucketIdx = temporalCtx.BucketIndex(entryTicks, e.Config.BucketSizeSeconds, e.Config.Unit)
		if temporalCtx.DayMaskAware() {
			temporalMultiplier = e.Profiles.MultiplierForDay(profileID, dow, bucketIdx)
		} else {
			temporalMultiplier = e.Profiles.Multiplier(profileID, bucketIdx)
		}
		if breakdown != nil {
			// Diagnostic only: never affects the discrete multiplier.
			fractionalBucket = temporalCtx.FractionalBucket(entryTicks, e.Config.BucketSizeTicks(), e.Config.Unit)
		}
	}

	live := e.Overlay.Lookup(edgeID, entryTicks)
	if !(live.LivePenalty >= 1.0) && !math.IsInf(live.LivePenalty, 1) {
		return 0, taroerr.Contract("live_penalty", taroerr.ReasonLivePenaltyInvalid)
	}

	hasPredecessor := fromEdgeID != NoPredecessor
	packed := transitionCtx.EvaluatePacked(e.TurnMap, fromEdgeID, edgeID, hasPredecessor)
	turnPenalty, turnApplied := transition.UnpackDecision(packed)
	if !(turnPenalty >= 0) && !math.IsInf(float64(turnPenalty), 1) {
		return 0, taroerr.Contract("turn_penalty", taroerr.ReasonTurnPenaltyInvalid)
	}
	if !turnApplied && turnPenalty != 0 {
		return 0, taroerr.Contract("turn_penalty", taroerr.ReasonTurnAppliedButZero)
	}

	edgeTravelCost := saturateCost(float64(baseWeight) * temporalMultiplier * live.LivePenalty)
	if math.IsNaN(float64(edgeTravelCost)) || edgeTravelCost < 0 {
		return 0, taroerr.Contract("edge_travel_cost", taroerr.ReasonEdgeTravelCostNegative)
	}

	var effectiveCost float32
	if math.IsInf(float64(edgeTravelCost), 1) || math.IsInf(float64(turnPenalty), 1) {
		effectiveCost = float32(math.Inf(1))
	} else {
		effectiveCost = saturateCost(float64(edgeTravelCost) + float64(turnPenalty))
	}
	if math.IsNaN(float64(effectiveCost)) || effectiveCost < 0 {
		return 0, taroerr.Contract("effective_cost", taroerr.ReasonEffectiveCostNegative)
	}

	if breakdown != nil {
		breakdown.ProfileID = profileID
		breakdown.DayOfWeek = dow
		breakdown.BucketIndex = bucketIdx
		breakdown.FractionalBucket = fractionalBucket
		breakdown.SamplingPolicy = e.Config.SamplingPolicy
		breakdown.LiveState = live.State
		breakdown.SpeedFactor = live.SpeedFactor
		breakdown.LivePenalty = live.LivePenalty
		breakdown.TurnApplied = turnApplied
		breakdown.TurnPenalty = turnPenalty
		breakdown.EdgeTravelCost = edgeTravelCost
		breakdown.EffectiveCost = effectiveCost
	}

	return effectiveCost, nil
}

// saturateCost saturates an f64 intermediate into f32 range: NaN, +Inf,
// or any value > f32::MAX becomes +Inf; -Inf is returned unchanged so the
// caller's negativity check rejects it (spec §4.5 steps 7-8).
func saturateCost(v float64) float32 {
	if math.IsNaN(v) || math.IsInf(v, 1) || v > math.MaxFloat32 {
		return float32(math.Inf(1))
	}
	if math.IsInf(v, -1) {
		return float32(math.Inf(-1))
	}
	return float32(v)
}
