// Package transition implements the transition-strategy family of
// spec §4.6: stateless strategies that decide whether a turn penalty
// applies for a given (from-edge, to-edge) pair, packed into a single
// 64-bit word that is the canonical cross-strategy ABI (spec §9).
package transition

import (
	"errors"
	"math"

	"github.com/katalvlaran/taro/turncost"
)

// TraitID names a transition strategy variant.
type TraitID string

const (
	// NodeBased ignores finite turn penalties but still honors forbidden
	// turns from the turn-cost map.
	NodeBased TraitID = "NODE_BASED"
	// EdgeBased applies the turn-cost map's value verbatim.
	EdgeBased TraitID = "EDGE_BASED"
)

// Trait describes a transition strategy's shape.
type Trait struct {
	ID                         TraitID
	AppliesFiniteTurnPenalties bool
}

// ErrUnknownTrait is returned by Lookup for an unregistered TraitID.
var ErrUnknownTrait = errors.New("transition: unknown trait")

// Strategy evaluates a packed turn decision for a candidate transition.
type Strategy interface {
	Trait() Trait
	EvaluatePacked(turnMap *turncost.Map, fromEdge, toEdge int32, hasPredecessor bool) uint64
}

var registry = map[TraitID]Strategy{
	NodeBased: nodeBasedStrategy{},
	EdgeBased: edgeBasedStrategy{},
}

// Lookup returns the built-in strategy for id, or ErrUnknownTrait.
func Lookup(id TraitID) (Strategy, error) {
	s, ok := registry[id]
	if !ok {
		return nil, ErrUnknownTrait
	}
	return s, nil
}

// packDecision encodes {applied, penalty} into the 64-bit ABI word: low
// bit is the "applied" flag, upper 32 bits are the f32 bits of penalty
// (spec §4.6).
func packDecision(applied bool, penalty float32) uint64 {
	var appliedBit uint64
	if applied {
		appliedBit = 1
	}
	return (uint64(math.Float32bits(penalty)) << 32) | appliedBit
}

// UnpackDecision decodes a packed turn decision into (penalty, applied).
func UnpackDecision(packed uint64) (penalty float32, applied bool) {
	applied = packed&1 != 0
	penalty = math.Float32frombits(uint32(packed >> 32))
	return penalty, applied
}

// nodeBasedStrategy ignores finite penalties; still returns +Inf when the
// turn map flags the transition as forbidden (spec §4.6).
type nodeBasedStrategy struct{}

func (nodeBasedStrategy) Trait() Trait {
	return Trait{ID: NodeBased, AppliesFiniteTurnPenalties: false}
}

func (nodeBasedStrategy) EvaluatePacked(turnMap *turncost.Map, fromEdge, toEdge int32, hasPredecessor bool) uint64 {
	if !hasPredecessor || turnMap == nil {
		return packDecision(false, 0)
	}
	if turnMap.IsForbidden(fromEdge, toEdge) {
		return packDecision(true, float32(math.Inf(1)))
	}
	return packDecision(false, 0)
}

// edgeBasedStrategy returns the turn-cost map's value verbatim; absence or
// no predecessor yields the neutral (0.0, not-applied) decision (spec
// §4.6).
type edgeBasedStrategy struct{}

func (edgeBasedStrategy) Trait() Trait {
	return Trait{ID: EdgeBased, AppliesFiniteTurnPenalties: true}
}

func (edgeBasedStrategy) EvaluatePacked(turnMap *turncost.Map, fromEdge, toEdge int32, hasPredecessor bool) uint64 {
	if !hasPredecessor || turnMap == nil {
		return packDecision(false, 0)
	}
	if !turnMap.HasCost(fromEdge, toEdge) {
		return packDecision(false, 0)
	}
	return packDecision(true, turnMap.Cost(fromEdge, toEdge))
}

// ResolvedTransitionContext is the immutable binding produced once at
// startup and attached to every request (spec §4.6).
type ResolvedTransitionContext struct {
	Strategy Strategy
}

// EvaluatePacked delegates to the bound strategy.
func (c *ResolvedTransitionContext) EvaluatePacked(turnMap *turncost.Map, fromEdge, toEdge int32, hasPredecessor bool) uint64 {
	return c.Strategy.EvaluatePacked(turnMap, fromEdge, toEdge, hasPredecessor)
}
