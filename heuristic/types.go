// Package heuristic implements the goal-bound admissible estimators of
// spec §4.7: Null, Euclidean, Spherical, and ALT (landmark) heuristics,
// their calibration, and deterministic landmark preprocessing.
//
// Providers are stateless and reusable across queries; BindGoal produces a
// per-query GoalBoundHeuristic whose hot EstimateFromNode method is
// allocation-free, following the teacher's "resolve once, call many"
// shape (dijkstra's Options/runner split, builder's config/constructor
// split).
package heuristic

// Type discriminates the heuristic provider variants (spec §6 request
// field `heuristic_type`).
type Type string

const (
	TypeNone      Type = "NONE"
	TypeEuclidean Type = "EUCLIDEAN"
	TypeSpherical Type = "SPHERICAL"
	TypeLandmark  Type = "LANDMARK"
)

// Provider is a goal-agnostic heuristic that can be bound to a specific
// search target.
type Provider interface {
	Type() Type
	BindGoal(goal int32) GoalBoundHeuristic
}

// GoalBoundHeuristic is the hot-path estimator bound to one goal node. It
// must be allocation-free, admissible (never overestimate remaining
// cost), and return 0 at the goal.
type GoalBoundHeuristic interface {
	EstimateFromNode(node int32) float64
}
