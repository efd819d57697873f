package heuristic

import (
	"math"

	"github.com/katalvlaran/taro/graphrt"
)

// EuclideanProvider estimates remaining cost as planar distance times a
// calibrated lower-bound-cost-per-distance scale (spec §4.7). Requires
// coordinates to be present on the graph.
type EuclideanProvider struct {
	graph *graphrt.Graph
	scale float64
}

// NewEuclideanProvider constructs a provider bound to graph and scale. The
// caller (the factory) is responsible for checking coordinate presence and
// computing scale via CalibrateLowerBoundScale.
func NewEuclideanProvider(graph *graphrt.Graph, scale float64) *EuclideanProvider {
	return &EuclideanProvider{graph: graph, scale: scale}
}

func (*EuclideanProvider) Type() Type { return TypeEuclidean }

func (p *EuclideanProvider) BindGoal(goal int32) GoalBoundHeuristic {
	goalCoord, _ := p.graph.Coordinate(goal)
	return &euclideanBound{graph: p.graph, scale: p.scale, goal: goalCoord}
}

type euclideanBound struct {
	graph *graphrt.Graph
	scale float64
	goal  graphrt.Coordinate
}

func (b *euclideanBound) EstimateFromNode(node int32) float64 {
	c, _ := b.graph.Coordinate(node)
	dx := c.A - b.goal.A
	dy := c.B - b.goal.B
	return math.Hypot(dx, dy) * b.scale
}

// EuclideanDistance is the DistanceFunc used to calibrate an Euclidean
// provider's scale.
func EuclideanDistance(a, b graphrt.Coordinate) float64 {
	return math.Hypot(a.A-b.A, a.B-b.B)
}
