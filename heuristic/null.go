package heuristic

// NullProvider always estimates 0, reducing A* to Dijkstra (spec §4.7).
type NullProvider struct{}

func (NullProvider) Type() Type { return TypeNone }

func (NullProvider) BindGoal(int32) GoalBoundHeuristic { return nullBound{} }

type nullBound struct{}

func (nullBound) EstimateFromNode(int32) float64 { return 0 }
