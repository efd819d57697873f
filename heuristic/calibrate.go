package heuristic

import (
	"errors"
	"math"

	"github.com/katalvlaran/taro/graphrt"
	"github.com/katalvlaran/taro/profile"
)

// Sentinel errors surfaced by calibration; the factory wraps these into
// taroerr reason codes.
var (
	ErrCalibrationEmptyGraph  = errors.New("heuristic: graph has no edges to calibrate against")
	ErrCalibrationBadWeight   = errors.New("heuristic: non-finite base weight encountered")
	ErrCalibrationBadTemporal = errors.New("heuristic: non-finite temporal minimum encountered")
	ErrCalibrationBadDistance = errors.New("heuristic: non-finite or non-positive distance encountered")
	ErrCalibrationBadRatio    = errors.New("heuristic: non-finite calibration ratio encountered")
)

// DistanceFunc computes the metric distance between two nodes' coordinates
// (Euclidean hypot, or great-circle), used both for calibration and for
// the bound estimators themselves.
type DistanceFunc func(a, b graphrt.Coordinate) float64

// lowerBoundCost computes the per-edge lower-bound travel cost used by
// both calibration and landmark preprocessing: base_weight times the
// minimum temporal multiplier across all days, with live and turn lower
// bounds of 1.0 and 0.0 respectively (spec §4.7).
func lowerBoundCost(g *graphrt.Graph, profiles *profile.Store, e int32) float64 {
	base := float64(g.BaseWeight(e))
	minTemporal := profiles.MinTemporalMultiplier(g.ProfileID(e))
	return base*minTemporal*1.0 + 0.0
}

// CalibrateLowerBoundScale computes the lower-bound-cost-per-distance
// scale used by Euclidean/Spherical estimates (spec §4.7): the minimum,
// over all edges with positive metric distance, of
// lower_bound_cost(e) / distance(origin(e), destination(e)).
func CalibrateLowerBoundScale(g *graphrt.Graph, profiles *profile.Store, dist DistanceFunc) (float64, error) {
	if g.EdgeCount() == 0 {
		return 0, ErrCalibrationEmptyGraph
	}

	minRatio := math.Inf(1)
	sawRatio := false
	for e := int32(0); e < int32(g.EdgeCount()); e++ {
		base := float64(g.BaseWeight(e))
		if math.IsNaN(base) || math.IsInf(base, 0) || base < 0 {
			return 0, ErrCalibrationBadWeight
		}
		minTemporal := profiles.MinTemporalMultiplier(g.ProfileID(e))
		if math.IsNaN(minTemporal) || math.IsInf(minTemporal, 0) || minTemporal < 0 {
			return 0, ErrCalibrationBadTemporal
		}

		originCoord, ok1 := g.Coordinate(g.Origin(e))
		destCoord, ok2 := g.Coordinate(g.Destination(e))
		if !ok1 || !ok2 {
			continue
		}
		d := dist(originCoord, destCoord)
		if math.IsNaN(d) || math.IsInf(d, 0) || d < 0 {
			return 0, ErrCalibrationBadDistance
		}
		if d <= 0 {
			continue
		}

		lb := base*minTemporal*1.0 + 0.0
		ratio := lb / d
		if math.IsNaN(ratio) || math.IsInf(ratio, 0) {
			return 0, ErrCalibrationBadRatio
		}
		sawRatio = true
		if ratio < minRatio {
			minRatio = ratio
		}
	}

	if !sawRatio {
		return 0, ErrCalibrationEmptyGraph
	}
	return minRatio, nil
}
