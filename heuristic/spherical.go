package heuristic

import (
	"math"

	"github.com/katalvlaran/taro/graphrt"
)

// earthRadiusMeters is the mean earth radius used by the haversine
// great-circle distance (spec §4.7).
const earthRadiusMeters = 6_371_008.8

// SphericalProvider estimates remaining cost as great-circle distance
// (haversine) times a calibrated lower-bound-cost-per-distance scale.
// Requires geodetic coordinates in [-90,90] x [-180,180] (spec §4.7).
type SphericalProvider struct {
	graph *graphrt.Graph
	scale float64
}

// NewSphericalProvider constructs a provider bound to graph and scale.
func NewSphericalProvider(graph *graphrt.Graph, scale float64) *SphericalProvider {
	return &SphericalProvider{graph: graph, scale: scale}
}

func (*SphericalProvider) Type() Type { return TypeSpherical }

func (p *SphericalProvider) BindGoal(goal int32) GoalBoundHeuristic {
	goalCoord, _ := p.graph.Coordinate(goal)
	return &sphericalBound{graph: p.graph, scale: p.scale, goal: goalCoord}
}

type sphericalBound struct {
	graph *graphrt.Graph
	scale float64
	goal  graphrt.Coordinate
}

func (b *sphericalBound) EstimateFromNode(node int32) float64 {
	c, _ := b.graph.Coordinate(node)
	return haversineMeters(c, b.goal) * b.scale
}

// normalizeLonDelta normalizes a longitude delta (degrees) into (-180, 180].
func normalizeLonDelta(deltaDeg float64) float64 {
	d := math.Mod(deltaDeg+180, 360)
	if d <= 0 {
		d += 360
	}
	return d - 180
}

// haversineMeters computes the great-circle distance between two geodetic
// coordinates (lat, lon in degrees) in meters (spec §4.7).
func haversineMeters(a, b graphrt.Coordinate) float64 {
	lat1, lon1 := a.A, a.B
	lat2, lon2 := b.A, b.B

	dLat := (lat2 - lat1) * math.Pi / 180
	dLon := normalizeLonDelta(lon2-lon1) * math.Pi / 180

	rLat1 := lat1 * math.Pi / 180
	rLat2 := lat2 * math.Pi / 180

	sinDLat2 := math.Sin(dLat / 2)
	sinDLon2 := math.Sin(dLon / 2)

	hav := sinDLat2*sinDLat2 + math.Cos(rLat1)*math.Cos(rLat2)*sinDLon2*sinDLon2
	if hav < 0 {
		hav = 0
	}
	if hav > 1 {
		hav = 1
	}

	c := 2 * math.Asin(math.Sqrt(hav))
	return earthRadiusMeters * c
}

// SphericalDistance is the DistanceFunc used to calibrate a Spherical
// provider's scale.
func SphericalDistance(a, b graphrt.Coordinate) float64 {
	return haversineMeters(a, b)
}

// ValidGeodetic reports whether c is a valid geodetic coordinate:
// latitude in [-90,90], longitude in [-180,180].
func ValidGeodetic(c graphrt.Coordinate) (latOK, lonOK bool) {
	return c.A >= -90 && c.A <= 90, c.B >= -180 && c.B <= 180
}
