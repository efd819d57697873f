package heuristic

import (
	"errors"

	"github.com/katalvlaran/taro/graphrt"
	"github.com/katalvlaran/taro/profile"
	"github.com/katalvlaran/taro/taroerr"
)

// Config selects and parameterizes a heuristic provider (spec §6 request
// field `heuristic_type` plus its supporting artifacts).
type Config struct {
	Type Type

	// Euclidean/Spherical.
	Graph    *graphrt.Graph
	Profiles *profile.Store

	// Landmark (ALT).
	LandmarkStore *LandmarkStore
}

// New validates cfg and constructs the corresponding Provider. Every
// rejection is a *taroerr.CodedError wrapping taroerr.ErrInvalidConfig
// (spec §9: heuristic misconfiguration is a startup-time failure).
func New(cfg Config) (Provider, error) {
	switch cfg.Type {
	case TypeNone, "":
		return NullProvider{}, nil
	case TypeEuclidean:
		return newEuclidean(cfg)
	case TypeSpherical:
		return newSpherical(cfg)
	case TypeLandmark:
		return newLandmark(cfg)
	default:
		return nil, taroerr.Config("heuristic.type", taroerr.ReasonTypeRequired)
	}
}

func newEuclidean(cfg Config) (Provider, error) {
	if cfg.Graph == nil {
		return nil, taroerr.Config("heuristic.graph", taroerr.ReasonGraphRequired)
	}
	if cfg.Profiles == nil {
		return nil, taroerr.Config("heuristic.profiles", taroerr.ReasonProfileRequired)
	}
	if !cfg.Graph.HasCoordinates() {
		return nil, taroerr.Config("heuristic.graph.coordinates", taroerr.ReasonCoordinatesRequired)
	}

	scale, err := CalibrateLowerBoundScale(cfg.Graph, cfg.Profiles, EuclideanDistance)
	if err != nil {
		return nil, wrapCalibrationError(err)
	}
	return NewEuclideanProvider(cfg.Graph, scale), nil
}

func newSpherical(cfg Config) (Provider, error) {
	if cfg.Graph == nil {
		return nil, taroerr.Config("heuristic.graph", taroerr.ReasonGraphRequired)
	}
	if cfg.Profiles == nil {
		return nil, taroerr.Config("heuristic.profiles", taroerr.ReasonProfileRequired)
	}
	if !cfg.Graph.HasCoordinates() {
		return nil, taroerr.Config("heuristic.graph.coordinates", taroerr.ReasonCoordinatesRequired)
	}

	for n := 0; n < cfg.Graph.NodeCount(); n++ {
		c, ok := cfg.Graph.Coordinate(int32(n))
		if !ok {
			continue
		}
		latOK, lonOK := ValidGeodetic(c)
		if !latOK {
			return nil, taroerr.Config("heuristic.graph.coordinates", taroerr.ReasonSphericalLatRange).WithIndex(n)
		}
		if !lonOK {
			return nil, taroerr.Config("heuristic.graph.coordinates", taroerr.ReasonSphericalLonRange).WithIndex(n)
		}
	}

	scale, err := CalibrateLowerBoundScale(cfg.Graph, cfg.Profiles, SphericalDistance)
	if err != nil {
		return nil, wrapCalibrationError(err)
	}
	return NewSphericalProvider(cfg.Graph, scale), nil
}

func newLandmark(cfg Config) (Provider, error) {
	if cfg.Graph == nil {
		return nil, taroerr.Config("heuristic.graph", taroerr.ReasonGraphRequired)
	}
	if cfg.Profiles == nil {
		return nil, taroerr.Config("heuristic.profiles", taroerr.ReasonProfileRequired)
	}
	if cfg.LandmarkStore == nil {
		return nil, taroerr.Config("heuristic.landmarkStore", taroerr.ReasonLandmarkStoreRequired)
	}
	if len(cfg.LandmarkStore.LandmarkIDs) == 0 {
		return nil, taroerr.Config("heuristic.landmarkStore.landmarkIds", taroerr.ReasonLandmarkEmpty)
	}
	if cfg.LandmarkStore.NodeCount != cfg.Graph.NodeCount() {
		return nil, taroerr.Config("heuristic.landmarkStore.nodeCount", taroerr.ReasonLandmarkNodeCountMismatch)
	}
	if cfg.LandmarkStore.Signature == 0 {
		return nil, taroerr.Config("heuristic.landmarkStore.signature", taroerr.ReasonLandmarkSignatureRequired)
	}

	want := ComputeCompatibilitySignature(cfg.Graph, cfg.Profiles)
	if want != cfg.LandmarkStore.Signature {
		return nil, taroerr.Config("heuristic.landmarkStore.signature", taroerr.ReasonLandmarkSignatureMismatch)
	}

	return NewALTProvider(cfg.LandmarkStore), nil
}

// wrapCalibrationError maps a calibration sentinel to its reason code.
func wrapCalibrationError(err error) error {
	switch {
	case errors.Is(err, ErrCalibrationEmptyGraph):
		return taroerr.Config("heuristic.calibration", taroerr.ReasonCalibrationEmptyGraph).WithCause(err)
	case errors.Is(err, ErrCalibrationBadWeight):
		return taroerr.Config("heuristic.calibration", taroerr.ReasonCalibrationBadWeight).WithCause(err)
	case errors.Is(err, ErrCalibrationBadTemporal):
		return taroerr.Config("heuristic.calibration", taroerr.ReasonCalibrationBadTemporal).WithCause(err)
	case errors.Is(err, ErrCalibrationBadDistance):
		return taroerr.Config("heuristic.calibration", taroerr.ReasonCalibrationBadDistance).WithCause(err)
	case errors.Is(err, ErrCalibrationBadRatio):
		return taroerr.Config("heuristic.calibration", taroerr.ReasonCalibrationBadRatio).WithCause(err)
	default:
		return taroerr.Config("heuristic.calibration", taroerr.ReasonCalibrationBadRatio).WithCause(err)
	}
}
