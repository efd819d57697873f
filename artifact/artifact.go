// Package artifact implements the thin structural decoder/validator over
// the binary artifact contract of spec §6: metadata checks (file
// identifier, schema version, tick-duration consistency), then handing
// each section to its owning package's loader (graphrt.Load,
// profile.Build, turncost.Build) and assembling the optional landmark
// store. Byte-level decoding of the on-disk buffer into these Raw*
// structs is an external collaborator's responsibility; this package
// validates and assembles the already-decoded shape.
package artifact

import (
	"github.com/katalvlaran/taro/graphrt"
	"github.com/katalvlaran/taro/heuristic"
	"github.com/katalvlaran/taro/overlay"
	"github.com/katalvlaran/taro/profile"
	"github.com/katalvlaran/taro/taroerr"
	"github.com/katalvlaran/taro/temporal"
	"github.com/katalvlaran/taro/turncost"
)

// FileIdentifier is the 4-byte little-endian ASCII tag at offset 4 of the
// binary artifact (spec §6).
type FileIdentifier [4]byte

// ExpectedFileIdentifier is the literal ASCII "TARO" tag every artifact
// must carry.
var ExpectedFileIdentifier = FileIdentifier{'T', 'A', 'R', 'O'}

// SupportedSchemaVersion is the only schema_version this loader accepts.
const SupportedSchemaVersion uint32 = 1

// Metadata is the decoded artifact header (spec §6).
type Metadata struct {
	FileIdentifier  FileIdentifier
	SchemaVersion   uint32
	ModelVersion    string
	TimeUnit        temporal.TimeUnit
	TickDurationNs  int64
	ProfileTimezone string // empty means absent
}

// expectedTickDurationNs derives the tick duration a correctly built
// artifact must declare for its time unit (spec §6: "tick_duration_ns
// must equal 1_000_000_000 / ticks_per_second").
func expectedTickDurationNs(unit temporal.TimeUnit) int64 {
	return 1_000_000_000 / unit.TicksPerSecond()
}

// validateMetadata checks the header fields spec §6 requires before any
// section is decoded.
func validateMetadata(m Metadata) error {
	if m.FileIdentifier != ExpectedFileIdentifier {
		return taroerr.Artifact("file_identifier", taroerr.ReasonInvalidFileIdentifier)
	}
	if m.SchemaVersion != SupportedSchemaVersion {
		return taroerr.Artifact("schema_version", taroerr.ReasonUnsupportedSchemaVersion)
	}
	if m.TickDurationNs != expectedTickDurationNs(m.TimeUnit) {
		return taroerr.Artifact("tick_duration_ns", taroerr.ReasonTickDurationMismatch)
	}
	return nil
}

// RawLandmarks is the decoded-but-unvalidated landmark section: a
// signature plus per-landmark node id and forward/backward distance rows
// (spec §6).
type RawLandmarks struct {
	Signature   uint64
	LandmarkIDs []int32
	Forward     [][]float32
	Backward    [][]float32
}

// toLandmarkStore assembles a heuristic.LandmarkStore from the decoded
// section, or nil if no landmarks were present.
func (r *RawLandmarks) toLandmarkStore(nodeCount int) *heuristic.LandmarkStore {
	if r == nil {
		return nil
	}
	return &heuristic.LandmarkStore{
		NodeCount:   nodeCount,
		LandmarkIDs: r.LandmarkIDs,
		Forward:     r.Forward,
		Backward:    r.Backward,
		Signature:   r.Signature,
	}
}

// RawArtifact is the fully decoded-but-unvalidated artifact shape (spec
// §6): metadata plus four sections (topology, profiles, turn costs, and
// optional landmarks); no spatial-index section is carried. Overlay is
// deliberately absent —
// live-traffic data is supplied per session, not baked into the static
// artifact.
type RawArtifact struct {
	Metadata  Metadata
	Topology  graphrt.RawTopology
	Profiles  []profile.RawProfile
	TurnCosts []turncost.RawEntry
	Landmarks *RawLandmarks // optional
}

// Decoded holds the validated, immutable runtime structures assembled
// from a RawArtifact.
type Decoded struct {
	Metadata      Metadata
	Graph         *graphrt.Graph
	Profiles      *profile.Store
	TurnMap       *turncost.Map
	LandmarkStore *heuristic.LandmarkStore // nil when the artifact carried none
}

// Decode validates raw and assembles a Decoded artifact, or returns the
// first InvalidArtifact failure encountered (spec §6: "invalid
// identifier, schema mismatch, time-unit mismatch, or
// missing/inconsistent metadata are rejected at load").
func Decode(raw RawArtifact) (*Decoded, error) {
	if err := validateMetadata(raw.Metadata); err != nil {
		return nil, err
	}

	graph, err := graphrt.Load(raw.Topology)
	if err != nil {
		return nil, err
	}

	profiles, err := profile.Build(raw.Profiles)
	if err != nil {
		return nil, taroerr.Artifact("profiles", taroerr.ReasonProfileBuildFailed).WithCause(err)
	}

	turnMap, err := turncost.Build(raw.TurnCosts)
	if err != nil {
		return nil, taroerr.Artifact("turn_costs", taroerr.ReasonTurnCostBuildFailed).WithCause(err)
	}

	var landmarkStore *heuristic.LandmarkStore
	if raw.Landmarks != nil {
		landmarkStore = raw.Landmarks.toLandmarkStore(graph.NodeCount())
		n := graph.NodeCount()
		rowsOK := len(raw.Landmarks.Forward) == len(raw.Landmarks.LandmarkIDs) && len(raw.Landmarks.Backward) == len(raw.Landmarks.LandmarkIDs)
		for i := 0; rowsOK && i < len(raw.Landmarks.LandmarkIDs); i++ {
			rowsOK = len(raw.Landmarks.Forward[i]) == n && len(raw.Landmarks.Backward[i]) == n
		}
		if !rowsOK {
			return nil, taroerr.Artifact("landmarks", taroerr.ReasonArtifactLandmarkNodeCountMismatch)
		}
		want := heuristic.ComputeCompatibilitySignature(graph, profiles)
		if want != landmarkStore.Signature {
			return nil, taroerr.Artifact("landmarks", taroerr.ReasonArtifactLandmarkSignatureMismatch)
		}
	}

	return &Decoded{
		Metadata:      raw.Metadata,
		Graph:         graph,
		Profiles:      profiles,
		TurnMap:       turnMap,
		LandmarkStore: landmarkStore,
	}, nil
}

// NewOverlay is a convenience wrapper around overlay.Build for callers
// assembling the per-session live-traffic table alongside a Decoded
// artifact (spec §4.4; overlay is not part of the static artifact).
func NewOverlay(edgeCount int, raws []overlay.RawEntry) *overlay.Overlay {
	return overlay.Build(edgeCount, raws)
}
