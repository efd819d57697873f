// Package taroerr defines the three failure kinds the engine raises
// (InvalidArtifact, InvalidConfig, InvalidInput) plus the ContractViolation
// and InternalInvariant variants used on the hot path, each carrying a
// stable Reason code for telemetry and runbook linking.
//
// Error policy mirrors the rest of the module: sentinels are package-level
// values, callers branch with errors.Is/errors.As, and context is attached
// with fmt.Errorf("%w", ...) wrapping rather than ad-hoc string formatting.
package taroerr

import (
	"errors"
	"fmt"
)

// Reason is a stable code identifying why a startup or per-query call
// failed. Reasons are part of the public contract: names and meanings do
// not change across versions.
type Reason string

// Temporal reasons (spec §6/§7).
const (
	ReasonTemporalConfigRequired    Reason = "TemporalConfigRequired"
	ReasonUnknownTemporalTrait      Reason = "UnknownTemporalTrait"
	ReasonUnknownTemporalStrategy   Reason = "UnknownTemporalStrategy"
	ReasonTimezonePolicyRequired    Reason = "TimezonePolicyRequired"
	ReasonTimezonePolicyNotAllowed  Reason = "TimezonePolicyNotApplicable"
	ReasonUnknownTimezonePolicy     Reason = "UnknownTimezonePolicy"
	ReasonModelTimezoneRequired     Reason = "ModelTimezoneRequired"
	ReasonInvalidModelTimezone      Reason = "InvalidModelTimezone"
	ReasonTemporalConfigIncompat    Reason = "TemporalConfigIncompatible"
	ReasonTemporalResolutionFailure Reason = "TemporalResolutionFailure"
)

// Transition reasons (spec §6/§7).
const (
	ReasonTransitionConfigRequired    Reason = "TransitionConfigRequired"
	ReasonUnknownTransitionTrait      Reason = "UnknownTransitionTrait"
	ReasonUnknownTransitionStrategy   Reason = "UnknownTransitionStrategy"
	ReasonTransitionConfigIncompat    Reason = "TransitionConfigIncompatible"
	ReasonTransitionResolutionFailure Reason = "TransitionResolutionFailure"
)

// Heuristic reasons (spec §6/§7).
const (
	ReasonTypeRequired             Reason = "TypeRequired"
	ReasonGraphRequired            Reason = "GraphRequired"
	ReasonProfileRequired          Reason = "ProfileRequired"
	ReasonCostRequired             Reason = "CostRequired"
	ReasonCoordinatesRequired      Reason = "CoordinatesRequired"
	ReasonSphericalLatRange        Reason = "SphericalLatRange"
	ReasonSphericalLonRange        Reason = "SphericalLonRange"
	ReasonLandmarkStoreRequired    Reason = "LandmarkStoreRequired"
	ReasonLandmarkNodeCountMismatch Reason = "LandmarkNodeCountMismatch"
	ReasonLandmarkEmpty            Reason = "LandmarkEmpty"
	ReasonLandmarkSignatureRequired Reason = "LandmarkSignatureRequired"
	ReasonLandmarkSignatureMismatch Reason = "LandmarkSignatureMismatch"
	ReasonCalibrationEmptyGraph     Reason = "CalibrationEmptyGraph"
	ReasonCalibrationBadWeight      Reason = "CalibrationInvalidBaseWeight"
	ReasonCalibrationBadTemporal    Reason = "CalibrationInvalidTemporalMinimum"
	ReasonCalibrationBadDistance    Reason = "CalibrationInvalidEdgeDistance"
	ReasonCalibrationBadRatio       Reason = "CalibrationInvalidRatio"
)

// CostEngine reasons (spec §4.5/§9).
const (
	ReasonEdgeIDOutOfRange        Reason = "EdgeIDOutOfRange"
	ReasonFromEdgeIDOutOfRange    Reason = "FromEdgeIDOutOfRange"
	ReasonBaseWeightInvalid       Reason = "BaseWeightInvalid"
	ReasonLivePenaltyInvalid      Reason = "LivePenaltyInvalid"
	ReasonTurnPenaltyInvalid      Reason = "TurnPenaltyInvalid"
	// ReasonTurnAppliedButZero reports a turn decision that is not applied
	// yet carries a non-zero penalty.
	ReasonTurnAppliedButZero      Reason = "TurnNotAppliedButNonZero"
	ReasonEdgeTravelCostNegative  Reason = "EdgeTravelCostNegativeOrNaN"
	ReasonEffectiveCostNegative   Reason = "EffectiveCostNegativeOrNaN"
	ReasonBucketSizeOverflow      Reason = "BucketSizeTicksOverflow"
	ReasonBucketSizeNotPositive   Reason = "BucketSizeSecondsNotPositive"
	ReasonUnknownSamplingPolicy   Reason = "UnknownTemporalSamplingPolicy"
)

// Search reasons (spec §4.8/§9).
const (
	ReasonSourceUnknown          Reason = "SourceExternalIdUnknown"
	ReasonTargetUnknown          Reason = "TargetExternalIdUnknown"
	ReasonDepartureTicksInvalid  Reason = "DepartureTicksNonFinite"
	ReasonUnsupportedHeuristic   Reason = "UnsupportedHeuristicType"
	ReasonPoolExhausted          Reason = "PoolExhausted"
	ReasonHeapFull               Reason = "HeapFull"
	ReasonDoubleRecycle          Reason = "DoubleRecycle"
	ReasonRecycleWithNoneActive  Reason = "RecycleWithNoneActive"
	ReasonQueueInvariantViolated Reason = "QueueInvariantViolated"
	ReasonCancelled              Reason = "Cancelled"
)

// Artifact reasons (spec §6).
const (
	ReasonInvalidFileIdentifier   Reason = "InvalidFileIdentifier"
	ReasonUnsupportedSchemaVersion Reason = "UnsupportedSchemaVersion"
	ReasonTickDurationMismatch    Reason = "TickDurationMismatch"
	ReasonProfileBuildFailed      Reason = "ProfileBuildFailed"
	ReasonTurnCostBuildFailed     Reason = "TurnCostBuildFailed"
	ReasonArtifactLandmarkNodeCountMismatch Reason = "LandmarkNodeCountMismatch"
	ReasonArtifactLandmarkSignatureMismatch Reason = "LandmarkSignatureMismatch"
)

// Sentinel kind errors. Use errors.Is to branch on kind; use As or the
// Reason() accessor to recover the specific code.
var (
	// ErrInvalidArtifact is raised at startup when a binary artifact or a
	// pre-decoded buffer fails structural validation. Fatal; never caught
	// internally.
	ErrInvalidArtifact = errors.New("taro: invalid artifact")

	// ErrInvalidConfig is raised at startup by the temporal/transition
	// binders and the heuristic factory when a reason-coded configuration
	// validation fails.
	ErrInvalidConfig = errors.New("taro: invalid config")

	// ErrInvalidInput is raised per-query for out-of-range ids, unknown
	// external ids, or non-finite departure ticks. Recoverable: the query
	// session is reset and reused.
	ErrInvalidInput = errors.New("taro: invalid input")

	// ErrContractViolation is raised when an intermediate cost value
	// violates a finite/non-negative invariant the engine requires.
	ErrContractViolation = errors.New("taro: contract violation")

	// ErrInternalInvariant is a fatal bug-indicating error: a hot-path
	// bounds check that should never fail in a correctly built artifact
	// failed anyway.
	ErrInternalInvariant = errors.New("taro: internal invariant violated")
)

// CodedError wraps one of the sentinel kinds above with a stable Reason
// and a free-form field/stage description.
type CodedError struct {
	kind   error
	Reason Reason
	Field  string
	Index  int // -1 when not applicable
	cause  error
}

// Error implements the error interface.
func (e *CodedError) Error() string {
	if e.Field == "" && e.Index < 0 {
		return fmt.Sprintf("%v: %s", e.kind, e.Reason)
	}
	if e.Index >= 0 {
		return fmt.Sprintf("%v: %s (field=%s index=%d)", e.kind, e.Reason, e.Field, e.Index)
	}
	return fmt.Sprintf("%v: %s (field=%s)", e.kind, e.Reason, e.Field)
}

// Unwrap exposes both the sentinel kind and any wrapped cause to
// errors.Is/errors.As chains.
func (e *CodedError) Unwrap() []error {
	if e.cause != nil {
		return []error{e.kind, e.cause}
	}
	return []error{e.kind}
}

// newCoded builds a *CodedError for the given kind/reason; index defaults
// to -1 (not applicable) unless set via WithIndex.
func newCoded(kind error, reason Reason, field string) *CodedError {
	return &CodedError{kind: kind, Reason: reason, Field: field, Index: -1}
}

// WithIndex attaches a positional index (e.g. an offending edge or bucket)
// to a CodedError and returns it for chaining.
func (e *CodedError) WithIndex(i int) *CodedError {
	e.Index = i
	return e
}

// WithCause attaches an underlying cause, preserved for errors.Is/As.
func (e *CodedError) WithCause(cause error) *CodedError {
	e.cause = cause
	return e
}

// Artifact builds an InvalidArtifact error for the named field/stage.
func Artifact(field string, reason Reason) *CodedError {
	return newCoded(ErrInvalidArtifact, reason, field)
}

// Config builds an InvalidConfig error for the named binder/factory stage.
func Config(stage string, reason Reason) *CodedError {
	return newCoded(ErrInvalidConfig, reason, stage)
}

// Input builds an InvalidInput error for the named request field.
func Input(field string, reason Reason) *CodedError {
	return newCoded(ErrInvalidInput, reason, field)
}

// Contract builds a ContractViolation error for the named invariant.
func Contract(field string, reason Reason) *CodedError {
	return newCoded(ErrContractViolation, reason, field)
}

// Internal builds an InternalInvariant error for the named hot-path check.
func Internal(field string, reason Reason) *CodedError {
	return newCoded(ErrInternalInvariant, reason, field)
}
