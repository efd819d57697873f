package temporal

import (
	"github.com/katalvlaran/taro/taroerr"
)

const stageTemporalBind = "temporal.Bind"

// Bind validates trait/timezone-policy compatibility (spec §4.6
// "Temporal compatibility policy") and constructs the immutable
// ResolvedTemporalContext. tzPolicy is nil when no timezone policy was
// requested.
//
//   - CALENDAR requires a timezone policy and is day-mask-aware.
//   - LINEAR forbids a timezone policy and is day-mask-agnostic.
//
// rangeStart/rangeEnd/stepSeconds bound and granulate the offset cache
// built for CALENDAR; they are ignored for LINEAR.
func Bind(traitID TraitID, tzPolicy *TimezonePolicyID, zoneMetadata string, rangeStart, rangeEnd, stepSeconds int64) (*ResolvedTemporalContext, error) {
	if traitID == "" {
		return nil, taroerr.Config(stageTemporalBind, taroerr.ReasonTemporalConfigRequired)
	}

	strategy, err := Lookup(traitID)
	if err != nil {
		return nil, taroerr.Config(stageTemporalBind, taroerr.ReasonUnknownTemporalTrait).WithCause(err)
	}
	trait := strategy.Trait()

	switch traitID {
	case Calendar:
		if !trait.DayMaskAware {
			return nil, taroerr.Config(stageTemporalBind, taroerr.ReasonTemporalConfigIncompat)
		}
		if tzPolicy == nil {
			return nil, taroerr.Config(stageTemporalBind, taroerr.ReasonTimezonePolicyRequired)
		}
		zone, zerr := resolveZoneChecked(*tzPolicy, zoneMetadata)
		if zerr != nil {
			return nil, zerr
		}
		cache := BuildOffsetCache(zone, rangeStart, rangeEnd, stepSeconds)
		return &ResolvedTemporalContext{Strategy: strategy, Zone: zone, Cache: cache}, nil

	case Linear:
		if trait.DayMaskAware {
			return nil, taroerr.Config(stageTemporalBind, taroerr.ReasonTemporalConfigIncompat)
		}
		if tzPolicy != nil {
			return nil, taroerr.Config(stageTemporalBind, taroerr.ReasonTimezonePolicyNotAllowed)
		}
		return &ResolvedTemporalContext{Strategy: strategy}, nil

	default:
		return nil, taroerr.Config(stageTemporalBind, taroerr.ReasonTemporalConfigIncompat)
	}
}

// resolveZoneChecked wraps ResolveZone with the reason codes the binder
// reports for each failure mode.
func resolveZoneChecked(policy TimezonePolicyID, zoneMetadata string) (*Zone, error) {
	switch policy {
	case UTC, ModelTimezone:
		zone, err := ResolveZone(policy, zoneMetadata)
		if err != nil {
			switch err {
			case ErrBlankZoneID:
				return nil, taroerr.Config(stageTemporalBind, taroerr.ReasonModelTimezoneRequired)
			case ErrUnparsableZone:
				return nil, taroerr.Config(stageTemporalBind, taroerr.ReasonInvalidModelTimezone)
			default:
				return nil, taroerr.Config(stageTemporalBind, taroerr.ReasonUnknownTimezonePolicy).WithCause(err)
			}
		}
		return zone, nil
	default:
		return nil, taroerr.Config(stageTemporalBind, taroerr.ReasonUnknownTimezonePolicy)
	}
}
