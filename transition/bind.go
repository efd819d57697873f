package transition

import "github.com/katalvlaran/taro/taroerr"

const stageTransitionBind = "transition.Bind"

// Bind validates trait compatibility (spec §4.6 "Transition compatibility
// policy") and constructs the immutable ResolvedTransitionContext.
//
//   - EDGE_BASED requires AppliesFiniteTurnPenalties = true.
//   - NODE_BASED requires AppliesFiniteTurnPenalties = false.
func Bind(traitID TraitID) (*ResolvedTransitionContext, error) {
	if traitID == "" {
		return nil, taroerr.Config(stageTransitionBind, taroerr.ReasonTransitionConfigRequired)
	}

	strategy, err := Lookup(traitID)
	if err != nil {
		return nil, taroerr.Config(stageTransitionBind, taroerr.ReasonUnknownTransitionTrait).WithCause(err)
	}
	trait := strategy.Trait()

	switch traitID {
	case EdgeBased:
		if !trait.AppliesFiniteTurnPenalties {
			return nil, taroerr.Config(stageTransitionBind, taroerr.ReasonTransitionConfigIncompat)
		}
	case NodeBased:
		if trait.AppliesFiniteTurnPenalties {
			return nil, taroerr.Config(stageTransitionBind, taroerr.ReasonTransitionConfigIncompat)
		}
	default:
		return nil, taroerr.Config(stageTransitionBind, taroerr.ReasonTransitionConfigIncompat)
	}

	return &ResolvedTransitionContext{Strategy: strategy}, nil
}
